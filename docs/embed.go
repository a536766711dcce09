// Copyright © 2025 The Parlor authors

// Package docs embeds the parlor shell guide for use by the CLI.
package docs

import _ "embed"

//go:embed guide.md
var ShellGuide string
