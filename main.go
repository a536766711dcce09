// Copyright © 2025 The Parlor authors

package main

import "github.com/parlorsh/parlor/cmd"

func main() {
	cmd.Execute()
}
