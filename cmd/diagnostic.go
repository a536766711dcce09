// Copyright © 2025 The Parlor authors

package cmd

import (
	"github.com/parlorsh/parlor/diagnostic"
	"github.com/parlorsh/parlor/parser"
)

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// checkErrorToDiagnostic converts a checker failure on file to a
// renderable diagnostic.
func checkErrorToDiagnostic(file string, info *parser.ErrorInfo) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  info.Message,
	}
	if info.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: file,
			Line: info.Line,
			Col:  info.Col,
		})
	}
	return d
}
