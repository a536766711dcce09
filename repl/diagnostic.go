// Copyright © 2025 The Parlor authors

package repl

import (
	"fmt"
	"io"

	"github.com/parlorsh/parlor/diagnostic"
	"github.com/parlorsh/parlor/parser"
	"github.com/parlorsh/parlor/shell"
)

const inputName = "<input>"

// renderSyntaxError renders a checker failure as an annotated snippet of
// the rejected buffer.
func renderSyntaxError(w io.Writer, source string, info *parser.ErrorInfo) {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  info.Message,
		Notes:    []string{"type help to list shell commands"},
	}
	if info.Line > 0 {
		d.Spans = []diagnostic.Span{{
			File: inputName,
			Line: info.Line,
			Col:  info.Col,
		}}
	}
	r := &diagnostic.Renderer{
		Color:        diagnostic.ColorAuto,
		SourceReader: diagnostic.BufferSource(inputName, source),
	}
	_ = r.Render(w, d)
}

// renderEvalError renders a session execution failure.  Evaluator errors
// carry positions and get the annotated treatment; command errors print
// plainly.
func renderEvalError(w io.Writer, source string, err error) {
	ee, ok := err.(*shell.EvalError)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  ee.Message,
	}
	if ee.Line > 0 {
		d.Spans = []diagnostic.Span{{
			File: inputName,
			Line: ee.Line,
			Col:  ee.Col,
		}}
	}
	r := &diagnostic.Renderer{
		Color:        diagnostic.ColorAuto,
		SourceReader: diagnostic.BufferSource(inputName, source),
	}
	_ = r.Render(w, d)
}
