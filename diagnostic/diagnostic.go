// Copyright © 2025 The Parlor authors

// Package diagnostic provides Rust-style annotated error rendering for
// parlor output. It is independent of the parser and shell packages so
// that any command or surface can use it without import cycles.
package diagnostic

// Severity indicates the severity level of a diagnostic.  The shell and
// the check command report errors; warnings are reserved for advisory
// reports that do not reject the input.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic represents a single error or warning with optional source
// annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines (hints, stack frames, etc.)
}
