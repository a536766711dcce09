// Copyright © 2025 The Parlor authors

// Package input decides whether accumulated interactive input is ready to
// run.  The detector classifies a buffer as complete, incomplete (keep
// reading lines), or a hard syntax error, based on the structured error
// kind reported by the parser.
package input

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/parlorsh/parlor/parser"
)

// State classifies buffered input.
type State int

const (
	// Complete input parses cleanly and can be handed to evaluation.
	Complete State = iota
	// Incomplete input fails only because it ends too soon; the session
	// should keep reading continuation lines.
	Incomplete
	// SyntaxError input is malformed in a way more input cannot repair.
	SyntaxError
)

func (s State) String() string {
	switch s {
	case Complete:
		return "complete"
	case Incomplete:
		return "incomplete"
	case SyntaxError:
		return "syntax-error"
	}
	return "unknown"
}

// StripFunc removes non-source framing (for example a leading shell
// meta-command) from raw input before syntax analysis.  It returns the
// remaining source and the byte offset of that source within the
// original text so error positions can be mapped back.
type StripFunc func(raw string) (src string, offset int)

// Detector classifies input buffers.  A zero-value Detector is usable;
// options add framing removal and tracing.
type Detector struct {
	strip  StripFunc
	tracer trace.Tracer
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithStrip installs a framing filter applied before analysis.
func WithStrip(strip StripFunc) DetectorOption {
	return func(d *Detector) { d.strip = strip }
}

// WithDetectorTracer instruments detection with spans.
func WithDetectorTracer(tracer trace.Tracer) DetectorOption {
	return func(d *Detector) { d.tracer = tracer }
}

// NewDetector returns a Detector.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect classifies source.  The returned error detail is nil exactly
// when the state is Complete.  Detection is a pure function of its
// input: feeding the same buffer twice yields the same answer, and a
// buffer is never mutated.
func (d *Detector) Detect(ctx context.Context, source string) (State, *parser.ErrorInfo) {
	if d.tracer != nil {
		var span trace.Span
		_, span = d.tracer.Start(ctx, "detect")
		defer span.End()
		state, info := d.detect(source)
		span.SetAttributes(attribute.String("input.state", state.String()))
		return state, info
	}
	return d.detect(source)
}

func (d *Detector) detect(source string) (State, *parser.ErrorInfo) {
	offset := 0
	if d.strip != nil {
		source, offset = d.strip(source)
	}
	info := parser.Check("<input>", source)
	if info == nil {
		return Complete, nil
	}
	if offset > 0 {
		info = rebase(info, offset)
	}
	switch info.Kind {
	case parser.ErrUnexpectedEOF, parser.ErrUnterminatedLiteral, parser.ErrUnclosedDelimiter:
		return Incomplete, info
	}
	// Unknown kinds fail hard.  Guessing "incomplete" for an error we do
	// not understand would trap the user in a continuation prompt.
	return SyntaxError, info
}

// rebase shifts an error position forward by the number of bytes removed
// from the front of the original input.  Stripped framing never contains
// a newline, so only first-line columns move.
func rebase(info *parser.ErrorInfo, offset int) *parser.ErrorInfo {
	shifted := *info
	shifted.Pos += offset
	if shifted.Line == 1 {
		shifted.Col += offset
	}
	return &shifted
}

// Buffer accumulates input lines across continuation prompts.
type Buffer struct {
	lines []string
}

// Append adds one raw line (without its trailing newline).
func (b *Buffer) Append(line string) {
	b.lines = append(b.lines, line)
}

// Source returns the buffered lines joined with newlines.
func (b *Buffer) Source() string {
	return strings.Join(b.lines, "\n")
}

// Len returns the number of buffered lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Empty reports whether nothing is buffered.
func (b *Buffer) Empty() bool {
	return len(b.lines) == 0
}

// Reset discards all buffered lines.
func (b *Buffer) Reset() {
	b.lines = b.lines[:0]
}
