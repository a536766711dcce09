// Copyright © 2025 The Parlor authors

package input

import (
	"context"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/parlorsh/parlor/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectStates(t *testing.T) {
	tests := []struct {
		source string
		state  State
	}{
		{`echo "hello";`, Complete},
		{`if (true) { echo 1; }`, Complete},
		{`$x = 1 + 2;`, Complete},
		{`echo 1`, Complete}, // final semicolon is optional interactively
		{``, Complete},

		{`if (true) {`, Incomplete},
		{`function f() {`, Incomplete},
		{`echo "unterminated`, Incomplete},
		{`$x = <<<EOT` + "\nbody", Incomplete},
		{`1 +`, Incomplete},
		{`$x =`, Incomplete},
		{`foo(1, 2`, Incomplete},
		{`/* open comment`, Incomplete},

		{`)(`, SyntaxError},
		{`}`, SyntaxError},
		{`echo if;`, SyntaxError},
		{`foo(]`, SyntaxError},
	}
	d := NewDetector()
	for _, test := range tests {
		state, info := d.Detect(context.Background(), test.source)
		assert.Equal(t, test.state, state, "source: %q", test.source)
		if test.state == Complete {
			assert.Nil(t, info, "source: %q", test.source)
		} else {
			assert.NotNil(t, info, "source: %q", test.source)
		}
	}
}

func TestDetectIncompleteKinds(t *testing.T) {
	d := NewDetector()
	kinds := map[string]parser.ErrorKind{
		`if (true) {`:       parser.ErrUnclosedDelimiter,
		`echo "unterminated`: parser.ErrUnterminatedLiteral,
		`1 +`:               parser.ErrUnexpectedEOF,
	}
	for source, kind := range kinds {
		_, info := d.Detect(context.Background(), source)
		require.NotNil(t, info, "source: %q", source)
		assert.Equal(t, kind, info.Kind, "source: %q", source)
	}
}

func TestDetectAccumulation(t *testing.T) {
	// A multi-line construct stays incomplete until its closer arrives,
	// then settles at Complete without oscillating.
	d := NewDetector()
	var buf Buffer
	steps := []struct {
		line  string
		state State
	}{
		{`if ($x > 0) {`, Incomplete},
		{`    echo $x;`, Incomplete},
		{`}`, Complete},
	}
	for _, step := range steps {
		buf.Append(step.line)
		state, _ := d.Detect(context.Background(), buf.Source())
		assert.Equal(t, step.state, state, "after line: %q", step.line)
	}

	// Detection is idempotent over the finished buffer.
	final := buf.Source()
	for i := 0; i < 3; i++ {
		state, info := d.Detect(context.Background(), final)
		assert.Equal(t, Complete, state)
		assert.Nil(t, info)
	}
	assert.Equal(t, final, buf.Source(), "detection must not mutate the buffer")
}

func TestDetectSyntaxErrorIsTerminal(t *testing.T) {
	// Once input is malformed, appending more lines cannot repair it.
	d := NewDetector()
	var buf Buffer
	buf.Append(`)(`)
	state, _ := d.Detect(context.Background(), buf.Source())
	require.Equal(t, SyntaxError, state)

	buf.Append(`echo 1;`)
	state, _ = d.Detect(context.Background(), buf.Source())
	assert.Equal(t, SyntaxError, state)

	// An appended line that opens a string must not pull the buffer back
	// into the continuation prompt.
	buf.Append(`echo "open`)
	state, _ = d.Detect(context.Background(), buf.Source())
	assert.Equal(t, SyntaxError, state)
}

func TestDetectWithStrip(t *testing.T) {
	strip := func(raw string) (string, int) {
		const cmd = "dump "
		if strings.HasPrefix(raw, cmd) {
			return raw[len(cmd):], len(cmd)
		}
		return raw, 0
	}
	d := NewDetector(WithStrip(strip))

	state, _ := d.Detect(context.Background(), `dump $x + 1`)
	assert.Equal(t, Complete, state)

	// Error positions are reported against the original raw input.
	state, info := d.Detect(context.Background(), `dump )(`)
	require.Equal(t, SyntaxError, state)
	require.NotNil(t, info)
	assert.Equal(t, 5, info.Pos)
	assert.Equal(t, 6, info.Col)
}

func TestDetectTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	d := NewDetector(WithDetectorTracer(provider.Tracer("test")))

	d.Detect(context.Background(), `echo 1;`)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "detect", spans[0].Name())
}

func TestBuffer(t *testing.T) {
	var buf Buffer
	assert.True(t, buf.Empty())
	assert.Equal(t, "", buf.Source())

	buf.Append("if (true) {")
	buf.Append("}")
	assert.False(t, buf.Empty())
	assert.Equal(t, 2, buf.Len())
	assert.Equal(t, "if (true) {\n}", buf.Source())

	buf.Reset()
	assert.True(t, buf.Empty())
	assert.Equal(t, "", buf.Source())
}
