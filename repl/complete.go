// Copyright © 2025 The Parlor authors

package repl

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/parlorsh/parlor/complete"
	"github.com/parlorsh/parlor/input"
)

// bufferCompleter adapts the completion engine to readline.AutoCompleter.
// The engine sees the pending multi-line buffer joined with the line being
// edited, so completion works inside continuation lines.
type bufferCompleter struct {
	engine *complete.Engine
	buffer *input.Buffer
}

func (c *bufferCompleter) Do(line []rune, pos int) ([][]rune, int) {
	source := string(line[:pos])
	if !c.buffer.Empty() {
		source = c.buffer.Source() + "\n" + source
	}
	res := c.engine.Complete(context.Background(), source, len(source))
	if len(res.Candidates) == 0 {
		return nil, 0
	}

	// Readline completion appends a suffix after the typed prefix, so only
	// candidates that extend the prefix verbatim are usable here.  The
	// looser substring matches still surface in the LSP menu.
	result := make([][]rune, 0, len(res.Candidates))
	for _, cand := range res.Candidates {
		if !strings.HasPrefix(cand.Text, res.Prefix) {
			continue
		}
		result = append(result, []rune(cand.Text[len(res.Prefix):]))
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, utf8.RuneCountInString(res.Prefix)
}
