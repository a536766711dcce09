// Copyright © 2025 The Parlor authors

package repl

import (
	"testing"

	"github.com/parlorsh/parlor/complete"
	"github.com/parlorsh/parlor/input"
	"github.com/parlorsh/parlor/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompleter() (*bufferCompleter, *shell.Env, *input.Buffer) {
	env := shell.NewEnv()
	var buf input.Buffer
	engine := complete.NewEngine(env,
		complete.WithAux(complete.AuxCommands, shell.DefaultRegistry().Names()),
	)
	return &bufferCompleter{engine: engine, buffer: &buf}, env, &buf
}

func suffixes(result [][]rune) []string {
	out := make([]string, len(result))
	for i, r := range result {
		out[i] = string(r)
	}
	return out
}

func TestCompleterVariables(t *testing.T) {
	c, env, _ := newTestCompleter()
	env.SetVar("counter", int64(0))

	line := []rune("$cou")
	result, n := c.Do(line, len(line))
	assert.Equal(t, []string{"nter"}, suffixes(result))
	assert.Equal(t, 4, n)
}

func TestCompleterLoneSigil(t *testing.T) {
	c, env, _ := newTestCompleter()
	env.SetVar("count", int64(0))

	// The suffix after a bare "$" must not repeat the sigil: splicing the
	// result into the line has to produce "$count", not "$$count".
	line := []rune("$")
	result, n := c.Do(line, len(line))
	assert.Equal(t, []string{"count"}, suffixes(result))
	assert.Equal(t, 1, n)
}

func TestCompleterFunctions(t *testing.T) {
	c, _, _ := newTestCompleter()
	line := []rune("strto")
	result, n := c.Do(line, len(line))
	require.NotEmpty(t, result)
	assert.Contains(t, suffixes(result), "upper")
	assert.Contains(t, suffixes(result), "lower")
	assert.Equal(t, 5, n)
}

func TestCompleterCommands(t *testing.T) {
	c, _, _ := newTestCompleter()
	line := []rune("he")
	result, _ := c.Do(line, len(line))
	assert.Contains(t, suffixes(result), "lp")
}

func TestCompleterAcrossContinuationLines(t *testing.T) {
	c, env, buf := newTestCompleter()
	env.SetVar("total", int64(0))
	buf.Append("function tally() {")

	// Inside the pending function body the engine still sees $total.
	line := []rune("    return $to")
	result, n := c.Do(line, len(line))
	assert.Equal(t, []string{"tal"}, suffixes(result))
	assert.Equal(t, 3, n)
}

func TestCompleterNoMatches(t *testing.T) {
	c, _, _ := newTestCompleter()
	line := []rune("$zzz")
	result, n := c.Do(line, len(line))
	assert.Nil(t, result)
	assert.Equal(t, 0, n)
}
