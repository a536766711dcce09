// Copyright © 2025 The Parlor authors

package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() (*Session, *bytes.Buffer) {
	var buf bytes.Buffer
	s := NewSession(&buf)
	return s, &buf
}

func TestRegistrySplit(t *testing.T) {
	r := DefaultRegistry()

	cmd, rest, ok := r.Split("help")
	require.True(t, ok)
	assert.Equal(t, "help", cmd.Name)
	assert.Equal(t, "", rest)

	cmd, rest, ok = r.Split("  dump $x + 1  ")
	require.True(t, ok)
	assert.Equal(t, "dump", cmd.Name)
	assert.Equal(t, "$x + 1", rest)

	cmd, _, ok = r.Split("q")
	require.True(t, ok)
	assert.Equal(t, "exit", cmd.Name)

	_, _, ok = r.Split("ls();")
	assert.False(t, ok)
	_, _, ok = r.Split("$x = 1;")
	assert.False(t, ok)
}

func TestRegistryStrip(t *testing.T) {
	r := DefaultRegistry()

	code, offset := r.Strip("dump $x + 1")
	assert.Equal(t, "$x + 1", code)
	assert.Equal(t, 5, offset)

	// Word commands strip to nothing so their argument list never hits
	// the syntax checker.
	code, offset = r.Strip("ls functions")
	assert.Equal(t, "", code)
	assert.Equal(t, len("ls functions"), offset)

	// Plain source passes through untouched.
	code, offset = r.Strip("$x = 1;")
	assert.Equal(t, "$x = 1;", code)
	assert.Equal(t, 0, offset)
}

func TestSplitArgs(t *testing.T) {
	args, err := SplitArgs(`one two`)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, args)

	args, err = SplitArgs(`"with space" 'also this' bare`)
	require.NoError(t, err)
	assert.Equal(t, []string{"with space", "also this", "bare"}, args)

	args, err = SplitArgs("   ")
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestHelpCommand(t *testing.T) {
	s, buf := newTestSession()
	require.NoError(t, s.Execute("help"))
	out := buf.String()
	for _, name := range s.Registry.Names() {
		assert.Contains(t, out, name)
	}

	buf.Reset()
	require.NoError(t, s.Execute("help dump"))
	assert.Contains(t, buf.String(), "dump <expression>")

	assert.Error(t, s.Execute("help nosuch"))
}

func TestLsCommand(t *testing.T) {
	s, buf := newTestSession()
	require.NoError(t, s.Execute(`$answer = 42;`))
	require.NoError(t, s.Execute(`class Point {}`))

	require.NoError(t, s.Execute("ls vars"))
	assert.Equal(t, "$answer = 42\n", buf.String())

	buf.Reset()
	require.NoError(t, s.Execute("ls classes"))
	assert.Equal(t, "class Point\n", buf.String())

	buf.Reset()
	require.NoError(t, s.Execute("ls functions"))
	assert.Contains(t, buf.String(), "strlen($str)")
}

func TestDocCommand(t *testing.T) {
	s, buf := newTestSession()
	require.NoError(t, s.Execute("doc strlen"))
	assert.Contains(t, buf.String(), "strlen($str)")
	assert.Contains(t, buf.String(), "byte length")

	require.NoError(t, s.Execute(`class Point extends Shape { public $x; }`))
	buf.Reset()
	require.NoError(t, s.Execute("doc Point"))
	assert.Contains(t, buf.String(), "class Point extends Shape")
	assert.Contains(t, buf.String(), "property x")

	assert.Error(t, s.Execute("doc nosuch"))
}

func TestDumpCommand(t *testing.T) {
	s, buf := newTestSession()
	require.NoError(t, s.Execute(`$a = [1, "two"];`))
	require.NoError(t, s.Execute(`dump $a`))
	assert.Contains(t, buf.String(), "array(2)")
	assert.Contains(t, buf.String(), `string(3) "two"`)

	assert.Error(t, s.Execute("dump"))
	assert.Error(t, s.Execute("dump $missing"))
}

func TestExitAndClear(t *testing.T) {
	s, _ := newTestSession()
	assert.ErrorIs(t, s.Execute("exit"), ErrExit)
	assert.ErrorIs(t, s.Execute("quit"), ErrExit)
	assert.ErrorIs(t, s.Execute("clear"), ErrClear)
}

func TestSessionExecutesSource(t *testing.T) {
	s, buf := newTestSession()
	require.NoError(t, s.Execute(`echo "hi";`))
	assert.Equal(t, "hi\n", buf.String())
}
