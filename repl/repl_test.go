// Copyright © 2025 The Parlor authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlorsh/parlor/shell"
)

func runShellWithString(t *testing.T, input string) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	go func() {
		histFile := filepath.Join(t.TempDir(), "history")
		_ = Run(WithStdin(inR), WithStdout(outW), WithHistoryFile(histFile))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String()
}

func TestRunShell(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "echo",
			input:    "echo \"hello\";\nexit\n",
			expected: "hello",
		},
		{
			name:     "expression result",
			input:    "1 + 2;\nexit\n",
			expected: "=> 3",
		},
		{
			name:     "multi-line input",
			input:    "$x = 10 +\n32;\n$x;\nexit\n",
			expected: "=> 42",
		},
		{
			name:     "meta-command",
			input:    "$y = 1;\nls vars\nexit\n",
			expected: "$y = 1",
		},
		{
			name:     "syntax error",
			input:    ")(\nexit\n",
			expected: "error",
		},
		{
			name:     "undefined variable",
			input:    "$nope;\nexit\n",
			expected: "undefined variable $nope",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runShellWithString(t, tc.input)
			require.Contains(t, got, tc.expected)
		})
	}
}

func TestRunShellClearDiscardsBuffer(t *testing.T) {
	// clear on a continuation line abandons the half-typed construct, so
	// the following complete statement still executes.
	got := runShellWithString(t, "if (true) {\nclear\necho \"after\";\nexit\n")
	assert.Contains(t, got, "after")
	assert.NotContains(t, got, "not executed")
}

func TestIsClearCommandDoesNotRunOthers(t *testing.T) {
	var out bytes.Buffer
	session := shell.NewSession(&out)

	assert.True(t, isClearCommand(session, "clear"))
	assert.True(t, isClearCommand(session, "  clear  "))

	// Other zero-argument commands must be neither recognized nor executed;
	// a stray "help" on a continuation line joins the buffer silently.
	assert.False(t, isClearCommand(session, "help"))
	assert.False(t, isClearCommand(session, "ls"))
	assert.False(t, isClearCommand(session, "clear now"))
	assert.Empty(t, out.String())
}

func TestRunShellEndsAtEOF(t *testing.T) {
	got := runShellWithString(t, "echo \"bye\";\n")
	assert.Contains(t, got, "bye")
}

func TestContinuationPrompt(t *testing.T) {
	assert.Equal(t, "   ...> ", continuationPrompt("parlor> "))
	assert.Len(t, continuationPrompt("parlor> "), len("parlor> "))
	assert.Equal(t, "...> ", continuationPrompt(">"))
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".parlor_history")

	// File does not exist yet.
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".parlor_history")

	// Create the file with overly permissive mode.
	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	// Verify contents are preserved.
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	// Should not panic or error with empty path.
	ensureHistoryFilePermissions("")
}
