// Copyright © 2025 The Parlor authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0600))
	return path
}

func TestCheckFileClean(t *testing.T) {
	path := writeSource(t, "ok.php", "$x = 1;\necho $x;\n")
	var buf bytes.Buffer
	err := checkFile(&buf, path)
	assert.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestCheckFileSyntaxError(t *testing.T) {
	path := writeSource(t, "bad.php", "echo (1 + ];\n")
	var buf bytes.Buffer
	err := checkFile(&buf, path)
	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, "error:")
	assert.Contains(t, out, path)
}

func TestCheckFileUnterminated(t *testing.T) {
	path := writeSource(t, "open.php", "$s = \"never closed\n")
	var buf bytes.Buffer
	err := checkFile(&buf, path)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "unterminated")
}

func TestCheckFileMissing(t *testing.T) {
	var buf bytes.Buffer
	err := checkFile(&buf, filepath.Join(t.TempDir(), "nope.php"))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "nope.php")
}
