// Copyright © 2025 The Parlor authors

package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/parlorsh/parlor/complete"
	"github.com/parlorsh/parlor/scope"
	"github.com/parlorsh/parlor/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetForPosition(t *testing.T) {
	content := "echo 1;\n$x = 2;\n"
	tests := []struct {
		line, char, want int
	}{
		{0, 0, 0},
		{0, 4, 4},
		{1, 0, 8},
		{1, 7, 15},
		{0, 99, 7},  // clamps to end of line
		{9, 0, 16},  // clamps to end of content
	}
	for _, test := range tests {
		got := offsetForPosition(content, test.line, test.char)
		assert.Equal(t, test.want, got, "line %d char %d", test.line, test.char)
	}
}

func TestCheckDiagnosticsClean(t *testing.T) {
	diags := checkDiagnostics("file:///scratch.php", `echo "ok";`)
	require.NotNil(t, diags, "clean check must clear old diagnostics with an empty slice")
	assert.Empty(t, diags)
}

func TestCheckDiagnosticsError(t *testing.T) {
	diags := checkDiagnostics("file:///scratch.php", "echo 1;\n)(")
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "parlor", *d.Source)
	assert.Equal(t, "unexpected-token", d.Code.Value)
	assert.Equal(t, safeUint(1), d.Range.Start.Line)
	assert.Equal(t, safeUint(0), d.Range.Start.Character)
}

func TestCheckDiagnosticsIncomplete(t *testing.T) {
	// Unlike the shell, an editor buffer that simply ends early is still
	// reported; the kind travels in the diagnostic code.
	diags := checkDiagnostics("file:///scratch.php", "if (true) {")
	require.Len(t, diags, 1)
	assert.Equal(t, "unclosed-delimiter", diags[0].Code.Value)
}

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Open("file:///a.php", 1, "echo 1;")
	assert.Equal(t, "echo 1;", doc.Snapshot())
	assert.Same(t, doc, store.Get("file:///a.php"))

	store.Change("file:///a.php", 2, "echo 2;")
	assert.Equal(t, "echo 2;", doc.Snapshot())
	assert.Equal(t, int32(2), doc.Version)

	// Changing an untracked document registers it.
	other := store.Change("file:///b.php", 1, "$x;")
	assert.Same(t, other, store.Get("file:///b.php"))

	store.Close("file:///a.php")
	assert.Nil(t, store.Get("file:///a.php"))
}

func TestServerCompletion(t *testing.T) {
	env := shell.NewEnv()
	env.SetVar("counter", int64(1))
	s := New(WithResolver(env))
	s.docs.Open("file:///a.php", 1, "$cou")

	res, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.php"},
			Position:     protocol.Position{Line: 0, Character: 4},
		},
	})
	require.NoError(t, err)
	items, ok := res.([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "$counter", items[0].Label)
	assert.Equal(t, protocol.CompletionItemKindVariable, *items[0].Kind)
}

func TestServerCompletionMembers(t *testing.T) {
	env := shell.NewEnv()
	env.DefineClass(&shell.ClassInfo{Name: "Point", Members: memberFixtures()})
	env.SetVar("p", &shell.Object{Class: "Point"})
	s := New(WithResolver(env))
	s.docs.Open("file:///a.php", 1, "$p->")

	res, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.php"},
			Position:     protocol.Position{Line: 0, Character: 4},
		},
	})
	require.NoError(t, err)
	items, ok := res.([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "move", items[0].Label)
	assert.Equal(t, protocol.CompletionItemKindMethod, *items[0].Kind)
	assert.Equal(t, "x", items[1].Label)
	assert.Equal(t, protocol.CompletionItemKindProperty, *items[1].Kind)
}

func TestServerCompletionUnknownDocument(t *testing.T) {
	s := New()
	res, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///nope.php"},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func memberFixtures() []scope.MemberInfo {
	return []scope.MemberInfo{
		{Name: "x", Kind: scope.Property},
		{Name: "move", Kind: scope.Method},
	}
}

func TestMapCompletionItemKind(t *testing.T) {
	assert.Equal(t, protocol.CompletionItemKindVariable, mapCompletionItemKind(complete.KindVariable))
	assert.Equal(t, protocol.CompletionItemKindMethod, mapCompletionItemKind(complete.KindMethod))
	assert.Equal(t, protocol.CompletionItemKindConstant, mapCompletionItemKind(complete.KindClassConst))
}
