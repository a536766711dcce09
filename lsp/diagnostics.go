// Copyright © 2025 The Parlor authors

package lsp

import (
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/parlorsh/parlor/parser"
)

const debounceDelay = 300 * time.Millisecond

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.checkAndPublish(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	// Debounce: delay analysis to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() { _ = recover() }() // don't crash the server on a check panic
		d := s.docs.Get(doc.URI)
		if d != nil {
			s.checkAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	// Cancel any pending debounce and publish immediately.
	s.debounceMu.Lock()
	if t, ok := s.debounce[params.TextDocument.URI]; ok {
		t.Stop()
		delete(s.debounce, params.TextDocument.URI)
	}
	s.debounceMu.Unlock()

	doc := s.docs.Get(params.TextDocument.URI)
	if doc != nil {
		s.checkAndPublish(doc)
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	// Cancel pending debounce.
	s.debounceMu.Lock()
	if t, ok := s.debounce[params.TextDocument.URI]; ok {
		t.Stop()
		delete(s.debounce, params.TextDocument.URI)
	}
	s.debounceMu.Unlock()

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

// checkAndPublish runs the syntax checker on a document and publishes the
// resulting diagnostics to the client.
func (s *Server) checkAndPublish(doc *Document) {
	content := doc.Snapshot()
	diags := checkDiagnostics(doc.URI, content)
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	})
}

// checkDiagnostics converts the checker's first error into LSP
// diagnostics.  A clean check produces an empty (non-nil) slice, which
// clears previously published diagnostics.
func checkDiagnostics(uri, content string) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	info := parser.Check(uri, content)
	if info == nil {
		return diags
	}
	sev := protocol.DiagnosticSeverityError
	diags = append(diags, protocol.Diagnostic{
		Range:    errorRange(info),
		Severity: &sev,
		Source:   strPtr("parlor"),
		Code:     &protocol.IntegerOrString{Value: info.Kind.String()},
		Message:  info.Message,
	})
	return diags
}

// errorRange converts a checker error position to a zero-width LSP range.
func errorRange(info *parser.ErrorInfo) protocol.Range {
	line := info.Line
	col := info.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	pos := protocol.Position{Line: safeUint(line), Character: safeUint(col)}
	return protocol.Range{Start: pos, End: pos}
}

func strPtr(s string) *string {
	return &s
}
