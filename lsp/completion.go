// Copyright © 2025 The Parlor authors

package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/parlorsh/parlor/complete"
)

// textDocumentCompletion handles the textDocument/completion request.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content := doc.Snapshot()
	cursor := offsetForPosition(content, int(params.Position.Line), int(params.Position.Character))

	res := s.engine.Complete(context.Background(), content, cursor)
	if len(res.Candidates) == 0 {
		return nil, nil
	}
	s.log.WithField("candidates", len(res.Candidates)).Debug("completion request served")

	items := make([]protocol.CompletionItem, 0, len(res.Candidates))
	for _, cand := range res.Candidates {
		kind := mapCompletionItemKind(cand.Kind)
		insert := cand.Text
		items = append(items, protocol.CompletionItem{
			Label:      cand.Label(),
			Kind:       &kind,
			InsertText: &insert,
			FilterText: &insert,
		})
	}
	return items, nil
}

// mapCompletionItemKind converts a candidate kind to the LSP item kind.
func mapCompletionItemKind(kind complete.CandidateKind) protocol.CompletionItemKind {
	switch kind {
	case complete.KindVariable:
		return protocol.CompletionItemKindVariable
	case complete.KindFunction:
		return protocol.CompletionItemKindFunction
	case complete.KindClass:
		return protocol.CompletionItemKindClass
	case complete.KindInterface:
		return protocol.CompletionItemKindInterface
	case complete.KindConstant, complete.KindClassConst:
		return protocol.CompletionItemKindConstant
	case complete.KindKeyword:
		return protocol.CompletionItemKindKeyword
	case complete.KindProperty:
		return protocol.CompletionItemKindProperty
	case complete.KindMethod:
		return protocol.CompletionItemKindMethod
	case complete.KindService:
		return protocol.CompletionItemKindValue
	case complete.KindCommand:
		return protocol.CompletionItemKindText
	}
	return protocol.CompletionItemKindText
}
