// Copyright © 2025 The Parlor authors

package complete

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/parlorsh/parlor/parser"
	"github.com/parlorsh/parlor/parser/token"
	"github.com/parlorsh/parlor/scope"
)

// Result is the outcome of one completion request.
type Result struct {
	// Candidates is the ranked candidate list.
	Candidates []Candidate
	// Prefix is the already-typed fragment the caller should replace with
	// a chosen candidate's Text.
	Prefix string
}

// Engine drives the matcher registry over an input buffer.  An Engine is
// cheap and holds no per-request state; completion is synchronous and
// invoked from the input loop's goroutine only.
type Engine struct {
	resolver scope.Resolver
	matchers []Matcher
	aux      map[string]interface{}
	tracer   trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatchers replaces the default matcher registry.  Order is priority.
func WithMatchers(matchers ...Matcher) Option {
	return func(e *Engine) { e.matchers = matchers }
}

// WithAux supplies a collaborator extra readable by matchers under key.
func WithAux(key string, value interface{}) Option {
	return func(e *Engine) { e.aux[key] = value }
}

// WithTracer instruments completion requests with spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// NewEngine returns an Engine querying resolver with the default matcher
// registry.
func NewEngine(resolver scope.Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		matchers: DefaultMatchers(),
		aux:      make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Complete returns ranked candidates for the cursor position in source.
// Identical inputs against an identical resolver snapshot always yield an
// identical ordered result.  Completion never fails: degraded input yields
// an empty candidate list.
func (e *Engine) Complete(ctx context.Context, source string, cursor int) Result {
	if e.tracer != nil {
		var span trace.Span
		ctx, span = e.tracer.Start(ctx, "complete")
		defer span.End()
		res := e.complete(source, cursor)
		span.SetAttributes(
			attribute.String("complete.prefix", res.Prefix),
			attribute.Int("complete.candidates", len(res.Candidates)),
		)
		return res
	}
	return e.complete(source, cursor)
}

func (e *Engine) complete(source string, cursor int) Result {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(source) {
		cursor = len(source)
	}
	visible := source[:cursor]
	toks := significant(parser.Tokenize("<input>", visible))

	// Inside an open string, heredoc, or comment there is nothing sane to
	// offer.
	if n := len(toks); n > 0 && toks[n-1].Unterminated {
		return Result{}
	}

	prefix := ""
	if n := len(toks); n > 0 && isWordToken(toks[n-1]) && tokenEnd(toks[n-1]) == len(visible) {
		prefix = toks[n-1].Text
		toks = toks[:n-1]
	} else if n > 0 && toks[n-1].Type == token.OPERATOR && toks[n-1].Text == "$" &&
		tokenEnd(toks[n-1]) == len(visible) {
		// A lone sigil lexes as an operator, but the user is starting a
		// variable; the sigil is part of the fragment the caller replaces.
		prefix = "$"
		toks = toks[:n-1]
	}
	if len(toks) > WindowSize {
		toks = toks[len(toks)-WindowSize:]
	}

	mctx := &Context{
		Window:   toks,
		Prefix:   prefix,
		Resolver: e.resolver,
		Aux:      e.aux,
	}
	for _, m := range e.matchers {
		if !m.CanMatch(mctx) {
			continue
		}
		if candidates := m.Matches(mctx); len(candidates) > 0 {
			// First applicable matcher with results wins; mixing candidate
			// kinds across contexts is worse than offering fewer options.
			return Result{Candidates: rank(dedupe(candidates), prefix), Prefix: prefix}
		}
	}
	return Result{Prefix: prefix}
}

// significant drops comment and EOF tokens from a raw stream, keeping the
// trailing unterminated-comment token (it marks the cursor as inside the
// comment).
func significant(toks []*token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(toks))
	for _, tok := range toks {
		switch tok.Type {
		case token.EOF:
		case token.COMMENT:
			if tok.Unterminated {
				out = append(out, tok)
			}
		default:
			out = append(out, tok)
		}
	}
	return out
}

func isWordToken(tok *token.Token) bool {
	switch tok.Type {
	case token.IDENT, token.VARIABLE, token.KEYWORD:
		return true
	}
	return false
}

func tokenEnd(tok *token.Token) int {
	if tok.Source == nil {
		return -1
	}
	return tok.Source.Pos + len(tok.Text)
}

// dedupe collapses candidates sharing Text, keeping the first occurrence
// so the producing matcher's order is the tiebreak under equal rank.
func dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if seen[c.Text] {
			continue
		}
		seen[c.Text] = true
		out = append(out, c)
	}
	return out
}

// rank orders candidates case-insensitively with exact-prefix matches
// ahead of substring-only matches.  The sort is stable so that equal keys
// keep first-producer order.
func rank(candidates []Candidate, prefix string) []Candidate {
	group := func(c Candidate) int {
		if prefix == "" || strings.HasPrefix(c.Text, prefix) {
			return 0
		}
		if strings.HasPrefix(strings.ToLower(c.Text), strings.ToLower(prefix)) {
			return 1
		}
		return 2
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		gi, gj := group(candidates[i]), group(candidates[j])
		if gi != gj {
			return gi < gj
		}
		return strings.ToLower(candidates[i].Text) < strings.ToLower(candidates[j].Text)
	})
	return candidates
}
