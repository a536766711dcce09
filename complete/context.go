// Copyright © 2025 The Parlor authors

// Package complete implements tab completion for PHP-style source.  A
// prioritized registry of matchers proposes candidates for the syntactic
// context at the cursor; the engine orchestrates tokenization, matcher
// selection, and ranking.
package complete

import (
	"github.com/parlorsh/parlor/parser/token"
	"github.com/parlorsh/parlor/scope"
)

// WindowSize bounds the trailing token slice handed to matchers.  Ten
// tokens comfortably cover every pattern the matchers inspect.
const WindowSize = 10

// Aux keys understood by the built-in matchers.  Aux values are supplied by
// collaborators (the shell, an LSP session); matchers only read them.
const (
	// AuxCommands carries a []string of shell meta-command names.
	AuxCommands = "commands"
	// AuxServices carries a []string of identifiers from an injected
	// runtime registry (e.g. a service container).
	AuxServices = "services"
	// AuxCurrentClass carries the name of the class whose body the session
	// is currently inside, for self:: and static:: resolution.
	AuxCurrentClass = "current-class"
)

// Context is the uniform input to every matcher.
type Context struct {
	// Window holds up to WindowSize tokens immediately before the typed
	// prefix, oldest first.  It never contains tokens after the cursor.
	Window []*token.Token
	// Prefix is the partial word being completed.  It is empty when the
	// cursor does not touch a word and retains the "$" sigil for
	// variables.
	Prefix string
	// Resolver answers symbol and member queries.  It may be nil, in
	// which case matchers that need it produce nothing.
	Resolver scope.Resolver
	// Aux carries collaborator-supplied extras keyed by the Aux*
	// constants.
	Aux map[string]interface{}
}

// Last returns the most recent token in the window, or nil.
func (c *Context) Last() *token.Token {
	return c.Back(0)
}

// Back returns the token n positions before the end of the window (Back(0)
// == Last), or nil.
func (c *Context) Back(n int) *token.Token {
	if n < 0 || n >= len(c.Window) {
		return nil
	}
	return c.Window[len(c.Window)-1-n]
}

// AtStatementStart reports whether the prefix begins a statement: the very
// start of input or directly after a terminator or brace.
func (c *Context) AtStatementStart() bool {
	last := c.Last()
	if last == nil {
		return true
	}
	switch last.Type {
	case token.SEMI, token.LBRACE, token.RBRACE:
		return true
	}
	return false
}

func (c *Context) auxStrings(key string) []string {
	if c.Aux == nil {
		return nil
	}
	ss, _ := c.Aux[key].([]string)
	return ss
}

func (c *Context) auxString(key string) string {
	if c.Aux == nil {
		return ""
	}
	s, _ := c.Aux[key].(string)
	return s
}

// CandidateKind classifies a completion candidate for display purposes.
type CandidateKind int

const (
	KindVariable CandidateKind = iota
	KindFunction
	KindClass
	KindInterface
	KindConstant
	KindKeyword
	KindProperty
	KindMethod
	KindClassConst
	KindCommand
	KindService
)

func (k CandidateKind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindConstant:
		return "constant"
	case KindKeyword:
		return "keyword"
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	case KindClassConst:
		return "class-constant"
	case KindCommand:
		return "command"
	case KindService:
		return "service"
	}
	return "unknown"
}

// Candidate is one proposed completion.
type Candidate struct {
	// Text is the full replacement for the typed prefix.
	Text string
	// Display is the label shown in completion menus; defaults to Text.
	Display string
	Kind    CandidateKind
}

// Label returns the display label for the candidate.
func (c Candidate) Label() string {
	if c.Display != "" {
		return c.Display
	}
	return c.Text
}

// Matcher proposes completions for one kind of syntactic context.
// Matchers are consulted in registry order; the first matcher that both
// applies and produces candidates wins.
type Matcher interface {
	// CanMatch reports whether the matcher applies to the context at all.
	CanMatch(ctx *Context) bool
	// Matches returns candidates for the context, or nothing.  Matchers
	// must not fail: lookups against missing data yield empty results.
	Matches(ctx *Context) []Candidate
}
