// Copyright © 2025 The Parlor authors

package complete

import (
	"strings"

	"github.com/parlorsh/parlor/parser/lexer"
	"github.com/parlorsh/parlor/parser/token"
	"github.com/parlorsh/parlor/scope"
)

// DefaultMatchers returns the standard registry in priority order: the
// most context-specific matchers come first.  Order is a correctness
// property (first-applicable-wins), which is why the registry is an
// ordered slice and not a map.
func DefaultMatchers() []Matcher {
	return []Matcher{
		&ObjectMemberMatcher{},
		&StaticMemberMatcher{},
		&VariableMatcher{},
		&ClassNameMatcher{},
		&CommandMatcher{},
		&ServiceMatcher{},
		&FunctionMatcher{},
		&ConstantMatcher{},
		&KeywordMatcher{},
	}
}

// matchName reports whether name should be offered for prefix.  An empty
// prefix matches everything; otherwise matching is a case-insensitive
// substring test.  Ranking of prefix matches over substring matches
// happens later, in the engine.
func matchName(name, prefix string) bool {
	if prefix == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(prefix))
}

// bareWordContext reports whether the context is a plain identifier
// position: not a member access, not a variable.
func bareWordContext(ctx *Context) bool {
	if strings.HasPrefix(ctx.Prefix, "$") {
		return false
	}
	last := ctx.Last()
	if last == nil {
		return true
	}
	switch last.Type {
	case token.ARROW, token.SCOPE:
		return false
	}
	return true
}

// ObjectMemberMatcher completes properties and methods after -> or ?->.
type ObjectMemberMatcher struct{}

func (m *ObjectMemberMatcher) CanMatch(ctx *Context) bool {
	last := ctx.Last()
	return last != nil && last.Type == token.ARROW
}

func (m *ObjectMemberMatcher) Matches(ctx *Context) []Candidate {
	if ctx.Resolver == nil {
		return nil
	}
	owner := ctx.Back(1)
	if owner == nil || owner.Type != token.VARIABLE {
		// Chained expressions ($a->b()->c) have no statically resolvable
		// owner here; produce nothing rather than guessing.
		return nil
	}
	var out []Candidate
	for _, mem := range ctx.Resolver.Members(owner.Text) {
		if mem.Static || !matchName(mem.Name, ctx.Prefix) {
			continue
		}
		out = append(out, memberCandidate(mem))
	}
	return out
}

// StaticMemberMatcher completes constants, static properties, and methods
// after ::.
type StaticMemberMatcher struct{}

func (m *StaticMemberMatcher) CanMatch(ctx *Context) bool {
	last := ctx.Last()
	return last != nil && last.Type == token.SCOPE
}

func (m *StaticMemberMatcher) Matches(ctx *Context) []Candidate {
	if ctx.Resolver == nil {
		return nil
	}
	owner := ctx.Back(1)
	if owner == nil {
		return nil
	}
	var class string
	switch owner.Type {
	case token.IDENT:
		class = owner.Text
	case token.KEYWORD:
		switch strings.ToLower(owner.Text) {
		case "self", "static":
			class = ctx.auxString(AuxCurrentClass)
		case "parent":
			// Parent resolution needs hierarchy data the resolver contract
			// does not expose; offer nothing.
			return nil
		}
	}
	if class == "" {
		return nil
	}
	var out []Candidate
	for _, mem := range ctx.Resolver.Members(class) {
		if !matchName(mem.Name, ctx.Prefix) {
			continue
		}
		if mem.Kind == scope.Property && !mem.Static {
			continue
		}
		c := memberCandidate(mem)
		if mem.Kind == scope.Property {
			c.Text = "$" + mem.Name
			c.Display = "$" + mem.Name
		}
		out = append(out, c)
	}
	return out
}

func memberCandidate(mem scope.MemberInfo) Candidate {
	c := Candidate{Text: mem.Name, Display: mem.Name}
	switch mem.Kind {
	case scope.Method:
		c.Kind = KindMethod
	case scope.ClassConst:
		c.Kind = KindClassConst
	default:
		c.Kind = KindProperty
	}
	return c
}

// VariableMatcher completes $-prefixed variable names.
type VariableMatcher struct{}

func (m *VariableMatcher) CanMatch(ctx *Context) bool {
	return strings.HasPrefix(ctx.Prefix, "$")
}

func (m *VariableMatcher) Matches(ctx *Context) []Candidate {
	if ctx.Resolver == nil {
		return nil
	}
	prefix := ctx.Prefix
	var out []Candidate
	for _, name := range ctx.Resolver.Variables() {
		if !matchName("$"+name, prefix) {
			continue
		}
		out = append(out, Candidate{Text: "$" + name, Display: "$" + name, Kind: KindVariable})
	}
	return out
}

// classContextKeywords trigger class-name completion when they directly
// precede the prefix.
var classContextKeywords = map[string]bool{
	"new": true, "instanceof": true, "extends": true, "implements": true,
	"use": true,
}

// ClassNameMatcher completes class and interface names after keywords that
// demand a type name.
type ClassNameMatcher struct{}

func (m *ClassNameMatcher) CanMatch(ctx *Context) bool {
	last := ctx.Last()
	return last != nil && last.Type == token.KEYWORD &&
		classContextKeywords[strings.ToLower(last.Text)]
}

func (m *ClassNameMatcher) Matches(ctx *Context) []Candidate {
	if ctx.Resolver == nil {
		return nil
	}
	word := strings.ToLower(ctx.Last().Text)
	var out []Candidate
	if word != "implements" {
		for _, name := range ctx.Resolver.Symbols(scope.Class) {
			if matchName(name, ctx.Prefix) {
				out = append(out, Candidate{Text: name, Display: name, Kind: KindClass})
			}
		}
	}
	if word != "new" && word != "extends" {
		for _, name := range ctx.Resolver.Symbols(scope.Interface) {
			if matchName(name, ctx.Prefix) {
				out = append(out, Candidate{Text: name, Display: name, Kind: KindInterface})
			}
		}
	}
	return out
}

// CommandMatcher completes shell meta-command names at the start of input.
// The command set is injected through Aux by the owning session; the
// matcher holds no registry of its own.
type CommandMatcher struct{}

func (m *CommandMatcher) CanMatch(ctx *Context) bool {
	return len(ctx.Window) == 0 && ctx.Prefix != "" &&
		!strings.HasPrefix(ctx.Prefix, "$")
}

func (m *CommandMatcher) Matches(ctx *Context) []Candidate {
	var out []Candidate
	for _, name := range ctx.auxStrings(AuxCommands) {
		// Commands complete on a leading match only; offering "exit" for
		// the prefix "x" would shadow function completion below.
		if strings.HasPrefix(name, strings.ToLower(ctx.Prefix)) {
			out = append(out, Candidate{Text: name, Display: name, Kind: KindCommand})
		}
	}
	return out
}

// ServiceMatcher completes identifiers from an injected runtime registry
// (for example a dependency-injection container) after a "get(" call
// opener.
type ServiceMatcher struct{}

func (m *ServiceMatcher) CanMatch(ctx *Context) bool {
	last := ctx.Last()
	if last == nil || last.Type != token.LPAREN {
		return false
	}
	callee := ctx.Back(1)
	return callee != nil && callee.Type == token.IDENT &&
		strings.EqualFold(callee.Text, "get") &&
		ctx.Back(2) != nil && ctx.Back(2).Type == token.ARROW
}

func (m *ServiceMatcher) Matches(ctx *Context) []Candidate {
	var out []Candidate
	for _, id := range ctx.auxStrings(AuxServices) {
		if matchName(id, ctx.Prefix) {
			out = append(out, Candidate{Text: "'" + id + "'", Display: id, Kind: KindService})
		}
	}
	return out
}

// FunctionMatcher completes declared function names in bare identifier
// positions.
type FunctionMatcher struct{}

func (m *FunctionMatcher) CanMatch(ctx *Context) bool {
	return ctx.Prefix != "" && bareWordContext(ctx)
}

func (m *FunctionMatcher) Matches(ctx *Context) []Candidate {
	if ctx.Resolver == nil {
		return nil
	}
	var out []Candidate
	for _, name := range ctx.Resolver.Symbols(scope.Function) {
		if matchName(name, ctx.Prefix) {
			out = append(out, Candidate{Text: name, Display: name, Kind: KindFunction})
		}
	}
	return out
}

// ConstantMatcher completes declared constants in bare identifier
// positions.
type ConstantMatcher struct{}

func (m *ConstantMatcher) CanMatch(ctx *Context) bool {
	return ctx.Prefix != "" && bareWordContext(ctx)
}

func (m *ConstantMatcher) Matches(ctx *Context) []Candidate {
	if ctx.Resolver == nil {
		return nil
	}
	var out []Candidate
	for _, name := range ctx.Resolver.Symbols(scope.Constant) {
		if matchName(name, ctx.Prefix) {
			out = append(out, Candidate{Text: name, Display: name, Kind: KindConstant})
		}
	}
	return out
}

// statementStarters are the keywords offered at the beginning of a
// statement, before anything has been typed.
var statementStarters = []string{
	"class", "const", "continue", "do", "echo", "for", "foreach",
	"function", "global", "if", "interface", "namespace", "print",
	"return", "switch", "throw", "trait", "try", "unset", "use", "while",
}

// KeywordMatcher completes language keywords.  It is the matcher of last
// resort and the one that serves an empty token stream: at a statement
// boundary it offers statement starters, elsewhere the full keyword set.
type KeywordMatcher struct{}

func (m *KeywordMatcher) CanMatch(ctx *Context) bool {
	return bareWordContext(ctx)
}

func (m *KeywordMatcher) Matches(ctx *Context) []Candidate {
	words := lexer.Keywords()
	if ctx.AtStatementStart() {
		words = statementStarters
	}
	var out []Candidate
	for _, word := range words {
		if matchName(word, ctx.Prefix) {
			out = append(out, Candidate{Text: word, Display: word, Kind: KindKeyword})
		}
	}
	return out
}
