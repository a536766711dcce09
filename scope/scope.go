// Copyright © 2025 The Parlor authors

// Package scope defines the read-only query contract over a live session
// environment.  Completion matchers depend on this interface alone; the
// shell package provides the concrete implementation.
package scope

// SymbolKind selects a class of top-level symbol for Symbols queries.
type SymbolKind int

const (
	Function SymbolKind = iota
	Class
	Interface
	Constant
)

func (k SymbolKind) String() string {
	switch k {
	case Function:
		return "function"
	case Class:
		return "class"
	case Interface:
		return "interface"
	case Constant:
		return "constant"
	}
	return "unknown"
}

// MemberKind classifies a class member.
type MemberKind int

const (
	Property MemberKind = iota
	Method
	ClassConst
)

func (k MemberKind) String() string {
	switch k {
	case Property:
		return "property"
	case Method:
		return "method"
	case ClassConst:
		return "class-constant"
	}
	return "unknown"
}

// MemberInfo describes one member of a class or interface.
type MemberInfo struct {
	Name   string
	Kind   MemberKind
	Static bool
}

// Resolver is a read-only view over the live execution environment.
// Implementations never mutate the environment and must tolerate lookups
// against unknown or partially typed symbols by returning empty results.
type Resolver interface {
	// Variables returns the names of all bound variables, without the
	// leading sigil.
	Variables() []string
	// Symbols returns the names of all declared symbols of the given kind.
	Symbols(kind SymbolKind) []string
	// Members returns the members reachable through ownerExpr (a variable
	// reference like "$point" or a class name like "Point").  Unknown
	// owners yield nil, never an error.
	Members(ownerExpr string) []MemberInfo
}
