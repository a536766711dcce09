// Copyright © 2025 The Parlor authors

// Package token defines the lexical token model shared by the lexer, the
// syntax checker, and the completion engine.
package token

import "fmt"

// Token is one lexical unit of PHP-style source.  Tokens are produced in
// source order and never mutated after emission; a fresh stream is produced
// for every buffer snapshot.
type Token struct {
	Type Type
	Text string
	// Unterminated marks a string, heredoc, or block comment that reached
	// end-of-input before its closer.  It is a degradation flag, not an
	// error: downstream consumers operate on partial source all the time.
	Unterminated bool
	Source       *Location
}

// IsDegraded reports whether the token was produced from source the lexer
// could not fully scan.
func (t *Token) IsDegraded() bool {
	return t.Unterminated || t.Type == INVALID || t.Type == ERROR
}

func (t *Token) String() string {
	if t.Text == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Text)
}

type Type uint

// Type constants for the parlor lexer.  The set is closed; matchers and the
// checker switch exhaustively over it.
const (
	INVALID Type = iota
	ERROR
	EOF

	// Words
	IDENT    // function, class, and constant names
	VARIABLE // $name
	KEYWORD  // reserved words (echo, if, new, ...)

	// Literals
	INT
	FLOAT
	STRING  // 'single' or "double" quoted
	HEREDOC // <<<ID ... ID and <<<'ID' ... ID

	COMMENT // // ... , # ... , /* ... */

	// Operators
	OPERATOR // any operator without a dedicated type
	ARROW    // -> and ?->
	SCOPE    // ::

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	SEMI
	COMMA

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:  "invalid",
		ERROR:    "error",
		EOF:      "EOF",
		IDENT:    "ident",
		VARIABLE: "variable",
		KEYWORD:  "keyword",
		INT:      "int",
		FLOAT:    "float",
		STRING:   "string",
		HEREDOC:  "heredoc",
		COMMENT:  "comment",
		OPERATOR: "op",
		ARROW:    "->",
		SCOPE:    "::",
		LPAREN:   "(",
		RPAREN:   ")",
		LBRACE:   "{",
		RBRACE:   "}",
		LBRACKET: "[",
		RBRACKET: "]",
		SEMI:     ";",
		COMMA:    ",",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// IsOpen reports whether typ opens a bracketed group.
func (typ Type) IsOpen() bool {
	return typ == LPAREN || typ == LBRACE || typ == LBRACKET
}

// IsClose reports whether typ closes a bracketed group.
func (typ Type) IsClose() bool {
	return typ == RPAREN || typ == RBRACE || typ == RBRACKET
}

// Closer returns the closing type matching an opening delimiter.
func (typ Type) Closer() Type {
	switch typ {
	case LPAREN:
		return RPAREN
	case LBRACE:
		return RBRACE
	case LBRACKET:
		return RBRACKET
	}
	return INVALID
}

// Location identifies a position within a source stream.
type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset (starting at 0)
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}
