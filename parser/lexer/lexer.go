// Copyright © 2025 The Parlor authors

// Package lexer scans PHP-style source text into tokens.  The lexer is
// deliberately tolerant: malformed or truncated input never fails the scan.
// Unterminated strings, heredocs, and block comments each degrade to a
// single flagged token spanning to end-of-input, because the completion
// engine and the incompleteness detector operate on partial source as a
// matter of course.
package lexer

import (
	"strings"
	"unicode"

	"github.com/parlorsh/parlor/parser/token"
)

// keywords holds the reserved words of the dialect.  Lookup is done on the
// lower-cased identifier text (PHP keywords are case-insensitive).
var keywords = map[string]bool{
	"abstract": true, "and": true, "array": true, "as": true, "break": true,
	"case": true, "catch": true, "class": true, "clone": true, "const": true,
	"continue": true, "declare": true, "default": true, "do": true,
	"echo": true, "else": true, "elseif": true, "empty": true,
	"extends": true, "final": true, "finally": true, "fn": true, "for": true,
	"foreach": true, "function": true, "global": true, "if": true,
	"implements": true, "include": true, "include_once": true,
	"instanceof": true, "insteadof": true, "interface": true, "isset": true,
	"list": true, "match": true, "namespace": true, "new": true, "or": true,
	"parent": true, "print": true, "private": true, "protected": true,
	"public": true, "readonly": true, "require": true, "require_once": true,
	"return": true, "self": true, "static": true, "switch": true,
	"throw": true, "trait": true,
	"try": true, "unset": true, "use": true, "var": true, "while": true,
	"xor": true, "yield": true,
	"true": true, "false": true, "null": true,
}

// IsKeyword reports whether word is reserved in the dialect.
func IsKeyword(word string) bool {
	return keywords[strings.ToLower(word)]
}

// Keywords returns the reserved words in unspecified order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	return words
}

// Lexer converts a scanner's rune stream into tokens.
type Lexer struct {
	scanner *token.Scanner
	done    bool
}

// New initializes and returns a Lexer reading from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken scans and returns the next token.  After the first EOF token
// every subsequent call returns EOF again.
func (lex *Lexer) ReadToken() *token.Token {
	lex.scanner.AcceptSeqSpace()
	lex.scanner.Ignore()
	if lex.scanner.EOF() {
		lex.done = true
		return lex.scanner.EmitToken(token.EOF)
	}
	c, _ := lex.scanner.Peek()
	switch {
	case c == '$':
		return lex.readVariable()
	case c == '\'' || c == '"':
		return lex.readString(c)
	case isDigit(c):
		return lex.readNumber()
	case c == '.':
		if d, ok := lex.scanner.PeekAt(1); ok && isDigit(d) {
			return lex.readNumber()
		}
		return lex.readOperator()
	case isWordStart(c):
		return lex.readWord()
	case c == '/' || c == '#':
		if lex.isCommentStart(c) {
			return lex.readComment(c)
		}
		return lex.readOperator()
	case c == '<':
		if lex.isHeredocStart() {
			return lex.readHeredoc()
		}
		return lex.readOperator()
	default:
		return lex.readPunct(c)
	}
}

func (lex *Lexer) readPunct(c rune) *token.Token {
	switch c {
	case '(':
		return lex.charToken(token.LPAREN)
	case ')':
		return lex.charToken(token.RPAREN)
	case '{':
		return lex.charToken(token.LBRACE)
	case '}':
		return lex.charToken(token.RBRACE)
	case '[':
		return lex.charToken(token.LBRACKET)
	case ']':
		return lex.charToken(token.RBRACKET)
	case ';':
		return lex.charToken(token.SEMI)
	case ',':
		return lex.charToken(token.COMMA)
	}
	if strings.ContainsRune("+-*/%=<>!.?:&|^~@\\", c) {
		return lex.readOperator()
	}
	lex.scanner.ScanRune()
	return lex.scanner.EmitToken(token.INVALID)
}

func (lex *Lexer) charToken(typ token.Type) *token.Token {
	lex.scanner.ScanRune()
	return lex.scanner.EmitToken(typ)
}

func (lex *Lexer) readVariable() *token.Token {
	lex.scanner.ScanRune() // the sigil
	if lex.scanner.AcceptSeq(isWord) == 0 {
		// A bare '$' is not a variable; leave it as an operator so the
		// checker can complain about it in context.
		return lex.scanner.EmitToken(token.OPERATOR)
	}
	return lex.scanner.EmitToken(token.VARIABLE)
}

func (lex *Lexer) readWord() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	if IsKeyword(lex.scanner.Text()) {
		return lex.scanner.EmitToken(token.KEYWORD)
	}
	return lex.scanner.EmitToken(token.IDENT)
}

func (lex *Lexer) readNumber() *token.Token {
	if lex.scanner.AcceptRune('0') {
		switch {
		case lex.scanner.AcceptAny("xX"):
			lex.scanner.AcceptSeq(isHexDigit)
			return lex.scanner.EmitToken(token.INT)
		case lex.scanner.AcceptAny("bB"):
			lex.scanner.AcceptSeq(func(c rune) bool { return c == '0' || c == '1' || c == '_' })
			return lex.scanner.EmitToken(token.INT)
		case lex.scanner.AcceptAny("oO"):
			lex.scanner.AcceptSeq(func(c rune) bool { return '0' <= c && c <= '7' || c == '_' })
			return lex.scanner.EmitToken(token.INT)
		}
	}
	lex.scanner.AcceptSeq(isDigitSep)
	isFloat := false
	if c, ok := lex.scanner.Peek(); ok && c == '.' {
		if d, ok := lex.scanner.PeekAt(1); ok && isDigit(d) {
			lex.scanner.ScanRune()
			lex.scanner.AcceptSeq(isDigitSep)
			isFloat = true
		}
	}
	if lex.scanner.AcceptAny("eE") {
		lex.scanner.AcceptAny("+-")
		lex.scanner.AcceptSeqDigit()
		isFloat = true
	}
	if isFloat {
		return lex.scanner.EmitToken(token.FLOAT)
	}
	return lex.scanner.EmitToken(token.INT)
}

// readString scans a single- or double-quoted string literal.  Literals may
// span multiple lines.  Reaching end-of-input before the closing quote
// produces an unterminated token rather than an error.
func (lex *Lexer) readString(quote rune) *token.Token {
	lex.scanner.ScanRune() // opening quote
	for {
		c, ok := lex.scanner.Peek()
		if !ok {
			tok := lex.scanner.EmitToken(token.STRING)
			tok.Unterminated = true
			return tok
		}
		lex.scanner.ScanRune()
		if c == '\\' {
			// Consume the escaped rune blindly; validation is not the
			// lexer's concern.
			lex.scanner.ScanRune()
			continue
		}
		if c == quote {
			return lex.scanner.EmitToken(token.STRING)
		}
	}
}

// isCommentStart reports whether the cursor begins a comment ("//", "#",
// or "/*").  A '#' immediately followed by '[' is an attribute, which this
// dialect scans as a comment to end-of-line as well.
func (lex *Lexer) isCommentStart(c rune) bool {
	if c == '#' {
		return true
	}
	d, ok := lex.scanner.PeekAt(1)
	return ok && (d == '/' || d == '*')
}

func (lex *Lexer) readComment(c rune) *token.Token {
	if c == '#' {
		lex.scanner.AcceptSeq(func(r rune) bool { return r != '\n' })
		return lex.scanner.EmitToken(token.COMMENT)
	}
	lex.scanner.ScanRune() // '/'
	if lex.scanner.AcceptRune('/') {
		lex.scanner.AcceptSeq(func(r rune) bool { return r != '\n' })
		return lex.scanner.EmitToken(token.COMMENT)
	}
	lex.scanner.ScanRune() // '*'
	for {
		if lex.scanner.EOF() {
			tok := lex.scanner.EmitToken(token.COMMENT)
			tok.Unterminated = true
			return tok
		}
		if lex.scanner.AcceptString("*/") {
			return lex.scanner.EmitToken(token.COMMENT)
		}
		lex.scanner.ScanRune()
	}
}

// isHeredocStart reports whether the cursor begins a heredoc or nowdoc
// opener: "<<<" followed by an optionally quoted label.
func (lex *Lexer) isHeredocStart() bool {
	if c, ok := lex.scanner.PeekAt(1); !ok || c != '<' {
		return false
	}
	if c, ok := lex.scanner.PeekAt(2); !ok || c != '<' {
		return false
	}
	n := 3
	for {
		c, ok := lex.scanner.PeekAt(n)
		if !ok {
			return false
		}
		if c == ' ' || c == '\t' {
			n++
			continue
		}
		return c == '\'' || c == '"' || isWordStart(c)
	}
}

// readHeredoc scans <<<LABEL (or <<<'LABEL', <<<"LABEL") through the line
// whose first non-blank word is LABEL.  The closing label may be indented
// (flexible heredoc rules).  Missing closer degrades to an unterminated
// token.
func (lex *Lexer) readHeredoc() *token.Token {
	lex.scanner.AcceptString("<<<")
	lex.scanner.AcceptSeq(func(c rune) bool { return c == ' ' || c == '\t' })
	var quote rune
	if lex.scanner.AcceptRune('\'') {
		quote = '\''
	} else if lex.scanner.AcceptRune('"') {
		quote = '"'
	}
	labelStart := len(lex.scanner.Text())
	lex.scanner.AcceptSeq(isWord)
	label := lex.scanner.Text()[labelStart:]
	if quote != 0 {
		lex.scanner.AcceptRune(quote)
	}
	if label == "" {
		// "<<<" with no label is not a heredoc after all.
		return lex.scanner.EmitToken(token.OPERATOR)
	}
	for {
		if !lex.scanner.AcceptRune('\n') {
			// Anything other than a newline after the opener is consumed
			// into the heredoc body scan below; at EOF we are unterminated.
			if lex.scanner.EOF() {
				tok := lex.scanner.EmitToken(token.HEREDOC)
				tok.Unterminated = true
				return tok
			}
			lex.scanner.ScanRune()
			continue
		}
		// At the start of a line: check for the closing label.
		lex.scanner.AcceptSeq(func(c rune) bool { return c == ' ' || c == '\t' })
		if lex.matchLabel(label) {
			return lex.scanner.EmitToken(token.HEREDOC)
		}
	}
}

// matchLabel consumes label at the cursor if it is present and followed by
// a non-word rune (or end of input).
func (lex *Lexer) matchLabel(label string) bool {
	for i := 0; i < len(label); i++ {
		c, ok := lex.scanner.PeekAt(i)
		if !ok || c != rune(label[i]) {
			return false
		}
	}
	if c, ok := lex.scanner.PeekAt(len(label)); ok && isWord(c) {
		return false
	}
	lex.scanner.AcceptString(label)
	return true
}

// operators is ordered longest-first so that scanning always takes the
// longest match.
var operators = []string{
	"===", "!==", "**=", "<<=", ">>=", "<=>", "...", "??=", "?->",
	"==", "!=", "<>", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", ".=", "%=", "&=", "|=", "^=",
	"->", "::", "=>", "**", "<<", ">>", "??",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", ".", "?", ":",
	"&", "|", "^", "~", "@", "\\",
}

func (lex *Lexer) readOperator() *token.Token {
	for _, op := range operators {
		if lex.scanner.AcceptString(op) {
			switch op {
			case "->", "?->":
				return lex.scanner.EmitToken(token.ARROW)
			case "::":
				return lex.scanner.EmitToken(token.SCOPE)
			}
			return lex.scanner.EmitToken(token.OPERATOR)
		}
	}
	lex.scanner.ScanRune()
	return lex.scanner.EmitToken(token.INVALID)
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isDigitSep(c rune) bool {
	return isDigit(c) || c == '_'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F') || c == '_'
}
