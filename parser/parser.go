// Copyright © 2025 The Parlor authors

// Package parser provides tokenization and syntax checking for PHP-style
// source.  The checker does not build a tree; it classifies source as
// well-formed or failing with a structured ErrorKind.  The kind taxonomy is
// the load-bearing contract for the multi-line input loop: callers decide
// whether to prompt for more input or reject the buffer by switching on
// Kind, never by matching message text.
package parser

import (
	"fmt"
	"strings"

	"github.com/parlorsh/parlor/parser/lexer"
	"github.com/parlorsh/parlor/parser/token"
)

// ErrorKind classifies a syntax-check failure.
type ErrorKind int

const (
	// ErrUnknown is the zero kind; it is never produced by Check but
	// callers must treat it (and any unrecognized kind) as a hard error.
	ErrUnknown ErrorKind = iota
	// ErrUnexpectedEOF means the checker ran out of tokens while a
	// construct still required more (trailing operator, dangling keyword).
	ErrUnexpectedEOF
	// ErrUnterminatedLiteral means a string, heredoc, or block comment
	// reached end-of-input before its closer.
	ErrUnterminatedLiteral
	// ErrUnclosedDelimiter means a bracketed group was still open at
	// end-of-input (more openers than closers).
	ErrUnclosedDelimiter
	// ErrUnexpectedToken is a hard syntax error at a specific token.
	ErrUnexpectedToken
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedEOF:
		return "unexpected-eof"
	case ErrUnterminatedLiteral:
		return "unterminated-literal"
	case ErrUnclosedDelimiter:
		return "unclosed-delimiter"
	case ErrUnexpectedToken:
		return "unexpected-token"
	}
	return "unknown"
}

// ErrorInfo describes a syntax-check failure with a structured kind and a
// source position.
type ErrorInfo struct {
	Message string
	Kind    ErrorKind
	Pos     int
	Line    int
	Col     int
}

func (e *ErrorInfo) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Message)
	}
	return e.Message
}

// Tokenize scans source into a token sequence ending with an EOF token.  It
// is a pure function of its input and never fails: malformed constructs
// degrade to flagged tokens.
func Tokenize(name, source string) []*token.Token {
	lex := lexer.New(token.NewScanner(name, source))
	var toks []*token.Token
	for {
		tok := lex.ReadToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// Check parses source as a statement sequence and returns nil if it is
// well formed, or an ErrorInfo classifying the first failure.
func Check(name, source string) *ErrorInfo {
	raw := Tokenize(name, source)

	var open *token.Token
	for _, tok := range raw {
		if tok.Unterminated {
			open = tok
			break
		}
	}

	toks := make([]*token.Token, 0, len(raw))
	for _, tok := range raw {
		if tok.Type != token.COMMENT {
			toks = append(toks, tok)
		}
	}
	c := &checker{toks: toks}
	var err *ErrorInfo
	for c.peek().Type != token.EOF {
		if err = c.statement(); err != nil {
			break
		}
	}

	// An open literal swallows the rest of the buffer, so it outranks any
	// report at or after the point where it opened.  A hard error before
	// that point still wins: more input cannot repair it.
	if open != nil && (err == nil || err.Pos >= open.Source.Pos) {
		return errAt(open, ErrUnterminatedLiteral, "unterminated %s literal", open.Type)
	}
	return err
}

type checker struct {
	toks []*token.Token
	pos  int
}

func (c *checker) peek() *token.Token {
	if c.pos >= len(c.toks) {
		return c.toks[len(c.toks)-1] // the EOF token
	}
	return c.toks[c.pos]
}

func (c *checker) peekAt(n int) *token.Token {
	if c.pos+n >= len(c.toks) {
		return c.toks[len(c.toks)-1]
	}
	return c.toks[c.pos+n]
}

func (c *checker) next() *token.Token {
	tok := c.peek()
	if c.pos < len(c.toks)-1 {
		c.pos++
	}
	return tok
}

func (c *checker) accept(typ token.Type) bool {
	if c.peek().Type == typ {
		c.next()
		return true
	}
	return false
}

func (c *checker) acceptKeyword(words ...string) bool {
	tok := c.peek()
	if tok.Type != token.KEYWORD {
		return false
	}
	text := strings.ToLower(tok.Text)
	for _, w := range words {
		if text == w {
			c.next()
			return true
		}
	}
	return false
}

func (c *checker) acceptOperator(ops ...string) bool {
	tok := c.peek()
	if tok.Type != token.OPERATOR {
		return false
	}
	for _, op := range ops {
		if tok.Text == op {
			c.next()
			return true
		}
	}
	return false
}

// statement checks a single statement.
func (c *checker) statement() *ErrorInfo {
	tok := c.peek()
	switch tok.Type {
	case token.EOF:
		return nil
	case token.SEMI:
		c.next()
		return nil
	case token.LBRACE:
		return c.block()
	case token.INVALID, token.ERROR:
		return errAt(tok, ErrUnexpectedToken, "invalid source text %q", tok.Text)
	case token.KEYWORD:
		return c.keywordStatement(tok)
	default:
		return c.exprStatement()
	}
}

func (c *checker) keywordStatement(tok *token.Token) *ErrorInfo {
	switch strings.ToLower(tok.Text) {
	case "if":
		return c.ifStatement()
	case "while":
		c.next()
		if err := c.head(); err != nil {
			return err
		}
		return c.statement()
	case "for", "foreach":
		c.next()
		if err := c.head(); err != nil {
			return err
		}
		return c.statement()
	case "switch", "match":
		c.next()
		if err := c.head(); err != nil {
			return err
		}
		return c.braceGroup()
	case "do":
		return c.doStatement()
	case "try":
		return c.tryStatement()
	case "function":
		if c.peekAt(1).Type == token.IDENT ||
			(c.peekAt(1).Type == token.OPERATOR && c.peekAt(1).Text == "&" && c.peekAt(2).Type == token.IDENT) {
			return c.functionDecl()
		}
		return c.exprStatement() // anonymous closure expression
	case "abstract", "final", "class", "interface", "trait":
		return c.classDecl()
	case "return", "throw", "global":
		c.next()
		if c.atTerminator() {
			return c.terminator()
		}
		return c.exprStatement()
	case "echo", "print":
		c.next()
		return c.exprStatement()
	case "break", "continue":
		c.next()
		c.accept(token.INT)
		return c.terminator()
	case "use", "namespace", "const", "var", "require", "require_once",
		"include", "include_once", "declare":
		c.next()
		if c.atTerminator() {
			return c.terminator()
		}
		return c.exprStatement()
	case "else", "elseif", "catch", "finally", "case", "default", "as",
		"extends", "implements", "instanceof", "insteadof",
		"public", "private", "protected", "readonly":
		return errAt(tok, ErrUnexpectedToken, "unexpected %q", tok.Text)
	default:
		// Expression-leading keywords: new, clone, true, isset, fn, ...
		return c.exprStatement()
	}
}

func (c *checker) ifStatement() *ErrorInfo {
	c.next() // if
	if err := c.head(); err != nil {
		return err
	}
	if err := c.statement(); err != nil {
		return err
	}
	for {
		switch {
		case c.acceptKeyword("elseif"):
			if err := c.head(); err != nil {
				return err
			}
			if err := c.statement(); err != nil {
				return err
			}
		case c.acceptKeyword("else"):
			return c.statement()
		default:
			return nil
		}
	}
}

func (c *checker) doStatement() *ErrorInfo {
	c.next() // do
	if err := c.statement(); err != nil {
		return err
	}
	if !c.acceptKeyword("while") {
		tok := c.peek()
		if tok.Type == token.EOF {
			return errAt(tok, ErrUnexpectedEOF, "expected while after do body")
		}
		return errAt(tok, ErrUnexpectedToken, "expected while after do body, found %s", tok)
	}
	if err := c.head(); err != nil {
		return err
	}
	return c.terminator()
}

func (c *checker) tryStatement() *ErrorInfo {
	c.next() // try
	if err := c.requireBlock(); err != nil {
		return err
	}
	handled := false
	for {
		switch {
		case c.acceptKeyword("catch"):
			if err := c.head(); err != nil {
				return err
			}
			if err := c.requireBlock(); err != nil {
				return err
			}
			handled = true
		case c.acceptKeyword("finally"):
			handled = true
			return c.requireBlock()
		default:
			if !handled {
				tok := c.peek()
				if tok.Type == token.EOF {
					// The catch clause may simply not be typed yet.
					return errAt(tok, ErrUnexpectedEOF, "expected catch or finally after try")
				}
				return errAt(tok, ErrUnexpectedToken, "expected catch or finally after try, found %s", tok)
			}
			return nil
		}
	}
}

func (c *checker) functionDecl() *ErrorInfo {
	c.next() // function
	c.acceptOperator("&")
	c.accept(token.IDENT)
	if err := c.params(); err != nil {
		return err
	}
	if err := c.returnType(); err != nil {
		return err
	}
	if c.accept(token.SEMI) {
		return nil // abstract or interface signature
	}
	return c.requireBlock()
}

func (c *checker) classDecl() *ErrorInfo {
	for c.acceptKeyword("abstract", "final", "readonly") {
	}
	if !c.acceptKeyword("class", "interface", "trait") {
		tok := c.peek()
		if tok.Type == token.EOF {
			return errAt(tok, ErrUnexpectedEOF, "expected class declaration")
		}
		return errAt(tok, ErrUnexpectedToken, "expected class declaration, found %s", tok)
	}
	if !c.accept(token.IDENT) {
		tok := c.peek()
		if tok.Type == token.EOF {
			return errAt(tok, ErrUnexpectedEOF, "expected class name")
		}
		return errAt(tok, ErrUnexpectedToken, "expected class name, found %s", tok)
	}
	for c.acceptKeyword("extends", "implements") {
		for {
			if !c.accept(token.IDENT) {
				tok := c.peek()
				if tok.Type == token.EOF {
					return errAt(tok, ErrUnexpectedEOF, "expected type name")
				}
				return errAt(tok, ErrUnexpectedToken, "expected type name, found %s", tok)
			}
			if !c.accept(token.COMMA) {
				break
			}
		}
	}
	// Member grammar inside the body is not validated here; the body only
	// needs delimiter-level classification for the input loop.
	return c.braceGroup()
}

// exprStatement checks a comma-separated expression list followed by a
// statement terminator.
func (c *checker) exprStatement() *ErrorInfo {
	for {
		if err := c.expression(); err != nil {
			return err
		}
		if !c.accept(token.COMMA) {
			break
		}
	}
	return c.terminator()
}

func (c *checker) atTerminator() bool {
	switch c.peek().Type {
	case token.SEMI, token.EOF, token.RBRACE:
		return true
	}
	return false
}

// terminator consumes a statement terminator.  End-of-input terminates the
// final statement implicitly (interactive buffers rarely end in ';'), and a
// closing brace is left for the enclosing block to consume.
func (c *checker) terminator() *ErrorInfo {
	tok := c.peek()
	switch tok.Type {
	case token.SEMI:
		c.next()
		return nil
	case token.EOF, token.RBRACE:
		return nil
	default:
		return errAt(tok, ErrUnexpectedToken, "expected ; before %s", tok)
	}
}

// block checks { statement* } with the opening brace at the cursor.
func (c *checker) block() *ErrorInfo {
	open := c.next() // {
	for {
		switch c.peek().Type {
		case token.RBRACE:
			c.next()
			return nil
		case token.EOF:
			return errAt(open, ErrUnclosedDelimiter, "unclosed %s", open.Text)
		}
		if err := c.statement(); err != nil {
			return err
		}
	}
}

func (c *checker) requireBlock() *ErrorInfo {
	tok := c.peek()
	if tok.Type != token.LBRACE {
		if tok.Type == token.EOF {
			return errAt(tok, ErrUnexpectedEOF, "expected block")
		}
		return errAt(tok, ErrUnexpectedToken, "expected block, found %s", tok)
	}
	return c.block()
}

// head checks a parenthesized control-structure head like (cond).  The
// interior is validated at the delimiter level only: control heads admit
// grammar (foreach-as, by-reference) that the statement checker does not
// model, and delimiter classification is all the input loop requires.
func (c *checker) head() *ErrorInfo {
	tok := c.peek()
	if tok.Type != token.LPAREN {
		if tok.Type == token.EOF {
			return errAt(tok, ErrUnexpectedEOF, "expected (")
		}
		return errAt(tok, ErrUnexpectedToken, "expected (, found %s", tok)
	}
	return c.skipGroup()
}

func (c *checker) params() *ErrorInfo {
	tok := c.peek()
	if tok.Type != token.LPAREN {
		if tok.Type == token.EOF {
			return errAt(tok, ErrUnexpectedEOF, "expected parameter list")
		}
		return errAt(tok, ErrUnexpectedToken, "expected parameter list, found %s", tok)
	}
	return c.skipGroup()
}

// returnType consumes an optional ": type" clause.
func (c *checker) returnType() *ErrorInfo {
	if !c.acceptOperator(":") {
		return nil
	}
	n := 0
	for {
		tok := c.peek()
		switch {
		case tok.Type == token.IDENT,
			tok.Type == token.KEYWORD,
			tok.Type == token.OPERATOR && (tok.Text == "?" || tok.Text == "\\" || tok.Text == "|" || tok.Text == "&"):
			c.next()
			n++
			continue
		}
		if n == 0 {
			if tok.Type == token.EOF {
				return errAt(tok, ErrUnexpectedEOF, "expected return type")
			}
			return errAt(tok, ErrUnexpectedToken, "expected return type, found %s", tok)
		}
		return nil
	}
}

// braceGroup checks a brace-delimited body at the delimiter level.
func (c *checker) braceGroup() *ErrorInfo {
	tok := c.peek()
	if tok.Type != token.LBRACE {
		if tok.Type == token.EOF {
			return errAt(tok, ErrUnexpectedEOF, "expected {")
		}
		return errAt(tok, ErrUnexpectedToken, "expected {, found %s", tok)
	}
	return c.skipGroup()
}

// skipGroup consumes a balanced delimiter group with the opener at the
// cursor.  Nested groups are validated recursively; mismatched closers are
// hard errors while a missing closer at end-of-input is classified as an
// unclosed delimiter.
func (c *checker) skipGroup() *ErrorInfo {
	open := c.next()
	closer := open.Type.Closer()
	for {
		tok := c.peek()
		switch {
		case tok.Type == closer:
			c.next()
			return nil
		case tok.Type == token.EOF:
			return errAt(open, ErrUnclosedDelimiter, "unclosed %s", open.Text)
		case tok.Type.IsClose():
			return errAt(tok, ErrUnexpectedToken, "unexpected %s inside %s group", tok.Text, open.Text)
		case tok.Type.IsOpen():
			if err := c.skipGroup(); err != nil {
				return err
			}
		case tok.Type == token.INVALID || tok.Type == token.ERROR:
			return errAt(tok, ErrUnexpectedToken, "invalid source text %q", tok.Text)
		default:
			c.next()
		}
	}
}

// exprKeywords may begin an expression.
var exprKeywords = map[string]bool{
	"array": true, "clone": true, "empty": true, "false": true, "fn": true,
	"function": true, "include": true, "include_once": true, "isset": true,
	"list": true, "match": true, "new": true, "null": true, "parent": true,
	"print": true, "require": true, "require_once": true, "self": true,
	"static": true, "true": true, "unset": true, "yield": true,
	"throw": true, "namespace": true,
}

// binaryOperators require a right-hand operand.
var binaryOperators = map[string]bool{
	"=": true, "==": true, "===": true, "!=": true, "!==": true, "<>": true,
	"<": true, ">": true, "<=": true, ">=": true, "<=>": true,
	"+": true, "-": true, "*": true, "/": true, "%": true, ".": true,
	"**": true, "&&": true, "||": true, "??": true, "??=": true,
	"&": true, "|": true, "^": true, "<<": true, ">>": true,
	"+=": true, "-=": true, "*=": true, "/=": true, ".=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, "**=": true,
	"=>": true, "\\": true,
}

var prefixOperators = map[string]bool{
	"!": true, "~": true, "+": true, "-": true, "++": true, "--": true,
	"@": true, "&": true, "\\": true, "...": true,
}

// expression checks one expression: an operand followed by any mix of
// member access, calls, subscripts, and binary operators.  A binary
// operator with no right-hand side at end-of-input classifies as
// ErrUnexpectedEOF so the input loop prompts for the continuation line.
func (c *checker) expression() *ErrorInfo {
	for {
		if err := c.operand(); err != nil {
			return err
		}
		more, err := c.postfix()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// postfix consumes trailing member access, calls, subscripts, and unary
// postfix operators.  It returns true when a binary operator was consumed
// and another operand is required.
func (c *checker) postfix() (bool, *ErrorInfo) {
	for {
		tok := c.peek()
		switch tok.Type {
		case token.ARROW, token.SCOPE:
			c.next()
			if err := c.member(tok); err != nil {
				return false, err
			}
		case token.LPAREN, token.LBRACKET:
			if err := c.skipGroup(); err != nil {
				return false, err
			}
		case token.OPERATOR:
			switch {
			case tok.Text == "++" || tok.Text == "--":
				c.next()
			case tok.Text == "?":
				return false, c.ternary()
			case binaryOperators[tok.Text]:
				c.next()
				return true, nil
			default:
				return false, nil
			}
		case token.KEYWORD:
			switch strings.ToLower(tok.Text) {
			case "instanceof", "and", "or", "xor":
				c.next()
				return true, nil
			}
			return false, nil
		default:
			return false, nil
		}
	}
}

// ternary checks "? expr : expr" or the short form "?: expr" with the '?'
// at the cursor.
func (c *checker) ternary() *ErrorInfo {
	c.next() // ?
	if !c.acceptOperator(":") {
		if err := c.expression(); err != nil {
			return err
		}
		if !c.acceptOperator(":") {
			tok := c.peek()
			if tok.Type == token.EOF {
				return errAt(tok, ErrUnexpectedEOF, "expected : in conditional expression")
			}
			return errAt(tok, ErrUnexpectedToken, "expected : in conditional expression, found %s", tok)
		}
	}
	return c.expression()
}

// member consumes the name after -> or ::.
func (c *checker) member(op *token.Token) *ErrorInfo {
	tok := c.peek()
	switch tok.Type {
	case token.IDENT, token.VARIABLE, token.KEYWORD:
		c.next()
		return nil
	case token.LBRACE:
		return c.skipGroup() // ->{expr} dynamic member
	case token.EOF:
		return errAt(tok, ErrUnexpectedEOF, "expected member name after %s", op.Text)
	default:
		return errAt(tok, ErrUnexpectedToken, "expected member name after %s, found %s", op.Text, tok)
	}
}

func (c *checker) operand() *ErrorInfo {
	// Prefix operators stack freely.
	for {
		tok := c.peek()
		if tok.Type == token.OPERATOR && prefixOperators[tok.Text] {
			c.next()
			continue
		}
		break
	}
	tok := c.peek()
	switch tok.Type {
	case token.VARIABLE, token.IDENT, token.INT, token.FLOAT,
		token.STRING, token.HEREDOC:
		c.next()
		return nil
	case token.LPAREN, token.LBRACKET:
		return c.skipGroup()
	case token.KEYWORD:
		return c.keywordOperand(tok)
	case token.EOF:
		return errAt(tok, ErrUnexpectedEOF, "expected expression")
	case token.INVALID, token.ERROR:
		return errAt(tok, ErrUnexpectedToken, "invalid source text %q", tok.Text)
	default:
		return errAt(tok, ErrUnexpectedToken, "unexpected %s", tok)
	}
}

func (c *checker) keywordOperand(tok *token.Token) *ErrorInfo {
	word := strings.ToLower(tok.Text)
	if !exprKeywords[word] {
		return errAt(tok, ErrUnexpectedToken, "unexpected %q", tok.Text)
	}
	switch word {
	case "new", "clone", "throw", "yield", "print":
		c.next()
		return c.expression()
	case "function":
		return c.closure()
	case "fn":
		return c.arrowFunction()
	case "match":
		c.next()
		if err := c.head(); err != nil {
			return err
		}
		return c.braceGroup()
	default:
		c.next()
		return nil
	}
}

func (c *checker) closure() *ErrorInfo {
	c.next() // function
	c.acceptOperator("&")
	if err := c.params(); err != nil {
		return err
	}
	if c.acceptKeyword("use") {
		if err := c.params(); err != nil {
			return err
		}
	}
	if err := c.returnType(); err != nil {
		return err
	}
	return c.requireBlock()
}

func (c *checker) arrowFunction() *ErrorInfo {
	c.next() // fn
	c.acceptOperator("&")
	if err := c.params(); err != nil {
		return err
	}
	if err := c.returnType(); err != nil {
		return err
	}
	if !c.acceptOperator("=>") {
		tok := c.peek()
		if tok.Type == token.EOF {
			return errAt(tok, ErrUnexpectedEOF, "expected => in arrow function")
		}
		return errAt(tok, ErrUnexpectedToken, "expected => in arrow function, found %s", tok)
	}
	return c.expression()
}

func errAt(tok *token.Token, kind ErrorKind, format string, v ...interface{}) *ErrorInfo {
	info := &ErrorInfo{
		Message: fmt.Sprintf(format, v...),
		Kind:    kind,
	}
	if tok != nil && tok.Source != nil {
		info.Pos = tok.Source.Pos
		info.Line = tok.Source.Line
		info.Col = tok.Source.Col
	}
	return info
}
