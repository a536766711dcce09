// Copyright © 2025 The Parlor authors

package shell

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/parlorsh/parlor/parser"
	"github.com/parlorsh/parlor/parser/token"
	"github.com/parlorsh/parlor/scope"
)

// Value is a runtime value: int64, float64, string, bool, []Value,
// *Object, or nil.
type Value interface{}

// Object is an instance of a declared class.  Instances carry no state of
// their own; the environment tracks the class for member completion.
type Object struct {
	Class string
}

// EvalError is a runtime or analysis failure with a source position.
type EvalError struct {
	Message string
	Line    int
	Col     int
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Eval executes source against env, writing any produced output to out.
// The session evaluates declarations, assignments, echo, unset, and plain
// expressions; control flow is recognized by the syntax checker but not
// executed here.
func Eval(env *Env, out io.Writer, source string) error {
	toks := make([]*token.Token, 0, 16)
	for _, tok := range parser.Tokenize("<input>", source) {
		if tok.Type == token.COMMENT {
			continue
		}
		toks = append(toks, tok)
	}
	ev := &evaluator{env: env, out: out, toks: toks}
	for !ev.atEOF() {
		if ev.accept(token.SEMI) {
			continue
		}
		if err := ev.statement(); err != nil {
			return err
		}
	}
	return nil
}

type evaluator struct {
	env  *Env
	out  io.Writer
	toks []*token.Token
	pos  int
}

func (ev *evaluator) peek() *token.Token {
	if ev.pos < len(ev.toks) {
		return ev.toks[ev.pos]
	}
	return ev.toks[len(ev.toks)-1] // EOF sentinel
}

func (ev *evaluator) next() *token.Token {
	tok := ev.peek()
	if tok.Type != token.EOF {
		ev.pos++
	}
	return tok
}

func (ev *evaluator) atEOF() bool {
	return ev.peek().Type == token.EOF
}

func (ev *evaluator) accept(typ token.Type) bool {
	if ev.peek().Type == typ {
		ev.pos++
		return true
	}
	return false
}

func (ev *evaluator) acceptOperator(text string) bool {
	tok := ev.peek()
	if tok.Type == token.OPERATOR && tok.Text == text {
		ev.pos++
		return true
	}
	return false
}

func (ev *evaluator) errf(tok *token.Token, format string, v ...interface{}) error {
	e := &EvalError{Message: fmt.Sprintf(format, v...)}
	if tok != nil && tok.Source != nil {
		e.Line = tok.Source.Line
		e.Col = tok.Source.Col
	}
	return e
}

func (ev *evaluator) terminator() error {
	tok := ev.peek()
	switch tok.Type {
	case token.SEMI:
		ev.pos++
		return nil
	case token.EOF:
		return nil
	}
	return ev.errf(tok, "expected ';', found %s", tok.Text)
}

func (ev *evaluator) statement() error {
	tok := ev.peek()
	if tok.Type == token.KEYWORD {
		switch strings.ToLower(tok.Text) {
		case "echo", "print":
			return ev.echoStatement()
		case "unset":
			return ev.unsetStatement()
		case "function":
			return ev.functionDecl()
		case "class", "interface", "trait":
			return ev.classDecl()
		case "const":
			return ev.constDecl()
		case "if", "while", "for", "foreach", "do", "switch", "try", "return",
			"break", "continue", "throw", "match", "namespace", "use", "global":
			return ev.errf(tok, "%s statements are not executed in this session; use declarations, assignments, and expressions", tok.Text)
		}
	}
	return ev.expressionStatement()
}

func (ev *evaluator) echoStatement() error {
	ev.next() // echo or print
	for {
		val, err := ev.expression()
		if err != nil {
			return err
		}
		fmt.Fprint(ev.out, ToString(val))
		if !ev.accept(token.COMMA) {
			break
		}
	}
	fmt.Fprintln(ev.out)
	return ev.terminator()
}

func (ev *evaluator) unsetStatement() error {
	ev.next() // unset
	if !ev.accept(token.LPAREN) {
		return ev.errf(ev.peek(), "expected '(' after unset")
	}
	for {
		tok := ev.next()
		if tok.Type != token.VARIABLE {
			return ev.errf(tok, "unset expects a variable, found %s", tok.Text)
		}
		ev.env.Unset(tok.Text[1:])
		if !ev.accept(token.COMMA) {
			break
		}
	}
	if !ev.accept(token.RPAREN) {
		return ev.errf(ev.peek(), "expected ')' to close unset")
	}
	return ev.terminator()
}

// functionDecl records a function's name and signature; bodies are kept
// only as documentation and never invoked.
func (ev *evaluator) functionDecl() error {
	ev.next() // function
	name := ev.next()
	if name.Type != token.IDENT {
		return ev.errf(name, "expected function name, found %s", name.Text)
	}
	open := ev.peek()
	if open.Type != token.LPAREN {
		return ev.errf(open, "expected parameter list after function name")
	}
	sig, err := ev.captureGroup()
	if err != nil {
		return err
	}
	// Optional return type.
	if ev.acceptOperator(":") {
		for {
			tok := ev.peek()
			if tok.Type == token.IDENT || tok.Type == token.KEYWORD ||
				(tok.Type == token.OPERATOR && (tok.Text == "?" || tok.Text == "|")) {
				ev.pos++
				continue
			}
			break
		}
	}
	if err := ev.skipBraceGroup(); err != nil {
		return err
	}
	ev.env.DefineFunc(&FuncInfo{
		Name:      name.Text,
		Signature: name.Text + sig,
		Doc:       "User-defined function declared this session.",
	})
	return nil
}

func (ev *evaluator) classDecl() error {
	word := ev.next() // class, interface, or trait
	iface := strings.EqualFold(word.Text, "interface")
	name := ev.next()
	if name.Type != token.IDENT {
		return ev.errf(name, "expected %s name, found %s", strings.ToLower(word.Text), name.Text)
	}
	ci := &ClassInfo{Name: name.Text, Iface: iface}
	if ev.acceptKeyword("extends") {
		parent := ev.next()
		if parent.Type != token.IDENT {
			return ev.errf(parent, "expected parent name after extends")
		}
		ci.Parent = parent.Text
	}
	if ev.acceptKeyword("implements") {
		for {
			tok := ev.next()
			if tok.Type != token.IDENT {
				return ev.errf(tok, "expected interface name")
			}
			if !ev.accept(token.COMMA) {
				break
			}
		}
	}
	if ev.peek().Type != token.LBRACE {
		return ev.errf(ev.peek(), "expected '{' to open %s body", strings.ToLower(word.Text))
	}
	members, err := ev.scanMembers()
	if err != nil {
		return err
	}
	ci.Members = members
	ev.env.DefineClass(ci)
	return nil
}

func (ev *evaluator) acceptKeyword(word string) bool {
	tok := ev.peek()
	if tok.Type == token.KEYWORD && strings.EqualFold(tok.Text, word) {
		ev.pos++
		return true
	}
	return false
}

// scanMembers walks a class body at brace depth one, recording member
// declarations.  Method bodies are skipped whole.
func (ev *evaluator) scanMembers() ([]scope.MemberInfo, error) {
	ev.next() // opening brace
	var members []scope.MemberInfo
	static := false
	for {
		tok := ev.peek()
		switch tok.Type {
		case token.EOF:
			return nil, ev.errf(tok, "class body is never closed")
		case token.RBRACE:
			ev.pos++
			return members, nil
		case token.KEYWORD:
			switch strings.ToLower(tok.Text) {
			case "public", "private", "protected", "final", "abstract", "var", "readonly":
				ev.pos++
			case "static":
				static = true
				ev.pos++
			case "const":
				ev.pos++
				cname := ev.next()
				if cname.Type != token.IDENT {
					return nil, ev.errf(cname, "expected constant name")
				}
				members = append(members, scope.MemberInfo{
					Name: cname.Text, Kind: scope.ClassConst, Static: true,
				})
				ev.skipToMemberEnd()
				static = false
			case "function":
				ev.pos++
				mname := ev.next()
				if mname.Type != token.IDENT {
					return nil, ev.errf(mname, "expected method name")
				}
				members = append(members, scope.MemberInfo{
					Name: mname.Text, Kind: scope.Method, Static: static,
				})
				if err := ev.skipMethodRest(); err != nil {
					return nil, err
				}
				static = false
			default:
				ev.pos++
			}
		case token.VARIABLE:
			ev.pos++
			members = append(members, scope.MemberInfo{
				Name: tok.Text[1:], Kind: scope.Property, Static: static,
			})
			ev.skipToMemberEnd()
			static = false
		default:
			// Type hints on properties and anything else we do not model.
			ev.pos++
		}
	}
}

// skipToMemberEnd advances past a property or constant initializer up to
// and including its semicolon.
func (ev *evaluator) skipToMemberEnd() {
	for {
		tok := ev.peek()
		switch tok.Type {
		case token.SEMI:
			ev.pos++
			return
		case token.EOF, token.RBRACE:
			return
		}
		if tok.Type.IsOpen() {
			_ = ev.skipGroup()
			continue
		}
		ev.pos++
	}
}

// skipMethodRest consumes a parameter list, optional return type, and the
// method body (or terminating semicolon for abstract and interface
// methods).
func (ev *evaluator) skipMethodRest() error {
	if ev.peek().Type == token.LPAREN {
		if err := ev.skipGroup(); err != nil {
			return err
		}
	}
	for {
		tok := ev.peek()
		switch tok.Type {
		case token.LBRACE:
			return ev.skipGroup()
		case token.SEMI:
			ev.pos++
			return nil
		case token.EOF:
			return ev.errf(tok, "method declaration is never finished")
		}
		ev.pos++
	}
}

// skipGroup consumes a balanced bracketed group starting at the current
// opener.
func (ev *evaluator) skipGroup() error {
	open := ev.next()
	depth := 1
	for depth > 0 {
		tok := ev.next()
		switch {
		case tok.Type == token.EOF:
			return ev.errf(open, "unclosed %s", open.Text)
		case tok.Type.IsOpen():
			depth++
		case tok.Type.IsClose():
			depth--
		}
	}
	return nil
}

func (ev *evaluator) skipBraceGroup() error {
	if ev.peek().Type != token.LBRACE {
		return ev.errf(ev.peek(), "expected '{', found %s", ev.peek().Text)
	}
	return ev.skipGroup()
}

// captureGroup consumes a balanced group and returns its source text.
func (ev *evaluator) captureGroup() (string, error) {
	start := ev.pos
	if err := ev.skipGroup(); err != nil {
		return "", err
	}
	var b strings.Builder
	for i := start; i < ev.pos; i++ {
		if i > start && needSpace(ev.toks[i-1], ev.toks[i]) {
			b.WriteByte(' ')
		}
		b.WriteString(ev.toks[i].Text)
	}
	return b.String(), nil
}

func needSpace(prev, cur *token.Token) bool {
	switch prev.Type {
	case token.LPAREN, token.LBRACKET:
		return false
	}
	switch cur.Type {
	case token.RPAREN, token.RBRACKET, token.COMMA:
		return false
	}
	return cur.Type != token.LPAREN || prev.Type != token.IDENT
}

func (ev *evaluator) constDecl() error {
	ev.next() // const
	name := ev.next()
	if name.Type != token.IDENT {
		return ev.errf(name, "expected constant name, found %s", name.Text)
	}
	if !ev.acceptOperator("=") {
		return ev.errf(ev.peek(), "expected '=' after constant name")
	}
	val, err := ev.expression()
	if err != nil {
		return err
	}
	ev.env.DefineConst(name.Text, val)
	return ev.terminator()
}

// compoundOps maps augmented assignment operators to their binary form.
var compoundOps = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%", ".=": ".",
}

func (ev *evaluator) expressionStatement() error {
	// Assignment is only recognized in the leading position; everything
	// else is an expression whose value gets printed.
	tok := ev.peek()
	if tok.Type == token.VARIABLE && ev.pos+1 < len(ev.toks) {
		op := ev.toks[ev.pos+1]
		if op.Type == token.OPERATOR {
			if op.Text == "=" {
				ev.pos += 2
				val, err := ev.expression()
				if err != nil {
					return err
				}
				ev.env.SetVar(tok.Text[1:], val)
				return ev.terminator()
			}
			if binop, ok := compoundOps[op.Text]; ok {
				cur, bound := ev.env.GetVar(tok.Text[1:])
				if !bound {
					return ev.errf(tok, "undefined variable %s", tok.Text)
				}
				ev.pos += 2
				rhs, err := ev.expression()
				if err != nil {
					return err
				}
				val, err := ev.applyBinary(op, binop, cur, rhs)
				if err != nil {
					return err
				}
				ev.env.SetVar(tok.Text[1:], val)
				return ev.terminator()
			}
		}
	}
	val, err := ev.expression()
	if err != nil {
		return err
	}
	fmt.Fprintf(ev.out, "=> %s\n", Repr(val))
	return ev.terminator()
}

// Binary precedence tiers, loosest first.
var binaryTiers = [][]string{
	{"||", "or"},
	{"&&", "and"},
	{"==", "!=", "===", "!==", "<", ">", "<=", ">=", "<=>"},
	{"+", "-", "."},
	{"*", "/", "%"},
}

func (ev *evaluator) expression() (Value, error) {
	return ev.binary(0)
}

func (ev *evaluator) binary(tier int) (Value, error) {
	if tier >= len(binaryTiers) {
		return ev.unary()
	}
	left, err := ev.binary(tier + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok := ev.peek()
		if !operatorIn(tok, binaryTiers[tier]) {
			return left, nil
		}
		ev.pos++
		right, err := ev.binary(tier + 1)
		if err != nil {
			return nil, err
		}
		left, err = ev.applyBinary(tok, strings.ToLower(tok.Text), left, right)
		if err != nil {
			return nil, err
		}
	}
}

func operatorIn(tok *token.Token, ops []string) bool {
	if tok.Type != token.OPERATOR && tok.Type != token.KEYWORD {
		return false
	}
	for _, op := range ops {
		if strings.EqualFold(tok.Text, op) {
			return true
		}
	}
	return false
}

func (ev *evaluator) unary() (Value, error) {
	tok := ev.peek()
	if tok.Type == token.OPERATOR {
		switch tok.Text {
		case "-":
			ev.pos++
			val, err := ev.unary()
			if err != nil {
				return nil, err
			}
			switch n := val.(type) {
			case int64:
				return -n, nil
			case float64:
				return -n, nil
			}
			return nil, ev.errf(tok, "cannot negate %s", TypeName(val))
		case "+":
			ev.pos++
			return ev.unary()
		case "!":
			ev.pos++
			val, err := ev.unary()
			if err != nil {
				return nil, err
			}
			return !Truthy(val), nil
		}
	}
	return ev.postfix()
}

func (ev *evaluator) postfix() (Value, error) {
	val, err := ev.primary()
	if err != nil {
		return nil, err
	}
	for {
		tok := ev.peek()
		switch tok.Type {
		case token.LBRACKET:
			ev.pos++
			idx, err := ev.expression()
			if err != nil {
				return nil, err
			}
			if !ev.accept(token.RBRACKET) {
				return nil, ev.errf(ev.peek(), "expected ']' after index")
			}
			val, err = index(tok, val, idx)
			if err != nil {
				return nil, err
			}
		case token.ARROW:
			obj, ok := val.(*Object)
			if !ok {
				return nil, ev.errf(tok, "cannot access member of %s", TypeName(val))
			}
			ev.pos++
			name := ev.next()
			if name.Type != token.IDENT {
				return nil, ev.errf(name, "expected member name")
			}
			return nil, ev.errf(name, "members of %s are declared but not evaluated in this session", obj.Class)
		default:
			return val, nil
		}
	}
}

func (ev *evaluator) primary() (Value, error) {
	tok := ev.next()
	switch tok.Type {
	case token.INT:
		n, err := parseInt(tok.Text)
		if err != nil {
			return nil, ev.errf(tok, "bad integer literal %s", tok.Text)
		}
		return n, nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.Text, "_", ""), 64)
		if err != nil {
			return nil, ev.errf(tok, "bad float literal %s", tok.Text)
		}
		return f, nil
	case token.STRING:
		return unquote(tok.Text), nil
	case token.HEREDOC:
		return heredocBody(tok.Text), nil
	case token.VARIABLE:
		val, ok := ev.env.GetVar(tok.Text[1:])
		if !ok {
			return nil, ev.errf(tok, "undefined variable %s", tok.Text)
		}
		return val, nil
	case token.KEYWORD:
		switch strings.ToLower(tok.Text) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		case "new":
			return ev.newExpr()
		}
		return nil, ev.errf(tok, "unexpected %s in expression", tok.Text)
	case token.IDENT:
		if ev.peek().Type == token.LPAREN {
			return ev.call(tok)
		}
		if val, ok := ev.env.GetConst(tok.Text); ok {
			return val, nil
		}
		return nil, ev.errf(tok, "undefined constant %s", tok.Text)
	case token.LPAREN:
		val, err := ev.expression()
		if err != nil {
			return nil, err
		}
		if !ev.accept(token.RPAREN) {
			return nil, ev.errf(ev.peek(), "expected ')'")
		}
		return val, nil
	case token.LBRACKET:
		return ev.arrayLiteral()
	}
	return nil, ev.errf(tok, "unexpected %s in expression", tok.Text)
}

func (ev *evaluator) arrayLiteral() (Value, error) {
	var elems []Value
	if ev.accept(token.RBRACKET) {
		return elems, nil
	}
	for {
		val, err := ev.expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, val)
		if ev.accept(token.COMMA) {
			if ev.accept(token.RBRACKET) { // trailing comma
				return elems, nil
			}
			continue
		}
		if ev.accept(token.RBRACKET) {
			return elems, nil
		}
		return nil, ev.errf(ev.peek(), "expected ',' or ']' in array literal")
	}
}

func (ev *evaluator) newExpr() (Value, error) {
	name := ev.next()
	if name.Type != token.IDENT {
		return nil, ev.errf(name, "expected class name after new")
	}
	if _, ok := ev.env.Class(name.Text); !ok {
		return nil, ev.errf(name, "undefined class %s", name.Text)
	}
	if ev.peek().Type == token.LPAREN {
		// Constructor arguments are evaluated for effect but discarded.
		if _, err := ev.argList(); err != nil {
			return nil, err
		}
	}
	return &Object{Class: name.Text}, nil
}

func (ev *evaluator) argList() ([]Value, error) {
	ev.next() // opening paren
	var args []Value
	if ev.accept(token.RPAREN) {
		return args, nil
	}
	for {
		val, err := ev.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, val)
		if ev.accept(token.COMMA) {
			continue
		}
		if ev.accept(token.RPAREN) {
			return args, nil
		}
		return nil, ev.errf(ev.peek(), "expected ',' or ')' in argument list")
	}
}

func (ev *evaluator) call(name *token.Token) (Value, error) {
	args, err := ev.argList()
	if err != nil {
		return nil, err
	}
	if _, ok := ev.env.Func(name.Text); !ok {
		return nil, ev.errf(name, "call to undefined function %s()", name.Text)
	}
	return ev.callBuiltin(name, args)
}

func (ev *evaluator) callBuiltin(name *token.Token, args []Value) (Value, error) {
	arity := func(n int) error {
		if len(args) != n {
			return ev.errf(name, "%s() expects %d argument(s), %d given", name.Text, n, len(args))
		}
		return nil
	}
	switch strings.ToLower(name.Text) {
	case "strlen":
		if err := arity(1); err != nil {
			return nil, err
		}
		return int64(len(ToString(args[0]))), nil
	case "strtoupper":
		if err := arity(1); err != nil {
			return nil, err
		}
		return strings.ToUpper(ToString(args[0])), nil
	case "strtolower":
		if err := arity(1); err != nil {
			return nil, err
		}
		return strings.ToLower(ToString(args[0])), nil
	case "count":
		if err := arity(1); err != nil {
			return nil, err
		}
		arr, ok := args[0].([]Value)
		if !ok {
			return nil, ev.errf(name, "count() expects an array, %s given", TypeName(args[0]))
		}
		return int64(len(arr)), nil
	case "abs":
		if err := arity(1); err != nil {
			return nil, err
		}
		switch n := args[0].(type) {
		case int64:
			if n < 0 {
				return -n, nil
			}
			return n, nil
		case float64:
			if n < 0 {
				return -n, nil
			}
			return n, nil
		}
		return nil, ev.errf(name, "abs() expects a number, %s given", TypeName(args[0]))
	case "max", "min":
		if len(args) == 0 {
			return nil, ev.errf(name, "%s() expects at least 1 argument", name.Text)
		}
		best := args[0]
		for _, arg := range args[1:] {
			less, err := numLess(arg, best)
			if err != nil {
				return nil, ev.errf(name, "%s() expects numbers", name.Text)
			}
			if (strings.EqualFold(name.Text, "min")) == less {
				best = arg
			}
		}
		return best, nil
	case "implode":
		if err := arity(2); err != nil {
			return nil, err
		}
		arr, ok := args[1].([]Value)
		if !ok {
			return nil, ev.errf(name, "implode() expects an array, %s given", TypeName(args[1]))
		}
		parts := make([]string, len(arr))
		for i, v := range arr {
			parts[i] = ToString(v)
		}
		return strings.Join(parts, ToString(args[0])), nil
	case "gettype":
		if err := arity(1); err != nil {
			return nil, err
		}
		return TypeName(args[0]), nil
	case "var_dump":
		for _, arg := range args {
			fmt.Fprintln(ev.out, dumpValue(arg))
		}
		return nil, nil
	}
	return nil, ev.errf(name, "%s() is declared but has no interactive implementation", name.Text)
}

func (ev *evaluator) applyBinary(tok *token.Token, op string, left, right Value) (Value, error) {
	switch op {
	case "||", "or":
		return Truthy(left) || Truthy(right), nil
	case "&&", "and":
		return Truthy(left) && Truthy(right), nil
	case ".":
		return ToString(left) + ToString(right), nil
	case "==", "===":
		return equalValues(left, right), nil
	case "!=", "!==":
		return !equalValues(left, right), nil
	case "<", ">", "<=", ">=":
		less, err := numLess(left, right)
		if err != nil {
			return nil, ev.errf(tok, "cannot compare %s with %s", TypeName(left), TypeName(right))
		}
		greater, _ := numLess(right, left)
		switch op {
		case "<":
			return less, nil
		case ">":
			return greater, nil
		case "<=":
			return !greater, nil
		default:
			return !less, nil
		}
	case "<=>":
		less, err := numLess(left, right)
		if err != nil {
			return nil, ev.errf(tok, "cannot compare %s with %s", TypeName(left), TypeName(right))
		}
		greater, _ := numLess(right, left)
		switch {
		case less:
			return int64(-1), nil
		case greater:
			return int64(1), nil
		default:
			return int64(0), nil
		}
	case "+", "-", "*", "/", "%":
		return arith(tok, op, left, right, ev)
	}
	return nil, ev.errf(tok, "operator %s is not supported interactively", tok.Text)
}

func arith(tok *token.Token, op string, left, right Value, ev *evaluator) (Value, error) {
	li, lok := left.(int64)
	ri, rok := right.(int64)
	if lok && rok {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "/":
			if ri == 0 {
				return nil, ev.errf(tok, "division by zero")
			}
			if li%ri == 0 {
				return li / ri, nil
			}
			return float64(li) / float64(ri), nil
		case "%":
			if ri == 0 {
				return nil, ev.errf(tok, "modulo by zero")
			}
			return li % ri, nil
		}
	}
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, ev.errf(tok, "unsupported operand types %s %s %s", TypeName(left), op, TypeName(right))
	}
	switch op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		if rf == 0 {
			return nil, ev.errf(tok, "division by zero")
		}
		return lf / rf, nil
	}
	return nil, ev.errf(tok, "unsupported operand types %s %s %s", TypeName(left), op, TypeName(right))
}

func index(tok *token.Token, val, idx Value) (Value, error) {
	i, ok := idx.(int64)
	if !ok {
		return nil, &EvalError{Message: fmt.Sprintf("array index must be an integer, %s given", TypeName(idx)), Line: line(tok), Col: col(tok)}
	}
	switch v := val.(type) {
	case []Value:
		if i < 0 || int(i) >= len(v) {
			return nil, nil // out-of-range reads yield null
		}
		return v[i], nil
	case string:
		if i < 0 || int(i) >= len(v) {
			return nil, nil
		}
		return string(v[i]), nil
	}
	return nil, &EvalError{Message: fmt.Sprintf("cannot index %s", TypeName(val)), Line: line(tok), Col: col(tok)}
}

func line(tok *token.Token) int {
	if tok.Source != nil {
		return tok.Source.Line
	}
	return 0
}

func col(tok *token.Token) int {
	if tok.Source != nil {
		return tok.Source.Col
	}
	return 0
}

func parseInt(text string) (int64, error) {
	text = strings.ReplaceAll(text, "_", "")
	if len(text) > 1 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			return strconv.ParseInt(text[2:], 16, 64)
		case 'b', 'B':
			return strconv.ParseInt(text[2:], 2, 64)
		case 'o', 'O':
			return strconv.ParseInt(text[2:], 8, 64)
		}
	}
	return strconv.ParseInt(text, 10, 64)
}

// unquote strips the surrounding quotes from a string lexeme and expands
// escapes in double-quoted strings.  Single-quoted strings expand only
// \' and \\.
func unquote(lexeme string) string {
	if len(lexeme) < 2 {
		return lexeme
	}
	quote := lexeme[0]
	body := lexeme[1 : len(lexeme)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		e := body[i]
		if quote == '\'' {
			if e == '\'' || e == '\\' {
				b.WriteByte(e)
			} else {
				b.WriteByte('\\')
				b.WriteByte(e)
			}
			continue
		}
		switch e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '"', '\\', '$':
			b.WriteByte(e)
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

// heredocBody extracts the body text between a heredoc opener line and
// its closing label line, trimming the closer's indentation from every
// body line per flexible heredoc rules.
func heredocBody(lexeme string) string {
	first := strings.IndexByte(lexeme, '\n')
	last := strings.LastIndexByte(lexeme, '\n')
	if first < 0 || last <= first {
		return ""
	}
	body := lexeme[first+1 : last]
	closer := lexeme[last+1:]
	indent := closer[:len(closer)-len(strings.TrimLeft(closer, " \t"))]
	if indent == "" {
		return body
	}
	lines := strings.Split(body, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimPrefix(ln, indent)
	}
	return strings.Join(lines, "\n")
}

// Truthy applies the language's loose boolean conversion.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != "" && v != "0"
	case []Value:
		return len(v) > 0
	}
	return true
}

// ToString converts a value the way echo does.
func ToString(v Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "1"
		}
		return ""
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case []Value:
		return "Array"
	case *Object:
		return v.Class
	}
	return fmt.Sprint(v)
}

// Repr renders a value for result display, quoting strings.
func Repr(v Value) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return strconv.Quote(v)
	case []Value:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = Repr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Object:
		return v.Class + " {}"
	}
	return ToString(v)
}

// TypeName returns the language-level type name of a value.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []Value:
		return "array"
	case *Object:
		return "object"
	}
	return "unknown"
}

func dumpValue(v Value) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return fmt.Sprintf("bool(%t)", v)
	case int64:
		return fmt.Sprintf("int(%d)", v)
	case float64:
		return fmt.Sprintf("float(%s)", strconv.FormatFloat(v, 'g', -1, 64))
	case string:
		return fmt.Sprintf("string(%d) %q", len(v), v)
	case []Value:
		var b strings.Builder
		fmt.Fprintf(&b, "array(%d) {", len(v))
		for i, e := range v {
			fmt.Fprintf(&b, "\n  [%d]=> %s", i, dumpValue(e))
		}
		if len(v) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("}")
		return b.String()
	case *Object:
		return fmt.Sprintf("object(%s)", v.Class)
	}
	return fmt.Sprint(v)
}

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func numLess(a, b Value) (bool, error) {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as < bs, nil
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return false, fmt.Errorf("not comparable")
	}
	return af < bf, nil
}

func equalValues(a, b Value) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	if av, ok := a.([]Value); ok {
		bv, ok := b.([]Value)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// sortedKeys is shared by the ls command renderers.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
