// Copyright © 2025 The Parlor authors

package parser

import (
	"testing"

	"github.com/parlorsh/parlor/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizePure(t *testing.T) {
	// Tokenize is a pure function: two calls over the same input produce
	// identical streams.
	src := `$x = foo("bar") + 1; // trailing`
	a := Tokenize("test", src)
	b := Tokenize("test", src)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Type, b[i].Type)
		assert.Equal(t, a[i].Text, b[i].Text)
	}
	assert.Equal(t, token.EOF, a[len(a)-1].Type)
}

func TestTokenizeNeverFails(t *testing.T) {
	inputs := []string{
		"", "\x00\x01", `"unterminated`, "<<<EOT\nstuck", "/* open",
		"((((((((", "}}}}", "$", "`backtick`",
	}
	for _, src := range inputs {
		toks := Tokenize("test", src)
		require.NotEmpty(t, toks, "input: %q", src)
		assert.Equal(t, token.EOF, toks[len(toks)-1].Type, "input: %q", src)
	}
}

func TestCheckComplete(t *testing.T) {
	sources := []string{
		"",
		";",
		"$x = 1;",
		"$x = 1", // implicit final terminator
		"echo 1, 2, 3;",
		`echo "hello " . $name;`,
		"if (true) { echo 1; }",
		"if ($a) { echo 1; } elseif ($b) { echo 2; } else { echo 3; }",
		"while ($i < 10) { $i++; }",
		"for ($i = 0; $i < 3; $i++) { echo $i; }",
		"foreach ($xs as $k => $v) { echo $v; }",
		"do { $i--; } while ($i > 0);",
		"switch ($x) { case 1: echo 1; break; default: echo 2; }",
		"function add($a, $b) { return $a + $b; }",
		"function typed(int $a): ?string { return null; }",
		"$f = function ($x) use ($y) { return $x + $y; };",
		"$f = fn($x) => $x * 2;",
		"class Point { public $x; public function norm() { return 0; } }",
		"abstract class Base extends Other implements A, B { }",
		"interface Shape { public function area(); }",
		"try { risky(); } catch (Exception $e) { echo $e; } finally { done(); }",
		"$o = new Point(1, 2);",
		"$o->method()->chain[0]();",
		"Foo::bar();",
		"self::MAX;",
		"$p = parent::make();",
		"static::create();",
		"$x = $a ? $b : $c;",
		"$x = $a ?: $c;",
		"$x = [1, 2 => 'two', 'k' => [3]];",
		"$m = match($x) { 1 => 'one', default => 'many' };",
		"use Foo\\Bar;",
		"$x = 1 + 2 * 3 ** 4;",
		"return;",
		"throw new Exception('boom');",
		"// just a comment",
		"$s = <<<EOT\nmulti\nline\nEOT;",
		"$x = -5; $y = !$x; $z = ++$y;",
	}
	for _, src := range sources {
		err := Check("test", src)
		assert.Nil(t, err, "source should check clean: %s (got %v)", src, err)
	}
}

func TestCheckIncompleteKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind ErrorKind
	}{
		{"if (true) {", ErrUnclosedDelimiter},
		{"function f() {", ErrUnclosedDelimiter},
		{"foo(1, 2", ErrUnclosedDelimiter},
		{"$a = [1, 2", ErrUnclosedDelimiter},
		{"(1 + 2", ErrUnclosedDelimiter},
		{`echo "unterminated`, ErrUnterminatedLiteral},
		{"'still open", ErrUnterminatedLiteral},
		{"/* dangling", ErrUnterminatedLiteral},
		{"<<<EOT\nno closer yet", ErrUnterminatedLiteral},
		{"1 +", ErrUnexpectedEOF},
		{"$x =", ErrUnexpectedEOF},
		{"$x = $y .", ErrUnexpectedEOF},
		{"$a->", ErrUnexpectedEOF},
		{"Foo::", ErrUnexpectedEOF},
		{"new", ErrUnexpectedEOF},
		{"do { $x; }", ErrUnexpectedEOF},
		{"try { $x; }", ErrUnexpectedEOF},
		{"$x = $a ? $b", ErrUnexpectedEOF},
	}
	for _, test := range tests {
		err := Check("test", test.src)
		require.NotNil(t, err, "source should not check clean: %s", test.src)
		assert.Equal(t, test.kind, err.Kind, "source: %s (err: %v)", test.src, err)
	}
}

func TestCheckHardErrors(t *testing.T) {
	sources := []string{
		")(",
		"}",
		"1 2",
		"echo if;",
		"$x = );",
		"foo(]",
		"if { echo 1; }",
		"class { }",
		"$x = \x00;",
	}
	for _, src := range sources {
		err := Check("test", src)
		require.NotNil(t, err, "source should fail: %q", src)
		assert.Equal(t, ErrUnexpectedToken, err.Kind, "source: %q (err: %v)", src, err)
	}
}

func TestCheckErrorPosition(t *testing.T) {
	err := Check("test", "$x = 1;\n)(")
	require.NotNil(t, err)
	assert.Equal(t, 2, err.Line)
	assert.Equal(t, 1, err.Col)
	assert.Equal(t, 8, err.Pos)
	assert.Contains(t, err.Error(), "2:1:")
}

func TestCheckAccumulationNeverRegresses(t *testing.T) {
	// Once a buffer has a hard error, appending lines must not turn the
	// classification back into an incompleteness kind.
	base := "$x = );"
	require.Equal(t, ErrUnexpectedToken, Check("test", base).Kind)
	for _, extra := range []string{"$y = 1;", "if (true) {", `echo "open`} {
		err := Check("test", base+"\n"+extra)
		require.NotNil(t, err)
		assert.Equal(t, ErrUnexpectedToken, err.Kind, "appended: %s", extra)
	}
}
