// Copyright © 2025 The Parlor authors

package complete

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/parlorsh/parlor/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResolver struct {
	vars    []string
	funcs   []string
	classes []string
	ifaces  []string
	consts  []string
	members map[string][]scope.MemberInfo
}

func (r *testResolver) Variables() []string { return r.vars }

func (r *testResolver) Symbols(kind scope.SymbolKind) []string {
	switch kind {
	case scope.Function:
		return r.funcs
	case scope.Class:
		return r.classes
	case scope.Interface:
		return r.ifaces
	case scope.Constant:
		return r.consts
	}
	return nil
}

func (r *testResolver) Members(owner string) []scope.MemberInfo {
	return r.members[owner]
}

func texts(candidates []Candidate) []string {
	var out []string
	for _, c := range candidates {
		out = append(out, c.Text)
	}
	return out
}

func TestObjectMemberCompletion(t *testing.T) {
	// Spec scenario: completing $myVar-> with members foo and bar yields
	// exactly ["bar","foo"], no global functions mixed in.
	res := &testResolver{
		funcs: []string{"globalfn"},
		members: map[string][]scope.MemberInfo{
			"$myVar": {
				{Name: "foo", Kind: scope.Method},
				{Name: "bar", Kind: scope.Property},
			},
		},
	}
	e := NewEngine(res)
	src := "$myVar->"
	got := e.Complete(context.Background(), src, len(src))
	assert.Equal(t, []string{"bar", "foo"}, texts(got.Candidates))
	assert.Equal(t, "", got.Prefix)
}

func TestBarePrefixCompletion(t *testing.T) {
	// Spec scenario: prefix "fo" with functions foo and foobar and no
	// matching variables returns both, replaced prefix "fo".
	res := &testResolver{funcs: []string{"foobar", "foo", "unrelated"}}
	e := NewEngine(res)
	got := e.Complete(context.Background(), "fo", 2)
	assert.Equal(t, []string{"foo", "foobar"}, texts(got.Candidates))
	assert.Equal(t, "fo", got.Prefix)
}

func TestVariableCompletion(t *testing.T) {
	res := &testResolver{vars: []string{"count", "counter", "name"}}
	e := NewEngine(res)
	got := e.Complete(context.Background(), "$cou", 4)
	assert.Equal(t, []string{"$count", "$counter"}, texts(got.Candidates))
	assert.Equal(t, "$cou", got.Prefix)

	// A lone sigil offers every variable.  The sigil is part of the prefix
	// so replacing Prefix with a candidate's Text does not double it.
	got = e.Complete(context.Background(), "$", 1)
	assert.Equal(t, []string{"$count", "$counter", "$name"}, texts(got.Candidates))
	assert.Equal(t, "$", got.Prefix)
}

func TestStaticMemberCompletion(t *testing.T) {
	res := &testResolver{
		members: map[string][]scope.MemberInfo{
			"Point": {
				{Name: "origin", Kind: scope.Method, Static: true},
				{Name: "MAX", Kind: scope.ClassConst},
				{Name: "x", Kind: scope.Property}, // instance-only, hidden
				{Name: "shared", Kind: scope.Property, Static: true},
			},
		},
	}
	e := NewEngine(res)
	src := "Point::"
	got := e.Complete(context.Background(), src, len(src))
	assert.Equal(t, []string{"$shared", "MAX", "origin"}, texts(got.Candidates))
}

func TestSelfStaticMemberCompletion(t *testing.T) {
	res := &testResolver{
		members: map[string][]scope.MemberInfo{
			"Point": {
				{Name: "origin", Kind: scope.Method, Static: true},
				{Name: "MAX", Kind: scope.ClassConst},
			},
		},
	}
	e := NewEngine(res, WithAux(AuxCurrentClass, "Point"))

	// self:: and static:: both resolve against the current class.
	for _, src := range []string{"self::", "static::"} {
		got := e.Complete(context.Background(), src, len(src))
		assert.Equal(t, []string{"MAX", "origin"}, texts(got.Candidates), src)
	}

	// parent:: has no hierarchy data to resolve against.
	got := e.Complete(context.Background(), "parent::", len("parent::"))
	assert.Empty(t, got.Candidates)
}

func TestClassNameAfterNew(t *testing.T) {
	res := &testResolver{
		classes: []string{"PointSet", "Point"},
		ifaces:  []string{"Printable"},
	}
	e := NewEngine(res)
	src := "$p = new Po"
	got := e.Complete(context.Background(), src, len(src))
	assert.Equal(t, []string{"Point", "PointSet"}, texts(got.Candidates))
	assert.Equal(t, "Po", got.Prefix)
}

func TestFirstApplicableWins(t *testing.T) {
	// When a higher-priority matcher produces candidates, nothing from a
	// lower-priority matcher may appear.
	res := &testResolver{
		vars:  []string{"verbose"},
		funcs: []string{"var_dump"},
	}
	e := NewEngine(res)
	got := e.Complete(context.Background(), "$v", 2)
	assert.Equal(t, []string{"$verbose"}, texts(got.Candidates))

	// An applicable matcher with an empty result falls through to the
	// next one instead of ending the request.
	src := "$unknown->"
	got = e.Complete(context.Background(), src, len(src))
	assert.Empty(t, got.Candidates, "unresolvable owner must not leak bare-word candidates")
}

func TestEmptyInputOffersStatementStarters(t *testing.T) {
	e := NewEngine(&testResolver{})
	got := e.Complete(context.Background(), "", 0)
	require.NotEmpty(t, got.Candidates)
	for _, c := range got.Candidates {
		assert.Equal(t, KindKeyword, c.Kind)
	}
	assert.Contains(t, texts(got.Candidates), "echo")
	assert.NotContains(t, texts(got.Candidates), "instanceof",
		"expression-only keywords are not statement starters")
}

func TestNoCompletionInsideString(t *testing.T) {
	e := NewEngine(&testResolver{vars: []string{"x"}, funcs: []string{"foo"}})
	for _, src := range []string{`echo "fo`, `echo 'fo`, "echo <<<EOT\nfo"} {
		got := e.Complete(context.Background(), src, len(src))
		assert.Empty(t, got.Candidates, "source: %s", src)
	}
}

func TestCommandCompletion(t *testing.T) {
	e := NewEngine(&testResolver{funcs: []string{"dump_table"}},
		WithAux(AuxCommands, []string{"dump", "doc", "ls"}))
	got := e.Complete(context.Background(), "d", 1)
	assert.Equal(t, []string{"doc", "dump"}, texts(got.Candidates))

	// Mid-line the command matcher no longer applies.
	src := "$x = d"
	got = e.Complete(context.Background(), src, len(src))
	assert.Equal(t, []string{"dump_table"}, texts(got.Candidates))
}

func TestServiceRegistryCompletion(t *testing.T) {
	e := NewEngine(&testResolver{},
		WithAux(AuxServices, []string{"db", "logger"}))
	src := "$container->get("
	got := e.Complete(context.Background(), src, len(src))
	assert.Equal(t, []string{"'db'", "'logger'"}, texts(got.Candidates))
}

func TestRankingExactPrefixFirst(t *testing.T) {
	res := &testResolver{funcs: []string{"strtolower", "tolower", "LOwercase"}}
	e := NewEngine(res)
	got := e.Complete(context.Background(), "lo", 2)
	// "LOwercase" matches case-insensitively at the start, "strtolower"
	// and "tolower" only as substrings.
	assert.Equal(t, []string{"LOwercase", "strtolower", "tolower"}, texts(got.Candidates))
}

func TestCompletionDeterminism(t *testing.T) {
	res := &testResolver{
		vars:  []string{"beta", "alpha", "gamma"},
		funcs: []string{"zeta", "eta"},
	}
	e := NewEngine(res)
	first := e.Complete(context.Background(), "$", 1)
	for i := 0; i < 5; i++ {
		again := e.Complete(context.Background(), "$", 1)
		assert.Equal(t, first, again)
	}
}

func TestCompleteCursorClamping(t *testing.T) {
	e := NewEngine(&testResolver{})
	assert.NotPanics(t, func() {
		e.Complete(context.Background(), "echo", -5)
		e.Complete(context.Background(), "echo", 99)
	})
}

func TestCompleteTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	e := NewEngine(&testResolver{funcs: []string{"foo"}},
		WithTracer(provider.Tracer("test")))

	e.Complete(context.Background(), "fo", 2)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "complete", spans[0].Name())
}
