// Copyright © 2025 The Parlor authors

package shell

import (
	"testing"

	"github.com/parlorsh/parlor/scope"
	"github.com/stretchr/testify/assert"
)

func TestEnvVariables(t *testing.T) {
	env := NewEnv()
	env.SetVar("zeta", int64(1))
	env.SetVar("alpha", "x")
	assert.Equal(t, []string{"alpha", "zeta"}, env.Variables())

	env.Unset("zeta")
	assert.Equal(t, []string{"alpha"}, env.Variables())
	env.Unset("never-bound")
}

func TestEnvSymbols(t *testing.T) {
	env := NewEnv()
	env.DefineClass(&ClassInfo{Name: "Point"})
	env.DefineClass(&ClassInfo{Name: "Printable", Iface: true})
	env.DefineConst("ANSWER", int64(42))

	assert.Equal(t, []string{"Point"}, env.Symbols(scope.Class))
	assert.Equal(t, []string{"Printable"}, env.Symbols(scope.Interface))
	assert.Contains(t, env.Symbols(scope.Function), "strlen")
	assert.Contains(t, env.Symbols(scope.Constant), "ANSWER")
}

func TestEnvMembersInheritance(t *testing.T) {
	env := NewEnv()
	env.DefineClass(&ClassInfo{Name: "Base", Members: []scope.MemberInfo{
		{Name: "id", Kind: scope.Property},
		{Name: "describe", Kind: scope.Method},
	}})
	env.DefineClass(&ClassInfo{Name: "Child", Parent: "Base", Members: []scope.MemberInfo{
		{Name: "describe", Kind: scope.Method}, // shadows Base.describe
		{Name: "extra", Kind: scope.Property},
	}})

	members := env.Members("Child")
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"describe", "extra", "id"}, names)
}

func TestEnvMembersThroughVariable(t *testing.T) {
	env := NewEnv()
	env.DefineClass(&ClassInfo{Name: "Point", Members: []scope.MemberInfo{
		{Name: "x", Kind: scope.Property},
	}})
	env.SetVar("p", &Object{Class: "Point"})

	assert.Len(t, env.Members("$p"), 1)
	assert.Nil(t, env.Members("$unknown"))
	assert.Nil(t, env.Members("NoSuchClass"))

	// Rebinding to a scalar drops the member association.
	env.SetVar("p", int64(3))
	assert.Nil(t, env.Members("$p"))
}
