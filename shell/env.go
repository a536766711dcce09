// Copyright © 2025 The Parlor authors

// Package shell implements the interactive session: a live environment of
// variables and declarations, a small evaluator for the subset of the
// language the session executes directly, and the meta-command registry.
package shell

import (
	"sort"
	"strings"

	"github.com/parlorsh/parlor/scope"
)

// ClassInfo records a declared class or interface.
type ClassInfo struct {
	Name    string
	Parent  string
	Iface   bool
	Members []scope.MemberInfo
}

// FuncInfo records a declared or builtin function.
type FuncInfo struct {
	Name      string
	Signature string
	Doc       string
}

// Env is the live session environment.  It implements scope.Resolver for
// the completion engine; all mutation goes through the evaluator and the
// meta-commands, never through the resolver surface.
type Env struct {
	vars     map[string]Value
	varClass map[string]string // variable name -> class, for member lookup
	funcs    map[string]*FuncInfo
	classes  map[string]*ClassInfo
	consts   map[string]Value
	services []string
}

// NewEnv returns an environment preloaded with the builtin functions and
// constants the evaluator understands.
func NewEnv() *Env {
	env := &Env{
		vars:     make(map[string]Value),
		varClass: make(map[string]string),
		funcs:    make(map[string]*FuncInfo),
		classes:  make(map[string]*ClassInfo),
		consts:   make(map[string]Value),
	}
	for _, fn := range builtins {
		env.funcs[fn.Name] = fn
	}
	env.consts["PHP_EOL"] = "\n"
	env.consts["PHP_INT_MAX"] = int64(1<<63 - 1)
	env.consts["PHP_INT_MIN"] = int64(-1 << 63)
	return env
}

// SetVar binds name (without sigil) to value.
func (env *Env) SetVar(name string, value Value) {
	env.vars[name] = value
	if obj, ok := value.(*Object); ok {
		env.varClass[name] = obj.Class
	} else {
		delete(env.varClass, name)
	}
}

// GetVar returns the value bound to name.
func (env *Env) GetVar(name string) (Value, bool) {
	v, ok := env.vars[name]
	return v, ok
}

// Unset removes the binding for name.  Unsetting an unbound name is not
// an error.
func (env *Env) Unset(name string) {
	delete(env.vars, name)
	delete(env.varClass, name)
}

// DefineFunc records a function declaration.
func (env *Env) DefineFunc(fn *FuncInfo) {
	env.funcs[fn.Name] = fn
}

// DefineClass records a class or interface declaration, replacing any
// previous declaration of the same name.
func (env *Env) DefineClass(ci *ClassInfo) {
	env.classes[ci.Name] = ci
}

// DefineConst records a constant.
func (env *Env) DefineConst(name string, value Value) {
	env.consts[name] = value
}

// GetConst returns the value of a defined constant.
func (env *Env) GetConst(name string) (Value, bool) {
	v, ok := env.consts[name]
	return v, ok
}

// Func returns the recorded function info for name, case-insensitively.
func (env *Env) Func(name string) (*FuncInfo, bool) {
	if fn, ok := env.funcs[name]; ok {
		return fn, true
	}
	fn, ok := env.funcs[strings.ToLower(name)]
	return fn, ok
}

// Class returns the recorded class info for name.
func (env *Env) Class(name string) (*ClassInfo, bool) {
	ci, ok := env.classes[name]
	return ci, ok
}

// SetServices installs the identifiers offered inside get(...) calls.
func (env *Env) SetServices(ids []string) {
	env.services = append([]string(nil), ids...)
	sort.Strings(env.services)
}

// Services returns the installed service identifiers.
func (env *Env) Services() []string {
	return env.services
}

// Variables implements scope.Resolver.  Names are sorted for determinism.
func (env *Env) Variables() []string {
	names := make([]string, 0, len(env.vars))
	for name := range env.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Symbols implements scope.Resolver.
func (env *Env) Symbols(kind scope.SymbolKind) []string {
	var names []string
	switch kind {
	case scope.Function:
		for name := range env.funcs {
			names = append(names, name)
		}
	case scope.Class:
		for name, ci := range env.classes {
			if !ci.Iface {
				names = append(names, name)
			}
		}
	case scope.Interface:
		for name, ci := range env.classes {
			if ci.Iface {
				names = append(names, name)
			}
		}
	case scope.Constant:
		for name := range env.consts {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Members implements scope.Resolver.  ownerExpr is either a variable
// reference ("$point") or a class name ("Point").  Members walks the
// extends chain; a subclass member shadows a parent member of the same
// name.
func (env *Env) Members(ownerExpr string) []scope.MemberInfo {
	class := ownerExpr
	if strings.HasPrefix(ownerExpr, "$") {
		var ok bool
		class, ok = env.varClass[ownerExpr[1:]]
		if !ok {
			return nil
		}
	}
	var out []scope.MemberInfo
	seen := make(map[string]bool)
	for class != "" {
		ci, ok := env.classes[class]
		if !ok {
			break
		}
		for _, mem := range ci.Members {
			if seen[mem.Name] {
				continue
			}
			seen[mem.Name] = true
			out = append(out, mem)
		}
		class = ci.Parent
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var builtins = []*FuncInfo{
	{Name: "strlen", Signature: "strlen($str)", Doc: "Return the byte length of a string."},
	{Name: "strtoupper", Signature: "strtoupper($str)", Doc: "Uppercase a string."},
	{Name: "strtolower", Signature: "strtolower($str)", Doc: "Lowercase a string."},
	{Name: "count", Signature: "count($array)", Doc: "Count the elements of an array."},
	{Name: "abs", Signature: "abs($num)", Doc: "Absolute value."},
	{Name: "max", Signature: "max($a, $b, ...)", Doc: "Largest of the arguments."},
	{Name: "min", Signature: "min($a, $b, ...)", Doc: "Smallest of the arguments."},
	{Name: "implode", Signature: "implode($glue, $array)", Doc: "Join array elements with a string."},
	{Name: "var_dump", Signature: "var_dump($value)", Doc: "Print structured information about a value."},
	{Name: "gettype", Signature: "gettype($value)", Doc: "Return the type name of a value."},
}
