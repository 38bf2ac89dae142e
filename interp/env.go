package interp

import (
	"fmt"

	"github.com/rubiojr/setsuna/ast"
)

// Env is one scope in the lexical environment chain. Each scope holds value
// bindings, the set of const names, and per-scope type and module tables.
type Env struct {
	parent   *Env
	bindings map[string]Value
	consts   map[string]struct{}
	types    map[string]*ast.TypeDef
	modules  map[string]*Env
}

// NewEnv creates a scope with the given parent, which may be nil for the
// root.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent:   parent,
		bindings: map[string]Value{},
	}
}

// Extend creates a child scope.
func (e *Env) Extend() *Env {
	return NewEnv(e)
}

// Parent returns the enclosing scope, or nil for the root.
func (e *Env) Parent() *Env { return e.parent }

// Define inserts a binding into the current scope. Defining a non-const
// name that is const in this or any enclosing scope is an error.
func (e *Env) Define(name string, v Value, isConst bool) error {
	if !isConst && e.IsConst(name) {
		return fmt.Errorf("Cannot redeclare const '%s' with let", name)
	}
	e.bindings[name] = v
	if isConst {
		if e.consts == nil {
			e.consts = map[string]struct{}{}
		}
		e.consts[name] = struct{}{}
	}
	return nil
}

// Set walks up to the nearest scope defining name and reassigns it. It is
// an error if the name is not defined or is const.
func (e *Env) Set(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.bindings[name]; ok {
			if _, isConst := env.consts[name]; isConst {
				return fmt.Errorf("Cannot reassign const variable '%s'", name)
			}
			env.bindings[name] = v
			return nil
		}
	}
	return fmt.Errorf("Undefined variable: %s", name)
}

// Get walks up the scope chain and returns the first binding found.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether name is bound in this scope or any enclosing one.
func (e *Env) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// IsConst reports whether name is const in this scope or any enclosing one.
func (e *Env) IsConst(name string) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.consts[name]; ok {
			return true
		}
	}
	return false
}

// DefineType records a type definition in the current scope.
func (e *Env) DefineType(name string, def *ast.TypeDef) {
	if e.types == nil {
		e.types = map[string]*ast.TypeDef{}
	}
	e.types[name] = def
}

// LookupType finds a type definition, walking up the scope chain.
func (e *Env) LookupType(name string) (*ast.TypeDef, bool) {
	for env := e; env != nil; env = env.parent {
		if def, ok := env.types[name]; ok {
			return def, true
		}
	}
	return nil, false
}

// DefineModule registers a module environment under name in the current
// scope.
func (e *Env) DefineModule(name string, module *Env) {
	if e.modules == nil {
		e.modules = map[string]*Env{}
	}
	e.modules[name] = module
}

// LookupModule finds a module environment, walking up the scope chain.
func (e *Env) LookupModule(name string) (*Env, bool) {
	for env := e; env != nil; env = env.parent {
		if m, ok := env.modules[name]; ok {
			return m, true
		}
	}
	return nil, false
}
