// Package modules defines the registry for builtin helper modules.
//
// Each helper package under modules/<name> describes its functions with
// FuncDef entries and registers itself via init(). Import modules via blank
// imports from main so registration happens before the interpreter builds
// its global environment. The interpreter core treats every helper as an
// opaque callable with a name and an arity.
package modules

import (
	"fmt"
	"sort"

	"github.com/rubiojr/setsuna/interp"
)

// FuncDef describes a function exposed by a module. Arity -1 means
// variadic; the implementation receives the raw argument list.
type FuncDef struct {
	// Name is the setsuna function name (e.g. "file_read").
	Name string
	// Arity is the exact argument count, or -1 for variadic.
	Arity int
	// Fn is the implementation. Arguments are evaluated but not forced.
	Fn interp.BuiltinFunc
}

// Module is a named group of helper functions and constants.
type Module struct {
	// Name is the module name (e.g. "math", "file").
	Name string
	// Funcs lists the functions this module exposes.
	Funcs []FuncDef
	// Consts maps names to plain values (e.g. pi).
	Consts map[string]interp.Value
}

var registry = make(map[string]*Module)

// Register adds a module to the registry and pushes its functions into the
// interpreter's builtin catalogue.
func Register(m *Module) {
	if _, dup := registry[m.Name]; dup {
		panic(fmt.Sprintf("module %q registered twice", m.Name))
	}
	registry[m.Name] = m
	for _, f := range m.Funcs {
		interp.RegisterBuiltin(f.Name, f.Arity, f.Fn)
	}
	for name, v := range m.Consts {
		interp.RegisterValue(name, v)
	}
}

// Names returns the registered module names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a registered module by name.
func Get(name string) (*Module, bool) {
	m, ok := registry[name]
	return m, ok
}
