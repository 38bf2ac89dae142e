// Package infer implements the advisory Hindley–Milner type checker.
//
// It walks the same AST as the evaluator, never mutates it, and never
// touches the evaluator's environments. Type variables use a union-find
// representation: binding writes the variable's Instance field and find
// path-compresses through chains of bound variables.
package infer

import (
	"strconv"
	"strings"
)

// Type is the sum of inferred types.
type Type interface {
	typeNode()
	String() string
}

// Var is a type variable. A non-nil Instance means the variable is bound;
// find follows and compresses these links.
type Var struct {
	ID       int
	Instance Type
}

// Prim is a primitive type. The canonical instances are IntType, FloatType,
// BoolType, StringType and UnitType.
type Prim struct {
	Name string
}

// Canonical primitive instances.
var (
	IntType    = &Prim{Name: "Int"}
	FloatType  = &Prim{Name: "Float"}
	BoolType   = &Prim{Name: "Bool"}
	StringType = &Prim{Name: "String"}
	UnitType   = &Prim{Name: "Unit"}
)

// Fn is a function type.
type Fn struct {
	Params []Type
	Return Type
}

// ListOf is a list type.
type ListOf struct {
	Elem Type
}

// TupleOf is a tuple type.
type TupleOf struct {
	Elems []Type
}

// RecordOf is a structural record type. Order is kept for stable printing.
type RecordOf struct {
	Names  []string
	Fields map[string]Type
}

// NewRecordOf builds a record type preserving field order.
func NewRecordOf() *RecordOf {
	return &RecordOf{Fields: map[string]Type{}}
}

// Set adds or replaces a field type.
func (r *RecordOf) Set(name string, t Type) {
	if _, ok := r.Fields[name]; !ok {
		r.Names = append(r.Names, name)
	}
	r.Fields[name] = t
}

// MapOf is a map type.
type MapOf struct {
	Key, Value Type
}

// Named is an ADT type with type arguments.
type Named struct {
	Name string
	Args []Type
}

// Generic is an "a"-style named generic; it unifies with anything.
type Generic struct {
	Name string
}

func (*Var) typeNode()      {}
func (*Prim) typeNode()     {}
func (*Fn) typeNode()       {}
func (*ListOf) typeNode()   {}
func (*TupleOf) typeNode()  {}
func (*RecordOf) typeNode() {}
func (*MapOf) typeNode()    {}
func (*Named) typeNode()    {}
func (*Generic) typeNode()  {}

func (t *Var) String() string {
	if t.Instance != nil {
		return t.Instance.String()
	}
	return "t" + strconv.Itoa(t.ID)
}

func (t *Prim) String() string {
	if t.Name == "Unit" {
		return "()"
	}
	return t.Name
}

func (t *Fn) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> " + t.Return.String()
}

func (t *ListOf) String() string {
	return "[" + t.Elem.String() + "]"
}

func (t *TupleOf) String() string {
	elems := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

func (t *RecordOf) String() string {
	fields := make([]string, len(t.Names))
	for i, name := range t.Names {
		fields[i] = name + ": " + t.Fields[name].String()
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

func (t *MapOf) String() string {
	return "Map<" + t.Key.String() + ", " + t.Value.String() + ">"
}

func (t *Named) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

func (t *Generic) String() string { return t.Name }

// Scheme is a polymorphic type: a body quantified over type variable ids.
type Scheme struct {
	Vars []int
	Type Type
}
