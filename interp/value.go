// Package interp implements the tree-walking evaluator: runtime values,
// lexically scoped environments, pattern matching, and file-based module
// loading with cycle detection.
package interp

import (
	"strconv"
	"strings"

	"github.com/rubiojr/setsuna/ast"
)

// Kind discriminates runtime values.
type Kind int

const (
	UnitKind Kind = iota
	IntKind
	FloatKind
	BoolKind
	StringKind
	ListKind
	TupleKind
	RecordKind
	MapKind
	ClosureKind
	BuiltinKind
	ADTKind
	ThunkKind
)

var kindNames = [...]string{
	"unit", "int", "float", "bool", "string", "list", "tuple",
	"record", "map", "fn", "builtin", "adt", "thunk",
}

func (k Kind) String() string { return kindNames[k] }

// Value is the runtime value sum. String returns the canonical printed form
// with strings quoted; Render returns the top-level form with strings raw.
type Value interface {
	Kind() Kind
	String() string
}

// BuiltinFunc is the signature of an opaque helper callable. Arguments have
// already been evaluated; thunk forcing is the callee's concern.
type BuiltinFunc func(args []Value) (Value, error)

// Unit is the unit value ().
type Unit struct{}

// Int is a 64-bit signed integer.
type Int struct{ Value int64 }

// Float is a 64-bit float.
type Float struct{ Value float64 }

// Bool is a boolean.
type Bool struct{ Value bool }

// String is an immutable string.
type String struct{ Value string }

// List is an ordered sequence of values.
type List struct{ Elems []Value }

// Tuple is an ordered fixed sequence of values.
type Tuple struct{ Elems []Value }

// Record maps field names to values. Insertion order is not observable to
// the language but is stable within an instance, which keeps printing
// deterministic.
type Record struct {
	names  []string
	fields map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: map[string]Value{}}
}

// Set inserts or replaces a field.
func (r *Record) Set(name string, v Value) {
	if _, ok := r.fields[name]; !ok {
		r.names = append(r.names, name)
	}
	r.fields[name] = v
}

// Get looks up a field by name.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Names returns the field names in insertion order.
func (r *Record) Names() []string { return r.names }

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.names) }

// MapPair is one entry of a map value.
type MapPair struct {
	Key, Value Value
}

// Map is an ordered sequence of key/value pairs keyed by structural value
// equality.
type Map struct {
	Entries []MapPair
}

// Get returns the value for a structurally equal key.
func (m *Map) Get(key Value) (Value, bool) {
	for _, e := range m.Entries {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Set inserts or replaces the entry for a structurally equal key.
func (m *Map) Set(key, v Value) {
	for i, e := range m.Entries {
		if Equal(e.Key, key) {
			m.Entries[i].Value = v
			return
		}
	}
	m.Entries = append(m.Entries, MapPair{Key: key, Value: v})
}

// Remove deletes the entry for a structurally equal key, reporting whether
// one was present.
func (m *Map) Remove(key Value) bool {
	for i, e := range m.Entries {
		if Equal(e.Key, key) {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Closure pairs parameter names and a body with the environment captured at
// the construction site.
type Closure struct {
	Params []string
	Body   ast.Expr
	Env    *Env
}

// Builtin is an opaque helper callable. Arity -1 means variadic.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunc
}

// ADT is an instance of an algebraic data type constructor.
type ADT struct {
	TypeName string
	Ctor     string
	Fields   []Value
}

// Thunk is a deferred expression plus its environment, with a slot for a
// cached result. The core evaluator is strict and never constructs or
// evaluates thunks; the tag exists so the value model is ready for
// call-by-need.
type Thunk struct {
	Expr   ast.Expr
	Env    *Env
	cached Value
	done   bool
}

func (*Unit) Kind() Kind    { return UnitKind }
func (*Int) Kind() Kind     { return IntKind }
func (*Float) Kind() Kind   { return FloatKind }
func (*Bool) Kind() Kind    { return BoolKind }
func (*String) Kind() Kind  { return StringKind }
func (*List) Kind() Kind    { return ListKind }
func (*Tuple) Kind() Kind   { return TupleKind }
func (*Record) Kind() Kind  { return RecordKind }
func (*Map) Kind() Kind     { return MapKind }
func (*Closure) Kind() Kind { return ClosureKind }
func (*Builtin) Kind() Kind { return BuiltinKind }
func (*ADT) Kind() Kind     { return ADTKind }
func (*Thunk) Kind() Kind   { return ThunkKind }

// UnitValue is the shared unit instance.
var UnitValue = &Unit{}

// True and False are the shared boolean instances.
var (
	True  = &Bool{Value: true}
	False = &Bool{Value: false}
)

// BoolOf returns the shared instance for b.
func BoolOf(b bool) *Bool {
	if b {
		return True
	}
	return False
}

// Force follows thunks whose result is already cached, chasing thunks of
// thunks. It never evaluates a thunk: one without a cached result is
// returned as it is, and non-thunk values pass through untouched.
func Force(v Value) Value {
	for {
		t, ok := v.(*Thunk)
		if !ok || !t.done {
			return v
		}
		v = t.cached
	}
}

// FormatFloat renders a float in decimal form with trailing zeros stripped
// and a trailing .0 when no fractional part remains.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (*Unit) String() string    { return "()" }
func (v *Int) String() string   { return strconv.FormatInt(v.Value, 10) }
func (v *Float) String() string { return FormatFloat(v.Value) }

func (v *Bool) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// String values print quoted inside containers; Render strips the quotes at
// the top level.
func (v *String) String() string { return "\"" + v.Value + "\"" }

func (v *List) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v *Tuple) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (v *Record) String() string {
	parts := make([]string, 0, len(v.names))
	for _, name := range v.names {
		parts = append(parts, name+": "+v.fields[name].String())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (v *Map) String() string {
	if len(v.Entries) == 0 {
		return "%{}"
	}
	parts := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "%{ " + strings.Join(parts, ", ") + " }"
}

func (*Closure) String() string { return "<fn>" }

func (v *Builtin) String() string { return "<builtin:" + v.Name + ">" }

func (v *ADT) String() string {
	if len(v.Fields) == 0 {
		return v.Ctor
	}
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.String()
	}
	return v.Ctor + "(" + strings.Join(parts, ", ") + ")"
}

func (*Thunk) String() string { return "<thunk>" }

// Render returns the canonical top-level text of a value: strings appear
// raw, everything else uses String. This is what print, string
// interpolation, and the CLI's result echo use.
func Render(v Value) string {
	v = Force(v)
	if s, ok := v.(*String); ok {
		return s.Value
	}
	return v.String()
}

// Equal reports structural equality. Values are equal iff they are the same
// tagged variant with equal components, recursively. Closures, builtins and
// thunks are never equal to anything.
func Equal(a, b Value) bool {
	a, b = Force(a), Force(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Unit:
		return true
	case *Int:
		return av.Value == b.(*Int).Value
	case *Float:
		return av.Value == b.(*Float).Value
	case *Bool:
		return av.Value == b.(*Bool).Value
	case *String:
		return av.Value == b.(*String).Value
	case *List:
		bv := b.(*List)
		if len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv := b.(*Tuple)
		if len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Record:
		bv := b.(*Record)
		if av.Len() != bv.Len() {
			return false
		}
		for name, v := range av.fields {
			other, ok := bv.fields[name]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	case *Map:
		bv := b.(*Map)
		if len(av.Entries) != len(bv.Entries) {
			return false
		}
		for _, e := range av.Entries {
			other, ok := bv.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	case *ADT:
		bv := b.(*ADT)
		if av.Ctor != bv.Ctor || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if !Equal(av.Fields[i], bv.Fields[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// IsCallable reports whether v can be applied.
func IsCallable(v Value) bool {
	switch v.(type) {
	case *Closure, *Builtin:
		return true
	}
	return false
}

// AsNumber converts an int or float value to float64 for mixed arithmetic
// and comparisons.
func AsNumber(v Value) (float64, bool) {
	switch n := v.(type) {
	case *Int:
		return float64(n.Value), true
	case *Float:
		return n.Value, true
	}
	return 0, false
}
