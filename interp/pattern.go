package interp

import (
	"github.com/rubiojr/setsuna/ast"
)

// matchPattern reports whether a forced value matches pat, writing bindings
// into env as it goes. Callers hand in a scratch scope and discard it on
// failure, so partial bindings never leak.
func (in *Interp) matchPattern(pat ast.Pattern, value Value, env *Env) bool {
	value = Force(value)

	switch p := pat.(type) {
	case *ast.WildcardPat:
		return true

	case *ast.VarPat:
		in.define(env, p.Name, value, false, p.Pos)
		return true

	case *ast.LitPat:
		switch p.Kind {
		case ast.LitInt:
			v, ok := value.(*Int)
			return ok && v.Value == p.Int
		case ast.LitFloat:
			v, ok := value.(*Float)
			return ok && v.Value == p.Float
		case ast.LitString:
			v, ok := value.(*String)
			return ok && v.Value == p.Str
		case ast.LitBool:
			v, ok := value.(*Bool)
			return ok && v.Value == p.Bool
		}
		return false

	case *ast.ListPat:
		list, ok := value.(*List)
		if !ok {
			return false
		}
		if p.Rest != "" {
			if len(list.Elems) < len(p.Elems) {
				return false
			}
			for i, elem := range p.Elems {
				if !in.matchPattern(elem, list.Elems[i], env) {
					return false
				}
			}
			rest := make([]Value, len(list.Elems)-len(p.Elems))
			copy(rest, list.Elems[len(p.Elems):])
			in.define(env, p.Rest, &List{Elems: rest}, false, p.Pos)
			return true
		}
		if len(list.Elems) != len(p.Elems) {
			return false
		}
		for i, elem := range p.Elems {
			if !in.matchPattern(elem, list.Elems[i], env) {
				return false
			}
		}
		return true

	case *ast.TuplePat:
		tuple, ok := value.(*Tuple)
		if !ok || len(tuple.Elems) != len(p.Elems) {
			return false
		}
		for i, elem := range p.Elems {
			if !in.matchPattern(elem, tuple.Elems[i], env) {
				return false
			}
		}
		return true

	case *ast.RecordPat:
		rec, ok := value.(*Record)
		if !ok {
			return false
		}
		// Every listed field must be present and match; extra fields in
		// the value are ignored.
		for _, f := range p.Fields {
			fv, found := rec.Get(f.Name)
			if !found || !in.matchPattern(f.Pattern, fv, env) {
				return false
			}
		}
		return true

	case *ast.CtorPat:
		adt, ok := value.(*ADT)
		if !ok || adt.Ctor != p.Ctor || len(adt.Fields) != len(p.Args) {
			return false
		}
		for i, arg := range p.Args {
			if !in.matchPattern(arg, adt.Fields[i], env) {
				return false
			}
		}
		return true
	}

	return false
}
