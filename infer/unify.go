package infer

import (
	"github.com/rubiojr/setsuna/diag"
)

// find resolves a type through bound variables, compressing paths as it
// goes. The result is either an unbound variable or a concrete type.
func find(t Type) Type {
	if v, ok := t.(*Var); ok && v.Instance != nil {
		v.Instance = find(v.Instance)
		return v.Instance
	}
	return t
}

// unify makes two types equal by binding free variables on either side.
// Mismatched concrete types raise a type error at pos.
func unify(t1, t2 Type, pos diag.Pos) {
	t1, t2 = find(t1), find(t2)
	if t1 == t2 {
		return
	}

	if v, ok := t1.(*Var); ok {
		if occursIn(v.ID, t2) {
			panic(diag.Typef(pos, "Infinite type"))
		}
		v.Instance = t2
		return
	}
	if v, ok := t2.(*Var); ok {
		if occursIn(v.ID, t1) {
			panic(diag.Typef(pos, "Infinite type"))
		}
		v.Instance = t1
		return
	}

	// Named generics stand for "any type here".
	if isGeneric(t1) || isGeneric(t2) {
		return
	}

	switch a := t1.(type) {
	case *Prim:
		if b, ok := t2.(*Prim); ok && a.Name == b.Name {
			return
		}
	case *Fn:
		if b, ok := t2.(*Fn); ok {
			if len(a.Params) != len(b.Params) {
				panic(diag.Typef(pos, "Function arity mismatch"))
			}
			for i := range a.Params {
				unify(a.Params[i], b.Params[i], pos)
			}
			unify(a.Return, b.Return, pos)
			return
		}
	case *ListOf:
		if b, ok := t2.(*ListOf); ok {
			unify(a.Elem, b.Elem, pos)
			return
		}
	case *TupleOf:
		if b, ok := t2.(*TupleOf); ok {
			if len(a.Elems) != len(b.Elems) {
				panic(diag.Typef(pos, "Tuple size mismatch"))
			}
			for i := range a.Elems {
				unify(a.Elems[i], b.Elems[i], pos)
			}
			return
		}
	case *RecordOf:
		if b, ok := t2.(*RecordOf); ok {
			if len(a.Fields) != len(b.Fields) {
				panic(diag.Typef(pos, "Cannot unify %s with %s", t1, t2))
			}
			for name, at := range a.Fields {
				bt, ok := b.Fields[name]
				if !ok {
					panic(diag.Typef(pos, "Cannot unify %s with %s", t1, t2))
				}
				unify(at, bt, pos)
			}
			return
		}
	case *MapOf:
		if b, ok := t2.(*MapOf); ok {
			unify(a.Key, b.Key, pos)
			unify(a.Value, b.Value, pos)
			return
		}
	case *Named:
		if b, ok := t2.(*Named); ok && a.Name == b.Name && len(a.Args) == len(b.Args) {
			for i := range a.Args {
				unify(a.Args[i], b.Args[i], pos)
			}
			return
		}
	}

	panic(diag.Typef(pos, "Cannot unify %s with %s", t1, t2))
}

func isGeneric(t Type) bool {
	_, ok := t.(*Generic)
	return ok
}

// occursIn reports whether variable id appears inside t; binding a variable
// to a type containing itself would build an infinite type.
func occursIn(id int, t Type) bool {
	t = find(t)
	switch x := t.(type) {
	case *Var:
		return x.ID == id
	case *Fn:
		for _, p := range x.Params {
			if occursIn(id, p) {
				return true
			}
		}
		return occursIn(id, x.Return)
	case *ListOf:
		return occursIn(id, x.Elem)
	case *TupleOf:
		for _, e := range x.Elems {
			if occursIn(id, e) {
				return true
			}
		}
	case *RecordOf:
		for _, f := range x.Fields {
			if occursIn(id, f) {
				return true
			}
		}
	case *MapOf:
		return occursIn(id, x.Key) || occursIn(id, x.Value)
	case *Named:
		for _, a := range x.Args {
			if occursIn(id, a) {
				return true
			}
		}
	}
	return false
}

// freeTypeVars collects the unbound variables of t.
func freeTypeVars(t Type) map[int]struct{} {
	free := map[int]struct{}{}
	collectFree(t, free)
	return free
}

func collectFree(t Type, free map[int]struct{}) {
	t = find(t)
	switch x := t.(type) {
	case *Var:
		free[x.ID] = struct{}{}
	case *Fn:
		for _, p := range x.Params {
			collectFree(p, free)
		}
		collectFree(x.Return, free)
	case *ListOf:
		collectFree(x.Elem, free)
	case *TupleOf:
		for _, e := range x.Elems {
			collectFree(e, free)
		}
	case *RecordOf:
		for _, f := range x.Fields {
			collectFree(f, free)
		}
	case *MapOf:
		collectFree(x.Key, free)
		collectFree(x.Value, free)
	case *Named:
		for _, a := range x.Args {
			collectFree(a, free)
		}
	}
}

// generalize quantifies t over the variables free in t but not free in the
// environment.
func generalize(t Type, env *TypeEnv) Scheme {
	inEnv := env.freeVars()
	var quantified []int
	for id := range freeTypeVars(t) {
		if _, ok := inEnv[id]; !ok {
			quantified = append(quantified, id)
		}
	}
	return Scheme{Vars: quantified, Type: t}
}

// instantiate replaces each quantified variable of a scheme with a fresh
// variable throughout the scheme body.
func (c *Checker) instantiate(s Scheme) Type {
	if len(s.Vars) == 0 {
		return s.Type
	}
	subst := map[int]Type{}
	for _, id := range s.Vars {
		subst[id] = c.freshVar()
	}
	return substitute(s.Type, subst)
}

func substitute(t Type, subst map[int]Type) Type {
	t = find(t)
	switch x := t.(type) {
	case *Var:
		if repl, ok := subst[x.ID]; ok {
			return repl
		}
		return x
	case *Fn:
		params := make([]Type, len(x.Params))
		for i, p := range x.Params {
			params[i] = substitute(p, subst)
		}
		return &Fn{Params: params, Return: substitute(x.Return, subst)}
	case *ListOf:
		return &ListOf{Elem: substitute(x.Elem, subst)}
	case *TupleOf:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = substitute(e, subst)
		}
		return &TupleOf{Elems: elems}
	case *RecordOf:
		rec := NewRecordOf()
		for _, name := range x.Names {
			rec.Set(name, substitute(x.Fields[name], subst))
		}
		return rec
	case *MapOf:
		return &MapOf{Key: substitute(x.Key, subst), Value: substitute(x.Value, subst)}
	case *Named:
		args := make([]Type, len(x.Args))
		for i, a := range x.Args {
			args[i] = substitute(a, subst)
		}
		return &Named{Name: x.Name, Args: args}
	}
	return t
}
