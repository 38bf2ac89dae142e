package infer

import (
	"strconv"
	"unicode"

	"github.com/rubiojr/setsuna/ast"
	"github.com/rubiojr/setsuna/diag"
)

// Checker runs Algorithm W over a program. It is advisory: the evaluator
// neither waits for it nor depends on it, and a reported type error does
// not stop evaluation.
type Checker struct {
	env     *TypeEnv
	nextVar int
	// modules maps module names seen during checking to their type scopes;
	// file imports are opaque and map to nil.
	modules map[string]*TypeEnv
}

// New creates a checker with the builtin catalogue's types pre-registered.
func New() *Checker {
	c := &Checker{env: NewTypeEnv(nil), modules: map[string]*TypeEnv{}}
	c.registerBuiltins()
	return c
}

func (c *Checker) freshVar() *Var {
	c.nextVar++
	return &Var{ID: c.nextVar}
}

func (c *Checker) scheme(t Type, vars ...*Var) Scheme {
	ids := make([]int, len(vars))
	for i, v := range vars {
		ids[i] = v.ID
	}
	return Scheme{Vars: ids, Type: t}
}

// registerBuiltins seeds the type environment with schemes for the helper
// catalogue. The bodies are opaque; only the signatures matter here.
func (c *Checker) registerBuiltins() {
	def := c.env.DefineScheme

	a := c.freshVar()
	def("print", c.scheme(&Fn{Params: []Type{a}, Return: UnitType}, a))
	a = c.freshVar()
	def("println", c.scheme(&Fn{Params: []Type{a}, Return: UnitType}, a))
	a = c.freshVar()
	def("str", c.scheme(&Fn{Params: []Type{a}, Return: StringType}, a))
	a = c.freshVar()
	def("int", c.scheme(&Fn{Params: []Type{a}, Return: IntType}, a))
	a = c.freshVar()
	def("float", c.scheme(&Fn{Params: []Type{a}, Return: FloatType}, a))

	a = c.freshVar()
	def("head", c.scheme(&Fn{Params: []Type{&ListOf{Elem: a}}, Return: a}, a))
	a = c.freshVar()
	def("tail", c.scheme(&Fn{Params: []Type{&ListOf{Elem: a}}, Return: &ListOf{Elem: a}}, a))
	a = c.freshVar()
	def("cons", c.scheme(&Fn{Params: []Type{a, &ListOf{Elem: a}}, Return: &ListOf{Elem: a}}, a))
	a = c.freshVar()
	def("len", c.scheme(&Fn{Params: []Type{&ListOf{Elem: a}}, Return: IntType}, a))
	a = c.freshVar()
	def("empty", c.scheme(&Fn{Params: []Type{&ListOf{Elem: a}}, Return: BoolType}, a))
	a = c.freshVar()
	def("append", c.scheme(&Fn{Params: []Type{&ListOf{Elem: a}, a}, Return: &ListOf{Elem: a}}, a))
	a = c.freshVar()
	def("concat", c.scheme(&Fn{Params: []Type{&ListOf{Elem: a}, &ListOf{Elem: a}}, Return: &ListOf{Elem: a}}, a))
	a = c.freshVar()
	def("reverse", c.scheme(&Fn{Params: []Type{&ListOf{Elem: a}}, Return: &ListOf{Elem: a}}, a))
	a = c.freshVar()
	def("nth", c.scheme(&Fn{Params: []Type{&ListOf{Elem: a}, IntType}, Return: a}, a))

	def("abs", Scheme{Type: &Fn{Params: []Type{IntType}, Return: IntType}})
	def("sqrt", Scheme{Type: &Fn{Params: []Type{FloatType}, Return: FloatType}})
	def("pow", Scheme{Type: &Fn{Params: []Type{FloatType, FloatType}, Return: FloatType}})
	def("min", Scheme{Type: &Fn{Params: []Type{IntType, IntType}, Return: IntType}})
	def("max", Scheme{Type: &Fn{Params: []Type{IntType, IntType}, Return: IntType}})

	def("range", Scheme{Type: &Fn{Params: []Type{IntType, IntType}, Return: &ListOf{Elem: IntType}}})
	def("input", Scheme{Type: &Fn{Return: StringType}})
	a = c.freshVar()
	def("error", c.scheme(&Fn{Params: []Type{StringType}, Return: a}, a))

	a = c.freshVar()
	b := c.freshVar()
	def("map", c.scheme(&Fn{
		Params: []Type{&Fn{Params: []Type{a}, Return: b}, &ListOf{Elem: a}},
		Return: &ListOf{Elem: b},
	}, a, b))
	a = c.freshVar()
	def("filter", c.scheme(&Fn{
		Params: []Type{&Fn{Params: []Type{a}, Return: BoolType}, &ListOf{Elem: a}},
		Return: &ListOf{Elem: a},
	}, a))
	a = c.freshVar()
	b = c.freshVar()
	def("fold", c.scheme(&Fn{
		Params: []Type{&Fn{Params: []Type{b, a}, Return: b}, b, &ListOf{Elem: a}},
		Return: b,
	}, a, b))
}

// Check infers every declaration of a program, stopping at the first type
// error.
func (c *Checker) Check(prog *ast.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(*diag.Error)
			if !ok {
				panic(r)
			}
			err = de
		}
	}()
	for _, decl := range prog.Decls {
		c.checkDecl(decl)
	}
	return nil
}

// Infer returns the type of a single expression against the checker's
// current environment.
func (c *Checker) Infer(expr ast.Expr) (t Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(*diag.Error)
			if !ok {
				panic(r)
			}
			t, err = nil, de
		}
	}()
	return c.infer(expr, c.env), nil
}

func (c *Checker) checkDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.ExprDecl:
		c.infer(d.Expr, c.env)
	case *ast.TypeDef:
		c.registerTypeDef(d)
	case *ast.ModuleDef:
		modEnv := c.env.Extend()
		for _, expr := range d.Body {
			c.infer(expr, modEnv)
		}
		c.modules[d.Name] = modEnv
	case *ast.Import:
		// File imports are resolved at run time; members check as fresh
		// variables.
		name := d.Module
		if d.Alias != "" {
			name = d.Alias
		}
		c.modules[name] = nil
	}
}

// registerTypeDef gives every constructor a scheme. Nullary constructors are
// values of the ADT type; n-ary ones are functions producing it. Lowercase
// field names act as implicit per-constructor generics.
func (c *Checker) registerTypeDef(def *ast.TypeDef) {
	for _, ctor := range def.Ctors {
		vars := map[string]*Var{}
		var ordered []*Var
		for _, param := range def.TypeParams {
			v := c.freshVar()
			vars[param] = v
			ordered = append(ordered, v)
		}

		adtArgs := make([]Type, len(ordered))
		for i, v := range ordered {
			adtArgs[i] = v
		}
		result := &Named{Name: def.Name, Args: adtArgs}

		var ctorType Type = result
		if len(ctor.Fields) > 0 {
			params := make([]Type, len(ctor.Fields))
			for i, f := range ctor.Fields {
				params[i] = c.typeFromExpr(f, vars)
			}
			ctorType = &Fn{Params: params, Return: result}
		}

		var ids []int
		for _, v := range vars {
			ids = append(ids, v.ID)
		}
		c.env.DefineScheme(ctor.Name, Scheme{Vars: ids, Type: ctorType})
	}
}

// typeFromExpr converts a type annotation to an inference type. Names bound
// in vars resolve there; unknown lowercase names become implicit generics
// shared across the annotation.
func (c *Checker) typeFromExpr(te ast.TypeExpr, vars map[string]*Var) Type {
	switch t := te.(type) {
	case *ast.NamedType:
		if v, ok := vars[t.Name]; ok {
			return v
		}
		switch t.Name {
		case "Int":
			return IntType
		case "Float":
			return FloatType
		case "Bool":
			return BoolType
		case "String":
			return StringType
		case "Unit":
			return UnitType
		}
		if isLowerName(t.Name) {
			v := c.freshVar()
			vars[t.Name] = v
			return v
		}
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.typeFromExpr(a, vars)
		}
		return &Named{Name: t.Name, Args: args}
	case *ast.FnType:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.typeFromExpr(p, vars)
		}
		return &Fn{Params: params, Return: c.typeFromExpr(t.Return, vars)}
	case *ast.TupleType:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = c.typeFromExpr(e, vars)
		}
		return &TupleOf{Elems: elems}
	case *ast.RecordType:
		rec := NewRecordOf()
		for _, f := range t.Fields {
			rec.Set(f.Name, c.typeFromExpr(f.Type, vars))
		}
		return rec
	case *ast.ListType:
		return &ListOf{Elem: c.typeFromExpr(t.Elem, vars)}
	}
	return c.freshVar()
}

func isLowerName(name string) bool {
	for _, r := range name {
		return unicode.IsLower(r)
	}
	return false
}

func (c *Checker) infer(expr ast.Expr, env *TypeEnv) Type {
	switch e := expr.(type) {
	case *ast.IntLit:
		return IntType
	case *ast.FloatLit:
		return FloatType
	case *ast.StringLit:
		return StringType
	case *ast.BoolLit:
		return BoolType
	case *ast.InterpString:
		for _, part := range e.Parts {
			if part.Expr != nil {
				c.infer(part.Expr, env)
			}
		}
		return StringType

	case *ast.Ident:
		s, ok := env.Scheme(e.Name)
		if !ok {
			panic(diag.Typef(e.Pos, "Undefined variable: %s", e.Name))
		}
		return c.instantiate(s)

	case *ast.Binary:
		left := c.infer(e.Left, env)
		right := c.infer(e.Right, env)
		switch e.Op {
		case ast.ADD, ast.SUB, ast.MUL, ast.DIV, ast.MOD:
			unify(left, right, e.Pos)
			return left
		case ast.EQ, ast.NEQ, ast.LT, ast.GT, ast.LTE, ast.GTE:
			unify(left, right, e.Pos)
			return BoolType
		case ast.AND, ast.OR:
			unify(left, BoolType, e.Pos)
			unify(right, BoolType, e.Pos)
			return BoolType
		}
		return c.freshVar()

	case *ast.Unary:
		operand := c.infer(e.Operand, env)
		if e.Op == ast.NOT {
			unify(operand, BoolType, e.Pos)
			return BoolType
		}
		return operand

	case *ast.Let:
		valueType := c.infer(e.Value, env)
		if e.Type != nil {
			unify(valueType, c.typeFromExpr(e.Type, map[string]*Var{}), e.Pos)
		}
		env.DefineScheme(e.Name, generalize(valueType, env))
		return valueType

	case *ast.Assign:
		s, ok := env.Scheme(e.Name)
		if !ok {
			panic(diag.Typef(e.Pos, "Undefined variable: %s", e.Name))
		}
		valueType := c.infer(e.Value, env)
		unify(c.instantiate(s), valueType, e.Pos)
		return valueType

	case *ast.FnDef:
		fnEnv := env.Extend()
		// The name is visible monomorphically inside the body, which is
		// what lets recursive calls unify against the signature.
		self := c.freshVar()
		fnEnv.Define(e.Name, self)

		vars := map[string]*Var{}
		params := make([]Type, len(e.Params))
		for i, p := range e.Params {
			var pt Type
			if p.Type != nil {
				pt = c.typeFromExpr(p.Type, vars)
			} else {
				pt = c.freshVar()
			}
			params[i] = pt
			fnEnv.Define(p.Name, pt)
		}

		ret := c.infer(e.Body, fnEnv)
		if e.Return != nil {
			unify(ret, c.typeFromExpr(e.Return, vars), e.Pos)
		}
		fnType := &Fn{Params: params, Return: ret}
		unify(self, fnType, e.Pos)

		env.DefineScheme(e.Name, generalize(fnType, env))
		return fnType

	case *ast.Lambda:
		fnEnv := env.Extend()
		vars := map[string]*Var{}
		params := make([]Type, len(e.Params))
		for i, p := range e.Params {
			var pt Type
			if p.Type != nil {
				pt = c.typeFromExpr(p.Type, vars)
			} else {
				pt = c.freshVar()
			}
			params[i] = pt
			fnEnv.Define(p.Name, pt)
		}
		return &Fn{Params: params, Return: c.infer(e.Body, fnEnv)}

	case *ast.Call:
		calleeType := find(c.infer(e.Callee, env))
		args := make([]Type, len(e.Args))
		for i, arg := range e.Args {
			args[i] = c.infer(arg, env)
		}
		ret := c.freshVar()
		unify(calleeType, &Fn{Params: args, Return: ret}, e.Pos)
		return ret

	case *ast.If:
		unify(c.infer(e.Cond, env), BoolType, e.Pos)
		thenType := c.infer(e.Then, env)
		if e.Else != nil {
			unify(thenType, c.infer(e.Else, env), e.Pos)
		}
		return thenType

	case *ast.While:
		unify(c.infer(e.Cond, env), BoolType, e.Pos)
		return c.infer(e.Body, env)

	case *ast.For:
		elem := c.freshVar()
		unify(c.infer(e.Iterable, env), &ListOf{Elem: elem}, e.Pos)
		loopEnv := env.Extend()
		loopEnv.Define(e.Var, elem)
		return c.infer(e.Body, loopEnv)

	case *ast.List:
		if len(e.Elems) == 0 {
			return &ListOf{Elem: c.freshVar()}
		}
		elemType := c.infer(e.Elems[0], env)
		for _, el := range e.Elems[1:] {
			unify(elemType, c.infer(el, env), e.Pos)
		}
		return &ListOf{Elem: elemType}

	case *ast.Tuple:
		if len(e.Elems) == 0 {
			return UnitType
		}
		elems := make([]Type, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = c.infer(el, env)
		}
		return &TupleOf{Elems: elems}

	case *ast.Record:
		rec := NewRecordOf()
		for _, f := range e.Fields {
			rec.Set(f.Name, c.infer(f.Value, env))
		}
		return rec

	case *ast.Map:
		if len(e.Entries) == 0 {
			return &MapOf{Key: c.freshVar(), Value: c.freshVar()}
		}
		keyType := c.infer(e.Entries[0].Key, env)
		valueType := c.infer(e.Entries[0].Value, env)
		for _, entry := range e.Entries[1:] {
			unify(keyType, c.infer(entry.Key, env), e.Pos)
			unify(valueType, c.infer(entry.Value, env), e.Pos)
		}
		return &MapOf{Key: keyType, Value: valueType}

	case *ast.FieldAccess:
		// Module member access checks against the module's type scope when
		// the checker saw the module; file imports fall back to fresh.
		if id, ok := e.Object.(*ast.Ident); ok {
			if modEnv, seen := c.modules[id.Name]; seen {
				if modEnv != nil {
					if s, ok := modEnv.Scheme(e.Field); ok {
						return c.instantiate(s)
					}
				}
				return c.freshVar()
			}
		}
		objType := find(c.infer(e.Object, env))
		switch o := objType.(type) {
		case *RecordOf:
			t, ok := o.Fields[e.Field]
			if !ok {
				panic(diag.Typef(e.Pos, "Unknown field: %s", e.Field))
			}
			return t
		case *TupleOf:
			if idx, err := strconv.Atoi(e.Field); err == nil && idx >= 0 && idx < len(o.Elems) {
				return o.Elems[idx]
			}
		}
		return c.freshVar()

	case *ast.Match:
		scrutType := c.infer(e.Scrutinee, env)
		var result Type
		for _, arm := range e.Arms {
			armEnv := env.Extend()
			c.inferPattern(arm.Pattern, scrutType, armEnv)
			if arm.Guard != nil {
				unify(c.infer(arm.Guard, armEnv), BoolType, e.Pos)
			}
			bodyType := c.infer(arm.Body, armEnv)
			if result == nil {
				result = bodyType
			} else {
				unify(result, bodyType, e.Pos)
			}
		}
		if result == nil {
			return c.freshVar()
		}
		return result

	case *ast.Block:
		blockEnv := env.Extend()
		var last Type = UnitType
		for _, inner := range e.Exprs {
			last = c.infer(inner, blockEnv)
		}
		return last

	case *ast.CtorCall:
		for _, arg := range e.Args {
			c.infer(arg, env)
		}
		return &Named{Name: e.TypeName}

	case *ast.ModuleAccess:
		if modEnv := c.modules[e.Module]; modEnv != nil {
			if s, ok := modEnv.Scheme(e.Member); ok {
				return c.instantiate(s)
			}
		}
		return c.freshVar()
	}

	return c.freshVar()
}

// inferPattern types a pattern against the scrutinee type, binding pattern
// variables in env.
func (c *Checker) inferPattern(pat ast.Pattern, scrut Type, env *TypeEnv) {
	switch p := pat.(type) {
	case *ast.WildcardPat:
		// matches anything

	case *ast.VarPat:
		env.Define(p.Name, scrut)

	case *ast.LitPat:
		switch p.Kind {
		case ast.LitInt:
			unify(scrut, IntType, p.Pos)
		case ast.LitFloat:
			unify(scrut, FloatType, p.Pos)
		case ast.LitString:
			unify(scrut, StringType, p.Pos)
		case ast.LitBool:
			unify(scrut, BoolType, p.Pos)
		}

	case *ast.ListPat:
		elem := c.freshVar()
		unify(scrut, &ListOf{Elem: elem}, p.Pos)
		for _, sub := range p.Elems {
			c.inferPattern(sub, elem, env)
		}
		if p.Rest != "" {
			env.Define(p.Rest, &ListOf{Elem: elem})
		}

	case *ast.TuplePat:
		elems := make([]Type, len(p.Elems))
		for i := range p.Elems {
			elems[i] = c.freshVar()
		}
		unify(scrut, &TupleOf{Elems: elems}, p.Pos)
		for i, sub := range p.Elems {
			c.inferPattern(sub, elems[i], env)
		}

	case *ast.RecordPat:
		// Record patterns name a structural subset, so the scrutinee is
		// not unified with a closed record type.
		rec, _ := find(scrut).(*RecordOf)
		for _, f := range p.Fields {
			var ft Type
			if rec != nil {
				if known, ok := rec.Fields[f.Name]; ok {
					ft = known
				}
			}
			if ft == nil {
				ft = c.freshVar()
			}
			c.inferPattern(f.Pattern, ft, env)
		}

	case *ast.CtorPat:
		s, ok := env.Scheme(p.Ctor)
		if !ok {
			for _, sub := range p.Args {
				c.inferPattern(sub, c.freshVar(), env)
			}
			return
		}
		ctorType := c.instantiate(s)
		if fn, ok := find(ctorType).(*Fn); ok && len(fn.Params) == len(p.Args) {
			unify(scrut, fn.Return, p.Pos)
			for i, sub := range p.Args {
				c.inferPattern(sub, fn.Params[i], env)
			}
			return
		}
		if len(p.Args) == 0 {
			unify(scrut, ctorType, p.Pos)
			return
		}
		for _, sub := range p.Args {
			c.inferPattern(sub, c.freshVar(), env)
		}
	}
}
