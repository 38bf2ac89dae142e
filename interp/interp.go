package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/rubiojr/setsuna/ast"
	"github.com/rubiojr/setsuna/diag"
)

// Interp is a tree-walking evaluator. It owns the root environment, the
// module cache, the set of modules currently loading, and the module search
// configuration. A second concurrent evaluator must own its own instance.
type Interp struct {
	root        *Env
	basePath    string
	searchPaths []string
	modCache    map[string]*Env
	loading     map[string]struct{}
}

// New creates an evaluator rooted at env.
func New(env *Env) *Interp {
	return &Interp{
		root:     env,
		modCache: map[string]*Env{},
		loading:  map[string]struct{}{},
	}
}

// Root returns the evaluator's root environment.
func (in *Interp) Root() *Env { return in.root }

// SetBasePath sets the directory module resolution tries first; usually the
// directory of the file being executed.
func (in *Interp) SetBasePath(path string) { in.basePath = path }

// AddSearchPath appends a module search path.
func (in *Interp) AddSearchPath(path string) {
	in.searchPaths = append(in.searchPaths, path)
}

// Run evaluates a program in the root environment. The result is the value
// of the last expression declaration, or unit.
func (in *Interp) Run(prog *ast.Program) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(*diag.Error)
			if !ok {
				panic(r)
			}
			result, err = nil, de
		}
	}()
	return in.runProgram(prog, in.root), nil
}

func (in *Interp) runProgram(prog *ast.Program, env *Env) Value {
	var result Value = UnitValue
	for _, decl := range prog.Decls {
		if ed, ok := decl.(*ast.ExprDecl); ok {
			result = in.eval(ed.Expr, env)
		} else {
			in.evalDecl(decl, env)
		}
	}
	return result
}

func (in *Interp) evalDecl(decl ast.Decl, env *Env) {
	switch d := decl.(type) {
	case *ast.ExprDecl:
		in.eval(d.Expr, env)
	case *ast.TypeDef:
		in.evalTypeDef(d, env)
	case *ast.ModuleDef:
		modEnv := env.Extend()
		for _, expr := range d.Body {
			in.eval(expr, modEnv)
		}
		env.DefineModule(d.Name, modEnv)
	case *ast.Import:
		modEnv := in.loadModule(d.Module, d.Pos)
		name := d.Module
		if d.Alias != "" {
			name = d.Alias
		}
		env.DefineModule(name, modEnv)
	}
}

// evalTypeDef records the definition and synthesizes one constructor
// binding per constructor: nullary constructors become a value, n-ary ones
// a builtin of arity n that packages its arguments into an ADT instance.
func (in *Interp) evalTypeDef(def *ast.TypeDef, env *Env) {
	env.DefineType(def.Name, def)
	for _, ctor := range def.Ctors {
		if len(ctor.Fields) == 0 {
			in.define(env, ctor.Name, &ADT{TypeName: def.Name, Ctor: ctor.Name}, false, def.Pos)
			continue
		}
		typeName, ctorName := def.Name, ctor.Name
		fn := func(args []Value) (Value, error) {
			fields := make([]Value, len(args))
			copy(fields, args)
			return &ADT{TypeName: typeName, Ctor: ctorName, Fields: fields}, nil
		}
		in.define(env, ctor.Name, &Builtin{Name: ctor.Name, Arity: len(ctor.Fields), Fn: fn}, false, def.Pos)
	}
}

func (in *Interp) define(env *Env, name string, v Value, isConst bool, pos diag.Pos) {
	if err := env.Define(name, v, isConst); err != nil {
		panic(diag.Runtimef(pos, "%v", err))
	}
}

func (in *Interp) eval(expr ast.Expr, env *Env) Value {
	switch e := expr.(type) {
	case *ast.IntLit:
		return &Int{Value: e.Value}
	case *ast.FloatLit:
		return &Float{Value: e.Value}
	case *ast.StringLit:
		return &String{Value: e.Value}
	case *ast.BoolLit:
		return BoolOf(e.Value)
	case *ast.InterpString:
		return in.evalInterp(e, env)
	case *ast.Ident:
		v, ok := env.Get(e.Name)
		if !ok {
			panic(diag.Runtimef(e.Pos, "Undefined variable: %s", e.Name))
		}
		return Force(v)
	case *ast.Binary:
		return in.evalBinary(e, env)
	case *ast.Unary:
		return in.evalUnary(e, env)
	case *ast.Let:
		v := in.eval(e.Value, env)
		in.define(env, e.Name, v, e.Const, e.Pos)
		return v
	case *ast.Assign:
		if !env.Has(e.Name) {
			panic(diag.Runtimef(e.Pos, "Undefined variable: %s", e.Name))
		}
		v := in.eval(e.Value, env)
		if err := env.Set(e.Name, v); err != nil {
			panic(diag.Runtimef(e.Pos, "%v", err))
		}
		return v
	case *ast.FnDef:
		closure := &Closure{Params: paramNames(e.Params), Body: e.Body, Env: env}
		in.define(env, e.Name, closure, false, e.Pos)
		return closure
	case *ast.Lambda:
		return &Closure{Params: paramNames(e.Params), Body: e.Body, Env: env}
	case *ast.Call:
		return in.evalCall(e, env)
	case *ast.If:
		cond := Force(in.eval(e.Cond, env))
		b, ok := cond.(*Bool)
		if !ok {
			panic(diag.Runtimef(e.Pos, "Condition must be a bool, got %s", cond.Kind()))
		}
		if b.Value {
			return in.eval(e.Then, env)
		}
		if e.Else != nil {
			return in.eval(e.Else, env)
		}
		return UnitValue
	case *ast.While:
		var result Value = UnitValue
		for {
			cond := Force(in.eval(e.Cond, env))
			b, ok := cond.(*Bool)
			if !ok {
				panic(diag.Runtimef(e.Pos, "Condition must be a bool, got %s", cond.Kind()))
			}
			if !b.Value {
				break
			}
			result = in.eval(e.Body, env.Extend())
		}
		return result
	case *ast.For:
		iterable := Force(in.eval(e.Iterable, env))
		list, ok := iterable.(*List)
		if !ok {
			panic(diag.Runtimef(e.Pos, "for: expected list to iterate over, got %s", iterable.Kind()))
		}
		var result Value = UnitValue
		for _, item := range list.Elems {
			loopEnv := env.Extend()
			in.define(loopEnv, e.Var, Force(item), false, e.Pos)
			result = in.eval(e.Body, loopEnv)
		}
		return result
	case *ast.List:
		elems := make([]Value, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = in.eval(el, env)
		}
		return &List{Elems: elems}
	case *ast.Tuple:
		if len(e.Elems) == 0 {
			return UnitValue
		}
		elems := make([]Value, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = in.eval(el, env)
		}
		return &Tuple{Elems: elems}
	case *ast.Record:
		rec := NewRecord()
		for _, f := range e.Fields {
			rec.Set(f.Name, in.eval(f.Value, env))
		}
		return rec
	case *ast.Map:
		m := &Map{}
		for _, entry := range e.Entries {
			key := in.eval(entry.Key, env)
			m.Set(key, in.eval(entry.Value, env))
		}
		return m
	case *ast.FieldAccess:
		return in.evalFieldAccess(e, env)
	case *ast.Match:
		return in.evalMatch(e, env)
	case *ast.Block:
		blockEnv := env.Extend()
		var result Value = UnitValue
		for _, inner := range e.Exprs {
			result = in.eval(inner, blockEnv)
		}
		return result
	case *ast.CtorCall:
		fields := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			fields[i] = in.eval(arg, env)
		}
		return &ADT{TypeName: e.TypeName, Ctor: e.Ctor, Fields: fields}
	case *ast.ModuleAccess:
		mod, ok := env.LookupModule(e.Module)
		if !ok {
			panic(diag.Runtimef(e.Pos, "Unknown module: %s", e.Module))
		}
		v, ok := mod.Get(e.Member)
		if !ok {
			panic(diag.Runtimef(e.Pos, "Unknown member: %s in module %s", e.Member, e.Module))
		}
		return v
	}
	panic(diag.Runtimef(expr.Position(), "Unknown expression type"))
}

func paramNames(params []ast.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func (in *Interp) evalInterp(e *ast.InterpString, env *Env) Value {
	var sb strings.Builder
	for _, part := range e.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Text)
			continue
		}
		sb.WriteString(Render(Force(in.eval(part.Expr, env))))
	}
	return &String{Value: sb.String()}
}

func (in *Interp) evalBinary(e *ast.Binary, env *Env) Value {
	// && and || short-circuit: the left operand decides alone when it can.
	if e.Op == ast.AND || e.Op == ast.OR {
		left := Force(in.eval(e.Left, env))
		lb, ok := left.(*Bool)
		if !ok {
			panic(diag.Runtimef(e.Pos, "Operands of '%s' must be bools, got %s", e.Op, left.Kind()))
		}
		if e.Op == ast.AND && !lb.Value {
			return False
		}
		if e.Op == ast.OR && lb.Value {
			return True
		}
		right := Force(in.eval(e.Right, env))
		rb, ok := right.(*Bool)
		if !ok {
			panic(diag.Runtimef(e.Pos, "Operands of '%s' must be bools, got %s", e.Op, right.Kind()))
		}
		return BoolOf(rb.Value)
	}

	left := Force(in.eval(e.Left, env))
	right := Force(in.eval(e.Right, env))

	// + on a string concatenates; the left operand picks the overload.
	if e.Op == ast.ADD {
		if ls, ok := left.(*String); ok {
			rs, ok := right.(*String)
			if !ok {
				panic(diag.Runtimef(e.Pos, "Cannot concatenate string with %s", right.Kind()))
			}
			return &String{Value: ls.Value + rs.Value}
		}
	}

	// Structural equality; no implicit numeric coercion.
	if e.Op == ast.EQ {
		return BoolOf(Equal(left, right))
	}
	if e.Op == ast.NEQ {
		return BoolOf(!Equal(left, right))
	}

	return in.evalArith(e, left, right)
}

func (in *Interp) evalArith(e *ast.Binary, left, right Value) Value {
	l, lok := AsNumber(left)
	r, rok := AsNumber(right)
	if !lok || !rok {
		panic(diag.Runtimef(e.Pos, "Operands of '%s' must be numbers, got %s and %s",
			e.Op, left.Kind(), right.Kind()))
	}

	_, lf := left.(*Float)
	_, rf := right.(*Float)
	useFloat := lf || rf

	switch e.Op {
	case ast.ADD, ast.SUB, ast.MUL, ast.DIV:
		if useFloat {
			var f float64
			switch e.Op {
			case ast.ADD:
				f = l + r
			case ast.SUB:
				f = l - r
			case ast.MUL:
				f = l * r
			case ast.DIV:
				if r == 0 {
					panic(diag.Runtimef(e.Pos, "Division by zero"))
				}
				f = l / r
			}
			return &Float{Value: f}
		}
		// Int arithmetic wraps per two's complement.
		a, b := left.(*Int).Value, right.(*Int).Value
		switch e.Op {
		case ast.ADD:
			return &Int{Value: a + b}
		case ast.SUB:
			return &Int{Value: a - b}
		case ast.MUL:
			return &Int{Value: a * b}
		default:
			if b == 0 {
				panic(diag.Runtimef(e.Pos, "Division by zero"))
			}
			return &Int{Value: a / b}
		}
	case ast.MOD:
		if r == 0 {
			panic(diag.Runtimef(e.Pos, "Division by zero"))
		}
		return &Int{Value: int64(math.Mod(l, r))}
	case ast.LT:
		return BoolOf(l < r)
	case ast.GT:
		return BoolOf(l > r)
	case ast.LTE:
		return BoolOf(l <= r)
	case ast.GTE:
		return BoolOf(l >= r)
	}
	panic(diag.Runtimef(e.Pos, "Unknown binary operator"))
}

func (in *Interp) evalUnary(e *ast.Unary, env *Env) Value {
	v := Force(in.eval(e.Operand, env))
	switch e.Op {
	case ast.NEG:
		switch n := v.(type) {
		case *Int:
			return &Int{Value: -n.Value}
		case *Float:
			return &Float{Value: -n.Value}
		}
		panic(diag.Runtimef(e.Pos, "Cannot negate non-number"))
	case ast.NOT:
		b, ok := v.(*Bool)
		if !ok {
			panic(diag.Runtimef(e.Pos, "Operand of '!' must be a bool, got %s", v.Kind()))
		}
		return BoolOf(!b.Value)
	}
	panic(diag.Runtimef(e.Pos, "Unknown unary operator"))
}

// evalCall evaluates the callee and all arguments left to right, strictly,
// then applies.
func (in *Interp) evalCall(e *ast.Call, env *Env) Value {
	callee := Force(in.eval(e.Callee, env))

	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		args[i] = in.eval(arg, env)
	}

	return in.apply(callee, args, e.Pos)
}

// apply invokes a closure or builtin with already-evaluated arguments.
func (in *Interp) apply(callee Value, args []Value, pos diag.Pos) Value {
	switch fn := callee.(type) {
	case *Builtin:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			panic(diag.Runtimef(pos, "Wrong number of arguments to %s: expected %d, got %d",
				fn.Name, fn.Arity, len(args)))
		}
		result, err := fn.Fn(args)
		if err != nil {
			if de, ok := err.(*diag.Error); ok {
				panic(de)
			}
			panic(diag.Runtimef(pos, "%v", err))
		}
		return result
	case *Closure:
		if len(args) != len(fn.Params) {
			panic(diag.Runtimef(pos, "Wrong number of arguments: expected %d, got %d",
				len(fn.Params), len(args)))
		}
		callEnv := fn.Env.Extend()
		for i, name := range fn.Params {
			in.define(callEnv, name, args[i], false, pos)
		}
		return in.eval(fn.Body, callEnv)
	}
	panic(diag.Runtimef(pos, "Cannot call non-function value of type %s", callee.Kind()))
}

// Apply calls a closure or builtin from the host side, returning evaluation
// errors as an error value instead of a panic.
func (in *Interp) Apply(callee Value, args []Value, pos diag.Pos) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(*diag.Error)
			if !ok {
				panic(r)
			}
			result, err = nil, de
		}
	}()
	return in.apply(Force(callee), args, pos), nil
}

func (in *Interp) evalFieldAccess(e *ast.FieldAccess, env *Env) Value {
	// An identifier naming a module in scope makes this a module member
	// access; everything else is a value field access.
	if id, ok := e.Object.(*ast.Ident); ok {
		if mod, found := env.LookupModule(id.Name); found {
			v, ok := mod.Get(e.Field)
			if !ok {
				panic(diag.Runtimef(e.Pos, "Unknown member: %s in module %s", e.Field, id.Name))
			}
			return v
		}
	}

	obj := Force(in.eval(e.Object, env))

	switch o := obj.(type) {
	case *Record:
		v, ok := o.Get(e.Field)
		if !ok {
			panic(diag.Runtimef(e.Pos, "Unknown field: %s", e.Field))
		}
		return v
	case *Tuple:
		idx, err := strconv.ParseUint(e.Field, 10, 32)
		if err != nil {
			panic(diag.Runtimef(e.Pos, "Invalid tuple index: %s", e.Field))
		}
		if int(idx) >= len(o.Elems) {
			panic(diag.Runtimef(e.Pos, "Tuple index out of bounds"))
		}
		return o.Elems[idx]
	}
	panic(diag.Runtimef(e.Pos, "Cannot access field on non-record/tuple"))
}

func (in *Interp) evalMatch(e *ast.Match, env *Env) Value {
	scrutinee := Force(in.eval(e.Scrutinee, env))

	for _, arm := range e.Arms {
		// Bindings go into a fresh scope so a failing pattern or guard
		// leaves the outer environment untouched.
		armEnv := env.Extend()
		if !in.matchPattern(arm.Pattern, scrutinee, armEnv) {
			continue
		}
		if arm.Guard != nil {
			guard := Force(in.eval(arm.Guard, armEnv))
			gb, ok := guard.(*Bool)
			if !ok {
				panic(diag.Runtimef(e.Pos, "Match guard must be a bool, got %s", guard.Kind()))
			}
			if !gb.Value {
				continue
			}
		}
		return in.eval(arm.Body, armEnv)
	}
	panic(diag.Runtimef(e.Pos, "No matching pattern"))
}
