package parser

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsuna/ast"
	"github.com/rubiojr/setsuna/diag"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseSource(src, "test.stsn")
	require.NoError(t, err)
	return prog
}

func firstExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	prog := parse(t, src)
	require.NotEmpty(t, prog.Decls)
	ed, ok := prog.Decls[0].(*ast.ExprDecl)
	require.True(t, ok, "first decl should be an expression")
	return ed.Expr
}

func TestParse_Deterministic(t *testing.T) {
	src := `
type Shape { Circle(r), Square(s) }
fn area(sh) {
    match sh {
        Circle(r) => 3.14 * r * r,
        Square(s) => s * s
    }
}
let shapes = [Circle(1.0), Square(2.0)]
print(map(area, shapes))
`
	a := parse(t, src)
	b := parse(t, src)
	assert.True(t, reflect.DeepEqual(a, b), "equal inputs must produce structurally equal ASTs")
}

func TestParse_Precedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	bin, ok := firstExpr(t, "1 + 2 * 3").(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.ADD, bin.Op)
	right, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.MUL, right.Op)

	// a || b && c parses as a || (b && c)
	bin, ok = firstExpr(t, "a || b && c").(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OR, bin.Op)

	// comparison binds tighter than equality
	bin, ok = firstExpr(t, "a == b < c").(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.EQ, bin.Op)
}

func TestParse_LeftAssociative(t *testing.T) {
	bin, ok := firstExpr(t, "1 - 2 - 3").(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.SUB, bin.Op)
	left, ok := bin.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.SUB, left.Op)
	assert.Equal(t, int64(1), left.Left.(*ast.IntLit).Value)
	assert.Equal(t, int64(3), bin.Right.(*ast.IntLit).Value)
}

func TestParse_RecordVsBlock(t *testing.T) {
	_, isRecord := firstExpr(t, `{ name: "Alice", age: 30 }`).(*ast.Record)
	assert.True(t, isRecord)

	_, isBlock := firstExpr(t, "{ let x = 1\nx + 1 }").(*ast.Block)
	assert.True(t, isBlock)

	// Newlines before the first field don't change the answer.
	_, isRecord = firstExpr(t, "{\n  name: \"Bob\"\n}").(*ast.Record)
	assert.True(t, isRecord)
}

func TestParse_LambdaVsTuple(t *testing.T) {
	lambda, ok := firstExpr(t, "(x, y) => x + y").(*ast.Lambda)
	require.True(t, ok)
	require.Len(t, lambda.Params, 2)
	assert.Equal(t, "x", lambda.Params[0].Name)

	tuple, ok := firstExpr(t, "(x, y)").(*ast.Tuple)
	require.True(t, ok)
	assert.Len(t, tuple.Elems, 2)

	// Consumed identifiers must be restored when => never shows up.
	bin, ok := firstExpr(t, "(x) + 1").(*ast.Binary)
	require.True(t, ok)
	_, ok = bin.Left.(*ast.Ident)
	assert.True(t, ok)
}

func TestParse_UnitAndGrouping(t *testing.T) {
	unit, ok := firstExpr(t, "()").(*ast.Tuple)
	require.True(t, ok)
	assert.Empty(t, unit.Elems)

	group := firstExpr(t, "(1 + 2)")
	_, ok = group.(*ast.Binary)
	assert.True(t, ok)
}

func TestParse_FnBodies(t *testing.T) {
	fn, ok := firstExpr(t, "fn sq(x) => x * x").(*ast.FnDef)
	require.True(t, ok)
	assert.Equal(t, "sq", fn.Name)
	_, ok = fn.Body.(*ast.Binary)
	assert.True(t, ok)

	fn, ok = firstExpr(t, "fn sq(x) { x * x }").(*ast.FnDef)
	require.True(t, ok)
	_, ok = fn.Body.(*ast.Block)
	assert.True(t, ok)
}

func TestParse_LetAndConst(t *testing.T) {
	let, ok := firstExpr(t, "let x = 1").(*ast.Let)
	require.True(t, ok)
	assert.False(t, let.Const)

	let, ok = firstExpr(t, "const y = 2").(*ast.Let)
	require.True(t, ok)
	assert.True(t, let.Const)

	let, ok = firstExpr(t, "let z: Int = 3").(*ast.Let)
	require.True(t, ok)
	require.NotNil(t, let.Type)
	named, ok := let.Type.(*ast.NamedType)
	require.True(t, ok)
	assert.Equal(t, "Int", named.Name)
}

func TestParse_Assignment(t *testing.T) {
	as, ok := firstExpr(t, "x = x + 1").(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", as.Name)
	_, ok = as.Value.(*ast.Binary)
	assert.True(t, ok)
}

func TestParse_WhileAndFor(t *testing.T) {
	w, ok := firstExpr(t, "while x < 3 { print(x); x = x + 1 }").(*ast.While)
	require.True(t, ok)
	body, ok := w.Body.(*ast.Block)
	require.True(t, ok)
	assert.Len(t, body.Exprs, 2)

	f, ok := firstExpr(t, "for v in xs { print(v) }").(*ast.For)
	require.True(t, ok)
	assert.Equal(t, "v", f.Var)
}

func TestParse_MapLiteral(t *testing.T) {
	m, ok := firstExpr(t, `%{ "a": 1, (1, 2): "pair" }`).(*ast.Map)
	require.True(t, ok)
	require.Len(t, m.Entries, 2)
	_, ok = m.Entries[1].Key.(*ast.Tuple)
	assert.True(t, ok)

	m, ok = firstExpr(t, "%{}").(*ast.Map)
	require.True(t, ok)
	assert.Empty(t, m.Entries)
}

func TestParse_MatchPatternsAndGuards(t *testing.T) {
	src := `
match v {
    0 => "zero",
    [x, ...rest] => "list",
    (a, b) => "pair",
    { name: n } => "record",
    Some(x) if x > 1 => "big",
    other => "var",
    _ => "wild"
}
`
	m, ok := firstExpr(t, src).(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Arms, 7)

	_, ok = m.Arms[0].Pattern.(*ast.LitPat)
	assert.True(t, ok)

	lp, ok := m.Arms[1].Pattern.(*ast.ListPat)
	require.True(t, ok)
	assert.Equal(t, "rest", lp.Rest)
	assert.Len(t, lp.Elems, 1)

	_, ok = m.Arms[2].Pattern.(*ast.TuplePat)
	assert.True(t, ok)

	rp, ok := m.Arms[3].Pattern.(*ast.RecordPat)
	require.True(t, ok)
	assert.Equal(t, "name", rp.Fields[0].Name)

	cp, ok := m.Arms[4].Pattern.(*ast.CtorPat)
	require.True(t, ok)
	assert.Equal(t, "Some", cp.Ctor)
	require.NotNil(t, m.Arms[4].Guard)

	_, ok = m.Arms[5].Pattern.(*ast.VarPat)
	assert.True(t, ok)

	_, ok = m.Arms[6].Pattern.(*ast.WildcardPat)
	assert.True(t, ok)
}

func TestParse_TupleIndexFieldAccess(t *testing.T) {
	fa, ok := firstExpr(t, "t.0").(*ast.FieldAccess)
	require.True(t, ok)
	assert.Equal(t, "0", fa.Field)

	fa, ok = firstExpr(t, "p.name").(*ast.FieldAccess)
	require.True(t, ok)
	assert.Equal(t, "name", fa.Field)
}

func TestParse_InterpString(t *testing.T) {
	is, ok := firstExpr(t, `f"Hello, {name}! You are {age + 1}."`).(*ast.InterpString)
	require.True(t, ok)
	require.Len(t, is.Parts, 5)

	assert.Equal(t, "Hello, ", is.Parts[0].Text)
	_, ok = is.Parts[1].Expr.(*ast.Ident)
	assert.True(t, ok)
	assert.Equal(t, "! You are ", is.Parts[2].Text)
	_, ok = is.Parts[3].Expr.(*ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, ".", is.Parts[4].Text)
}

func TestParse_TypeDef(t *testing.T) {
	prog := parse(t, "type Option<T> { Some(T), None }")
	require.Len(t, prog.Decls, 1)
	td, ok := prog.Decls[0].(*ast.TypeDef)
	require.True(t, ok)
	assert.Equal(t, "Option", td.Name)
	assert.Equal(t, []string{"T"}, td.TypeParams)
	require.Len(t, td.Ctors, 2)
	assert.Equal(t, "Some", td.Ctors[0].Name)
	assert.Len(t, td.Ctors[0].Fields, 1)
	assert.Empty(t, td.Ctors[1].Fields)
}

func TestParse_ModuleAndImport(t *testing.T) {
	prog := parse(t, "module M { fn sq(x) => x*x }\nimport Utils as U\nimport Other")
	require.Len(t, prog.Decls, 3)

	md, ok := prog.Decls[0].(*ast.ModuleDef)
	require.True(t, ok)
	assert.Equal(t, "M", md.Name)
	assert.Len(t, md.Body, 1)

	im, ok := prog.Decls[1].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "Utils", im.Module)
	assert.Equal(t, "U", im.Alias)

	im, ok = prog.Decls[2].(*ast.Import)
	require.True(t, ok)
	assert.Empty(t, im.Alias)
}

func TestParse_FnTypeAnnotation(t *testing.T) {
	fn, ok := firstExpr(t, "fn add(a: Int, b: Int): Int => a + b").(*ast.FnDef)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	require.NotNil(t, fn.Params[0].Type)
	require.NotNil(t, fn.Return)
}

func TestParse_TypeExprs(t *testing.T) {
	let, ok := firstExpr(t, "let f: (Int, Int) -> Int = add").(*ast.Let)
	require.True(t, ok)
	ft, ok := let.Type.(*ast.FnType)
	require.True(t, ok)
	assert.Len(t, ft.Params, 2)

	let, ok = firstExpr(t, "let xs: [Int] = []").(*ast.Let)
	require.True(t, ok)
	_, ok = let.Type.(*ast.ListType)
	assert.True(t, ok)

	let, ok = firstExpr(t, "let p: (Int, String) = pair").(*ast.Let)
	require.True(t, ok)
	_, ok = let.Type.(*ast.TupleType)
	assert.True(t, ok)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		src string
		msg string
	}{
		{"let = 1", "Expected identifier"},
		{"(1, 2", "Expected ')'"},
		{"fn (x) => x", "Expected function name"},
		{"1 +", "Unexpected token"},
	}
	for _, tc := range cases {
		_, err := ParseSource(tc.src, "test.stsn")
		require.Error(t, err, tc.src)
		de, ok := err.(*diag.Error)
		require.True(t, ok, tc.src)
		assert.Equal(t, diag.Parse, de.Kind, tc.src)
		assert.Contains(t, de.Msg, tc.msg, tc.src)
	}
}
