package interp_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/parser"

	_ "github.com/rubiojr/setsuna/modules/core"
	_ "github.com/rubiojr/setsuna/modules/dict"
	_ "github.com/rubiojr/setsuna/modules/list"
	_ "github.com/rubiojr/setsuna/modules/math"
	_ "github.com/rubiojr/setsuna/modules/str"
)

// run evaluates src with the full helper catalogue and the prelude,
// capturing stdout.
func run(t *testing.T, src string) (interp.Value, string, error) {
	t.Helper()
	prog, err := parser.ParseSource(src, "test.stsn")
	require.NoError(t, err)

	in := interp.New(interp.NewGlobalEnv())
	require.NoError(t, in.LoadPrelude())

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	result, runErr := in.Run(prog)

	w.Close()
	os.Stdout = old
	out := make([]byte, 0, 1024)
	buf := make([]byte, 1024)
	for {
		n, readErr := r.Read(buf)
		out = append(out, buf[:n]...)
		if readErr != nil {
			break
		}
	}
	r.Close()

	return result, string(out), runErr
}

func output(t *testing.T, src string) string {
	t.Helper()
	_, out, err := run(t, src)
	require.NoError(t, err)
	return out
}

func TestEval_Factorial(t *testing.T) {
	src := `fn f(n) { match n { 0 => 1, _ => n * f(n - 1) } } print(f(10))`
	assert.Equal(t, "3628800\n", output(t, src))
}

func TestEval_MapOverList(t *testing.T) {
	src := `let xs = [1,2,3,4,5] print(map((x)=>x*2, xs))`
	assert.Equal(t, "[2, 4, 6, 8, 10]\n", output(t, src))
}

func TestEval_ADTTreeSum(t *testing.T) {
	src := `type Tree { Leaf(x), Node(l, r) } fn s(t) { match t { Leaf(x) => x, Node(l,r) => s(l)+s(r) } } print(s(Node(Node(Leaf(1),Leaf(2)),Leaf(3))))`
	assert.Equal(t, "6\n", output(t, src))
}

func TestEval_RecordPatternMatch(t *testing.T) {
	src := `let p = { name: "Alice", age: 30 } match p { { name: n, age: a } => print("Hello, " + n + "!") }`
	assert.Equal(t, "Hello, Alice!\n", output(t, src))
}

func TestEval_ModuleMemberCall(t *testing.T) {
	src := `module M { fn sq(x) => x*x } print(M.sq(5))`
	assert.Equal(t, "25\n", output(t, src))
}

func TestEval_WhileLoop(t *testing.T) {
	src := `let x = 0 while x < 3 { print(x); x = x + 1 }`
	assert.Equal(t, "0\n1\n2\n", output(t, src))
}

func TestEval_ClosuresCaptureConstructionSite(t *testing.T) {
	src := `
let mk = (n) => (u) => n
let f1 = mk(1)
let f2 = mk(2)
print(f1(0))
print(f2(0))
`
	assert.Equal(t, "1\n2\n", output(t, src))
}

func TestEval_InnerRebindingNotObserved(t *testing.T) {
	src := `
let x = 1
let f = (u) => x
{
    let x = 99
    print(f(0))
}
`
	assert.Equal(t, "1\n", output(t, src))
}

func TestEval_ShortCircuit(t *testing.T) {
	src := `
fn boom(u) { error("should not run") }
print(false && boom(0))
print(true || boom(0))
`
	assert.Equal(t, "false\ntrue\n", output(t, src))
}

func TestEval_StrictLeftToRightArguments(t *testing.T) {
	var seen []string
	interp.RegisterBuiltin("probe", 1, func(args []interp.Value) (interp.Value, error) {
		seen = append(seen, interp.Render(args[0]))
		return args[0], nil
	})

	src := `fn f(a, b, c) => 0
f(probe("1"), probe("2"), probe("3"))`
	_, _, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, seen)
}

func TestEval_Arithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`print(7 / 2)`, "3\n"},
		{`print(7.0 / 2)`, "3.5\n"},
		{`print(7 % 3)`, "1\n"},
		{`print(1 + 2.5)`, "3.5\n"},
		{`print(-5)`, "-5\n"},
		{`print(!true)`, "false\n"},
		{`print("a" + "b")`, "ab\n"},
		{`print(1 < 2.5)`, "true\n"},
		{`print(1 == 1.0)`, "false\n"},
		{`print(2 == 2)`, "true\n"},
		{`print([1, [2]] == [1, [2]])`, "true\n"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, output(t, tc.src), tc.src)
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	_, _, err := run(t, "1 / 0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Division by zero")
}

func TestEval_UndefinedVariable(t *testing.T) {
	_, _, err := run(t, "ghost + 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable: ghost")
	assert.Contains(t, err.Error(), "test.stsn:1:1")
}

func TestEval_ConstImmutability(t *testing.T) {
	_, _, err := run(t, "const c = 1 c = 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot reassign const")

	// at any scope depth
	_, _, err = run(t, "const c = 1 fn f(x) { c = x } f(9)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot reassign const")

	_, _, err = run(t, "const c = 1 fn f(x) { let c = x } f(9)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot redeclare const")
}

func TestEval_MatchBindingsDoNotLeak(t *testing.T) {
	src := `
let x = 10
let r = match [1, 2] {
    [a, b, c] => 0,
    [a, b] => a + b + x
}
print(r)
`
	assert.Equal(t, "13\n", output(t, src))

	_, _, err := run(t, `match [1, 2] { [a, b] => a } print(a)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable: a")
}

func TestEval_MatchGuards(t *testing.T) {
	src := `
fn classify(n) {
    match n {
        x if x < 0 => "negative",
        0 => "zero",
        _ => "positive"
    }
}
print(classify(0 - 5))
print(classify(0))
print(classify(3))
`
	assert.Equal(t, "negative\nzero\npositive\n", output(t, src))
}

func TestEval_NoMatchingPattern(t *testing.T) {
	_, _, err := run(t, `match 3 { 0 => "zero" }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No matching pattern")
}

func TestEval_ListRestPattern(t *testing.T) {
	src := `
match [1, 2, 3, 4] {
    [x, ...rest] => { print(x); print(rest) }
}
`
	assert.Equal(t, "1\n[2, 3, 4]\n", output(t, src))
}

func TestEval_IfWithoutElseIsUnit(t *testing.T) {
	result, _, err := run(t, "if false { 1 }")
	require.NoError(t, err)
	assert.Equal(t, interp.UnitKind, result.Kind())
}

func TestEval_ForLoop(t *testing.T) {
	src := `for x in [1, 2, 3] { print(x * x) }`
	assert.Equal(t, "1\n4\n9\n", output(t, src))
}

func TestEval_Interpolation(t *testing.T) {
	src := `
let name = "World"
let n = 3
print(f"Hello, {name}! n+1 is {n + 1} and list is {[1, 2]}")
`
	assert.Equal(t, "Hello, World! n+1 is 4 and list is [1, 2]\n", output(t, src))
}

func TestEval_TupleIndexAndRecordField(t *testing.T) {
	src := `
let t = (10, "x")
print(t.0)
print(t.1)
let p = { name: "Ada" }
print(p.name)
`
	assert.Equal(t, "10\nx\nAda\n", output(t, src))
}

func TestEval_MapLiteralDedup(t *testing.T) {
	src := `
let m = %{ "a": 1, (1, 2): "t", "a": 99 }
print(map_get(m, "a"))
print(map_get(m, (1, 2)))
print(map_len(m))
`
	assert.Equal(t, "99\nt\n2\n", output(t, src))
}

func TestEval_WrongArity(t *testing.T) {
	_, _, err := run(t, "fn f(a, b) => a f(1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Wrong number of arguments")
}

func TestEval_CallNonFunction(t *testing.T) {
	_, _, err := run(t, "let x = 3 x(1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot call non-function")
}

func TestEval_TopLevelResultValue(t *testing.T) {
	result, _, err := run(t, "1 + 2\n40 + 2")
	require.NoError(t, err)
	assert.Equal(t, "42", interp.Render(result))
}

func TestEval_PreludeHelpers(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`print(filter((x) => x % 2 == 0, [1,2,3,4]))`, "[2, 4]\n"},
		{`print(fold((acc, x) => acc + x, 0, [1,2,3,4]))`, "10\n"},
		{`print(sum(range(1, 5)))`, "10\n"},
		{`print(zip([1,2], ["a","b"]))`, "[(1, \"a\"), (2, \"b\")]\n"},
		{`print(take(2, [1,2,3]))`, "[1, 2]\n"},
		{`print(last([1,2,3]))`, "3\n"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, output(t, tc.src), tc.src)
	}
}
