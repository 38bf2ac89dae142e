// Package coremod provides the core helper builtins: printing, conversion,
// kind predicates, ranges, input, and error raising.
package coremod

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/modules"
)

// stdin is shared across input calls so buffered lines are not lost.
var stdin = bufio.NewReader(os.Stdin)

func init() {
	modules.Register(&modules.Module{
		Name: "core",
		Funcs: []modules.FuncDef{
			{Name: "print", Arity: 1, Fn: core_print},
			{Name: "println", Arity: 1, Fn: core_print},
			{Name: "str", Arity: 1, Fn: core_str},
			{Name: "int", Arity: 1, Fn: core_int},
			{Name: "float", Arity: 1, Fn: core_float},
			{Name: "is_int", Arity: 1, Fn: isKind(interp.IntKind)},
			{Name: "is_float", Arity: 1, Fn: isKind(interp.FloatKind)},
			{Name: "is_string", Arity: 1, Fn: isKind(interp.StringKind)},
			{Name: "is_bool", Arity: 1, Fn: isKind(interp.BoolKind)},
			{Name: "is_list", Arity: 1, Fn: isKind(interp.ListKind)},
			{Name: "is_tuple", Arity: 1, Fn: isKind(interp.TupleKind)},
			{Name: "is_record", Arity: 1, Fn: isKind(interp.RecordKind)},
			{Name: "is_fn", Arity: 1, Fn: core_is_fn},
			{Name: "range", Arity: 2, Fn: core_range},
			{Name: "input", Arity: -1, Fn: core_input},
			{Name: "input_prompt", Arity: 1, Fn: core_input_prompt},
			{Name: "error", Arity: 1, Fn: core_error},
			{Name: "assert", Arity: 2, Fn: core_assert},
			{Name: "compare", Arity: 2, Fn: core_compare},
		},
	})
}

func core_print(args []interp.Value) (interp.Value, error) {
	fmt.Println(interp.Render(args[0]))
	return interp.UnitValue, nil
}

func core_str(args []interp.Value) (interp.Value, error) {
	v := interp.Force(args[0])
	if _, ok := v.(*interp.String); ok {
		return v, nil
	}
	return &interp.String{Value: interp.Render(v)}, nil
}

func core_int(args []interp.Value) (interp.Value, error) {
	switch v := interp.Force(args[0]).(type) {
	case *interp.Int:
		return v, nil
	case *interp.Float:
		return &interp.Int{Value: int64(v.Value)}, nil
	case *interp.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("int: cannot convert %q", v.Value)
		}
		return &interp.Int{Value: n}, nil
	}
	return nil, fmt.Errorf("Cannot convert to int")
}

func core_float(args []interp.Value) (interp.Value, error) {
	switch v := interp.Force(args[0]).(type) {
	case *interp.Float:
		return v, nil
	case *interp.Int:
		return &interp.Float{Value: float64(v.Value)}, nil
	case *interp.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("float: cannot convert %q", v.Value)
		}
		return &interp.Float{Value: f}, nil
	}
	return nil, fmt.Errorf("Cannot convert to float")
}

func isKind(kind interp.Kind) interp.BuiltinFunc {
	return func(args []interp.Value) (interp.Value, error) {
		return interp.BoolOf(interp.Force(args[0]).Kind() == kind), nil
	}
}

func core_is_fn(args []interp.Value) (interp.Value, error) {
	return interp.BoolOf(interp.IsCallable(interp.Force(args[0]))), nil
}

func core_range(args []interp.Value) (interp.Value, error) {
	start, err := modules.IntArg("range", args[0])
	if err != nil {
		return nil, fmt.Errorf("range: expected int arguments")
	}
	end, err := modules.IntArg("range", args[1])
	if err != nil {
		return nil, fmt.Errorf("range: expected int arguments")
	}
	var elems []interp.Value
	for i := start; i < end; i++ {
		elems = append(elems, &interp.Int{Value: i})
	}
	return &interp.List{Elems: elems}, nil
}

func readLine() (interp.Value, error) {
	line, err := stdin.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return &interp.String{}, nil
	}
	return &interp.String{Value: line}, nil
}

func core_input(args []interp.Value) (interp.Value, error) {
	if len(args) > 0 {
		fmt.Print(interp.Render(args[0]))
	}
	return readLine()
}

func core_input_prompt(args []interp.Value) (interp.Value, error) {
	fmt.Print(interp.Render(args[0]))
	return readLine()
}

func core_error(args []interp.Value) (interp.Value, error) {
	return nil, fmt.Errorf("%s", interp.Render(args[0]))
}

func core_assert(args []interp.Value) (interp.Value, error) {
	cond, err := modules.BoolArg("assert", args[0])
	if err != nil {
		return nil, err
	}
	if !cond {
		return nil, fmt.Errorf("Assertion failed: %s", interp.Render(args[1]))
	}
	return interp.UnitValue, nil
}

func core_compare(args []interp.Value) (interp.Value, error) {
	a, b := interp.Force(args[0]), interp.Force(args[1])

	if an, ok := interp.AsNumber(a); ok {
		if bn, ok := interp.AsNumber(b); ok {
			return &interp.Int{Value: cmp(an, bn)}, nil
		}
	}
	if as, ok := a.(*interp.String); ok {
		if bs, ok := b.(*interp.String); ok {
			return &interp.Int{Value: cmpStr(as.Value, bs.Value)}, nil
		}
	}
	return nil, fmt.Errorf("compare: can only compare numbers or strings")
}

func cmp(a, b float64) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpStr(a, b string) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
