// Package listmod provides the list helper builtins.
package listmod

import (
	"fmt"
	"sort"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "list",
		Funcs: []modules.FuncDef{
			{Name: "head", Arity: 1, Fn: list_head},
			{Name: "tail", Arity: 1, Fn: list_tail},
			{Name: "cons", Arity: 2, Fn: list_cons},
			{Name: "len", Arity: 1, Fn: list_len},
			{Name: "empty", Arity: 1, Fn: list_empty},
			{Name: "append", Arity: 2, Fn: list_append},
			{Name: "concat", Arity: 2, Fn: list_concat},
			{Name: "reverse", Arity: 1, Fn: list_reverse},
			{Name: "nth", Arity: 2, Fn: list_nth},
			{Name: "sort", Arity: 1, Fn: list_sort},
		},
	})
}

func list_head(args []interp.Value) (interp.Value, error) {
	l, err := modules.ListArg("head", args[0])
	if err != nil {
		return nil, err
	}
	if len(l.Elems) == 0 {
		return nil, fmt.Errorf("head: empty list")
	}
	return l.Elems[0], nil
}

func list_tail(args []interp.Value) (interp.Value, error) {
	l, err := modules.ListArg("tail", args[0])
	if err != nil {
		return nil, err
	}
	if len(l.Elems) == 0 {
		return nil, fmt.Errorf("tail: empty list")
	}
	rest := make([]interp.Value, len(l.Elems)-1)
	copy(rest, l.Elems[1:])
	return &interp.List{Elems: rest}, nil
}

func list_cons(args []interp.Value) (interp.Value, error) {
	elem := interp.Force(args[0])
	l, err := modules.ListArg("cons", args[1])
	if err != nil {
		return nil, err
	}
	elems := make([]interp.Value, 0, len(l.Elems)+1)
	elems = append(elems, elem)
	elems = append(elems, l.Elems...)
	return &interp.List{Elems: elems}, nil
}

func list_len(args []interp.Value) (interp.Value, error) {
	switch v := interp.Force(args[0]).(type) {
	case *interp.List:
		return &interp.Int{Value: int64(len(v.Elems))}, nil
	case *interp.String:
		return &interp.Int{Value: int64(len(v.Value))}, nil
	case *interp.Tuple:
		return &interp.Int{Value: int64(len(v.Elems))}, nil
	}
	return nil, fmt.Errorf("len: expected list, string, or tuple")
}

func list_empty(args []interp.Value) (interp.Value, error) {
	switch v := interp.Force(args[0]).(type) {
	case *interp.List:
		return interp.BoolOf(len(v.Elems) == 0), nil
	case *interp.String:
		return interp.BoolOf(v.Value == ""), nil
	}
	return nil, fmt.Errorf("empty: expected list or string")
}

func list_append(args []interp.Value) (interp.Value, error) {
	l, err := modules.ListArg("append", args[0])
	if err != nil {
		return nil, err
	}
	elems := make([]interp.Value, 0, len(l.Elems)+1)
	elems = append(elems, l.Elems...)
	elems = append(elems, interp.Force(args[1]))
	return &interp.List{Elems: elems}, nil
}

func list_concat(args []interp.Value) (interp.Value, error) {
	a, err := modules.ListArg("concat", args[0])
	if err != nil {
		return nil, fmt.Errorf("concat: expected lists")
	}
	b, err := modules.ListArg("concat", args[1])
	if err != nil {
		return nil, fmt.Errorf("concat: expected lists")
	}
	elems := make([]interp.Value, 0, len(a.Elems)+len(b.Elems))
	elems = append(elems, a.Elems...)
	elems = append(elems, b.Elems...)
	return &interp.List{Elems: elems}, nil
}

func list_reverse(args []interp.Value) (interp.Value, error) {
	l, err := modules.ListArg("reverse", args[0])
	if err != nil {
		return nil, err
	}
	elems := make([]interp.Value, len(l.Elems))
	for i, v := range l.Elems {
		elems[len(elems)-1-i] = v
	}
	return &interp.List{Elems: elems}, nil
}

func list_nth(args []interp.Value) (interp.Value, error) {
	l, err := modules.ListArg("nth", args[0])
	if err != nil {
		return nil, err
	}
	idx, err := modules.IntArg("nth", args[1])
	if err != nil {
		return nil, fmt.Errorf("nth: expected int index")
	}
	if idx < 0 || idx >= int64(len(l.Elems)) {
		return nil, fmt.Errorf("nth: index out of bounds")
	}
	return l.Elems[idx], nil
}

// list_sort sorts numbers or strings, picking the comparison from the first
// element.
func list_sort(args []interp.Value) (interp.Value, error) {
	l, err := modules.ListArg("sort", args[0])
	if err != nil {
		return nil, err
	}
	elems := make([]interp.Value, len(l.Elems))
	copy(elems, l.Elems)
	if len(elems) == 0 {
		return &interp.List{Elems: elems}, nil
	}

	switch interp.Force(elems[0]).(type) {
	case *interp.Int, *interp.Float:
		sort.SliceStable(elems, func(i, j int) bool {
			a, _ := interp.AsNumber(interp.Force(elems[i]))
			b, _ := interp.AsNumber(interp.Force(elems[j]))
			return a < b
		})
	case *interp.String:
		sort.SliceStable(elems, func(i, j int) bool {
			a, _ := interp.Force(elems[i]).(*interp.String)
			b, _ := interp.Force(elems[j]).(*interp.String)
			return a.Value < b.Value
		})
	default:
		return nil, fmt.Errorf("sort: can only sort lists of numbers or strings")
	}
	return &interp.List{Elems: elems}, nil
}
