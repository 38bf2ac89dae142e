// Package strmod provides the string helper builtins.
package strmod

import (
	"fmt"
	"strings"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "str",
		Funcs: []modules.FuncDef{
			{Name: "substr", Arity: 3, Fn: str_substr},
			{Name: "split", Arity: 2, Fn: str_split},
			{Name: "join", Arity: 2, Fn: str_join},
			{Name: "uppercase", Arity: 1, Fn: mapString("uppercase", strings.ToUpper)},
			{Name: "lowercase", Arity: 1, Fn: mapString("lowercase", strings.ToLower)},
			{Name: "trim", Arity: 1, Fn: trimWith("trim", strings.Trim)},
			{Name: "trim_start", Arity: 1, Fn: trimWith("trim_start", strings.TrimLeft)},
			{Name: "trim_end", Arity: 1, Fn: trimWith("trim_end", strings.TrimRight)},
			{Name: "contains", Arity: 2, Fn: strPred("contains", strings.Contains)},
			{Name: "starts_with", Arity: 2, Fn: strPred("starts_with", strings.HasPrefix)},
			{Name: "ends_with", Arity: 2, Fn: strPred("ends_with", strings.HasSuffix)},
			{Name: "replace", Arity: 3, Fn: str_replace},
			{Name: "replace_all", Arity: 3, Fn: str_replace_all},
			{Name: "char_at", Arity: 2, Fn: str_char_at},
			{Name: "chars", Arity: 1, Fn: str_chars},
			{Name: "index_of", Arity: 2, Fn: str_index_of},
		},
	})
}

const whitespace = " \t\n\r\f\v"

func str_substr(args []interp.Value) (interp.Value, error) {
	s, err := modules.StringArg("substr", args[0])
	if err != nil {
		return nil, err
	}
	start, err := modules.IntArg("substr", args[1])
	if err != nil {
		return nil, err
	}
	length, err := modules.IntArg("substr", args[2])
	if err != nil {
		return nil, err
	}
	if start < 0 || start > int64(len(s)) {
		return nil, fmt.Errorf("substr: start out of range")
	}
	end := start + length
	if length < 0 || end > int64(len(s)) {
		end = int64(len(s))
	}
	return &interp.String{Value: s[start:end]}, nil
}

func str_split(args []interp.Value) (interp.Value, error) {
	s, err := modules.StringArg("split", args[0])
	if err != nil {
		return nil, fmt.Errorf("split: expected strings")
	}
	delim, err := modules.StringArg("split", args[1])
	if err != nil {
		return nil, fmt.Errorf("split: expected strings")
	}
	parts := strings.Split(s, delim)
	elems := make([]interp.Value, len(parts))
	for i, part := range parts {
		elems[i] = &interp.String{Value: part}
	}
	return &interp.List{Elems: elems}, nil
}

func str_join(args []interp.Value) (interp.Value, error) {
	l, err := modules.ListArg("join", args[0])
	if err != nil {
		return nil, err
	}
	delim, err := modules.StringArg("join", args[1])
	if err != nil {
		return nil, fmt.Errorf("join: expected string delimiter")
	}
	parts := make([]string, len(l.Elems))
	for i, v := range l.Elems {
		parts[i] = interp.Render(v)
	}
	return &interp.String{Value: strings.Join(parts, delim)}, nil
}

func mapString(name string, fn func(string) string) interp.BuiltinFunc {
	return func(args []interp.Value) (interp.Value, error) {
		s, err := modules.StringArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return &interp.String{Value: fn(s)}, nil
	}
}

func trimWith(name string, fn func(string, string) string) interp.BuiltinFunc {
	return func(args []interp.Value) (interp.Value, error) {
		s, err := modules.StringArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return &interp.String{Value: fn(s, whitespace)}, nil
	}
}

func strPred(name string, fn func(string, string) bool) interp.BuiltinFunc {
	return func(args []interp.Value) (interp.Value, error) {
		s, err := modules.StringArg(name, args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: expected strings", name)
		}
		arg, err := modules.StringArg(name, args[1])
		if err != nil {
			return nil, fmt.Errorf("%s: expected strings", name)
		}
		return interp.BoolOf(fn(s, arg)), nil
	}
}

func str_replace(args []interp.Value) (interp.Value, error) {
	return replaceN("replace", args, 1)
}

func str_replace_all(args []interp.Value) (interp.Value, error) {
	return replaceN("replace_all", args, -1)
}

func replaceN(name string, args []interp.Value, n int) (interp.Value, error) {
	s, err := modules.StringArg(name, args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: expected strings", name)
	}
	old, err := modules.StringArg(name, args[1])
	if err != nil {
		return nil, fmt.Errorf("%s: expected strings", name)
	}
	repl, err := modules.StringArg(name, args[2])
	if err != nil {
		return nil, fmt.Errorf("%s: expected strings", name)
	}
	if old == "" {
		return &interp.String{Value: s}, nil
	}
	return &interp.String{Value: strings.Replace(s, old, repl, n)}, nil
}

func str_char_at(args []interp.Value) (interp.Value, error) {
	s, err := modules.StringArg("char_at", args[0])
	if err != nil {
		return nil, err
	}
	idx, err := modules.IntArg("char_at", args[1])
	if err != nil {
		return nil, fmt.Errorf("char_at: expected int index")
	}
	if idx < 0 || idx >= int64(len(s)) {
		return nil, fmt.Errorf("char_at: index out of bounds")
	}
	return &interp.String{Value: string(s[idx])}, nil
}

func str_chars(args []interp.Value) (interp.Value, error) {
	s, err := modules.StringArg("chars", args[0])
	if err != nil {
		return nil, err
	}
	elems := make([]interp.Value, len(s))
	for i := 0; i < len(s); i++ {
		elems[i] = &interp.String{Value: string(s[i])}
	}
	return &interp.List{Elems: elems}, nil
}

// str_index_of returns the byte index of the first occurrence, or -1.
func str_index_of(args []interp.Value) (interp.Value, error) {
	s, err := modules.StringArg("index_of", args[0])
	if err != nil {
		return nil, fmt.Errorf("index_of: expected strings")
	}
	sub, err := modules.StringArg("index_of", args[1])
	if err != nil {
		return nil, fmt.Errorf("index_of: expected strings")
	}
	return &interp.Int{Value: int64(strings.Index(s, sub))}, nil
}
