// Package dictmod provides helper builtins over map values.
package dictmod

import (
	"fmt"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "dict",
		Funcs: []modules.FuncDef{
			{Name: "map_get", Arity: 2, Fn: dict_get},
			{Name: "map_set", Arity: 3, Fn: dict_set},
			{Name: "map_remove", Arity: 2, Fn: dict_remove},
			{Name: "map_has", Arity: 2, Fn: dict_has},
			{Name: "map_keys", Arity: 1, Fn: dict_keys},
			{Name: "map_values", Arity: 1, Fn: dict_values},
			{Name: "map_len", Arity: 1, Fn: dict_len},
		},
	})
}

func dict_get(args []interp.Value) (interp.Value, error) {
	m, err := modules.MapArg("map_get", args[0])
	if err != nil {
		return nil, err
	}
	v, ok := m.Get(interp.Force(args[1]))
	if !ok {
		return nil, fmt.Errorf("map_get: key not found: %s", interp.Force(args[1]))
	}
	return v, nil
}

// dict_set returns a new map; map values are immutable like everything else.
func dict_set(args []interp.Value) (interp.Value, error) {
	m, err := modules.MapArg("map_set", args[0])
	if err != nil {
		return nil, err
	}
	out := &interp.Map{Entries: make([]interp.MapPair, len(m.Entries))}
	copy(out.Entries, m.Entries)
	out.Set(interp.Force(args[1]), interp.Force(args[2]))
	return out, nil
}

func dict_remove(args []interp.Value) (interp.Value, error) {
	m, err := modules.MapArg("map_remove", args[0])
	if err != nil {
		return nil, err
	}
	out := &interp.Map{Entries: make([]interp.MapPair, len(m.Entries))}
	copy(out.Entries, m.Entries)
	out.Remove(interp.Force(args[1]))
	return out, nil
}

func dict_has(args []interp.Value) (interp.Value, error) {
	m, err := modules.MapArg("map_has", args[0])
	if err != nil {
		return nil, err
	}
	_, ok := m.Get(interp.Force(args[1]))
	return interp.BoolOf(ok), nil
}

func dict_keys(args []interp.Value) (interp.Value, error) {
	m, err := modules.MapArg("map_keys", args[0])
	if err != nil {
		return nil, err
	}
	elems := make([]interp.Value, len(m.Entries))
	for i, e := range m.Entries {
		elems[i] = e.Key
	}
	return &interp.List{Elems: elems}, nil
}

func dict_values(args []interp.Value) (interp.Value, error) {
	m, err := modules.MapArg("map_values", args[0])
	if err != nil {
		return nil, err
	}
	elems := make([]interp.Value, len(m.Entries))
	for i, e := range m.Entries {
		elems[i] = e.Value
	}
	return &interp.List{Elems: elems}, nil
}

func dict_len(args []interp.Value) (interp.Value, error) {
	m, err := modules.MapArg("map_len", args[0])
	if err != nil {
		return nil, err
	}
	return &interp.Int{Value: int64(len(m.Entries))}, nil
}
