// Package jsonmod provides the JSON helper builtins. Objects map to
// records, arrays to lists, null to unit; numbers become ints when they
// have no fractional part.
package jsonmod

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "json",
		Funcs: []modules.FuncDef{
			{Name: "json_parse", Arity: 1, Fn: json_parse},
			{Name: "json_stringify", Arity: 1, Fn: json_stringify},
		},
	})
}

func json_parse(args []interp.Value) (interp.Value, error) {
	s, err := modules.StringArg("json_parse", args[0])
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json_parse: invalid JSON: %v", err)
	}
	return fromJSON(raw), nil
}

func fromJSON(v any) interp.Value {
	switch x := v.(type) {
	case nil:
		return interp.UnitValue
	case bool:
		return interp.BoolOf(x)
	case string:
		return &interp.String{Value: x}
	case json.Number:
		if n, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return &interp.Int{Value: n}
		}
		f, _ := x.Float64()
		return &interp.Float{Value: f}
	case []any:
		elems := make([]interp.Value, len(x))
		for i, e := range x {
			elems[i] = fromJSON(e)
		}
		return &interp.List{Elems: elems}
	case map[string]any:
		rec := interp.NewRecord()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rec.Set(k, fromJSON(x[k]))
		}
		return rec
	}
	return interp.UnitValue
}

func json_stringify(args []interp.Value) (interp.Value, error) {
	raw, err := toJSON(interp.Force(args[0]))
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("json_stringify: %v", err)
	}
	return &interp.String{Value: string(b)}, nil
}

func toJSON(v interp.Value) (any, error) {
	switch x := interp.Force(v).(type) {
	case *interp.Unit:
		return nil, nil
	case *interp.Bool:
		return x.Value, nil
	case *interp.Int:
		return x.Value, nil
	case *interp.Float:
		return x.Value, nil
	case *interp.String:
		return x.Value, nil
	case *interp.List:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			conv, err := toJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case *interp.Tuple:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			conv, err := toJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case *interp.Record:
		out := map[string]any{}
		for _, name := range x.Names() {
			fv, _ := x.Get(name)
			conv, err := toJSON(fv)
			if err != nil {
				return nil, err
			}
			out[name] = conv
		}
		return out, nil
	case *interp.Map:
		out := map[string]any{}
		for _, e := range x.Entries {
			key, ok := interp.Force(e.Key).(*interp.String)
			if !ok {
				return nil, fmt.Errorf("json_stringify: map keys must be strings")
			}
			conv, err := toJSON(e.Value)
			if err != nil {
				return nil, err
			}
			out[key.Value] = conv
		}
		return out, nil
	}
	return nil, fmt.Errorf("json_stringify: cannot serialize %s", interp.Force(v).Kind())
}
