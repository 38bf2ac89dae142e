// Package mathmod provides the numeric helper builtins.
package mathmod

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "math",
		Funcs: []modules.FuncDef{
			{Name: "abs", Arity: 1, Fn: math_abs},
			{Name: "floor", Arity: 1, Fn: toInt("floor", math.Floor)},
			{Name: "ceil", Arity: 1, Fn: toInt("ceil", math.Ceil)},
			{Name: "round", Arity: 1, Fn: toInt("round", math.Round)},
			{Name: "sqrt", Arity: 1, Fn: toFloat("sqrt", math.Sqrt)},
			{Name: "pow", Arity: 2, Fn: math_pow},
			{Name: "min", Arity: 2, Fn: math_min},
			{Name: "max", Arity: 2, Fn: math_max},
			{Name: "sin", Arity: 1, Fn: toFloat("sin", math.Sin)},
			{Name: "cos", Arity: 1, Fn: toFloat("cos", math.Cos)},
			{Name: "tan", Arity: 1, Fn: toFloat("tan", math.Tan)},
			{Name: "asin", Arity: 1, Fn: toFloat("asin", math.Asin)},
			{Name: "acos", Arity: 1, Fn: toFloat("acos", math.Acos)},
			{Name: "atan", Arity: 1, Fn: toFloat("atan", math.Atan)},
			{Name: "atan2", Arity: 2, Fn: math_atan2},
			{Name: "log", Arity: 1, Fn: toFloat("log", math.Log)},
			{Name: "log10", Arity: 1, Fn: toFloat("log10", math.Log10)},
			{Name: "exp", Arity: 1, Fn: toFloat("exp", math.Exp)},
			{Name: "random", Arity: 0, Fn: math_random},
			{Name: "random_int", Arity: 2, Fn: math_random_int},
		},
		Consts: map[string]interp.Value{
			"pi": &interp.Float{Value: math.Pi},
			"e":  &interp.Float{Value: math.E},
		},
	})
}

func math_abs(args []interp.Value) (interp.Value, error) {
	switch v := interp.Force(args[0]).(type) {
	case *interp.Int:
		if v.Value < 0 {
			return &interp.Int{Value: -v.Value}, nil
		}
		return v, nil
	case *interp.Float:
		return &interp.Float{Value: math.Abs(v.Value)}, nil
	}
	return nil, fmt.Errorf("abs: expected number")
}

func toInt(name string, fn func(float64) float64) interp.BuiltinFunc {
	return func(args []interp.Value) (interp.Value, error) {
		n, err := modules.NumberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return &interp.Int{Value: int64(fn(n))}, nil
	}
}

func toFloat(name string, fn func(float64) float64) interp.BuiltinFunc {
	return func(args []interp.Value) (interp.Value, error) {
		n, err := modules.NumberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return &interp.Float{Value: fn(n)}, nil
	}
}

func math_pow(args []interp.Value) (interp.Value, error) {
	base, err := modules.NumberArg("pow", args[0])
	if err != nil {
		return nil, err
	}
	exp, err := modules.NumberArg("pow", args[1])
	if err != nil {
		return nil, err
	}
	return &interp.Float{Value: math.Pow(base, exp)}, nil
}

func math_atan2(args []interp.Value) (interp.Value, error) {
	y, err := modules.NumberArg("atan2", args[0])
	if err != nil {
		return nil, err
	}
	x, err := modules.NumberArg("atan2", args[1])
	if err != nil {
		return nil, err
	}
	return &interp.Float{Value: math.Atan2(y, x)}, nil
}

// min and max stay in the int domain when both arguments are ints.
func math_min(args []interp.Value) (interp.Value, error) {
	return pick("min", args, func(a, b float64) bool { return a <= b })
}

func math_max(args []interp.Value) (interp.Value, error) {
	return pick("max", args, func(a, b float64) bool { return a >= b })
}

func pick(name string, args []interp.Value, wins func(a, b float64) bool) (interp.Value, error) {
	a, b := interp.Force(args[0]), interp.Force(args[1])
	an, err := modules.NumberArg(name, a)
	if err != nil {
		return nil, err
	}
	bn, err := modules.NumberArg(name, b)
	if err != nil {
		return nil, err
	}
	ai, aInt := a.(*interp.Int)
	bi, bInt := b.(*interp.Int)
	if aInt && bInt {
		if wins(float64(ai.Value), float64(bi.Value)) {
			return ai, nil
		}
		return bi, nil
	}
	if wins(an, bn) {
		return &interp.Float{Value: an}, nil
	}
	return &interp.Float{Value: bn}, nil
}

func math_random(args []interp.Value) (interp.Value, error) {
	return &interp.Float{Value: rand.Float64()}, nil
}

// math_random_int returns a random integer in the inclusive range [min, max].
func math_random_int(args []interp.Value) (interp.Value, error) {
	lo, err := modules.IntArg("random_int", args[0])
	if err != nil {
		return nil, err
	}
	hi, err := modules.IntArg("random_int", args[1])
	if err != nil {
		return nil, err
	}
	if hi < lo {
		return nil, fmt.Errorf("random_int: max < min")
	}
	return &interp.Int{Value: lo + rand.Int64N(hi-lo+1)}, nil
}
