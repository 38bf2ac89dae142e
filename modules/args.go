package modules

import (
	"fmt"

	"github.com/rubiojr/setsuna/interp"
)

// Argument accessors shared by the helper modules. Each forces its value and
// reports a uniform error when the kind does not match.

// StringArg forces v and requires a string.
func StringArg(fname string, v interp.Value) (string, error) {
	s, ok := interp.Force(v).(*interp.String)
	if !ok {
		return "", fmt.Errorf("%s: expected string", fname)
	}
	return s.Value, nil
}

// IntArg forces v and requires an int.
func IntArg(fname string, v interp.Value) (int64, error) {
	n, ok := interp.Force(v).(*interp.Int)
	if !ok {
		return 0, fmt.Errorf("%s: expected int", fname)
	}
	return n.Value, nil
}

// NumberArg forces v and requires an int or float, widened to float64.
func NumberArg(fname string, v interp.Value) (float64, error) {
	n, ok := interp.AsNumber(interp.Force(v))
	if !ok {
		return 0, fmt.Errorf("%s: expected number", fname)
	}
	return n, nil
}

// BoolArg forces v and requires a bool.
func BoolArg(fname string, v interp.Value) (bool, error) {
	b, ok := interp.Force(v).(*interp.Bool)
	if !ok {
		return false, fmt.Errorf("%s: expected bool", fname)
	}
	return b.Value, nil
}

// ListArg forces v and requires a list.
func ListArg(fname string, v interp.Value) (*interp.List, error) {
	l, ok := interp.Force(v).(*interp.List)
	if !ok {
		return nil, fmt.Errorf("%s: expected list", fname)
	}
	return l, nil
}

// MapArg forces v and requires a map.
func MapArg(fname string, v interp.Value) (*interp.Map, error) {
	m, ok := interp.Force(v).(*interp.Map)
	if !ok {
		return nil, fmt.Errorf("%s: expected map", fname)
	}
	return m, nil
}
