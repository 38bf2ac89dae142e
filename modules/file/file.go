// Package filemod provides the filesystem helper builtins.
package filemod

import (
	"fmt"
	"os"
	"strings"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "file",
		Funcs: []modules.FuncDef{
			{Name: "file_read", Arity: 1, Fn: file_read},
			{Name: "file_write", Arity: 2, Fn: file_write},
			{Name: "file_append", Arity: 2, Fn: file_append},
			{Name: "file_exists", Arity: 1, Fn: file_exists},
			{Name: "file_delete", Arity: 1, Fn: file_delete},
			{Name: "file_lines", Arity: 1, Fn: file_lines},
			{Name: "dir_list", Arity: 1, Fn: dir_list},
			{Name: "dir_exists", Arity: 1, Fn: dir_exists},
		},
	})
}

func file_read(args []interp.Value) (interp.Value, error) {
	path, err := modules.StringArg("file_read", args[0])
	if err != nil {
		return nil, fmt.Errorf("file_read: expected string path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("file_read: could not open file: %s", path)
	}
	return &interp.String{Value: string(data)}, nil
}

func file_write(args []interp.Value) (interp.Value, error) {
	path, err := modules.StringArg("file_write", args[0])
	if err != nil {
		return nil, fmt.Errorf("file_write: expected string path")
	}
	content, err := modules.StringArg("file_write", args[1])
	if err != nil {
		return nil, fmt.Errorf("file_write: expected string content")
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("file_write: could not open file for writing: %s", path)
	}
	return interp.UnitValue, nil
}

func file_append(args []interp.Value) (interp.Value, error) {
	path, err := modules.StringArg("file_append", args[0])
	if err != nil {
		return nil, fmt.Errorf("file_append: expected string path")
	}
	content, err := modules.StringArg("file_append", args[1])
	if err != nil {
		return nil, fmt.Errorf("file_append: expected string content")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file_append: could not open file for appending: %s", path)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return nil, fmt.Errorf("file_append: %v", err)
	}
	return interp.UnitValue, nil
}

func file_exists(args []interp.Value) (interp.Value, error) {
	path, err := modules.StringArg("file_exists", args[0])
	if err != nil {
		return nil, fmt.Errorf("file_exists: expected string path")
	}
	_, statErr := os.Stat(path)
	return interp.BoolOf(statErr == nil), nil
}

func file_delete(args []interp.Value) (interp.Value, error) {
	path, err := modules.StringArg("file_delete", args[0])
	if err != nil {
		return nil, fmt.Errorf("file_delete: expected string path")
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return interp.False, nil
		}
		return nil, fmt.Errorf("file_delete: %v", err)
	}
	return interp.True, nil
}

func file_lines(args []interp.Value) (interp.Value, error) {
	path, err := modules.StringArg("file_lines", args[0])
	if err != nil {
		return nil, fmt.Errorf("file_lines: expected string path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("file_lines: could not open file: %s", path)
	}
	text := strings.TrimSuffix(string(data), "\n")
	var elems []interp.Value
	if text != "" || len(data) > 0 {
		for _, line := range strings.Split(text, "\n") {
			elems = append(elems, &interp.String{Value: strings.TrimSuffix(line, "\r")})
		}
	}
	return &interp.List{Elems: elems}, nil
}

func dir_list(args []interp.Value) (interp.Value, error) {
	path, err := modules.StringArg("dir_list", args[0])
	if err != nil {
		return nil, fmt.Errorf("dir_list: expected string path")
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("dir_list: %v", err)
	}
	elems := make([]interp.Value, len(entries))
	for i, e := range entries {
		elems[i] = &interp.String{Value: e.Name()}
	}
	return &interp.List{Elems: elems}, nil
}

func dir_exists(args []interp.Value) (interp.Value, error) {
	path, err := modules.StringArg("dir_exists", args[0])
	if err != nil {
		return nil, fmt.Errorf("dir_exists: expected string path")
	}
	info, statErr := os.Stat(path)
	return interp.BoolOf(statErr == nil && info.IsDir()), nil
}
