// Package sqlitemod provides SQLite helper builtins backed by
// modernc.org/sqlite. Connections are integer handles; query results are
// lists of records keyed by column name.
package sqlitemod

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "sqlite",
		Funcs: []modules.FuncDef{
			{Name: "sql_open", Arity: 1, Fn: sql_open},
			{Name: "sql_exec", Arity: 2, Fn: sql_exec},
			{Name: "sql_query", Arity: 2, Fn: sql_query},
			{Name: "sql_close", Arity: 1, Fn: sql_close},
		},
	})
}

// The interpreter is single-threaded, so a plain table of open connections
// is enough.
var (
	conns  = map[int64]*sql.DB{}
	nextID int64
)

func conn(fname string, v interp.Value) (*sql.DB, error) {
	id, err := modules.IntArg(fname, v)
	if err != nil {
		return nil, fmt.Errorf("%s: expected connection handle", fname)
	}
	db, ok := conns[id]
	if !ok {
		return nil, fmt.Errorf("%s: invalid connection handle %d", fname, id)
	}
	return db, nil
}

func sql_open(args []interp.Value) (interp.Value, error) {
	path, err := modules.StringArg("sql_open", args[0])
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql_open: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sql_open: %v", err)
	}
	nextID++
	conns[nextID] = db
	return &interp.Int{Value: nextID}, nil
}

func sql_exec(args []interp.Value) (interp.Value, error) {
	db, err := conn("sql_exec", args[0])
	if err != nil {
		return nil, err
	}
	query, err := modules.StringArg("sql_exec", args[1])
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(query)
	if err != nil {
		return nil, fmt.Errorf("sql_exec: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return &interp.Int{Value: affected}, nil
}

func sql_query(args []interp.Value) (interp.Value, error) {
	db, err := conn("sql_query", args[0])
	if err != nil {
		return nil, err
	}
	query, err := modules.StringArg("sql_query", args[1])
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("sql_query: %v", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sql_query: %v", err)
	}

	var out []interp.Value
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sql_query: %v", err)
		}
		rec := interp.NewRecord()
		for i, col := range cols {
			rec.Set(col, sqlValue(raw[i]))
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sql_query: %v", err)
	}
	return &interp.List{Elems: out}, nil
}

func sqlValue(v any) interp.Value {
	switch x := v.(type) {
	case nil:
		return interp.UnitValue
	case int64:
		return &interp.Int{Value: x}
	case float64:
		return &interp.Float{Value: x}
	case bool:
		return interp.BoolOf(x)
	case []byte:
		return &interp.String{Value: string(x)}
	case string:
		return &interp.String{Value: x}
	}
	return &interp.String{Value: fmt.Sprintf("%v", v)}
}

func sql_close(args []interp.Value) (interp.Value, error) {
	id, err := modules.IntArg("sql_close", args[0])
	if err != nil {
		return nil, fmt.Errorf("sql_close: expected connection handle")
	}
	db, ok := conns[id]
	if !ok {
		return nil, fmt.Errorf("sql_close: invalid connection handle %d", id)
	}
	delete(conns, id)
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("sql_close: %v", err)
	}
	return interp.UnitValue, nil
}
