package main

import (
	"github.com/rubiojr/setsuna/cmd"
	_ "github.com/rubiojr/setsuna/modules/core"
	_ "github.com/rubiojr/setsuna/modules/dict"
	_ "github.com/rubiojr/setsuna/modules/file"
	_ "github.com/rubiojr/setsuna/modules/http"
	_ "github.com/rubiojr/setsuna/modules/json"
	_ "github.com/rubiojr/setsuna/modules/list"
	_ "github.com/rubiojr/setsuna/modules/math"
	_ "github.com/rubiojr/setsuna/modules/sqlite"
	_ "github.com/rubiojr/setsuna/modules/str"
)

var version = "v0.1.0"

func main() {
	cmd.Execute(version)
}
