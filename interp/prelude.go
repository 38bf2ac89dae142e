package interp

import (
	"os"

	"github.com/rubiojr/setsuna/diag"
	"github.com/rubiojr/setsuna/parser"
)

// preludePaths are the locations searched for the standard prelude, in
// order. Relative paths cover development layouts; the rest are install
// locations.
var preludePaths = []string{
	"stdlib/prelude.stsn",
	"../stdlib/prelude.stsn",
	"../../stdlib/prelude.stsn",
	"/usr/local/share/setsuna/prelude.stsn",
	"/usr/share/setsuna/prelude.stsn",
}

// FindPrelude returns the first existing prelude path, or "".
func FindPrelude() string {
	for _, path := range preludePaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// LoadPrelude executes the prelude file in the global environment. A
// missing prelude is not an error; a broken one is reported so the embedder
// can warn and continue.
func (in *Interp) LoadPrelude() (err error) {
	path := FindPrelude()
	if path == "" {
		return nil
	}
	src, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil
	}
	prog, parseErr := parser.ParseSource(string(src), path)
	if parseErr != nil {
		return parseErr
	}

	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(*diag.Error)
			if !ok {
				panic(r)
			}
			err = de
		}
	}()
	in.evalModuleProgram(prog, in.root)
	return nil
}
