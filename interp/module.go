package interp

import (
	"os"
	"path/filepath"

	"github.com/rubiojr/setsuna/ast"
	"github.com/rubiojr/setsuna/diag"
	"github.com/rubiojr/setsuna/parser"
)

// SourceExt is the Setsuna source file extension.
const SourceExt = ".stsn"

// stdlibDirs are the fixed fallback locations for module resolution, tried
// after the base path, the configured search paths, and the working
// directory.
var stdlibDirs = []string{
	"stdlib",
	"../stdlib",
	"/usr/local/share/setsuna/stdlib",
	"/usr/share/setsuna/stdlib",
}

// resolveModulePath maps a bare module name to the first existing file,
// following the resolution order. An empty result means not found.
func (in *Interp) resolveModulePath(name string) string {
	filename := name + SourceExt

	if in.basePath != "" {
		if full := filepath.Join(in.basePath, filename); fileExists(full) {
			return full
		}
	}
	for _, dir := range in.searchPaths {
		if full := filepath.Join(dir, filename); fileExists(full) {
			return full
		}
	}
	if fileExists(filename) {
		return filename
	}
	for _, dir := range stdlibDirs {
		if full := filepath.Join(dir, filename); fileExists(full) {
			return full
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadModule resolves, reads, parses and evaluates a module file, returning
// its environment. Results are cached by module name; a second import
// returns the same environment and runs no side effects. A module that is
// already loading means the import graph has a cycle.
func (in *Interp) loadModule(name string, pos diag.Pos) *Env {
	if cached, ok := in.modCache[name]; ok {
		return cached
	}
	if _, busy := in.loading[name]; busy {
		panic(diag.Runtimef(pos, "Cyclic import detected: %s", name))
	}

	path := in.resolveModulePath(name)
	if path == "" {
		panic(diag.Runtimef(pos, "Cannot find module: %s", name))
	}

	in.loading[name] = struct{}{}
	defer delete(in.loading, name)

	src, err := os.ReadFile(path)
	if err != nil {
		panic(diag.Runtimef(pos, "Cannot read module file: %s", path))
	}

	prog, err := parser.ParseSource(string(src), path)
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			panic(de)
		}
		panic(diag.Runtimef(pos, "%v", err))
	}

	// Modules evaluate in a child scope of the root environment, with the
	// base path pointing at the module file's directory for the duration.
	moduleEnv := in.root.Extend()
	savedBase := in.basePath
	in.basePath = filepath.Dir(path)
	defer func() { in.basePath = savedBase }()

	in.evalModuleProgram(prog, moduleEnv)

	in.modCache[name] = moduleEnv
	return moduleEnv
}

func (in *Interp) evalModuleProgram(prog *ast.Program, env *Env) {
	for _, decl := range prog.Decls {
		in.evalDecl(decl, env)
	}
}
