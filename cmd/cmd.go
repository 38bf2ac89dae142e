// Package cmd implements the setsuna command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/setsuna/infer"
	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/parser"
	"github.com/rubiojr/setsuna/repl"
)

// Execute runs the Setsuna CLI with the given version string. Import helper
// modules via blank imports before calling this function so they register
// via init().
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "setsuna",
		Usage:                  "The Setsuna programming language",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Run the type checker before evaluating (advisory)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			switch cmd.NArg() {
			case 0:
				return runREPL(version)
			case 1:
				return runFile(cmd.Args().First(), cmd.Bool("check"))
			default:
				cli.DefaultShowRootCommandHelp(cmd)
				os.Exit(1)
				return nil
			}
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newInterp() *interp.Interp {
	in := interp.New(interp.NewGlobalEnv())
	if err := in.LoadPrelude(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load prelude: %v\n", err)
	}
	return in
}

func runREPL(version string) error {
	return repl.Run(newInterp(), version)
}

func runFile(path string, check bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not open file: %s", path)
	}

	prog, err := parser.ParseSource(string(src), path)
	if err != nil {
		return err
	}

	if check {
		// The checker is advisory: diagnostics go to stderr, evaluation
		// proceeds regardless.
		if err := infer.New().Check(prog); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	in := newInterp()
	in.SetBasePath(filepath.Dir(path))

	result, err := in.Run(prog)
	if err != nil {
		return err
	}
	if _, isUnit := result.(*interp.Unit); !isUnit {
		fmt.Println(interp.Render(result))
	}
	return nil
}
