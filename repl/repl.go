// Package repl implements the interactive prompt.
//
// Lines accumulate until braces, brackets and parens balance, then the
// buffer is parsed and evaluated in the session's persistent environment.
// When stdin is a terminal the prompt uses liner for editing and history;
// otherwise it falls back to a plain scanner so piped input works.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/rubiojr/setsuna/interp"
	"github.com/rubiojr/setsuna/parser"
)

const (
	promptMain  = ">> "
	promptCont  = ".. "
	historyName = ".setsuna_history"
)

// Run drives the prompt loop until EOF or "exit". The interpreter keeps its
// environment across inputs, so definitions persist.
func Run(in *interp.Interp, version string) error {
	fmt.Printf("Setsuna %s - Functional Programming Language\n", version)
	fmt.Println("Type expressions to evaluate. Type 'exit' or Ctrl+D to quit.")
	fmt.Println()

	var reader lineReader
	if term.IsTerminal(int(os.Stdin.Fd())) {
		ln := newLinerReader()
		defer ln.close()
		reader = ln
	} else {
		reader = &scannerReader{scanner: bufio.NewScanner(os.Stdin)}
	}

	var buffer strings.Builder
	braces, brackets, parens := 0, 0, 0

	for {
		prompt := promptMain
		if buffer.Len() > 0 {
			prompt = promptCont
		}

		line, err := reader.readLine(prompt)
		if err != nil {
			fmt.Println("\nGoodbye!")
			return nil
		}

		if buffer.Len() == 0 && strings.TrimSpace(line) == "exit" {
			fmt.Println("Goodbye!")
			return nil
		}

		countDelims(line, &braces, &brackets, &parens)
		buffer.WriteString(line)
		buffer.WriteString("\n")

		if braces > 0 || brackets > 0 || parens > 0 {
			continue
		}
		braces, brackets, parens = 0, 0, 0

		src := buffer.String()
		buffer.Reset()
		if strings.TrimSpace(src) == "" {
			continue
		}
		reader.appendHistory(strings.TrimSuffix(src, "\n"))

		prog, err := parser.ParseSource(src, "<repl>")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		result, err := in.Run(prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if _, isUnit := result.(*interp.Unit); !isUnit {
			fmt.Println("=> " + interp.Render(result))
		}
	}
}

// countDelims updates the open-delimiter counters for one input line. The
// count is purely textual; delimiters inside string literals count too.
func countDelims(line string, braces, brackets, parens *int) {
	for _, c := range line {
		switch c {
		case '{':
			*braces++
		case '}':
			*braces--
		case '[':
			*brackets++
		case ']':
			*brackets--
		case '(':
			*parens++
		case ')':
			*parens--
		}
	}
	if *braces < 0 {
		*braces = 0
	}
	if *brackets < 0 {
		*brackets = 0
	}
	if *parens < 0 {
		*parens = 0
	}
}

type lineReader interface {
	readLine(prompt string) (string, error)
	appendHistory(entry string)
}

type scannerReader struct {
	scanner *bufio.Scanner
}

func (r *scannerReader) readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *scannerReader) appendHistory(string) {}

type linerReader struct {
	state       *liner.State
	historyPath string
}

func newLinerReader() *linerReader {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	r := &linerReader{state: ln}
	if home, err := os.UserHomeDir(); err == nil {
		r.historyPath = filepath.Join(home, historyName)
		if f, err := os.Open(r.historyPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

func (r *linerReader) readLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", nil
	}
	return line, err
}

func (r *linerReader) appendHistory(entry string) {
	// Multi-line inputs collapse to one history entry.
	r.state.AppendHistory(strings.ReplaceAll(entry, "\n", " "))
}

func (r *linerReader) close() {
	if r.historyPath != "" {
		if f, err := os.Create(r.historyPath); err == nil {
			r.state.WriteHistory(f)
			f.Close()
		}
	}
	r.state.Close()
}
