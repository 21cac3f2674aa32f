package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	sable "go.sable.dev/pkg"
)

const (
	appName     = "sable"
	historyFile = ".sable_history"
	promptMain  = ">> "
	promptCont  = ".. "
	banner      = "Sable REPL. Ctrl+C cancels input, Ctrl+D exits."
)

func main() {
	args := os.Args[1:]

	switch {
	case len(args) > 1:
		fmt.Fprintf(os.Stderr, "usage: %s [file]\n", appName)
		os.Exit(2)
	case len(args) == 1:
		os.Exit(runFile(args[0]))
	default:
		os.Exit(runREPL())
	}
}

func runFile(path string) int {
	interp := sable.NewInterpreter()
	if err := interp.Run(path); err != nil {
		printError(err)
		return 1
	}

	return 0
}

// printError renders a diagnostic, colored red when stderr is a terminal.
func printError(err error) {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s: %v\x1b[0m\n", appName, err)
		return
	}

	fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
}

// session holds the declarations entered so far. Each submission is wrapped
// into an ephemeral module and run whole, so earlier function and struct
// declarations stay visible to later statements.
type session struct {
	imports []string
	decls   []string
}

// wrap builds a complete module around the given statements.
func (s *session) wrap(stmts string) string {
	var b strings.Builder
	b.WriteString("module repl;\n")

	for _, imp := range s.imports {
		b.WriteString(imp)
		b.WriteString("\n")
	}

	for _, d := range s.decls {
		b.WriteString(d)
		b.WriteString("\n")
	}

	b.WriteString("func main() {\n")
	b.WriteString(stmts)
	b.WriteString("\n}\n")
	return b.String()
}

func runREPL() int {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	if !interactive {
		// Piped input runs as a plain script
		interp := sable.NewInterpreter()
		if err := interp.RunFromReader(os.Stdin); err != nil {
			printError(err)
			return 1
		}

		return 0
	}

	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	sess := &session{imports: []string{`import "io" as io;`}}

	for {
		input, ok := readBalanced(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}

		submit(sess, input)
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}

	return 0
}

// submit runs one REPL entry. Declarations persist into the session when they
// pass the checker; statements run inside an ephemeral main.
func submit(sess *session, input string) {
	trimmed := strings.TrimSpace(input)

	switch {
	case strings.HasPrefix(trimmed, "import "):
		sess.imports = append(sess.imports, trimmed)
		if err := probe(sess); err != nil {
			sess.imports = sess.imports[:len(sess.imports)-1]
			printError(err)
		}
	case isDecl(trimmed):
		sess.decls = append(sess.decls, trimmed)
		if err := probe(sess); err != nil {
			sess.decls = sess.decls[:len(sess.decls)-1]
			printError(err)
		}
	default:
		interp := sable.NewInterpreter()
		if err := interp.RunFromReader(strings.NewReader(sess.wrap(input))); err != nil {
			printError(err)
		}
	}
}

func isDecl(s string) bool {
	for _, kw := range []string{"func ", "struct ", "extend ", "pub "} {
		if strings.HasPrefix(s, kw) {
			return true
		}
	}

	return false
}

// probe type-checks the session without running it, so a bad declaration is
// rejected before it poisons later submissions.
func probe(sess *session) error {
	interp := sable.NewInterpreter()
	return interp.CheckFromReader(strings.NewReader(sess.wrap("")))
}

// readBalanced accumulates lines until every brace and parenthesis opened
// outside a string literal is closed again.
func readBalanced(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}

		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}

		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(line)

		if braceDepth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

func braceDepth(src string) int {
	depth := 0
	inString := false
	escaped := false

	for _, r := range src {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}

			continue
		}

		switch r {
		case '"':
			inString = true
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		}
	}

	return depth
}
