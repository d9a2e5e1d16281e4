package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/go-mal/mal/mal"
)

var resultColor = color.New(color.FgGreen)

// runRepl reads forms from the line editor, evaluating each as soon as its
// parentheses balance, the way leinonen-go-lisp's minimal REPL accumulates
// lines into a buffer until a complete form is ready. readline itself (a
// line-editing history collaborator, not part of the evaluator) lives only
// here in cmd/mal; mal's core package never imports it.
func runRepl(root *mal.Env) {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".mal-history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mal> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		fatal(err)
	}
	defer rl.Close()

	var buffer strings.Builder
	for {
		prompt := "mal> "
		if buffer.Len() > 0 {
			prompt = "   ... "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			fatal(err)
		}

		if buffer.Len() > 0 {
			buffer.WriteByte('\n')
		}
		buffer.WriteString(line)

		input := buffer.String()
		if strings.TrimSpace(input) == "" {
			buffer.Reset()
			continue
		}
		if !balanced(input) {
			continue
		}
		buffer.Reset()

		rep(root, input)
	}
}

func rep(root *mal.Env, input string) {
	ast, err := mal.ReadStr(input)
	if err != nil {
		if _, empty := err.(mal.EmptyProgramErr); empty {
			return
		}
		reportError(err)
		return
	}
	result, err := mal.Eval(ast, root)
	if err != nil {
		reportError(err)
		return
	}
	resultColor.Println(mal.PrStr(result, true))
}

func reportError(err error) {
	if exc, ok := err.(mal.ExceptionErr); ok {
		errColor.Printf("Error! %s\n", mal.PrStr(exc.Value(), true))
		return
	}
	errColor.Printf("Error! %s\n", err)
}

// balanced reports whether input has no unterminated string and every
// bracket opened so far has been closed, so the REPL knows to keep
// collecting lines rather than handing a partial form to the reader.
func balanced(input string) bool {
	depth := 0
	inString := false
	escaped := false
	for _, r := range input {
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
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return !inString && depth <= 0
}
