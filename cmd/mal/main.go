// Command mal runs a session of the interpreter: a file passed on the
// command line is loaded and executed, otherwise a line-editing REPL
// starts.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/go-mal/mal/mal"
)

// cli is the top-level command line, parsed by kong the way
// ardnew-aenv/cli/cli.go parses its own top-level struct.
type cli struct {
	Script string   `arg:"" optional:"" help:"Script file to run instead of starting the REPL" type:"existingfile"`
	Args   []string `arg:"" optional:"" help:"Arguments bound to *ARGV* inside the script"`
}

var errColor = color.New(color.FgRed, color.Bold)

func main() {
	var c cli
	kong.Parse(&c,
		kong.Name("mal"),
		kong.Description("A tree-walking interpreter for a small homoiconic Lisp."),
		kong.UsageOnError(),
	)

	root, err := mal.NewRootEnv(mal.Eval)
	if err != nil {
		fatal(err)
	}

	argv := make([]mal.Value, len(c.Args))
	for i, a := range c.Args {
		argv[i] = mal.String(a)
	}
	root.Set("*ARGV*", mal.NewList(argv...))

	if c.Script != "" {
		runScript(root, c.Script)
		return
	}
	runRepl(root)
}

func runScript(root *mal.Env, path string) {
	ast := mal.NewList(mal.Symbol("load-file"), mal.String(path))
	if _, err := mal.Eval(ast, root); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	errColor.Fprintf(os.Stderr, "Error! %s\n", err)
	os.Exit(1)
}
