package main

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mgjm/annabella/pkg/annabella"
)

// runRepl reads one statement per line from stdin and prints the C it
// generates, reusing go-mix's readline-backed-editor-over-a-batch-loop
// shape (SPEC §10.5) rather than maintaining interpreter state between
// lines: each line is translated from a clean Context.
func runRepl() error {
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
	errColor := color.New(color.FgRed)

	rl, err := readline.New("annabella> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil // EOF or interrupt: quit quietly
		}
		if line == "" {
			continue
		}

		out, err := translateLine(line)
		if err != nil {
			errColor.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(out)
	}
}

func translateLine(line string) (string, error) {
	ts := annabella.NewTokenStream("<repl>", []byte(line))
	parser := annabella.NewParser(ts)
	nodes, err := parser.ParseProgram()
	if err != nil {
		return "", err
	}

	ctx := annabella.NewContext()
	if err := annabella.Generate(ctx, nodes); err != nil {
		return "", err
	}
	return ctx.Finalize()
}
