package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mgjm/annabella/pkg/annabella"
)

func main() {
	build := flag.Bool("build", false, "compile the emitted C and link it against the embedded runtime")
	out := flag.String("o", "a.out", "output executable path (only with -build)")
	targetFile := flag.String("target", "", "YAML file describing the cross-compilation target (only with -build)")
	flag.Parse()

	if flag.NArg() == 1 && flag.Arg(0) == "repl" {
		if err := runRepl(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: annabella [-build] [-o path] [-target file.yaml] <source-file>")
		fmt.Fprintln(os.Stderr, "       annabella repl")
		os.Exit(1)
	}
	source := flag.Arg(0)

	c := annabella.NewCompiler()
	if *targetFile != "" {
		t, err := readTarget(*targetFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		c.Target = t
	}

	translated, err := c.Translate(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !*build {
		fmt.Println(translated)
		return
	}

	if err := c.Build(translated, *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readTarget(path string) (annabella.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return annabella.Target{}, err
	}
	var t annabella.Target
	if err := yaml.Unmarshal(data, &t); err != nil {
		return annabella.Target{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
