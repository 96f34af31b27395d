package annabella

import (
	"fmt"
	"os"
)

// Target describes the triple the optional -build path cross-compiles
// for (SPEC §10.3, §10.6). It carries no meaning for plain translation to
// C, which needs no configuration beyond the source file's path.
type Target struct {
	Arch   string `yaml:"arch"`
	Vendor string `yaml:"vendor"`
	OS     string `yaml:"os"`
}

func (t Target) String() string {
	return fmt.Sprintf("%s-%s-%s", t.Arch, t.Vendor, t.OS)
}

// Compiler orchestrates translation, and optionally the -build path's
// native compile (SPEC §10.3). Target is only consulted by Build.
type Compiler struct {
	Target Target
}

// NewCompiler returns a Compiler for the host triple.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Translate reads filename, runs it through the lexer and parser, walks
// the resulting statement list with the generator, and returns the
// finalized C translation unit (SPEC §4.6).
func (c *Compiler) Translate(filename string) (string, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}

	ts := NewTokenStream(filename, src)
	parser := NewParser(ts)
	nodes, err := parser.ParseProgram()
	if err != nil {
		return "", err
	}

	ctx := NewContext()
	if err := Generate(ctx, nodes); err != nil {
		return "", err
	}
	return ctx.Finalize()
}
