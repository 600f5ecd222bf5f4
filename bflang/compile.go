package bflang

import (
	"fmt"
	"io"

	"github.com/reusee/bf/bfvm"
)

// Compile reads a program and lowers it to IR. The result passes
// Verify; optimization is a separate step.
func Compile(name string, r io.Reader) (*bfvm.Program, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return CompileString(name, string(content))
}

func CompileString(name string, content string) (*bfvm.Program, error) {
	src := NewSource(name, content)
	tokens := Filter(src)
	c := newCompiler(name)
	if err := c.lower(tokens); err != nil {
		return nil, err
	}
	prog := c.toProgram()
	if err := prog.Verify(); err != nil {
		return nil, err
	}
	return prog, nil
}
