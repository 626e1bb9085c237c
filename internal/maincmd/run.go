package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/glox/lang/compiler"
	"github.com/mna/glox/lang/debug"
	"github.com/mna/glox/lang/vm"
	"github.com/mna/mainer"
)

// runFile reads the source file at path, compiles it, and interprets it on
// a fresh VM, translating any failure into the matching exit code.
func (c *Cmd) runFile(_ context.Context, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return exitIOErr
	}

	fn, ok := compiler.Compile(src, stdio.Stderr)
	if !ok {
		return exitDataErr
	}

	m := vm.New()
	m.Stdout = stdio.Stdout
	m.Stderr = stdio.Stderr

	if c.Trace {
		debug.Chunk(stdio.Stderr, fn.Chunk, path)
	}

	if err := m.Interpret(fn); err != nil {
		return exitSoftware
	}
	return mainer.Success
}
