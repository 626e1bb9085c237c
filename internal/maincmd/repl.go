package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/mna/glox/lang/compiler"
	"github.com/mna/glox/lang/debug"
	"github.com/mna/glox/lang/vm"
	"github.com/mna/mainer"
)

// repl reads one line at a time from stdio.Stdin, compiling and running
// each on its own against a single VM so that globals persist across
// lines. It exits cleanly on EOF (Ctrl-D).
func (c *Cmd) repl(_ context.Context, stdio mainer.Stdio) mainer.ExitCode {
	m := vm.New()
	m.Stdout = stdio.Stdout
	m.Stderr = stdio.Stderr

	scanner := bufio.NewScanner(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case ".globals":
			fmt.Fprintln(stdio.Stdout, strings.Join(m.GlobalNames(), ", "))
			continue
		}

		fn, ok := compiler.Compile([]byte(line), stdio.Stderr)
		if !ok {
			continue
		}
		if c.Trace {
			debug.Chunk(stdio.Stderr, fn.Chunk, "repl")
		}
		// errors are already reported to stderr by Interpret; the REPL just
		// keeps going so one bad line doesn't end the session.
		_ = m.Interpret(fn)
	}
	return mainer.Success
}
