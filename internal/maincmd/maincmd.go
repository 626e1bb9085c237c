// Package maincmd implements the glox command-line driver: no arguments
// starts a REPL, one argument runs the source file at that path, and the
// process exit code follows the interpreter's convention: 0 on success, 65
// on a compile error, 70 on a runtime error, 74 on an I/O error.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "glox"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<path>]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and virtual machine for the %[1]s programming language.

With no <path>, starts an interactive REPL: each line is compiled and run
on its own, with global variables persisting across lines. With <path>,
reads and runs that source file.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --trace                   Print a bytecode disassembly of every
                                 compiled chunk to stderr before running
                                 it. Can also be set via GLOX_TRACE.
`, binName)
)

// Exit codes follow the convention used throughout: compile errors, runtime
// errors, and I/O failures each get their own code instead of collapsing
// into a single generic failure.
const (
	exitDataErr  mainer.ExitCode = 65
	exitSoftware mainer.ExitCode = 70
	exitIOErr    mainer.ExitCode = 74
)

// Cmd is the glox process entry point. Its exported fields are populated by
// mainer.Parser from flags and environment variables.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	Trace   bool `flag:"trace" env:"TRACE"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return errors.New("at most one source file path may be given")
	}
	return nil
}

// Main parses args and dispatches to the REPL or to running a single source
// file, returning the process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if len(c.args) == 0 {
		return c.repl(ctx, stdio)
	}
	return c.runFile(ctx, stdio, c.args[0])
}
