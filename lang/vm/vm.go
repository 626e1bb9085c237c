// Package vm implements the stack-based virtual machine that executes
// bytecode produced by lang/compiler: a fixed-size frame array, a single
// contiguous value stack shared by every call, and the interpreter loop
// itself.
package vm

import (
	"io"
	"os"

	"github.com/mna/glox/lang/table"
	"github.com/mna/glox/lang/value"
)

const (
	framesMax = 64
	stackMax  = framesMax * 256
)

// CallFrame tracks one in-progress call: the closure being executed (so its
// upvalues stay reachable), the instruction pointer into that closure's
// function chunk, and the absolute stack index of the frame's slot 0 (where
// the closure itself sits, with its locals following).
type CallFrame struct {
	closure *value.Closure
	ip      int
	slots   int
}

// VM is one interpreter instance: its own stack, frame array, globals, and
// string-intern table. Nothing is shared between VMs, so multiple VMs may
// coexist in a process, each with independent global state.
type VM struct {
	// Stdout receives PRINT opcode output. Defaults to os.Stdout.
	Stdout io.Writer
	// Stderr receives runtime error stack traces. Defaults to os.Stderr.
	Stderr io.Writer

	frames     [framesMax]CallFrame
	frameCount int

	stack [stackMax]value.Value
	sp    int

	globals table.Table
	strings table.Table

	// objects links every heap object this VM has allocated at runtime
	// (interned strings, closures, upvalues), mirroring the source's
	// linked-list ownership model. There is no collector: objects live until
	// the VM itself is discarded.
	objects value.Object

	// openUpvalues is the head of the list of upvalues still pointing into
	// the stack, sorted by descending slot so the first match found during a
	// linear scan is the highest (and thus nearest) one.
	openUpvalues *value.Upvalue
}

// New builds a VM with its natives registered and ready to interpret.
func New() *VM {
	vm := &VM{Stdout: os.Stdout, Stderr: os.Stderr}
	vm.defineNative("clock", 0, nativeClock)
	return vm
}

func (vm *VM) stdout() io.Writer {
	if vm.Stdout != nil {
		return vm.Stdout
	}
	return os.Stdout
}

func (vm *VM) stderr() io.Writer {
	if vm.Stderr != nil {
		return vm.Stderr
	}
	return os.Stderr
}

func (vm *VM) resetStack() {
	vm.sp = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

func (vm *VM) link(obj value.Object) {
	value.Link(&vm.objects, obj)
}

// Interpret runs fn, the top-level script Function produced by
// lang/compiler.Compile, to completion. It returns a *RuntimeError if
// execution raised one; the caller decides how that maps to a process exit
// code. Globals persist across successive calls to Interpret on the same VM,
// which is what lets a REPL keep state between lines.
func (vm *VM) Interpret(fn *value.Function) error {
	vm.resetStack()
	vm.internFunctionConstants(fn, make(map[*value.Function]bool))

	closure := &value.Closure{Fn: fn}
	vm.link(closure)
	vm.push(closure)
	if rerr := vm.call(closure, 0); rerr != nil {
		return rerr
	}

	return vm.run()
}

// internFunctionConstants walks fn's constant pool (and, recursively, every
// nested Function constant's own pool) replacing each String constant with
// the VM's canonical interned instance. The compiler only dedups
// identifier-name constants within a single chunk; interning across the whole
// program, and across runs sharing a VM, happens here instead.
func (vm *VM) internFunctionConstants(fn *value.Function, seen map[*value.Function]bool) {
	if seen[fn] {
		return
	}
	seen[fn] = true

	for i, c := range fn.Chunk.Constants {
		switch c := c.(type) {
		case *value.String:
			fn.Chunk.Constants[i] = vm.internString(c.Chars)
		case *value.Function:
			vm.internFunctionConstants(c, seen)
		}
	}
}

// internString returns the canonical *value.String for chars, allocating
// and registering one if this VM hasn't seen that content before.
func (vm *VM) internString(chars string) *value.String {
	hash := value.FNV1a32(chars)
	if s := vm.strings.FindString(chars, hash); s != nil {
		return s
	}
	s := &value.String{Chars: chars, Hash: hash}
	vm.link(s)
	vm.strings.Set(s, value.NilValue)
	return s
}

func (vm *VM) defineNative(name string, arity int, fn value.NativeFn) {
	native := &value.Native{Name: name, Arity: arity, Fn: fn}
	vm.link(native)
	// push/pop around the table insert, same reason the source does: keeps
	// the native reachable through a GC-like walk for the duration of the
	// insert, even though this VM has no collector to race with.
	vm.push(native)
	vm.globals.Set(vm.internString(name), vm.pop())
}
