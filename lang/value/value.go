// Package value implements the tagged-union value model and the heap object
// model, plus the Chunk that a compiled Function owns. The two live in one
// package because a Function value embeds a Chunk, and a Chunk's constant
// pool holds Values: splitting them across packages would just relocate the
// import cycle, not remove it.
package value

import (
	"strconv"
)

// Value is the interface implemented by every value the VM manipulates: Nil,
// Bool, Number, and every heap Object variant.
type Value interface {
	// String returns the value's print representation, as used by the PRINT
	// opcode and by error messages.
	String() string
	// Type returns a short name for the value's type, used in runtime error
	// messages ("Operands must be numbers.", etc. already name the type, but
	// Type is handy for %s-formatted diagnostics).
	Type() string
}

// Nil is the type of the nil value. There is exactly one Nil value.
type Nil struct{}

// NilValue is the sole Nil value.
var NilValue = Nil{}

func (Nil) String() string { return "nil" }
func (Nil) Type() string   { return "nil" }

// Bool is a boolean value.
type Bool bool

// True and False are the two Bool values.
const (
	True  = Bool(true)
	False = Bool(false)
)

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

// Number is a double-precision floating point value.
type Number float64

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}
func (Number) Type() string { return "number" }

// Truthy reports the truthiness of v: Nil and Bool(false) are
// falsy, everything else (including 0 and "") is truthy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// Equal implements structural equality across all value kinds: Nil=Nil,
// Bool/Number compare by content, Object compares by reference identity
// (which, since all Strings are interned, makes two equal strings compare
// equal too).
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case Number:
		bn, ok := b.(Number)
		return ok && a == bn
	case Object:
		bo, ok := b.(Object)
		return ok && a == bo
	default:
		return false
	}
}

// Object is any heap-allocated value: String, Function, Native, Closure, or
// Upvalue. Every object kind embeds Header, which links it into the VM's
// list of live objects so the VM can walk and release them at shutdown.
type Object interface {
	Value
	header() *Header
}

// Header is embedded by every Object implementation. Next links to the
// previously-allocated object, forming the VM's intrusive free list; a VM
// being torn down walks from its head and never has to trace references.
type Header struct {
	Next Object
}

func (h *Header) header() *Header { return h }

// Link prepends obj to the list whose current head is *head, returning the
// new head. Used by the VM every time it allocates a new heap object.
func Link(head *Object, obj Object) {
	obj.header().Next = *head
	*head = obj
}

var (
	_ Value = Nil{}
	_ Value = Bool(false)
	_ Value = Number(0)
)
