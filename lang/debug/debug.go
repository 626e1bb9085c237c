// Package debug implements the bytecode disassembler: optional tracing
// output that turns a compiled Chunk back into readable opcode/operand
// text. It is never consulted by the compiler or the VM's normal dispatch
// loop; it exists purely so a human (or the --trace CLI flag) can see what
// was emitted.
package debug

import (
	"fmt"
	"io"

	"github.com/mna/glox/lang/value"
)

// Chunk writes every instruction in chunk to w, each preceded by its byte
// offset and source line (a "|" when the line repeats the previous
// instruction's), under an "== name ==" header. It then disassembles the
// chunk of every Function in chunk's constant pool the same way, under that
// function's own header, so nested function bodies are listed too.
func Chunk(w io.Writer, chunk *value.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = Instruction(w, chunk, offset)
	}
	for _, c := range chunk.Constants {
		if fn, ok := c.(*value.Function); ok {
			Chunk(w, fn.Chunk, fn.String())
		}
	}
}

// Instruction writes the single instruction at offset to w and returns the
// offset of the instruction that follows it.
func Instruction(w io.Writer, chunk *value.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)

	line := chunk.GetLine(offset)
	if offset > 0 && line == chunk.GetLine(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", line)
	}

	op := value.OpCode(chunk.Code[offset])
	switch op {
	case value.OpConstant, value.OpDefineGlobal, value.OpGetGlobal, value.OpSetGlobal:
		return constantInstruction(w, op, chunk, offset)
	case value.OpConstantLong, value.OpDefineGlobalLong, value.OpGetGlobalLong, value.OpSetGlobalLong:
		return longConstantInstruction(w, op, chunk, offset)

	case value.OpGetLocal, value.OpSetLocal, value.OpGetUpvalue, value.OpSetUpvalue:
		return oneByteInstruction(w, op, chunk, offset)
	case value.OpGetLocalLong, value.OpSetLocalLong, value.OpGetUpvalueLong, value.OpSetUpvalueLong:
		return twoByteInstruction(w, op, chunk, offset)

	case value.OpPopN, value.OpCall:
		return oneByteInstruction(w, op, chunk, offset)

	case value.OpJump, value.OpJumpIfTrue, value.OpJumpIfFalse:
		return jumpInstruction(w, op, chunk, offset, 1)
	case value.OpLoop:
		return jumpInstruction(w, op, chunk, offset, -1)

	case value.OpClosure, value.OpClosureLong:
		return closureInstruction(w, op, chunk, offset)

	default:
		return simpleInstruction(w, op, offset)
	}
}

func simpleInstruction(w io.Writer, op value.OpCode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func oneByteInstruction(w io.Writer, op value.OpCode, chunk *value.Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-18s %4d\n", op, slot)
	return offset + 2
}

func twoByteInstruction(w io.Writer, op value.OpCode, chunk *value.Chunk, offset int) int {
	slot := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	fmt.Fprintf(w, "%-18s %4d\n", op, slot)
	return offset + 3
}

func constantInstruction(w io.Writer, op value.OpCode, chunk *value.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-18s %4d '%s'\n", op, idx, chunk.Constants[idx])
	return offset + 2
}

func longConstantInstruction(w io.Writer, op value.OpCode, chunk *value.Chunk, offset int) int {
	idx := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	fmt.Fprintf(w, "%-18s %4d '%s'\n", op, idx, chunk.Constants[idx])
	return offset + 3
}

func jumpInstruction(w io.Writer, op value.OpCode, chunk *value.Chunk, offset int, sign int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	fmt.Fprintf(w, "%-18s %4d -> %d\n", op, offset, offset+3+sign*jump)
	return offset + 3
}

// closureInstruction prints the CLOSURE/CLOSURE_LONG instruction itself,
// then one indented line per upvalue descriptor it carries — those
// descriptors aren't a separate opcode, so Chunk can't just
// walk past them without this knowing their shape too.
func closureInstruction(w io.Writer, op value.OpCode, chunk *value.Chunk, offset int) int {
	next := offset
	var idx int
	if op == value.OpClosure {
		idx = int(chunk.Code[next+1])
		next += 2
	} else {
		idx = int(chunk.Code[next+1])<<8 | int(chunk.Code[next+2])
		next += 3
	}
	fn := chunk.Constants[idx].(*value.Function)
	fmt.Fprintf(w, "%-18s %4d '%s'\n", op, idx, fn)

	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[next]
		upIdx := int(chunk.Code[next+1])<<8 | int(chunk.Code[next+2])
		next += 3
		kind := "upvalue"
		if isLocal == 1 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", next-3, kind, upIdx)
	}
	return next
}
