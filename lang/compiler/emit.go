package compiler

import "github.com/mna/glox/lang/value"

func (p *parser) chunk() *value.Chunk { return p.fn.fn.Chunk }

func (p *parser) emitByte(b byte) { p.chunk().WriteByte(b, p.prev.Line) }

func (p *parser) emitOp(op value.OpCode) { p.emitByte(byte(op)) }

func (p *parser) emitBytes(b1, b2 byte) {
	p.emitByte(b1)
	p.emitByte(b2)
}

func (p *parser) emitReturn() {
	p.emitOp(value.OpNil)
	p.emitOp(value.OpReturn)
}

// emitIndexed picks the short (u8) or long (u16) opcode variant depending
// on whether idx fits in a byte, and emits the operand big-endian for the
// long form.
func (p *parser) emitIndexed(short, long value.OpCode, idx uint16) {
	if idx <= 0xff {
		p.emitOp(short)
		p.emitByte(byte(idx))
		return
	}
	p.emitOp(long)
	p.emitBytes(byte(idx>>8), byte(idx))
}

func (p *parser) makeConstant(v value.Value) uint16 {
	idx, err := p.chunk().AddConstant(v)
	if err != nil {
		p.error("Too many constants in one chunk.")
		return 0
	}
	return idx
}

func (p *parser) emitConstant(v value.Value) {
	p.emitIndexed(value.OpConstant, value.OpConstantLong, p.makeConstant(v))
}

// emitJump writes the opcode and a two-byte placeholder operand, returning
// the offset of the placeholder for patchJump to fill in once the jump
// target is known.
func (p *parser) emitJump(op value.OpCode) int {
	p.emitOp(op)
	p.emitBytes(0xff, 0xff)
	return len(p.chunk().Code) - 2
}

func (p *parser) patchJump(offset int) {
	jump := len(p.chunk().Code) - offset - 2
	if jump > 0xffff {
		p.error("Too much code to jump.")
	}
	code := p.chunk().Code
	code[offset] = byte(jump >> 8)
	code[offset+1] = byte(jump)
}

func (p *parser) emitLoop(loopStart int) {
	p.emitOp(value.OpLoop)

	offset := len(p.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		p.error("The loop body is too large.")
	}
	p.emitBytes(byte(offset>>8), byte(offset))
}
