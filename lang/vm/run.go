package vm

import (
	"fmt"

	"github.com/mna/glox/lang/value"
)

func (vm *VM) readByte(frame *CallFrame) byte {
	b := frame.closure.Fn.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) readU16(frame *CallFrame) uint16 {
	hi := vm.readByte(frame)
	lo := vm.readByte(frame)
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readConstant(frame *CallFrame, idx uint16) value.Value {
	return frame.closure.Fn.Chunk.Constants[idx]
}

// run is the interpreter's dispatch loop: a wide switch over the next
// opcode, operating on a single contiguous value stack shared by every
// frame. The current frame is kept in a local so the hot path never
// indexes through vm.frames; CALL and RETURN are the only opcodes that
// reassign it.
func (vm *VM) run() error {
	frame := &vm.frames[vm.frameCount-1]

	for {
		op := value.OpCode(vm.readByte(frame))

		switch op {
		case value.OpConstant:
			vm.push(vm.readConstant(frame, uint16(vm.readByte(frame))))
		case value.OpConstantLong:
			vm.push(vm.readConstant(frame, vm.readU16(frame)))

		case value.OpNil:
			vm.push(value.NilValue)
		case value.OpTrue:
			vm.push(value.True)
		case value.OpFalse:
			vm.push(value.False)

		case value.OpPop:
			vm.pop()
		case value.OpPopN:
			vm.sp -= int(vm.readByte(frame))

		case value.OpGetLocal:
			vm.push(vm.stack[frame.slots+int(vm.readByte(frame))])
		case value.OpGetLocalLong:
			vm.push(vm.stack[frame.slots+int(vm.readU16(frame))])
		case value.OpSetLocal:
			vm.stack[frame.slots+int(vm.readByte(frame))] = vm.peek(0)
		case value.OpSetLocalLong:
			vm.stack[frame.slots+int(vm.readU16(frame))] = vm.peek(0)

		case value.OpDefineGlobal:
			vm.defineGlobal(vm.readConstant(frame, uint16(vm.readByte(frame))))
		case value.OpDefineGlobalLong:
			vm.defineGlobal(vm.readConstant(frame, vm.readU16(frame)))

		case value.OpGetGlobal:
			if rerr := vm.getGlobal(vm.readConstant(frame, uint16(vm.readByte(frame)))); rerr != nil {
				return rerr
			}
		case value.OpGetGlobalLong:
			if rerr := vm.getGlobal(vm.readConstant(frame, vm.readU16(frame))); rerr != nil {
				return rerr
			}

		case value.OpSetGlobal:
			if rerr := vm.setGlobal(vm.readConstant(frame, uint16(vm.readByte(frame)))); rerr != nil {
				return rerr
			}
		case value.OpSetGlobalLong:
			if rerr := vm.setGlobal(vm.readConstant(frame, vm.readU16(frame))); rerr != nil {
				return rerr
			}

		case value.OpGetUpvalue:
			vm.push(frame.closure.Upvalues[vm.readByte(frame)].Get())
		case value.OpGetUpvalueLong:
			vm.push(frame.closure.Upvalues[vm.readU16(frame)].Get())
		case value.OpSetUpvalue:
			frame.closure.Upvalues[vm.readByte(frame)].Set(vm.peek(0))
		case value.OpSetUpvalueLong:
			frame.closure.Upvalues[vm.readU16(frame)].Set(vm.peek(0))

		case value.OpCloseUpvalue:
			vm.closeUpvalues(vm.sp - 1)
			vm.pop()

		case value.OpNegate:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.pop()
			vm.push(-n)

		case value.OpNot:
			vm.push(value.Bool(!value.Truthy(vm.pop())))

		case value.OpAdd:
			if rerr := vm.add(); rerr != nil {
				return rerr
			}
		case value.OpSubtract:
			a, b, ok := vm.numberOperands()
			if !ok {
				return vm.runtimeError("Operands must be numbers.")
			}
			vm.push(a - b)
		case value.OpMultiply:
			a, b, ok := vm.numberOperands()
			if !ok {
				return vm.runtimeError("Operands must be numbers.")
			}
			vm.push(a * b)
		case value.OpDivide:
			a, b, ok := vm.numberOperands()
			if !ok {
				return vm.runtimeError("Operands must be numbers.")
			}
			vm.push(a / b)

		case value.OpGreater:
			a, b, ok := vm.numberOperands()
			if !ok {
				return vm.runtimeError("Operands must be numbers.")
			}
			vm.push(value.Bool(a > b))
		case value.OpGreaterEqual:
			a, b, ok := vm.numberOperands()
			if !ok {
				return vm.runtimeError("Operands must be numbers.")
			}
			vm.push(value.Bool(a >= b))
		case value.OpLess:
			a, b, ok := vm.numberOperands()
			if !ok {
				return vm.runtimeError("Operands must be numbers.")
			}
			vm.push(value.Bool(a < b))
		case value.OpLessEqual:
			a, b, ok := vm.numberOperands()
			if !ok {
				return vm.runtimeError("Operands must be numbers.")
			}
			vm.push(value.Bool(a <= b))

		case value.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case value.OpNotEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(!value.Equal(a, b)))

		case value.OpJumpIfTrue:
			offset := vm.readU16(frame)
			if value.Truthy(vm.peek(0)) {
				frame.ip += int(offset)
			}
		case value.OpJumpIfFalse:
			offset := vm.readU16(frame)
			if !value.Truthy(vm.peek(0)) {
				frame.ip += int(offset)
			}
		case value.OpJump:
			frame.ip += int(vm.readU16(frame))
		case value.OpLoop:
			frame.ip -= int(vm.readU16(frame))

		case value.OpPrint:
			fmt.Fprintln(vm.stdout(), vm.pop().String())

		case value.OpCall:
			argc := int(vm.readByte(frame))
			if rerr := vm.callValue(vm.peek(argc), argc); rerr != nil {
				return rerr
			}
			frame = &vm.frames[vm.frameCount-1]

		case value.OpClosure:
			vm.makeClosure(frame, uint16(vm.readByte(frame)))
		case value.OpClosureLong:
			vm.makeClosure(frame, vm.readU16(frame))

		case value.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the top-level script closure itself
				return nil
			}
			vm.sp = frame.slots
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		default:
			return vm.runtimeError("Unknown opcode %d.", op)
		}
	}
}

func (vm *VM) defineGlobal(name value.Value) {
	vm.globals.Set(name.(*value.String), vm.peek(0))
	vm.pop()
}

func (vm *VM) getGlobal(name value.Value) *RuntimeError {
	s := name.(*value.String)
	v, ok := vm.globals.Get(s)
	if !ok {
		return vm.runtimeError("Undefined variable '%s'.", s.Chars)
	}
	vm.push(v)
	return nil
}

func (vm *VM) setGlobal(name value.Value) *RuntimeError {
	s := name.(*value.String)
	if vm.globals.Set(s, vm.peek(0)) {
		vm.globals.Delete(s)
		return vm.runtimeError("Undefined variable '%s'.", s.Chars)
	}
	return nil
}

// numberOperands pops the top two stack values for a binary arithmetic or
// comparison opcode, requiring both to be numbers.
func (vm *VM) numberOperands() (a, b value.Number, ok bool) {
	bv, av := vm.peek(0), vm.peek(1)
	bn, bok := bv.(value.Number)
	an, aok := av.(value.Number)
	if !aok || !bok {
		return 0, 0, false
	}
	vm.pop()
	vm.pop()
	return an, bn, true
}

// add implements the overloaded '+': number+number adds, string+string
// concatenates into a freshly interned string, anything else is an error.
func (vm *VM) add() *RuntimeError {
	b, a := vm.peek(0), vm.peek(1)

	if an, ok := a.(value.Number); ok {
		if bn, ok := b.(value.Number); ok {
			vm.pop()
			vm.pop()
			vm.push(an + bn)
			return nil
		}
	}
	if as, ok := a.(*value.String); ok {
		if bs, ok := b.(*value.String); ok {
			vm.pop()
			vm.pop()
			vm.push(vm.internString(as.Chars + bs.Chars))
			return nil
		}
	}
	return vm.runtimeError("Operands must be two numbers or two strings.")
}

// makeClosure implements CLOSURE/CLOSURE_LONG: read the Function constant,
// then read one isLocal+index descriptor triple per declared upvalue,
// either capturing a slot in the enclosing frame or sharing the enclosing
// closure's own upvalue at that index.
func (vm *VM) makeClosure(frame *CallFrame, idx uint16) {
	fn := vm.readConstant(frame, idx).(*value.Function)
	closure := &value.Closure{Fn: fn, Upvalues: make([]*value.Upvalue, fn.UpvalueCount)}
	vm.link(closure)

	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := vm.readByte(frame) == 1
		index := vm.readU16(frame)
		if isLocal {
			closure.Upvalues[i] = vm.captureUpvalue(frame.slots + int(index))
		} else {
			closure.Upvalues[i] = frame.closure.Upvalues[index]
		}
	}

	vm.push(closure)
}
