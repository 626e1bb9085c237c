package vm

import "github.com/mna/glox/lang/value"

// callValue dispatches a CALL instruction: callee is the value sitting argc
// slots below the stack top. A Closure pushes a new CallFrame onto the frame
// array; a Native runs synchronously and replaces its own argc+1 stack
// slots with the single result. Anything else is a runtime error.
func (vm *VM) callValue(callee value.Value, argc int) *RuntimeError {
	switch callee := callee.(type) {
	case *value.Closure:
		return vm.call(callee, argc)
	case *value.Native:
		if argc != callee.Arity {
			return vm.runtimeError("Expected %d arguments but got %d.", callee.Arity, argc)
		}
		args := vm.stack[vm.sp-argc : vm.sp]
		result, err := callee.Fn(args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.sp -= argc + 1
		vm.push(result)
		return nil
	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}

// call pushes a new CallFrame for closure, to be resumed at its chunk's
// first instruction with slot 0 holding the closure itself and slots
// 1..argc holding the arguments already sitting on the stack.
func (vm *VM) call(closure *value.Closure, argc int) *RuntimeError {
	if argc != closure.Fn.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", closure.Fn.Arity, argc)
	}
	if vm.frameCount == framesMax {
		return vm.runtimeError("Stack overflow.")
	}

	frame := &vm.frames[vm.frameCount]
	frame.closure = closure
	frame.ip = 0
	frame.slots = vm.sp - argc - 1
	vm.frameCount++
	return nil
}
