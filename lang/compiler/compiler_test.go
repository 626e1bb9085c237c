package compiler_test

import (
	"bytes"
	"testing"

	"github.com/mna/glox/lang/compiler"
	"github.com/mna/glox/lang/value"
	"github.com/stretchr/testify/require"
)

// operandWidths gives the fixed operand size, in bytes, of every opcode
// except CLOSURE/CLOSURE_LONG, whose width also depends on the function's
// upvalue count and so is handled separately by opcodes().
var operandWidths = map[value.OpCode]int{
	value.OpConstant:         1,
	value.OpConstantLong:     2,
	value.OpDefineGlobal:     1,
	value.OpDefineGlobalLong: 2,
	value.OpGetGlobal:        1,
	value.OpGetGlobalLong:    2,
	value.OpSetGlobal:        1,
	value.OpSetGlobalLong:    2,
	value.OpGetLocal:         1,
	value.OpGetLocalLong:     2,
	value.OpSetLocal:         1,
	value.OpSetLocalLong:     2,
	value.OpGetUpvalue:       1,
	value.OpGetUpvalueLong:   2,
	value.OpSetUpvalue:       1,
	value.OpSetUpvalueLong:   2,
	value.OpCloseUpvalue:     0,
	value.OpNil:              0,
	value.OpTrue:             0,
	value.OpFalse:            0,
	value.OpNegate:           0,
	value.OpAdd:              0,
	value.OpSubtract:         0,
	value.OpMultiply:         0,
	value.OpDivide:           0,
	value.OpEqual:            0,
	value.OpNotEqual:         0,
	value.OpGreater:          0,
	value.OpGreaterEqual:     0,
	value.OpLess:             0,
	value.OpLessEqual:        0,
	value.OpNot:              0,
	value.OpJumpIfTrue:       2,
	value.OpJumpIfFalse:      2,
	value.OpJump:             2,
	value.OpLoop:             2,
	value.OpPrint:            0,
	value.OpPop:              0,
	value.OpPopN:             1,
	value.OpCall:             1,
	value.OpReturn:           0,
}

// opcodes walks chunk's code and returns just the sequence of opcodes,
// skipping over operand bytes (and, for closures, their upvalue
// descriptor triples), so tests can assert on instruction shape without
// hardcoding constant-pool indices.
func opcodes(t *testing.T, chunk *value.Chunk) []value.OpCode {
	t.Helper()
	var ops []value.OpCode
	code := chunk.Code
	for i := 0; i < len(code); {
		op := value.OpCode(code[i])
		ops = append(ops, op)
		i++
		switch op {
		case value.OpClosure:
			upvalueCount := int(chunk.Constants[code[i]].(*value.Function).UpvalueCount)
			i += 1 + 3*upvalueCount
		case value.OpClosureLong:
			idx := int(code[i])<<8 | int(code[i+1])
			upvalueCount := int(chunk.Constants[idx].(*value.Function).UpvalueCount)
			i += 2 + 3*upvalueCount
		default:
			i += operandWidths[op]
		}
	}
	return ops
}

func mustCompile(t *testing.T, src string) *value.Function {
	t.Helper()
	var errBuf bytes.Buffer
	fn, ok := compiler.Compile([]byte(src), &errBuf)
	require.True(t, ok, "unexpected compile error(s):\n%s", errBuf.String())
	return fn
}

func TestArithmeticPrecedence(t *testing.T) {
	fn := mustCompile(t, "print 1 + 2 * 3;")
	require.Equal(t, []value.OpCode{
		value.OpConstant, value.OpConstant, value.OpConstant,
		value.OpMultiply, value.OpAdd, value.OpPrint,
		value.OpNil, value.OpReturn,
	}, opcodes(t, fn.Chunk))
}

func TestStringConcatenationAndInterning(t *testing.T) {
	fn := mustCompile(t, `var a = "he"; var b = "llo"; print a + b;`)
	// "a", "he", "b", "llo", then namedVariable("a") and ("b") reuse those
	// same identifier constants instead of allocating new ones.
	var names []string
	for _, c := range fn.Chunk.Constants {
		if s, ok := c.(*value.String); ok {
			names = append(names, s.Chars)
		}
	}
	require.Equal(t, []string{"a", "he", "b", "llo"}, names)
}

func TestIdentifierConstantDeduplication(t *testing.T) {
	fn := mustCompile(t, `var count = 1; count = count + 1;`)
	n := 0
	for _, c := range fn.Chunk.Constants {
		if s, ok := c.(*value.String); ok && s.Chars == "count" {
			n++
		}
	}
	require.Equal(t, 1, n, "the \"count\" identifier constant must be shared, not duplicated")
}

func TestIfElseJumpShape(t *testing.T) {
	fn := mustCompile(t, `if (true) { print 1; } else { print 2; }`)
	require.Equal(t, []value.OpCode{
		value.OpTrue,
		value.OpJumpIfFalse, value.OpPop,
		value.OpConstant, value.OpPrint,
		value.OpJump,
		value.OpPop,
		value.OpConstant, value.OpPrint,
		value.OpNil, value.OpReturn,
	}, opcodes(t, fn.Chunk))
}

func TestJumpPatchDistance(t *testing.T) {
	fn := mustCompile(t, `if (true) { print 1; }`)
	code := fn.Chunk.Code
	// code[0] = OP_TRUE, code[1] = OP_JUMP_IF_FALSE, code[2:4] = operand.
	require.Equal(t, byte(value.OpJumpIfFalse), code[1])
	jumpOperand := int(code[2])<<8 | int(code[3])
	// the patched distance must equal the bytes between the end of the
	// operand (offset 4) and the jump target: the POP that runs when the
	// then-branch was skipped.
	targetOffset := 4 + jumpOperand
	require.Equal(t, byte(value.OpPop), code[4])
	require.Less(t, targetOffset, len(code))
	require.Equal(t, byte(value.OpPop), code[targetOffset])
}

func TestWhileLoopBacktracks(t *testing.T) {
	fn := mustCompile(t, `var i = 0; while (i < 3) { i = i + 1; }`)
	ops := opcodes(t, fn.Chunk)
	require.Contains(t, ops, value.OpLoop)
	require.Contains(t, ops, value.OpJumpIfFalse)
}

func TestForLoopWithContinue(t *testing.T) {
	fn := mustCompile(t, `for (var i = 0; i < 3; i = i + 1) { if (i == 1) continue; print i; }`)
	ops := opcodes(t, fn.Chunk)
	loopCount := 0
	for _, op := range ops {
		if op == value.OpLoop {
			loopCount++
		}
	}
	// the increment clause loops back to the condition, the body's own
	// backward jump loops back to the increment clause, and continue emits
	// its own backward jump to that same increment clause.
	require.Equal(t, 3, loopCount)
}

func TestContinueOutsideLoopIsError(t *testing.T) {
	var errBuf bytes.Buffer
	_, ok := compiler.Compile([]byte(`continue;`), &errBuf)
	require.False(t, ok)
	require.Contains(t, errBuf.String(), "Can't use 'continue' outside of a loop.")
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	var errBuf bytes.Buffer
	_, ok := compiler.Compile([]byte(`return 1;`), &errBuf)
	require.False(t, ok)
	require.Contains(t, errBuf.String(), "Can't return from top-level code.")
}

func TestClosureCapturesUpvalue(t *testing.T) {
	fn := mustCompile(t, `
		fun makeCounter() {
			var i = 0;
			fun inc() { i = i + 1; return i; }
			return inc;
		}`)

	var counter *value.Function
	for _, c := range fn.Chunk.Constants {
		if f, ok := c.(*value.Function); ok && f.Name != nil && f.Name.Chars == "makeCounter" {
			counter = f
		}
	}
	require.NotNil(t, counter, "makeCounter must be compiled as a constant function")

	var inc *value.Function
	for _, c := range counter.Chunk.Constants {
		if f, ok := c.(*value.Function); ok && f.Name != nil && f.Name.Chars == "inc" {
			inc = f
		}
	}
	require.NotNil(t, inc, "inc must be compiled as a nested constant function")
	require.Equal(t, 1, inc.UpvalueCount, "inc captures exactly one upvalue: i")
}

func TestErrorMessageFormat(t *testing.T) {
	var errBuf bytes.Buffer
	_, ok := compiler.Compile([]byte("var;"), &errBuf)
	require.False(t, ok)
	require.Equal(t, "[line 1] Error at ';': Expect variable name.\n", errBuf.String())
}

func TestErrorAtEOFFormat(t *testing.T) {
	var errBuf bytes.Buffer
	_, ok := compiler.Compile([]byte("var x ="), &errBuf)
	require.False(t, ok)
	require.Contains(t, errBuf.String(), "Error at end: Expect expression.")
}

func TestPanicModeSuppressesCascadingErrors(t *testing.T) {
	var errBuf bytes.Buffer
	_, ok := compiler.Compile([]byte("var; var; var x = 1;"), &errBuf)
	require.False(t, ok)
	// each "var;" triggers one error, then synchronizes at the semicolon;
	// the well-formed declaration after them must not add a third.
	require.Equal(t, 2, bytes.Count(errBuf.Bytes(), []byte("Expect variable name.")))
}

func TestUseBeforeInitializationIsError(t *testing.T) {
	var errBuf bytes.Buffer
	_, ok := compiler.Compile([]byte(`{ var a = a; }`), &errBuf)
	require.False(t, ok)
	require.Contains(t, errBuf.String(), "Can't read local variable in its own initializer.")
}

func TestDuplicateLocalInSameScopeIsError(t *testing.T) {
	var errBuf bytes.Buffer
	_, ok := compiler.Compile([]byte(`{ var a = 1; var a = 2; }`), &errBuf)
	require.False(t, ok)
	require.Contains(t, errBuf.String(), "already a variable with this name in this scope")
}

func TestInvalidAssignmentTarget(t *testing.T) {
	var errBuf bytes.Buffer
	_, ok := compiler.Compile([]byte(`1 + 2 = 3;`), &errBuf)
	require.False(t, ok)
	require.Contains(t, errBuf.String(), "Invalid assignment target.")
}

func TestStackEmptyAfterScriptReturn(t *testing.T) {
	// every top-level expression statement pops its value, and the implicit
	// trailing return pushes nil and RETURN pops it again; this is a
	// static property of the emitted POP/RETURN shape, not something that
	// needs a running VM to observe.
	fn := mustCompile(t, `print 1; var x = 2; x = x + 1;`)
	ops := opcodes(t, fn.Chunk)
	require.Equal(t, value.OpReturn, ops[len(ops)-1])
	require.Equal(t, value.OpNil, ops[len(ops)-2])
}
