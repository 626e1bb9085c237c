package value

// OpCode is a single bytecode instruction.
type OpCode byte

const (
	OpConstant     OpCode = iota // u8 const index
	OpConstantLong               // u16 const index

	OpDefineGlobal
	OpDefineGlobalLong
	OpGetGlobal
	OpGetGlobalLong
	OpSetGlobal
	OpSetGlobalLong

	OpGetLocal
	OpGetLocalLong
	OpSetLocal
	OpSetLocalLong

	OpGetUpvalue
	OpGetUpvalueLong
	OpSetUpvalue
	OpSetUpvalueLong

	OpCloseUpvalue

	OpNil
	OpTrue
	OpFalse

	OpNegate
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide

	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual

	OpNot

	OpJumpIfTrue
	OpJumpIfFalse
	OpJump

	OpLoop

	OpPrint
	OpPop
	OpPopN

	OpCall
	OpReturn
	OpClosure
	OpClosureLong
)

var opcodeNames = [...]string{
	OpConstant:         "OP_CONSTANT",
	OpConstantLong:     "OP_CONSTANT_LONG",
	OpDefineGlobal:     "OP_DEFINE_GLOBAL",
	OpDefineGlobalLong: "OP_DEFINE_GLOBAL_LONG",
	OpGetGlobal:        "OP_GET_GLOBAL",
	OpGetGlobalLong:    "OP_GET_GLOBAL_LONG",
	OpSetGlobal:        "OP_SET_GLOBAL",
	OpSetGlobalLong:    "OP_SET_GLOBAL_LONG",
	OpGetLocal:         "OP_GET_LOCAL",
	OpGetLocalLong:     "OP_GET_LOCAL_LONG",
	OpSetLocal:         "OP_SET_LOCAL",
	OpSetLocalLong:     "OP_SET_LOCAL_LONG",
	OpGetUpvalue:       "OP_GET_UPVALUE",
	OpGetUpvalueLong:   "OP_GET_UPVALUE_LONG",
	OpSetUpvalue:       "OP_SET_UPVALUE",
	OpSetUpvalueLong:   "OP_SET_UPVALUE_LONG",
	OpCloseUpvalue:     "OP_CLOSE_UPVALUE",
	OpNil:              "OP_NIL",
	OpTrue:             "OP_TRUE",
	OpFalse:            "OP_FALSE",
	OpNegate:           "OP_NEGATE",
	OpAdd:              "OP_ADD",
	OpSubtract:         "OP_SUBTRACT",
	OpMultiply:         "OP_MULTIPLY",
	OpDivide:           "OP_DIVIDE",
	OpEqual:            "OP_EQUAL",
	OpNotEqual:         "OP_NOT_EQUAL",
	OpGreater:          "OP_GREATER",
	OpGreaterEqual:     "OP_GREATER_EQUAL",
	OpLess:             "OP_LESS",
	OpLessEqual:        "OP_LESS_EQUAL",
	OpNot:              "OP_NOT",
	OpJumpIfTrue:       "OP_JUMP_IF_TRUE",
	OpJumpIfFalse:      "OP_JUMP_IF_FALSE",
	OpJump:             "OP_JUMP",
	OpLoop:             "OP_LOOP",
	OpPrint:            "OP_PRINT",
	OpPop:              "OP_POP",
	OpPopN:             "OP_POPN",
	OpCall:             "OP_CALL",
	OpReturn:           "OP_RETURN",
	OpClosure:          "OP_CLOSURE",
	OpClosureLong:      "OP_CLOSURE_LONG",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "OP_UNKNOWN"
}
