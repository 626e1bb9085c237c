// Package compiler implements a single-pass, precedence-climbing compiler:
// it scans, parses, and emits bytecode in one traversal, with no
// intermediate syntax tree. Each parselet below corresponds to one
// production of the recursive-descent grammar or one rung of the Pratt
// precedence table.
package compiler

import (
	"io"

	"github.com/mna/glox/lang/scanner"
	"github.com/mna/glox/lang/token"
	"github.com/mna/glox/lang/value"
)

// Precedence orders the binding power of operators from loosest to
// tightest. parsePrecedence(p) consumes one token, dispatches its prefix
// parselet, then keeps consuming infix operators whose precedence is at
// least p.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecTernary               // ?:
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

type parseFn func(p *parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules maps each token kind to its parselets. A kind absent from the map
// has no prefix or infix meaning (PrecNone, nil parselets), which is what
// makes an unsupported construct like a bare 'class' keyword in expression
// position fail with "Expect expression." instead of needing a special
// case here.
var rules map[token.Token]parseRule

func init() {
	rules = map[token.Token]parseRule{
		token.LPAREN:   {grouping, call, PrecCall},
		token.MINUS:    {unary, binary, PrecTerm},
		token.PLUS:     {nil, binary, PrecTerm},
		token.SLASH:    {nil, binary, PrecFactor},
		token.STAR:     {nil, binary, PrecFactor},
		token.QUESTION: {nil, ternary, PrecTernary},
		token.BANG:     {unary, nil, PrecNone},
		token.BANG_EQ:  {nil, binary, PrecEquality},
		token.EQ_EQ:    {nil, binary, PrecEquality},
		token.GT:       {nil, binary, PrecComparison},
		token.GE:       {nil, binary, PrecComparison},
		token.LT:       {nil, binary, PrecComparison},
		token.LE:       {nil, binary, PrecComparison},
		token.IDENT:    {variable, nil, PrecNone},
		token.STRING:   {strLiteral, nil, PrecNone},
		token.NUMBER:   {number, nil, PrecNone},
		token.AND:      {nil, and_, PrecAnd},
		token.OR:       {nil, or_, PrecOr},
		token.FALSE:    {literal, nil, PrecNone},
		token.NIL:      {literal, nil, PrecNone},
		token.TRUE:     {literal, nil, PrecNone},
	}
}

func getRule(k token.Token) parseRule { return rules[k] }

type funcType int

const (
	funcScript funcType = iota
	funcFunction
)

// local is one entry of a compiler's lexical scope stack: the variable's
// name, the scope depth it was declared at (-1 while its initializer is
// still being compiled, to catch `var a = a;`), and whether any nested
// function closes over it.
type local struct {
	name     string
	depth    int
	captured bool
}

// upvalueDesc is one entry of a function's upvalue list: either a slot in
// the immediately enclosing function's locals (isLocal true) or an index
// into that function's own upvalues (isLocal false).
type upvalueDesc struct {
	index   uint16
	isLocal bool
}

const (
	maxLocals   = 1 << 16
	maxUpvalues = 1 << 16
)

// fnState is the compiler state for one function body. fnStates form a
// stack via enclosing, mirroring the nesting of function literals; the
// compiler currently being emitted into is always parser.fn.
type fnState struct {
	enclosing *fnState
	fn        *value.Function
	fnType    funcType

	locals     []local
	upvalues   []upvalueDesc
	scopeDepth int

	loopStart int // -1 when not inside a loop
	loopDepth int
}

// parser holds the whole single-pass compilation state: the token stream,
// error-recovery flags, and the stack of in-progress function compilers.
type parser struct {
	sc   *scanner.Scanner
	cur  scanner.Token
	prev scanner.Token

	hadError  bool
	panicMode bool
	errOut    io.Writer

	fn *fnState
}

// Compile compiles source into a top-level script Function, writing
// diagnostics to errOut in the form "[line N] Error at 'lexeme': message".
// The second return value is false if any compile error was reported, in
// which case the returned Function should be discarded.
func Compile(source []byte, errOut io.Writer) (*value.Function, bool) {
	var sc scanner.Scanner
	sc.Init(source, nil)

	p := &parser{sc: &sc, errOut: errOut}
	p.pushFn(funcScript)

	p.advance()
	for !p.match(token.EOF) {
		p.declaration()
	}

	fn := p.popFn()
	return fn, !p.hadError
}
