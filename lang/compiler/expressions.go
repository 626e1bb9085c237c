package compiler

import (
	"github.com/mna/glox/lang/scanner"
	"github.com/mna/glox/lang/token"
	"github.com/mna/glox/lang/value"
)

func grouping(p *parser, canAssign bool) {
	p.expression()
	p.consume(token.RPAREN, "Expect ')' after expression.")
}

func literal(p *parser, canAssign bool) {
	switch p.prev.Kind {
	case token.FALSE:
		p.emitOp(value.OpFalse)
	case token.TRUE:
		p.emitOp(value.OpTrue)
	case token.NIL:
		p.emitOp(value.OpNil)
	}
}

// strLiteral strips the surrounding quotes the scanner left on the lexeme
// and interns the remaining content as a constant.
func strLiteral(p *parser, canAssign bool) {
	lex := p.prev.Lexeme
	p.emitConstant(value.NewString(lex[1 : len(lex)-1]))
}

func number(p *parser, canAssign bool) {
	n, err := scanner.ParseNumber(p.prev.Lexeme)
	if err != nil {
		p.error("Invalid number literal.")
		return
	}
	p.emitConstant(value.Number(n))
}

func variable(p *parser, canAssign bool) {
	p.namedVariable(p.prev.Lexeme, canAssign)
}

// namedVariable resolves name as a local, then an upvalue, then finally a
// global, and emits the matching GET or SET form depending on whether an
// assignment follows and is permitted here.
func (p *parser) namedVariable(name string, canAssign bool) {
	var getShort, getLong, setShort, setLong value.OpCode

	idx := p.resolveLocal(p.fn, name)
	switch {
	case idx != -1:
		getShort, getLong = value.OpGetLocal, value.OpGetLocalLong
		setShort, setLong = value.OpSetLocal, value.OpSetLocalLong
	default:
		if uv := p.resolveUpvalue(p.fn, name); uv != -1 {
			idx = uv
			getShort, getLong = value.OpGetUpvalue, value.OpGetUpvalueLong
			setShort, setLong = value.OpSetUpvalue, value.OpSetUpvalueLong
		} else {
			idx = int(p.identifierConstant(name))
			getShort, getLong = value.OpGetGlobal, value.OpGetGlobalLong
			setShort, setLong = value.OpSetGlobal, value.OpSetGlobalLong
		}
	}

	if canAssign && p.match(token.EQ) {
		p.expression()
		p.emitIndexed(setShort, setLong, uint16(idx))
	} else {
		p.emitIndexed(getShort, getLong, uint16(idx))
	}
}

func unary(p *parser, canAssign bool) {
	opKind := p.prev.Kind
	p.parsePrecedence(PrecUnary)

	switch opKind {
	case token.MINUS:
		p.emitOp(value.OpNegate)
	case token.BANG:
		p.emitOp(value.OpNot)
	}
}

// ternary compiles `cond ? then : else` with the same jump shape as an
// if/else statement, but as an expression: both branches leave exactly one
// value on the stack.
func ternary(p *parser, canAssign bool) {
	thenJump := p.emitJump(value.OpJumpIfFalse)
	p.emitOp(value.OpPop)
	p.parsePrecedence(PrecTernary)

	elseJump := p.emitJump(value.OpJump)
	p.patchJump(thenJump)
	p.emitOp(value.OpPop)

	p.consume(token.COLON, "Expect ':' in ternary expression.")
	p.parsePrecedence(PrecTernary)
	p.patchJump(elseJump)
}

func binary(p *parser, canAssign bool) {
	opKind := p.prev.Kind
	rule := getRule(opKind)
	p.parsePrecedence(rule.precedence + 1)

	switch opKind {
	case token.PLUS:
		p.emitOp(value.OpAdd)
	case token.MINUS:
		p.emitOp(value.OpSubtract)
	case token.STAR:
		p.emitOp(value.OpMultiply)
	case token.SLASH:
		p.emitOp(value.OpDivide)
	case token.BANG_EQ:
		p.emitOp(value.OpNotEqual)
	case token.EQ_EQ:
		p.emitOp(value.OpEqual)
	case token.GT:
		p.emitOp(value.OpGreater)
	case token.GE:
		p.emitOp(value.OpGreaterEqual)
	case token.LT:
		p.emitOp(value.OpLess)
	case token.LE:
		p.emitOp(value.OpLessEqual)
	}
}

func and_(p *parser, canAssign bool) {
	endJump := p.emitJump(value.OpJumpIfFalse)
	p.emitOp(value.OpPop)
	p.parsePrecedence(PrecAnd)
	p.patchJump(endJump)
}

func or_(p *parser, canAssign bool) {
	endJump := p.emitJump(value.OpJumpIfTrue)
	p.emitOp(value.OpPop)
	p.parsePrecedence(PrecOr)
	p.patchJump(endJump)
}

func call(p *parser, canAssign bool) {
	argc := p.argumentList()
	p.emitOp(value.OpCall)
	p.emitByte(argc)
}

func (p *parser) argumentList() byte {
	var argc int
	if !p.check(token.RPAREN) {
		for {
			p.expression()
			if argc == 255 {
				p.error("Can't have more than 255 arguments.")
			}
			argc++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after arguments.")
	return byte(argc)
}
