package compiler

import (
	"github.com/mna/glox/lang/token"
	"github.com/mna/glox/lang/value"
)

func (p *parser) declaration() {
	switch {
	case p.match(token.FUN):
		p.funDeclaration()
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(funcFunction)
	p.defineVariable(global)
}

// function compiles one function literal's parameter list and body in a
// fresh nested fnState, then emits a CLOSURE instruction referencing it
// followed by one descriptor triple per upvalue the body captured.
func (p *parser) function(t funcType) {
	p.pushFn(t)
	p.beginScope()

	p.consume(token.LPAREN, "Expect '(' after function name.")
	if !p.check(token.RPAREN) {
		for {
			p.fn.fn.Arity++
			if p.fn.fn.Arity > 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			c := p.parseVariable("Expect parameter name.")
			p.defineVariable(c)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")
	p.consume(token.LBRACE, "Expect '{' before function body.")
	p.block()

	upvalues := p.fn.upvalues
	fn := p.popFn()

	idx := p.makeConstant(fn)
	p.emitIndexed(value.OpClosure, value.OpClosureLong, idx)

	for _, uv := range upvalues {
		var isLocal byte
		if uv.isLocal {
			isLocal = 1
		}
		p.emitByte(isLocal)
		p.emitBytes(byte(uv.index>>8), byte(uv.index))
	}
}

func (p *parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")
	if p.match(token.EQ) {
		p.expression()
	} else {
		p.emitOp(value.OpNil)
	}
	p.consume(token.SEMI, "Expect ';' after variable declaration.")
	p.defineVariable(global)
}

func (p *parser) statement() {
	switch {
	case p.match(token.PRINT):
		p.printStatement()
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.FOR):
		p.forStatement()
	case p.match(token.CONTINUE):
		p.continueStatement()
	case p.match(token.LBRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *parser) printStatement() {
	p.expression()
	p.consume(token.SEMI, "Expect ';' after value.")
	p.emitOp(value.OpPrint)
}

func (p *parser) ifStatement() {
	p.consume(token.LPAREN, "Expect '(' after 'if'.")
	p.expression()
	p.consume(token.RPAREN, "Expect ')' after condition.")

	thenJump := p.emitJump(value.OpJumpIfFalse)
	p.emitOp(value.OpPop)
	p.statement()

	elseJump := p.emitJump(value.OpJump)
	p.patchJump(thenJump)
	p.emitOp(value.OpPop)

	if p.match(token.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *parser) returnStatement() {
	if p.fn.fnType == funcScript {
		p.error("Can't return from top-level code.")
	}
	if p.match(token.SEMI) {
		p.emitReturn()
		return
	}
	p.expression()
	p.consume(token.SEMI, "Expect ';' after return value.")
	p.emitOp(value.OpReturn)
}

func (p *parser) whileStatement() {
	enclosingStart, enclosingDepth := p.fn.loopStart, p.fn.loopDepth
	loopStart := len(p.chunk().Code)

	p.consume(token.LPAREN, "Expect '(' after 'while'.")
	p.expression()
	p.consume(token.RPAREN, "Expect ')' after condition.")

	exitJump := p.emitJump(value.OpJumpIfFalse)
	p.emitOp(value.OpPop)

	p.fn.loopDepth = p.fn.scopeDepth
	p.fn.loopStart = loopStart
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(value.OpPop)

	p.fn.loopStart, p.fn.loopDepth = enclosingStart, enclosingDepth
}

func (p *parser) forStatement() {
	enclosingStart, enclosingDepth := p.fn.loopStart, p.fn.loopDepth
	p.beginScope()
	p.consume(token.LPAREN, "Expect '(' after 'for'.")

	switch {
	case p.match(token.SEMI):
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.chunk().Code)
	exitJump := -1
	if !p.match(token.SEMI) {
		p.expression()
		p.consume(token.SEMI, "Expect ';' after loop condition.")

		exitJump = p.emitJump(value.OpJumpIfFalse)
		p.emitOp(value.OpPop)
	}

	if !p.match(token.RPAREN) {
		bodyJump := p.emitJump(value.OpJump)
		incrementStart := len(p.chunk().Code)

		p.expression()
		p.emitOp(value.OpPop)
		p.consume(token.RPAREN, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	}

	p.fn.loopDepth = p.fn.scopeDepth
	p.fn.loopStart = loopStart
	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(value.OpPop)
	}

	p.endScope()
	p.fn.loopStart, p.fn.loopDepth = enclosingStart, enclosingDepth
}

// continueStatement emits the same scope-cleanup POP/CLOSE_UPVALUE
// sequence endScope would, for every scope between here and the loop body,
// without actually leaving those scopes for the code that follows.
func (p *parser) continueStatement() {
	if p.fn.loopStart == -1 {
		p.error("Can't use 'continue' outside of a loop.")
		return
	}

	enclosingDepth := p.fn.scopeDepth
	enclosingLocals := len(p.fn.locals)

	p.consume(token.SEMI, "Expect ';' after 'continue'.")

	for p.fn.scopeDepth > p.fn.loopDepth {
		p.endScope()
	}
	p.emitLoop(p.fn.loopStart)

	p.fn.scopeDepth = enclosingDepth
	p.fn.locals = p.fn.locals[:enclosingLocals]
}

func (p *parser) block() {
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RBRACE, "Expect '}' after block.")
}

func (p *parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMI, "Expect ';' after expression.")
	p.emitOp(value.OpPop)
}
