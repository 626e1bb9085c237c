package compiler

import (
	"github.com/mna/glox/lang/token"
	"github.com/mna/glox/lang/value"
)

// pushFn starts compiling a new function body, nesting it under the
// currently-open one (nil for the top-level script). Slot 0 of every
// function's stack window is reserved for the closure value itself, so it
// is declared here as an unnamed, already-initialized local.
func (p *parser) pushFn(t funcType) {
	fs := &fnState{
		enclosing: p.fn,
		fn:        &value.Function{Chunk: &value.Chunk{}},
		fnType:    t,
		loopStart: -1,
	}
	if t != funcScript {
		fs.fn.Name = value.NewString(p.prev.Lexeme)
	}
	fs.locals = append(fs.locals, local{name: "", depth: 0})
	p.fn = fs
}

// popFn closes the current function, emitting its implicit trailing return,
// and resumes compiling into the enclosing one.
func (p *parser) popFn() *value.Function {
	p.emitReturn()
	fn := p.fn.fn
	p.fn = p.fn.enclosing
	return fn
}

func (p *parser) beginScope() { p.fn.scopeDepth++ }

// endScope drops every local declared at or below the scope being left,
// emitting POP/POPN to shrink the stack and CLOSE_UPVALUE in place of POP
// for any local a nested function captured.
func (p *parser) endScope() {
	p.fn.scopeDepth--

	locals := p.fn.locals
	scopeDepth := p.fn.scopeDepth

	pending := 0
	for len(locals) > 0 && locals[len(locals)-1].depth > scopeDepth {
		captured := locals[len(locals)-1].captured
		locals = locals[:len(locals)-1]

		if !captured {
			pending++
			continue
		}
		p.flushPops(&pending)
		p.emitOp(value.OpCloseUpvalue)
	}
	p.flushPops(&pending)
	p.fn.locals = locals
}

func (p *parser) flushPops(n *int) {
	for *n > 0 {
		if *n == 1 {
			p.emitOp(value.OpPop)
			*n = 0
			return
		}
		chunk := *n
		if chunk > 0xff {
			chunk = 0xff
		}
		p.emitOp(value.OpPopN)
		p.emitByte(byte(chunk))
		*n -= chunk
	}
}

// identifierConstant adds name as a String constant, reusing an existing
// equal-content entry if the current chunk already has one.
func (p *parser) identifierConstant(name string) uint16 {
	for i, c := range p.chunk().Constants {
		if s, ok := c.(*value.String); ok && s.Chars == name {
			return uint16(i)
		}
	}
	return p.makeConstant(value.NewString(name))
}

func (p *parser) markInitialized() {
	if p.fn.scopeDepth == 0 {
		return
	}
	p.fn.locals[len(p.fn.locals)-1].depth = p.fn.scopeDepth
}

// resolveLocal finds name among fs's locals, scanning from the end so
// shadowing resolves to the innermost declaration. A match whose depth is
// still -1 means its own initializer is reading it, which is an error.
func (p *parser) resolveLocal(fs *fnState, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			if fs.locals[i].depth == -1 {
				p.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (p *parser) addUpvalue(fs *fnState, index uint16, isLocal bool) int {
	for i, uv := range fs.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(fs.upvalues) == maxUpvalues {
		p.error("Too many closure variables in function.")
		return 0
	}
	fs.upvalues = append(fs.upvalues, upvalueDesc{index: index, isLocal: isLocal})
	fs.fn.UpvalueCount = len(fs.upvalues)
	return len(fs.upvalues) - 1
}

// resolveUpvalue looks for name as a local of the enclosing function; if
// found, it marks that local captured and records an upvalue pointing
// directly at it. Otherwise it recurses outward, chaining upvalues through
// every intermediate function so each only ever references its immediate
// parent.
func (p *parser) resolveUpvalue(fs *fnState, name string) int {
	if fs.enclosing == nil {
		return -1
	}
	if local := p.resolveLocal(fs.enclosing, name); local != -1 {
		fs.enclosing.locals[local].captured = true
		return p.addUpvalue(fs, uint16(local), true)
	}
	if uv := p.resolveUpvalue(fs.enclosing, name); uv != -1 {
		return p.addUpvalue(fs, uint16(uv), false)
	}
	return -1
}

func (p *parser) addLocal(name string) {
	if len(p.fn.locals) == maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.fn.locals = append(p.fn.locals, local{name: name, depth: -1})
}

func (p *parser) declareVariable() {
	if p.fn.scopeDepth == 0 {
		return
	}
	name := p.prev.Lexeme
	for i := len(p.fn.locals) - 1; i >= 0; i-- {
		l := p.fn.locals[i]
		if l.depth != -1 && l.depth < p.fn.scopeDepth {
			break
		}
		if l.name == name {
			p.error("There is already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *parser) parseVariable(msg string) uint16 {
	p.consume(token.IDENT, msg)
	p.declareVariable()
	if p.fn.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.prev.Lexeme)
}

func (p *parser) defineVariable(idx uint16) {
	if p.fn.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitIndexed(value.OpDefineGlobal, value.OpDefineGlobalLong, idx)
}
