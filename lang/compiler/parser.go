package compiler

import (
	"fmt"

	"github.com/mna/glox/lang/scanner"
	"github.com/mna/glox/lang/token"
)

func (p *parser) advance() {
	p.prev = p.cur
	for {
		p.cur = p.sc.Scan()
		if p.cur.Kind != token.ILLEGAL {
			break
		}
		// the scanner encodes the diagnostic text as the illegal token's own
		// lexeme; reporting it here keeps error formatting in one place.
		p.errorAtCurrent(p.cur.Lexeme)
	}
}

func (p *parser) check(k token.Token) bool { return p.cur.Kind == k }

func (p *parser) match(k token.Token) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(k token.Token, msg string) {
	if p.cur.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *parser) errorAt(tok scanner.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	fmt.Fprintf(p.errOut, "[line %d] Error", tok.Line)
	switch tok.Kind {
	case token.EOF:
		fmt.Fprint(p.errOut, " at end")
	case token.ILLEGAL:
		// the message itself names the problem; no lexeme to quote.
	default:
		fmt.Fprintf(p.errOut, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(p.errOut, ": %s\n", msg)
	p.hadError = true
}

func (p *parser) error(msg string)          { p.errorAt(p.prev, msg) }
func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.cur, msg) }

// parsePrecedence consumes a prefix parselet for p.cur, then repeatedly
// consumes infix parselets whose precedence is at least prec. canAssign is
// computed once and threaded through the whole chain, so only the
// outermost call at or below PrecAssignment ever allows an assignment
// target.
func (p *parser) parsePrecedence(prec Precedence) {
	p.advance()
	prefix := getRule(p.prev.Kind).prefix
	if prefix == nil {
		p.error("Expect expression.")
		return
	}

	canAssign := prec <= PrecAssignment
	prefix(p, canAssign)

	for prec <= getRule(p.cur.Kind).precedence {
		p.advance()
		infix := getRule(p.prev.Kind).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.EQ) {
		p.error("Invalid assignment target.")
	}
}

func (p *parser) expression() { p.parsePrecedence(PrecAssignment) }

// synchronize discards tokens until it reaches a likely statement boundary,
// so one error doesn't cascade into a wall of spurious follow-on errors.
func (p *parser) synchronize() {
	p.panicMode = false

	for p.cur.Kind != token.EOF {
		if p.prev.Kind == token.SEMI {
			return
		}
		switch p.cur.Kind {
		case token.CLASS, token.FUN, token.VAR, token.IF, token.FOR, token.WHILE, token.PRINT, token.RETURN:
			return
		default:
			p.advance()
		}
	}
}
