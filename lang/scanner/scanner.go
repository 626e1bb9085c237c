// Package scanner turns glox source text into a lazy stream of tokens. The
// scanner is statically buffered over the whole source and produces tokens
// on demand; it never allocates an intermediate token slice unless the
// caller asks for one.
package scanner

import (
	"unicode"
	"unicode/utf8"

	"github.com/mna/glox/lang/token"
)

// Token is a single lexical token: its kind, the lexeme (a string copy of
// the token's bytes in the Scanner's source), and the source line it starts
// on.
type Token struct {
	Kind   token.Token
	Lexeme string
	Line   int
}

// Scanner tokenizes a single source buffer for the compiler to consume.
type Scanner struct {
	src []byte
	err func(line int, msg string)

	start int // byte offset of the start of the token being scanned
	off   int // byte offset of cur
	roff  int // byte offset just past cur
	cur   rune
	line  int
}

// Init (re)initializes the scanner to tokenize src, reporting lexical
// errors (illegal characters, unterminated strings) through errHandler.
func (s *Scanner) Init(src []byte, errHandler func(line int, msg string)) {
	s.src = src
	s.err = errHandler
	s.start = 0
	s.off = 0
	s.roff = 0
	s.line = 1
	s.cur = ' '
	s.advance()
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advanceIf(r rune) bool {
	if s.cur == r {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) error(msg string) {
	if s.err != nil {
		s.err(s.line, msg)
	}
}

// Scan returns the next token in the source. It returns an EOF token forever
// once the end of the source has been reached, and an ILLEGAL token whose
// Lexeme is a static message when it encounters something it cannot
// tokenize (an unterminated string, an unknown character).
func (s *Scanner) Scan() Token {
	s.skipWhitespaceAndComments()

	s.start = s.off
	line := s.line

	if s.cur < 0 {
		return Token{Kind: token.EOF, Lexeme: "", Line: line}
	}

	switch {
	case isAlpha(s.cur):
		return s.identifier(line)
	case isDigit(s.cur):
		return s.number(line)
	case s.cur == '"':
		return s.string(line)
	}

	c := s.cur
	s.advance()
	switch c {
	case '(':
		return s.make(token.LPAREN, line)
	case ')':
		return s.make(token.RPAREN, line)
	case '{':
		return s.make(token.LBRACE, line)
	case '}':
		return s.make(token.RBRACE, line)
	case ',':
		return s.make(token.COMMA, line)
	case '.':
		return s.make(token.DOT, line)
	case '-':
		return s.make(token.MINUS, line)
	case '+':
		return s.make(token.PLUS, line)
	case ';':
		return s.make(token.SEMI, line)
	case ':':
		return s.make(token.COLON, line)
	case '*':
		return s.make(token.STAR, line)
	case '?':
		return s.make(token.QUESTION, line)
	case '/':
		return s.make(token.SLASH, line)
	case '!':
		if s.advanceIf('=') {
			return s.make(token.BANG_EQ, line)
		}
		return s.make(token.BANG, line)
	case '=':
		if s.advanceIf('=') {
			return s.make(token.EQ_EQ, line)
		}
		return s.make(token.EQ, line)
	case '<':
		if s.advanceIf('=') {
			return s.make(token.LE, line)
		}
		return s.make(token.LT, line)
	case '>':
		if s.advanceIf('=') {
			return s.make(token.GE, line)
		}
		return s.make(token.GT, line)
	}

	s.error("Unexpected character.")
	return Token{Kind: token.ILLEGAL, Lexeme: "Unexpected character.", Line: line}
}

func (s *Scanner) make(kind token.Token, line int) Token {
	return Token{Kind: kind, Lexeme: string(s.src[s.start:s.off]), Line: line}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.cur {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peek() != '/' {
				return
			}
			for s.cur != '\n' && s.cur >= 0 {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier(line int) Token {
	for isAlpha(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	lit := string(s.src[s.start:s.off])
	return Token{Kind: token.LookupIdent(lit), Lexeme: lit, Line: line}
}

func isAlpha(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
