package scanner

import (
	"strconv"
	"strings"

	"github.com/mna/glox/lang/token"
)

// number scans a sequence of digits (underscores permitted as visual
// separators) optionally followed by '.' and more digits.
func (s *Scanner) number(line int) Token {
	s.digits()
	if s.cur == '.' && isDigit(rune(s.peek())) {
		s.advance() // consume '.'
		s.digits()
	}
	lit := string(s.src[s.start:s.off])
	return Token{Kind: token.NUMBER, Lexeme: lit, Line: line}
}

func (s *Scanner) digits() {
	for isDigit(s.cur) || s.cur == '_' {
		s.advance()
	}
}

// ParseNumber converts a NUMBER token's lexeme to a float64, stripping the
// visual underscore separators the scanner allows.
func ParseNumber(lit string) (float64, error) {
	if strings.ContainsRune(lit, '_') {
		lit = strings.ReplaceAll(lit, "_", "")
	}
	return strconv.ParseFloat(lit, 64)
}
