package scanner

import "github.com/mna/glox/lang/token"

// string scans a "-delimited string literal. Strings may span newlines; an
// unterminated string yields an ILLEGAL token.
func (s *Scanner) string(line int) Token {
	s.advance() // consume opening quote
	for s.cur != '"' && s.cur >= 0 {
		if s.cur == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.cur < 0 {
		s.error("Unterminated string.")
		return Token{Kind: token.ILLEGAL, Lexeme: "Unterminated string.", Line: line}
	}
	s.advance() // consume closing quote
	// Lexeme includes the surrounding quotes; the compiler strips them when
	// it materializes the string constant.
	return Token{Kind: token.STRING, Lexeme: string(s.src[s.start:s.off]), Line: line}
}
