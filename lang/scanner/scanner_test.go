package scanner_test

import (
	"testing"

	"github.com/mna/glox/lang/scanner"
	"github.com/mna/glox/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]scanner.Token, []string) {
	t.Helper()
	var errs []string
	var s scanner.Scanner
	s.Init([]byte(src), func(line int, msg string) {
		errs = append(errs, msg)
	})

	var toks []scanner.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, errs
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, errs := scanAll(t, "(){},.-+;*!!====<=<>>=? :/")
	require.Empty(t, errs)
	want := []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA,
		token.DOT, token.MINUS, token.PLUS, token.SEMI, token.STAR,
		token.BANG, token.BANG_EQ, token.EQ_EQ, token.EQ, token.LE, token.LT,
		token.GT, token.GE, token.QUESTION, token.COLON, token.SLASH, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equal(t, w, toks[i].Kind, "token %d", i)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, errs := scanAll(t, "var x = orchid and continue")
	require.Empty(t, errs)
	require.Equal(t, token.VAR, toks[0].Kind)
	require.Equal(t, token.IDENT, toks[1].Kind)
	require.Equal(t, "x", toks[1].Lexeme)
	require.Equal(t, token.EQ, toks[2].Kind)
	require.Equal(t, token.IDENT, toks[3].Kind, "orchid is not the keyword 'or'")
	require.Equal(t, token.AND, toks[4].Kind)
	require.Equal(t, token.CONTINUE, toks[5].Kind)
}

func TestScanNumbers(t *testing.T) {
	toks, errs := scanAll(t, "123 1_000 3.14 0.5")
	require.Empty(t, errs)
	for i, want := range []string{"123", "1_000", "3.14", "0.5"} {
		require.Equal(t, token.NUMBER, toks[i].Kind)
		require.Equal(t, want, toks[i].Lexeme)
	}

	f, err := scanner.ParseNumber(toks[1].Lexeme)
	require.NoError(t, err)
	require.Equal(t, 1000.0, f)
}

func TestScanStringsAndLines(t *testing.T) {
	toks, errs := scanAll(t, "\"he\" + \"llo\nworld\"")
	require.Empty(t, errs)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, `"he"`, toks[0].Lexeme)
	require.Equal(t, 1, toks[0].Line)

	require.Equal(t, token.STRING, toks[2].Kind)
	require.Equal(t, 1, toks[2].Line, "the string token starts on line 1 even though it spans to line 2")
}

func TestScanUnterminatedString(t *testing.T) {
	toks, errs := scanAll(t, `"oops`)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "Unterminated string")
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
}

func TestScanLineComment(t *testing.T) {
	toks, errs := scanAll(t, "1 // a comment\n2")
	require.Empty(t, errs)
	require.Equal(t, token.NUMBER, toks[0].Kind)
	require.Equal(t, "1", toks[0].Lexeme)
	require.Equal(t, token.NUMBER, toks[1].Kind)
	require.Equal(t, "2", toks[1].Lexeme)
	require.Equal(t, 2, toks[1].Line)
}

func TestScanIllegalCharacter(t *testing.T) {
	_, errs := scanAll(t, "@")
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "Unexpected character")
}
