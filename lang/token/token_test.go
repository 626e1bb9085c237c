package token_test

import (
	"testing"

	"github.com/mna/glox/lang/token"
	"github.com/stretchr/testify/require"
)

func TestLookupIdent(t *testing.T) {
	cases := []struct {
		lit  string
		want token.Token
	}{
		{"and", token.AND},
		{"class", token.CLASS},
		{"continue", token.CONTINUE},
		{"orchid", token.IDENT},
		{"printer", token.IDENT},
	}
	for _, c := range cases {
		require.Equal(t, c.want, token.LookupIdent(c.lit), c.lit)
	}
}

func TestString(t *testing.T) {
	require.Equal(t, "+", token.PLUS.String())
	require.Equal(t, "while", token.WHILE.String())
	require.Equal(t, "unknown", token.Token(123).String())
}
