package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := ILLEGAL; tok < maxToken; tok++ {
		require.NotEmpty(t, tok.String(), "token %d", tok)
	}
	require.Equal(t, "illegal token", Token(127).String())
}

func TestTokenGoString(t *testing.T) {
	require.Equal(t, "'+'", PLUS.GoString())
	require.Equal(t, "bool", BOOL.GoString())
}

func TestLookup(t *testing.T) {
	for tok := BOOL; tok < maxToken; tok++ {
		require.Equal(t, tok, Lookup(tok.String()))
	}
	require.Equal(t, IDENT, Lookup("notakeyword"))
	require.Equal(t, IDENT, Lookup("x"))
}

func TestIsBasicTypeKeyword(t *testing.T) {
	for _, tok := range []Token{BOOL, S8, U8, S32, F32, F64, VOID} {
		require.True(t, tok.IsBasicTypeKeyword(), tok)
	}
	for _, tok := range []Token{NULLPTR, CONST, STRUCT, IDENT, IF} {
		require.False(t, tok.IsBasicTypeKeyword(), tok)
	}
}
