package scanner_test

import (
	"testing"

	"github.com/mna/icc/lang/scanner"
	"github.com/mna/icc/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]scanner.TokenAndValue, []error) {
	t.Helper()
	toks, errs := scanner.ScanAll(token.NewSource(t.Name(), []byte(src)))
	return toks, errs
}

func tokenKinds(toks []scanner.TokenAndValue) []token.Token {
	kinds := make([]token.Token, len(toks))
	for i, tv := range toks {
		kinds[i] = tv.Token
	}
	return kinds
}

func TestScanPunctuationAndKeywords(t *testing.T) {
	toks, errs := scanAll(t, "s32 x = 1 + 2; while (x < 10) { x += 1; }")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.S32, token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT, token.SEMI,
		token.WHILE, token.LPAREN, token.IDENT, token.LT, token.INT, token.RPAREN,
		token.LBRACE, token.IDENT, token.PLUS_ASSIGN, token.INT, token.SEMI, token.RBRACE,
		token.EOF,
	}, tokenKinds(toks))
}

func TestScanCompoundOperators(t *testing.T) {
	toks, errs := scanAll(t, "a++ --b a->b a&&b a||b a!=b a<=b a>=b a==b")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.IDENT, token.INC,
		token.DEC, token.IDENT,
		token.IDENT, token.ARROW, token.IDENT,
		token.IDENT, token.ANDAND, token.IDENT,
		token.IDENT, token.OROR, token.IDENT,
		token.IDENT, token.NEQ, token.IDENT,
		token.IDENT, token.LE, token.IDENT,
		token.IDENT, token.GE, token.IDENT,
		token.IDENT, token.EQL, token.IDENT,
		token.EOF,
	}, tokenKinds(toks))
}

func TestScanNumberLiterals(t *testing.T) {
	toks, errs := scanAll(t, "123 3.14 1e10 .5 2.5e-3")
	require.Empty(t, errs)
	require.Len(t, toks, 6) // 5 literals + EOF

	require.Equal(t, token.INT, toks[0].Token)
	require.Equal(t, int64(123), toks[0].Value.Int)

	require.Equal(t, token.FLOAT, toks[1].Token)
	require.InDelta(t, 3.14, toks[1].Value.Float, 1e-9)

	require.Equal(t, token.FLOAT, toks[2].Token)
	require.InDelta(t, 1e10, toks[2].Value.Float, 1)

	require.Equal(t, token.FLOAT, toks[3].Token)
	require.InDelta(t, 0.5, toks[3].Value.Float, 1e-9)

	require.Equal(t, token.FLOAT, toks[4].Token)
	require.InDelta(t, 2.5e-3, toks[4].Value.Float, 1e-12)
}

func TestScanStringAndCharLiterals(t *testing.T) {
	toks, errs := scanAll(t, `"hello\n" 'a' '\0' '\x41'`)
	require.Empty(t, errs)
	require.Equal(t, token.STRING, toks[0].Token)
	require.Equal(t, "hello\n", toks[0].Value.Str)

	require.Equal(t, token.CHAR, toks[1].Token)
	require.Equal(t, int64('a'), toks[1].Value.Int)

	require.Equal(t, token.CHAR, toks[2].Token)
	require.Equal(t, int64(0), toks[2].Value.Int)

	require.Equal(t, token.CHAR, toks[3].Token)
	require.Equal(t, int64('A'), toks[3].Value.Int)
}

func TestScanComments(t *testing.T) {
	toks, errs := scanAll(t, "s32 x; // trailing comment\n/* block\ncomment */ s32 y;")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.S32, token.IDENT, token.SEMI,
		token.S32, token.IDENT, token.SEMI,
		token.EOF,
	}, tokenKinds(toks))
}

func TestScanErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unterminated string", `"abc`},
		{"unterminated char", `'a`},
		{"unterminated block comment", "/* never closed"},
		{"illegal character", "s32 x = 1 ` 2;"},
		{"unknown escape", `"\q"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, errs := scanAll(t, c.src)
			require.NotEmpty(t, errs)
		})
	}
}

func TestScanPositions(t *testing.T) {
	toks, errs := scanAll(t, "s32\nx")
	require.Empty(t, errs)
	line, col := toks[0].Value.Pos.LineCol()
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = toks[1].Value.Pos.LineCol()
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)
}
