package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakePosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{10, 20},
		{MaxLines, MaxCols},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		require.Equal(t, c.line, gotLine)
		require.Equal(t, c.col, gotCol)
		require.False(t, p.Unknown())
	}
}

func TestPosUnknown(t *testing.T) {
	require.True(t, Pos(0).Unknown())
	require.True(t, MakePos(1, 0).Unknown())
	require.False(t, MakePos(1, 1).Unknown())
}

func TestSourceLine(t *testing.T) {
	src := []byte("first\nsecond\nthird")
	s := NewSource("f.ic", src)
	require.Equal(t, "first", s.Line(1))
	require.Equal(t, "second", s.Line(2))
	require.Equal(t, "third", s.Line(3))
	require.Equal(t, "", s.Line(4))
	require.Equal(t, "", s.Line(0))
}

func TestErrorFormatting(t *testing.T) {
	src := []byte("s32 x = 1 +;\n")
	s := NewSource("bad.ic", src)
	err := &Error{Source: s, Pos: MakePos(1, 12), Msg: "expected expression"}
	require.Equal(t, "bad.ic:1:12: expected expression", err.Error())
	require.Equal(t, "s32 x = 1 +;\n           ^", err.Excerpt())
}
