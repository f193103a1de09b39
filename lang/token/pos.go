package token

import "fmt"

const (
	lineBits = 18
	colBits  = 32 - lineBits

	// MaxLines is the maximum 1-based line number value that can be encoded in
	// Pos.
	MaxLines = (1 << lineBits) - 1
	// MaxCols is the maximum 1-based column number value that can be encoded in
	// Pos.
	MaxCols = (1 << colBits) - 1

	lineMask = MaxLines
	colMask  = MaxCols
)

// Pos is an efficient encoding of a 1-based line and column position in a
// 32-bit unsigned integer. A value of 0 for either line or column should be
// interpreted as "unknown".
type Pos uint32

// MakePos creates a Pos value encoding the provided line and col. It is the
// caller's responsibility to ensure the values are > 0 and <= the maximum
// allowed.
func MakePos(line, col int) Pos {
	return Pos(col<<lineBits | line)
}

// LineCol returns the line and column values encoded in Pos.
func (p Pos) LineCol() (int, int) {
	l := p & lineMask
	c := (p >> lineBits) & colMask
	return int(l), int(c)
}

// Unknown returns true if either line or column value is unknown.
func (p Pos) Unknown() bool {
	l, c := p.LineCol()
	return l == 0 || c == 0
}

// Source holds the filename and raw source text of a single compiled file.
// Multi-file linkage is out of scope for this compiler (spec Non-goals), so
// unlike the teacher's token.FileSet, Source tracks exactly one file.
type Source struct {
	Name string
	src  []byte
	// byte offset of the start of each line, lines[0] == 0
	lines []int
}

// NewSource indexes src's line boundaries so that Line can later resolve a
// Pos to a source excerpt for diagnostics.
func NewSource(name string, src []byte) *Source {
	s := &Source{Name: name, src: src, lines: []int{0}}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			s.lines = append(s.lines, i+1)
		}
	}
	return s
}

// Bytes returns the raw source text.
func (s *Source) Bytes() []byte {
	return s.src
}

// Line returns the raw text of the given 1-based line number, without the
// trailing newline.
func (s *Source) Line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	start := s.lines[n-1]
	end := len(s.src)
	if n < len(s.lines) {
		end = s.lines[n] - 1
	}
	for end > start && (s.src[end-1] == '\n' || s.src[end-1] == '\r') {
		end--
	}
	return string(s.src[start:end])
}

// Error is a single diagnostic tied to a Pos in a Source.
type Error struct {
	Source *Source
	Pos    Pos
	Msg    string
}

func (e *Error) Error() string {
	line, col := e.Pos.LineCol()
	name := "<input>"
	if e.Source != nil && e.Source.Name != "" {
		name = e.Source.Name
	}
	if line == 0 {
		return fmt.Sprintf("%s: %s", name, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", name, line, col, e.Msg)
}

// Excerpt renders the offending source line followed by a caret pointing at
// the column of the error, for CLI presentation (spec §7 policy).
func (e *Error) Excerpt() string {
	if e.Source == nil {
		return ""
	}
	line, col := e.Pos.LineCol()
	if line == 0 {
		return ""
	}
	text := e.Source.Line(line)
	if col < 1 {
		col = 1
	}
	caret := make([]byte, 0, col)
	for i := 1; i < col; i++ {
		if i-1 < len(text) && text[i-1] == '\t' {
			caret = append(caret, '\t')
		} else {
			caret = append(caret, ' ')
		}
	}
	caret = append(caret, '^')
	return text + "\n" + string(caret)
}
