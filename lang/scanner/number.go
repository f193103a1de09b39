package scanner

import (
	"strconv"

	"github.com/mna/icc/lang/token"
)

// number scans an INT or FLOAT literal. The C subset has no hex/octal/binary
// prefixes or digit separators, so this is considerably simpler than a
// general-purpose number scanner: decimal digits, an optional '.' fractional
// part, and an optional 'e'/'E' exponent.
func (s *Scanner) number(startLine, startCol int) (tok token.Token, lit string) {
	start := s.off
	tok = token.INT

	if s.cur != '.' {
		s.digits()
	}
	if s.cur == '.' {
		tok = token.FLOAT
		s.advance()
		s.digits()
	}
	if s.cur == 'e' || s.cur == 'E' {
		tok = token.FLOAT
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		if !isDecimal(s.cur) {
			s.error(s.line, s.col, "exponent has no digits")
		}
		s.digits()
	}

	lit = string(s.src[start:s.off])
	if tok == token.INT {
		if _, err := strconv.ParseInt(lit, 10, 64); err != nil {
			s.error(startLine, startCol, "integer literal value out of range")
		}
	} else if _, err := strconv.ParseFloat(lit, 64); err != nil {
		s.error(startLine, startCol, "float literal value out of range")
	}
	return tok, lit
}

func (s *Scanner) digits() {
	for isDecimal(s.cur) {
		s.advance()
	}
}

func isDecimal(rn rune) bool {
	return '0' <= rn && rn <= '9'
}

func isHexadecimal(rn rune) bool {
	return isDecimal(rn) ||
		'a' <= rn && rn <= 'f' ||
		'A' <= rn && rn <= 'F'
}

func numberToInt(lit string) int64 {
	v, _ := strconv.ParseInt(lit, 10, 64)
	return v
}

func numberToFloat(lit string) float64 {
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}
