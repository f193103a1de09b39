// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanner

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mna/icc/lang/token"
)

// TokenAndValue combines the token type with the token value type in the
// same struct.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanAll tokenizes src in full, recording any scanning errors on errs
// (which always reports as *token.Error). It always produces a final EOF
// token, even in the presence of errors, so the parser can proceed on a
// best-effort basis.
func ScanAll(src *token.Source) (toks []TokenAndValue, errs []error) {
	var (
		s      Scanner
		tokVal token.Value
	)
	s.Init(src.Bytes(), func(pos token.Pos, msg string) {
		errs = append(errs, &token.Error{Source: src, Pos: pos, Msg: msg})
	})
	for {
		tok := s.Scan(&tokVal)
		toks = append(toks, TokenAndValue{Token: tok, Value: tokVal})
		if tok == token.EOF {
			break
		}
	}
	return toks, errs
}

// Scanner tokenizes a single source file for the parser to consume.
type Scanner struct {
	// immutable state after Init
	src []byte
	err func(pos token.Pos, msg string)

	// mutable scanning state
	sb   strings.Builder // writes to Builder never fail, so errors are ignored
	cur  rune            // current character
	off  int             // byte offset of cur
	roff int             // reading offset in bytes (position after cur)
	line int             // 1-based line of cur
	col  int             // 1-based column of cur
}

// Init initializes the scanner to tokenize src, reporting any lexical
// errors to errHandler.
func (s *Scanner) Init(src []byte, errHandler func(token.Pos, string)) {
	s.src = src
	s.err = errHandler

	s.sb.Reset()
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0

	s.advance()
}

// peek returns the byte following the most recently read character without
// advancing the scanner. If the scanner is at EOF, peek returns 0.
func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// advance reads the next Unicode char into s.cur; s.cur < 0 means
// end-of-file.
func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}

	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}

	s.off = s.roff
	s.col++

	// fast path if the rune is an ASCII char, no decoding necessary
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.line, s.col, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(line, col int, msg string) {
	if s.err != nil {
		s.err(token.MakePos(line, col), msg)
	}
}

func (s *Scanner) errorf(line, col int, format string, args ...any) {
	s.error(line, col, fmt.Sprintf(format, args...))
}

// advanceIf advances past cur only if it matches one of the given bytes.
func (s *Scanner) advanceIf(matches ...byte) bool {
	if bytes.ContainsRune(matches, s.cur) {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token in the source, filling tokVal with its
// payload.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespaceAndComments()

	pos := token.MakePos(s.line, s.col)
	start := s.off
	startLine, startCol := s.line, s.col

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok = token.IDENT
		if len(lit) > 1 {
			tok = token.Lookup(lit)
		}
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case isDecimal(cur) || (cur == '.' && isDecimal(rune(s.peek()))):
		var lit string
		tok, lit = s.number(startLine, startCol)
		*tokVal = token.Value{Raw: lit, Pos: pos}
		if tok == token.INT {
			tokVal.Int = numberToInt(lit)
		} else if tok == token.FLOAT {
			tokVal.Float = numberToFloat(lit)
		}

	default:
		s.advance() // always make progress
		switch cur {
		case '"':
			tok = token.STRING
			lit, val := s.shortString('"', startLine, startCol)
			*tokVal = token.Value{Raw: lit, Pos: pos, Str: val}

		case '\'':
			tok = token.CHAR
			lit, val := s.charLiteral(startLine, startCol)
			*tokVal = token.Value{Raw: lit, Pos: pos, Int: int64(val)}

		case '(':
			tok = token.LPAREN
		case ')':
			tok = token.RPAREN
		case '[':
			tok = token.LBRACK
		case ']':
			tok = token.RBRACK
		case '{':
			tok = token.LBRACE
		case '}':
			tok = token.RBRACE
		case ',':
			tok = token.COMMA
		case ';':
			tok = token.SEMI
		case ':':
			tok = token.COLON

		case '=':
			tok = token.ASSIGN
			if s.advanceIf('=') {
				tok = token.EQL
			}
		case '!':
			tok = token.NOT
			if s.advanceIf('=') {
				tok = token.NEQ
			}
		case '<':
			tok = token.LT
			if s.advanceIf('=') {
				tok = token.LE
			}
		case '>':
			tok = token.GT
			if s.advanceIf('=') {
				tok = token.GE
			}
		case '&':
			tok = token.AMP
			if s.advanceIf('&') {
				tok = token.ANDAND
			}
		case '|':
			if s.advanceIf('|') {
				tok = token.OROR
			} else {
				s.errorf(startLine, startCol, "illegal character %#U", cur)
				tok = token.ILLEGAL
			}
		case '.':
			tok = token.DOT
		case '+':
			tok = token.PLUS
			switch {
			case s.advanceIf('+'):
				tok = token.INC
			case s.advanceIf('='):
				tok = token.PLUS_ASSIGN
			}
		case '-':
			tok = token.MINUS
			switch {
			case s.advanceIf('-'):
				tok = token.DEC
			case s.advanceIf('='):
				tok = token.MINUS_ASSIGN
			case s.advanceIf('>'):
				tok = token.ARROW
			}
		case '*':
			tok = token.STAR
			if s.advanceIf('=') {
				tok = token.STAR_ASSIGN
			}
		case '/':
			tok = token.SLASH
			if s.advanceIf('=') {
				tok = token.SLASH_ASSIGN
			}
		case '%':
			tok = token.PERCENT

		case -1:
			tok = token.EOF

		default:
			s.errorf(startLine, startCol, "illegal character %#U", cur)
			tok = token.ILLEGAL
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
	}
	return tok
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

// skipWhitespaceAndComments skips spaces, tabs, newlines, "//" line comments
// and "/* */" block comments.
func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		case s.cur == '/' && s.peek() == '*':
			line, col := s.line, s.col
			s.advance()
			s.advance()
			closed := false
			for s.cur != -1 {
				if s.cur == '*' && s.peek() == '/' {
					s.advance()
					s.advance()
					closed = true
					break
				}
				s.advance()
			}
			if !closed {
				s.error(line, col, "comment not terminated")
			}
		default:
			return
		}
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return isDecimal(rn) || rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}
