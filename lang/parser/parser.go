// Package parser implements the recursive-descent parser that transforms
// source code into an abstract syntax tree (ast.Program).
package parser

import (
	"fmt"

	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/scanner"
	"github.com/mna/icc/lang/token"
)

// MaxParams is the maximum number of parameters a function may declare.
const MaxParams = 10

// MaxMembers is the maximum number of members a struct may declare.
const MaxMembers = 50

// Parse parses a single source file into a Program. Parsing is fail-fast:
// it stops and returns at the first error, rather than attempting to
// recover and report multiple errors. The returned error, if non-nil, is
// always a *token.Error.
func Parse(src *token.Source) (prog *ast.Program, err error) {
	var p parser
	p.src = src
	p.structNames = make(map[string]bool)

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*token.Error); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()

	toks, errs := scanner.ScanAll(src)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	p.toks = toks
	p.advance()

	prog = p.parseProgram()
	return prog, nil
}

// parser holds the mutable state of a single parse.
type parser struct {
	src  *token.Source
	toks []scanner.TokenAndValue
	pos  int // index into toks of the current token

	tok token.Token
	val token.Value

	structNames map[string]bool // names of structs declared so far
}

func (p *parser) advance() {
	p.tok = p.toks[p.pos].Token
	p.val = p.toks[p.pos].Value
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

// fail reports an error at pos and aborts the parse via panic, recovered in
// Parse.
func (p *parser) fail(pos token.Pos, msg string) {
	panic(&token.Error{Source: p.src, Pos: pos, Msg: msg})
}

func (p *parser) failf(pos token.Pos, format string, args ...any) {
	p.fail(pos, fmt.Sprintf(format, args...))
}

// expect consumes the current token if it matches tok, otherwise fails.
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.val.Pos
	if p.tok != tok {
		p.errorExpected(tok.GoString())
	}
	p.advance()
	return pos
}

func (p *parser) errorExpected(what string) {
	found := p.tok.GoString()
	if lit := p.literal(); lit != "" {
		found = lit
	}
	p.failf(p.val.Pos, "expected %s, found %s", what, found)
}

// literal renders the current token's payload for error messages, or ""
// if the token kind carries no interesting literal value.
func (p *parser) literal() string {
	switch p.tok {
	case token.IDENT:
		return p.val.Raw
	case token.INT, token.FLOAT:
		return p.val.Raw
	case token.STRING:
		return p.val.Raw
	case token.CHAR:
		return p.val.Raw
	}
	return ""
}

func (p *parser) parseProgram() *ast.Program {
	prog := &ast.Program{Name: p.src.Name}
	for p.tok != token.EOF {
		prog.Decls = append(prog.Decls, p.parseDecl())
	}
	prog.EOF = p.val.Pos
	return prog
}

// isStructName reports whether ident names a struct declared so far, used
// to disambiguate a cast's parenthesized type from a parenthesized
// expression.
func (p *parser) isStructName(ident string) bool {
	return p.structNames[ident]
}
