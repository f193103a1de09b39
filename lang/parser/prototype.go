package parser

import (
	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/scanner"
	"github.com/mna/icc/lang/token"
)

// ParsePrototype parses a single host function prototype: a return type, a
// name, and a parenthesized parameter list. Unlike a regular function
// declaration, parameter names are optional (a host prototype declares only
// the signature the implementation expects, e.g. "void prints(const s8*)")
// and there is no body - the returned *ast.FuncDecl always has a nil Body,
// which is exactly what distinguishes a host prototype from a source-level
// function once parsing is done.
func ParsePrototype(text string) (decl *ast.FuncDecl, err error) {
	src := token.NewSource("<host prototype>", []byte(text))

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

	var p parser
	p.src = src
	p.structNames = make(map[string]bool)
	p.toks = toks
	p.advance()

	ret := p.parseTypeSpec()
	namePos := p.val.Pos
	name := p.val.Raw
	p.expect(token.IDENT)
	ident := &ast.Ident{NamePos: namePos, Name: name}

	fd := &ast.FuncDecl{Pos: ret.Pos, Ret: ret, Name: ident}
	fd.Lparen = p.expect(token.LPAREN)
	for p.tok != token.RPAREN {
		if len(fd.Params) > 0 {
			p.expect(token.COMMA)
		}
		if len(fd.Params) >= MaxParams {
			p.fail(p.val.Pos, "exceeded the maximum number of parameters")
		}
		pt := p.parseTypeSpec()
		param := &ast.Param{Type: pt}
		if p.tok == token.IDENT {
			param.Name = &ast.Ident{NamePos: p.val.Pos, Name: p.val.Raw}
			p.advance()
		}
		fd.Params = append(fd.Params, param)
	}
	fd.Rparen = p.expect(token.RPAREN)
	if p.tok != token.EOF {
		p.errorExpected("end of prototype")
	}
	return fd, nil
}
