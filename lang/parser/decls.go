package parser

import (
	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/token"
)

// parseDecl parses a single top-level declaration: a struct, a function,
// or a global variable.
func (p *parser) parseDecl() ast.Decl {
	if p.tok == token.STRUCT {
		return p.parseStructDecl()
	}

	ts := p.parseTypeSpec()
	namePos := p.val.Pos
	name := p.val.Raw
	p.expect(token.IDENT)
	ident := &ast.Ident{NamePos: namePos, Name: name}

	if p.tok == token.LPAREN {
		return p.parseFuncDecl(ts, ident)
	}
	return p.parseGlobalVarDecl(ts, ident)
}

func (p *parser) parseStructDecl() ast.Decl {
	pos := p.expect(token.STRUCT)
	namePos := p.val.Pos
	name := p.val.Raw
	p.expect(token.IDENT)
	ident := &ast.Ident{NamePos: namePos, Name: name}
	p.structNames[name] = true

	decl := &ast.StructDecl{Pos: pos, Name: ident}
	if p.tok == token.SEMI {
		decl.Semi = p.expect(token.SEMI)
		return decl
	}

	decl.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if len(decl.Members) >= MaxMembers {
			p.fail(p.val.Pos, "exceeded the maximum number of struct members")
		}
		mt := p.parseTypeSpec()
		mNamePos := p.val.Pos
		mName := p.val.Raw
		p.expect(token.IDENT)
		decl.Members = append(decl.Members, &ast.Param{
			Name: &ast.Ident{NamePos: mNamePos, Name: mName},
			Type: mt,
		})
		p.expect(token.SEMI)
	}
	decl.Rbrace = p.expect(token.RBRACE)
	decl.Semi = p.expect(token.SEMI)
	decl.Defined = true
	return decl
}

func (p *parser) parseFuncDecl(ret *ast.TypeSpec, name *ast.Ident) ast.Decl {
	decl := &ast.FuncDecl{Pos: ret.Pos, Ret: ret, Name: name}
	decl.Lparen = p.expect(token.LPAREN)
	for p.tok != token.RPAREN {
		if len(decl.Params) > 0 {
			p.expect(token.COMMA)
		}
		if len(decl.Params) >= MaxParams {
			p.fail(p.val.Pos, "exceeded the maximum number of parameters")
		}
		pt := p.parseTypeSpec()
		pNamePos := p.val.Pos
		pName := p.val.Raw
		p.expect(token.IDENT)
		decl.Params = append(decl.Params, &ast.Param{
			Name: &ast.Ident{NamePos: pNamePos, Name: pName},
			Type: pt,
		})
	}
	decl.Rparen = p.expect(token.RPAREN)
	decl.Body = p.parseBlock()
	return decl
}

func (p *parser) parseGlobalVarDecl(ts *ast.TypeSpec, name *ast.Ident) ast.Decl {
	decl := &ast.GlobalVarDecl{Pos: ts.Pos, Type: ts, Name: name}
	if p.tok == token.ASSIGN {
		decl.Assign = p.expect(token.ASSIGN)
		decl.Init = p.parseExpr()
	}
	decl.Semi = p.expect(token.SEMI)
	return decl
}
