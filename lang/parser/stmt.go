package parser

import (
	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/token"
)

func (p *parser) parseBlock() *ast.Block {
	block := &ast.Block{}
	block.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		block.Stmts = append(block.Stmts, p.parseStmt())
	}
	block.Rbrace = p.expect(token.RBRACE)
	return block
}

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		pos := p.expect(token.BREAK)
		semi := p.expect(token.SEMI)
		return &ast.BreakStmt{Break: pos, Semi: semi}
	case token.CONTINUE:
		pos := p.expect(token.CONTINUE)
		semi := p.expect(token.SEMI)
		return &ast.ContinueStmt{Continue: pos, Semi: semi}
	default:
		if ts := p.tryParseTypeSpec(); ts != nil {
			return p.parseVarDeclStmt(ts)
		}
		return p.parseExprStmt()
	}
}

// parseIfStmt parses an if, or if/else, statement. A condition that is a
// bare top-level assignment is rejected; wrapping it in extra parentheses
// produces a ParenExpr instead, which is accepted as deliberate.
func (p *parser) parseIfStmt() ast.Stmt {
	ifPos := p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	if _, ok := cond.(*ast.AssignExpr); ok {
		p.fail(ifPos, "assignment used as if condition, wrap in parentheses if intended")
	}
	p.expect(token.RPAREN)
	then := p.parseBlock()

	stmt := &ast.IfStmt{If: ifPos, Cond: cond, Then: then}
	if p.tok == token.ELSE {
		p.advance()
		if p.tok == token.IF {
			stmt.Else = p.parseIfStmt()
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

func (p *parser) parseWhileStmt() ast.Stmt {
	whilePos := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.WhileStmt{While: whilePos, Cond: cond, Body: body}
}

func (p *parser) parseForStmt() ast.Stmt {
	forPos := p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Stmt
	if p.tok == token.SEMI {
		p.expect(token.SEMI)
	} else if ts := p.tryParseTypeSpec(); ts != nil {
		init = p.parseVarDeclStmt(ts)
	} else {
		init = p.parseExprStmt()
	}

	var cond ast.Expr
	if p.tok != token.SEMI {
		cond = p.parseExpr()
	}
	p.expect(token.SEMI)

	var post ast.Stmt
	if p.tok != token.RPAREN {
		x := p.parseExpr()
		post = &ast.ExprStmt{X: x, Semi: p.val.Pos}
	}
	p.expect(token.RPAREN)

	body := p.parseBlock()
	return &ast.ForStmt{For: forPos, Init: init, Cond: cond, Post: post, Body: body}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	retPos := p.expect(token.RETURN)
	var x ast.Expr
	if p.tok != token.SEMI {
		x = p.parseExpr()
	}
	semi := p.expect(token.SEMI)
	return &ast.ReturnStmt{Return: retPos, X: x, Semi: semi}
}

func (p *parser) parseVarDeclStmt(ts *ast.TypeSpec) ast.Stmt {
	namePos := p.val.Pos
	name := p.val.Raw
	p.expect(token.IDENT)

	decl := &ast.VarDeclStmt{Pos: ts.Pos, Type: ts, Name: &ast.Ident{NamePos: namePos, Name: name}}
	if p.tok == token.ASSIGN {
		decl.Assign = p.expect(token.ASSIGN)
		decl.Init = p.parseExpr()
	}
	decl.Semi = p.expect(token.SEMI)
	return decl
}

func (p *parser) parseExprStmt() ast.Stmt {
	x := p.parseExpr()
	semi := p.expect(token.SEMI)
	return &ast.ExprStmt{X: x, Semi: semi}
}
