package parser

import (
	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/token"
)

// mark captures enough parser state to backtrack, used to disambiguate a
// cast's parenthesized type from a parenthesized expression.
type mark struct {
	pos int
	tok token.Token
	val token.Value
}

func (p *parser) mark() mark { return mark{pos: p.pos, tok: p.tok, val: p.val} }

func (p *parser) reset(m mark) {
	p.pos, p.tok, p.val = m.pos, m.tok, m.val
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssign()
}

func (p *parser) parseAssign() ast.Expr {
	left := p.parseLogicalOr()
	switch p.tok {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN:
		opPos, op := p.val.Pos, p.tok
		p.advance()
		right := p.parseAssign() // right-associative
		return &ast.AssignExpr{Left: left, OpPos: opPos, Op: op, Right: right}
	}
	return left
}

func (p *parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.tok == token.OROR {
		opPos, op := p.val.Pos, p.tok
		p.advance()
		right := p.parseLogicalAnd()
		left = &ast.BinaryExpr{X: left, OpPos: opPos, Op: op, Y: right}
	}
	return left
}

func (p *parser) parseLogicalAnd() ast.Expr {
	left := p.parseEquality()
	for p.tok == token.ANDAND {
		opPos, op := p.val.Pos, p.tok
		p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{X: left, OpPos: opPos, Op: op, Y: right}
	}
	return left
}

func (p *parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.tok == token.EQL || p.tok == token.NEQ {
		opPos, op := p.val.Pos, p.tok
		p.advance()
		right := p.parseRelational()
		left = &ast.BinaryExpr{X: left, OpPos: opPos, Op: op, Y: right}
	}
	return left
}

func (p *parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for p.tok == token.LT || p.tok == token.LE || p.tok == token.GT || p.tok == token.GE {
		opPos, op := p.val.Pos, p.tok
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{X: left, OpPos: opPos, Op: op, Y: right}
	}
	return left
}

func (p *parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.tok == token.PLUS || p.tok == token.MINUS {
		opPos, op := p.val.Pos, p.tok
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{X: left, OpPos: opPos, Op: op, Y: right}
	}
	return left
}

func (p *parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.tok == token.STAR || p.tok == token.SLASH || p.tok == token.PERCENT {
		opPos, op := p.val.Pos, p.tok
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{X: left, OpPos: opPos, Op: op, Y: right}
	}
	return left
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok {
	case token.NOT, token.AMP, token.STAR, token.MINUS, token.INC, token.DEC:
		opPos, op := p.val.Pos, p.tok
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{OpPos: opPos, Op: op, X: x}
	case token.SIZEOF:
		return p.parseSizeof()
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parseSizeof() ast.Expr {
	pos := p.expect(token.SIZEOF)
	lparen := p.expect(token.LPAREN)

	m := p.mark()
	if ts := p.tryParseTypeSpec(); ts != nil && p.tok == token.RPAREN {
		rparen := p.expect(token.RPAREN)
		return &ast.SizeofExpr{Pos: pos, Lparen: lparen, Type: ts, Rparen: rparen}
	}
	p.reset(m)

	x := p.parseExpr()
	rparen := p.expect(token.RPAREN)
	return &ast.SizeofExpr{Pos: pos, Lparen: lparen, X: x, Rparen: rparen}
}

func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.tok {
		case token.LPAREN:
			x = p.parseCall(x)
		case token.LBRACK:
			lbrack := p.expect(token.LBRACK)
			idx := p.parseExpr()
			rbrack := p.expect(token.RBRACK)
			x = &ast.IndexExpr{X: x, Lbrack: lbrack, Index: idx, Rbrack: rbrack}
		case token.DOT, token.ARROW:
			arrow := p.tok == token.ARROW
			opPos := p.val.Pos
			p.advance()
			namePos, name := p.val.Pos, p.val.Raw
			p.expect(token.IDENT)
			x = &ast.SelectorExpr{X: x, OpPos: opPos, Arrow: arrow, Sel: &ast.Ident{NamePos: namePos, Name: name}}
		case token.INC, token.DEC:
			op, opPos := p.tok, p.val.Pos
			p.advance()
			x = &ast.PostfixExpr{X: x, Op: op, OpPos: opPos}
		default:
			return x
		}
	}
}

func (p *parser) parseCall(fun ast.Expr) ast.Expr {
	id, ok := fun.(*ast.Ident)
	if !ok {
		p.fail(p.val.Pos, "calls are only allowed on a function name")
	}
	lparen := p.expect(token.LPAREN)
	var args []ast.Expr
	for p.tok != token.RPAREN {
		if len(args) > 0 {
			p.expect(token.COMMA)
		}
		if len(args) >= MaxParams {
			p.fail(p.val.Pos, "exceeded the maximum number of arguments")
		}
		args = append(args, p.parseExpr())
	}
	rparen := p.expect(token.RPAREN)
	return &ast.CallExpr{Fun: id, Lparen: lparen, Args: args, Rparen: rparen}
}

// parseParenOrCast disambiguates a leading "(" as either a cast of a type
// specifier or a parenthesized expression, backtracking if a tentative type
// parse doesn't end up followed by ")".
func (p *parser) parseParenOrCast() ast.Expr {
	lparen := p.expect(token.LPAREN)

	m := p.mark()
	if ts := p.tryParseTypeSpec(); ts != nil && p.tok == token.RPAREN {
		rparen := p.expect(token.RPAREN)
		x := p.parseUnary()
		return &ast.CastExpr{Lparen: lparen, Type: ts, Rparen: rparen, X: x}
	}
	p.reset(m)

	x := p.parseExpr()
	rparen := p.expect(token.RPAREN)
	return &ast.ParenExpr{Lparen: lparen, X: x, Rparen: rparen}
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.INT:
		pos, raw, v := p.val.Pos, p.val.Raw, p.val.Int
		p.advance()
		return &ast.IntLit{ValPos: pos, Raw: raw, Val: v}
	case token.FLOAT:
		pos, raw, v := p.val.Pos, p.val.Raw, p.val.Float
		p.advance()
		return &ast.FloatLit{ValPos: pos, Raw: raw, Val: v}
	case token.CHAR:
		pos, raw, v := p.val.Pos, p.val.Raw, p.val.Int
		p.advance()
		return &ast.CharLit{ValPos: pos, Raw: raw, Val: byte(v)}
	case token.STRING:
		pos, raw, v := p.val.Pos, p.val.Raw, p.val.Str
		p.advance()
		return &ast.StringLit{ValPos: pos, Raw: raw, Val: v}
	case token.TRUE:
		pos := p.val.Pos
		p.advance()
		return &ast.BoolLit{ValPos: pos, Val: true}
	case token.FALSE:
		pos := p.val.Pos
		p.advance()
		return &ast.BoolLit{ValPos: pos, Val: false}
	case token.NULLPTR:
		pos := p.val.Pos
		p.advance()
		return &ast.NullptrLit{ValPos: pos}
	case token.IDENT:
		pos, name := p.val.Pos, p.val.Raw
		p.advance()
		return &ast.Ident{NamePos: pos, Name: name}
	case token.LPAREN:
		return p.parseParenOrCast()
	default:
		p.errorExpected("an expression")
		panic("unreachable")
	}
}
