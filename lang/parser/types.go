package parser

import (
	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/token"
)

// tryParseTypeSpec attempts to parse a type specifier starting at the
// current token. It returns nil if the current token cannot start a type
// (callers use this to disambiguate casts and to decide whether a
// statement starts with a declaration).
func (p *parser) tryParseTypeSpec() *ast.TypeSpec {
	pos := p.val.Pos
	isConst := false
	if p.tok == token.CONST {
		isConst = true
		p.advance()
	}

	var base token.Token
	var structName *ast.Ident
	switch {
	case p.tok.IsBasicTypeKeyword():
		base = p.tok
		p.advance()
	case p.tok == token.STRUCT:
		p.advance()
		namePos := p.val.Pos
		name := p.val.Raw
		p.expect(token.IDENT)
		base = token.STRUCT
		structName = &ast.Ident{NamePos: namePos, Name: name}
	case p.tok == token.IDENT && p.isStructName(p.val.Raw):
		base = token.STRUCT
		structName = &ast.Ident{NamePos: p.val.Pos, Name: p.val.Raw}
		p.advance()
	default:
		if isConst {
			p.fail(pos, "expected a type name after 'const'")
		}
		return nil
	}

	ts := &ast.TypeSpec{Pos: pos, Const: isConst, Base: base, StructName: structName}
	for p.tok == token.STAR {
		starPos := p.val.Pos
		p.advance()
		if len(ts.Ptrs) >= MaxIndirection {
			p.fail(pos, "exceeded the maximum level of indirection")
		}
		pm := ast.PtrMod{Star: starPos}
		if p.tok == token.CONST {
			pm.Const = true
			p.advance()
		}
		ts.Ptrs = append(ts.Ptrs, pm)
	}
	return ts
}

// parseTypeSpec parses a type specifier, failing if none is present.
func (p *parser) parseTypeSpec() *ast.TypeSpec {
	ts := p.tryParseTypeSpec()
	if ts == nil {
		p.errorExpected("a type name")
	}
	return ts
}

// MaxIndirection mirrors types.MaxIndirection; duplicated here (rather than
// importing lang/types) to keep the parser decoupled from the static type
// model - it only needs the syntactic limit.
const MaxIndirection = 7
