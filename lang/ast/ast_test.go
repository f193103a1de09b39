package ast_test

import (
	"fmt"
	"testing"

	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/token"
	"github.com/stretchr/testify/require"
)

func TestProgramSpan(t *testing.T) {
	name := &ast.Ident{NamePos: token.MakePos(1, 6), Name: "main"}
	ret := &ast.TypeSpec{Pos: token.MakePos(1, 1), Base: token.S32}
	body := &ast.Block{Lbrace: token.MakePos(1, 14), Rbrace: token.MakePos(1, 15)}
	fn := &ast.FuncDecl{Pos: token.MakePos(1, 1), Ret: ret, Name: name, Body: body}

	prog := &ast.Program{Decls: []ast.Decl{fn}, EOF: token.MakePos(1, 16)}
	start, end := prog.Span()
	require.Equal(t, ret.Pos, start)
	require.Equal(t, body.Rbrace+1, end)
}

func TestWalkVisitsChildren(t *testing.T) {
	x := &ast.Ident{NamePos: token.MakePos(1, 1), Name: "x"}
	y := &ast.IntLit{ValPos: token.MakePos(1, 5), Raw: "1", Val: 1}
	bin := &ast.BinaryExpr{X: x, Op: token.PLUS, Y: y}

	var visited []string
	ast.Walk(ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir == ast.VisitEnter {
			visited = append(visited, fmt.Sprintf("%v", n))
		}
		return ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
			if dir == ast.VisitEnter {
				visited = append(visited, fmt.Sprintf("%v", n))
			}
			return nil
		})
	}), bin)

	require.Len(t, visited, 3) // binary, x, y
	require.Contains(t, visited[0], "binary")
}

func TestTypeSpecDescribe(t *testing.T) {
	ts := &ast.TypeSpec{
		Pos:   token.MakePos(1, 1),
		Const: true,
		Base:  token.S32,
		Ptrs:  []ast.PtrMod{{Const: false}, {Const: true}},
	}
	require.Equal(t, 2, ts.IndirectionLevel())
	require.Equal(t, "const s32 * * const", fmt.Sprintf("%v", ts)[len("type "):])
}
