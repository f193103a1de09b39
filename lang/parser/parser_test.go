package parser_test

import (
	"testing"

	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/parser"
	"github.com/mna/icc/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(token.NewSource(t.Name(), []byte(src)))
	require.NoError(t, err)
	return prog
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	_, err := parser.Parse(token.NewSource(t.Name(), []byte(src)))
	require.Error(t, err)
	return err
}

func TestParseGlobalVarDecl(t *testing.T) {
	prog := parse(t, "s32 x = 1;")
	require.Len(t, prog.Decls, 1)
	decl, ok := prog.Decls[0].(*ast.GlobalVarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name.Name)
	assert.Equal(t, token.S32, decl.Type.Base)
	require.NotNil(t, decl.Init)
}

func TestParseFuncDeclWithParams(t *testing.T) {
	prog := parse(t, "s32 add(s32 a, s32 b) { return a + b; }")
	require.Len(t, prog.Decls, 1)
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name.Name)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.X.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, bin.Op)
}

func TestParseStructDecl(t *testing.T) {
	prog := parse(t, `
		struct point { s32 x; s32 y; };
		point origin;
	`)
	require.Len(t, prog.Decls, 2)
	sd, ok := prog.Decls[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.True(t, sd.Defined)
	require.Len(t, sd.Members, 2)

	gv, ok := prog.Decls[1].(*ast.GlobalVarDecl)
	require.True(t, ok)
	assert.Equal(t, token.STRUCT, gv.Type.Base)
	require.NotNil(t, gv.Type.StructName)
	assert.Equal(t, "point", gv.Type.StructName.Name)
}

func TestParseForwardStructDecl(t *testing.T) {
	prog := parse(t, "struct node;")
	sd, ok := prog.Decls[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.False(t, sd.Defined)
}

func TestParsePointerTypeSpec(t *testing.T) {
	prog := parse(t, "const s32 * const * p;")
	decl := prog.Decls[0].(*ast.GlobalVarDecl)
	require.Len(t, decl.Type.Ptrs, 2)
	assert.True(t, decl.Type.Const)
	assert.True(t, decl.Type.Ptrs[0].Const)
	assert.False(t, decl.Type.Ptrs[1].Const)
}

func TestParseCastVsParenExpr(t *testing.T) {
	prog := parse(t, `
		struct point { s32 x; };
		s32 f() {
			s32 a = (s32)1;
			s32 b = (a);
			return a + b;
		}
	`)
	fn := prog.Decls[1].(*ast.FuncDecl)
	a := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	_, isCast := a.Init.(*ast.CastExpr)
	assert.True(t, isCast)

	b := fn.Body.Stmts[1].(*ast.VarDeclStmt)
	_, isParen := b.Init.(*ast.ParenExpr)
	assert.True(t, isParen)
}

func TestParseSizeofTypeAndExpr(t *testing.T) {
	prog := parse(t, `
		s32 f() {
			s32 a = sizeof(s32);
			s32 b = sizeof(a);
			return a + b;
		}
	`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	a := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	sz := a.Init.(*ast.SizeofExpr)
	require.NotNil(t, sz.Type)
	require.Nil(t, sz.X)

	b := fn.Body.Stmts[1].(*ast.VarDeclStmt)
	sz2 := b.Init.(*ast.SizeofExpr)
	require.Nil(t, sz2.Type)
	require.NotNil(t, sz2.X)
}

func TestParseIfElseIfChain(t *testing.T) {
	prog := parse(t, `
		s32 f(s32 x) {
			if (x < 0) {
				return -1;
			} else if (x == 0) {
				return 0;
			} else {
				return 1;
			}
		}
	`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	ifs := fn.Body.Stmts[0].(*ast.IfStmt)
	require.NotNil(t, ifs.Else)
	elseIf, ok := ifs.Else.(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, elseIf.Else)
	_, ok = elseIf.Else.(*ast.Block)
	assert.True(t, ok)
}

func TestParseBareAssignInIfConditionIsError(t *testing.T) {
	err := parseErr(t, `
		s32 f(s32 x) {
			if (x = 1) {
				return x;
			}
			return 0;
		}
	`)
	assert.Contains(t, err.Error(), "assignment used as if condition")
}

func TestParseForLoop(t *testing.T) {
	prog := parse(t, `
		s32 f() {
			s32 sum = 0;
			for (s32 i = 0; i < 10; i += 1) {
				sum += i;
			}
			return sum;
		}
	`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	fs, ok := fn.Body.Stmts[1].(*ast.ForStmt)
	require.True(t, ok)
	require.NotNil(t, fs.Init)
	require.NotNil(t, fs.Cond)
	require.NotNil(t, fs.Post)
}

func TestParseArrowSelector(t *testing.T) {
	prog := parse(t, `
		struct pair { s32 a; s32 b; };
		s32 get(pair * p, s32 i) {
			return p->a + i;
		}
	`)
	fn := prog.Decls[1].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	bin := ret.X.(*ast.BinaryExpr)
	sel, ok := bin.X.(*ast.SelectorExpr)
	require.True(t, ok)
	assert.True(t, sel.Arrow)
	assert.Equal(t, "a", sel.Sel.Name)
}

func TestParseUnterminatedBlockIsError(t *testing.T) {
	parseErr(t, "s32 f() { return 1;")
}

func TestParseMaxIndirectionExceeded(t *testing.T) {
	err := parseErr(t, "s32 ********p;")
	require.Error(t, err)
}
