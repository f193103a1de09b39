package compiler

import (
	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/types"
)

// compileBlock compiles each statement of b in its own nested scope.
func (f *fcomp) compileBlock(b *ast.Block) error {
	f.c.scope.pushBlock()
	defer f.c.scope.popBlock()
	for _, s := range b.Stmts {
		if err := f.compileStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (f *fcomp) compileStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Block:
		return f.compileBlock(s)
	case *ast.VarDeclStmt:
		return f.compileVarDeclStmt(s)
	case *ast.ExprStmt:
		return f.compileExprStmt(s)
	case *ast.IfStmt:
		return f.compileIfStmt(s)
	case *ast.WhileStmt:
		return f.compileWhileStmt(s)
	case *ast.ForStmt:
		return f.compileForStmt(s)
	case *ast.ReturnStmt:
		return f.compileReturnStmt(s)
	case *ast.BreakStmt:
		return f.compileBreakStmt(s)
	case *ast.ContinueStmt:
		return f.compileContinueStmt(s)
	}
	pos, _ := s.Span()
	return f.c.errf(pos, "unsupported statement %T", s)
}

func (f *fcomp) compileVarDeclStmt(s *ast.VarDeclStmt) error {
	t, err := f.c.resolveType(s.Type)
	if err != nil {
		return err
	}
	if t.IsVoid() {
		return f.c.errf(s.Pos, "variable %q cannot have type void", s.Name.Name)
	}
	l := f.c.scope.declareLocal(s.Name.Name, t)

	if s.Init == nil {
		return nil
	}
	f.buf.emit4(ADDRESS, uint32(l.slot))
	f.track(1)
	rt, err := f.compileExpr(s.Init)
	if err != nil {
		return err
	}
	if err := f.convertAssignable(s.Assign, rt, t); err != nil {
		return err
	}
	f.storeToAddress(t)
	cells := types.DataCellSize(t)
	f.buf.emit4(POP_MANY, uint32(cells))
	f.track(-cells)
	return nil
}

func (f *fcomp) compileExprStmt(s *ast.ExprStmt) error {
	t, err := f.compileExpr(s.X)
	if err != nil {
		return err
	}
	if !t.IsVoid() {
		cells := types.DataCellSize(t)
		f.buf.emit4(POP_MANY, uint32(cells))
		f.track(-cells)
	}
	return nil
}

func (f *fcomp) compileIfStmt(s *ast.IfStmt) error {
	ct, err := f.compileExpr(s.Cond)
	if err != nil {
		return err
	}
	if ct.Kind != types.Bool || ct.IsPointer() {
		return f.c.errf(s.If, "if condition must be bool")
	}

	elseJump := f.buf.emit4(JUMP_IF_FALSE, 0)
	f.track(-1)
	if err := f.compileBlock(s.Then); err != nil {
		return err
	}

	if s.Else == nil {
		f.buf.patch(elseJump, f.buf.pos())
		return nil
	}

	endJump := f.buf.emit4(JUMP, 0)
	f.buf.patch(elseJump, f.buf.pos())
	switch e := s.Else.(type) {
	case *ast.Block:
		if err := f.compileBlock(e); err != nil {
			return err
		}
	case *ast.IfStmt:
		if err := f.compileIfStmt(e); err != nil {
			return err
		}
	}
	f.buf.patch(endJump, f.buf.pos())
	return nil
}

func (f *fcomp) compileWhileStmt(s *ast.WhileStmt) error {
	f.pushLoop()
	top := f.buf.pos()

	ct, err := f.compileExpr(s.Cond)
	if err != nil {
		return err
	}
	if ct.Kind != types.Bool || ct.IsPointer() {
		return f.c.errf(s.While, "while condition must be bool")
	}
	exit := f.buf.emit4(JUMP_IF_FALSE, 0)
	f.track(-1)

	if err := f.compileBlock(s.Body); err != nil {
		return err
	}
	f.buf.emit4(JUMP, top)

	loop := f.popLoop()
	f.buf.patch(exit, f.buf.pos())
	for _, b := range loop.breaks {
		f.buf.patch(b, f.buf.pos())
	}
	for _, c := range loop.continues {
		f.buf.patch(c, top)
	}
	return nil
}

func (f *fcomp) compileForStmt(s *ast.ForStmt) error {
	f.c.scope.pushBlock()
	defer f.c.scope.popBlock()

	if s.Init != nil {
		if err := f.compileStmt(s.Init); err != nil {
			return err
		}
	}

	f.pushLoop()
	top := f.buf.pos()

	var exit uint32
	hasCond := s.Cond != nil
	if hasCond {
		ct, err := f.compileExpr(s.Cond)
		if err != nil {
			return err
		}
		if ct.Kind != types.Bool || ct.IsPointer() {
			return f.c.errf(s.For, "for condition must be bool")
		}
		exit = f.buf.emit4(JUMP_IF_FALSE, 0)
		f.track(-1)
	}

	if err := f.compileBlock(s.Body); err != nil {
		return err
	}

	postTarget := f.buf.pos()
	if s.Post != nil {
		if err := f.compileStmt(s.Post); err != nil {
			return err
		}
	}
	f.buf.emit4(JUMP, top)

	loop := f.popLoop()
	end := f.buf.pos()
	if hasCond {
		f.buf.patch(exit, end)
	}
	for _, b := range loop.breaks {
		f.buf.patch(b, end)
	}
	for _, c := range loop.continues {
		f.buf.patch(c, postTarget)
	}
	return nil
}

func (f *fcomp) compileReturnStmt(s *ast.ReturnStmt) error {
	if s.X == nil {
		if !f.retType.IsVoid() {
			return f.c.errf(s.Return, "missing return value")
		}
		f.buf.emit1(RETURN, 0)
		return nil
	}
	if f.retType.IsVoid() {
		return f.c.errf(s.Return, "void function must not return a value")
	}
	rt, err := f.compileExpr(s.X)
	if err != nil {
		return err
	}
	if err := f.convertAssignable(s.Return, rt, f.retType); err != nil {
		return err
	}
	cells := types.DataCellSize(f.retType)
	f.buf.emit1(RETURN, uint8(cells))
	f.track(-cells)
	return nil
}

func (f *fcomp) compileBreakStmt(s *ast.BreakStmt) error {
	loop := f.currentLoop()
	if loop == nil {
		return f.c.errf(s.Break, "break outside of a loop")
	}
	pos := f.buf.emit4(JUMP, 0)
	loop.breaks = append(loop.breaks, pos)
	return nil
}

func (f *fcomp) compileContinueStmt(s *ast.ContinueStmt) error {
	loop := f.currentLoop()
	if loop == nil {
		return f.c.errf(s.Continue, "continue outside of a loop")
	}
	pos := f.buf.emit4(JUMP, 0)
	loop.continues = append(loop.continues, pos)
	return nil
}
