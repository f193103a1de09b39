package compiler

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/token"
	"github.com/mna/icc/lang/types"
	"golang.org/x/exp/slices"
)

// CompileProgram type-checks and compiles an entire parsed source file,
// producing a directly executable Program. There is no separate
// optimization or linking stage: a first pass registers every struct,
// function and global declaration, and a second pass compiles only the
// functions reachable from main, so an unreachable function's body is
// never compiled. hostPrototypes declares the libraries selected for this compile
// (see lang/corelib) as callable functions with no compiled body, resolved
// against a host implementation at load time.
func CompileProgram(prog *ast.Program, hostPrototypes ...string) (*Program, error) {
	c := &compiler{
		scope: newScope(),
		prog:  &Program{Structs: make(map[string]*types.Struct)},
	}

	if err := c.declareHostPrototypes(hostPrototypes); err != nil {
		return nil, err
	}

	// Pass 1: register struct shapes and function/global signatures so
	// forward references (mutual recursion, calls to functions declared
	// later in the file) resolve.
	for _, d := range prog.Decls {
		if sd, ok := d.(*ast.StructDecl); ok {
			if err := c.declareStruct(sd); err != nil {
				return nil, err
			}
		}
	}
	c.funcDecls = make(map[string]*ast.FuncDecl, len(prog.Decls))
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			if err := c.declareFunc(d); err != nil {
				return nil, err
			}
			c.funcDecls[d.Name.Name] = d
		case *ast.GlobalVarDecl:
			if err := c.declareGlobal(d); err != nil {
				return nil, err
			}
		}
	}

	// Pass 2: compile only the functions reachable from main. compileCall
	// enqueues a callee's name the first time a CALL is emitted for it, so an
	// unreachable function is never visited and can't fail the build with a
	// type error in dead code.
	if _, ok := c.funcDecls["main"]; ok {
		c.enqueue("main")
	}
	for len(c.worklist) > 0 {
		name := c.worklist[0]
		c.worklist = c.worklist[1:]
		fd, ok := c.funcDecls[name]
		if !ok {
			continue
		}
		if err := c.compileFunc(fd); err != nil {
			return nil, err
		}
	}

	if _, idx, ok := c.prog.FunctionByName("main"); ok {
		c.prog.EntryFunction = idx
	}

	return c.prog, nil
}

type compiler struct {
	scope   *scope
	prog    *Program
	strings map[string]int // literal value -> offset into Program.Data, deduplicated

	funcDecls map[string]*ast.FuncDecl // every declared function, by name
	worklist  []string                 // names awaiting compileFunc, active-function reachability
	seen      []string                 // names already enqueued (compiled or pending), in order
}

// enqueue marks name reachable and schedules it for compilation the first
// time it is seen, deduplicating against every name already enqueued so a
// function called from multiple sites is only compiled once.
func (c *compiler) enqueue(name string) {
	if slices.Contains(c.seen, name) {
		return
	}
	c.seen = append(c.seen, name)
	c.worklist = append(c.worklist, name)
}

// internString appends s (with a trailing NUL, matching the original C
// string representation) to the global data image the first time it is
// seen, and returns its byte offset.
func (c *compiler) internString(s string) int {
	if c.strings == nil {
		c.strings = make(map[string]int)
	}
	if off, ok := c.strings[s]; ok {
		return off
	}
	off := len(c.prog.Data)
	c.prog.Data = append(c.prog.Data, s...)
	c.prog.Data = append(c.prog.Data, 0)
	c.strings[s] = off
	return off
}

func (c *compiler) errf(pos token.Pos, format string, args ...any) error {
	line, col := pos.LineCol()
	return fmt.Errorf("%d:%d: "+format, append([]any{line, col}, args...)...)
}

func (c *compiler) declareStruct(sd *ast.StructDecl) error {
	st, ok := c.scope.structs.Get(sd.Name.Name)
	if !ok {
		st = &types.Struct{Name: sd.Name.Name}
		c.scope.structs.Put(sd.Name.Name, st)
		c.prog.Structs[sd.Name.Name] = st
	}
	if !sd.Defined {
		return nil
	}
	if st.Defined {
		return c.errf(sd.Pos, "struct %q redefined", sd.Name.Name)
	}

	seen := swiss.NewMap[string, bool](uint32(len(sd.Members)))
	for _, m := range sd.Members {
		if _, dup := seen.Get(m.Name.Name); dup {
			return c.errf(m.Name.NamePos, "duplicate member %q in struct %q", m.Name.Name, sd.Name.Name)
		}
		seen.Put(m.Name.Name, true)

		mt, err := c.resolveType(m.Type)
		if err != nil {
			return err
		}
		if mt.IsStruct() && !mt.Struct.Defined && mt.Indirection == 0 {
			return c.errf(m.Type.Pos, "member %q has incomplete struct type", m.Name.Name)
		}
		st.Members = append(st.Members, types.Member{Name: m.Name.Name, Type: mt})
	}
	st.Finish()
	st.Defined = true
	return nil
}

func (c *compiler) declareFunc(fd *ast.FuncDecl) error {
	if _, ok := c.scope.funcs.Get(fd.Name.Name); ok {
		return c.errf(fd.Name.NamePos, "function %q redefined", fd.Name.Name)
	}
	ret, err := c.resolveType(fd.Ret)
	if err != nil {
		return err
	}
	params := make([]types.Type, len(fd.Params))
	paramCells := 0
	for i, p := range fd.Params {
		pt, err := c.resolveType(p.Type)
		if err != nil {
			return err
		}
		params[i] = pt
		paramCells += types.DataCellSize(pt)
	}

	retCells := 0
	if !ret.IsVoid() {
		retCells = types.DataCellSize(ret)
	}

	idx := len(c.prog.Functions)
	c.prog.Functions = append(c.prog.Functions, &Function{Name: fd.Name.Name, ParamCells: paramCells, ReturnCells: retCells})
	c.scope.funcs.Put(fd.Name.Name, &funcSig{index: idx, params: params, ret: ret, paramCells: paramCells, returnCells: retCells})
	return nil
}

// declareGlobal resolves a global variable's type and appends its
// zero-initialized storage to the program's static data image. A global
// cannot have an initializer: the original's ic_impl.cpp puts it plainly -
// "global variables can't be initialized by an expression, they are memset
// to 0" - there is no runtime global-initialization step, so the data image
// is memset(0) rather than built from constant-folded expressions.
func (c *compiler) declareGlobal(gd *ast.GlobalVarDecl) error {
	if _, ok := c.scope.globals.Get(gd.Name.Name); ok {
		return c.errf(gd.Name.NamePos, "global %q redefined", gd.Name.Name)
	}
	if gd.Init != nil {
		return c.errf(gd.Name.NamePos, "global %q cannot have an initializer", gd.Name.Name)
	}
	t, err := c.resolveType(gd.Type)
	if err != nil {
		return err
	}
	size := types.ByteSize(t)
	offset := len(c.prog.Data)
	c.prog.Data = append(c.prog.Data, make([]byte, size)...)
	g := &Global{Name: gd.Name.Name, Type: t, Offset: offset}
	c.prog.Globals = append(c.prog.Globals, g)
	c.scope.globals.Put(gd.Name.Name, g)
	return nil
}

// compileFunc compiles one function body and fills in its Function entry in
// c.prog.Functions.
func (c *compiler) compileFunc(fd *ast.FuncDecl) error {
	sig, _ := c.scope.funcs.Get(fd.Name.Name)
	fn := c.prog.Functions[sig.index]

	c.scope.depth = 0
	c.scope.blocks = nil
	c.scope.pushBlock()
	defer c.scope.popBlock()

	for i, p := range fd.Params {
		c.scope.declareLocal(p.Name.Name, sig.params[i])
	}

	fc := &fcomp{c: c, retType: sig.ret}
	if err := fc.compileBlock(fd.Body); err != nil {
		return err
	}

	last := lastStmt(fd.Body)
	if sig.ret.IsVoid() {
		if last == nil || !last.BlockEnding() {
			fc.buf.emit1(RETURN, 0)
		}
	} else if last == nil || !last.BlockEnding() {
		return c.errf(fd.Body.Rbrace, "function %q must return a value on every path", fd.Name.Name)
	}

	fn.Code = fc.buf.code
	fn.NumLocals = c.scope.depth
	fn.MaxStack = fc.peak
	return nil
}

func lastStmt(b *ast.Block) ast.Stmt {
	if len(b.Stmts) == 0 {
		return nil
	}
	return b.Stmts[len(b.Stmts)-1]
}

func (c *compiler) resolveType(ts *ast.TypeSpec) (types.Type, error) {
	var base types.Type
	switch ts.Base {
	case token.BOOL:
		base = types.NonPointer(types.Bool)
	case token.S8:
		base = types.NonPointer(types.S8)
	case token.U8:
		base = types.NonPointer(types.U8)
	case token.S32:
		base = types.NonPointer(types.S32)
	case token.F32:
		base = types.NonPointer(types.F32)
	case token.F64:
		base = types.NonPointer(types.F64)
	case token.VOID:
		base = types.NonPointer(types.Void)
	case token.STRUCT:
		st, ok := c.scope.structs.Get(ts.StructName.Name)
		if !ok {
			return types.Type{}, c.errf(ts.StructName.NamePos, "undeclared struct %q", ts.StructName.Name)
		}
		base = types.StructOf(st)
	default:
		return types.Type{}, c.errf(ts.Pos, "invalid type specifier")
	}

	if len(ts.Ptrs) > types.MaxIndirection {
		return types.Type{}, c.errf(ts.Pos, "exceeded the maximum level of indirection")
	}
	if base.IsVoid() && len(ts.Ptrs) == 0 {
		return base, nil // void is only legal as a function return type or via void*
	}

	t := base
	t.Indirection = len(ts.Ptrs)
	t.ConstMask = 0
	if ts.Const {
		t.ConstMask |= 1
	}
	for i, pm := range ts.Ptrs {
		if pm.Const {
			t.ConstMask |= 1 << uint(i+1)
		}
	}
	return t, nil
}
