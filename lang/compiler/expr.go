package compiler

import (
	"fmt"
	"math"

	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/token"
	"github.com/mna/icc/lang/types"
)

// compileExpr compiles e so that it leaves its value (never an address) on
// the operand stack, and returns its static type.
func (f *fcomp) compileExpr(e ast.Expr) (types.Type, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		f.buf.emit4(PUSH_S32, uint32(int32(e.Val)))
		f.track(1)
		return types.NonPointer(types.S32), nil

	case *ast.FloatLit:
		f.buf.emit8(PUSH_F64, math.Float64bits(e.Val))
		f.track(1)
		return types.NonPointer(types.F64), nil

	case *ast.CharLit:
		f.buf.emit1(PUSH_S8, e.Val)
		f.track(1)
		return types.NonPointer(types.S8), nil

	case *ast.BoolLit:
		v := uint8(0)
		if e.Val {
			v = 1
		}
		f.buf.emit1(PUSH_S8, v)
		f.track(1)
		return types.NonPointer(types.Bool), nil

	case *ast.NullptrLit:
		f.buf.emit(PUSH_NULLPTR)
		f.track(1)
		return types.NonPointer(types.Nullptr), nil

	case *ast.StringLit:
		offset := f.c.internString(e.Val)
		f.buf.emit4(ADDRESS_GLOBAL, uint32(offset))
		f.track(1)
		return types.Pointer1(types.U8), nil

	case *ast.ParenExpr:
		return f.compileExpr(e.X)

	case *ast.Ident:
		t, err := f.compileLvalue(e)
		if err != nil {
			return types.Type{}, err
		}
		f.loadFromAddress(t)
		return t, nil

	case *ast.IndexExpr, *ast.SelectorExpr:
		t, err := f.compileLvalue(e)
		if err != nil {
			return types.Type{}, err
		}
		f.loadFromAddress(t)
		return t, nil

	case *ast.UnaryExpr:
		return f.compileUnary(e)

	case *ast.PostfixExpr:
		return f.compileIncDec(e.X, e.Op)

	case *ast.BinaryExpr:
		return f.compileBinary(e)

	case *ast.AssignExpr:
		return f.compileAssign(e)

	case *ast.CallExpr:
		return f.compileCall(e)

	case *ast.CastExpr:
		return f.compileCast(e)

	case *ast.SizeofExpr:
		return f.compileSizeof(e)
	}
	return types.Type{}, fmt.Errorf("compiler: unsupported expression %T", e)
}

// checkDereferenceable rejects dereferencing (via "*", "[]" or "->") a
// pointer whose referent is incomplete: void, an undefined struct, or
// nullptr. Any of these would either emit no LOAD opcode (void) or panic
// computing a byte size (an undefined struct has none).
func (f *fcomp) checkDereferenceable(pos token.Pos, ref types.Type) error {
	if ref.IsVoid() || (ref.IsStruct() && !ref.Struct.Defined) || ref.IsNullptr() {
		return f.c.errf(pos, "cannot dereference incomplete type %s", ref)
	}
	return nil
}

// loadFromAddress emits the LOAD variant matching t and updates the stack
// depth (an address, 1 cell, is replaced by DataCellSize(t) cells of
// value).
func (f *fcomp) loadFromAddress(t types.Type) {
	switch {
	case t.IsStruct():
		cells := types.DataCellSize(t)
		f.buf.emit4(LOAD_STRUCT, uint32(cells))
		f.track(cells - 1)
	case t.IsPointer():
		f.buf.emit(LOAD_8)
	default:
		switch t.Kind {
		case types.Bool, types.S8, types.U8:
			f.buf.emit(LOAD_1)
		case types.S32, types.F32:
			f.buf.emit(LOAD_4)
		case types.F64:
			f.buf.emit(LOAD_8)
		}
	}
}

// storeToAddress emits the STORE variant matching t. Stack picture:
// addr val1..valN STORE_x -> val1..valN (address is consumed, value stays).
func (f *fcomp) storeToAddress(t types.Type) {
	switch {
	case t.IsStruct():
		cells := types.DataCellSize(t)
		f.buf.emit4(STORE_STRUCT, uint32(cells))
		f.track(-1) // the address cell is gone, value cells unchanged
	case t.IsPointer():
		f.buf.emit(STORE_8)
		f.track(-1)
	default:
		switch t.Kind {
		case types.Bool, types.S8, types.U8:
			f.buf.emit(STORE_1)
		case types.S32, types.F32:
			f.buf.emit(STORE_4)
		case types.F64:
			f.buf.emit(STORE_8)
		}
		f.track(-1)
	}
}

// compileLvalue compiles e so that it leaves the address of its storage on
// the stack (1 cell), and returns the type stored there. It fails if e
// does not denote an addressable location.
func (f *fcomp) compileLvalue(e ast.Expr) (types.Type, error) {
	switch e := e.(type) {
	case *ast.Ident:
		if l, ok := f.c.scope.lookupLocal(e.Name); ok {
			f.buf.emit4(ADDRESS, uint32(l.slot))
			f.track(1)
			return l.typ, nil
		}
		if g, ok := f.c.scope.globals.Get(e.Name); ok {
			f.buf.emit4(ADDRESS_GLOBAL, uint32(g.Offset))
			f.track(1)
			return g.Type, nil
		}
		return types.Type{}, f.c.errf(e.NamePos, "undeclared identifier %q", e.Name)

	case *ast.UnaryExpr:
		if e.Op != token.STAR {
			return types.Type{}, f.c.errf(e.OpPos, "expression is not assignable")
		}
		t, err := f.compileExpr(e.X) // the pointer value itself is the address
		if err != nil {
			return types.Type{}, err
		}
		if !t.IsPointer() {
			return types.Type{}, f.c.errf(e.OpPos, "cannot dereference non-pointer type %s", t)
		}
		ref := t.Referent()
		if err := f.checkDereferenceable(e.OpPos, ref); err != nil {
			return types.Type{}, err
		}
		return ref, nil

	case *ast.IndexExpr:
		// Either operand may be the pointer ("p[3]" or "3[p]"); whichever one
		// is compiles first, with the other one providing the s32 offset.
		mark := f.buf.pos()
		depth := f.depth
		xt, err := f.compileExpr(e.X)
		if err != nil {
			return types.Type{}, err
		}

		var ptrType, idxType types.Type
		if xt.IsPointer() {
			ptrType = xt
			idxType, err = f.compileExpr(e.Index)
			if err != nil {
				return types.Type{}, err
			}
		} else {
			f.buf.code = f.buf.code[:mark]
			f.depth = depth
			it, err := f.compileExpr(e.Index)
			if err != nil {
				return types.Type{}, err
			}
			if !it.IsPointer() {
				return types.Type{}, f.c.errf(e.Lbrack, "cannot index non-pointer type %s", xt)
			}
			ptrType = it
			idxType, err = f.compileExpr(e.X)
			if err != nil {
				return types.Type{}, err
			}
		}
		if !idxType.Kind.IsIntegral() {
			return types.Type{}, f.c.errf(e.Lbrack, "array index must be an integer")
		}
		ref := ptrType.Referent()
		if err := f.checkDereferenceable(e.Lbrack, ref); err != nil {
			return types.Type{}, err
		}
		scale := types.PointedTypeByteSize(ptrType)
		f.buf.emit4(ADD_PTR_S32, uint32(scale))
		f.track(-1) // ptr + s32 (2 cells) -> ptr (1 cell)
		return ref, nil

	case *ast.SelectorExpr:
		var baseType types.Type
		var err error
		if e.Arrow {
			baseType, err = f.compileExpr(e.X)
			if err != nil {
				return types.Type{}, err
			}
			if !baseType.IsPointer() {
				return types.Type{}, f.c.errf(e.OpPos, "-> requires a pointer operand")
			}
			baseType = baseType.Referent()
		} else {
			baseType, err = f.compileLvalue(e.X)
			if err != nil {
				return types.Type{}, err
			}
		}
		if !baseType.IsStruct() {
			return types.Type{}, f.c.errf(e.OpPos, "member access on non-struct type %s", baseType)
		}
		m := baseType.Struct.MemberByName(e.Sel.Name)
		if m == nil {
			return types.Type{}, f.c.errf(e.Sel.NamePos, "struct %q has no member %q", baseType.Struct.Name, e.Sel.Name)
		}
		if m.Offset != 0 {
			f.buf.emit4(PUSH_S32, uint32(m.Offset))
			f.track(1)
			f.buf.emit4(ADD_PTR_S32, uint32(1))
			f.track(-1)
		}
		return m.Type, nil

	case *ast.ParenExpr:
		return f.compileLvalue(e.X)
	}
	return types.Type{}, fmt.Errorf("compiler: expression is not assignable")
}
