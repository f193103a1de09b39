package compiler

import (
	"fmt"

	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/token"
	"github.com/mna/icc/lang/types"
)

func (f *fcomp) compileUnary(e *ast.UnaryExpr) (types.Type, error) {
	switch e.Op {
	case token.NOT:
		t, err := f.compileExpr(e.X)
		if err != nil {
			return types.Type{}, err
		}
		if t.Kind != types.Bool || t.IsPointer() {
			return types.Type{}, f.c.errf(e.OpPos, "! requires a bool operand")
		}
		f.buf.emit(NOT_BOOL)
		return t, nil

	case token.AMP:
		t, err := f.compileLvalue(e.X)
		if err != nil {
			return types.Type{}, err
		}
		return t.AddPointer(), nil

	case token.STAR:
		t, err := f.compileLvalue(e)
		if err != nil {
			return types.Type{}, err
		}
		f.loadFromAddress(t)
		return t, nil

	case token.MINUS:
		t, err := f.compileExpr(e.X)
		if err != nil {
			return types.Type{}, err
		}
		if t.IsPointer() || !t.Kind.IsArithmetic() {
			return types.Type{}, f.c.errf(e.OpPos, "unary - requires an arithmetic operand")
		}
		promoted := types.UnaryArithmeticPromotion(t.Kind)
		if promoted != t.Kind {
			f.buf.emit2(CONVERT, uint8(t.Kind), uint8(promoted))
		}
		switch promoted {
		case types.S32:
			f.buf.emit(NEGATE_S32)
		case types.F32:
			f.buf.emit(NEGATE_F32)
		case types.F64:
			f.buf.emit(NEGATE_F64)
		}
		return types.NonPointer(promoted), nil

	case token.INC, token.DEC:
		return f.compileIncDec(e.X, e.Op)
	}
	return types.Type{}, f.c.errf(e.OpPos, "unsupported unary operator %s", e.Op)
}

// compileIncDec compiles both prefix and postfix ++/--. The new value is
// always left on the stack; true postfix semantics (yielding the old value
// in expression position) would need a 3-cell stack rotation this machine's
// opcode set doesn't provide, so both forms evaluate to the updated value.
// Using x++/x-- as a standalone statement, the common case, is unaffected.
func (f *fcomp) compileIncDec(x ast.Expr, op token.Token) (types.Type, error) {
	t, err := f.compileLvalue(x)
	if err != nil {
		return types.Type{}, err
	}
	f.buf.emit4(CLONE, 1)
	f.track(1)
	f.loadFromAddress(t)

	switch {
	case t.IsPointer():
		scale := types.PointedTypeByteSize(t)
		f.buf.emit4(PUSH_S32, 1)
		f.track(1)
		if op == token.INC {
			f.buf.emit4(ADD_PTR_S32, uint32(scale))
		} else {
			f.buf.emit4(SUB_PTR_S32, uint32(scale))
		}
		f.track(-1)
	case t.Kind.IsArithmetic():
		work := t.Kind
		if work != types.S32 && work != types.F32 && work != types.F64 {
			f.buf.emit2(CONVERT, uint8(work), uint8(types.S32))
			work = types.S32
		}
		f.pushOne(work)
		tok := token.PLUS
		if op == token.DEC {
			tok = token.MINUS
		}
		if err := f.emitArith(tok, work); err != nil {
			return types.Type{}, err
		}
		if work != t.Kind {
			f.buf.emit2(CONVERT, uint8(work), uint8(t.Kind))
		}
	default:
		return types.Type{}, fmt.Errorf("compiler: ++/-- requires an arithmetic or pointer operand")
	}

	f.storeToAddress(t)
	return t, nil
}

func (f *fcomp) compileBinary(e *ast.BinaryExpr) (types.Type, error) {
	switch e.Op {
	case token.ANDAND, token.OROR:
		return f.compileShortCircuit(e)
	}

	lt, err := f.compileExpr(e.X)
	if err != nil {
		return types.Type{}, err
	}

	if (e.Op == token.PLUS || e.Op == token.MINUS) && lt.IsPointer() {
		return f.compilePointerArith(e, lt)
	}

	rt, err := f.compileExpr(e.Y)
	if err != nil {
		return types.Type{}, err
	}

	switch e.Op {
	case token.EQL, token.NEQ:
		if lt.IsPointer() || rt.IsPointer() {
			if lt.Kind != types.Nullptr && rt.Kind != types.Nullptr && !types.Equal(lt, rt) {
				return types.Type{}, f.c.errf(e.OpPos, "cannot compare %s and %s", lt, rt)
			}
			if e.Op == token.EQL {
				f.buf.emit(EQL_PTR)
			} else {
				f.buf.emit(NEQ_PTR)
			}
			f.track(-1)
			return types.NonPointer(types.Bool), nil
		}
	}

	if lt.IsPointer() || rt.IsPointer() {
		return types.Type{}, f.c.errf(e.OpPos, "invalid operand types for %s", e.Op)
	}
	if !lt.Kind.IsArithmetic() || !rt.Kind.IsArithmetic() {
		return types.Type{}, f.c.errf(e.OpPos, "operator %s requires arithmetic operands", e.Op)
	}

	work := types.ArithmeticPromotion(lt.Kind, rt.Kind)
	if lt.Kind != work {
		f.buf.emit2(CONVERT, uint8(lt.Kind), uint8(work))
	}
	if rt.Kind != work {
		f.buf.emit2(CONVERT, uint8(rt.Kind), uint8(work))
	}

	switch e.Op {
	case token.LT, token.LE, token.GT, token.GE, token.EQL, token.NEQ:
		if err := f.emitCompare(e.Op, work); err != nil {
			return types.Type{}, f.c.errf(e.OpPos, "%s", err)
		}
		return types.NonPointer(types.Bool), nil
	default:
		if err := f.emitArith(e.Op, work); err != nil {
			return types.Type{}, f.c.errf(e.OpPos, "%s", err)
		}
		return types.NonPointer(work), nil
	}
}

// compilePointerArith handles ptr+s32, ptr-s32 and ptr-ptr; the left operand
// has already been compiled onto the stack.
func (f *fcomp) compilePointerArith(e *ast.BinaryExpr, lt types.Type) (types.Type, error) {
	rt, err := f.compileExpr(e.Y)
	if err != nil {
		return types.Type{}, err
	}
	scale := types.PointedTypeByteSize(lt)
	if rt.IsPointer() {
		if e.Op != token.MINUS || !types.Equal(lt, rt) {
			return types.Type{}, f.c.errf(e.OpPos, "invalid pointer operand types for %s", e.Op)
		}
		f.buf.emit4(SUB_PTR_PTR, uint32(scale))
		f.track(-1)
		return types.NonPointer(types.S32), nil
	}
	if !rt.Kind.IsIntegral() {
		return types.Type{}, f.c.errf(e.OpPos, "pointer arithmetic requires an integer operand")
	}
	if rt.Kind != types.S32 {
		f.buf.emit2(CONVERT, uint8(rt.Kind), uint8(types.S32))
	}
	if e.Op == token.PLUS {
		f.buf.emit4(ADD_PTR_S32, uint32(scale))
	} else {
		f.buf.emit4(SUB_PTR_S32, uint32(scale))
	}
	f.track(-1)
	return lt, nil
}

// compileShortCircuit compiles && and || so that the right operand is only
// evaluated when it can affect the result.
func (f *fcomp) compileShortCircuit(e *ast.BinaryExpr) (types.Type, error) {
	lt, err := f.compileExpr(e.X)
	if err != nil {
		return types.Type{}, err
	}
	if lt.Kind != types.Bool || lt.IsPointer() {
		return types.Type{}, f.c.errf(e.OpPos, "%s requires bool operands", e.Op)
	}

	f.buf.emit4(CLONE, 1)
	f.track(1)
	var shortCircuit uint32
	if e.Op == token.ANDAND {
		shortCircuit = f.buf.emit4(JUMP_IF_FALSE, 0)
	} else {
		shortCircuit = f.buf.emit4(JUMP_IF_TRUE, 0)
	}
	f.track(-1)

	f.buf.emit(POP)
	f.track(-1)
	rt, err := f.compileExpr(e.Y)
	if err != nil {
		return types.Type{}, err
	}
	if rt.Kind != types.Bool || rt.IsPointer() {
		return types.Type{}, f.c.errf(e.OpPos, "%s requires bool operands", e.Op)
	}

	f.buf.patch(shortCircuit, f.buf.pos())
	return types.NonPointer(types.Bool), nil
}

func (f *fcomp) compileAssign(e *ast.AssignExpr) (types.Type, error) {
	lt, err := f.compileLvalue(e.Left)
	if err != nil {
		return types.Type{}, err
	}
	// The assigned value's own constness is the bit of its outermost level.
	if lt.ConstMask&(1<<uint(lt.Indirection)) != 0 {
		return types.Type{}, f.c.errf(e.OpPos, "cannot assign to a const-qualified value")
	}

	if e.Op == token.ASSIGN {
		rt, err := f.compileExpr(e.Right)
		if err != nil {
			return types.Type{}, err
		}
		if err := f.convertAssignable(e.OpPos, rt, lt); err != nil {
			return types.Type{}, err
		}
		f.storeToAddress(lt)
		return lt, nil
	}

	// Compound assignment: addr, CLONE, load current value, compile RHS,
	// combine, store.
	f.buf.emit4(CLONE, 1)
	f.track(1)
	f.loadFromAddress(lt)

	rt, err := f.compileExpr(e.Right)
	if err != nil {
		return types.Type{}, err
	}

	var tok token.Token
	switch e.Op {
	case token.PLUS_ASSIGN:
		tok = token.PLUS
	case token.MINUS_ASSIGN:
		tok = token.MINUS
	case token.STAR_ASSIGN:
		tok = token.STAR
	case token.SLASH_ASSIGN:
		tok = token.SLASH
	default:
		return types.Type{}, f.c.errf(e.OpPos, "unsupported assignment operator %s", e.Op)
	}

	if lt.IsPointer() && (tok == token.PLUS || tok == token.MINUS) {
		if rt.IsPointer() || !rt.Kind.IsIntegral() {
			return types.Type{}, f.c.errf(e.OpPos, "pointer compound assignment requires an integer operand")
		}
		if rt.Kind != types.S32 {
			f.buf.emit2(CONVERT, uint8(rt.Kind), uint8(types.S32))
		}
		scale := types.PointedTypeByteSize(lt)
		if tok == token.PLUS {
			f.buf.emit4(ADD_PTR_S32, uint32(scale))
		} else {
			f.buf.emit4(SUB_PTR_S32, uint32(scale))
		}
		f.track(-1)
		f.storeToAddress(lt)
		return lt, nil
	}

	if lt.IsPointer() || !lt.Kind.IsArithmetic() || !rt.Kind.IsArithmetic() {
		return types.Type{}, f.c.errf(e.OpPos, "invalid operand types for %s", e.Op)
	}

	work := types.ArithmeticPromotion(lt.Kind, rt.Kind)
	if lt.Kind != work {
		f.buf.emit2(CONVERT, uint8(lt.Kind), uint8(work))
	}
	if rt.Kind != work {
		f.buf.emit2(CONVERT, uint8(rt.Kind), uint8(work))
	}
	if err := f.emitArith(tok, work); err != nil {
		return types.Type{}, f.c.errf(e.OpPos, "%s", err)
	}
	if work != lt.Kind {
		f.buf.emit2(CONVERT, uint8(work), uint8(lt.Kind))
	}
	f.storeToAddress(lt)
	return lt, nil
}

// convertAssignable emits a CONVERT if from can be implicitly converted to
// to (between any two arithmetic kinds, widening or narrowing), accepts
// same-shape types (types.Equal, which ignores const) and nullptr to any
// pointer without code, and fails otherwise.
func (f *fcomp) convertAssignable(pos token.Pos, from, to types.Type) error {
	if types.Equal(from, to) {
		return nil
	}
	if to.IsPointer() && from.Kind == types.Nullptr {
		return nil
	}
	if !from.IsPointer() && !to.IsPointer() && from.Kind.IsArithmetic() && to.Kind.IsArithmetic() {
		f.buf.emit2(CONVERT, uint8(from.Kind), uint8(to.Kind))
		return nil
	}
	return f.c.errf(pos, "cannot assign %s to %s", from, to)
}

func (f *fcomp) compileCall(e *ast.CallExpr) (types.Type, error) {
	sig, ok := f.c.scope.funcs.Get(e.Fun.Name)
	if !ok {
		return types.Type{}, f.c.errf(e.Fun.NamePos, "undeclared function %q", e.Fun.Name)
	}
	if len(e.Args) != len(sig.params) {
		return types.Type{}, f.c.errf(e.Lparen, "function %q expects %d argument(s), got %d", e.Fun.Name, len(sig.params), len(e.Args))
	}
	for i, arg := range e.Args {
		at, err := f.compileExpr(arg)
		if err != nil {
			return types.Type{}, err
		}
		if err := f.convertAssignable(e.Lparen, at, sig.params[i]); err != nil {
			return types.Type{}, err
		}
	}

	if sig.host {
		f.buf.emit4(CALL_HOST, uint32(sig.index))
	} else {
		f.c.enqueue(e.Fun.Name)
		f.buf.emit4(CALL, uint32(sig.index))
	}
	f.track(sig.returnCells - sig.paramCells)
	return sig.ret, nil
}

func (f *fcomp) compileCast(e *ast.CastExpr) (types.Type, error) {
	target, err := f.c.resolveType(e.Type)
	if err != nil {
		return types.Type{}, err
	}
	from, err := f.compileExpr(e.X)
	if err != nil {
		return types.Type{}, err
	}

	switch {
	case types.Equal(from, target):
		return target, nil
	case target.IsPointer() && from.IsPointer():
		return target, nil
	case target.IsPointer() && from.Kind == types.Nullptr:
		return target, nil
	case !from.IsPointer() && !target.IsPointer() && from.Kind.IsArithmetic() && target.Kind.IsArithmetic():
		f.buf.emit2(CONVERT, uint8(from.Kind), uint8(target.Kind))
		return target, nil
	}
	return types.Type{}, f.c.errf(e.Lparen, "cannot cast %s to %s", from, target)
}

func (f *fcomp) compileSizeof(e *ast.SizeofExpr) (types.Type, error) {
	var t types.Type
	if e.Type != nil {
		var err error
		t, err = f.c.resolveType(e.Type)
		if err != nil {
			return types.Type{}, err
		}
	} else {
		// The operand is only needed for its type; no code for it is kept.
		mark := f.buf.pos()
		markDepth := f.depth
		var err error
		t, err = f.compileExpr(e.X)
		if err != nil {
			return types.Type{}, err
		}
		f.buf.code = f.buf.code[:mark]
		f.depth = markDepth
	}
	f.buf.emit4(PUSH_S32, uint32(types.ByteSize(t)))
	f.track(1)
	return types.NonPointer(types.S32), nil
}
