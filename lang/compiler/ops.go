package compiler

import (
	"fmt"
	"math"

	"github.com/mna/icc/lang/token"
	"github.com/mna/icc/lang/types"
)

// pushOne pushes a literal 1 of the given arithmetic kind, used by ++/--.
func (f *fcomp) pushOne(kind types.Kind) {
	switch kind {
	case types.S32:
		f.buf.emit4(PUSH_S32, 1)
	case types.F32:
		f.buf.emit4(PUSH_F32, math.Float32bits(1))
	case types.F64:
		f.buf.emit8(PUSH_F64, math.Float64bits(1))
	}
	f.track(1)
}

// emitArith emits the binary arithmetic opcode for tok over two operands of
// the given (already-promoted) kind, consuming 2 cells and producing 1.
func (f *fcomp) emitArith(tok token.Token, kind types.Kind) error {
	op, ok := arithOpcode(tok, kind)
	if !ok {
		return fmt.Errorf("compiler: invalid arithmetic operator %s for %s", tok, kind)
	}
	f.buf.emit(op)
	f.track(-1)
	return nil
}

// emitCompare emits the comparison opcode for tok over two operands of the
// given kind, consuming 2 cells and producing 1 (a bool).
func (f *fcomp) emitCompare(tok token.Token, kind types.Kind) error {
	op, ok := compareOpcode(tok, kind)
	if !ok {
		return fmt.Errorf("compiler: invalid comparison operator %s for %s", tok, kind)
	}
	f.buf.emit(op)
	f.track(-1)
	return nil
}

func arithOpcode(tok token.Token, kind types.Kind) (Opcode, bool) {
	switch kind {
	case types.S32:
		switch tok {
		case token.PLUS:
			return ADD_S32, true
		case token.MINUS:
			return SUB_S32, true
		case token.STAR:
			return MUL_S32, true
		case token.SLASH:
			return DIV_S32, true
		case token.PERCENT:
			return MOD_S32, true
		}
	case types.F32:
		switch tok {
		case token.PLUS:
			return ADD_F32, true
		case token.MINUS:
			return SUB_F32, true
		case token.STAR:
			return MUL_F32, true
		case token.SLASH:
			return DIV_F32, true
		}
	case types.F64:
		switch tok {
		case token.PLUS:
			return ADD_F64, true
		case token.MINUS:
			return SUB_F64, true
		case token.STAR:
			return MUL_F64, true
		case token.SLASH:
			return DIV_F64, true
		}
	}
	return 0, false
}

func compareOpcode(tok token.Token, kind types.Kind) (Opcode, bool) {
	switch kind {
	case types.S32:
		switch tok {
		case token.LT:
			return LT_S32, true
		case token.LE:
			return LE_S32, true
		case token.GT:
			return GT_S32, true
		case token.GE:
			return GE_S32, true
		case token.EQL:
			return EQL_S32, true
		case token.NEQ:
			return NEQ_S32, true
		}
	case types.F32:
		switch tok {
		case token.LT:
			return LT_F32, true
		case token.LE:
			return LE_F32, true
		case token.GT:
			return GT_F32, true
		case token.GE:
			return GE_F32, true
		case token.EQL:
			return EQL_F32, true
		case token.NEQ:
			return NEQ_F32, true
		}
	case types.F64:
		switch tok {
		case token.LT:
			return LT_F64, true
		case token.LE:
			return LE_F64, true
		case token.GT:
			return GT_F64, true
		case token.GE:
			return GE_F64, true
		case token.EQL:
			return EQL_F64, true
		case token.NEQ:
			return NEQ_F64, true
		}
	}
	return 0, false
}
