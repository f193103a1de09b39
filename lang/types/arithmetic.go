package types

// CellSize is the width in bytes of the uniform VM data cell that backs the
// operand stack, locals and globals.
const CellSize = 8

// ByteSize returns the size in bytes that a value of type t occupies in
// memory (struct storage, not the operand stack). Pointers occupy a full
// data cell. It panics if t is void or an undefined struct; callers must
// have already rejected those through the type checker.
func ByteSize(t Type) int {
	if t.IsStruct() {
		if !t.Struct.Defined {
			panic("types: ByteSize of an undefined struct")
		}
		return t.Struct.ByteSize
	}
	if t.IsPointer() {
		return CellSize
	}
	switch t.Kind {
	case Bool, S8, U8:
		return 1
	case S32, F32:
		return 4
	case F64:
		return 8
	}
	panic("types: ByteSize of a void or nullptr type")
}

// DataCellSize returns the number of 8-byte data cells a value of type t
// occupies on the operand stack or in a call frame's locals (every scalar
// occupies exactly one cell; a struct occupies byte_size rounded up to a
// whole number of cells).
func DataCellSize(t Type) int {
	if t.IsStruct() {
		return (ByteSize(t) + CellSize - 1) / CellSize
	}
	return 1
}

// PointedTypeByteSize returns the byte size of the type pointed to by a
// pointer type t, used to scale pointer arithmetic (p+1 advances p by this
// many bytes). It panics if t is not a pointer.
func PointedTypeByteSize(t Type) int {
	if !t.IsPointer() {
		panic("types: PointedTypeByteSize of a non-pointer type")
	}
	return ByteSize(t.Referent())
}

// ArithmeticPromotion returns the result kind of a binary arithmetic
// operation between two non-pointer arithmetic operands. Both operands
// narrower than or equal to S32 (bool, s8, u8, s32) promote to s32;
// otherwise the wider of the two (by Kind's declaration order, which
// doubles as width order) wins. Both operands must satisfy
// Kind.IsArithmetic.
func ArithmeticPromotion(a, b Kind) Kind {
	if a <= S32 && b <= S32 {
		return S32
	}
	if a > b {
		return a
	}
	return b
}

// UnaryArithmeticPromotion returns the result kind of a unary arithmetic
// operation (negation) applied to a single operand, following
// the same narrow-to-s32 promotion as ArithmeticPromotion.
func UnaryArithmeticPromotion(k Kind) Kind {
	return ArithmeticPromotion(k, Bool)
}
