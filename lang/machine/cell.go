package machine

import (
	"math"

	"github.com/mna/icc/lang/types"
)

// Cell is the VM's uniform unit of storage: every local and operand stack
// slot occupies a whole number of cells, regardless of the static type's
// actual byte size. Globals and struct members are laid out by byte size
// instead (see types.ByteSize and types.Struct.Finish). It holds the raw bit pattern of
// whatever value it carries (an int32 in its low 32 bits, an f32's bits in
// its low 32 bits, an f64's bits in all 64, a byte in its low 8, or a memory
// address).
type Cell uint64

func cellFromS32(v int32) Cell { return Cell(uint32(v)) }
func cellFromU8(v uint8) Cell  { return Cell(v) }
func cellFromF32(v float32) Cell { return Cell(math.Float32bits(v)) }
func cellFromF64(v float64) Cell { return Cell(math.Float64bits(v)) }

func (c Cell) s32() int32   { return int32(uint32(c)) }
func (c Cell) u8() uint8    { return uint8(c) }
func (c Cell) s8() int8     { return int8(uint8(c)) }
func (c Cell) f32() float32 { return math.Float32frombits(uint32(c)) }
func (c Cell) f64() float64 { return math.Float64frombits(uint64(c)) }

// S32Cell, U8Cell, F32Cell and F64Cell build a Cell from a host-side Go
// value, and S32, U8, S8, F32 and F64 extract one back. A host function
// bound through HostFunc uses these to marshal its args/results, the same
// way the VM's own arithmetic opcodes do internally.
func S32Cell(v int32) Cell   { return cellFromS32(v) }
func U8Cell(v uint8) Cell    { return cellFromU8(v) }
func F32Cell(v float32) Cell { return cellFromF32(v) }
func F64Cell(v float64) Cell { return cellFromF64(v) }

func (c Cell) S32() int32   { return c.s32() }
func (c Cell) U8() uint8    { return c.u8() }
func (c Cell) S8() int8     { return c.s8() }
func (c Cell) F32() float32 { return c.f32() }
func (c Cell) F64() float64 { return c.f64() }

// asFloat64 widens c to a float64 given its static kind, for use in
// conversions and arithmetic that has already been promoted to a floating
// kind.
func (c Cell) asFloat64(k types.Kind) float64 {
	switch k {
	case types.F32:
		return float64(c.f32())
	case types.F64:
		return c.f64()
	default:
		return float64(c.asInt64(k))
	}
}

// asInt64 widens c to an int64 given its static kind.
func (c Cell) asInt64(k types.Kind) int64 {
	switch k {
	case types.Bool, types.U8:
		return int64(c.u8())
	case types.S8:
		return int64(c.s8())
	case types.S32:
		return int64(c.s32())
	default:
		return int64(c)
	}
}

// convert reinterprets c, holding a value of kind from, as a value of kind
// to, performing the narrowing/widening and int/float conversions the
// source language's (s32)x-style casts and implicit arithmetic promotions
// require.
func convert(c Cell, from, to types.Kind) Cell {
	if from == to {
		return c
	}
	if to.IsFloating() {
		f := c.asFloat64(from)
		if to == types.F32 {
			return cellFromF32(float32(f))
		}
		return cellFromF64(f)
	}

	var v int64
	if from.IsFloating() {
		v = int64(c.asFloat64(from))
	} else {
		v = c.asInt64(from)
	}
	switch to {
	case types.Bool:
		if v != 0 {
			return cellFromU8(1)
		}
		return cellFromU8(0)
	case types.S8:
		return Cell(uint8(int8(v)))
	case types.U8:
		return cellFromU8(uint8(v))
	default: // S32
		return cellFromS32(int32(v))
	}
}
