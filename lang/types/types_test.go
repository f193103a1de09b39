package types_test

import (
	"testing"

	"github.com/mna/icc/lang/types"
	"github.com/stretchr/testify/require"
)

func TestByteSizeScalars(t *testing.T) {
	require.Equal(t, 1, types.ByteSize(types.NonPointer(types.Bool)))
	require.Equal(t, 1, types.ByteSize(types.NonPointer(types.S8)))
	require.Equal(t, 1, types.ByteSize(types.NonPointer(types.U8)))
	require.Equal(t, 4, types.ByteSize(types.NonPointer(types.S32)))
	require.Equal(t, 4, types.ByteSize(types.NonPointer(types.F32)))
	require.Equal(t, 8, types.ByteSize(types.NonPointer(types.F64)))
	require.Equal(t, 8, types.ByteSize(types.Pointer1(types.S32)))
}

func TestStructLayoutAlignsAndPads(t *testing.T) {
	s := &types.Struct{
		Name: "point",
		Members: []types.Member{
			{Name: "flag", Type: types.NonPointer(types.Bool)},
			{Name: "x", Type: types.NonPointer(types.S32)},
			{Name: "y", Type: types.NonPointer(types.F64)},
		},
	}
	s.Finish()

	require.Equal(t, 8, s.Alignment) // widest member is f64
	require.Equal(t, 0, s.MemberByName("flag").Offset)
	require.Equal(t, 4, s.MemberByName("x").Offset) // padded to s32 alignment
	require.Equal(t, 8, s.MemberByName("y").Offset) // padded to f64 alignment
	require.Equal(t, 16, s.ByteSize)                // padded up to alignment
}

func TestEmptyStructOccupiesOneByte(t *testing.T) {
	s := &types.Struct{Name: "empty"}
	s.Finish()
	require.Equal(t, 1, s.ByteSize)
	require.Equal(t, 1, s.Alignment)
}

func TestDataCellSize(t *testing.T) {
	require.Equal(t, 1, types.DataCellSize(types.NonPointer(types.S32)))

	s := &types.Struct{Members: []types.Member{
		{Name: "a", Type: types.NonPointer(types.F64)},
		{Name: "b", Type: types.NonPointer(types.S8)},
	}}
	s.Finish() // byte_size 9, padded to 16
	require.Equal(t, 2, types.DataCellSize(types.StructOf(s)))
}

func TestPointedTypeByteSize(t *testing.T) {
	require.Equal(t, 4, types.PointedTypeByteSize(types.Pointer1(types.S32)))
	require.Equal(t, 1, types.PointedTypeByteSize(types.Pointer1(types.U8)))
}

func TestReferentAndAddPointer(t *testing.T) {
	p := types.ConstPointer1(types.S32)
	require.True(t, p.IsPointer())
	r := p.Referent()
	require.False(t, r.IsPointer())
	require.True(t, r.BaseConst())

	back := r.AddPointer()
	require.Equal(t, 1, back.Indirection)
	require.True(t, back.BaseConst())
}

func TestArithmeticPromotion(t *testing.T) {
	require.Equal(t, types.S32, types.ArithmeticPromotion(types.Bool, types.S8))
	require.Equal(t, types.S32, types.ArithmeticPromotion(types.U8, types.S32))
	require.Equal(t, types.F32, types.ArithmeticPromotion(types.S32, types.F32))
	require.Equal(t, types.F64, types.ArithmeticPromotion(types.F32, types.F64))
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "s32", types.NonPointer(types.S32).String())
	require.Equal(t, "s32 *", types.Pointer1(types.S32).String())
	require.Equal(t, "const s32 *", types.ConstPointer1(types.S32).String())
}

func TestEqualIgnoresConst(t *testing.T) {
	require.True(t, types.Equal(types.Pointer1(types.S32), types.ConstPointer1(types.S32)))
	require.False(t, types.Equal(types.Pointer1(types.S32), types.Pointer1(types.F32)))
}
