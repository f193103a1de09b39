package compiler

import "encoding/binary"

// buffer accumulates a function's bytecode. All immediates are encoded
// fixed-width, host-endian (little-endian): 1, 2, 4 or 8 bytes depending on
// the opcode, never a variable-length varint.
type buffer struct {
	code []byte
}

func (b *buffer) pos() uint32 { return uint32(len(b.code)) }

func (b *buffer) emit(op Opcode) uint32 {
	pos := b.pos()
	b.code = append(b.code, byte(op))
	return pos
}

func (b *buffer) emit1(op Opcode, arg uint8) uint32 {
	pos := b.pos()
	b.code = append(b.code, byte(op), arg)
	return pos
}

func (b *buffer) emit2(op Opcode, lo, hi uint8) uint32 {
	pos := b.pos()
	b.code = append(b.code, byte(op), lo, hi)
	return pos
}

func (b *buffer) emit4(op Opcode, arg uint32) uint32 {
	pos := b.pos()
	b.code = append(b.code, byte(op), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(b.code[pos+1:], arg)
	return pos
}

func (b *buffer) emit8(op Opcode, arg uint64) uint32 {
	pos := b.pos()
	b.code = append(b.code, byte(op), 0, 0, 0, 0, 0, 0, 0, 0)
	binary.LittleEndian.PutUint64(b.code[pos+1:], arg)
	return pos
}

// patch backfills the 4-byte address operand of a jump instruction
// previously emitted at pos (the jump opcode's own offset) with target.
func (b *buffer) patch(pos uint32, target uint32) {
	binary.LittleEndian.PutUint32(b.code[pos+1:], target)
}
