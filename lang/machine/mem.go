package machine

import (
	"encoding/binary"
	"fmt"
)

// heapBase separates the two address spaces a Thread hands out: an address
// below heapBase is a byte offset into mem (the global data image followed
// by the active call frames' locals), at or above it is heapBase plus a
// byte offset into heap (a simple bump allocator backing host functions
// such as malloc that need memory outliving any single frame). The VM
// itself never distinguishes the two kinds of address beyond this range
// check - per the source language's pointer model, an address is just an
// opaque cell once produced.
const heapBase = 1 << 32

// addrBytes returns a byte slice rooted at addr, for reading or writing n
// bytes through it. It panics (a fatal VM error, recovered by runEntry) if addr
// does not resolve to valid memory, matching the source VM's treatment of
// an invalid address as a fatal assertion rather than a recoverable error.
func (th *Thread) addrBytes(addr uint64, n int) []byte {
	if addr >= heapBase {
		off := addr - heapBase
		if off+uint64(n) > uint64(len(th.heap)) {
			panic(fmt.Sprintf("machine: invalid heap address %#x (len %d)", addr, len(th.heap)))
		}
		return th.heap[off : off+uint64(n)]
	}
	if addr+uint64(n) > uint64(len(th.mem)) {
		panic(fmt.Sprintf("machine: invalid memory address %#x (len %d)", addr, len(th.mem)))
	}
	return th.mem[addr : addr+uint64(n)]
}

func (th *Thread) readCell(addr uint64, width int) Cell {
	b := th.addrBytes(addr, width)
	switch width {
	case 1:
		return Cell(b[0])
	case 4:
		return Cell(binary.LittleEndian.Uint32(b))
	default: // 8
		return Cell(binary.LittleEndian.Uint64(b))
	}
}

func (th *Thread) writeCell(addr uint64, width int, v Cell) {
	b := th.addrBytes(addr, width)
	switch width {
	case 1:
		b[0] = byte(v)
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	default: // 8
		binary.LittleEndian.PutUint64(b, uint64(v))
	}
}

// ReadBytes reads n raw bytes starting at addr, an address previously
// produced by the VM (e.g. a pointer argument passed to a host function).
func (th *Thread) ReadBytes(addr Cell, n int) []byte {
	return append([]byte(nil), th.addrBytes(uint64(addr), n)...)
}

// WriteBytes writes b starting at addr.
func (th *Thread) WriteBytes(addr Cell, b []byte) {
	copy(th.addrBytes(uint64(addr), len(b)), b)
}

// ReadCString reads a NUL-terminated byte string starting at addr, the
// representation a `u8*`/`const u8*` string literal or buffer uses.
func (th *Thread) ReadCString(addr Cell) string {
	a := uint64(addr)
	var buf []byte
	for {
		b := th.addrBytes(a, 1)[0]
		if b == 0 {
			break
		}
		buf = append(buf, b)
		a++
	}
	return string(buf)
}

// Alloc bump-allocates n zeroed bytes in the thread's heap and returns its
// address. Allocated memory is never reclaimed - matching the spec's
// garbage-collection non-goal, lifetime is the allocating host function's
// responsibility.
func (th *Thread) Alloc(n int) Cell {
	off := len(th.heap)
	th.heap = append(th.heap, make([]byte, n)...)
	return Cell(heapBase + uint64(off))
}
