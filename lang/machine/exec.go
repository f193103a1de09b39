package machine

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mna/icc/lang/compiler"
	"github.com/mna/icc/lang/types"
)

// call runs fn with args bound to its leading parameter cells, executing
// its bytecode to completion and returning its result cells (empty for a
// void function). Source-level recursion is mapped directly onto the Go
// call stack: each CALL instruction re-enters call, and callDepth (checked
// against MaxCallStackDepth) stands in for an explicit frame stack.
func (th *Thread) call(fn *compiler.Function, args []Cell) ([]Cell, error) {
	if th.MaxCallStackDepth > 0 && th.callDepth >= th.MaxCallStackDepth {
		return nil, fmt.Errorf("machine: call stack overflow calling %q", fn.Name)
	}
	th.callDepth++
	defer func() { th.callDepth-- }()

	frameBase := len(th.mem)
	th.mem = append(th.mem, make([]byte, fn.NumLocals*types.CellSize)...)
	defer func() { th.mem = th.mem[:frameBase] }()

	for i, a := range args {
		binary.LittleEndian.PutUint64(th.mem[frameBase+i*types.CellSize:], uint64(a))
	}

	opBase := len(th.opstack)
	defer func() { th.opstack = th.opstack[:opBase] }()

	code := fn.Code
	pc := 0
	for {
		if th.cancelled.Load() {
			return nil, fmt.Errorf("machine: thread %s was cancelled", th.Name)
		}
		th.steps++
		if th.steps > th.maxSteps {
			return nil, fmt.Errorf("machine: thread %s exceeded its maximum step count", th.Name)
		}

		op := compiler.Opcode(code[pc])
		pc++

		switch op {
		case compiler.NOP:

		case compiler.POP:
			th.opstack = th.opstack[:len(th.opstack)-1]

		case compiler.POP_MANY:
			n := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			th.opstack = th.opstack[:len(th.opstack)-n]

		case compiler.SWAP:
			n := len(th.opstack)
			th.opstack[n-1], th.opstack[n-2] = th.opstack[n-2], th.opstack[n-1]

		case compiler.CLONE:
			n := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			top := len(th.opstack)
			th.opstack = append(th.opstack, th.opstack[top-n:top]...)

		case compiler.PUSH_S8:
			th.opstack = append(th.opstack, Cell(code[pc]))
			pc++

		case compiler.PUSH_S32, compiler.PUSH_F32:
			v := binary.LittleEndian.Uint32(code[pc:])
			pc += 4
			th.opstack = append(th.opstack, Cell(v))

		case compiler.PUSH_F64:
			v := binary.LittleEndian.Uint64(code[pc:])
			pc += 8
			th.opstack = append(th.opstack, Cell(v))

		case compiler.PUSH_NULLPTR:
			th.opstack = append(th.opstack, 0)

		case compiler.ADDRESS:
			slot := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			th.opstack = append(th.opstack, Cell(frameBase+slot*types.CellSize))

		case compiler.ADDRESS_GLOBAL:
			off := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			th.opstack = append(th.opstack, Cell(off))

		case compiler.LOAD_1, compiler.LOAD_4, compiler.LOAD_8:
			width := loadWidth(op)
			n := len(th.opstack)
			addr := uint64(th.opstack[n-1])
			th.opstack[n-1] = th.readCell(addr, width)

		case compiler.LOAD_STRUCT:
			cells := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			n := len(th.opstack)
			addr := uint64(th.opstack[n-1])
			th.opstack = th.opstack[:n-1]
			for i := 0; i < cells; i++ {
				th.opstack = append(th.opstack, th.readCell(addr+uint64(i*types.CellSize), types.CellSize))
			}

		case compiler.STORE_1, compiler.STORE_4, compiler.STORE_8:
			width := storeWidth(op)
			n := len(th.opstack)
			val := th.opstack[n-1]
			addr := uint64(th.opstack[n-2])
			th.writeCell(addr, width, val)
			th.opstack[n-2] = val
			th.opstack = th.opstack[:n-1]

		case compiler.STORE_STRUCT:
			cells := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			n := len(th.opstack)
			vals := append([]Cell(nil), th.opstack[n-cells:n]...)
			addr := uint64(th.opstack[n-cells-1])
			for i, v := range vals {
				th.writeCell(addr+uint64(i*types.CellSize), types.CellSize, v)
			}
			copy(th.opstack[n-cells-1:n-1], vals)
			th.opstack = th.opstack[:n-1]

		case compiler.MEMMOVE:
			cells := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			n := len(th.opstack)
			src := uint64(th.opstack[n-1])
			dst := uint64(th.opstack[n-2])
			th.opstack = th.opstack[:n-2]
			copy(th.addrBytes(dst, cells*types.CellSize), th.addrBytes(src, cells*types.CellSize))

		case compiler.LT_S32, compiler.LE_S32, compiler.GT_S32, compiler.GE_S32, compiler.EQL_S32, compiler.NEQ_S32:
			th.compareS32(op)
		case compiler.LT_F32, compiler.LE_F32, compiler.GT_F32, compiler.GE_F32, compiler.EQL_F32, compiler.NEQ_F32:
			th.compareF32(op)
		case compiler.LT_F64, compiler.LE_F64, compiler.GT_F64, compiler.GE_F64, compiler.EQL_F64, compiler.NEQ_F64:
			th.compareF64(op)
		case compiler.EQL_PTR, compiler.NEQ_PTR:
			th.comparePtr(op)

		case compiler.ADD_S32, compiler.SUB_S32, compiler.MUL_S32, compiler.DIV_S32, compiler.MOD_S32:
			th.arithS32(op)
		case compiler.ADD_F32, compiler.SUB_F32, compiler.MUL_F32, compiler.DIV_F32:
			th.arithF32(op)
		case compiler.ADD_F64, compiler.SUB_F64, compiler.MUL_F64, compiler.DIV_F64:
			th.arithF64(op)

		case compiler.ADD_PTR_S32, compiler.SUB_PTR_S32:
			scale := int64(int32(binary.LittleEndian.Uint32(code[pc:])))
			pc += 4
			n := len(th.opstack)
			count := int64(th.opstack[n-1].s32())
			ptr := int64(th.opstack[n-2])
			delta := count * scale
			if op == compiler.SUB_PTR_S32 {
				delta = -delta
			}
			th.opstack[n-2] = Cell(uint64(ptr + delta))
			th.opstack = th.opstack[:n-1]

		case compiler.SUB_PTR_PTR:
			scale := int64(int32(binary.LittleEndian.Uint32(code[pc:])))
			pc += 4
			n := len(th.opstack)
			p2 := int64(th.opstack[n-1])
			p1 := int64(th.opstack[n-2])
			th.opstack[n-2] = cellFromS32(int32((p1 - p2) / scale))
			th.opstack = th.opstack[:n-1]

		case compiler.NEGATE_S32:
			n := len(th.opstack)
			th.opstack[n-1] = cellFromS32(-th.opstack[n-1].s32())
		case compiler.NEGATE_F32:
			n := len(th.opstack)
			th.opstack[n-1] = cellFromF32(-th.opstack[n-1].f32())
		case compiler.NEGATE_F64:
			n := len(th.opstack)
			th.opstack[n-1] = cellFromF64(-th.opstack[n-1].f64())
		case compiler.NOT_BOOL:
			n := len(th.opstack)
			th.opstack[n-1] = boolCell(th.opstack[n-1].u8() == 0)

		case compiler.CONVERT:
			from := types.Kind(code[pc])
			to := types.Kind(code[pc+1])
			pc += 2
			n := len(th.opstack)
			th.opstack[n-1] = convert(th.opstack[n-1], from, to)

		case compiler.JUMP:
			pc = int(binary.LittleEndian.Uint32(code[pc:]))

		case compiler.JUMP_IF_FALSE:
			target := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			n := len(th.opstack)
			v := th.opstack[n-1]
			th.opstack = th.opstack[:n-1]
			if v.u8() == 0 {
				pc = target
			}

		case compiler.JUMP_IF_TRUE:
			target := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			n := len(th.opstack)
			v := th.opstack[n-1]
			th.opstack = th.opstack[:n-1]
			if v.u8() != 0 {
				pc = target
			}

		case compiler.CALL:
			idx := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			callee := th.prog.Functions[idx]
			n := len(th.opstack)
			args := append([]Cell(nil), th.opstack[n-callee.ParamCells:n]...)
			th.opstack = th.opstack[:n-callee.ParamCells]
			result, err := th.call(callee, args)
			if err != nil {
				return nil, err
			}
			th.opstack = append(th.opstack, result...)

		case compiler.CALL_HOST:
			slot := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			hf := th.prog.HostFunctions[slot]
			n := len(th.opstack)
			args := append([]Cell(nil), th.opstack[n-hf.ParamCells:n]...)
			th.opstack = th.opstack[:n-hf.ParamCells]
			result, err := th.host[slot](th, args)
			if err != nil {
				var exit *ExitError
				if errors.As(err, &exit) {
					return nil, err
				}
				return nil, fmt.Errorf("machine: host function %q: %w", hf.Name, err)
			}
			th.opstack = append(th.opstack, result...)

		case compiler.RETURN:
			cells := int(code[pc])
			n := len(th.opstack)
			return append([]Cell(nil), th.opstack[n-cells:n]...), nil

		default:
			return nil, fmt.Errorf("machine: illegal opcode %d", op)
		}
	}
}

func loadWidth(op compiler.Opcode) int {
	switch op {
	case compiler.LOAD_1:
		return 1
	case compiler.LOAD_4:
		return 4
	default:
		return 8
	}
}

func storeWidth(op compiler.Opcode) int {
	switch op {
	case compiler.STORE_1:
		return 1
	case compiler.STORE_4:
		return 4
	default:
		return 8
	}
}

func boolCell(b bool) Cell {
	if b {
		return cellFromU8(1)
	}
	return cellFromU8(0)
}

func (th *Thread) compareS32(op compiler.Opcode) {
	n := len(th.opstack)
	a, b := th.opstack[n-2].s32(), th.opstack[n-1].s32()
	var r bool
	switch op {
	case compiler.LT_S32:
		r = a < b
	case compiler.LE_S32:
		r = a <= b
	case compiler.GT_S32:
		r = a > b
	case compiler.GE_S32:
		r = a >= b
	case compiler.EQL_S32:
		r = a == b
	case compiler.NEQ_S32:
		r = a != b
	}
	th.opstack[n-2] = boolCell(r)
	th.opstack = th.opstack[:n-1]
}

func (th *Thread) compareF32(op compiler.Opcode) {
	n := len(th.opstack)
	a, b := th.opstack[n-2].f32(), th.opstack[n-1].f32()
	var r bool
	switch op {
	case compiler.LT_F32:
		r = a < b
	case compiler.LE_F32:
		r = a <= b
	case compiler.GT_F32:
		r = a > b
	case compiler.GE_F32:
		r = a >= b
	case compiler.EQL_F32:
		r = a == b
	case compiler.NEQ_F32:
		r = a != b
	}
	th.opstack[n-2] = boolCell(r)
	th.opstack = th.opstack[:n-1]
}

func (th *Thread) compareF64(op compiler.Opcode) {
	n := len(th.opstack)
	a, b := th.opstack[n-2].f64(), th.opstack[n-1].f64()
	var r bool
	switch op {
	case compiler.LT_F64:
		r = a < b
	case compiler.LE_F64:
		r = a <= b
	case compiler.GT_F64:
		r = a > b
	case compiler.GE_F64:
		r = a >= b
	case compiler.EQL_F64:
		r = a == b
	case compiler.NEQ_F64:
		r = a != b
	}
	th.opstack[n-2] = boolCell(r)
	th.opstack = th.opstack[:n-1]
}

// comparePtr compares the two raw addresses for equality (EQL_PTR) or
// inequality (NEQ_PTR). There are no pointer ordering opcodes: the compiler
// rejects <, <=, > and >= on pointer operands.
func (th *Thread) comparePtr(op compiler.Opcode) {
	n := len(th.opstack)
	a, b := th.opstack[n-2], th.opstack[n-1]
	r := a == b
	if op == compiler.NEQ_PTR {
		r = !r
	}
	th.opstack[n-2] = boolCell(r)
	th.opstack = th.opstack[:n-1]
}

func (th *Thread) arithS32(op compiler.Opcode) {
	n := len(th.opstack)
	a, b := th.opstack[n-2].s32(), th.opstack[n-1].s32()
	var r int32
	switch op {
	case compiler.ADD_S32:
		r = a + b
	case compiler.SUB_S32:
		r = a - b
	case compiler.MUL_S32:
		r = a * b
	case compiler.DIV_S32:
		r = a / b
	case compiler.MOD_S32:
		r = a % b
	}
	th.opstack[n-2] = cellFromS32(r)
	th.opstack = th.opstack[:n-1]
}

func (th *Thread) arithF32(op compiler.Opcode) {
	n := len(th.opstack)
	a, b := th.opstack[n-2].f32(), th.opstack[n-1].f32()
	var r float32
	switch op {
	case compiler.ADD_F32:
		r = a + b
	case compiler.SUB_F32:
		r = a - b
	case compiler.MUL_F32:
		r = a * b
	case compiler.DIV_F32:
		r = a / b
	}
	th.opstack[n-2] = cellFromF32(r)
	th.opstack = th.opstack[:n-1]
}

func (th *Thread) arithF64(op compiler.Opcode) {
	n := len(th.opstack)
	a, b := th.opstack[n-2].f64(), th.opstack[n-1].f64()
	var r float64
	switch op {
	case compiler.ADD_F64:
		r = a + b
	case compiler.SUB_F64:
		r = a - b
	case compiler.MUL_F64:
		r = a * b
	case compiler.DIV_F64:
		r = a / b
	}
	th.opstack[n-2] = cellFromF64(r)
	th.opstack = th.opstack[:n-1]
}
