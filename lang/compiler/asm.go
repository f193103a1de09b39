package compiler

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Disassemble renders a compiled Program as human-readable text: one
// section per function, one instruction per line, addresses and operands
// decoded according to each opcode's fixed-width immediate.
func Disassemble(p *Program) string {
	var sb strings.Builder
	for _, g := range p.Globals {
		fmt.Fprintf(&sb, "global %s %s @%d\n", g.Name, g.Type, g.Offset)
	}
	for _, hf := range p.HostFunctions {
		fmt.Fprintf(&sb, "host %s #%08x params=%d returns=%d\n", hf.Name, hf.Hash, hf.ParamCells, hf.ReturnCells)
	}
	for i, fn := range p.Functions {
		entry := ""
		if i == p.EntryFunction {
			entry = " (entry)"
		}
		fmt.Fprintf(&sb, "func %s locals=%d maxstack=%d%s\n", fn.Name, fn.NumLocals, fn.MaxStack, entry)
		disasmCode(&sb, fn.Code)
	}
	return sb.String()
}

func disasmCode(sb *strings.Builder, code []byte) {
	for pc := 0; pc < len(code); {
		op := Opcode(code[pc])
		if op >= maxOpcode {
			fmt.Fprintf(sb, "  %04x  illegal byte %#02x\n", pc, code[pc])
			pc++
			continue
		}
		width := op.ArgWidth()
		if pc+1+width > len(code) {
			fmt.Fprintf(sb, "  %04x  %s <truncated>\n", pc, op)
			break
		}
		arg := code[pc+1 : pc+1+width]
		fmt.Fprintf(sb, "  %04x  %s%s\n", pc, op, formatArg(op, arg))
		pc += op.Size()
	}
}

func formatArg(op Opcode, arg []byte) string {
	switch len(arg) {
	case 0:
		return ""
	case 1:
		if op == RETURN {
			return fmt.Sprintf(" %d", arg[0])
		}
		return fmt.Sprintf(" %d", int8(arg[0]))
	case 2:
		return fmt.Sprintf(" %d->%d", arg[0], arg[1])
	case 4:
		v := binary.LittleEndian.Uint32(arg)
		switch op {
		case JUMP, JUMP_IF_FALSE, JUMP_IF_TRUE:
			return fmt.Sprintf(" ->%04x", v)
		case PUSH_F32:
			return fmt.Sprintf(" %g", math.Float32frombits(v))
		default:
			return fmt.Sprintf(" %d", int32(v))
		}
	case 8:
		v := binary.LittleEndian.Uint64(arg)
		if op == PUSH_F64 {
			return fmt.Sprintf(" %g", math.Float64frombits(v))
		}
		return fmt.Sprintf(" %d", int64(v))
	}
	return ""
}
