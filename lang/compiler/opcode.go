// Package compiler performs type-checked code generation:
// it walks a parsed ast.Program and emits a bytecode stream plus a global
// data image that the machine package executes directly, with no separate
// optimization or linking stage.
package compiler

import "fmt"

// Opcode identifies a single VM instruction. Unlike a varint-encoded
// bytecode, every opcode here has a fixed-width immediate operand whose
// size is implied by the opcode itself (0, 1, 2, 4 or 8 bytes): S8 operands
// are 1 byte, CONVERT's from/to kind pair is 2 bytes, S32/F32 operands and
// jump/index/scale operands are 4 bytes, F64 operands are 8 bytes.
type Opcode uint8

//nolint:revive
const (
	NOP Opcode = iota

	// stack manipulation
	POP      //   x POP -
	POP_MANY //   x1..xn POP_MANY<cells:4> -
	SWAP     //   x y SWAP y x               (single-cell operands only)
	CLONE    //   x1..xn CLONE<cells:4> x1..xn x1..xn

	// literal pushes; operand width matches the pushed kind
	PUSH_S8      // - PUSH_S8<val:1>      cell   (also used for bool true/false)
	PUSH_S32     // - PUSH_S32<val:4>     cell
	PUSH_F32     // - PUSH_F32<bits:4>    cell
	PUSH_F64     // - PUSH_F64<bits:8>    cell
	PUSH_NULLPTR // - PUSH_NULLPTR        cell   (zero cell)

	// addressing and memory access
	ADDRESS        //        - ADDRESS<local:4>        addr   address of a local/param slot
	ADDRESS_GLOBAL //        - ADDRESS_GLOBAL<off:4>    addr   address of a global data slot
	LOAD_1         //     addr LOAD_1                  cell   load 1 byte, zero/sign extend per next convert
	LOAD_4         //     addr LOAD_4                  cell   load 4 bytes
	LOAD_8         //     addr LOAD_8                  cell   load 8 bytes
	LOAD_STRUCT    //     addr LOAD_STRUCT<cells:4>     c1..cn
	STORE_1        // addr val STORE_1                 val    store low byte, leaves val on stack
	STORE_4        // addr val STORE_4                 val
	STORE_8        // addr val STORE_8                 val
	STORE_STRUCT   // addr c1..cn STORE_STRUCT<cells:4> c1..cn
	MEMMOVE        // dst src MEMMOVE<cells:4>          -      copy cells cells from src to dst

	// comparisons, grouped by operand kind; within a group the order
	// matches token.Token's LT..NEQ family
	LT_S32
	LE_S32
	GT_S32
	GE_S32
	EQL_S32
	NEQ_S32

	LT_F32
	LE_F32
	GT_F32
	GE_F32
	EQL_F32
	NEQ_F32

	LT_F64
	LE_F64
	GT_F64
	GE_F64
	EQL_F64
	NEQ_F64

	EQL_PTR
	NEQ_PTR

	// binary arithmetic, grouped by operand kind; within a group the order
	// matches token.Token's PLUS..PERCENT family
	ADD_S32
	SUB_S32
	MUL_S32
	DIV_S32
	MOD_S32

	ADD_F32
	SUB_F32
	MUL_F32
	DIV_F32

	ADD_F64
	SUB_F64
	MUL_F64
	DIV_F64

	// pointer arithmetic; the scale (pointed-to byte size) is an immediate
	ADD_PTR_S32 //     ptr n ADD_PTR_S32<scale:4>  ptr
	SUB_PTR_S32 //     ptr n SUB_PTR_S32<scale:4>  ptr
	SUB_PTR_PTR //   p1 p2 SUB_PTR_PTR<scale:4>     s32

	// unary
	NEGATE_S32
	NEGATE_F32
	NEGATE_F64
	NOT_BOOL // logical not

	// numeric conversion; from/to kinds are packed one byte each
	CONVERT // x CONVERT<from:1><to:1> y

	// control flow; addresses are absolute bytecode offsets
	JUMP          //      - JUMP<addr:4>          -
	JUMP_IF_FALSE //   bool JUMP_IF_FALSE<addr:4> -
	JUMP_IF_TRUE  //   bool JUMP_IF_TRUE<addr:4>  -

	CALL      // args.. CALL<func:4>       results..
	CALL_HOST // args.. CALL_HOST<slot:4>  results..
	RETURN    // results.. RETURN<cells:1> -

	maxOpcode
)

// opcodeArgWidth gives the fixed width, in bytes, of each opcode's
// immediate operand (0 if it has none).
var opcodeArgWidth = [...]int{
	POP_MANY:       4,
	CLONE:          4,
	PUSH_S8:        1,
	PUSH_S32:       4,
	PUSH_F32:       4,
	PUSH_F64:       8,
	ADDRESS:        4,
	ADDRESS_GLOBAL: 4,
	LOAD_STRUCT:    4,
	STORE_STRUCT:   4,
	MEMMOVE:        4,
	ADD_PTR_S32:    4,
	SUB_PTR_S32:    4,
	SUB_PTR_PTR:    4,
	CONVERT:        2,
	JUMP:           4,
	JUMP_IF_FALSE:  4,
	JUMP_IF_TRUE:   4,
	CALL:           4,
	CALL_HOST:      4,
	RETURN:         1,
}

// ArgWidth returns the number of bytes occupied by op's immediate operand.
func (op Opcode) ArgWidth() int { return opcodeArgWidth[op] }

// Size returns the total encoded size, in bytes, of op and its operand.
func (op Opcode) Size() int { return 1 + op.ArgWidth() }

var opcodeNames = [...]string{
	NOP:            "nop",
	POP:            "pop",
	POP_MANY:       "pop_many",
	SWAP:           "swap",
	CLONE:          "clone",
	PUSH_S8:        "push_s8",
	PUSH_S32:       "push_s32",
	PUSH_F32:       "push_f32",
	PUSH_F64:       "push_f64",
	PUSH_NULLPTR:   "push_nullptr",
	ADDRESS:        "address",
	ADDRESS_GLOBAL: "address_global",
	LOAD_1:         "load_1",
	LOAD_4:         "load_4",
	LOAD_8:         "load_8",
	LOAD_STRUCT:    "load_struct",
	STORE_1:        "store_1",
	STORE_4:        "store_4",
	STORE_8:        "store_8",
	STORE_STRUCT:   "store_struct",
	MEMMOVE:        "memmove",
	LT_S32:         "lt_s32",
	LE_S32:         "le_s32",
	GT_S32:         "gt_s32",
	GE_S32:         "ge_s32",
	EQL_S32:        "eql_s32",
	NEQ_S32:        "neq_s32",
	LT_F32:         "lt_f32",
	LE_F32:         "le_f32",
	GT_F32:         "gt_f32",
	GE_F32:         "ge_f32",
	EQL_F32:        "eql_f32",
	NEQ_F32:        "neq_f32",
	LT_F64:         "lt_f64",
	LE_F64:         "le_f64",
	GT_F64:         "gt_f64",
	GE_F64:         "ge_f64",
	EQL_F64:        "eql_f64",
	NEQ_F64:        "neq_f64",
	EQL_PTR:        "eql_ptr",
	NEQ_PTR:        "neq_ptr",
	ADD_S32:        "add_s32",
	SUB_S32:        "sub_s32",
	MUL_S32:        "mul_s32",
	DIV_S32:        "div_s32",
	MOD_S32:        "mod_s32",
	ADD_F32:        "add_f32",
	SUB_F32:        "sub_f32",
	MUL_F32:        "mul_f32",
	DIV_F32:        "div_f32",
	ADD_F64:        "add_f64",
	SUB_F64:        "sub_f64",
	MUL_F64:        "mul_f64",
	DIV_F64:        "div_f64",
	ADD_PTR_S32:    "add_ptr_s32",
	SUB_PTR_S32:    "sub_ptr_s32",
	SUB_PTR_PTR:    "sub_ptr_ptr",
	NEGATE_S32:     "negate_s32",
	NEGATE_F32:     "negate_f32",
	NEGATE_F64:     "negate_f64",
	NOT_BOOL:       "not_bool",
	CONVERT:        "convert",
	JUMP:           "jump",
	JUMP_IF_FALSE:  "jump_if_false",
	JUMP_IF_TRUE:   "jump_if_true",
	CALL:           "call",
	CALL_HOST:      "call_host",
	RETURN:         "return",
}

func (op Opcode) String() string {
	if op < maxOpcode {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}

var reverseLookupOpcode = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		if name != "" {
			m[name] = Opcode(op)
		}
	}
	return m
}()
