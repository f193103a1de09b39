package compiler

import (
	"github.com/dolthub/swiss"
	"github.com/mna/icc/lang/types"
)

// local describes one function parameter or local variable slot.
type local struct {
	typ   types.Type
	slot  int // cell offset from the frame base
	cells int // width in cells (types.DataCellSize)
}

// funcSig records a declared function's signature for call-site checking.
type funcSig struct {
	index       int // into Program.Functions, or HostFunctions if host
	host        bool
	params      []types.Type
	ret         types.Type
	paramCells  int
	returnCells int
}

// scope tracks the symbol tables live during compilation of one program:
// globals, functions (source-defined and host), and struct definitions, plus
// the nested block scopes of whichever function is currently being
// compiled.
type scope struct {
	globals *swiss.Map[string, *Global]
	structs *swiss.Map[string, *types.Struct]
	funcs   *swiss.Map[string, *funcSig]

	blocks []*swiss.Map[string, *local] // innermost last
	depth  int                          // next free cell slot in the current function's frame
}

func newScope() *scope {
	return &scope{
		globals: swiss.NewMap[string, *Global](8),
		structs: swiss.NewMap[string, *types.Struct](8),
		funcs:   swiss.NewMap[string, *funcSig](8),
	}
}

func (s *scope) pushBlock() {
	s.blocks = append(s.blocks, swiss.NewMap[string, *local](4))
}

// popBlock discards the innermost block's names. Frame slots are not
// reclaimed for reuse by later sibling blocks - depth grows monotonically
// for the lifetime of the function, trading a little extra frame space for
// a compiler that never has to reason about slot liveness across blocks.
func (s *scope) popBlock() {
	s.blocks = s.blocks[:len(s.blocks)-1]
}

// declareLocal adds a local to the innermost block and advances the frame
// depth, returning the allocated slot.
func (s *scope) declareLocal(name string, typ types.Type) *local {
	cells := types.DataCellSize(typ)
	l := &local{typ: typ, slot: s.depth, cells: cells}
	s.depth += cells
	s.blocks[len(s.blocks)-1].Put(name, l)
	return l
}

func (s *scope) lookupLocal(name string) (*local, bool) {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if l, ok := s.blocks[i].Get(name); ok {
			return l, true
		}
	}
	return nil, false
}
