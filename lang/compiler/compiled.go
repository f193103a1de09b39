package compiler

import "github.com/mna/icc/lang/types"

// Function is the compiled form of a single source-level function: its
// bytecode plus the layout information the machine needs to set up a call
// frame (parameter/local cell counts) and to interpret its return value.
type Function struct {
	Name        string
	Code        []byte
	NumLocals   int // total data cells reserved for params+locals in the frame
	ParamCells  int // prefix of NumLocals occupied by parameters
	ReturnCells int // 0 for void
	MaxStack    int // peak operand stack depth reached by Code
}

// HostFunction is a prototype declared by a library (the bundled core
// library, or one supplied by the embedding host) but implemented outside
// the compiled program, resolved at load time by hashing Prototype (see
// lang/machine).
type HostFunction struct {
	Name        string // the function's identifier, as called from source
	Prototype   string // exact declaration text that was hashed, e.g. "void exit()"
	Hash        uint32
	ParamCells  int
	ReturnCells int
}

// Global describes one entry in the global data image.
type Global struct {
	Name   string
	Type   types.Type
	Offset int // byte offset into Program.Data
}

// Program is the output of compilation: a complete, directly executable
// unit. There is no separate link step - compilation always produces a
// whole program from a single source file (spec's non-goal on multi-file
// linkage).
type Program struct {
	Functions     []*Function
	HostFunctions []*HostFunction
	Globals       []*Global
	Data          []byte // initial image of the global data segment
	EntryFunction int    // index into Functions of the "main" entry point
	Structs       map[string]*types.Struct
}

func (p *Program) FunctionByName(name string) (*Function, int, bool) {
	for i, fn := range p.Functions {
		if fn.Name == name {
			return fn, i, true
		}
	}
	return nil, 0, false
}
