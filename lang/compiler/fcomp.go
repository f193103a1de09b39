package compiler

import "github.com/mna/icc/lang/types"

// fcomp holds the compiler state for a single function body: its bytecode
// buffer, its enclosing compiler (for scope/type lookups), the function's
// declared return type, and the stack of loops currently being compiled
// (for break/continue patch lists).
type fcomp struct {
	c       *compiler
	buf     buffer
	retType types.Type
	depth   int // current operand-stack depth, in cells
	peak    int

	loops []loopState
}

// loopState accumulates the bytecode positions of break/continue jumps
// emitted inside a loop body, patched to their real targets once the whole
// loop has been compiled.
type loopState struct {
	breaks    []uint32
	continues []uint32
}

// track records a net change of delta cells on the operand stack and
// updates the function's peak stack depth.
func (f *fcomp) track(delta int) {
	f.depth += delta
	if f.depth > f.peak {
		f.peak = f.depth
	}
}

func (f *fcomp) pushLoop()          { f.loops = append(f.loops, loopState{}) }
func (f *fcomp) currentLoop() *loopState {
	if len(f.loops) == 0 {
		return nil
	}
	return &f.loops[len(f.loops)-1]
}
func (f *fcomp) popLoop() loopState {
	l := f.loops[len(f.loops)-1]
	f.loops = f.loops[:len(f.loops)-1]
	return l
}
