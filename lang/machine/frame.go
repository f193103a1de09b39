package machine

import "github.com/mna/icc/lang/compiler"

// Frame records one active call to a source-defined function: which
// function, where execution has reached, and where its locals live in the
// thread's memory stack.
type Frame struct {
	fn        *compiler.Function
	pc        uint32
	frameBase int // byte offset into Thread.mem where this frame's locals start
}
