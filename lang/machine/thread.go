package machine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/mna/icc/lang/compiler"
)

// ExitError is returned by a host function (the core library's exit, in the
// spirit of the source language's host_exit calling the C library's exit)
// to terminate the running program immediately with Code as its exit code,
// unwinding every pending call frame without that unwind being treated as a
// fatal error.
type ExitError struct {
	Code int32
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("machine: exit(%d)", e.Code)
}

// HostFunc is the uniform shape every host-provided function must satisfy
// to be callable from source code via CALL_HOST. It receives its arguments
// as cells (in declaration order) and returns its result cells (empty for a
// void host function).
type HostFunc func(th *Thread, args []Cell) ([]Cell, error)

// Thread executes a single compiled Program. It is not safe for concurrent
// use: the source language has no concurrency primitives, and a Thread
// carries no synchronization.
type Thread struct {
	// Name is an optional name that describes the thread, mostly for
	// debugging and error messages.
	Name string

	// Stdout, Stderr and Stdin are the thread's standard I/O streams. Host
	// functions write to Stdout through Out (the core library's print
	// functions do); Stderr and Stdin have no accessor. If nil, os.Stdout,
	// os.Stderr and os.Stdin are used.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// MaxSteps is the maximum number of executed instructions before the
	// thread is cancelled. A value <= 0 means no limit.
	MaxSteps int

	// MaxCallStackDepth limits the number of nested function calls. A value
	// <= 0 means no limit.
	MaxCallStackDepth int

	ctx       context.Context
	ctxCancel func()
	cancelled atomic.Bool

	steps, maxSteps uint64
	callDepth       int

	prog *compiler.Program
	host []HostFunc

	mem     []byte // [0:dataLen) is the global data image, the rest is the locals stack
	dataLen int
	opstack []Cell
	heap    []byte // bump-allocated, backs host functions like malloc; addressed via heapBase

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

func (th *Thread) init() {
	if th.MaxSteps <= 0 {
		th.maxSteps-- // (MaxUint64)
	} else {
		th.maxSteps = uint64(th.MaxSteps)
	}
	if th.Stdout != nil {
		th.stdout = th.Stdout
	} else {
		th.stdout = os.Stdout
	}
	if th.Stderr != nil {
		th.stderr = th.Stderr
	} else {
		th.stderr = os.Stderr
	}
	if th.Stdin != nil {
		th.stdin = th.Stdin
	} else {
		th.stdin = os.Stdin
	}
	if th.ctx == nil {
		th.ctx = context.Background()
		th.ctxCancel = func() {}
	} else {
		go func() {
			<-th.ctx.Done()
			th.cancelled.Store(true)
		}()
	}
}

// RunProgram binds p's declared host functions against hosts (by name,
// verified by djb2 hash), loads the global data image, calls the program's
// entry function (main) with no arguments, and returns its return value
// interpreted as an s32 exit code (0 if main returns void).
func (th *Thread) RunProgram(ctx context.Context, p *compiler.Program, hosts map[string]HostFunc) (int32, error) {
	if th.prog != nil {
		return 0, fmt.Errorf("thread %s has already run a program", th.Name)
	}
	th.ctx = ctx
	th.init()

	binding, err := bindHostFunctions(p, hosts)
	if err != nil {
		return 0, err
	}
	th.host = binding
	th.prog = p
	th.mem = append([]byte(nil), p.Data...)
	th.dataLen = len(p.Data)

	if len(p.Functions) == 0 {
		return 0, fmt.Errorf("machine: program has no functions")
	}
	entry := p.Functions[p.EntryFunction]

	result, err := th.runEntry(entry)
	if err != nil {
		var exit *ExitError
		if errors.As(err, &exit) {
			return exit.Code, nil
		}
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].s32(), nil
}

// Out returns the writer host functions should use for standard output
// (Stdout if set, os.Stdout otherwise), resolved once when the thread
// starts running a program.
func (th *Thread) Out() io.Writer { return th.stdout }

// runEntry invokes call and converts a fatal VM panic (an out-of-bounds
// address, a stack overflow manifesting as a Go runtime panic, and the
// like - the source VM's own "assertion violations" are not recoverable
// either) into a regular error, rather than crashing the embedding host.
func (th *Thread) runEntry(entry *compiler.Function) (result []Cell, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("machine: fatal: %v", r)
		}
	}()
	return th.call(entry, nil)
}
