// Package corelib implements the bundled host function library (the
// source language's CORE library flag), a host-agnostic subset of the
// reference core library covering float math (tan, sqrt, pow), output, allocation,
// string length/comparison, and process exit. Graphics and file I/O, which
// the reference core library also exposes, are out of scope here - this
// library only ever touches the VM's own memory and stdout.
package corelib

import (
	"fmt"
	"math"
	"strings"

	"github.com/mna/icc/lang/machine"
)

// Core lists, in the exact declaration text the VM hashes at load time,
// every prototype this library implements. A host wires it in by passing
// Core to compiler.CompileProgram and Funcs() to Thread.RunProgram.
var Core = []string{
	"void prints(const u8*)",
	"void printf(f64)",
	"void printp(const u8*)",
	"u8* malloc(s32)",
	"f64 tan(f64)",
	"f64 sqrt(f64)",
	"f64 pow(f64, f64)",
	"s32 strlen(const u8*)",
	"s32 strcmp(const u8*, const u8*)",
	"void exit()",
}

// Funcs returns the Go implementation of every prototype in Core, keyed by
// function name, ready to pass to machine.Thread.RunProgram.
func Funcs() map[string]machine.HostFunc {
	return map[string]machine.HostFunc{
		"prints": hostPrints,
		"printf": hostPrintf,
		"printp": hostPrintp,
		"malloc": hostMalloc,
		"tan":    hostTan,
		"sqrt":   hostSqrt,
		"pow":    hostPow,
		"strlen": hostStrlen,
		"strcmp": hostStrcmp,
		"exit":   hostExit,
	}
}

func hostPrints(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	s := th.ReadCString(args[0])
	fmt.Fprintf(th.Out(), "prints: %s\n", s)
	return nil, nil
}

func hostPrintf(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	fmt.Fprintf(th.Out(), "printf: %f\n", args[0].F64())
	return nil, nil
}

func hostPrintp(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	fmt.Fprintf(th.Out(), "printp: %#x\n", uint64(args[0]))
	return nil, nil
}

func hostMalloc(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	n := args[0].S32()
	if n < 0 {
		return nil, fmt.Errorf("corelib: malloc: negative size %d", n)
	}
	return []machine.Cell{th.Alloc(int(n))}, nil
}

func hostTan(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	return []machine.Cell{machine.F64Cell(math.Tan(args[0].F64()))}, nil
}

func hostSqrt(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	return []machine.Cell{machine.F64Cell(math.Sqrt(args[0].F64()))}, nil
}

func hostPow(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	return []machine.Cell{machine.F64Cell(math.Pow(args[0].F64(), args[1].F64()))}, nil
}

func hostStrlen(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	s := th.ReadCString(args[0])
	return []machine.Cell{machine.S32Cell(int32(len(s)))}, nil
}

func hostStrcmp(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	a := th.ReadCString(args[0])
	b := th.ReadCString(args[1])
	return []machine.Cell{machine.S32Cell(int32(strings.Compare(a, b)))}, nil
}

func hostExit(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
	return nil, &machine.ExitError{Code: 0}
}
