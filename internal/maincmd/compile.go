package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/icc/lang/compiler"
	"github.com/mna/icc/lang/corelib"
	"github.com/mna/icc/lang/machine"
	"github.com/mna/icc/lang/parser"
	"github.com/mna/mainer"
)

// hostPrototypes resolves the --lib selection to the prototype list it
// contributes, empty if no library was requested.
func (c *Cmd) hostPrototypes() []string {
	switch c.Lib {
	case "core":
		return corelib.Core
	default:
		return nil
	}
}

// hostFuncs resolves the --lib selection to its Go implementations.
func (c *Cmd) hostFuncs() map[string]machine.HostFunc {
	switch c.Lib {
	case "core":
		return corelib.Funcs()
	default:
		return nil
	}
}

func compileFile(path string, hostPrototypes []string) (*compiler.Program, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return compiler.CompileProgram(prog, hostPrototypes...)
}

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if _, err := compileFile(args[0], c.hostPrototypes()); err != nil {
		printError(stdio.Stderr, err)
		return err
	}
	fmt.Fprintln(stdio.Stdout, "ok")
	return nil
}
