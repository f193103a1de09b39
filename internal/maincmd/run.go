package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/icc/lang/machine"
	"github.com/mna/mainer"
)

// Run compiles path and executes it on a fresh Thread, reporting the
// program's exit code on stdio.Stdout. A non-zero exit code is not itself a
// command failure - only a compile error or a VM-fatal abort is.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	p, err := compileFile(args[0], c.hostPrototypes())
	if err != nil {
		printError(stdio.Stderr, err)
		return err
	}

	th := machine.Thread{Stdout: stdio.Stdout}
	code, err := th.RunProgram(ctx, p, c.hostFuncs())
	if err != nil {
		printError(stdio.Stderr, err)
		return err
	}
	fmt.Fprintf(stdio.Stdout, "exit code: %d\n", code)
	return nil
}
