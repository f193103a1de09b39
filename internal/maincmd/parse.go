package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/icc/lang/ast"
	"github.com/mna/icc/lang/parser"
	"github.com/mna/mainer"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFile(ctx, stdio, c.WithPos, args[0])
}

// ParseFile parses path and prints its AST, one line per node, to
// stdio.Stdout.
func ParseFile(ctx context.Context, stdio mainer.Stdio, withPos bool, path string) error {
	src, err := readSource(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	prog, err := parser.Parse(src)
	if err != nil {
		printError(stdio.Stderr, err)
		return err
	}

	printer := ast.Printer{Output: stdio.Stdout, WithPos: withPos}
	return printer.Print(prog)
}
