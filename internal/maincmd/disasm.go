package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/mna/icc/lang/compiler"
	"github.com/mna/mainer"
)

func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	p, err := compileFile(args[0], c.hostPrototypes())
	if err != nil {
		printError(stdio.Stderr, err)
		return err
	}
	fmt.Fprint(stdio.Stdout, styleDisasm(compiler.Disassemble(p)))
	return nil
}

// styleDisasm bolds each opcode mnemonic on an instruction line (lines
// indented two spaces: "  <addr>  <mnemonic> <arg>", per disasmCode).
// Section header lines (global/host/func) are left as is.
func styleDisasm(s string) string {
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		line := sc.Text()
		fields := strings.Fields(line)
		if !strings.HasPrefix(line, "  ") || len(fields) < 2 {
			b.WriteString(line)
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "  %s  %s", fields[0], opcodeStyle.Render(fields[1]))
		if len(fields) > 2 {
			b.WriteString(" ")
			b.WriteString(strings.Join(fields[2:], " "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
