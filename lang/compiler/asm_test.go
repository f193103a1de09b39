package compiler_test

import (
	"strings"
	"testing"

	"github.com/mna/icc/lang/compiler"
	"github.com/mna/icc/lang/parser"
	"github.com/mna/icc/lang/token"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *compiler.Program {
	t.Helper()
	prog, err := parser.Parse(token.NewSource(t.Name(), []byte(src)))
	require.NoError(t, err)
	cprog, err := compiler.CompileProgram(prog)
	require.NoError(t, err)
	return cprog
}

func TestDisassembleSimpleFunction(t *testing.T) {
	p := mustCompile(t, `
		s32 main() {
			return 1 + 2;
		}
	`)
	out := compiler.Disassemble(p)
	require.Contains(t, out, "func main")
	require.Contains(t, out, "(entry)")
	require.Contains(t, out, "push_s32 1")
	require.Contains(t, out, "push_s32 2")
	require.Contains(t, out, "add_s32")
	require.Contains(t, out, "return")
}

func TestDisassembleGlobalsAndJumps(t *testing.T) {
	p := mustCompile(t, `
		s32 counter;

		void bump() {
			while (counter < 10) {
				counter += 1;
			}
		}

		void main() {
			bump();
		}
	`)
	out := compiler.Disassemble(p)
	require.Contains(t, out, "global counter")
	require.Contains(t, out, "jump_if_false")
	require.True(t, strings.Contains(out, "->"))
}
