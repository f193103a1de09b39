package corelib_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/mna/icc/lang/compiler"
	"github.com/mna/icc/lang/corelib"
	"github.com/mna/icc/lang/machine"
	"github.com/mna/icc/lang/parser"
	"github.com/mna/icc/lang/token"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *compiler.Program {
	t.Helper()
	prog, err := parser.Parse(token.NewSource(t.Name(), []byte(src)))
	require.NoError(t, err)
	p, err := compiler.CompileProgram(prog, corelib.Core...)
	require.NoError(t, err)
	return p
}

func TestMathFunctions(t *testing.T) {
	p := mustCompile(t, `
		void main() {
			f64 x = sqrt(16.0);
			if (x != 4.0) {
				exit();
			}
			f64 y = pow(2.0, 10.0);
			if (y != 1024.0) {
				exit();
			}
		}
	`)
	var th machine.Thread
	code, err := th.RunProgram(context.Background(), p, corelib.Funcs())
	require.NoError(t, err)
	require.EqualValues(t, 0, code)
}

func TestExitStopsExecution(t *testing.T) {
	p := mustCompile(t, `
		void main() {
			exit();
			s32 unreachable = 1 / 0;
		}
	`)
	var th machine.Thread
	code, err := th.RunProgram(context.Background(), p, corelib.Funcs())
	require.NoError(t, err)
	require.EqualValues(t, 0, code)
}

func TestStrlenAndStrcmp(t *testing.T) {
	p := mustCompile(t, `
		s32 main() {
			const u8 *a = "hello";
			const u8 *b = "hello";
			if (strlen(a) != 5) {
				return 1;
			}
			if (strcmp(a, b) != 0) {
				return 2;
			}
			return 0;
		}
	`)
	var th machine.Thread
	code, err := th.RunProgram(context.Background(), p, corelib.Funcs())
	require.NoError(t, err)
	require.EqualValues(t, 0, code)
}

func TestMallocReturnsDistinctAddressableMemory(t *testing.T) {
	p := mustCompile(t, `
		s32 main() {
			s32 *p = (s32*)malloc(4);
			s32 *q = (s32*)malloc(4);
			*p = 42;
			*q = 7;
			if (p == q) {
				return 1;
			}
			return *p;
		}
	`)
	var th machine.Thread
	code, err := th.RunProgram(context.Background(), p, corelib.Funcs())
	require.NoError(t, err)
	require.EqualValues(t, 42, code)
}

func TestPrintsWritesToThreadStdout(t *testing.T) {
	p := mustCompile(t, `
		void main() {
			prints("hi");
		}
	`)
	var buf bytes.Buffer
	th := machine.Thread{Stdout: &buf}
	_, err := th.RunProgram(context.Background(), p, corelib.Funcs())
	require.NoError(t, err)
	require.Contains(t, buf.String(), "hi")
}
