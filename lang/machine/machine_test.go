package machine_test

import (
	"context"
	"testing"

	"github.com/mna/icc/lang/compiler"
	"github.com/mna/icc/lang/machine"
	"github.com/mna/icc/lang/parser"
	"github.com/mna/icc/lang/token"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string, hostPrototypes ...string) *compiler.Program {
	t.Helper()
	prog, err := parser.Parse(token.NewSource(t.Name(), []byte(src)))
	require.NoError(t, err)
	cprog, err := compiler.CompileProgram(prog, hostPrototypes...)
	require.NoError(t, err)
	return cprog
}

func runProgram(t *testing.T, p *compiler.Program, hosts map[string]machine.HostFunc) int32 {
	t.Helper()
	var th machine.Thread
	code, err := th.RunProgram(context.Background(), p, hosts)
	require.NoError(t, err)
	return code
}

func TestRunArithmeticAndControlFlow(t *testing.T) {
	p := mustCompile(t, `
		s32 main() {
			s32 x = 2 + 3 * 4;
			if (x != 14) {
				return 1;
			}
			s32 sum = 0;
			s32 i = 0;
			while (i < 5) {
				sum += i;
				i += 1;
			}
			if (sum != 10) {
				return 2;
			}
			return 0;
		}
	`)
	require.EqualValues(t, 0, runProgram(t, p, nil))
}

func TestRunPointerArithmeticAndStruct(t *testing.T) {
	p := mustCompile(t, `
		struct point {
			s32 x;
			s32 y;
		};

		s32 main() {
			struct point p;
			p.x = 3;
			p.y = 4;
			if (p.x + p.y != 7) {
				return 1;
			}

			s32 a;
			s32 *pa = &a;
			*pa = 9;
			if (a != 9) {
				return 2;
			}
			return 0;
		}
	`)
	require.EqualValues(t, 0, runProgram(t, p, nil))
}

func TestRunFunctionCallAndRecursion(t *testing.T) {
	p := mustCompile(t, `
		s32 fib(s32 n) {
			if (n < 2) {
				return n;
			}
			return fib(n - 1) + fib(n - 2);
		}

		s32 main() {
			return fib(10);
		}
	`)
	require.EqualValues(t, 55, runProgram(t, p, nil))
}

func TestRunShortCircuitDoesNotCallRight(t *testing.T) {
	p := mustCompile(t, `
		void main() {
			if (false && bump()) {}
			if (true || bump()) {}
			exit();
		}
	`, "bool bump()", "void exit()")

	calls := 0
	hosts := map[string]machine.HostFunc{
		"bump": func(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
			calls++
			return nil, nil
		},
		"exit": func(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
			return nil, nil
		},
	}
	require.EqualValues(t, 0, runProgram(t, p, hosts))
	require.Equal(t, 0, calls)
}

func TestRunHostFunctionCallIsCounted(t *testing.T) {
	p := mustCompile(t, `
		void main() {
			bump();
			bump();
			bump();
		}
	`, "s32 bump()")

	calls := 0
	hosts := map[string]machine.HostFunc{
		"bump": func(th *machine.Thread, args []machine.Cell) ([]machine.Cell, error) {
			calls++
			return []machine.Cell{machine.S32Cell(int32(calls))}, nil
		},
	}
	runProgram(t, p, hosts)
	require.Equal(t, 3, calls)
}

func TestRunCallStackOverflowIsFatal(t *testing.T) {
	p := mustCompile(t, `
		s32 loop(s32 n) {
			return loop(n + 1);
		}

		s32 main() {
			return loop(0);
		}
	`)
	th := &machine.Thread{MaxCallStackDepth: 64}
	_, err := th.RunProgram(context.Background(), p, nil)
	require.Error(t, err)
}
