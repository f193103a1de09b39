package compiler_test

import (
	"testing"

	"github.com/mna/icc/lang/compiler"
	"github.com/mna/icc/lang/parser"
	"github.com/mna/icc/lang/token"
	"github.com/stretchr/testify/require"
)

func TestCompileProgramEntryFunction(t *testing.T) {
	p := mustCompile(t, `
		s32 main() {
			return 0;
		}
	`)
	require.Len(t, p.Functions, 1)
	require.Equal(t, "main", p.Functions[p.EntryFunction].Name)
}

func TestCompileStructMemberAccess(t *testing.T) {
	p := mustCompile(t, `
		struct point {
			s32 x;
			s32 y;
		};

		s32 main() {
			struct point p;
			p.x = 1;
			p.y = 2;
			return p.x + p.y;
		}
	`)
	require.Contains(t, compiler.Disassemble(p), "add_ptr_s32")
}

func TestCompilePointerArithmeticAndDeref(t *testing.T) {
	p := mustCompile(t, `
		s32 sum(s32 *arr, s32 n) {
			s32 total = 0;
			s32 i = 0;
			while (i < n) {
				total += arr[i];
				i += 1;
			}
			return total;
		}
		s32 main() {
			s32 a = 5;
			return sum(&a, 1);
		}
	`)
	require.NotNil(t, p)
	_, idx, ok := p.FunctionByName("sum")
	require.True(t, ok)
	require.Equal(t, 2, p.Functions[idx].ParamCells)
}

func TestCompileFunctionCall(t *testing.T) {
	p := mustCompile(t, `
		s32 square(s32 x) {
			return x * x;
		}

		s32 main() {
			return square(4);
		}
	`)
	out := compiler.Disassemble(p)
	require.Contains(t, out, "call ")
}

func TestCompileMissingReturnIsError(t *testing.T) {
	prog, err := parser.Parse(token.NewSource(t.Name(), []byte(`
		s32 broken() {
			s32 x = 1;
		}

		void main() {
			broken();
		}
	`)))
	require.NoError(t, err)
	_, err = compiler.CompileProgram(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must return a value")
}

func TestCompileUndeclaredIdentifierIsError(t *testing.T) {
	prog, err := parser.Parse(token.NewSource(t.Name(), []byte(`
		s32 main() {
			return unknown;
		}
	`)))
	require.NoError(t, err)
	_, err = compiler.CompileProgram(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "undeclared identifier")
}

func TestCompileGlobalInitializerIsError(t *testing.T) {
	prog, err := parser.Parse(token.NewSource(t.Name(), []byte(`
		s32 g = 1;
	`)))
	require.NoError(t, err)
	_, err = compiler.CompileProgram(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot have an initializer")
}

func TestCompileHostPrototypeCall(t *testing.T) {
	prog, err := parser.Parse(token.NewSource(t.Name(), []byte(`
		void main() {
			bump();
			exit();
		}
	`)))
	require.NoError(t, err)
	p, err := compiler.CompileProgram(prog, "s32 bump()", "void exit()")
	require.NoError(t, err)

	require.Len(t, p.HostFunctions, 2)
	require.Equal(t, "bump", p.HostFunctions[0].Name)
	require.Equal(t, "s32 bump()", p.HostFunctions[0].Prototype)
	require.NotZero(t, p.HostFunctions[0].Hash)

	out := compiler.Disassemble(p)
	require.Contains(t, out, "call_host ")
	require.Contains(t, out, "host bump")
}

func TestCompileHostPrototypeRedeclaredFromSourceIsError(t *testing.T) {
	prog, err := parser.Parse(token.NewSource(t.Name(), []byte(`
		void exit() {
			return;
		}
	`)))
	require.NoError(t, err)
	_, err = compiler.CompileProgram(prog, "void exit()")
	require.Error(t, err)
	require.Contains(t, err.Error(), "redefined")
}

func TestCompileCastAndSizeof(t *testing.T) {
	p := mustCompile(t, `
		s32 main() {
			f64 x = 3.5;
			s32 y = (s32)x;
			return sizeof(y) + sizeof(f64);
		}
	`)
	out := compiler.Disassemble(p)
	require.Contains(t, out, "convert")
}
