package maincmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/icc/internal/maincmd"
	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.icc")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestTokenizeFile(t *testing.T) {
	path := writeSource(t, `s32 main() { return 1; }`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := maincmd.TokenizeFile(context.Background(), stdio, true, path)
	require.NoError(t, err)
	require.Empty(t, errOut.String())
	require.Contains(t, out.String(), "1:1:")
	require.Contains(t, out.String(), "1")
}

func TestTokenizeFileReportsAllLexErrors(t *testing.T) {
	path := writeSource(t, "s32 x = 1 @ 2; s32 y = 3 $ 4;")
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := maincmd.TokenizeFile(context.Background(), stdio, false, path)
	require.Error(t, err)
	require.NotEmpty(t, errOut.String())
	require.Contains(t, errOut.String(), ":1:11:")
	require.Contains(t, errOut.String(), ":1:26:")
}

func TestParseFile(t *testing.T) {
	path := writeSource(t, `s32 main() { return 1; }`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := maincmd.ParseFile(context.Background(), stdio, false, path)
	require.NoError(t, err)
	require.Empty(t, errOut.String())
	require.NotEmpty(t, out.String())
}

func TestParseFileReportsSyntaxError(t *testing.T) {
	path := writeSource(t, `s32 main( { return 1; }`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := maincmd.ParseFile(context.Background(), stdio, false, path)
	require.Error(t, err)
	require.NotEmpty(t, errOut.String())
}

func TestCmdCompileAndDisasmAndRun(t *testing.T) {
	path := writeSource(t, `
		s32 main() {
			s32 x = 2 + 3;
			return x;
		}
	`)

	c := &maincmd.Cmd{}
	ctx := context.Background()

	var compileOut, compileErr bytes.Buffer
	err := c.Compile(ctx, mainer.Stdio{Stdout: &compileOut, Stderr: &compileErr}, []string{path})
	require.NoError(t, err)
	require.Contains(t, compileOut.String(), "ok")

	var disasmOut, disasmErr bytes.Buffer
	err = c.Disasm(ctx, mainer.Stdio{Stdout: &disasmOut, Stderr: &disasmErr}, []string{path})
	require.NoError(t, err)
	require.Contains(t, disasmOut.String(), "func main")

	var runOut, runErr bytes.Buffer
	err = c.Run(ctx, mainer.Stdio{Stdout: &runOut, Stderr: &runErr}, []string{path})
	require.NoError(t, err)
	require.Contains(t, runOut.String(), "exit code: 5")
}

func TestCmdRunWithCoreLib(t *testing.T) {
	path := writeSource(t, `
		void main() {
			prints("hi");
		}
	`)

	c := &maincmd.Cmd{Lib: "core"}
	var runOut, runErr bytes.Buffer
	err := c.Run(context.Background(), mainer.Stdio{Stdout: &runOut, Stderr: &runErr}, []string{path})
	require.NoError(t, err)
	require.Contains(t, runOut.String(), "hi")
	require.Contains(t, runOut.String(), "exit code: 0")
}

func TestCmdCompileReportsError(t *testing.T) {
	path := writeSource(t, `s32 main() { return "nope"; }`)

	c := &maincmd.Cmd{}
	var out, errOut bytes.Buffer
	err := c.Compile(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path})
	require.Error(t, err)
	require.NotEmpty(t, errOut.String())
}
