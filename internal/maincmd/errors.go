package maincmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/icc/lang/token"
)

// printError reports err on w, styled with the source excerpt and a bolded
// caret line when err carries position information.
func printError(w io.Writer, err error) {
	var posErr *token.Error
	switch e := err.(type) {
	case *token.Error:
		posErr = e
	case token.ErrorList:
		for _, pe := range e {
			printError(w, pe)
		}
		return
	}

	fmt.Fprintln(w, errorStyle.Render(err.Error()))
	if posErr == nil {
		return
	}
	excerpt := posErr.Excerpt()
	if excerpt == "" {
		return
	}
	lines := strings.SplitN(excerpt, "\n", 2)
	if len(lines) != 2 {
		fmt.Fprintln(w, excerpt)
		return
	}
	fmt.Fprintln(w, lines[0])
	fmt.Fprintln(w, caretStyle.Render(lines[1]))
}
