package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/icc/lang/scanner"
	"github.com/mna/icc/lang/token"
	"github.com/mna/mainer"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFile(ctx, stdio, c.WithPos, args[0])
}

// TokenizeFile scans path and prints one line per token to stdio.Stdout,
// reporting every lexical error found (the scanner always reaches EOF, so
// all of them are collected rather than just the first).
func TokenizeFile(ctx context.Context, stdio mainer.Stdio, withPos bool, path string) error {
	src, err := readSource(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	toks, errs := scanner.ScanAll(src)
	for _, tv := range toks {
		if tv.Token == token.EOF {
			continue
		}
		line := tokenStyle.Render(tv.Token.String())
		if withPos {
			l, col := tv.Value.Pos.LineCol()
			line = fmt.Sprintf("%d:%d: %s", l, col, line)
		}
		if tv.Value.Raw != "" {
			line += " " + literalStyle.Render(tv.Value.Raw)
		}
		fmt.Fprintln(stdio.Stdout, line)
	}

	var list token.ErrorList
	for _, e := range errs {
		if pe, ok := e.(*token.Error); ok {
			list.Add(pe)
		}
	}
	if len(list) == 0 {
		return nil
	}
	list.Sort()
	printError(stdio.Stderr, list)
	return list.Err()
}

func readSource(path string) (*token.Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return token.NewSource(path, b), nil
}
