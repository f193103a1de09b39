// Package ast defines the types used to represent the abstract syntax tree
// (AST) of a source file: declarations (functions, structs, globals),
// statements and expressions.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/icc/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements the fmt.Formatter interface so they can print a
	// description of themselves. The only supported verbs are 'v' and 's'.
	// The '#' flag can be used to print count information about children
	// nodes. A width can be set to define the number of runes to print for
	// the node description - by default, that width is padded with spaces
	// on the left if the description is shorter, otherwise it is truncated
	// to that width. The '-' flag can be used to pad with spaces on the
	// right instead, and the '+' flag can be used to prevent padding
	// altogether - it only truncates if longer.
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk enters each node inside itself to implement the Visitor pattern.
	Walk(v Visitor)
}

// Decl represents a top-level declaration: a function, a struct, or a
// global variable.
type Decl interface {
	Node
	decl()
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node

	// BlockEnding returns true if the statement must only appear as the last
	// statement of a block (return, break, continue).
	BlockEnding() bool
}

// Program is the root node of a parsed source file.
type Program struct {
	Name  string // source filename, may be empty
	Decls []Decl
	EOF   token.Pos
}

func (n *Program) Format(f fmt.State, verb rune) {
	lbl := "program"
	if n.Name != "" {
		lbl += " " + n.Name
	}
	format(f, verb, n, lbl, map[string]int{"decls": len(n.Decls)})
}
func (n *Program) Span() (start, end token.Pos) {
	if len(n.Decls) == 0 {
		return n.EOF, n.EOF
	}
	start, _ = n.Decls[0].Span()
	_, end = n.Decls[len(n.Decls)-1].Span()
	return start, end
}
func (n *Program) Walk(v Visitor) {
	for _, d := range n.Decls {
		Walk(v, d)
	}
}

// Ident is an identifier, used both as an expression and as a name in
// declarations, parameters and struct members.
type Ident struct {
	NamePos token.Pos
	Name    string
}

func (n *Ident) Format(f fmt.State, verb rune)    { format(f, verb, n, "ident "+n.Name, nil) }
func (n *Ident) Span() (start, end token.Pos)     { return n.NamePos, n.NamePos + token.Pos(len(n.Name)) }
func (n *Ident) Walk(_ Visitor)                   {}
func (n *Ident) expr()                            {}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")
	label = strings.ReplaceAll(label, "\v", "⭿")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
