package ast

import (
	"fmt"

	"github.com/mna/icc/lang/token"
)

// Block represents a compound statement: a brace-delimited list of
// statements, each introducing its own scope.
type Block struct {
	Lbrace token.Pos
	Stmts  []Stmt
	Rbrace token.Pos
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace + 1 }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
func (n *Block) BlockEnding() bool { return false }

// VarDeclStmt declares a local variable, with an optional initializer.
type VarDeclStmt struct {
	Pos    token.Pos // position of the type
	Type   *TypeSpec
	Name   *Ident
	Assign token.Pos // zero if no initializer
	Init   Expr      // nil if no initializer
	Semi   token.Pos
}

func (n *VarDeclStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "var "+n.Name.Name, nil)
}
func (n *VarDeclStmt) Span() (start, end token.Pos) { return n.Pos, n.Semi + 1 }
func (n *VarDeclStmt) Walk(v Visitor) {
	Walk(v, n.Type)
	Walk(v, n.Name)
	if n.Init != nil {
		Walk(v, n.Init)
	}
}
func (n *VarDeclStmt) BlockEnding() bool { return false }

// ExprStmt is an expression used as a statement (calls, assignments,
// increment/decrement).
type ExprStmt struct {
	X    Expr
	Semi token.Pos
}

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	return start, n.Semi + 1
}
func (n *ExprStmt) Walk(v Visitor)    { Walk(v, n.X) }
func (n *ExprStmt) BlockEnding() bool { return false }

// IfStmt represents an if, or if/else, statement. Else is nil, a *Block, or
// a nested *IfStmt (for "else if" chains).
type IfStmt struct {
	If   token.Pos
	Cond Expr
	Then *Block
	Else Stmt
}

func (n *IfStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "if", map[string]int{"hasElse": boolToInt(n.Else != nil)})
}
func (n *IfStmt) Span() (start, end token.Pos) {
	if n.Else != nil {
		_, end = n.Else.Span()
	} else {
		_, end = n.Then.Span()
	}
	return n.If, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *IfStmt) BlockEnding() bool { return false }

// WhileStmt represents a while loop.
type WhileStmt struct {
	While token.Pos
	Cond  Expr
	Body  *Block
}

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.While, end
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *WhileStmt) BlockEnding() bool { return false }

// ForStmt represents a C-style for loop: for (Init; Cond; Post) Body. Init
// and Post may be nil; Cond may be nil (treated as always true).
type ForStmt struct {
	For  token.Pos
	Init Stmt // *VarDeclStmt or *ExprStmt, or nil
	Cond Expr // or nil
	Post Stmt // *ExprStmt, or nil
	Body *Block
}

func (n *ForStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "for", nil) }
func (n *ForStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.For, end
}
func (n *ForStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Cond != nil {
		Walk(v, n.Cond)
	}
	if n.Post != nil {
		Walk(v, n.Post)
	}
	Walk(v, n.Body)
}
func (n *ForStmt) BlockEnding() bool { return false }

// ReturnStmt represents a return statement. X is nil for a void return.
type ReturnStmt struct {
	Return token.Pos
	X      Expr
	Semi   token.Pos
}

func (n *ReturnStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *ReturnStmt) Span() (start, end token.Pos)  { return n.Return, n.Semi + 1 }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.X != nil {
		Walk(v, n.X)
	}
}
func (n *ReturnStmt) BlockEnding() bool { return true }

// BreakStmt represents a break statement.
type BreakStmt struct {
	Break token.Pos
	Semi  token.Pos
}

func (n *BreakStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "break", nil) }
func (n *BreakStmt) Span() (start, end token.Pos)  { return n.Break, n.Semi + 1 }
func (n *BreakStmt) Walk(_ Visitor)                {}
func (n *BreakStmt) BlockEnding() bool             { return true }

// ContinueStmt represents a continue statement.
type ContinueStmt struct {
	Continue token.Pos
	Semi     token.Pos
}

func (n *ContinueStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "continue", nil) }
func (n *ContinueStmt) Span() (start, end token.Pos)  { return n.Continue, n.Semi + 1 }
func (n *ContinueStmt) Walk(_ Visitor)                {}
func (n *ContinueStmt) BlockEnding() bool             { return true }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
