package ast

import (
	"fmt"
	"strconv"

	"github.com/mna/icc/lang/token"
)

// IntLit is an integer literal.
type IntLit struct {
	ValPos token.Pos
	Raw    string
	Val    int64
}

func (n *IntLit) Format(f fmt.State, verb rune) { format(f, verb, n, "int "+n.Raw, nil) }
func (n *IntLit) Span() (start, end token.Pos) {
	return n.ValPos, n.ValPos + token.Pos(len(n.Raw))
}
func (n *IntLit) Walk(_ Visitor) {}
func (n *IntLit) expr()          {}

// FloatLit is a floating-point literal.
type FloatLit struct {
	ValPos token.Pos
	Raw    string
	Val    float64
}

func (n *FloatLit) Format(f fmt.State, verb rune) { format(f, verb, n, "float "+n.Raw, nil) }
func (n *FloatLit) Span() (start, end token.Pos) {
	return n.ValPos, n.ValPos + token.Pos(len(n.Raw))
}
func (n *FloatLit) Walk(_ Visitor) {}
func (n *FloatLit) expr()          {}

// CharLit is a character literal, holding its byte value.
type CharLit struct {
	ValPos token.Pos
	Raw    string
	Val    byte
}

func (n *CharLit) Format(f fmt.State, verb rune) { format(f, verb, n, "char "+n.Raw, nil) }
func (n *CharLit) Span() (start, end token.Pos) {
	return n.ValPos, n.ValPos + token.Pos(len(n.Raw))
}
func (n *CharLit) Walk(_ Visitor) {}
func (n *CharLit) expr()          {}

// StringLit is a string literal, holding its decoded value.
type StringLit struct {
	ValPos token.Pos
	Raw    string
	Val    string
}

func (n *StringLit) Format(f fmt.State, verb rune) {
	format(f, verb, n, "string "+strconv.Quote(n.Val), nil)
}
func (n *StringLit) Span() (start, end token.Pos) {
	return n.ValPos, n.ValPos + token.Pos(len(n.Raw))
}
func (n *StringLit) Walk(_ Visitor) {}
func (n *StringLit) expr()          {}

// BoolLit is the "true" or "false" literal.
type BoolLit struct {
	ValPos token.Pos
	Val    bool
}

func (n *BoolLit) Format(f fmt.State, verb rune) {
	format(f, verb, n, "bool "+strconv.FormatBool(n.Val), nil)
}
func (n *BoolLit) Span() (start, end token.Pos) {
	w := len("false")
	if n.Val {
		w = len("true")
	}
	return n.ValPos, n.ValPos + token.Pos(w)
}
func (n *BoolLit) Walk(_ Visitor) {}
func (n *BoolLit) expr()          {}

// NullptrLit is the "nullptr" literal.
type NullptrLit struct {
	ValPos token.Pos
}

func (n *NullptrLit) Format(f fmt.State, verb rune) { format(f, verb, n, "nullptr", nil) }
func (n *NullptrLit) Span() (start, end token.Pos) {
	return n.ValPos, n.ValPos + token.Pos(len("nullptr"))
}
func (n *NullptrLit) Walk(_ Visitor) {}
func (n *NullptrLit) expr()          {}

// ParenExpr is a parenthesized expression, kept distinct in the AST so the
// parser and compiler can tell "(x) = y" (illegal lvalue after grouping in
// some contexts) apart from "x = y", and so an if-condition can detect a
// bare top-level assignment.
type ParenExpr struct {
	Lparen token.Pos
	X      Expr
	Rparen token.Pos
}

func (n *ParenExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "paren", nil) }
func (n *ParenExpr) Span() (start, end token.Pos)  { return n.Lparen, n.Rparen + 1 }
func (n *ParenExpr) Walk(v Visitor)                { Walk(v, n.X) }
func (n *ParenExpr) expr()                         {}

// UnaryExpr is a prefix unary operator: !, &, *, -, or prefix ++/--.
type UnaryExpr struct {
	OpPos token.Pos
	Op    token.Token
	X     Expr
}

func (n *UnaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "unary "+n.Op.GoString(), nil)
}
func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.X.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.X) }
func (n *UnaryExpr) expr()          {}

// PostfixExpr is a postfix ++ or -- operator.
type PostfixExpr struct {
	X     Expr
	Op    token.Token
	OpPos token.Pos
}

func (n *PostfixExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "postfix "+n.Op.GoString(), nil)
}
func (n *PostfixExpr) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	return start, n.OpPos + token.Pos(len(n.Op.GoString()))
}
func (n *PostfixExpr) Walk(v Visitor) { Walk(v, n.X) }
func (n *PostfixExpr) expr()          {}

// BinaryExpr is a binary operator expression: arithmetic, comparison, or
// logical && / ||.
type BinaryExpr struct {
	X     Expr
	OpPos token.Pos
	Op    token.Token
	Y     Expr
}

func (n *BinaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.Op.GoString(), nil)
}
func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	_, end = n.Y.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.X)
	Walk(v, n.Y)
}
func (n *BinaryExpr) expr() {}

// AssignExpr is a simple or compound assignment: =, +=, -=, *=, /=.
type AssignExpr struct {
	Left  Expr
	OpPos token.Pos
	Op    token.Token
	Right Expr
}

func (n *AssignExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "assign "+n.Op.GoString(), nil)
}
func (n *AssignExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *AssignExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *AssignExpr) expr() {}

// CallExpr is a function call, e.g. f(a, b).
type CallExpr struct {
	Fun    *Ident
	Lparen token.Pos
	Args   []Expr
	Rparen token.Pos
}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call "+n.Fun.Name, map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Fun.Span()
	return start, n.Rparen + 1
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Fun)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *CallExpr) expr() {}

// IndexExpr is an array/pointer index expression, e.g. a[i].
type IndexExpr struct {
	X      Expr
	Lbrack token.Pos
	Index  Expr
	Rbrack token.Pos
}

func (n *IndexExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "index", nil) }
func (n *IndexExpr) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	return start, n.Rbrack + 1
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.X)
	Walk(v, n.Index)
}
func (n *IndexExpr) expr() {}

// SelectorExpr is a struct member access, either "." (Arrow == false) or
// "->" (Arrow == true).
type SelectorExpr struct {
	X     Expr
	OpPos token.Pos
	Arrow bool
	Sel   *Ident
}

func (n *SelectorExpr) Format(f fmt.State, verb rune) {
	op := "."
	if n.Arrow {
		op = "->"
	}
	format(f, verb, n, "selector "+op+n.Sel.Name, nil)
}
func (n *SelectorExpr) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	_, end = n.Sel.Span()
	return start, end
}
func (n *SelectorExpr) Walk(v Visitor) {
	Walk(v, n.X)
	Walk(v, n.Sel)
}
func (n *SelectorExpr) expr() {}

// CastExpr is an explicit C-style cast, e.g. (s32)x.
type CastExpr struct {
	Lparen token.Pos
	Type   *TypeSpec
	Rparen token.Pos
	X      Expr
}

func (n *CastExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "cast", nil) }
func (n *CastExpr) Span() (start, end token.Pos) {
	_, end = n.X.Span()
	return n.Lparen, end
}
func (n *CastExpr) Walk(v Visitor) {
	Walk(v, n.Type)
	Walk(v, n.X)
}
func (n *CastExpr) expr() {}

// SizeofExpr is a sizeof(Type) or sizeof(Expr) expression. Exactly one of
// Type or X is set.
type SizeofExpr struct {
	Pos    token.Pos
	Lparen token.Pos
	Type   *TypeSpec
	X      Expr
	Rparen token.Pos
}

func (n *SizeofExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "sizeof", nil) }
func (n *SizeofExpr) Span() (start, end token.Pos)  { return n.Pos, n.Rparen + 1 }
func (n *SizeofExpr) Walk(v Visitor) {
	if n.Type != nil {
		Walk(v, n.Type)
	}
	if n.X != nil {
		Walk(v, n.X)
	}
}
func (n *SizeofExpr) expr() {}
