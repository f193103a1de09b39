package ast

import (
	"fmt"

	"github.com/mna/icc/lang/token"
)

// Param is a function parameter or a struct member: a name with a type.
type Param struct {
	Name *Ident
	Type *TypeSpec
}

func (n *Param) Format(f fmt.State, verb rune) {
	format(f, verb, n, "param "+n.Name.Name, nil)
}
func (n *Param) Span() (start, end token.Pos) {
	start, _ = n.Type.Span()
	_, end = n.Name.Span()
	return start, end
}
func (n *Param) Walk(v Visitor) {
	Walk(v, n.Type)
	Walk(v, n.Name)
}

// FuncDecl declares a function with its parameter list, return type and
// body. The C subset has no forward declarations for functions: every
// FuncDecl carries a body.
type FuncDecl struct {
	Pos    token.Pos // position of the return type
	Ret    *TypeSpec
	Name   *Ident
	Lparen token.Pos
	Params []*Param
	Rparen token.Pos
	Body   *Block
}

func (n *FuncDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, "func "+n.Name.Name, map[string]int{"params": len(n.Params)})
}
func (n *FuncDecl) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Pos, end
}
func (n *FuncDecl) Walk(v Visitor) {
	Walk(v, n.Ret)
	Walk(v, n.Name)
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}
func (n *FuncDecl) decl() {}

// StructDecl declares a struct type, or forward-declares one when Members
// is nil and Defined is false.
type StructDecl struct {
	Pos     token.Pos // position of the 'struct' keyword
	Name    *Ident
	Lbrace  token.Pos
	Members []*Param
	Rbrace  token.Pos
	Semi    token.Pos
	Defined bool // false for a forward declaration ("struct foo;")
}

func (n *StructDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, "struct "+n.Name.Name, map[string]int{"members": len(n.Members)})
}
func (n *StructDecl) Span() (start, end token.Pos) {
	if n.Defined {
		return n.Pos, n.Rbrace + 1
	}
	return n.Pos, n.Semi + 1
}
func (n *StructDecl) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, m := range n.Members {
		Walk(v, m)
	}
}
func (n *StructDecl) decl() {}

// GlobalVarDecl declares a global variable, with an optional initializer.
type GlobalVarDecl struct {
	Pos    token.Pos // position of the type
	Type   *TypeSpec
	Name   *Ident
	Assign token.Pos // zero if no initializer
	Init   Expr      // nil if no initializer
	Semi   token.Pos
}

func (n *GlobalVarDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, "global "+n.Name.Name, nil)
}
func (n *GlobalVarDecl) Span() (start, end token.Pos) { return n.Pos, n.Semi + 1 }
func (n *GlobalVarDecl) Walk(v Visitor) {
	Walk(v, n.Type)
	Walk(v, n.Name)
	if n.Init != nil {
		Walk(v, n.Init)
	}
}
func (n *GlobalVarDecl) decl() {}
