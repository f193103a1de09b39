package ast

import (
	"fmt"
	"strings"

	"github.com/mna/icc/lang/token"
)

// PtrMod represents one level of pointer indirection in a TypeSpec, e.g.
// the first '*' in "s32 * const * x".
type PtrMod struct {
	Star  token.Pos
	Const bool // true if this pointer level is itself const-qualified
}

// TypeSpec is the syntactic representation of a type: an optional leading
// const, a base keyword or struct name, and zero or more pointer levels
// read left to right in declaration order (outermost first).
type TypeSpec struct {
	Pos        token.Pos
	Const      bool        // const-ness of the base type
	Base       token.Token // one of BOOL, S8, U8, S32, F32, F64, VOID, STRUCT
	StructName *Ident      // set iff Base == STRUCT
	Ptrs       []PtrMod
}

func (n *TypeSpec) Format(f fmt.State, verb rune) {
	format(f, verb, n, "type "+n.describe(), nil)
}
func (n *TypeSpec) Span() (start, end token.Pos) {
	end = n.Pos
	if n.Base == token.STRUCT && n.StructName != nil {
		_, end = n.StructName.Span()
	}
	for _, p := range n.Ptrs {
		end = p.Star + 1
	}
	return n.Pos, end
}
func (n *TypeSpec) Walk(v Visitor) {
	if n.Base == token.STRUCT && n.StructName != nil {
		Walk(v, n.StructName)
	}
}

func (n *TypeSpec) describe() string {
	var sb strings.Builder
	if n.Const {
		sb.WriteString("const ")
	}
	if n.Base == token.STRUCT && n.StructName != nil {
		sb.WriteString("struct ")
		sb.WriteString(n.StructName.Name)
	} else {
		sb.WriteString(n.Base.String())
	}
	for _, p := range n.Ptrs {
		sb.WriteString(" *")
		if p.Const {
			sb.WriteString(" const")
		}
	}
	return sb.String()
}

// IndirectionLevel returns the pointer depth of the type (0 for a plain
// value type).
func (n *TypeSpec) IndirectionLevel() int { return len(n.Ptrs) }
