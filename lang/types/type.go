package types

import "strings"

// MaxIndirection is the maximum pointer depth a type may have (e.g. s32
// ******* is the deepest legal indirection).
const MaxIndirection = 7

// Type is a type descriptor: a basic kind, a pointer indirection depth, a
// per-level const qualification, and (for Kind == Struct) the struct it
// refers to.
//
// ConstMask bit i (0 <= i <= Indirection) records whether level i is
// const-qualified: bit 0 is the base type's own constness, and bit i for
// 1 <= i <= Indirection is the constness of the i-th pointer level read in
// declaration order (leftmost '*' is level 1).
type Type struct {
	Kind        Kind
	Indirection int
	ConstMask   uint8
	Struct      *Struct
}

// NonPointer returns the non-const, non-pointer type for the given basic
// kind.
func NonPointer(k Kind) Type { return Type{Kind: k} }

// Pointer1 returns a non-const single-indirection pointer to k.
func Pointer1(k Kind) Type { return Type{Kind: k, Indirection: 1} }

// ConstPointer1 returns a single-indirection pointer to a const-qualified
// k (i.e. "const T*").
func ConstPointer1(k Kind) Type { return Type{Kind: k, Indirection: 1, ConstMask: 1} }

// StructOf returns the non-pointer type referring to the given struct.
func StructOf(s *Struct) Type { return Type{Kind: Struct, Struct: s} }

// IsStruct reports whether t is a (non-pointer) struct value type.
func (t Type) IsStruct() bool { return t.Indirection == 0 && t.Kind == Struct }

// IsVoid reports whether t is the (non-pointer) void type.
func (t Type) IsVoid() bool { return t.Indirection == 0 && t.Kind == Void }

// IsNullptr reports whether t is the nullptr literal type.
func (t Type) IsNullptr() bool { return t.Indirection == 0 && t.Kind == Nullptr }

// IsPointer reports whether t has at least one level of indirection.
func (t Type) IsPointer() bool { return t.Indirection > 0 }

// IsArithmetic reports whether t is a non-pointer arithmetic basic type.
func (t Type) IsArithmetic() bool { return t.Indirection == 0 && t.Kind.IsArithmetic() }

// BaseConst reports whether the innermost (pointed-to, or base if not a
// pointer) type is const-qualified.
func (t Type) BaseConst() bool { return t.ConstMask&1 != 0 }

// LevelConst reports whether the pointer at the given declaration-order
// level (1-based, 1 is the leftmost '*') is itself const-qualified.
func (t Type) LevelConst(level int) bool {
	if level < 1 || level > t.Indirection {
		return false
	}
	return t.ConstMask&(1<<uint(level)) != 0
}

// Referent returns the type obtained by removing one level of indirection
// from t (the type of *p for a pointer p of type t). It panics if t is not
// a pointer; callers must check IsPointer first.
func (t Type) Referent() Type {
	if !t.IsPointer() {
		panic("types: Referent of a non-pointer type")
	}
	r := t
	r.Indirection--
	r.ConstMask = t.ConstMask &^ (1 << uint(t.Indirection))
	return r
}

// AddPointer returns the type obtained by adding one level of (non-const)
// indirection to t, i.e. the type of &x for an x of type t.
func (t Type) AddPointer() Type {
	r := t
	r.Indirection++
	return r
}

// Equal reports whether two types describe the same shape: same kind,
// indirection and (for structs) the same struct. Const-qualification is
// ignored, matching the language's assignment-compatibility rules (spec
// Open Question: assignment strips top-level const of the source).
func Equal(a, b Type) bool {
	if a.Kind != b.Kind || a.Indirection != b.Indirection {
		return false
	}
	if a.Kind == Struct {
		return a.Struct == b.Struct
	}
	return true
}

// String renders t using the same surface syntax as the source language,
// e.g. "const s32 **".
func (t Type) String() string {
	var sb strings.Builder
	if t.BaseConst() {
		sb.WriteString("const ")
	}
	if t.Kind == Struct && t.Struct != nil {
		sb.WriteString("struct ")
		sb.WriteString(t.Struct.Name)
	} else {
		sb.WriteString(t.Kind.String())
	}
	for lvl := 1; lvl <= t.Indirection; lvl++ {
		sb.WriteString(" *")
		if t.LevelConst(lvl) {
			sb.WriteString(" const")
		}
	}
	return sb.String()
}
