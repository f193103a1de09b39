package types

// Member is one field of a struct, with its byte offset already computed
// by Struct.Finish.
type Member struct {
	Name   string
	Type   Type
	Offset int
}

// Struct describes a struct type: its members and computed layout. A
// Struct starts out Defined == false when only forward-declared (e.g.
// "struct node;"), which is enough to form pointers to it but not to take
// its size or access members.
type Struct struct {
	Name      string
	Members   []Member
	ByteSize  int
	Alignment int
	Defined   bool
}

// MemberByName returns the member with the given name, or nil if there is
// none.
func (s *Struct) MemberByName(name string) *Member {
	for i := range s.Members {
		if s.Members[i].Name == name {
			return &s.Members[i]
		}
	}
	return nil
}

// Finish computes ByteSize, Alignment and each member's Offset from the
// already-populated Members slice, following natural alignment: each
// member is aligned to its own type's alignment requirement (a struct
// member's alignment is its struct's alignment; everything else aligns to
// its own byte size), and the struct's overall size is padded up to its
// own alignment. A struct with no members still occupies one byte, so
// every instance has a unique address.
func (s *Struct) Finish() {
	s.Alignment = 1
	size := 0
	for i := range s.Members {
		m := &s.Members[i]
		alignSize := ByteSize(m.Type)
		if m.Type.IsStruct() {
			alignSize = m.Type.Struct.Alignment
		}
		if alignSize > s.Alignment {
			s.Alignment = alignSize
		}
		size = Align(size, alignSize)
		m.Offset = size
		size += ByteSize(m.Type)
	}
	size = Align(size, s.Alignment)
	if size == 0 {
		size = 1
	}
	s.ByteSize = size
	s.Defined = true
}

// Align rounds bytes up to the next multiple of size (size must be > 0).
func Align(bytes, size int) int {
	padding := (size - (bytes % size)) % size
	return bytes + padding
}
