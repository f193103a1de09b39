package token

import (
	"strings"

	"golang.org/x/exp/slices"
)

// ErrorList is a list of *Error, following the same shape as go/scanner's
// ErrorList: a slice with sorting and an Err() that collapses it back into
// a single error (or nil if empty), so callers that only care about
// "did this phase fail" don't need to special-case the list type.
type ErrorList []*Error

// Add appends an error to the list.
func (l *ErrorList) Add(err *Error) {
	*l = append(*l, err)
}

// Sort orders the list by source position.
func (l ErrorList) Sort() {
	slices.SortFunc(l, func(a, b *Error) int {
		return int(a.Pos) - int(b.Pos)
	})
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	b.WriteString(l[0].Error())
	for _, e := range l[1:] {
		b.WriteString("\n")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
