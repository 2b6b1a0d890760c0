// Package sema implements the scoped symbol table (§4.F) and the name
// resolver (§4.G) that walks an *ast.Program, installing declarations
// and linking identifier uses to the symbols they name.
package sema

import (
	"fmt"
	"io"

	"github.com/cmm-lang/cmmc/ast"
)

// TableError is the three-arm error return spec.md §9 asks for in place
// of exceptions ("checked exceptions... model these as a three-arm
// error return").
type TableError int

const (
	ErrNone TableError = iota
	ErrEmpty
	ErrDuplicate
	ErrIllegalArgument
)

func (e TableError) Error() string {
	switch e {
	case ErrEmpty:
		return "symbol table is empty"
	case ErrDuplicate:
		return "duplicate symbol"
	case ErrIllegalArgument:
		return "illegal argument"
	}
	return "no error"
}

type scope map[string]*ast.Symbol

// Table is a stack of scopes, index 0 being the innermost. It is
// initialized with a single empty scope (the global scope), matching
// §3's "the table is initialized with a single empty scope".
type Table struct {
	scopes []scope
}

// NewTable returns a Table with one (global) scope already pushed.
func NewTable() *Table {
	return &Table{scopes: []scope{make(scope)}}
}

// PushScope prepends a new empty scope.
func (t *Table) PushScope() {
	t.scopes = append([]scope{make(scope)}, t.scopes...)
}

// PopScope removes the innermost scope. It fails with ErrEmpty if the
// table has no scopes left to pop.
func (t *Table) PopScope() error {
	if len(t.scopes) == 0 {
		return ErrEmpty
	}
	t.scopes = t.scopes[1:]
	return nil
}

// Add installs sym under name in the innermost scope.
func (t *Table) Add(name string, sym *ast.Symbol) error {
	if name == "" || sym == nil {
		return ErrIllegalArgument
	}
	if len(t.scopes) == 0 {
		return ErrEmpty
	}
	if _, exists := t.scopes[0][name]; exists {
		return ErrDuplicate
	}
	t.scopes[0][name] = sym
	return nil
}

// LookupLocal returns the symbol bound to name in the innermost scope
// only, or nil if there is no such binding.
func (t *Table) LookupLocal(name string) (*ast.Symbol, error) {
	if len(t.scopes) == 0 {
		return nil, ErrEmpty
	}
	return t.scopes[0][name], nil
}

// LookupGlobal walks scopes innermost-out and returns the first match.
func (t *Table) LookupGlobal(name string) (*ast.Symbol, error) {
	if len(t.scopes) == 0 {
		return nil, ErrEmpty
	}
	for _, s := range t.scopes {
		if sym, ok := s[name]; ok {
			return sym, nil
		}
	}
	return nil, nil
}

// Print dumps the table to w for debugging; not used by the compiler
// proper (§4.F).
func (t *Table) Print(w io.Writer) {
	for i, s := range t.scopes {
		fmt.Fprintf(w, "scope %d:\n", i)
		for name, sym := range s {
			fmt.Fprintf(w, "  %s: %s\n", name, sym)
		}
	}
}

// Depth reports the number of scopes currently pushed, used by tests to
// check that PushScope/PopScope leaves the table observably unchanged.
func (t *Table) Depth() int {
	return len(t.scopes)
}
