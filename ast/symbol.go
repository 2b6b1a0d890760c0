package ast

// SymbolKind tags the three forms a Symbol can take (§3).
type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymFunc
	SymStructDecl
)

// Symbol is the resolved meaning of a declared name. A var symbol's
// Type is its declared type spelling ("int", "bool", "void", or the
// struct's name); a struct-typed var additionally carries StructRef so
// dot-access can locate its member table without re-resolving by name.
// A function symbol's Type is its return type spelling and ParamTypes
// holds each formal's type spelling in order.
type Symbol struct {
	Kind       SymbolKind
	Type       string
	ParamTypes []string
	StructRef  *StructDecl
}

// String renders the symbol the way the unparser's annotation prints it
// (§4.H): a var stringifies as its type, a function as
// "t1, t2, ... -> ret" (or "->ret" with no params), a struct
// declaration as "structdecl".
func (s *Symbol) String() string {
	switch s.Kind {
	case SymVar:
		return s.Type
	case SymFunc:
		if len(s.ParamTypes) == 0 {
			return "->" + s.Type
		}
		out := ""
		for i, p := range s.ParamTypes {
			if i > 0 {
				out += ", "
			}
			out += p
		}
		return out + " -> " + s.Type
	case SymStructDecl:
		return "structdecl"
	}
	return "?"
}
