package sema

import (
	"github.com/cmm-lang/cmmc/ast"
	"github.com/cmm-lang/cmmc/diag"
)

// Resolver performs the single post-order walk of §4.G: it installs
// declarations into scopes, resolves identifier uses, and attaches the
// member table it builds for each StructDecl.
type Resolver struct {
	sink    *diag.Sink
	members map[*ast.StructDecl]*Table
}

// NewResolver returns a Resolver reporting through sink.
func NewResolver(sink *diag.Sink) *Resolver {
	return &Resolver{sink: sink, members: make(map[*ast.StructDecl]*Table)}
}

// Resolve walks prog with a fresh global table and returns that table.
func (r *Resolver) Resolve(prog *ast.Program) *Table {
	global := NewTable()
	for _, d := range prog.Decls {
		r.resolveDecl(d, global)
	}
	return global
}

// MemberTable returns the persistent single-scope symbol table owned by
// s, or nil if s was never resolved.
func (r *Resolver) MemberTable(s *ast.StructDecl) *Table {
	return r.members[s]
}

func (r *Resolver) resolveDecl(d ast.Decl, table *Table) {
	switch dd := d.(type) {
	case *ast.VarDecl:
		r.resolveVarDecl(dd, table, table)
	case *ast.FnDecl:
		r.resolveFnDecl(dd, table)
	case *ast.FormalDecl:
		r.resolveFormal(dd, table)
	case *ast.StructDecl:
		r.resolveStructDecl(dd, table)
	}
}

// resolveVarDecl installs v.Name into installTable. Struct-typed
// declarations resolve the referenced type name against typeScope
// (the enclosing global scope when called for a struct member, since a
// member table has no visibility into the global scope on its own).
func (r *Resolver) resolveVarDecl(v *ast.VarDecl, installTable, typeScope *Table) {
	switch t := v.Type.(type) {
	case ast.IntType, ast.BoolType:
		sym := &ast.Symbol{Kind: ast.SymVar, Type: ast.TypeSpelling(v.Type)}
		if err := installTable.Add(v.Name.Name, sym); err == ErrDuplicate {
			r.sink.Fatal(v.Name.Pos, "Multiply declared identifier")
		}
	case ast.VoidType:
		r.sink.Fatal(v.Name.Pos, "Non-function declared void")
	case *ast.StructType:
		structSym, _ := typeScope.LookupGlobal(t.Name.Name)
		if structSym == nil || structSym.Kind != ast.SymStructDecl {
			r.sink.Fatal(t.Name.Pos, "Invalid name of struct type")
			return
		}
		sym := &ast.Symbol{Kind: ast.SymVar, Type: t.Name.Name, StructRef: structSym.StructRef}
		if err := installTable.Add(v.Name.Name, sym); err == ErrDuplicate {
			r.sink.Fatal(v.Name.Pos, "Multiply declared identifier")
			return
		}
		v.Name.StructRef = structSym.StructRef
	}
}

func (r *Resolver) resolveFormal(f *ast.FormalDecl, table *Table) {
	sym := &ast.Symbol{Kind: ast.SymVar, Type: ast.TypeSpelling(f.Type)}
	if err := table.Add(f.Name.Name, sym); err == ErrDuplicate {
		r.sink.Fatal(f.Name.Pos, "Multiply declared identifier")
	}
}

func (r *Resolver) resolveFnDecl(f *ast.FnDecl, table *Table) {
	paramTypes := make([]string, len(f.Formals))
	for i, p := range f.Formals {
		paramTypes[i] = ast.TypeSpelling(p.Type)
	}
	sym := &ast.Symbol{Kind: ast.SymFunc, Type: ast.TypeSpelling(f.Type), ParamTypes: paramTypes}
	if err := table.Add(f.Name.Name, sym); err == ErrDuplicate {
		r.sink.Fatal(f.Name.Pos, "Multiply declared identifier")
	}

	table.PushScope()
	for _, p := range f.Formals {
		r.resolveFormal(p, table)
	}
	for _, d := range f.Locals {
		r.resolveDecl(d, table)
	}
	for _, s := range f.Body {
		r.resolveStmt(s, table)
	}
	table.PopScope()
}

func (r *Resolver) resolveStructDecl(s *ast.StructDecl, global *Table) {
	sym := &ast.Symbol{Kind: ast.SymStructDecl}
	if err := global.Add(s.Name.Name, sym); err == ErrDuplicate {
		r.sink.Fatal(s.Name.Pos, "Multiply declared identifier")
		return
	}
	sym.StructRef = s

	members := NewTable()
	r.members[s] = members
	for _, m := range s.Members {
		r.resolveVarDecl(m, members, global)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt, table *Table) {
	switch st := s.(type) {
	case *ast.AssignStmt:
		r.resolveExpr(st.Assign, table)
	case *ast.PostIncStmt:
		r.resolveExpr(st.Target, table)
	case *ast.PostDecStmt:
		r.resolveExpr(st.Target, table)
	case *ast.ReadStmt:
		r.resolveExpr(st.Target, table)
	case *ast.WriteStmt:
		r.resolveExpr(st.Value, table)
	case *ast.IfStmt:
		r.resolveExpr(st.Cond, table)
		table.PushScope()
		r.resolveBlock(st.Locals, st.Body, table)
		table.PopScope()
	case *ast.IfElseStmt:
		r.resolveExpr(st.Cond, table)
		table.PushScope()
		r.resolveBlock(st.ThenLocals, st.Then, table)
		table.PopScope()
		table.PushScope()
		r.resolveBlock(st.ElseLocals, st.Else, table)
		table.PopScope()
	case *ast.WhileStmt:
		r.resolveExpr(st.Cond, table)
		table.PushScope()
		r.resolveBlock(st.Locals, st.Body, table)
		table.PopScope()
	case *ast.RepeatStmt:
		r.resolveExpr(st.Cond, table)
		table.PushScope()
		r.resolveBlock(st.Locals, st.Body, table)
		table.PopScope()
	case *ast.CallStmt:
		r.resolveExpr(st.Call, table)
	case *ast.ReturnStmt:
		if st.Value != nil {
			r.resolveExpr(st.Value, table)
		}
	}
}

func (r *Resolver) resolveBlock(locals []ast.Decl, body []ast.Stmt, table *Table) {
	for _, d := range locals {
		r.resolveDecl(d, table)
	}
	for _, s := range body {
		r.resolveStmt(s, table)
	}
}

// resolveExpr resolves e and returns the StructDecl that e's value
// names, when e is (or dot-chains down to) a struct-typed location;
// nil otherwise. The return value exists only to let a DotAccessExpr
// resolve its base.
func (r *Resolver) resolveExpr(e ast.Expr, table *Table) *ast.StructDecl {
	switch ex := e.(type) {
	case *ast.IntLit, *ast.StrLit, *ast.TrueLit, *ast.FalseLit:
		return nil
	case *ast.IdExpr:
		return r.resolveId(ex.Id, table)
	case *ast.DotAccessExpr:
		return r.resolveDotAccess(ex, table)
	case *ast.AssignExpr:
		r.resolveExpr(ex.Target, table)
		r.resolveExpr(ex.Value, table)
		return nil
	case *ast.CallExpr:
		r.resolveId(ex.Callee, table)
		for _, a := range ex.Args {
			r.resolveExpr(a, table)
		}
		return nil
	case *ast.UnaryMinusExpr:
		r.resolveExpr(ex.Operand, table)
		return nil
	case *ast.NotExpr:
		r.resolveExpr(ex.Operand, table)
		return nil
	case *ast.BinaryExpr:
		r.resolveExpr(ex.Left, table)
		r.resolveExpr(ex.Right, table)
		return nil
	}
	return nil
}

func (r *Resolver) resolveId(id *ast.Id, table *Table) *ast.StructDecl {
	sym, _ := table.LookupGlobal(id.Name)
	if sym == nil {
		r.sink.Fatal(id.Pos, "Undeclared identifier")
		return nil
	}
	id.Sym = sym
	id.StructRef = sym.StructRef
	return sym.StructRef
}

func (r *Resolver) resolveDotAccess(d *ast.DotAccessExpr, table *Table) *ast.StructDecl {
	var s *ast.StructDecl

	switch base := d.Base.(type) {
	case *ast.IdExpr:
		sym, _ := table.LookupGlobal(base.Id.Name)
		if sym == nil {
			r.sink.Fatal(base.Id.Pos, "Undeclared identifier")
			return nil
		}
		base.Id.Sym = sym
		base.Id.StructRef = sym.StructRef
		if sym.StructRef == nil {
			r.sink.Fatal(base.Id.Pos, "Dot-access of non-struct type")
			return nil
		}
		s = sym.StructRef
	case *ast.DotAccessExpr:
		s = r.resolveDotAccess(base, table)
		if s == nil {
			return nil
		}
	default:
		r.resolveExpr(d.Base, table)
		return nil
	}

	members := r.members[s]
	sym, _ := members.LookupLocal(d.Field.Name)
	if sym == nil {
		r.sink.Fatal(d.Field.Pos, "Invalid struct field name")
		return nil
	}
	d.Field.Sym = sym
	d.Field.StructRef = sym.StructRef
	return sym.StructRef
}
