// Package ast defines the C-- abstract syntax tree: one small struct per
// grammar production, grouped into the Decl, Type, Stmt, and Expr
// families named by §3. Traversal (by the resolver and the unparser) is
// a type switch over these concrete types, never virtual dispatch — see
// SPEC_FULL.md §6 and spec.md §9 "Deep inheritance of AST nodes".
package ast

import "github.com/cmm-lang/cmmc/token"

// Program is the root node: an ordered list of top-level declarations.
type Program struct {
	Decls []Decl
}

// Id names an identifier occurrence. Sym and StructRef are nil until
// name resolution attaches them (§3: "both are null before resolution").
type Id struct {
	Pos        token.Position
	Name       string
	Sym        *Symbol
	StructRef  *StructDecl
}

// NotStruct is the VarDecl.StructSize sentinel for non-struct variables.
const NotStruct = 0

// StructSize discriminator value for a struct-typed variable.
const IsStruct = 1

// Decl is implemented by every top-level or local declaration form.
type Decl interface{ declNode() }

// VarDecl declares a variable of a scalar or struct type.
// StructSize is NotStruct or IsStruct per §3.
type VarDecl struct {
	Type       Type
	Name       *Id
	StructSize int
}

// FnDecl declares a function: its return type, name, formal parameter
// list, local declarations, and body statements. The body does not
// introduce its own scope; per §4.G it reuses the formals scope.
type FnDecl struct {
	Type    Type
	Name    *Id
	Formals []*FormalDecl
	Locals  []Decl
	Body    []Stmt
}

// FormalDecl declares one formal parameter.
type FormalDecl struct {
	Type Type
	Name *Id
}

// StructDecl declares a struct type and its members.
type StructDecl struct {
	Name    *Id
	Members []*VarDecl
}

func (*VarDecl) declNode()    {}
func (*FnDecl) declNode()     {}
func (*FormalDecl) declNode() {}
func (*StructDecl) declNode() {}

// Type is implemented by every type annotation form.
type Type interface{ typeNode() }

type IntType struct{}
type BoolType struct{}
type VoidType struct{}

// StructType names a struct type by its declaring identifier.
type StructType struct {
	Name *Id
}

func (IntType) typeNode()     {}
func (BoolType) typeNode()    {}
func (VoidType) typeNode()    {}
func (*StructType) typeNode() {}

// Stmt is implemented by every statement form.
type Stmt interface{ stmtNode() }

type AssignStmt struct{ Assign *AssignExpr }
type PostIncStmt struct{ Target Expr }
type PostDecStmt struct{ Target Expr }
type ReadStmt struct{ Target Expr }
type WriteStmt struct{ Value Expr }

type IfStmt struct {
	Cond   Expr
	Locals []Decl
	Body   []Stmt
}

type IfElseStmt struct {
	Cond       Expr
	ThenLocals []Decl
	Then       []Stmt
	ElseLocals []Decl
	Else       []Stmt
}

type WhileStmt struct {
	Cond   Expr
	Locals []Decl
	Body   []Stmt
}

type RepeatStmt struct {
	Cond   Expr
	Locals []Decl
	Body   []Stmt
}

type CallStmt struct{ Call *CallExpr }

// ReturnStmt's Value is nil for a bare `return;`.
type ReturnStmt struct{ Value Expr }

func (*AssignStmt) stmtNode()  {}
func (*PostIncStmt) stmtNode() {}
func (*PostDecStmt) stmtNode() {}
func (*ReadStmt) stmtNode()    {}
func (*WriteStmt) stmtNode()   {}
func (*IfStmt) stmtNode()      {}
func (*IfElseStmt) stmtNode()  {}
func (*WhileStmt) stmtNode()   {}
func (*RepeatStmt) stmtNode()  {}
func (*CallStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()  {}

// Expr is implemented by every expression form.
type Expr interface{ exprNode() }

type IntLit struct {
	Pos   token.Position
	Value int32
}

type StrLit struct {
	Pos token.Position
	Raw string // includes surrounding quotes, per §3
}

type TrueLit struct{ Pos token.Position }
type FalseLit struct{ Pos token.Position }

// IdExpr wraps an Id used as an expression (a bare name use, or the
// left/right side of a DotAccessExpr).
type IdExpr struct{ Id *Id }

// DotAccessExpr is `Base . Field`, resolved per §4.G's dot-access chain
// algorithm.
type DotAccessExpr struct {
	Base  Expr
	Field *Id
}

// AssignExpr is `Target = Value`; also embedded by AssignStmt when used
// as a statement (unparsed without the outer parens that an expression
// context requires, per §4.H).
type AssignExpr struct {
	Target Expr
	Value  Expr
}

// CallExpr is `Callee ( Args... )`.
type CallExpr struct {
	Callee *Id
	Args   []Expr
}

type UnaryMinusExpr struct{ Operand Expr }
type NotExpr struct{ Operand Expr }

// BinaryOp enumerates the binary operators of the precedence lattice
// (§4.E), excluding assignment (modeled by AssignExpr).
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinAnd
	BinOr
	BinEq
	BinNeq
	BinLt
	BinGt
	BinLe
	BinGe
)

type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*IntLit) exprNode()         {}
func (*StrLit) exprNode()         {}
func (*TrueLit) exprNode()        {}
func (*FalseLit) exprNode()       {}
func (*IdExpr) exprNode()         {}
func (*DotAccessExpr) exprNode()  {}
func (*AssignExpr) exprNode()     {}
func (*CallExpr) exprNode()       {}
func (*UnaryMinusExpr) exprNode() {}
func (*NotExpr) exprNode()        {}
func (*BinaryExpr) exprNode()     {}

// TypeSpelling renders a Type the way symbols record it (and so the way
// the unparser's symbol annotations print it): "int", "bool", "void", or
// the struct's bare name without the "struct" keyword. The unparser adds
// the keyword itself when it prints a declaration's type.
func TypeSpelling(t Type) string {
	switch tt := t.(type) {
	case IntType:
		return "int"
	case BoolType:
		return "bool"
	case VoidType:
		return "void"
	case *StructType:
		return tt.Name.Name
	}
	return "?"
}
