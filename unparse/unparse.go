// Package unparse implements the canonical pretty-printer of §4.H: the
// deterministic oracle interface the test suite observes. Grounded on
// Create.Serialize/Create.String (github.com/vippsas/sqlcode/v2,
// sqlparser/create.go): accumulate into a strings.Builder and expose
// both an io.Writer-based Fprint and a convenience String.
package unparse

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/repr"

	"github.com/cmm-lang/cmmc/ast"
)

const indentUnit = "    "

// Printer renders a *ast.Program as canonical C-- source text.
// Annotate controls whether resolved identifiers print their
// "(symbol-tostring)" suffix (§4.H); pass false to unparse a tree that
// has not yet been through name resolution.
type Printer struct {
	Annotate bool

	b     strings.Builder
	depth int
}

// String renders prog with the given annotation mode.
func String(prog *ast.Program, annotate bool) string {
	p := &Printer{Annotate: annotate}
	p.printProgram(prog)
	return p.b.String()
}

// Fprint renders prog to w.
func Fprint(w io.Writer, prog *ast.Program, annotate bool) error {
	_, err := io.WriteString(w, String(prog, annotate))
	return err
}

// Dump renders any AST node (or symbol table, or anything else) as a
// structural debug dump, for --dump-ast and test failure messages.
func Dump(node any) string {
	return repr.String(node, repr.Indent("  "))
}

func (p *Printer) indent() string { return strings.Repeat(indentUnit, p.depth) }

func (p *Printer) printProgram(prog *ast.Program) {
	for _, d := range prog.Decls {
		p.printDecl(d)
	}
}

func (p *Printer) identString(id *ast.Id) string {
	if p.Annotate && id.Sym != nil {
		return fmt.Sprintf("%s(%s)", id.Name, id.Sym.String())
	}
	return id.Name
}

// declaredTypeString renders a declaration's leading type annotation,
// always printing the "struct" keyword for a struct type regardless of
// whether the source declaration spelled it out (SPEC_FULL.md §12.4).
func declaredTypeString(t ast.Type) string {
	if st, ok := t.(*ast.StructType); ok {
		return "struct " + st.Name.Name
	}
	return ast.TypeSpelling(t)
}

func (p *Printer) printDecl(d ast.Decl) {
	switch dd := d.(type) {
	case *ast.VarDecl:
		fmt.Fprintf(&p.b, "%s%s %s;\n", p.indent(), declaredTypeString(dd.Type), p.identString(dd.Name))
	case *ast.FormalDecl:
		// Formals are rendered inline by printFormals; a bare
		// FormalDecl never appears in a Decls list on its own.
	case *ast.FnDecl:
		p.printFnDecl(dd)
	case *ast.StructDecl:
		p.printStructDecl(dd)
	}
}

func (p *Printer) printFormals(formals []*ast.FormalDecl) string {
	parts := make([]string, len(formals))
	for i, f := range formals {
		parts[i] = fmt.Sprintf("%s %s", declaredTypeString(f.Type), p.identString(f.Name))
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) printFnDecl(fn *ast.FnDecl) {
	fmt.Fprintf(&p.b, "%s%s %s(%s) {\n",
		p.indent(), declaredTypeString(fn.Type), p.identString(fn.Name), p.printFormals(fn.Formals))
	p.depth++
	for _, d := range fn.Locals {
		p.printDecl(d)
	}
	for _, s := range fn.Body {
		p.printStmt(s)
	}
	p.depth--
	fmt.Fprintf(&p.b, "%s}\n", p.indent())
}

func (p *Printer) printStructDecl(s *ast.StructDecl) {
	fmt.Fprintf(&p.b, "%sstruct %s {\n", p.indent(), p.identString(s.Name))
	p.depth++
	for _, m := range s.Members {
		p.printDecl(m)
	}
	p.depth--
	fmt.Fprintf(&p.b, "%s};\n", p.indent())
}

func (p *Printer) printBlock(locals []ast.Decl, stmts []ast.Stmt) {
	p.depth++
	for _, d := range locals {
		p.printDecl(d)
	}
	for _, s := range stmts {
		p.printStmt(s)
	}
	p.depth--
}

func (p *Printer) printStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.AssignStmt:
		// An assignment used as a statement omits the outer parens an
		// assignment-as-expression would otherwise get (§4.H).
		fmt.Fprintf(&p.b, "%s%s = %s;\n", p.indent(), p.exprString(st.Assign.Target), p.exprString(st.Assign.Value))
	case *ast.PostIncStmt:
		fmt.Fprintf(&p.b, "%s%s++;\n", p.indent(), p.exprString(st.Target))
	case *ast.PostDecStmt:
		fmt.Fprintf(&p.b, "%s%s--;\n", p.indent(), p.exprString(st.Target))
	case *ast.ReadStmt:
		fmt.Fprintf(&p.b, "%scin >> %s;\n", p.indent(), p.exprString(st.Target))
	case *ast.WriteStmt:
		fmt.Fprintf(&p.b, "%scout << %s;\n", p.indent(), p.exprString(st.Value))
	case *ast.IfStmt:
		fmt.Fprintf(&p.b, "%sif (%s) {\n", p.indent(), p.exprString(st.Cond))
		p.printBlock(st.Locals, st.Body)
		fmt.Fprintf(&p.b, "%s}\n", p.indent())
	case *ast.IfElseStmt:
		fmt.Fprintf(&p.b, "%sif (%s) {\n", p.indent(), p.exprString(st.Cond))
		p.printBlock(st.ThenLocals, st.Then)
		fmt.Fprintf(&p.b, "%s} else {\n", p.indent())
		p.printBlock(st.ElseLocals, st.Else)
		fmt.Fprintf(&p.b, "%s}\n", p.indent())
	case *ast.WhileStmt:
		fmt.Fprintf(&p.b, "%swhile (%s) {\n", p.indent(), p.exprString(st.Cond))
		p.printBlock(st.Locals, st.Body)
		fmt.Fprintf(&p.b, "%s}\n", p.indent())
	case *ast.RepeatStmt:
		fmt.Fprintf(&p.b, "%srepeat (%s) {\n", p.indent(), p.exprString(st.Cond))
		p.printBlock(st.Locals, st.Body)
		fmt.Fprintf(&p.b, "%s}\n", p.indent())
	case *ast.CallStmt:
		fmt.Fprintf(&p.b, "%s%s;\n", p.indent(), p.exprString(st.Call))
	case *ast.ReturnStmt:
		if st.Value != nil {
			fmt.Fprintf(&p.b, "%sreturn %s;\n", p.indent(), p.exprString(st.Value))
		} else {
			fmt.Fprintf(&p.b, "%sreturn;\n", p.indent())
		}
	}
}

func binOpSpelling(op ast.BinaryOp) string {
	switch op {
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinAnd:
		return "&&"
	case ast.BinOr:
		return "||"
	case ast.BinEq:
		return "=="
	case ast.BinNeq:
		return "!="
	case ast.BinLt:
		return "<"
	case ast.BinGt:
		return ">"
	case ast.BinLe:
		return "<="
	case ast.BinGe:
		return ">="
	}
	return "?"
}

// exprString renders e in expression context: every binary expression,
// every unary expression, and an assignment used as a sub-expression
// are parenthesized (§4.H).
func (p *Printer) exprString(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", ex.Value)
	case *ast.StrLit:
		return ex.Raw
	case *ast.TrueLit:
		return "true"
	case *ast.FalseLit:
		return "false"
	case *ast.IdExpr:
		return p.identString(ex.Id)
	case *ast.DotAccessExpr:
		return p.exprString(ex.Base) + "." + p.identString(ex.Field)
	case *ast.AssignExpr:
		return fmt.Sprintf("(%s = %s)", p.exprString(ex.Target), p.exprString(ex.Value))
	case *ast.CallExpr:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = p.exprString(a)
		}
		return fmt.Sprintf("%s(%s)", p.identString(ex.Callee), strings.Join(args, ", "))
	case *ast.UnaryMinusExpr:
		return fmt.Sprintf("(-%s)", p.exprString(ex.Operand))
	case *ast.NotExpr:
		return fmt.Sprintf("(!%s)", p.exprString(ex.Operand))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", p.exprString(ex.Left), binOpSpelling(ex.Op), p.exprString(ex.Right))
	}
	return "?"
}
