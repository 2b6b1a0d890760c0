package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmm-lang/cmmc/ast"
	"github.com/cmm-lang/cmmc/diag"
	"github.com/cmm-lang/cmmc/parser"
	"github.com/cmm-lang/cmmc/scanner"
)

func parse(t *testing.T, src string) (*ast.Program, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink(nil)
	sc := scanner.New(src, sink)
	prog, ok := parser.Parse(sc, sink)
	if ok {
		require.False(t, sink.HasErrors())
	}
	return prog, sink
}

func TestParser_SimpleVarDecl(t *testing.T) {
	prog, sink := parse(t, "int x;")
	require.Empty(t, sink.Diagnostics())
	require.Len(t, prog.Decls, 1)

	v, ok := prog.Decls[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.IsType(t, ast.IntType{}, v.Type)
	assert.Equal(t, "x", v.Name.Name)
	assert.Equal(t, ast.NotStruct, v.StructSize)
}

func TestParser_StructDeclVsStructVarDecl(t *testing.T) {
	prog, sink := parse(t, "struct S { int a; }; struct S s; int y;")
	require.Empty(t, sink.Diagnostics())
	require.Len(t, prog.Decls, 3)

	sDecl, ok := prog.Decls[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "S", sDecl.Name.Name)
	require.Len(t, sDecl.Members, 1)
	assert.Equal(t, "a", sDecl.Members[0].Name.Name)

	sVar, ok := prog.Decls[1].(*ast.VarDecl)
	require.True(t, ok)
	st, ok := sVar.Type.(*ast.StructType)
	require.True(t, ok)
	assert.Equal(t, "S", st.Name.Name)
	assert.Equal(t, ast.IsStruct, sVar.StructSize)
}

func TestParser_FnDeclWithFormalsAndBody(t *testing.T) {
	prog, sink := parse(t, `
int add(int a, int b) {
    int result;
    result = a + b;
    return result;
}`)
	require.Empty(t, sink.Diagnostics())
	require.Len(t, prog.Decls, 1)

	fn, ok := prog.Decls[0].(*ast.FnDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Name)
	require.Len(t, fn.Formals, 2)
	assert.Equal(t, "a", fn.Formals[0].Name.Name)
	require.Len(t, fn.Locals, 1)
	require.Len(t, fn.Body, 2)

	assign, ok := fn.Body[0].(*ast.AssignStmt)
	require.True(t, ok)
	bin, ok := assign.Assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BinAdd, bin.Op)

	ret, ok := fn.Body[1].(*ast.ReturnStmt)
	require.True(t, ok)
	assert.NotNil(t, ret.Value)
}

func TestParser_IfElseWhileRepeat(t *testing.T) {
	prog, sink := parse(t, `
void main() {
    int i;
    if (i < 10) {
        i++;
    } else {
        i--;
    }
    while (i < 10) {
        i++;
    }
    repeat (i > 0) {
        i--;
    }
}`)
	require.Empty(t, sink.Diagnostics())
	fn := prog.Decls[0].(*ast.FnDecl)
	require.Len(t, fn.Body, 3)
	assert.IsType(t, &ast.IfElseStmt{}, fn.Body[0])
	assert.IsType(t, &ast.WhileStmt{}, fn.Body[1])
	assert.IsType(t, &ast.RepeatStmt{}, fn.Body[2])
}

func TestParser_DotAccessChainAndCall(t *testing.T) {
	prog, sink := parse(t, `
struct S { int a; };
void main() {
    struct S x;
    cout << x.a;
    foo(x.a, 1);
}`)
	require.Empty(t, sink.Diagnostics())
	fn := prog.Decls[1].(*ast.FnDecl)
	require.Len(t, fn.Body, 2)

	write, ok := fn.Body[0].(*ast.WriteStmt)
	require.True(t, ok)
	assert.IsType(t, &ast.DotAccessExpr{}, write.Value)

	callStmt, ok := fn.Body[1].(*ast.CallStmt)
	require.True(t, ok)
	assert.Equal(t, "foo", callStmt.Call.Callee.Name)
	require.Len(t, callStmt.Call.Args, 2)
}

func TestParser_PrecedenceOfOrAndEquality(t *testing.T) {
	prog, sink := parse(t, `
void main() {
    bool b;
    b = 1 < 2 && 3 == 3 || false;
}`)
	require.Empty(t, sink.Diagnostics())
	fn := prog.Decls[0].(*ast.FnDecl)
	require.Len(t, fn.Body, 1)

	assignStmt := fn.Body[0].(*ast.AssignStmt)
	top, ok := assignStmt.Assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	// '&&' and '||' share one left-associative level (§9), so the
	// leftmost evaluated is the left operand of the outermost node.
	assert.Equal(t, ast.BinOr, top.Op)
	_, ok = top.Left.(*ast.BinaryExpr)
	require.True(t, ok)
}

func TestParser_ReservedWordAsIdentifierIsSyntaxError(t *testing.T) {
	_, sink := parse(t, "int int;")
	require.True(t, sink.HasErrors())
	require.Len(t, sink.Diagnostics(), 1)
	assert.Equal(t, "Syntax error", sink.Diagnostics()[0].Message)
}

func TestParser_SyntaxErrorAtEOF(t *testing.T) {
	_, sink := parse(t, "int x")
	require.True(t, sink.HasErrors())
	require.Len(t, sink.Diagnostics(), 1)
	assert.Equal(t, "Syntax error at end of file", sink.Diagnostics()[0].Message)
}
