package sema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmm-lang/cmmc/ast"
	"github.com/cmm-lang/cmmc/sema"
)

func TestTable_PushPop(t *testing.T) {
	table := sema.NewTable()
	before := table.Depth()
	table.PushScope()
	require.NoError(t, table.PopScope())
	assert.Equal(t, before, table.Depth())
}

func TestTable_AddAndLookup(t *testing.T) {
	table := sema.NewTable()
	sym := &ast.Symbol{Kind: ast.SymVar, Type: "int"}

	require.NoError(t, table.Add("x", sym))

	err := table.Add("x", &ast.Symbol{Kind: ast.SymVar, Type: "int"})
	assert.Equal(t, sema.ErrDuplicate, err)

	got, err := table.LookupLocal("x")
	require.NoError(t, err)
	assert.Same(t, sym, got)

	got, err = table.LookupGlobal("x")
	require.NoError(t, err)
	assert.Same(t, sym, got)

	got, err = table.LookupGlobal("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTable_AddIllegalArgument(t *testing.T) {
	table := sema.NewTable()
	assert.Equal(t, sema.ErrIllegalArgument, table.Add("", &ast.Symbol{}))
	assert.Equal(t, sema.ErrIllegalArgument, table.Add("x", nil))
}

func TestTable_LookupGlobalSpansOuterScopes(t *testing.T) {
	table := sema.NewTable()
	outer := &ast.Symbol{Kind: ast.SymVar, Type: "int"}
	require.NoError(t, table.Add("x", outer))

	table.PushScope()
	got, err := table.LookupGlobal("x")
	require.NoError(t, err)
	assert.Same(t, outer, got)

	local, err := table.LookupLocal("x")
	require.NoError(t, err)
	assert.Nil(t, local)
}
