// Package cmm wires the scanner, parser, and resolver into the single
// compilation entry point the CLI (and tests) call. Grounded on the
// teacher's top-level phase-orchestration functions (Deployable,
// Preprocess in github.com/vippsas/sqlcode/v2) that thread a document
// through several phases and collect diagnostics along the way.
package cmm

import (
	"github.com/cmm-lang/cmmc/ast"
	"github.com/cmm-lang/cmmc/diag"
	"github.com/cmm-lang/cmmc/parser"
	"github.com/cmm-lang/cmmc/scanner"
	"github.com/cmm-lang/cmmc/sema"
)

// Result is everything a caller needs after a compilation: the
// annotated AST (nil if parsing failed outright), the symbol table
// built for the program's global scope, and the diagnostic sink every
// phase reported into.
type Result struct {
	Filename string
	Program  *ast.Program
	Globals  *sema.Table
	Sink     *diag.Sink
}

// Compile scans, parses, and resolves src, which was read from
// filename (carried through for the caller's own error messages; no
// compiler phase needs it, since token.Position has no file field — a
// single Sink/Result always describes one file). A syntax error halts
// the pipeline after parsing (§7: parse errors are not recoverable)
// and Result.Program is nil; Result.Sink always carries whatever
// diagnostics were produced. Name-resolution diagnostics, unlike parse
// errors, do not stop the walk — check Result.Sink.HasErrors().
func Compile(filename, src string) *Result {
	sink := diag.NewSink(nil)
	sc := scanner.New(src, sink)

	prog, ok := parser.Parse(sc, sink)
	if !ok {
		return &Result{Filename: filename, Sink: sink}
	}

	globals := sema.NewResolver(sink).Resolve(prog)
	return &Result{Filename: filename, Program: prog, Globals: globals, Sink: sink}
}
