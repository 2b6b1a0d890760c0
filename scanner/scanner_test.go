package scanner_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmm-lang/cmmc/diag"
	"github.com/cmm-lang/cmmc/scanner"
	"github.com/cmm-lang/cmmc/token"
)

func test(src string, want []token.Token) func(t *testing.T) {
	return func(t *testing.T) {
		sink := diag.NewSink(nil)
		sc := scanner.New(src, sink)
		var got []token.Token
		for {
			tok := sc.Next()
			got = append(got, tok)
			if tok.Type == token.EOF {
				break
			}
		}
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Type, got[i].Type, "token %d type", i)
			if want[i].Pos != (token.Position{}) {
				assert.Equal(t, want[i].Pos, got[i].Pos, "token %d pos", i)
			}
			if want[i].Lit != "" {
				assert.Equal(t, want[i].Lit, got[i].Lit, "token %d lit", i)
			}
			if want[i].IVal != 0 {
				assert.Equal(t, want[i].IVal, got[i].IVal, "token %d ival", i)
			}
		}
	}
}

func TestScanner_Tokens(t *testing.T) {
	t.Run("decl end to end scenario 1", test("int x;", []token.Token{
		{Type: token.INT, Pos: token.Position{Line: 1, Column: 1}},
		{Type: token.IDENT, Pos: token.Position{Line: 1, Column: 5}, Lit: "x"},
		{Type: token.SEMI, Pos: token.Position{Line: 1, Column: 6}},
		{Type: token.EOF, Pos: token.Position{Line: 1, Column: 7}},
	}))

	t.Run("two char operators win over prefixes", test("a++ b<= c&&d", []token.Token{
		{Type: token.IDENT, Lit: "a"},
		{Type: token.INC},
		{Type: token.IDENT, Lit: "b"},
		{Type: token.LE},
		{Type: token.IDENT, Lit: "c"},
		{Type: token.AND},
		{Type: token.IDENT, Lit: "d"},
		{Type: token.EOF},
	}))

	t.Run("both line comment styles are skipped", test("int // trailing\nbool ## also\nvoid", []token.Token{
		{Type: token.INT, Pos: token.Position{Line: 1, Column: 1}},
		{Type: token.BOOL, Pos: token.Position{Line: 2, Column: 1}},
		{Type: token.VOID, Pos: token.Position{Line: 3, Column: 1}},
		{Type: token.EOF},
	}))

	t.Run("reserved word is never embedded identifier", test("int interest", []token.Token{
		{Type: token.INT},
		{Type: token.IDENT, Lit: "interest"},
		{Type: token.EOF},
	}))
}

func TestScanner_IntLiteral(t *testing.T) {
	t.Run("max int32 accepted without warning", func(t *testing.T) {
		sink := diag.NewSink(nil)
		sc := scanner.New("2147483647", sink)
		tok := sc.Next()
		assert.Equal(t, token.INTLIT, tok.Type)
		assert.Equal(t, int32(2147483647), tok.IVal)
		assert.False(t, sink.HasErrors())
		assert.Empty(t, sink.Diagnostics())
	})

	t.Run("overflow warns and produces no token for the literal", func(t *testing.T) {
		var buf bytes.Buffer
		sink := diag.NewSink(&buf)
		sc := scanner.New("2147483648", sink)
		tok := sc.Next()
		// Per the observed overflow behavior, no token is produced for
		// the overflowing literal itself; the scan falls through to EOF.
		assert.Equal(t, token.EOF, tok.Type)
		diags := sink.Diagnostics()
		require.Len(t, diags, 1)
		assert.Equal(t, diag.Warning, diags[0].Severity)
		assert.Equal(t, "integer literal too large; using max value", diags[0].Message)
	})
}

func TestScanner_StringLiteral(t *testing.T) {
	t.Run("valid escapes accepted", func(t *testing.T) {
		sink := diag.NewSink(nil)
		sc := scanner.New(`"a\n\t\'\"\?\\b"`, sink)
		tok := sc.Next()
		assert.Equal(t, token.STRLIT, tok.Type)
		assert.False(t, sink.HasErrors())
	})

	t.Run("bad escape on otherwise terminated string", func(t *testing.T) {
		sink := diag.NewSink(nil)
		sc := scanner.New(`"hello\q"`, sink)
		tok := sc.Next()
		// No token is produced for the offending literal; scanning
		// resumes immediately after it and hits EOF in this example.
		assert.Equal(t, token.EOF, tok.Type)
		require.Len(t, sink.Diagnostics(), 1)
		assert.Equal(t, "string literal with bad escaped character ignored \"hello\\q\"", sink.Diagnostics()[0].Message)
	})

	t.Run("unterminated with bad escape reports combined message", func(t *testing.T) {
		sink := diag.NewSink(nil)
		sc := scanner.New("\"hello\\q\nrest", sink)
		tok := sc.Next()
		assert.Equal(t, token.IDENT, tok.Type)
		assert.Equal(t, "rest", tok.Lit)
		require.Len(t, sink.Diagnostics(), 1)
		assert.Contains(t, sink.Diagnostics()[0].Message, "unterminated string literal with bad escaped character ignored")
	})

	t.Run("plain unterminated", func(t *testing.T) {
		sink := diag.NewSink(nil)
		sc := scanner.New("\"hello\nrest", sink)
		tok := sc.Next()
		assert.Equal(t, token.IDENT, tok.Type)
		assert.Equal(t, "rest", tok.Lit)
		require.Len(t, sink.Diagnostics(), 1)
		assert.Equal(t, "unterminated string literal ignored \"hello", sink.Diagnostics()[0].Message)
	})
}

func TestScanner_IllegalCharacter(t *testing.T) {
	sink := diag.NewSink(nil)
	sc := scanner.New("@x", sink)
	tok := sc.Next()
	// The illegal character produces no token of its own; scanning
	// continues within the same call until a real token is found.
	assert.Equal(t, token.IDENT, tok.Type)
	assert.Equal(t, "x", tok.Lit)
	require.Len(t, sink.Diagnostics(), 1)
	assert.Equal(t, "illegal character ignored: @", sink.Diagnostics()[0].Message)
}
