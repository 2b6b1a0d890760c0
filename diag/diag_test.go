package diag_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmm-lang/cmmc/diag"
	"github.com/cmm-lang/cmmc/token"
)

func test(name string, fn func(t *testing.T)) func(t *testing.T) {
	return func(t *testing.T) {
		t.Run(name, fn)
	}
}

func TestSink(t *testing.T) {
	t.Run("warn and fatal stream in call order", test("", func(t *testing.T) {
		var buf bytes.Buffer
		s := diag.NewSink(&buf)

		s.Warn(token.Position{Line: 1, Column: 1}, "integer literal too large; using max value")
		s.Fatal(token.Position{Line: 2, Column: 5}, "Multiply declared identifier")

		require.True(t, s.HasErrors())
		assert.Equal(t,
			"1:1 ***WARNING*** integer literal too large; using max value\n"+
				"2:5 ***ERROR*** Multiply declared identifier\n",
			buf.String())
	}))

	t.Run("warn alone never sets HasErrors", test("", func(t *testing.T) {
		s := diag.NewSink(nil)
		s.Warn(token.Position{Line: 1, Column: 1}, "integer literal too large; using max value")
		assert.False(t, s.HasErrors())
		assert.Len(t, s.Diagnostics(), 1)
	}))

	t.Run("reset clears accumulated state", test("", func(t *testing.T) {
		s := diag.NewSink(nil)
		s.Fatal(token.Position{Line: 1, Column: 1}, "Syntax error")
		require.True(t, s.HasErrors())
		s.Reset()
		assert.False(t, s.HasErrors())
		assert.Empty(t, s.Diagnostics())
	}))
}
