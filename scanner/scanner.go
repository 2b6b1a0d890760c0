// Package scanner implements the C-- lexical scanner described by the
// token-recognition rules of §4.C: longest match, then rule priority,
// over a fixed ASCII alphabet. It is grounded on sqlparser.Scanner
// (github.com/vippsas/sqlcode/v2, sqlparser/scanner.go): a struct
// carrying the source text, a byte cursor, and line/column counters,
// with a single dispatching NextToken-style entry point.
package scanner

import (
	"math"

	"github.com/smasher164/xid"

	"github.com/cmm-lang/cmmc/diag"
	"github.com/cmm-lang/cmmc/token"
)

// maxInt32Digits is the digit length of math.MaxInt32 ("2147483647"),
// used as a cheap pre-check before accumulating into an int64.
const maxInt32Digits = 10

// Scanner tokenizes a single source buffer. Line and column are reset
// only by New; the zero value is not usable (per §5, a Scanner's
// mutable state must be reset per compilation by constructing a fresh
// one rather than by a global).
type Scanner struct {
	src  string
	pos  int
	line int
	col  int
	sink *diag.Sink
}

// New returns a Scanner positioned at the start of src, reporting
// lexical diagnostics to sink.
func New(src string, sink *diag.Sink) *Scanner {
	return &Scanner{src: src, pos: 0, line: 1, col: 1, sink: sink}
}

func (s *Scanner) atEOF() bool { return s.pos >= len(s.src) }

func (s *Scanner) here() token.Position { return token.Position{Line: s.line, Column: s.col} }

func (s *Scanner) peek() byte {
	if s.atEOF() {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *Scanner) advanceCol(n int) {
	s.pos += n
	s.col += n
}

func (s *Scanner) newline() {
	s.pos++
	s.line++
	s.col = 1
}

// Next returns the next token, or an EOF token once the input is
// exhausted. Whitespace, comments, and lexical errors are consumed
// internally and never surface as a token.
func (s *Scanner) Next() token.Token {
	for {
		if s.atEOF() {
			return token.Token{Type: token.EOF, Pos: s.here()}
		}

		c := s.peek()

		switch {
		case c == ' ' || c == '\t':
			s.advanceCol(1)
			continue

		case c == '\n':
			s.newline()
			continue

		case c == '/' && s.peekAt(1) == '/', c == '#' && s.peekAt(1) == '#':
			s.skipLineComment()
			continue

		case isIdentStart(c):
			return s.scanIdentifierOrKeyword()

		case isDigit(c):
			if tok, ok := s.scanIntLiteral(); ok {
				return tok
			}
			continue

		case c == '"':
			if tok, ok := s.scanStringLiteral(); ok {
				return tok
			}
			continue

		default:
			if tok, ok := s.scanOperator(); ok {
				return tok
			}
			continue
		}
	}
}

func (s *Scanner) skipLineComment() {
	for !s.atEOF() && s.peek() != '\n' {
		s.advanceCol(1)
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	if b >= 0x80 {
		return false
	}
	return b == '_' || xid.Start(rune(b))
}

func isIdentPart(b byte) bool {
	if b >= 0x80 {
		return false
	}
	return b == '_' || xid.Continue(rune(b))
}

func (s *Scanner) scanIdentifierOrKeyword() token.Token {
	pos := s.here()
	start := s.pos
	for !s.atEOF() && isIdentPart(s.peek()) {
		s.advanceCol(1)
	}
	lit := s.src[start:s.pos]
	if kw, ok := token.Keywords[lit]; ok {
		return token.Token{Type: kw, Pos: pos, Lit: lit}
	}
	return token.Token{Type: token.IDENT, Pos: pos, Lit: lit}
}

// scanIntLiteral implements rule (3), including the observed overflow
// bug recorded in SPEC_FULL.md §12.1: on overflow, a warning is emitted
// but no token is produced for this call and the column counter is not
// advanced by the lexeme's length, only the raw cursor is.
func (s *Scanner) scanIntLiteral() (token.Token, bool) {
	pos := s.here()
	start := s.pos
	for !s.atEOF() && isDigit(s.peek()) {
		s.pos++
	}
	lit := s.src[start:s.pos]

	val, overflow := saturate(lit)
	if overflow {
		// Cursor already moved past the digits above; column is
		// deliberately left unadvanced here, reproducing the observed
		// drift (SPEC_FULL.md §12.1).
		s.sink.Warn(pos, "integer literal too large; using max value")
		return token.Token{}, false
	}
	s.col += len(lit)
	return token.Token{Type: token.INTLIT, Pos: pos, Lit: lit, IVal: val}, true
}

func saturate(lit string) (int32, bool) {
	for len(lit) > 1 && lit[0] == '0' {
		lit = lit[1:]
	}
	if len(lit) > maxInt32Digits {
		return math.MaxInt32, true
	}
	var v int64
	for i := 0; i < len(lit); i++ {
		v = v*10 + int64(lit[i]-'0')
		if v > math.MaxInt32 {
			return math.MaxInt32, true
		}
	}
	return int32(v), false
}

func isValidEscapeChar(b byte) bool {
	switch b {
	case 'n', 't', '\'', '"', '?', '\\':
		return true
	}
	return false
}

// scanStringLiteral implements rules (4)-(7): a terminated literal with
// only valid escapes returns a token; any of unterminated / bad-escape /
// both produces the matching fatal diagnostic and no token. The
// bad-escape check runs before the unterminated conclusion is drawn
// (SPEC_FULL.md §12.2), so a string with both conditions reports the
// combined message rather than the plain "unterminated" one.
func (s *Scanner) scanStringLiteral() (token.Token, bool) {
	pos := s.here()
	start := s.pos
	s.pos++ // opening quote

	terminated := false
	badEscape := false

	for !s.atEOF() {
		c := s.peek()
		if c == '\n' {
			break
		}
		if c == '"' {
			s.pos++
			terminated = true
			break
		}
		if c == '\\' {
			next := s.peekAt(1)
			if next != 0 && next != '\n' && isValidEscapeChar(next) {
				s.pos += 2
			} else {
				badEscape = true
				s.pos++
			}
			continue
		}
		s.pos++
	}

	lit := s.src[start:s.pos]
	s.col += len(lit)

	switch {
	case terminated && !badEscape:
		return token.Token{Type: token.STRLIT, Pos: pos, Lit: lit}, true
	case terminated && badEscape:
		s.sink.Fatal(pos, "string literal with bad escaped character ignored %s", lit)
	case !terminated && !badEscape:
		s.sink.Fatal(pos, "unterminated string literal ignored %s", lit)
	default:
		s.sink.Fatal(pos, "unterminated string literal with bad escaped character ignored %s", lit)
	}
	return token.Token{}, false
}

// scanOperator implements rule (9) (two-character operators win over
// their single-character prefixes) and rule (10) (anything left over is
// illegal).
func (s *Scanner) scanOperator() (token.Token, bool) {
	pos := s.here()
	c := s.peek()
	two := func(t token.Type) (token.Token, bool) {
		tok := token.Token{Type: t, Pos: pos, Lit: s.src[s.pos : s.pos+2]}
		s.advanceCol(2)
		return tok, true
	}
	one := func(t token.Type) (token.Token, bool) {
		tok := token.Token{Type: t, Pos: pos, Lit: s.src[s.pos : s.pos+1]}
		s.advanceCol(1)
		return tok, true
	}

	switch c {
	case '{':
		return one(token.LBRACE)
	case '}':
		return one(token.RBRACE)
	case '(':
		return one(token.LPAREN)
	case ')':
		return one(token.RPAREN)
	case ';':
		return one(token.SEMI)
	case ',':
		return one(token.COMMA)
	case '.':
		return one(token.DOT)
	case '*':
		return one(token.STAR)
	case '/':
		return one(token.SLASH)
	case '=':
		if s.peekAt(1) == '=' {
			return two(token.EQ)
		}
		return one(token.ASSIGN)
	case '+':
		if s.peekAt(1) == '+' {
			return two(token.INC)
		}
		return one(token.PLUS)
	case '-':
		if s.peekAt(1) == '-' {
			return two(token.DEC)
		}
		return one(token.MINUS)
	case '!':
		if s.peekAt(1) == '=' {
			return two(token.NEQ)
		}
		return one(token.NOT)
	case '|':
		if s.peekAt(1) == '|' {
			return two(token.OR)
		}
	case '&':
		if s.peekAt(1) == '&' {
			return two(token.AND)
		}
	case '<':
		if s.peekAt(1) == '<' {
			return two(token.SHL)
		}
		if s.peekAt(1) == '=' {
			return two(token.LE)
		}
		return one(token.LT)
	case '>':
		if s.peekAt(1) == '>' {
			return two(token.SHR)
		}
		if s.peekAt(1) == '=' {
			return two(token.GE)
		}
		return one(token.GT)
	}

	s.sink.Fatal(pos, "illegal character ignored: %c", c)
	s.advanceCol(1)
	return token.Token{}, false
}
