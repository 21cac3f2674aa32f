package sable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.sable.dev/internal/test"
)

// stripLocs drops position info so expected tokens stay readable.
func stripLocs(toks []Token) []Token {
	if toks == nil {
		return nil
	}

	out := make([]Token, len(toks))
	for i, tok := range toks {
		out[i] = Token{Typ: tok.Typ, Value: tok.Value}
	}

	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"func main () {}",
			false,
			[]Token{
				{TokenFunc, "func", nil},
				{TokenIdentifier, "main", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenOpenCurly, "{", nil},
				{TokenCloseCurly, "}", nil},
			},
		},
		{
			"//this is a comment\n",
			false,
			nil,
		},
		{
			"func main () {\n// this is a comment \n}",
			false,
			[]Token{
				{TokenFunc, "func", nil},
				{TokenIdentifier, "main", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenOpenCurly, "{", nil},
				{TokenCloseCurly, "}", nil},
			},
		},
		{
			"let únicódeShouldBeVàlid = 1;",
			false,
			[]Token{
				{TokenLet, "let", nil},
				{TokenIdentifier, "únicódeShouldBeVàlid", nil},
				{TokenAssign, "=", nil},
				{TokenInt, "1", nil},
				{TokenSemicolon, ";", nil},
			},
		},
		{
			`let identifier = "string";`,
			false,
			[]Token{
				{TokenLet, "let", nil},
				{TokenIdentifier, "identifier", nil},
				{TokenAssign, "=", nil},
				{TokenString, "string", nil},
				{TokenSemicolon, ";", nil},
			},
		},
		{
			`""`,
			false,
			[]Token{
				{TokenString, "", nil},
			},
		},
		{
			"3.14 10 0.5",
			false,
			[]Token{
				{TokenFloat, "3.14", nil},
				{TokenInt, "10", nil},
				{TokenFloat, "0.5", nil},
			},
		},
		{
			"p.magnitude()",
			false,
			[]Token{
				{TokenIdentifier, "p", nil},
				{TokenDot, ".", nil},
				{TokenIdentifier, "magnitude", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenCloseParentheses, ")", nil},
			},
		},
		{
			"n1 >= 1 && x != y || !done",
			false,
			[]Token{
				{TokenIdentifier, "n1", nil},
				{TokenGreaterEq, ">=", nil},
				{TokenInt, "1", nil},
				{TokenAnd, "&&", nil},
				{TokenIdentifier, "x", nil},
				{TokenNotEquals, "!=", nil},
				{TokenIdentifier, "y", nil},
				{TokenOr, "||", nil},
				{TokenBang, "!", nil},
				{TokenIdentifier, "done", nil},
			},
		},
		{
			"result *= n1; n1 -= 1;",
			false,
			[]Token{
				{TokenIdentifier, "result", nil},
				{TokenStarEq, "*=", nil},
				{TokenIdentifier, "n1", nil},
				{TokenSemicolon, ";", nil},
				{TokenIdentifier, "n1", nil},
				{TokenMinusEq, "-=", nil},
				{TokenInt, "1", nil},
				{TokenSemicolon, ";", nil},
			},
		},
		{
			"(int, int) -> int",
			false,
			[]Token{
				{TokenOpenParentheses, "(", nil},
				{TokenIdentifier, "int", nil},
				{TokenComma, ",", nil},
				{TokenIdentifier, "int", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenArrow, "->", nil},
				{TokenIdentifier, "int", nil},
			},
		},
		{
			`"escapes: \n \t \" \\"`,
			false,
			[]Token{
				{TokenString, "escapes: \n \t \" \\", nil},
			},
		},
		{
			"\"unclosed string",
			true,
			nil,
		},
		{
			"@",
			true,
			nil,
		},
		{
			"&",
			true,
			nil,
		},
		{
			`"bad escape \q"`,
			true,
			nil,
		},
	}

	for _, c := range cases {
		r := strings.NewReader(c.data)
		l := NewLexerFromReader(r)

		toks, err := l.RunBlocking()
		if c.fail {
			assert.Error(t, err)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, c.expect, stripLocs(toks))
	}
}

func TestLexerInterpolation(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			`"\(n)! = \(result)"`,
			false,
			[]Token{
				{TokenStringSeg, "", nil},
				{TokenInterpStart, `\(`, nil},
				{TokenIdentifier, "n", nil},
				{TokenInterpEnd, ")", nil},
				{TokenStringSeg, "! = ", nil},
				{TokenInterpStart, `\(`, nil},
				{TokenIdentifier, "result", nil},
				{TokenInterpEnd, ")", nil},
				{TokenStringSeg, "", nil},
				{TokenStringEnd, "", nil},
			},
		},
		{
			`"sum: \(add(x, y))"`,
			false,
			[]Token{
				{TokenStringSeg, "sum: ", nil},
				{TokenInterpStart, `\(`, nil},
				{TokenIdentifier, "add", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenIdentifier, "x", nil},
				{TokenComma, ",", nil},
				{TokenIdentifier, "y", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenInterpEnd, ")", nil},
				{TokenStringSeg, "", nil},
				{TokenStringEnd, "", nil},
			},
		},
		{
			// A string nested inside an interpolation expression
			`"outer \("inner") done"`,
			false,
			[]Token{
				{TokenStringSeg, "outer ", nil},
				{TokenInterpStart, `\(`, nil},
				{TokenString, "inner", nil},
				{TokenInterpEnd, ")", nil},
				{TokenStringSeg, " done", nil},
				{TokenStringEnd, "", nil},
			},
		},
		{
			// Interpolation nested inside a nested string
			`"a\("b\(c)d")e"`,
			false,
			[]Token{
				{TokenStringSeg, "a", nil},
				{TokenInterpStart, `\(`, nil},
				{TokenStringSeg, "b", nil},
				{TokenInterpStart, `\(`, nil},
				{TokenIdentifier, "c", nil},
				{TokenInterpEnd, ")", nil},
				{TokenStringSeg, "d", nil},
				{TokenStringEnd, "", nil},
				{TokenInterpEnd, ")", nil},
				{TokenStringSeg, "e", nil},
				{TokenStringEnd, "", nil},
			},
		},
		{
			`"unterminated \(expr`,
			true,
			nil,
		},
		{
			`"\(1 + 2"`,
			true,
			nil,
		},
	}

	for _, c := range cases {
		r := strings.NewReader(c.data)
		l := NewLexerFromReader(r)

		toks, err := l.RunBlocking()
		if c.fail {
			assert.Error(t, err)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, c.expect, stripLocs(toks))
	}
}

func TestLexerPositions(t *testing.T) {
	l := NewLexerFromReader(strings.NewReader("let x = 1;\nlet y = 2;"))

	toks, err := l.RunBlocking()
	require.NoError(t, err)
	require.Len(t, toks, 10)

	assert.Equal(t, &Location{Line: 1, Col: 1, Offset: 0}, toks[0].Loc)
	assert.Equal(t, 2, toks[5].Loc.Line)
	assert.Equal(t, 1, toks[5].Loc.Col)
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		r := strings.NewReader(data)
		l := NewLexerFromReader(r)

		var err error
		b.StartTimer()

		benchResult, err = l.RunBlocking()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
