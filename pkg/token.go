package sable

import "fmt"

type TokenType uint64

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF

	TokenInt
	TokenFloat
	TokenString
	TokenStringSeg
	TokenStringEnd
	TokenInterpStart
	TokenInterpEnd

	TokenIdentifier

	TokenModule
	TokenImport
	TokenAs
	TokenFunc
	TokenLet
	TokenStruct
	TokenExtend
	TokenPub
	TokenReturn
	TokenWhile
	TokenIf
	TokenElse
	TokenBreak
	TokenContinue
	TokenTrue
	TokenFalse

	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenPlusEq
	TokenMinusEq
	TokenStarEq
	TokenSlashEq
	TokenAssign
	TokenEquals
	TokenNotEquals
	TokenLess
	TokenLessEq
	TokenGreater
	TokenGreaterEq
	TokenAnd
	TokenOr
	TokenBang
	TokenPipe
	TokenArrow
	TokenDoubleColon

	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
	TokenComma
	TokenColon
	TokenSemicolon
	TokenDot
)

var keywordTable = map[string]TokenType{
	"module":   TokenModule,
	"import":   TokenImport,
	"as":       TokenAs,
	"func":     TokenFunc,
	"let":      TokenLet,
	"struct":   TokenStruct,
	"extend":   TokenExtend,
	"pub":      TokenPub,
	"return":   TokenReturn,
	"while":    TokenWhile,
	"if":       TokenIf,
	"else":     TokenElse,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"true":     TokenTrue,
	"false":    TokenFalse,
}

// Location is the position of a token or AST node in the source text.
type Location struct {
	Line   int
	Col    int
	Offset int
}

func (l *Location) String() string {
	if l == nil {
		return "?:?"
	}

	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}
