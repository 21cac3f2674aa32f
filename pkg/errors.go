package sable

import "fmt"

// CompileError is any diagnostic produced while turning source text into a
// runnable program. Every error carries enough context to render a user-facing
// message without consulting the token stream or AST again.
type CompileError interface {
	error
	Kind() string
	Position() *Location
}

// LexError reports an illegal character, an unterminated string literal, or an
// unterminated interpolation.
type LexError struct {
	Msg string
	Loc *Location
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: lex error: %s", e.Loc, e.Msg)
}

func (e *LexError) Kind() string { return "lex error" }

func (e *LexError) Position() *Location { return e.Loc }

// ParseError reports an unexpected token or a missing construct. Parsing stops
// at the first one.
type ParseError struct {
	Expected string
	Got      Token
	Loc      *Location
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: expected %s, got %s", e.Loc, e.Expected, e.describeGot())
}

func (e *ParseError) Kind() string { return "parse error" }

func (e *ParseError) Position() *Location { return e.Loc }

func (e *ParseError) describeGot() string {
	switch e.Got.Typ {
	case TokenEOF:
		return "end of input"
	case TokenString, TokenStringSeg:
		return fmt.Sprintf("string %q", e.Got.Value)
	default:
		return fmt.Sprintf("'%s'", e.Got.Value)
	}
}

// TypeError reports an unresolved name or import, a type mismatch, a malformed
// struct literal, or a bad call. Checking stops at the first one.
type TypeError struct {
	Msg string
	Loc *Location
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: type error: %s", e.Loc, e.Msg)
}

func (e *TypeError) Kind() string { return "type error" }

func (e *TypeError) Position() *Location { return e.Loc }

// RuntimeError aborts evaluation: an invalid cast, a call of a non-callable
// value, or an arity mismatch that slipped past the static checks.
type RuntimeError struct {
	Msg string
	Loc *Location
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: runtime error: %s", e.Loc, e.Msg)
}

func (e *RuntimeError) Kind() string { return "runtime error" }

func (e *RuntimeError) Position() *Location { return e.Loc }
