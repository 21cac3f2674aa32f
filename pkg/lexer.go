package sable

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

type stateFunc func(l *Lexer) stateFunc

// Tokenizer is the stage interface the parser consumes. Get blocks until the
// next token is available.
type Tokenizer interface {
	Do()
	Get() Token
	GetFilename() string
}

type lexModeKind int

const (
	modeString lexModeKind = iota
	modeInterp
)

// lexMode is one entry of the lexer's mode stack. A string literal pushes a
// string mode; an interpolation marker inside it pushes an expression mode on
// top, popped again by the parenthesis that balances the marker. The stack
// depth is unbounded, so interpolations nest arbitrarily.
type lexMode struct {
	kind         lexModeKind
	depth        int // open parentheses inside an expression mode
	interpolated bool
	buf          strings.Builder
	start        *Location
}

type Lexer struct {
	reader   *bufio.Reader
	filename string
	done     chan Token

	line   int
	col    int
	offset int
	modes  []*lexMode
}

func NewLexer(filename string) (*Lexer, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	l := NewLexerFromReader(bytes.NewReader(data))
	l.filename = filename

	return l, nil
}

func NewLexerFromReader(reader io.Reader) *Lexer {
	return &Lexer{
		reader:   bufio.NewReader(reader),
		filename: "<input>",
		done:     make(chan Token),
		line:     1,
		col:      1,
	}
}

func (l *Lexer) GetFilename() string {
	return l.filename
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

func (l *Lexer) Do() {
	l.Run()
}

func (l *Lexer) Get() Token {
	return <-l.done
}

func (l *Lexer) Run() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

func (l *Lexer) RunBlocking() ([]Token, error) {
	go l.Run()

	var tokens []Token
	for t := range l.done {
		if t.Typ == TokenEOF {
			return tokens, nil
		}

		if t.Typ == TokenError {
			return nil, &LexError{Msg: t.Value, Loc: t.Loc}
		}

		tokens = append(tokens, t)
	}

	return tokens, nil
}

// defaultState lexes regular code: the top level of a module, and the inside
// of an interpolation expression.
func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			if m := l.mode(); m != nil {
				return l.errorf(m.start, "unterminated interpolation")
			}

			l.emitToken(TokenEOF, "", l.loc())
			return nil
		case unicode.IsSpace(r):
			l.next()
		case '0' <= r && r <= '9':
			return numberState
		case r == '"':
			l.pushMode(&lexMode{kind: modeString, start: l.loc()})
			l.next() // Skip the leading double-quote
			return stringState
		case unicode.IsLetter(r) || r == '_':
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	loc := l.loc()

	var num strings.Builder
	for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
		num.WriteRune(l.next())
	}

	if first, second := l.peekTwo(); first == '.' && '0' <= second && second <= '9' {
		num.WriteRune(l.next()) // Consume the '.'
		for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
			num.WriteRune(l.next())
		}

		return l.emit(TokenFloat, num.String(), loc)
	}

	return l.emit(TokenInt, num.String(), loc)
}

// stringState lexes the literal text of the string mode on top of the mode
// stack. It hands control back to defaultState when an interpolation opens,
// and back to the enclosing mode when the string closes.
func stringState(l *Lexer) stateFunc {
	m := l.mode()
	for {
		loc := l.loc()
		switch r := l.next(); r {
		case EOF:
			return l.errorf(m.start, "unterminated string")
		case '"':
			l.popMode()
			if m.interpolated {
				l.emitToken(TokenStringSeg, m.buf.String(), loc)
				l.emitToken(TokenStringEnd, "", loc)
			} else {
				l.emitToken(TokenString, m.buf.String(), m.start)
			}

			return defaultState
		case '\\':
			switch esc := l.next(); esc {
			case '(':
				m.interpolated = true
				l.emitToken(TokenStringSeg, m.buf.String(), loc)
				m.buf.Reset()
				l.emitToken(TokenInterpStart, `\(`, loc)
				l.pushMode(&lexMode{kind: modeInterp, start: loc})
				return defaultState
			case 'n':
				m.buf.WriteRune('\n')
			case 't':
				m.buf.WriteRune('\t')
			case '"':
				m.buf.WriteRune('"')
			case '\\':
				m.buf.WriteRune('\\')
			case EOF:
				return l.errorf(m.start, "unterminated string")
			default:
				return l.errorf(loc, "unknown escape '\\%c'", esc)
			}
		default:
			m.buf.WriteRune(r)
		}
	}
}

func identifierState(l *Lexer) stateFunc {
	loc := l.loc()

	var id strings.Builder
	for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'; r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emit(t, id.String(), loc)
	}

	return l.emit(TokenIdentifier, id.String(), loc)
}

func operatorState(l *Lexer) stateFunc {
	loc := l.loc()

	switch r := l.next(); r {
	case '(':
		if m := l.mode(); m != nil && m.kind == modeInterp {
			m.depth++
		}

		return l.emit(TokenOpenParentheses, "(", loc)
	case ')':
		if m := l.mode(); m != nil && m.kind == modeInterp {
			if m.depth == 0 {
				l.popMode()
				l.emitToken(TokenInterpEnd, ")", loc)
				return stringState
			}

			m.depth--
		}

		return l.emit(TokenCloseParentheses, ")", loc)
	case '{':
		return l.emit(TokenOpenCurly, "{", loc)
	case '}':
		return l.emit(TokenCloseCurly, "}", loc)
	case ',':
		return l.emit(TokenComma, ",", loc)
	case ';':
		return l.emit(TokenSemicolon, ";", loc)
	case '.':
		return l.emit(TokenDot, ".", loc)
	case ':':
		if l.match(':') {
			return l.emit(TokenDoubleColon, "::", loc)
		}

		return l.emit(TokenColon, ":", loc)
	case '+':
		if l.match('=') {
			return l.emit(TokenPlusEq, "+=", loc)
		}

		return l.emit(TokenPlus, "+", loc)
	case '-':
		if l.match('=') {
			return l.emit(TokenMinusEq, "-=", loc)
		}

		if l.match('>') {
			return l.emit(TokenArrow, "->", loc)
		}

		return l.emit(TokenMinus, "-", loc)
	case '*':
		if l.match('=') {
			return l.emit(TokenStarEq, "*=", loc)
		}

		return l.emit(TokenStar, "*", loc)
	case '/':
		if l.match('/') {
			return lineCommentState
		}

		if l.match('=') {
			return l.emit(TokenSlashEq, "/=", loc)
		}

		return l.emit(TokenSlash, "/", loc)
	case '%':
		return l.emit(TokenPercent, "%", loc)
	case '=':
		if l.match('=') {
			return l.emit(TokenEquals, "==", loc)
		}

		return l.emit(TokenAssign, "=", loc)
	case '!':
		if l.match('=') {
			return l.emit(TokenNotEquals, "!=", loc)
		}

		return l.emit(TokenBang, "!", loc)
	case '<':
		if l.match('=') {
			return l.emit(TokenLessEq, "<=", loc)
		}

		return l.emit(TokenLess, "<", loc)
	case '>':
		if l.match('=') {
			return l.emit(TokenGreaterEq, ">=", loc)
		}

		return l.emit(TokenGreater, ">", loc)
	case '&':
		if l.match('&') {
			return l.emit(TokenAnd, "&&", loc)
		}

		return l.errorf(loc, "invalid symbol '&'")
	case '|':
		if l.match('|') {
			return l.emit(TokenOr, "||", loc)
		}

		return l.emit(TokenPipe, "|", loc)
	default:
		return l.errorf(loc, "invalid symbol '%c'", r)
	}
}

// lineCommentState discards everything to the end of the line. Comments never
// reach the token stream.
func lineCommentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func (l *Lexer) errorf(loc *Location, format string, args ...interface{}) stateFunc {
	l.done <- Token{
		Typ:   TokenError,
		Value: fmt.Sprintf(format, args...),
		Loc:   loc,
	}

	return nil
}

func (l *Lexer) emit(t TokenType, val string, loc *Location) stateFunc {
	l.emitToken(t, val, loc)
	return defaultState
}

func (l *Lexer) emitToken(t TokenType, val string, loc *Location) {
	l.done <- Token{
		Typ:   t,
		Value: val,
		Loc:   loc,
	}
}

func (l *Lexer) mode() *lexMode {
	if len(l.modes) == 0 {
		return nil
	}

	return l.modes[len(l.modes)-1]
}

func (l *Lexer) pushMode(m *lexMode) {
	l.modes = append(l.modes, m)
}

func (l *Lexer) popMode() {
	l.modes = l.modes[:len(l.modes)-1]
}

func (l *Lexer) loc() *Location {
	return &Location{
		Line:   l.line,
		Col:    l.col,
		Offset: l.offset,
	}
}

func (l *Lexer) match(expected rune) bool {
	if l.peek() != expected {
		return false
	}

	l.next()
	return true
}

func (l *Lexer) peek() rune {
	b, _ := l.reader.Peek(utf8.UTFMax)
	if len(b) == 0 {
		return EOF
	}

	r, _ := utf8.DecodeRune(b)
	return r
}

// peekTwo looks two runes ahead, used to tell a float literal's decimal point
// from a trailing dot.
func (l *Lexer) peekTwo() (rune, rune) {
	b, _ := l.reader.Peek(2 * utf8.UTFMax)
	if len(b) == 0 {
		return EOF, EOF
	}

	first, size := utf8.DecodeRune(b)
	if len(b) <= size {
		return first, EOF
	}

	second, _ := utf8.DecodeRune(b[size:])
	return first, second
}

func (l *Lexer) next() rune {
	r, size, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}
