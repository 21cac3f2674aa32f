package sable

import "strconv"

// SyntacticAnalyzer is the stage interface the type checker consumes. The
// stream starts with a *Module carrying the header and imports, followed by
// the top-level declarations, terminated by an *EOS.
type SyntacticAnalyzer interface {
	Do()
	Get() Decl
	GetFilename() string
	Err() error
}

type Parser struct {
	filename  string
	tokenizer Tokenizer
	output    chan Decl
	buf       *Token
	err       error
}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		filename:  tokenizer.GetFilename(),
		output:    make(chan Decl, 2),
	}
}

func (p *Parser) Get() Decl {
	return <-p.Chan()
}

func (p *Parser) Chan() chan Decl {
	return p.output
}

func (p *Parser) GetFilename() string {
	return p.filename
}

func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) Do() {
	mod, _ := p.Run()

	if mod != nil {
		header := &Module{Name: mod.Name, Imports: mod.Imports, Loc: mod.Loc}
		p.output <- header

		for _, d := range mod.Decls {
			p.output <- d
		}
	}

	p.output <- &EOS{}
	close(p.output)
}

// Run parses one whole module. Parsing is strict: the first unexpected token
// aborts with a ParseError and the partial module built so far is returned
// alongside it.
func (p *Parser) Run() (*Module, error) {
	go p.tokenizer.Do()

	mod := p.module()

	if p.err != nil {
		p.drain()
	}

	return mod, p.err
}

// drain consumes the rest of the token stream after a failure. The tokenizer
// blocks on every send, so abandoning it mid-stream would strand its
// goroutine; reading through to EOF lets it finish.
func (p *Parser) drain() {
	if p.buf != nil && !p.buf.isValid() {
		// The stream already ended on an EOF or error token
		return
	}

	for tok := p.tokenizer.Get(); tok.isValid(); tok = p.tokenizer.Get() {
	}
}

func (p *Parser) peek() Token {
	if p.err != nil {
		return Token{Typ: TokenEOF}
	}

	if p.buf == nil {
		temp := p.next()
		p.buf = &temp
	}

	return *p.buf
}

func (p *Parser) next() Token {
	if p.err != nil {
		return Token{Typ: TokenEOF}
	}

	if p.buf != nil {
		if !p.buf.isValid() {
			// If an invalid token is buffered, don't try to get more tokens
			return *p.buf
		}

		temp := p.buf
		p.buf = nil

		return *temp
	}

	tok := p.tokenizer.Get()
	if !tok.isValid() {
		// Keep invalid tokens (Error, EOF) buffered since no more valid
		// tokens are expected after them
		p.buf = &tok
	}

	if tok.Typ == TokenError {
		p.err = &LexError{Msg: tok.Value, Loc: tok.Loc}
	}

	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) expect(typ TokenType, expected string) *Token {
	tok := p.next()
	if tok.Typ != typ {
		p.fail(tok, expected)
		return nil
	}

	return &tok
}

func (p *Parser) consume(typ TokenType, expected string) bool {
	return p.expect(typ, expected) != nil
}

func (p *Parser) fail(got Token, expected string) {
	if p.err == nil {
		p.err = &ParseError{Expected: expected, Got: got, Loc: got.Loc}
	}
}

func (p *Parser) module() *Module {
	start := p.peek().Loc
	if !p.consume(TokenModule, "'module' at the start of the file") {
		return nil
	}

	name := p.expect(TokenIdentifier, "module name")
	if name == nil {
		return nil
	}

	p.consume(TokenSemicolon, "';' after module declaration")

	mod := &Module{Name: name.Value, Loc: start}

	for p.err == nil && p.check(TokenImport) {
		mod.Imports = append(mod.Imports, p.importDecl())
	}

	for p.err == nil && p.peek().Typ != TokenEOF {
		if d := p.decl(); d != nil {
			mod.Decls = append(mod.Decls, d)
		}
	}

	return mod
}

func (p *Parser) importDecl() *ImportDecl {
	start := p.next().Loc // import keyword

	path := p.expect(TokenString, "import path")
	if path == nil {
		return nil
	}

	if !p.consume(TokenAs, "'as' after import path") {
		return nil
	}

	alias := p.expect(TokenIdentifier, "import alias")
	if alias == nil {
		return nil
	}

	p.consume(TokenSemicolon, "';' after import declaration")

	return &ImportDecl{
		Path:  path.Value,
		Alias: alias.Value,
		Loc:   start,
	}
}

func (p *Parser) decl() Decl {
	pub := false
	if p.check(TokenPub) {
		p.next()
		pub = true
	}

	switch tok := p.peek(); tok.Typ {
	case TokenFunc:
		return p.funcDecl(pub)
	case TokenStruct:
		return p.structDecl(pub)
	case TokenExtend:
		if pub {
			p.fail(tok, "'func' or 'struct' after 'pub'")
			return nil
		}

		return p.extendDecl()
	default:
		p.fail(tok, "declaration")
		return nil
	}
}

func (p *Parser) funcDecl(pub bool) *FuncDecl {
	start := p.next().Loc // func keyword

	name := p.expect(TokenIdentifier, "function name")
	if name == nil {
		return nil
	}

	if !p.consume(TokenOpenParentheses, "'(' after function name") {
		return nil
	}

	params := p.params(TokenCloseParentheses)
	if !p.consume(TokenCloseParentheses, "')' after function parameters") {
		return nil
	}

	var ret TypeExpr
	if p.check(TokenArrow) {
		p.next()
		ret = p.typeExpr()
	}

	return &FuncDecl{
		Name:   name.Value,
		Params: params,
		Return: ret,
		Body:   p.blockStmt(),
		Pub:    pub,
		Loc:    start,
	}
}

func (p *Parser) params(terminator TokenType) []*Param {
	var params []*Param
	for p.err == nil && !p.check(terminator) {
		name := p.expect(TokenIdentifier, "parameter name")
		if name == nil {
			return params
		}

		if !p.consume(TokenColon, "':' after parameter name") {
			return params
		}

		params = append(params, &Param{
			Name: name.Value,
			Type: p.typeExpr(),
			Loc:  name.Loc,
		})

		if !p.check(terminator) && !p.consume(TokenComma, "',' after parameter") {
			return params
		}
	}

	return params
}

func (p *Parser) typeExpr() TypeExpr {
	switch tok := p.peek(); tok.Typ {
	case TokenIdentifier:
		p.next()
		return &NamedTypeExpr{Name: tok.Value, Loc: tok.Loc}
	case TokenOpenParentheses:
		start := p.next().Loc

		var params []TypeExpr
		for p.err == nil && !p.check(TokenCloseParentheses) {
			params = append(params, p.typeExpr())

			if !p.check(TokenCloseParentheses) && !p.consume(TokenComma, "',' after parameter type") {
				return nil
			}
		}

		if !p.consume(TokenCloseParentheses, "')' after parameter types") {
			return nil
		}

		if !p.consume(TokenArrow, "'->' in function type") {
			return nil
		}

		return &FuncTypeExpr{
			Params: params,
			Return: p.typeExpr(),
			Loc:    start,
		}
	default:
		p.fail(tok, "type")
		return nil
	}
}

func (p *Parser) structDecl(pub bool) *StructDecl {
	start := p.next().Loc // struct keyword

	name := p.expect(TokenIdentifier, "struct name")
	if name == nil {
		return nil
	}

	if !p.consume(TokenOpenCurly, "'{' after struct name") {
		return nil
	}

	var fields []*FieldDecl
	for p.err == nil && !p.check(TokenCloseCurly) {
		fieldName := p.expect(TokenIdentifier, "field name")
		if fieldName == nil {
			return nil
		}

		if !p.consume(TokenColon, "':' after field name") {
			return nil
		}

		fields = append(fields, &FieldDecl{
			Name: fieldName.Value,
			Type: p.typeExpr(),
			Loc:  fieldName.Loc,
		})

		if !p.check(TokenCloseCurly) && !p.consume(TokenComma, "',' after field") {
			return nil
		}
	}

	if !p.consume(TokenCloseCurly, "'}' after struct fields") {
		return nil
	}

	return &StructDecl{
		Name:   name.Value,
		Fields: fields,
		Pub:    pub,
		Loc:    start,
	}
}

func (p *Parser) extendDecl() *ExtendDecl {
	start := p.next().Loc // extend keyword

	name := p.expect(TokenIdentifier, "struct name after 'extend'")
	if name == nil {
		return nil
	}

	if !p.consume(TokenOpenCurly, "'{' after extend declaration") {
		return nil
	}

	var methods []*FuncDecl
	for p.err == nil && !p.check(TokenCloseCurly) {
		if !p.check(TokenFunc) {
			p.fail(p.peek(), "'func' inside extend block")
			return nil
		}

		if m := p.funcDecl(false); m != nil {
			methods = append(methods, m)
		}
	}

	if !p.consume(TokenCloseCurly, "'}' after extend block") {
		return nil
	}

	return &ExtendDecl{
		Name:    name.Value,
		Methods: methods,
		Loc:     start,
	}
}

func (p *Parser) blockStmt() *BlockStmt {
	open := p.expect(TokenOpenCurly, "'{'")
	if open == nil {
		return nil
	}

	var stmts []Stmt
	for p.err == nil && p.peek().isValid() && !p.check(TokenCloseCurly) {
		if s := p.statement(); s != nil {
			stmts = append(stmts, s)
		}
	}

	if !p.consume(TokenCloseCurly, "'}' closing block") {
		return nil
	}

	return &BlockStmt{Stmts: stmts, Loc: open.Loc}
}

func (p *Parser) statement() Stmt {
	switch tok := p.peek(); tok.Typ {
	case TokenLet:
		return p.letStmt()
	case TokenWhile:
		return p.whileStmt()
	case TokenIf:
		return p.ifStmt()
	case TokenReturn:
		return p.returnStmt()
	case TokenBreak:
		p.next()
		p.consume(TokenSemicolon, "';' after 'break'")
		return &BreakStmt{Loc: tok.Loc}
	case TokenContinue:
		p.next()
		p.consume(TokenSemicolon, "';' after 'continue'")
		return &ContinueStmt{Loc: tok.Loc}
	case TokenOpenCurly:
		return p.blockStmt()
	default:
		x := p.expr()
		p.consume(TokenSemicolon, "';' after expression")
		return &ExprStmt{X: x, Loc: tok.Loc}
	}
}

func (p *Parser) letStmt() Stmt {
	start := p.next().Loc // let keyword

	name := p.expect(TokenIdentifier, "variable name")
	if name == nil {
		return nil
	}

	var typ TypeExpr
	if p.check(TokenColon) {
		p.next()
		typ = p.typeExpr()
	}

	if !p.consume(TokenAssign, "'=' after variable name") {
		return nil
	}

	value := p.expr()
	p.consume(TokenSemicolon, "';' after variable declaration")

	return &LetStmt{
		Name:  name.Value,
		Type:  typ,
		Value: value,
		Loc:   start,
	}
}

func (p *Parser) whileStmt() Stmt {
	start := p.next().Loc // while keyword

	if !p.consume(TokenOpenParentheses, "'(' after 'while'") {
		return nil
	}

	cond := p.expr()
	if !p.consume(TokenCloseParentheses, "')' after 'while' condition") {
		return nil
	}

	return &WhileStmt{
		Cond: cond,
		Body: p.blockStmt(),
		Loc:  start,
	}
}

func (p *Parser) ifStmt() Stmt {
	start := p.next().Loc // if keyword

	if !p.consume(TokenOpenParentheses, "'(' after 'if'") {
		return nil
	}

	cond := p.expr()
	if !p.consume(TokenCloseParentheses, "')' after 'if' condition") {
		return nil
	}

	then := p.statement()

	var els Stmt
	if p.check(TokenElse) {
		p.next()
		els = p.statement()
	}

	return &IfStmt{
		Cond: cond,
		Then: then,
		Else: els,
		Loc:  start,
	}
}

func (p *Parser) returnStmt() Stmt {
	start := p.next().Loc // return keyword

	if p.check(TokenSemicolon) {
		p.next()
		return &ReturnStmt{Loc: start}
	}

	value := p.expr()
	p.consume(TokenSemicolon, "';' after return value")

	return &ReturnStmt{Value: value, Loc: start}
}

func (p *Parser) expr() Expr {
	return p.assignmentExpr()
}

var assignOps = map[TokenType]AssignOp{
	TokenAssign:  AssignPlain,
	TokenPlusEq:  AssignAdd,
	TokenMinusEq: AssignSub,
	TokenStarEq:  AssignMul,
	TokenSlashEq: AssignDiv,
}

func (p *Parser) assignmentExpr() Expr {
	lhs := p.logicalExpr()

	tok := p.peek()
	op, ok := assignOps[tok.Typ]
	if !ok {
		return lhs
	}

	target, isIdent := lhs.(*Identifier)
	if !isIdent {
		p.fail(tok, "assignable name on the left of '"+string(op)+"'")
		return nil
	}

	p.next()

	return &AssignExpr{
		Target:    target,
		Operation: op,
		Value:     p.assignmentExpr(),
		Loc:       tok.Loc,
	}
}

func (p *Parser) logicalExpr() Expr {
	lhs := p.equalityExpr()

	for {
		tok := p.peek()
		if tok.Typ != TokenAnd && tok.Typ != TokenOr {
			return lhs
		}

		p.next()

		lhs = &BinaryExpr{
			Operation: BinaryOp(tok.Value),
			Op1:       lhs,
			Op2:       p.equalityExpr(),
			Loc:       tok.Loc,
		}
	}
}

func (p *Parser) equalityExpr() Expr {
	lhs := p.comparisonExpr()

	for {
		tok := p.peek()
		if tok.Typ != TokenEquals && tok.Typ != TokenNotEquals {
			return lhs
		}

		p.next()

		lhs = &BinaryExpr{
			Operation: BinaryOp(tok.Value),
			Op1:       lhs,
			Op2:       p.comparisonExpr(),
			Loc:       tok.Loc,
		}
	}
}

func (p *Parser) comparisonExpr() Expr {
	lhs := p.additiveExpr()

	for {
		tok := p.peek()
		switch tok.Typ {
		case TokenLess, TokenLessEq, TokenGreater, TokenGreaterEq:
			p.next()

			lhs = &BinaryExpr{
				Operation: BinaryOp(tok.Value),
				Op1:       lhs,
				Op2:       p.additiveExpr(),
				Loc:       tok.Loc,
			}
		default:
			return lhs
		}
	}
}

func (p *Parser) additiveExpr() Expr {
	lhs := p.multiplicativeExpr()

	for {
		tok := p.peek()
		if tok.Typ != TokenPlus && tok.Typ != TokenMinus {
			return lhs
		}

		p.next()

		lhs = &BinaryExpr{
			Operation: BinaryOp(tok.Value),
			Op1:       lhs,
			Op2:       p.multiplicativeExpr(),
			Loc:       tok.Loc,
		}
	}
}

func (p *Parser) multiplicativeExpr() Expr {
	lhs := p.unaryExpr()

	for {
		tok := p.peek()
		switch tok.Typ {
		case TokenStar, TokenSlash, TokenPercent:
			p.next()

			lhs = &BinaryExpr{
				Operation: BinaryOp(tok.Value),
				Op1:       lhs,
				Op2:       p.unaryExpr(),
				Loc:       tok.Loc,
			}
		default:
			return lhs
		}
	}
}

func (p *Parser) unaryExpr() Expr {
	tok := p.peek()
	if tok.Typ == TokenMinus || tok.Typ == TokenBang {
		p.next()

		return &UnaryExpr{
			Operation: UnaryOp(tok.Value),
			Operand:   p.unaryExpr(),
			Loc:       tok.Loc,
		}
	}

	return p.postfixExpr()
}

// postfixExpr parses calls, field accesses and trailing casts, all left
// associative and binding tighter than any unary or binary operator.
func (p *Parser) postfixExpr() Expr {
	x := p.primary()

	for p.err == nil {
		switch tok := p.peek(); tok.Typ {
		case TokenOpenParentheses:
			p.next()

			var args []Expr
			for p.err == nil && !p.check(TokenCloseParentheses) {
				args = append(args, p.expr())

				if !p.check(TokenCloseParentheses) && !p.consume(TokenComma, "',' after argument") {
					return nil
				}
			}

			if !p.consume(TokenCloseParentheses, "')' after arguments") {
				return nil
			}

			x = &CallExpr{Callee: x, Args: args, Loc: tok.Loc}
		case TokenDot:
			p.next()

			name := p.expect(TokenIdentifier, "field name after '.'")
			if name == nil {
				return nil
			}

			x = &FieldExpr{Base: x, Name: name.Value, Loc: tok.Loc}
		case TokenAs:
			p.next()

			x = &CastExpr{Value: x, Type: p.typeExpr(), Loc: tok.Loc}
		default:
			return x
		}
	}

	return x
}

func (p *Parser) primary() Expr {
	switch tok := p.peek(); tok.Typ {
	case TokenInt:
		p.next()

		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			p.fail(tok, "integer literal")
			return nil
		}

		return &IntLit{Value: v, Loc: tok.Loc}
	case TokenFloat:
		p.next()

		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			p.fail(tok, "float literal")
			return nil
		}

		return &FloatLit{Value: v, Loc: tok.Loc}
	case TokenTrue, TokenFalse:
		p.next()
		return &BoolLit{Value: tok.Typ == TokenTrue, Loc: tok.Loc}
	case TokenString:
		p.next()
		return &StringLit{Value: tok.Value, Loc: tok.Loc}
	case TokenStringSeg:
		return p.interpString()
	case TokenIdentifier:
		p.next()

		if p.check(TokenOpenCurly) {
			return p.structLit(tok)
		}

		return &Identifier{Name: tok.Value, Loc: tok.Loc}
	case TokenOpenParentheses:
		p.next()

		x := p.expr()
		if !p.consume(TokenCloseParentheses, "')' after expression") {
			return nil
		}

		return x
	case TokenPipe:
		return p.closureExpr()
	case TokenOr:
		// '||' lexes as one token, so an empty parameter list shows up here
		start := p.next().Loc
		return &ClosureExpr{
			Return: p.typeExpr(),
			Body:   p.blockStmt(),
			Loc:    start,
		}
	default:
		p.fail(tok, "expression")
		return nil
	}
}

func (p *Parser) interpString() Expr {
	first := p.next() // leading string segment

	segs := []string{first.Value}
	var exprs []Expr

	for p.err == nil {
		switch tok := p.peek(); tok.Typ {
		case TokenInterpStart:
			p.next()
			exprs = append(exprs, p.expr())

			if !p.consume(TokenInterpEnd, "')' closing interpolation") {
				return nil
			}

			seg := p.expect(TokenStringSeg, "string segment")
			if seg == nil {
				return nil
			}

			segs = append(segs, seg.Value)
		case TokenStringEnd:
			p.next()
			return &InterpString{Segs: segs, Exprs: exprs, Loc: first.Loc}
		default:
			p.fail(tok, "interpolation or end of string")
			return nil
		}
	}

	return nil
}

func (p *Parser) structLit(name Token) Expr {
	p.next() // opening curly

	var fields []*FieldInit
	for p.err == nil && !p.check(TokenCloseCurly) {
		fieldName := p.expect(TokenIdentifier, "field name")
		if fieldName == nil {
			return nil
		}

		var value Expr
		if p.check(TokenColon) {
			p.next()
			value = p.expr()
		} else {
			// Shorthand: Point { x, y } initializes each field from the
			// binding of the same name
			value = &Identifier{Name: fieldName.Value, Loc: fieldName.Loc}
		}

		fields = append(fields, &FieldInit{
			Name:  fieldName.Value,
			Value: value,
			Loc:   fieldName.Loc,
		})

		if !p.check(TokenCloseCurly) && !p.consume(TokenComma, "',' after field value") {
			return nil
		}
	}

	if !p.consume(TokenCloseCurly, "'}' after struct literal") {
		return nil
	}

	return &StructLit{Name: name.Value, Fields: fields, Loc: name.Loc}
}

func (p *Parser) closureExpr() Expr {
	start := p.next().Loc // opening pipe

	params := p.params(TokenPipe)
	if !p.consume(TokenPipe, "'|' after closure parameters") {
		return nil
	}

	ret := p.typeExpr()

	return &ClosureExpr{
		Params: params,
		Return: ret,
		Body:   p.blockStmt(),
		Loc:    start,
	}
}
