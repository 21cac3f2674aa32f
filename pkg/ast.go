package sable

// Expr, Stmt and Decl are marker aliases over the node structs below. Nodes
// are built once per parse and never mutated afterwards; the same tree is safe
// to evaluate repeatedly.
type Expr interface{}

type Stmt interface{}

type Decl interface{}

// EOS terminates the parser's output stream.
type EOS struct{}

// Module is the root node: one source file's header, imports and top-level
// declarations.
type Module struct {
	Name    string
	Imports []*ImportDecl
	Decls   []Decl
	Loc     *Location
}

type ImportDecl struct {
	Path  string
	Alias string
	Loc   *Location
}

type FuncDecl struct {
	Name   string
	Params []*Param
	Return TypeExpr
	Body   *BlockStmt
	Pub    bool
	Loc    *Location
}

type Param struct {
	Name string
	Type TypeExpr
	Loc  *Location
}

type StructDecl struct {
	Name   string
	Fields []*FieldDecl
	Pub    bool
	Loc    *Location
}

type FieldDecl struct {
	Name string
	Type TypeExpr
	Loc  *Location
}

// ExtendDecl attaches a method set to a previously declared struct.
type ExtendDecl struct {
	Name    string
	Methods []*FuncDecl
	Loc     *Location
}

// TypeExpr is a type as written in source, resolved to a Type by the checker.
type TypeExpr interface{}

type NamedTypeExpr struct {
	Name string
	Loc  *Location
}

type FuncTypeExpr struct {
	Params []TypeExpr
	Return TypeExpr
	Loc    *Location
}

type LetStmt struct {
	Name  string
	Type  TypeExpr // nil when inferred from the initializer
	Value Expr
	Loc   *Location
}

type WhileStmt struct {
	Cond Expr
	Body *BlockStmt
	Loc  *Location
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
	Loc  *Location
}

type ReturnStmt struct {
	Value Expr // nil for unit returns
	Loc   *Location
}

type BreakStmt struct {
	Loc *Location
}

type ContinueStmt struct {
	Loc *Location
}

type BlockStmt struct {
	Stmts []Stmt
	Loc   *Location
}

type ExprStmt struct {
	X   Expr
	Loc *Location
}

type Identifier struct {
	Name string
	Loc  *Location
}

type IntLit struct {
	Value int64
	Loc   *Location
}

type FloatLit struct {
	Value float64
	Loc   *Location
}

type BoolLit struct {
	Value bool
	Loc   *Location
}

type StringLit struct {
	Value string
	Loc   *Location
}

// InterpString is a string literal with embedded expressions. Segs always has
// one more element than Exprs: seg[0] expr[0] seg[1] expr[1] ... seg[n].
type InterpString struct {
	Segs  []string
	Exprs []Expr
	Loc   *Location
}

type BinaryOp string

const (
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"
	BinaryModulo         BinaryOp = "%"
	BinaryEquals         BinaryOp = "=="
	BinaryNotEquals      BinaryOp = "!="
	BinaryLess           BinaryOp = "<"
	BinaryLessEq         BinaryOp = "<="
	BinaryGreater        BinaryOp = ">"
	BinaryGreaterEq      BinaryOp = ">="
	BinaryAnd            BinaryOp = "&&"
	BinaryOr             BinaryOp = "||"
)

type BinaryExpr struct {
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
	Loc       *Location
}

type UnaryOp string

const (
	UnaryNegative UnaryOp = "-"
	UnaryNot      UnaryOp = "!"
)

type UnaryExpr struct {
	Operation UnaryOp
	Operand   Expr
	Loc       *Location
}

type AssignOp string

const (
	AssignPlain AssignOp = "="
	AssignAdd   AssignOp = "+="
	AssignSub   AssignOp = "-="
	AssignMul   AssignOp = "*="
	AssignDiv   AssignOp = "/="
)

// AssignExpr mutates the nearest enclosing binding of its target. It never
// introduces a new one.
type AssignExpr struct {
	Target    *Identifier
	Operation AssignOp
	Value     Expr
	Loc       *Location
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Loc    *Location
}

type FieldExpr struct {
	Base Expr
	Name string
	Loc  *Location
}

type StructLit struct {
	Name   string
	Fields []*FieldInit
	Loc    *Location
}

type FieldInit struct {
	Name  string
	Value Expr
	Loc   *Location
}

type CastExpr struct {
	Value Expr
	Type  TypeExpr
	Loc   *Location
}

type ClosureExpr struct {
	Params []*Param
	Return TypeExpr
	Body   *BlockStmt
	Loc    *Location
}
