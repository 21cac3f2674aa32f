package sable

import "fmt"

// StructField is one declared field of a struct, in declaration order.
type StructField struct {
	Name string
	Type Type
}

// StructDef is the checked form of a struct declaration plus the method set
// collected from its extend blocks. Methods dispatch by struct type through
// this table; there is no dynamic lookup.
type StructDef struct {
	Name        string
	Fields      []*StructField
	Methods     map[string]*FuncDecl
	MethodTypes map[string]*FuncType
}

func (d *StructDef) Field(name string) *StructField {
	for _, f := range d.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// Program is a type-checked module, ready for evaluation. The evaluator
// trusts it: expression types are never revisited at runtime.
type Program struct {
	Module    *Module
	Imports   map[string]*IntrinsicModule
	Structs   map[string]*StructDef
	Funcs     map[string]*FuncDecl
	FuncTypes map[string]*FuncType
}

// SymbolTable maps names to their static types. Tables chain through a parent
// reference, mirroring lexical nesting.
type SymbolTable struct {
	entries map[string]Type
	parent  *SymbolTable
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		entries: make(map[string]Type),
		parent:  parent,
	}
}

func (t *SymbolTable) Add(name string, typ Type) {
	t.entries[name] = typ
}

func (t *SymbolTable) Get(name string) Type {
	if typ, contains := t.entries[name]; contains {
		return typ
	}

	if t.parent != nil {
		return t.parent.Get(name)
	}

	return nil
}

// ContextAnalyzer is the type checking stage. It consumes the parser's stream,
// binds every name, resolves the two intrinsic modules, and validates types.
// Checking is fail-fast: the first error aborts it.
type ContextAnalyzer struct {
	filename string
	parser   SyntacticAnalyzer

	prog      *Program
	module    *SymbolTable
	loopDepth int
}

func NewContextAnalyser(parser SyntacticAnalyzer) *ContextAnalyzer {
	return &ContextAnalyzer{
		filename: parser.GetFilename(),
		parser:   parser,
	}
}

func (c *ContextAnalyzer) Do() (*Program, error) {
	go c.parser.Do()

	var mod *Module
	for {
		d := c.parser.Get()
		if _, isEOS := d.(*EOS); isEOS || d == nil {
			break
		}

		if m, isModule := d.(*Module); isModule {
			mod = m
			continue
		}

		if mod != nil {
			mod.Decls = append(mod.Decls, d)
		}
	}

	if err := c.parser.Err(); err != nil {
		return nil, err
	}

	return c.Check(mod)
}

// Check validates a parsed module and assembles the Program the evaluator
// runs.
func (c *ContextAnalyzer) Check(mod *Module) (*Program, error) {
	c.prog = &Program{
		Module:    mod,
		Imports:   make(map[string]*IntrinsicModule),
		Structs:   make(map[string]*StructDef),
		Funcs:     make(map[string]*FuncDecl),
		FuncTypes: make(map[string]*FuncType),
	}

	if err := c.defineImports(mod); err != nil {
		return nil, err
	}

	if err := c.defineStructs(mod); err != nil {
		return nil, err
	}

	if err := c.defineFuncs(mod); err != nil {
		return nil, err
	}

	if err := c.defineMethods(mod); err != nil {
		return nil, err
	}

	c.module = NewSymbolTable(nil)
	for name, sig := range c.prog.FuncTypes {
		c.module.Add(name, sig)
	}

	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *FuncDecl:
			if err := c.checkFunc(decl, c.module); err != nil {
				return nil, err
			}
		case *ExtendDecl:
			def := c.prog.Structs[decl.Name]
			for _, m := range decl.Methods {
				if err := c.checkMethod(def, m); err != nil {
					return nil, err
				}
			}
		}
	}

	return c.prog, nil
}

func (c *ContextAnalyzer) errorf(loc *Location, format string, args ...interface{}) error {
	return &TypeError{Msg: fmt.Sprintf(format, args...), Loc: loc}
}

func (c *ContextAnalyzer) defineImports(mod *Module) error {
	for _, imp := range mod.Imports {
		intrinsic, known := LookupIntrinsic(imp.Path)
		if !known {
			return c.errorf(imp.Loc, "unresolved import %q", imp.Path)
		}

		if _, dup := c.prog.Imports[imp.Alias]; dup {
			return c.errorf(imp.Loc, "duplicate import alias '%s'", imp.Alias)
		}

		c.prog.Imports[imp.Alias] = intrinsic
	}

	return nil
}

func (c *ContextAnalyzer) defineStructs(mod *Module) error {
	// Struct names first, so fields may refer to other structs regardless of
	// declaration order
	for _, d := range mod.Decls {
		decl, isStruct := d.(*StructDecl)
		if !isStruct {
			continue
		}

		if _, dup := c.prog.Structs[decl.Name]; dup {
			return c.errorf(decl.Loc, "struct '%s' redeclared", decl.Name)
		}

		c.prog.Structs[decl.Name] = &StructDef{
			Name:        decl.Name,
			Methods:     make(map[string]*FuncDecl),
			MethodTypes: make(map[string]*FuncType),
		}
	}

	for _, d := range mod.Decls {
		decl, isStruct := d.(*StructDecl)
		if !isStruct {
			continue
		}

		def := c.prog.Structs[decl.Name]
		for _, field := range decl.Fields {
			if def.Field(field.Name) != nil {
				return c.errorf(field.Loc, "duplicate field '%s' in struct '%s'", field.Name, decl.Name)
			}

			typ, err := c.resolveType(field.Type, field.Loc)
			if err != nil {
				return err
			}

			def.Fields = append(def.Fields, &StructField{Name: field.Name, Type: typ})
		}
	}

	// A struct whose field graph reaches back to itself, directly or through
	// other structs, has no finite zero value and cannot be instantiated
	for _, d := range mod.Decls {
		decl, isStruct := d.(*StructDecl)
		if !isStruct {
			continue
		}

		if c.fieldsContain(decl.Name, decl.Name, make(map[string]bool)) {
			return c.errorf(decl.Loc, "invalid recursive struct '%s'", decl.Name)
		}
	}

	return nil
}

// fieldsContain reports whether the field graph of struct name reaches the
// struct called target.
func (c *ContextAnalyzer) fieldsContain(target, name string, visited map[string]bool) bool {
	if visited[name] {
		return false
	}

	visited[name] = true

	for _, field := range c.prog.Structs[name].Fields {
		st, isStruct := field.Type.(*StructType)
		if !isStruct {
			continue
		}

		if st.Name == target || c.fieldsContain(target, st.Name, visited) {
			return true
		}
	}

	return false
}

func (c *ContextAnalyzer) defineFuncs(mod *Module) error {
	for _, d := range mod.Decls {
		decl, isFunc := d.(*FuncDecl)
		if !isFunc {
			continue
		}

		if _, dup := c.prog.Funcs[decl.Name]; dup {
			return c.errorf(decl.Loc, "function '%s' redeclared", decl.Name)
		}

		sig, err := c.signature(decl)
		if err != nil {
			return err
		}

		c.prog.Funcs[decl.Name] = decl
		c.prog.FuncTypes[decl.Name] = sig
	}

	return nil
}

func (c *ContextAnalyzer) defineMethods(mod *Module) error {
	for _, d := range mod.Decls {
		decl, isExtend := d.(*ExtendDecl)
		if !isExtend {
			continue
		}

		def, known := c.prog.Structs[decl.Name]
		if !known {
			return c.errorf(decl.Loc, "cannot extend undeclared struct '%s'", decl.Name)
		}

		for _, m := range decl.Methods {
			if _, dup := def.Methods[m.Name]; dup {
				return c.errorf(m.Loc, "method '%s' redeclared on struct '%s'", m.Name, decl.Name)
			}

			sig, err := c.signature(m)
			if err != nil {
				return err
			}

			def.Methods[m.Name] = m
			def.MethodTypes[m.Name] = sig
		}
	}

	return nil
}

func (c *ContextAnalyzer) signature(fn *FuncDecl) (*FuncType, error) {
	sig := &FuncType{}

	for _, param := range fn.Params {
		typ, err := c.resolveType(param.Type, param.Loc)
		if err != nil {
			return nil, err
		}

		sig.Params = append(sig.Params, typ)
	}

	ret, err := c.resolveType(fn.Return, fn.Loc)
	if err != nil {
		return nil, err
	}

	sig.Return = ret
	return sig, nil
}

// resolveType turns a type as written in source into a semantic Type. A nil
// TypeExpr stands for an omitted return annotation and resolves to unit.
func (c *ContextAnalyzer) resolveType(t TypeExpr, loc *Location) (Type, error) {
	switch typ := t.(type) {
	case nil:
		return &BasicType{TypeUnit}, nil
	case *NamedTypeExpr:
		switch typ.Name {
		case TypeInt, TypeFloat, TypeBool, TypeString, TypeUnit:
			return &BasicType{typ.Name}, nil
		}

		if _, known := c.prog.Structs[typ.Name]; known {
			return &StructType{Name: typ.Name}, nil
		}

		return nil, c.errorf(typ.Loc, "unknown type '%s'", typ.Name)
	case *FuncTypeExpr:
		sig := &FuncType{}
		for _, param := range typ.Params {
			pt, err := c.resolveType(param, typ.Loc)
			if err != nil {
				return nil, err
			}

			sig.Params = append(sig.Params, pt)
		}

		ret, err := c.resolveType(typ.Return, typ.Loc)
		if err != nil {
			return nil, err
		}

		sig.Return = ret
		return sig, nil
	default:
		return nil, c.errorf(loc, "unknown type")
	}
}

func (c *ContextAnalyzer) checkFunc(fn *FuncDecl, scope *SymbolTable) error {
	sig := c.prog.FuncTypes[fn.Name]

	s := NewSymbolTable(scope)
	for i, param := range fn.Params {
		s.Add(param.Name, sig.Params[i])
	}

	return c.checkBlock(fn.Body, s, sig.Return)
}

// checkMethod checks an extend-block method. Its scope chain models the
// implicit receiver: one binding per declared field, plus the sibling methods,
// sit between module scope and the parameter scope.
func (c *ContextAnalyzer) checkMethod(def *StructDef, m *FuncDecl) error {
	recv := NewSymbolTable(c.module)
	for name, sig := range def.MethodTypes {
		recv.Add(name, sig)
	}

	for _, field := range def.Fields {
		recv.Add(field.Name, field.Type)
	}

	sig := def.MethodTypes[m.Name]

	s := NewSymbolTable(recv)
	for i, param := range m.Params {
		s.Add(param.Name, sig.Params[i])
	}

	return c.checkBlock(m.Body, s, sig.Return)
}

func (c *ContextAnalyzer) checkBlock(b *BlockStmt, scope *SymbolTable, ret Type) error {
	if b == nil {
		return nil
	}

	for _, s := range b.Stmts {
		if err := c.checkStmt(s, scope, ret); err != nil {
			return err
		}
	}

	return nil
}

func (c *ContextAnalyzer) checkStmt(stmt Stmt, scope *SymbolTable, ret Type) error {
	switch s := stmt.(type) {
	case *LetStmt:
		vt, err := c.resolve(scope, s.Value)
		if err != nil {
			return err
		}

		if s.Type == nil {
			scope.Add(s.Name, vt)
			return nil
		}

		dt, err := c.resolveType(s.Type, s.Loc)
		if err != nil {
			return err
		}

		if !dt.Equals(vt) {
			return c.errorf(s.Loc, "cannot initialize '%s' of type %s with %s", s.Name, dt, vt)
		}

		scope.Add(s.Name, dt)
		return nil
	case *ExprStmt:
		_, err := c.resolve(scope, s.X)
		return err
	case *WhileStmt:
		ct, err := c.resolve(scope, s.Cond)
		if err != nil {
			return err
		}

		if !isBasic(ct, TypeBool) {
			return c.errorf(s.Loc, "while condition must be bool, got %s", ct)
		}

		c.loopDepth++
		err = c.checkBlock(s.Body, NewSymbolTable(scope), ret)
		c.loopDepth--
		return err
	case *IfStmt:
		ct, err := c.resolve(scope, s.Cond)
		if err != nil {
			return err
		}

		if !isBasic(ct, TypeBool) {
			return c.errorf(s.Loc, "if condition must be bool, got %s", ct)
		}

		if err := c.checkStmt(s.Then, NewSymbolTable(scope), ret); err != nil {
			return err
		}

		if s.Else != nil {
			return c.checkStmt(s.Else, NewSymbolTable(scope), ret)
		}

		return nil
	case *ReturnStmt:
		if s.Value == nil {
			if !isUnit(ret) {
				return c.errorf(s.Loc, "missing return value: function returns %s", ret)
			}

			return nil
		}

		vt, err := c.resolve(scope, s.Value)
		if err != nil {
			return err
		}

		if !vt.Equals(ret) {
			return c.errorf(s.Loc, "mismatched return type: got %s, want %s", vt, ret)
		}

		return nil
	case *BreakStmt:
		if c.loopDepth == 0 {
			return c.errorf(s.Loc, "'break' outside loop")
		}

		return nil
	case *ContinueStmt:
		if c.loopDepth == 0 {
			return c.errorf(s.Loc, "'continue' outside loop")
		}

		return nil
	case *BlockStmt:
		return c.checkBlock(s, NewSymbolTable(scope), ret)
	default:
		return c.errorf(nil, "unknown statement")
	}
}

// resolve computes the static type of an expression.
func (c *ContextAnalyzer) resolve(scope *SymbolTable, expr Expr) (Type, error) {
	switch e := expr.(type) {
	case *IntLit:
		return &BasicType{TypeInt}, nil
	case *FloatLit:
		return &BasicType{TypeFloat}, nil
	case *BoolLit:
		return &BasicType{TypeBool}, nil
	case *StringLit:
		return &BasicType{TypeString}, nil
	case *InterpString:
		for _, part := range e.Exprs {
			if _, err := c.resolve(scope, part); err != nil {
				return nil, err
			}
		}

		return &BasicType{TypeString}, nil
	case *Identifier:
		if t := scope.Get(e.Name); t != nil {
			return t, nil
		}

		return nil, c.errorf(e.Loc, "undefined: %s", e.Name)
	case *UnaryExpr:
		return c.resolveUnary(scope, e)
	case *BinaryExpr:
		return c.resolveBinary(scope, e)
	case *AssignExpr:
		return c.resolveAssign(scope, e)
	case *CallExpr:
		return c.resolveCall(scope, e)
	case *FieldExpr:
		return c.resolveField(scope, e)
	case *StructLit:
		return c.resolveStructLit(scope, e)
	case *CastExpr:
		if _, err := c.resolve(scope, e.Value); err != nil {
			return nil, err
		}

		return c.resolveType(e.Type, e.Loc)
	case *ClosureExpr:
		return c.resolveClosure(scope, e)
	default:
		return nil, c.errorf(nil, "unknown expression")
	}
}

func (c *ContextAnalyzer) resolveUnary(scope *SymbolTable, e *UnaryExpr) (Type, error) {
	t, err := c.resolve(scope, e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Operation {
	case UnaryNegative:
		if !isNumeric(t) {
			return nil, c.errorf(e.Loc, "undefined operation: '%s' has no operator '%s'", t, e.Operation)
		}

		return t, nil
	case UnaryNot:
		if !isBasic(t, TypeBool) {
			return nil, c.errorf(e.Loc, "undefined operation: '%s' has no operator '%s'", t, e.Operation)
		}

		return t, nil
	default:
		return nil, c.errorf(e.Loc, "unknown unary operator '%s'", e.Operation)
	}
}

func (c *ContextAnalyzer) resolveBinary(scope *SymbolTable, e *BinaryExpr) (Type, error) {
	t1, err := c.resolve(scope, e.Op1)
	if err != nil {
		return nil, err
	}

	t2, err := c.resolve(scope, e.Op2)
	if err != nil {
		return nil, err
	}

	switch e.Operation {
	case BinaryAddition, BinarySubtraction, BinaryMultiplication, BinaryDivision:
		if !t1.Equals(t2) {
			return nil, c.errorf(e.Loc, "incompatible types: '%s' %s '%s'", t1, e.Operation, t2)
		}

		if !isNumeric(t1) {
			return nil, c.errorf(e.Loc, "undefined operation: '%s' has no operator '%s'", t1, e.Operation)
		}

		return t1, nil
	case BinaryModulo:
		if !isBasic(t1, TypeInt) || !isBasic(t2, TypeInt) {
			return nil, c.errorf(e.Loc, "undefined operation: '%%' needs int operands, got '%s' and '%s'", t1, t2)
		}

		return t1, nil
	case BinaryEquals, BinaryNotEquals:
		if !t1.Equals(t2) {
			return nil, c.errorf(e.Loc, "incompatible types: '%s' %s '%s'", t1, e.Operation, t2)
		}

		return &BasicType{TypeBool}, nil
	case BinaryLess, BinaryLessEq, BinaryGreater, BinaryGreaterEq:
		if !t1.Equals(t2) {
			return nil, c.errorf(e.Loc, "incompatible types: '%s' %s '%s'", t1, e.Operation, t2)
		}

		if !isNumeric(t1) {
			return nil, c.errorf(e.Loc, "undefined operation: '%s' has no operator '%s'", t1, e.Operation)
		}

		return &BasicType{TypeBool}, nil
	case BinaryAnd, BinaryOr:
		if !isBasic(t1, TypeBool) || !isBasic(t2, TypeBool) {
			return nil, c.errorf(e.Loc, "undefined operation: '%s' needs bool operands, got '%s' and '%s'", e.Operation, t1, t2)
		}

		return t1, nil
	default:
		return nil, c.errorf(e.Loc, "unknown operator '%s'", e.Operation)
	}
}

func (c *ContextAnalyzer) resolveAssign(scope *SymbolTable, e *AssignExpr) (Type, error) {
	bt := scope.Get(e.Target.Name)
	if bt == nil {
		return nil, c.errorf(e.Target.Loc, "undefined: %s", e.Target.Name)
	}

	vt, err := c.resolve(scope, e.Value)
	if err != nil {
		return nil, err
	}

	if !vt.Equals(bt) {
		return nil, c.errorf(e.Loc, "cannot assign %s to '%s' of type %s", vt, e.Target.Name, bt)
	}

	if e.Operation != AssignPlain && !isNumeric(bt) {
		return nil, c.errorf(e.Loc, "undefined operation: '%s' has no operator '%s'", bt, e.Operation)
	}

	return &BasicType{TypeUnit}, nil
}

func (c *ContextAnalyzer) resolveCall(scope *SymbolTable, e *CallExpr) (Type, error) {
	if field, isField := e.Callee.(*FieldExpr); isField {
		return c.resolveFieldCall(scope, e, field)
	}

	ct, err := c.resolve(scope, e.Callee)
	if err != nil {
		return nil, err
	}

	sig, callable := ct.(*FuncType)
	if !callable {
		return nil, c.errorf(e.Loc, "expression of type '%s' is not callable", ct)
	}

	if err := c.checkArgs(scope, sig, e); err != nil {
		return nil, err
	}

	return sig.Return, nil
}

// resolveFieldCall types a qualified call: an intrinsic (io.println), a
// method on the struct type itself (Point.new), or a method on an instance
// (p.magnitude). An import alias or struct name only acts as a qualifier when
// no local binding shadows it.
func (c *ContextAnalyzer) resolveFieldCall(scope *SymbolTable, e *CallExpr, field *FieldExpr) (Type, error) {
	if id, isIdent := field.Base.(*Identifier); isIdent && scope.Get(id.Name) == nil {
		if intrinsic, isImport := c.prog.Imports[id.Name]; isImport {
			fn, known := intrinsic.Funcs[field.Name]
			if !known {
				return nil, c.errorf(field.Loc, "undefined: %s.%s", id.Name, field.Name)
			}

			if err := c.checkArgs(scope, fn.Type, e); err != nil {
				return nil, err
			}

			return fn.Type.Return, nil
		}

		if def, isStruct := c.prog.Structs[id.Name]; isStruct {
			sig, known := def.MethodTypes[field.Name]
			if !known {
				return nil, c.errorf(field.Loc, "struct '%s' has no method '%s'", id.Name, field.Name)
			}

			if err := c.checkArgs(scope, sig, e); err != nil {
				return nil, err
			}

			return sig.Return, nil
		}
	}

	bt, err := c.resolve(scope, field.Base)
	if err != nil {
		return nil, err
	}

	st, isStruct := bt.(*StructType)
	if !isStruct {
		return nil, c.errorf(field.Loc, "type '%s' has no methods", bt)
	}

	def := c.prog.Structs[st.Name]
	sig, known := def.MethodTypes[field.Name]
	if !known {
		return nil, c.errorf(field.Loc, "struct '%s' has no method '%s'", st.Name, field.Name)
	}

	if err := c.checkArgs(scope, sig, e); err != nil {
		return nil, err
	}

	return sig.Return, nil
}

func (c *ContextAnalyzer) checkArgs(scope *SymbolTable, sig *FuncType, e *CallExpr) error {
	if len(e.Args) != len(sig.Params) {
		return c.errorf(e.Loc, "wrong number of arguments: got %d, want %d", len(e.Args), len(sig.Params))
	}

	for i, arg := range e.Args {
		at, err := c.resolve(scope, arg)
		if err != nil {
			return err
		}

		if !at.Equals(sig.Params[i]) {
			return c.errorf(e.Loc, "mismatched argument: got %s, want %s", at, sig.Params[i])
		}
	}

	return nil
}

func (c *ContextAnalyzer) resolveField(scope *SymbolTable, e *FieldExpr) (Type, error) {
	if id, isIdent := e.Base.(*Identifier); isIdent && scope.Get(id.Name) == nil {
		if intrinsic, isImport := c.prog.Imports[id.Name]; isImport {
			fn, known := intrinsic.Funcs[e.Name]
			if !known {
				return nil, c.errorf(e.Loc, "undefined: %s.%s", id.Name, e.Name)
			}

			return fn.Type, nil
		}

		if def, isStruct := c.prog.Structs[id.Name]; isStruct {
			sig, known := def.MethodTypes[e.Name]
			if !known {
				return nil, c.errorf(e.Loc, "struct '%s' has no method '%s'", id.Name, e.Name)
			}

			return sig, nil
		}
	}

	bt, err := c.resolve(scope, e.Base)
	if err != nil {
		return nil, err
	}

	st, isStruct := bt.(*StructType)
	if !isStruct {
		return nil, c.errorf(e.Loc, "type '%s' has no fields", bt)
	}

	def := c.prog.Structs[st.Name]
	if f := def.Field(e.Name); f != nil {
		return f.Type, nil
	}

	if sig, known := def.MethodTypes[e.Name]; known {
		return sig, nil
	}

	return nil, c.errorf(e.Loc, "unknown field '%s' on struct '%s'", e.Name, st.Name)
}

// resolveStructLit checks that a literal supplies a value for every declared
// field exactly once, no more, no less.
func (c *ContextAnalyzer) resolveStructLit(scope *SymbolTable, e *StructLit) (Type, error) {
	def, known := c.prog.Structs[e.Name]
	if !known {
		return nil, c.errorf(e.Loc, "undefined struct '%s'", e.Name)
	}

	seen := make(map[string]bool, len(e.Fields))
	for _, init := range e.Fields {
		field := def.Field(init.Name)
		if field == nil {
			return nil, c.errorf(init.Loc, "unknown field '%s' in literal of '%s'", init.Name, e.Name)
		}

		if seen[init.Name] {
			return nil, c.errorf(init.Loc, "duplicate field '%s' in literal of '%s'", init.Name, e.Name)
		}

		seen[init.Name] = true

		vt, err := c.resolve(scope, init.Value)
		if err != nil {
			return nil, err
		}

		if !vt.Equals(field.Type) {
			return nil, c.errorf(init.Loc, "field '%s' expects %s, got %s", init.Name, field.Type, vt)
		}
	}

	for _, field := range def.Fields {
		if !seen[field.Name] {
			return nil, c.errorf(e.Loc, "missing field '%s' in literal of '%s'", field.Name, e.Name)
		}
	}

	return &StructType{Name: e.Name}, nil
}

func (c *ContextAnalyzer) resolveClosure(scope *SymbolTable, e *ClosureExpr) (Type, error) {
	sig := &FuncType{}

	s := NewSymbolTable(scope)
	for _, param := range e.Params {
		pt, err := c.resolveType(param.Type, param.Loc)
		if err != nil {
			return nil, err
		}

		sig.Params = append(sig.Params, pt)
		s.Add(param.Name, pt)
	}

	ret, err := c.resolveType(e.Return, e.Loc)
	if err != nil {
		return nil, err
	}

	sig.Return = ret

	if err := c.checkBlock(e.Body, s, ret); err != nil {
		return nil, err
	}

	return sig, nil
}
