package sable

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

// control carries non-linear flow (return, break, continue) out of statement
// evaluation. kind ctrlNone means execution fell through normally.
type control struct {
	kind  ctrlKind
	value Value
}

// Evaluator walks a type-checked Program. It trusts the checker: only cast
// legality and call-target sanity are re-validated at runtime.
type Evaluator struct {
	prog    *Program
	globals *Environment

	stdin  *bufio.Reader
	stdout io.Writer
}

type EvaluatorOption func(*Evaluator)

// WithStdin redirects io.input reads, mainly for tests.
func WithStdin(r io.Reader) EvaluatorOption {
	return func(ev *Evaluator) {
		ev.stdin = bufio.NewReader(r)
	}
}

// WithStdout redirects io.print and io.println output, mainly for tests.
func WithStdout(w io.Writer) EvaluatorOption {
	return func(ev *Evaluator) {
		ev.stdout = w
	}
}

func NewEvaluator(prog *Program, opts ...EvaluatorOption) *Evaluator {
	ev := &Evaluator{
		prog:   prog,
		stdin:  bufio.NewReader(os.Stdin),
		stdout: os.Stdout,
	}

	for _, opt := range opts {
		opt(ev)
	}

	ev.globals = NewEnvironment(nil)
	for name, decl := range prog.Funcs {
		ev.globals.Set(name, &FuncValue{Decl: decl, Env: ev.globals})
	}

	return ev
}

// Run executes the module's main function to completion.
func (ev *Evaluator) Run() error {
	main, declared := ev.globals.Get("main")
	if !declared {
		return &RuntimeError{Msg: "no 'main' function declared"}
	}

	_, err := ev.call(main, nil, ev.prog.Module.Loc)
	return err
}

func (ev *Evaluator) errorf(loc *Location, format string, args ...interface{}) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...), Loc: loc}
}

// call invokes any callable value with already evaluated arguments.
func (ev *Evaluator) call(callee Value, args []Value, loc *Location) (Value, error) {
	switch v := callee.(type) {
	case *FuncValue:
		if len(args) != len(v.Decl.Params) {
			return nil, ev.errorf(loc, "wrong number of arguments: got %d, want %d", len(args), len(v.Decl.Params))
		}

		env := NewEnvironment(v.Env)
		for i, param := range v.Decl.Params {
			env.Set(param.Name, args[i])
		}

		return ev.runBody(v.Decl.Body, env)
	case *MethodValue:
		return ev.callMethod(v, args, loc)
	case *NativeFuncValue:
		if len(args) != len(v.Fn.Type.Params) {
			return nil, ev.errorf(loc, "wrong number of arguments: got %d, want %d", len(args), len(v.Fn.Type.Params))
		}

		return v.Fn.Impl(ev, args)
	default:
		return nil, ev.errorf(loc, "value '%s' is not callable", callee.Display())
	}
}

// callMethod runs an extend-block method. The receiver's fields are copied
// into a scope between module scope and the parameters, alongside the sibling
// methods, and written back to the receiver when the call returns. A static
// call through the struct name gets a zero-valued receiver.
func (ev *Evaluator) callMethod(v *MethodValue, args []Value, loc *Location) (Value, error) {
	if len(args) != len(v.Method.Params) {
		return nil, ev.errorf(loc, "wrong number of arguments: got %d, want %d", len(args), len(v.Method.Params))
	}

	recv := v.Recv
	if recv == nil {
		recv = ev.zeroStruct(v.Def)
	}

	recvEnv := NewEnvironment(ev.globals)
	for name, m := range v.Def.Methods {
		recvEnv.Set(name, &MethodValue{Def: v.Def, Method: m, Recv: recv})
	}

	for _, field := range v.Def.Fields {
		recvEnv.Set(field.Name, recv.Fields[field.Name])
	}

	env := NewEnvironment(recvEnv)
	for i, param := range v.Method.Params {
		env.Set(param.Name, args[i])
	}

	out, err := ev.runBody(v.Method.Body, env)
	if err != nil {
		return nil, err
	}

	for _, field := range v.Def.Fields {
		recv.Fields[field.Name] = recvEnv.vals[field.Name]
	}

	return out, nil
}

func (ev *Evaluator) runBody(body *BlockStmt, env *Environment) (Value, error) {
	ctrl, err := ev.execBlock(body, env)
	if err != nil {
		return nil, err
	}

	if ctrl.kind == ctrlReturn && ctrl.value != nil {
		return ctrl.value, nil
	}

	return &UnitValue{}, nil
}

func (ev *Evaluator) zeroStruct(def *StructDef) *StructValue {
	v := &StructValue{
		Def:    def,
		Fields: make(map[string]Value, len(def.Fields)),
	}

	for _, field := range def.Fields {
		v.Fields[field.Name] = ev.zeroValue(field.Type)
	}

	return v
}

func (ev *Evaluator) zeroValue(t Type) Value {
	switch typ := t.(type) {
	case *BasicType:
		switch typ.Typ {
		case TypeInt:
			return &IntValue{}
		case TypeFloat:
			return &FloatValue{}
		case TypeBool:
			return &BoolValue{}
		case TypeString:
			return &StringValue{}
		}

		return &UnitValue{}
	case *StructType:
		return ev.zeroStruct(ev.prog.Structs[typ.Name])
	default:
		return &UnitValue{}
	}
}

func (ev *Evaluator) execBlock(b *BlockStmt, env *Environment) (control, error) {
	for _, s := range b.Stmts {
		ctrl, err := ev.execStmt(s, env)
		if err != nil {
			return control{}, err
		}

		if ctrl.kind != ctrlNone {
			return ctrl, nil
		}
	}

	return control{}, nil
}

func (ev *Evaluator) execStmt(stmt Stmt, env *Environment) (control, error) {
	switch s := stmt.(type) {
	case *LetStmt:
		v, err := ev.evalExpr(s.Value, env)
		if err != nil {
			return control{}, err
		}

		env.Set(s.Name, v)
		return control{}, nil
	case *ExprStmt:
		_, err := ev.evalExpr(s.X, env)
		return control{}, err
	case *WhileStmt:
		for {
			cond, err := ev.evalExpr(s.Cond, env)
			if err != nil {
				return control{}, err
			}

			if !cond.(*BoolValue).V {
				return control{}, nil
			}

			ctrl, err := ev.execBlock(s.Body, NewEnvironment(env))
			if err != nil {
				return control{}, err
			}

			switch ctrl.kind {
			case ctrlBreak:
				return control{}, nil
			case ctrlReturn:
				return ctrl, nil
			}
		}
	case *IfStmt:
		cond, err := ev.evalExpr(s.Cond, env)
		if err != nil {
			return control{}, err
		}

		if cond.(*BoolValue).V {
			return ev.execStmt(s.Then, NewEnvironment(env))
		}

		if s.Else != nil {
			return ev.execStmt(s.Else, NewEnvironment(env))
		}

		return control{}, nil
	case *ReturnStmt:
		if s.Value == nil {
			return control{kind: ctrlReturn, value: &UnitValue{}}, nil
		}

		v, err := ev.evalExpr(s.Value, env)
		if err != nil {
			return control{}, err
		}

		return control{kind: ctrlReturn, value: v}, nil
	case *BreakStmt:
		return control{kind: ctrlBreak}, nil
	case *ContinueStmt:
		return control{kind: ctrlContinue}, nil
	case *BlockStmt:
		return ev.execBlock(s, NewEnvironment(env))
	default:
		return control{}, ev.errorf(nil, "unknown statement")
	}
}

func (ev *Evaluator) evalExpr(expr Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *IntLit:
		return &IntValue{V: e.Value}, nil
	case *FloatLit:
		return &FloatValue{V: e.Value}, nil
	case *BoolLit:
		return &BoolValue{V: e.Value}, nil
	case *StringLit:
		return &StringValue{V: e.Value}, nil
	case *InterpString:
		return ev.evalInterp(e, env)
	case *Identifier:
		if v, contains := env.Get(e.Name); contains {
			return v, nil
		}

		return nil, ev.errorf(e.Loc, "undefined: %s", e.Name)
	case *UnaryExpr:
		return ev.evalUnary(e, env)
	case *BinaryExpr:
		return ev.evalBinary(e, env)
	case *AssignExpr:
		return ev.evalAssign(e, env)
	case *CallExpr:
		return ev.evalCall(e, env)
	case *FieldExpr:
		return ev.evalField(e, env)
	case *StructLit:
		return ev.evalStructLit(e, env)
	case *CastExpr:
		return ev.evalCast(e, env)
	case *ClosureExpr:
		decl := &FuncDecl{Params: e.Params, Return: e.Return, Body: e.Body, Loc: e.Loc}
		return &FuncValue{Decl: decl, Env: env}, nil
	default:
		return nil, ev.errorf(nil, "unknown expression")
	}
}

func (ev *Evaluator) evalInterp(e *InterpString, env *Environment) (Value, error) {
	var b strings.Builder
	b.WriteString(e.Segs[0])

	for i, part := range e.Exprs {
		v, err := ev.evalExpr(part, env)
		if err != nil {
			return nil, err
		}

		b.WriteString(v.Display())
		b.WriteString(e.Segs[i+1])
	}

	return &StringValue{V: b.String()}, nil
}

func (ev *Evaluator) evalUnary(e *UnaryExpr, env *Environment) (Value, error) {
	v, err := ev.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}

	switch e.Operation {
	case UnaryNegative:
		switch operand := v.(type) {
		case *IntValue:
			return &IntValue{V: -operand.V}, nil
		case *FloatValue:
			return &FloatValue{V: -operand.V}, nil
		}
	case UnaryNot:
		if operand, isBool := v.(*BoolValue); isBool {
			return &BoolValue{V: !operand.V}, nil
		}
	}

	return nil, ev.errorf(e.Loc, "undefined operation: '%s' on '%s'", e.Operation, v.Display())
}

func (ev *Evaluator) evalBinary(e *BinaryExpr, env *Environment) (Value, error) {
	// Logical operators short-circuit, so the right operand is held back
	if e.Operation == BinaryAnd || e.Operation == BinaryOr {
		left, err := ev.evalExpr(e.Op1, env)
		if err != nil {
			return nil, err
		}

		l := left.(*BoolValue)
		if e.Operation == BinaryAnd && !l.V {
			return &BoolValue{V: false}, nil
		}

		if e.Operation == BinaryOr && l.V {
			return &BoolValue{V: true}, nil
		}

		return ev.evalExpr(e.Op2, env)
	}

	left, err := ev.evalExpr(e.Op1, env)
	if err != nil {
		return nil, err
	}

	right, err := ev.evalExpr(e.Op2, env)
	if err != nil {
		return nil, err
	}

	return ev.applyBinary(e.Operation, left, right, e.Loc)
}

func (ev *Evaluator) applyBinary(op BinaryOp, left, right Value, loc *Location) (Value, error) {
	switch l := left.(type) {
	case *IntValue:
		r := right.(*IntValue)
		switch op {
		case BinaryAddition:
			return &IntValue{V: l.V + r.V}, nil
		case BinarySubtraction:
			return &IntValue{V: l.V - r.V}, nil
		case BinaryMultiplication:
			return &IntValue{V: l.V * r.V}, nil
		case BinaryDivision:
			if r.V == 0 {
				return nil, ev.errorf(loc, "division by zero")
			}

			return &IntValue{V: l.V / r.V}, nil
		case BinaryModulo:
			if r.V == 0 {
				return nil, ev.errorf(loc, "division by zero")
			}

			return &IntValue{V: l.V % r.V}, nil
		case BinaryEquals:
			return &BoolValue{V: l.V == r.V}, nil
		case BinaryNotEquals:
			return &BoolValue{V: l.V != r.V}, nil
		case BinaryLess:
			return &BoolValue{V: l.V < r.V}, nil
		case BinaryLessEq:
			return &BoolValue{V: l.V <= r.V}, nil
		case BinaryGreater:
			return &BoolValue{V: l.V > r.V}, nil
		case BinaryGreaterEq:
			return &BoolValue{V: l.V >= r.V}, nil
		}
	case *FloatValue:
		r := right.(*FloatValue)
		switch op {
		case BinaryAddition:
			return &FloatValue{V: l.V + r.V}, nil
		case BinarySubtraction:
			return &FloatValue{V: l.V - r.V}, nil
		case BinaryMultiplication:
			return &FloatValue{V: l.V * r.V}, nil
		case BinaryDivision:
			return &FloatValue{V: l.V / r.V}, nil
		case BinaryEquals:
			return &BoolValue{V: l.V == r.V}, nil
		case BinaryNotEquals:
			return &BoolValue{V: l.V != r.V}, nil
		case BinaryLess:
			return &BoolValue{V: l.V < r.V}, nil
		case BinaryLessEq:
			return &BoolValue{V: l.V <= r.V}, nil
		case BinaryGreater:
			return &BoolValue{V: l.V > r.V}, nil
		case BinaryGreaterEq:
			return &BoolValue{V: l.V >= r.V}, nil
		}
	case *BoolValue:
		r := right.(*BoolValue)
		switch op {
		case BinaryEquals:
			return &BoolValue{V: l.V == r.V}, nil
		case BinaryNotEquals:
			return &BoolValue{V: l.V != r.V}, nil
		}
	case *StringValue:
		r := right.(*StringValue)
		switch op {
		case BinaryEquals:
			return &BoolValue{V: l.V == r.V}, nil
		case BinaryNotEquals:
			return &BoolValue{V: l.V != r.V}, nil
		}
	}

	return nil, ev.errorf(loc, "undefined operation: '%s' %s '%s'", left.Display(), op, right.Display())
}

func (ev *Evaluator) evalAssign(e *AssignExpr, env *Environment) (Value, error) {
	v, err := ev.evalExpr(e.Value, env)
	if err != nil {
		return nil, err
	}

	if e.Operation != AssignPlain {
		old, contains := env.Get(e.Target.Name)
		if !contains {
			return nil, ev.errorf(e.Target.Loc, "undefined: %s", e.Target.Name)
		}

		v, err = ev.applyBinary(compoundOp(e.Operation), old, v, e.Loc)
		if err != nil {
			return nil, err
		}
	}

	if !env.Assign(e.Target.Name, v) {
		return nil, ev.errorf(e.Target.Loc, "undefined: %s", e.Target.Name)
	}

	return &UnitValue{}, nil
}

func compoundOp(op AssignOp) BinaryOp {
	switch op {
	case AssignAdd:
		return BinaryAddition
	case AssignSub:
		return BinarySubtraction
	case AssignMul:
		return BinaryMultiplication
	default:
		return BinaryDivision
	}
}

func (ev *Evaluator) evalCall(e *CallExpr, env *Environment) (Value, error) {
	callee, err := ev.evalExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		args[i], err = ev.evalExpr(arg, env)
		if err != nil {
			return nil, err
		}
	}

	return ev.call(callee, args, e.Loc)
}

// evalField resolves the same three qualifier forms the checker accepts: an
// import alias naming an intrinsic, a struct name naming a static method, and
// an instance exposing a field or method. Local bindings shadow qualifiers.
func (ev *Evaluator) evalField(e *FieldExpr, env *Environment) (Value, error) {
	if id, isIdent := e.Base.(*Identifier); isIdent {
		if _, shadowed := env.Get(id.Name); !shadowed {
			if intrinsic, isImport := ev.prog.Imports[id.Name]; isImport {
				fn, known := intrinsic.Funcs[e.Name]
				if !known {
					return nil, ev.errorf(e.Loc, "undefined: %s.%s", id.Name, e.Name)
				}

				return &NativeFuncValue{Fn: fn}, nil
			}

			if def, isStruct := ev.prog.Structs[id.Name]; isStruct {
				m, known := def.Methods[e.Name]
				if !known {
					return nil, ev.errorf(e.Loc, "struct '%s' has no method '%s'", id.Name, e.Name)
				}

				return &MethodValue{Def: def, Method: m}, nil
			}
		}
	}

	base, err := ev.evalExpr(e.Base, env)
	if err != nil {
		return nil, err
	}

	recv, isStruct := base.(*StructValue)
	if !isStruct {
		return nil, ev.errorf(e.Loc, "value '%s' has no fields", base.Display())
	}

	if v, contains := recv.Fields[e.Name]; contains {
		return v, nil
	}

	if m, known := recv.Def.Methods[e.Name]; known {
		return &MethodValue{Def: recv.Def, Method: m, Recv: recv}, nil
	}

	return nil, ev.errorf(e.Loc, "unknown field '%s' on struct '%s'", e.Name, recv.Def.Name)
}

// evalStructLit builds an instance, evaluating initializers in the struct's
// declared field order regardless of the order written in the literal.
func (ev *Evaluator) evalStructLit(e *StructLit, env *Environment) (Value, error) {
	def := ev.prog.Structs[e.Name]

	inits := make(map[string]Expr, len(e.Fields))
	for _, init := range e.Fields {
		inits[init.Name] = init.Value
	}

	v := &StructValue{
		Def:    def,
		Fields: make(map[string]Value, len(def.Fields)),
	}

	for _, field := range def.Fields {
		fv, err := ev.evalExpr(inits[field.Name], env)
		if err != nil {
			return nil, err
		}

		v.Fields[field.Name] = fv
	}

	return v, nil
}

func (ev *Evaluator) evalCast(e *CastExpr, env *Environment) (Value, error) {
	v, err := ev.evalExpr(e.Value, env)
	if err != nil {
		return nil, err
	}

	named, isNamed := e.Type.(*NamedTypeExpr)
	if !isNamed {
		return nil, ev.errorf(e.Loc, "invalid cast")
	}

	switch target := named.Name; target {
	case TypeInt:
		switch val := v.(type) {
		case *IntValue:
			return val, nil
		case *FloatValue:
			return &IntValue{V: int64(val.V)}, nil
		case *StringValue:
			n, err := strconv.ParseInt(val.V, 10, 64)
			if err != nil {
				return nil, ev.errorf(e.Loc, "invalid cast: %q is not an int", val.V)
			}

			return &IntValue{V: n}, nil
		}
	case TypeFloat:
		switch val := v.(type) {
		case *FloatValue:
			return val, nil
		case *IntValue:
			return &FloatValue{V: float64(val.V)}, nil
		}
	case TypeString:
		switch v.(type) {
		case *IntValue, *FloatValue, *BoolValue, *StringValue:
			return &StringValue{V: v.Display()}, nil
		}
	}

	return nil, ev.errorf(e.Loc, "invalid cast: cannot cast '%s' to %s", v.Display(), named.Name)
}
