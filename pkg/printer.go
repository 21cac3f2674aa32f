package sable

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders an AST back to source. Nested expressions come out fully
// parenthesized, so printing, reparsing and printing again reaches a fixed
// point even though the input may have relied on precedence.
type Printer struct {
	b      strings.Builder
	indent int
}

func PrintModule(mod *Module) string {
	p := &Printer{}
	p.module(mod)
	return p.b.String()
}

func (p *Printer) writef(format string, args ...interface{}) {
	fmt.Fprintf(&p.b, format, args...)
}

func (p *Printer) line(format string, args ...interface{}) {
	p.b.WriteString(strings.Repeat("    ", p.indent))
	p.writef(format, args...)
	p.b.WriteString("\n")
}

func (p *Printer) module(mod *Module) {
	p.line("module %s;", mod.Name)

	if len(mod.Imports) > 0 {
		p.line("")
		for _, imp := range mod.Imports {
			p.line("import %q as %s;", imp.Path, imp.Alias)
		}
	}

	for _, d := range mod.Decls {
		p.line("")
		p.decl(d)
	}
}

func (p *Printer) decl(d Decl) {
	switch decl := d.(type) {
	case *FuncDecl:
		p.funcDecl(decl)
	case *StructDecl:
		p.structDecl(decl)
	case *ExtendDecl:
		p.line("extend %s {", decl.Name)
		p.indent++
		for i, m := range decl.Methods {
			if i > 0 {
				p.line("")
			}

			p.funcDecl(m)
		}
		p.indent--
		p.line("}")
	}
}

func (p *Printer) funcDecl(fn *FuncDecl) {
	head := ""
	if fn.Pub {
		head = "pub "
	}

	head += "func " + fn.Name + "(" + p.params(fn.Params) + ")"
	if fn.Return != nil {
		head += " -> " + p.typeExpr(fn.Return)
	}

	p.line("%s {", head)
	p.block(fn.Body)
	p.line("}")
}

func (p *Printer) structDecl(decl *StructDecl) {
	p.line("struct %s {", decl.Name)
	p.indent++
	for i, field := range decl.Fields {
		sep := ","
		if i == len(decl.Fields)-1 {
			sep = ""
		}

		p.line("%s: %s%s", field.Name, p.typeExpr(field.Type), sep)
	}
	p.indent--
	p.line("}")
}

func (p *Printer) params(params []*Param) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.Name + ": " + p.typeExpr(param.Type)
	}

	return strings.Join(parts, ", ")
}

func (p *Printer) typeExpr(t TypeExpr) string {
	switch typ := t.(type) {
	case *NamedTypeExpr:
		return typ.Name
	case *FuncTypeExpr:
		parts := make([]string, len(typ.Params))
		for i, param := range typ.Params {
			parts[i] = p.typeExpr(param)
		}

		return "(" + strings.Join(parts, ", ") + ") -> " + p.typeExpr(typ.Return)
	default:
		return ""
	}
}

func (p *Printer) block(b *BlockStmt) {
	p.indent++
	for _, s := range b.Stmts {
		p.stmt(s)
	}
	p.indent--
}

func (p *Printer) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *LetStmt:
		if s.Type != nil {
			p.line("let %s: %s = %s;", s.Name, p.typeExpr(s.Type), p.expr(s.Value))
			return
		}

		p.line("let %s = %s;", s.Name, p.expr(s.Value))
	case *WhileStmt:
		p.line("while (%s) {", p.expr(s.Cond))
		p.block(s.Body)
		p.line("}")
	case *IfStmt:
		p.ifStmt(s)
	case *ReturnStmt:
		if s.Value != nil {
			p.line("return %s;", p.expr(s.Value))
			return
		}

		p.line("return;")
	case *BreakStmt:
		p.line("break;")
	case *ContinueStmt:
		p.line("continue;")
	case *BlockStmt:
		p.line("{")
		p.block(s)
		p.line("}")
	case *ExprStmt:
		p.line("%s;", p.expr(s.X))
	}
}

func (p *Printer) ifStmt(s *IfStmt) {
	p.line("if (%s) {", p.expr(s.Cond))
	p.branch(s.Then)

	if s.Else == nil {
		p.line("}")
		return
	}

	if elseIf, chained := s.Else.(*IfStmt); chained {
		p.b.WriteString(strings.Repeat("    ", p.indent))
		p.b.WriteString("} else ")

		rest := &Printer{indent: p.indent}
		rest.ifStmt(elseIf)
		p.b.WriteString(strings.TrimLeft(rest.b.String(), " "))
		return
	}

	p.line("} else {")
	p.branch(s.Else)
	p.line("}")
}

// branch prints an if/else arm as block contents, wrapping a bare statement
// in the braces the surrounding printer already emitted.
func (p *Printer) branch(s Stmt) {
	if b, isBlock := s.(*BlockStmt); isBlock {
		p.block(b)
		return
	}

	p.indent++
	p.stmt(s)
	p.indent--
}

func (p *Printer) expr(expr Expr) string {
	switch e := expr.(type) {
	case *IntLit:
		return strconv.FormatInt(e.Value, 10)
	case *FloatLit:
		out := strconv.FormatFloat(e.Value, 'g', -1, 64)
		if !strings.ContainsAny(out, ".e") {
			out += ".0"
		}

		return out
	case *BoolLit:
		return strconv.FormatBool(e.Value)
	case *StringLit:
		return `"` + escapeString(e.Value) + `"`
	case *InterpString:
		return p.interp(e)
	case *Identifier:
		return e.Name
	case *UnaryExpr:
		return "(" + string(e.Operation) + p.expr(e.Operand) + ")"
	case *BinaryExpr:
		return "(" + p.expr(e.Op1) + " " + string(e.Operation) + " " + p.expr(e.Op2) + ")"
	case *AssignExpr:
		return e.Target.Name + " " + string(e.Operation) + " " + p.expr(e.Value)
	case *CallExpr:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = p.expr(arg)
		}

		return p.expr(e.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *FieldExpr:
		return p.expr(e.Base) + "." + e.Name
	case *StructLit:
		fields := make([]string, len(e.Fields))
		for i, init := range e.Fields {
			fields[i] = init.Name + ": " + p.expr(init.Value)
		}

		return e.Name + " { " + strings.Join(fields, ", ") + " }"
	case *CastExpr:
		return "(" + p.expr(e.Value) + " as " + p.typeExpr(e.Type) + ")"
	case *ClosureExpr:
		out := "|" + p.params(e.Params) + "|"
		if e.Return != nil {
			out += " " + p.typeExpr(e.Return)
		}

		out += " {\n"

		body := &Printer{indent: p.indent}
		body.block(e.Body)
		out += body.b.String()
		out += strings.Repeat("    ", p.indent) + "}"
		return out
	default:
		return ""
	}
}

func (p *Printer) interp(e *InterpString) string {
	out := `"` + escapeString(e.Segs[0])
	for i, part := range e.Exprs {
		out += `\(` + p.expr(part) + ")" + escapeString(e.Segs[i+1])
	}

	return out + `"`
}

func escapeString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\t", `\t`,
	)

	return r.Replace(s)
}
