package sable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ParserMocker struct {
	buf []Decl
	pos int
}

func NewParserMocker(decls []Decl) *ParserMocker {
	return &ParserMocker{
		buf: decls,
		pos: 0,
	}
}

func (b *ParserMocker) Do() {
	return
}

func (b *ParserMocker) Get() Decl {
	if len(b.buf) <= b.pos {
		return &EOS{}
	}

	decl := b.buf[b.pos]
	b.pos++

	return decl
}

func (b *ParserMocker) GetFilename() string {
	return "testing"
}

func (b *ParserMocker) Err() error {
	return nil
}

func TestContextAnalyzer(t *testing.T) {
	parser := NewParserMocker([]Decl{
		&Module{Name: "t"},
		&FuncDecl{
			Name: "main",
			Body: &BlockStmt{
				Stmts: []Stmt{
					&LetStmt{
						Name: "x",
						Value: &BinaryExpr{
							Operation: BinaryAddition,
							Op1:       &IntLit{Value: 1},
							Op2:       &IntLit{Value: 1},
						},
					},
				},
			},
		},
	})

	analyzer := NewContextAnalyser(parser)

	prog, err := analyzer.Do()
	require.NoError(t, err)
	require.NotNil(t, prog)

	assert.Equal(t, "t", prog.Module.Name)
	require.Contains(t, prog.Funcs, "main")
	assert.Equal(t, &FuncType{Return: &BasicType{TypeUnit}}, prog.FuncTypes["main"])
}

func checkSource(t *testing.T, src string) (*Program, error) {
	t.Helper()

	l := NewLexerFromReader(strings.NewReader(src))
	p := NewParser(l)

	return NewContextAnalyser(p).Do()
}

func TestCheckStructs(t *testing.T) {
	src := `module t;
struct Point { x: float, y: float }
extend Point {
    func scale(f: float) -> float {
        return x * f;
    }
}
func main() {
    let p = Point { x: 1.0, y: 2.0 };
    p.scale(2.0);
}`

	prog, err := checkSource(t, src)
	require.NoError(t, err)

	def := prog.Structs["Point"]
	require.NotNil(t, def)
	require.Len(t, def.Fields, 2)
	assert.Equal(t, &BasicType{TypeFloat}, def.Fields[0].Type)
	require.Contains(t, def.Methods, "scale")
	assert.Equal(t, &FuncType{
		Params: []Type{&BasicType{TypeFloat}},
		Return: &BasicType{TypeFloat},
	}, def.MethodTypes["scale"])
}

func TestCheckRecursiveStructs(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "direct",
			src:  `module t; struct S { next: S }`,
			msg:  "invalid recursive struct 'S'",
		},
		{
			name: "mutual",
			src:  `module t; struct A { b: B } struct B { a: A }`,
			msg:  "invalid recursive struct 'A'",
		},
		{
			name: "through a chain",
			src:  `module t; struct A { b: B } struct B { c: C } struct C { a: A }`,
			msg:  "invalid recursive struct 'A'",
		},
		{
			name: "nesting without a cycle",
			src:  `module t; struct Inner { n: int } struct Outer { a: Inner, b: Inner }`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := checkSource(t, c.src)
			if c.msg == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)

			var typeErr *TypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}

func TestCheckImports(t *testing.T) {
	prog, err := checkSource(t, `module t;
import "io" as io;
import "math" as m;
func main() {
    io.println("hi");
    m.sqrt(2.0);
}`)
	require.NoError(t, err)
	assert.Contains(t, prog.Imports, "io")
	assert.Contains(t, prog.Imports, "m")
}

func TestCheckErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{
			"undefined identifier",
			"module t; func main() { let x = y; }",
			"undefined: y",
		},
		{
			"incompatible operands",
			`module t; func main() { let x = 1 + "one"; }`,
			"incompatible types",
		},
		{
			"mixed numerics need a cast",
			"module t; func main() { let x = 1 + 2.0; }",
			"incompatible types",
		},
		{
			"unresolved import",
			`module t; import "net" as net; func main() {}`,
			`unresolved import "net"`,
		},
		{
			"unknown intrinsic function",
			`module t; import "io" as io; func main() { io.readAll("x"); }`,
			"undefined: io.readAll",
		},
		{
			"missing struct literal field",
			"module t; struct Point { x: float, y: float } func main() { let p = Point { x: 1.0 }; }",
			"missing field 'y'",
		},
		{
			"unknown struct literal field",
			"module t; struct Point { x: float } func main() { let p = Point { x: 1.0, z: 2.0 }; }",
			"unknown field 'z'",
		},
		{
			"duplicate struct literal field",
			"module t; struct Point { x: float } func main() { let p = Point { x: 1.0, x: 2.0 }; }",
			"duplicate field 'x'",
		},
		{
			"wrong field type",
			"module t; struct Point { x: float } func main() { let p = Point { x: 1 }; }",
			"field 'x' expects float",
		},
		{
			"annotation mismatch",
			`module t; func main() { let x: int = "s"; }`,
			"cannot initialize 'x'",
		},
		{
			"assignment type mismatch",
			`module t; func main() { let x = 1; x = "s"; }`,
			"cannot assign string",
		},
		{
			"bool condition required",
			"module t; func main() { while (1) {} }",
			"must be bool",
		},
		{
			"return type mismatch",
			"module t; func f() -> int { return true; } func main() {}",
			"mismatched return type",
		},
		{
			"missing return value",
			"module t; func f() -> int { return; } func main() {}",
			"missing return value",
		},
		{
			"break outside loop",
			"module t; func main() { break; }",
			"'break' outside loop",
		},
		{
			"continue outside loop",
			"module t; func main() { continue; }",
			"'continue' outside loop",
		},
		{
			"wrong arity",
			"module t; func f(a: int) {} func main() { f(); }",
			"wrong number of arguments",
		},
		{
			"argument type mismatch",
			"module t; func f(a: int) {} func main() { f(true); }",
			"mismatched argument",
		},
		{
			"calling a non-function",
			"module t; func main() { let x = 1; x(); }",
			"not callable",
		},
		{
			"extend of unknown struct",
			"module t; extend Ghost { func f() {} } func main() {}",
			"cannot extend undeclared struct 'Ghost'",
		},
		{
			"unknown type",
			"module t; func f(a: Thing) {} func main() {}",
			"unknown type 'Thing'",
		},
		{
			"no main",
			"module t; func f() {}",
			"",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := checkSource(t, c.src)

			if c.msg == "" {
				// A missing main passes the checker; the entry contract is
				// enforced by the Interpreter facade
				require.NoError(t, err)
				return
			}

			require.Error(t, err)

			var typeErr *TypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}
