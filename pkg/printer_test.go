package sable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrintIdempotence checks that printing a parsed module and reparsing the
// output reaches a fixed point: the second print must equal the first.
func TestPrintIdempotence(t *testing.T) {
	cases := []string{
		`module t;
func main() {}`,

		`module t;
import "io" as io;
func main() {
    io.println("hello");
}`,

		`module t;
func f(a: int, b: int) -> int {
    let x = 1 + 3 * 2;
    let y = (1 + 3) * 2;
    let z = -x;
    return x + y + z;
}
func main() {}`,

		`module t;
struct Point { x: float, y: float }
extend Point {
    func new(nx: float, ny: float) -> Point {
        return Point { x: nx, y: ny };
    }

    func magnitude() -> float {
        return x * x + y * y;
    }
}
func main() {
    let p = Point.new(3.0, 4.0);
}`,

		`module t;
func main() {
    let n = 5;
    while (n > 1) {
        n -= 1;
        if (n % 2 == 0) {
            continue;
        } else if (n == 3) {
            break;
        }
    }
}`,

		`module t;
func main() {
    let add = |a: int, b: int| int {
        return a + b;
    };
    let none = || unit {
        return;
    };
    add(1, 2);
}`,

		`module t;
import "io" as io;
func main() {
    let n = 3;
    io.println("\(n)! = \(n * 2) done");
}`,

		`module t;
func f(cb: (int, int) -> int) -> int {
    return cb(1, 2);
}
func main() {}`,

		`module t;
func main() {
    let n = "42" as int;
    let f = n as float;
    let flag = !true && false || 1 < 2;
}`,
	}

	for _, src := range cases {
		mod, err := parseSource(t, src)
		require.NoError(t, err, "source: %s", src)

		first := PrintModule(mod)

		reparsed, err := parseSource(t, first)
		require.NoError(t, err, "printed output failed to parse:\n%s", first)

		second := PrintModule(reparsed)
		assert.Equal(t, first, second)
	}
}

func TestPrintEscapes(t *testing.T) {
	src := "module t;\nfunc main() {\n    let s = \"line\\nnext\\t\\\"quoted\\\"\";\n}"

	mod, err := parseSource(t, src)
	require.NoError(t, err)

	out := PrintModule(mod)
	assert.True(t, strings.Contains(out, `\n`))
	assert.True(t, strings.Contains(out, `\"`))

	reparsed, err := parseSource(t, out)
	require.NoError(t, err)

	lit := reparsed.Decls[0].(*FuncDecl).Body.Stmts[0].(*LetStmt).Value.(*StringLit)
	assert.Equal(t, "line\nnext\t\"quoted\"", lit.Value)
}
