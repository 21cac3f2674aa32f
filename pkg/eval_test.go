package sable

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSource interprets a program with the given stdin, returning everything
// it wrote to stdout.
func runSource(t *testing.T, src, stdin string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	interp := NewInterpreter(
		WithStdin(strings.NewReader(stdin)),
		WithStdout(&out),
	)

	err := interp.RunFromReader(strings.NewReader(src))
	return out.String(), err
}

func runFile(t *testing.T, path, stdin string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	interp := NewInterpreter(
		WithStdin(strings.NewReader(stdin)),
		WithStdout(&out),
	)

	err := interp.Run(path)
	return out.String(), err
}

func TestFactorial(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{"5\n", "5! = 120"},
		{"1\n", "1! = 1"},
		// The accumulator starts at n, so 0 never reaches the loop and 0!
		// comes out as 0
		{"0\n", "0! = 0"},
	}

	for _, c := range cases {
		out, err := runFile(t, "../testdata/factorial.sb", c.input)
		require.NoError(t, err)
		assert.Equal(t, "n: "+c.expect+"\n", out)
	}
}

func TestClosureProgram(t *testing.T) {
	out, err := runFile(t, "../testdata/closure.sb", "")
	require.NoError(t, err)
	assert.Equal(t, "1 + 2 = 3\n", out)
}

func TestPointProgram(t *testing.T) {
	out, err := runFile(t, "../testdata/point.sb", "")
	require.NoError(t, err)
	assert.Equal(t, "magnitude: 5\n", out)
}

func TestDeterminism(t *testing.T) {
	first, err := runFile(t, "../testdata/factorial.sb", "7\n")
	require.NoError(t, err)

	second, err := runFile(t, "../testdata/factorial.sb", "7\n")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClosureCapturesByReference(t *testing.T) {
	src := `module t;
import "io" as io;
func main() {
    let n = 1;
    let show = || unit {
        io.println("\(n)");
    };
    n = 2;
    show();
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestClosureMutatesCapture(t *testing.T) {
	src := `module t;
import "io" as io;
func main() {
    let n = 0;
    let bump = || unit {
        n += 1;
    };
    bump();
    bump();
    io.println("\(n)");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestCasts(t *testing.T) {
	src := `module t;
import "io" as io;
func main() {
    let n = "42" as int;
    let f = n as float;
    let back = 3.9 as int;
    io.println("\(n) \(f) \(back)");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "42 42 3\n", out)
}

func TestCastToString(t *testing.T) {
	src := `module t;
import "io" as io;
func main() {
    let a = 7 as string;
    let b = 2.5 as string;
    let c = true as string;
    io.println("\(a) \(b) \(c)");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "7 2.5 true\n", out)
}

// Only basic values stringify; a struct has no string conversion.
func TestCastStructToString(t *testing.T) {
	src := `module t;
struct Point { x: int }
func main() {
    let p = Point { x: 1 };
    let s = p as string;
}`

	_, err := runSource(t, src, "")
	require.Error(t, err)

	var runtimeErr *RuntimeError
	require.ErrorAs(t, err, &runtimeErr)
	assert.Contains(t, err.Error(), "invalid cast")
}

func TestInvalidCast(t *testing.T) {
	src := `module t;
func main() {
    let n = "abc" as int;
}`

	_, err := runSource(t, src, "")
	require.Error(t, err)

	var runtimeErr *RuntimeError
	require.ErrorAs(t, err, &runtimeErr)
	assert.Contains(t, err.Error(), "invalid cast")
}

func TestDivisionByZero(t *testing.T) {
	src := `module t;
func main() {
    let z = 0;
    let n = 1 / z;
}`

	_, err := runSource(t, src, "")
	require.Error(t, err)

	var runtimeErr *RuntimeError
	assert.ErrorAs(t, err, &runtimeErr)
}

func TestWhileControlFlow(t *testing.T) {
	src := `module t;
import "io" as io;
func main() {
    let i = 0;
    let total = 0;
    while (i < 10) {
        i += 1;
        if (i % 2 == 0) {
            continue;
        }
        if (i > 7) {
            break;
        }
        total += i;
    }
    io.println("\(total)");
}`

	// 1 + 3 + 5 + 7, then 9 breaks out
	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "16\n", out)
}

func TestIfElseChain(t *testing.T) {
	src := `module t;
import "io" as io;
func grade(n: int) -> string {
    if (n >= 90) {
        return "A";
    } else if (n >= 80) {
        return "B";
    } else {
        return "C";
    }
}
func main() {
    io.println("\(grade(95))\(grade(85))\(grade(10))");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "ABC\n", out)
}

func TestMethodWritesBackToReceiver(t *testing.T) {
	src := `module t;
import "io" as io;
struct Counter { count: int }
extend Counter {
    func bump() {
        count += 1;
    }
}
func main() {
    let c = Counter { count: 0 };
    c.bump();
    c.bump();
    io.println("\(c.count)");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestStaticMethodSeesZeroedFields(t *testing.T) {
	src := `module t;
import "io" as io;
struct Point { x: float, y: float }
extend Point {
    func origin() -> Point {
        return Point { x, y };
    }
}
func main() {
    let p = Point.origin();
    io.println("\(p.x) \(p.y)");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "0 0\n", out)
}

// A self-referential struct has no finite zero value, so building the static
// receiver for S.f() would never terminate. The checker must reject the
// declaration before evaluation starts.
func TestRecursiveStructRejectedBeforeEval(t *testing.T) {
	src := `module t;
struct S { next: S }
extend S {
    func f() -> int {
        return 1;
    }
}
func main() {
    S.f();
}`

	_, err := runSource(t, src, "")
	require.Error(t, err)

	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Contains(t, err.Error(), "invalid recursive struct 'S'")
}

func TestMethodCallsSibling(t *testing.T) {
	src := `module t;
import "io" as io;
struct Pair { a: int, b: int }
extend Pair {
    func sum() -> int {
        return a + b;
    }

    func doubled() -> int {
        return sum() * 2;
    }
}
func main() {
    let p = Pair { a: 2, b: 3 };
    io.println("\(p.doubled())");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestInterpolationFormatting(t *testing.T) {
	src := `module t;
import "io" as io;
func main() {
    let i = 42;
    let f = 2.5;
    let b = true;
    let s = "str";
    io.println("\(i)|\(f)|\(b)|\(s)");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "42|2.5|true|str\n", out)
}

func TestShortCircuit(t *testing.T) {
	src := `module t;
import "io" as io;
func loud(v: bool) -> bool {
    io.print("!");
    return v;
}
func main() {
    let a = false && loud(true);
    let b = true || loud(true);
    io.println("\(a) \(b)");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "false true\n", out)
}

func TestRecursion(t *testing.T) {
	src := `module t;
import "io" as io;
func fib(n: int) -> int {
    if (n < 2) {
        return n;
    }
    return fib(n - 1) + fib(n - 2);
}
func main() {
    io.println("\(fib(10))");
}`

	out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestEntrypointContract(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{
			"missing main",
			"module t; func helper() {}",
			"no 'main' function",
		},
		{
			"main with parameters",
			"module t; func main(n: int) {}",
			"must take no parameters",
		},
		{
			"main with return value",
			"module t; func main() -> int { return 1; }",
			"must return unit",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := runSource(t, c.src, "")
			require.Error(t, err)

			var typeErr *TypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}
