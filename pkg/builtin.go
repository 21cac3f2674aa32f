package sable

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// IntrinsicFunc is a host-provided function exposed to scripts through an
// imported intrinsic module. Impl receives already type-checked arguments.
type IntrinsicFunc struct {
	Name string
	Type *FuncType
	Impl func(ev *Evaluator, args []Value) (Value, error)
}

// IntrinsicModule is a named group of intrinsic functions, addressed by the
// import path of an import declaration.
type IntrinsicModule struct {
	Path  string
	Funcs map[string]*IntrinsicFunc
}

// LookupIntrinsic resolves an import path to its intrinsic module. Only "io"
// and "math" exist; every other path is an unresolved import.
func LookupIntrinsic(path string) (*IntrinsicModule, bool) {
	m, contains := intrinsics[path]
	return m, contains
}

var intrinsics = map[string]*IntrinsicModule{
	"io": {
		Path: "io",
		Funcs: map[string]*IntrinsicFunc{
			"print": {
				Name: "print",
				Type: &FuncType{
					Params: []Type{&BasicType{TypeString}},
					Return: &BasicType{TypeUnit},
				},
				Impl: ioPrint,
			},
			"println": {
				Name: "println",
				Type: &FuncType{
					Params: []Type{&BasicType{TypeString}},
					Return: &BasicType{TypeUnit},
				},
				Impl: ioPrintln,
			},
			"input": {
				Name: "input",
				Type: &FuncType{
					Params: []Type{&BasicType{TypeString}},
					Return: &BasicType{TypeString},
				},
				Impl: ioInput,
			},
		},
	},
	"math": {
		Path: "math",
		Funcs: map[string]*IntrinsicFunc{
			"sqrt": {
				Name: "sqrt",
				Type: &FuncType{
					Params: []Type{&BasicType{TypeFloat}},
					Return: &BasicType{TypeFloat},
				},
				Impl: mathSqrt,
			},
		},
	},
}

func ioPrint(ev *Evaluator, args []Value) (Value, error) {
	fmt.Fprint(ev.stdout, args[0].Display())
	return &UnitValue{}, nil
}

func ioPrintln(ev *Evaluator, args []Value) (Value, error) {
	fmt.Fprintln(ev.stdout, args[0].Display())
	return &UnitValue{}, nil
}

// ioInput writes the prompt, then reads one line from the evaluator's stdin.
// The trailing newline is stripped. EOF with no pending input yields an empty
// string.
func ioInput(ev *Evaluator, args []Value) (Value, error) {
	fmt.Fprint(ev.stdout, args[0].Display())

	line, err := ev.stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, &RuntimeError{Msg: fmt.Sprintf("input failed: %v", err)}
	}

	line = strings.TrimRight(line, "\r\n")
	return &StringValue{V: line}, nil
}

func mathSqrt(ev *Evaluator, args []Value) (Value, error) {
	f := args[0].(*FloatValue)
	return &FloatValue{V: math.Sqrt(f.V)}, nil
}
