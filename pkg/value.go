package sable

import "strconv"

// Value is a runtime value. Display renders it the way string interpolation
// and io.print show it.
type Value interface {
	Display() string
}

type IntValue struct {
	V int64
}

func (v *IntValue) Display() string {
	return strconv.FormatInt(v.V, 10)
}

type FloatValue struct {
	V float64
}

func (v *FloatValue) Display() string {
	return strconv.FormatFloat(v.V, 'g', -1, 64)
}

type BoolValue struct {
	V bool
}

func (v *BoolValue) Display() string {
	return strconv.FormatBool(v.V)
}

type StringValue struct {
	V string
}

func (v *StringValue) Display() string {
	return v.V
}

type UnitValue struct{}

func (v *UnitValue) Display() string {
	return "unit"
}

// StructValue is a struct instance. Fields is shared by reference: bindings
// copied into a method scope write back into the same map.
type StructValue struct {
	Def    *StructDef
	Fields map[string]Value
}

func (v *StructValue) Display() string {
	out := v.Def.Name + " {"
	for i, field := range v.Def.Fields {
		if i > 0 {
			out += ","
		}

		out += " " + field.Name + ": " + v.Fields[field.Name].Display()
	}

	return out + " }"
}

// FuncValue is a user function or closure paired with its defining
// environment.
type FuncValue struct {
	Decl *FuncDecl
	Env  *Environment
}

func (v *FuncValue) Display() string {
	if v.Decl.Name == "" {
		return "<closure>"
	}

	return "<func " + v.Decl.Name + ">"
}

// MethodValue binds an extend-block method to a receiver instance. A nil
// receiver marks a static call through the struct name.
type MethodValue struct {
	Def    *StructDef
	Method *FuncDecl
	Recv   *StructValue
}

func (v *MethodValue) Display() string {
	return "<method " + v.Def.Name + "." + v.Method.Name + ">"
}

// NativeFuncValue is an intrinsic implemented by the host.
type NativeFuncValue struct {
	Fn *IntrinsicFunc
}

func (v *NativeFuncValue) Display() string {
	return "<intrinsic " + v.Fn.Name + ">"
}

// Environment maps names to values. Environments chain through a parent and
// are captured by reference, so a closure observes later mutations of the
// bindings it closed over.
type Environment struct {
	vals   map[string]Value
	parent *Environment
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		vals:   make(map[string]Value),
		parent: parent,
	}
}

// Set creates or overwrites a binding in this environment.
func (e *Environment) Set(name string, v Value) {
	e.vals[name] = v
}

func (e *Environment) Get(name string) (Value, bool) {
	if v, contains := e.vals[name]; contains {
		return v, true
	}

	if e.parent != nil {
		return e.parent.Get(name)
	}

	return nil, false
}

// Assign rebinds an existing name in the environment that declared it.
func (e *Environment) Assign(name string, v Value) bool {
	if _, contains := e.vals[name]; contains {
		e.vals[name] = v
		return true
	}

	if e.parent != nil {
		return e.parent.Assign(name, v)
	}

	return false
}
