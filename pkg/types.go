package sable

import "strings"

// Type is the static type of an expression. Comparison is structural; the
// language has no subtyping.
type Type interface {
	String() string
	Equals(t2 Type) bool
}

const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeString = "string"
	TypeUnit   = "unit"
)

type BasicType struct {
	Typ string
}

func (t *BasicType) String() string {
	return t.Typ
}

func (t *BasicType) Equals(t2 Type) bool {
	if typ, ok := t2.(*BasicType); ok {
		return t.Typ == typ.Typ
	}

	return false
}

func (t *BasicType) isNumeric() bool {
	return t.Typ == TypeInt || t.Typ == TypeFloat
}

// StructType refers to a declared struct by name. Two struct types are equal
// exactly when their names are.
type StructType struct {
	Name string
}

func (t *StructType) String() string {
	return t.Name
}

func (t *StructType) Equals(t2 Type) bool {
	if typ, ok := t2.(*StructType); ok {
		return t.Name == typ.Name
	}

	return false
}

type FuncType struct {
	Params []Type
	Return Type
}

func (t *FuncType) String() string {
	var str strings.Builder
	str.WriteString("(")

	for i, param := range t.Params {
		str.WriteString(param.String())

		if i != len(t.Params)-1 {
			str.WriteString(", ")
		}
	}

	str.WriteString(") -> ")
	str.WriteString(t.Return.String())

	return str.String()
}

func (t *FuncType) Equals(t2 Type) bool {
	typ, ok := t2.(*FuncType)
	if !ok {
		return false
	}

	if len(t.Params) != len(typ.Params) {
		return false
	}

	for i, param := range t.Params {
		if !param.Equals(typ.Params[i]) {
			return false
		}
	}

	return t.Return.Equals(typ.Return)
}

func isNumeric(t Type) bool {
	if b, ok := t.(*BasicType); ok {
		return b.isNumeric()
	}

	return false
}

func isBasic(t Type, name string) bool {
	if b, ok := t.(*BasicType); ok {
		return b.Typ == name
	}

	return false
}

func isUnit(t Type) bool {
	return isBasic(t, TypeUnit)
}
