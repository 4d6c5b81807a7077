/*
File    : mana/types/types.go
*/

// Package types holds the semantic Type representation. All integer widths
// collapse to one semantic integer category (and both float widths to one
// float category) for type compatibility; the original spelling survives in
// OriginalName and is honored only at emission.
package types

import "strconv"

// Kind tags a semantic Type value.
type Kind int

const (
	Void Kind = iota
	Int
	Float
	Bool
	String
	Char
	Struct
	Enum
	Array
	Tuple
	Pointer
	Reference
	MutReference
	Function
	Unknown
)

// Type is the semantic type of an expression or binding. Name-shaped kinds
// (struct, enum, tuple, function) carry their identity in StructName;
// element-shaped kinds (array, pointer, references) carry the element type
// spelling in ElementType.
type Type struct {
	Kind         Kind
	StructName   string // struct/enum name; "(T1, T2)" for tuples; "fn(..) -> R" for functions
	ElementType  string // element/pointee/referent type text; function return type
	ArraySize    int    // fixed array length (0 = dynamic)
	OriginalName string // original spelling, e.g. "i64" when Kind is Int
}

// Constructors for the fixed types.

func MakeInt(spelling string) Type   { return Type{Kind: Int, OriginalName: spelling} }
func MakeFloat(spelling string) Type { return Type{Kind: Float, OriginalName: spelling} }
func I32() Type                      { return MakeInt("i32") }
func I64() Type                      { return MakeInt("i64") }
func F32() Type                      { return MakeFloat("f32") }
func F64() Type                      { return MakeFloat("f64") }
func Boolean() Type                  { return Type{Kind: Bool} }
func Str() Type                      { return Type{Kind: String} }
func CharType() Type                 { return Type{Kind: Char} }
func VoidType() Type                 { return Type{Kind: Void} }
func UnknownType() Type              { return Type{Kind: Unknown} }

// MakeStruct builds a struct type by name, keeping any generic-argument
// text that was present in the source spelling.
func MakeStruct(name string) Type { return Type{Kind: Struct, StructName: name} }

// MakeEnum builds an enum type by name.
func MakeEnum(name string) Type { return Type{Kind: Enum, StructName: name} }

// MakeArray builds an array type; size 0 means dynamic.
func MakeArray(element string, size int) Type {
	return Type{Kind: Array, ElementType: element, ArraySize: size}
}

// MakeTuple builds a tuple type from its "(T1, T2, ...)" spelling.
func MakeTuple(elements string) Type { return Type{Kind: Tuple, StructName: elements} }

// MakePointer builds *T.
func MakePointer(pointee string) Type { return Type{Kind: Pointer, ElementType: pointee} }

// MakeReference builds &T.
func MakeReference(referent string) Type { return Type{Kind: Reference, ElementType: referent} }

// MakeMutReference builds &mut T.
func MakeMutReference(referent string) Type {
	return Type{Kind: MutReference, ElementType: referent}
}

// MakeFunction builds a function type from the joined parameter-type text
// and the return type; ElementType keeps the return type for easy access.
func MakeFunction(paramTypes, returnType string) Type {
	return Type{
		Kind:        Function,
		StructName:  "fn(" + paramTypes + ") -> " + returnType,
		ElementType: returnType,
	}
}

// Equals compares two types for semantic identity. Integer widths (and
// float widths) are interchangeable.
func (t Type) Equals(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Struct, Enum, Tuple, Function:
		return t.StructName == o.StructName
	case Array:
		return t.ElementType == o.ElementType && t.ArraySize == o.ArraySize
	case Pointer, Reference, MutReference:
		return t.ElementType == o.ElementType
	}
	return true
}

// IsNumeric reports whether the type is an integer or float.
func (t Type) IsNumeric() bool { return t.Kind == Int || t.Kind == Float }

// IsUnknown reports whether the type is the silently-absorbing unknown.
func (t Type) IsUnknown() bool { return t.Kind == Unknown }

// Name returns the source spelling of the type.
func (t Type) Name() string {
	switch t.Kind {
	case Void:
		return "void"
	case Int:
		if t.OriginalName == "" {
			return "i32"
		}
		return t.OriginalName
	case Float:
		if t.OriginalName == "" {
			return "f32"
		}
		return t.OriginalName
	case Bool:
		return "bool"
	case String:
		return "string"
	case Char:
		return "char"
	case Struct, Enum, Tuple, Function:
		return t.StructName
	case Array:
		return "[" + strconv.Itoa(t.ArraySize) + "]" + t.ElementType
	case Pointer:
		return "*" + t.ElementType
	case Reference:
		return "&" + t.ElementType
	case MutReference:
		return "&mut " + t.ElementType
	}
	if t.StructName != "" {
		return t.StructName
	}
	return "<unknown>"
}
