package gotoprog

import (
	"fmt"
	"strings"
)

// Type is a GOTO program type.
type Type interface {
	String() string
	isType()
}

type BoolType struct{}

type SignedbvType struct {
	Width int
}

type UnsignedbvType struct {
	Width int
}

// Component is one named member of a struct type.
type Component struct {
	Name string
	Type Type
}

// StructType is a complete struct layout. Components are in physical order, which
// need not match declaration order.
type StructType struct {
	Tag        string
	Components []Component
}

// StructTagType refers to a struct type registered in the symbol table.
type StructTagType struct {
	Tag string
}

type PointerType struct {
	Elem Type
}

type ArrayType struct {
	Elem Type
	Size int
}

// Parameter is a formal parameter of a code type or a bound variable of a lambda.
type Parameter struct {
	Identifier string
	BaseName   string
	Type       Type
}

// CodeType is the type of a function.
type CodeType struct {
	Parameters []Parameter
	ReturnType Type
	Variadic   bool
}

// EmptyType is C's void.
type EmptyType struct{}

func (*BoolType) isType()       {}
func (*SignedbvType) isType()   {}
func (*UnsignedbvType) isType() {}
func (*StructType) isType()     {}
func (*StructTagType) isType()  {}
func (*PointerType) isType()    {}
func (*ArrayType) isType()      {}
func (*CodeType) isType()       {}
func (*EmptyType) isType()      {}

var (
	Bool  Type = &BoolType{}
	Empty Type = &EmptyType{}
)

func Signed(width int) Type   { return &SignedbvType{Width: width} }
func Unsigned(width int) Type { return &UnsignedbvType{Width: width} }

func (*BoolType) String() string         { return "_Bool" }
func (t *SignedbvType) String() string   { return fmt.Sprintf("int%d_t", t.Width) }
func (t *UnsignedbvType) String() string { return fmt.Sprintf("uint%d_t", t.Width) }
func (t *StructType) String() string     { return "struct " + t.Tag }
func (t *StructTagType) String() string  { return "struct " + t.Tag }
func (t *PointerType) String() string    { return t.Elem.String() + " *" }
func (t *ArrayType) String() string      { return fmt.Sprintf("%s[%d]", t.Elem, t.Size) }
func (*EmptyType) String() string        { return "void" }

func (t *CodeType) String() string {
	params := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		params[i] = p.Type.String()
	}
	if t.Variadic {
		params = append(params, "...")
	}
	return fmt.Sprintf("%s (%s)", t.ReturnType, strings.Join(params, ", "))
}

// Tag returns the struct tag of t, or "" when t is not a struct.
func Tag(t Type) string {
	switch s := t.(type) {
	case *StructType:
		return s.Tag
	case *StructTagType:
		return s.Tag
	}
	return ""
}

// SameType compares two types structurally. Struct types compare by tag.
func SameType(a, b Type) bool {
	if tag := Tag(a); tag != "" {
		return tag == Tag(b)
	}
	return a.String() == b.String()
}

// IsInteger reports whether t is a bit-vector type.
func IsInteger(t Type) bool {
	switch t.(type) {
	case *SignedbvType, *UnsignedbvType:
		return true
	}
	return false
}
