package gotoprog

import "fmt"

// Expr is a typed GOTO expression.
type Expr interface {
	Type() Type
	Location() Location
	setLocation(Location)
}

type located struct {
	loc Location
}

func (l *located) Location() Location       { return l.loc }
func (l *located) setLocation(loc Location) { l.loc = loc }

// WithLocation sets the location of e and returns it.
func WithLocation[E Expr](e E, loc Location) E {
	e.setLocation(loc)
	return e
}

type SymbolExpr struct {
	located
	Identifier string
	Typ        Type
}

type IntConstantExpr struct {
	located
	Value int64
	Typ   Type
}

type BoolConstantExpr struct {
	located
	Value bool
}

type NullPointerExpr struct {
	located
	Typ Type
}

// StructExpr holds one value per component, in the physical component order of the
// struct type.
type StructExpr struct {
	located
	Typ    Type
	Values []Expr
}

type MemberExpr struct {
	located
	Base  Expr
	Field string
	Typ   Type
}

type AddressOfExpr struct {
	located
	Base Expr
}

type DereferenceExpr struct {
	located
	Base Expr
	Typ  Type
}

type BinaryOperator string

const (
	Plus     BinaryOperator = "+"
	Minus    BinaryOperator = "-"
	Mult     BinaryOperator = "*"
	Div      BinaryOperator = "/"
	Mod      BinaryOperator = "%"
	Shl      BinaryOperator = "<<"
	Shr      BinaryOperator = ">>"
	Bitand   BinaryOperator = "&"
	Bitor    BinaryOperator = "|"
	Bitxor   BinaryOperator = "^"
	Equal    BinaryOperator = "=="
	Notequal BinaryOperator = "!="
	Lt       BinaryOperator = "<"
	Le       BinaryOperator = "<="
	Gt       BinaryOperator = ">"
	Ge       BinaryOperator = ">="
	And      BinaryOperator = "&&"
	Or       BinaryOperator = "||"
)

// IsRelational reports whether op yields a boolean.
func (op BinaryOperator) IsRelational() bool {
	switch op {
	case Equal, Notequal, Lt, Le, Gt, Ge, And, Or:
		return true
	}
	return false
}

type BinaryExpr struct {
	located
	Op  BinaryOperator
	Lhs Expr
	Rhs Expr
	Typ Type
}

type UnaryOperator string

const (
	Not        UnaryOperator = "!"
	Bitnot     UnaryOperator = "~"
	UnaryMinus UnaryOperator = "-"
)

type UnaryExpr struct {
	located
	Op      UnaryOperator
	Operand Expr
	Typ     Type
}

type CallExpr struct {
	located
	Function  Expr
	Arguments []Expr
	Typ       Type
}

type TypecastExpr struct {
	located
	Operand Expr
	Typ     Type
}

// ArrayOfExpr is an array whose every element equals Elem.
type ArrayOfExpr struct {
	located
	Elem Expr
	Typ  Type
}

func (e *SymbolExpr) Type() Type       { return e.Typ }
func (e *IntConstantExpr) Type() Type  { return e.Typ }
func (e *BoolConstantExpr) Type() Type { return Bool }
func (e *NullPointerExpr) Type() Type  { return e.Typ }
func (e *StructExpr) Type() Type       { return e.Typ }
func (e *MemberExpr) Type() Type       { return e.Typ }
func (e *AddressOfExpr) Type() Type    { return &PointerType{Elem: e.Base.Type()} }
func (e *DereferenceExpr) Type() Type  { return e.Typ }
func (e *BinaryExpr) Type() Type       { return e.Typ }
func (e *UnaryExpr) Type() Type        { return e.Typ }
func (e *CallExpr) Type() Type         { return e.Typ }
func (e *TypecastExpr) Type() Type     { return e.Typ }
func (e *ArrayOfExpr) Type() Type      { return e.Typ }

// SymbolExpression refers to the symbol called name.
func SymbolExpression(name string, typ Type) *SymbolExpr {
	return &SymbolExpr{Identifier: name, Typ: typ}
}

func IntConstant(value int64, typ Type) *IntConstantExpr {
	return &IntConstantExpr{Value: value, Typ: typ}
}

func BoolConstant(value bool) *BoolConstantExpr {
	return &BoolConstantExpr{Value: value}
}

func True() Expr  { return BoolConstant(true) }
func False() Expr { return BoolConstant(false) }

func Null(typ Type) *NullPointerExpr {
	return &NullPointerExpr{Typ: typ}
}

// NewStructExpr builds a struct value of typ from a map keyed by component name. The
// map is matched against the components recorded in the symbol table, so the result
// does not depend on the physical order of the components. It panics when the keys
// do not cover exactly the components of typ.
func NewStructExpr(typ Type, fields map[string]Expr, st *SymbolTable) *StructExpr {
	components := st.Components(typ)
	if len(components) != len(fields) {
		panic(fmt.Sprintf("struct %s has %d components, got %d values", typ, len(components), len(fields)))
	}
	values := make([]Expr, len(components))
	for i, c := range components {
		v, ok := fields[c.Name]
		if !ok {
			panic(fmt.Sprintf("struct %s: missing value for component %q", typ, c.Name))
		}
		values[i] = v
	}
	return &StructExpr{Typ: typ, Values: values}
}

// Field returns the value given for the component called name.
func (e *StructExpr) Field(name string, st *SymbolTable) (Expr, bool) {
	for i, c := range st.Components(e.Typ) {
		if c.Name == name {
			return e.Values[i], true
		}
	}
	return nil, false
}

// Member selects component field of base. It panics if base has no such component.
func Member(base Expr, field string, st *SymbolTable) *MemberExpr {
	for _, c := range st.Components(base.Type()) {
		if c.Name == field {
			return &MemberExpr{Base: base, Field: field, Typ: c.Type}
		}
	}
	panic(fmt.Sprintf("%s has no component %q", base.Type(), field))
}

func AddressOf(base Expr) *AddressOfExpr {
	return &AddressOfExpr{Base: base}
}

// Deref dereferences a pointer-typed expression.
func Deref(base Expr) *DereferenceExpr {
	ptr, ok := base.Type().(*PointerType)
	if !ok {
		panic(fmt.Sprintf("dereference of non-pointer type %s", base.Type()))
	}
	return &DereferenceExpr{Base: base, Typ: ptr.Elem}
}

// Binary builds lhs op rhs. Relational operators yield Bool, the others the type of lhs.
func Binary(op BinaryOperator, lhs, rhs Expr) *BinaryExpr {
	typ := lhs.Type()
	if op.IsRelational() {
		typ = Bool
	}
	return &BinaryExpr{Op: op, Lhs: lhs, Rhs: rhs, Typ: typ}
}

func Unary(op UnaryOperator, operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, Typ: operand.Type()}
}

// Call applies a code-typed (or pointer-to-code-typed) expression to arguments.
func Call(function Expr, args []Expr) *CallExpr {
	code, ok := function.Type().(*CodeType)
	if !ok {
		if ptr, isPtr := function.Type().(*PointerType); isPtr {
			code, ok = ptr.Elem.(*CodeType)
		}
	}
	if !ok {
		panic(fmt.Sprintf("call of non-function type %s", function.Type()))
	}
	return &CallExpr{Function: function, Arguments: args, Typ: code.ReturnType}
}

// CastTo converts e to typ, returning e unchanged when it already has that type.
func CastTo(e Expr, typ Type) Expr {
	if SameType(e.Type(), typ) {
		return e
	}
	return &TypecastExpr{Operand: e, Typ: typ}
}

func ArrayOf(elem Expr, typ Type) *ArrayOfExpr {
	return &ArrayOfExpr{Elem: elem, Typ: typ}
}

// ZeroInitializer returns the all-zero value of typ, or nil for types without values.
func ZeroInitializer(typ Type, st *SymbolTable) Expr {
	switch t := typ.(type) {
	case *BoolType:
		return False()
	case *SignedbvType, *UnsignedbvType:
		return IntConstant(0, t)
	case *PointerType:
		return Null(t)
	case *ArrayType:
		elem := ZeroInitializer(t.Elem, st)
		if elem == nil {
			return nil
		}
		return ArrayOf(elem, t)
	case *StructType, *StructTagType:
		components := st.Components(t)
		values := make([]Expr, len(components))
		for i, c := range components {
			values[i] = ZeroInitializer(c.Type, st)
			if values[i] == nil {
				return nil
			}
		}
		return &StructExpr{Typ: t, Values: values}
	default:
		return nil
	}
}
