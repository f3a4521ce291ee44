package mir

import (
	"fmt"
	"strings"
)

// Source-level types of the MIR-like input. Types are fully monomorphized before they
// reach the code generator, except for ParamTy which Instance.Monomorphize substitutes.

type Ty interface {
	String() string
	isTy()
}

type IntTy struct {
	Signed bool
	Bits   int
	Size   bool // isize/usize spelling
}

type BoolTy struct{}

// TupleTy with no elements is the unit type.
type TupleTy struct {
	Elems []Ty
}

type StructTy struct {
	Def *StructDef
}

type ArrayTy struct {
	Elem Ty
	Len  int
}

type RefTy struct {
	Mut  bool
	Elem Ty
}

type FnPtrTy struct {
	Sig FnSig
}

// FnDefTy is the zero-sized type of a named function item.
type FnDefTy struct {
	Def  *FnDef
	Args []Ty
}

type ClosureTy struct {
	Def    *FnDef
	Args   []Ty
	Upvars []Ty
}

type NeverTy struct{}

// ParamTy refers to the Index-th generic parameter of the enclosing definition.
type ParamTy struct {
	Index int
	Name  string
}

// StructDef is a nominal struct declaration.
type StructDef struct {
	Name   string
	Fields []FieldDef
	Span   Span
}

type FieldDef struct {
	Name string
	Ty   Ty
}

// FnSig is a function signature as seen by callers.
type FnSig struct {
	Inputs    []Ty
	Output    Ty
	CVariadic bool
}

func (*IntTy) isTy()     {}
func (*BoolTy) isTy()    {}
func (*TupleTy) isTy()   {}
func (*StructTy) isTy()  {}
func (*ArrayTy) isTy()   {}
func (*RefTy) isTy()     {}
func (*FnPtrTy) isTy()   {}
func (*FnDefTy) isTy()   {}
func (*ClosureTy) isTy() {}
func (*NeverTy) isTy()   {}
func (*ParamTy) isTy()   {}

var (
	Bool  = &BoolTy{}
	Unit  = &TupleTy{}
	I8    = &IntTy{Signed: true, Bits: 8}
	I16   = &IntTy{Signed: true, Bits: 16}
	I32   = &IntTy{Signed: true, Bits: 32}
	I64   = &IntTy{Signed: true, Bits: 64}
	U8    = &IntTy{Bits: 8}
	U16   = &IntTy{Bits: 16}
	U32   = &IntTy{Bits: 32}
	U64   = &IntTy{Bits: 64}
	Usize = &IntTy{Bits: 64, Size: true}
	Isize = &IntTy{Signed: true, Bits: 64, Size: true}
	Never = &NeverTy{}
)

// Tuple builds a tuple type from its element types.
func Tuple(elems ...Ty) *TupleTy {
	return &TupleTy{Elems: elems}
}

func (i *IntTy) String() string {
	prefix := "u"
	if i.Signed {
		prefix = "i"
	}
	if i.Size {
		return prefix + "size"
	}
	return fmt.Sprintf("%s%d", prefix, i.Bits)
}

func (*BoolTy) String() string { return "bool" }

func (t *TupleTy) String() string {
	if len(t.Elems) == 1 {
		return "(" + t.Elems[0].String() + ",)"
	}
	return "(" + joinTys(t.Elems) + ")"
}

func (s *StructTy) String() string { return s.Def.Name }

func (a *ArrayTy) String() string { return fmt.Sprintf("[%s; %d]", a.Elem, a.Len) }

func (r *RefTy) String() string {
	if r.Mut {
		return "&mut " + r.Elem.String()
	}
	return "&" + r.Elem.String()
}

func (f *FnPtrTy) String() string { return "fn" + f.Sig.String() }

func (f *FnDefTy) String() string {
	return "fn item " + f.Def.Name + genericSuffix(f.Args)
}

func (c *ClosureTy) String() string {
	return "closure " + c.Def.Name + genericSuffix(c.Args)
}

func (*NeverTy) String() string { return "!" }

func (p *ParamTy) String() string { return p.Name }

func (s FnSig) String() string {
	inputs := joinTys(s.Inputs)
	if s.CVariadic {
		if inputs != "" {
			inputs += ", "
		}
		inputs += "..."
	}
	out := ""
	if s.Output != nil && !IsUnit(s.Output) {
		out = " -> " + s.Output.String()
	}
	return "(" + inputs + ")" + out
}

// IsUnit reports whether ty is the empty tuple.
func IsUnit(ty Ty) bool {
	t, ok := ty.(*TupleTy)
	return ok && len(t.Elems) == 0
}

// SameTy compares two types structurally.
func SameTy(a, b Ty) bool {
	return a.String() == b.String()
}

func joinTys(tys []Ty) string {
	parts := make([]string, len(tys))
	for i, t := range tys {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func genericSuffix(args []Ty) string {
	if len(args) == 0 {
		return ""
	}
	return "<" + joinTys(args) + ">"
}
