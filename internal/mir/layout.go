package mir

// Layout queries over monomorphized types. Sizes follow a 64-bit target and ignore
// padding between fields; only relative ordering and zero-sizedness matter to codegen.

const pointerSize = 8

// IsZST reports whether values of ty carry no runtime representation.
func IsZST(ty Ty) bool {
	switch t := ty.(type) {
	case *TupleTy:
		for _, e := range t.Elems {
			if !IsZST(e) {
				return false
			}
		}
		return true
	case *StructTy:
		for _, f := range t.Def.Fields {
			if !IsZST(f.Ty) {
				return false
			}
		}
		return true
	case *ArrayTy:
		return t.Len == 0 || IsZST(t.Elem)
	case *FnDefTy, *NeverTy:
		return true
	case *ClosureTy:
		for _, u := range t.Upvars {
			if !IsZST(u) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// SizeOf returns the size of ty in bytes.
func SizeOf(ty Ty) int {
	switch t := ty.(type) {
	case *IntTy:
		return t.Bits / 8
	case *BoolTy:
		return 1
	case *RefTy, *FnPtrTy:
		return pointerSize
	case *ArrayTy:
		return t.Len * SizeOf(t.Elem)
	case *TupleTy:
		return sumSizes(t.Elems)
	case *StructTy:
		tys := make([]Ty, len(t.Def.Fields))
		for i, f := range t.Def.Fields {
			tys[i] = f.Ty
		}
		return sumSizes(tys)
	case *ClosureTy:
		return sumSizes(t.Upvars)
	default:
		return 0
	}
}

// AlignOf returns the alignment of ty in bytes. Zero-sized types align to 1.
func AlignOf(ty Ty) int {
	switch t := ty.(type) {
	case *IntTy:
		return max(1, t.Bits/8)
	case *RefTy, *FnPtrTy:
		return pointerSize
	case *ArrayTy:
		return AlignOf(t.Elem)
	case *TupleTy:
		return maxAlign(t.Elems)
	case *StructTy:
		tys := make([]Ty, len(t.Def.Fields))
		for i, f := range t.Def.Fields {
			tys[i] = f.Ty
		}
		return maxAlign(tys)
	case *ClosureTy:
		return maxAlign(t.Upvars)
	default:
		return 1
	}
}

func sumSizes(tys []Ty) int {
	total := 0
	for _, t := range tys {
		total += SizeOf(t)
	}
	return total
}

func maxAlign(tys []Ty) int {
	align := 1
	for _, t := range tys {
		align = max(align, AlignOf(t))
	}
	return align
}

// FnClass is the closed classification of a callable instance type. Every consumer
// switches over all four variants.
type FnClass interface {
	fnClass()
}

// FnPointer is a function-pointer type (fn-pointer shims are typed this way).
type FnPointer struct {
	Sig FnSig
}

// FnDefinition is a named function item.
type FnDefinition struct {
	Def *FnDef
	Sig FnSig
}

// ClosureFn is a closure; its arguments are already untupled.
type ClosureFn struct {
	Def *FnDef
	Sig FnSig
}

// NotAFunction is any other type.
type NotAFunction struct {
	Ty Ty
}

func (FnPointer) fnClass()    {}
func (FnDefinition) fnClass() {}
func (ClosureFn) fnClass()    {}
func (NotAFunction) fnClass() {}

// Classify maps an instance type onto its FnClass. The signature of an FnDefinition or
// ClosureFn is the definition's declared signature with the type arguments substituted.
func Classify(ty Ty) FnClass {
	switch t := ty.(type) {
	case *FnPtrTy:
		return FnPointer{Sig: t.Sig}
	case *FnDefTy:
		return FnDefinition{Def: t.Def, Sig: substSig(t.Def.Sig, t.Args)}
	case *ClosureTy:
		return ClosureFn{Def: t.Def, Sig: substSig(t.Def.Sig, t.Args)}
	default:
		return NotAFunction{Ty: ty}
	}
}
