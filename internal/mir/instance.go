package mir

import "strings"

// DefKind distinguishes the flavours of function definitions.
type DefKind int

const (
	DefFn DefKind = iota
	DefClosure
	DefFnPtrShim
)

func (k DefKind) String() string {
	switch k {
	case DefClosure:
		return "closure"
	case DefFnPtrShim:
		return "shim"
	default:
		return "fn"
	}
}

// FnDef is a (possibly generic) function definition. Body is nil for functions that
// are only declared.
type FnDef struct {
	Name     string
	Krate    string
	Kind     DefKind
	Generics []string
	Sig      FnSig
	Body     *Body
	Span     Span
	Contract FnContract[Instance]
}

// FnContract lists the helper functions implementing the preconditions and
// postconditions attached to a function, in attachment order.
type FnContract[T any] struct {
	Requires []T
	Ensures  []T
}

// IsEmpty reports whether the contract has no clauses.
func (c FnContract[T]) IsEmpty() bool {
	return len(c.Requires) == 0 && len(c.Ensures) == 0
}

// Instance is a fully monomorphized function: a definition plus one type argument per
// generic parameter.
type Instance struct {
	Def  *FnDef
	Args []Ty
}

// Mono creates the instance of def with the given type arguments.
func Mono(def *FnDef, args ...Ty) Instance {
	return Instance{Def: def, Args: args}
}

// Name is the mangled, crate-qualified symbol name of the instance.
func (i Instance) Name() string {
	return i.Def.Krate + "::" + i.ReadableName()
}

// ReadableName is the name without crate prefix.
func (i Instance) ReadableName() string {
	return i.Def.Name + genericSuffixTurbofish(i.Args)
}

func (i Instance) String() string { return i.Name() }

// Body returns the definition's body, or nil when the function is only declared.
func (i Instance) Body() *Body {
	return i.Def.Body
}

// Ty returns the type of the instance as a value.
func (i Instance) Ty() Ty {
	switch i.Def.Kind {
	case DefClosure:
		return &ClosureTy{Def: i.Def, Args: i.Args}
	case DefFnPtrShim:
		return &FnPtrTy{Sig: i.Sig()}
	default:
		return &FnDefTy{Def: i.Def, Args: i.Args}
	}
}

// Sig returns the monomorphized signature of the instance.
func (i Instance) Sig() FnSig {
	return substSig(i.Def.Sig, i.Args)
}

// Monomorphize substitutes the instance's type arguments into ty.
func (i Instance) Monomorphize(ty Ty) Ty {
	return subst(ty, i.Args)
}

// MonomorphizeInstance resolves a callee instance referenced from this instance's body.
func (i Instance) MonomorphizeInstance(callee Instance) Instance {
	if len(callee.Args) == 0 || len(i.Args) == 0 {
		return callee
	}
	args := make([]Ty, len(callee.Args))
	for n, a := range callee.Args {
		args[n] = subst(a, i.Args)
	}
	return Instance{Def: callee.Def, Args: args}
}

// IsGeneric reports whether ty mentions a generic parameter.
func IsGeneric(ty Ty) bool {
	switch t := ty.(type) {
	case *ParamTy:
		return true
	case *TupleTy:
		return anyGeneric(t.Elems)
	case *ArrayTy:
		return IsGeneric(t.Elem)
	case *RefTy:
		return IsGeneric(t.Elem)
	case *FnPtrTy:
		return anyGeneric(t.Sig.Inputs) || (t.Sig.Output != nil && IsGeneric(t.Sig.Output))
	case *FnDefTy:
		return anyGeneric(t.Args)
	case *ClosureTy:
		return anyGeneric(t.Args) || anyGeneric(t.Upvars)
	default:
		return false
	}
}

func anyGeneric(tys []Ty) bool {
	for _, t := range tys {
		if IsGeneric(t) {
			return true
		}
	}
	return false
}

func subst(ty Ty, args []Ty) Ty {
	if len(args) == 0 || ty == nil {
		return ty
	}
	switch t := ty.(type) {
	case *ParamTy:
		if t.Index < len(args) {
			return args[t.Index]
		}
		return t
	case *TupleTy:
		return &TupleTy{Elems: substAll(t.Elems, args)}
	case *ArrayTy:
		return &ArrayTy{Elem: subst(t.Elem, args), Len: t.Len}
	case *RefTy:
		return &RefTy{Mut: t.Mut, Elem: subst(t.Elem, args)}
	case *FnPtrTy:
		return &FnPtrTy{Sig: substSig(t.Sig, args)}
	case *FnDefTy:
		return &FnDefTy{Def: t.Def, Args: substAll(t.Args, args)}
	case *ClosureTy:
		return &ClosureTy{Def: t.Def, Args: substAll(t.Args, args), Upvars: substAll(t.Upvars, args)}
	default:
		return ty
	}
}

func substAll(tys []Ty, args []Ty) []Ty {
	if tys == nil {
		return nil
	}
	out := make([]Ty, len(tys))
	for i, t := range tys {
		out[i] = subst(t, args)
	}
	return out
}

func substSig(sig FnSig, args []Ty) FnSig {
	return FnSig{
		Inputs:    substAll(sig.Inputs, args),
		Output:    subst(sig.Output, args),
		CVariadic: sig.CVariadic,
	}
}

func genericSuffixTurbofish(args []Ty) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return "::<" + strings.Join(parts, ", ") + ">"
}

// Crate is a parsed compilation unit.
type Crate struct {
	Name    string
	Structs []*StructDef
	Fns     []*FnDef
}

// Fn looks up a function definition by name.
func (c *Crate) Fn(name string) *FnDef {
	for _, fn := range c.Fns {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Struct looks up a struct definition by name.
func (c *Crate) Struct(name string) *StructDef {
	for _, s := range c.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// TypeLength counts the type nodes in the instance's type arguments, stopping once
// the count exceeds limit. Substitution shares subtrees, so the full count can be
// exponential in the size of the arguments.
func (i Instance) TypeLength(limit int) int {
	n := 0
	var walk func(ty Ty)
	walkAll := func(tys []Ty) {
		for _, t := range tys {
			if n > limit {
				return
			}
			walk(t)
		}
	}
	walk = func(ty Ty) {
		if ty == nil || n > limit {
			return
		}
		n++
		switch t := ty.(type) {
		case *TupleTy:
			walkAll(t.Elems)
		case *ArrayTy:
			walk(t.Elem)
		case *RefTy:
			walk(t.Elem)
		case *FnPtrTy:
			walkAll(t.Sig.Inputs)
			walk(t.Sig.Output)
		case *FnDefTy:
			walkAll(t.Args)
		case *ClosureTy:
			walkAll(t.Args)
			walkAll(t.Upvars)
		}
	}
	walkAll(i.Args)
	return n
}
