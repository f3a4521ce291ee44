package codegen

import (
	"sort"
	"strconv"

	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"
)

type typeLowerer struct {
	st *gotoprog.SymbolTable
}

// NewTypeLowerer returns the default type lowering. Tuples, structs, closures and
// function items become tagged structs registered in st; their components are laid
// out by decreasing alignment, so positional order and physical order differ.
func NewTypeLowerer(st *gotoprog.SymbolTable) TypeLowerer {
	return &typeLowerer{st: st}
}

func (tl *typeLowerer) LowerType(ty mir.Ty) gotoprog.Type {
	switch t := ty.(type) {
	case *mir.BoolTy:
		return gotoprog.Bool
	case *mir.IntTy:
		if t.Signed {
			return gotoprog.Signed(t.Bits)
		}
		return gotoprog.Unsigned(t.Bits)
	case *mir.TupleTy:
		fields := make([]mir.FieldDef, len(t.Elems))
		for i, elem := range t.Elems {
			fields[i] = mir.FieldDef{Name: strconv.Itoa(i), Ty: elem}
		}
		return tl.aggregate("tuple"+t.String(), fields)
	case *mir.StructTy:
		return tl.aggregate(t.Def.Name, t.Def.Fields)
	case *mir.ArrayTy:
		return &gotoprog.ArrayType{Elem: tl.LowerType(t.Elem), Size: t.Len}
	case *mir.RefTy:
		return &gotoprog.PointerType{Elem: tl.LowerType(t.Elem)}
	case *mir.FnPtrTy:
		return &gotoprog.PointerType{Elem: tl.codeType(t.Sig)}
	case *mir.FnDefTy:
		return tl.aggregate("fn-item "+t.String(), nil)
	case *mir.ClosureTy:
		fields := make([]mir.FieldDef, len(t.Upvars))
		for i, up := range t.Upvars {
			fields[i] = mir.FieldDef{Name: strconv.Itoa(i), Ty: up}
		}
		return tl.aggregate("closure "+t.String(), fields)
	case *mir.NeverTy:
		return gotoprog.Empty
	case *mir.ParamTy:
		bug("", "generic parameter %s reached type lowering", t.Name)
	default:
		bug("", "cannot lower type %s", ty)
	}
	return nil
}

// aggregate registers tag on first use and returns a reference to it.
func (tl *typeLowerer) aggregate(tag string, fields []mir.FieldDef) gotoprog.Type {
	if !tl.st.Contains(gotoprog.TypeSymbolName(tag)) {
		ordered := make([]mir.FieldDef, len(fields))
		copy(ordered, fields)
		sort.SliceStable(ordered, func(i, j int) bool {
			return mir.AlignOf(ordered[i].Ty) > mir.AlignOf(ordered[j].Ty)
		})
		components := make([]gotoprog.Component, len(ordered))
		for i, f := range ordered {
			components[i] = gotoprog.Component{Name: f.Name, Type: tl.LowerType(f.Ty)}
		}
		tl.st.Insert(gotoprog.AggregateType(tag, components, gotoprog.NoLocation))
	}
	return &gotoprog.StructTagType{Tag: tag}
}

// codeType lowers a signature for use behind a function pointer. Parameters are
// unnamed and zero-sized ones are dropped.
func (tl *typeLowerer) codeType(sig mir.FnSig) *gotoprog.CodeType {
	code := &gotoprog.CodeType{ReturnType: tl.returnType(sig.Output), Variadic: sig.CVariadic}
	for _, in := range sig.Inputs {
		if mir.IsZST(in) {
			continue
		}
		code.Parameters = append(code.Parameters, gotoprog.Parameter{Type: tl.LowerType(in)})
	}
	return code
}

func (tl *typeLowerer) returnType(out mir.Ty) gotoprog.Type {
	if out == nil || mir.IsZST(out) {
		return gotoprog.Empty
	}
	return tl.LowerType(out)
}

// fnTyp is the code type of inst as emitted: zero-sized parameters are dropped and a
// spread tuple is replaced by its components.
func (ctx *Ctx) fnTyp(inst mir.Instance) *gotoprog.CodeType {
	sig := inst.Sig()
	name := inst.Name()
	body := inst.Body()
	code := &gotoprog.CodeType{ReturnType: ctx.fnReturnType(sig.Output), Variadic: sig.CVariadic}

	for i, in := range sig.Inputs {
		lc := mir.Local(i + 1)
		if body != nil && body.SpreadArg != nil && *body.SpreadArg == lc {
			tup, ok := in.(*mir.TupleTy)
			if !ok {
				bug(inst.ReadableName(), "spread argument %s has non-tuple type %s", lc, in)
			}
			for j, elem := range tup.Elems {
				if mir.IsZST(elem) {
					continue
				}
				slot := mir.Local(body.ArgCount + 1 + j)
				code.Parameters = append(code.Parameters, gotoprog.Parameter{
					Identifier: spreadArgName(name, slot),
					BaseName:   spreadArgBaseName(slot),
					Type:       ctx.codegenTy(elem),
				})
			}
			continue
		}
		if mir.IsZST(in) {
			continue
		}
		code.Parameters = append(code.Parameters, gotoprog.Parameter{
			Identifier: varName(name, lc),
			BaseName:   varBaseName(lc),
			Type:       ctx.codegenTy(in),
		})
	}
	return code
}

func (ctx *Ctx) fnReturnType(out mir.Ty) gotoprog.Type {
	if out == nil || mir.IsZST(out) {
		return gotoprog.Empty
	}
	return ctx.codegenTy(out)
}
