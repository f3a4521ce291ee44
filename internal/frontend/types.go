package frontend

import (
	"sort"

	"gotoc/grammar"
	"gotoc/internal/errors"
	"gotoc/internal/mir"
)

var builtinTypes = map[string]mir.Ty{
	"bool":  mir.Bool,
	"i8":    mir.I8,
	"i16":   mir.I16,
	"i32":   mir.I32,
	"i64":   mir.I64,
	"isize": mir.Isize,
	"u8":    mir.U8,
	"u16":   mir.U16,
	"u32":   mir.U32,
	"u64":   mir.U64,
	"usize": mir.Usize,
}

// resolveType maps a written type onto the source IR. generics are the type
// parameters in scope, in declaration order. Errors are recorded and reported as
// ok == false.
func (l *lowerer) resolveType(t *grammar.Type, generics []string) (mir.Ty, bool) {
	switch {
	case t.Ref != nil:
		elem, ok := l.resolveType(t.Ref.Elem, generics)
		if !ok {
			return nil, false
		}
		return &mir.RefTy{Mut: t.Ref.Mut, Elem: elem}, true

	case t.Tuple != nil:
		elems := t.Tuple.Elems
		if len(elems) == 1 && !elems[0].Comma {
			return l.resolveType(elems[0].Type, generics)
		}
		tys, ok := l.resolveTypes(elems, generics)
		if !ok {
			return nil, false
		}
		return mir.Tuple(tys...), true

	case t.Array != nil:
		elem, ok := l.resolveType(t.Array.Elem, generics)
		if !ok {
			return nil, false
		}
		if t.Array.Len < 0 {
			l.addError(errors.InvalidOperand("array length must not be negative", position(t.Pos)))
			return nil, false
		}
		return &mir.ArrayTy{Elem: elem, Len: t.Array.Len}, true

	case t.FnPtr != nil:
		inputs, ok := l.resolveTypes(t.FnPtr.Params, generics)
		if !ok {
			return nil, false
		}
		var output mir.Ty = mir.Unit
		if t.FnPtr.Ret != nil {
			if output, ok = l.resolveType(t.FnPtr.Ret, generics); !ok {
				return nil, false
			}
		}
		return &mir.FnPtrTy{Sig: mir.FnSig{Inputs: inputs, Output: output}}, true

	case t.Never:
		return mir.Never, true
	}

	for i, g := range generics {
		if g == t.Name {
			return &mir.ParamTy{Index: i, Name: g}, true
		}
	}
	if ty, ok := builtinTypes[t.Name]; ok {
		return ty, true
	}
	if def, ok := l.structs[t.Name]; ok {
		return &mir.StructTy{Def: def}, true
	}
	l.addError(errors.UnknownType(t.Name, position(t.Pos), l.typeNames(generics)))
	return nil, false
}

func (l *lowerer) resolveTypes(elems []*grammar.TupleElem, generics []string) ([]mir.Ty, bool) {
	tys := make([]mir.Ty, 0, len(elems))
	ok := true
	for _, e := range elems {
		ty, resolved := l.resolveType(e.Type, generics)
		if !resolved {
			ok = false
			continue
		}
		tys = append(tys, ty)
	}
	return tys, ok
}

// typeNames lists every name a type may be spelled with, for suggestions.
func (l *lowerer) typeNames(generics []string) []string {
	names := make([]string, 0, len(builtinTypes)+len(l.structs)+len(generics))
	for name := range builtinTypes {
		names = append(names, name)
	}
	for name := range l.structs {
		names = append(names, name)
	}
	names = append(names, generics...)
	sort.Strings(names)
	return names
}
