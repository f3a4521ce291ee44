package mir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsZST(t *testing.T) {
	empty := &StructDef{Name: "Marker"}
	point := &StructDef{Name: "Point", Fields: []FieldDef{{Name: "x", Ty: I32}, {Name: "y", Ty: I32}}}
	def := &FnDef{Name: "f", Krate: "demo"}

	tests := []struct {
		ty   Ty
		want bool
	}{
		{Unit, true},
		{Tuple(Unit, Unit), true},
		{Tuple(U8, U64), false},
		{&StructTy{Def: empty}, true},
		{&StructTy{Def: point}, false},
		{&ArrayTy{Elem: I32, Len: 0}, true},
		{&ArrayTy{Elem: Unit, Len: 4}, true},
		{&ArrayTy{Elem: I32, Len: 4}, false},
		{&FnDefTy{Def: def}, true},
		{&ClosureTy{Def: def}, true},
		{&ClosureTy{Def: def, Upvars: []Ty{&RefTy{Elem: I32}}}, false},
		{Never, true},
		{I32, false},
		{Bool, false},
		{&RefTy{Elem: Unit}, false},
		{&FnPtrTy{Sig: FnSig{Output: Unit}}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsZST(tt.ty), "IsZST(%s)", tt.ty)
	}
}

func TestSizeAndAlign(t *testing.T) {
	assert.Equal(t, 9, SizeOf(Tuple(U8, U64)))
	assert.Equal(t, 8, AlignOf(Tuple(U8, U64)))
	assert.Equal(t, 1, AlignOf(Unit))
	assert.Equal(t, 0, SizeOf(Unit))
	assert.Equal(t, 16, SizeOf(&ArrayTy{Elem: I32, Len: 4}))
	assert.Equal(t, 8, SizeOf(&RefTy{Elem: U8}))
}

func TestClassify(t *testing.T) {
	generic := &FnDef{
		Name:     "id",
		Krate:    "demo",
		Generics: []string{"T"},
		Sig:      FnSig{Inputs: []Ty{&ParamTy{Index: 0, Name: "T"}}, Output: &ParamTy{Index: 0, Name: "T"}},
	}
	closure := &FnDef{Name: "c", Krate: "demo", Kind: DefClosure, Sig: FnSig{Inputs: []Ty{Unit, I32}, Output: I32}}
	shim := &FnDef{Name: "s", Krate: "demo", Kind: DefFnPtrShim, Sig: FnSig{Inputs: []Ty{Tuple(U8)}, Output: U8}}

	switch c := Classify(Mono(generic, U64).Ty()).(type) {
	case FnDefinition:
		assert.Equal(t, "(u64) -> u64", c.Sig.String())
	default:
		t.Fatalf("expected FnDefinition, got %T", c)
	}

	_, ok := Classify(Mono(closure).Ty()).(ClosureFn)
	assert.True(t, ok)

	ptr, ok := Classify(Mono(shim).Ty()).(FnPointer)
	assert.True(t, ok)
	assert.Equal(t, "((u8,)) -> u8", ptr.Sig.String())

	_, ok = Classify(I32).(NotAFunction)
	assert.True(t, ok)
}
