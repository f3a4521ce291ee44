package mir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstanceNames(t *testing.T) {
	def := &FnDef{Name: "swap", Krate: "demo", Generics: []string{"A", "B"}}

	inst := Mono(def, U8, Tuple(I32, Bool))
	assert.Equal(t, "demo::swap::<u8, (i32, bool)>", inst.Name())
	assert.Equal(t, "swap::<u8, (i32, bool)>", inst.ReadableName())

	plain := Mono(&FnDef{Name: "main", Krate: "demo"})
	assert.Equal(t, "demo::main", plain.Name())
}

func TestInstanceMonomorphize(t *testing.T) {
	tParam := &ParamTy{Index: 0, Name: "T"}
	def := &FnDef{
		Name:     "wrap",
		Krate:    "demo",
		Generics: []string{"T"},
		Sig:      FnSig{Inputs: []Ty{tParam, &RefTy{Elem: tParam}}, Output: Tuple(tParam, Bool)},
	}
	inst := Mono(def, U16)

	assert.Equal(t, "(u16, &u16) -> (u16, bool)", inst.Sig().String())
	assert.Equal(t, "[u16; 3]", inst.Monomorphize(&ArrayTy{Elem: tParam, Len: 3}).String())
	assert.True(t, IsGeneric(def.Sig.Output))
	assert.False(t, IsGeneric(inst.Sig().Output))
}

func TestMonomorphizeInstance(t *testing.T) {
	tParam := &ParamTy{Index: 0, Name: "T"}
	callee := &FnDef{Name: "id", Krate: "demo", Generics: []string{"T"}}
	caller := &FnDef{Name: "outer", Krate: "demo", Generics: []string{"T"}}

	resolved := Mono(caller, I64).MonomorphizeInstance(Mono(callee, Tuple(tParam, tParam)))
	assert.Equal(t, "demo::id::<(i64, i64)>", resolved.Name())
}

func TestFnContractIsEmpty(t *testing.T) {
	var c FnContract[Instance]
	assert.True(t, c.IsEmpty())
	c.Ensures = append(c.Ensures, Mono(&FnDef{Name: "post", Krate: "demo"}))
	assert.False(t, c.IsEmpty())
}

func TestInstanceTypeLength(t *testing.T) {
	def := &FnDef{Name: "grow", Krate: "demo", Generics: []string{"T"}}

	assert.Equal(t, 0, Mono(&FnDef{Name: "main", Krate: "demo"}).TypeLength(10))
	assert.Equal(t, 4, Mono(def, Tuple(I32, &RefTy{Elem: Bool})).TypeLength(10))

	// 2^41 nodes when counted in full; the walk stops right after the limit.
	var ty Ty = U8
	for i := 0; i < 40; i++ {
		ty = Tuple(ty, ty)
	}
	assert.Equal(t, 1001, Mono(def, ty).TypeLength(1000))
}
