package codegen

import (
	"testing"

	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helper(name string, inputs ...mir.Ty) mir.Instance {
	return mir.Mono(extern(name, inputs, mir.Bool))
}

func callArgs(t *testing.T, l gotoprog.Lambda) []string {
	t.Helper()
	call, ok := l.Body.(*gotoprog.CallExpr)
	require.True(t, ok, "lambda body is %T", l.Body)
	var names []string
	for _, a := range call.Arguments {
		names = append(names, a.(*gotoprog.SymbolExpr).Identifier)
	}
	return names
}

func lambdaArgs(l gotoprog.Lambda) []string {
	var names []string
	for _, a := range l.Arguments {
		names = append(names, a.BaseName)
	}
	return names
}

func TestAttachContract_LambdaShape(t *testing.T) {
	inst := mir.Mono(fnDef("f", []mir.Ty{mir.I32, mir.U8}, mir.I32, nil))
	pre1 := helper("f_pre1", mir.I32, mir.U8, mir.I32)
	pre2 := helper("f_pre2", mir.I32, mir.U8, mir.I32)
	post := helper("f_post", mir.I32, mir.U8, mir.I32)
	ctx := codegen(t, inst, pre1, pre2, post)

	ctx.AttachContract(inst, mir.FnContract[mir.Instance]{
		Requires: []mir.Instance{pre1, pre2},
		Ensures:  []mir.Instance{post},
	})
	assert.Nil(t, ctx.Current())

	sym := ctx.SymbolTable().Lookup("demo::f")
	require.NotNil(t, sym.Contract)
	require.Len(t, sym.Contract.Requires, 2)
	require.Len(t, sym.Contract.Ensures, 1)
	assert.Empty(t, sym.Contract.Assigns)

	for _, l := range append(sym.Contract.Requires, sym.Contract.Ensures...) {
		require.Len(t, l.Arguments, 3)
		assert.Equal(t, []string{"var_0", "var_1", "var_2"}, lambdaArgs(l))
		assert.Equal(t, "int32_t", l.Arguments[0].Type.String())
		assert.Equal(t, "uint8_t", l.Arguments[2].Type.String())
		assert.Equal(t, []string{"demo::f::1::var_1", "demo::f::1::var_2", "demo::f::1::var_0"}, callArgs(t, l))
		assert.Equal(t, gotoprog.Bool, l.Body.Type())
	}

	first := sym.Contract.Requires[0].Body.(*gotoprog.CallExpr)
	assert.Equal(t, "demo::f_pre1", first.Function.(*gotoprog.SymbolExpr).Identifier)
	second := sym.Contract.Requires[1].Body.(*gotoprog.CallExpr)
	assert.Equal(t, "demo::f_pre2", second.Function.(*gotoprog.SymbolExpr).Identifier)

	out := gotoprog.PrintFunction(ctx.SymbolTable(), "demo::f")
	assert.Contains(t, out, "  __CPROVER_requires(lambda (int32_t var_0, int32_t var_1, uint8_t var_2) demo::f_pre1(var_1, var_2, var_0))\n")
	assert.Contains(t, out, "  __CPROVER_ensures(lambda (int32_t var_0, int32_t var_1, uint8_t var_2) demo::f_post(var_1, var_2, var_0))\n")
}

func TestAttachContract_MergesWithExisting(t *testing.T) {
	inst := mir.Mono(fnDef("f", []mir.Ty{mir.I32}, mir.I32, nil))
	pre := helper("f_pre", mir.I32, mir.I32)
	post := helper("f_post", mir.I32, mir.I32)
	ctx := codegen(t, inst, pre, post)

	ctx.AttachContract(inst, mir.FnContract[mir.Instance]{Requires: []mir.Instance{pre}})
	ctx.AttachContract(inst, mir.FnContract[mir.Instance]{Ensures: []mir.Instance{post}})

	c := ctx.SymbolTable().Lookup("demo::f").Contract
	require.NotNil(t, c)
	assert.Len(t, c.Requires, 1)
	assert.Len(t, c.Ensures, 1)
}

func TestAttachContract_ZSTParameterIsNotPassed(t *testing.T) {
	inst := mir.Mono(fnDef("f", []mir.Ty{mir.Unit, mir.I32}, mir.I32, nil))
	pre := helper("f_pre", mir.Unit, mir.I32, mir.I32)
	ctx := codegen(t, inst, pre)

	ctx.AttachContract(inst, mir.FnContract[mir.Instance]{Requires: []mir.Instance{pre}})

	l := ctx.SymbolTable().Lookup("demo::f").Contract.Requires[0]
	assert.Equal(t, []string{"var_0", "var_1", "var_2"}, lambdaArgs(l))
	assert.Equal(t, []string{"demo::f::1::var_2", "demo::f::1::var_0"}, callArgs(t, l))
}

func TestAttachContract_UnitReturn(t *testing.T) {
	inst := mir.Mono(fnDef("f", []mir.Ty{mir.I32}, mir.Unit, nil))
	post := helper("f_post", mir.I32, mir.Unit)
	ctx := codegen(t, inst, post)

	ctx.AttachContract(inst, mir.FnContract[mir.Instance]{Ensures: []mir.Instance{post}})

	l := ctx.SymbolTable().Lookup("demo::f").Contract.Ensures[0]
	assert.Equal(t, []string{"var_0", "var_1"}, lambdaArgs(l))
	assert.Equal(t, []string{"demo::f::1::var_1"}, callArgs(t, l))
}

func TestAttachContract_NonBoolHelperIsCast(t *testing.T) {
	inst := mir.Mono(fnDef("f", []mir.Ty{mir.I32}, mir.I32, nil))
	pre := mir.Mono(extern("f_pre", []mir.Ty{mir.I32, mir.I32}, mir.U8))
	ctx := codegen(t, inst, pre)

	ctx.AttachContract(inst, mir.FnContract[mir.Instance]{Requires: []mir.Instance{pre}})

	l := ctx.SymbolTable().Lookup("demo::f").Contract.Requires[0]
	cast, ok := l.Body.(*gotoprog.TypecastExpr)
	require.True(t, ok)
	assert.Equal(t, gotoprog.Bool, cast.Type())
}

func TestAttachContract_Undeclared(t *testing.T) {
	inst := mir.Mono(fnDef("f", []mir.Ty{mir.I32}, mir.I32, nil))
	ctx := New(gotoprog.NewSymbolTable())

	iv := requireViolation(t, func() {
		ctx.AttachContract(inst, mir.FnContract[mir.Instance]{Requires: []mir.Instance{helper("p", mir.I32, mir.I32)}})
	})
	assert.Contains(t, iv.Message, "undeclared")
	assert.Nil(t, ctx.Current())
}

func TestAttachContract_SpreadArgIsRejected(t *testing.T) {
	inst := mir.Mono(spreadFn("f", mir.Tuple(mir.U8)))
	ctx := codegen(t, inst)

	requireViolation(t, func() {
		ctx.AttachContract(inst, mir.FnContract[mir.Instance]{Requires: []mir.Instance{helper("p")}})
	})
	assert.Nil(t, ctx.Current())
}

func TestAttachContract_VariadicIsRejected(t *testing.T) {
	def := fnDef("f", []mir.Ty{mir.I32}, mir.I32, nil)
	def.Sig.CVariadic = true
	inst := mir.Mono(def)
	ctx := codegen(t, inst)

	iv := requireViolation(t, func() {
		ctx.AttachContract(inst, mir.FnContract[mir.Instance]{Requires: []mir.Instance{helper("p", mir.I32, mir.I32)}})
	})
	assert.Contains(t, iv.Message, "variadic")
}

func TestAttachContract_Generic(t *testing.T) {
	param := &mir.ParamTy{Index: 0, Name: "T"}
	def := fnDef("id", []mir.Ty{param}, param, nil)
	def.Generics = []string{"T"}
	inst := mir.Mono(def, mir.U32)
	pre := helper("id_pre", mir.U32, mir.U32)
	ctx := codegen(t, inst, pre)

	ctx.AttachContract(inst, mir.FnContract[mir.Instance]{Requires: []mir.Instance{pre}})

	l := ctx.SymbolTable().Lookup("demo::id::<u32>").Contract.Requires[0]
	assert.Equal(t, "uint32_t", l.Arguments[0].Type.String())
	assert.Equal(t, "uint32_t", l.Arguments[1].Type.String())
}
