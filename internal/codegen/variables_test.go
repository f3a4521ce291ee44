package codegen

import (
	"testing"

	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareVariables_SymbolsAndDeclarations(t *testing.T) {
	def := fnDef("f", []mir.Ty{mir.I32}, mir.I32, []mir.Ty{mir.Bool, mir.Tuple(mir.U8, mir.U64)})
	def.Body.VarDebugInfo = []mir.VarDebugInfo{{Name: "x", Local: 1}, {Name: "ok", Local: 2}}
	inst := mir.Mono(def)

	ctx := codegen(t, inst)
	st := ctx.SymbolTable()

	ret := st.Lookup("demo::f::1::var_0")
	require.NotNil(t, ret)
	assert.False(t, ret.IsParameter)
	assert.True(t, ret.IsHidden)

	x := st.Lookup("demo::f::1::var_1")
	require.NotNil(t, x)
	assert.True(t, x.IsParameter)
	assert.False(t, x.IsHidden)
	assert.Equal(t, "x", x.PrettyName)
	assert.Equal(t, "var_1", x.BaseName)

	ok := st.Lookup("demo::f::1::var_2")
	require.NotNil(t, ok)
	assert.False(t, ok.IsParameter)
	assert.False(t, ok.IsHidden)

	tmp := st.Lookup("demo::f::1::var_3")
	require.NotNil(t, tmp)
	assert.True(t, tmp.IsHidden)

	ds := decls(bodyStmts(t, st, "demo::f"))
	require.Len(t, ds, 2)
	assert.Equal(t, "demo::f::1::var_2", ds[0].Lhs.Identifier)
	assert.Equal(t, "demo::f::1::var_3", ds[1].Lhs.Identifier)
	assert.Equal(t, gotoprog.False(), ds[0].Value)

	zero, isStruct := ds[1].Value.(*gotoprog.StructExpr)
	require.True(t, isStruct)
	assert.Len(t, zero.Values, 2)
}

func TestDeclareVariables_ZSTParameterIsNotAParameter(t *testing.T) {
	inst := mir.Mono(fnDef("f", []mir.Ty{mir.Unit, mir.I32}, mir.I32, nil))

	ctx := codegen(t, inst)
	st := ctx.SymbolTable()

	assert.False(t, st.Lookup("demo::f::1::var_1").IsParameter)
	assert.True(t, st.Lookup("demo::f::1::var_2").IsParameter)

	code := st.Lookup("demo::f").Type.(*gotoprog.CodeType)
	require.Len(t, code.Parameters, 1)
	assert.Equal(t, "demo::f::1::var_2", code.Parameters[0].Identifier)
}

func TestDeclareVariables_GenericLocalsAreMonomorphized(t *testing.T) {
	param := &mir.ParamTy{Index: 0, Name: "T"}
	def := fnDef("id", []mir.Ty{param}, param, []mir.Ty{param})
	def.Generics = []string{"T"}
	inst := mir.Mono(def, mir.U16)

	ctx := codegen(t, inst)
	st := ctx.SymbolTable()

	name := "demo::id::<u16>"
	require.NotNil(t, st.Lookup(name))
	assert.Equal(t, "uint16_t", st.Lookup(name+"::1::var_1").Type.String())
	assert.Equal(t, "uint16_t", st.Lookup(name+"::1::var_2").Type.String())
}

func TestDeclareVariables_MalformedLocalTable(t *testing.T) {
	def := fnDef("f", []mir.Ty{mir.I32, mir.I32}, mir.I32, nil)
	def.Body.LocalDecls = def.Body.LocalDecls[:2]

	ctx := New(gotoprog.NewSymbolTable())
	ctx.DeclareFunction(mir.Mono(def))
	iv := requireViolation(t, func() { ctx.CodegenFunction(mir.Mono(def)) })
	assert.Contains(t, iv.Message, "local table")
	assert.Nil(t, ctx.Current())
}

func TestDeclareVariables_Locations(t *testing.T) {
	def := fnDef("f", []mir.Ty{mir.I32}, mir.I32, []mir.Ty{mir.Bool})
	def.Body.LocalDecls[1].Span = mir.Span{File: "a.mir", Start: mir.Position{Line: 3, Column: 5}, End: mir.Position{Line: 3, Column: 9}}
	ctx := codegen(t, mir.Mono(def))
	st := ctx.SymbolTable()

	assert.Equal(t, gotoprog.Location{File: "a.mir", Function: "f", Line: 3, Column: 5, EndLine: 3, EndColumn: 9},
		st.Lookup("demo::f::1::var_1").Location)
	assert.True(t, st.Lookup("demo::f::1::var_2").Location.IsNone())
}
