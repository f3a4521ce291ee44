package frontend

import (
	"os"
	"testing"

	"gotoc/internal/errors"
	"gotoc/internal/mir"
	"gotoc/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lower(t *testing.T, source string) (*mir.Crate, errors.List) {
	t.Helper()
	file, parseErrors := parser.ParseSource("test.mir", source)
	require.Empty(t, parseErrors)
	return Lower(file)
}

func lowerOK(t *testing.T, source string) *mir.Crate {
	t.Helper()
	crate, errs := lower(t, source)
	require.Empty(t, errs, "%v", errs)
	return crate
}

func lowerExample(t *testing.T, name string) *mir.Crate {
	t.Helper()
	src, err := os.ReadFile("../../examples/" + name + ".mir")
	require.NoError(t, err)
	return lowerOK(t, string(src))
}

// requireCodes checks the error codes in order.
func requireCodes(t *testing.T, errs errors.List, codes ...string) {
	t.Helper()
	got := make([]string, len(errs))
	for i, e := range errs {
		got[i] = e.Code
	}
	require.Equal(t, codes, got, "%v", errs)
}

func TestLower_Div(t *testing.T) {
	crate := lowerExample(t, "div")
	assert.Equal(t, "demo", crate.Name)

	div := crate.Fn("div")
	require.NotNil(t, div)
	assert.Equal(t, "demo", div.Krate)
	assert.Equal(t, mir.DefFn, div.Kind)
	assert.Equal(t, "(u32, u32) -> u32", div.Sig.String())

	body := div.Body
	require.NotNil(t, body)
	assert.Equal(t, 2, body.ArgCount)
	require.Len(t, body.LocalDecls, 4)
	assert.Equal(t, mir.Bool, body.Decl(3).Ty)
	assert.True(t, body.Decl(0).Mutable)
	assert.False(t, body.Decl(1).Mutable)
	assert.Nil(t, body.SpreadArg)

	name, ok := body.UserName(1)
	require.True(t, ok)
	assert.Equal(t, "x", name)
	_, ok = body.UserName(3)
	assert.False(t, ok)

	require.Len(t, body.Blocks, 2)
	bb0 := body.Block(0)
	require.Len(t, bb0.Statements, 2)
	assert.IsType(t, &mir.StorageLive{}, bb0.Statements[0])
	assign := bb0.Statements[1].(*mir.Assign)
	assert.Equal(t, mir.PlaceOf(3), assign.Place)
	bin := assign.Rvalue.(*mir.BinaryOp)
	assert.Equal(t, mir.BinNe, bin.Op)
	assert.Equal(t, &mir.Constant{Ty: mir.U32, Value: int64(0)}, bin.Rhs)

	term := bb0.Terminator.(*mir.Assert)
	assert.True(t, term.Expected)
	assert.Equal(t, "attempt to divide by zero", term.Msg)
	assert.Equal(t, mir.BasicBlock(1), term.Target)
	assert.Equal(t, 13, term.Span.Start.Line)
	assert.Equal(t, "test.mir", term.Span.File)

	require.Len(t, div.Contract.Requires, 1)
	require.Len(t, div.Contract.Ensures, 1)
	assert.Equal(t, "div_pre", div.Contract.Requires[0].Def.Name)
	assert.Equal(t, "div_post", div.Contract.Ensures[0].Def.Name)
	assert.True(t, crate.Fn("main").Contract.IsEmpty())

	call := crate.Fn("main").Body.Block(0).Terminator.(*mir.Call)
	assert.Equal(t, "demo::div", call.Func.Name())
	require.NotNil(t, call.Target)
	assert.Equal(t, mir.BasicBlock(1), *call.Target)
	assert.Equal(t, mir.PlaceOf(1), call.Dest)
}

func TestLower_Generic(t *testing.T) {
	crate := lowerExample(t, "generic")

	max := crate.Fn("max")
	assert.Equal(t, []string{"T"}, max.Generics)
	assert.Equal(t, &mir.ParamTy{Index: 0, Name: "T"}, max.Sig.Inputs[0])

	require.Len(t, max.Contract.Requires, 1)
	pre := max.Contract.Requires[0]
	assert.Equal(t, "max_pre", pre.Def.Name)
	assert.Equal(t, []mir.Ty{&mir.ParamTy{Index: 0, Name: "T"}}, pre.Args)

	main := crate.Fn("main")
	first := main.Body.Block(0).Terminator.(*mir.Call)
	assert.Equal(t, "demo::max::<u8>", first.Func.Name())
	second := main.Body.Block(1).Terminator.(*mir.Call)
	assert.Equal(t, "demo::max::<i64>", second.Func.Name())
	assert.Equal(t, &mir.Constant{Ty: mir.I64, Value: int64(-1)}, second.Args[0])

	switchInt := max.Body.Block(0).Terminator.(*mir.SwitchInt)
	assert.Equal(t, []mir.SwitchTarget{{Value: 0, Target: 2}}, switchInt.Targets)
	assert.Equal(t, mir.BasicBlock(1), switchInt.Otherwise)

	abort := crate.Fn("abort")
	assert.Nil(t, abort.Body)
	assert.Equal(t, mir.Never, abort.Sig.Output)
}

func TestLower_Spread(t *testing.T) {
	crate := lowerExample(t, "spread")

	pair := crate.Struct("Pair")
	require.NotNil(t, pair)
	assert.Equal(t, []mir.FieldDef{{Name: "a", Ty: mir.U8}, {Name: "b", Ty: mir.U64}}, pair.Fields)

	assert.Equal(t, mir.DefClosure, crate.Fn("add").Kind)

	shim := crate.Fn("call_once")
	assert.Equal(t, mir.DefFnPtrShim, shim.Kind)
	require.NotNil(t, shim.Body.SpreadArg)
	assert.Equal(t, mir.Local(2), *shim.Body.SpreadArg)

	call := shim.Body.Block(0).Terminator.(*mir.Call)
	require.Len(t, call.Args, 3)
	assert.Equal(t, &mir.Copy{Place: mir.Place{Local: 2, Projection: []mir.ProjectionElem{mir.Field{Index: 1}}}}, call.Args[2])

	main := crate.Fn("main").Body
	tuple := main.Block(0).Statements[0].(*mir.Assign).Rvalue.(*mir.Aggregate)
	assert.Equal(t, "(u8, u64)", tuple.Ty.String())
	agg := main.Block(1).Statements[0].(*mir.Assign).Rvalue.(*mir.Aggregate)
	assert.Equal(t, &mir.StructTy{Def: pair}, agg.Ty)
	assert.IsType(t, &mir.Unreachable{}, main.Block(2).Terminator)
}

func TestLower_DivergingCallAndNegatedAssert(t *testing.T) {
	crate := lowerOK(t, `crate demo;
fn abort() -> !;
fn f(_1: bool) {
    let _2: !;
    bb0: {
        assert(!copy _1, "must be false") -> bb1;
    }
    bb1: {
        _2 = call abort() -> !;
    }
}`)
	body := crate.Fn("f").Body
	assert.False(t, body.Block(0).Terminator.(*mir.Assert).Expected)
	call := body.Block(1).Terminator.(*mir.Call)
	assert.Nil(t, call.Target)
	assert.Empty(t, call.Successors())
}

func TestLower_DerefAndRef(t *testing.T) {
	crate := lowerOK(t, `crate demo;
fn f(_1: &mut (u8, bool)) -> bool {
    let _2: &(u8, bool);
    bb0: {
        _0 = copy *_1.1;
        _2 = &*_1;
        return;
    }
}`)
	stmts := crate.Fn("f").Body.Block(0).Statements
	assign := stmts[0].(*mir.Assign)
	use := assign.Rvalue.(*mir.Use).Operand.(*mir.Copy)
	assert.Equal(t, []mir.ProjectionElem{mir.Deref{}, mir.Field{Index: 1}}, use.Place.Projection)
	ref := stmts[1].(*mir.Assign).Rvalue.(*mir.Ref)
	assert.False(t, ref.Mut)
}

func TestLower_UnknownLocalPosition(t *testing.T) {
	_, errs := lower(t, `crate demo;
fn f(_1: u32) -> u32 {
    bb0: { _0 = copy _7; return; }
}`)
	requireCodes(t, errs, errors.ErrorUnknownLocal)
	assert.Equal(t, errors.Position{Filename: "test.mir", Line: 3, Column: 22}, errs[0].Position)
	assert.Equal(t, 2, errs[0].Length)
}

func TestLower_UnknownTypeSuggestion(t *testing.T) {
	_, errs := lower(t, `crate demo;
struct Pair { a: u8, }
fn f(_1: Piar) { bb0: { return; } }`)
	requireCodes(t, errs, errors.ErrorUnknownType)
	assert.Equal(t, []string{"did you mean 'Pair'?"}, errs[0].Suggestions)
}

func TestLower_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		codes  []string
	}{
		{
			name:   "duplicate function",
			source: `fn f() { bb0: { return; } } fn f() { bb0: { return; } }`,
			codes:  []string{errors.ErrorDuplicateDefinition},
		},
		{
			name:   "duplicate field",
			source: `struct S { a: u8, a: u8, }`,
			codes:  []string{errors.ErrorDuplicateDefinition},
		},
		{
			name:   "terminator in the middle and missing at the end",
			source: `fn f() { bb0: { return; nop; } }`,
			codes:  []string{errors.ErrorMisplacedTerminator, errors.ErrorMisplacedTerminator},
		},
		{
			name:   "empty block",
			source: `fn f() { bb0: { } }`,
			codes:  []string{errors.ErrorMisplacedTerminator},
		},
		{
			name:   "body without blocks",
			source: `fn f() { }`,
			codes:  []string{errors.ErrorUnknownBlock},
		},
		{
			name:   "unknown block",
			source: `fn f() { bb0: { goto -> bb3; } }`,
			codes:  []string{errors.ErrorUnknownBlock},
		},
		{
			name:   "parameter numbering",
			source: `fn f(_2: u8) { bb0: { return; } }`,
			codes:  []string{errors.ErrorLocalNumbering},
		},
		{
			name:   "let numbering",
			source: `fn f(_1: u8) { let _3: u8; bb0: { return; } }`,
			codes:  []string{errors.ErrorLocalNumbering},
		},
		{
			name:   "block numbering",
			source: `fn f() { bb1: { return; } }`,
			codes:  []string{errors.ErrorLocalNumbering},
		},
		{
			name:   "unknown function",
			source: `fn f() { let _1: (); bb0: { _1 = call nope() -> bb1; } bb1: { return; } }`,
			codes:  []string{errors.ErrorUnknownFunction},
		},
		{
			name: "missing type arguments",
			source: `fn g<T>(_1: T) -> T { bb0: { _0 = copy _1; return; } }
fn f() { let _1: u8; bb0: { _1 = call g(const 1: u8) -> bb1; } bb1: { return; } }`,
			codes: []string{errors.ErrorTypeArguments},
		},
		{
			name: "argument type",
			source: `fn g(_1: u16);
fn f() { let _1: (); bb0: { _1 = call g(const 1: u8) -> bb1; } bb1: { return; } }`,
			codes: []string{errors.ErrorInvalidOperand},
		},
		{
			name: "argument count",
			source: `fn g(_1: u16);
fn f() { let _1: (); bb0: { _1 = call g() -> bb1; } bb1: { return; } }`,
			codes: []string{errors.ErrorInvalidOperand},
		},
		{
			name:   "constant out of range",
			source: `fn f() { let _1: u8; bb0: { _1 = const 300: u8; return; } }`,
			codes:  []string{errors.ErrorInvalidOperand},
		},
		{
			name:   "negative unsigned constant",
			source: `fn f() { let _1: u32; bb0: { _1 = const -1: u32; return; } }`,
			codes:  []string{errors.ErrorInvalidOperand},
		},
		{
			name:   "assignment type mismatch",
			source: `fn f(_1: u8) -> u16 { bb0: { _0 = copy _1; return; } }`,
			codes:  []string{errors.ErrorInvalidOperand},
		},
		{
			name:   "negating an unsigned value",
			source: `fn f(_1: u8) -> u8 { bb0: { _0 = Neg(copy _1); return; } }`,
			codes:  []string{errors.ErrorInvalidOperand},
		},
		{
			name:   "field out of range",
			source: `fn f(_1: (u8, u8)) -> u8 { bb0: { _0 = copy _1.2; return; } }`,
			codes:  []string{errors.ErrorInvalidOperand},
		},
		{
			name:   "assert on a non-bool",
			source: `fn f(_1: u8) { bb0: { assert(copy _1, "x") -> bb1; } bb1: { return; } }`,
			codes:  []string{errors.ErrorInvalidOperand},
		},
		{
			name:   "struct aggregate arity",
			source: `struct P { a: u8, b: u8, } fn f() -> P { bb0: { _0 = P { const 1: u8 }; return; } }`,
			codes:  []string{errors.ErrorInvalidOperand},
		},
		{
			name:   "recursive struct",
			source: `struct A { b: B, } struct B { a: (u8, A), }`,
			codes:  []string{errors.ErrorRecursiveType},
		},
		{
			name:   "spread not last",
			source: `shim fn s(_1: (u8,), _2: u8) spread _1 { bb0: { return; } }`,
			codes:  []string{errors.ErrorInvalidSpreadArg},
		},
		{
			name:   "spread of a non-tuple",
			source: `shim fn s(_1: u8) spread _1 { bb0: { return; } }`,
			codes:  []string{errors.ErrorInvalidSpreadArg},
		},
		{
			name:   "spread in a closure",
			source: `closure c(_1: (), _2: (u8,)) spread _2 { bb0: { return; } }`,
			codes:  []string{errors.ErrorInvalidSpreadArg},
		},
		{
			name:   "spread without body",
			source: `shim fn s(_1: (u8,)) spread _1;`,
			codes:  []string{errors.ErrorInvalidSpreadArg},
		},
		{
			name: "unknown contract helper",
			source: `#[requires(pre)] fn f(_1: u8) { bb0: { return; } }
fn pri(_1: u8, _2: ()) -> bool;`,
			codes: []string{errors.ErrorUnknownContractHelper},
		},
		{
			name: "contract helper arity",
			source: `#[requires(pre)] fn f(_1: u8) { bb0: { return; } }
fn pre(_1: u8) -> bool;`,
			codes: []string{errors.ErrorContractHelperArity},
		},
		{
			name: "contract helper parameter type",
			source: `#[ensures(post)] fn f(_1: u8) -> u8 { bb0: { _0 = copy _1; return; } }
fn post(_1: u8, _2: u16) -> bool;`,
			codes: []string{errors.ErrorInvalidOperand},
		},
		{
			name: "contract helper return",
			source: `#[requires(pre)] fn f(_1: u8) { bb0: { return; } }
fn pre(_1: u8, _2: ()) -> u8;`,
			codes: []string{errors.ErrorContractHelperReturn},
		},
		{
			name: "contract on a variadic function",
			source: `#[requires(pre)] fn f(_1: u8, ...) { bb0: { return; } }
fn pre(_1: u8, _2: ()) -> bool;`,
			codes: []string{errors.ErrorUnsupportedContract},
		},
		{
			name: "contract on a declaration",
			source: `#[requires(pre)] fn f(_1: u8);
fn pre(_1: u8, _2: ()) -> bool;`,
			codes: []string{errors.ErrorUnsupportedContract},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := lower(t, "crate demo;\n"+tt.source)
			requireCodes(t, errs, tt.codes...)
		})
	}
}

func TestLower_UnitReturnContract(t *testing.T) {
	crate := lowerOK(t, `crate demo;
#[requires(pre)]
#[requires(pre)]
#[ensures(post)]
fn f(_1: u8) { bb0: { return; } }
fn pre(_1: u8, _2: ()) -> bool;
fn post(_1: u8, _2: ()) -> bool;`)
	contract := crate.Fn("f").Contract
	assert.Len(t, contract.Requires, 2)
	assert.Len(t, contract.Ensures, 1)
}

func TestLower_ReferenceToSelfIsFinite(t *testing.T) {
	crate := lowerOK(t, `crate demo;
struct Node { value: u8, next: &Node, }`)
	node := crate.Struct("Node")
	require.Len(t, node.Fields, 2)
	assert.Equal(t, "&Node", node.Fields[1].Ty.String())
}

func TestFitsInt(t *testing.T) {
	assert.True(t, fitsInt(255, mir.U8))
	assert.False(t, fitsInt(256, mir.U8))
	assert.True(t, fitsInt(-128, mir.I8))
	assert.False(t, fitsInt(128, mir.I8))
	assert.False(t, fitsInt(-1, mir.U64))
	assert.True(t, fitsInt(-1<<63, mir.I64))
}
