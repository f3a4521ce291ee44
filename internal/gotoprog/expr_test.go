package gotoprog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packedTuple registers a (u8, u64) tuple whose components are stored u64 first.
func packedTuple(st *SymbolTable) Type {
	st.Insert(AggregateType("tuple(u8, u64)", []Component{
		{Name: "1", Type: Unsigned(64)},
		{Name: "0", Type: Unsigned(8)},
	}, NoLocation))
	return &StructTagType{Tag: "tuple(u8, u64)"}
}

func TestNewStructExpr_FollowsPhysicalOrder(t *testing.T) {
	st := NewSymbolTable()
	typ := packedTuple(st)

	first := SymbolExpression("spread_6", Unsigned(8))
	second := SymbolExpression("spread_7", Unsigned(64))
	value := NewStructExpr(typ, map[string]Expr{"0": first, "1": second}, st)

	require.Len(t, value.Values, 2)
	assert.Same(t, second, value.Values[0])
	assert.Same(t, first, value.Values[1])

	got, ok := value.Field("0", st)
	require.True(t, ok)
	assert.Same(t, first, got)
	got, ok = value.Field("1", st)
	require.True(t, ok)
	assert.Same(t, second, got)

	_, ok = value.Field("2", st)
	assert.False(t, ok)
}

func TestNewStructExpr_PanicsOnMismatch(t *testing.T) {
	st := NewSymbolTable()
	typ := packedTuple(st)

	assert.Panics(t, func() {
		NewStructExpr(typ, map[string]Expr{"0": IntConstant(1, Unsigned(8))}, st)
	})
	assert.Panics(t, func() {
		NewStructExpr(typ, map[string]Expr{"0": IntConstant(1, Unsigned(8)), "x": IntConstant(1, Unsigned(64))}, st)
	})
}

func TestMember(t *testing.T) {
	st := NewSymbolTable()
	typ := packedTuple(st)
	base := SymbolExpression("t", typ)

	m := Member(base, "0", st)
	assert.Equal(t, "uint8_t", m.Type().String())
	assert.Panics(t, func() { Member(base, "3", st) })
}

func TestCastToAndCall(t *testing.T) {
	b := SymbolExpression("b", Bool)
	assert.Same(t, b, CastTo(b, Bool))

	i := SymbolExpression("i", Signed(32))
	cast, ok := CastTo(i, Bool).(*TypecastExpr)
	require.True(t, ok)
	assert.Equal(t, Bool, cast.Type())

	f := SymbolExpression("demo::f", &CodeType{ReturnType: Unsigned(8)})
	call := Call(f, []Expr{i})
	assert.Equal(t, "uint8_t", call.Type().String())
	assert.Panics(t, func() { Call(i, nil) })
}

func TestBinaryTypes(t *testing.T) {
	a := SymbolExpression("a", Signed(32))
	assert.Equal(t, Bool, Binary(Lt, a, a).Type())
	assert.Equal(t, "int32_t", Binary(Plus, a, a).Type().String())
}

func TestZeroInitializer(t *testing.T) {
	st := NewSymbolTable()
	typ := packedTuple(st)

	zero, ok := ZeroInitializer(typ, st).(*StructExpr)
	require.True(t, ok)
	require.Len(t, zero.Values, 2)
	for _, v := range zero.Values {
		c, ok := v.(*IntConstantExpr)
		require.True(t, ok)
		assert.Equal(t, int64(0), c.Value)
	}

	assert.Equal(t, false, ZeroInitializer(Bool, st).(*BoolConstantExpr).Value)
	assert.IsType(t, &NullPointerExpr{}, ZeroInitializer(&PointerType{Elem: Bool}, st))
	assert.IsType(t, &ArrayOfExpr{}, ZeroInitializer(&ArrayType{Elem: Signed(8), Size: 3}, st))
	assert.Nil(t, ZeroInitializer(Empty, st))
}

func TestWithLocation(t *testing.T) {
	loc := Location{File: "a.mir", Line: 3, Column: 5}
	e := WithLocation(SymbolExpression("x", Bool), loc)
	assert.Equal(t, loc, e.Location())
	assert.Equal(t, "a.mir:3:5", loc.String())
	assert.True(t, NoLocation.IsNone())
}
