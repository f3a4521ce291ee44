package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is one textual crate:
//
//	crate demo;
//	struct Pair { a: u8, b: u64, }
//	#[requires(div_pre)]
//	fn div(_1: u32, _2: u32) -> u32 { ... }
type File struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Crate  PosIdent `parser:"\"crate\" @@ \";\""`
	Items  []*Item  `parser:"@@*"`
}

type PosIdent struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `parser:"@Ident"`
}

type Item struct {
	Struct *Struct `parser:"  @@"`
	Fn     *Fn     `parser:"| @@"`
}

type Struct struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent       `parser:"\"struct\" @@ \"{\""`
	Fields []*StructField `parser:"@@* \"}\""`
}

type StructField struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `parser:"@Ident \":\""`
	Type   *Type  `parser:"@@ \",\""`
}

type Type struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Ref    *RefType   `parser:"  @@"`
	Tuple  *TupleType `parser:"| @@"`
	Array  *ArrayType `parser:"| @@"`
	FnPtr  *FnPtrType `parser:"| @@"`
	Never  bool       `parser:"| @\"!\""`
	Name   string     `parser:"| @Ident"`
}

type RefType struct {
	Mut  bool  `parser:"\"&\" @\"mut\"?"`
	Elem *Type `parser:"@@"`
}

// TupleType with a single element and no trailing comma is a parenthesized type.
type TupleType struct {
	Elems []*TupleElem `parser:"\"(\" @@* \")\""`
}

type TupleElem struct {
	Type  *Type `parser:"@@"`
	Comma bool  `parser:"@\",\"?"`
}

type ArrayType struct {
	Elem *Type `parser:"\"[\" @@ \";\""`
	Len  int   `parser:"@Integer \"]\""`
}

type FnPtrType struct {
	Params []*TupleElem `parser:"\"fn\" \"(\" @@* \")\""`
	Ret    *Type        `parser:"( \"->\" @@ )?"`
}

type Fn struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Attrs    []*Attribute `parser:"@@*"`
	Kind     string       `parser:"( @\"shim\" \"fn\" | @\"closure\" | \"fn\" )"`
	Name     PosIdent     `parser:"@@"`
	Generics []string     `parser:"( \"<\" @Ident ( \",\" @Ident )* \">\" )?"`
	Params   []*Param     `parser:"\"(\" ( @@ \",\"? )*"`
	Variadic bool         `parser:"@\"...\"? \")\""`
	Ret      *Type        `parser:"( \"->\" @@ )?"`
	Spread   string       `parser:"( \"spread\" @Local )?"`
	Body     *FnBody      `parser:"( \";\" | @@ )"`
}

// Attribute attaches a contract helper: #[requires(helper)] or #[ensures(helper::<T>)].
type Attribute struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Kind   string `parser:"\"#\" \"[\" @(\"requires\" | \"ensures\") \"(\""`
	Helper *Path  `parser:"@@ \")\" \"]\""`
}

// Path names a function, optionally with explicit type arguments.
type Path struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string  `parser:"@Ident"`
	Args   []*Type `parser:"( \"::\" \"<\" @@ ( \",\" @@ )* \">\" )?"`
}

type Param struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Local  string `parser:"@Local \":\""`
	Type   *Type  `parser:"@@"`
}

type FnBody struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Decls  []*Decl  `parser:"\"{\" @@*"`
	Blocks []*Block `parser:"@@* \"}\""`
}

type Decl struct {
	Debug *DebugDecl `parser:"  @@"`
	Let   *LetDecl   `parser:"| @@"`
}

// DebugDecl names a user variable: debug x => _1;
type DebugDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `parser:"\"debug\" @Ident \"=>\""`
	Local  string `parser:"@Local \";\""`
}

// LetDecl declares a local past the parameters: let mut _3: bool;
type LetDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Mut    bool   `parser:"\"let\" @\"mut\"?"`
	Local  string `parser:"@Local \":\""`
	Type   *Type  `parser:"@@ \";\""`
}

type Block struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Label  string  `parser:"@Block \":\" \"{\""`
	Lines  []*Line `parser:"@@* \"}\""`
}

// Line is a statement or a terminator; the front-end checks that exactly the last
// line of a block is a terminator.
type Line struct {
	Pos         lexer.Position
	EndPos      lexer.Position
	StorageLive string      `parser:"  \"StorageLive\" \"(\" @Local \")\" \";\""`
	StorageDead string      `parser:"| \"StorageDead\" \"(\" @Local \")\" \";\""`
	Nop         bool        `parser:"| @\"nop\" \";\""`
	Goto        string      `parser:"| \"goto\" \"->\" @Block \";\""`
	Return      bool        `parser:"| @\"return\" \";\""`
	Unreachable bool        `parser:"| @\"unreachable\" \";\""`
	Switch      *SwitchLine `parser:"| @@"`
	Assert      *AssertLine `parser:"| @@"`
	Assign      *AssignLine `parser:"| @@"`
}

// SwitchLine: switchInt(copy _1) -> [0: bb1, 1: bb2, otherwise: bb3];
type SwitchLine struct {
	Discr     *Operand     `parser:"\"switchInt\" \"(\" @@ \")\" \"->\" \"[\""`
	Arms      []*SwitchArm `parser:"@@*"`
	Otherwise string       `parser:"\"otherwise\" \":\" @Block \"]\" \";\""`
}

type SwitchArm struct {
	Value  int64  `parser:"@Integer \":\""`
	Target string `parser:"@Block \",\""`
}

// AssertLine: assert(!copy _3, "message") -> bb1;
type AssertLine struct {
	Negated bool     `parser:"\"assert\" \"(\" @\"!\"?"`
	Cond    *Operand `parser:"@@ \",\""`
	Msg     string   `parser:"@String \")\""`
	Target  string   `parser:"\"->\" @Block \";\""`
}

type AssignLine struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Place  *Place   `parser:"@@ \"=\""`
	Call   *CallRhs `parser:"( @@"`
	Rvalue *Rvalue  `parser:"| @@ ) \";\""`
}

// CallRhs: call f::<u8>(copy _1, const 2: i32) -> bb1. A target of ! never returns.
type CallRhs struct {
	Func   *Path      `parser:"\"call\" @@"`
	Args   []*Operand `parser:"\"(\" ( @@ \",\"? )* \")\""`
	Target string     `parser:"\"->\" ( @Block | @\"!\" )"`
}

// Place is a local, optionally dereferenced, followed by field projections.
type Place struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Deref  bool   `parser:"@\"*\"?"`
	Local  string `parser:"@Local"`
	Fields []int  `parser:"( \".\" @Integer )*"`
}

type Operand struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Copy   *Place   `parser:"  \"copy\" @@"`
	Move   *Place   `parser:"| \"move\" @@"`
	Const  *ConstOp `parser:"| \"const\" @@"`
}

type ConstOp struct {
	Bool *string   `parser:"  @(\"true\" | \"false\")"`
	Unit bool      `parser:"| @\"(\" \")\""`
	Int  *IntConst `parser:"| @@"`
}

type IntConst struct {
	Value int64 `parser:"@Integer \":\""`
	Type  *Type `parser:"@@"`
}

type Rvalue struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Ref    *RefRvalue    `parser:"  @@"`
	Binary *BinaryRvalue `parser:"| @@"`
	Unary  *UnaryRvalue  `parser:"| @@"`
	Tuple  *TupleRvalue  `parser:"| @@"`
	Struct *StructRvalue `parser:"| @@"`
	Use    *Operand      `parser:"| @@"`
}

type RefRvalue struct {
	Mut   bool   `parser:"\"&\" @\"mut\"?"`
	Place *Place `parser:"@@"`
}

type BinaryRvalue struct {
	Op  string   `parser:"@(\"Add\" | \"Sub\" | \"Mul\" | \"Div\" | \"Rem\" | \"BitAnd\" | \"BitOr\" | \"BitXor\" | \"Shl\" | \"Shr\" | \"Eq\" | \"Ne\" | \"Lt\" | \"Le\" | \"Gt\" | \"Ge\") \"(\""`
	Lhs *Operand `parser:"@@ \",\""`
	Rhs *Operand `parser:"@@ \")\""`
}

type UnaryRvalue struct {
	Op      string   `parser:"@(\"Not\" | \"Neg\") \"(\""`
	Operand *Operand `parser:"@@ \")\""`
}

type TupleRvalue struct {
	Elems []*Operand `parser:"\"(\" ( @@ \",\"? )* \")\""`
}

type StructRvalue struct {
	Name   string     `parser:"@Ident \"{\""`
	Fields []*Operand `parser:"( @@ \",\"? )* \"}\""`
}
