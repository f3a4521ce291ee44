package mir

import "fmt"

// Local indexes a function's variable table. Slot 0 is the return value, slots
// 1..=ArgCount are the formal parameters and everything above is a temporary.
type Local int

// ReturnPlace is the local holding the function result.
const ReturnPlace Local = 0

func (l Local) String() string { return fmt.Sprintf("_%d", int(l)) }

// BasicBlock indexes Body.Blocks. Block 0 is the entry block.
type BasicBlock int

const StartBlock BasicBlock = 0

func (b BasicBlock) String() string { return fmt.Sprintf("bb%d", int(b)) }

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// Span is a source range.
type Span struct {
	File  string
	Start Position
	End   Position
}

// LocalDecl declares one local slot.
type LocalDecl struct {
	Ty      Ty
	Mutable bool
	Span    Span
}

// VarDebugInfo ties a user-visible variable name to a local.
type VarDebugInfo struct {
	Name  string
	Local Local
}

// Body is the control-flow graph of one function.
type Body struct {
	LocalDecls   []LocalDecl
	ArgCount     int
	SpreadArg    *Local
	Blocks       []*BasicBlockData
	VarDebugInfo []VarDebugInfo
	Span         Span
}

// Locals returns every local index in ascending order.
func (b *Body) Locals() []Local {
	locals := make([]Local, len(b.LocalDecls))
	for i := range b.LocalDecls {
		locals[i] = Local(i)
	}
	return locals
}

// Args returns the parameter locals 1..=ArgCount.
func (b *Body) Args() []Local {
	args := make([]Local, b.ArgCount)
	for i := range args {
		args[i] = Local(i + 1)
	}
	return args
}

// Decl returns the declaration of l.
func (b *Body) Decl(l Local) LocalDecl {
	return b.LocalDecls[l]
}

// UserName returns the source name of l when it is a user variable.
func (b *Body) UserName(l Local) (string, bool) {
	for _, info := range b.VarDebugInfo {
		if info.Local == l {
			return info.Name, true
		}
	}
	return "", false
}

// Block returns the data of bb.
func (b *Body) Block(bb BasicBlock) *BasicBlockData {
	return b.Blocks[bb]
}

// BasicBlockData is a straight-line statement list ending in a terminator.
type BasicBlockData struct {
	Statements []Statement
	Terminator Terminator
	Span       Span
}

// Statements

type Statement interface {
	StmtSpan() Span
	isStatement()
}

type Assign struct {
	Place  Place
	Rvalue Rvalue
	Span   Span
}

type StorageLive struct {
	Local Local
	Span  Span
}

type StorageDead struct {
	Local Local
	Span  Span
}

type Nop struct {
	Span Span
}

func (s *Assign) StmtSpan() Span      { return s.Span }
func (s *StorageLive) StmtSpan() Span { return s.Span }
func (s *StorageDead) StmtSpan() Span { return s.Span }
func (s *Nop) StmtSpan() Span         { return s.Span }

func (*Assign) isStatement()      {}
func (*StorageLive) isStatement() {}
func (*StorageDead) isStatement() {}
func (*Nop) isStatement()         {}

// Places

// ProjectionElem is one step of a place projection.
type ProjectionElem interface {
	isProjection()
}

// Field selects a tuple element by index or a struct field by declaration index.
type Field struct {
	Index int
}

type Deref struct{}

func (Field) isProjection() {}
func (Deref) isProjection() {}

// Place is a local followed by projections, applied left to right.
type Place struct {
	Local      Local
	Projection []ProjectionElem
}

// PlaceOf is the bare place of a local.
func PlaceOf(l Local) Place {
	return Place{Local: l}
}

func (p Place) String() string {
	s := p.Local.String()
	for _, elem := range p.Projection {
		switch e := elem.(type) {
		case Field:
			s = fmt.Sprintf("%s.%d", s, e.Index)
		case Deref:
			s = "(*" + s + ")"
		}
	}
	return s
}

// Operands

type Operand interface {
	isOperand()
}

type Copy struct {
	Place Place
}

type Move struct {
	Place Place
}

// Constant is an integer, boolean or unit literal of the given type.
type Constant struct {
	Ty    Ty
	Value any // int64, bool or nil for unit
}

func (*Copy) isOperand()     {}
func (*Move) isOperand()     {}
func (*Constant) isOperand() {}

// Rvalues

type Rvalue interface {
	isRvalue()
}

type Use struct {
	Operand Operand
}

type BinOp string

const (
	BinAdd    BinOp = "Add"
	BinSub    BinOp = "Sub"
	BinMul    BinOp = "Mul"
	BinDiv    BinOp = "Div"
	BinRem    BinOp = "Rem"
	BinBitAnd BinOp = "BitAnd"
	BinBitOr  BinOp = "BitOr"
	BinBitXor BinOp = "BitXor"
	BinShl    BinOp = "Shl"
	BinShr    BinOp = "Shr"
	BinEq     BinOp = "Eq"
	BinNe     BinOp = "Ne"
	BinLt     BinOp = "Lt"
	BinLe     BinOp = "Le"
	BinGt     BinOp = "Gt"
	BinGe     BinOp = "Ge"
)

// IsComparison reports whether op yields a bool.
func (op BinOp) IsComparison() bool {
	switch op {
	case BinEq, BinNe, BinLt, BinLe, BinGt, BinGe:
		return true
	}
	return false
}

type BinaryOp struct {
	Op  BinOp
	Lhs Operand
	Rhs Operand
}

type UnOp string

const (
	UnNot UnOp = "Not"
	UnNeg UnOp = "Neg"
)

type UnaryOp struct {
	Op      UnOp
	Operand Operand
}

type Ref struct {
	Mut   bool
	Place Place
}

// Aggregate builds a tuple or struct value. Operands are in declaration order.
type Aggregate struct {
	Ty       Ty
	Operands []Operand
}

func (*Use) isRvalue()       {}
func (*BinaryOp) isRvalue()  {}
func (*UnaryOp) isRvalue()   {}
func (*Ref) isRvalue()       {}
func (*Aggregate) isRvalue() {}

// Terminators

type Terminator interface {
	Successors() []BasicBlock
	TermSpan() Span
}

type Goto struct {
	Target BasicBlock
	Span   Span
}

type SwitchTarget struct {
	Value  int64
	Target BasicBlock
}

type SwitchInt struct {
	Discr     Operand
	Targets   []SwitchTarget
	Otherwise BasicBlock
	Span      Span
}

type Return struct {
	Span Span
}

type Unreachable struct {
	Span Span
}

// Call invokes Func and stores the result in Dest. A nil Target means the call
// never returns.
type Call struct {
	Func   Instance
	Args   []Operand
	Dest   Place
	Target *BasicBlock
	Span   Span
}

// Assert continues to Target when Cond evaluates to Expected.
type Assert struct {
	Cond     Operand
	Expected bool
	Msg      string
	Target   BasicBlock
	Span     Span
}

func (t *Goto) Successors() []BasicBlock { return []BasicBlock{t.Target} }

func (t *SwitchInt) Successors() []BasicBlock {
	succs := make([]BasicBlock, 0, len(t.Targets)+1)
	for _, target := range t.Targets {
		succs = append(succs, target.Target)
	}
	return append(succs, t.Otherwise)
}

func (t *Return) Successors() []BasicBlock      { return nil }
func (t *Unreachable) Successors() []BasicBlock { return nil }

func (t *Call) Successors() []BasicBlock {
	if t.Target == nil {
		return nil
	}
	return []BasicBlock{*t.Target}
}

func (t *Assert) Successors() []BasicBlock { return []BasicBlock{t.Target} }

func (t *Goto) TermSpan() Span        { return t.Span }
func (t *SwitchInt) TermSpan() Span   { return t.Span }
func (t *Return) TermSpan() Span      { return t.Span }
func (t *Unreachable) TermSpan() Span { return t.Span }
func (t *Call) TermSpan() Span        { return t.Span }
func (t *Assert) TermSpan() Span      { return t.Span }
