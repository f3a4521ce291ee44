package gotoprog

// Stmt is a GOTO program statement.
type Stmt interface {
	Location() Location
	setLocation(Location)
}

type DeclStmt struct {
	located
	Lhs   *SymbolExpr
	Value Expr // nil leaves the variable nondeterministic
}

type AssignStmt struct {
	located
	Lhs Expr
	Rhs Expr
}

type BlockStmt struct {
	located
	Stmts []Stmt
}

type LabeledStmt struct {
	located
	Label string
	Body  Stmt
}

type GotoStmt struct {
	located
	Label string
}

type IfThenElseStmt struct {
	located
	Cond Expr
	Then Stmt
	Else Stmt // optional
}

type ReturnStmt struct {
	located
	Value Expr // nil for void functions
}

type ExpressionStmt struct {
	located
	Expr Expr
}

type AssertStmt struct {
	located
	Cond     Expr
	Property string
	Msg      string
}

type AssumeStmt struct {
	located
	Cond Expr
}

type SkipStmt struct {
	located
}

func Decl(lhs *SymbolExpr, value Expr, loc Location) *DeclStmt {
	return WithLoc(&DeclStmt{Lhs: lhs, Value: value}, loc)
}

func Assign(lhs, rhs Expr, loc Location) *AssignStmt {
	return WithLoc(&AssignStmt{Lhs: lhs, Rhs: rhs}, loc)
}

func Block(stmts []Stmt, loc Location) *BlockStmt {
	return WithLoc(&BlockStmt{Stmts: stmts}, loc)
}

func Labeled(label string, body Stmt) *LabeledStmt {
	return WithLoc(&LabeledStmt{Label: label, Body: body}, body.Location())
}

func Goto(label string, loc Location) *GotoStmt {
	return WithLoc(&GotoStmt{Label: label}, loc)
}

func IfThenElse(cond Expr, then, els Stmt, loc Location) *IfThenElseStmt {
	return WithLoc(&IfThenElseStmt{Cond: cond, Then: then, Else: els}, loc)
}

func Return(value Expr, loc Location) *ReturnStmt {
	return WithLoc(&ReturnStmt{Value: value}, loc)
}

func Expression(e Expr, loc Location) *ExpressionStmt {
	return WithLoc(&ExpressionStmt{Expr: e}, loc)
}

func Assert(cond Expr, property, msg string, loc Location) *AssertStmt {
	return WithLoc(&AssertStmt{Cond: cond, Property: property, Msg: msg}, loc)
}

func Assume(cond Expr, loc Location) *AssumeStmt {
	return WithLoc(&AssumeStmt{Cond: cond}, loc)
}

func Skip(loc Location) *SkipStmt {
	return WithLoc(&SkipStmt{}, loc)
}

// WithLoc sets the location of a statement and returns it.
func WithLoc[S Stmt](s S, loc Location) S {
	s.setLocation(loc)
	return s
}
