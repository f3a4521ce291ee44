package gotoprog

// Symbol is an entry of the symbol table: a variable, a function or a struct type.
type Symbol struct {
	Name       string
	BaseName   string
	PrettyName string
	Type       Type
	Location   Location

	// Value is the body of a defined function.
	Value Stmt
	// Contract is the merged contract of a function, if any.
	Contract *FunctionContract

	IsHidden    bool
	IsParameter bool
	IsType      bool
	IsLvalue    bool
	IsStateVar  bool
}

// Variable creates a local variable symbol.
func Variable(name, baseName string, typ Type, loc Location) *Symbol {
	return &Symbol{
		Name:       name,
		BaseName:   baseName,
		PrettyName: baseName,
		Type:       typ,
		Location:   loc,
		IsLvalue:   true,
		IsStateVar: true,
	}
}

// Function creates a function symbol. A nil body declares the function without
// defining it.
func Function(name string, typ *CodeType, body Stmt, prettyName string, loc Location) *Symbol {
	return &Symbol{
		Name:       name,
		BaseName:   name,
		PrettyName: prettyName,
		Type:       typ,
		Value:      body,
		Location:   loc,
		IsLvalue:   true,
	}
}

// AggregateType creates the symbol backing a struct tag.
func AggregateType(tag string, components []Component, loc Location) *Symbol {
	return &Symbol{
		Name:       TypeSymbolName(tag),
		BaseName:   tag,
		PrettyName: tag,
		Type:       &StructType{Tag: tag, Components: components},
		Location:   loc,
		IsType:     true,
	}
}

// TypeSymbolName is the symbol table key of a struct tag.
func TypeSymbolName(tag string) string {
	return "tag-" + tag
}

func (s *Symbol) WithIsHidden(hidden bool) *Symbol {
	s.IsHidden = hidden
	return s
}

func (s *Symbol) WithIsParameter(param bool) *Symbol {
	s.IsParameter = param
	return s
}

func (s *Symbol) WithPrettyName(name string) *Symbol {
	s.PrettyName = name
	return s
}

// IsFunction reports whether s is a function, defined or not.
func (s *Symbol) IsFunction() bool {
	_, ok := s.Type.(*CodeType)
	return ok && !s.IsType
}

// IsFunctionDefinition reports whether s is a function with a body.
func (s *Symbol) IsFunctionDefinition() bool {
	return s.IsFunction() && s.Value != nil
}

// ToExpr returns an expression referring to s.
func (s *Symbol) ToExpr() *SymbolExpr {
	return WithLocation(SymbolExpression(s.Name, s.Type), s.Location)
}

// Lambda is an anonymous predicate. Arguments are bound in order.
type Lambda struct {
	Arguments []Parameter
	Body      Expr
}

// FunctionContract collects the lambdas attached to a function.
type FunctionContract struct {
	Requires []Lambda
	Ensures  []Lambda
	Assigns  []Lambda
}

func NewFunctionContract(requires, ensures, assigns []Lambda) *FunctionContract {
	return &FunctionContract{Requires: requires, Ensures: ensures, Assigns: assigns}
}

// Merge appends the clauses of other to c.
func (c *FunctionContract) Merge(other *FunctionContract) {
	c.Requires = append(c.Requires, other.Requires...)
	c.Ensures = append(c.Ensures, other.Ensures...)
	c.Assigns = append(c.Assigns, other.Assigns...)
}
