package gotoprog

import "fmt"

// SymbolTable maps names to symbols. It keeps first-insertion order for printing.
// It is not safe for concurrent use.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Insert adds sym, replacing any symbol with the same name.
func (st *SymbolTable) Insert(sym *Symbol) {
	if _, exists := st.symbols[sym.Name]; !exists {
		st.order = append(st.order, sym.Name)
	}
	st.symbols[sym.Name] = sym
}

// Lookup returns the symbol called name, or nil.
func (st *SymbolTable) Lookup(name string) *Symbol {
	return st.symbols[name]
}

func (st *SymbolTable) Contains(name string) bool {
	_, ok := st.symbols[name]
	return ok
}

// Ensure returns the symbol called name, creating it with create when missing.
func (st *SymbolTable) Ensure(name string, create func(name string) *Symbol) *Symbol {
	if sym, ok := st.symbols[name]; ok {
		return sym
	}
	sym := create(name)
	if sym.Name != name {
		panic(fmt.Sprintf("Ensure(%q) created symbol %q", name, sym.Name))
	}
	st.Insert(sym)
	return sym
}

// UpdateFnDeclarationWithDefinition sets the body of a declared function. An existing
// body is replaced.
func (st *SymbolTable) UpdateFnDeclarationWithDefinition(name string, body Stmt) error {
	sym := st.symbols[name]
	if sym == nil {
		return fmt.Errorf("function %s is not declared", name)
	}
	if !sym.IsFunction() {
		return fmt.Errorf("symbol %s is not a function", name)
	}
	sym.Value = body
	return nil
}

// AttachContract merges contract into the contract of function name.
func (st *SymbolTable) AttachContract(name string, contract *FunctionContract) error {
	sym := st.symbols[name]
	if sym == nil {
		return fmt.Errorf("function %s is not declared", name)
	}
	if !sym.IsFunction() {
		return fmt.Errorf("symbol %s is not a function", name)
	}
	if sym.Contract == nil {
		sym.Contract = NewFunctionContract(nil, nil, nil)
	}
	sym.Contract.Merge(contract)
	return nil
}

// Components returns the components of a struct or struct tag type, or nil when typ
// is not a known struct.
func (st *SymbolTable) Components(typ Type) []Component {
	switch t := typ.(type) {
	case *StructType:
		return t.Components
	case *StructTagType:
		sym := st.symbols[TypeSymbolName(t.Tag)]
		if sym == nil {
			return nil
		}
		if s, ok := sym.Type.(*StructType); ok {
			return s.Components
		}
	}
	return nil
}

// Symbols returns all symbols in insertion order.
func (st *SymbolTable) Symbols() []*Symbol {
	out := make([]*Symbol, len(st.order))
	for i, name := range st.order {
		out[i] = st.symbols[name]
	}
	return out
}

// Functions returns the function symbols in insertion order.
func (st *SymbolTable) Functions() []*Symbol {
	var out []*Symbol
	for _, sym := range st.Symbols() {
		if sym.IsFunction() {
			out = append(out, sym)
		}
	}
	return out
}

func (st *SymbolTable) Len() int {
	return len(st.order)
}
