package gotoprog

import (
	"fmt"
	"strings"
)

// Printer renders a symbol table as C-like text.
type Printer struct {
	st     *SymbolTable
	indent int
	output strings.Builder
}

// NewPrinter creates a printer resolving names and struct tags through st.
func NewPrinter(st *SymbolTable) *Printer {
	return &Printer{st: st}
}

// Print returns the struct types and functions of st.
func Print(st *SymbolTable) string {
	p := NewPrinter(st)
	for _, sym := range st.Symbols() {
		if sym.IsType {
			p.printStruct(sym)
		}
	}
	for _, sym := range st.Functions() {
		p.printFunction(sym)
	}
	return p.output.String()
}

// PrintFunction returns the text of one function, or "" when name is not a function.
func PrintFunction(st *SymbolTable, name string) string {
	sym := st.Lookup(name)
	if sym == nil || !sym.IsFunction() {
		return ""
	}
	p := NewPrinter(st)
	p.printFunction(sym)
	return p.output.String()
}

// PrintSymbols lists every symbol with its type and flags, one per line.
func PrintSymbols(st *SymbolTable) string {
	p := NewPrinter(st)
	for _, sym := range st.Symbols() {
		var flags []string
		if sym.IsType {
			flags = append(flags, "type")
		}
		if sym.IsHidden {
			flags = append(flags, "hidden")
		}
		if sym.IsParameter {
			flags = append(flags, "parameter")
		}
		if sym.IsFunctionDefinition() {
			flags = append(flags, "defined")
		}
		if sym.Contract != nil {
			flags = append(flags, fmt.Sprintf("contract(%d requires, %d ensures)",
				len(sym.Contract.Requires), len(sym.Contract.Ensures)))
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		p.writeLine("%s : %s%s", sym.Name, sym.Type, suffix)
	}
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printStruct(sym *Symbol) {
	s := sym.Type.(*StructType)
	p.writeLine("struct %s {", s.Tag)
	p.indent++
	for _, c := range s.Components {
		p.writeLine("%s %s;", c.Type, c.Name)
	}
	p.indent--
	p.writeLine("};")
	p.writeLine("")
}

func (p *Printer) printFunction(sym *Symbol) {
	code := sym.Type.(*CodeType)
	params := make([]string, len(code.Parameters))
	for i, param := range code.Parameters {
		params[i] = fmt.Sprintf("%s %s", param.Type, param.BaseName)
	}
	if code.Variadic {
		params = append(params, "...")
	}
	header := fmt.Sprintf("%s %s(%s)", code.ReturnType, sym.Name, strings.Join(params, ", "))

	if sym.Value == nil && sym.Contract == nil {
		p.writeLine("%s;", header)
		p.writeLine("")
		return
	}

	p.writeLine("%s", header)
	if sym.Contract != nil {
		p.indent++
		for _, l := range sym.Contract.Requires {
			p.writeLine("__CPROVER_requires(%s)", p.lambda(l))
		}
		for _, l := range sym.Contract.Ensures {
			p.writeLine("__CPROVER_ensures(%s)", p.lambda(l))
		}
		p.indent--
	}
	if sym.Value == nil {
		p.writeLine(";")
		p.writeLine("")
		return
	}

	p.writeLine("{")
	p.indent++
	if block, ok := sym.Value.(*BlockStmt); ok {
		for _, s := range block.Stmts {
			p.printStmt(s)
		}
	} else {
		p.printStmt(sym.Value)
	}
	p.indent--
	p.writeLine("}")
	p.writeLine("")
}

func (p *Printer) lambda(l Lambda) string {
	args := make([]string, len(l.Arguments))
	for i, a := range l.Arguments {
		args[i] = fmt.Sprintf("%s %s", a.Type, p.name(a.Identifier))
	}
	return fmt.Sprintf("lambda (%s) %s", strings.Join(args, ", "), p.expr(l.Body))
}

func (p *Printer) printStmt(s Stmt) {
	switch s := s.(type) {
	case *DeclStmt:
		if s.Value == nil {
			p.writeLine("%s %s;", s.Lhs.Typ, p.name(s.Lhs.Identifier))
		} else {
			p.writeLine("%s %s = %s;", s.Lhs.Typ, p.name(s.Lhs.Identifier), p.expr(s.Value))
		}
	case *AssignStmt:
		p.writeLine("%s = %s;", p.expr(s.Lhs), p.expr(s.Rhs))
	case *BlockStmt:
		for _, inner := range s.Stmts {
			p.printStmt(inner)
		}
	case *LabeledStmt:
		p.indent--
		p.writeLine("%s:", s.Label)
		p.indent++
		p.printStmt(s.Body)
	case *GotoStmt:
		p.writeLine("goto %s;", s.Label)
	case *IfThenElseStmt:
		p.writeLine("if(%s)", p.expr(s.Cond))
		p.indent++
		p.printStmt(s.Then)
		p.indent--
		if s.Else != nil {
			p.writeLine("else")
			p.indent++
			p.printStmt(s.Else)
			p.indent--
		}
	case *ReturnStmt:
		if s.Value == nil {
			p.writeLine("return;")
		} else {
			p.writeLine("return %s;", p.expr(s.Value))
		}
	case *ExpressionStmt:
		p.writeLine("%s;", p.expr(s.Expr))
	case *AssertStmt:
		p.writeLine("assert(%s); // %s: %s", p.expr(s.Cond), s.Property, s.Msg)
	case *AssumeStmt:
		p.writeLine("__CPROVER_assume(%s);", p.expr(s.Cond))
	case *SkipStmt:
		p.writeLine(";")
	default:
		p.writeLine("/* unknown statement %T */", s)
	}
}

// name shortens local variables to their base name.
func (p *Printer) name(identifier string) string {
	if sym := p.st.Lookup(identifier); sym != nil && !sym.IsFunction() && sym.BaseName != "" {
		return sym.BaseName
	}
	if i := strings.LastIndex(identifier, "::"); i >= 0 && strings.Contains(identifier, "::1::") {
		return identifier[i+2:]
	}
	return identifier
}

func (p *Printer) expr(e Expr) string {
	switch e := e.(type) {
	case *SymbolExpr:
		return p.name(e.Identifier)
	case *IntConstantExpr:
		return fmt.Sprintf("%d", e.Value)
	case *BoolConstantExpr:
		if e.Value {
			return "TRUE"
		}
		return "FALSE"
	case *NullPointerExpr:
		return "NULL"
	case *StructExpr:
		components := p.st.Components(e.Typ)
		fields := make([]string, len(e.Values))
		for i, v := range e.Values {
			name := fmt.Sprintf("%d", i)
			if i < len(components) {
				name = components[i].Name
			}
			fields[i] = fmt.Sprintf(".%s=%s", name, p.expr(v))
		}
		if len(fields) == 0 {
			return "{ }"
		}
		return "{ " + strings.Join(fields, ", ") + " }"
	case *MemberExpr:
		return fmt.Sprintf("%s.%s", p.expr(e.Base), e.Field)
	case *AddressOfExpr:
		return "&" + p.expr(e.Base)
	case *DereferenceExpr:
		return "*" + p.expr(e.Base)
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", p.expr(e.Lhs), e.Op, p.expr(e.Rhs))
	case *UnaryExpr:
		return fmt.Sprintf("%s(%s)", e.Op, p.expr(e.Operand))
	case *CallExpr:
		args := make([]string, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = p.expr(a)
		}
		return fmt.Sprintf("%s(%s)", p.expr(e.Function), strings.Join(args, ", "))
	case *TypecastExpr:
		return fmt.Sprintf("(%s)%s", e.Typ, p.expr(e.Operand))
	case *ArrayOfExpr:
		return fmt.Sprintf("ARRAY_OF(%s)", p.expr(e.Elem))
	default:
		return fmt.Sprintf("/* %T */", e)
	}
}
