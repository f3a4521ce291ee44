package lsp

import (
	"sort"

	"gotoc/grammar"

	"github.com/alecthomas/participle/v2/lexer"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the semanticTokenTypes array
// TokenModifiers is a bitmask based on semanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into semanticTokenTypes
	TokenModifiers int // bitmask
	Text           string
}

// Range is the source range the token covers.
func (t SemanticToken) Range() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: t.Line, Character: t.StartChar},
		End:   protocol.Position{Line: t.Line, Character: t.StartChar + t.Length},
	}
}

// tokenWalker carries what is needed to classify names: the crate's structs and
// the generic parameters of the function being walked.
type tokenWalker struct {
	structs  map[string]bool
	generics []string
	tokens   []SemanticToken
}

// collectSemanticTokens returns the tokens of file sorted by position.
func collectSemanticTokens(file *grammar.File) []SemanticToken {
	if file == nil {
		return nil
	}

	w := &tokenWalker{structs: make(map[string]bool)}
	for _, item := range file.Items {
		if item.Struct != nil {
			w.structs[item.Struct.Name.Value] = true
		}
	}

	w.add(file.Crate.Pos, file.Crate.Value, "namespace", 1)
	for _, item := range file.Items {
		switch {
		case item.Struct != nil:
			w.walkStruct(item.Struct)
		case item.Fn != nil:
			w.walkFunction(item.Fn)
		}
	}

	sort.SliceStable(w.tokens, func(i, j int) bool {
		a, b := w.tokens[i], w.tokens[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.StartChar < b.StartChar
	})
	return w.tokens
}

func (w *tokenWalker) walkStruct(s *grammar.Struct) {
	w.generics = nil

	// Struct name
	w.add(s.Name.Pos, s.Name.Value, "struct", 1)

	// Struct fields
	for _, field := range s.Fields {
		w.add(field.Pos, field.Name, "property", 1)
		w.walkType(field.Type)
	}
}

func (w *tokenWalker) walkFunction(f *grammar.Fn) {
	w.generics = f.Generics

	// Contract attributes: #[requires(helper)]
	for _, attr := range f.Attrs {
		w.add(shift(attr.Pos, len("#[")), attr.Kind, "modifier", 0)
		w.walkPath(attr.Helper)
	}

	// Function name
	w.add(f.Name.Pos, f.Name.Value, "function", 1)

	// Parameters
	for _, param := range f.Params {
		w.add(param.Pos, param.Local, "parameter", 1)
		w.walkType(param.Type)
	}

	// Return type
	w.walkType(f.Ret)

	if f.Body == nil {
		return
	}
	for _, decl := range f.Body.Decls {
		if decl.Let == nil {
			continue
		}
		offset := len("let ")
		if decl.Let.Mut {
			offset += len("mut ")
		}
		w.add(shift(decl.Let.Pos, offset), decl.Let.Local, "variable", 1)
		w.walkType(decl.Let.Type)
	}
	for _, block := range f.Body.Blocks {
		for _, line := range block.Lines {
			w.walkLine(line)
		}
	}
}

func (w *tokenWalker) walkLine(line *grammar.Line) {
	switch {
	case line.Switch != nil:
		w.walkOperand(line.Switch.Discr)
	case line.Assert != nil:
		w.walkOperand(line.Assert.Cond)
	case line.Assign != nil:
		w.walkPlace(line.Assign.Place)
		if call := line.Assign.Call; call != nil {
			w.walkPath(call.Func)
			for _, arg := range call.Args {
				w.walkOperand(arg)
			}
			return
		}
		w.walkRvalue(line.Assign.Rvalue)
	}
}

func (w *tokenWalker) walkRvalue(rv *grammar.Rvalue) {
	if rv == nil {
		return
	}

	switch {
	case rv.Ref != nil:
		w.walkPlace(rv.Ref.Place)
	case rv.Binary != nil:
		w.walkOperand(rv.Binary.Lhs)
		w.walkOperand(rv.Binary.Rhs)
	case rv.Unary != nil:
		w.walkOperand(rv.Unary.Operand)
	case rv.Tuple != nil:
		for _, elem := range rv.Tuple.Elems {
			w.walkOperand(elem)
		}
	case rv.Struct != nil:
		w.add(rv.Pos, rv.Struct.Name, "struct", 0)
		for _, field := range rv.Struct.Fields {
			w.walkOperand(field)
		}
	case rv.Use != nil:
		w.walkOperand(rv.Use)
	}
}

func (w *tokenWalker) walkOperand(op *grammar.Operand) {
	if op == nil {
		return
	}

	switch {
	case op.Copy != nil:
		w.walkPlace(op.Copy)
	case op.Move != nil:
		w.walkPlace(op.Move)
	case op.Const != nil && op.Const.Int != nil:
		w.walkType(op.Const.Int.Type)
	}
}

func (w *tokenWalker) walkPlace(p *grammar.Place) {
	if p == nil {
		return
	}

	pos := p.Pos
	if p.Deref {
		pos = shift(pos, len("*"))
	}
	w.add(pos, p.Local, "variable", 0)
}

// walkPath emits the function name of a call or contract helper and its type arguments
func (w *tokenWalker) walkPath(path *grammar.Path) {
	if path == nil {
		return
	}

	w.add(path.Pos, path.Name, "function", 0)
	for _, arg := range path.Args {
		w.walkType(arg)
	}
}

func (w *tokenWalker) walkType(t *grammar.Type) {
	if t == nil {
		return
	}

	switch {
	case t.Ref != nil:
		w.walkType(t.Ref.Elem)
	case t.Tuple != nil:
		for _, elem := range t.Tuple.Elems {
			w.walkType(elem.Type)
		}
	case t.Array != nil:
		w.walkType(t.Array.Elem)
	case t.FnPtr != nil:
		for _, param := range t.FnPtr.Params {
			w.walkType(param.Type)
		}
		w.walkType(t.FnPtr.Ret)
	case t.Name != "":
		tokenType := "type"
		if contains(w.generics, t.Name) {
			tokenType = "typeParameter"
		} else if w.structs[t.Name] {
			tokenType = "struct"
		}
		w.add(t.Pos, t.Name, tokenType, 0)
	}
}

func (w *tokenWalker) add(pos lexer.Position, value, tokenType string, declModifier int) {
	w.tokens = append(w.tokens, makeToken(pos, value, tokenType, declModifier)...)
}

// makeToken creates a semantic token for a given position and text
func makeToken(pos lexer.Position, value, tokenType string, declModifier int) []SemanticToken {
	if value == "" || pos.Line == 0 {
		return nil
	}

	return []SemanticToken{{
		Line:           uint32(pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(len(value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: declModifier << indexOf("declaration", SemanticTokenModifiers),
		Text:           value,
	}}
}

// tokenAt finds the token covering pos.
func tokenAt(tokens []SemanticToken, pos protocol.Position) (SemanticToken, bool) {
	for _, t := range tokens {
		if t.Line == pos.Line && t.StartChar <= pos.Character && pos.Character < t.StartChar+t.Length {
			return t, true
		}
	}
	return SemanticToken{}, false
}

func shift(pos lexer.Position, columns int) lexer.Position {
	pos.Column += columns
	pos.Offset += columns
	return pos
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0 // Default to first token type if not found
}
