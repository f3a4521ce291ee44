// Package frontend resolves a parsed .mir file into the source IR consumed by the
// code generator. Every user mistake becomes an errors.CompilerError; nothing here
// panics on bad input.
package frontend

import (
	"fmt"

	"gotoc/grammar"
	"gotoc/internal/errors"
	"gotoc/internal/mir"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("gotoc.frontend")

type lowerer struct {
	crate   *mir.Crate
	errs    errors.List
	structs map[string]*mir.StructDef
	fns     map[string]*mir.FnDef

	// source nodes of the declarations, for the later passes
	structNodes map[*mir.StructDef]*grammar.Struct
	fnNodes     map[*mir.FnDef]*grammar.Fn

	// functions whose signature did not resolve; their bodies are not lowered
	badSigs map[*mir.FnDef]bool
}

// Lower resolves file into a crate. The crate is only usable when the returned
// list is empty.
func Lower(file *grammar.File) (*mir.Crate, errors.List) {
	l := &lowerer{
		crate:       &mir.Crate{Name: file.Crate.Value},
		structs:     make(map[string]*mir.StructDef),
		fns:         make(map[string]*mir.FnDef),
		structNodes: make(map[*mir.StructDef]*grammar.Struct),
		fnNodes:     make(map[*mir.FnDef]*grammar.Fn),
		badSigs:     make(map[*mir.FnDef]bool),
	}

	// Pass 1: names, so that types and calls may refer forward
	for _, item := range file.Items {
		switch {
		case item.Struct != nil:
			l.declareStruct(item.Struct)
		case item.Fn != nil:
			l.declareFn(item.Fn)
		}
	}

	// Pass 2: struct fields and signatures
	for _, def := range l.crate.Structs {
		l.lowerFields(def, l.structNodes[def])
	}
	l.checkRecursiveStructs()
	for _, def := range l.crate.Fns {
		l.lowerSignature(def, l.fnNodes[def])
	}

	// Pass 3: bodies and contracts, which need every signature
	for _, def := range l.crate.Fns {
		if def.Body != nil && !l.badSigs[def] {
			l.lowerBody(def, l.fnNodes[def])
		}
	}
	for _, def := range l.crate.Fns {
		l.lowerContract(def, l.fnNodes[def])
	}

	log.Debugf("lowered crate %s: %d structs, %d functions, %d errors",
		l.crate.Name, len(l.crate.Structs), len(l.crate.Fns), len(l.errs))
	return l.crate, l.errs
}

func (l *lowerer) addError(err errors.CompilerError) {
	l.errs = append(l.errs, err)
}

func (l *lowerer) declareStruct(node *grammar.Struct) {
	name := node.Name.Value
	if _, exists := l.structs[name]; exists {
		l.addError(errors.DuplicateDefinition("struct", name, position(node.Name.Pos)))
		return
	}
	def := &mir.StructDef{Name: name, Span: span(node.Pos, node.EndPos)}
	l.structs[name] = def
	l.structNodes[def] = node
	l.crate.Structs = append(l.crate.Structs, def)
}

func (l *lowerer) declareFn(node *grammar.Fn) {
	name := node.Name.Value
	if _, exists := l.fns[name]; exists {
		l.addError(errors.DuplicateDefinition("function", name, position(node.Name.Pos)))
		return
	}
	def := &mir.FnDef{
		Name:     name,
		Krate:    l.crate.Name,
		Kind:     defKind(node.Kind),
		Generics: node.Generics,
		Span:     span(node.Pos, node.EndPos),
	}
	seen := make(map[string]bool)
	for _, g := range node.Generics {
		if seen[g] {
			l.addError(errors.DuplicateDefinition("generic parameter", g, position(node.Name.Pos)))
		}
		seen[g] = true
	}
	if node.Body != nil {
		def.Body = &mir.Body{Span: span(node.Body.Pos, node.Body.EndPos)}
	}
	l.fns[name] = def
	l.fnNodes[def] = node
	l.crate.Fns = append(l.crate.Fns, def)
}

func defKind(kind string) mir.DefKind {
	switch kind {
	case "closure":
		return mir.DefClosure
	case "shim":
		return mir.DefFnPtrShim
	default:
		return mir.DefFn
	}
}

func (l *lowerer) lowerFields(def *mir.StructDef, node *grammar.Struct) {
	seen := make(map[string]bool)
	for _, field := range node.Fields {
		if seen[field.Name] {
			l.addError(errors.DuplicateDefinition("field", field.Name, position(field.Pos)))
			continue
		}
		seen[field.Name] = true
		ty, ok := l.resolveType(field.Type, nil)
		if !ok {
			continue
		}
		def.Fields = append(def.Fields, mir.FieldDef{Name: field.Name, Ty: ty})
	}
}

// checkRecursiveStructs rejects structs that contain themselves by value; layout
// queries on them would never terminate.
func (l *lowerer) checkRecursiveStructs() {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*mir.StructDef]int)

	var visit func(def *mir.StructDef) bool
	var visitTy func(ty mir.Ty) bool
	visitTy = func(ty mir.Ty) bool {
		switch t := ty.(type) {
		case *mir.StructTy:
			return visit(t.Def)
		case *mir.TupleTy:
			for _, e := range t.Elems {
				if !visitTy(e) {
					return false
				}
			}
		case *mir.ArrayTy:
			return visitTy(t.Elem)
		}
		return true
	}
	visit = func(def *mir.StructDef) bool {
		switch state[def] {
		case visiting:
			return false
		case done:
			return true
		}
		state[def] = visiting
		for _, f := range def.Fields {
			if !visitTy(f.Ty) {
				return false
			}
		}
		state[def] = done
		return true
	}

	for _, def := range l.crate.Structs {
		if state[def] == unvisited && !visit(def) {
			node := l.structNodes[def]
			l.addError(errors.RecursiveType(def.Name, position(node.Name.Pos)))
			// drop the fields so later layout queries stay finite
			for d, s := range state {
				if s == visiting {
					d.Fields = nil
					state[d] = done
				}
			}
		}
	}
}

func (l *lowerer) lowerSignature(def *mir.FnDef, node *grammar.Fn) {
	sig := mir.FnSig{CVariadic: node.Variadic}
	ok := true
	for i, param := range node.Params {
		if want := mir.Local(i + 1).String(); param.Local != want {
			l.addError(errors.LocalNumbering(param.Local, i+1, position(param.Pos)))
			ok = false
		}
		ty, resolved := l.resolveType(param.Type, def.Generics)
		if !resolved {
			ok = false
			ty = mir.Unit
		}
		sig.Inputs = append(sig.Inputs, ty)
	}

	sig.Output = mir.Unit
	if node.Ret != nil {
		if ty, resolved := l.resolveType(node.Ret, def.Generics); resolved {
			sig.Output = ty
		} else {
			ok = false
		}
	}
	def.Sig = sig

	if node.Spread != "" {
		l.lowerSpread(def, node, sig)
	}
	if !ok {
		l.badSigs[def] = true
	}
}

func (l *lowerer) lowerSpread(def *mir.FnDef, node *grammar.Fn, sig mir.FnSig) {
	pos := position(node.Name.Pos)
	switch {
	case def.Body == nil:
		l.addError(errors.InvalidSpreadArg(fmt.Sprintf("'%s' has no body to spread into", def.Name), pos))
		return
	case def.Kind == mir.DefClosure:
		l.addError(errors.InvalidSpreadArg(fmt.Sprintf("closure '%s' already receives its arguments untupled", def.Name), pos))
		return
	case sig.CVariadic:
		l.addError(errors.InvalidSpreadArg(fmt.Sprintf("variadic function '%s' cannot spread an argument", def.Name), pos))
		return
	}

	last := mir.Local(len(sig.Inputs))
	if len(sig.Inputs) == 0 || node.Spread != last.String() {
		l.addError(errors.InvalidSpreadArg(
			fmt.Sprintf("spread argument '%s' of '%s' is not its last parameter", node.Spread, def.Name), pos))
		return
	}
	if _, ok := sig.Inputs[len(sig.Inputs)-1].(*mir.TupleTy); !ok {
		l.addError(errors.InvalidSpreadArg(
			fmt.Sprintf("spread argument '%s' has type %s, expected a tuple", node.Spread, sig.Inputs[len(sig.Inputs)-1]), pos))
		return
	}
	def.Body.SpreadArg = &last
}

func position(pos lexer.Position) errors.Position {
	return errors.Position{Filename: pos.Filename, Line: pos.Line, Column: pos.Column}
}

func span(start, end lexer.Position) mir.Span {
	return mir.Span{
		File:  start.Filename,
		Start: mir.Position{Line: start.Line, Column: start.Column},
		End:   mir.Position{Line: end.Line, Column: end.Column},
	}
}
