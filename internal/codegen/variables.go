package codegen

import (
	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"
)

// codegenDeclareVariables creates a symbol for every local except the spread argument
// and emits a zero-initialized declaration for each local past the parameters, in
// slot order. The return slot and parameters get symbols only.
func (ctx *Ctx) codegenDeclareVariables(fc *FnCtx) {
	body := fc.body
	numArgs := fc.paramsSize()
	if body.ArgCount != numArgs {
		fc.bug("body has %d arguments but the signature has %d", body.ArgCount, numArgs)
	}
	if len(body.LocalDecls) < numArgs+1 {
		fc.bug("local table has %d entries for %d parameters", len(body.LocalDecls), numArgs)
	}

	for _, lc := range body.Locals() {
		if body.SpreadArg != nil && lc == *body.SpreadArg {
			continue
		}
		ldata := body.Decl(lc)
		varTy := fc.instance.Monomorphize(ldata.Ty)
		varType := ctx.codegenTy(varTy)
		loc := ctx.codegenSpan(ldata.Span)
		idx := int(lc)

		sym := gotoprog.Variable(fc.VarName(lc), fc.varBaseName(lc), varType, loc).
			WithIsHidden(!fc.isUserVariable(lc)).
			WithIsParameter(idx > 0 && idx <= numArgs && !mir.IsZST(varTy))
		if name, ok := body.UserName(lc); ok {
			sym.WithPrettyName(name)
		}
		symE := sym.ToExpr()
		ctx.symbolTable.Insert(sym)

		if idx > numArgs {
			init := ctx.codegenDefaultInitializer(varType)
			fc.PushOntoBlock(gotoprog.Decl(symE, init, loc))
		}
	}
}

func (ctx *Ctx) codegenDefaultInitializer(typ gotoprog.Type) gotoprog.Expr {
	return gotoprog.ZeroInitializer(typ, ctx.symbolTable)
}

// declareVariable inserts a visible local and, when a function is current, emits
// its declaration with value.
func (ctx *Ctx) declareVariable(name, baseName string, typ gotoprog.Type, value gotoprog.Expr, loc gotoprog.Location) *gotoprog.SymbolExpr {
	sym := gotoprog.Variable(name, baseName, typ, loc).WithIsHidden(false)
	v := sym.ToExpr()
	ctx.symbolTable.Insert(sym)
	if ctx.current != nil {
		ctx.current.PushOntoBlock(gotoprog.Decl(v, value, loc))
	}
	return v
}
