package codegen

import (
	"strconv"

	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"
)

// DeclareFunction makes sure the symbol table has a symbol for inst. An existing
// symbol is left untouched, so declaring twice is harmless.
func (ctx *Ctx) DeclareFunction(inst mir.Instance) {
	fc, release := ctx.enterFn(inst)
	defer release()

	log.Debugf("declaring %s", fc.readableName)
	ctx.symbolTable.Ensure(fc.name, func(name string) *gotoprog.Symbol {
		return gotoprog.Function(name, ctx.fnTyp(inst), nil, fc.readableName, ctx.codegenSpan(inst.Def.Span))
	})
}

// CodegenFunction translates the body of a declared instance and installs it as the
// definition of its symbol. A second call replaces the previous definition.
func (ctx *Ctx) CodegenFunction(inst mir.Instance) {
	fc, release := ctx.enterFn(inst)
	defer release()

	old := ctx.symbolTable.Lookup(fc.name)
	if old == nil {
		fc.bug("function %s was not declared before codegen", fc.name)
	}
	if !old.IsFunction() {
		fc.bug("symbol %s is not a function", fc.name)
	}
	if fc.body == nil {
		fc.bug("function %s has no body", fc.name)
	}
	if old.IsFunctionDefinition() {
		log.Warningf("double codegen of %s, replacing its definition", fc.name)
	}
	log.Debug("codegen function", "name", fc.readableName, "blocks", len(fc.body.Blocks))

	ctx.checkBlocks(fc)
	ctx.codegenFunctionPrelude(fc)
	ctx.codegenDeclareVariables(fc)

	for _, bb := range mir.ReversePostorder(fc.body) {
		fc.PushOntoBlock(ctx.blocks.TranslateBlock(fc, bb, fc.body.Block(bb)))
	}

	loc := ctx.codegenSpan(fc.body.Span)
	stmts := gotoprog.Block(fc.ExtractBlock(), loc)
	if err := ctx.symbolTable.UpdateFnDeclarationWithDefinition(fc.name, stmts); err != nil {
		fc.bug("%v", err)
	}
}

// checkBlocks asserts that every block has a terminator whose successors exist, which
// the block traversal relies on.
func (ctx *Ctx) checkBlocks(fc *FnCtx) {
	blocks := fc.body.Blocks
	for i, data := range blocks {
		bb := mir.BasicBlock(i)
		if data == nil || data.Terminator == nil {
			fc.bug("block %s has no terminator", bb)
		}
		for _, succ := range data.Terminator.Successors() {
			if int(succ) < 0 || int(succ) >= len(blocks) {
				fc.bug("block %s jumps to %s, but the body has %d blocks", bb, succ, len(blocks))
			}
		}
	}
}

func (ctx *Ctx) codegenFunctionPrelude(fc *FnCtx) {
	if fc.body.SpreadArg != nil {
		ctx.codegenSpreadArg(fc, *fc.body.SpreadArg)
	}
}

// codegenSpreadArg rebuilds the tuple a spread-ABI function receives as separate
// arguments. Each component becomes a parameter symbol of its own and the tuple
// local is declared with a struct value built from them:
//
//	fn f(a: A, spread: (B, C))  ==>  f(A a, B spread_3, C spread_4) { (B, C) spread = { spread_3, spread_4 }; ... }
func (ctx *Ctx) codegenSpreadArg(fc *FnCtx, spreadArg mir.Local) {
	log.Debugf("codegen spread arg %s of %s", spreadArg, fc.readableName)
	spreadData := fc.body.Decl(spreadArg)
	tupTy := fc.instance.Monomorphize(spreadData.Ty)
	if mir.IsZST(tupTy) {
		return
	}
	loc := ctx.codegenSpan(spreadData.Span)

	var sig mir.FnSig
	switch class := mir.Classify(fc.instance.Ty()).(type) {
	case mir.FnPointer:
		sig = class.Sig
	case mir.FnDefinition:
		sig = class.Sig
	case mir.ClosureFn:
		fc.bug("closures are untupled by the frontend and cannot have a spread argument")
	case mir.NotAFunction:
		fc.bug("expected a function type for spread argument, got %s", class.Ty)
	default:
		fc.bug("unknown function class %T", class)
	}

	if len(sig.Inputs) == 0 {
		fc.bug("spread argument %s in a function without parameters", spreadArg)
	}
	tupe, ok := sig.Inputs[len(sig.Inputs)-1].(*mir.TupleTy)
	if !ok {
		fc.bug("a function's spread argument must be a tuple, got %s", sig.Inputs[len(sig.Inputs)-1])
	}

	tupType := ctx.codegenTy(tupTy)
	startingIdx := fc.body.ArgCount + 1
	fields := make(map[string]gotoprog.Expr, len(tupe.Elems))
	for i, argT := range tupe.Elems {
		lc := mir.Local(startingIdx + i)
		name, baseName := fc.spreadArgName(lc)
		sym := gotoprog.Variable(name, baseName, ctx.codegenTy(argT), loc).
			WithIsHidden(false).
			WithIsParameter(!mir.IsZST(argT))
		ctx.symbolTable.Insert(sym)
		fields[strconv.Itoa(i)] = sym.ToExpr()
	}

	value := gotoprog.WithLocation(gotoprog.NewStructExpr(tupType, fields, ctx.symbolTable), loc)
	ctx.declareVariable(fc.VarName(spreadArg), fc.varBaseName(spreadArg), tupType, value, loc)
}
