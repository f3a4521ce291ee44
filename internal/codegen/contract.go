package codegen

import (
	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"
)

// AttachContract translates the contract of inst and merges it into the contract
// already recorded on inst's symbol. inst must have been declared.
func (ctx *Ctx) AttachContract(inst mir.Instance, contract mir.FnContract[mir.Instance]) {
	fc, release := ctx.enterFn(inst)
	defer release()

	if !ctx.symbolTable.Contains(fc.name) {
		fc.bug("contract attached to undeclared function %s", fc.name)
	}
	log.Debug("attaching contract", "name", fc.readableName,
		"requires", len(contract.Requires), "ensures", len(contract.Ensures))

	gotoContract := ctx.asGotoContract(fc, contract)
	if err := ctx.symbolTable.AttachContract(fc.name, gotoContract); err != nil {
		fc.bug("%v", err)
	}
}

// asGotoContract turns each helper into a lambda over the annotated function's
// return value followed by its parameters. The lambda calls the helper with the
// parameters first and the return value last, which is the order the helpers take.
func (ctx *Ctx) asGotoContract(fc *FnCtx, contract mir.FnContract[mir.Instance]) *gotoprog.FunctionContract {
	annotated := fc.instance
	handle := func(helpers []mir.Instance) []gotoprog.Lambda {
		lambdas := make([]gotoprog.Lambda, 0, len(helpers))
		for _, helper := range helpers {
			lambdas = append(lambdas, withFn(ctx, annotated, func(fc *FnCtx) gotoprog.Lambda {
				return ctx.contractLambda(fc, helper)
			}))
		}
		return lambdas
	}
	requires := handle(contract.Requires)
	ensures := handle(contract.Ensures)
	return gotoprog.NewFunctionContract(requires, ensures, nil)
}

func (ctx *Ctx) contractLambda(fc *FnCtx, helper mir.Instance) gotoprog.Lambda {
	body := fc.body
	if body == nil {
		fc.bug("contract on %s, which has no body", fc.name)
	}
	if body.SpreadArg != nil {
		fc.bug("contracts on functions with a spread argument are not supported")
	}
	if fc.sig.CVariadic {
		fc.bug("contracts on variadic functions are not supported")
	}

	funcExpr := ctx.CodegenFuncExpr(helper)
	params := body.Args()
	operands := make([]mir.Operand, len(params))
	for i, l := range params {
		operands[i] = &mir.Copy{Place: mir.PlaceOf(l)}
	}
	arguments := ctx.codegenFuncallArgs(fc, operands, true)

	retTy := fc.instance.Monomorphize(body.Decl(mir.ReturnPlace).Ty)
	retType := ctx.codegenTy(retTy)
	ret := gotoprog.SymbolExpression(fc.VarName(mir.ReturnPlace), retType)
	// The helper's lowered signature drops zero-sized parameters, so a zero-sized
	// return value is not passed to it.
	if !mir.IsZST(retTy) {
		arguments = append(arguments, ret)
	}

	lambdaArgs := make([]gotoprog.Parameter, 0, len(params)+1)
	lambdaArgs = append(lambdaArgs, gotoprog.Parameter{
		Identifier: ret.Identifier,
		BaseName:   fc.varBaseName(mir.ReturnPlace),
		Type:       retType,
	})
	for _, l := range params {
		lambdaArgs = append(lambdaArgs, gotoprog.Parameter{
			Identifier: fc.VarName(l),
			BaseName:   fc.varBaseName(l),
			Type:       ctx.codegenTy(fc.instance.Monomorphize(body.Decl(l).Ty)),
		})
	}

	return gotoprog.Lambda{
		Arguments: lambdaArgs,
		Body:      gotoprog.CastTo(gotoprog.Call(funcExpr, arguments), gotoprog.Bool),
	}
}
