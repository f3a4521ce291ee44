package codegen

import (
	"strconv"

	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"
)

type blockTranslator struct {
	ctx *Ctx
}

func bbLabel(bb mir.BasicBlock) string {
	return bb.String()
}

// TranslateBlock emits the block as a labeled compound statement.
func (bt *blockTranslator) TranslateBlock(fc *FnCtx, bb mir.BasicBlock, data *mir.BasicBlockData) gotoprog.Stmt {
	ctx := bt.ctx
	loc := ctx.codegenSpan(data.Span)

	var stmts []gotoprog.Stmt
	for _, s := range data.Statements {
		if st := ctx.codegenStatement(fc, s); st != nil {
			stmts = append(stmts, st)
		}
	}
	stmts = append(stmts, ctx.codegenTerminator(fc, data.Terminator)...)
	return gotoprog.Labeled(bbLabel(bb), gotoprog.Block(stmts, loc))
}

// codegenStatement returns nil for statements with no effect on the GOTO program.
func (ctx *Ctx) codegenStatement(fc *FnCtx, s mir.Statement) gotoprog.Stmt {
	switch st := s.(type) {
	case *mir.Assign:
		if mir.IsZST(ctx.placeTy(fc, st.Place)) {
			return nil
		}
		loc := ctx.codegenSpan(st.Span)
		return gotoprog.Assign(ctx.codegenPlace(fc, st.Place), ctx.codegenRvalue(fc, st.Rvalue), loc)
	case *mir.StorageLive, *mir.StorageDead, *mir.Nop:
		return nil
	}
	fc.bug("unknown statement %T", s)
	return nil
}

func (ctx *Ctx) codegenTerminator(fc *FnCtx, term mir.Terminator) []gotoprog.Stmt {
	loc := ctx.codegenSpan(term.TermSpan())
	switch t := term.(type) {
	case *mir.Goto:
		return []gotoprog.Stmt{gotoprog.Goto(bbLabel(t.Target), loc)}

	case *mir.Return:
		if mir.IsZST(ctx.localTy(fc, mir.ReturnPlace)) {
			return []gotoprog.Stmt{gotoprog.Return(nil, loc)}
		}
		return []gotoprog.Stmt{gotoprog.Return(ctx.codegenPlace(fc, mir.PlaceOf(mir.ReturnPlace)), loc)}

	case *mir.Unreachable:
		return []gotoprog.Stmt{
			gotoprog.Assert(gotoprog.False(), "unreachable", "unreachable code", loc),
			gotoprog.Assume(gotoprog.False(), loc),
		}

	case *mir.SwitchInt:
		discr := ctx.codegenOperand(fc, t.Discr)
		stmts := make([]gotoprog.Stmt, 0, len(t.Targets)+1)
		for _, target := range t.Targets {
			var value gotoprog.Expr
			if gotoprog.SameType(discr.Type(), gotoprog.Bool) {
				value = gotoprog.BoolConstant(target.Value != 0)
			} else {
				value = gotoprog.IntConstant(target.Value, discr.Type())
			}
			cond := gotoprog.Binary(gotoprog.Equal, discr, value)
			stmts = append(stmts, gotoprog.IfThenElse(cond, gotoprog.Goto(bbLabel(target.Target), loc), nil, loc))
		}
		return append(stmts, gotoprog.Goto(bbLabel(t.Otherwise), loc))

	case *mir.Call:
		return ctx.codegenCall(fc, t, loc)

	case *mir.Assert:
		cond := ctx.codegenOperand(fc, t.Cond)
		if !t.Expected {
			cond = gotoprog.Unary(gotoprog.Not, cond)
		}
		return []gotoprog.Stmt{
			gotoprog.Assert(cond, "assertion", t.Msg, loc),
			gotoprog.Assume(cond, loc),
			gotoprog.Goto(bbLabel(t.Target), loc),
		}
	}
	fc.bug("unknown terminator %T", term)
	return nil
}

func (ctx *Ctx) codegenCall(fc *FnCtx, call *mir.Call, loc gotoprog.Location) []gotoprog.Stmt {
	callee := fc.instance.MonomorphizeInstance(call.Func)
	funcExpr := ctx.CodegenFuncExpr(callee)

	var args []gotoprog.Expr
	if body := callee.Body(); body != nil && body.SpreadArg != nil && len(call.Args) > 0 {
		args = ctx.codegenFuncallArgs(fc, call.Args[:len(call.Args)-1], true)
		args = append(args, ctx.codegenUntupledArgs(fc, call.Args[len(call.Args)-1])...)
	} else {
		args = ctx.codegenFuncallArgs(fc, call.Args, true)
	}

	var stmts []gotoprog.Stmt
	e := gotoprog.WithLocation(gotoprog.Call(funcExpr, args), loc)
	if mir.IsZST(ctx.placeTy(fc, call.Dest)) {
		stmts = append(stmts, gotoprog.Expression(e, loc))
	} else {
		stmts = append(stmts, gotoprog.Assign(ctx.codegenPlace(fc, call.Dest), e, loc))
	}

	if call.Target == nil {
		return append(stmts, gotoprog.Assume(gotoprog.False(), loc))
	}
	return append(stmts, gotoprog.Goto(bbLabel(*call.Target), loc))
}

// codegenUntupledArgs passes the components of a tuple operand as separate
// arguments, which is how a spread-argument callee receives them.
func (ctx *Ctx) codegenUntupledArgs(fc *FnCtx, op mir.Operand) []gotoprog.Expr {
	tup, ok := ctx.operandTy(fc, op).(*mir.TupleTy)
	if !ok {
		fc.bug("spread call argument of non-tuple type %s", ctx.operandTy(fc, op))
	}
	base := ctx.codegenOperand(fc, op)
	args := make([]gotoprog.Expr, 0, len(tup.Elems))
	for i, elem := range tup.Elems {
		if mir.IsZST(elem) {
			continue
		}
		args = append(args, gotoprog.Member(base, strconv.Itoa(i), ctx.symbolTable))
	}
	return args
}
