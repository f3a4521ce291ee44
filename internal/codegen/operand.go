package codegen

import (
	"strconv"

	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"
)

// CodegenFuncExpr returns a symbol expression naming inst. A declared symbol supplies
// the type; otherwise it is computed from the instance signature.
func (ctx *Ctx) CodegenFuncExpr(inst mir.Instance) gotoprog.Expr {
	name := inst.Name()
	if sym := ctx.symbolTable.Lookup(name); sym != nil && sym.IsFunction() {
		return gotoprog.SymbolExpression(name, sym.Type)
	}
	return gotoprog.SymbolExpression(name, ctx.fnTyp(inst))
}

// codegenFuncallArgs lowers call arguments, dropping zero-sized ones when skipZST is set.
func (ctx *Ctx) codegenFuncallArgs(fc *FnCtx, args []mir.Operand, skipZST bool) []gotoprog.Expr {
	exprs := make([]gotoprog.Expr, 0, len(args))
	for _, op := range args {
		if skipZST && mir.IsZST(ctx.operandTy(fc, op)) {
			continue
		}
		exprs = append(exprs, ctx.codegenOperand(fc, op))
	}
	return exprs
}

func (ctx *Ctx) localTy(fc *FnCtx, l mir.Local) mir.Ty {
	if int(l) >= len(fc.body.LocalDecls) {
		fc.bug("reference to undeclared local %s", l)
	}
	return fc.instance.Monomorphize(fc.body.Decl(l).Ty)
}

func (ctx *Ctx) placeTy(fc *FnCtx, place mir.Place) mir.Ty {
	ty := ctx.localTy(fc, place.Local)
	for _, proj := range place.Projection {
		ty = ctx.projectTy(fc, ty, proj)
	}
	return ty
}

func (ctx *Ctx) projectTy(fc *FnCtx, ty mir.Ty, proj mir.ProjectionElem) mir.Ty {
	switch p := proj.(type) {
	case mir.Field:
		switch t := ty.(type) {
		case *mir.TupleTy:
			if p.Index < len(t.Elems) {
				return t.Elems[p.Index]
			}
		case *mir.StructTy:
			if p.Index < len(t.Def.Fields) {
				return fc.instance.Monomorphize(t.Def.Fields[p.Index].Ty)
			}
		}
		fc.bug("field %d of %s", p.Index, ty)
	case mir.Deref:
		if r, ok := ty.(*mir.RefTy); ok {
			return r.Elem
		}
		fc.bug("dereference of %s", ty)
	}
	fc.bug("unknown projection %T", proj)
	return nil
}

func (ctx *Ctx) codegenPlace(fc *FnCtx, place mir.Place) gotoprog.Expr {
	ty := ctx.localTy(fc, place.Local)
	var e gotoprog.Expr = gotoprog.SymbolExpression(fc.VarName(place.Local), ctx.codegenTy(ty))
	for _, proj := range place.Projection {
		switch p := proj.(type) {
		case mir.Field:
			field := strconv.Itoa(p.Index)
			if st, ok := ty.(*mir.StructTy); ok && p.Index < len(st.Def.Fields) {
				field = st.Def.Fields[p.Index].Name
			}
			e = gotoprog.Member(e, field, ctx.symbolTable)
		case mir.Deref:
			e = gotoprog.Deref(e)
		}
		ty = ctx.projectTy(fc, ty, proj)
	}
	return e
}

func (ctx *Ctx) operandTy(fc *FnCtx, op mir.Operand) mir.Ty {
	switch o := op.(type) {
	case *mir.Copy:
		return ctx.placeTy(fc, o.Place)
	case *mir.Move:
		return ctx.placeTy(fc, o.Place)
	case *mir.Constant:
		return fc.instance.Monomorphize(o.Ty)
	}
	fc.bug("unknown operand %T", op)
	return nil
}

func (ctx *Ctx) codegenOperand(fc *FnCtx, op mir.Operand) gotoprog.Expr {
	switch o := op.(type) {
	case *mir.Copy:
		return ctx.codegenPlace(fc, o.Place)
	case *mir.Move:
		return ctx.codegenPlace(fc, o.Place)
	case *mir.Constant:
		return ctx.codegenConstant(fc, o)
	}
	fc.bug("unknown operand %T", op)
	return nil
}

func (ctx *Ctx) codegenConstant(fc *FnCtx, c *mir.Constant) gotoprog.Expr {
	ty := fc.instance.Monomorphize(c.Ty)
	typ := ctx.codegenTy(ty)
	switch v := c.Value.(type) {
	case int64:
		if !gotoprog.IsInteger(typ) {
			fc.bug("integer constant %d of type %s", v, ty)
		}
		return gotoprog.IntConstant(v, typ)
	case bool:
		return gotoprog.BoolConstant(v)
	case nil:
		zero := ctx.codegenDefaultInitializer(typ)
		if zero == nil {
			fc.bug("constant of type %s has no value", ty)
		}
		return zero
	}
	fc.bug("unsupported constant %v", c.Value)
	return nil
}

var binOps = map[mir.BinOp]gotoprog.BinaryOperator{
	mir.BinAdd:    gotoprog.Plus,
	mir.BinSub:    gotoprog.Minus,
	mir.BinMul:    gotoprog.Mult,
	mir.BinDiv:    gotoprog.Div,
	mir.BinRem:    gotoprog.Mod,
	mir.BinBitAnd: gotoprog.Bitand,
	mir.BinBitOr:  gotoprog.Bitor,
	mir.BinBitXor: gotoprog.Bitxor,
	mir.BinShl:    gotoprog.Shl,
	mir.BinShr:    gotoprog.Shr,
	mir.BinEq:     gotoprog.Equal,
	mir.BinNe:     gotoprog.Notequal,
	mir.BinLt:     gotoprog.Lt,
	mir.BinLe:     gotoprog.Le,
	mir.BinGt:     gotoprog.Gt,
	mir.BinGe:     gotoprog.Ge,
}

func (ctx *Ctx) codegenRvalue(fc *FnCtx, rv mir.Rvalue) gotoprog.Expr {
	switch r := rv.(type) {
	case *mir.Use:
		return ctx.codegenOperand(fc, r.Operand)
	case *mir.BinaryOp:
		op, ok := binOps[r.Op]
		if !ok {
			fc.bug("unknown binary operator %s", r.Op)
		}
		return gotoprog.Binary(op, ctx.codegenOperand(fc, r.Lhs), ctx.codegenOperand(fc, r.Rhs))
	case *mir.UnaryOp:
		operand := ctx.codegenOperand(fc, r.Operand)
		switch r.Op {
		case mir.UnNot:
			if _, isBool := ctx.operandTy(fc, r.Operand).(*mir.BoolTy); isBool {
				return gotoprog.Unary(gotoprog.Not, operand)
			}
			return gotoprog.Unary(gotoprog.Bitnot, operand)
		case mir.UnNeg:
			return gotoprog.Unary(gotoprog.UnaryMinus, operand)
		}
		fc.bug("unknown unary operator %s", r.Op)
	case *mir.Ref:
		return gotoprog.AddressOf(ctx.codegenPlace(fc, r.Place))
	case *mir.Aggregate:
		return ctx.codegenAggregate(fc, r)
	}
	fc.bug("unknown rvalue %T", rv)
	return nil
}

func (ctx *Ctx) codegenAggregate(fc *FnCtx, agg *mir.Aggregate) gotoprog.Expr {
	ty := fc.instance.Monomorphize(agg.Ty)
	typ := ctx.codegenTy(ty)
	fields := make(map[string]gotoprog.Expr, len(agg.Operands))
	switch t := ty.(type) {
	case *mir.TupleTy:
		if len(t.Elems) != len(agg.Operands) {
			fc.bug("tuple %s built from %d operands", ty, len(agg.Operands))
		}
		for i, op := range agg.Operands {
			fields[strconv.Itoa(i)] = ctx.codegenOperand(fc, op)
		}
	case *mir.StructTy:
		if len(t.Def.Fields) != len(agg.Operands) {
			fc.bug("struct %s built from %d operands", ty, len(agg.Operands))
		}
		for i, op := range agg.Operands {
			fields[t.Def.Fields[i].Name] = ctx.codegenOperand(fc, op)
		}
	default:
		fc.bug("aggregate of non-aggregate type %s", ty)
	}
	return gotoprog.NewStructExpr(typ, fields, ctx.symbolTable)
}
