package frontend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gotoc/grammar"
	"gotoc/internal/errors"
	"gotoc/internal/mir"

	"github.com/alecthomas/participle/v2/lexer"
)

// bodyLowerer holds the per-function state while a body is resolved.
type bodyLowerer struct {
	*lowerer
	def    *mir.FnDef
	body   *mir.Body
	labels []string
}

func (l *lowerer) lowerBody(def *mir.FnDef, node *grammar.Fn) {
	b := &bodyLowerer{lowerer: l, def: def, body: def.Body}
	body := b.body
	src := node.Body

	body.ArgCount = len(def.Sig.Inputs)
	body.LocalDecls = append(body.LocalDecls, mir.LocalDecl{
		Ty:      def.Sig.Output,
		Mutable: true,
		Span:    span(node.Name.Pos, node.Name.EndPos),
	})
	for i, param := range node.Params {
		body.LocalDecls = append(body.LocalDecls, mir.LocalDecl{
			Ty:   def.Sig.Inputs[i],
			Span: span(param.Pos, param.EndPos),
		})
	}

	for _, decl := range src.Decls {
		let := decl.Let
		if let == nil {
			continue
		}
		next := len(body.LocalDecls)
		if let.Local != mir.Local(next).String() {
			l.addError(errors.LocalNumbering(let.Local, next, localPos(let.Pos, let.Mut)))
			return
		}
		ty, ok := l.resolveType(let.Type, def.Generics)
		if !ok {
			ty = mir.Unit
		}
		body.LocalDecls = append(body.LocalDecls, mir.LocalDecl{
			Ty:      ty,
			Mutable: let.Mut,
			Span:    span(let.Pos, let.EndPos),
		})
	}

	named := make(map[mir.Local]bool)
	for _, decl := range src.Decls {
		debug := decl.Debug
		if debug == nil {
			continue
		}
		local, ok := b.local(debug.Local, position(debug.Pos))
		if !ok {
			continue
		}
		if named[local] {
			l.addError(errors.DuplicateDefinition("debug name for", debug.Local, position(debug.Pos)))
			continue
		}
		named[local] = true
		body.VarDebugInfo = append(body.VarDebugInfo, mir.VarDebugInfo{Name: debug.Name, Local: local})
	}

	if len(src.Blocks) == 0 {
		l.addError(errors.UnknownBlock(mir.StartBlock.String(), position(src.Pos), nil))
		return
	}
	for i, block := range src.Blocks {
		if want := mir.BasicBlock(i).String(); block.Label != want {
			l.addError(errors.BlockNumbering(block.Label, i, position(block.Pos)))
			return
		}
		b.labels = append(b.labels, block.Label)
	}
	for _, block := range src.Blocks {
		body.Blocks = append(body.Blocks, b.lowerBlock(block))
	}
	log.Debugf("lowered body of %s: %d locals, %d blocks", def.Name, len(body.LocalDecls), len(body.Blocks))
}

// localPos skips the "let" keyword and an optional "mut" to point at the local.
func localPos(pos lexer.Position, mut bool) errors.Position {
	p := position(pos)
	p.Column += len("let ")
	if mut {
		p.Column += len("mut ")
	}
	return p
}

func (b *bodyLowerer) local(name string, pos errors.Position) (mir.Local, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(name, "_"))
	if err != nil || n < 0 || n >= len(b.body.LocalDecls) {
		b.addError(errors.UnknownLocal(name, pos))
		return 0, false
	}
	return mir.Local(n), true
}

func (b *bodyLowerer) block(label string, pos errors.Position) (mir.BasicBlock, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(label, "bb"))
	if err != nil || n < 0 || n >= len(b.labels) {
		b.addError(errors.UnknownBlock(label, pos, b.labels))
		return 0, false
	}
	return mir.BasicBlock(n), true
}

func isTerminator(line *grammar.Line) bool {
	return line.Goto != "" || line.Return || line.Unreachable || line.Switch != nil ||
		line.Assert != nil || (line.Assign != nil && line.Assign.Call != nil)
}

func (b *bodyLowerer) lowerBlock(block *grammar.Block) *mir.BasicBlockData {
	data := &mir.BasicBlockData{Span: span(block.Pos, block.EndPos)}
	if len(block.Lines) == 0 {
		b.addError(errors.MisplacedTerminator(block.Label, position(block.Pos), true))
		return data
	}

	last := len(block.Lines) - 1
	for i, line := range block.Lines {
		if isTerminator(line) {
			if i != last {
				b.addError(errors.MisplacedTerminator(block.Label, position(line.Pos), false))
				continue
			}
			data.Terminator = b.lowerTerminator(line)
			continue
		}
		if stmt := b.lowerStatement(line); stmt != nil {
			data.Statements = append(data.Statements, stmt)
		}
		if i == last {
			b.addError(errors.MisplacedTerminator(block.Label, position(line.Pos), true))
		}
	}
	return data
}

func (b *bodyLowerer) lowerStatement(line *grammar.Line) mir.Statement {
	sp := span(line.Pos, line.EndPos)
	pos := position(line.Pos)
	switch {
	case line.StorageLive != "":
		local, ok := b.local(line.StorageLive, pos)
		if !ok {
			return nil
		}
		return &mir.StorageLive{Local: local, Span: sp}

	case line.StorageDead != "":
		local, ok := b.local(line.StorageDead, pos)
		if !ok {
			return nil
		}
		return &mir.StorageDead{Local: local, Span: sp}

	case line.Nop:
		return &mir.Nop{Span: sp}
	}

	assign := line.Assign
	place, placeTy, ok := b.place(assign.Place)
	rvalue, rvalueTy, rok := b.rvalue(assign.Rvalue)
	if !ok || !rok {
		return nil
	}
	if !mir.SameTy(placeTy, rvalueTy) {
		b.addError(errors.InvalidOperand(
			fmt.Sprintf("cannot assign a value of type %s to '%s' of type %s", rvalueTy, place, placeTy),
			position(assign.Pos)))
		return nil
	}
	return &mir.Assign{Place: place, Rvalue: rvalue, Span: sp}
}

func (b *bodyLowerer) place(p *grammar.Place) (mir.Place, mir.Ty, bool) {
	pos := position(p.Pos)
	if p.Deref {
		pos.Column++
	}
	local, ok := b.local(p.Local, pos)
	if !ok {
		return mir.Place{}, nil, false
	}
	place := mir.PlaceOf(local)
	ty := b.body.Decl(local).Ty

	if p.Deref {
		ref, isRef := ty.(*mir.RefTy)
		if !isRef {
			b.addError(errors.InvalidOperand(fmt.Sprintf("cannot dereference '%s' of type %s", p.Local, ty), position(p.Pos)))
			return mir.Place{}, nil, false
		}
		place.Projection = append(place.Projection, mir.Deref{})
		ty = ref.Elem
	}

	for _, idx := range p.Fields {
		var next mir.Ty
		switch t := ty.(type) {
		case *mir.TupleTy:
			if idx >= 0 && idx < len(t.Elems) {
				next = t.Elems[idx]
			}
		case *mir.StructTy:
			if idx >= 0 && idx < len(t.Def.Fields) {
				next = t.Def.Fields[idx].Ty
			}
		}
		if next == nil {
			b.addError(errors.InvalidOperand(fmt.Sprintf("type %s has no field %d", ty, idx), position(p.Pos)))
			return mir.Place{}, nil, false
		}
		place.Projection = append(place.Projection, mir.Field{Index: idx})
		ty = next
	}
	return place, ty, true
}

func (b *bodyLowerer) operand(op *grammar.Operand) (mir.Operand, mir.Ty, bool) {
	switch {
	case op.Copy != nil:
		place, ty, ok := b.place(op.Copy)
		return &mir.Copy{Place: place}, ty, ok
	case op.Move != nil:
		place, ty, ok := b.place(op.Move)
		return &mir.Move{Place: place}, ty, ok
	}

	c := op.Const
	switch {
	case c.Bool != nil:
		return &mir.Constant{Ty: mir.Bool, Value: *c.Bool == "true"}, mir.Bool, true
	case c.Unit:
		return &mir.Constant{Ty: mir.Unit}, mir.Unit, true
	}

	ty, ok := b.resolveType(c.Int.Type, b.def.Generics)
	if !ok {
		return nil, nil, false
	}
	intTy, isInt := ty.(*mir.IntTy)
	if !isInt {
		b.addError(errors.InvalidOperand(fmt.Sprintf("integer constant of non-integer type %s", ty), position(op.Pos)))
		return nil, nil, false
	}
	if !fitsInt(c.Int.Value, intTy) {
		b.addError(errors.InvalidOperand(fmt.Sprintf("constant %d does not fit in %s", c.Int.Value, ty), position(op.Pos)))
		return nil, nil, false
	}
	return &mir.Constant{Ty: ty, Value: c.Int.Value}, ty, true
}

func fitsInt(v int64, t *mir.IntTy) bool {
	if !t.Signed {
		return v >= 0 && (t.Bits >= 64 || v < int64(1)<<t.Bits)
	}
	if t.Bits >= 64 {
		return true
	}
	limit := int64(1) << (t.Bits - 1)
	return v >= -limit && v < limit
}

func (b *bodyLowerer) operands(ops []*grammar.Operand) ([]mir.Operand, []mir.Ty, bool) {
	operands := make([]mir.Operand, 0, len(ops))
	tys := make([]mir.Ty, 0, len(ops))
	ok := true
	for _, op := range ops {
		operand, ty, resolved := b.operand(op)
		if !resolved {
			ok = false
			continue
		}
		operands = append(operands, operand)
		tys = append(tys, ty)
	}
	return operands, tys, ok
}

// scalar reports whether arithmetic and comparisons apply to ty. Generic
// parameters are accepted and checked once instantiated.
func scalar(ty mir.Ty, allowBool bool) bool {
	switch ty.(type) {
	case *mir.IntTy, *mir.ParamTy:
		return true
	case *mir.BoolTy:
		return allowBool
	}
	return false
}

func (b *bodyLowerer) rvalue(rv *grammar.Rvalue) (mir.Rvalue, mir.Ty, bool) {
	pos := position(rv.Pos)
	switch {
	case rv.Ref != nil:
		place, ty, ok := b.place(rv.Ref.Place)
		if !ok {
			return nil, nil, false
		}
		return &mir.Ref{Mut: rv.Ref.Mut, Place: place}, &mir.RefTy{Mut: rv.Ref.Mut, Elem: ty}, true

	case rv.Binary != nil:
		return b.binary(rv.Binary, pos)

	case rv.Unary != nil:
		operand, ty, ok := b.operand(rv.Unary.Operand)
		if !ok {
			return nil, nil, false
		}
		op := mir.UnOp(rv.Unary.Op)
		valid := scalar(ty, op == mir.UnNot)
		if it, isInt := ty.(*mir.IntTy); isInt && op == mir.UnNeg && !it.Signed {
			valid = false
		}
		if !valid {
			b.addError(errors.InvalidOperand(fmt.Sprintf("%s cannot be applied to %s", op, ty), pos))
			return nil, nil, false
		}
		return &mir.UnaryOp{Op: op, Operand: operand}, ty, true

	case rv.Tuple != nil:
		operands, tys, ok := b.operands(rv.Tuple.Elems)
		if !ok {
			return nil, nil, false
		}
		ty := mir.Tuple(tys...)
		return &mir.Aggregate{Ty: ty, Operands: operands}, ty, true

	case rv.Struct != nil:
		return b.structAggregate(rv.Struct, pos)
	}

	operand, ty, ok := b.operand(rv.Use)
	if !ok {
		return nil, nil, false
	}
	return &mir.Use{Operand: operand}, ty, true
}

func (b *bodyLowerer) binary(bin *grammar.BinaryRvalue, pos errors.Position) (mir.Rvalue, mir.Ty, bool) {
	lhs, lty, lok := b.operand(bin.Lhs)
	rhs, rty, rok := b.operand(bin.Rhs)
	if !lok || !rok {
		return nil, nil, false
	}
	op := mir.BinOp(bin.Op)

	var valid bool
	switch op {
	case mir.BinShl, mir.BinShr:
		// the shift amount may have any integer type
		valid = scalar(lty, false) && scalar(rty, false)
	case mir.BinBitAnd, mir.BinBitOr, mir.BinBitXor:
		valid = mir.SameTy(lty, rty) && scalar(lty, true)
	default:
		valid = mir.SameTy(lty, rty) && scalar(lty, op.IsComparison())
	}
	if !valid {
		b.addError(errors.InvalidOperand(fmt.Sprintf("%s cannot be applied to %s and %s", op, lty, rty), pos))
		return nil, nil, false
	}

	ty := lty
	if op.IsComparison() {
		ty = mir.Bool
	}
	return &mir.BinaryOp{Op: op, Lhs: lhs, Rhs: rhs}, ty, true
}

func (b *bodyLowerer) structAggregate(s *grammar.StructRvalue, pos errors.Position) (mir.Rvalue, mir.Ty, bool) {
	def, ok := b.structs[s.Name]
	if !ok {
		b.addError(errors.UnknownType(s.Name, pos, b.typeNames(b.def.Generics)))
		return nil, nil, false
	}
	operands, tys, ok := b.operands(s.Fields)
	if !ok {
		return nil, nil, false
	}
	if len(operands) != len(def.Fields) {
		b.addError(errors.InvalidOperand(
			fmt.Sprintf("struct %s has %d fields but %d values were supplied", def.Name, len(def.Fields), len(operands)), pos))
		return nil, nil, false
	}
	for i, f := range def.Fields {
		if !mir.SameTy(f.Ty, tys[i]) {
			b.addError(errors.InvalidOperand(
				fmt.Sprintf("field '%s' of %s has type %s, got %s", f.Name, def.Name, f.Ty, tys[i]), pos))
			return nil, nil, false
		}
	}
	ty := &mir.StructTy{Def: def}
	return &mir.Aggregate{Ty: ty, Operands: operands}, ty, true
}

func (b *bodyLowerer) lowerTerminator(line *grammar.Line) mir.Terminator {
	sp := span(line.Pos, line.EndPos)
	pos := position(line.Pos)
	switch {
	case line.Goto != "":
		target, ok := b.block(line.Goto, pos)
		if !ok {
			return nil
		}
		return &mir.Goto{Target: target, Span: sp}

	case line.Return:
		return &mir.Return{Span: sp}

	case line.Unreachable:
		return &mir.Unreachable{Span: sp}

	case line.Switch != nil:
		return b.lowerSwitch(line.Switch, sp, pos)

	case line.Assert != nil:
		a := line.Assert
		cond, ty, ok := b.operand(a.Cond)
		target, tok := b.block(a.Target, pos)
		if !ok || !tok {
			return nil
		}
		if _, isBool := ty.(*mir.BoolTy); !isBool {
			b.addError(errors.InvalidOperand(fmt.Sprintf("assert condition has type %s, expected bool", ty), pos))
			return nil
		}
		return &mir.Assert{Cond: cond, Expected: !a.Negated, Msg: a.Msg, Target: target, Span: sp}
	}

	return b.lowerCall(line.Assign, sp)
}

func (b *bodyLowerer) lowerSwitch(s *grammar.SwitchLine, sp mir.Span, pos errors.Position) mir.Terminator {
	discr, ty, ok := b.operand(s.Discr)
	if !ok {
		return nil
	}
	_, isBool := ty.(*mir.BoolTy)
	if !scalar(ty, true) {
		b.addError(errors.InvalidOperand(fmt.Sprintf("cannot switch on a value of type %s", ty), pos))
		return nil
	}

	term := &mir.SwitchInt{Discr: discr, Span: sp}
	seen := make(map[int64]bool)
	for _, arm := range s.Arms {
		if seen[arm.Value] {
			b.addError(errors.DuplicateDefinition("switch arm", strconv.FormatInt(arm.Value, 10), pos))
			return nil
		}
		seen[arm.Value] = true
		if isBool && arm.Value != 0 && arm.Value != 1 {
			b.addError(errors.InvalidOperand(fmt.Sprintf("switch arm %d does not match a bool", arm.Value), pos))
			return nil
		}
		target, ok := b.block(arm.Target, pos)
		if !ok {
			return nil
		}
		term.Targets = append(term.Targets, mir.SwitchTarget{Value: arm.Value, Target: target})
	}
	otherwise, ok := b.block(s.Otherwise, pos)
	if !ok {
		return nil
	}
	term.Otherwise = otherwise
	return term
}

func (b *bodyLowerer) lowerCall(assign *grammar.AssignLine, sp mir.Span) mir.Terminator {
	call := assign.Call
	pos := position(assign.Pos)
	dest, destTy, ok := b.place(assign.Place)
	if !ok {
		return nil
	}
	inst, ok := b.callee(call.Func, b.def.Generics)
	if !ok {
		return nil
	}
	args, argTys, ok := b.operands(call.Args)
	if !ok {
		return nil
	}

	sig := inst.Sig()
	arity := len(sig.Inputs)
	if len(args) < arity || (len(args) > arity && !sig.CVariadic) {
		b.addError(errors.InvalidOperand(
			fmt.Sprintf("'%s' takes %d arguments but %d were supplied", inst.ReadableName(), arity, len(args)), pos))
		return nil
	}
	for i, want := range sig.Inputs {
		if !mir.SameTy(want, argTys[i]) {
			b.addError(errors.InvalidOperand(
				fmt.Sprintf("argument %d of '%s' has type %s, expected %s", i+1, inst.ReadableName(), argTys[i], want), pos))
			return nil
		}
	}
	if _, diverges := sig.Output.(*mir.NeverTy); !diverges && !mir.SameTy(sig.Output, destTy) {
		b.addError(errors.InvalidOperand(
			fmt.Sprintf("'%s' returns %s but '%s' has type %s", inst.ReadableName(), sig.Output, dest, destTy), pos))
		return nil
	}

	term := &mir.Call{Func: inst, Args: args, Dest: dest, Span: sp}
	if call.Target != "!" {
		target, ok := b.block(call.Target, pos)
		if !ok {
			return nil
		}
		term.Target = &target
	}
	return term
}

// callee resolves a function path and its type arguments, which are written in
// the scope of generics.
func (l *lowerer) callee(path *grammar.Path, generics []string) (mir.Instance, bool) {
	pos := position(path.Pos)
	def, ok := l.fns[path.Name]
	if !ok {
		l.addError(errors.UnknownFunction(path.Name, pos, l.fnNames()))
		return mir.Instance{}, false
	}
	if len(path.Args) != len(def.Generics) {
		l.addError(errors.TypeArguments(path.Name, len(def.Generics), len(path.Args), pos))
		return mir.Instance{}, false
	}
	args := make([]mir.Ty, 0, len(path.Args))
	for _, a := range path.Args {
		ty, ok := l.resolveType(a, generics)
		if !ok {
			return mir.Instance{}, false
		}
		args = append(args, ty)
	}
	return mir.Mono(def, args...), true
}

func (l *lowerer) fnNames() []string {
	names := make([]string, 0, len(l.fns))
	for name := range l.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
