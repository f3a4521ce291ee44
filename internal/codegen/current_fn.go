package codegen

import (
	"fmt"

	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"
)

// FnCtx is the state of the function currently being translated.
type FnCtx struct {
	instance     mir.Instance
	body         *mir.Body
	name         string
	readableName string
	sig          mir.FnSig
	block        []gotoprog.Stmt
}

func newFnCtx(inst mir.Instance) *FnCtx {
	return &FnCtx{
		instance:     inst,
		body:         inst.Body(),
		name:         inst.Name(),
		readableName: inst.ReadableName(),
		sig:          inst.Sig(),
	}
}

func (fc *FnCtx) Instance() mir.Instance { return fc.instance }
func (fc *FnCtx) Body() *mir.Body        { return fc.body }
func (fc *FnCtx) Name() string           { return fc.name }
func (fc *FnCtx) ReadableName() string   { return fc.readableName }

// Sig is the signature before untupling.
func (fc *FnCtx) Sig() mir.FnSig { return fc.sig }

// PushOntoBlock appends a statement to the function body under construction.
func (fc *FnCtx) PushOntoBlock(s gotoprog.Stmt) {
	fc.block = append(fc.block, s)
}

// ExtractBlock returns the buffered statements and empties the buffer.
func (fc *FnCtx) ExtractBlock() []gotoprog.Stmt {
	stmts := fc.block
	fc.block = nil
	return stmts
}

// VarName is the symbol name of local l.
func (fc *FnCtx) VarName(l mir.Local) string {
	return varName(fc.name, l)
}

func (fc *FnCtx) varBaseName(l mir.Local) string {
	return varBaseName(l)
}

func (fc *FnCtx) spreadArgName(l mir.Local) (name, baseName string) {
	return spreadArgName(fc.name, l), spreadArgBaseName(l)
}

func (fc *FnCtx) isUserVariable(l mir.Local) bool {
	_, ok := fc.body.UserName(l)
	return ok
}

// paramsSize is the number of parameters before untupling.
func (fc *FnCtx) paramsSize() int {
	return len(fc.sig.Inputs)
}

func (fc *FnCtx) bug(format string, args ...any) {
	bug(fc.readableName, format, args...)
}

func varBaseName(l mir.Local) string {
	return fmt.Sprintf("var_%d", l)
}

func varName(fnName string, l mir.Local) string {
	return fnName + "::1::" + varBaseName(l)
}

// Components of an untupled spread argument are numbered from the first slot after
// the parameters. The spread_ prefix keeps them apart from body locals of that slot.
func spreadArgBaseName(l mir.Local) string {
	return fmt.Sprintf("spread_%d", l)
}

func spreadArgName(fnName string, l mir.Local) string {
	return fnName + "::1::" + spreadArgBaseName(l)
}

// enterFn makes inst the current function. The returned release must run on every
// exit path; it is an invariant violation to enter while another function is current.
func (ctx *Ctx) enterFn(inst mir.Instance) (*FnCtx, func()) {
	if ctx.current != nil {
		bug(inst.ReadableName(), "cannot enter %s while %s is current", inst.Name(), ctx.current.name)
	}
	fc := newFnCtx(inst)
	ctx.current = fc
	return fc, func() { ctx.current = nil }
}

// withFn runs f with inst as the current function and then restores whichever
// function was current before, including when f panics.
func withFn[T any](ctx *Ctx, inst mir.Instance, f func(fc *FnCtx) T) T {
	prev := ctx.current
	fc := newFnCtx(inst)
	ctx.current = fc
	defer func() { ctx.current = prev }()
	return f(fc)
}
