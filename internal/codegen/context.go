package codegen

import (
	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("gotoc.codegen")

// TypeLowerer maps source types onto GOTO types.
type TypeLowerer interface {
	LowerType(ty mir.Ty) gotoprog.Type
}

// LocationLowerer maps source spans onto GOTO locations.
type LocationLowerer interface {
	LowerLocation(span mir.Span) gotoprog.Location
}

// BlockTranslator translates one basic block of the function held by fc.
type BlockTranslator interface {
	TranslateBlock(fc *FnCtx, bb mir.BasicBlock, data *mir.BasicBlockData) gotoprog.Stmt
}

// Ctx translates function instances into the symbol table it was created with.
// A Ctx is not safe for concurrent use.
type Ctx struct {
	symbolTable *gotoprog.SymbolTable
	types       TypeLowerer
	locations   LocationLowerer
	blocks      BlockTranslator

	// current is the function being translated, nil between functions.
	current *FnCtx
}

// Option customizes a Ctx.
type Option func(*Ctx)

func WithTypeLowerer(tl TypeLowerer) Option {
	return func(ctx *Ctx) { ctx.types = tl }
}

func WithLocationLowerer(ll LocationLowerer) Option {
	return func(ctx *Ctx) { ctx.locations = ll }
}

func WithBlockTranslator(bt BlockTranslator) Option {
	return func(ctx *Ctx) { ctx.blocks = bt }
}

// New creates a code generator writing into st.
func New(st *gotoprog.SymbolTable, opts ...Option) *Ctx {
	ctx := &Ctx{symbolTable: st}
	ctx.types = NewTypeLowerer(st)
	ctx.locations = locationLowerer{}
	ctx.blocks = &blockTranslator{ctx: ctx}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

func (ctx *Ctx) SymbolTable() *gotoprog.SymbolTable {
	return ctx.symbolTable
}

// Current returns the function being translated, or nil.
func (ctx *Ctx) Current() *FnCtx {
	return ctx.current
}

func (ctx *Ctx) codegenTy(ty mir.Ty) gotoprog.Type {
	return ctx.types.LowerType(ty)
}

func (ctx *Ctx) codegenSpan(span mir.Span) gotoprog.Location {
	loc := ctx.locations.LowerLocation(span)
	if ctx.current != nil && !loc.IsNone() {
		loc.Function = ctx.current.readableName
	}
	return loc
}

type locationLowerer struct{}

func (locationLowerer) LowerLocation(span mir.Span) gotoprog.Location {
	if span.File == "" && span.Start.Line == 0 {
		return gotoprog.NoLocation
	}
	return gotoprog.Location{
		File:      span.File,
		Line:      span.Start.Line,
		Column:    span.Start.Column,
		EndLine:   span.End.Line,
		EndColumn: span.End.Column,
	}
}
