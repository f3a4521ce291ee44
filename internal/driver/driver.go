// Package driver runs the pipeline from source text to a GOTO symbol table.
package driver

import (
	"os"

	"gotoc/internal/codegen"
	"gotoc/internal/errors"
	"gotoc/internal/frontend"
	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"
	"gotoc/internal/parser"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("gotoc.driver")

// Options configures one compilation.
type Options struct {
	// Entry restricts the roots of instance collection to these functions. When
	// empty every non-generic function is a root.
	Entry []string

	// SkipContracts leaves contract clauses out of the output.
	SkipContracts bool

	// RecursionLimit bounds how often one generic function may appear on a chain of
	// instantiations. Zero means DefaultRecursionLimit.
	RecursionLimit int

	// TypeLengthLimit bounds the number of type nodes in an instance's type
	// arguments. Zero means DefaultTypeLengthLimit.
	TypeLengthLimit int
}

// Limits on instantiation used when Options leaves them zero.
const (
	DefaultRecursionLimit  = 128
	DefaultTypeLengthLimit = 1 << 20
)

func (o Options) recursionLimit() int {
	if o.RecursionLimit > 0 {
		return o.RecursionLimit
	}
	return DefaultRecursionLimit
}

func (o Options) typeLengthLimit() int {
	if o.TypeLengthLimit > 0 {
		return o.TypeLengthLimit
	}
	return DefaultTypeLengthLimit
}

// Result is the output of a successful compilation.
type Result struct {
	SymbolTable *gotoprog.SymbolTable
	// Instances in collection order
	Instances []mir.Instance
}

// Load parses and lowers one source file held in memory.
func Load(name, source string) (*mir.Crate, errors.List) {
	file, parseErrors := parser.ParseSource(name, source)
	if len(parseErrors) > 0 {
		errs := make(errors.List, len(parseErrors))
		for i, pe := range parseErrors {
			errs[i] = pe.CompilerError()
		}
		return nil, errs
	}
	crate, errs := frontend.Lower(file)
	if len(errs) > 0 {
		return nil, errs
	}
	return crate, nil
}

// LoadFile reads path and loads it. The source is returned for error reporting.
func LoadFile(path string) (*mir.Crate, string, errors.List) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.List{errors.UnreadableSource(path, err)}
	}
	crate, errs := Load(path, string(source))
	return crate, string(source), errs
}

// Compile declares every reachable instance of crate, translates the ones with a
// body and attaches their contracts. Internal invariant violations are returned
// as an errors.List holding one CodegenInvariant error.
func Compile(crate *mir.Crate, opts Options) (*Result, error) {
	instances, err := Collect(crate, opts)
	if err != nil {
		return nil, err
	}

	st := gotoprog.NewSymbolTable()
	ctx := codegen.New(st)
	var current mir.Instance
	if err := run(ctx, instances, opts, &current); err != nil {
		if iv, ok := err.(*codegen.InvariantViolation); ok {
			log.Errorf("%s", iv)
			return nil, errors.List{errors.CodegenInvariant(iv.Error(), spanPosition(current.Def.Span))}
		}
		return nil, err
	}

	log.Infof("compiled %d instances of crate %s into %d symbols", len(instances), crate.Name, st.Len())
	return &Result{SymbolTable: st, Instances: instances}, nil
}

// run performs the three codegen phases. current tracks the instance being
// processed so that a violation can be located.
func run(ctx *codegen.Ctx, instances []mir.Instance, opts Options, current *mir.Instance) (err error) {
	defer codegen.Recover(&err)

	for _, inst := range instances {
		*current = inst
		ctx.DeclareFunction(inst)
	}
	for _, inst := range instances {
		if inst.Body() == nil {
			continue
		}
		*current = inst
		ctx.CodegenFunction(inst)
	}
	if opts.SkipContracts {
		return nil
	}
	for _, inst := range instances {
		contract := monomorphizeContract(inst)
		if contract.IsEmpty() {
			continue
		}
		*current = inst
		ctx.AttachContract(inst, contract)
	}
	return nil
}

// monomorphizeContract resolves the helpers of inst's contract, whose type
// arguments may mention inst's generic parameters.
func monomorphizeContract(inst mir.Instance) mir.FnContract[mir.Instance] {
	contract := inst.Def.Contract
	resolve := func(helpers []mir.Instance) []mir.Instance {
		out := make([]mir.Instance, len(helpers))
		for i, h := range helpers {
			out[i] = inst.MonomorphizeInstance(h)
		}
		return out
	}
	return mir.FnContract[mir.Instance]{
		Requires: resolve(contract.Requires),
		Ensures:  resolve(contract.Ensures),
	}
}

func spanPosition(span mir.Span) errors.Position {
	return errors.Position{Filename: span.File, Line: span.Start.Line, Column: span.Start.Column}
}
