package codegen

import (
	"testing"

	"gotoc/internal/gotoprog"
	"gotoc/internal/mir"

	"github.com/stretchr/testify/require"
)

// fnDef builds a function named name in crate demo whose parameters are the locals
// 1..len(inputs). locals lists the remaining locals after the parameters.
func fnDef(name string, inputs []mir.Ty, output mir.Ty, locals []mir.Ty, blocks ...*mir.BasicBlockData) *mir.FnDef {
	decls := []mir.LocalDecl{{Ty: output}}
	for _, in := range inputs {
		decls = append(decls, mir.LocalDecl{Ty: in})
	}
	for _, l := range locals {
		decls = append(decls, mir.LocalDecl{Ty: l, Mutable: true})
	}
	if len(blocks) == 0 {
		blocks = []*mir.BasicBlockData{{Terminator: &mir.Return{}}}
	}
	return &mir.FnDef{
		Name:  name,
		Krate: "demo",
		Sig:   mir.FnSig{Inputs: inputs, Output: output},
		Body: &mir.Body{
			LocalDecls: decls,
			ArgCount:   len(inputs),
			Blocks:     blocks,
		},
	}
}

// extern builds a body-less function in crate demo.
func extern(name string, inputs []mir.Ty, output mir.Ty) *mir.FnDef {
	return &mir.FnDef{Name: name, Krate: "demo", Sig: mir.FnSig{Inputs: inputs, Output: output}}
}

func local(l int) *mir.Local {
	lc := mir.Local(l)
	return &lc
}

func bb(n int) *mir.BasicBlock {
	b := mir.BasicBlock(n)
	return &b
}

func copyOf(l int) mir.Operand {
	return &mir.Copy{Place: mir.PlaceOf(mir.Local(l))}
}

func constInt(v int64, ty mir.Ty) mir.Operand {
	return &mir.Constant{Ty: ty, Value: v}
}

// codegen declares and translates every instance with a fresh context.
func codegen(t *testing.T, insts ...mir.Instance) *Ctx {
	t.Helper()
	ctx := New(gotoprog.NewSymbolTable())
	for _, inst := range insts {
		ctx.DeclareFunction(inst)
	}
	for _, inst := range insts {
		if inst.Body() != nil {
			ctx.CodegenFunction(inst)
		}
	}
	return ctx
}

// catch runs f and returns the invariant violation it raised, if any.
func catch(f func()) (err error) {
	defer Recover(&err)
	f()
	return nil
}

func requireViolation(t *testing.T, f func()) *InvariantViolation {
	t.Helper()
	err := catch(f)
	require.Error(t, err)
	var iv *InvariantViolation
	require.ErrorAs(t, err, &iv)
	return iv
}

func bodyStmts(t *testing.T, st *gotoprog.SymbolTable, name string) []gotoprog.Stmt {
	t.Helper()
	sym := st.Lookup(name)
	require.NotNil(t, sym)
	block, ok := sym.Value.(*gotoprog.BlockStmt)
	require.True(t, ok, "%s has no body", name)
	return block.Stmts
}

func decls(stmts []gotoprog.Stmt) []*gotoprog.DeclStmt {
	var out []*gotoprog.DeclStmt
	for _, s := range stmts {
		if d, ok := s.(*gotoprog.DeclStmt); ok {
			out = append(out, d)
		}
	}
	return out
}

func labels(stmts []gotoprog.Stmt) []string {
	var out []string
	for _, s := range stmts {
		if l, ok := s.(*gotoprog.LabeledStmt); ok {
			out = append(out, l.Label)
		}
	}
	return out
}
