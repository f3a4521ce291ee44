package frontend

import (
	"fmt"

	"gotoc/grammar"
	"gotoc/internal/errors"
	"gotoc/internal/mir"
)

// lowerContract collects the #[requires] and #[ensures] attributes of def in
// source order. A helper takes def's parameters followed by its return value
// and returns bool; its type arguments may name def's generic parameters.
func (l *lowerer) lowerContract(def *mir.FnDef, node *grammar.Fn) {
	if len(node.Attrs) == 0 {
		return
	}
	pos := position(node.Name.Pos)
	switch {
	case def.Body == nil:
		l.addError(errors.UnsupportedContract(def.Name, "the function has no body", pos))
		return
	case def.Sig.CVariadic:
		l.addError(errors.UnsupportedContract(def.Name, "the function is variadic", pos))
		return
	case def.Body.SpreadArg != nil || node.Spread != "":
		l.addError(errors.UnsupportedContract(def.Name, "the function spreads its last argument", pos))
		return
	}

	for _, attr := range node.Attrs {
		helper, ok := l.contractHelper(def, attr)
		if !ok {
			continue
		}
		switch attr.Kind {
		case "requires":
			def.Contract.Requires = append(def.Contract.Requires, helper)
		case "ensures":
			def.Contract.Ensures = append(def.Contract.Ensures, helper)
		}
	}
	if !def.Contract.IsEmpty() {
		log.Debugf("contract of %s: %d requires, %d ensures",
			def.Name, len(def.Contract.Requires), len(def.Contract.Ensures))
	}
}

func (l *lowerer) contractHelper(def *mir.FnDef, attr *grammar.Attribute) (mir.Instance, bool) {
	path := attr.Helper
	pos := position(path.Pos)
	target, ok := l.fns[path.Name]
	if !ok {
		l.addError(errors.UnknownContractHelper(path.Name, pos, l.fnNames()))
		return mir.Instance{}, false
	}
	helper, ok := l.callee(path, def.Generics)
	if !ok {
		return mir.Instance{}, false
	}

	sig := helper.Sig()
	want := append(append([]mir.Ty{}, def.Sig.Inputs...), def.Sig.Output)
	if len(sig.Inputs) != len(want) || sig.CVariadic {
		l.addError(errors.ContractHelperArity(target.Name, def.Name, len(want), len(sig.Inputs), pos))
		return mir.Instance{}, false
	}
	for i, ty := range want {
		if !mir.SameTy(ty, sig.Inputs[i]) {
			l.addError(errors.InvalidOperand(
				fmt.Sprintf("parameter %d of contract helper '%s' has type %s, expected %s", i+1, target.Name, sig.Inputs[i], ty), pos))
			return mir.Instance{}, false
		}
	}
	if _, isBool := sig.Output.(*mir.BoolTy); !isBool {
		l.addError(errors.ContractHelperReturn(target.Name, sig.Output.String(), pos))
		return mir.Instance{}, false
	}
	return helper, true
}
