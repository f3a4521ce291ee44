package driver

import (
	"fmt"
	"sort"

	"gotoc/internal/errors"
	"gotoc/internal/mir"
)

// maxChainNotes is how many requiring instances an instantiation limit error names.
const maxChainNotes = 6

// collected is an instance together with the index of the instance that required it,
// or -1 for a root.
type collected struct {
	inst   mir.Instance
	parent int
}

// Collect returns the instances reachable from the roots of crate in breadth-first
// order. Calls and contract helpers are followed with the caller's type arguments
// substituted, so every returned instance is fully monomorphic. Polymorphic recursion
// is cut off by the recursion and type length limits of opts.
func Collect(crate *mir.Crate, opts Options) ([]mir.Instance, error) {
	roots, err := roots(crate, opts.Entry)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var order []collected
	visit := func(inst mir.Instance, parent int) error {
		if parent >= 0 {
			if err := checkLimits(order, inst, parent, opts); err != nil {
				return err
			}
		}
		name := inst.Name()
		if seen[name] {
			return nil
		}
		seen[name] = true
		order = append(order, collected{inst: inst, parent: parent})
		return nil
	}
	for _, root := range roots {
		if err := visit(root, -1); err != nil {
			return nil, err
		}
	}

	for i := 0; i < len(order); i++ {
		inst := order[i].inst
		var required []mir.Instance
		if body := inst.Body(); body != nil {
			for _, data := range body.Blocks {
				if data == nil {
					continue
				}
				if call, ok := data.Terminator.(*mir.Call); ok {
					required = append(required, inst.MonomorphizeInstance(call.Func))
				}
			}
		}
		if !opts.SkipContracts {
			contract := monomorphizeContract(inst)
			required = append(required, contract.Requires...)
			required = append(required, contract.Ensures...)
		}
		for _, r := range required {
			if err := visit(r, i); err != nil {
				return nil, err
			}
		}
	}

	instances := make([]mir.Instance, len(order))
	for i, c := range order {
		instances[i] = c.inst
	}
	log.Debugf("collected %d instances from %d roots", len(instances), len(roots))
	return instances, nil
}

// checkLimits runs before inst is named: the mangled name of a runaway instance is as
// long as its type arguments.
func checkLimits(order []collected, inst mir.Instance, parent int, opts Options) error {
	caller := order[parent].inst
	if limit := opts.typeLengthLimit(); inst.TypeLength(limit) > limit {
		return instantiationLimit(order, parent,
			fmt.Sprintf("type arguments of '%s' called from '%s' exceed the type length limit of %d",
				inst.Def.Name, shortName(caller), limit))
	}

	depth := 1
	for p := parent; p >= 0; p = order[p].parent {
		if order[p].inst.Def == inst.Def {
			depth++
		}
	}
	if limit := opts.recursionLimit(); depth > limit {
		return instantiationLimit(order, parent,
			fmt.Sprintf("reached the recursion limit of %d while instantiating '%s'", limit, shortName(inst)))
	}
	return nil
}

func instantiationLimit(order []collected, parent int, message string) error {
	var chain []string
	skipped := 0
	for p := parent; p >= 0; p = order[p].parent {
		if len(chain) < maxChainNotes {
			chain = append(chain, shortName(order[p].inst))
		} else {
			skipped++
		}
	}
	pos := spanPosition(order[parent].inst.Def.Span)
	return errors.List{errors.InstantiationLimit(message, chain, skipped, pos)}
}

// shortName is the readable name of inst, cut short for messages.
func shortName(inst mir.Instance) string {
	const max = 80
	name := inst.ReadableName()
	if len(name) > max {
		return name[:max] + "..."
	}
	return name
}

func roots(crate *mir.Crate, entry []string) ([]mir.Instance, error) {
	var roots []mir.Instance
	if len(entry) == 0 {
		for _, fn := range crate.Fns {
			if len(fn.Generics) == 0 {
				roots = append(roots, mir.Mono(fn))
			}
		}
		return roots, nil
	}

	for _, name := range entry {
		fn := crate.Fn(name)
		if fn == nil || len(fn.Generics) > 0 {
			return nil, errors.List{errors.UnknownEntry(name, entryNames(crate))}
		}
		roots = append(roots, mir.Mono(fn))
	}
	return roots, nil
}

func entryNames(crate *mir.Crate) []string {
	var names []string
	for _, fn := range crate.Fns {
		if len(fn.Generics) == 0 {
			names = append(names, fn.Name)
		}
	}
	sort.Strings(names)
	return names
}
