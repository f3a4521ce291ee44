package mir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func block(term Terminator) *BasicBlockData {
	return &BasicBlockData{Terminator: term}
}

func TestReversePostorder_Diamond(t *testing.T) {
	// bb0 -> {bb1, bb2} -> bb3
	body := &Body{Blocks: []*BasicBlockData{
		block(&SwitchInt{Discr: &Constant{Ty: Bool, Value: true}, Targets: []SwitchTarget{{Value: 0, Target: 1}}, Otherwise: 2}),
		block(&Goto{Target: 3}),
		block(&Goto{Target: 3}),
		block(&Return{}),
	}}

	assert.Equal(t, []BasicBlock{0, 2, 1, 3}, ReversePostorder(body))
	assert.Equal(t, []BasicBlock{3, 1, 2, 0}, Postorder(body))
}

func TestReversePostorder_SkipsUnreachable(t *testing.T) {
	body := &Body{Blocks: []*BasicBlockData{
		block(&Goto{Target: 2}),
		block(&Return{}),
		block(&Return{}),
	}}

	assert.Equal(t, []BasicBlock{0, 2}, ReversePostorder(body))
}

func TestReversePostorder_Loop(t *testing.T) {
	// bb0 -> bb1 <-> bb2, bb1 -> bb3
	body := &Body{Blocks: []*BasicBlockData{
		block(&Goto{Target: 1}),
		block(&SwitchInt{Discr: &Constant{Ty: Bool, Value: true}, Targets: []SwitchTarget{{Value: 0, Target: 3}}, Otherwise: 2}),
		block(&Goto{Target: 1}),
		block(&Return{}),
	}}

	order := ReversePostorder(body)
	assert.Equal(t, []BasicBlock{0, 1, 2, 3}, order)

	// Every non-entry block appears after one of its predecessors.
	preds := map[BasicBlock][]BasicBlock{1: {0, 2}, 2: {1}, 3: {1}}
	pos := map[BasicBlock]int{}
	for i, bb := range order {
		pos[bb] = i
	}
	for bb, ps := range preds {
		ok := false
		for _, p := range ps {
			if pos[p] < pos[bb] {
				ok = true
			}
		}
		assert.True(t, ok, "block %s emitted before all its predecessors", bb)
	}
}

func TestReversePostorder_DivergingCall(t *testing.T) {
	def := &FnDef{Name: "abort", Krate: "demo"}
	body := &Body{Blocks: []*BasicBlockData{
		block(&Call{Func: Mono(def), Dest: PlaceOf(ReturnPlace)}),
	}}

	assert.Equal(t, []BasicBlock{0}, ReversePostorder(body))
}

func TestReversePostorder_EmptyBody(t *testing.T) {
	assert.Empty(t, ReversePostorder(&Body{}))
}
