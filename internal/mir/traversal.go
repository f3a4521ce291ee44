package mir

// Postorder returns the blocks reachable from the entry block in depth-first
// postorder. Successors are explored in terminator order, so the result is
// deterministic for a given body.
func Postorder(body *Body) []BasicBlock {
	if len(body.Blocks) == 0 {
		return nil
	}

	type frame struct {
		bb    BasicBlock
		succs []BasicBlock
		next  int
	}

	visited := make([]bool, len(body.Blocks))
	visited[StartBlock] = true
	stack := []frame{{bb: StartBlock, succs: body.Block(StartBlock).Terminator.Successors()}}
	var order []BasicBlock

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.succs) {
			succ := top.succs[top.next]
			top.next++
			if !visited[succ] {
				visited[succ] = true
				stack = append(stack, frame{bb: succ, succs: body.Block(succ).Terminator.Successors()})
			}
			continue
		}
		order = append(order, top.bb)
		stack = stack[:len(stack)-1]
	}

	return order
}

// ReversePostorder returns the reachable blocks so that every block except the entry
// comes after at least one of its predecessors.
func ReversePostorder(body *Body) []BasicBlock {
	order := Postorder(body)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
