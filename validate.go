package ctree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

// Validate checks the structural invariants of the tree and returns the
// first violation found:
//
//   - the root has no parent
//   - every child references an existing node whose parent link points back
//   - no node is reachable twice (ErrCycleDetected)
//   - leafs have no children; decorators have exactly one (ErrInvalidDecorator)
//   - every node is reachable from the root
//
// The mutating operations of Tree keep these invariants; Validate is meant
// for trees assembled by a Builder and for debugging. An empty tree is
// valid.
func (t *Tree[P]) Validate() error {
	if t.root == NoNode {
		if t.nodes.Len() > 0 {
			return treeErr(ErrEmptyTree, NoNode, "%d nodes without a root", t.nodes.Len())
		}
		return nil
	}
	root, err := t.ref(t.root)
	if err != nil {
		return err
	}
	if root.parent != NoNode {
		return treeErr(ErrInvalidParent, t.root, "root has parent %s", root.parent)
	}
	visited := make(map[NodeID]bool, t.nodes.Len())
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			return treeErr(ErrCycleDetected, id, "node reachable twice")
		}
		visited[id] = true
		n, err := t.ref(id)
		if err != nil {
			return err
		}
		switch {
		case n.kind == KindLeaf && len(n.children) > 0:
			return treeErr(ErrInvalidParent, id, "leaf has %d children", len(n.children))
		case n.kind == KindDecorator && len(n.children) != 1:
			return treeErr(ErrInvalidDecorator, id, "has %d children", len(n.children))
		}
		for _, ch := range n.children {
			c, err := t.ref(ch)
			if err != nil {
				return err
			}
			if c.parent != id {
				return treeErr(ErrInvalidParent, ch, "listed as child of %s, but parent is %s", id, c.parent)
			}
			stack = append(stack, ch)
		}
	}
	if len(visited) != t.nodes.Len() {
		for _, id := range t.nodes.IDs() {
			if !visited[id] {
				return treeErr(ErrInvalidParent, id, "node not reachable from root")
			}
		}
	}
	tracer().Debugf("tree: validated %d nodes", len(visited))
	return nil
}
