package ctree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

// Subtree holds nodes detached from a tree. It may be grafted back into
// the tree it has been detached from, exactly once.
type Subtree[P any] struct {
	origin  *Tree[P]
	root    NodeID
	nodes   []Node[P] // pre-order, nodes[0] is the root
	grafted bool
}

// Root returns the ID of the subtree's top node.
func (sub *Subtree[P]) Root() NodeID {
	if sub == nil {
		return NoNode
	}
	return sub.root
}

// Len returns the number of nodes in the subtree.
func (sub *Subtree[P]) Len() int {
	if sub == nil {
		return 0
	}
	return len(sub.nodes)
}

// Nodes returns copies of the subtree's nodes in pre-order.
func (sub *Subtree[P]) Nodes() []Node[P] {
	if sub == nil {
		return nil
	}
	nodes := make([]Node[P], len(sub.nodes))
	for i, n := range sub.nodes {
		nodes[i] = n.clone()
	}
	return nodes
}

// Graft re-inserts a detached subtree as a child of parent at position
// index (or End). All nodes of the subtree keep their IDs.
//
// Graft fails with ErrInvalidSubtree if sub has not been detached from t or
// has already been grafted. Otherwise it checks parent and index like
// AttachAt does.
func (t *Tree[P]) Graft(parent NodeID, sub *Subtree[P], index int) (NodeID, error) {
	if sub == nil || sub.origin != t || sub.grafted || len(sub.nodes) == 0 {
		return NoNode, treeErr(ErrInvalidSubtree, sub.Root(), "cannot graft into this tree")
	}
	p, err := t.ref(parent)
	if err != nil {
		return NoNode, err
	}
	if err = p.canAdopt(NoNode); err != nil {
		return NoNode, err
	}
	if err = checkIndex(parent, index, len(p.children)); err != nil {
		return NoNode, err
	}
	for _, n := range sub.nodes {
		if t.nodes.Contains(n.id) {
			return NoNode, treeErr(ErrInvalidSubtree, n.id, "node already in tree")
		}
	}
	for i, n := range sub.nodes {
		if i == 0 {
			n.parent = parent
		}
		if err = t.nodes.Restore(n.id, n); err != nil {
			// IDs have been checked above, Restore cannot fail
			panic(err)
		}
	}
	p, _ = t.ref(parent)
	p.insertChildAt(index, sub.root)
	sub.grafted = true
	tracer().Debugf("tree: grafted %s with %d nodes below %s", sub.root, len(sub.nodes), parent)
	return sub.root, nil
}
