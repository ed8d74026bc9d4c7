package ctree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"iter"

	"github.com/npillmayer/ctree/match"
)

// Predicate is a function type to match against nodes of a tree.
// It is used as an argument for Select and AncestorWith.
type Predicate[P any] func(n Node[P]) bool

// Whatever is a predicate to match anything.
// It is useful to match the first node in a given direction.
func Whatever[P any]() Predicate[P] {
	return func(Node[P]) bool {
		return true
	}
}

// NodeIsLeaf is a predicate to match leafs of a tree.
func NodeIsLeaf[P any]() Predicate[P] {
	return func(n Node[P]) bool {
		return n.kind == KindLeaf
	}
}

// KindIs is a predicate to match nodes of kind k.
func KindIs[P any](k Kind) Predicate[P] {
	return func(n Node[P]) bool {
		return n.kind == k
	}
}

// NameMatches is a predicate to match node names against a compiled pattern.
// Unnamed nodes never match.
func NameMatches[P any](m *match.Matcher) Predicate[P] {
	return func(n Node[P]) bool {
		return m.Matches(n.name)
	}
}

// Walk returns all nodes of the tree in pre-order: a node before its
// children, children in list order. An empty tree yields nothing.
func (t *Tree[P]) Walk() iter.Seq[NodeID] {
	return t.WalkFrom(t.root)
}

// WalkFrom returns node id and its descendants in pre-order. If id does not
// exist, the sequence is empty.
//
// The sequence reads the tree while iterating. Nodes removed by the loop
// body are skipped.
func (t *Tree[P]) WalkFrom(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		t.walk(id, func(n *Node[P]) bool {
			return yield(n.id)
		})
	}
}

// Select returns all nodes matching pred, in pre-order.
func (t *Tree[P]) Select(pred Predicate[P]) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		t.walk(t.root, func(n *Node[P]) bool {
			if pred(*n) {
				return yield(n.id)
			}
			return true
		})
	}
}

// FindByName returns all nodes with a name matching pattern, in pre-order.
// The pattern is compiled before anything is traversed; an invalid pattern
// returns ErrInvalidPattern and no sequence. Unnamed nodes never match.
//
//     seq, err := tree.FindByName(`^(walk|run)$`, match.IgnoreCase())
//
func (t *Tree[P]) FindByName(pattern string, opts ...match.Option) (iter.Seq[NodeID], error) {
	m, err := match.Compile(pattern, opts...)
	if err != nil {
		return nil, &TreeError{Kind: ErrInvalidPattern, Msg: err.Error()}
	}
	return t.Select(NameMatches[P](m)), nil
}

// Ancestors returns the proper ancestors of id, starting with its parent and
// ending with the root.
func (t *Tree[P]) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		n, err := t.ref(id)
		// a chain longer than the tree would be a cycle
		for steps := 0; err == nil && n.parent != NoNode && steps < t.Len(); steps++ {
			if !yield(n.parent) {
				return
			}
			n, err = t.ref(n.parent)
		}
	}
}

// AncestorWith returns the nearest proper ancestor of id matching pred.
func (t *Tree[P]) AncestorWith(id NodeID, pred Predicate[P]) (NodeID, bool) {
	for a := range t.Ancestors(id) {
		if n, err := t.ref(a); err == nil && pred(*n) {
			return a, true
		}
	}
	return NoNode, false
}

// Depth returns the number of proper ancestors of id. The root has depth 0.
func (t *Tree[P]) Depth(id NodeID) int {
	d := 0
	for range t.Ancestors(id) {
		d++
	}
	return d
}

// walk calls f for every node below and including start, in pre-order,
// until f returns false. Every node is visited at most once.
func (t *Tree[P]) walk(start NodeID, f func(*Node[P]) bool) {
	if !t.nodes.Contains(start) {
		return
	}
	visited := make(map[NodeID]bool)
	stack := []NodeID{start}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, err := t.ref(top)
		if err != nil || visited[top] {
			continue
		}
		visited[top] = true
		if !f(n) {
			return
		}
		if n, err = t.ref(top); err != nil { // f may have changed the tree
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}
