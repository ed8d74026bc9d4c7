package ctree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/ctree/arena"
)

// Tree is a control tree with leaf payloads of type P.
//
// The zero value is not usable; create trees with New.
type Tree[P any] struct {
	props
	nodes *arena.Arena[Node[P]]
	root  NodeID
}

// New creates an empty tree.
//
//     tree := ctree.New[Clip](ctree.Capacity(128))
//     root, _ := tree.InsertRoot(ctree.NewSelector[Clip]("locomotion"))
//
func New[P any](opts ...Option) *Tree[P] {
	t := &Tree[P]{}
	for _, option := range opts {
		t.props = option.config(t.props)
	}
	t.nodes = arena.New[Node[P]](arena.Capacity(t.capacity))
	return t
}

// Option is a type to help initializing trees at creation time.
type Option struct {
	config func(props) props
}

type props struct {
	capacity int
}

// Capacity is an option to pre-allocate room for n nodes.
func Capacity(n int) Option {
	return Option{config: func(p props) props {
		p.capacity = n
		return p
	}}
}

// --- Queries ---------------------------------------------------------------

// Root returns the ID of the root node. It returns false for an empty tree.
func (t *Tree[P]) Root() (NodeID, bool) {
	return t.root, t.root != NoNode
}

// Len returns the number of nodes in the tree.
func (t *Tree[P]) Len() int {
	return t.nodes.Len()
}

// IsEmpty is true if the tree has no root.
func (t *Tree[P]) IsEmpty() bool {
	return t.root == NoNode
}

// Contains is true if id references a node of the tree.
func (t *Tree[P]) Contains(id NodeID) bool {
	return t.nodes.Contains(id)
}

// Node returns a copy of the node record for id.
func (t *Tree[P]) Node(id NodeID) (Node[P], error) {
	n, err := t.nodes.Get(id)
	if err != nil {
		return Node[P]{}, notFound(id)
	}
	return n.clone(), nil
}

// Children returns the child list of node id.
func (t *Tree[P]) Children(id NodeID) ([]NodeID, error) {
	n, err := t.ref(id)
	if err != nil {
		return nil, err
	}
	return n.Children(), nil
}

// Parent returns the parent of node id. For the root it returns NoNode.
func (t *Tree[P]) Parent(id NodeID) (NodeID, error) {
	n, err := t.ref(id)
	if err != nil {
		return NoNode, err
	}
	return n.parent, nil
}

// IsAncestor is true if anc is a proper ancestor of id.
func (t *Tree[P]) IsAncestor(anc, id NodeID) bool {
	for a := range t.Ancestors(id) {
		if a == anc {
			return true
		}
	}
	return false
}

// --- Mutations -------------------------------------------------------------

// InsertRoot inserts the root node into an empty tree. Any structure of n
// (ID, parent, children) is ignored.
func (t *Tree[P]) InsertRoot(n Node[P]) (NodeID, error) {
	if t.root != NoNode {
		return NoNode, treeErr(ErrRootExists, t.root, "cannot insert %s", n.Label())
	}
	t.root = t.insert(n.fresh())
	tracer().Debugf("tree: inserted root %s", t.root)
	return t.root, nil
}

// Attach appends a new node as the last child of parent and returns its ID.
// Any structure of n (ID, parent, children) is ignored.
func (t *Tree[P]) Attach(parent NodeID, n Node[P]) (NodeID, error) {
	return t.AttachAt(parent, n, End)
}

// AttachAt inserts a new node as a child of parent at position index, with
// 0 ≤ index ≤ child count, or index == End. Siblings from index on shift
// right.
//
// AttachAt fails with ErrNotFound if parent does not exist, with
// ErrInvalidParent if parent cannot take another child, and with
// ErrIndexOutOfRange for an invalid index. The tree is unchanged on failure.
func (t *Tree[P]) AttachAt(parent NodeID, n Node[P], index int) (NodeID, error) {
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
	n = n.fresh()
	n.parent = parent
	id := t.insert(n)
	p, _ = t.ref(parent) // re-fetch: insert may have moved the record
	p.insertChildAt(index, id)
	tracer().Debugf("tree: attached %s to %s", id, parent)
	return id, nil
}

// Detach removes node id and all its descendants from the tree, returning
// them as a Subtree. The subtree may be grafted back into this tree later,
// keeping all IDs.
//
// Detaching the root fails with ErrCannotDetachRoot.
func (t *Tree[P]) Detach(id NodeID) (*Subtree[P], error) {
	n, err := t.ref(id)
	if err != nil {
		return nil, err
	}
	if id == t.root {
		return nil, treeErr(ErrCannotDetachRoot, id, "")
	}
	if p, err := t.ref(n.parent); err == nil {
		p.removeChild(id)
	}
	sub := &Subtree[P]{origin: t, root: id}
	stack := []NodeID{id}
	for len(stack) > 0 { // pre-order
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rec, err := t.nodes.Remove(top)
		if err != nil { // cannot happen for a consistent tree
			tracer().Errorf("tree: detach lost node %s", top)
			continue
		}
		sub.nodes = append(sub.nodes, rec)
		for i := len(rec.children) - 1; i >= 0; i-- {
			stack = append(stack, rec.children[i])
		}
	}
	sub.nodes[0].parent = NoNode
	tracer().Debugf("tree: detached %s with %d nodes", id, len(sub.nodes))
	return sub, nil
}

// Remove deletes node id and all its descendants.
func (t *Tree[P]) Remove(id NodeID) error {
	_, err := t.Detach(id)
	return err
}

// Reparent moves node id (with all its descendants) to become a child of
// newParent at position index. index is interpreted relative to the child
// list of newParent after id has been removed from its old position, and
// may be End.
//
// Preconditions are checked in this order, before any mutation:
//
//   1. id and newParent exist (ErrNotFound)
//   2. newParent can take a child (ErrInvalidParent)
//   3. newParent is neither id nor one of its descendants (ErrCycleDetected);
//      this always holds for the root
//   4. index is in range (ErrIndexOutOfRange)
//
// Reparent is atomic: on failure the tree is unchanged.
func (t *Tree[P]) Reparent(id, newParent NodeID, index int) error {
	n, err := t.ref(id)
	if err != nil {
		return err
	}
	oldParent := n.parent
	p, err := t.ref(newParent)
	if err != nil {
		return err
	}
	if err = p.canAdopt(id); err != nil {
		return err
	}
	if newParent == id || t.IsAncestor(id, newParent) {
		return treeErr(ErrCycleDetected, id, "%s would become its own ancestor", id)
	}
	count := len(p.children)
	if oldParent == newParent {
		count--
	}
	if err = checkIndex(newParent, index, count); err != nil {
		return err
	}
	if old, err := t.ref(oldParent); err == nil {
		old.removeChild(id)
	}
	p.insertChildAt(index, id)
	n.parent = newParent
	tracer().Debugf("tree: moved %s from %s to %s", id, oldParent, newParent)
	return nil
}

// InsertBetween inserts a new composite node n as a child of parent and
// moves the children listed in moveDown below it. The new node takes the
// position of the first moved child; moved children keep their relative
// order. Every node in moveDown must be a child of parent.
func (t *Tree[P]) InsertBetween(parent NodeID, moveDown []NodeID, n Node[P]) (NodeID, error) {
	p, err := t.ref(parent)
	if err != nil {
		return NoNode, err
	}
	if !n.kind.IsComposite() {
		return NoNode, treeErr(ErrInvalidParent, NoNode, "cannot insert leaf %s between nodes", n.Label())
	}
	if len(moveDown) == 0 {
		return NoNode, treeErr(ErrInvalidParent, parent, "no children to move down")
	}
	down := make(map[NodeID]bool, len(moveDown))
	for _, ch := range moveDown {
		if p.IndexOfChild(ch) < 0 {
			return NoNode, treeErr(ErrNotFound, ch, "not a child of %s", parent)
		}
		down[ch] = true
	}
	if n.kind == KindDecorator && len(down) > 1 {
		return NoNode, treeErr(ErrInvalidParent, NoNode, "decorator can take one child only")
	}
	n = n.fresh()
	n.parent = parent
	pos := -1
	var keep []NodeID
	for _, ch := range p.children {
		if down[ch] {
			if pos < 0 {
				pos = len(keep)
			}
			n.children = append(n.children, ch)
		} else {
			keep = append(keep, ch)
		}
	}
	id := t.insert(n)
	p, _ = t.ref(parent)
	p.children = keep
	p.insertChildAt(pos, id)
	for _, ch := range n.children {
		c, _ := t.ref(ch)
		c.parent = id
	}
	tracer().Debugf("tree: inserted %s between %s and %v", id, parent, n.children)
	return id, nil
}

// --- Internals -------------------------------------------------------------

// insert stores n and sets its ID.
func (t *Tree[P]) insert(n Node[P]) NodeID {
	id := t.nodes.Insert(n)
	rec, _ := t.nodes.Ref(id)
	rec.id = id
	return id
}

// ref returns a reference to the node record for id.
// The reference is valid until the next insert.
func (t *Tree[P]) ref(id NodeID) (*Node[P], error) {
	n, err := t.nodes.Ref(id)
	if err != nil {
		return nil, notFound(id)
	}
	return n, nil
}

func checkIndex(parent NodeID, index, count int) error {
	if index == End || (index >= 0 && index <= count) {
		return nil
	}
	return treeErr(ErrIndexOutOfRange, parent, "index %d, have %d children", index, count)
}
