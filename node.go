package ctree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/ctree/arena"
)

// NodeID identifies a node within a tree. IDs are stable for the lifetime
// of a node and are never reused.
type NodeID = arena.ID

// NoNode is the null node ID. It is the parent of the root node.
const NoNode NodeID = arena.None

// End is a child position denoting "after the last child".
const End = -1

// Kind is the type of a node.
type Kind uint8

// Node kinds. All kinds but KindLeaf are composite.
const (
	KindLeaf Kind = iota
	KindSequence
	KindSelector
	KindParallel
	KindDecorator
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindSequence:
		return "Sequence"
	case KindSelector:
		return "Selector"
	case KindParallel:
		return "Parallel"
	case KindDecorator:
		return "Decorator"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsComposite is true for all kinds that may have children.
func (k Kind) IsComposite() bool {
	return k >= KindSequence && k <= KindDecorator
}

// --- Parallel policies -----------------------------------------------------

type policyMode uint8

const (
	requireAll policyMode = iota
	requireAny
	requireN
)

// Policy decides how a Parallel node combines the results of its children.
// The zero value is RequireAll.
type Policy struct {
	mode policyMode
	n    int
}

// RequireAll succeeds if every child succeeds. A Parallel without children
// succeeds.
func RequireAll() Policy { return Policy{mode: requireAll} }

// RequireAny succeeds if at least one child succeeds. A Parallel without
// children fails.
func RequireAny() Policy { return Policy{mode: requireAny} }

// RequireN succeeds if at least n children succeed. n ≤ 0 always succeeds;
// n larger than the number of children always fails.
func RequireN(n int) Policy { return Policy{mode: requireN, n: n} }

// Satisfied reports whether a Parallel with children children, of which
// succeeded have succeeded, succeeds under policy p.
func (p Policy) Satisfied(succeeded, children int) bool {
	switch p.mode {
	case requireAny:
		return succeeded > 0
	case requireN:
		return p.n <= 0 || (p.n <= children && succeeded >= p.n)
	}
	return succeeded == children
}

func (p Policy) String() string {
	switch p.mode {
	case requireAny:
		return "any"
	case requireN:
		return fmt.Sprintf("n=%d", p.n)
	}
	return "all"
}

// --- Decorators ------------------------------------------------------------

// DecoratorKind is the type of modification a decorator node applies to
// its single child.
type DecoratorKind uint8

// Decorator kinds.
const (
	Invert  DecoratorKind = iota // swap success and failure of the child
	Repeat                       // re-evaluate a failing child up to n extra times
	Subtree                      // mark the child as a named, reusable sub-tree
)

func (dk DecoratorKind) String() string {
	switch dk {
	case Invert:
		return "Invert"
	case Repeat:
		return "Repeat"
	case Subtree:
		return "Subtree"
	}
	return fmt.Sprintf("DecoratorKind(%d)", uint8(dk))
}

// Decorator describes a decorator node.
type Decorator struct {
	Kind    DecoratorKind
	Retries int // extra evaluations of a failing child, for Repeat
}

func (d Decorator) String() string {
	if d.Kind == Repeat {
		return fmt.Sprintf("Repeat(%d)", d.Retries)
	}
	return d.Kind.String()
}

// --- Nodes -----------------------------------------------------------------

// Node is the record of a tree node. Clients create nodes with one of the
// NewXxx functions and hand them to a tree; the tree assigns ID, parent and
// children. Nodes returned by a tree are copies: changing them does not
// change the tree.
type Node[P any] struct {
	id       NodeID
	parent   NodeID
	children []NodeID
	kind     Kind
	name     string // empty name = unnamed
	policy   Policy
	deco     Decorator
	payload  P // leafs only
}

// NewLeaf creates a leaf node carrying payload.
func NewLeaf[P any](name string, payload P) Node[P] {
	return Node[P]{kind: KindLeaf, name: name, payload: payload}
}

// NewSequence creates a sequence node.
func NewSequence[P any](name string) Node[P] {
	return Node[P]{kind: KindSequence, name: name}
}

// NewSelector creates a selector node.
func NewSelector[P any](name string) Node[P] {
	return Node[P]{kind: KindSelector, name: name}
}

// NewParallel creates a parallel node with a given policy.
func NewParallel[P any](name string, policy Policy) Node[P] {
	return Node[P]{kind: KindParallel, name: name, policy: policy}
}

// NewDecorator creates a decorator node. A negative number of retries for
// Repeat is treated as 0.
func NewDecorator[P any](name string, d Decorator) Node[P] {
	if d.Retries < 0 {
		d.Retries = 0
	}
	return Node[P]{kind: KindDecorator, name: name, deco: d}
}

// fresh returns a copy of n stripped of all tree structure.
func (n Node[P]) fresh() Node[P] {
	n.id, n.parent, n.children = NoNode, NoNode, nil
	return n
}

// clone returns a copy of n not sharing the child list.
func (n Node[P]) clone() Node[P] {
	if n.children != nil {
		n.children = append([]NodeID(nil), n.children...)
	}
	return n
}

// ID returns the node's ID, or NoNode if n has not been inserted into a tree.
func (n Node[P]) ID() NodeID { return n.id }

// Kind returns the node's kind.
func (n Node[P]) Kind() Kind { return n.kind }

// Name returns the node's name. Unnamed nodes return "".
func (n Node[P]) Name() string { return n.name }

// Parent returns the ID of the node's parent, or NoNode for the root.
func (n Node[P]) Parent() NodeID { return n.parent }

// Children returns a copy of the node's child list.
func (n Node[P]) Children() []NodeID {
	return append([]NodeID(nil), n.children...)
}

// ChildCount returns the number of children.
func (n Node[P]) ChildCount() int { return len(n.children) }

// IndexOfChild returns the position of ch in the child list, or -1.
func (n Node[P]) IndexOfChild(ch NodeID) int {
	for i, c := range n.children {
		if c == ch {
			return i
		}
	}
	return -1
}

// Payload returns the payload of a leaf. For composite nodes it returns the
// zero value of P.
func (n Node[P]) Payload() P { return n.payload }

// Policy returns the policy of a Parallel node.
func (n Node[P]) Policy() Policy { return n.policy }

// Decorator returns the decorator description of a decorator node.
func (n Node[P]) Decorator() Decorator { return n.deco }

// Label is a short human readable description of the node, as used by
// tree dumps and graph exports.
func (n Node[P]) Label() string {
	var s string
	switch n.kind {
	case KindParallel:
		s = fmt.Sprintf("Parallel(%s)", n.policy)
	case KindDecorator:
		s = n.deco.String()
	default:
		s = n.kind.String()
	}
	if n.name != "" {
		s += " " + n.name
	}
	return s
}

func (n Node[P]) String() string {
	return fmt.Sprintf("(%s %s #ch=%d)", n.id, n.Label(), len(n.children))
}

// canAdopt checks whether n could take ch as an additional child.
// For decorators, ch may be the existing child.
func (n *Node[P]) canAdopt(ch NodeID) error {
	if !n.kind.IsComposite() {
		return treeErr(ErrInvalidParent, n.id, "leaf cannot have children")
	}
	if n.kind == KindDecorator && len(n.children) > 0 && n.children[0] != ch {
		return treeErr(ErrInvalidParent, n.id, "decorator already has a child")
	}
	return nil
}

func (n *Node[P]) insertChildAt(i int, ch NodeID) {
	if i == End || i >= len(n.children) {
		n.children = append(n.children, ch)
		return
	}
	n.children = append(n.children, NoNode) // make room for one child
	copy(n.children[i+1:], n.children[i:])  // shift i+1..n
	n.children[i] = ch
}

func (n *Node[P]) removeChild(ch NodeID) int {
	for i, c := range n.children {
		if c == ch {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return i
		}
	}
	return -1
}
