/*
Package ctree implements control trees: hierarchies of composable
control-flow nodes which are walked each tick to produce a decision.

Control trees are the backbone of behaviour trees as used for AI decision
logic or animation blending. Inner nodes decide in which order (and whether
at all) their children are visited; leaf nodes carry a client payload and are
evaluated by a client-supplied function. This package covers the structure;
package eval evaluates trees and package ctreedbg exports them for debugging.

Node Kinds

   Sequence     visit children in order, stop at the first failure
   Selector     visit children in order, stop at the first success
   Parallel     visit all children, combine by policy (all, any, n)
   Decorator    exactly one child, modified by Invert, Repeat or Subtree
   Leaf         no children, carries a payload of type P

Structure

Nodes live in an arena (package arena) and are addressed by NodeID. A node's
parent is stored as an ID, never as an owning reference. Every structural
mutation checks its preconditions before touching the tree, so a failing
operation leaves the tree unchanged:

   - there is exactly one root, and it has no parent
   - every other node has exactly one parent, listing it exactly once
   - no node is its own ancestor
   - leafs have no children; decorators have at most one
   - IDs are stable: detaching and grafting keeps them

A tree starts out empty; InsertRoot establishes the root. Trees are not
safe for concurrent use; clients have to serialize access to a tree
themselves, e.g. with a mutex, or confine it to a single goroutine.

Queries

Walk, Select and FindByName return lazy sequences (iter.Seq) in pre-order:
root first, children in list order. Sequences are restartable and reflect the
tree at the time of iteration.

   seq, err := tree.FindByName(`^A.*`)
   for id := range seq {
       ...
   }

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ctree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctree'.
func tracer() tracing.Trace {
	return tracing.Select("ctree")
}
