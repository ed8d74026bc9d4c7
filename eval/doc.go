/*
Package eval evaluates control trees.

An Evaluator walks a tree depth-first, synchronously and deterministically,
starting at the root (or any other node). Leaf nodes are evaluated by a
client-supplied LeafFunc; composite nodes combine the outcomes of their
children:

   Sequence    children in order; the first failure fails the sequence.
               No children: success.
   Selector    children in order; the first success succeeds the selector.
               No children: failure.
   Parallel    all children in order; the policy decides (RequireAll,
               RequireAny, RequireN). No children: success under RequireAll
               and RequireN(n ≤ 0), failure otherwise.
   Invert      flips success and failure of its child.
   Repeat(n)   re-evaluates a failing child up to n extra times.
   Subtree     passes its child's outcome through.

Faults raised by leaf functions are tagged with the leaf's ID (see
ctree.LeafError) and propagate to the caller of Evaluate. Selectors and
Parallel nodes with policy RequireAny absorb them instead: the faulty child
counts as failed and its Result carries the fault in field Err.

Evaluation records a Result tree mirroring the visited part of the control
tree. Results of children are kept even if a Parallel's policy has been
decided early, so clients may inspect every outcome.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package eval

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctree.eval'.
func tracer() tracing.Trace {
	return tracing.Select("ctree.eval")
}
