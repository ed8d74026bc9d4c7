package ctree

import (
	"errors"
	"fmt"

	"github.com/npillmayer/ctree/arena"
	"github.com/npillmayer/ctree/match"
)

// Error kinds. Operations return them wrapped in a *TreeError (or a
// *LeafError); test for them with errors.Is.
var (
	// ErrNotFound is returned if a node ID does not exist in the tree.
	ErrNotFound = arena.ErrNotFound
	// ErrInvalidParent is returned if an operation needs a composite node
	// able to take another child, but got a leaf or a full decorator.
	ErrInvalidParent = errors.New("invalid parent")
	// ErrCycleDetected is returned if a node would become its own ancestor,
	// or if a traversal revisits a node.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrCannotDetachRoot is returned when detaching the root node.
	ErrCannotDetachRoot = errors.New("cannot detach root")
	// ErrIndexOutOfRange is returned if a child position exceeds the
	// current child count.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidPattern is returned if a name pattern does not compile.
	ErrInvalidPattern = match.ErrInvalidPattern
	// ErrLeafEvaluation tags faults raised by leaf evaluation functions.
	ErrLeafEvaluation = errors.New("leaf evaluation fault")
	// ErrEmptyTree is returned by operations that need a root on a tree
	// which does not have one yet.
	ErrEmptyTree = errors.New("tree has no root")
	// ErrRootExists is returned by InsertRoot on a non-empty tree.
	ErrRootExists = errors.New("tree already has a root")
	// ErrInvalidDecorator is returned for decorators without a child.
	ErrInvalidDecorator = errors.New("decorator must have exactly one child")
	// ErrInvalidSubtree is returned when grafting a subtree which has been
	// detached from another tree, or which has already been grafted.
	ErrInvalidSubtree = errors.New("invalid subtree")
)

// TreeError reports a failed operation on a tree node.
type TreeError struct {
	Kind error  // one of the error kinds above
	Node NodeID // node the operation failed on; may be NoNode
	Msg  string // optional detail
}

func (e *TreeError) Error() string {
	if e == nil {
		return ""
	}
	s := "ctree: " + e.Kind.Error()
	if e.Node != NoNode {
		s += fmt.Sprintf(" (node %s)", e.Node)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func (e *TreeError) Unwrap() error { return e.Kind }

func treeErr(kind error, id NodeID, format string, args ...interface{}) error {
	return &TreeError{Kind: kind, Node: id, Msg: fmt.Sprintf(format, args...)}
}

func notFound(id NodeID) error {
	return &TreeError{Kind: ErrNotFound, Node: id}
}

// LeafError wraps a fault raised by a leaf evaluation function, tagging it
// with the leaf's ID. Both errors.Is(err, ErrLeafEvaluation) and
// errors.Is(err, <original fault>) hold.
type LeafError struct {
	Node NodeID
	Err  error
}

// LeafFault wraps err as a fault of leaf id. It returns nil for a nil err.
// A fault already tagged with id is returned unchanged. Faults of other
// nodes, e.g. from evaluating a nested tree, are wrapped again and remain
// reachable with errors.As.
func LeafFault(id NodeID, err error) error {
	if err == nil {
		return nil
	}
	var lerr *LeafError
	if errors.As(err, &lerr) && lerr.Node == id {
		return err
	}
	return &LeafError{Node: id, Err: err}
}

func (e *LeafError) Error() string {
	return fmt.Sprintf("ctree: leaf %s: %v", e.Node, e.Err)
}

func (e *LeafError) Unwrap() []error {
	return []error{ErrLeafEvaluation, e.Err}
}
