package ctree

import (
	"errors"
	"slices"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildABC builds Sequence[ Leaf A, Selector[ Leaf B, Leaf C ] ].
func buildABC(t *testing.T) (*Tree[string], map[string]NodeID) {
	t.Helper()
	ids := make(map[string]NodeID)
	tree := New[string]()
	var err error
	ids["root"], err = tree.InsertRoot(NewSequence[string]("root"))
	require.NoError(t, err)
	ids["A"], err = tree.Attach(ids["root"], NewLeaf("A", "a"))
	require.NoError(t, err)
	ids["sel"], err = tree.Attach(ids["root"], NewSelector[string]("sel"))
	require.NoError(t, err)
	ids["B"], err = tree.Attach(ids["sel"], NewLeaf("B", "b"))
	require.NoError(t, err)
	ids["C"], err = tree.Attach(ids["sel"], NewLeaf("C", "c"))
	require.NoError(t, err)
	return tree, ids
}

func collect[P any](tree *Tree[P], seq func(func(NodeID) bool)) []string {
	var names []string
	for id := range seq {
		n, _ := tree.Node(id)
		names = append(names, n.Name())
	}
	return names
}

func TestTreeEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree := New[int]()
	_, ok := tree.Root()
	assert.False(t, ok)
	assert.True(t, tree.IsEmpty())
	assert.Equal(t, 0, tree.Len())
	assert.NoError(t, tree.Validate())
	assert.Empty(t, collect(tree, tree.Walk()))
}

func TestTreeInsertRootTwice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree := New[int](Capacity(8))
	root, err := tree.InsertRoot(NewSequence[int]("root"))
	require.NoError(t, err)
	_, err = tree.InsertRoot(NewSelector[int]("other"))
	assert.True(t, errors.Is(err, ErrRootExists), "expected ErrRootExists, is %v", err)
	r, ok := tree.Root()
	assert.True(t, ok)
	assert.Equal(t, root, r)
	p, err := tree.Parent(root)
	require.NoError(t, err)
	assert.Equal(t, NoNode, p)
}

func TestTreeAttach(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree, ids := buildABC(t)
	assert.Equal(t, 5, tree.Len())
	ch, err := tree.Children(ids["sel"])
	require.NoError(t, err)
	assert.Equal(t, []NodeID{ids["B"], ids["C"]}, ch)
	p, err := tree.Parent(ids["C"])
	require.NoError(t, err)
	assert.Equal(t, ids["sel"], p)
	//
	x, err := tree.AttachAt(ids["sel"], NewLeaf("X", "x"), 0)
	require.NoError(t, err)
	ch, _ = tree.Children(ids["sel"])
	assert.Equal(t, []NodeID{x, ids["B"], ids["C"]}, ch)
	y, err := tree.AttachAt(ids["sel"], NewLeaf("Y", "y"), 3)
	require.NoError(t, err)
	ch, _ = tree.Children(ids["sel"])
	assert.Equal(t, []NodeID{x, ids["B"], ids["C"], y}, ch)
	n, err := tree.Node(y)
	require.NoError(t, err)
	assert.Equal(t, "y", n.Payload())
	assert.Equal(t, KindLeaf, n.Kind())
	assert.NoError(t, tree.Validate())
}

func TestTreeAttachErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree, ids := buildABC(t)
	fp := tree.Fingerprint()
	_, err := tree.Attach(ids["A"], NewLeaf("Z", "z"))
	assert.True(t, errors.Is(err, ErrInvalidParent), "expected ErrInvalidParent, is %v", err)
	_, err = tree.Attach(NodeID(4711), NewLeaf("Z", "z"))
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, is %v", err)
	_, err = tree.AttachAt(ids["sel"], NewLeaf("Z", "z"), 3)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange), "expected ErrIndexOutOfRange, is %v", err)
	_, err = tree.AttachAt(ids["sel"], NewLeaf("Z", "z"), -2)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Equal(t, fp, tree.Fingerprint(), "expected failed attaches to leave tree unchanged")
	assert.Equal(t, 5, tree.Len())
	//
	var terr *TreeError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, ids["sel"], terr.Node)
}

func TestTreeDecoratorTakesOneChild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree, ids := buildABC(t)
	inv, err := tree.Attach(ids["root"], NewDecorator[string]("not", Decorator{Kind: Invert}))
	require.NoError(t, err)
	assert.True(t, errors.Is(tree.Validate(), ErrInvalidDecorator))
	_, err = tree.Attach(inv, NewLeaf("D", "d"))
	require.NoError(t, err)
	_, err = tree.Attach(inv, NewLeaf("E", "e"))
	assert.True(t, errors.Is(err, ErrInvalidParent), "expected ErrInvalidParent, is %v", err)
	assert.NoError(t, tree.Validate())
}

func TestTreeReparentToLeafFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree, ids := buildABC(t)
	fp, dump := tree.Fingerprint(), tree.String()
	err := tree.Reparent(ids["C"], ids["A"], 0)
	assert.True(t, errors.Is(err, ErrInvalidParent), "expected ErrInvalidParent, is %v", err)
	assert.Equal(t, fp, tree.Fingerprint())
	assert.Equal(t, dump, tree.String())
}

func TestTreeReparentOntoFullDecorator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree, ids := buildABC(t)
	inv, err := tree.Attach(ids["root"], NewDecorator[string]("not", Decorator{Kind: Invert}))
	require.NoError(t, err)
	d, err := tree.Attach(inv, NewLeaf("D", "d"))
	require.NoError(t, err)
	fp := tree.Fingerprint()
	err = tree.Reparent(ids["A"], inv, End)
	assert.True(t, errors.Is(err, ErrInvalidParent), "expected ErrInvalidParent, is %v", err)
	var terr *TreeError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, inv, terr.Node)
	assert.Equal(t, fp, tree.Fingerprint(), "expected failed reparent to be atomic")
	// the decorator's own child may be moved in place
	require.NoError(t, tree.Reparent(d, inv, End))
	ch, _ := tree.Children(inv)
	assert.Equal(t, []NodeID{d}, ch)
	// once emptied, the decorator accepts another child
	require.NoError(t, tree.Reparent(d, ids["sel"], End))
	require.NoError(t, tree.Reparent(ids["A"], inv, 0))
	ch, _ = tree.Children(inv)
	assert.Equal(t, []NodeID{ids["A"]}, ch)
	assert.NoError(t, tree.Validate())
}

func TestTreeReparentCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree, ids := buildABC(t)
	inner, err := tree.Attach(ids["sel"], NewSequence[string]("inner"))
	require.NoError(t, err)
	fp := tree.Fingerprint()
	for _, target := range []NodeID{ids["sel"], inner} {
		err = tree.Reparent(ids["sel"], target, End)
		assert.True(t, errors.Is(err, ErrCycleDetected), "expected ErrCycleDetected, is %v", err)
	}
	err = tree.Reparent(ids["root"], ids["sel"], 0)
	assert.True(t, errors.Is(err, ErrCycleDetected), "root must not be moved, err = %v", err)
	assert.Equal(t, fp, tree.Fingerprint(), "expected failed reparent to be atomic")
	err = tree.Reparent(NodeID(999), ids["sel"], 0)
	assert.True(t, errors.Is(err, ErrNotFound))
	err = tree.Reparent(ids["A"], ids["sel"], 7)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Equal(t, fp, tree.Fingerprint())
}

func TestTreeReparent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree, ids := buildABC(t)
	require.NoError(t, tree.Reparent(ids["A"], ids["sel"], 1))
	ch, _ := tree.Children(ids["sel"])
	assert.Equal(t, []NodeID{ids["B"], ids["A"], ids["C"]}, ch)
	ch, _ = tree.Children(ids["root"])
	assert.Equal(t, []NodeID{ids["sel"]}, ch)
	p, _ := tree.Parent(ids["A"])
	assert.Equal(t, ids["sel"], p)
	// move within the same parent: index counts after removal
	require.NoError(t, tree.Reparent(ids["B"], ids["sel"], End))
	ch, _ = tree.Children(ids["sel"])
	assert.Equal(t, []NodeID{ids["A"], ids["C"], ids["B"]}, ch)
	err := tree.Reparent(ids["B"], ids["sel"], 3)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange), "expected ErrIndexOutOfRange, is %v", err)
	assert.NoError(t, tree.Validate())
}

func TestTreeDetachAndGraft(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree, ids := buildABC(t)
	_, err := tree.Detach(ids["root"])
	assert.True(t, errors.Is(err, ErrCannotDetachRoot), "expected ErrCannotDetachRoot, is %v", err)
	sub, err := tree.Detach(ids["sel"])
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Len())
	assert.Equal(t, ids["sel"], sub.Root())
	nodes := sub.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, []NodeID{ids["sel"], ids["B"], ids["C"]},
		[]NodeID{nodes[0].ID(), nodes[1].ID(), nodes[2].ID()}, "expected nodes in pre-order")
	assert.Equal(t, "b", nodes[1].Payload())
	assert.Equal(t, []NodeID{ids["B"], ids["C"]}, nodes[0].Children())
	assert.Equal(t, 2, tree.Len())
	for _, gone := range []string{"sel", "B", "C"} {
		_, err = tree.Node(ids[gone])
		assert.True(t, errors.Is(err, ErrNotFound), "expected %s to be gone", gone)
	}
	ch, _ := tree.Children(ids["root"])
	assert.Equal(t, []NodeID{ids["A"]}, ch)
	assert.NoError(t, tree.Validate())
	//
	top, err := tree.Graft(ids["root"], sub, 0)
	require.NoError(t, err)
	assert.Equal(t, ids["sel"], top)
	ch, _ = tree.Children(ids["root"])
	assert.Equal(t, []NodeID{ids["sel"], ids["A"]}, ch)
	ch, _ = tree.Children(ids["sel"])
	assert.Equal(t, []NodeID{ids["B"], ids["C"]}, ch, "expected IDs to survive detach/graft")
	assert.NoError(t, tree.Validate())
	//
	_, err = tree.Graft(ids["root"], sub, End)
	assert.True(t, errors.Is(err, ErrInvalidSubtree), "expected second graft to fail, err = %v", err)
	other := New[string]()
	r, _ := other.InsertRoot(NewSequence[string]("r"))
	sub2, err := tree.Detach(ids["B"])
	require.NoError(t, err)
	_, err = other.Graft(r, sub2, End)
	assert.True(t, errors.Is(err, ErrInvalidSubtree))
}

func TestTreeIDsStayUniqueAfterRemove(t *testing.T) {
	tree, ids := buildABC(t)
	require.NoError(t, tree.Remove(ids["sel"]))
	x, err := tree.Attach(ids["root"], NewLeaf("X", "x"))
	require.NoError(t, err)
	for _, old := range ids {
		assert.NotEqual(t, old, x)
	}
}

func TestTreeInsertBetween(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree, ids := buildABC(t)
	d, err := tree.Attach(ids["sel"], NewLeaf("D", "d"))
	require.NoError(t, err)
	par, err := tree.InsertBetween(ids["sel"], []NodeID{d, ids["C"]}, NewParallel[string]("par", RequireAny()))
	require.NoError(t, err)
	ch, _ := tree.Children(ids["sel"])
	assert.Equal(t, []NodeID{ids["B"], par}, ch)
	ch, _ = tree.Children(par)
	assert.Equal(t, []NodeID{ids["C"], d}, ch, "expected moved children to keep their order")
	p, _ := tree.Parent(d)
	assert.Equal(t, par, p)
	assert.NoError(t, tree.Validate())
	//
	fp := tree.Fingerprint()
	_, err = tree.InsertBetween(ids["sel"], []NodeID{ids["A"]}, NewSequence[string]("x"))
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = tree.InsertBetween(ids["sel"], []NodeID{ids["B"]}, NewLeaf("x", "x"))
	assert.True(t, errors.Is(err, ErrInvalidParent))
	_, err = tree.InsertBetween(ids["sel"], []NodeID{ids["B"], par}, NewDecorator[string]("x", Decorator{Kind: Invert}))
	assert.True(t, errors.Is(err, ErrInvalidParent))
	assert.Equal(t, fp, tree.Fingerprint())
}

func TestTreeAcyclicAfterRandomMoves(t *testing.T) {
	tree := New[int]()
	root, _ := tree.InsertRoot(NewSequence[int]("root"))
	ids := []NodeID{root}
	for i := 1; i < 40; i++ {
		parent := ids[(i*7)%len(ids)]
		id, err := tree.Attach(parent, NewSelector[int](""))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for i := 0; i < 200; i++ {
		a, b := ids[(i*13)%len(ids)], ids[(i*29+3)%len(ids)]
		_ = tree.Reparent(a, b, End) // may fail for cycles, that's fine
	}
	require.NoError(t, tree.Validate())
	for _, id := range ids {
		steps := 0
		for range tree.Ancestors(id) {
			steps++
		}
		assert.LessOrEqual(t, steps, tree.Len())
		if id != root {
			anc := slices.Collect(tree.Ancestors(id))
			assert.Equal(t, root, anc[len(anc)-1], "expected parent chain of %s to end at root", id)
		}
	}
}

func TestTreeValidateDetectsCorruption(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree, ids := buildABC(t)
	sel, _ := tree.ref(ids["sel"])
	sel.children = append(sel.children, ids["A"]) // A now listed twice
	err := tree.Validate()
	assert.Error(t, err)
	t.Logf("corrupt tree: %v", err)
	//
	tree, ids = buildABC(t)
	sel, _ = tree.ref(ids["sel"])
	sel.children = append(sel.children, ids["B"]) // B reachable twice
	assert.True(t, errors.Is(tree.Validate(), ErrCycleDetected))
}
