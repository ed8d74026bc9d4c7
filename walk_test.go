package ctree

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/npillmayer/ctree/match"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNamed(t *testing.T) *Tree[int] {
	t.Helper()
	tree, err := NewBuilder[int]().Sequence("", func(l *Layer[int]) {
		l.Selector("Beta", func(l *Layer[int]) {
			l.Leaf("Alpha", 1)
			l.Leaf("", 2)
		})
		l.Leaf("Apex", 3)
		l.Parallel("gamma", RequireN(1), func(l *Layer[int]) {
			l.Leaf("Aardvark", 4)
		})
	}).Build()
	require.NoError(t, err)
	return tree
}

func TestFindByNamePreOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree := buildNamed(t)
	seq, err := tree.FindByName("^A.*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Apex", "Aardvark"}, collect(tree, seq))
	// sequences are restartable
	assert.Equal(t, []string{"Alpha", "Apex", "Aardvark"}, collect(tree, seq))
	//
	seq, err = tree.FindByName("^a", match.IgnoreCase())
	require.NoError(t, err)
	assert.Len(t, slices.Collect(seq), 3)
}

func TestFindByNameAlphaBetaApex(t *testing.T) {
	tree := New[int]()
	root, _ := tree.InsertRoot(NewSelector[int]("root"))
	for _, name := range []string{"Alpha", "Beta", "Apex"} {
		_, err := tree.Attach(root, NewLeaf(name, 0))
		require.NoError(t, err)
	}
	seq, err := tree.FindByName("^A.*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Apex"}, collect(tree, seq))
}

func TestFindByNameInvalidPattern(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree := buildNamed(t)
	seq, err := tree.FindByName("(unclosed")
	assert.Nil(t, seq)
	assert.True(t, errors.Is(err, ErrInvalidPattern), "expected ErrInvalidPattern, is %v", err)
}

func TestFindByNameUnnamedNeverMatches(t *testing.T) {
	tree := buildNamed(t)
	seq, err := tree.FindByName(".*")
	require.NoError(t, err)
	names := collect(tree, seq)
	assert.NotContains(t, names, "")
	assert.Len(t, names, 5)
}

func TestWalkPreOrderAndEarlyStop(t *testing.T) {
	tree := buildNamed(t)
	var kinds []string
	for id := range tree.Walk() {
		n, _ := tree.Node(id)
		kinds = append(kinds, n.Kind().String())
	}
	assert.Equal(t, []string{"Sequence", "Selector", "Leaf", "Leaf", "Leaf", "Parallel", "Leaf"}, kinds)
	count := 0
	for range tree.Walk() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestSelectAndAncestors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	tree := buildNamed(t)
	leafs := slices.Collect(tree.Select(NodeIsLeaf[int]()))
	assert.Len(t, leafs, 4)
	par := slices.Collect(tree.Select(KindIs[int](KindParallel)))
	require.Len(t, par, 1)
	seq, _ := tree.FindByName("^Aardvark$")
	aardvark := slices.Collect(seq)[0]
	anc, ok := tree.AncestorWith(aardvark, KindIs[int](KindSequence))
	assert.True(t, ok)
	root, _ := tree.Root()
	assert.Equal(t, root, anc)
	assert.Equal(t, 2, tree.Depth(aardvark))
	assert.True(t, tree.IsAncestor(par[0], aardvark))
	assert.False(t, tree.IsAncestor(aardvark, par[0]))
	_, ok = tree.AncestorWith(aardvark, KindIs[int](KindSelector))
	assert.False(t, ok)
	assert.Len(t, slices.Collect(tree.Select(Whatever[int]())), tree.Len())
}

func TestBuilderErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree")
	defer teardown()
	//
	_, err := NewBuilder[int]().Sequence("root", func(l *Layer[int]) {
		l.Invert("not", nil)
	}).Build()
	assert.True(t, errors.Is(err, ErrInvalidDecorator), "expected ErrInvalidDecorator, is %v", err)
	//
	_, err = NewBuilder[int]().Sequence("root", func(l *Layer[int]) {
		l.Repeat("again", 2, func(l *Layer[int]) {
			l.Leaf("x", 1)
			l.Leaf("y", 2)
		})
	}).Build()
	assert.True(t, errors.Is(err, ErrInvalidParent), "expected ErrInvalidParent, is %v", err)
	//
	_, err = NewBuilder[int]().Sequence("a", nil).Selector("b", nil).Build()
	assert.True(t, errors.Is(err, ErrRootExists))
}

func TestTreeString(t *testing.T) {
	tree := buildNamed(t)
	s := tree.String()
	t.Logf("tree =\n%s", s)
	assert.True(t, strings.Contains(s, "Parallel(n=1) gamma"))
	assert.True(t, strings.Contains(s, "Leaf Apex"))
}

func TestFingerprintTracksStructure(t *testing.T) {
	tree := buildNamed(t)
	fp := tree.Fingerprint()
	assert.Equal(t, fp, buildNamed(t).Fingerprint(), "expected equal trees to have equal fingerprints")
	seq, _ := tree.FindByName("^Apex$")
	apex := slices.Collect(seq)[0]
	sub, err := tree.Detach(apex)
	require.NoError(t, err)
	assert.NotEqual(t, fp, tree.Fingerprint())
	root, _ := tree.Root()
	_, err = tree.Graft(root, sub, 1)
	require.NoError(t, err)
	assert.Equal(t, fp, tree.Fingerprint(), "expected graft to restore the original structure")
}
