package arena

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInsertAndGet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree.arena")
	defer teardown()
	//
	a := New[string](Capacity(4))
	x := a.Insert("x")
	y := a.Insert("y")
	if x == None || y == None || x == y {
		t.Fatalf("expected two distinct non-null IDs, have %s and %s", x, y)
	}
	v, err := a.Get(y)
	if err != nil {
		t.Fatalf("expected to find %s, didn't: %v", y, err)
	}
	if v != "y" {
		t.Errorf("expected value for %s to be %q, is %q", y, "y", v)
	}
	if a.Len() != 2 {
		t.Errorf("expected arena to hold 2 records, holds %d", a.Len())
	}
}

func TestArenaZeroValueIsUsable(t *testing.T) {
	var a Arena[int]
	id := a.Insert(7)
	v, err := a.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestArenaRemove(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ctree.arena")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	a := New[string]()
	x := a.Insert("x")
	v, err := a.Remove(x)
	require.NoError(t, err)
	assert.Equal(t, "x", v)
	assert.False(t, a.Contains(x))
	_, err = a.Get(x)
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, is %v", err)
	_, err = a.Remove(x)
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound on second remove, is %v", err)
	_, err = a.Ref(x)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestArenaIDsAreNeverReused(t *testing.T) {
	a := New[int]()
	seen := make(map[ID]bool)
	for i := 0; i < 50; i++ {
		id := a.Insert(i)
		if seen[id] {
			t.Fatalf("ID %s handed out twice", id)
		}
		seen[id] = true
		if i%3 == 0 {
			_, _ = a.Remove(id)
		}
	}
	// slots are recycled, but IDs keep growing
	assert.Less(t, len(a.slots), 50)
}

func TestArenaRef(t *testing.T) {
	a := New[[]int]()
	id := a.Insert([]int{1})
	ref, err := a.Ref(id)
	require.NoError(t, err)
	*ref = append(*ref, 2)
	v, _ := a.Get(id)
	assert.Equal(t, []int{1, 2}, v)
}

func TestArenaRestore(t *testing.T) {
	a := New[string]()
	x := a.Insert("x")
	_, _ = a.Remove(x)
	a.Insert("y")
	require.NoError(t, a.Restore(x, "x again"))
	v, err := a.Get(x)
	require.NoError(t, err)
	assert.Equal(t, "x again", v)
	//
	err = a.Restore(x, "twice")
	assert.True(t, errors.Is(err, ErrIDInUse), "expected ErrIDInUse, is %v", err)
	err = a.Restore(ID(999), "unknown")
	assert.True(t, errors.Is(err, ErrNotIssued), "expected ErrNotIssued, is %v", err)
	err = a.Restore(None, "none")
	assert.True(t, errors.Is(err, ErrNotIssued))
}

func TestArenaIDsSorted(t *testing.T) {
	a := New[int]()
	ids := []ID{a.Insert(1), a.Insert(2), a.Insert(3), a.Insert(4)}
	_, _ = a.Remove(ids[1])
	a.Insert(5) // takes the recycled slot
	got := a.IDs()
	assert.Equal(t, []ID{ids[0], ids[2], ids[3], ID(5)}, got)
	assert.True(t, a.Issued(ids[1]))
	assert.False(t, a.Issued(ID(6)))
}
