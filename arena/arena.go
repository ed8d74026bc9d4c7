package arena

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned if an ID does not reference a record of the arena.
var ErrNotFound = errors.New("node not found")

// ErrIDInUse is returned by Restore if the ID is currently occupied.
var ErrIDInUse = errors.New("id is in use")

// ErrNotIssued is returned by Restore if the ID has never been issued
// by this arena.
var ErrNotIssued = errors.New("id has not been issued by this arena")

// ID is an opaque, stable identifier for a record in an arena.
// The zero value None never references a record.
type ID uint64

// None is the null ID.
const None ID = 0

func (id ID) String() string {
	if id == None {
		return "#none"
	}
	return fmt.Sprintf("#%d", uint64(id))
}

// Arena owns records of type T. Records live in a dense slice of slots; a hash
// index maps IDs to slot positions.
type Arena[T any] struct {
	props
	slots []slot[T]
	index map[ID]int // id -> position in slots
	free  []int      // recyclable positions in slots
	last  ID         // last ID issued
}

type slot[T any] struct {
	id    ID
	value T
}

// New creates an empty arena.
//
//     a := arena.New[string](arena.Capacity(64))
//
func New[T any](opts ...Option) *Arena[T] {
	a := &Arena[T]{}
	for _, option := range opts {
		a.props = option.config(a.props)
	}
	a.slots = make([]slot[T], 0, a.capacity)
	a.index = make(map[ID]int, a.capacity)
	return a
}

// Option is a type to help initializing arenas at creation time.
type Option struct {
	config func(props) props
}

type props struct {
	capacity int
}

// Capacity is an option to pre-allocate room for n records.
// Negative values are treated as 0.
func Capacity(n int) Option {
	return Option{config: func(p props) props {
		if n < 0 {
			n = 0
		}
		p.capacity = n
		return p
	}}
}

// --- API -------------------------------------------------------------------

// Insert stores v and returns a fresh ID for it. Insert never fails.
func (a *Arena[T]) Insert(v T) ID {
	a.ensureInit()
	a.last++
	a.put(a.last, v)
	return a.last
}

// Restore stores v under an ID which has been issued by this arena earlier and
// has since been removed. This lets clients move records out of the arena and
// back in without changing their identity.
func (a *Arena[T]) Restore(id ID, v T) error {
	a.ensureInit()
	if id == None || id > a.last {
		return fmt.Errorf("%w: %s", ErrNotIssued, id)
	}
	if _, ok := a.index[id]; ok {
		return fmt.Errorf("%w: %s", ErrIDInUse, id)
	}
	a.put(id, v)
	return nil
}

// Remove deletes the record for id and returns it. Remove does not cascade.
func (a *Arena[T]) Remove(id ID) (T, error) {
	var zero T
	pos, ok := a.index[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	v := a.slots[pos].value
	a.slots[pos] = slot[T]{} // drop references held by the value
	a.free = append(a.free, pos)
	delete(a.index, id)
	tracer().Debugf("arena: removed %s, %d records left", id, len(a.index))
	return v, nil
}

// Get returns a copy of the record for id.
func (a *Arena[T]) Get(id ID) (T, error) {
	var zero T
	pos, ok := a.index[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a.slots[pos].value, nil
}

// Ref returns a pointer to the record for id, allowing in-place updates.
// The pointer is valid until the next call to Insert or Restore.
func (a *Arena[T]) Ref(id ID) (*T, error) {
	pos, ok := a.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &a.slots[pos].value, nil
}

// Contains is true if id references a record of the arena.
func (a *Arena[T]) Contains(id ID) bool {
	_, ok := a.index[id]
	return ok
}

// Issued is true if id has been handed out by this arena, regardless of
// whether the record is still present.
func (a *Arena[T]) Issued(id ID) bool {
	return id != None && id <= a.last
}

// Len returns the number of records currently stored.
func (a *Arena[T]) Len() int {
	return len(a.index)
}

// IDs returns the IDs of all stored records in ascending order.
func (a *Arena[T]) IDs() []ID {
	ids := make([]ID, 0, len(a.index))
	for id := range a.index {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// --- Internals -------------------------------------------------------------

func (a *Arena[T]) ensureInit() {
	if a.index == nil {
		a.index = make(map[ID]int)
	}
}

func (a *Arena[T]) put(id ID, v T) {
	var pos int
	if n := len(a.free); n > 0 {
		pos = a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[pos] = slot[T]{id: id, value: v}
	} else {
		pos = len(a.slots)
		a.slots = append(a.slots, slot[T]{id: id, value: v})
	}
	a.index[id] = pos
}
