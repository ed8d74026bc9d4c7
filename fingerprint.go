package ctree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a hash over the structure of the tree: IDs, kinds,
// names, policies, decorators and parent/child links, in pre-order.
// Payloads are not included.
//
// Two fingerprints of the same tree are equal if and only if no structural
// change happened in between (modulo hash collisions). This is useful to
// check that a failed operation left the tree untouched, or to cache
// derived data.
func (t *Tree[P]) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(x uint64) {
		binary.LittleEndian.PutUint64(buf[:], x)
		_, _ = d.Write(buf[:])
	}
	put(uint64(t.root))
	t.walk(t.root, func(n *Node[P]) bool {
		put(uint64(n.id))
		put(uint64(n.parent))
		put(uint64(n.kind))
		put(uint64(n.policy.mode))
		put(uint64(n.policy.n))
		put(uint64(n.deco.Kind))
		put(uint64(n.deco.Retries))
		put(uint64(len(n.name)))
		_, _ = d.WriteString(n.name)
		put(uint64(len(n.children)))
		for _, ch := range n.children {
			put(uint64(ch))
		}
		return true
	})
	return d.Sum64()
}
