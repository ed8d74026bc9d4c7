/*
Package arena implements an arena-style store for tree nodes.

Records are addressed by stable identifiers instead of pointers. Structural
back-references (a node pointing to its parent) are therefore plain IDs and
never create ownership cycles. Identifiers are issued from a monotonic counter
and are never handed out twice; the storage slot of a removed record may be
recycled, its ID is not.

An arena is not safe for concurrent use. Clients that share an arena between
goroutines have to serialize access themselves.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package arena

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctree.arena'.
func tracer() tracing.Trace {
	return tracing.Select("ctree.arena")
}
