package ctree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// String returns an indented dump of the tree, useful for logging and
// test failure messages.
//
//     .
//     └── #1 Sequence root
//         ├── #2 Leaf A
//         └── #3 Selector
//
func (t *Tree[P]) String() string {
	p := tp.New()
	if root, err := t.ref(t.root); err == nil {
		t.print(p, root, make(map[NodeID]bool))
	}
	return p.String()
}

func (t *Tree[P]) print(p tp.Tree, n *Node[P], visited map[NodeID]bool) {
	label := fmt.Sprintf("%s %s", n.id, n.Label())
	if visited[n.id] {
		p.AddNode(label + " (cycle)")
		return
	}
	visited[n.id] = true
	if len(n.children) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, ch := range n.children {
		if c, err := t.ref(ch); err == nil {
			t.print(branch, c, visited)
		}
	}
}
