package ctree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

// Builder assembles a tree declaratively, layer by layer:
//
//     b := ctree.NewBuilder[string]()
//     b.Sequence("root", func(l *ctree.Layer[string]) {
//         l.Leaf("A", "clip-a")
//         l.Selector("", func(l *ctree.Layer[string]) {
//             l.Leaf("B", "clip-b")
//             l.Leaf("C", "clip-c")
//         })
//     })
//     tree, err := b.Build()
//
// The first error is kept and stops all further building; Build reports it.
type Builder[P any] struct {
	tree *Tree[P]
	err  error
}

// NewBuilder creates a builder for a new, empty tree.
func NewBuilder[P any](opts ...Option) *Builder[P] {
	return &Builder[P]{tree: New[P](opts...)}
}

// Layer adds children to a single composite node.
type Layer[P any] struct {
	b  *Builder[P]
	id NodeID
}

// ID returns the node this layer adds children to.
func (l *Layer[P]) ID() NodeID { return l.id }

// Root sets the root of the tree and lets f populate its children.
// f may be nil.
func (b *Builder[P]) Root(n Node[P], f func(*Layer[P])) *Builder[P] {
	if b.err != nil {
		return b
	}
	id, err := b.tree.InsertRoot(n)
	if err != nil {
		b.err = err
		return b
	}
	if f != nil {
		f(&Layer[P]{b: b, id: id})
	}
	return b
}

// Sequence sets a sequence as the root.
func (b *Builder[P]) Sequence(name string, f func(*Layer[P])) *Builder[P] {
	return b.Root(NewSequence[P](name), f)
}

// Selector sets a selector as the root.
func (b *Builder[P]) Selector(name string, f func(*Layer[P])) *Builder[P] {
	return b.Root(NewSelector[P](name), f)
}

// Parallel sets a parallel node as the root.
func (b *Builder[P]) Parallel(name string, policy Policy, f func(*Layer[P])) *Builder[P] {
	return b.Root(NewParallel[P](name, policy), f)
}

// Build validates and returns the tree, or the first error that occurred
// while building.
func (b *Builder[P]) Build() (*Tree[P], error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.tree.Validate(); err != nil {
		return nil, err
	}
	return b.tree, nil
}

// Add attaches n as the next child and lets f populate its children.
// It returns the ID of the new node, or NoNode after an error.
func (l *Layer[P]) Add(n Node[P], f func(*Layer[P])) NodeID {
	if l.b.err != nil {
		return NoNode
	}
	id, err := l.b.tree.Attach(l.id, n)
	if err != nil {
		l.b.err = err
		return NoNode
	}
	if f != nil {
		f(&Layer[P]{b: l.b, id: id})
	}
	return id
}

// Leaf adds a leaf.
func (l *Layer[P]) Leaf(name string, payload P) NodeID {
	return l.Add(NewLeaf(name, payload), nil)
}

// Sequence adds a sequence.
func (l *Layer[P]) Sequence(name string, f func(*Layer[P])) NodeID {
	return l.Add(NewSequence[P](name), f)
}

// Selector adds a selector.
func (l *Layer[P]) Selector(name string, f func(*Layer[P])) NodeID {
	return l.Add(NewSelector[P](name), f)
}

// Parallel adds a parallel node.
func (l *Layer[P]) Parallel(name string, policy Policy, f func(*Layer[P])) NodeID {
	return l.Add(NewParallel[P](name, policy), f)
}

// Invert adds an inverting decorator.
func (l *Layer[P]) Invert(name string, f func(*Layer[P])) NodeID {
	return l.Add(NewDecorator[P](name, Decorator{Kind: Invert}), f)
}

// Repeat adds a decorator re-evaluating its failing child up to retries
// extra times.
func (l *Layer[P]) Repeat(name string, retries int, f func(*Layer[P])) NodeID {
	return l.Add(NewDecorator[P](name, Decorator{Kind: Repeat, Retries: retries}), f)
}

// Subtree adds a decorator marking a named sub-tree.
func (l *Layer[P]) Subtree(name string, f func(*Layer[P])) NodeID {
	return l.Add(NewDecorator[P](name, Decorator{Kind: Subtree}), f)
}
