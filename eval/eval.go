package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"time"

	"github.com/npillmayer/ctree"
)

// ErrNoLeafFunc is raised (as a leaf fault) for leafs without an evaluation
// function.
var ErrNoLeafFunc = errors.New("no evaluation function for leaf")

// LeafFunc evaluates a leaf with a given payload. A non-nil error is a
// fault; it is tagged with the leaf's ID and propagated (see package doc).
// LeafFuncs may block; evaluation waits for them.
type LeafFunc[P any] func(id ctree.NodeID, payload P) (Outcome, error)

// Hooks let clients observe an evaluation. Either hook may be nil.
type Hooks struct {
	OnEnter func(id ctree.NodeID, kind ctree.Kind)
	OnLeave func(r Result)
}

// Evaluator evaluates a control tree. It does not copy the tree: changes to
// the tree are visible to subsequent evaluations. Evaluators must not be
// used while the tree is being mutated.
type Evaluator[P any] struct {
	props
	tree      *ctree.Tree[P]
	leaf      LeafFunc[P]
	overrides map[ctree.NodeID]LeafFunc[P]
}

// Option is a type to help configuring evaluators at creation time.
type Option struct {
	config func(props) props
}

type props struct {
	hooks   Hooks
	metrics *Metrics
}

// WithHooks installs evaluation hooks.
func WithHooks(h Hooks) Option {
	return Option{config: func(p props) props {
		p.hooks = h
		return p
	}}
}

// WithMetrics makes an evaluator report to m.
func WithMetrics(m *Metrics) Option {
	return Option{config: func(p props) props {
		p.metrics = m
		return p
	}}
}

// New creates an evaluator for tree. leaf is used for all leafs without an
// override (see Override); it may be nil if every leaf gets an override.
//
//     ev := eval.New(tree, func(id ctree.NodeID, clip Clip) (eval.Outcome, error) {
//         return eval.Succeed(clip.Weight), nil
//     })
//     result, err := ev.Evaluate()
//
func New[P any](tree *ctree.Tree[P], leaf LeafFunc[P], opts ...Option) *Evaluator[P] {
	ev := &Evaluator[P]{tree: tree, leaf: leaf}
	for _, option := range opts {
		ev.props = option.config(ev.props)
	}
	return ev
}

// Override sets a dedicated evaluation function for leaf id. Passing a nil
// function removes the override.
func (ev *Evaluator[P]) Override(id ctree.NodeID, f LeafFunc[P]) error {
	n, err := ev.tree.Node(id)
	if err != nil {
		return err
	}
	if n.Kind() != ctree.KindLeaf {
		return &ctree.TreeError{Kind: ctree.ErrInvalidParent, Node: id, Msg: "override for non-leaf"}
	}
	if f == nil {
		delete(ev.overrides, id)
		return nil
	}
	if ev.overrides == nil {
		ev.overrides = make(map[ctree.NodeID]LeafFunc[P])
	}
	ev.overrides[id] = f
	return nil
}

// Evaluate evaluates the tree from its root. It fails with ErrEmptyTree for
// a tree without a root.
//
// The Result is returned even if evaluation ends in a fault; it then holds
// the results recorded up to the fault.
func (ev *Evaluator[P]) Evaluate() (Result, error) {
	root, ok := ev.tree.Root()
	if !ok {
		return Result{}, &ctree.TreeError{Kind: ctree.ErrEmptyTree}
	}
	return ev.EvaluateFrom(root)
}

// EvaluateFrom evaluates the sub-tree starting at node id.
func (ev *Evaluator[P]) EvaluateFrom(id ctree.NodeID) (Result, error) {
	start := time.Now()
	ps := &pass[P]{ev: ev, visited: make(map[ctree.NodeID]bool)}
	r, err := ps.eval(id)
	switch {
	case err != nil:
		tracer().Infof("evaluation of %s ended in fault: %v", id, err)
		ev.metrics.done("error", start)
	default:
		tracer().Debugf("evaluation of %s: %s, %d nodes visited", id, r.Status, len(ps.order))
		ev.metrics.done(r.Status.String(), start)
	}
	return r, err
}

// pass is a single evaluation pass over a tree.
type pass[P any] struct {
	ev      *Evaluator[P]
	visited map[ctree.NodeID]bool
	order   []ctree.NodeID // visited nodes, in order
}

func (p *pass[P]) eval(id ctree.NodeID) (Result, error) {
	if p.visited[id] {
		return Result{Node: id}, &ctree.TreeError{Kind: ctree.ErrCycleDetected, Node: id,
			Msg: "node visited twice during evaluation"}
	}
	n, err := p.ev.tree.Node(id)
	if err != nil {
		return Result{Node: id}, err
	}
	p.visited[id] = true
	p.order = append(p.order, id)
	p.ev.metrics.visit(n.Kind())
	if p.ev.hooks.OnEnter != nil {
		p.ev.hooks.OnEnter(id, n.Kind())
	}
	r := Result{Node: id, Kind: n.Kind(), Name: n.Name()}
	switch n.Kind() {
	case ctree.KindLeaf:
		err = p.leaf(n, &r)
	case ctree.KindSequence:
		err = p.sequence(n, &r)
	case ctree.KindSelector:
		err = p.selector(n, &r)
	case ctree.KindParallel:
		err = p.parallel(n, &r)
	case ctree.KindDecorator:
		err = p.decorator(n, &r)
	}
	if err != nil {
		r.Status = Failure
	}
	if p.ev.hooks.OnLeave != nil {
		p.ev.hooks.OnLeave(r)
	}
	return r, err
}

func (p *pass[P]) leaf(n ctree.Node[P], r *Result) error {
	f := p.ev.leaf
	if o, ok := p.ev.overrides[n.ID()]; ok {
		f = o
	}
	if f == nil {
		p.ev.metrics.fault()
		return ctree.LeafFault(n.ID(), ErrNoLeafFunc)
	}
	out, err := f(n.ID(), n.Payload())
	if err != nil {
		p.ev.metrics.fault()
		tracer().Debugf("leaf %s raised fault: %v", n.ID(), err)
		return ctree.LeafFault(n.ID(), err)
	}
	r.Status, r.Detail = out.Status, out.Detail
	return nil
}

func (p *pass[P]) sequence(n ctree.Node[P], r *Result) error {
	for _, ch := range n.Children() {
		cr, err := p.eval(ch)
		r.Children = append(r.Children, cr)
		if err != nil {
			return err
		}
		if cr.Status == Failure {
			r.Status, r.Detail = Failure, cr.Detail
			return nil
		}
	}
	r.Status, r.Detail = Success, details(r.Children)
	return nil
}

func (p *pass[P]) selector(n ctree.Node[P], r *Result) error {
	for _, ch := range n.Children() {
		cr, err := p.absorb(p.eval(ch))
		r.Children = append(r.Children, cr)
		if err != nil {
			return err
		}
		if cr.Status == Success {
			r.Status, r.Detail = Success, cr.Detail
			return nil
		}
	}
	r.Status, r.Detail = Failure, details(r.Children)
	return nil
}

func (p *pass[P]) parallel(n ctree.Node[P], r *Result) error {
	policy := n.Policy()
	absorbing := policy == ctree.RequireAny()
	succeeded := 0
	for _, ch := range n.Children() {
		cr, err := p.eval(ch)
		if absorbing {
			cr, err = p.absorb(cr, err)
		}
		r.Children = append(r.Children, cr)
		if err != nil {
			return err
		}
		if cr.Status == Success {
			succeeded++
		}
	}
	r.Status = Failure
	if policy.Satisfied(succeeded, len(r.Children)) {
		r.Status = Success
	}
	r.Detail = details(r.Children)
	return nil
}

func (p *pass[P]) decorator(n ctree.Node[P], r *Result) error {
	if n.ChildCount() != 1 {
		return &ctree.TreeError{Kind: ctree.ErrInvalidDecorator, Node: n.ID()}
	}
	child := n.Children()[0]
	d := n.Decorator()
	attempts := 1
	if d.Kind == ctree.Repeat {
		attempts += d.Retries
	}
	var cr Result
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			p.forget(child)
			tracer().Debugf("repeat %s: attempt %d of %d", n.ID(), i+1, attempts)
		}
		cr, err = p.eval(child)
		r.Children = append(r.Children, cr)
		if err != nil || cr.Status == Success {
			break
		}
	}
	if err != nil {
		return err
	}
	r.Status, r.Detail = cr.Status, cr.Detail
	if d.Kind == ctree.Invert {
		r.Status = Success
		if cr.Status == Success {
			r.Status = Failure
		}
	}
	return nil
}

// absorb turns a leaf fault into a failed result. Other errors are
// structural and are passed through.
func (p *pass[P]) absorb(r Result, err error) (Result, error) {
	if err != nil && errors.Is(err, ctree.ErrLeafEvaluation) {
		tracer().Debugf("absorbing fault of %s: %v", r.Node, err)
		r.Status, r.Err = Failure, err
		return r, nil
	}
	return r, err
}

// forget removes id and everything visited after it from the visited set,
// allowing a deliberate re-evaluation.
func (p *pass[P]) forget(id ctree.NodeID) {
	for i := len(p.order) - 1; i >= 0; i-- {
		last := p.order[i]
		delete(p.visited, last)
		p.order = p.order[:i]
		if last == id {
			return
		}
	}
}
