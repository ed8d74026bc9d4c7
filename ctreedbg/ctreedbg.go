/*
Package ctreedbg implements helpers to debug control trees.

Trees may be exported as GraphViz (DOT) or Mermaid diagrams. Exports are
deterministic: nodes are emitted in pre-order, every node followed by the
edge from its parent, and vertex names are derived from node IDs. Exporting
an empty tree yields an empty graph.

An Overlay, created from an evaluation result, colors nodes by their
outcome. An Animator collects overlays, one per evaluation or one per
evaluation step, and renders them as an animated HTML page.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>


*/
package ctreedbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/ctree"
	"github.com/npillmayer/ctree/eval"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctree.dbg'.
func tracer() tracing.Trace {
	return tracing.Select("ctree.dbg")
}

// Option is a type to help configuring exports.
type Option struct {
	config func(props) props
}

type props struct {
	fontname string
	title    string
	overlay  *Overlay
}

func defaultProps(opts []Option) props {
	p := props{fontname: "Helvetica"}
	for _, option := range opts {
		p = option.config(p)
	}
	return p
}

// WithFontname sets the font for GraphViz output.
func WithFontname(name string) Option {
	return Option{config: func(p props) props {
		p.fontname = name
		return p
	}}
}

// WithTitle sets a graph label.
func WithTitle(title string) Option {
	return Option{config: func(p props) props {
		p.title = title
		return p
	}}
}

// WithOverlay colors nodes by evaluation outcome.
func WithOverlay(o *Overlay) Option {
	return Option{config: func(p props) props {
		p.overlay = o
		return p
	}}
}

// --- Overlay ---------------------------------------------------------------

// Overlay holds evaluation state to visualize on a graph.
type Overlay struct {
	status  map[ctree.NodeID]eval.Status
	faults  map[ctree.NodeID]error
	running map[ctree.NodeID]bool
}

func newOverlay() *Overlay {
	return &Overlay{
		status:  make(map[ctree.NodeID]eval.Status),
		faults:  make(map[ctree.NodeID]error),
		running: make(map[ctree.NodeID]bool),
	}
}

// OverlayOf creates an overlay from an evaluation result. Nodes evaluated
// more than once show their last outcome.
func OverlayOf(r eval.Result) *Overlay {
	o := newOverlay()
	o.add(r)
	return o
}

func (o *Overlay) add(r eval.Result) {
	o.status[r.Node] = r.Status
	delete(o.running, r.Node)
	if r.Err != nil {
		o.faults[r.Node] = r.Err
	}
	for _, ch := range r.Children {
		o.add(ch)
	}
}

// enter marks id as being evaluated, clearing an earlier outcome.
func (o *Overlay) enter(id ctree.NodeID) {
	delete(o.status, id)
	delete(o.faults, id)
	o.running[id] = true
}

func (o *Overlay) clone() *Overlay {
	c := newOverlay()
	for id, s := range o.status {
		c.status[id] = s
	}
	for id, err := range o.faults {
		c.faults[id] = err
	}
	for id := range o.running {
		c.running[id] = true
	}
	return c
}

// nodes returns the IDs of all nodes with a class, in ascending order.
func (o *Overlay) nodes() []ctree.NodeID {
	ids := make([]ctree.NodeID, 0, len(o.status)+len(o.running))
	for id := range o.status {
		ids = append(ids, id)
	}
	for id := range o.running {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Status returns the outcome recorded for id. It returns false for nodes
// which have not been visited.
func (o *Overlay) Status(id ctree.NodeID) (eval.Status, bool) {
	if o == nil {
		return eval.Failure, false
	}
	s, ok := o.status[id]
	return s, ok
}

// Fault returns the absorbed fault recorded for id, if any.
func (o *Overlay) Fault(id ctree.NodeID) error {
	if o == nil {
		return nil
	}
	return o.faults[id]
}

// Running reports whether id has been entered but not yet left.
func (o *Overlay) Running(id ctree.NodeID) bool {
	return o != nil && o.running[id]
}

// class returns "running", "success", "failure", "fault" or "" for
// unvisited nodes.
func (o *Overlay) class(id ctree.NodeID) string {
	s, ok := o.Status(id)
	switch {
	case o.Running(id):
		return "running"
	case !ok:
		return ""
	case o.Fault(id) != nil:
		return "fault"
	case s == eval.Success:
		return "success"
	}
	return "failure"
}

// --- GraphViz --------------------------------------------------------------

type vertex struct {
	Name  string
	Label string
	Shape string
	Fill  string
}

type edge struct {
	From, To string
}

var (
	graphHead = template.Must(template.New("head").Parse(graphHeadTmpl))
	dotNode   = template.Must(template.New("node").Funcs(template.FuncMap{
		"dotquote": dotQuote,
	}).Parse(nodeTmpl))
	dotEdge = template.Must(template.New("edge").Parse(edgeTmpl))
)

// ToGraphViz outputs a diagram for a control tree in GraphViz (DOT) format.
//
//     ctreedbg.ToGraphViz(os.Stdout, tree, ctreedbg.WithOverlay(ctreedbg.OverlayOf(result)))
//
func ToGraphViz[P any](w io.Writer, tree *ctree.Tree[P], opts ...Option) error {
	p := defaultProps(opts)
	if err := graphHead.Execute(w, struct {
		Fontname string
		Title    string
	}{dotQuote(p.fontname), dotQuote(p.title)}); err != nil {
		return err
	}
	for id := range tree.Walk() {
		n, err := tree.Node(id)
		if err != nil {
			return err
		}
		v := vertex{Name: vertexName(id), Label: label(n), Shape: dotShape(n.Kind())}
		v.Fill = dotFill(p.overlay.class(id), n.Kind())
		if err = dotNode.Execute(w, v); err != nil {
			return err
		}
		if n.Parent() != ctree.NoNode {
			if err = dotEdge.Execute(w, edge{vertexName(n.Parent()), v.Name}); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "}\n")
	tracer().Debugf("exported tree with %d nodes to GraphViz", tree.Len())
	return err
}

// Dotty is a helper for testing. Given a tree and a testing.T, it will
// create a GraphViz image of the tree and write it to a file in the current
// folder, choosing a unique file name. The image is in SVG format.
//
// If GraphViz is not installed, the test is skipped. If an error occurs,
// t.Error(…) will be set, causing the test to fail.
func Dotty[P any](t *testing.T, tree *ctree.Tree[P], opts ...Option) {
	if _, err := exec.LookPath("dot"); err != nil {
		t.Skip("GraphViz dot not found, skipping rendering")
	}
	tmpfile, err := os.CreateTemp(".", "ctree.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing tree digraph to %s\n", tmpfile.Name())
	if err = ToGraphViz(tmpfile, tree, opts...); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

func vertexName(id ctree.NodeID) string {
	return fmt.Sprintf("n%d", uint64(id))
}

// label is the node's name, or its ID for unnamed nodes, prefixed by the
// kind (with policy or decorator) so that vertices of equal shape can be
// told apart.
func label[P any](n ctree.Node[P]) string {
	if n.Name() == "" {
		return fmt.Sprintf("%s %s", n.Label(), n.ID())
	}
	return n.Label()
}

func dotShape(k ctree.Kind) string {
	switch k {
	case ctree.KindSequence:
		return "box"
	case ctree.KindSelector:
		return "diamond"
	case ctree.KindParallel:
		return "parallelogram"
	case ctree.KindDecorator:
		return "hexagon"
	}
	return "ellipse"
}

func dotFill(class string, k ctree.Kind) string {
	switch class {
	case "success":
		return "palegreen"
	case "failure":
		return "lightpink"
	case "fault":
		return "orangered"
	case "running":
		return "khaki"
	}
	if k == ctree.KindLeaf {
		return "grey95"
	}
	return "lightblue3"
}

// dotQuote quotes s as a DOT string literal.
func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph ctree {
  graph [labelloc="t" label={{ .Title }} splines=true overlap=false rankdir="TB"];
  node [fontname={{ .Fontname }} fontsize=12 style=filled];
  edge [fontname={{ .Fontname }} fontsize=10];
`

const nodeTmpl = `  {{ .Name }} [label={{ dotquote .Label }} shape={{ .Shape }} fillcolor={{ .Fill }}];
`

const edgeTmpl = `  {{ .From }} -> {{ .To }};
`
