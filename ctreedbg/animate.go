package ctreedbg

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/npillmayer/ctree"
	"github.com/npillmayer/ctree/eval"
)

// Animator records a sequence of overlays for a tree and renders them as
// an HTML page, showing one frame after the other. Frames are either added
// per evaluation (AddFrame) or recorded per evaluation step (Hooks).
//
//     anim := ctreedbg.NewAnimator(tree)
//     for i, state := range states {
//         r, _ := eval.New(tree, leafFunc(state)).Evaluate()
//         anim.AddFrame(fmt.Sprintf("tick %d", i), r)
//     }
//     anim.WriteHTML(w, 500*time.Millisecond)
//
// Frames are rendered from the tree at the time WriteHTML is called.
type Animator[P any] struct {
	tree   *ctree.Tree[P]
	opts   []Option
	frames []frame
}

type frame struct {
	title   string
	overlay *Overlay
}

// NewAnimator creates an animator for tree. Options apply to every frame;
// overlays and titles are set per frame.
func NewAnimator[P any](tree *ctree.Tree[P], opts ...Option) *Animator[P] {
	return &Animator[P]{tree: tree, opts: opts}
}

// AddFrame appends a frame showing the outcome of an evaluation.
func (a *Animator[P]) AddFrame(title string, r eval.Result) {
	a.frames = append(a.frames, frame{title: title, overlay: OverlayOf(r)})
}

// Hooks returns evaluation hooks which append a frame every time the
// evaluator leaves a node. Nodes entered but not yet left are shown as
// running. Every call starts a new recording; frames are titled
// "<title> step <n>".
func (a *Animator[P]) Hooks(title string) eval.Hooks {
	o := newOverlay()
	step := 0
	return eval.Hooks{
		OnEnter: func(id ctree.NodeID, kind ctree.Kind) {
			o.enter(id)
		},
		OnLeave: func(r eval.Result) {
			o.add(r)
			step++
			a.frames = append(a.frames, frame{
				title:   fmt.Sprintf("%s step %d", title, step),
				overlay: o.clone(),
			})
		},
	}
}

// Len returns the number of frames recorded.
func (a *Animator[P]) Len() int {
	return len(a.frames)
}

// WriteHTML renders all frames as Mermaid diagrams into an HTML page,
// showing each frame for frameTime and looping forever.
func (a *Animator[P]) WriteHTML(w io.Writer, frameTime time.Duration) error {
	if frameTime <= 0 {
		frameTime = time.Second
	}
	page := animationPage{
		Title: "ctree",
		Total: frameTime.Seconds() * float64(len(a.frames)),
		Share: 100.0,
	}
	if len(a.frames) > 0 {
		page.Share = 100.0 / float64(len(a.frames))
	}
	var buf bytes.Buffer
	for i, f := range a.frames {
		buf.Reset()
		opts := append(append([]Option{}, a.opts...), WithOverlay(f.overlay), WithTitle(f.title))
		if err := ToMermaid(&buf, a.tree, opts...); err != nil {
			return err
		}
		page.Frames = append(page.Frames, animationFrame{
			Index:  i,
			Delay:  frameTime.Seconds() * float64(i),
			Source: buf.String(),
		})
	}
	tracer().Debugf("writing animation with %d frames", len(a.frames))
	return animation.Execute(w, page)
}

type animationPage struct {
	Title  string
	Total  float64 // seconds for a full cycle
	Share  float64 // percentage of a cycle a frame is visible
	Frames []animationFrame
}

type animationFrame struct {
	Index  int
	Delay  float64
	Source string
}

var animation = template.Must(template.New("animation").Parse(animationTmpl))

const animationTmpl = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
  .frame { position: absolute; top: 1em; left: 1em; visibility: hidden; animation: show {{ .Total }}s infinite; }
  @keyframes show { 0% { visibility: visible; } {{ .Share }}% { visibility: hidden; } 100% { visibility: hidden; } }
{{- range .Frames }}
  #frame{{ .Index }} { animation-delay: {{ .Delay }}s; }
{{- end }}
</style>
</head>
<body>
{{- range .Frames }}
<pre class="mermaid frame" id="frame{{ .Index }}">
{{ .Source }}</pre>
{{- end }}
<script type="module">
  import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs";
  mermaid.initialize({ startOnLoad: true });
</script>
</body>
</html>
`
