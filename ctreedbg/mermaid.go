package ctreedbg

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/ctree"
	"gopkg.in/yaml.v3"
)

// ToMermaid outputs a Mermaid flowchart for a control tree.
// Node shapes depend on the kind:
//
//   - Sequence: [Rectangle]
//   - Selector: {Rhombus}
//   - Parallel: [[Subroutine]]
//   - Decorator: {{Hexagon}}
//   - Leaf: ([Stadium])
//
// With an overlay, visited nodes get class success, failure, fault or
// running. A title is written as YAML front matter.
func ToMermaid[P any](w io.Writer, tree *ctree.Tree[P], opts ...Option) error {
	p := defaultProps(opts)
	var sb strings.Builder
	if p.title != "" {
		front, err := yaml.Marshal(frontMatter{Title: p.title})
		if err != nil {
			return err
		}
		sb.WriteString("---\n")
		sb.Write(front)
		sb.WriteString("---\n")
	}
	sb.WriteString("graph TD\n")
	for id := range tree.Walk() {
		n, err := tree.Node(id)
		if err != nil {
			return err
		}
		opener, closer := mermaidShape(n.Kind())
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", vertexName(id), opener, mermaidText(label(n)), closer))
		if n.Parent() != ctree.NoNode {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", vertexName(n.Parent()), vertexName(id)))
		}
	}
	if p.overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef success fill:#c8e6c9,stroke:#2e7d32,color:#000;\n")
		sb.WriteString("    classDef failure fill:#ffcdd2,stroke:#c62828,color:#000;\n")
		sb.WriteString("    classDef fault fill:#ff7043,stroke:#bf360c,stroke-width:3px,color:#000;\n")
		sb.WriteString("    classDef running fill:#fff59d,stroke:#f9a825,color:#000;\n")
		for _, id := range p.overlay.nodes() {
			if !tree.Contains(id) {
				continue
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", vertexName(id), p.overlay.class(id)))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

type frontMatter struct {
	Title string `yaml:"title"`
}

func mermaidShape(k ctree.Kind) (string, string) {
	switch k {
	case ctree.KindSequence:
		return "[", "]"
	case ctree.KindSelector:
		return "{", "}"
	case ctree.KindParallel:
		return "[[", "]]"
	case ctree.KindDecorator:
		return "{{", "}}"
	}
	return "([", "])"
}

// mermaidText escapes double quotes and line breaks for quoted labels.
func mermaidText(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	return strings.ReplaceAll(s, "\n", "<br/>")
}
