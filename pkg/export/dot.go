package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/blockboard/blockboard/pkg/board"
)

// ToDOT converts the board's structure to Graphviz DOT: groups become
// clusters containing their children, chained blocks are joined by solid
// edges, and remembered chains by dashed ones. Geometry is intentionally
// absent; this is the relationship view of a board, not its layout.
func ToDOT(m *board.Manager) string {
	var buf bytes.Buffer
	buf.WriteString("graph board {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for i, b := range m.Blocks() {
		if b.IsGroup {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", b.GroupName)
			buf.WriteString("    style=rounded;\n")
			for _, c := range b.Children {
				fmt.Fprintf(&buf, "    %q [label=%q];\n", c.ID.String(), c.DisplayName())
			}
			buf.WriteString("  }\n")
			continue
		}
		attrs := []string{fmt.Sprintf("label=%q", b.DisplayName())}
		if b.Chained {
			attrs = append(attrs, "color=orange", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", b.ID.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	writeChainEdges(&buf, m)
	buf.WriteString("}\n")
	return buf.String()
}

func writeChainEdges(buf *bytes.Buffer, m *board.Manager) {
	// Live chain: connect chained blocks in collection order.
	var prev string
	for _, b := range m.Blocks() {
		if !b.Chained {
			continue
		}
		if prev != "" {
			fmt.Fprintf(buf, "  %q -- %q [color=orange, penwidth=2];\n", prev, b.ID.String())
		}
		prev = b.ID.String()
	}

	// Remembered chains: dashed, only between blocks still on the board.
	for _, chain := range m.RememberedChains() {
		var members []string
		for _, b := range m.Blocks() {
			if chain.Contains(b.ID) {
				members = append(members, b.ID.String())
			}
		}
		for i := 1; i < len(members); i++ {
			fmt.Fprintf(buf, "  %q -- %q [style=dashed, color=gray];\n", members[i-1], members[i])
		}
	}
}

// Format selects the diagram output encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// RenderDiagram lays the DOT graph out with Graphviz and encodes it in the
// requested format. FormatDOT returns the DOT source itself.
func RenderDiagram(ctx context.Context, m *board.Manager, format Format) ([]byte, error) {
	dot := ToDOT(m)
	if format == FormatDOT {
		return []byte(dot), nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var enc graphviz.Format
	switch format {
	case FormatSVG:
		enc = graphviz.SVG
	case FormatPNG:
		enc = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, enc, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
