package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tricktrack/pkg/automaton"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes hit indices and the inner (r, z) in node labels.
	// When false, only the doublet and level are shown.
	Detailed bool

	// MinimumLevel is the level from which cells are highlighted as roots.
	MinimumLevel uint

	// HideIsolated omits cells with neither inner nor outer neighbors.
	HideIsolated bool
}

// ToDOT converts a cell graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *automaton.Graph, opts Options) string {
	linked := make([]bool, g.Len())
	for i := range g.Cells {
		for _, o := range g.Cells[i].OuterNeighbors() {
			linked[i] = true
			linked[o] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for i := range g.Cells {
		if opts.HideIsolated && !linked[i] {
			continue
		}
		label := fmtLabel(&g.Cells[i], g.Status[i], opts.Detailed)
		attrs := fmtAttrs(g.Status[i], label, opts.MinimumLevel)
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := range g.Cells {
		for _, o := range g.Cells[i].OuterNeighbors() {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(i), nodeID(o))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(cell int) string { return "c" + strconv.Itoa(cell) }

func fmtLabel(c *automaton.Cell, s automaton.Status, detailed bool) string {
	label := fmt.Sprintf("d%d  L%d", c.Doublet(), s.Level)
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nhits: %d -> %d\nr: %.3g  z: %.3g",
		label, c.InnerHitIndex(), c.OuterHitIndex(), c.InnerR(), c.InnerZ())
}

func fmtAttrs(s automaton.Status, label string, minimumLevel uint) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if s.IsRootCell(minimumLevel) {
		attrs = append(attrs, "fillcolor=\"#f4a261\"", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so that the drawing scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
