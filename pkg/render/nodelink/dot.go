package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orngkit/pkg/cluster"
	"github.com/matzehuels/orngkit/pkg/render"
)

// Options configures node-link diagram generation.
type Options struct {
	Labels []string
	// Heights labels merge points with their height.
	Heights bool
	Colors  render.ClusterColors
}

// ToDOT converts a tree to Graphviz DOT format.
// Leaves are named "leafN" after their item, merges "nodeN" in pre-order.
func ToDOT(t *cluster.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.1;\n")
	buf.WriteString("\n")

	if t.Root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	labels := render.Labels(t.Len(), opts.Labels)
	merges := 0
	var visit func(n *cluster.Node, c color.Color) string
	visit = func(n *cluster.Node, c color.Color) string {
		if own, ok := opts.Colors[n]; ok {
			c = own
		}
		if n.IsLeaf() {
			id := fmt.Sprintf("leaf%d", n.Item())
			fmt.Fprintf(&buf, "  %q [label=%q];\n", id, labels[n.Item()])
			return id
		}
		id := fmt.Sprintf("node%d", merges)
		merges++
		attrs := "shape=point, width=0.08"
		if opts.Heights {
			attrs += fmt.Sprintf(", xlabel=%q", strconv.FormatFloat(n.Height, 'g', 4, 64))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, attrs)
		for _, b := range n.Branches() {
			child := visit(b, c)
			edgeColor := c
			if own, ok := opts.Colors[b]; ok {
				edgeColor = own
			}
			fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", id, child, hexColor(edgeColor))
		}
		return id
	}
	visit(t.Root, color.Black)

	buf.WriteString("}\n")
	return buf.String()
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
