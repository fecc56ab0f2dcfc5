package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/orngkit/pkg/data"
	pkgio "github.com/matzehuels/orngkit/pkg/io"
	"github.com/matzehuels/orngkit/pkg/render"
	"github.com/matzehuels/orngkit/pkg/render/dendrogram"
	"github.com/matzehuels/orngkit/pkg/render/nodelink"
	"github.com/matzehuels/orngkit/pkg/render/plot"
)

// Render draws doc with the configured renderer in every requested format.
// t supplies heatmap cells and may be nil when no heatmap is requested.
// treeJSON, if non-nil, is used for the json format as is.
func Render(ctx context.Context, doc pkgio.Document, t *data.Table, treeJSON []byte, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if doc.Tree == nil || doc.Tree.Root == nil {
		return nil, fmt.Errorf("empty tree")
	}

	colors := render.TopClusters(doc.Tree, opts.Clusters)
	scheme, err := parseScheme(opts.LowColor, opts.HighColor)
	if err != nil {
		return nil, err
	}
	var heat *render.Heatmap
	if opts.Heatmap && t != nil && !opts.Attributes {
		heat = render.HeatmapFromTable(t)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var buf bytes.Buffer
		switch {
		case format == FormatJSON && treeJSON != nil:
			buf.Write(treeJSON)
		case format == FormatJSON:
			err = pkgio.WriteJSON(doc, &buf)
		case opts.Renderer == RendererImage:
			err = dendrogram.RenderPNG(&buf, doc.Tree, dendrogram.Options{
				Labels:    doc.Labels,
				Heatmap:   heat,
				Width:     opts.Width,
				Height:    opts.Height,
				FontSize:  opts.FontSize,
				FontPath:  opts.Font,
				LineWidth: opts.LineWidth,
				Colors:    colors,
				Scheme:    scheme,
			})
		case opts.Renderer == RendererPlot:
			err = plot.Render(&buf, doc.Tree, format, plot.Options{
				Labels:    doc.Labels,
				Heatmap:   heat,
				Width:     opts.Width,
				Height:    opts.Height,
				Title:     opts.Title,
				LineWidth: opts.LineWidth,
				Colors:    colors,
				Scheme:    scheme,
			})
		case opts.Renderer == RendererNodelink:
			var out []byte
			out, err = renderNodelink(ctx, doc, colors, format)
			buf.Write(out)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = buf.Bytes()
	}
	return artifacts, nil
}

func renderNodelink(ctx context.Context, doc pkgio.Document, colors render.ClusterColors, format string) ([]byte, error) {
	dot := nodelink.ToDOT(doc.Tree, nodelink.Options{
		Labels:  doc.Labels,
		Heights: true,
		Colors:  colors,
	})
	if format == FormatPNG {
		return nodelink.RenderPNG(ctx, dot)
	}
	return nodelink.RenderSVG(ctx, dot)
}

// parseScheme returns nil when neither colour is set, keeping the
// renderer's default.
func parseScheme(low, high string) (*render.Scheme, error) {
	if low == "" && high == "" {
		return nil, nil
	}
	s := render.DefaultScheme
	if low != "" {
		c, err := render.ParseColor(low)
		if err != nil {
			return nil, err
		}
		s.Low = c
	}
	if high != "" {
		c, err := render.ParseColor(high)
		if err != nil {
			return nil, err
		}
		s.High = c
	}
	return &s, nil
}
