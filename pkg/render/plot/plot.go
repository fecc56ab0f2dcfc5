// Package plot draws clustering trees as gonum/plot figures.
//
// The tree grows from the root at x = 0 to the leaves at x = root height,
// each merge placed at the root height minus its own height. A heatmap of
// min-max normalised example values follows the leaves in leaf order, and
// the item labels follow the heatmap.
package plot

import (
	"image/color"
	"io"
	"path/filepath"
	"strings"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/orngkit/pkg/cluster"
	"github.com/matzehuels/orngkit/pkg/errors"
	"github.com/matzehuels/orngkit/pkg/render"
)

// Default figure size in pixels.
const (
	DefaultWidth  = 500
	DefaultHeight = 400
)

// heatShare is the heatmap width relative to the root height.
const heatShare = 0.5

// Formats lists the output formats accepted by [Render].
var Formats = []string{"png", "svg", "pdf", "eps", "jpg", "tif"}

// Options configures a figure.
type Options struct {
	Labels  []string
	Heatmap *render.Heatmap
	// Width and Height in pixels at 96 dpi.
	Width, Height int
	Title         string
	// LineWidth in points; 1 if zero.
	LineWidth float64
	Colors    render.ClusterColors
	Scheme    *render.Scheme
}

// Segment is one straight piece of the tree drawing.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Color          color.Color
}

// Segments lays out t: two horizontal pieces and one vertical piece per
// merge. The leaf at mapping position p sits at y = n-1-p so the first
// leaf is on top.
func Segments(t *cluster.Tree, colors render.ClusterColors) []Segment {
	if t.Root == nil {
		return nil
	}
	n := float64(t.Len())
	rootHeight := t.Root.Height
	var out []Segment
	var visit func(nd *cluster.Node, inherited color.Color) (float64, float64, color.Color)
	visit = func(nd *cluster.Node, inherited color.Color) (float64, float64, color.Color) {
		c := inherited
		if own, ok := colors[nd]; ok {
			c = own
		}
		if nd.IsLeaf() {
			return rootHeight, n - 1 - float64(nd.First), c
		}
		x := rootHeight - nd.Height
		lx, ly, lc := visit(nd.Left, c)
		rx, ry, rc := visit(nd.Right, c)
		out = append(out,
			Segment{lx, ly, x, ly, lc},
			Segment{rx, ry, x, ry, rc},
			Segment{x, ly, x, ry, c},
		)
		return x, (ly + ry) / 2, c
	}
	visit(t.Root, color.Black)
	return out
}

// grid adapts a heatmap in leaf order to plotter.GridXYZ.
type grid struct {
	cells [][]float64 // indexed by item
	order []int       // item at each mapping position
	x0    float64
	cw    float64
}

func (g grid) Dims() (c, r int) { return len(g.cells[0]), len(g.order) }
func (g grid) X(c int) float64  { return g.x0 + (float64(c)+0.5)*g.cw }
func (g grid) Y(r int) float64  { return float64(r) }
func (g grid) Z(c, r int) float64 {
	return g.cells[g.order[len(g.order)-1-r]][c]
}

// schemePalette samples a render.Scheme.
type schemePalette struct {
	scheme render.Scheme
	n      int
}

func (p schemePalette) Colors() []color.Color {
	out := make([]color.Color, p.n)
	for i := range out {
		out[i] = p.scheme.At(float64(i) / float64(p.n-1))
	}
	return out
}

// New builds the figure for t.
func New(t *cluster.Tree, opts Options) (*gonumplot.Plot, error) {
	if t == nil || t.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot draw an empty tree")
	}
	if opts.Heatmap != nil && len(opts.Heatmap.Rows) < t.Len() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"heatmap has %d rows for %d items", len(opts.Heatmap.Rows), t.Len())
	}
	lineWidth := vg.Length(opts.LineWidth)
	if lineWidth <= 0 {
		lineWidth = 1
	}

	p := gonumplot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "distance from root"
	p.HideY()

	for _, s := range Segments(t, opts.Colors) {
		l, err := plotter.NewLine(plotter.XYs{{X: s.X1, Y: s.Y1}, {X: s.X2, Y: s.Y2}})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "tree segment")
		}
		l.LineStyle.Color = s.Color
		l.LineStyle.Width = lineWidth
		p.Add(l)
	}

	span := t.Root.Height
	if span <= 0 {
		span = 1
	}
	gap := span * 0.02
	labelX := t.Root.Height + gap

	if cols := opts.Heatmap.Width(); cols > 0 {
		scheme := render.DefaultScheme
		if opts.Scheme != nil {
			scheme = *opts.Scheme
		}
		g := grid{
			cells: opts.Heatmap.Normalized(),
			order: t.Mapping,
			x0:    t.Root.Height + gap,
			cw:    span * heatShare / float64(cols),
		}
		hm := plotter.NewHeatMap(g, schemePalette{scheme: scheme, n: 64})
		hm.Min, hm.Max = 0, 1
		hm.NaN = color.White
		p.Add(hm)
		labelX = g.x0 + float64(cols)*g.cw + gap
	}

	labels := render.Labels(t.Len(), opts.Labels)
	xyl := plotter.XYLabels{XYs: make(plotter.XYs, t.Len()), Labels: make([]string, t.Len())}
	for pos, item := range t.Mapping {
		xyl.XYs[pos] = plotter.XY{X: labelX, Y: float64(t.Len() - 1 - pos)}
		xyl.Labels[pos] = labels[item]
	}
	lbl, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "labels")
	}
	p.Add(lbl)
	p.Y.Min, p.Y.Max = -0.5, float64(t.Len())-0.5
	return p, nil
}

// Render draws t in format ("png", "svg", "pdf", ...) and writes it to w.
func Render(w io.Writer, t *cluster.Tree, format string, opts Options) error {
	format = strings.ToLower(format)
	if !supported(format) {
		return errors.New(errors.ErrCodeUnsupported, "unsupported plot format %q", format)
	}
	if err := errors.ValidateDimensions(opts.Width, opts.Height); err != nil {
		return err
	}
	p, err := New(t, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(size(opts.Width, DefaultWidth), size(opts.Height, DefaultHeight), format)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "prepare %s canvas", format)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save draws t to path, choosing the format by extension.
func Save(path string, t *cluster.Tree, opts Options) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	p, err := New(t, opts)
	if err != nil {
		return err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !supported(format) {
		return errors.New(errors.ErrCodeUnsupported, "unsupported plot format %q", format)
	}
	return p.Save(size(opts.Width, DefaultWidth), size(opts.Height, DefaultHeight), path)
}

func supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// size converts pixels at 96 dpi to a canvas length.
func size(px, def int) vg.Length {
	if px <= 0 {
		px = def
	}
	return vg.Length(px) * vg.Inch / 96
}
