// Package dendrogram draws clustering trees as PNG bitmaps.
//
// The image has three areas from left to right, separated by 10px margins:
// the tree with the root on the left, the item labels, and an optional
// heatmap of the clustered examples. Leaves are drawn in the tree's
// current leaf order, so ordering the leaves first yields a smoother
// heatmap.
package dendrogram

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/orngkit/pkg/cluster"
	"github.com/matzehuels/orngkit/pkg/data"
	"github.com/matzehuels/orngkit/pkg/errors"
	"github.com/matzehuels/orngkit/pkg/render"
)

const (
	margin          = 10
	emptySpace      = 4 * margin
	defaultFontSize = 12
	defaultTree     = 400
	defaultMatrix   = 400
)

var (
	treeColor    = color.RGBA{0, 0, 0, 255}
	textColor    = color.RGBA{100, 100, 100, 255}
	outlineColor = color.RGBA{240, 240, 240, 255}
)

// Options configures a dendrogram.
type Options struct {
	// Labels names the items by index; missing labels use the index.
	Labels []string
	// Heatmap adds one row of cells per item to the right of the labels.
	Heatmap *render.Heatmap
	// Width and Height fix the image size. A fixed height sets the row
	// height; a fixed width splits the space between the three areas.
	Width, Height int
	// FontSize applies to TrueType fonts when Height is not fixed.
	FontSize float64
	// FontPath selects a TrueType font; the built-in 7x13 font otherwise.
	FontPath string
	// LineWidth of the tree; 2 if zero.
	LineWidth float64
	Colors    render.ClusterColors
	Scheme    *render.Scheme
}

// Layout is the computed geometry of a dendrogram.
type Layout struct {
	Width, Height int
	TreeWidth     float64
	TextWidth     float64
	MatrixWidth   float64
	RowHeight     float64
}

type renderer struct {
	tree   *cluster.Tree
	opts   Options
	labels []string
	face   font.Face
	layout Layout
}

// Render draws t and returns the image.
func Render(t *cluster.Tree, opts Options) (image.Image, error) {
	r, err := newRenderer(t, opts)
	if err != nil {
		return nil, err
	}
	return r.draw().Image(), nil
}

// RenderPNG draws t and writes it to w as PNG.
func RenderPNG(w io.Writer, t *cluster.Tree, opts Options) error {
	r, err := newRenderer(t, opts)
	if err != nil {
		return err
	}
	return r.draw().EncodePNG(w)
}

// Measure returns the layout Render would use.
func Measure(t *cluster.Tree, opts Options) (Layout, error) {
	r, err := newRenderer(t, opts)
	if err != nil {
		return Layout{}, err
	}
	return r.layout, nil
}

func newRenderer(t *cluster.Tree, opts Options) (*renderer, error) {
	if t == nil || t.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot draw an empty tree")
	}
	if err := errors.ValidateDimensions(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	if opts.Heatmap != nil && len(opts.Heatmap.Rows) < t.Len() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"heatmap has %d rows for %d items", len(opts.Heatmap.Rows), t.Len())
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 2
	}
	r := &renderer{tree: t, opts: opts, labels: render.Labels(t.Len(), opts.Labels)}
	if err := r.measure(); err != nil {
		return nil, err
	}
	return r, nil
}

// measure loads the font and splits the image into areas.
func (r *renderer) measure() error {
	n := float64(r.tree.Len())
	size := r.opts.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	height := float64(r.opts.Height)
	if height > 0 {
		size = (height - 2*margin) / n
		if size < 1 {
			return errors.New(errors.ErrCodeInvalidInput, "height %d is too small for %d items", r.opts.Height, r.tree.Len())
		}
	} else {
		height = 2*margin + size*n
	}

	r.face = basicfont.Face7x13
	if r.opts.FontPath != "" {
		face, err := gg.LoadFontFace(r.opts.FontPath, size)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "load font %s", r.opts.FontPath)
		}
		r.face = face
	} else if r.opts.Height <= 0 {
		size = float64(r.face.Metrics().Height.Ceil())
		height = 2*margin + size*n
	}

	dc := gg.NewContext(1, 1)
	dc.SetFontFace(r.face)
	textWidth := 0.0
	for _, l := range r.labels {
		w, _ := dc.MeasureString(l)
		if w > textWidth {
			textWidth = w
		}
	}

	cols := float64(r.opts.Heatmap.Width())
	l := Layout{RowHeight: size}
	if r.opts.Width > 0 {
		third := float64(r.opts.Width-emptySpace) / 3
		l.Width = r.opts.Width
		l.TextWidth = min(textWidth, third)
		l.MatrixWidth = min(cols*size, third)
		l.TreeWidth = float64(l.Width-emptySpace) - l.TextWidth - l.MatrixWidth
	} else {
		l.MatrixWidth = min(cols*size, defaultMatrix)
		l.TextWidth = textWidth
		l.TreeWidth = defaultTree
		l.Width = int(l.TreeWidth+l.TextWidth+l.MatrixWidth) + emptySpace
	}
	l.Height = int(height)
	if l.TreeWidth < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "width %d leaves no room for the tree", r.opts.Width)
	}
	r.layout = l
	return nil
}

func (r *renderer) draw() *gg.Context {
	l := r.layout
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(r.face)

	treeStart := float64(margin)
	textStart := treeStart + l.TreeWidth + margin
	matrixStart := textStart + l.TextWidth + margin

	r.drawTree(dc, treeStart)

	var scale func(v data.Value) (color.RGBA, bool)
	if r.opts.Heatmap != nil && r.opts.Heatmap.Width() > 0 {
		scheme := render.DefaultScheme
		if r.opts.Scheme != nil {
			scheme = *r.opts.Scheme
		}
		scale = r.opts.Heatmap.ColorScale(scheme)
	}

	for pos, item := range r.tree.Mapping {
		top := float64(margin) + float64(pos)*l.RowHeight
		dc.SetColor(textColor)
		dc.DrawStringAnchored(truncate(dc, r.labels[item], l.TextWidth), textStart, top+l.RowHeight/2, 0, 0.5)
		if scale != nil {
			r.drawRow(dc, scale, item, matrixStart, top)
		}
	}
	return dc
}

// drawTree draws each merge as a bracket at its height, the root at the
// left edge of the tree area and the leaves at the right edge.
func (r *renderer) drawTree(dc *gg.Context, start float64) {
	l := r.layout
	rootHeight := r.tree.Root.Height
	x := func(n *cluster.Node) float64 {
		if rootHeight <= 0 {
			return start + l.TreeWidth
		}
		return start + (1-n.Height/rootHeight)*l.TreeWidth
	}
	dc.SetLineWidth(r.opts.LineWidth)

	var visit func(n *cluster.Node, inherited color.Color) (float64, float64, color.Color)
	visit = func(n *cluster.Node, inherited color.Color) (float64, float64, color.Color) {
		c := inherited
		if own, ok := r.opts.Colors[n]; ok {
			c = own
		}
		if n.IsLeaf() {
			y := float64(margin) + (float64(n.First)+0.5)*l.RowHeight
			return start + l.TreeWidth, y, c
		}
		nx := x(n)
		lx, ly, lc := visit(n.Left, c)
		rx, ry, rc := visit(n.Right, c)
		line(dc, lc, nx, ly, lx, ly)
		line(dc, rc, nx, ry, rx, ry)
		line(dc, c, nx, ly, nx, ry)
		return nx, (ly + ry) / 2, c
	}
	visit(r.tree.Root, treeColor)
}

func line(dc *gg.Context, c color.Color, x1, y1, x2, y2 float64) {
	dc.SetColor(c)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
}

func (r *renderer) drawRow(dc *gg.Context, scale func(data.Value) (color.RGBA, bool), item int, start, top float64) {
	cells := r.opts.Heatmap.Rows[item]
	cw := r.layout.MatrixWidth / float64(r.opts.Heatmap.Width())
	for j, v := range cells {
		c, ok := scale(v)
		if !ok {
			continue
		}
		x0 := float64(int(start + float64(j)*cw))
		x1 := float64(int(start + float64(j+1)*cw))
		dc.DrawRectangle(x0, top, x1-x0, r.layout.RowHeight)
		dc.SetColor(c)
		if cw > 4 {
			dc.FillPreserve()
			dc.SetColor(outlineColor)
			dc.SetLineWidth(1)
			dc.Stroke()
			dc.SetLineWidth(r.opts.LineWidth)
		} else {
			dc.Fill()
		}
	}
}

// truncate shortens s until it fits in width.
func truncate(dc *gg.Context, s string, width float64) string {
	runes := []rune(s)
	for len(runes) > 0 {
		if w, _ := dc.MeasureString(string(runes)); w <= width {
			break
		}
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
