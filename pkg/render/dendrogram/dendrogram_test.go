package dendrogram

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/orngkit/pkg/cluster"
	"github.com/matzehuels/orngkit/pkg/data"
	"github.com/matzehuels/orngkit/pkg/errors"
	"github.com/matzehuels/orngkit/pkg/render"
)

func pairTree(t *testing.T) *cluster.Tree {
	t.Helper()
	tree, err := cluster.Build(cluster.Join(cluster.Leaf(0), cluster.Leaf(1), 1))
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func column(values ...float64) *render.Heatmap {
	v := data.NewContinuous("x")
	h := &render.Heatmap{Columns: []string{"x"}}
	for _, x := range values {
		cell := v.Value(x)
		if x < 0 {
			cell = v.Missing()
		}
		h.Rows = append(h.Rows, []data.Value{cell})
	}
	return h
}

func TestMeasureDefault(t *testing.T) {
	tree, err := cluster.Build(cluster.Join(cluster.Leaf(0), cluster.Join(cluster.Leaf(1), cluster.Leaf(2), 1), 2))
	if err != nil {
		t.Fatal(err)
	}
	l, err := Measure(tree, Options{Labels: []string{"a", "bb", "ccc"}})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if l.RowHeight != 13 {
		t.Errorf("RowHeight = %v, want 13", l.RowHeight)
	}
	if l.Height != 20+3*13 {
		t.Errorf("Height = %d, want %d", l.Height, 20+3*13)
	}
	if l.TextWidth != 21 || l.TreeWidth != 400 || l.MatrixWidth != 0 {
		t.Errorf("areas = %v/%v/%v, want 400/21/0", l.TreeWidth, l.TextWidth, l.MatrixWidth)
	}
	if l.Width != 400+21+40 {
		t.Errorf("Width = %d, want %d", l.Width, 400+21+40)
	}
}

func TestMeasureFixedSize(t *testing.T) {
	shape := cluster.Leaf(0)
	for i := 1; i < 10; i++ {
		shape = cluster.Join(shape, cluster.Leaf(i), float64(i))
	}
	tree, err := cluster.Build(shape)
	if err != nil {
		t.Fatal(err)
	}
	hm := &render.Heatmap{Columns: []string{"a", "b", "c", "d"}, Rows: make([][]data.Value, 10)}

	l, err := Measure(tree, Options{Width: 300, Height: 220, Heatmap: hm})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if l.Width != 300 || l.Height != 220 {
		t.Errorf("size = %dx%d, want 300x220", l.Width, l.Height)
	}
	if l.RowHeight != 20 {
		t.Errorf("RowHeight = %v, want 20", l.RowHeight)
	}
	if l.MatrixWidth != 80 {
		t.Errorf("MatrixWidth = %v, want 80", l.MatrixWidth)
	}
	if got := l.TreeWidth + l.TextWidth + l.MatrixWidth; got != 260 {
		t.Errorf("areas sum to %v, want 260", got)
	}
}

func TestRenderPNG(t *testing.T) {
	tree := pairTree(t)
	scheme := render.Scheme{Low: color.RGBA{255, 0, 0, 255}, High: color.RGBA{0, 255, 0, 255}}
	opts := Options{Heatmap: column(0, -1), Scheme: &scheme}

	var buf bytes.Buffer
	if err := RenderPNG(&buf, tree, opts); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	l, _ := Measure(tree, opts)
	if b := img.Bounds(); b.Dx() != l.Width || b.Dy() != l.Height {
		t.Fatalf("bounds = %v, want %dx%d", b, l.Width, l.Height)
	}

	rgb := func(x, y int) (uint32, uint32, uint32) {
		r, g, b, _ := img.At(x, y).RGBA()
		return r >> 8, g >> 8, b >> 8
	}

	// root bracket at the left edge of the tree area
	if r, g, b := rgb(margin, margin+13); r > 60 || g > 60 || b > 60 {
		t.Errorf("root line pixel = %d,%d,%d, want dark", r, g, b)
	}

	matrixStart := int(margin + l.TreeWidth + margin + l.TextWidth + margin)
	cx := matrixStart + int(l.MatrixWidth)/2

	// item 0 holds the low end of the range
	if r, g, b := rgb(cx, margin+6); r != 255 || g != 0 || b != 0 {
		t.Errorf("first cell = %d,%d,%d, want red", r, g, b)
	}
	// item 1 is missing and left blank
	if r, g, b := rgb(cx, margin+13+6); r != 255 || g != 255 || b != 255 {
		t.Errorf("missing cell = %d,%d,%d, want white", r, g, b)
	}
}

func TestRenderErrors(t *testing.T) {
	tree := pairTree(t)
	tests := []struct {
		name string
		tree *cluster.Tree
		opts Options
		code errors.Code
	}{
		{"empty tree", &cluster.Tree{}, Options{}, errors.ErrCodeInvalidInput},
		{"short heatmap", tree, Options{Heatmap: column(1)}, errors.ErrCodeInvalidInput},
		{"negative size", tree, Options{Width: -5}, errors.ErrCodeInvalidInput},
		{"narrow", tree, Options{Width: 41}, errors.ErrCodeInvalidInput},
		{"font", tree, Options{FontPath: filepath.Join(t.TempDir(), "none.ttf")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.tree, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Render() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSingleLeaf(t *testing.T) {
	tree, err := cluster.Build(cluster.Leaf(0))
	if err != nil {
		t.Fatal(err)
	}
	img, err := Render(tree, Options{Labels: []string{"only"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dy() != 20+13 {
		t.Errorf("height = %d", img.Bounds().Dy())
	}
}

func TestTruncate(t *testing.T) {
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(basicfont.Face7x13)
	tests := []struct {
		in    string
		width float64
		want  string
	}{
		{"abcdef", 100, "abcdef"},
		{"abcdef", 21, "abc"},
		{"abcdef", 20, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(dc, tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %v) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
