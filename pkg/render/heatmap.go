package render

import (
	"image/color"
	"math"

	"github.com/matzehuels/orngkit/pkg/data"
)

// Heatmap holds one row of cells per clustered item, indexed by item.
type Heatmap struct {
	Columns []string
	Rows    [][]data.Value
}

// HeatmapFromTable uses the attribute values of every example of t.
func HeatmapFromTable(t *data.Table) *Heatmap {
	n := len(t.Domain.Attributes)
	h := &Heatmap{
		Columns: make([]string, n),
		Rows:    make([][]data.Value, t.Len()),
	}
	for i, a := range t.Domain.Attributes {
		h.Columns[i] = a.Name
	}
	for r, ex := range t.Examples {
		h.Rows[r] = ex.Values[:n]
	}
	return h
}

// Width returns the number of columns.
func (h *Heatmap) Width() int {
	if h == nil {
		return 0
	}
	return len(h.Columns)
}

// Range returns the smallest and largest known continuous value, or 0, 0
// when there is none.
func (h *Heatmap) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range h.Rows {
		for _, v := range row {
			if v.Missing || v.Var == nil || !v.Var.IsContinuous() {
				continue
			}
			lo = math.Min(lo, v.Float())
			hi = math.Max(hi, v.Float())
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// Scheme is the pair of colours continuous cells are interpolated between.
type Scheme struct {
	Low, High color.RGBA
}

// DefaultScheme runs from black to white.
var DefaultScheme = Scheme{
	Low:  color.RGBA{0, 0, 0, 255},
	High: color.RGBA{255, 255, 255, 255},
}

// At interpolates the scheme at f in [0, 1].
func (s Scheme) At(f float64) color.RGBA {
	f = math.Max(0, math.Min(1, f))
	mix := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*f) }
	return color.RGBA{mix(s.Low.R, s.High.R), mix(s.Low.G, s.High.G), mix(s.Low.B, s.High.B), 255}
}

// ColorScale returns the colour of a cell. Continuous values are placed
// on the scheme by the global range of h; discrete values are grey levels
// by label index. Missing values have no colour.
func (h *Heatmap) ColorScale(s Scheme) func(v data.Value) (color.RGBA, bool) {
	lo, hi := h.Range()
	span := math.Abs(hi - lo)
	return func(v data.Value) (color.RGBA, bool) {
		switch {
		case v.Missing || v.Var == nil:
			return color.RGBA{}, false
		case v.Var.IsContinuous():
			f := 0.0
			if span > 0 {
				f = (v.Float() - lo) / span
			}
			return s.At(f), true
		default:
			g := uint8(0)
			if n := len(v.Var.Values); n > 0 {
				g = uint8(255 * v.Float() / float64(n))
			}
			return color.RGBA{g, g, g, 255}, true
		}
	}
}

// Normalized returns every cell min-max scaled over all known cells, with
// discrete cells taking part through their label index. Missing cells are
// NaN.
func (h *Heatmap) Normalized() [][]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range h.Rows {
		for _, v := range row {
			if !v.Missing {
				lo = math.Min(lo, v.Float())
				hi = math.Max(hi, v.Float())
			}
		}
	}
	out := make([][]float64, len(h.Rows))
	for r, row := range h.Rows {
		out[r] = make([]float64, len(row))
		for c, v := range row {
			switch {
			case v.Missing:
				out[r][c] = math.NaN()
			case hi > lo:
				out[r][c] = (v.Float() - lo) / (hi - lo)
			default:
				out[r][c] = 0
			}
		}
	}
	return out
}
