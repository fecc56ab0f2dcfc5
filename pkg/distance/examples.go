package distance

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/orngkit/pkg/data"
)

// Measure computes the dissimilarity of two examples.
type Measure interface {
	Distance(a, b *data.Example) float64
}

// Constructor learns a [Measure] from a table.
type Constructor func(t *data.Table) Measure

// Examples fills the example-by-example matrix of t using the measure built
// by newMeasure. Labels are the example class values when the domain has a
// class.
func Examples(t *data.Table, newMeasure Constructor) *SymMatrix {
	measure := newMeasure(t)
	n := t.Len()
	m := NewSymMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			m.Set(i, j, measure.Distance(t.Examples[i], t.Examples[j]))
		}
	}
	if t.Domain.ClassVar != nil {
		m.Labels = make([]string, n)
		for i, ex := range t.Examples {
			m.Labels[i] = ex.Class().String()
		}
	}
	return m
}

// attrStats holds what a normalised measure needs to know about one attribute.
type attrStats struct {
	v *data.Variable

	// continuous
	min, max  float64
	mean, vr  float64 // variance
	normSq    float64 // range squared, 1 when degenerate
	hasValues bool

	// discrete
	probs    []float64
	bothMiss float64 // 1 - sum p_i^2
}

// learn computes per-attribute statistics over the known values of t.
func learn(t *data.Table) []attrStats {
	attrs := t.Domain.Attributes
	out := make([]attrStats, len(attrs))
	for i, v := range attrs {
		s := attrStats{v: v}
		col := t.Column(i)
		switch {
		case v.IsContinuous():
			xs := make([]float64, 0, len(col))
			for _, x := range col {
				if !x.Missing {
					xs = append(xs, x.Float())
				}
			}
			if len(xs) > 0 {
				s.hasValues = true
				s.min, s.max = xs[0], xs[0]
				for _, x := range xs {
					s.min = math.Min(s.min, x)
					s.max = math.Max(s.max, x)
				}
				if len(xs) > 1 {
					s.mean, s.vr = stat.MeanVariance(xs, nil)
				} else {
					s.mean = xs[0]
				}
			}
			s.normSq = (s.max - s.min) * (s.max - s.min)
			if s.normSq == 0 {
				s.normSq = 1
			}
		default:
			s.probs = make([]float64, len(v.Values))
			known := 0.0
			for _, x := range col {
				if i := x.Int(); !x.Missing && i >= 0 && i < len(s.probs) {
					s.probs[i]++
					known++
				}
			}
			s.bothMiss = 1
			if known > 0 {
				for k := range s.probs {
					s.probs[k] /= known
					s.bothMiss -= s.probs[k] * s.probs[k]
				}
			}
		}
		out[i] = s
	}
	return out
}

// sqDiff returns the normalised squared difference of x and y for attribute s,
// using expected values when one or both are unknown.
func (s *attrStats) sqDiff(x, y data.Value) float64 {
	if s.v.IsContinuous() {
		switch {
		case x.Missing && y.Missing:
			return 2 * s.vr / s.normSq
		case x.Missing:
			d := y.Float() - s.mean
			return (d*d + s.vr) / s.normSq
		case y.Missing:
			d := x.Float() - s.mean
			return (d*d + s.vr) / s.normSq
		default:
			d := x.Float() - y.Float()
			return d * d / s.normSq
		}
	}
	switch {
	case x.Missing && y.Missing:
		return s.bothMiss
	case x.Missing:
		return 1 - s.prob(y)
	case y.Missing:
		return 1 - s.prob(x)
	case x.Int() == y.Int():
		return 0
	default:
		return 1
	}
}

// absDiff is the Manhattan counterpart of sqDiff.
func (s *attrStats) absDiff(x, y data.Value) float64 {
	if s.v.IsContinuous() {
		if x.Missing || y.Missing {
			return math.Sqrt(s.sqDiff(x, y))
		}
		return math.Abs(x.Float()-y.Float()) / math.Sqrt(s.normSq)
	}
	return s.sqDiff(x, y)
}

func (s *attrStats) prob(x data.Value) float64 {
	if i := x.Int(); i >= 0 && i < len(s.probs) {
		return s.probs[i]
	}
	return 0
}

// euclidean is the normalised Euclidean measure.
type euclidean struct{ attrs []attrStats }

// Euclidean learns the normalised Euclidean measure from t.
func Euclidean(t *data.Table) Measure {
	return &euclidean{attrs: learn(t)}
}

// Distance implements [Measure].
func (e *euclidean) Distance(a, b *data.Example) float64 {
	sum := 0.0
	for i := range e.attrs {
		s := &e.attrs[i]
		x, _ := a.Lookup(s.v)
		y, _ := b.Lookup(s.v)
		sum += s.sqDiff(x, y)
	}
	return math.Sqrt(sum)
}

// manhattan is the normalised Manhattan measure.
type manhattan struct{ attrs []attrStats }

// Manhattan learns the normalised Manhattan measure from t.
func Manhattan(t *data.Table) Measure {
	return &manhattan{attrs: learn(t)}
}

// Distance implements [Measure].
func (m *manhattan) Distance(a, b *data.Example) float64 {
	sum := 0.0
	for i := range m.attrs {
		s := &m.attrs[i]
		x, _ := a.Lookup(s.v)
		y, _ := b.Lookup(s.v)
		sum += s.absDiff(x, y)
	}
	return sum
}
