package distance

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/orngkit/pkg/data"
)

// Attributes builds the attribute-by-attribute matrix whose entries are the
// two-sided p-values of the Pearson correlation between attribute columns.
// Strongly correlated attributes are therefore close. Discrete attributes
// take part through their label indices. Only examples where both values are
// known are used; pairs with fewer than three such examples get distance 1.
func Attributes(t *data.Table) *SymMatrix {
	attrs := t.Domain.Attributes
	m := NewSymMatrix(len(attrs))
	m.Labels = make([]string, len(attrs))
	cols := make([][]data.Value, len(attrs))
	for i, a := range attrs {
		m.Labels[i] = a.Name
		cols[i] = t.Column(i)
	}
	for i := range attrs {
		for j := 0; j < i; j++ {
			r, n := Pearson(cols[i], cols[j])
			m.Set(i, j, PValue(r, n))
		}
	}
	return m
}

// Pearson returns the correlation of two columns over the rows where both
// are known, and the number of such rows.
func Pearson(x, y []data.Value) (r float64, n int) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if i >= len(y) || x[i].Missing || y[i].Missing {
			continue
		}
		xs = append(xs, x[i].Float())
		ys = append(ys, y[i].Float())
	}
	if len(xs) < 2 {
		return 0, len(xs)
	}
	r = stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		r = 0
	}
	return r, len(xs)
}

// PValue is the two-sided p-value of correlation r measured on n pairs.
func PValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	tStat := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(math.Abs(tStat))
}
