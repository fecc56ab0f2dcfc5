package cluster

import (
	"math"
	"strings"

	"github.com/matzehuels/orngkit/pkg/distance"
	"github.com/matzehuels/orngkit/pkg/errors"
)

// Linkage selects how the dissimilarity between clusters is derived from the
// dissimilarities between their items.
type Linkage int

const (
	// Average is UPGMA: the mean dissimilarity over all item pairs.
	Average Linkage = iota
	// Single uses the closest pair of items.
	Single
	// Complete uses the farthest pair of items.
	Complete
	// Ward merges the pair that least increases within-cluster variance.
	Ward
)

var linkageNames = map[Linkage]string{
	Average:  "average",
	Single:   "single",
	Complete: "complete",
	Ward:     "ward",
}

// String returns the linkage name.
func (l Linkage) String() string {
	if s, ok := linkageNames[l]; ok {
		return s
	}
	return "unknown"
}

// ParseLinkage resolves a linkage name.
func ParseLinkage(s string) (Linkage, error) {
	for l, name := range linkageNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidLinkage, "invalid linkage: %q (must be one of: average, single, complete, ward)", s)
}

// Agglomerate clusters the items of d bottom-up, repeatedly merging the two
// closest clusters. Ties are broken towards the lowest slot indices so that
// the result is deterministic. Distances between the merged cluster and the
// others follow the Lance-Williams update for the chosen linkage.
func Agglomerate(d *distance.SymMatrix, linkage Linkage) *Tree {
	n := d.Dim()
	if n == 0 {
		return &Tree{}
	}

	// work[i][j] for active clusters i > j
	work := make([][]float64, n)
	for i := range work {
		work[i] = make([]float64, i)
		for j := 0; j < i; j++ {
			work[i][j] = d.At(i, j)
		}
	}
	at := func(i, j int) float64 {
		if i < j {
			i, j = j, i
		}
		return work[i][j]
	}
	set := func(i, j int, v float64) {
		if i < j {
			i, j = j, i
		}
		work[i][j] = v
	}

	shapes := make([]*Shape, n)
	sizes := make([]float64, n)
	active := make([]bool, n)
	for i := range shapes {
		shapes[i] = Leaf(i)
		sizes[i] = 1
		active[i] = true
	}

	for remaining := n; remaining > 1; remaining-- {
		bi, bj, best := -1, -1, math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := 0; j < i; j++ {
				if active[j] && work[i][j] < best {
					bi, bj, best = i, j, work[i][j]
				}
			}
		}

		if bi < 0 {
			// every remaining distance is NaN; merge the first two active slots
			bi, bj, best = firstActivePair(active)
		}

		// the lower slot goes left and holds the merged cluster
		ni, nj := sizes[bi], sizes[bj]
		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			dki, dkj := at(k, bi), at(k, bj)
			var v float64
			switch linkage {
			case Single:
				v = math.Min(dki, dkj)
			case Complete:
				v = math.Max(dki, dkj)
			case Ward:
				nk := sizes[k]
				v = math.Sqrt(((ni+nk)*dki*dki + (nj+nk)*dkj*dkj - nk*best*best) / (ni + nj + nk))
			default:
				v = (ni*dki + nj*dkj) / (ni + nj)
			}
			set(k, bj, v)
		}
		shapes[bj] = Join(shapes[bj], shapes[bi], best)
		sizes[bj] = ni + nj
		active[bi] = false
		shapes[bi] = nil
	}

	for i := range shapes {
		if active[i] {
			t, err := Build(shapes[i])
			if err != nil {
				// shapes are built from 0..n-1, each once
				panic(err)
			}
			return t
		}
	}
	return &Tree{}
}

// firstActivePair returns the two lowest active slots, higher one first.
func firstActivePair(active []bool) (int, int, float64) {
	lo := -1
	for i, ok := range active {
		if !ok {
			continue
		}
		if lo < 0 {
			lo = i
			continue
		}
		return i, lo, 0
	}
	return -1, -1, 0
}
