package cluster

import (
	"context"
	"math"
	"sort"

	"github.com/matzehuels/orngkit/pkg/distance"
	"github.com/matzehuels/orngkit/pkg/errors"
)

// ProgressFunc receives the percentage of merge nodes processed so far.
type ProgressFunc func(percent float64)

// pair is an ordered (left end, right end) pair of leaf items.
type pair [2]int

// nodeTable holds the optimal ordering costs of one merge node, keyed by the
// items placed at its two ends, and the inner boundary items achieving them.
type nodeTable struct {
	cost  map[pair]float64
	inner map[pair]pair // (u, w) -> (m, k): m next to u's branch end, k next to w's
}

type leafOrderer struct {
	d      *distance.SymMatrix
	items  map[*Node]map[int]bool
	tables map[*Node]*nodeTable
}

// Cost returns the sum of dissimilarities between adjacent leaves of t.
func Cost(t *Tree, d *distance.SymMatrix) float64 {
	sum := 0.0
	for i := 0; i+1 < len(t.Mapping); i++ {
		sum += d.At(t.Mapping[i], t.Mapping[i+1])
	}
	return sum
}

// OrderLeaves reorders the branches of t so that the sum of dissimilarities
// between adjacent leaves is minimal among all orders consistent with the
// tree, and returns that sum. d must be the matrix over t's items.
//
// progress, when not nil, is called after each merge node with the
// percentage of merge nodes processed. OrderLeaves returns the context's
// error if ctx is cancelled; t is left unchanged in that case.
func OrderLeaves(ctx context.Context, t *Tree, d *distance.SymMatrix, progress ProgressFunc) (float64, error) {
	if d.Dim() != t.Len() {
		return 0, errors.New(errors.ErrCodeInvalidInput, "matrix has %d items, tree has %d", d.Dim(), t.Len())
	}
	if t.Root == nil || t.Root.IsLeaf() {
		return 0, nil
	}

	o := &leafOrderer{
		d:      d,
		items:  make(map[*Node]map[int]bool),
		tables: make(map[*Node]*nodeTable),
	}
	t.Walk(func(n *Node) bool {
		set := make(map[int]bool, n.Len())
		for _, item := range n.Items() {
			set[item] = true
		}
		o.items[n] = set
		return true
	})

	internal := t.Internal()
	for i, n := range internal {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		o.solve(n)
		if progress != nil {
			progress(100 * float64(i+1) / float64(len(internal)))
		}
	}

	root := o.tables[t.Root]
	best, ends := math.Inf(1), pair{}
	for _, u := range t.Root.Left.Items() {
		for _, w := range t.Root.Right.Items() {
			if c := root.cost[pair{u, w}]; c < best {
				best, ends = c, pair{u, w}
			}
		}
	}
	o.apply(t.Root, ends[0], ends[1])
	return best, nil
}

// cost returns the optimal cost of n's subtree ordered from u to w.
func (o *leafOrderer) cost(n *Node, u, w int) float64 {
	if n.IsLeaf() {
		return 0
	}
	return o.tables[n].cost[pair{u, w}]
}

// opposite returns the leaves of n that may end an ordering of n starting at u.
func (o *leafOrderer) opposite(n *Node, u int) []int {
	if n.IsLeaf() {
		return n.Items()
	}
	if o.items[n.Left][u] {
		return n.Right.Items()
	}
	return n.Left.Items()
}

// solve fills the table of merge node n from the tables of its branches.
func (o *leafOrderer) solve(n *Node) {
	left, right := n.Left, n.Right
	tab := &nodeTable{
		cost:  make(map[pair]float64, left.Len()*right.Len()*2),
		inner: make(map[pair]pair, left.Len()*right.Len()*2),
	}

	for _, u := range left.Items() {
		ms := append([]int(nil), o.opposite(left, u)...)
		sort.SliceStable(ms, func(a, b int) bool { return o.cost(left, u, ms[a]) < o.cost(left, u, ms[b]) })

		for _, w := range right.Items() {
			ks := append([]int(nil), o.opposite(right, w)...)
			sort.SliceStable(ks, func(a, b int) bool { return o.cost(right, w, ks[a]) < o.cost(right, w, ks[b]) })

			// lower bound on the bridging dissimilarity
			bound := math.Inf(1)
			for _, m := range ms {
				for _, k := range ks {
					bound = math.Min(bound, o.d.At(m, k))
				}
			}

			best, inner := math.Inf(1), pair{ms[0], ks[0]}
			k0 := o.cost(right, w, ks[0])
			for _, m := range ms {
				cm := o.cost(left, u, m)
				if cm+k0+bound >= best {
					break
				}
				for _, k := range ks {
					ck := o.cost(right, w, k)
					if cm+ck+bound >= best {
						break
					}
					if c := cm + ck + o.d.At(m, k); c < best {
						best, inner = c, pair{m, k}
					}
				}
			}

			tab.cost[pair{u, w}] = best
			tab.cost[pair{w, u}] = best
			tab.inner[pair{u, w}] = inner
			tab.inner[pair{w, u}] = pair{inner[1], inner[0]}
		}
	}
	o.tables[n] = tab
}

// apply swaps branches so that n's subtree is laid out from u to w
// following the recorded optimal inner boundaries.
func (o *leafOrderer) apply(n *Node, u, w int) {
	if n.IsLeaf() {
		return
	}
	if !o.items[n.Left][u] {
		n.Swap()
	}
	inner := o.tables[n].inner[pair{u, w}]
	o.apply(n.Left, u, inner[0])
	o.apply(n.Right, inner[1], w)
}
