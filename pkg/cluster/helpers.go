package cluster

import (
	"context"

	"github.com/matzehuels/orngkit/pkg/data"
	"github.com/matzehuels/orngkit/pkg/distance"
)

// Options configures [ClusterExamples] and [ClusterAttributes].
type Options struct {
	Linkage Linkage
	// Order enables optimal leaf ordering of the resulting tree.
	Order bool
	// Measure builds the example dissimilarity; nil selects
	// [distance.Euclidean]. Ignored by ClusterAttributes.
	Measure distance.Constructor
	// Progress receives leaf ordering progress.
	Progress ProgressFunc
}

// Result is a clustering together with the matrix it was computed from.
type Result struct {
	Tree   *Tree
	Matrix *distance.SymMatrix
	// Cost is the sum of dissimilarities between adjacent leaves.
	Cost float64
}

// ClusterExamples clusters the examples of t.
func ClusterExamples(ctx context.Context, t *data.Table, opts Options) (*Result, error) {
	measure := opts.Measure
	if measure == nil {
		measure = distance.Euclidean
	}
	return clusterMatrix(ctx, distance.Examples(t, measure), opts)
}

// ClusterAttributes clusters the attributes of t by the significance of
// their pairwise correlation.
func ClusterAttributes(ctx context.Context, t *data.Table, opts Options) (*Result, error) {
	return clusterMatrix(ctx, distance.Attributes(t), opts)
}

func clusterMatrix(ctx context.Context, d *distance.SymMatrix, opts Options) (*Result, error) {
	tree := Agglomerate(d, opts.Linkage)
	res := &Result{Tree: tree, Matrix: d}
	if opts.Order {
		cost, err := OrderLeaves(ctx, tree, d, opts.Progress)
		if err != nil {
			return nil, err
		}
		res.Cost = cost
		return res, nil
	}
	res.Cost = Cost(tree, d)
	return res, nil
}
