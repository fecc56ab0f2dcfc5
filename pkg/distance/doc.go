// Package distance computes dissimilarity matrices over examples and
// attributes of a [data.Table].
//
// [SymMatrix] is the symmetric matrix consumed by hierarchical clustering and
// leaf ordering. [Examples] fills one from a [Measure] built for the table,
// [Euclidean] and [Manhattan] being the provided measures. Both normalise
// continuous differences by the attribute's range, count discrete mismatches
// as 1, and replace differences involving unknown values by their expected
// value under the learned attribute distribution.
//
// [Attributes] builds the attribute-by-attribute matrix of Pearson
// correlation p-values used to cluster attributes rather than examples.
//
// [data.Table]: github.com/matzehuels/orngkit/pkg/data.Table
package distance
