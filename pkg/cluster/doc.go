// Package cluster implements agglomerative hierarchical clustering and
// optimal leaf ordering of the resulting binary trees.
//
// # Trees
//
// A [Tree] is a binary tree over n items with a shared [Tree.Mapping]: every
// [Node] covers the contiguous segment Mapping[First:Last], so the leaf order
// of the whole tree is simply the mapping. [Node.Swap] exchanges the two
// branches of a node and rewrites its segment accordingly.
//
// # Leaf Ordering
//
// A binary tree with n leaves admits 2^(n-1) leaf orders that all respect the
// clustering. [OrderLeaves] picks the one minimising the sum of
// dissimilarities between adjacent leaves, following Bar-Joseph, Gifford and
// Jaakkola, "Fast optimal leaf ordering for hierarchical clustering" (2001).
// For every node v and every pair of leaves u (left branch) and w (right
// branch) it computes the cost of the best ordering of v's subtree that
// starts with u and ends with w:
//
//	M(v, u, w) = min over m, k of M(v.Left, u, m) + D(m, k) + M(v.Right, k, w)
//
// where m ranges over the leaves of v.Left on the side opposite to u and k
// over the leaves of v.Right on the side opposite to w. Candidates are sorted
// by their subtree cost so that the lower bound min D(m, k) prunes most of
// the search. Memo tables live on the nodes they describe.
//
// # Example
//
//	d := distance.Examples(table, distance.Euclidean)
//	tree := cluster.Agglomerate(d, cluster.Average)
//	cost, err := cluster.OrderLeaves(ctx, tree, d, nil)
package cluster
