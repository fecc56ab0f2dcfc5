package cluster

import "github.com/matzehuels/orngkit/pkg/errors"

// Node is a cluster: a leaf holding one item or a merge of two clusters.
type Node struct {
	Left, Right *Node
	Height      float64 // merge dissimilarity; 0 for leaves
	First, Last int     // segment of the tree mapping covered by this node

	tree *Tree
}

// IsLeaf reports whether n holds a single item.
func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// Len returns the number of items in the cluster.
func (n *Node) Len() int { return n.Last - n.First }

// Items returns the items of the cluster in current leaf order.
// The returned slice aliases the tree mapping.
func (n *Node) Items() []int { return n.tree.Mapping[n.First:n.Last] }

// Item returns the item of a leaf.
func (n *Node) Item() int { return n.tree.Mapping[n.First] }

// Branches returns the two sub-clusters, or nil for a leaf.
func (n *Node) Branches() []*Node {
	if n.IsLeaf() {
		return nil
	}
	return []*Node{n.Left, n.Right}
}

// Swap exchanges the branches of n, reversing their order in the mapping
// while keeping the order inside each branch.
func (n *Node) Swap() {
	if n.IsLeaf() {
		return
	}
	left, right := n.Left.Len(), n.Right.Len()
	seg := n.tree.Mapping[n.First:n.Last]
	rotated := make([]int, 0, len(seg))
	rotated = append(rotated, seg[left:]...)
	rotated = append(rotated, seg[:left]...)
	copy(seg, rotated)

	shift(n.Right, -left)
	shift(n.Left, right)
	n.Left, n.Right = n.Right, n.Left
}

// shift moves the segment of every node in the subtree by delta.
func shift(n *Node, delta int) {
	n.First += delta
	n.Last += delta
	if !n.IsLeaf() {
		shift(n.Left, delta)
		shift(n.Right, delta)
	}
}

// Tree is a binary clustering tree over items 0..n-1.
type Tree struct {
	Root    *Node
	Mapping []int // leaf order: Mapping[i] is the item at position i
}

// Len returns the number of items.
func (t *Tree) Len() int { return len(t.Mapping) }

// Walk visits the nodes in pre-order until fn returns false.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		if !fn(n) {
			return false
		}
		if n.IsLeaf() {
			return true
		}
		return visit(n.Left) && visit(n.Right)
	}
	if t.Root != nil {
		visit(t.Root)
	}
}

// Internal returns the merge nodes in post-order (children before parents).
func (t *Tree) Internal() []*Node {
	var out []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		if n.IsLeaf() {
			return
		}
		visit(n.Left)
		visit(n.Right)
		out = append(out, n)
	}
	if t.Root != nil {
		visit(t.Root)
	}
	return out
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	c := &Tree{Mapping: append([]int(nil), t.Mapping...)}
	var cp func(n *Node) *Node
	cp = func(n *Node) *Node {
		m := &Node{Height: n.Height, First: n.First, Last: n.Last, tree: c}
		if !n.IsLeaf() {
			m.Left = cp(n.Left)
			m.Right = cp(n.Right)
		}
		return m
	}
	if t.Root != nil {
		c.Root = cp(t.Root)
	}
	return c
}

// Shape is a tree before leaf positions are assigned: either a leaf holding
// Item or a merge of Left and Right at Height.
type Shape struct {
	Left, Right *Shape
	Item        int
	Height      float64
}

// Leaf returns the shape of a single item.
func Leaf(item int) *Shape { return &Shape{Item: item} }

// Join returns the shape merging left and right at height.
func Join(left, right *Shape, height float64) *Shape {
	return &Shape{Left: left, Right: right, Height: height}
}

// Build lays out s: leaves are positioned left to right and every node
// receives its mapping segment. The leaf items must be a permutation of
// 0..n-1.
func Build(s *Shape) (*Tree, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "empty tree")
	}
	t := &Tree{}
	var visit func(s *Shape) (*Node, error)
	visit = func(s *Shape) (*Node, error) {
		n := &Node{Height: s.Height, First: len(t.Mapping), tree: t}
		switch {
		case s.Left == nil && s.Right == nil:
			t.Mapping = append(t.Mapping, s.Item)
		case s.Left == nil || s.Right == nil:
			return nil, errors.New(errors.ErrCodeInvalidTree, "merge with a single branch")
		default:
			var err error
			if n.Left, err = visit(s.Left); err != nil {
				return nil, err
			}
			if n.Right, err = visit(s.Right); err != nil {
				return nil, err
			}
		}
		n.Last = len(t.Mapping)
		return n, nil
	}
	root, err := visit(s)
	if err != nil {
		return nil, err
	}
	seen := make([]bool, len(t.Mapping))
	for _, item := range t.Mapping {
		if item < 0 || item >= len(seen) || seen[item] {
			return nil, errors.New(errors.ErrCodeInvalidTree, "leaf items must be a permutation of 0..%d, found %d", len(seen)-1, item)
		}
		seen[item] = true
	}
	t.Root = root
	return t, nil
}

// Shape returns the shape of t in its current leaf order.
func (t *Tree) Shape() *Shape {
	var visit func(n *Node) *Shape
	visit = func(n *Node) *Shape {
		if n.IsLeaf() {
			return Leaf(n.Item())
		}
		return Join(visit(n.Left), visit(n.Right), n.Height)
	}
	if t.Root == nil {
		return nil
	}
	return visit(t.Root)
}
