package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/orngkit/pkg/cluster"
	"github.com/matzehuels/orngkit/pkg/errors"
)

// ReadJSON decodes a tree document from r.
//
// ReadJSON returns an error if the JSON is malformed, a node has exactly
// one branch, a leaf has no item, the leaf items are not a permutation of
// 0..n-1, or the number of labels does not match the number of leaves.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var in document
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	if in.Root == nil {
		return Document{}, errors.New(errors.ErrCodeInvalidTree, "document has no root")
	}
	shape, err := fromNode(in.Root)
	if err != nil {
		return Document{}, err
	}
	tree, err := cluster.Build(shape)
	if err != nil {
		return Document{}, err
	}
	if len(in.Labels) > 0 && len(in.Labels) != tree.Len() {
		return Document{}, errors.New(errors.ErrCodeInvalidTree,
			"%d labels for %d leaves", len(in.Labels), tree.Len())
	}
	return Document{
		Tree:    tree,
		Labels:  in.Labels,
		Linkage: in.Linkage,
		Ordered: in.Ordered,
		Cost:    in.Cost,
	}, nil
}

func fromNode(n *node) (*cluster.Shape, error) {
	switch {
	case n.Left == nil && n.Right == nil:
		if n.Item == nil {
			return nil, errors.New(errors.ErrCodeInvalidTree, "leaf without item")
		}
		return cluster.Leaf(*n.Item), nil
	case n.Left == nil || n.Right == nil:
		return nil, errors.New(errors.ErrCodeInvalidTree, "node at height %g has a single branch", n.Height)
	}
	left, err := fromNode(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := fromNode(n.Right)
	if err != nil {
		return nil, err
	}
	return cluster.Join(left, right, n.Height), nil
}

// ImportJSON reads a tree document from the JSON file at path.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
