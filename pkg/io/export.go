package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/orngkit/pkg/cluster"
)

// Document is a clustering tree with the metadata needed to draw it.
type Document struct {
	Tree    *cluster.Tree
	Labels  []string
	Linkage string
	Ordered bool
	Cost    float64
}

type document struct {
	Labels  []string `json:"labels,omitempty"`
	Linkage string   `json:"linkage,omitempty"`
	Ordered bool     `json:"ordered,omitempty"`
	Cost    float64  `json:"cost"`
	Root    *node    `json:"root"`
}

type node struct {
	Item   *int    `json:"item,omitempty"`
	Height float64 `json:"height,omitempty"`
	Left   *node   `json:"left,omitempty"`
	Right  *node   `json:"right,omitempty"`
}

func toNode(s *cluster.Shape) *node {
	if s.Left == nil && s.Right == nil {
		item := s.Item
		return &node{Item: &item}
	}
	return &node{Height: s.Height, Left: toNode(s.Left), Right: toNode(s.Right)}
}

// WriteJSON encodes doc as indented JSON and writes it to w.
func WriteJSON(doc Document, w io.Writer) error {
	if doc.Tree == nil || doc.Tree.Root == nil {
		return fmt.Errorf("encode: empty tree")
	}
	out := document{
		Labels:  doc.Labels,
		Linkage: doc.Linkage,
		Ordered: doc.Ordered,
		Cost:    doc.Cost,
		Root:    toNode(doc.Tree.Shape()),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
