package io

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/orngkit/pkg/cluster"
	"github.com/matzehuels/orngkit/pkg/errors"
)

func sampleTree(t *testing.T) *cluster.Tree {
	t.Helper()
	tree, err := cluster.Build(cluster.Join(
		cluster.Leaf(2),
		cluster.Join(cluster.Leaf(0), cluster.Leaf(1), 0.4),
		2.5,
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func TestRoundTrip(t *testing.T) {
	tree := sampleTree(t)
	tree.Root.Right.Swap()
	doc := Document{
		Tree:    tree,
		Labels:  []string{"a", "b", "c"},
		Linkage: "average",
		Ordered: true,
		Cost:    1.75,
	}

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if want := []int{2, 1, 0}; !slices.Equal(got.Tree.Mapping, want) {
		t.Errorf("Mapping = %v, want %v", got.Tree.Mapping, want)
	}
	if got.Tree.Root.Height != 2.5 || got.Tree.Root.Right.Height != 0.4 {
		t.Errorf("heights = %v, %v", got.Tree.Root.Height, got.Tree.Root.Right.Height)
	}
	if got.Linkage != "average" || !got.Ordered || got.Cost != 1.75 {
		t.Errorf("metadata = %+v", got)
	}
	if strings.Join(got.Labels, ",") != "a,b,c" {
		t.Errorf("Labels = %v", got.Labels)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"root":`, errors.ErrCodeInvalidFormat},
		{"no root", `{"labels":["a"]}`, errors.ErrCodeInvalidTree},
		{"single branch", `{"root":{"height":1,"left":{"item":0}}}`, errors.ErrCodeInvalidTree},
		{"leaf without item", `{"root":{"height":1,"left":{"item":0},"right":{}}}`, errors.ErrCodeInvalidTree},
		{"duplicate item", `{"root":{"height":1,"left":{"item":0},"right":{"item":0}}}`, errors.ErrCodeInvalidTree},
		{"label count", `{"labels":["a"],"root":{"height":1,"left":{"item":0},"right":{"item":1}}}`, errors.ErrCodeInvalidTree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(Document{Tree: &cluster.Tree{}}, &buf); err == nil {
		t.Error("expected error for empty tree")
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := ExportJSON(Document{Tree: sampleTree(t)}, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	doc, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if doc.Tree.Len() != 3 {
		t.Errorf("Len = %d, want 3", doc.Tree.Len())
	}

	_, err = ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) error = %v", err)
	}
}
