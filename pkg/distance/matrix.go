package distance

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SymMatrix is a symmetric dissimilarity matrix with optional item labels.
type SymMatrix struct {
	sym    *mat.SymDense
	Labels []string
}

// NewSymMatrix creates an n×n zero matrix.
func NewSymMatrix(n int) *SymMatrix {
	if n == 0 {
		return &SymMatrix{}
	}
	return &SymMatrix{sym: mat.NewSymDense(n, nil)}
}

// FromLower builds a matrix from the rows of its lower triangle, the i-th row
// holding entries (i,0)..(i,i-1). The diagonal is zero.
func FromLower(rows [][]float64) (*SymMatrix, error) {
	m := NewSymMatrix(len(rows))
	for i, row := range rows {
		if len(row) != i && len(row) != i+1 {
			return nil, fmt.Errorf("row %d has %d entries, want %d", i, len(row), i)
		}
		for j := 0; j < i; j++ {
			m.Set(i, j, row[j])
		}
	}
	return m, nil
}

// Dim returns the number of items.
func (m *SymMatrix) Dim() int {
	if m.sym == nil {
		return 0
	}
	return m.sym.SymmetricDim()
}

// At returns the dissimilarity between items i and j.
func (m *SymMatrix) At(i, j int) float64 { return m.sym.At(i, j) }

// Set stores the dissimilarity between items i and j (and j and i).
func (m *SymMatrix) Set(i, j int, v float64) { m.sym.SetSym(i, j, v) }

// Sym exposes the underlying gonum matrix.
func (m *SymMatrix) Sym() *mat.SymDense { return m.sym }

// Label returns the label of item i, or its index when unlabelled.
func (m *SymMatrix) Label(i int) string {
	if i < len(m.Labels) && m.Labels[i] != "" {
		return m.Labels[i]
	}
	return fmt.Sprint(i)
}
