package translate

import (
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/orngkit/pkg/errors"
)

// Dataset holds translated rows as gonum matrices.
type Dataset struct {
	X *mat.Dense    // one row per example
	Y *mat.VecDense // labels
	W *mat.VecDense // weights; nil for unweighted rows
}

// Matrix packs rows into a [Dataset]. All rows must have the same width.
func Matrix(rows []Row) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no rows")
	}
	width := len(rows[0].Features)
	if width == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "rows have no features")
	}

	ds := &Dataset{
		X: mat.NewDense(len(rows), width, nil),
		Y: mat.NewVecDense(len(rows), nil),
	}
	if rows[0].Weighted {
		ds.W = mat.NewVecDense(len(rows), nil)
	}
	for i, r := range rows {
		if len(r.Features) != width {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d has %d features, want %d", i, len(r.Features), width)
		}
		ds.X.SetRow(i, r.Features)
		ds.Y.SetVec(i, r.Label)
		if ds.W != nil {
			ds.W.SetVec(i, r.Weight)
		}
	}
	return ds, nil
}
