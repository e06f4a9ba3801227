// SPDX-License-Identifier: MIT

// Package matrix - dot-product evaluation.
//
// A RowVector×ColVector product node reduces to one backend Dot call.
// Closure construction already guarantees the row·column convention, so
// the peeling here only folds scalar factors into the result coefficient
// and discards orientation flips (a transposed vector has the same element
// sequence). Non-leaf sides are materialized into scoped temporaries.
// Elements are real, so the conjugation that a transposed operand would
// require over complex elements is the identity here.
package matrix

import (
	"fmt"

	"github.com/Laeeth/scid/blas"
)

func dot(ar *arena, aE, bE *Expr, ta, tb blas.Transpose) (float64, error) {
	coeff := 1.0
	var err error
	if aE, _, coeff, err = peelFactor(ar, aE, ta, coeff); err != nil {
		return 0, err
	}
	if bE, _, coeff, err = peelFactor(ar, bE, tb, coeff); err != nil {
		return 0, err
	}
	a, err := evalToTemp(ar, aE)
	if err != nil {
		return 0, err
	}
	b, err := evalToTemp(ar, bE)
	if err != nil {
		return 0, err
	}
	na, adata, ainc := vecView(a)
	nb, bdata, binc := vecView(b)
	if na != nb {
		return 0, evalErrorf(opDot, fmt.Errorf("lengths %d and %d: %w", na, nb, ErrDimensionMismatch))
	}
	return coeff * blas.Dot(na, adata, ainc, bdata, binc), nil
}
