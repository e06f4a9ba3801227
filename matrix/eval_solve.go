// SPDX-License-Identifier: MIT

// Package matrix - in-place linear-system solves for inverse markers.
//
// solveInPlace computes dst := op(A)⁻¹ · dst, rewriting before it ever
// reaches the generic kernel:
//   - a scalar factor on A pre-scales dst by its reciprocal;
//   - a transpose marker flips the solve flag;
//   - a product A = P·Q splits into two sequential solves, P first when
//     untransposed (inv(P·Q) = inv(Q)·inv(P) applies inv(P) to dst first),
//     Q first when transposed (the transposed form reverses associativity).
//
// The generic path materializes A, requires it square, and hands a
// column-major right-hand side to the backend Solve kernel, round-tripping
// through a scoped temporary when dst's memory is not kernel-shaped.
package matrix

import (
	"fmt"

	"github.com/Laeeth/scid/blas"
)

func solveInPlace(ar *arena, aE *Expr, t blas.Transpose, dst *Dense) error {
peel:
	for {
		switch aE.kind {
		case kindScale:
			c, err := evalScalar(ar, aE.lhs)
			if err != nil {
				return err
			}
			scaleStorage(dst, 1/c)
			aE = aE.rhs
		case kindTrans:
			t = t.Flip()
			aE = aE.lhs
		case kindProduct:
			if aE.lhs.closure != ClosureMatrix || aE.rhs.closure != ClosureMatrix {
				break peel // outer-product factor: no split, generic path
			}
			if t == blas.NoTrans {
				if err := solveInPlace(ar, aE.lhs, t, dst); err != nil {
					return err
				}
				return solveInPlace(ar, aE.rhs, t, dst)
			}
			if err := solveInPlace(ar, aE.rhs, t, dst); err != nil {
				return err
			}
			return solveInPlace(ar, aE.lhs, t, dst)
		default:
			break peel
		}
	}

	a, err := evalToTemp(ar, aE)
	if err != nil {
		return err
	}
	if a.rows != a.cols {
		return evalErrorf(opSolve, fmt.Errorf("%dx%d operand: %w", a.rows, a.cols, ErrNonSquare))
	}
	n := a.rows
	_, _, adata, ald, apt := physView(a)
	flag := xorT(apt, t)

	// A single-column destination is a vector right-hand side; so is a
	// single-row one, unless the system is 1×1, where a 1×m destination
	// holds m separate right-hand sides and belongs on the matrix path.
	if dst.cols == 1 || (dst.rows == 1 && n != 1) {
		// Vector right-hand side.
		if dst.Len() != n {
			return evalErrorf(opSolve, fmt.Errorf("rhs length %d for %dx%d system: %w",
				dst.Len(), n, n, ErrDimensionMismatch))
		}
		if n == 0 {
			return nil
		}
		dst.unshare()
		_, vdata, vinc := vecView(dst)
		if vinc == 1 {
			if err = blas.Solve(flag, n, 1, adata, ald, vdata, n); err != nil {
				return evalErrorf(opSolve, err)
			}
			return nil
		}
		// Strided vector: the kernel wants contiguous columns.
		scratch := ar.alloc(n)
		blas.Copy(n, vdata, vinc, scratch, 1)
		if err = blas.Solve(flag, n, 1, adata, ald, scratch, n); err != nil {
			return evalErrorf(opSolve, err)
		}
		blas.Copy(n, scratch, 1, vdata, vinc)
		return nil
	}

	// Matrix right-hand side.
	if dst.rows != n {
		return evalErrorf(opSolve, fmt.Errorf("rhs %dx%d for %dx%d system: %w",
			dst.rows, dst.cols, n, n, ErrDimensionMismatch))
	}
	if dst.Len() == 0 {
		return nil
	}
	dst.unshare()
	if dst.order == ColMajor {
		if err = blas.Solve(flag, n, dst.cols, adata, ald, dst.Data(), dst.leading); err != nil {
			return evalErrorf(opSolve, err)
		}
		return nil
	}
	// Row-major destination: round-trip through a column-major temporary.
	tmp := ar.temp(n, dst.cols, ColMajor)
	blas.GeCopy(n, dst.cols, dst.Data(), dst.leading, blas.Trans, tmp.Data(), n)
	if err = blas.Solve(flag, n, dst.cols, adata, ald, tmp.Data(), n); err != nil {
		return evalErrorf(opSolve, err)
	}
	blas.GeCopy(dst.cols, dst.rows, tmp.Data(), n, blas.Trans, dst.Data(), dst.leading)
	return nil
}
