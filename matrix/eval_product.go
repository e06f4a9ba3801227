// SPDX-License-Identifier: MIT

// Package matrix - product evaluation: dst = alpha*op(A)*op(B) + beta*dst
// and its matrix-vector analogue.
//
// Both routines algebraically simplify before touching a kernel:
//   - scalar factors fold into alpha;
//   - per-factor transposes fold into the factor flags;
//   - an inverse marker on the matrix factor becomes a linear-system solve
//     (in place on a scaled copy of the right-hand side when overwriting,
//     through a scoped temporary when accumulating);
//   - anything still undecomposable is materialized into a scoped temporary.
//
// The result is a single Gemm/Gemv (or Solve) call per product node.
package matrix

import (
	"fmt"

	"github.com/Laeeth/scid/blas"
)

// peelFactor strips scaling and transpose wrappers off a product factor,
// folding the scalar coefficients into alpha and the transposes into t.
func peelFactor(ar *arena, e *Expr, t blas.Transpose, alpha float64) (*Expr, blas.Transpose, float64, error) {
	for {
		switch e.kind {
		case kindScale:
			c, err := evalScalar(ar, e.lhs)
			if err != nil {
				return e, t, alpha, err
			}
			alpha *= c
			e = e.rhs
		case kindTrans:
			t = t.Flip()
			e = e.lhs
		default:
			return e, t, alpha, nil
		}
	}
}

// product evaluates dst := alpha*op(A)*op(B) + beta*dst for matrix-closure
// results. beta == 0 carries overwrite semantics (dst is reshaped); any
// other beta requires dst to already hold matching extents.
func product(ar *arena, alpha float64, aE, bE *Expr, ta, tb blas.Transpose, beta float64, dst *Dense) error {
	var err error
	if aE, ta, alpha, err = peelFactor(ar, aE, ta, alpha); err != nil {
		return err
	}
	if bE, tb, alpha, err = peelFactor(ar, bE, tb, alpha); err != nil {
		return err
	}
	if aE.kind == kindInverse {
		return productSolve(ar, alpha, aE.lhs, ta, bE, tb, beta, dst)
	}

	a, err := evalToTemp(ar, aE)
	if err != nil {
		return err
	}
	b, err := evalToTemp(ar, bE)
	if err != nil {
		return err
	}
	m, k := a.rows, a.cols
	if ta == blas.Trans {
		m, k = k, m
	}
	k2, n := b.rows, b.cols
	if tb == blas.Trans {
		k2, n = n, k2
	}
	if k != k2 {
		return evalErrorf(opProduct, fmt.Errorf("inner %d vs %d: %w", k, k2, ErrDimensionMismatch))
	}
	if beta == 0 {
		if err = dst.ResizeDiscard(m, n); err != nil {
			return err
		}
	} else if dst.rows != m || dst.cols != n {
		return evalErrorf(opProduct, fmt.Errorf("%dx%d into %dx%d: %w",
			m, n, dst.rows, dst.cols, ErrDimensionMismatch))
	}
	if dst.Len() == 0 {
		return nil
	}
	gemmInto(dst, alpha, a, ta, b, tb, beta, k)
	return nil
}

// productSolve handles an inverse marker on the left factor:
// dst := alpha*op(M)⁻¹*op(B) + beta*dst. With overwrite semantics the
// right-hand side is built and scaled directly in dst and solved in place;
// otherwise the solve runs in a scoped temporary that is then accumulated.
func productSolve(ar *arena, alpha float64, mE *Expr, tm blas.Transpose,
	bE *Expr, tb blas.Transpose, beta float64, dst *Dense) error {
	rB, cB := opDims(bE, tb)
	if beta == 0 {
		if err := copyInto(ar, dst, bE, tb); err != nil {
			return err
		}
		scaleStorage(dst, alpha)
		return solveInPlace(ar, mE, tm, dst)
	}
	if dst.rows != rB || dst.cols != cB {
		return evalErrorf(opProduct, fmt.Errorf("%dx%d into %dx%d: %w",
			rB, cB, dst.rows, dst.cols, ErrDimensionMismatch))
	}
	tmp := ar.temp(rB, cB, ColMajor)
	if err := copyInto(ar, tmp, bE, tb); err != nil {
		return err
	}
	scaleStorage(tmp, alpha)
	if err := solveInPlace(ar, mE, tm, tmp); err != nil {
		return err
	}
	scaleStorage(dst, beta)
	return axpyLeaf(dst, 1, tmp, blas.NoTrans)
}

// gemmInto emits the single fused kernel call. A column-major destination
// maps directly; a row-major destination is produced through the transposed
// equation Cᵀ = op(B)ᵀ·op(A)ᵀ (swap factors, flip flags), since kernels
// never transpose their destination.
func gemmInto(dst *Dense, alpha float64, a *Dense, ta blas.Transpose,
	b *Dense, tb blas.Transpose, beta float64, k int) {
	dst.unshare()
	_, _, adata, ald, apt := physView(a)
	_, _, bdata, bld, bpt := physView(b)
	taEff := xorT(apt, ta)
	tbEff := xorT(bpt, tb)
	ddata := dst.Data()
	if dst.order == ColMajor {
		blas.Gemm(dst.rows, dst.cols, k, alpha, adata, ald, taEff, bdata, bld, tbEff, beta, ddata, dst.leading)
		return
	}
	blas.Gemm(dst.cols, dst.rows, k, alpha, bdata, bld, tbEff.Flip(), adata, ald, taEff.Flip(), beta, ddata, dst.leading)
}

// copyVecProduct routes a vector-closure product node through the gemv
// path with overwrite semantics. A pending transpose on a vector result
// only flips its orientation: the element values of (M·v)ᵀ are those of
// M·v, and r·M reads as Mᵀ·rᵀ.
func copyVecProduct(ar *arena, dst *Dense, e *Expr, t blas.Transpose) error {
	if e.lhs.closure == ClosureMatrix { // Matrix × ColVector
		return matVec(ar, 1, e.lhs, e.rhs, blas.NoTrans, 0, dst, t == blas.Trans)
	}
	// RowVector × Matrix
	return matVec(ar, 1, e.rhs, e.lhs, blas.Trans, 0, dst, t == blas.NoTrans)
}

// accumVecProduct is copyVecProduct with accumulate semantics.
func accumVecProduct(ar *arena, alpha float64, dst *Dense, e *Expr, t blas.Transpose) error {
	if e.lhs.closure == ClosureMatrix {
		return matVec(ar, alpha, e.lhs, e.rhs, blas.NoTrans, 1, dst, t == blas.Trans)
	}
	return matVec(ar, alpha, e.rhs, e.lhs, blas.Trans, 1, dst, t == blas.NoTrans)
}

// matVec evaluates dst := alpha*op(M)*v + beta*dst for a vector result.
// rowResult selects the 1×n orientation of the destination under overwrite
// semantics (and is validated against dst otherwise). Recognizes the same
// scalar-fold, transpose-fold and inverse-as-solve rewrites as product.
func matVec(ar *arena, alpha float64, mE, vE *Expr, tm blas.Transpose,
	beta float64, dst *Dense, rowResult bool) error {
	var err error
	if mE, tm, alpha, err = peelFactor(ar, mE, tm, alpha); err != nil {
		return err
	}
	// On the vector side a transpose only flips orientation, which the
	// element view ignores; scalings fold into alpha.
	if vE, _, alpha, err = peelFactor(ar, vE, blas.NoTrans, alpha); err != nil {
		return err
	}

	if mE.kind == kindInverse {
		return matVecSolve(ar, alpha, mE.lhs, tm, vE, beta, dst, rowResult)
	}

	m, err := evalToTemp(ar, mE)
	if err != nil {
		return err
	}
	v, err := evalToTemp(ar, vE)
	if err != nil {
		return err
	}
	mo, no := m.rows, m.cols
	if tm == blas.Trans {
		mo, no = no, mo
	}
	nv, vdata, vinc := vecView(v)
	if nv != no {
		return evalErrorf(opMatVec, fmt.Errorf("matrix %dx%d times vector %d: %w",
			mo, no, nv, ErrDimensionMismatch))
	}
	if err = prepareVecDst(dst, mo, beta, rowResult); err != nil {
		return err
	}
	if mo == 0 {
		return nil
	}
	dst.unshare()
	_, ydata, yinc := vecView(dst)
	pr, pc, mdata, mld, mpt := physView(m)
	blas.Gemv(xorT(mpt, tm), pr, pc, alpha, mdata, mld, vdata, vinc, beta, ydata, yinc)
	return nil
}

// matVecSolve handles an inverse marker on the matrix side of a
// matrix-vector product: dst := alpha*op(M)⁻¹*v + beta*dst.
func matVecSolve(ar *arena, alpha float64, mE *Expr, tm blas.Transpose,
	vE *Expr, beta float64, dst *Dense, rowResult bool) error {
	v, err := evalToTemp(ar, vE)
	if err != nil {
		return err
	}
	nv, vdata, vinc := vecView(v)
	if beta == 0 {
		if err = prepareVecDst(dst, nv, beta, rowResult); err != nil {
			return err
		}
		dst.unshare()
		_, ydata, yinc := vecView(dst)
		blas.Copy(nv, vdata, vinc, ydata, yinc)
		scaleStorage(dst, alpha)
		return solveInPlace(ar, mE, tm, dst)
	}
	if err = prepareVecDst(dst, nv, beta, rowResult); err != nil {
		return err
	}
	tmp := ar.temp(nv, 1, ColMajor)
	if nv > 0 {
		blas.Copy(nv, vdata, vinc, tmp.Data(), 1)
	}
	scaleStorage(tmp, alpha)
	if err = solveInPlace(ar, mE, tm, tmp); err != nil {
		return err
	}
	scaleStorage(dst, beta)
	if nv == 0 {
		return nil
	}
	dst.unshare()
	_, ydata, yinc := vecView(dst)
	blas.Axpy(nv, 1, tmp.Data(), 1, ydata, yinc)
	return nil
}

// prepareVecDst reshapes dst for overwrite semantics or validates its
// vector extents for accumulation.
func prepareVecDst(dst *Dense, n int, beta float64, rowResult bool) error {
	wantR, wantC := n, 1
	if rowResult {
		wantR, wantC = 1, n
	}
	if beta == 0 {
		return dst.ResizeDiscard(wantR, wantC)
	}
	if dst.rows != wantR || dst.cols != wantC {
		return evalErrorf(opMatVec, fmt.Errorf("vector %d into %dx%d: %w",
			n, dst.rows, dst.cols, ErrDimensionMismatch))
	}
	return nil
}
