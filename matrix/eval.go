// SPDX-License-Identifier: MIT

// Package matrix - evaluation engine: entry points and the central copy /
// scaled-addition dispatchers.
//
// Evaluation is a pure recursive walk over an immutable tree. Each entry
// point acquires a call-scoped arena and releases it on return; no state
// persists across calls. Dispatch tries the most specific fusable shape
// first and only materializes a temporary when nothing below it can fuse.
//
// Kernel orientation: the blas contract is column-major. A row-major
// storage is presented as the transposed column-major view of its memory
// (flag XOR), and a row-major destination is produced by computing the
// transposed equation. The helpers physView / vecView / copyLeaf /
// axpyLeaf centralize that normalization.
package matrix

import (
	"fmt"

	"github.com/Laeeth/scid/blas"
)

// Operation tags for unified error wrapping (no magic strings at call sites).
const (
	opEval       = "Eval"
	opEvalScalar = "EvalScalar"
	opAssign     = "Assign"
	opAccumulate = "Accumulate"
	opCopy       = "Copy"
	opScaledAdd  = "ScaledAdd"
	opProduct    = "Product"
	opMatVec     = "MatVec"
	opSolve      = "Solve"
	opDot        = "Dot"
)

// evalErrorf wraps err with an operation tag, preserving sentinels via %w.
// Call only with err != nil.
func evalErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Eval evaluates a vector- or matrix-closure expression into a fresh
// destination shaped from the tree. A bare storage leaf is returned as-is
// (aliasing is safe under copy-on-write). Scalar-closure expressions are a
// programmer error here; use EvalScalar.
func Eval(e *Expr) (*Dense, error) {
	if e == nil {
		panic("matrix: Eval(nil expression)")
	}
	if e.closure == ClosureScalar {
		panic("matrix: Eval on a scalar closure; use EvalScalar")
	}
	if e.kind == kindLeaf {
		return e.leaf, nil
	}
	ar := getArena()
	defer putArena(ar)
	dst := &Dense{leading: 1, order: DefaultOrder}
	if err := copyInto(ar, dst, e, blas.NoTrans); err != nil {
		return nil, evalErrorf(opEval, err)
	}
	return dst, nil
}

// EvalScalar evaluates a scalar-closure expression (literals, scalar
// arithmetic, dot products). Panics on a non-scalar closure.
func EvalScalar(e *Expr) (float64, error) {
	if e == nil {
		panic("matrix: EvalScalar(nil expression)")
	}
	if e.closure != ClosureScalar {
		panic("matrix: EvalScalar on closure " + e.closure.String())
	}
	ar := getArena()
	defer putArena(ar)
	v, err := evalScalar(ar, e)
	if err != nil {
		return 0, evalErrorf(opEvalScalar, err)
	}
	return v, nil
}

// Assign evaluates dst := e, resizing dst to the expression's extents.
// dst must be directly writable storage, not a pending expression; a scalar
// closure is a programmer error.
func Assign(dst *Dense, e *Expr) error {
	if dst == nil || e == nil {
		panic("matrix: Assign(nil)")
	}
	if e.closure == ClosureScalar {
		panic("matrix: Assign from a scalar closure")
	}
	ar := getArena()
	defer putArena(ar)
	if err := copyInto(ar, dst, e, blas.NoTrans); err != nil {
		return evalErrorf(opAssign, err)
	}
	return nil
}

// Accumulate evaluates dst += alpha * e without resizing: the expression
// extents must match dst. This is the public face of the scaled-addition
// dispatcher, so an arbitrarily deep chain of sums of scaled products
// lowers into fused multiply-accumulate kernel calls.
func Accumulate(dst *Dense, alpha float64, e *Expr) error {
	if dst == nil || e == nil {
		panic("matrix: Accumulate(nil)")
	}
	if e.closure == ClosureScalar {
		panic("matrix: Accumulate from a scalar closure")
	}
	r, c := e.Dims()
	if r != dst.rows || c != dst.cols {
		return evalErrorf(opAccumulate, fmt.Errorf("%dx%d into %dx%d: %w",
			r, c, dst.rows, dst.cols, ErrDimensionMismatch))
	}
	ar := getArena()
	defer putArena(ar)
	if err := scaledAdd(ar, alpha, e, dst, blas.NoTrans); err != nil {
		return evalErrorf(opAccumulate, err)
	}
	return nil
}

// evalScalar reduces a scalar-closure sub-tree to its value.
func evalScalar(ar *arena, e *Expr) (float64, error) {
	switch e.kind {
	case kindLit:
		return e.val, nil
	case kindScalarOp:
		l, err := evalScalar(ar, e.lhs)
		if err != nil {
			return 0, err
		}
		r, err := evalScalar(ar, e.rhs)
		if err != nil {
			return 0, err
		}
		return applyScalarOp(e.op, l, r), nil
	case kindProduct:
		return dot(ar, e.lhs, e.rhs, blas.NoTrans, blas.NoTrans)
	default:
		panic("matrix: corrupt scalar expression kind")
	}
}

// opDims returns the extents of e after an optional pending transpose.
func opDims(e *Expr, t blas.Transpose) (rows, cols int) {
	r, c := e.Dims()
	if t == blas.Trans {
		return c, r
	}
	return r, c
}

// copyInto evaluates dst := op(e) where op is governed by the pending
// transpose flag. Dispatch order, most specific first (rewrites that avoid
// temporaries come before the materializing fallback):
//
//  1. storage leaf          → one rectangular copy kernel call;
//  2. scaling               → resize, then fused scaled-addition;
//  3. addition              → copy left, then accumulate right (left
//     commits first; see package doc);
//  4. transpose             → recurse with the flag inverted, so patterns
//     like (A*B)ᵀ fuse without an intermediate transpose;
//  5. matrix product        → gemm path with overwrite semantics;
//  6. matrix-vector product → gemv path likewise;
//  7. inverse marker        → identity right-hand side solved in place;
//  8. anything else         → materialize into a scoped temporary, recurse.
func copyInto(ar *arena, dst *Dense, e *Expr, t blas.Transpose) error {
	switch e.kind {
	case kindLeaf:
		return copyLeaf(dst, e.leaf, t)

	case kindScale:
		alpha, err := evalScalar(ar, e.lhs)
		if err != nil {
			return err
		}
		r, c := opDims(e.rhs, t)
		if err = dst.Resize(r, c); err != nil {
			return err
		}
		return scaledAdd(ar, alpha, e.rhs, dst, t)

	case kindAdd:
		if err := copyInto(ar, dst, e.lhs, t); err != nil {
			return err
		}
		return scaledAdd(ar, 1, e.rhs, dst, t)

	case kindTrans:
		return copyInto(ar, dst, e.lhs, t.Flip())

	case kindProduct:
		if e.closure.isVector() {
			return copyVecProduct(ar, dst, e, t)
		}
		a, b, ta, tb := orientProduct(e, t)
		return product(ar, 1, a, b, ta, tb, 0, dst)

	case kindInverse:
		// dst := op(A)⁻¹ · I. The identity right-hand side is built in dst
		// and solved in place; (A⁻¹)ᵀ == (Aᵀ)⁻¹ folds the flag into the solve.
		n, _ := e.lhs.Dims()
		if err := dst.ResizeDiscard(n, n); err != nil {
			return err
		}
		setIdentity(dst)
		return solveInPlace(ar, e.lhs, t, dst)

	default:
		// Unfusable shape: materialize into a call-scoped temporary and
		// restart dispatch from the concrete value.
		tmp, err := evalToTemp(ar, e)
		if err != nil {
			return err
		}
		return copyLeaf(dst, tmp, t)
	}
}

// scaledAdd evaluates dst += alpha * op(e). Same recognition set as
// copyInto, plus: alpha distributes across addition operands and nested
// scalings fold by coefficient multiplication, so a whole chain of
// sums-of-scaled-products lowers into fused accumulate calls with no
// temporaries as long as every chain leaf is fusable.
func scaledAdd(ar *arena, alpha float64, e *Expr, dst *Dense, t blas.Transpose) error {
	switch e.kind {
	case kindLeaf:
		return axpyLeaf(dst, alpha, e.leaf, t)

	case kindScale:
		c, err := evalScalar(ar, e.lhs)
		if err != nil {
			return err
		}
		return scaledAdd(ar, alpha*c, e.rhs, dst, t)

	case kindAdd:
		if err := scaledAdd(ar, alpha, e.lhs, dst, t); err != nil {
			return err
		}
		return scaledAdd(ar, alpha, e.rhs, dst, t)

	case kindTrans:
		return scaledAdd(ar, alpha, e.lhs, dst, t.Flip())

	case kindProduct:
		if e.closure.isVector() {
			return accumVecProduct(ar, alpha, dst, e, t)
		}
		a, b, ta, tb := orientProduct(e, t)
		return product(ar, alpha, a, b, ta, tb, 1, dst)

	case kindInverse:
		n, _ := e.lhs.Dims()
		tmp := ar.temp(n, n, ColMajor)
		setIdentity(tmp)
		if err := solveInPlace(ar, e.lhs, t, tmp); err != nil {
			return err
		}
		return axpyLeaf(dst, alpha, tmp, blas.NoTrans)

	default:
		tmp, err := evalToTemp(ar, e)
		if err != nil {
			return err
		}
		return axpyLeaf(dst, alpha, tmp, t)
	}
}

// orientProduct resolves a pending transpose over a product node:
// (A·B)ᵀ = Bᵀ·Aᵀ, so the factors swap and both carry a flipped flag.
func orientProduct(e *Expr, t blas.Transpose) (a, b *Expr, ta, tb blas.Transpose) {
	if t == blas.Trans {
		return e.rhs, e.lhs, blas.Trans, blas.Trans
	}
	return e.lhs, e.rhs, blas.NoTrans, blas.NoTrans
}

// evalToTemp materializes e into a call-scoped temporary (leaves come back
// as themselves: already concrete).
func evalToTemp(ar *arena, e *Expr) (*Dense, error) {
	if e.kind == kindLeaf {
		return e.leaf, nil
	}
	r, c := e.Dims()
	tmp := ar.temp(r, c, ColMajor)
	if err := copyInto(ar, tmp, e, blas.NoTrans); err != nil {
		return nil, err
	}
	return tmp, nil
}

// ---------- leaf kernels & layout normalization ----------

// xorT composes transpose flags; flipping twice cancels.
func xorT(a, b blas.Transpose) blas.Transpose { return blas.Transpose(a != b) }

// physView presents d as a column-major operand: physical extents, element
// window, leading dimension, and the flag stating whether that presentation
// is the transpose of d's logical orientation (true for RowMajor memory).
func physView(d *Dense) (pr, pc int, data []float64, ld int, t blas.Transpose) {
	data = d.Data()
	ld = d.leading
	if d.order == RowMajor {
		return d.cols, d.rows, data, ld, blas.Trans
	}
	return d.rows, d.cols, data, ld, blas.NoTrans
}

// vecView presents a vector-shaped storage (single row or column) as a
// strided element sequence. Panics on a non-vector shape (internal misuse).
func vecView(d *Dense) (n int, data []float64, inc int) {
	if d.rows != 1 && d.cols != 1 {
		panic("matrix: vecView on a non-vector storage")
	}
	n = d.Len()
	data = d.Data()
	inc = 1
	if n > 1 && d.minorDim() == 1 {
		// The vector runs across major subvectors of length one.
		inc = d.leading
	}
	return n, data, inc
}

// copyLeaf performs dst := op(src) as a single rectangular copy. dst is
// reshaped (exclusively, per Resize's sharing rule) and fully overwritten.
func copyLeaf(dst *Dense, src *Dense, t blas.Transpose) error {
	r, c := src.rows, src.cols
	if t == blas.Trans {
		r, c = c, r
	}
	if err := dst.ResizeDiscard(r, c); err != nil {
		return err
	}
	if dst.Len() == 0 {
		return nil
	}
	_, _, sdata, sld, st := physView(src)
	dr, dc, ddata, dld, dt := physView(dst)
	// Flag algebra: the op needed reading src's memory into dst's memory is
	// the XOR of src physical orientation, the pending logical transpose,
	// and dst physical orientation.
	flag := xorT(xorT(st, t), dt)
	blas.GeCopy(dr, dc, sdata, sld, flag, ddata, dld)
	return nil
}

// axpyLeaf performs dst += alpha * op(src) as a single rectangular
// accumulate. Extents must already match; dst is unshared before writing.
func axpyLeaf(dst *Dense, alpha float64, src *Dense, t blas.Transpose) error {
	r, c := src.rows, src.cols
	if t == blas.Trans {
		r, c = c, r
	}
	if r != dst.rows || c != dst.cols {
		return evalErrorf(opScaledAdd, fmt.Errorf("%dx%d into %dx%d: %w",
			r, c, dst.rows, dst.cols, ErrDimensionMismatch))
	}
	if dst.Len() == 0 {
		return nil
	}
	dst.unshare()
	_, _, sdata, sld, st := physView(src)
	dr, dc, ddata, dld, dt := physView(dst)
	flag := xorT(xorT(st, t), dt)
	blas.GeAxpy(dr, dc, alpha, sdata, sld, flag, ddata, dld)
	return nil
}

// scaleStorage multiplies every logical element of d by alpha, one Scal
// call per major run (the view may be strided). Unshares first.
func scaleStorage(d *Dense, alpha float64) {
	if d.Len() == 0 || alpha == 1 {
		return
	}
	d.unshare()
	minor, major := d.minorDim(), d.majorDim()
	data := d.Data()
	for j := 0; j < major; j++ {
		blas.Scal(minor, alpha, data[j*d.leading:], 1)
	}
}

// setIdentity overwrites a square storage with the identity. The caller
// guarantees exclusive ownership (fresh resize or arena temporary).
func setIdentity(d *Dense) {
	n := d.rows
	data := d.DataMutable()
	blas.Scal(d.Len(), 0, data, 1)
	for i := 0; i < n; i++ {
		data[i*d.leading+i] = 1
	}
}
