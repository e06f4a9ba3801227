// SPDX-License-Identifier: MIT

// Package blas - Reference implementation of the kernel contract.
//
// Purpose:
//   - Provide a correct, deterministic, allocation-light baseline for every
//     mandatory and optional kernel.
//   - Keep fixed loop orders so results are bit-reproducible across runs.
//
// Solve uses LU decomposition with partial pivoting followed by forward and
// backward substitution (Doolittle scheme), factoring a private copy of the
// operand so the contract's "a is read-only" clause holds.
//
// Complexity quicksheet:
//   - Scal/Copy/Axpy/Dot: O(n); GeCopy/GeAxpy: O(m*n);
//   - Gemm: O(m*n*k); Gemv: O(m*n); Solve: O(n³ + n²*nrhs), O(n²) scratch.
package blas

import "math"

// Reference is the default pure-Go implementation. The zero value is ready
// to use.
type Reference struct{}

// Compile-time conformance checks: Reference carries every capability.
var (
	_ Implementation  = Reference{}
	_ RectCopier      = Reference{}
	_ RectAccumulator = Reference{}
)

// Scal computes x *= alpha over n strided elements.
// alpha == 0 stores zeros explicitly: 0*NaN would poison a zero-fill of
// uninitialized contents, so the zero case never multiplies.
func (Reference) Scal(n int, alpha float64, x []float64, inc int) {
	if alpha == 0 {
		for i := 0; i < n; i++ {
			x[i*inc] = 0
		}
		return
	}
	for i := 0; i < n; i++ {
		x[i*inc] *= alpha
	}
}

// Copy computes y = x over n strided elements.
func (Reference) Copy(n int, x []float64, incX int, y []float64, incY int) {
	for i := 0; i < n; i++ {
		y[i*incY] = x[i*incX]
	}
}

// Axpy computes y += alpha*x over n strided elements.
func (Reference) Axpy(n int, alpha float64, x []float64, incX int, y []float64, incY int) {
	if alpha == 0 {
		return // no-op by definition; keeps y bit-identical
	}
	for i := 0; i < n; i++ {
		y[i*incY] += alpha * x[i*incX]
	}
}

// Dot returns the inner product of two strided length-n vectors.
// Fixed ascending accumulation order for reproducibility.
func (Reference) Dot(n int, x []float64, incX int, y []float64, incY int) float64 {
	var sum float64
	for i := 0; i < n; i++ {
		sum += x[i*incX] * y[i*incY]
	}
	return sum
}

// GeCopy computes dst(m×n, ldd) = op(src) in one pass.
func (Reference) GeCopy(m, n int, src []float64, lds int, t Transpose, dst []float64, ldd int) {
	for j := 0; j < n; j++ {
		if t == NoTrans {
			col := src[j*lds:]
			out := dst[j*ldd:]
			for i := 0; i < m; i++ {
				out[i] = col[i]
			}
		} else {
			out := dst[j*ldd:]
			for i := 0; i < m; i++ {
				out[i] = src[j+i*lds]
			}
		}
	}
}

// GeAxpy computes dst(m×n, ldd) += alpha*op(src) in one pass.
func (Reference) GeAxpy(m, n int, alpha float64, src []float64, lds int, t Transpose, dst []float64, ldd int) {
	if alpha == 0 {
		return
	}
	for j := 0; j < n; j++ {
		if t == NoTrans {
			col := src[j*lds:]
			out := dst[j*ldd:]
			for i := 0; i < m; i++ {
				out[i] += alpha * col[i]
			}
		} else {
			out := dst[j*ldd:]
			for i := 0; i < m; i++ {
				out[i] += alpha * src[j+i*lds]
			}
		}
	}
}

// Gemm computes c = alpha*op(a)*op(b) + beta*c.
// Stage 1: scale (or zero) c by beta. Stage 2: rank-1 accumulation with
// fixed j→l→i loop order; op(a)[i,l] and op(b)[l,j] are resolved through the
// transpose flags without materializing any transpose.
func (Reference) Gemm(m, n, k int, alpha float64, a []float64, lda int, ta Transpose,
	b []float64, ldb int, tb Transpose, beta float64, c []float64, ldc int) {
	// Pre-scale the destination; beta==0 writes zeros (never multiplies).
	for j := 0; j < n; j++ {
		col := c[j*ldc:]
		if beta == 0 {
			for i := 0; i < m; i++ {
				col[i] = 0
			}
		} else if beta != 1 {
			for i := 0; i < m; i++ {
				col[i] *= beta
			}
		}
	}
	if alpha == 0 || k == 0 {
		return
	}
	for j := 0; j < n; j++ {
		col := c[j*ldc:]
		for l := 0; l < k; l++ {
			var bv float64
			if tb == NoTrans {
				bv = b[l+j*ldb]
			} else {
				bv = b[j+l*ldb]
			}
			if bv == 0 {
				continue
			}
			s := alpha * bv
			for i := 0; i < m; i++ {
				if ta == NoTrans {
					col[i] += s * a[i+l*lda]
				} else {
					col[i] += s * a[l+i*lda]
				}
			}
		}
	}
}

// Gemv computes y = alpha*op(a)*x + beta*y for a stored as m×n.
func (Reference) Gemv(t Transpose, m, n int, alpha float64, a []float64, lda int,
	x []float64, incX int, beta float64, y []float64, incY int) {
	// Result length depends on the flag: m for NoTrans, n for Trans.
	lenY := m
	lenX := n
	if t == Trans {
		lenY, lenX = n, m
	}
	for i := 0; i < lenY; i++ {
		if beta == 0 {
			y[i*incY] = 0
		} else if beta != 1 {
			y[i*incY] *= beta
		}
	}
	if alpha == 0 {
		return
	}
	for i := 0; i < lenY; i++ {
		var sum float64
		for j := 0; j < lenX; j++ {
			if t == NoTrans {
				sum += a[i+j*lda] * x[j*incX]
			} else {
				sum += a[j+i*lda] * x[j*incX]
			}
		}
		y[i*incY] += alpha * sum
	}
}

// Solve overwrites b with the solution of op(a)·X = b.
// Stage 1 (Factor): copy op(a) into an n×n scratch and LU-factor it with
// partial pivoting (row swaps recorded in piv).
// Stage 2 (Substitute): for each right-hand-side column apply the recorded
// permutation, then forward substitution (unit lower), then backward
// substitution (upper).
// Returns ErrSingular when the best available pivot is exactly zero.
func (Reference) Solve(t Transpose, n, nrhs int, a []float64, lda int, b []float64, ldb int) error {
	if n == 0 {
		return nil
	}
	// Private factorization scratch; a stays untouched per the contract.
	w := make([]float64, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if t == NoTrans {
				w[i+j*n] = a[i+j*lda]
			} else {
				w[i+j*n] = a[j+i*lda]
			}
		}
	}
	piv := make([]int, n)

	// LU factorization with partial pivoting, fixed k→i→j elimination order.
	for k := 0; k < n; k++ {
		p := k
		max := math.Abs(w[k+k*n])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(w[i+k*n]); v > max {
				max, p = v, i
			}
		}
		if max == 0 {
			return ErrSingular
		}
		piv[k] = p
		if p != k {
			for j := 0; j < n; j++ { // swap full rows k and p
				w[k+j*n], w[p+j*n] = w[p+j*n], w[k+j*n]
			}
		}
		pivot := w[k+k*n]
		for i := k + 1; i < n; i++ {
			w[i+k*n] /= pivot
		}
		for j := k + 1; j < n; j++ {
			ukj := w[k+j*n]
			if ukj == 0 {
				continue
			}
			for i := k + 1; i < n; i++ {
				w[i+j*n] -= w[i+k*n] * ukj
			}
		}
	}

	// Substitution per right-hand-side column.
	for c := 0; c < nrhs; c++ {
		col := b[c*ldb:]
		for k := 0; k < n; k++ { // apply row permutation
			if p := piv[k]; p != k {
				col[k], col[p] = col[p], col[k]
			}
		}
		for i := 1; i < n; i++ { // L·y = Pb, L unit lower triangular
			sum := col[i]
			for k := 0; k < i; k++ {
				sum -= w[i+k*n] * col[k]
			}
			col[i] = sum
		}
		for i := n - 1; i >= 0; i-- { // U·x = y
			sum := col[i]
			for k := i + 1; k < n; k++ {
				sum -= w[i+k*n] * col[k]
			}
			col[i] = sum / w[i+i*n]
		}
	}

	return nil
}
