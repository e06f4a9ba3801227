// SPDX-License-Identifier: MIT

// Package blas: kernel contract, transpose flags, and implementation
// registration. This file defines ONLY the contract surface and the
// capability-resolution machinery; numeric code lives in ref.go.
package blas

import "errors"

// Transpose selects whether a kernel reads a matrix operand as stored or
// transposed. Kernels never transpose their destination.
type Transpose bool

const (
	// NoTrans reads the operand as stored (column-major).
	NoTrans Transpose = false
	// Trans reads the operand transposed.
	Trans Transpose = true
)

// Flip returns the opposite flag. Complexity: O(1).
func (t Transpose) Flip() Transpose { return !t }

// ErrSingular is returned by Solve when a zero pivot is encountered after
// partial pivoting. Callers MUST check it via errors.Is.
var ErrSingular = errors.New("blas: singular matrix")

// Implementation is the mandatory kernel set. All matrix operands are
// column-major with an explicit leading dimension; vector operands carry an
// element stride. Contracts:
//
//   - Dimensions are never validated by kernels; inconsistent dimensions or
//     a leading dimension < 1 is undefined behavior. Callers validate.
//   - No kernel allocates; Solve may use internal scratch but must not
//     mutate its matrix operand a.
//   - n == 0 (or m == 0) calls are legal no-ops.
type Implementation interface {
	// Scal computes x[i*inc] *= alpha for i in [0,n).
	// alpha == 0 MUST store zeros rather than multiply, so it is usable as
	// a deterministic zero-fill over uninitialized or non-finite contents.
	Scal(n int, alpha float64, x []float64, inc int)

	// Copy computes y[i*incY] = x[i*incX] for i in [0,n).
	Copy(n int, x []float64, incX int, y []float64, incY int)

	// Axpy computes y[i*incY] += alpha * x[i*incX] for i in [0,n).
	Axpy(n int, alpha float64, x []float64, incX int, y []float64, incY int)

	// Gemm computes c = alpha*op(a)*op(b) + beta*c where op(a) is m×k,
	// op(b) is k×n and c is m×n, all column-major.
	Gemm(m, n, k int, alpha float64, a []float64, lda int, ta Transpose,
		b []float64, ldb int, tb Transpose, beta float64, c []float64, ldc int)

	// Gemv computes y = alpha*op(a)*x + beta*y where a is m×n as stored;
	// op == NoTrans yields a length-m result, op == Trans a length-n one.
	Gemv(t Transpose, m, n int, alpha float64, a []float64, lda int,
		x []float64, incX int, beta float64, y []float64, incY int)

	// Dot returns sum of x[i*incX] * y[i*incY] for i in [0,n).
	Dot(n int, x []float64, incX int, y []float64, incY int) float64

	// Solve overwrites b (n×nrhs, column-major, contiguous columns) with the
	// solution of op(a)·X = b, where a is n×n. a is read-only for the call.
	// Returns ErrSingular when op(a) has no usable pivot.
	Solve(t Transpose, n, nrhs int, a []float64, lda int, b []float64, ldb int) error
}

// RectCopier is an optional capability: a specialized rectangular strided
// copy. dst (m×n, leading ldd) = op(src); src is m×n with leading lds when
// t == NoTrans, n×m when t == Trans.
type RectCopier interface {
	GeCopy(m, n int, src []float64, lds int, t Transpose, dst []float64, ldd int)
}

// RectAccumulator is an optional capability: rectangular strided accumulate,
// dst += alpha*op(src), with the same layout rules as RectCopier.
type RectAccumulator interface {
	GeAxpy(m, n int, alpha float64, src []float64, lds int, t Transpose, dst []float64, ldd int)
}

// kernels is the capability table resolved once per Use call. Optional
// kernels either point at the implementation's specialized method or at a
// generic composition over the mandatory 1-D primitives. Resolving here
// keeps the per-call dispatch a plain function call (no type assertions in
// hot paths).
type kernels struct {
	impl   Implementation
	geCopy func(m, n int, src []float64, lds int, t Transpose, dst []float64, ldd int)
	geAxpy func(m, n int, alpha float64, src []float64, lds int, t Transpose, dst []float64, ldd int)
}

// active holds the registered kernel table. Registration is expected at
// program setup; swapping implementations mid-evaluation is not supported.
var active kernels

func init() { Use(Reference{}) }

// Use registers impl as the active implementation and resolves the
// capability table: the most specific available kernel wins, otherwise a
// generic fallback composed from the mandatory primitives is installed.
// Panics on a nil implementation (programmer error).
func Use(impl Implementation) {
	if impl == nil {
		panic("blas: Use(nil Implementation)")
	}
	k := kernels{impl: impl}

	// Rectangular copy: specialized kernel or column-by-column 1-D Copy.
	if rc, ok := impl.(RectCopier); ok {
		k.geCopy = rc.GeCopy
	} else {
		k.geCopy = func(m, n int, src []float64, lds int, t Transpose, dst []float64, ldd int) {
			for j := 0; j < n; j++ { // fixed column order for determinism
				if t == NoTrans {
					impl.Copy(m, src[j*lds:], 1, dst[j*ldd:], 1)
				} else {
					// Column j of dst is row j of src, read with stride lds.
					impl.Copy(m, src[j:], lds, dst[j*ldd:], 1)
				}
			}
		}
	}

	// Rectangular accumulate: specialized kernel or column-by-column Axpy.
	if ra, ok := impl.(RectAccumulator); ok {
		k.geAxpy = ra.GeAxpy
	} else {
		k.geAxpy = func(m, n int, alpha float64, src []float64, lds int, t Transpose, dst []float64, ldd int) {
			for j := 0; j < n; j++ {
				if t == NoTrans {
					impl.Axpy(m, alpha, src[j*lds:], 1, dst[j*ldd:], 1)
				} else {
					impl.Axpy(m, alpha, src[j:], lds, dst[j*ldd:], 1)
				}
			}
		}
	}

	active = k
}

// Current returns the registered implementation (useful for save/restore in
// tests that install counting doubles).
func Current() Implementation { return active.impl }

// ---------- package-level kernel facade ----------
//
// Thin wrappers over the resolved table so callers never touch the table
// directly. Each delegates without any extra logic: facades compose,
// kernels compute.

// Scal delegates to the active implementation.
func Scal(n int, alpha float64, x []float64, inc int) { active.impl.Scal(n, alpha, x, inc) }

// Copy delegates to the active implementation.
func Copy(n int, x []float64, incX int, y []float64, incY int) {
	active.impl.Copy(n, x, incX, y, incY)
}

// Axpy delegates to the active implementation.
func Axpy(n int, alpha float64, x []float64, incX int, y []float64, incY int) {
	active.impl.Axpy(n, alpha, x, incX, y, incY)
}

// GeCopy performs dst = op(src) through the resolved rectangular-copy kernel.
func GeCopy(m, n int, src []float64, lds int, t Transpose, dst []float64, ldd int) {
	active.geCopy(m, n, src, lds, t, dst, ldd)
}

// GeAxpy performs dst += alpha*op(src) through the resolved kernel.
func GeAxpy(m, n int, alpha float64, src []float64, lds int, t Transpose, dst []float64, ldd int) {
	active.geAxpy(m, n, alpha, src, lds, t, dst, ldd)
}

// Gemm delegates to the active implementation.
func Gemm(m, n, k int, alpha float64, a []float64, lda int, ta Transpose,
	b []float64, ldb int, tb Transpose, beta float64, c []float64, ldc int) {
	active.impl.Gemm(m, n, k, alpha, a, lda, ta, b, ldb, tb, beta, c, ldc)
}

// Gemv delegates to the active implementation.
func Gemv(t Transpose, m, n int, alpha float64, a []float64, lda int,
	x []float64, incX int, beta float64, y []float64, incY int) {
	active.impl.Gemv(t, m, n, alpha, a, lda, x, incX, beta, y, incY)
}

// Dot delegates to the active implementation.
func Dot(n int, x []float64, incX int, y []float64, incY int) float64 {
	return active.impl.Dot(n, x, incX, y, incY)
}

// Solve delegates to the active implementation.
func Solve(t Transpose, n, nrhs int, a []float64, lda int, b []float64, ldb int) error {
	return active.impl.Solve(t, n, nrhs, a, lda, b, ldb)
}
