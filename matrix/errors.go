// SPDX-License-Identifier: MIT

// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the
// matrix package. Operations MUST return these sentinels and tests MUST
// check them via errors.Is. No operation panics on user-triggered error
// conditions; panics are reserved for programmer errors (closure misuse in
// expression construction, nil receivers in constructors).
package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and easy
// grepping across logs. DO NOT %w wrap these sentinels when returning
// directly; if context is essential, wrap with fmt.Errorf("ctx: %w", ErrX)
// at the outer boundary — callers still match via errors.Is.

var (
	// ErrInvalidDimensions indicates that requested extents are negative.
	// Zero extents are legal and denote the empty state.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be non-negative")

	// ErrOutOfRange indicates a row/column index or sub-view window outside
	// valid bounds. Public indexers (At/Set/Apply/View) MUST return this,
	// not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrIndivisible is returned by FromFlat when the element count is not
	// evenly divisible by the major extent (or the major extent is zero
	// while elements are present).
	ErrIndivisible = errors.New("matrix: flat literal length not divisible by major extent")

	// ErrRagged is returned by FromNested when rows differ in length.
	ErrRagged = errors.New("matrix: ragged nested literal")

	// ErrEmptyStorage is returned by PopFront/PopBack on an empty storage.
	ErrEmptyStorage = errors.New("matrix: storage is empty")

	// ErrDimensionMismatch indicates incompatible operand extents detected
	// during evaluation (addition of unequal shapes, inner-dimension
	// mismatch of a product, wrong right-hand-side length of a solve).
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a solve required a square matrix operand.
	ErrNonSquare = errors.New("matrix: matrix is not square")
)
