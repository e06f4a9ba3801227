// SPDX-License-Identifier: MIT

// Package matrix: domain tags shared by storage and expressions.
// This file intentionally contains ONLY domain-facing enumerations; errors
// and options live in dedicated files (errors.go, options.go) per the
// package conventions.
package matrix

// Order selects the physical element layout of a Dense storage.
// The major dimension is the one whose subvectors lie consecutively in the
// buffer: columns for ColMajor, rows for RowMajor. PopFront/PopBack remove
// whole major subvectors.
type Order uint8

const (
	// ColMajor stores column-by-column; index formula j*leading+i.
	ColMajor Order = iota
	// RowMajor stores row-by-row; index formula i*leading+j.
	RowMajor
)

// String implements fmt.Stringer for diagnostics.
func (o Order) String() string {
	if o == RowMajor {
		return "RowMajor"
	}
	return "ColMajor"
}

// flipped returns the opposite layout tag. Complexity: O(1).
func (o Order) flipped() Order {
	if o == ColMajor {
		return RowMajor
	}
	return ColMajor
}

// Closure classifies the operand shape of an expression. Operators validate
// closure compatibility at construction time; an incompatible combination is
// a programmer error and panics.
type Closure uint8

const (
	// ClosureScalar is a single value (literals, dot products, scalar ops).
	ClosureScalar Closure = iota
	// ClosureRowVector is a 1×n operand.
	ClosureRowVector
	// ClosureColVector is an n×1 operand.
	ClosureColVector
	// ClosureMatrix is a general 2-D operand.
	ClosureMatrix
)

// String implements fmt.Stringer for panic/diagnostic messages.
func (c Closure) String() string {
	switch c {
	case ClosureScalar:
		return "Scalar"
	case ClosureRowVector:
		return "RowVector"
	case ClosureColVector:
		return "ColVector"
	default:
		return "Matrix"
	}
}

// isVector reports whether the closure is one of the vector shapes.
func (c Closure) isVector() bool {
	return c == ClosureRowVector || c == ClosureColVector
}
