// Package matrix provides copy-on-write dense storage and a lazy
// expression evaluator that lowers chained arithmetic into fused calls to
// the registered blas kernel set.
//
// The matrix package provides:
//
//   - Dense: a row- or column-major container over reference-counted
//     backing memory. Copies and sub-views are O(1) buffer shares; any
//     writing accessor first establishes exclusive ownership (unshare), so
//     aliases are never observably mutated through each other.
//   - Expr: an immutable expression tree over scalars, vectors and
//     matrices. Building an expression performs no numeric work.
//   - Eval / EvalScalar / Assign / Accumulate: the evaluation entry points.
//     The evaluator rewrites the tree (folding scalar factors, collapsing
//     transposes, turning inverse markers into linear-system solves) and
//     dispatches to the most specific fused kernel available, materializing
//     call-scoped temporaries only for sub-expressions that cannot fuse.
//
// Evaluation is single-threaded and synchronous. Reference counting on the
// shared buffers is not synchronized across goroutines; share a Dense
// between goroutines only under external locking.
//
// The destination of Assign/Accumulate must not alias operand storage of a
// product, dot or solve sub-expression; additive and scaling leaves tolerate
// aliasing through the copy-on-write discipline.
//
// Addition chains evaluate strictly left to right and commit the left
// operand into the destination before the right operand is accumulated.
// This makes floating-point summation order deterministic, and means a
// failing right operand leaves the left contribution in place.
package matrix
