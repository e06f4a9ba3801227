// Package scid is a dense linear-algebra toolkit built around two ideas:
// copy-on-write storage and lazy expression evaluation.
//
// 🚀 What is scid?
//
//	A pure-Go library that brings together:
//		• Dense storage: row- or column-major matrices over reference-counted
//		  buffers — copies, transposed views and sub-views are O(1) shares,
//		  and any write detaches a private copy first
//		• Expressions: immutable trees over scalars, vectors and matrices;
//		  building A + 2·B·C does no arithmetic at all
//		• Evaluation: a rewriting engine that folds scalars, collapses
//		  transposes, turns inverse markers into linear-system solves, and
//		  lowers whole chains into single fused kernel calls
//		• Kernels: a pluggable column-major backend contract with a naive
//		  reference implementation; register an optimized one with blas.Use
//
// ✨ Why choose scid?
//
//   - Aliasing you can reason about – sharing is free, mutation is isolated
//   - Deterministic numerics – fixed loop orders, left-to-right summation
//   - Pure Go – no cgo, no hidden deps
//   - Extensible – swap the whole kernel set behind one interface
//
// Everything is organized under two subpackages:
//
//	blas/   — kernel contract, registration, reference implementation
//	matrix/ — Dense storage, Expr trees, Eval/Assign/Accumulate
//
// Quick taste:
//
//	a, _ := matrix.FromNested([][]float64{{1, 2}, {3, 4}})
//	b := a.Clone()                       // O(1), copy-on-write
//	x, _ := matrix.Eval(matrix.Mul(matrix.Inv(matrix.Term(a)), matrix.Term(b)))
//
// Dive into the package docs for the evaluation rules and the sharing
// discipline.
//
//	go get github.com/Laeeth/scid
package scid
