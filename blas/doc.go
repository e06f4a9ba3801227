// Package blas defines the numeric kernel contract consumed by the storage
// and evaluation layers, plus a naive pure-Go reference implementation.
//
// The blas package provides:
//
//   - The Implementation interface: the mandatory kernel set (Scal, Copy,
//     Axpy, Gemm, Gemv, Dot, Solve) with classical column-major semantics
//     and explicit leading dimensions.
//   - Optional capability interfaces (RectCopier, RectAccumulator) for
//     implementations that ship specialized rectangular strided kernels.
//   - Use / Current registration: the active implementation is probed once
//     at registration time and missing optional kernels are composed from
//     the mandatory one-dimensional primitives.
//
// Kernels never validate shapes; callers (the matrix package) must present
// consistent dimensions and leading dimensions >= 1 even for empty operands.
//
// The Reference implementation favors clarity and determinism over speed.
// Production callers are expected to register an optimized implementation.
package blas
