// SPDX-License-Identifier: MIT

// Package matrix - call-scoped temporary arena.
//
// Sub-expressions that cannot fuse are materialized into temporaries whose
// lifetime is scoped to the evaluation call that created them: strict stack
// discipline, last-allocated-first-released, enforced structurally by the
// evaluator (temporaries never leave the function that acquired them).
//
// The slab is recycled through a sync.Pool across evaluation calls, so
// steady-state evaluation of small expressions allocates nothing. Requests
// beyond the slab fall through to the runtime allocator but keep the same
// scoping semantics.
package matrix

import "sync"

// arenaSlabLen is the pooled slab size in elements. Large enough for the
// temporaries of typical small-matrix expressions; oversize requests are
// served individually.
const arenaSlabLen = 4096

// arena is a bump allocator over a reusable slab.
type arena struct {
	slab []float64
	off  int
}

var arenaPool = sync.Pool{
	New: func() any { return &arena{slab: make([]float64, arenaSlabLen)} },
}

// getArena acquires a reset arena from the pool. Pair with putArena at the
// evaluation entry point (defer), which releases every temporary at once.
func getArena() *arena {
	a := arenaPool.Get().(*arena)
	a.off = 0
	return a
}

// putArena returns the arena (and thereby all its temporaries) to the pool.
func putArena(a *arena) {
	a.off = 0
	arenaPool.Put(a)
}

// alloc reserves n elements. Slab space is bump-allocated with a full slice
// cap so neighbors cannot be overgrown into; oversize requests get their
// own allocation, still owned by the enclosing call scope.
func (a *arena) alloc(n int) []float64 {
	if n > len(a.slab)-a.off {
		return make([]float64, n)
	}
	s := a.slab[a.off : a.off+n : a.off+n]
	a.off += n
	return s
}

// temp builds an uninitialized rows×cols working storage backed by the
// arena. The pseudo-buffer starts exclusive (refs 1) so every Dense code
// path works on it; it must not escape the evaluator call that created it.
func (a *arena) temp(rows, cols int, order Order) *Dense {
	d := &Dense{rows: rows, cols: cols, leading: 1, order: order}
	n := rows * cols
	if n == 0 {
		return d
	}
	d.buf = &buffer{data: a.alloc(n), refs: 1}
	d.leading = d.minorDim()
	return d
}
