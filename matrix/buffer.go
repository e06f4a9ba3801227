// SPDX-License-Identifier: MIT

// Package matrix - reference-counted backing memory.
//
// buffer is the opaque shared-buffer capability behind Dense: a contiguous
// float64 allocation plus an explicit reference count. The count tracks the
// number of attached Dense views, not Go reachability: a view increments on
// attach (Clone, View, TransView) and decrements on detach (unshare,
// reallocation, pop-to-empty). Invariant: a Dense with no allocation
// reports refcount 0.
//
// Counting is NOT synchronized; the container is single-owner-thread by
// design (see package doc).
package matrix

// buffer owns a heap allocation of elements shared by one or more views.
type buffer struct {
	data []float64 // contiguous element storage
	refs int       // number of attached views; >= 1 while allocated
}

// newBuffer allocates n elements with a single owner. Contents are whatever
// the runtime provides (zeros); deterministic zero-fill is the caller's
// business so the write pattern stays in kernel land.
func newBuffer(n int) *buffer {
	return &buffer{data: make([]float64, n), refs: 1}
}

// newBufferFrom allocates a private copy of src with a single owner.
func newBufferFrom(src []float64) *buffer {
	b := &buffer{data: make([]float64, len(src)), refs: 1}
	copy(b.data, src)
	return b
}

// retain attaches one more view. nil-safe so empty storages share code paths.
func (b *buffer) retain() *buffer {
	if b != nil {
		b.refs++
	}
	return b
}

// release detaches a view. Memory itself is reclaimed by the runtime once
// unreachable; release only maintains the sharing count.
func (b *buffer) release() {
	if b != nil {
		b.refs--
	}
}

// shared reports whether more than one view is attached. The boundary is
// "refs < 2 means exclusive", so an unallocated buffer (refs 0) never
// triggers copying.
func (b *buffer) shared() bool {
	return b != nil && b.refs >= 2
}
