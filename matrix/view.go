// SPDX-License-Identifier: MIT

// Package matrix - no-copy sub-views.
//
// View windows share the parent buffer and only offset the base pointer,
// which is what makes slicing O(1). The unshare algorithm in storage.go is
// written to handle the resulting "offset, partial-length, possibly
// strided" ownership cases.
package matrix

import "fmt"

// View returns the nr×nc sub-view of d anchored at (r0, c0). The view
// shares the backing buffer (refcount +1) and inherits the parent leading
// dimension, so it is generally strided (leading > minor). Mutating either
// side afterwards detaches a private copy first; reads alias freely.
// A zero-extent window yields the empty state.
// Errors: ErrOutOfRange when the window exceeds the parent extents,
// ErrInvalidDimensions on negative extents.
// Complexity: O(1).
func (d *Dense) View(r0, c0, nr, nc int) (*Dense, error) {
	if nr < 0 || nc < 0 {
		return nil, fmt.Errorf("Dense.%s(%d,%d,%d,%d): %w", ctxView, r0, c0, nr, nc, ErrInvalidDimensions)
	}
	if r0 < 0 || c0 < 0 || r0+nr > d.rows || c0+nc > d.cols {
		return nil, fmt.Errorf("Dense.%s(%d,%d,%d,%d): %w", ctxView, r0, c0, nr, nc, ErrOutOfRange)
	}
	if nr*nc == 0 {
		return &Dense{rows: nr, cols: nc, leading: 1, order: d.order}, nil
	}
	return &Dense{
		rows:    nr,
		cols:    nc,
		leading: d.leading,
		off:     d.off + d.index(r0, c0),
		buf:     d.buf.retain(),
		order:   d.order,
	}, nil
}
