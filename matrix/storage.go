// SPDX-License-Identifier: MIT

// Package matrix - Dense copy-on-write storage & safe accessors.
//
// Purpose:
//   - Provide a row- or column-major buffer with an explicit leading
//     dimension distinct from the logical minor extent, so sub-views slice
//     without copying.
//   - Guarantee safety at the public surface: At/Set/Apply return errors
//     instead of panicking.
//   - Enforce the copy-on-write discipline: every path handing out writable
//     memory first establishes exclusive buffer ownership (unshare).
//
// Invariants:
//   - leading >= minor extent; leading >= 1 even for empty storage (kernels
//     require a nonzero stride).
//   - buf == nil iff Len() == 0 (the empty state); RefCount() == 0 iff empty.
//
// Complexity quicksheet:
//   - NewDense: O(r*c); Clone/TransView/View: O(1); At/Set: O(1) (+unshare
//     copy on first write after sharing); Resize: O(n) when zero-filling;
//     PopFront/PopBack: O(1).
package matrix

import (
	"fmt"

	"github.com/Laeeth/scid/blas"
)

// ---------- error context tags ----------

const (
	ctxAt      = "At"
	ctxSet     = "Set"
	ctxApply   = "Apply"
	ctxView    = "View"
	ctxResize  = "Resize"
	ctxPopFrnt = "PopFront"
	ctxPopBack = "PopBack"
)

// denseErrorf wraps a sentinel with a uniform Dense context and callsite
// indices for diagnostics. Keep method tags in constants for grep-ability.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a copy-on-write 2-D container over a shared buffer.
//   - rows, cols are the logical extents.
//   - leading is the physical stride between consecutive minor runs; it may
//     exceed the minor extent when this storage is a sub-view.
//   - off is the buffer offset of element (0,0) — the base pointer.
//   - buf is the shared backing memory (nil when empty).
type Dense struct {
	rows, cols int
	leading    int
	off        int
	buf        *buffer
	order      Order
}

// NewDense creates a rows×cols storage. Zero extents yield the legal empty
// state. Fresh contents are zero-filled through the scale-by-zero kernel
// unless WithUninitialized() is given; WithOrder selects the layout.
// Errors: ErrInvalidDimensions on negative extents.
// Complexity: O(rows*cols) when zero-filling, O(1) allocation otherwise.
func NewDense(rows, cols int, opts ...Option) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}
	cfg := gatherOptions(opts)
	d := &Dense{rows: rows, cols: cols, leading: 1, order: cfg.order}
	n := rows * cols
	if n == 0 {
		return d, nil // empty state: nil buffer, leading 1
	}
	d.buf = newBuffer(n)
	d.leading = d.minorDim()
	if cfg.zeroed {
		blas.Scal(n, 0, d.buf.data, 1)
	}
	return d, nil
}

// FromFlat builds a storage from consecutive major subvectors: columns for
// ColMajor (the default), rows for RowMajor. The minor extent is derived by
// division; the element count must divide evenly by major.
// Errors: ErrInvalidDimensions (major < 0), ErrIndivisible (major == 0 with
// elements present, or a nonzero remainder).
// Complexity: O(len(elems)).
func FromFlat(major int, elems []float64, opts ...Option) (*Dense, error) {
	if major < 0 {
		return nil, ErrInvalidDimensions
	}
	cfg := gatherOptions(opts)
	if len(elems) == 0 {
		d := &Dense{leading: 1, order: cfg.order}
		d.setMajorMinor(major, 0)
		return d, nil
	}
	if major == 0 || len(elems)%major != 0 {
		return nil, fmt.Errorf("FromFlat(%d, %d elements): %w", major, len(elems), ErrIndivisible)
	}
	minor := len(elems) / major
	d := &Dense{buf: newBufferFrom(elems), leading: minor, order: cfg.order}
	d.setMajorMinor(major, minor)
	return d, nil
}

// FromNested builds a storage from a rectangular 2-D literal, copying
// element by element. Every row must match the first row's length.
// Errors: ErrRagged on a jagged input.
// Complexity: O(rows*cols).
func FromNested(rows2D [][]float64, opts ...Option) (*Dense, error) {
	cfg := gatherOptions(opts)
	rows := len(rows2D)
	cols := 0
	if rows > 0 {
		cols = len(rows2D[0])
	}
	for i := 1; i < rows; i++ {
		if len(rows2D[i]) != cols {
			return nil, fmt.Errorf("FromNested(row %d has %d elements, want %d): %w",
				i, len(rows2D[i]), cols, ErrRagged)
		}
	}
	d := &Dense{rows: rows, cols: cols, leading: 1, order: cfg.order}
	if rows*cols == 0 {
		return d, nil
	}
	d.buf = newBuffer(rows * cols)
	d.leading = d.minorDim()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d.buf.data[d.index(i, j)] = rows2D[i][j]
		}
	}
	return d, nil
}

// Clone is lightweight copy-construction: it shares the buffer and bumps
// the reference count. Logical independence is guaranteed by the
// unshare-on-write discipline, so the clone behaves like a deep copy to any
// observer. Complexity: O(1).
func (d *Dense) Clone() *Dense {
	c := *d
	c.buf = d.buf.retain()
	return &c
}

// TransView is the transposed-type counterpart constructor: an O(1) view of
// the transpose, sharing the buffer with swapped extents and flipped layout.
// A column-major matrix seen through TransView is the same memory read as a
// row-major matrix, and vice versa.
func (d *Dense) TransView() *Dense {
	return &Dense{
		rows:    d.cols,
		cols:    d.rows,
		leading: d.leading,
		off:     d.off,
		buf:     d.buf.retain(),
		order:   d.order.flipped(),
	}
}

// Rows returns the logical row count. Complexity: O(1).
func (d *Dense) Rows() int { return d.rows }

// Cols returns the logical column count. Complexity: O(1).
func (d *Dense) Cols() int { return d.cols }

// Len returns the logical element count rows*cols. Complexity: O(1).
func (d *Dense) Len() int { return d.rows * d.cols }

// Leading returns the physical stride between consecutive minor runs.
func (d *Dense) Leading() int { return d.leading }

// Order returns the physical layout tag.
func (d *Dense) Order() Order { return d.order }

// RefCount returns the number of views attached to the backing buffer;
// 0 iff the storage is empty/unallocated.
func (d *Dense) RefCount() int {
	if d.buf == nil {
		return 0
	}
	return d.buf.refs
}

// majorDim returns cols for ColMajor, rows for RowMajor.
func (d *Dense) majorDim() int {
	if d.order == RowMajor {
		return d.rows
	}
	return d.cols
}

// minorDim returns the extent orthogonal to majorDim.
func (d *Dense) minorDim() int {
	if d.order == RowMajor {
		return d.cols
	}
	return d.rows
}

// setMajorMinor assigns logical extents from a (major, minor) pair.
func (d *Dense) setMajorMinor(major, minor int) {
	if d.order == RowMajor {
		d.rows, d.cols = major, minor
	} else {
		d.rows, d.cols = minor, major
	}
}

// index maps (i, j) to a buffer offset relative to off.
// RowMajor: i*leading+j; ColMajor: j*leading+i.
func (d *Dense) index(i, j int) int {
	if d.order == RowMajor {
		return i*d.leading + j
	}
	return j*d.leading + i
}

// span is the number of buffer elements covered by this view:
// (major-1)*leading + minor, or 0 when empty.
func (d *Dense) span() int {
	if d.Len() == 0 {
		return 0
	}
	return (d.majorDim()-1)*d.leading + d.minorDim()
}

// checkIndex validates 0 <= i < rows and 0 <= j < cols.
func (d *Dense) checkIndex(method string, i, j int) error {
	if i < 0 || i >= d.rows || j < 0 || j >= d.cols {
		return denseErrorf(method, i, j, ErrOutOfRange)
	}
	return nil
}

// At retrieves the element at (i, j) without affecting sharing.
// Errors: ErrOutOfRange. Complexity: O(1).
func (d *Dense) At(i, j int) (float64, error) {
	if err := d.checkIndex(ctxAt, i, j); err != nil {
		return 0, err
	}
	return d.buf.data[d.off+d.index(i, j)], nil
}

// Set assigns v at (i, j). The write path unshares first, so aliases keep
// their prior contents. Errors: ErrOutOfRange.
// Complexity: O(1) amortized; first write after sharing copies O(rows*cols).
func (d *Dense) Set(i, j int, v float64) error {
	if err := d.checkIndex(ctxSet, i, j); err != nil {
		return err
	}
	d.unshare()
	d.buf.data[d.off+d.index(i, j)] = v
	return nil
}

// Apply replaces the element at (i, j) with fn(old) — the compound-assign
// accessor. Unshares before writing. Errors: ErrOutOfRange.
func (d *Dense) Apply(i, j int, fn func(float64) float64) error {
	if err := d.checkIndex(ctxApply, i, j); err != nil {
		return err
	}
	d.unshare()
	p := &d.buf.data[d.off+d.index(i, j)]
	*p = fn(*p)
	return nil
}

// Data returns the backing elements from the base pointer through the end
// of the view's span, WITHOUT unsharing. Treat the slice as read-only;
// writing through it would corrupt aliases.
func (d *Dense) Data() []float64 {
	if d.buf == nil {
		return nil
	}
	return d.buf.data[d.off : d.off+d.span()]
}

// DataMutable unshares and then returns the same window as Data. The slice
// is exclusively owned until this storage is shared again.
func (d *Dense) DataMutable() []float64 {
	d.unshare()
	return d.Data()
}

// unshare establishes exclusive ownership of the backing buffer before a
// mutation. The refs < 2 boundary (not == 1) keeps the empty state, which
// has refcount 0, from ever triggering a copy.
//
// Three cases, most specific first:
//  1. contiguous view spanning the whole buffer: wholesale private
//     duplicate, a single flat copy with no re-striding;
//  2. contiguous strict sub-range: copy exactly that range into a buffer of
//     its own size;
//  3. strided sub-view (leading > minor): rectangular copy into a fresh
//     rows×cols buffer with leading reset to the minor extent.
//
// Afterwards the base offset is 0 and prior aliases are unaffected.
func (d *Dense) unshare() {
	if d.buf == nil || d.buf.refs < 2 {
		return // already exclusive
	}
	minor := d.minorDim()
	span := d.span()
	switch {
	case d.leading == minor && d.off == 0 && span == len(d.buf.data):
		nb := newBufferFrom(d.buf.data)
		d.buf.release()
		d.buf = nb
	case d.leading == minor:
		nb := newBufferFrom(d.buf.data[d.off : d.off+span])
		d.buf.release()
		d.buf = nb
		d.off = 0
	default:
		nb := newBuffer(d.Len())
		blas.GeCopy(minor, d.majorDim(), d.buf.data[d.off:], d.leading, blas.NoTrans, nb.data, minor)
		d.buf.release()
		d.buf = nb
		d.off = 0
		d.leading = minor
	}
}

// Resize reshapes to rows×cols and zero-fills the contents. A fresh buffer
// is allocated when the element count differs from the current buffer
// length OR the buffer is shared (resizing shared memory in place would
// corrupt aliased views); otherwise the buffer is reused with the base
// offset and leading reset. Shrinking to zero elements clears to the empty
// state. Errors: ErrInvalidDimensions.
func (d *Dense) Resize(rows, cols int) error {
	return d.resize(rows, cols, true)
}

// ResizeDiscard is Resize without the zero-fill: contents are undefined
// until written. Intended for destinations about to be overwritten in full.
func (d *Dense) ResizeDiscard(rows, cols int) error {
	return d.resize(rows, cols, false)
}

func (d *Dense) resize(rows, cols int, zeroed bool) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("Dense.%s(%d,%d): %w", ctxResize, rows, cols, ErrInvalidDimensions)
	}
	n := rows * cols
	d.rows, d.cols = rows, cols
	if n == 0 {
		d.buf.release()
		d.buf = nil
		d.off = 0
		d.leading = 1
		return nil
	}
	if d.buf == nil || d.buf.shared() || len(d.buf.data) != n {
		d.buf.release()
		d.buf = newBuffer(n)
	}
	d.off = 0
	d.leading = d.minorDim()
	if zeroed {
		blas.Scal(n, 0, d.buf.data, 1)
	}
	return nil
}

// PopFront removes the first major subvector (the first column for
// ColMajor, the first row for RowMajor) by advancing the base pointer.
// Reaching a zero major count yields the empty state.
// Errors: ErrEmptyStorage. Complexity: O(1).
func (d *Dense) PopFront() error {
	return d.pop(ctxPopFrnt, true)
}

// PopBack removes the last major subvector by shrinking the major count.
// Errors: ErrEmptyStorage. Complexity: O(1).
func (d *Dense) PopBack() error {
	return d.pop(ctxPopBack, false)
}

func (d *Dense) pop(method string, front bool) error {
	if d.buf == nil {
		return fmt.Errorf("Dense.%s: %w", method, ErrEmptyStorage)
	}
	major := d.majorDim() - 1
	if front {
		d.off += d.leading
	}
	if major == 0 {
		d.buf.release()
		d.buf = nil
		d.off = 0
		d.leading = 1
	}
	d.setMajorMinor(major, d.minorDim())
	return nil
}

// String implements fmt.Stringer for debugging: logical rows in reading
// order regardless of layout.
func (d *Dense) String() string {
	s := ""
	for i := 0; i < d.rows; i++ {
		s += "["
		for j := 0; j < d.cols; j++ {
			if j > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%g", d.buf.data[d.off+d.index(i, j)])
		}
		s += "]\n"
	}
	return s
}
