// Package matrix_test contains unit tests for the Dense copy-on-write
// storage: construction, indexing, sharing, resizing and popping.
package matrix_test

import (
	"testing"

	"github.com/Laeeth/scid/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseNegativeDimensions ensures negative extents are rejected.
func TestNewDenseNegativeDimensions(t *testing.T) {
	_, err := matrix.NewDense(-1, 5)                      // negative rows
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)  // expect sentinel
	_, err = matrix.NewDense(5, -1)                       // negative cols
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestNewDenseZeroExtentsIsEmptyState verifies the legal empty state:
// nil-equivalent buffer (refcount 0) and the minimum leading dimension 1.
func TestNewDenseZeroExtentsIsEmptyState(t *testing.T) {
	m, err := matrix.NewDense(0, 7)
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())      // no elements
	require.Equal(t, 0, m.RefCount()) // refcount 0 iff unallocated
	require.Equal(t, 1, m.Leading())  // kernels require leading >= 1
}

// TestNewDenseZeroFilled verifies fresh storage reads as zeros by default.
func TestNewDenseZeroFilled(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v, err := m.At(i, j)
			require.NoError(t, err)
			require.Zero(t, v)
		}
	}
}

// TestNestedConstructionAndIndexing: 2×3 column-major storage from
// [[1,2,3],[4,5,6]]; element (1,2) must be 6.
func TestNestedConstructionAndIndexing(t *testing.T) {
	m, err := matrix.FromNested([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.Equal(t, matrix.ColMajor, m.Order())

	v, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 6.0, v)
}

// TestFromNestedRagged ensures jagged literals are rejected with no partial
// construction.
func TestFromNestedRagged(t *testing.T) {
	_, err := matrix.FromNested([][]float64{{1, 2, 3}, {4, 5}})
	require.ErrorIs(t, err, matrix.ErrRagged)
}

// TestFromFlat covers the divisibility contract of the flat constructor.
func TestFromFlat(t *testing.T) {
	// 2 major columns of 3 elements each (column-major default).
	m, err := matrix.FromFlat(2, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	require.Equal(t, 3, m.Rows()) // minor derived by division
	require.Equal(t, 2, m.Cols())
	v, err := m.At(0, 1) // second column starts at element 4
	require.NoError(t, err)
	require.Equal(t, 4.0, v)

	// Indivisible length.
	_, err = matrix.FromFlat(4, []float64{1, 2, 3, 4, 5, 6})
	require.ErrorIs(t, err, matrix.ErrIndivisible)

	// Zero major extent with elements present.
	_, err = matrix.FromFlat(0, []float64{1})
	require.ErrorIs(t, err, matrix.ErrIndivisible)

	// Zero major extent with no elements: legal empty state.
	e, err := matrix.FromFlat(0, nil)
	require.NoError(t, err)
	require.Equal(t, 0, e.Len())

	// Negative major extent.
	_, err = matrix.FromFlat(-1, []float64{1})
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestFromFlatRowMajor checks the row-major interpretation of major runs.
func TestFromFlatRowMajor(t *testing.T) {
	m, err := matrix.FromFlat(2, []float64{1, 2, 3, 4, 5, 6}, matrix.WithOrder(matrix.RowMajor))
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows()) // major = rows for row-major
	require.Equal(t, 3, m.Cols())
	v, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 6.0, v)
}

// TestAtSetOutOfBounds ensures indexers return ErrOutOfRange, never panic.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Apply(0, -1, func(v float64) float64 { return v }), matrix.ErrOutOfRange)
}

// TestApplyCompoundAssign verifies the read-modify-write accessor.
func TestApplyCompoundAssign(t *testing.T) {
	m, err := matrix.FromNested([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	require.NoError(t, m.Apply(1, 0, func(v float64) float64 { return v + 10 }))
	v, err := m.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 13.0, v)
}

// TestCopyOnWriteIsolation: mutating a clone never changes the original,
// and vice versa, through every writing accessor.
func TestCopyOnWriteIsolation(t *testing.T) {
	a, err := matrix.FromNested([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	b := a.Clone()
	require.Equal(t, 2, a.RefCount()) // one buffer, two views

	require.NoError(t, b.Set(0, 0, 99)) // write detaches b
	va, err := a.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, va) // a unaffected
	vb, err := b.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 99.0, vb)
	require.Equal(t, 1, a.RefCount()) // detach dropped the share
	require.Equal(t, 1, b.RefCount())

	// And the other direction, through DataMutable.
	c := a.Clone()
	a.DataMutable()[0] = -5
	vc, err := c.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, vc)
}

// TestUnshareIdempotence: a second mutable access without intervening
// aliasing must not re-copy (the boundary is refcount < 2, not != 1).
func TestUnshareIdempotence(t *testing.T) {
	a, err := matrix.FromNested([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	b := a.Clone()

	d1 := b.DataMutable() // first mutable access detaches
	d2 := b.DataMutable() // second must reuse the private buffer
	require.True(t, &d1[0] == &d2[0], "second DataMutable must not re-copy")
}

// TestDataReadonlyDoesNotUnshare verifies Data keeps the share intact.
func TestDataReadonlyDoesNotUnshare(t *testing.T) {
	a, err := matrix.FromNested([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	b := a.Clone()
	_ = b.Data()
	require.Equal(t, 2, a.RefCount()) // still shared
}

// TestResizeSemantics: same element count on an exclusive storage reuses
// the buffer (pointer identity); a shared storage always reallocates.
func TestResizeSemantics(t *testing.T) {
	m, err := matrix.FromFlat(3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	before := m.Data()

	require.NoError(t, m.Resize(3, 2)) // 6 elements, exclusive: reuse
	after := m.Data()
	require.True(t, &before[0] == &after[0], "same-count exclusive resize must not reallocate")

	// Resize zero-fills deterministically.
	v, err := m.At(2, 1)
	require.NoError(t, err)
	require.Zero(t, v)

	alias := m.Clone()
	aliasData := alias.Data()
	require.NoError(t, m.Resize(3, 2)) // shared: must reallocate
	require.False(t, &aliasData[0] == &m.Data()[0], "shared resize must reallocate")
	require.Equal(t, 1, alias.RefCount()) // alias left sole owner of old buffer

	// Shrink to zero clears to the empty state.
	require.NoError(t, m.Resize(0, 5))
	require.Equal(t, 0, m.Len())
	require.Equal(t, 0, m.RefCount())
	require.Equal(t, 1, m.Leading())
}

// TestPopFrontScenario: a 1×3 column-major storage [1,2,3] has three major
// (column) subvectors; two PopFront calls leave length 1 with element 3.
func TestPopFrontScenario(t *testing.T) {
	m, err := matrix.FromFlat(3, []float64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 1, m.Rows())
	require.Equal(t, 3, m.Cols())

	require.NoError(t, m.PopFront())
	require.NoError(t, m.PopFront())
	require.Equal(t, 1, m.Len())

	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)

	// Popping the last major subvector reaches the empty state…
	require.NoError(t, m.PopFront())
	require.Equal(t, 0, m.Len())
	require.Equal(t, 0, m.RefCount())
	// …and popping an empty storage fails.
	require.ErrorIs(t, m.PopFront(), matrix.ErrEmptyStorage)
	require.ErrorIs(t, m.PopBack(), matrix.ErrEmptyStorage)
}

// TestPopBack removes the last major subvector without moving the base.
func TestPopBack(t *testing.T) {
	m, err := matrix.FromFlat(3, []float64{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, m.PopBack())
	require.Equal(t, 2, m.Cols())
	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v) // front untouched
}

// TestPopFrontRowMajor pops row subvectors for row-major storage.
func TestPopFrontRowMajor(t *testing.T) {
	m, err := matrix.FromFlat(2, []float64{1, 2, 3, 4}, matrix.WithOrder(matrix.RowMajor))
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())

	require.NoError(t, m.PopFront()) // drop first row
	require.Equal(t, 1, m.Rows())
	v, err := m.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 4.0, v)
}

// TestTransViewSharesBuffer: the transposed-type view is O(1), aliases
// until written, and reads the transposed elements.
func TestTransViewSharesBuffer(t *testing.T) {
	m, err := matrix.FromNested([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	tv := m.TransView()
	require.Equal(t, 3, tv.Rows())
	require.Equal(t, 2, tv.Cols())
	require.Equal(t, matrix.RowMajor, tv.Order())
	require.Equal(t, 2, m.RefCount()) // shared, not copied

	v, err := tv.At(2, 1)
	require.NoError(t, err)
	require.Equal(t, 6.0, v) // tv(2,1) == m(1,2)

	require.NoError(t, tv.Set(0, 0, 42)) // write detaches the view
	orig, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, orig)
}

// TestUninitializedOption only checks shape/ownership: contents are
// undefined by contract.
func TestUninitializedOption(t *testing.T) {
	m, err := matrix.NewDense(4, 4, matrix.WithUninitialized())
	require.NoError(t, err)
	require.Equal(t, 16, m.Len())
	require.Equal(t, 1, m.RefCount())
}

// TestWithOrderPanicsOnGarbage: invalid option values are programmer errors.
func TestWithOrderPanicsOnGarbage(t *testing.T) {
	require.Panics(t, func() { matrix.WithOrder(matrix.Order(7)) })
}
