// White-box tests for the call-scoped temporary arena.
package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestArenaBumpAllocation: consecutive slab allocations are adjacent and
// capped so one temporary cannot grow into the next.
func TestArenaBumpAllocation(t *testing.T) {
	a := getArena()
	defer putArena(a)

	s1 := a.alloc(8)
	s2 := a.alloc(8)
	require.Len(t, s1, 8)
	require.Equal(t, 8, cap(s1)) // full slice expression caps the window
	require.True(t, &a.slab[0] == &s1[0])
	require.True(t, &a.slab[8] == &s2[0]) // bumped past the first block
	require.Equal(t, 16, a.off)
}

// TestArenaOversizeFallsThrough: requests beyond the slab get their own
// allocation without consuming slab space.
func TestArenaOversizeFallsThrough(t *testing.T) {
	a := getArena()
	defer putArena(a)

	s := a.alloc(arenaSlabLen + 1)
	require.Len(t, s, arenaSlabLen+1)
	require.Zero(t, a.off) // slab untouched
}

// TestArenaAcquireIsReset: every acquisition starts from an empty arena.
func TestArenaAcquireIsReset(t *testing.T) {
	a := getArena()
	a.alloc(100)
	putArena(a)

	b := getArena()
	defer putArena(b)
	require.Zero(t, b.off)
}

// TestArenaTemp shapes working storage like any exclusive Dense.
func TestArenaTemp(t *testing.T) {
	a := getArena()
	defer putArena(a)

	d := a.temp(2, 3, ColMajor)
	require.Equal(t, 2, d.rows)
	require.Equal(t, 3, d.cols)
	require.Equal(t, 2, d.leading) // minor extent for column-major
	require.Equal(t, 1, d.buf.refs)

	e := a.temp(0, 5, RowMajor)
	require.Nil(t, e.buf) // empty state, nothing reserved
	require.Equal(t, 1, e.leading)
}
