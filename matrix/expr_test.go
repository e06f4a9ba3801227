package matrix_test

import (
	"testing"

	"github.com/Laeeth/scid/matrix"
	"github.com/stretchr/testify/require"
)

// helpers shared by the expression and evaluation tests.

func mustNested(t *testing.T, rows [][]float64, opts ...matrix.Option) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromNested(rows, opts...)
	require.NoError(t, err)
	return m
}

func mustCol(t *testing.T, elems []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromFlat(1, elems) // one column-major run = column vector
	require.NoError(t, err)
	return m
}

func mustRow(t *testing.T, elems []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromFlat(1, elems, matrix.WithOrder(matrix.RowMajor))
	require.NoError(t, err)
	return m
}

// TestClosureInference checks the result closure of each operator.
func TestClosureInference(t *testing.T) {
	a := matrix.Term(mustNested(t, [][]float64{{1, 2}, {3, 4}}))
	r := matrix.RowVec(mustRow(t, []float64{1, 2}))
	c := matrix.ColVec(mustCol(t, []float64{1, 2}))

	require.Equal(t, matrix.ClosureMatrix, matrix.Mul(a, a).Closure())
	require.Equal(t, matrix.ClosureColVector, matrix.Mul(a, c).Closure())
	require.Equal(t, matrix.ClosureRowVector, matrix.Mul(r, a).Closure())
	require.Equal(t, matrix.ClosureScalar, matrix.Mul(r, c).Closure())   // dot
	require.Equal(t, matrix.ClosureMatrix, matrix.Mul(c, r).Closure())   // outer
	require.Equal(t, matrix.ClosureMatrix, matrix.Mul(matrix.Lit(2), a).Closure())
	require.Equal(t, matrix.ClosureScalar, matrix.Add(matrix.Lit(1), matrix.Lit(2)).Closure())
	require.Equal(t, matrix.ClosureRowVector, matrix.T(c).Closure()) // transpose flips orientation
	require.Equal(t, matrix.ClosureColVector, matrix.T(r).Closure())
	require.Equal(t, matrix.ClosureMatrix, matrix.T(a).Closure())
}

// TestDims checks static result extents, including product chains.
func TestDims(t *testing.T) {
	a := matrix.Term(mustNested(t, [][]float64{{1, 2, 3}, {4, 5, 6}}))    // 2x3
	b := matrix.Term(mustNested(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})) // 3x2

	r, c := matrix.Mul(a, b).Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)

	r, c = matrix.T(a).Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)

	r, c = matrix.Lit(5).Dims()
	require.Equal(t, 1, r)
	require.Equal(t, 1, c)
}

// TestClosureMismatchPanics: combining incompatible closures is a
// programmer error caught at tree construction, not evaluation.
func TestClosureMismatchPanics(t *testing.T) {
	a := matrix.Term(mustNested(t, [][]float64{{1, 2}, {3, 4}}))
	r := matrix.RowVec(mustRow(t, []float64{1, 2}))
	c := matrix.ColVec(mustCol(t, []float64{1, 2}))

	require.Panics(t, func() { matrix.Add(a, c) })          // matrix + vector
	require.Panics(t, func() { matrix.Add(r, c) })          // row + column
	require.Panics(t, func() { matrix.Mul(c, c) })          // col × col
	require.Panics(t, func() { matrix.Mul(r, r) })          // row × row
	require.Panics(t, func() { matrix.Inv(c) })             // inverse of a vector
	require.Panics(t, func() { matrix.Div(a, a) })          // non-scalar divisor
	require.Panics(t, func() { matrix.Term(nil) })          // nil leaf
	require.Panics(t, func() { matrix.RowVec(mustNested(t, [][]float64{{1}, {2}})) })
	require.Panics(t, func() { matrix.ColVec(mustRow(t, []float64{1, 2})) })
}

// TestScalarFolding: literal arithmetic folds at construction time.
func TestScalarFolding(t *testing.T) {
	e := matrix.Mul(matrix.Add(matrix.Lit(2), matrix.Lit(3)), matrix.Lit(4))
	v, err := matrix.EvalScalar(e)
	require.NoError(t, err)
	require.Equal(t, 20.0, v)

	v, err = matrix.EvalScalar(matrix.Div(matrix.Lit(1), matrix.Lit(4)))
	require.NoError(t, err)
	require.Equal(t, 0.25, v)

	v, err = matrix.EvalScalar(matrix.Neg(matrix.Lit(7)))
	require.NoError(t, err)
	require.Equal(t, -7.0, v)
}

// TestInvolutionCollapse: T(T(x)) and Inv(Inv(x)) return the inner node.
func TestInvolutionCollapse(t *testing.T) {
	a := matrix.Term(mustNested(t, [][]float64{{1, 2}, {3, 4}}))

	require.Same(t, a, matrix.T(matrix.T(a)))
	require.Same(t, a, matrix.Inv(matrix.Inv(a)))

	s := matrix.Lit(3)
	require.Same(t, s, matrix.T(s)) // scalar transpose is the identity
}

// TestEvalScalarOnMatrixPanics: closure misuse of the entry points panics.
func TestEvalScalarOnMatrixPanics(t *testing.T) {
	a := matrix.Term(mustNested(t, [][]float64{{1, 2}, {3, 4}}))

	require.Panics(t, func() { _, _ = matrix.EvalScalar(a) })
	require.Panics(t, func() { _, _ = matrix.Eval(matrix.Lit(3)) })
	require.Panics(t, func() { _, _ = matrix.Eval(nil) })
}
