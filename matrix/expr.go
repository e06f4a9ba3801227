// SPDX-License-Identifier: MIT

// Package matrix - immutable expression trees.
//
// An Expr is a tagged node over a closed operation set: literals, storage
// leaves, elementwise sums, scalings, transposes, products and inverse
// markers. Building a tree performs no numeric work and never mutates a
// node; evaluation (eval.go) is a pure walk over the finished tree.
//
// Closure compatibility is validated HERE, at construction: combining
// incompatible shapes is a programmer error and panics with the offending
// operator and closures. Extent mismatches that depend on runtime sizes
// (e.g. inner dimensions of a product) surface as errors at evaluation.
package matrix

import "fmt"

// exprKind tags the operation of a node. The set is closed; the evaluator
// switches exhaustively over it.
type exprKind uint8

const (
	kindLit      exprKind = iota // scalar literal (val)
	kindLeaf                     // materialized storage (leaf)
	kindAdd                      // lhs + rhs, matching closures
	kindScale                    // scalar lhs * rhs
	kindTrans                    // transpose of lhs
	kindProduct                  // lhs * rhs; closure inferred
	kindInverse                  // inverse marker over lhs (solve at eval)
	kindScalarOp                 // scalar lhs <op> rhs
)

// Expr is one immutable node of an expression tree.
type Expr struct {
	kind     exprKind
	closure  Closure
	op       byte    // kindScalarOp operator: '+', '-', '*', '/'
	val      float64 // kindLit value
	leaf     *Dense  // kindLeaf operand
	lhs, rhs *Expr
}

// Closure returns the shape classification of the expression.
func (e *Expr) Closure() Closure { return e.closure }

// Dims returns the logical extents the expression evaluates to. Scalars
// report 1×1. Complexity: O(depth).
func (e *Expr) Dims() (rows, cols int) {
	switch e.kind {
	case kindLit, kindScalarOp:
		return 1, 1
	case kindLeaf:
		return e.leaf.rows, e.leaf.cols
	case kindAdd:
		return e.lhs.Dims()
	case kindScale:
		return e.rhs.Dims()
	case kindTrans:
		r, c := e.lhs.Dims()
		return c, r
	case kindInverse:
		return e.lhs.Dims()
	default: // kindProduct
		if e.closure == ClosureScalar {
			return 1, 1
		}
		r, _ := e.lhs.Dims()
		_, c := e.rhs.Dims()
		return r, c
	}
}

// closurePanic reports an operator applied to incompatible closures.
func closurePanic(op string, a, b Closure) {
	panic(fmt.Sprintf("matrix: %s: incompatible closures %s and %s", op, a, b))
}

// Lit wraps a scalar literal.
func Lit(v float64) *Expr {
	return &Expr{kind: kindLit, closure: ClosureScalar, val: v}
}

// Term wraps a storage as a matrix-closure leaf. Panics on nil (programmer
// error; there is no nil operand in a well-formed tree).
func Term(d *Dense) *Expr {
	if d == nil {
		panic("matrix: Term(nil storage)")
	}
	return &Expr{kind: kindLeaf, closure: ClosureMatrix, leaf: d}
}

// RowVec wraps a single-row storage as a row-vector leaf.
// Panics unless d has exactly one row.
func RowVec(d *Dense) *Expr {
	if d == nil || d.rows != 1 {
		panic("matrix: RowVec requires a single-row storage")
	}
	return &Expr{kind: kindLeaf, closure: ClosureRowVector, leaf: d}
}

// ColVec wraps a single-column storage as a column-vector leaf.
// Panics unless d has exactly one column.
func ColVec(d *Dense) *Expr {
	if d == nil || d.cols != 1 {
		panic("matrix: ColVec requires a single-column storage")
	}
	return &Expr{kind: kindLeaf, closure: ClosureColVector, leaf: d}
}

// scalarOp builds a scalar-scalar arithmetic node, folding literal pairs.
func scalarOp(op byte, a, b *Expr) *Expr {
	if a.kind == kindLit && b.kind == kindLit {
		return Lit(applyScalarOp(op, a.val, b.val))
	}
	return &Expr{kind: kindScalarOp, closure: ClosureScalar, op: op, lhs: a, rhs: b}
}

// applyScalarOp evaluates one scalar operator; IEEE semantics throughout
// (division by zero yields ±Inf, no error).
func applyScalarOp(op byte, a, b float64) float64 {
	switch op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	default: // '/'
		return a / b
	}
}

// scale builds a scaling node coeff*x; coeff must be scalar-closure.
func scale(coeff, x *Expr) *Expr {
	return &Expr{kind: kindScale, closure: x.closure, lhs: coeff, rhs: x}
}

// Add builds a + b. Scalars combine arithmetically; vectors and matrices
// require matching closures. Panics on a closure mismatch.
func Add(a, b *Expr) *Expr {
	if a.closure == ClosureScalar && b.closure == ClosureScalar {
		return scalarOp('+', a, b)
	}
	if a.closure != b.closure {
		closurePanic("Add", a.closure, b.closure)
	}
	return &Expr{kind: kindAdd, closure: a.closure, lhs: a, rhs: b}
}

// Sub builds a - b as a + (-1)*b, so subtraction flows through the same
// fused scaled-addition path as every other accumulate.
func Sub(a, b *Expr) *Expr {
	if a.closure == ClosureScalar && b.closure == ClosureScalar {
		return scalarOp('-', a, b)
	}
	if a.closure != b.closure {
		closurePanic("Sub", a.closure, b.closure)
	}
	return &Expr{kind: kindAdd, closure: a.closure, lhs: a, rhs: scale(Lit(-1), b)}
}

// Neg builds (-1)*x.
func Neg(x *Expr) *Expr {
	if x.closure == ClosureScalar {
		return scalarOp('-', Lit(0), x)
	}
	return scale(Lit(-1), x)
}

// Mul builds a * b with the closure inferred from the operands:
//
//	Scalar × X          → scaling
//	Matrix × Matrix     → Matrix
//	Matrix × ColVector  → ColVector
//	RowVector × Matrix  → RowVector
//	RowVector × ColVector → Scalar (dot product)
//	ColVector × RowVector → Matrix (outer product)
//
// Any other combination panics (programmer error).
func Mul(a, b *Expr) *Expr {
	switch {
	case a.closure == ClosureScalar && b.closure == ClosureScalar:
		return scalarOp('*', a, b)
	case a.closure == ClosureScalar:
		return scale(a, b)
	case b.closure == ClosureScalar:
		return scale(b, a)
	}
	var c Closure
	switch {
	case a.closure == ClosureMatrix && b.closure == ClosureMatrix:
		c = ClosureMatrix
	case a.closure == ClosureMatrix && b.closure == ClosureColVector:
		c = ClosureColVector
	case a.closure == ClosureRowVector && b.closure == ClosureMatrix:
		c = ClosureRowVector
	case a.closure == ClosureRowVector && b.closure == ClosureColVector:
		c = ClosureScalar
	case a.closure == ClosureColVector && b.closure == ClosureRowVector:
		c = ClosureMatrix
	default:
		closurePanic("Mul", a.closure, b.closure)
	}
	return &Expr{kind: kindProduct, closure: c, lhs: a, rhs: b}
}

// Div builds a / b for a scalar divisor: scalar÷scalar arithmetic, or a
// scaling by the divisor's reciprocal for vector/matrix dividends. A
// non-scalar divisor panics; use Mul with Inv for matrix division.
func Div(a, b *Expr) *Expr {
	if b.closure != ClosureScalar {
		closurePanic("Div", a.closure, b.closure)
	}
	if a.closure == ClosureScalar {
		return scalarOp('/', a, b)
	}
	return scale(scalarOp('/', Lit(1), b), a)
}

// T builds the transpose of x. Scalars are returned unchanged and a double
// transpose collapses to the original node (trees are immutable, so sharing
// the operand is safe). Row and column vector closures swap.
func T(x *Expr) *Expr {
	if x.closure == ClosureScalar {
		return x
	}
	if x.kind == kindTrans {
		return x.lhs
	}
	c := x.closure
	switch c {
	case ClosureRowVector:
		c = ClosureColVector
	case ClosureColVector:
		c = ClosureRowVector
	}
	return &Expr{kind: kindTrans, closure: c, lhs: x}
}

// Inv marks a matrix-closure expression for an implicit solve: Mul(Inv(A), b)
// evaluates as the solution of A·x = b without ever materializing A⁻¹.
// A double inverse collapses. Panics on a non-matrix closure.
func Inv(x *Expr) *Expr {
	if x.closure != ClosureMatrix {
		closurePanic("Inv", x.closure, x.closure)
	}
	if x.kind == kindInverse {
		return x.lhs
	}
	return &Expr{kind: kindInverse, closure: ClosureMatrix, lhs: x}
}
