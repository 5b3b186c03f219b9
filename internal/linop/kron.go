package linop

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrNoFactors is returned when a product or sum is built from zero operators.
var ErrNoFactors = errors.New("linop: no factors")

// Kron is a lazy Kronecker product of operators.
//
// Application never forms the product matrix: the input is viewed as a
// row-major tensor with one axis per factor (plus a trailing batch axis) and
// each factor is contracted along its own axis.
type Kron struct {
	ops  []Operator
	r, c int
}

// NewKron builds the Kronecker product of ops, in order. A single factor is
// returned as-is.
func NewKron(ops ...Operator) (Operator, error) {
	if len(ops) == 0 {
		return nil, ErrNoFactors
	}
	if len(ops) == 1 {
		return ops[0], nil
	}
	r, c := 1, 1
	for _, op := range ops {
		ri, ci := op.Dims()
		r *= ri
		c *= ci
	}
	return Kron{ops: ops, r: r, c: c}, nil
}

func (k Kron) Dims() (r, c int) { return k.r, k.c }

func (k Kron) MulMat(x mat.Matrix) *mat.Dense {
	xr, xc := x.Dims()
	if xr != k.c {
		panic(fmt.Sprintf("linop: kron apply dimension mismatch: have %d rows, want %d", xr, k.c))
	}
	dims := make([]int, 0, len(k.ops)+1)
	for _, op := range k.ops {
		_, ci := op.Dims()
		dims = append(dims, ci)
	}
	dims = append(dims, xc)
	buf := rowMajorData(x)
	for i, op := range k.ops {
		buf = applyAxis(op, buf, dims, i)
	}
	return mat.NewDense(k.r, xc, buf)
}

func (k Kron) Transpose() Operator {
	ts := make([]Operator, len(k.ops))
	for i, op := range k.ops {
		ts[i] = op.Transpose()
	}
	return Kron{ops: ts, r: k.c, c: k.r}
}

func (k Kron) Dense() *mat.Dense {
	out := k.ops[0].Dense()
	for _, op := range k.ops[1:] {
		next := op.Dense()
		var kr mat.Dense
		kr.Kronecker(out, next)
		out = &kr
	}
	return out
}

// KronSum is the lazy Kronecker sum A ⊕ B = A⊗I + I⊗B of square operators.
type KronSum struct {
	ops []Operator
	n   int
}

// NewKronSum builds the Kronecker sum of ops, in order. All factors must be
// square. A single factor is returned as-is.
func NewKronSum(ops ...Operator) (Operator, error) {
	if len(ops) == 0 {
		return nil, ErrNoFactors
	}
	for _, op := range ops {
		r, c := op.Dims()
		if r != c {
			return nil, fmt.Errorf("linop: kronsum factor is %d×%d, want square", r, c)
		}
	}
	if len(ops) == 1 {
		return ops[0], nil
	}
	n := 1
	for _, op := range ops {
		ri, _ := op.Dims()
		n *= ri
	}
	return KronSum{ops: ops, n: n}, nil
}

func (k KronSum) Dims() (r, c int) { return k.n, k.n }

func (k KronSum) MulMat(x mat.Matrix) *mat.Dense {
	xr, xc := x.Dims()
	if xr != k.n {
		panic(fmt.Sprintf("linop: kronsum apply dimension mismatch: have %d rows, want %d", xr, k.n))
	}
	dims := make([]int, 0, len(k.ops)+1)
	for _, op := range k.ops {
		_, ci := op.Dims()
		dims = append(dims, ci)
	}
	dims = append(dims, xc)
	in := rowMajorData(x)
	acc := make([]float64, len(in))
	for i, op := range k.ops {
		// Square factors leave the shape unchanged, so dims can be shared.
		d := append([]int(nil), dims...)
		term := applyAxis(op, append([]float64(nil), in...), d, i)
		for j := range acc {
			acc[j] += term[j]
		}
	}
	return mat.NewDense(k.n, xc, acc)
}

func (k KronSum) Transpose() Operator {
	ts := make([]Operator, len(k.ops))
	for i, op := range k.ops {
		ts[i] = op.Transpose()
	}
	return KronSum{ops: ts, n: k.n}
}

func (k KronSum) Dense() *mat.Dense { return denseByApply(k) }

// applyAxis contracts op (p×q) along axis ax of the row-major tensor x with
// shape dims, where dims[ax] == q. It returns the new backing slice and
// rewrites dims[ax] = p.
func applyAxis(op Operator, x []float64, dims []int, ax int) []float64 {
	p, q := op.Dims()
	outer, inner := 1, 1
	for i := 0; i < ax; i++ {
		outer *= dims[i]
	}
	for i := ax + 1; i < len(dims); i++ {
		inner *= dims[i]
	}
	// Gather axis ax into rows of a q×(outer·inner) matrix, apply, scatter.
	gathered := mat.NewDense(q, outer*inner, nil)
	for o := 0; o < outer; o++ {
		for j := 0; j < q; j++ {
			row := gathered.RawRowView(j)
			copy(row[o*inner:(o+1)*inner], x[(o*q+j)*inner:(o*q+j+1)*inner])
		}
	}
	prod := op.MulMat(gathered)
	out := make([]float64, outer*p*inner)
	for o := 0; o < outer; o++ {
		for r := 0; r < p; r++ {
			copy(out[(o*p+r)*inner:(o*p+r+1)*inner], prod.RawRowView(r)[o*inner:(o+1)*inner])
		}
	}
	dims[ax] = p
	return out
}
