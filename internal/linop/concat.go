package linop

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Concat stacks operators vertically: Concat(A, B) x = [A x; B x].
// All parts must agree on the number of columns.
type Concat struct {
	ops  []Operator
	r, c int
}

// NewConcat builds the vertical concatenation of ops.
func NewConcat(ops ...Operator) (Concat, error) {
	if len(ops) == 0 {
		return Concat{}, ErrNoFactors
	}
	_, c := ops[0].Dims()
	r := 0
	for i, op := range ops {
		ri, ci := op.Dims()
		if ci != c {
			return Concat{}, fmt.Errorf("linop: concat part %d has %d columns, want %d", i, ci, c)
		}
		r += ri
	}
	return Concat{ops: ops, r: r, c: c}, nil
}

func (cc Concat) Dims() (r, c int) { return cc.r, cc.c }

func (cc Concat) MulMat(x mat.Matrix) *mat.Dense {
	_, xc := x.Dims()
	out := mat.NewDense(cc.r, xc, nil)
	at := 0
	for _, op := range cc.ops {
		ri, _ := op.Dims()
		out.Slice(at, at+ri, 0, xc).(*mat.Dense).Copy(op.MulMat(x))
		at += ri
	}
	return out
}

func (cc Concat) Transpose() Operator { return concatT{of: cc} }

func (cc Concat) Dense() *mat.Dense { return denseByApply(cc) }

// concatT is the adjoint of Concat: it splits its input by block rows and
// sums the transposed parts, [A B]ᵀ [x; y] = Aᵀx + Bᵀy.
type concatT struct {
	of Concat
}

func (t concatT) Dims() (r, c int) { return t.of.c, t.of.r }

func (t concatT) MulMat(x mat.Matrix) *mat.Dense {
	xr, xc := x.Dims()
	if xr != t.of.r {
		panic(fmt.Sprintf("linop: concat adjoint apply dimension mismatch: have %d rows, want %d", xr, t.of.r))
	}
	xd := mat.DenseCopyOf(x)
	out := mat.NewDense(t.of.c, xc, nil)
	at := 0
	for _, op := range t.of.ops {
		ri, _ := op.Dims()
		part := op.Transpose().MulMat(xd.Slice(at, at+ri, 0, xc))
		out.Add(out, part)
		at += ri
	}
	return out
}

func (t concatT) Transpose() Operator { return t.of }

func (t concatT) Dense() *mat.Dense { return denseByApply(t) }
