package linop

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DirectSum is a lazy block-diagonal operator. Each block may repeat with a
// multiplicity, so DirectSum([A B], [2 1]) acts as diag(A, A, B).
type DirectSum struct {
	ops   []Operator
	mults []int
	r, c  int
}

// NewDirectSum builds a block-diagonal operator from ops with the given
// per-block multiplicities. A nil mults means every block appears once.
func NewDirectSum(ops []Operator, mults []int) (DirectSum, error) {
	if len(ops) == 0 {
		return DirectSum{}, ErrNoFactors
	}
	if mults == nil {
		mults = make([]int, len(ops))
		for i := range mults {
			mults[i] = 1
		}
	}
	if len(mults) != len(ops) {
		return DirectSum{}, fmt.Errorf("linop: %d multiplicities for %d blocks", len(mults), len(ops))
	}
	r, c := 0, 0
	for i, op := range ops {
		if mults[i] < 1 {
			return DirectSum{}, fmt.Errorf("linop: multiplicity %d for block %d", mults[i], i)
		}
		ri, ci := op.Dims()
		r += ri * mults[i]
		c += ci * mults[i]
	}
	return DirectSum{ops: ops, mults: mults, r: r, c: c}, nil
}

func (d DirectSum) Dims() (r, c int) { return d.r, d.c }

func (d DirectSum) MulMat(x mat.Matrix) *mat.Dense {
	xr, xc := x.Dims()
	if xr != d.c {
		panic(fmt.Sprintf("linop: direct sum apply dimension mismatch: have %d rows, want %d", xr, d.c))
	}
	xd := mat.DenseCopyOf(x)
	out := mat.NewDense(d.r, xc, nil)
	ri, ci := 0, 0
	for i, op := range d.ops {
		br, bc := op.Dims()
		for m := 0; m < d.mults[i]; m++ {
			block := op.MulMat(xd.Slice(ci, ci+bc, 0, xc))
			out.Slice(ri, ri+br, 0, xc).(*mat.Dense).Copy(block)
			ri += br
			ci += bc
		}
	}
	return out
}

func (d DirectSum) Transpose() Operator {
	ts := make([]Operator, len(d.ops))
	for i, op := range d.ops {
		ts[i] = op.Transpose()
	}
	return DirectSum{ops: ts, mults: d.mults, r: d.c, c: d.r}
}

func (d DirectSum) Dense() *mat.Dense { return denseByApply(d) }
