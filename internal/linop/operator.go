package linop

import (
	"gonum.org/v1/gonum/mat"
)

// Operator is a linear map from R^c to R^r applied lazily.
//
// MulMat multiplies a batch of column vectors: x must have c rows, and the
// result has r rows and the same number of columns. Dense materialises the
// operator as an r×c matrix; structured operators only do this for debugging
// and for final constraint assembly, never during application.
type Operator interface {
	Dims() (r, c int)
	MulMat(x mat.Matrix) *mat.Dense
	Transpose() Operator
	Dense() *mat.Dense
}

// Identity is the d×d identity operator.
type Identity struct {
	d int
}

// NewIdentity returns the identity operator on R^d.
func NewIdentity(d int) Identity { return Identity{d: d} }

func (i Identity) Dims() (r, c int) { return i.d, i.d }

func (i Identity) MulMat(x mat.Matrix) *mat.Dense { return mat.DenseCopyOf(x) }

func (i Identity) Transpose() Operator { return i }

func (i Identity) Dense() *mat.Dense {
	m := mat.NewDense(i.d, i.d, nil)
	for j := 0; j < i.d; j++ {
		m.Set(j, j, 1)
	}
	return m
}

// Wrap lifts a dense matrix into an Operator.
type Wrap struct {
	m mat.Matrix
}

// FromDense wraps a concrete matrix as an operator.
func FromDense(m mat.Matrix) Wrap { return Wrap{m: m} }

func (w Wrap) Dims() (r, c int) { return w.m.Dims() }

func (w Wrap) MulMat(x mat.Matrix) *mat.Dense {
	r, _ := w.m.Dims()
	_, xc := x.Dims()
	dst := mat.NewDense(r, xc, nil)
	dst.Mul(w.m, x)
	return dst
}

func (w Wrap) Transpose() Operator { return Wrap{m: w.m.T()} }

func (w Wrap) Dense() *mat.Dense { return mat.DenseCopyOf(w.m) }

// MulVec applies op to a single vector.
func MulVec(op Operator, v []float64) []float64 {
	_, c := op.Dims()
	x := mat.NewDense(c, 1, append([]float64(nil), v...))
	out := op.MulMat(x)
	r, _ := out.Dims()
	res := make([]float64, r)
	for i := 0; i < r; i++ {
		res[i] = out.At(i, 0)
	}
	return res
}

// denseByApply materialises op by applying it to the identity.
func denseByApply(op Operator) *mat.Dense {
	_, c := op.Dims()
	return op.MulMat(NewIdentity(c).Dense())
}

// rowMajorData copies x into a row-major float64 slice.
func rowMajorData(x mat.Matrix) []float64 {
	if d, ok := x.(*mat.Dense); ok {
		raw := d.RawMatrix()
		if raw.Stride == raw.Cols {
			return append([]float64(nil), raw.Data...)
		}
	}
	r, c := x.Dims()
	out := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[i*c+j] = x.At(i, j)
		}
	}
	return out
}
