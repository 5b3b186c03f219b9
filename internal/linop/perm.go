package linop

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Perm permutes the rows of its input: (P x)[i] = x[perm[i]].
type Perm struct {
	perm []int
}

// NewPerm builds a permutation operator. perm must be a permutation of
// 0..len(perm)-1.
func NewPerm(perm []int) (Perm, error) {
	seen := make([]bool, len(perm))
	for _, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return Perm{}, fmt.Errorf("linop: %v is not a permutation", perm)
		}
		seen[p] = true
	}
	return Perm{perm: append([]int(nil), perm...)}, nil
}

func (p Perm) Dims() (r, c int) { return len(p.perm), len(p.perm) }

func (p Perm) MulMat(x mat.Matrix) *mat.Dense {
	xr, xc := x.Dims()
	if xr != len(p.perm) {
		panic(fmt.Sprintf("linop: perm apply dimension mismatch: have %d rows, want %d", xr, len(p.perm)))
	}
	xd := mat.DenseCopyOf(x)
	out := mat.NewDense(xr, xc, nil)
	for i, src := range p.perm {
		copy(out.RawRowView(i), xd.RawRowView(src))
	}
	return out
}

// Transpose returns the inverse permutation.
func (p Perm) Transpose() Operator {
	inv := make([]int, len(p.perm))
	for i, src := range p.perm {
		inv[src] = i
	}
	return Perm{perm: inv}
}

func (p Perm) Dense() *mat.Dense { return denseByApply(p) }

// Shift cyclically shifts rows by k: (S x)[i] = x[(i-k) mod n].
type Shift struct {
	n, k int
}

// NewShift builds a cyclic shift on n rows.
func NewShift(n, k int) Shift { return Shift{n: n, k: k} }

func (s Shift) Dims() (r, c int) { return s.n, s.n }

func (s Shift) MulMat(x mat.Matrix) *mat.Dense {
	xr, xc := x.Dims()
	if xr != s.n {
		panic(fmt.Sprintf("linop: shift apply dimension mismatch: have %d rows, want %d", xr, s.n))
	}
	xd := mat.DenseCopyOf(x)
	out := mat.NewDense(s.n, xc, nil)
	for i := 0; i < s.n; i++ {
		src := ((i-s.k)%s.n + s.n) % s.n
		copy(out.RawRowView(i), xd.RawRowView(src))
	}
	return out
}

func (s Shift) Transpose() Operator { return Shift{n: s.n, k: -s.k} }

func (s Shift) Dense() *mat.Dense { return denseByApply(s) }

// SlicedI is the rectangular identity slice I[:n, :k]: it zero-pads when
// n > k and truncates when n < k.
type SlicedI struct {
	n, k int
}

// NewSlicedI builds the n×k identity slice.
func NewSlicedI(n, k int) SlicedI { return SlicedI{n: n, k: k} }

func (s SlicedI) Dims() (r, c int) { return s.n, s.k }

func (s SlicedI) MulMat(x mat.Matrix) *mat.Dense {
	xr, xc := x.Dims()
	if xr != s.k {
		panic(fmt.Sprintf("linop: sliced identity apply dimension mismatch: have %d rows, want %d", xr, s.k))
	}
	xd := mat.DenseCopyOf(x)
	out := mat.NewDense(s.n, xc, nil)
	keep := s.k
	if s.n < keep {
		keep = s.n
	}
	for i := 0; i < keep; i++ {
		copy(out.RawRowView(i), xd.RawRowView(i))
	}
	return out
}

func (s SlicedI) Transpose() Operator { return SlicedI{n: s.k, k: s.n} }

func (s SlicedI) Dense() *mat.Dense { return denseByApply(s) }
