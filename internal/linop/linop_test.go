package linop

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func randDense(rng *rand.Rand, r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return mat.NewDense(r, c, data)
}

func assertDenseEqual(t *testing.T, want, got *mat.Dense, tol float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, wr, gr, "row count")
	require.Equal(t, wc, gc, "column count")
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), tol, "entry (%d,%d)", i, j)
		}
	}
}

func TestKronMatchesDenseKronecker(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := randDense(rng, 2, 3)
	b := randDense(rng, 4, 2)
	c := randDense(rng, 3, 3)

	k, err := NewKron(FromDense(a), FromDense(b), FromDense(c))
	require.NoError(t, err)

	var ab, abc mat.Dense
	ab.Kronecker(a, b)
	abc.Kronecker(&ab, c)

	x := randDense(rng, 3*2*3, 5)
	var want mat.Dense
	want.Mul(&abc, x)

	assertDenseEqual(t, &want, k.MulMat(x), 1e-12)
	assertDenseEqual(t, mat.DenseCopyOf(&abc), k.Dense(), 1e-12)
}

func TestKronSingleFactorCollapses(t *testing.T) {
	a := FromDense(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	op, err := NewKron(a)
	require.NoError(t, err)
	assert.IsType(t, Wrap{}, op)
}

func TestKronTranspose(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := randDense(rng, 2, 3)
	b := randDense(rng, 3, 2)
	k, err := NewKron(FromDense(a), FromDense(b))
	require.NoError(t, err)

	want := k.Dense()
	got := k.Transpose().Dense()
	assertDenseEqual(t, mat.DenseCopyOf(want.T()), got, 1e-12)
}

func TestKronSumMatchesFormula(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randDense(rng, 3, 3)
	b := randDense(rng, 2, 2)

	ks, err := NewKronSum(FromDense(a), FromDense(b))
	require.NoError(t, err)

	// A⊕B = A⊗I + I⊗B
	var ai, ib, want mat.Dense
	ai.Kronecker(a, NewIdentity(2).Dense())
	ib.Kronecker(NewIdentity(3).Dense(), b)
	want.Add(&ai, &ib)

	x := randDense(rng, 6, 4)
	var wantApplied mat.Dense
	wantApplied.Mul(&want, x)

	assertDenseEqual(t, &wantApplied, ks.MulMat(x), 1e-12)
	assertDenseEqual(t, mat.DenseCopyOf(&want), ks.Dense(), 1e-12)
}

func TestKronSumRejectsRectangular(t *testing.T) {
	_, err := NewKronSum(FromDense(mat.NewDense(2, 3, nil)))
	assert.Error(t, err)
}

func TestDirectSumWithMultiplicities(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := randDense(rng, 2, 2)
	b := randDense(rng, 3, 3)

	ds, err := NewDirectSum([]Operator{FromDense(a), FromDense(b)}, []int{2, 1})
	require.NoError(t, err)

	r, c := ds.Dims()
	require.Equal(t, 7, r)
	require.Equal(t, 7, c)

	x := randDense(rng, 7, 3)
	got := ds.MulMat(x)

	// diag(A, A, B) applied blockwise.
	var wantA1, wantA2, wantB mat.Dense
	wantA1.Mul(a, mat.DenseCopyOf(x).Slice(0, 2, 0, 3))
	wantA2.Mul(a, mat.DenseCopyOf(x).Slice(2, 4, 0, 3))
	wantB.Mul(b, mat.DenseCopyOf(x).Slice(4, 7, 0, 3))
	assertDenseEqual(t, &wantA1, mat.DenseCopyOf(got.Slice(0, 2, 0, 3)), 1e-12)
	assertDenseEqual(t, &wantA2, mat.DenseCopyOf(got.Slice(2, 4, 0, 3)), 1e-12)
	assertDenseEqual(t, &wantB, mat.DenseCopyOf(got.Slice(4, 7, 0, 3)), 1e-12)
}

func TestConcatAndAdjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := randDense(rng, 2, 4)
	b := randDense(rng, 3, 4)

	cc, err := NewConcat(FromDense(a), FromDense(b))
	require.NoError(t, err)

	x := randDense(rng, 4, 2)
	got := cc.MulMat(x)
	var wantA, wantB mat.Dense
	wantA.Mul(a, x)
	wantB.Mul(b, x)
	assertDenseEqual(t, &wantA, mat.DenseCopyOf(got.Slice(0, 2, 0, 2)), 1e-12)
	assertDenseEqual(t, &wantB, mat.DenseCopyOf(got.Slice(2, 5, 0, 2)), 1e-12)

	// Adjoint via dense comparison.
	want := mat.DenseCopyOf(cc.Dense().T())
	assertDenseEqual(t, want, cc.Transpose().Dense(), 1e-12)
}

func TestConcatRejectsMismatchedColumns(t *testing.T) {
	_, err := NewConcat(FromDense(mat.NewDense(2, 3, nil)), FromDense(mat.NewDense(2, 4, nil)))
	assert.Error(t, err)
}

func TestPermAdjointIsInverse(t *testing.T) {
	p, err := NewPerm([]int{2, 0, 3, 1})
	require.NoError(t, err)

	x := mat.NewDense(4, 1, []float64{10, 20, 30, 40})
	forward := p.MulMat(x)
	assert.Equal(t, []float64{30, 10, 40, 20}, forward.RawMatrix().Data)

	back := p.Transpose().MulMat(forward)
	assertDenseEqual(t, x, back, 0)
}

func TestPermRejectsNonPermutation(t *testing.T) {
	_, err := NewPerm([]int{0, 0, 1})
	assert.Error(t, err)
}

func TestShiftRollsRows(t *testing.T) {
	s := NewShift(4, 1)
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	got := s.MulMat(x)
	assert.Equal(t, []float64{4, 1, 2, 3}, got.RawMatrix().Data)

	// Shifting back recovers the input.
	back := s.Transpose().MulMat(got)
	assertDenseEqual(t, x, back, 0)
}

func TestSlicedIPadAndTruncate(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{5, 7})

	pad := NewSlicedI(4, 2)
	got := pad.MulMat(x)
	assert.Equal(t, []float64{5, 7, 0, 0}, got.RawMatrix().Data)

	trunc := NewSlicedI(1, 2)
	got = trunc.MulMat(x)
	assert.Equal(t, []float64{5}, got.RawMatrix().Data)

	// Transpose swaps pad and truncate.
	r, c := pad.Transpose().Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 4, c)
}

func TestMulVec(t *testing.T) {
	a := FromDense(mat.NewDense(2, 3, []float64{1, 0, 2, 0, 1, 0}))
	got := MulVec(a, []float64{1, 2, 3})
	assert.Equal(t, []float64{7, 2}, got)
}
