package groups

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSOGeneratorCount(t *testing.T) {
	for _, d := range []int{2, 3, 4, 5} {
		g := SO(d)
		assert.Len(t, g.LieAlgebra, d*(d-1)/2, "SO(%d)", d)
		assert.Empty(t, g.Discrete)
	}
}

func TestSOGeneratorsAntisymmetric(t *testing.T) {
	g := SO(4)
	for _, a := range g.LieAlgebra {
		var sum mat.Dense
		sum.Add(a, a.T())
		assert.True(t, mat.Norm(&sum, 2) == 0, "A + Aᵀ must vanish")
	}
}

func TestSGeneratorsArePermutations(t *testing.T) {
	g := S(5)
	require.Len(t, g.Discrete, 2)
	for _, h := range g.Discrete {
		for i := 0; i < 5; i++ {
			rowSum, colSum := 0.0, 0.0
			for j := 0; j < 5; j++ {
				rowSum += h.At(i, j)
				colSum += h.At(j, i)
				assert.Contains(t, []float64{0, 1}, h.At(i, j))
			}
			assert.Equal(t, 1.0, rowSum)
			assert.Equal(t, 1.0, colSum)
		}
	}
}

func TestSampleIsOrthogonal(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, g := range []*Group{SO(3), O(3), S(4), Z(4), Trivial(2)} {
		el := g.Sample(rng)
		var prod mat.Dense
		prod.Mul(el.T(), el)
		for i := 0; i < g.D; i++ {
			for j := 0; j < g.D; j++ {
				want := 0.0
				if i == j {
					want = 1
				}
				assert.InDelta(t, want, prod.At(i, j), 1e-12, "%s entry (%d,%d)", g, i, j)
			}
		}
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "so", want: "SO(3)"},
		{name: "O", want: "O(3)"},
		{name: "s", want: "S(3)"},
		{name: "z", want: "Z(3)"},
		{name: "trivial", want: "Trivial(3)"},
		{name: "su", wantErr: true},
	}
	for _, tt := range tests {
		g, err := ByName(tt.name, 3)
		if tt.wantErr {
			assert.Error(t, err, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, g.String())
	}
}
