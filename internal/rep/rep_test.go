package rep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbarbieri/equisuite/internal/groups"
	"github.com/gbarbieri/equisuite/internal/linop"
)

func TestRankSize(t *testing.T) {
	assert.Equal(t, 1, Rank{0, 0}.Size(3))
	assert.Equal(t, 3, Rank{1, 0}.Size(3))
	assert.Equal(t, 9, Rank{1, 1}.Size(3))
	assert.Equal(t, 27, Rank{2, 1}.Size(3))
}

func TestMultiplicitiesCollapseAndOrder(t *testing.T) {
	g := groups.S(3)
	r := T(1, 0, g).Add(T(2, 0, g)).Add(T(0, 1, g))
	mults := r.Multiplicities()
	// (0,1) collapses to (1,0) for an orthogonal group; order is by first
	// occurrence.
	require.Len(t, mults, 2)
	assert.Equal(t, RankCount{Rank: Rank{1, 0}, Count: 2}, mults[0])
	assert.Equal(t, RankCount{Rank: Rank{2, 0}, Count: 1}, mults[1])
}

func TestTensorProductRanks(t *testing.T) {
	g := groups.S(3)
	prod := T(1, 0, g).Add(T(0, 1, g)).Mul(T(1, 0, g))
	ranks := prod.Ranks()
	require.Len(t, ranks, 2)
	assert.Equal(t, Rank{2, 0}, ranks[0])
	assert.Equal(t, Rank{1, 1}, ranks[1])
}

func TestString(t *testing.T) {
	g := groups.S(3)
	r := T(1, 0, g).Add(T(1, 0, g)).Add(T(2, 0, g))
	assert.Equal(t, "2T(1)+T(2) @ d=3", r.String())
}

func TestArgsortGroupsByRank(t *testing.T) {
	g := groups.S(2)
	// Layout: T(1) [0,1], T(2) [2..5], T(1) [6,7].
	r := T(1, 0, g).Add(T(2, 0, g)).Add(T(1, 0, g))
	perm := r.Argsort()
	assert.Equal(t, []int{0, 1, 6, 7, 2, 3, 4, 5}, perm)
}

func TestEquivariantBasisDims(t *testing.T) {
	tests := []struct {
		name string
		g    *groups.Group
		rank Rank
		dim  int
	}{
		{name: "SO(3) vectors", g: groups.SO(3), rank: Rank{1, 0}, dim: 0},
		{name: "SO(3) matrices", g: groups.SO(3), rank: Rank{2, 0}, dim: 1},
		{name: "SO(2) matrices", g: groups.SO(2), rank: Rank{2, 0}, dim: 2},
		{name: "SO(3) epsilon", g: groups.SO(3), rank: Rank{3, 0}, dim: 1},
		{name: "O(3) epsilon excluded", g: groups.O(3), rank: Rank{3, 0}, dim: 0},
		{name: "S(3) vectors Bell(1)", g: groups.S(3), rank: Rank{1, 0}, dim: 1},
		{name: "S(3) matrices Bell(2)", g: groups.S(3), rank: Rank{2, 0}, dim: 2},
		{name: "S(3) order-3 Bell(3)", g: groups.S(3), rank: Rank{3, 0}, dim: 5},
		{name: "S(4) order-3 Bell(3)", g: groups.S(4), rank: Rank{3, 0}, dim: 5},
		{name: "Z(4) vectors", g: groups.Z(4), rank: Rank{1, 0}, dim: 1},
		{name: "trivial matrices", g: groups.Trivial(2), rank: Rank{2, 0}, dim: 4},
		{name: "scalars", g: groups.SO(3), rank: Rank{0, 0}, dim: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := EquivariantBasis(tt.g, tt.rank)
			require.NoError(t, err)
			assert.Equal(t, tt.dim, BasisDim(q))
		})
	}
}

func TestEquivariantBasisVectorsAreFixed(t *testing.T) {
	g := groups.S(4)
	rank := Rank{2, 0}
	q, err := EquivariantBasis(g, rank)
	require.NoError(t, err)
	r, n := q.Dims()
	require.Equal(t, 2, r)

	for _, h := range g.Discrete {
		rho, err := Rho(h, rank)
		require.NoError(t, err)
		for i := 0; i < r; i++ {
			v := make([]float64, n)
			for j := range v {
				v[j] = q.At(i, j)
			}
			moved := linop.MulVec(rho, v)
			for j := range v {
				assert.InDelta(t, v[j], moved[j], 1e-10)
			}
		}
	}
}

func TestSymmetricSubspaceRoundTrip(t *testing.T) {
	g := groups.S(3)
	r := T(2, 0, g)
	dim, project, err := SymmetricSubspace(r)
	require.NoError(t, err)
	require.Equal(t, 2, dim)

	v, err := project([]float64{1, -2})
	require.NoError(t, err)
	require.Len(t, v, 9)

	// Projecting an in-subspace vector is the identity.
	proj, err := SymmetricProjector(r)
	require.NoError(t, err)
	pv, err := proj(v)
	require.NoError(t, err)
	for i := range v {
		assert.InDelta(t, v[i], pv[i], 1e-10)
	}
}

func TestSymmetricProjectorIdempotent(t *testing.T) {
	g := groups.SO(3)
	r := T(1, 0, g).Add(T(2, 0, g))
	proj, err := SymmetricProjector(r)
	require.NoError(t, err)

	v := make([]float64, r.Size())
	for i := range v {
		v[i] = float64((i*7)%5) - 2
	}
	p1, err := proj(v)
	require.NoError(t, err)
	p2, err := proj(p1)
	require.NoError(t, err)
	for i := range p1 {
		assert.InDelta(t, p1[i], p2[i], 1e-10)
	}
}

func TestSymmetricSubspaceRejectsWrongLength(t *testing.T) {
	g := groups.S(3)
	_, project, err := SymmetricSubspace(T(2, 0, g))
	require.NoError(t, err)
	_, err = project([]float64{1})
	assert.Error(t, err)
}
