// Package rep implements tensor representations of matrix groups and the
// computation of their equivariant (symmetric) subspaces.
//
// A rank-(p,q) tensor representation of G acting on R^d has dimension
// d^(p+q); a group element g acts by ρ(g) = g⊗…⊗g ⊗ g⁻ᵀ⊗…⊗g⁻ᵀ and a
// Lie-algebra element A acts by the Kronecker sum dρ(A). The equivariant
// subspace is the joint null space of all dρ(A_i) and ρ(h_j) − I, computed
// here by SVD.
package rep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/gbarbieri/equisuite/internal/linop"
)

// Rank identifies a tensor type T(p,q): p covariant and q contravariant
// factors.
type Rank struct {
	P, Q int
}

// Total returns p+q, the tensor order.
func (r Rank) Total() int { return r.P + r.Q }

// Size returns the dimension d^(p+q) of the rank-(p,q) tensor space over R^d.
func (r Rank) Size(d int) int {
	n := 1
	for i := 0; i < r.Total(); i++ {
		n *= d
	}
	return n
}

// Dual swaps covariant and contravariant factors.
func (r Rank) Dual() Rank { return Rank{P: r.Q, Q: r.P} }

func (r Rank) String() string {
	if r.Q == 0 {
		return fmt.Sprintf("T(%d)", r.P)
	}
	return fmt.Sprintf("T(%d,%d)", r.P, r.Q)
}

// Rho returns the representation ρ(g) of a group element g on rank-(p,q)
// tensors, as a lazy Kronecker product of p copies of g and q copies of
// g⁻ᵀ.
func Rho(g *mat.Dense, rank Rank) (linop.Operator, error) {
	d, _ := g.Dims()
	if rank.Total() == 0 {
		return linop.NewIdentity(1), nil
	}
	factors := make([]linop.Operator, 0, rank.Total())
	for i := 0; i < rank.P; i++ {
		factors = append(factors, linop.FromDense(g))
	}
	if rank.Q > 0 {
		invT := mat.NewDense(d, d, nil)
		if err := invT.Inverse(g); err != nil {
			return nil, fmt.Errorf("rep: inverting group element: %w", err)
		}
		ginvT := mat.DenseCopyOf(invT.T())
		for i := 0; i < rank.Q; i++ {
			factors = append(factors, linop.FromDense(ginvT))
		}
	}
	return linop.NewKron(factors...)
}

// DRho returns the Lie-algebra representation dρ(A) on rank-(p,q) tensors,
// the lazy Kronecker sum of p copies of A and q copies of −Aᵀ.
func DRho(a *mat.Dense, rank Rank) (linop.Operator, error) {
	if rank.Total() == 0 {
		// The derivative of the trivial action vanishes.
		return linop.FromDense(mat.NewDense(1, 1, []float64{0})), nil
	}
	factors := make([]linop.Operator, 0, rank.Total())
	for i := 0; i < rank.P; i++ {
		factors = append(factors, linop.FromDense(a))
	}
	if rank.Q > 0 {
		d, _ := a.Dims()
		negT := mat.NewDense(d, d, nil)
		negT.Scale(-1, mat.DenseCopyOf(a.T()))
		for i := 0; i < rank.Q; i++ {
			factors = append(factors, linop.FromDense(negT))
		}
	}
	return linop.NewKronSum(factors...)
}
