package rep

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/gbarbieri/equisuite/internal/groups"
)

// NullTol is the singular-value threshold below which a direction is counted
// as part of the null space.
const NullTol = 1e-5

// ConstraintMatrix stacks the equivariance constraints for rank-(p,q)
// tensors: one block dρ(A) per Lie-algebra generator and one block ρ(h) − I
// per discrete generator. Tensors in the null space of this matrix are
// exactly the G-equivariant ones.
func ConstraintMatrix(g *groups.Group, rank Rank) (*mat.Dense, error) {
	n := rank.Size(g.D)
	var blocks []*mat.Dense
	for _, a := range g.LieAlgebra {
		op, err := DRho(a, rank)
		if err != nil {
			return nil, fmt.Errorf("rep: building dρ constraint: %w", err)
		}
		blocks = append(blocks, op.Dense())
	}
	for _, h := range g.Discrete {
		op, err := Rho(h, rank)
		if err != nil {
			return nil, fmt.Errorf("rep: building ρ constraint: %w", err)
		}
		d := op.Dense()
		for i := 0; i < n; i++ {
			d.Set(i, i, d.At(i, i)-1)
		}
		blocks = append(blocks, d)
	}
	if len(blocks) == 0 {
		// No constraints: a single zero row keeps the shapes regular.
		return mat.NewDense(1, n, nil), nil
	}
	rows := 0
	for _, b := range blocks {
		r, _ := b.Dims()
		rows += r
	}
	out := mat.NewDense(rows, n, nil)
	at := 0
	for _, b := range blocks {
		r, _ := b.Dims()
		out.Slice(at, at+r, 0, n).(*mat.Dense).Copy(b)
		at += r
	}
	return out, nil
}

// NullSpace returns an orthonormal basis of the null space of m as the rows
// of an r×n matrix, via full SVD. Singular values below NullTol count as
// zero. A nil result means the null space is trivial.
func NullSpace(m *mat.Dense) (*mat.Dense, error) {
	_, n := m.Dims()
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDFullV) {
		return nil, fmt.Errorf("rep: SVD failed to converge")
	}
	s := svd.Values(nil)
	rank := 0
	for _, v := range s {
		if v > NullTol {
			rank++
		}
	}
	var v mat.Dense
	svd.VTo(&v)
	dim := n - rank
	if dim == 0 {
		return nil, nil
	}
	out := mat.NewDense(dim, n, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, v.At(j, rank+i))
		}
	}
	return out, nil
}

// BasisDim returns the number of basis vectors in q, treating nil as the
// empty basis.
func BasisDim(q *mat.Dense) int {
	if q == nil {
		return 0
	}
	r, _ := q.Dims()
	return r
}

// basisCache memoises equivariant bases per group and collapsed rank. The
// SVD dominates every experiment, and the same (group, rank) pair recurs
// across dimensions of a sweep.
var basisCache struct {
	sync.Mutex
	m map[string]*mat.Dense
}

// EquivariantBasis returns an orthonormal basis, as rows, of the space of
// G-equivariant rank-(p,q) tensors.
func EquivariantBasis(g *groups.Group, rank Rank) (*mat.Dense, error) {
	if g.Unimodular() {
		rank = Rank{P: rank.Total(), Q: 0}
	}
	if rank.Total() == 0 {
		return mat.NewDense(1, 1, []float64{1}), nil
	}
	key := fmt.Sprintf("%s/%s", g, rank)

	basisCache.Lock()
	if basisCache.m == nil {
		basisCache.m = make(map[string]*mat.Dense)
	}
	if q, ok := basisCache.m[key]; ok {
		basisCache.Unlock()
		return q, nil
	}
	basisCache.Unlock()

	c, err := ConstraintMatrix(g, rank)
	if err != nil {
		return nil, err
	}
	q, err := NullSpace(c)
	if err != nil {
		return nil, err
	}

	basisCache.Lock()
	basisCache.m[key] = q
	basisCache.Unlock()
	return q, nil
}

// SymmetricSubspace computes the dimension r of the equivariant subspace of
// the representation and returns a map from coefficient vectors of length r
// to full representation vectors lying in that subspace.
func SymmetricSubspace(t TensorRep) (int, func(coeffs []float64) ([]float64, error), error) {
	mults := t.Multiplicities()
	bases := make([]*mat.Dense, len(mults))
	dim := 0
	for i, rc := range mults {
		q, err := EquivariantBasis(t.Group(), rc.Rank)
		if err != nil {
			return 0, nil, err
		}
		bases[i] = q
		dim += rc.Count * BasisDim(q)
	}
	perm := t.Argsort()
	d := t.Group().D
	total := t.Size()

	project := func(coeffs []float64) ([]float64, error) {
		if len(coeffs) != dim {
			return nil, fmt.Errorf("rep: coefficient vector has length %d, want %d", len(coeffs), dim)
		}
		grouped := make([]float64, 0, total)
		at := 0
		for i, rc := range mults {
			q := bases[i]
			qr := BasisDim(q)
			size := rc.Rank.Size(d)
			if qr == 0 {
				grouped = append(grouped, make([]float64, rc.Count*size)...)
				continue
			}
			chunk := mat.NewDense(rc.Count, qr, coeffs[at:at+rc.Count*qr])
			var elems mat.Dense
			elems.Mul(chunk, q)
			grouped = append(grouped, elems.RawMatrix().Data...)
			at += rc.Count * qr
		}
		out := make([]float64, total)
		for i, p := range perm {
			out[p] = grouped[i]
		}
		return out, nil
	}
	return dim, project, nil
}

// SymmetricProjector returns the orthogonal projection QᵀQ onto the
// equivariant subspace of the representation, applied blockwise per rank.
// The projector is idempotent and commutes with the group action.
func SymmetricProjector(t TensorRep) (func(v []float64) ([]float64, error), error) {
	mults := t.Multiplicities()
	bases := make([]*mat.Dense, len(mults))
	for i, rc := range mults {
		q, err := EquivariantBasis(t.Group(), rc.Rank)
		if err != nil {
			return nil, err
		}
		bases[i] = q
	}
	perm := t.Argsort()
	d := t.Group().D
	total := t.Size()

	return func(v []float64) ([]float64, error) {
		if len(v) != total {
			return nil, fmt.Errorf("rep: vector has length %d, want %d", len(v), total)
		}
		ordered := make([]float64, total)
		for i, p := range perm {
			ordered[i] = v[p]
		}
		projected := make([]float64, 0, total)
		at := 0
		for i, rc := range mults {
			q := bases[i]
			size := rc.Rank.Size(d)
			if BasisDim(q) == 0 {
				projected = append(projected, make([]float64, rc.Count*size)...)
				at += rc.Count * size
				continue
			}
			chunk := mat.NewDense(rc.Count, size, ordered[at:at+rc.Count*size])
			// chunk · Qᵀ · Q projects every copy onto the subspace.
			var coeffs, proj mat.Dense
			coeffs.Mul(chunk, q.T())
			proj.Mul(&coeffs, q)
			projected = append(projected, proj.RawMatrix().Data...)
			at += rc.Count * size
		}
		out := make([]float64, total)
		for i, p := range perm {
			out[p] = projected[i]
		}
		return out, nil
	}, nil
}
