package rep

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/gbarbieri/equisuite/internal/groups"
	"github.com/gbarbieri/equisuite/internal/linop"
)

// TensorRep is an ordered direct sum of tensor ranks bound to a group.
type TensorRep struct {
	ranks []Rank
	group *groups.Group
}

// T constructs the rank-(p,q) tensor representation of g.
func T(p, q int, g *groups.Group) TensorRep {
	return TensorRep{ranks: []Rank{{P: p, Q: q}}, group: g}
}

// Ranks returns the ordered ranks of the representation.
func (t TensorRep) Ranks() []Rank { return t.ranks }

// Group returns the group the representation is bound to.
func (t TensorRep) Group() *groups.Group { return t.group }

// Size returns the total dimension of the representation space.
func (t TensorRep) Size() int {
	n := 0
	for _, r := range t.ranks {
		n += r.Size(t.group.D)
	}
	return n
}

// Add returns the direct sum of two representations of the same group.
func (t TensorRep) Add(o TensorRep) TensorRep {
	if t.group != o.group {
		panic("rep: direct sum of representations of different groups")
	}
	return TensorRep{ranks: append(append([]Rank(nil), t.ranks...), o.ranks...), group: t.group}
}

// Scale repeats the representation n times.
func (t TensorRep) Scale(n int) TensorRep {
	ranks := make([]Rank, 0, n*len(t.ranks))
	for i := 0; i < n; i++ {
		ranks = append(ranks, t.ranks...)
	}
	return TensorRep{ranks: ranks, group: t.group}
}

// Mul returns the tensor product, distributing over the direct summands in
// lexicographic order.
func (t TensorRep) Mul(o TensorRep) TensorRep {
	if t.group != o.group {
		panic("rep: tensor product of representations of different groups")
	}
	ranks := make([]Rank, 0, len(t.ranks)*len(o.ranks))
	for _, r1 := range t.ranks {
		for _, r2 := range o.ranks {
			ranks = append(ranks, Rank{P: r1.P + r2.P, Q: r1.Q + r2.Q})
		}
	}
	return TensorRep{ranks: ranks, group: t.group}
}

// Dual swaps covariant and contravariant factors of every summand.
func (t TensorRep) Dual() TensorRep {
	ranks := make([]Rank, len(t.ranks))
	for i, r := range t.ranks {
		ranks[i] = r.Dual()
	}
	return TensorRep{ranks: ranks, group: t.group}
}

// RankCount is a tensor rank with its multiplicity in a representation.
type RankCount struct {
	Rank  Rank
	Count int
}

// collapse maps (p,q) to (p+q,0) for unimodular groups, under which the dual
// representation is equivalent to the ordinary one.
func (t TensorRep) collapse(r Rank) Rank {
	if t.group.Unimodular() {
		return Rank{P: r.Total(), Q: 0}
	}
	return r
}

// Multiplicities counts the ranks of the representation, ordered by first
// occurrence, collapsing dual factors for unimodular groups.
func (t TensorRep) Multiplicities() []RankCount {
	var out []RankCount
	index := make(map[Rank]int)
	for _, r := range t.ranks {
		key := t.collapse(r)
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, RankCount{Rank: key, Count: 1})
	}
	return out
}

// Argsort returns the permutation that groups the flattened representation
// vector by rank, in multiplicity order: grouped[i] = v[perm[i]].
func (t TensorRep) Argsort() []int {
	buckets := make(map[Rank][]int)
	var order []Rank
	i := 0
	for _, r := range t.ranks {
		key := t.collapse(r)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		size := r.Size(t.group.D)
		for j := 0; j < size; j++ {
			buckets[key] = append(buckets[key], i+j)
		}
		i += size
	}
	perm := make([]int, 0, i)
	for _, key := range order {
		perm = append(perm, buckets[key]...)
	}
	return perm
}

// Rho returns the block-diagonal action of a group element on the whole
// representation.
func (t TensorRep) Rho(g *mat.Dense) (linop.Operator, error) {
	blocks := make([]linop.Operator, len(t.ranks))
	for i, r := range t.ranks {
		op, err := Rho(g, r)
		if err != nil {
			return nil, err
		}
		blocks[i] = op
	}
	ds, err := linop.NewDirectSum(blocks, nil)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// String renders the representation as a sum of tensor types, e.g.
// "2T(1)+T(2) @ d=3".
func (t TensorRep) String() string {
	var parts []string
	for _, rc := range t.Multiplicities() {
		prefix := ""
		if rc.Count > 1 {
			prefix = fmt.Sprintf("%d", rc.Count)
		}
		parts = append(parts, prefix+rc.Rank.String())
	}
	if len(parts) == 0 {
		return "0"
	}
	return fmt.Sprintf("%s @ d=%d", strings.Join(parts, "+"), t.group.D)
}
