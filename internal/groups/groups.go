// Package groups defines the matrix groups whose tensor representations the
// suite works with. A group is described by a basis of its Lie algebra and a
// set of discrete generators; equivariance constraints are built from both.
package groups

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Group is a matrix group acting on R^d.
type Group struct {
	Name string
	// D is the dimension of the base space the group acts on.
	D int
	// LieAlgebra is a basis of infinitesimal generators, nil for discrete
	// groups.
	LieAlgebra []*mat.Dense
	// Discrete holds generators of the discrete part of the group.
	Discrete []*mat.Dense
	// Orthogonal marks groups acting by orthogonal matrices. For these the
	// dual representation coincides with the ordinary one, so tensor ranks
	// (p,q) collapse to (p+q,0).
	Orthogonal bool
}

func (g *Group) String() string { return fmt.Sprintf("%s(%d)", g.Name, g.D) }

// Unimodular reports whether rank collapsing applies. All groups currently
// provided are orthogonal, hence unimodular.
func (g *Group) Unimodular() bool { return g.Orthogonal }

// SO returns the special orthogonal group SO(d) with the antisymmetric
// elementary matrices E_ij − E_ji (i<j) as its Lie-algebra basis.
func SO(d int) *Group {
	var gens []*mat.Dense
	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			a := mat.NewDense(d, d, nil)
			a.Set(i, j, 1)
			a.Set(j, i, -1)
			gens = append(gens, a)
		}
	}
	return &Group{Name: "SO", D: d, LieAlgebra: gens, Orthogonal: true}
}

// O returns the orthogonal group O(d): SO(d) plus a coordinate reflection.
func O(d int) *Group {
	g := SO(d)
	refl := identity(d)
	refl.Set(0, 0, -1)
	return &Group{Name: "O", D: d, LieAlgebra: g.LieAlgebra, Discrete: []*mat.Dense{refl}, Orthogonal: true}
}

// S returns the symmetric group S(d) acting by coordinate permutation,
// generated by the adjacent transposition (0 1) and the full cycle.
func S(d int) *Group {
	var gens []*mat.Dense
	if d >= 2 {
		swap := make([]int, d)
		for i := range swap {
			swap[i] = i
		}
		swap[0], swap[1] = 1, 0
		cycle := make([]int, d)
		for i := range cycle {
			cycle[i] = (i + 1) % d
		}
		gens = []*mat.Dense{permMatrix(swap), permMatrix(cycle)}
	}
	return &Group{Name: "S", D: d, Discrete: gens, Orthogonal: true}
}

// Z returns the cyclic group Z(d) generated by the coordinate shift.
func Z(d int) *Group {
	var gens []*mat.Dense
	if d >= 2 {
		cycle := make([]int, d)
		for i := range cycle {
			cycle[i] = (i + 1) % d
		}
		gens = []*mat.Dense{permMatrix(cycle)}
	}
	return &Group{Name: "Z", D: d, Discrete: gens, Orthogonal: true}
}

// Trivial returns the trivial group on R^d. Every linear map is equivariant
// under it.
func Trivial(d int) *Group {
	return &Group{Name: "Trivial", D: d, Orthogonal: true}
}

// ByName resolves a group by its lowercase short name: so, o, s, z, trivial.
func ByName(name string, d int) (*Group, error) {
	switch strings.ToLower(name) {
	case "so":
		return SO(d), nil
	case "o":
		return O(d), nil
	case "s":
		return S(d), nil
	case "z":
		return Z(d), nil
	case "trivial":
		return Trivial(d), nil
	}
	return nil, fmt.Errorf("groups: unknown group %q", name)
}

// Sample draws a random element of the group: a product of random plane
// rotations for the continuous part composed with randomly chosen discrete
// generators. Used to probe equivariance numerically.
func (g *Group) Sample(rng *rand.Rand) *mat.Dense {
	out := identity(g.D)
	if len(g.LieAlgebra) > 0 {
		for i := 0; i < g.D; i++ {
			for j := i + 1; j < g.D; j++ {
				rot := planeRotation(g.D, i, j, rng.Float64()*2*math.Pi)
				tmp := mat.NewDense(g.D, g.D, nil)
				tmp.Mul(rot, out)
				out = tmp
			}
		}
	}
	for _, h := range g.Discrete {
		if rng.Intn(2) == 1 {
			tmp := mat.NewDense(g.D, g.D, nil)
			tmp.Mul(h, out)
			out = tmp
		}
	}
	return out
}

func identity(d int) *mat.Dense {
	m := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func permMatrix(perm []int) *mat.Dense {
	d := len(perm)
	m := mat.NewDense(d, d, nil)
	for i, p := range perm {
		m.Set(i, p, 1)
	}
	return m
}

func planeRotation(d, i, j int, theta float64) *mat.Dense {
	m := identity(d)
	c, s := math.Cos(theta), math.Sin(theta)
	m.Set(i, i, c)
	m.Set(j, j, c)
	m.Set(i, j, -s)
	m.Set(j, i, s)
	return m
}
