// Package experiments holds the numerical studies the suite can run. Each
// experiment sweeps a parameter range, measures equivariant-subspace
// quantities, and records named series through a results.Recorder.
package experiments

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/results"
)

// Experiment is a runnable numerical study.
type Experiment interface {
	// Name is the identifier used on the command line and in result paths.
	Name() string
	// Description is a one-line summary for listings.
	Description() string
	Run(ctx context.Context, params domain.RunParams, rec *results.Recorder) error
}

var registry = map[string]Experiment{}

func register(e Experiment) {
	registry[e.Name()] = e
}

// All returns every registered experiment, sorted by name.
func All() []Experiment {
	out := make([]Experiment, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Lookup resolves an experiment by name.
func Lookup(name string) (Experiment, error) {
	e, ok := registry[name]
	if !ok {
		names := make([]string, 0, len(registry))
		for n := range registry {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown experiment %q (available: %s)", name, strings.Join(names, ", "))
	}
	return e, nil
}

// spanResidual measures how far v lies from the row space of q: the relative
// norm of v minus its orthogonal projection QᵀQv. A nil basis gives 1.
func spanResidual(q *mat.Dense, v []float64) float64 {
	vec := mat.NewVecDense(len(v), v)
	norm := mat.Norm(vec, 2)
	if norm == 0 {
		return 0
	}
	if q == nil {
		return 1
	}
	var coeffs, proj, diff mat.VecDense
	coeffs.MulVec(q, vec)
	proj.MulVec(q.T(), &coeffs)
	diff.SubVec(vec, &proj)
	return mat.Norm(&diff, 2) / norm
}

// vecNormDiff returns the euclidean norm of a − b.
func vecNormDiff(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
