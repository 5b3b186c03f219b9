package experiments

import (
	"context"
	"fmt"

	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/groups"
	"github.com/gbarbieri/equisuite/internal/rep"
	"github.com/gbarbieri/equisuite/internal/results"
)

func init() { register(invariantsExperiment{}) }

// invariantsExperiment counts equivariant tensors of each order across the
// dimension sweep. For the symmetric group the counts converge to the Bell
// numbers once d exceeds the order, so those are recorded alongside as a
// reference series.
type invariantsExperiment struct{}

func (invariantsExperiment) Name() string { return "invariants" }

func (invariantsExperiment) Description() string {
	return "equivariant tensor counts per order and dimension"
}

func (invariantsExperiment) Run(ctx context.Context, params domain.RunParams, rec *results.Recorder) error {
	// Order 0 is the scalar representation: always one invariant.
	for k := 0; k <= params.MaxRank; k++ {
		for d := params.MinDim; d <= params.MaxDim; d++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := groups.ByName(params.Group, d)
			if err != nil {
				return err
			}
			q, err := rep.EquivariantBasis(g, rep.Rank{P: k, Q: 0})
			if err != nil {
				return fmt.Errorf("basis for %s order %d: %w", g, k, err)
			}
			rec.Record(fmt.Sprintf("dim_T%d", k), float64(d), float64(rep.BasisDim(q)))
			if g.Name == "S" {
				rec.Record(fmt.Sprintf("bell_T%d", k), float64(d), float64(Bell(k)))
			}
		}
	}
	return nil
}

// Bell returns the k-th Bell number, the count of partitions of a k-element
// set, via the Bell triangle.
func Bell(k int) int {
	if k <= 0 {
		return 1
	}
	row := []int{1}
	for i := 1; i <= k; i++ {
		next := make([]int, i+1)
		next[0] = row[len(row)-1]
		for j := 1; j <= i; j++ {
			next[j] = next[j-1] + row[j-1]
		}
		row = next
	}
	return row[0]
}
