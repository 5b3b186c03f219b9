package experiments

import (
	"context"
	"fmt"

	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/groups"
	"github.com/gbarbieri/equisuite/internal/rep"
	"github.com/gbarbieri/equisuite/internal/results"
)

func init() { register(traceExperiment{}) }

// traceExperiment sweeps the base dimension and measures the equivariant
// subspace of linear maps R^d -> R^d. For the orthogonal groups that
// subspace is spanned by the identity, so the vectorised identity matrix
// should sit in the computed basis with vanishing residual.
type traceExperiment struct{}

func (traceExperiment) Name() string { return "trace" }

func (traceExperiment) Description() string {
	return "equivariant matrices per dimension and the identity's span residual"
}

func (traceExperiment) Run(ctx context.Context, params domain.RunParams, rec *results.Recorder) error {
	for d := params.MinDim; d <= params.MaxDim; d++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := groups.ByName(params.Group, d)
		if err != nil {
			return err
		}
		q, err := rep.EquivariantBasis(g, rep.Rank{P: 1, Q: 1})
		if err != nil {
			return fmt.Errorf("basis for %s: %w", g, err)
		}
		rec.Record("basis_dim", float64(d), float64(rep.BasisDim(q)))

		eye := make([]float64, d*d)
		for i := 0; i < d; i++ {
			eye[i*d+i] = 1
		}
		rec.Record("trace_residual", float64(d), spanResidual(q, eye))
	}
	return nil
}
