package experiments

import (
	"context"
	"fmt"

	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/groups"
	"github.com/gbarbieri/equisuite/internal/rep"
	"github.com/gbarbieri/equisuite/internal/results"
)

func init() { register(diagExperiment{}) }

// diagExperiment checks that extracting the diagonal of a matrix is a
// permutation-equivariant map. The extractor is an order-3 tensor with ones
// where all indices agree; it must lie in the S(d)-equivariant subspace of
// T(3), whose dimension stabilises at the Bell number B(3)=5 once d >= 3.
type diagExperiment struct{}

func (diagExperiment) Name() string { return "diag" }

func (diagExperiment) Description() string {
	return "diagonal extraction as a permutation-equivariant order-3 tensor"
}

func (diagExperiment) Run(ctx context.Context, params domain.RunParams, rec *results.Recorder) error {
	for d := params.MinDim; d <= params.MaxDim; d++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		g := groups.S(d)
		q, err := rep.EquivariantBasis(g, rep.Rank{P: 3, Q: 0})
		if err != nil {
			return fmt.Errorf("basis for %s: %w", g, err)
		}
		rec.Record("basis_dim", float64(d), float64(rep.BasisDim(q)))

		extractor := make([]float64, d*d*d)
		for i := 0; i < d; i++ {
			extractor[i*d*d+i*d+i] = 1
		}
		rec.Record("diag_residual", float64(d), spanResidual(q, extractor))
	}
	return nil
}
