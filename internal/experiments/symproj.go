package experiments

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/groups"
	"github.com/gbarbieri/equisuite/internal/linop"
	"github.com/gbarbieri/equisuite/internal/rep"
	"github.com/gbarbieri/equisuite/internal/results"
)

func init() { register(symprojExperiment{}) }

// symprojExperiment probes the symmetric projector on a mixed representation
// T(1)+T(2): projecting twice must agree with projecting once, and the
// projector must commute with the action of random group elements.
type symprojExperiment struct{}

func (symprojExperiment) Name() string { return "symproj" }

func (symprojExperiment) Description() string {
	return "idempotency and equivariance of the symmetric projector"
}

func (symprojExperiment) Run(ctx context.Context, params domain.RunParams, rec *results.Recorder) error {
	rng := rand.New(rand.NewSource(params.Seed))
	for d := params.MinDim; d <= params.MaxDim; d++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := groups.ByName(params.Group, d)
		if err != nil {
			return err
		}
		r := rep.T(1, 0, g).Add(rep.T(2, 0, g))
		proj, err := rep.SymmetricProjector(r)
		if err != nil {
			return fmt.Errorf("projector for %s: %w", g, err)
		}
		dim, _, err := rep.SymmetricSubspace(r)
		if err != nil {
			return err
		}
		rec.Record("subspace_dim", float64(d), float64(dim))

		var idemSum, equivSum float64
		for t := 0; t < params.Trials; t++ {
			v := make([]float64, r.Size())
			for i := range v {
				v[i] = rng.NormFloat64()
			}
			pv, err := proj(v)
			if err != nil {
				return err
			}
			ppv, err := proj(pv)
			if err != nil {
				return err
			}
			idemSum += vecNormDiff(ppv, pv)

			rho, err := r.Rho(g.Sample(rng))
			if err != nil {
				return err
			}
			gv := linop.MulVec(rho, v)
			pgv, err := proj(gv)
			if err != nil {
				return err
			}
			gpv := linop.MulVec(rho, pv)
			equivSum += vecNormDiff(pgv, gpv)
		}
		n := float64(params.Trials)
		rec.Record("idempotency_err", float64(d), idemSum/n)
		rec.Record("equivariance_err", float64(d), equivSum/n)
	}
	return nil
}
