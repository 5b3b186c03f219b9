package experiments

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/groups"
	"github.com/gbarbieri/equisuite/internal/rep"
	"github.com/gbarbieri/equisuite/internal/results"
)

func init() { register(singvecExperiment{}) }

// singvecExperiment examines the singular spectrum of the equivariance
// constraint matrix as the tensor order grows. The null dimension counts
// equivariant tensors; the spectral gap, the smallest singular value above
// the null threshold, indicates how well-conditioned the subspace
// computation is.
type singvecExperiment struct{}

func (singvecExperiment) Name() string { return "singvec" }

func (singvecExperiment) Description() string {
	return "singular spectrum of the constraint matrix per tensor order"
}

func (singvecExperiment) Run(ctx context.Context, params domain.RunParams, rec *results.Recorder) error {
	g, err := groups.ByName(params.Group, params.MaxDim)
	if err != nil {
		return err
	}
	for k := 1; k <= params.MaxRank; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := rep.ConstraintMatrix(g, rep.Rank{P: k, Q: 0})
		if err != nil {
			return fmt.Errorf("constraints for %s order %d: %w", g, k, err)
		}
		var svd mat.SVD
		if !svd.Factorize(c, mat.SVDNone) {
			return fmt.Errorf("SVD failed to converge for %s order %d", g, k)
		}
		s := svd.Values(nil)
		_, n := c.Dims()

		// A wide matrix has n − min(r,n) structurally zero singular values
		// on top of the computed ones.
		nullDim := n - len(s)
		gap := 0.0
		for i := len(s) - 1; i >= 0; i-- {
			if s[i] > rep.NullTol {
				gap = s[i]
				break
			}
			nullDim++
		}
		rec.Record("null_dim", float64(k), float64(nullDim))
		rec.Record("spectral_gap", float64(k), gap)
	}
	return nil
}
