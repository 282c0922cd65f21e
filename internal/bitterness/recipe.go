package bitterness

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

// Schedule is the combined result for a list of hop additions
type Schedule struct {
	Estimates []Estimate // same order as the additions
	TotalIBU  float64
}

// EstimateAll evaluates every addition concurrently.
// Additions are independent, so the first failure cancels the rest.
func (e Estimator) EstimateAll(ctx context.Context, hops []domain.HopAddition) (Schedule, error) {
	estimates := make([]Estimate, len(hops))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, hop := range hops {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			est, err := e.Estimate(hop)
			if err != nil {
				return fmt.Errorf("hop %d (%s): %w", i, hop.Name, err)
			}
			estimates[i] = est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Schedule{}, err
	}

	var total float64
	for _, est := range estimates {
		total += est.IBU
	}

	return Schedule{Estimates: estimates, TotalIBU: total}, nil
}
