package ports

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/bitterness"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

// CalculationRequest is one hop schedule to evaluate
type CalculationRequest struct {
	Boil    domain.BoilContext
	Cooling domain.CoolingContext
	Method  bitterness.Method
	Config  bitterness.IntegrationConfig
	Hops    []domain.HopAddition
}

// Calculator runs bitterness estimates and keeps a history of them
type Calculator struct {
	repo domain.CalculationRepository
}

// NewCalculator creates a calculator that records into repo
func NewCalculator(repo domain.CalculationRepository) *Calculator {
	return &Calculator{repo: repo}
}

// Calculate evaluates every addition and saves the outcome.
// Validation errors are returned untouched so callers can classify them.
func (c *Calculator) Calculate(ctx context.Context, req CalculationRequest) (*domain.Calculation, bitterness.Schedule, error) {
	if len(req.Hops) == 0 {
		return nil, bitterness.Schedule{}, &domain.ValidationError{Field: "additions", Reason: "at least one hop addition is required"}
	}

	estimator := bitterness.Estimator{
		Boil:    req.Boil,
		Cooling: req.Cooling,
		Config:  req.Config,
		Method:  req.Method,
	}

	schedule, err := estimator.EstimateAll(ctx, req.Hops)
	if err != nil {
		return nil, bitterness.Schedule{}, err
	}

	results := make([]domain.HopResult, len(schedule.Estimates))
	for i, est := range schedule.Estimates {
		results[i] = domain.HopResult{
			Name:        est.Hop.Name,
			Stage:       est.Hop.Stage,
			Grams:       est.Hop.Grams,
			AlphaAcid:   est.Hop.AlphaAcid,
			Minutes:     est.Hop.Minutes,
			Utilization: est.Utilization,
			IBU:         est.IBU,
		}
	}

	calc := domain.NewCalculation(req.Method.String(), req.Boil, req.Cooling, results)
	if err := c.repo.SaveCalculation(ctx, calc); err != nil {
		return nil, bitterness.Schedule{}, fmt.Errorf("failed to save calculation: %w", err)
	}

	log.Info().
		Str("id", calc.ID).
		Str("method", calc.Method).
		Int("additions", len(results)).
		Float64("ibu", calc.TotalIBU).
		Msg("recorded bitterness calculation")

	return calc, schedule, nil
}
