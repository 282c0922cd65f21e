package ports

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

// Pruner periodically drops calculations older than the retention window
type Pruner struct {
	repo      domain.CalculationRepository
	retention time.Duration
	interval  time.Duration
}

// NewPruner creates a new background pruner
func NewPruner(repo domain.CalculationRepository, retention, interval time.Duration) *Pruner {
	return &Pruner{
		repo:      repo,
		retention: retention,
		interval:  interval,
	}
}

// Start prunes once, then on every tick.
// This runs in a goroutine until context is cancelled
func (p *Pruner) Start(ctx context.Context) {
	log.Info().
		Dur("interval", p.interval).
		Dur("retention", p.retention).
		Msg("starting calculation pruner")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pruneOnce(ctx)

	for {
		select {
		case <-ticker.C:
			p.pruneOnce(ctx)

		case <-ctx.Done():
			log.Info().Msg("stopping calculation pruner")
			return
		}
	}
}

func (p *Pruner) pruneOnce(ctx context.Context) {
	if err := p.repo.DeleteOldCalculations(ctx, p.retention); err != nil {
		log.Error().Err(err).Msg("failed to delete old calculations")
		return
	}
	log.Debug().Dur("retention", p.retention).Msg("deleted old calculations")
}
