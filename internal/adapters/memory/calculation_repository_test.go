package memory

import (
	"context"
	"testing"
	"time"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

func saveAt(t *testing.T, repo *CalculationRepository, ts time.Time) *domain.Calculation {
	t.Helper()
	calc := domain.NewCalculation("tinseth", domain.BoilContext{}, domain.CoolingContext{}, nil)
	calc.CreatedAt = ts
	if err := repo.SaveCalculation(context.Background(), calc); err != nil {
		t.Fatalf("SaveCalculation failed: %v", err)
	}
	return calc
}

func TestGetCalculationsInRange_HalfOpen(t *testing.T) {
	repo := NewCalculationRepository()
	ctx := context.Background()

	ts := time.Now()
	calc := saveAt(t, repo, ts)

	results, _ := repo.GetCalculationsInRange(ctx, ts, ts.Add(time.Second))
	if len(results) != 1 || results[0].ID != calc.ID {
		t.Errorf("expected start to be inclusive, got %d results", len(results))
	}

	results, _ = repo.GetCalculationsInRange(ctx, ts.Add(-time.Second), ts)
	if len(results) != 0 {
		t.Errorf("expected end to be exclusive, got %d results", len(results))
	}
}

func TestGetLatestAndDelete(t *testing.T) {
	repo := NewCalculationRepository()
	ctx := context.Background()

	if _, err := repo.GetLatestCalculation(ctx); err != domain.ErrCalculationNotFound {
		t.Errorf("expected ErrCalculationNotFound, got %v", err)
	}

	now := time.Now()
	old := saveAt(t, repo, now.Add(-48*time.Hour))
	recent := saveAt(t, repo, now.Add(-time.Minute))

	latest, err := repo.GetLatestCalculation(ctx)
	if err != nil || latest.ID != recent.ID {
		t.Fatalf("expected latest %s, got %v (%v)", recent.ID, latest, err)
	}

	if err := repo.DeleteOldCalculations(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldCalculations failed: %v", err)
	}
	if _, err := repo.GetCalculation(ctx, old.ID); err != domain.ErrCalculationNotFound {
		t.Errorf("expected old calculation to be deleted, got %v", err)
	}
	if _, err := repo.GetCalculation(ctx, recent.ID); err != nil {
		t.Errorf("expected recent calculation to remain, got %v", err)
	}
}
