package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

func newTestRepo(t *testing.T) *CalculationRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewCalculationRepository(dbPath)
	if err != nil {
		t.Fatalf("failed to create SQLite repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func makeCalculation(ibu float64, ts time.Time) *domain.Calculation {
	boil := domain.BoilContext{PreBoilGravity: 1.055, PostBoilGravity: 1.065, BoilMinutes: 60, PostBoilLitres: 20}
	cooling := domain.CoolingContext{
		ApproachC: 7, TargetC: 20, Coefficient: 0.049,
		KettleSurfaceArea: domain.DefaultKettleArea, KettleOpeningArea: domain.DefaultKettleArea,
	}
	calc := domain.NewCalculation("mibu", boil, cooling, []domain.HopResult{
		{Name: "Magnum", Stage: domain.StageBoil, Grams: 20, AlphaAcid: 0.12, Minutes: 60, Utilization: 0.2, IBU: ibu},
		{Name: "Citra", Stage: domain.StageFerment, Grams: 50, AlphaAcid: 0.13},
	})
	calc.CreatedAt = ts
	return calc
}

func TestSaveAndGetCalculation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	calc := makeCalculation(30, time.Now())
	if err := repo.SaveCalculation(ctx, calc); err != nil {
		t.Fatalf("SaveCalculation failed: %v", err)
	}

	got, err := repo.GetCalculation(ctx, calc.ID)
	if err != nil {
		t.Fatalf("GetCalculation failed: %v", err)
	}
	if got.TotalIBU != calc.TotalIBU {
		t.Errorf("got total %v, want %v", got.TotalIBU, calc.TotalIBU)
	}
	if got.Boil != calc.Boil || got.Cooling != calc.Cooling {
		t.Errorf("contexts not round-tripped: %+v %+v", got.Boil, got.Cooling)
	}
	if !got.CreatedAt.Equal(calc.CreatedAt) {
		t.Errorf("got created_at %v, want %v", got.CreatedAt, calc.CreatedAt)
	}
	if len(got.Hops) != 2 {
		t.Fatalf("expected 2 hop results, got %d", len(got.Hops))
	}
	if got.Hops[0] != calc.Hops[0] || got.Hops[1] != calc.Hops[1] {
		t.Errorf("hop results not round-tripped in order: %+v", got.Hops)
	}
}

func TestGetCalculation_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetCalculation(context.Background(), "missing")
	if err != domain.ErrCalculationNotFound {
		t.Errorf("expected ErrCalculationNotFound, got %v", err)
	}
}

func TestGetLatestCalculation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetLatestCalculation(ctx); err != domain.ErrCalculationNotFound {
		t.Errorf("expected ErrCalculationNotFound on empty repo, got %v", err)
	}

	now := time.Now()
	_ = repo.SaveCalculation(ctx, makeCalculation(10, now.Add(-time.Hour)))
	latest := makeCalculation(20, now)
	_ = repo.SaveCalculation(ctx, latest)

	got, err := repo.GetLatestCalculation(ctx)
	if err != nil {
		t.Fatalf("GetLatestCalculation failed: %v", err)
	}
	if got.ID != latest.ID {
		t.Errorf("expected latest %s, got %s", latest.ID, got.ID)
	}
}

func TestGetCalculationsInRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	_ = repo.SaveCalculation(ctx, makeCalculation(10, now.Add(-2*time.Hour)))
	within := makeCalculation(20, now.Add(-time.Hour))
	_ = repo.SaveCalculation(ctx, within)
	_ = repo.SaveCalculation(ctx, makeCalculation(30, now.Add(time.Hour)))

	// start is inclusive, end exclusive
	results, err := repo.GetCalculationsInRange(ctx, within.CreatedAt, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetCalculationsInRange failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 calculation, got %d", len(results))
	}
	if results[0].ID != within.ID {
		t.Errorf("expected %s, got %s", within.ID, results[0].ID)
	}
	if len(results[0].Hops) != 2 {
		t.Errorf("expected hop results to be loaded, got %d", len(results[0].Hops))
	}
}

func TestDeleteOldCalculations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	old := makeCalculation(10, now.Add(-48*time.Hour))
	recent := makeCalculation(20, now.Add(-time.Hour))
	_ = repo.SaveCalculation(ctx, old)
	_ = repo.SaveCalculation(ctx, recent)

	if err := repo.DeleteOldCalculations(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldCalculations failed: %v", err)
	}

	if _, err := repo.GetCalculation(ctx, old.ID); err != domain.ErrCalculationNotFound {
		t.Errorf("expected old calculation to be deleted, got err: %v", err)
	}
	if _, err := repo.GetCalculation(ctx, recent.ID); err != nil {
		t.Errorf("expected recent calculation to remain, got err: %v", err)
	}

	var orphans int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hop_results WHERE calculation_id = ?`, old.ID).Scan(&orphans); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected hop results of deleted calculation to be removed, found %d", orphans)
	}
}
