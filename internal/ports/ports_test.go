package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/adapters/memory"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/adapters/mock"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/bitterness"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

func testRequest(t *testing.T, hops ...domain.HopAddition) CalculationRequest {
	t.Helper()
	boil, err := domain.NewBoilContext(1.055, 1.065, 60, 20)
	if err != nil {
		t.Fatalf("failed to create boil context: %v", err)
	}
	cooling, err := domain.NewCoolingContext(7, 20, 0.05)
	if err != nil {
		t.Fatalf("failed to create cooling context: %v", err)
	}
	return CalculationRequest{
		Boil:    boil,
		Cooling: cooling,
		Method:  bitterness.MethodMIBU,
		Config:  bitterness.IntegrationConfig{StepMinutes: 0.1},
		Hops:    hops,
	}
}

func TestCalculator_RecordsCalculation(t *testing.T) {
	repo := memory.NewCalculationRepository()
	calc := NewCalculator(repo)
	ctx := context.Background()

	bittering, _ := domain.NewHopAddition("Magnum", domain.StageBoil, 20, 0.12, 60)
	aroma, _ := domain.NewHopAddition("Citra", domain.StageFerment, 80, 0.13, 0)

	got, schedule, err := calc.Calculate(ctx, testRequest(t, bittering, aroma))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if got.Method != "mibu" {
		t.Errorf("expected method mibu, got %q", got.Method)
	}
	if len(got.Hops) != 2 || got.Hops[0].Name != "Magnum" || got.Hops[1].Name != "Citra" {
		t.Fatalf("unexpected hop results: %+v", got.Hops)
	}
	if got.TotalIBU != schedule.TotalIBU || got.TotalIBU <= 0 {
		t.Errorf("total %v does not match schedule %v", got.TotalIBU, schedule.TotalIBU)
	}

	stored, err := repo.GetCalculation(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetCalculation failed: %v", err)
	}
	if stored.TotalIBU != got.TotalIBU {
		t.Errorf("stored total %v, want %v", stored.TotalIBU, got.TotalIBU)
	}
}

func TestCalculator_ValidationIsNotRecorded(t *testing.T) {
	repo := memory.NewCalculationRepository()
	calc := NewCalculator(repo)
	ctx := context.Background()

	tooLong, _ := domain.NewHopAddition("Magnum", domain.StageBoil, 20, 0.12, 75)

	for name, req := range map[string]CalculationRequest{
		"no additions":      testRequest(t),
		"addition too long": testRequest(t, tooLong),
	} {
		_, _, err := calc.Calculate(ctx, req)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}

	if _, err := repo.GetLatestCalculation(ctx); err != domain.ErrCalculationNotFound {
		t.Errorf("expected nothing recorded, got %v", err)
	}
}

func TestCalculator_StorageFailure(t *testing.T) {
	storageErr := errors.New("disk full")
	calc := NewCalculator(mock.NewFailingRepository(storageErr))

	hop, _ := domain.NewHopAddition("Magnum", domain.StageBoil, 20, 0.12, 60)
	_, _, err := calc.Calculate(context.Background(), testRequest(t, hop))
	if !errors.Is(err, storageErr) {
		t.Errorf("expected wrapped storage error, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		t.Error("storage failure must not be classified as invalid input")
	}
}

func TestPruner_DeletesExpiredOnStart(t *testing.T) {
	repo := memory.NewCalculationRepository()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	old := domain.NewCalculation("mibu", domain.BoilContext{}, domain.CoolingContext{}, nil)
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	recent := domain.NewCalculation("mibu", domain.BoilContext{}, domain.CoolingContext{}, nil)
	_ = repo.SaveCalculation(ctx, old)
	_ = repo.SaveCalculation(ctx, recent)

	done := make(chan struct{})
	go func() {
		NewPruner(repo, 24*time.Hour, time.Hour).Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := repo.GetCalculation(ctx, old.ID); err == domain.ErrCalculationNotFound {
			break
		}
		select {
		case <-deadline:
			t.Fatal("old calculation was not pruned")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if _, err := repo.GetCalculation(ctx, recent.ID); err != nil {
		t.Errorf("expected recent calculation to remain, got %v", err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pruner did not stop after cancel")
	}
}
