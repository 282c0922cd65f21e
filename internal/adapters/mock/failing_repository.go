package mock

import (
	"context"
	"time"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

// FailingRepository simulates a broken storage backend
// This implements the domain.CalculationRepository interface
type FailingRepository struct {
	Err error
}

// NewFailingRepository creates a repository whose every call returns err
func NewFailingRepository(err error) *FailingRepository {
	return &FailingRepository{Err: err}
}

func (r *FailingRepository) SaveCalculation(ctx context.Context, calc *domain.Calculation) error {
	return r.Err
}

func (r *FailingRepository) GetCalculation(ctx context.Context, id string) (*domain.Calculation, error) {
	return nil, r.Err
}

func (r *FailingRepository) GetCalculationsInRange(ctx context.Context, start, end time.Time) ([]*domain.Calculation, error) {
	return nil, r.Err
}

func (r *FailingRepository) GetLatestCalculation(ctx context.Context) (*domain.Calculation, error) {
	return nil, r.Err
}

func (r *FailingRepository) DeleteOldCalculations(ctx context.Context, olderThan time.Duration) error {
	return r.Err
}
