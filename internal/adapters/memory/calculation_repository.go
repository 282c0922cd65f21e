package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

// CalculationRepository implements domain.CalculationRepository with in-memory storage
// Handy for development - no database setup needed
type CalculationRepository struct {
	mu           sync.RWMutex
	calculations map[string]*domain.Calculation
}

// NewCalculationRepository creates an empty in-memory repository
func NewCalculationRepository() *CalculationRepository {
	return &CalculationRepository{
		calculations: make(map[string]*domain.Calculation),
	}
}

// SaveCalculation stores a calculation in memory
func (r *CalculationRepository) SaveCalculation(ctx context.Context, calc *domain.Calculation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calculations[calc.ID] = calc
	return nil
}

// GetCalculation retrieves a calculation by ID
func (r *CalculationRepository) GetCalculation(ctx context.Context, id string) (*domain.Calculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calc, exists := r.calculations[id]
	if !exists {
		return nil, domain.ErrCalculationNotFound
	}

	return calc, nil
}

// GetCalculationsInRange returns calculations created in [start, end)
func (r *CalculationRepository) GetCalculationsInRange(ctx context.Context, start, end time.Time) ([]*domain.Calculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.Calculation
	for _, calc := range r.calculations {
		if !calc.CreatedAt.Before(start) && calc.CreatedAt.Before(end) {
			results = append(results, calc)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})

	return results, nil
}

// GetLatestCalculation returns the most recent calculation
func (r *CalculationRepository) GetLatestCalculation(ctx context.Context) (*domain.Calculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.Calculation
	for _, calc := range r.calculations {
		if latest == nil || calc.CreatedAt.After(latest.CreatedAt) {
			latest = calc
		}
	}
	if latest == nil {
		return nil, domain.ErrCalculationNotFound
	}

	return latest, nil
}

// DeleteOldCalculations removes calculations older than specified duration
func (r *CalculationRepository) DeleteOldCalculations(ctx context.Context, olderThan time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)

	for id, calc := range r.calculations {
		if calc.CreatedAt.Before(cutoff) {
			delete(r.calculations, id)
		}
	}

	return nil
}
