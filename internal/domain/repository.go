package domain

import (
	"context"
	"time"
)

// CalculationRepository defines operations for storing/retrieving calculations
// This is a PORT - adapters (SQLite, Memory) implement it
type CalculationRepository interface {
	// SaveCalculation persists a calculation with its hop results
	SaveCalculation(ctx context.Context, calc *Calculation) error

	// GetCalculation retrieves a specific calculation by ID
	GetCalculation(ctx context.Context, id string) (*Calculation, error)

	// GetCalculationsInRange retrieves all calculations within time range.
	// Uses a half-open interval: inclusive start, exclusive end [start, end).
	GetCalculationsInRange(ctx context.Context, start, end time.Time) ([]*Calculation, error)

	// GetLatestCalculation retrieves the most recent calculation
	GetLatestCalculation(ctx context.Context) (*Calculation, error)

	// DeleteOldCalculations removes calculations older than specified duration
	DeleteOldCalculations(ctx context.Context, olderThan time.Duration) error
}
