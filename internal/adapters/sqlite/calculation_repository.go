package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id TEXT PRIMARY KEY,
	method TEXT NOT NULL,
	pre_boil_gravity REAL NOT NULL,
	post_boil_gravity REAL NOT NULL,
	boil_minutes REAL NOT NULL,
	post_boil_litres REAL NOT NULL,
	approach_c REAL NOT NULL,
	target_c REAL NOT NULL,
	cooling_coefficient REAL NOT NULL,
	whirlpool_minutes REAL NOT NULL,
	kettle_surface_area REAL NOT NULL,
	kettle_opening_area REAL NOT NULL,
	total_ibu REAL NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations(created_at);

CREATE TABLE IF NOT EXISTS hop_results (
	calculation_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	stage TEXT NOT NULL,
	grams REAL NOT NULL,
	alpha_acid REAL NOT NULL,
	minutes REAL NOT NULL,
	utilization REAL NOT NULL,
	ibu REAL NOT NULL,
	PRIMARY KEY (calculation_id, position)
);
`

const selectCalculation = `
	SELECT id, method, pre_boil_gravity, post_boil_gravity, boil_minutes, post_boil_litres,
	       approach_c, target_c, cooling_coefficient, whirlpool_minutes,
	       kettle_surface_area, kettle_opening_area, total_ibu, created_at
	FROM calculations
`

// CalculationRepository implements domain.CalculationRepository with SQLite
type CalculationRepository struct {
	db *sql.DB
}

// NewCalculationRepository creates a SQLite-backed repository
func NewCalculationRepository(dbPath string) (*CalculationRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer; avoids SQLITE_BUSY between pool connections
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &CalculationRepository{db: db}, nil
}

// SaveCalculation stores a calculation and its hop results in one transaction
func (r *CalculationRepository) SaveCalculation(ctx context.Context, calc *domain.Calculation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO calculations (
			id, method, pre_boil_gravity, post_boil_gravity, boil_minutes, post_boil_litres,
			approach_c, target_c, cooling_coefficient, whirlpool_minutes,
			kettle_surface_area, kettle_opening_area, total_ibu, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		calc.ID, calc.Method,
		calc.Boil.PreBoilGravity, calc.Boil.PostBoilGravity, calc.Boil.BoilMinutes, calc.Boil.PostBoilLitres,
		calc.Cooling.ApproachC, calc.Cooling.TargetC, calc.Cooling.Coefficient, calc.Cooling.WhirlpoolMinutes,
		calc.Cooling.KettleSurfaceArea, calc.Cooling.KettleOpeningArea,
		calc.TotalIBU, calc.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}

	for i, h := range calc.Hops {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO hop_results (
				calculation_id, position, name, stage, grams, alpha_acid, minutes, utilization, ibu
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			calc.ID, i, h.Name, h.Stage.String(), h.Grams, h.AlphaAcid, h.Minutes, h.Utilization, h.IBU,
		)
		if err != nil {
			return fmt.Errorf("failed to insert hop result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit calculation: %w", err)
	}
	return nil
}

// GetCalculation retrieves a calculation by ID
func (r *CalculationRepository) GetCalculation(ctx context.Context, id string) (*domain.Calculation, error) {
	calc, err := scanCalculation(r.db.QueryRowContext(ctx, selectCalculation+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCalculationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query calculation: %w", err)
	}

	if err := r.loadHops(ctx, calc); err != nil {
		return nil, err
	}
	return calc, nil
}

// GetCalculationsInRange returns calculations created in [start, end)
func (r *CalculationRepository) GetCalculationsInRange(ctx context.Context, start, end time.Time) ([]*domain.Calculation, error) {
	rows, err := r.db.QueryContext(ctx,
		selectCalculation+` WHERE created_at >= ? AND created_at < ? ORDER BY created_at ASC`,
		start.UnixNano(), end.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}

	var calcs []*domain.Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}
	// the pool holds one connection, release it before loading hops
	rows.Close()

	for _, calc := range calcs {
		if err := r.loadHops(ctx, calc); err != nil {
			return nil, err
		}
	}
	return calcs, nil
}

// GetLatestCalculation returns the most recent calculation
func (r *CalculationRepository) GetLatestCalculation(ctx context.Context) (*domain.Calculation, error) {
	calc, err := scanCalculation(r.db.QueryRowContext(ctx, selectCalculation+` ORDER BY created_at DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCalculationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest calculation: %w", err)
	}

	if err := r.loadHops(ctx, calc); err != nil {
		return nil, err
	}
	return calc, nil
}

// DeleteOldCalculations removes calculations older than specified duration
func (r *CalculationRepository) DeleteOldCalculations(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UnixNano()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM hop_results
		WHERE calculation_id IN (SELECT id FROM calculations WHERE created_at < ?)`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete old hop results: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM calculations WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("failed to delete old calculations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *CalculationRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row scanner) (*domain.Calculation, error) {
	var (
		calc      domain.Calculation
		createdAt int64
	)
	err := row.Scan(
		&calc.ID, &calc.Method,
		&calc.Boil.PreBoilGravity, &calc.Boil.PostBoilGravity, &calc.Boil.BoilMinutes, &calc.Boil.PostBoilLitres,
		&calc.Cooling.ApproachC, &calc.Cooling.TargetC, &calc.Cooling.Coefficient, &calc.Cooling.WhirlpoolMinutes,
		&calc.Cooling.KettleSurfaceArea, &calc.Cooling.KettleOpeningArea,
		&calc.TotalIBU, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	calc.CreatedAt = time.Unix(0, createdAt)
	return &calc, nil
}

func (r *CalculationRepository) loadHops(ctx context.Context, calc *domain.Calculation) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, stage, grams, alpha_acid, minutes, utilization, ibu
		FROM hop_results
		WHERE calculation_id = ?
		ORDER BY position ASC`, calc.ID)
	if err != nil {
		return fmt.Errorf("failed to query hop results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			h     domain.HopResult
			stage string
		)
		if err := rows.Scan(&h.Name, &stage, &h.Grams, &h.AlphaAcid, &h.Minutes, &h.Utilization, &h.IBU); err != nil {
			return fmt.Errorf("failed to scan hop result: %w", err)
		}
		if h.Stage, err = domain.ParseStage(stage); err != nil {
			return fmt.Errorf("failed to parse stage: %w", err)
		}
		calc.Hops = append(calc.Hops, h)
	}
	return rows.Err()
}
