package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/academia-sys/academia-api/internal/models"
)

// CycleRepository handles persistence of academic cycles.
type CycleRepository struct {
	store *Store
}

// NewCycleRepository constructs the repository.
func NewCycleRepository(store *Store) *CycleRepository {
	return &CycleRepository{store: store}
}

// List returns all cycles, newest first.
func (r *CycleRepository) List(ctx context.Context) ([]models.Cycle, error) {
	const query = `SELECT id, name, start_date, end_date, duration_months, status FROM cycles ORDER BY id DESC`
	var cycles []models.Cycle
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &cycles, query); err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return cycles, nil
}

// ListActive returns cycles that can still receive offerings.
func (r *CycleRepository) ListActive(ctx context.Context) ([]models.Cycle, error) {
	const query = `SELECT id, name, start_date, end_date, duration_months, status FROM cycles WHERE status = $1 OR status = $2 ORDER BY id DESC`
	var cycles []models.Cycle
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &cycles, query, models.CycleStatusOpen, models.CycleStatusInProgress); err != nil {
		return nil, fmt.Errorf("list active cycles: %w", err)
	}
	return cycles, nil
}

// FindByID returns a cycle by its ID.
func (r *CycleRepository) FindByID(ctx context.Context, id int64) (*models.Cycle, error) {
	const query = `SELECT id, name, start_date, end_date, duration_months, status FROM cycles WHERE id = $1`
	var cycle models.Cycle
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &cycle, query, id); err != nil {
		return nil, err
	}
	return &cycle, nil
}

// Create persists a new cycle and assigns its ID.
func (r *CycleRepository) Create(ctx context.Context, cycle *models.Cycle) error {
	if cycle.Status == "" {
		cycle.Status = models.CycleStatusOpen
	}
	const query = `INSERT INTO cycles (name, start_date, end_date, duration_months, status)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, cycle.Name, cycle.StartDate, cycle.EndDate, cycle.DurationMonths, cycle.Status)
	if err := row.Scan(&cycle.ID); err != nil {
		return fmt.Errorf("create cycle: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a cycle.
func (r *CycleRepository) Update(ctx context.Context, cycle *models.Cycle) error {
	if cycle.Status == "" {
		cycle.Status = models.CycleStatusOpen
	}
	const query = `UPDATE cycles SET name = $2, start_date = $3, end_date = $4, duration_months = $5, status = $6 WHERE id = $1`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, cycle.ID, cycle.Name, cycle.StartDate, cycle.EndDate, cycle.DurationMonths, cycle.Status); err != nil {
		return fmt.Errorf("update cycle: %w", err)
	}
	return nil
}

// Delete removes a cycle row.
func (r *CycleRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.store.ext(ctx).ExecContext(ctx, `DELETE FROM cycles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cycle: %w", err)
	}
	return nil
}
