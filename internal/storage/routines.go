package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/gymlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// ListRoutines returns the user's routines, newest first.
func (db *DB) ListRoutines(ctx context.Context, userID int) ([]models.Routine, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, created_at FROM routines WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying routines: %w", err)
	}
	defer rows.Close()

	var result []models.Routine
	for rows.Next() {
		var r models.Routine
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning routine: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetRoutine retrieves a single routine. Returns ErrNotFound if missing.
func (db *DB) GetRoutine(ctx context.Context, userID int, routineID int64) (models.Routine, error) {
	var r models.Routine
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM routines WHERE id = $1 AND user_id = $2`,
		routineID, userID).Scan(&r.ID, &r.Name, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Routine{}, ErrNotFound
	}
	if err != nil {
		return models.Routine{}, fmt.Errorf("querying routine: %w", err)
	}
	return r, nil
}

// CreateRoutine inserts a routine and its exercise list in one transaction.
// Order indexes are 1-based and follow the order of exerciseIDs.
func (db *DB) CreateRoutine(ctx context.Context, userID int, name string, exerciseIDs []int64) (models.Routine, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.Routine{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var r models.Routine
	err = tx.QueryRow(ctx,
		`INSERT INTO routines (user_id, name) VALUES ($1, $2) RETURNING id, name, created_at`,
		userID, name).Scan(&r.ID, &r.Name, &r.CreatedAt)
	if err != nil {
		return models.Routine{}, fmt.Errorf("inserting routine: %w", err)
	}

	for i, exID := range exerciseIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO routine_exercises (routine_id, exercise_id, order_index) VALUES ($1, $2, $3)`,
			r.ID, exID, i+1)
		if err != nil {
			return models.Routine{}, fmt.Errorf("inserting routine exercise: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Routine{}, fmt.Errorf("committing routine: %w", err)
	}
	return r, nil
}
