package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymlog/internal/models"
)

// ListExercises returns the user's full exercise catalog ordered by name.
func (db *DB) ListExercises(ctx context.Context, userID int) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name FROM exercises WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CreateExercise inserts a new exercise and returns the created row.
func (db *DB) CreateExercise(ctx context.Context, userID int, name string) (models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (user_id, name) VALUES ($1, $2) RETURNING id, name`,
		userID, name).Scan(&e.ID, &e.Name)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("inserting exercise: %w", err)
	}
	return e, nil
}

// GetOrCreateExercise finds an exercise by name, inserting it if missing.
// Used by the import path, where exercises arrive as bare names.
func (db *DB) GetOrCreateExercise(ctx context.Context, userID int, name string) (models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO exercises (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, userID, name).Scan(&e.ID, &e.Name)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("upserting exercise: %w", err)
	}
	return e, nil
}

// RoutineExercises returns a routine's exercises with their order indexes,
// ordered ascending. Empty slice if the routine has none.
func (db *DB) RoutineExercises(ctx context.Context, userID int, routineID int64) ([]models.RoutineExercise, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT e.id, e.name, re.order_index
		FROM routine_exercises re
		JOIN exercises e ON e.id = re.exercise_id
		JOIN routines r ON r.id = re.routine_id
		WHERE re.routine_id = $1 AND r.user_id = $2
		ORDER BY re.order_index ASC
	`, routineID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying routine exercises: %w", err)
	}
	defer rows.Close()

	var result []models.RoutineExercise
	for rows.Next() {
		var re models.RoutineExercise
		if err := rows.Scan(&re.Exercise.ID, &re.Exercise.Name, &re.OrderIndex); err != nil {
			return nil, fmt.Errorf("scanning routine exercise: %w", err)
		}
		result = append(result, re)
	}
	return result, rows.Err()
}
