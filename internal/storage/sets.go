package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/models"
)

// RecentSets returns up to limit sets for an exercise, newest first.
func (db *DB) RecentSets(ctx context.Context, userID int, exerciseID int64, limit int) ([]models.Set, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, exercise_id, weight_kg, reps, created_at
		FROM sets
		WHERE user_id = $1 AND exercise_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, userID, exerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent sets: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

// InsertSets inserts count identical sets for an exercise in a single
// statement. Each row receives its own id and store-assigned timestamp.
// Returns the created rows, newest first.
func (db *DB) InsertSets(ctx context.Context, userID int, exerciseID int64, weightKg float64, reps, count int) ([]models.Set, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be >= 1, got %d", count)
	}

	query := `INSERT INTO sets (user_id, exercise_id, weight_kg, reps, created_at) VALUES `
	args := make([]any, 0, count*5)
	valueStrings := make([]string, 0, count)

	now := time.Now()
	for i := range count {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
		// Nudge each timestamp forward a microsecond so ordering between
		// rows of one batch is well defined.
		args = append(args, userID, exerciseID, weightKg, reps, now.Add(time.Duration(i)*time.Microsecond))
	}

	query += strings.Join(valueStrings, ",") + " RETURNING id, exercise_id, weight_kg, reps, created_at"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("inserting sets: %w", err)
	}
	defer rows.Close()

	created, err := scanSets(rows)
	if err != nil {
		return nil, err
	}
	// RETURNING yields insertion order (oldest first); callers expect the
	// recency-window ordering.
	for i, j := 0, len(created)-1; i < j; i, j = i+1, j-1 {
		created[i], created[j] = created[j], created[i]
	}
	return created, nil
}

// InsertImportedSets batch-inserts historical sets that carry their own
// timestamps. Returns count inserted.
func (db *DB) InsertImportedSets(ctx context.Context, userID int, rows []models.Set) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO sets (user_id, exercise_id, weight_kg, reps, created_at) VALUES `
	args := make([]any, 0, len(rows)*5)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, userID, r.ExerciseID, r.WeightKg, r.Reps, r.CreatedAt)
	}

	query += strings.Join(valueStrings, ",")

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting imported sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteSet removes a single set. Returns ErrNotFound when no row matches;
// a repeated delete of the same id is an error, not a no-op.
func (db *DB) DeleteSet(ctx context.Context, userID int, setID int64) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM sets WHERE id = $1 AND user_id = $2`, setID, userID)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetWithExercise is a set joined with its exercise name, for history views.
type SetWithExercise struct {
	models.Set
	ExerciseName string `json:"exercise_name"`
}

// QueryAllSets returns the user's full set history joined with exercise
// names, newest first.
func (db *DB) QueryAllSets(ctx context.Context, userID int) ([]SetWithExercise, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT s.id, s.exercise_id, s.weight_kg, s.reps, s.created_at, e.name
		FROM sets s
		JOIN exercises e ON e.id = s.exercise_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying set history: %w", err)
	}
	defer rows.Close()

	var result []SetWithExercise
	for rows.Next() {
		var s SetWithExercise
		if err := rows.Scan(&s.ID, &s.ExerciseID, &s.WeightKg, &s.Reps, &s.CreatedAt, &s.ExerciseName); err != nil {
			return nil, fmt.Errorf("scanning set history row: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanSets(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.Set, error) {
	var result []models.Set
	for rows.Next() {
		var s models.Set
		if err := rows.Scan(&s.ID, &s.ExerciseID, &s.WeightKg, &s.Reps, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
