package mcp

import (
	"context"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	ListExercises(ctx context.Context, userID int) ([]models.Exercise, error)
	GetOrCreateExercise(ctx context.Context, userID int, name string) (models.Exercise, error)
	RecentSets(ctx context.Context, userID int, exerciseID int64, limit int) ([]models.Set, error)
	InsertSets(ctx context.Context, userID int, exerciseID int64, weightKg float64, reps, count int) ([]models.Set, error)
	QueryAllSets(ctx context.Context, userID int) ([]storage.SetWithExercise, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
