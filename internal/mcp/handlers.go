package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx, UserIDFromContext(ctx))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(exercises)
}

func (h *handlers) logSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	weight, err := req.RequireFloat("weight_kg")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	count := req.GetInt("count", 1)

	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("exercise name must not be empty"), nil
	}
	if weight <= 0 || reps <= 0 || count < 1 {
		return mcp.NewToolResultError("weight_kg and reps must be positive, count at least 1"), nil
	}

	uid := UserIDFromContext(ctx)
	exercise, err := h.ds.GetOrCreateExercise(ctx, uid, strings.TrimSpace(name))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	created, err := h.ds.InsertSets(ctx, uid, exercise.ID, weight, reps, count)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.log.Info("sets logged via mcp", "exercise", exercise.Name, "count", count)
	return jsonResult(map[string]any{
		"exercise": exercise,
		"logged":   created,
	})
}

func (h *handlers) getRecentSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", workout.HistoryWindow)
	if limit < 1 {
		limit = workout.HistoryWindow
	}

	uid := UserIDFromContext(ctx)
	exercise, err := h.findExercise(ctx, uid, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sets, err := h.ds.RecentSets(ctx, uid, exercise.ID, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"exercise": exercise,
		"sets":     sets,
	})
}

func (h *handlers) getProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	exercise, err := h.findExercise(ctx, uid, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	window, err := h.ds.RecentSets(ctx, uid, exercise.ID, workout.HistoryWindow)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	series := workout.BuildSeries(window)
	return jsonResult(map[string]any{
		"exercise":          exercise,
		"series":            series,
		"insufficient_data": !workout.HasEnoughData(series),
	})
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 30)
	if days < 1 {
		days = 30
	}
	grouped, err := h.groupedHistory(ctx, UserIDFromContext(ctx), days)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(grouped)
}

func (h *handlers) recentHistory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	grouped, err := h.groupedHistory(ctx, UserIDFromContext(ctx), 30)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(grouped)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// daySummary mirrors the HTTP history view: one calendar day of sets with
// its total volume.
type daySummary struct {
	Date        string                    `json:"date"`
	Sets        []storage.SetWithExercise `json:"sets"`
	TotalVolume float64                   `json:"total_volume"`
}

func (h *handlers) groupedHistory(ctx context.Context, userID, days int) ([]daySummary, error) {
	sets, err := h.ds.QueryAllSets(ctx, userID)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	grouped := []daySummary{}
	index := map[string]int{}
	for _, set := range sets {
		if set.CreatedAt.Before(cutoff) {
			continue
		}
		key := set.CreatedAt.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(grouped)
			index[key] = i
			grouped = append(grouped, daySummary{Date: key})
		}
		grouped[i].Sets = append(grouped[i].Sets, set)
		grouped[i].TotalVolume += set.WeightKg * float64(set.Reps)
	}
	return grouped, nil
}

// findExercise resolves a name to a catalog exercise: exact match first,
// then case-insensitive substring.
func (h *handlers) findExercise(ctx context.Context, userID int, name string) (models.Exercise, error) {
	exercises, err := h.ds.ListExercises(ctx, userID)
	if err != nil {
		return models.Exercise{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, e := range exercises {
		if strings.ToLower(e.Name) == needle {
			return e, nil
		}
	}
	for _, e := range exercises {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			return e, nil
		}
	}
	return models.Exercise{}, fmt.Errorf("no exercise matches %q", name)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
