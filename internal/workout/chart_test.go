package workout

import (
	"testing"
	"time"

	"github.com/claude/gymlog/internal/models"
)

// TestBuildSeriesReversesWindow verifies that a newest-first window becomes
// an oldest-first series with "2 Jan" style labels.
func TestBuildSeriesReversesWindow(t *testing.T) {
	window := []models.Set{
		{ID: 3, WeightKg: 85, CreatedAt: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)},
		{ID: 2, WeightKg: 82.5, CreatedAt: time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)},
		{ID: 1, WeightKg: 80, CreatedAt: time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)},
	}

	got := BuildSeries(window)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	want := []ChartPoint{
		{Date: "5 Mar", Weight: 80},
		{Date: "7 Mar", Weight: 82.5},
		{Date: "10 Mar", Weight: 85},
	}
	for i, p := range want {
		if got[i] != p {
			t.Errorf("point %d = %+v, want %+v", i, got[i], p)
		}
	}
}

// TestBuildSeriesSameDay verifies that two sets on the same day stay separate
// points; the date axis is categorical.
func TestBuildSeriesSameDay(t *testing.T) {
	day := time.Date(2026, 4, 1, 17, 30, 0, 0, time.UTC)
	window := []models.Set{
		{ID: 2, WeightKg: 100, CreatedAt: day.Add(5 * time.Minute)},
		{ID: 1, WeightKg: 95, CreatedAt: day},
	}

	got := BuildSeries(window)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Date != got[1].Date {
		t.Errorf("labels differ: %q vs %q", got[0].Date, got[1].Date)
	}
	if got[0].Weight != 95 || got[1].Weight != 100 {
		t.Errorf("weights = %v/%v, want 95/100", got[0].Weight, got[1].Weight)
	}
}

// TestBuildSeriesEmpty verifies that an empty window yields no series.
func TestBuildSeriesEmpty(t *testing.T) {
	if got := BuildSeries(nil); got != nil {
		t.Errorf("BuildSeries(nil) = %v, want nil", got)
	}
}

// TestHasEnoughData verifies the drawable threshold of two points.
func TestHasEnoughData(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   bool
	}{
		{"empty", 0, false},
		{"single point", 1, false},
		{"two points", 2, true},
		{"full window", HistoryWindow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := make([]ChartPoint, tt.points)
			if got := HasEnoughData(series); got != tt.want {
				t.Errorf("HasEnoughData(%d points) = %v, want %v", tt.points, got, tt.want)
			}
		})
	}
}
