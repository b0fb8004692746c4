package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeDataSource is an in-memory DataSource for tool handler tests.
type fakeDataSource struct {
	exercises []models.Exercise
	sets      map[int64][]models.Set
	allSets   []storage.SetWithExercise
	nextExID  int64
	nextSetID int64
	inserts   int
}

func newFakeDataSource() *fakeDataSource {
	return &fakeDataSource{
		nextExID: 10,
		sets:     make(map[int64][]models.Set),
	}
}

func (f *fakeDataSource) ListExercises(ctx context.Context, userID int) ([]models.Exercise, error) {
	return append([]models.Exercise(nil), f.exercises...), nil
}

func (f *fakeDataSource) GetOrCreateExercise(ctx context.Context, userID int, name string) (models.Exercise, error) {
	for _, e := range f.exercises {
		if e.Name == name {
			return e, nil
		}
	}
	f.nextExID++
	exercise := models.Exercise{ID: f.nextExID, Name: name}
	f.exercises = append(f.exercises, exercise)
	return exercise, nil
}

func (f *fakeDataSource) RecentSets(ctx context.Context, userID int, exerciseID int64, limit int) ([]models.Set, error) {
	sets := f.sets[exerciseID]
	if len(sets) > limit {
		sets = sets[:limit]
	}
	return append([]models.Set(nil), sets...), nil
}

func (f *fakeDataSource) InsertSets(ctx context.Context, userID int, exerciseID int64, weightKg float64, reps, count int) ([]models.Set, error) {
	f.inserts++
	inserted := make([]models.Set, 0, count)
	for range count {
		f.nextSetID++
		set := models.Set{ID: f.nextSetID, ExerciseID: exerciseID, WeightKg: weightKg, Reps: reps, CreatedAt: time.Now()}
		f.sets[exerciseID] = append([]models.Set{set}, f.sets[exerciseID]...)
		inserted = append(inserted, set)
	}
	return inserted, nil
}

func (f *fakeDataSource) QueryAllSets(ctx context.Context, userID int) ([]storage.SetWithExercise, error) {
	return append([]storage.SetWithExercise(nil), f.allSets...), nil
}

var _ DataSource = (*fakeDataSource)(nil)

func newTestHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T, want TextContent", res.Content[0])
	}
	return text.Text
}

// TestLogSet verifies the log_set tool creates the exercise by name and
// inserts the batch.
func TestLogSet(t *testing.T) {
	ds := newFakeDataSource()
	h := newTestHandlers(ds)

	res, err := h.logSet(context.Background(), toolRequest("log_set", map[string]any{
		"exercise":  "Bench Press",
		"weight_kg": 82.5,
		"reps":      8,
		"count":     2,
	}))
	if err != nil {
		t.Fatalf("logSet: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var out struct {
		Exercise models.Exercise `json:"exercise"`
		Logged   []models.Set    `json:"logged"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if out.Exercise.Name != "Bench Press" {
		t.Errorf("exercise = %q, want %q", out.Exercise.Name, "Bench Press")
	}
	if len(out.Logged) != 2 {
		t.Errorf("logged = %d sets, want 2", len(out.Logged))
	}
	if ds.inserts != 1 {
		t.Errorf("insert calls = %d, want 1", ds.inserts)
	}
}

// TestLogSetValidation verifies missing and invalid arguments return tool
// errors without touching the store.
func TestLogSetValidation(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing exercise", map[string]any{"weight_kg": 80.0, "reps": 5}},
		{"missing weight", map[string]any{"exercise": "Squat", "reps": 5}},
		{"missing reps", map[string]any{"exercise": "Squat", "weight_kg": 80.0}},
		{"blank exercise", map[string]any{"exercise": " ", "weight_kg": 80.0, "reps": 5}},
		{"zero weight", map[string]any{"exercise": "Squat", "weight_kg": 0.0, "reps": 5}},
		{"negative reps", map[string]any{"exercise": "Squat", "weight_kg": 80.0, "reps": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := newFakeDataSource()
			h := newTestHandlers(ds)

			res, err := h.logSet(context.Background(), toolRequest("log_set", tt.args))
			if err != nil {
				t.Fatalf("logSet: %v", err)
			}
			if !res.IsError {
				t.Error("result not an error")
			}
			if ds.inserts != 0 {
				t.Errorf("insert calls = %d, want 0", ds.inserts)
			}
		})
	}
}

// TestGetRecentSets verifies name resolution and the window limit.
func TestGetRecentSets(t *testing.T) {
	ds := newFakeDataSource()
	ds.exercises = []models.Exercise{{ID: 1, Name: "Bench Press"}}
	for i := range 25 {
		ds.sets[1] = append(ds.sets[1], models.Set{ID: int64(i + 1), ExerciseID: 1, WeightKg: 80, Reps: 5})
	}
	h := newTestHandlers(ds)

	res, err := h.getRecentSets(context.Background(), toolRequest("get_recent_sets", map[string]any{
		"exercise": "bench",
	}))
	if err != nil {
		t.Fatalf("getRecentSets: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var out struct {
		Exercise models.Exercise `json:"exercise"`
		Sets     []models.Set    `json:"sets"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if out.Exercise.ID != 1 {
		t.Errorf("resolved exercise = %d, want 1", out.Exercise.ID)
	}
	if len(out.Sets) != 20 {
		t.Errorf("sets = %d, want default window of 20", len(out.Sets))
	}
}

// TestGetProgressionInsufficientData verifies a single-point series is
// flagged.
func TestGetProgressionInsufficientData(t *testing.T) {
	ds := newFakeDataSource()
	ds.exercises = []models.Exercise{{ID: 1, Name: "Squat"}}
	ds.sets[1] = []models.Set{{ID: 1, ExerciseID: 1, WeightKg: 100, Reps: 5, CreatedAt: time.Now()}}
	h := newTestHandlers(ds)

	res, err := h.getProgression(context.Background(), toolRequest("get_progression", map[string]any{
		"exercise": "Squat",
	}))
	if err != nil {
		t.Fatalf("getProgression: %v", err)
	}

	var out struct {
		Insufficient bool `json:"insufficient_data"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if !out.Insufficient {
		t.Error("insufficient_data = false with one point, want true")
	}
}

// TestFindExercise covers exact match, substring match, and no match.
func TestFindExercise(t *testing.T) {
	ds := newFakeDataSource()
	ds.exercises = []models.Exercise{
		{ID: 1, Name: "Bench Press"},
		{ID: 2, Name: "Incline Bench Press"},
		{ID: 3, Name: "Squat"},
	}
	h := newTestHandlers(ds)
	ctx := context.Background()

	got, err := h.findExercise(ctx, 1, "bench press")
	if err != nil {
		t.Fatalf("findExercise: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("exact match id = %d, want 1 (not the longer substring match)", got.ID)
	}

	got, err = h.findExercise(ctx, 1, "incline")
	if err != nil {
		t.Fatalf("findExercise: %v", err)
	}
	if got.ID != 2 {
		t.Errorf("substring match id = %d, want 2", got.ID)
	}

	if _, err := h.findExercise(ctx, 1, "deadlift"); err == nil {
		t.Error("findExercise succeeded for unknown name")
	}
}

// TestGroupedHistory verifies day grouping, volume totals, and the cutoff.
func TestGroupedHistory(t *testing.T) {
	ds := newFakeDataSource()
	now := time.Now()
	ds.allSets = []storage.SetWithExercise{
		{Set: models.Set{ID: 3, WeightKg: 100, Reps: 5, CreatedAt: now}, ExerciseName: "Squat"},
		{Set: models.Set{ID: 2, WeightKg: 60, Reps: 10, CreatedAt: now}, ExerciseName: "Bench Press"},
		{Set: models.Set{ID: 1, WeightKg: 90, Reps: 5, CreatedAt: now.AddDate(0, 0, -60)}, ExerciseName: "Squat"},
	}
	h := newTestHandlers(ds)

	grouped, err := h.groupedHistory(context.Background(), 1, 30)
	if err != nil {
		t.Fatalf("groupedHistory: %v", err)
	}
	if len(grouped) != 1 {
		t.Fatalf("days = %d, want 1 (old set cut off)", len(grouped))
	}
	if len(grouped[0].Sets) != 2 {
		t.Errorf("sets = %d, want 2", len(grouped[0].Sets))
	}
	if want := 100*5 + 60*10.0; grouped[0].TotalVolume != want {
		t.Errorf("volume = %v, want %v", grouped[0].TotalVolume, want)
	}
}

// TestRecentHistoryResource verifies the resource emits JSON contents.
func TestRecentHistoryResource(t *testing.T) {
	ds := newFakeDataSource()
	ds.allSets = []storage.SetWithExercise{
		{Set: models.Set{ID: 1, WeightKg: 80, Reps: 8, CreatedAt: time.Now()}, ExerciseName: "Bench Press"},
	}
	h := newTestHandlers(ds)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "gymlog://recent_history"
	contents, err := h.recentHistory(context.Background(), req)
	if err != nil {
		t.Fatalf("recentHistory: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type %T, want TextResourceContents", contents[0])
	}
	if text.MIMEType != "application/json" {
		t.Errorf("mime type = %q, want application/json", text.MIMEType)
	}
	if !strings.Contains(text.Text, "Bench Press") {
		t.Errorf("resource text %q does not mention the logged exercise", text.Text)
	}
}

// TestUserIDContext verifies the round trip and default.
func TestUserIDContext(t *testing.T) {
	if got := UserIDFromContext(context.Background()); got != 1 {
		t.Errorf("default user id = %d, want 1", got)
	}
	ctx := WithUserID(context.Background(), 42)
	if got := UserIDFromContext(ctx); got != 42 {
		t.Errorf("user id = %d, want 42", got)
	}
}
