package workout

import (
	"testing"

	"github.com/claude/gymlog/internal/models"
)

// TestInitialExercisesOrder verifies that routine exercises come out ordered
// by ascending order index regardless of input order.
func TestInitialExercisesOrder(t *testing.T) {
	routine := []models.RoutineExercise{
		{Exercise: models.Exercise{ID: 3, Name: "Deadlift"}, OrderIndex: 3},
		{Exercise: models.Exercise{ID: 1, Name: "Squat"}, OrderIndex: 1},
		{Exercise: models.Exercise{ID: 2, Name: "Bench Press"}, OrderIndex: 2},
	}

	got := InitialExercises(routine)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantIDs := []int64{1, 2, 3}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("exercise %d = %d (%s), want id %d", i, got[i].ID, got[i].Name, id)
		}
	}
}

// TestInitialExercisesEmpty verifies that an empty routine yields an empty
// working list.
func TestInitialExercisesEmpty(t *testing.T) {
	got := InitialExercises(nil)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

// TestIncludeExtra covers the three resolution cases for an ad-hoc pick.
func TestIncludeExtra(t *testing.T) {
	working := []models.Exercise{
		{ID: 1, Name: "Squat"},
		{ID: 2, Name: "Bench Press"},
	}
	full := []models.Exercise{
		{ID: 1, Name: "Squat"},
		{ID: 2, Name: "Bench Press"},
		{ID: 3, Name: "Deadlift"},
	}

	t.Run("already in working", func(t *testing.T) {
		got, active := IncludeExtra(2, working, full)
		if len(got) != 2 {
			t.Errorf("len = %d, want 2 (no duplicate)", len(got))
		}
		if active != 2 {
			t.Errorf("activeID = %d, want 2", active)
		}
	})

	t.Run("in catalog only", func(t *testing.T) {
		got, active := IncludeExtra(3, working, full)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[2].ID != 3 {
			t.Errorf("appended exercise id = %d, want 3 (appended last)", got[2].ID)
		}
		if got[0].ID != 1 || got[1].ID != 2 {
			t.Errorf("prior order disturbed: %v", got)
		}
		if active != 3 {
			t.Errorf("activeID = %d, want 3", active)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		got, active := IncludeExtra(99, working, full)
		if len(got) != 2 {
			t.Errorf("len = %d, want 2 (unchanged)", len(got))
		}
		if active != 0 {
			t.Errorf("activeID = %d, want 0", active)
		}
	})
}

// TestIncludeExtraIdempotent verifies that resolving the same candidate twice
// leaves exactly one entry in the working list.
func TestIncludeExtraIdempotent(t *testing.T) {
	working := []models.Exercise{{ID: 1, Name: "Squat"}}
	full := []models.Exercise{
		{ID: 1, Name: "Squat"},
		{ID: 2, Name: "Pull-up"},
	}

	once, _ := IncludeExtra(2, working, full)
	twice, active := IncludeExtra(2, once, full)

	if len(twice) != 2 {
		t.Errorf("len after double include = %d, want 2", len(twice))
	}
	if active != 2 {
		t.Errorf("activeID = %d, want 2", active)
	}
	count := 0
	for _, e := range twice {
		if e.ID == 2 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("exercise 2 appears %d times, want 1", count)
	}
}
