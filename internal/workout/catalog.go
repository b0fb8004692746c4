package workout

import (
	"sort"

	"github.com/claude/gymlog/internal/models"
)

// InitialExercises returns a routine's exercises ordered by ascending order
// index, ready to seed a session's working list. Empty routines yield an
// empty list.
func InitialExercises(routine []models.RoutineExercise) []models.Exercise {
	ordered := make([]models.RoutineExercise, len(routine))
	copy(ordered, routine)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	exercises := make([]models.Exercise, 0, len(ordered))
	for _, re := range ordered {
		exercises = append(exercises, re.Exercise)
	}
	return exercises
}

// IncludeExtra resolves an ad-hoc exercise pick against the working list and
// the full catalog. If candidateID is already in working, the list is
// returned unchanged and that id is activated (idempotent, never a
// duplicate). Otherwise the candidate is looked up in full and appended last,
// preserving prior order. An id found in neither returns the list unchanged
// and activeID 0: candidate ids are expected to originate from the catalog,
// so this signals a caller bug.
func IncludeExtra(candidateID int64, working, full []models.Exercise) (newWorking []models.Exercise, activeID int64) {
	for _, e := range working {
		if e.ID == candidateID {
			return working, candidateID
		}
	}
	for _, e := range full {
		if e.ID == candidateID {
			return append(working, e), candidateID
		}
	}
	return working, 0
}
