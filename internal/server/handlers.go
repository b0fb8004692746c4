package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/claude/gymlog/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "name must not be empty"})
		return
	}

	exercise, err := s.db.CreateExercise(r.Context(), userIDFromContext(r), req.Name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	routines, err := s.db.ListRoutines(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if routines == nil {
		routines = []models.Routine{}
	}
	writeJSON(w, http.StatusOK, routines)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	routineID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid routine ID"})
		return
	}
	uid := userIDFromContext(r)

	routine, err := s.db.GetRoutine(r.Context(), uid, routineID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
		return
	}
	exercises, err := s.db.RoutineExercises(r.Context(), uid, routineID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"routine":   routine,
		"exercises": exercises,
	})
}

func (s *Server) handleCreateRoutine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		ExerciseIDs []int64 `json:"exercise_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "name must not be empty"})
		return
	}
	if len(req.ExerciseIDs) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "select at least one exercise"})
		return
	}

	routine, err := s.db.CreateRoutine(r.Context(), userIDFromContext(r), req.Name, req.ExerciseIDs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, routine)
}

// daySession is one calendar day of logged sets with its total volume
// (sum of weight × reps), for the history view.
type daySession struct {
	Date        string            `json:"date"`
	Sets        []setHistoryEntry `json:"sets"`
	TotalVolume float64           `json:"total_volume"`
}

type setHistoryEntry struct {
	ID           int64   `json:"id"`
	ExerciseName string  `json:"exercise_name"`
	WeightKg     float64 `json:"weight_kg"`
	Reps         int     `json:"reps"`
}

// handleHistory returns the full set history grouped by calendar day,
// newest day first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sets, err := s.db.QueryAllSets(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	grouped := []daySession{}
	index := map[string]int{}
	for _, set := range sets {
		key := set.CreatedAt.Format("02/01/2006")
		i, ok := index[key]
		if !ok {
			i = len(grouped)
			index[key] = i
			grouped = append(grouped, daySession{Date: key})
		}
		grouped[i].Sets = append(grouped[i].Sets, setHistoryEntry{
			ID:           set.ID,
			ExerciseName: set.ExerciseName,
			WeightKg:     set.WeightKg,
			Reps:         set.Reps,
		})
		grouped[i].TotalVolume += set.WeightKg * float64(set.Reps)
	}

	writeJSON(w, http.StatusOK, grouped)
}

// handleImport ingests historical sets exported from another tracker. Each
// entry names its exercise; unknown names create catalog entries.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Sets []models.SetImport `json:"sets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := userIDFromContext(r)
	exerciseIDs := map[string]int64{}
	rows := make([]models.Set, 0, len(payload.Sets))

	for _, imp := range payload.Sets {
		name := strings.TrimSpace(imp.Exercise)
		if name == "" || imp.Reps < 1 || imp.WeightKg < 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "each set needs an exercise name, positive reps and non-negative weight"})
			return
		}
		id, ok := exerciseIDs[name]
		if !ok {
			exercise, err := s.db.GetOrCreateExercise(r.Context(), uid, name)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			id = exercise.ID
			exerciseIDs[name] = id
		}
		rows = append(rows, models.Set{
			ExerciseID: id,
			WeightKg:   imp.WeightKg,
			Reps:       imp.Reps,
			CreatedAt:  imp.LoggedAt,
		})
	}

	inserted, err := s.db.InsertImportedSets(r.Context(), uid, rows)
	if err != nil {
		s.log.Error("import failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"received": len(payload.Sets),
		"inserted": inserted,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
