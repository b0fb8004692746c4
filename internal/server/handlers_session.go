package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleCreateSession starts a workout session. With a routine_id the
// working list is the routine's ordered exercises; without one it is the
// full catalog (free workout).
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoutineID int64 `json:"routine_id"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	uid := userIDFromContext(r)
	catalog, err := s.db.ListExercises(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	working := catalog
	if req.RoutineID != 0 {
		if _, err := s.db.GetRoutine(r.Context(), uid, req.RoutineID); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
			return
		}
		routineExercises, err := s.db.RoutineExercises(r.Context(), uid, req.RoutineID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if len(routineExercises) == 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "routine has no exercises"})
			return
		}
		working = workout.InitialExercises(routineExercises)
	}

	session := workout.NewSession(uid, s.db, working, catalog, s.log)
	s.sessions.Add(session)
	s.log.Info("session started", "session_id", session.ID, "routine_id", req.RoutineID, "exercises", len(working))
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	s.sessions.Remove(id, userIDFromContext(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectExercise(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ExerciseID int64 `json:"exercise_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExerciseID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id required"})
		return
	}
	session.SelectExercise(req.ExerciseID)
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleSaveSets(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Weight   string `json:"weight"`
		Reps     string `json:"reps"`
		SetCount *int   `json:"set_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	// An omitted count means one set; an explicit bad count is the
	// session's to reject.
	setCount := 1
	if req.SetCount != nil {
		setCount = *req.SetCount
	}

	session.SetForm(req.Weight, req.Reps, setCount)
	if err := session.Save(r.Context()); err != nil {
		var verr *workout.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": verr.Error()})
			return
		}
		s.log.Error("save failed", "session_id", session.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleRequestDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	setID, err := strconv.ParseInt(chi.URLParam(r, "setID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set ID"})
		return
	}
	token := session.RequestDelete(setID)
	writeJSON(w, http.StatusOK, map[string]string{"token": token.String()})
}

func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid token"})
		return
	}

	switch err := session.ConfirmDelete(r.Context(), token); {
	case errors.Is(err, workout.ErrUnknownConfirmation):
		writeJSON(w, http.StatusGone, map[string]string{"error": "confirmation expired or cancelled"})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "set not found"})
	case err != nil:
		s.log.Error("delete failed", "session_id", session.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, session.Snapshot())
	}
}

func (s *Server) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid token"})
		return
	}
	session.CancelDelete(token)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleExtraMode(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	extra := session.ToggleExtraMode()
	writeJSON(w, http.StatusOK, map[string]bool{"extra_mode": extra})
}

func (s *Server) handleIncludeExtra(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ExerciseID int64 `json:"exercise_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExerciseID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id required"})
		return
	}
	session.IncludeExtra(req.ExerciseID)
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleSessionCreateExercise(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if _, err := session.CreateExercise(r.Context(), req.Name); err != nil {
		var verr *workout.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": verr.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	s.timerOp(w, r, (*workout.Session).PauseTimer)
}

func (s *Server) handleTimerResume(w http.ResponseWriter, r *http.Request) {
	s.timerOp(w, r, (*workout.Session).ResumeTimer)
}

func (s *Server) handleTimerDismiss(w http.ResponseWriter, r *http.Request) {
	s.timerOp(w, r, (*workout.Session).DismissTimer)
}

func (s *Server) handleTimerAdjust(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		DeltaSeconds int `json:"delta_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	session.AdjustTimer(req.DeltaSeconds)
	writeJSON(w, http.StatusOK, session.Snapshot().Timer)
}

func (s *Server) timerOp(w http.ResponseWriter, r *http.Request, op func(*workout.Session)) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	op(session)
	writeJSON(w, http.StatusOK, session.Snapshot().Timer)
}

// session resolves the {id} URL param to a live session owned by the
// caller, writing the error response itself when it cannot.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*workout.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return nil, false
	}
	session, ok := s.sessions.Get(id, userIDFromContext(r))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return session, true
}
