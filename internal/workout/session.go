package workout

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/google/uuid"
)

// HistoryWindow is the recency window: the most recent slice of an
// exercise's history kept in memory. There is no pagination beyond it.
const HistoryWindow = 20

// storeTimeout bounds background store calls issued by the session itself
// (history refreshes after a save or exercise switch).
const storeTimeout = 10 * time.Second

// Store is the slice of the record store the session needs. *storage.DB
// satisfies it.
type Store interface {
	RecentSets(ctx context.Context, userID int, exerciseID int64, limit int) ([]models.Set, error)
	InsertSets(ctx context.Context, userID int, exerciseID int64, weightKg float64, reps, count int) ([]models.Set, error)
	DeleteSet(ctx context.Context, userID int, setID int64) error
	CreateExercise(ctx context.Context, userID int, name string) (models.Exercise, error)
}

// EventType classifies session events.
type EventType int

const (
	// EventHistoryUpdated: the recency window (and chart series) changed.
	EventHistoryUpdated EventType = iota
	// EventRestFinished: the rest timer expired naturally.
	EventRestFinished
	// EventStoreError: a background store call failed; state kept as-is.
	EventStoreError
)

// Event is delivered on the session's event channel. Consumers that fall
// behind lose events rather than blocking the session.
type Event struct {
	Type       EventType
	ExerciseID int64
	Err        error
}

// Form holds the pending set-entry values. Weight and reps stay raw strings
// until save time so invalid input can be reported without being lost.
type Form struct {
	Weight   string `json:"weight"`
	Reps     string `json:"reps"`
	SetCount int    `json:"set_count"`
}

// TimerSnapshot is the timer's observable state.
type TimerSnapshot struct {
	RemainingSeconds int    `json:"remaining_seconds"`
	Running          bool   `json:"running"`
	State            string `json:"state"`
}

// Snapshot is an immutable view of the session for handlers and clients.
type Snapshot struct {
	ID               uuid.UUID         `json:"id"`
	Exercises        []models.Exercise `json:"exercises"`
	Catalog          []models.Exercise `json:"catalog"`
	ActiveExerciseID int64             `json:"active_exercise_id"`
	ExtraMode        bool              `json:"extra_mode"`
	Form             Form              `json:"form"`
	History          []models.Set      `json:"history"`
	Series           []ChartPoint      `json:"series"`
	ChartReady       bool              `json:"chart_ready"`
	Timer            TimerSnapshot     `json:"timer"`
}

// Session is the in-session workout logging engine. It owns the working
// exercise list, the active selection, the pending form, the recency window
// and its derived chart series, and the rest timer. The catalog and window
// are mutated only here; nothing else holds a writable reference.
//
// Store calls triggered by selection changes run in the background. Each
// captures the fetch generation at issue time and its result applies only if
// the generation still matches, so a stale response for a previously active
// exercise can never overwrite the current window.
type Session struct {
	ID uuid.UUID

	userID int
	store  Store
	log    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	working  []models.Exercise
	full     []models.Exercise
	activeID int64
	extra    bool

	form   Form
	window []models.Set
	series []ChartPoint

	timer      *RestTimer
	ticker     *time.Ticker
	tickerStop chan struct{}

	fetchGen       uint64
	pendingDeletes map[uuid.UUID]int64
	events         chan Event
	closed         bool
}

// NewSession creates a session over the given working list (a routine's
// ordered exercises, or the full catalog for a free workout) and full
// catalog. The first working exercise becomes active and its history fetch
// is issued immediately.
func NewSession(userID int, store Store, working, full []models.Exercise, log *slog.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:             uuid.New(),
		userID:         userID,
		store:          store,
		log:            log,
		ctx:            ctx,
		cancel:         cancel,
		working:        append([]models.Exercise(nil), working...),
		full:           append([]models.Exercise(nil), full...),
		form:           Form{SetCount: 1},
		timer:          NewRestTimer(),
		pendingDeletes: make(map[uuid.UUID]int64),
		events:         make(chan Event, 16),
	}
	if len(s.working) > 0 {
		s.activeID = s.working[0].ID
		s.mu.Lock()
		s.refreshLocked()
		s.mu.Unlock()
	}
	return s
}

// Events returns the session's event stream. The channel closes when the
// session is closed.
func (s *Session) Events() <-chan Event { return s.events }

// UserID returns the owning user's id.
func (s *Session) UserID() int { return s.userID }

// SelectExercise activates an exercise and refetches its recency window. The
// previous window is discarded immediately; there is no caching across
// exercises.
func (s *Session) SelectExercise(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.activeID = id
	s.window = nil
	s.series = nil
	s.refreshLocked()
}

// SetForm updates the pending set-entry values. They are stored as given;
// validation happens at save time so bad input surfaces as a ValidationError
// instead of being silently corrected.
func (s *Session) SetForm(weight, reps string, setCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Weight = weight
	s.form.Reps = reps
	s.form.SetCount = setCount
}

// Save validates the pending form and appends form.SetCount identical sets
// for the active exercise in one atomic store insert. On success it clears
// the form, resets the set count to 1, refetches the window, and starts the
// rest timer at the default duration. A ValidationError or store failure
// changes nothing; form values survive a failed save so the user can retry.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	exerciseID := s.activeID
	form := s.form
	s.mu.Unlock()

	if exerciseID == 0 {
		return &ValidationError{Field: "exercise", Reason: "no exercise selected"}
	}
	weight, reps, err := parseForm(form)
	if err != nil {
		return err
	}

	if _, err := s.store.InsertSets(ctx, s.userID, exerciseID, weight, reps, form.SetCount); err != nil {
		return fmt.Errorf("saving sets: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.form = Form{SetCount: 1}
	s.timer.Start(DefaultRestSeconds)
	s.syncTickerLocked()
	if s.activeID == exerciseID {
		s.refreshLocked()
	}
	return nil
}

// RequestDelete opens a cancellable confirmation step for deleting a logged
// set and returns its token. Nothing reaches the store until the token is
// confirmed; an abandoned or cancelled token is equivalent to never asking.
func (s *Session) RequestDelete(setID int64) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.New()
	s.pendingDeletes[token] = setID
	return token
}

// CancelDelete withdraws a pending delete confirmation.
func (s *Session) CancelDelete(token uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pendingDeletes, token)
}

// ConfirmDelete performs the delete a token was issued for. On success the
// set is removed from the in-memory window in place and the chart series
// rebuilt — the one update that skips the full refetch, since the deleted id
// is already known. storage.ErrNotFound passes through with the window
// untouched: it must already have been stale.
func (s *Session) ConfirmDelete(ctx context.Context, token uuid.UUID) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	setID, ok := s.pendingDeletes[token]
	if ok {
		delete(s.pendingDeletes, token)
	}
	s.mu.Unlock()
	if !ok {
		return ErrUnknownConfirmation
	}

	if err := s.store.DeleteSet(ctx, s.userID, setID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	kept := s.window[:0]
	for _, set := range s.window {
		if set.ID != setID {
			kept = append(kept, set)
		}
	}
	s.window = kept
	s.series = BuildSeries(s.window)
	s.emitLocked(Event{Type: EventHistoryUpdated, ExerciseID: s.activeID})
	return nil
}

// ToggleExtraMode flips the extra-selection flag. While set, exercise choice
// is drawn from the full catalog; duplicates are resolved by IncludeExtra,
// not by pre-filtering. Returns the new value.
func (s *Session) ToggleExtraMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra = !s.extra
	return s.extra
}

// IncludeExtra adds a catalog exercise to the working list (or selects it in
// place if already present) and activates it. Extra mode ends once a pick is
// made. Unknown ids are ignored.
func (s *Session) IncludeExtra(candidateID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	newWorking, activeID := IncludeExtra(candidateID, s.working, s.full)
	if activeID == 0 {
		s.log.Warn("extra exercise not in catalog", "exercise_id", candidateID)
		return
	}
	s.working = newWorking
	s.extra = false
	if s.activeID != activeID {
		s.activeID = activeID
		s.window = nil
		s.series = nil
		s.refreshLocked()
	}
}

// CreateExercise persists a new catalog exercise, then appends it to the
// working list and activates it. Creation and list inclusion are separate
// effects; both happen here so the exercise is usable immediately.
func (s *Session) CreateExercise(ctx context.Context, name string) (models.Exercise, error) {
	if strings.TrimSpace(name) == "" {
		return models.Exercise{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	exercise, err := s.store.CreateExercise(ctx, s.userID, name)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("creating exercise: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return exercise, nil
	}
	s.full = append(s.full, exercise)
	s.working, s.activeID = IncludeExtra(exercise.ID, s.working, s.full)
	s.window = nil
	s.series = nil
	s.refreshLocked()
	return exercise, nil
}

// PauseTimer freezes the rest countdown.
func (s *Session) PauseTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Pause()
	s.syncTickerLocked()
}

// ResumeTimer restarts a paused countdown.
func (s *Session) ResumeTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Resume()
	s.syncTickerLocked()
}

// AdjustTimer shifts the remaining rest by delta seconds.
func (s *Session) AdjustTimer(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Adjust(delta)
	s.syncTickerLocked()
}

// DismissTimer stops the rest countdown without a completion signal.
func (s *Session) DismissTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Dismiss()
	s.syncTickerLocked()
}

// Snapshot returns a copy of the observable session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:               s.ID,
		Exercises:        append([]models.Exercise(nil), s.working...),
		Catalog:          append([]models.Exercise(nil), s.full...),
		ActiveExerciseID: s.activeID,
		ExtraMode:        s.extra,
		Form:             s.form,
		History:          append([]models.Set(nil), s.window...),
		Series:           append([]ChartPoint(nil), s.series...),
		ChartReady:       HasEnoughData(s.series),
		Timer: TimerSnapshot{
			RemainingSeconds: s.timer.Remaining(),
			Running:          s.timer.Running(),
			State:            s.timer.State().String(),
		},
	}
}

// Close tears the session down: the tick source stops, in-flight fetch
// results are discarded, and the event channel closes.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTickerLocked()
	s.cancel()
	close(s.events)
}

// refreshLocked issues a background fetch of the active exercise's window.
// Caller holds s.mu.
func (s *Session) refreshLocked() {
	s.fetchGen++
	gen := s.fetchGen
	exerciseID := s.activeID
	go s.fetchHistory(gen, exerciseID)
}

// fetchHistory loads the recency window and applies it if the session still
// wants it. Results for superseded generations are dropped: latest request
// wins. On error the previous window is kept rather than cleared.
func (s *Session) fetchHistory(gen uint64, exerciseID int64) {
	ctx, cancel := context.WithTimeout(s.ctx, storeTimeout)
	defer cancel()
	sets, err := s.store.RecentSets(ctx, s.userID, exerciseID, HistoryWindow)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.fetchGen {
		return
	}
	if err != nil {
		s.log.Warn("history fetch failed", "exercise_id", exerciseID, "error", err)
		s.emitLocked(Event{Type: EventStoreError, ExerciseID: exerciseID, Err: err})
		return
	}
	s.window = sets
	s.series = BuildSeries(sets)
	s.emitLocked(Event{Type: EventHistoryUpdated, ExerciseID: exerciseID})
}

// syncTickerLocked aligns the periodic tick source with the timer state:
// running starts it, anything else stops it. Caller holds s.mu.
func (s *Session) syncTickerLocked() {
	if s.timer.Running() {
		if s.ticker == nil {
			s.startTickerLocked()
		}
		return
	}
	s.stopTickerLocked()
}

func (s *Session) startTickerLocked() {
	ticker := time.NewTicker(time.Second)
	stop := make(chan struct{})
	s.ticker = ticker
	s.tickerStop = stop

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				select {
				case <-stop:
					s.mu.Unlock()
					return
				default:
				}
				s.timer.Tick()
				select {
				case <-s.timer.Expired():
					s.emitLocked(Event{Type: EventRestFinished})
				default:
				}
				if !s.timer.Running() {
					s.stopTickerLocked()
					s.mu.Unlock()
					return
				}
				s.mu.Unlock()
			}
		}
	}()
}

func (s *Session) stopTickerLocked() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.tickerStop)
	s.ticker = nil
	s.tickerStop = nil
}

// emitLocked delivers an event without blocking; full buffers drop. Caller
// holds s.mu.
func (s *Session) emitLocked(ev Event) {
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}

// parseForm validates the pending form values.
func parseForm(form Form) (weightKg float64, reps int, err error) {
	weightStr := strings.TrimSpace(form.Weight)
	if weightStr == "" {
		return 0, 0, &ValidationError{Field: "weight", Reason: "is required"}
	}
	weightKg, perr := strconv.ParseFloat(weightStr, 64)
	if perr != nil || weightKg <= 0 {
		return 0, 0, &ValidationError{Field: "weight", Reason: "must be a positive number"}
	}

	repsStr := strings.TrimSpace(form.Reps)
	if repsStr == "" {
		return 0, 0, &ValidationError{Field: "reps", Reason: "is required"}
	}
	reps, perr = strconv.Atoi(repsStr)
	if perr != nil || reps <= 0 {
		return 0, 0, &ValidationError{Field: "reps", Reason: "must be a positive integer"}
	}

	if form.SetCount < 1 {
		return 0, 0, &ValidationError{Field: "set_count", Reason: "must be at least 1"}
	}
	return weightKg, reps, nil
}
