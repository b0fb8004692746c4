package workout

// DefaultRestSeconds is the rest interval started after every successful
// save.
const DefaultRestSeconds = 90

// TimerState is the rest timer's observable state.
type TimerState int

const (
	// TimerIdle: remaining 0, not running.
	TimerIdle TimerState = iota
	// TimerRunning: remaining > 0, counting down.
	TimerRunning
	// TimerPaused: remaining > 0, frozen.
	TimerPaused
)

func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	default:
		return "idle"
	}
}

// RestTimer is the rest-interval countdown state machine. It owns no clock:
// the session feeds it ticks from its own periodic source and subscribes to
// Expired for the one-shot completion signal. All transitions are total; the
// machine has no failure modes. Not safe for concurrent use — the owning
// session serializes access.
type RestTimer struct {
	remaining int
	state     TimerState
	expired   chan struct{}
}

// NewRestTimer returns an idle timer.
func NewRestTimer() *RestTimer {
	return &RestTimer{expired: make(chan struct{}, 1)}
}

// Remaining returns the seconds left.
func (t *RestTimer) Remaining() int { return t.remaining }

// State returns the current state.
func (t *RestTimer) State() TimerState { return t.state }

// Running reports whether the countdown is active.
func (t *RestTimer) Running() bool { return t.state == TimerRunning }

// Expired delivers one signal per natural tick-driven expiry. Dismissal and
// adjustment to zero never fire it. The channel is buffered; a slow consumer
// loses signals rather than blocking the timer (the alert is best-effort).
func (t *RestTimer) Expired() <-chan struct{} { return t.expired }

// Start begins a countdown of the given duration, from any state.
// Non-positive durations leave the timer idle.
func (t *RestTimer) Start(seconds int) {
	if seconds <= 0 {
		t.remaining = 0
		t.state = TimerIdle
		return
	}
	t.remaining = seconds
	t.state = TimerRunning
}

// Tick consumes one second while running. The tick that reaches zero fires
// the expiry signal and settles the timer back into idle. Ticks in any other
// state are ignored.
func (t *RestTimer) Tick() {
	if t.state != TimerRunning {
		return
	}
	t.remaining--
	if t.remaining > 0 {
		return
	}
	t.remaining = 0
	t.state = TimerIdle
	select {
	case t.expired <- struct{}{}:
	default:
	}
}

// Pause freezes the countdown. No-op unless running.
func (t *RestTimer) Pause() {
	if t.state == TimerRunning {
		t.state = TimerPaused
	}
}

// Resume restarts a paused countdown. No-op unless paused.
func (t *RestTimer) Resume() {
	if t.state == TimerPaused {
		t.state = TimerRunning
	}
}

// Adjust adds delta seconds, clamping at zero. A positive delta from idle
// starts the countdown; an adjustment that lands on zero goes straight to
// idle without firing the expiry signal.
func (t *RestTimer) Adjust(delta int) {
	wasIdle := t.state == TimerIdle
	t.remaining += delta
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = TimerIdle
		return
	}
	if wasIdle {
		t.state = TimerRunning
	}
}

// Dismiss stops the countdown from any state. No signal fires.
func (t *RestTimer) Dismiss() {
	t.remaining = 0
	t.state = TimerIdle
}
