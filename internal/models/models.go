package models

import "time"

// User is an account row, keyed by Tailscale login. LastSeen is refreshed on
// every identity resolution.
type User struct {
	ID          int       `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
	LastSeen    time.Time `json:"last_seen"`
}

// Exercise is a row in the exercises table. Exercises are created once and
// never renamed or deleted from the logging engine's point of view.
type Exercise struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Routine is a named, ordered template of exercises.
type Routine struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RoutineExercise pairs an exercise with its 1-based position inside a
// routine. The order index is assigned at routine creation and read-only
// afterwards.
type RoutineExercise struct {
	Exercise   Exercise `json:"exercise"`
	OrderIndex int      `json:"order_index"`
}

// Set is one logged performance of an exercise. CreatedAt is assigned by the
// store at insert time, never by the client.
type Set struct {
	ID         int64     `json:"id"`
	ExerciseID int64     `json:"exercise_id"`
	WeightKg   float64   `json:"weight_kg"`
	Reps       int       `json:"reps"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetImport is a historical set carried by an import payload. Unlike live
// saves, imported sets bring their own timestamps.
type SetImport struct {
	Exercise string    `json:"exercise"`
	WeightKg float64   `json:"weight_kg"`
	Reps     int       `json:"reps"`
	LoggedAt time.Time `json:"logged_at"`
}
