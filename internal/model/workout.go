package model

import "time"

// Workout is a history entry: a record of an activity that actually
// happened. Rows are created either directly by the user (manual
// log) or materialized by completing a scheduled workout, in which
// case the scheduled workout holds a back-reference in workout_id.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the entry.
//  Exercise  – free-text activity label.
//  Duration  – duration in minutes.
//  Calories  – calories burned.
//  Notes     – optional free-text notes.
//  Date      – the day the activity occurred (date only, UTC).
//  CreatedAt – timestamp of creation.
type Workout struct {
	ID        uint64    // workouts.id
	UserID    uint64    // workouts.user_id
	Exercise  string    // workouts.exercise
	Duration  uint32    // workouts.duration (minutes)
	Calories  uint32    // workouts.calories
	Notes     string    // workouts.notes
	Date      time.Time // workouts.date (DATE column)
	CreatedAt time.Time // workouts.created_at
}
