package model

import "time"

// ScheduledWorkout is a planned activity for a given date. It
// references exactly one of a catalog WorkoutType or one of the
// user's CustomWorkouts — never both, never neither. The invariant
// is enforced at every write path in code, not by the schema.
//
// A scheduled workout is in one of two states:
//   pending: Completed == false and WorkoutID == nil
//   done:    Completed == true and WorkoutID points at the history
//            entry materialized when it was completed.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – owner of the entry.
//  WorkoutTypeID   – referenced catalog type (nullable).
//  CustomWorkoutID – referenced custom workout (nullable).
//  ScheduledDate   – the planned day (date only, UTC).
//  Notes           – optional free-text notes.
//  Completed       – completion flag.
//  WorkoutID       – back-reference to the materialized history
//                    entry (null while pending).
//  CreatedAt       – timestamp of creation.
type ScheduledWorkout struct {
	ID              uint64    // scheduled_workouts.id
	UserID          uint64    // scheduled_workouts.user_id
	WorkoutTypeID   *uint64   // scheduled_workouts.workout_type_id (nullable)
	CustomWorkoutID *uint64   // scheduled_workouts.custom_workout_id (nullable)
	ScheduledDate   time.Time // scheduled_workouts.scheduled_date (DATE column)
	Notes           string    // scheduled_workouts.notes
	Completed       bool      // scheduled_workouts.completed
	WorkoutID       *uint64   // scheduled_workouts.workout_id (nullable)
	CreatedAt       time.Time // scheduled_workouts.created_at
}
