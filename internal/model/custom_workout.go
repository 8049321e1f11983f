package model

import "time"

// CustomWorkout is a user-authored, named, reusable workout composed
// of an ordered list of catalog exercises. Deleting a custom workout
// cascades to its exercise entries.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owner of the workout.
//  Name        – display name.
//  Description – optional description.
//  CreatedAt   – timestamp of creation.
type CustomWorkout struct {
	ID          uint64    // custom_workouts.id
	UserID      uint64    // custom_workouts.user_id
	Name        string    // custom_workouts.name
	Description string    // custom_workouts.description
	CreatedAt   time.Time // custom_workouts.created_at
}

// CustomWorkoutExercise links a custom workout to a catalog exercise
// and carries the per-exercise prescription. Position is the
// zero-based index assigned from submission order at creation time;
// reads return entries ordered ascending by it.
//
// Fields:
//  ID              – primary key identifier.
//  CustomWorkoutID – owning custom workout.
//  ExerciseID      – referenced catalog exercise.
//  Sets            – optional number of sets.
//  Reps            – optional repetitions per set.
//  Duration        – optional duration in minutes.
//  Position        – zero-based order within the workout.
//  Notes           – optional free-text notes.
type CustomWorkoutExercise struct {
	ID              uint64  // custom_workout_exercises.id
	CustomWorkoutID uint64  // custom_workout_exercises.custom_workout_id
	ExerciseID      uint64  // custom_workout_exercises.exercise_id
	Sets            *uint32 // custom_workout_exercises.sets (nullable)
	Reps            *uint32 // custom_workout_exercises.reps (nullable)
	Duration        *uint32 // custom_workout_exercises.duration (nullable)
	Position        uint32  // custom_workout_exercises.position
	Notes           string  // custom_workout_exercises.notes
}
