package model

// WorkoutType is a catalog entry describing a predefined kind of
// activity (Running, Yoga, ...). The catalog is seeded once at
// startup when empty and is immutable reference data: it is not
// owned by any user and no endpoint mutates it.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name of the activity.
//  Description     – short description shown in pickers.
//  DefaultDuration – suggested duration in minutes (null when unset).
//  DefaultCalories – suggested calorie estimate (null when unset).
type WorkoutType struct {
	ID              uint64  `json:"id"`               // workout_types.id
	Name            string  `json:"name"`             // workout_types.name
	Description     string  `json:"description"`      // workout_types.description
	DefaultDuration *uint32 `json:"default_duration"` // workout_types.default_duration (nullable)
	DefaultCalories *uint32 `json:"default_calories"` // workout_types.default_calories (nullable)
}
