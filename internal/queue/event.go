// Package queue defines message payloads exchanged over the message
// broker plus the background consumer that processes them.
package queue

// WorkoutCompletedQueue is the broker queue carrying completion events.
const WorkoutCompletedQueue = "workout.completed"

// WorkoutCompletedEvent is published when a scheduled workout is
// completed and a history entry is materialized. It carries enough
// information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type WorkoutCompletedEvent struct {
	ScheduleID  uint64 `json:"schedule_id"`
	WorkoutID   uint64 `json:"workout_id"`
	UserID      uint64 `json:"user_id"`
	Activity    string `json:"activity"`
	Duration    uint32 `json:"duration"` // minutes
	Calories    uint32 `json:"calories"`
	Date        string `json:"date"` // YYYY-MM-DD
	CompletedAt string `json:"completed_at"`
}
