package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCompletionLine(t *testing.T) {
	line := FormatCompletionLine(WorkoutCompletedEvent{
		ScheduleID:  5,
		WorkoutID:   77,
		UserID:      1,
		Activity:    "Yoga",
		Duration:    45,
		Calories:    150,
		Date:        "2024-01-10",
		CompletedAt: "2024-01-10T18:00:00Z",
	})
	assert.Equal(t, "[2024-01-10T18:00:00Z] Workout completed | schedule_id=5 | workout_id=77 | user_id=1 | activity=\"Yoga\" | duration=45 min | calories=150 | date=2024-01-10\n", line)
}

func TestEventWireFormat(t *testing.T) {
	body, err := json.Marshal(WorkoutCompletedEvent{ScheduleID: 5, Activity: "Yoga"})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"schedule_id":5`)
	assert.Contains(t, string(body), `"activity":"Yoga"`)
}
