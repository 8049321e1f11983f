package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fitness-tracker/internal/apperr"
	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/queue"
	"github.com/iliyamo/fitness-tracker/internal/schedule"
)

// fakeEngine scripts the engine responses for handler tests.
type fakeEngine struct {
	scheduled model.ScheduledWorkout
	created   *model.Workout
	err       error
}

func (f *fakeEngine) Schedule(_ context.Context, userID uint64, req schedule.Request) (model.ScheduledWorkout, error) {
	if f.err != nil {
		return model.ScheduledWorkout{}, f.err
	}
	sw := f.scheduled
	sw.UserID = userID
	sw.ScheduledDate = req.ScheduledDate
	sw.Notes = req.Notes
	return sw, nil
}

func (f *fakeEngine) Complete(context.Context, uint64, uint64) (model.ScheduledWorkout, *model.Workout, error) {
	if f.err != nil {
		return model.ScheduledWorkout{}, nil, f.err
	}
	return f.scheduled, f.created, nil
}

func (f *fakeEngine) Uncomplete(context.Context, uint64, uint64) (model.ScheduledWorkout, error) {
	if f.err != nil {
		return model.ScheduledWorkout{}, f.err
	}
	return f.scheduled, nil
}

func (f *fakeEngine) Delete(context.Context, uint64, uint64) error { return f.err }

func (f *fakeEngine) ListBetween(context.Context, uint64, time.Time, time.Time) ([]model.ScheduledWorkout, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.ScheduledWorkout{f.scheduled}, nil
}

func completedFixture() (model.ScheduledWorkout, *model.Workout) {
	wid := uint64(77)
	sw := model.ScheduledWorkout{
		ID:            5,
		UserID:        1,
		ScheduledDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Completed:     true,
		WorkoutID:     &wid,
	}
	w := &model.Workout{
		ID:       77,
		UserID:   1,
		Exercise: "Yoga",
		Duration: 45,
		Calories: 150,
		Date:     sw.ScheduledDate,
	}
	return sw, w
}

func TestCompletePublishesEvent(t *testing.T) {
	sw, w := completedFixture()
	var published []queue.WorkoutCompletedEvent
	h := NewScheduleHandler(&fakeEngine{scheduled: sw, created: w},
		func(_ context.Context, ev queue.WorkoutCompletedEvent) error {
			published = append(published, ev)
			return nil
		})

	c, rec := testCtx(t, http.MethodPost, "/v1/schedule/5/complete", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Complete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, published, 1)
	assert.Equal(t, uint64(5), published[0].ScheduleID)
	assert.Equal(t, uint64(77), published[0].WorkoutID)
	assert.Equal(t, "Yoga", published[0].Activity)
	assert.Equal(t, uint32(45), published[0].Duration)
	assert.Equal(t, "2024-01-10", published[0].Date)

	var got struct {
		Scheduled scheduledResp `json:"scheduled"`
		Workout   *workoutResp  `json:"workout"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Scheduled.Completed)
	require.NotNil(t, got.Workout)
	assert.Equal(t, uint64(77), got.Workout.ID)
}

func TestCompleteIdempotentSkipsPublish(t *testing.T) {
	sw, _ := completedFixture()
	calls := 0
	h := NewScheduleHandler(&fakeEngine{scheduled: sw, created: nil},
		func(context.Context, queue.WorkoutCompletedEvent) error { calls++; return nil })

	c, rec := testCtx(t, http.MethodPost, "/v1/schedule/5/complete", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Complete(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, calls, "no new history entry means no event")
	assert.NotContains(t, rec.Body.String(), `"workout"`)
}

func TestCompleteSurvivesPublishFailure(t *testing.T) {
	sw, w := completedFixture()
	h := NewScheduleHandler(&fakeEngine{scheduled: sw, created: w},
		func(context.Context, queue.WorkoutCompletedEvent) error { return errors.New("broker down") })

	c, rec := testCtx(t, http.MethodPost, "/v1/schedule/5/complete", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Complete(c))
	assert.Equal(t, http.StatusOK, rec.Code, "publishing is best-effort")
}

func TestCompleteMapsEngineErrors(t *testing.T) {
	for _, tc := range []struct {
		err  error
		code int
	}{
		{apperr.ErrForbidden, http.StatusForbidden},
		{apperr.ErrNotFound, http.StatusNotFound},
	} {
		h := NewScheduleHandler(&fakeEngine{err: tc.err}, nil)
		c, rec := testCtx(t, http.MethodPost, "/v1/schedule/5/complete", "", 1)
		c.SetParamNames("id")
		c.SetParamValues("5")
		require.NoError(t, h.Complete(c))
		assert.Equal(t, tc.code, rec.Code)
	}
}

func TestUncompleteReturnsPendingEntry(t *testing.T) {
	sw := model.ScheduledWorkout{ID: 5, UserID: 1, ScheduledDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}
	h := NewScheduleHandler(&fakeEngine{scheduled: sw}, nil)

	c, rec := testCtx(t, http.MethodPost, "/v1/schedule/5/uncomplete", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Uncomplete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Scheduled scheduledResp `json:"scheduled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Scheduled.Completed)
	assert.Nil(t, got.Scheduled.WorkoutID)
}

func TestScheduleCreateRejectsBadDate(t *testing.T) {
	h := NewScheduleHandler(&fakeEngine{}, nil)

	c, rec := testCtx(t, http.MethodPost, "/v1/schedule", `{"workout_type_id":1,"scheduled_date":"Jan 10"}`, 1)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleCreateMapsValidationError(t *testing.T) {
	h := NewScheduleHandler(&fakeEngine{err: apperr.ErrValidation}, nil)

	c, rec := testCtx(t, http.MethodPost, "/v1/schedule", `{"scheduled_date":"2024-01-10"}`, 1)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeekRejectsNonIntegerOffset(t *testing.T) {
	h := NewScheduleHandler(&fakeEngine{}, nil)

	c, rec := testCtx(t, http.MethodGet, "/v1/schedule?week=next", "", 1)
	require.NoError(t, h.Week(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeekBucketsSevenDays(t *testing.T) {
	sw := model.ScheduledWorkout{
		ID:            3,
		UserID:        1,
		ScheduledDate: schedule.WeekStart(time.Now().UTC(), 0).AddDate(0, 0, 2),
	}
	h := NewScheduleHandler(&fakeEngine{scheduled: sw}, nil)

	c, rec := testCtx(t, http.MethodGet, "/v1/schedule", "", 1)
	require.NoError(t, h.Week(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		WeekStart string    `json:"week_start"`
		WeekEnd   string    `json:"week_end"`
		Days      []weekDay `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Days, 7)
	assert.Equal(t, got.Days[0].Date, got.WeekStart)
	assert.Equal(t, got.Days[6].Date, got.WeekEnd)
	require.Len(t, got.Days[2].Entries, 1, "entry lands in its weekday bucket")
	assert.Equal(t, uint64(3), got.Days[2].Entries[0].ID)
	for i, day := range got.Days {
		if i != 2 {
			assert.Empty(t, day.Entries)
		}
	}
}
