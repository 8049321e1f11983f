package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/fitness-tracker/internal/apperr"
	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory schedule.Store. InTx snapshots the
// mutable tables and restores them when fn fails, mimicking a SQL
// rollback, so the atomicity of the transitions can be asserted.
type memStore struct {
	scheduled      map[uint64]model.ScheduledWorkout
	workouts       map[uint64]model.Workout
	types          map[uint64]model.WorkoutType
	customs        map[uint64]model.CustomWorkout
	customEntries  map[uint64]int
	nextSchedID    uint64
	nextWorkoutID  uint64
	failNextCreate error
}

func newMemStore() *memStore {
	return &memStore{
		scheduled:     map[uint64]model.ScheduledWorkout{},
		workouts:      map[uint64]model.Workout{},
		types:         map[uint64]model.WorkoutType{},
		customs:       map[uint64]model.CustomWorkout{},
		customEntries: map[uint64]int{},
	}
}

func (m *memStore) GetScheduled(_ context.Context, id uint64) (model.ScheduledWorkout, error) {
	sw, ok := m.scheduled[id]
	if !ok {
		return model.ScheduledWorkout{}, apperr.ErrNotFound
	}
	return sw, nil
}

func (m *memStore) CreateScheduled(_ context.Context, sw *model.ScheduledWorkout) error {
	m.nextSchedID++
	sw.ID = m.nextSchedID
	m.scheduled[sw.ID] = *sw
	return nil
}

func (m *memStore) UpdateScheduled(_ context.Context, sw *model.ScheduledWorkout) error {
	if _, ok := m.scheduled[sw.ID]; !ok {
		return apperr.ErrNotFound
	}
	m.scheduled[sw.ID] = *sw
	return nil
}

func (m *memStore) DeleteScheduled(_ context.Context, id uint64) error {
	if _, ok := m.scheduled[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.scheduled, id)
	return nil
}

func (m *memStore) ListScheduledBetween(_ context.Context, userID uint64, from, to time.Time) ([]model.ScheduledWorkout, error) {
	var out []model.ScheduledWorkout
	for _, sw := range m.scheduled {
		if sw.UserID == userID && !sw.ScheduledDate.Before(from) && !sw.ScheduledDate.After(to) {
			out = append(out, sw)
		}
	}
	return out, nil
}

func (m *memStore) FindWorkoutType(_ context.Context, id uint64) (model.WorkoutType, error) {
	wt, ok := m.types[id]
	if !ok {
		return model.WorkoutType{}, apperr.ErrNotFound
	}
	return wt, nil
}

func (m *memStore) FindCustomWorkout(_ context.Context, id uint64) (model.CustomWorkout, error) {
	cw, ok := m.customs[id]
	if !ok {
		return model.CustomWorkout{}, apperr.ErrNotFound
	}
	return cw, nil
}

func (m *memStore) CountCustomWorkoutExercises(_ context.Context, id uint64) (int, error) {
	return m.customEntries[id], nil
}

func (m *memStore) CreateWorkout(_ context.Context, w *model.Workout) error {
	if m.failNextCreate != nil {
		err := m.failNextCreate
		m.failNextCreate = nil
		return err
	}
	m.nextWorkoutID++
	w.ID = m.nextWorkoutID
	m.workouts[w.ID] = *w
	return nil
}

func (m *memStore) DeleteWorkout(_ context.Context, id uint64) error {
	if _, ok := m.workouts[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.workouts, id)
	return nil
}

func (m *memStore) InTx(_ context.Context, fn func(schedule.Session) error) error {
	schedSnap := make(map[uint64]model.ScheduledWorkout, len(m.scheduled))
	for k, v := range m.scheduled {
		schedSnap[k] = v
	}
	workoutSnap := make(map[uint64]model.Workout, len(m.workouts))
	for k, v := range m.workouts {
		workoutSnap[k] = v
	}
	if err := fn(m); err != nil {
		m.scheduled = schedSnap
		m.workouts = workoutSnap
		return err
	}
	return nil
}

func date(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func u32(v uint32) *uint32 { return &v }
func u64(v uint64) *uint64 { return &v }

func seedCustom(m *memStore, userID uint64, name string, exercises int) uint64 {
	id := uint64(len(m.customs) + 1)
	m.customs[id] = model.CustomWorkout{ID: id, UserID: userID, Name: name}
	m.customEntries[id] = exercises
	return id
}

func TestCompleteCustomWorkoutMaterializesHistory(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	cwID := seedCustom(m, 1, "Leg Day", 3)
	sw, err := e.Schedule(ctx, 1, schedule.Request{
		CustomWorkoutID: &cwID,
		ScheduledDate:   date(2024, time.January, 10),
	})
	require.NoError(t, err)
	assert.False(t, sw.Completed)
	assert.Nil(t, sw.WorkoutID)

	done, created, err := e.Complete(ctx, 1, sw.ID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, done.Completed)
	require.NotNil(t, done.WorkoutID)
	assert.Equal(t, created.ID, *done.WorkoutID)

	// 3 exercises -> 15 minutes, 105 calories, dated on the plan.
	assert.Equal(t, "Leg Day", created.Exercise)
	assert.Equal(t, uint32(15), created.Duration)
	assert.Equal(t, uint32(105), created.Calories)
	assert.Equal(t, date(2024, time.January, 10), created.Date)
	assert.Equal(t, "Completed scheduled workout: Leg Day", created.Notes)

	stored, ok := m.workouts[created.ID]
	require.True(t, ok)
	assert.Equal(t, done.ScheduledDate, stored.Date)
}

func TestCompleteWorkoutTypeUsesDefaults(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	m.types[1] = model.WorkoutType{ID: 1, Name: "Cycling", DefaultDuration: u32(45), DefaultCalories: u32(400)}
	m.types[2] = model.WorkoutType{ID: 2, Name: "Mystery"} // no defaults set

	sw1, err := e.Schedule(ctx, 7, schedule.Request{WorkoutTypeID: u64(1), ScheduledDate: date(2024, time.March, 4)})
	require.NoError(t, err)
	_, created, err := e.Complete(ctx, 7, sw1.ID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Cycling", created.Exercise)
	assert.Equal(t, uint32(45), created.Duration)
	assert.Equal(t, uint32(400), created.Calories)

	sw2, err := e.Schedule(ctx, 7, schedule.Request{WorkoutTypeID: u64(2), ScheduledDate: date(2024, time.March, 5)})
	require.NoError(t, err)
	_, created, err = e.Complete(ctx, 7, sw2.ID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint32(30), created.Duration)
	assert.Equal(t, uint32(200), created.Calories)
}

func TestCompleteKeepsOwnNotes(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	m.types[1] = model.WorkoutType{ID: 1, Name: "Yoga", DefaultDuration: u32(45), DefaultCalories: u32(150)}
	sw, err := e.Schedule(ctx, 1, schedule.Request{WorkoutTypeID: u64(1), ScheduledDate: date(2024, time.May, 1), Notes: "evening session"})
	require.NoError(t, err)

	_, created, err := e.Complete(ctx, 1, sw.ID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "evening session", created.Notes)
}

func TestCompleteIsIdempotent(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	cwID := seedCustom(m, 1, "Push Day", 4)
	sw, err := e.Schedule(ctx, 1, schedule.Request{CustomWorkoutID: &cwID, ScheduledDate: date(2024, time.February, 2)})
	require.NoError(t, err)

	first, created, err := e.Complete(ctx, 1, sw.ID)
	require.NoError(t, err)
	require.NotNil(t, created)

	second, again, err := e.Complete(ctx, 1, sw.ID)
	require.NoError(t, err)
	assert.Nil(t, again, "re-completion must not materialize a second entry")
	assert.Equal(t, *first.WorkoutID, *second.WorkoutID)
	assert.Len(t, m.workouts, 1)
}

func TestUncompleteRemovesHistoryAndRecompleteMakesFreshEntry(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	cwID := seedCustom(m, 1, "Pull Day", 2)
	sw, err := e.Schedule(ctx, 1, schedule.Request{CustomWorkoutID: &cwID, ScheduledDate: date(2024, time.February, 9)})
	require.NoError(t, err)

	_, created, err := e.Complete(ctx, 1, sw.ID)
	require.NoError(t, err)
	firstID := created.ID

	undone, err := e.Uncomplete(ctx, 1, sw.ID)
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.Nil(t, undone.WorkoutID)
	assert.Empty(t, m.workouts, "uncomplete must delete the materialized entry")

	_, recreated, err := e.Complete(ctx, 1, sw.ID)
	require.NoError(t, err)
	require.NotNil(t, recreated)
	assert.NotEqual(t, firstID, recreated.ID)
	assert.Len(t, m.workouts, 1)
}

func TestUncompleteToleratesManuallyDeletedHistory(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	cwID := seedCustom(m, 1, "Core", 1)
	sw, err := e.Schedule(ctx, 1, schedule.Request{CustomWorkoutID: &cwID, ScheduledDate: date(2024, time.June, 1)})
	require.NoError(t, err)
	_, created, err := e.Complete(ctx, 1, sw.ID)
	require.NoError(t, err)

	// The user deleted the history entry by hand.
	delete(m.workouts, created.ID)

	undone, err := e.Uncomplete(ctx, 1, sw.ID)
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.Nil(t, undone.WorkoutID)
}

func TestTransitionsRejectNonOwner(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	cwID := seedCustom(m, 1, "Mine", 2)
	sw, err := e.Schedule(ctx, 1, schedule.Request{CustomWorkoutID: &cwID, ScheduledDate: date(2024, time.April, 1)})
	require.NoError(t, err)

	_, _, err = e.Complete(ctx, 2, sw.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = e.Uncomplete(ctx, 2, sw.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	err = e.Delete(ctx, 2, sw.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// State untouched by the rejected calls.
	got := m.scheduled[sw.ID]
	assert.False(t, got.Completed)
	assert.Nil(t, got.WorkoutID)
	assert.Empty(t, m.workouts)
}

func TestCompleteRollsBackOnFailure(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	cwID := seedCustom(m, 1, "Fragile", 2)
	sw, err := e.Schedule(ctx, 1, schedule.Request{CustomWorkoutID: &cwID, ScheduledDate: date(2024, time.July, 7)})
	require.NoError(t, err)

	m.failNextCreate = errors.New("disk full")
	_, _, err = e.Complete(ctx, 1, sw.ID)
	require.Error(t, err)

	got := m.scheduled[sw.ID]
	assert.False(t, got.Completed, "failed completion must leave the entry pending")
	assert.Nil(t, got.WorkoutID)
	assert.Empty(t, m.workouts)
}

func TestScheduleEnforcesExactlyOneReference(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	m.types[1] = model.WorkoutType{ID: 1, Name: "Running"}
	cwID := seedCustom(m, 1, "Mine", 1)

	_, err := e.Schedule(ctx, 1, schedule.Request{ScheduledDate: date(2024, time.January, 1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = e.Schedule(ctx, 1, schedule.Request{WorkoutTypeID: u64(1), CustomWorkoutID: &cwID, ScheduledDate: date(2024, time.January, 1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = e.Schedule(ctx, 1, schedule.Request{WorkoutTypeID: u64(99), ScheduledDate: date(2024, time.January, 1)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Another user's custom workout cannot be scheduled.
	_, err = e.Schedule(ctx, 2, schedule.Request{CustomWorkoutID: &cwID, ScheduledDate: date(2024, time.January, 1)})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestDeleteKeepsMaterializedHistory(t *testing.T) {
	m := newMemStore()
	e := schedule.NewEngine(m)
	ctx := context.Background()

	cwID := seedCustom(m, 1, "Keep", 2)
	sw, err := e.Schedule(ctx, 1, schedule.Request{CustomWorkoutID: &cwID, ScheduledDate: date(2024, time.August, 8)})
	require.NoError(t, err)
	_, created, err := e.Complete(ctx, 1, sw.ID)
	require.NoError(t, err)

	require.NoError(t, e.Delete(ctx, 1, sw.ID))
	_, ok := m.workouts[created.ID]
	assert.True(t, ok, "deleting the plan must not delete the history entry")
}

func TestWeekStart(t *testing.T) {
	// 2024-01-10 is a Wednesday; its week starts Monday 2024-01-08.
	assert.Equal(t, date(2024, time.January, 8), schedule.WeekStart(date(2024, time.January, 10), 0))
	assert.Equal(t, date(2024, time.January, 15), schedule.WeekStart(date(2024, time.January, 10), 1))
	assert.Equal(t, date(2024, time.January, 1), schedule.WeekStart(date(2024, time.January, 10), -1))
	// A Sunday belongs to the week that started the previous Monday.
	assert.Equal(t, date(2024, time.January, 8), schedule.WeekStart(date(2024, time.January, 14), 0))
	// A Monday is its own week start.
	assert.Equal(t, date(2024, time.January, 8), schedule.WeekStart(date(2024, time.January, 8), 0))
}
