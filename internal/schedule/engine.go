// Package schedule implements the scheduling and completion engine.
// Completing a scheduled workout is log-and-link, not a flag flip:
// it materializes a history entry dated on the scheduled day and
// records its id in workout_id. Uncompleting symmetrically removes
// the entry it created, so repeated complete/uncomplete cycles never
// accumulate duplicate history. Both transitions are idempotent and
// each runs inside a single storage transaction.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/fitness-tracker/internal/apperr"
	"github.com/iliyamo/fitness-tracker/internal/model"
)

// Estimation constants for completing a scheduled workout. Catalog
// types fall back to 30 minutes / 200 calories when the seed left
// the defaults unset; custom workouts are estimated linearly from
// their exercise count.
const (
	fallbackDuration   = 30
	fallbackCalories   = 200
	minutesPerExercise = 5
	caloriesPerMinute  = 7
)

// Session is the explicit storage session handed to each operation.
// Implementations must return apperr.ErrNotFound when a referenced
// id is absent. Inside InTx all calls share one transaction.
type Session interface {
	GetScheduled(ctx context.Context, id uint64) (model.ScheduledWorkout, error)
	CreateScheduled(ctx context.Context, sw *model.ScheduledWorkout) error
	UpdateScheduled(ctx context.Context, sw *model.ScheduledWorkout) error
	DeleteScheduled(ctx context.Context, id uint64) error
	ListScheduledBetween(ctx context.Context, userID uint64, from, to time.Time) ([]model.ScheduledWorkout, error)
	FindWorkoutType(ctx context.Context, id uint64) (model.WorkoutType, error)
	FindCustomWorkout(ctx context.Context, id uint64) (model.CustomWorkout, error)
	CountCustomWorkoutExercises(ctx context.Context, customWorkoutID uint64) (int, error)
	CreateWorkout(ctx context.Context, w *model.Workout) error
	DeleteWorkout(ctx context.Context, id uint64) error
}

// Store is a Session that can also scope a group of calls to one
// transaction. When fn returns an error the transaction is rolled
// back entirely and no partial state is visible.
type Store interface {
	Session
	InTx(ctx context.Context, fn func(Session) error) error
}

// Engine owns the scheduled-workout state machine.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store}
}

// Request carries the input for scheduling a workout. Exactly one
// of WorkoutTypeID and CustomWorkoutID must be set.
type Request struct {
	WorkoutTypeID   *uint64
	CustomWorkoutID *uint64
	ScheduledDate   time.Time
	Notes           string
}

// Schedule creates a pending scheduled workout for the user. The
// exactly-one-of rule is enforced here, on every create path. A
// referenced custom workout must belong to the scheduling user.
func (e *Engine) Schedule(ctx context.Context, userID uint64, req Request) (model.ScheduledWorkout, error) {
	if (req.WorkoutTypeID == nil) == (req.CustomWorkoutID == nil) {
		return model.ScheduledWorkout{}, fmt.Errorf("%w: exactly one of workout_type_id and custom_workout_id must be set", apperr.ErrValidation)
	}
	if req.WorkoutTypeID != nil {
		if _, err := e.store.FindWorkoutType(ctx, *req.WorkoutTypeID); err != nil {
			return model.ScheduledWorkout{}, err
		}
	}
	if req.CustomWorkoutID != nil {
		cw, err := e.store.FindCustomWorkout(ctx, *req.CustomWorkoutID)
		if err != nil {
			return model.ScheduledWorkout{}, err
		}
		if cw.UserID != userID {
			return model.ScheduledWorkout{}, apperr.ErrForbidden
		}
	}
	sw := model.ScheduledWorkout{
		UserID:          userID,
		WorkoutTypeID:   req.WorkoutTypeID,
		CustomWorkoutID: req.CustomWorkoutID,
		ScheduledDate:   req.ScheduledDate,
		Notes:           req.Notes,
	}
	if err := e.store.CreateScheduled(ctx, &sw); err != nil {
		return model.ScheduledWorkout{}, err
	}
	return sw, nil
}

// Complete transitions a scheduled workout from pending to done.
// When workout_id is already set the call is a no-op re-completion
// and no second history entry is created; otherwise a history entry
// is materialized, dated on the scheduled day, and linked back.
// The returned *model.Workout is non-nil only when a new history
// entry was created by this call.
func (e *Engine) Complete(ctx context.Context, userID, id uint64) (model.ScheduledWorkout, *model.Workout, error) {
	var (
		out     model.ScheduledWorkout
		created *model.Workout
	)
	err := e.store.InTx(ctx, func(s Session) error {
		sw, err := s.GetScheduled(ctx, id)
		if err != nil {
			return err
		}
		if sw.UserID != userID {
			return apperr.ErrForbidden
		}
		if sw.WorkoutID != nil {
			// Already materialized: only make sure the flag is set.
			if !sw.Completed {
				sw.Completed = true
				if err := s.UpdateScheduled(ctx, &sw); err != nil {
					return err
				}
			}
			out = sw
			return nil
		}

		label, duration, calories, err := estimate(ctx, s, sw)
		if err != nil {
			return err
		}
		notes := sw.Notes
		if notes == "" {
			notes = "Completed scheduled workout: " + label
		}
		w := model.Workout{
			UserID:   sw.UserID,
			Exercise: label,
			Duration: duration,
			Calories: calories,
			Notes:    notes,
			Date:     sw.ScheduledDate,
		}
		if err := s.CreateWorkout(ctx, &w); err != nil {
			return err
		}
		sw.WorkoutID = &w.ID
		sw.Completed = true
		if err := s.UpdateScheduled(ctx, &sw); err != nil {
			return err
		}
		out = sw
		created = &w
		return nil
	})
	if err != nil {
		return model.ScheduledWorkout{}, nil, err
	}
	return out, created, nil
}

// Uncomplete transitions a scheduled workout from done back to
// pending, deleting the history entry it materialized. A history
// entry the user already removed by hand is tolerated.
func (e *Engine) Uncomplete(ctx context.Context, userID, id uint64) (model.ScheduledWorkout, error) {
	var out model.ScheduledWorkout
	err := e.store.InTx(ctx, func(s Session) error {
		sw, err := s.GetScheduled(ctx, id)
		if err != nil {
			return err
		}
		if sw.UserID != userID {
			return apperr.ErrForbidden
		}
		if sw.WorkoutID != nil {
			if err := s.DeleteWorkout(ctx, *sw.WorkoutID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
				return err
			}
			sw.WorkoutID = nil
		}
		sw.Completed = false
		if err := s.UpdateScheduled(ctx, &sw); err != nil {
			return err
		}
		out = sw
		return nil
	})
	if err != nil {
		return model.ScheduledWorkout{}, err
	}
	return out, nil
}

// Delete removes a scheduled workout after verifying ownership. The
// materialized history entry, if any, stays: deleting a plan does
// not rewrite what happened.
func (e *Engine) Delete(ctx context.Context, userID, id uint64) error {
	sw, err := e.store.GetScheduled(ctx, id)
	if err != nil {
		return err
	}
	if sw.UserID != userID {
		return apperr.ErrForbidden
	}
	return e.store.DeleteScheduled(ctx, id)
}

// ListBetween returns the user's scheduled workouts whose date falls
// in [from, to] inclusive.
func (e *Engine) ListBetween(ctx context.Context, userID uint64, from, to time.Time) ([]model.ScheduledWorkout, error) {
	return e.store.ListScheduledBetween(ctx, userID, from, to)
}

// estimate derives the history-entry label, duration and calories
// from whichever reference the scheduled workout carries.
func estimate(ctx context.Context, s Session, sw model.ScheduledWorkout) (string, uint32, uint32, error) {
	switch {
	case sw.WorkoutTypeID != nil:
		wt, err := s.FindWorkoutType(ctx, *sw.WorkoutTypeID)
		if err != nil {
			return "", 0, 0, err
		}
		duration := uint32(fallbackDuration)
		if wt.DefaultDuration != nil && *wt.DefaultDuration > 0 {
			duration = *wt.DefaultDuration
		}
		calories := uint32(fallbackCalories)
		if wt.DefaultCalories != nil && *wt.DefaultCalories > 0 {
			calories = *wt.DefaultCalories
		}
		return wt.Name, duration, calories, nil
	case sw.CustomWorkoutID != nil:
		cw, err := s.FindCustomWorkout(ctx, *sw.CustomWorkoutID)
		if err != nil {
			return "", 0, 0, err
		}
		n, err := s.CountCustomWorkoutExercises(ctx, cw.ID)
		if err != nil {
			return "", 0, 0, err
		}
		duration := uint32(n) * minutesPerExercise
		return cw.Name, duration, duration * caloriesPerMinute, nil
	default:
		// Unreachable as long as every write path keeps the
		// exactly-one-of invariant.
		return "", 0, 0, fmt.Errorf("%w: scheduled workout %d references neither a workout type nor a custom workout", apperr.ErrConflict, sw.ID)
	}
}

// WeekStart returns the Monday of the week containing day, shifted
// by offset weeks. The time portion of day is ignored.
func WeekStart(day time.Time, offset int) time.Time {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	back := (int(d.Weekday()) + 6) % 7 // Monday-based weekday
	return d.AddDate(0, 0, -back+7*offset)
}
