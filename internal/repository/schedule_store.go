package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/fitness-tracker/internal/apperr"
	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/schedule"
)

// queryer is satisfied by both *sql.DB and *sql.Tx so the same
// statements serve plain calls and transactional sessions.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ScheduleStore implements schedule.Store over MySQL. InTx hands the
// engine a session bound to one transaction; the completion and
// uncompletion transitions rely on that to keep the completed flag,
// the workout_id link and the history row consistent.
type ScheduleStore struct {
	db *sql.DB
	q  queryer
}

func NewScheduleStore(db *sql.DB) *ScheduleStore { return &ScheduleStore{db: db, q: db} }

// InTx runs fn with a session scoped to a single transaction and
// commits it when fn succeeds; any error rolls back everything.
func (s *ScheduleStore) InTx(ctx context.Context, fn func(schedule.Session) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	sess := &ScheduleStore{db: s.db, q: tx}
	if err := fn(sess); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

const scheduledColumns = "id, user_id, workout_type_id, custom_workout_id, scheduled_date, COALESCE(notes,''), completed, workout_id, created_at"

// GetScheduled fetches one scheduled workout by id.
func (s *ScheduleStore) GetScheduled(ctx context.Context, id uint64) (model.ScheduledWorkout, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+scheduledColumns+" FROM scheduled_workouts WHERE id=? LIMIT 1", id)
	sw, err := scanScheduled(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ScheduledWorkout{}, apperr.ErrNotFound
	}
	return sw, err
}

// CreateScheduled inserts a scheduled workout and populates its ID.
func (s *ScheduleStore) CreateScheduled(ctx context.Context, sw *model.ScheduledWorkout) error {
	res, err := s.q.ExecContext(ctx,
		"INSERT INTO scheduled_workouts (user_id, workout_type_id, custom_workout_id, scheduled_date, notes, completed, workout_id) VALUES (?,?,?,?,?,?,?)",
		sw.UserID, sw.WorkoutTypeID, sw.CustomWorkoutID, sw.ScheduledDate, sw.Notes, sw.Completed, sw.WorkoutID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sw.ID = uint64(id)
	return nil
}

// UpdateScheduled rewrites the mutable fields of a scheduled workout.
func (s *ScheduleStore) UpdateScheduled(ctx context.Context, sw *model.ScheduledWorkout) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE scheduled_workouts SET workout_type_id=?, custom_workout_id=?, scheduled_date=?, notes=?, completed=?, workout_id=? WHERE id=?",
		sw.WorkoutTypeID, sw.CustomWorkoutID, sw.ScheduledDate, sw.Notes, sw.Completed, sw.WorkoutID, sw.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is also 0 for a no-change update; confirm absence.
		if _, err := s.GetScheduled(ctx, sw.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteScheduled removes a scheduled workout by id.
func (s *ScheduleStore) DeleteScheduled(ctx context.Context, id uint64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM scheduled_workouts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListScheduledBetween returns the user's scheduled workouts with
// scheduled_date in [from, to] inclusive, ordered by date.
func (s *ScheduleStore) ListScheduledBetween(ctx context.Context, userID uint64, from, to time.Time) ([]model.ScheduledWorkout, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+scheduledColumns+" FROM scheduled_workouts WHERE user_id=? AND scheduled_date>=? AND scheduled_date<=? ORDER BY scheduled_date, id",
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ScheduledWorkout, 0)
	for rows.Next() {
		sw, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sw)
	}
	return out, rows.Err()
}

// FindWorkoutType fetches a catalog type inside the session.
func (s *ScheduleStore) FindWorkoutType(ctx context.Context, id uint64) (model.WorkoutType, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT id, name, COALESCE(description,''), default_duration, default_calories FROM workout_types WHERE id=? LIMIT 1", id)
	wt, err := scanWorkoutType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WorkoutType{}, apperr.ErrNotFound
	}
	return wt, err
}

// FindCustomWorkout fetches a custom workout inside the session.
func (s *ScheduleStore) FindCustomWorkout(ctx context.Context, id uint64) (model.CustomWorkout, error) {
	var cw model.CustomWorkout
	err := s.q.QueryRowContext(ctx,
		"SELECT id, user_id, name, COALESCE(description,''), created_at FROM custom_workouts WHERE id=? LIMIT 1",
		id).Scan(&cw.ID, &cw.UserID, &cw.Name, &cw.Description, &cw.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CustomWorkout{}, apperr.ErrNotFound
	}
	return cw, err
}

// CountCustomWorkoutExercises counts the entries of a custom workout.
func (s *ScheduleStore) CountCustomWorkoutExercises(ctx context.Context, customWorkoutID uint64) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM custom_workout_exercises WHERE custom_workout_id=?", customWorkoutID).Scan(&n)
	return n, err
}

// CreateWorkout materializes a history entry inside the session.
func (s *ScheduleStore) CreateWorkout(ctx context.Context, w *model.Workout) error {
	res, err := s.q.ExecContext(ctx,
		"INSERT INTO workouts (user_id, exercise, duration, calories, notes, date) VALUES (?,?,?,?,?,?)",
		w.UserID, w.Exercise, w.Duration, w.Calories, w.Notes, w.Date)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// DeleteWorkout removes a history entry; apperr.ErrNotFound when the
// row is already gone so uncompletion can tolerate manual deletes.
func (s *ScheduleStore) DeleteWorkout(ctx context.Context, id uint64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM workouts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func scanScheduled(row rowScanner) (model.ScheduledWorkout, error) {
	var (
		sw                          model.ScheduledWorkout
		typeID, customID, workoutID sql.NullInt64
	)
	if err := row.Scan(&sw.ID, &sw.UserID, &typeID, &customID, &sw.ScheduledDate, &sw.Notes, &sw.Completed, &workoutID, &sw.CreatedAt); err != nil {
		return model.ScheduledWorkout{}, err
	}
	if typeID.Valid {
		v := uint64(typeID.Int64)
		sw.WorkoutTypeID = &v
	}
	if customID.Valid {
		v := uint64(customID.Int64)
		sw.CustomWorkoutID = &v
	}
	if workoutID.Valid {
		v := uint64(workoutID.Int64)
		sw.WorkoutID = &v
	}
	return sw, nil
}
