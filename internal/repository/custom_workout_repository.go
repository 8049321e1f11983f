package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/fitness-tracker/internal/apperr"
	"github.com/iliyamo/fitness-tracker/internal/model"
)

// CustomWorkoutRepo persists user-authored workouts and their
// ordered exercise entries. A workout and its entries are written
// in one transaction; entries carry the zero-based position taken
// from submission order and reads return them ordered by it.
type CustomWorkoutRepo struct{ db *sql.DB }

func NewCustomWorkoutRepo(db *sql.DB) *CustomWorkoutRepo { return &CustomWorkoutRepo{db: db} }

// NewEntry is one exercise reference in a creation request, in
// submission order.
type NewEntry struct {
	ExerciseID uint64
	Sets       *uint32
	Reps       *uint32
	Duration   *uint32
	Notes      string
}

// Create inserts the workout row plus one entry per element of
// entries, assigning positions 0..n-1, and returns the new workout
// id. A reference to a nonexistent exercise yields
// apperr.ErrNotFound and nothing is written.
func (r *CustomWorkoutRepo) Create(ctx context.Context, userID uint64, name, description string, entries []NewEntry) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO custom_workouts (user_id, name, description) VALUES (?,?,?)",
		userID, name, description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO custom_workout_exercises (custom_workout_id, exercise_id, sets, reps, duration, position, notes) VALUES ")
	args := make([]any, 0, len(entries)*7)
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?,?,?)")
		args = append(args, id, e.ExerciseID, e.Sets, e.Reps, e.Duration, i, e.Notes)
	}
	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		// 1452 = foreign key constraint fails: unknown exercise_id
		if strings.Contains(err.Error(), "1452") {
			return 0, apperr.ErrNotFound
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns the user's custom workouts, newest first.
func (r *CustomWorkoutRepo) ListByUser(ctx context.Context, userID uint64) ([]model.CustomWorkout, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, name, COALESCE(description,''), created_at FROM custom_workouts WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CustomWorkout, 0)
	for rows.Next() {
		var cw model.CustomWorkout
		if err := rows.Scan(&cw.ID, &cw.UserID, &cw.Name, &cw.Description, &cw.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cw)
	}
	return out, rows.Err()
}

// GetForUser returns a custom workout owned by userID along with its
// entries ordered ascending by position.
func (r *CustomWorkoutRepo) GetForUser(ctx context.Context, id, userID uint64) (model.CustomWorkout, []model.CustomWorkoutExercise, error) {
	var cw model.CustomWorkout
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, COALESCE(description,''), created_at FROM custom_workouts WHERE id=? LIMIT 1",
		id).Scan(&cw.ID, &cw.UserID, &cw.Name, &cw.Description, &cw.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CustomWorkout{}, nil, apperr.ErrNotFound
	}
	if err != nil {
		return model.CustomWorkout{}, nil, err
	}
	if cw.UserID != userID {
		return model.CustomWorkout{}, nil, apperr.ErrForbidden
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, custom_workout_id, exercise_id, sets, reps, duration, position, COALESCE(notes,'') FROM custom_workout_exercises WHERE custom_workout_id=? ORDER BY position",
		id)
	if err != nil {
		return model.CustomWorkout{}, nil, err
	}
	defer rows.Close()
	entries := make([]model.CustomWorkoutExercise, 0)
	for rows.Next() {
		var (
			e                    model.CustomWorkoutExercise
			sets, reps, duration sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.CustomWorkoutID, &e.ExerciseID, &sets, &reps, &duration, &e.Position, &e.Notes); err != nil {
			return model.CustomWorkout{}, nil, err
		}
		if sets.Valid {
			v := uint32(sets.Int64)
			e.Sets = &v
		}
		if reps.Valid {
			v := uint32(reps.Int64)
			e.Reps = &v
		}
		if duration.Valid {
			v := uint32(duration.Int64)
			e.Duration = &v
		}
		entries = append(entries, e)
	}
	return cw, entries, rows.Err()
}

// Delete removes a custom workout owned by userID; the schema
// cascades the delete to its entries.
func (r *CustomWorkoutRepo) Delete(ctx context.Context, id, userID uint64) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM custom_workouts WHERE id=? LIMIT 1", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return apperr.ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM custom_workouts WHERE id=?", id)
	return err
}
