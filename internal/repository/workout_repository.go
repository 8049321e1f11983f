package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-tracker/internal/apperr"
	"github.com/iliyamo/fitness-tracker/internal/model"
)

// WorkoutRepo provides CRUD over the workouts history table. Every
// operation that targets a single row verifies that the row belongs
// to the acting user and returns apperr.ErrForbidden on mismatch,
// leaving the row untouched.
type WorkoutRepo struct{ db *sql.DB }

func NewWorkoutRepo(db *sql.DB) *WorkoutRepo { return &WorkoutRepo{db: db} }

// Create inserts a history entry and populates its ID.
func (r *WorkoutRepo) Create(ctx context.Context, w *model.Workout) error {
	res, err := r.db.ExecContext(ctx,
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

// GetForUser returns a single history entry owned by userID.
func (r *WorkoutRepo) GetForUser(ctx context.Context, id, userID uint64) (model.Workout, error) {
	w, err := r.get(ctx, id)
	if err != nil {
		return model.Workout{}, err
	}
	if w.UserID != userID {
		return model.Workout{}, apperr.ErrForbidden
	}
	return w, nil
}

// Update rewrites the mutable fields of an entry. w.ID selects the
// row, w.UserID is the acting user.
func (r *WorkoutRepo) Update(ctx context.Context, w *model.Workout) error {
	cur, err := r.get(ctx, w.ID)
	if err != nil {
		return err
	}
	if cur.UserID != w.UserID {
		return apperr.ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE workouts SET exercise=?, duration=?, calories=?, notes=?, date=? WHERE id=?",
		w.Exercise, w.Duration, w.Calories, w.Notes, w.Date, w.ID)
	return err
}

// Delete removes an entry owned by userID.
func (r *WorkoutRepo) Delete(ctx context.Context, id, userID uint64) error {
	cur, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	if cur.UserID != userID {
		return apperr.ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM workouts WHERE id=?", id)
	return err
}

// ListByUser returns the user's history, newest date first.
func (r *WorkoutRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Workout, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, exercise, duration, calories, COALESCE(notes,''), date, created_at FROM workouts WHERE user_id=? ORDER BY date DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Workout, 0)
	for rows.Next() {
		var w model.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Exercise, &w.Duration, &w.Calories, &w.Notes, &w.Date, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *WorkoutRepo) get(ctx context.Context, id uint64) (model.Workout, error) {
	var w model.Workout
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, exercise, duration, calories, COALESCE(notes,''), date, created_at FROM workouts WHERE id=? LIMIT 1",
		id).Scan(&w.ID, &w.UserID, &w.Exercise, &w.Duration, &w.Calories, &w.Notes, &w.Date, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Workout{}, apperr.ErrNotFound
	}
	return w, err
}
