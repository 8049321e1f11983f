package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/fitness-tracker/internal/apperr"
	"github.com/iliyamo/fitness-tracker/internal/model"
)

// WorkoutTypeRepo reads the workout type catalog. The catalog is
// reference data: nothing mutates it after the startup seed.
type WorkoutTypeRepo struct{ db *sql.DB }

func NewWorkoutTypeRepo(db *sql.DB) *WorkoutTypeRepo { return &WorkoutTypeRepo{db: db} }

// List returns the whole catalog ordered by name.
func (r *WorkoutTypeRepo) List(ctx context.Context) ([]model.WorkoutType, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(description,''), default_duration, default_calories FROM workout_types ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.WorkoutType, 0)
	for rows.Next() {
		wt, err := scanWorkoutType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wt)
	}
	return out, rows.Err()
}

// GetByID fetches one catalog entry.
func (r *WorkoutTypeRepo) GetByID(ctx context.Context, id uint64) (model.WorkoutType, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, COALESCE(description,''), default_duration, default_calories FROM workout_types WHERE id=? LIMIT 1", id)
	wt, err := scanWorkoutType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WorkoutType{}, apperr.ErrNotFound
	}
	return wt, err
}

// Count returns the number of catalog rows; the seeder uses it to
// decide whether to seed at all.
func (r *WorkoutTypeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workout_types").Scan(&n)
	return n, err
}

// InsertBatch inserts all given types in a single statement.
func (r *WorkoutTypeRepo) InsertBatch(ctx context.Context, types []model.WorkoutType) error {
	if len(types) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO workout_types (name, description, default_duration, default_calories) VALUES ")
	args := make([]any, 0, len(types)*4)
	for i, wt := range types {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?)")
		args = append(args, wt.Name, wt.Description, wt.DefaultDuration, wt.DefaultCalories)
	}
	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}

type rowScanner interface{ Scan(dest ...any) error }

func scanWorkoutType(row rowScanner) (model.WorkoutType, error) {
	var (
		wt       model.WorkoutType
		duration sql.NullInt64
		calories sql.NullInt64
	)
	if err := row.Scan(&wt.ID, &wt.Name, &wt.Description, &duration, &calories); err != nil {
		return model.WorkoutType{}, err
	}
	if duration.Valid {
		d := uint32(duration.Int64)
		wt.DefaultDuration = &d
	}
	if calories.Valid {
		c := uint32(calories.Int64)
		wt.DefaultCalories = &c
	}
	return wt, nil
}
