package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/fitness-tracker/internal/model"
)

// ExerciseRepo reads the exercise catalog used by the workout
// designer. The catalog is bulk-loaded once at startup and treated
// as immutable reference data afterwards.
type ExerciseRepo struct{ db *sql.DB }

func NewExerciseRepo(db *sql.DB) *ExerciseRepo { return &ExerciseRepo{db: db} }

// ExerciseFilter narrows a catalog listing. Empty fields mean no
// constraint; provided fields are ANDed. Search matches the name
// case-insensitively as a substring.
type ExerciseFilter struct {
	Category   string
	Difficulty string
	Equipment  string
	Search     string
}

// filterWhere builds the WHERE clause and arguments for a filter.
// Kept as a pure function so the composition rules are testable.
func filterWhere(f ExerciseFilter) (string, []any) {
	where := []string{}
	args := []any{}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Difficulty != "" {
		where = append(where, "difficulty = ?")
		args = append(args, f.Difficulty)
	}
	if f.Equipment != "" {
		where = append(where, "equipment = ?")
		args = append(args, f.Equipment)
	}
	if f.Search != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// List returns all catalog rows matching the filter, unpaginated.
func (r *ExerciseRepo) List(ctx context.Context, f ExerciseFilter) ([]model.Exercise, error) {
	cond, args := filterWhere(f)
	q := "SELECT id, name, category, primary_muscle_groups, equipment, difficulty, workout_goal, location FROM exercises" +
		cond + " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Exercise, 0)
	for rows.Next() {
		var ex model.Exercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.Category, &ex.MuscleGroups, &ex.Equipment, &ex.Difficulty, &ex.Goal, &ex.Location); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// Facets returns the distinct categories, difficulties and equipment
// values; the designer page uses them to populate its filters.
func (r *ExerciseRepo) Facets(ctx context.Context) (categories, difficulties, equipment []string, err error) {
	if categories, err = r.distinct(ctx, "category"); err != nil {
		return nil, nil, nil, err
	}
	if difficulties, err = r.distinct(ctx, "difficulty"); err != nil {
		return nil, nil, nil, err
	}
	if equipment, err = r.distinct(ctx, "equipment"); err != nil {
		return nil, nil, nil, err
	}
	return categories, difficulties, equipment, nil
}

// Count returns the number of catalog rows for the seeder.
func (r *ExerciseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM exercises").Scan(&n)
	return n, err
}

// InsertBatch inserts catalog rows in chunks of one statement each.
func (r *ExerciseRepo) InsertBatch(ctx context.Context, exercises []model.Exercise) error {
	const chunk = 500
	for start := 0; start < len(exercises); start += chunk {
		end := start + chunk
		if end > len(exercises) {
			end = len(exercises)
		}
		var sb strings.Builder
		sb.WriteString("INSERT INTO exercises (name, category, primary_muscle_groups, equipment, difficulty, workout_goal, location) VALUES ")
		args := make([]any, 0, (end-start)*7)
		for i, ex := range exercises[start:end] {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("(?,?,?,?,?,?,?)")
			args = append(args, ex.Name, ex.Category, ex.MuscleGroups, ex.Equipment, ex.Difficulty, ex.Goal, ex.Location)
		}
		if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExerciseRepo) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT "+column+" FROM exercises ORDER BY "+column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
