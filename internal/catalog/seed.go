// Package catalog seeds the immutable reference data: the default
// workout types and the exercise catalog. Both seeds run only when
// their table is empty; once any row exists they never run again.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-tracker/internal/model"
)

// workoutTypeStore is the slice of the workout type repository the
// seeder needs.
type workoutTypeStore interface {
	Count(ctx context.Context) (int64, error)
	InsertBatch(ctx context.Context, types []model.WorkoutType) error
}

// exerciseStore is the slice of the exercise repository the seeder
// needs.
type exerciseStore interface {
	Count(ctx context.Context) (int64, error)
	InsertBatch(ctx context.Context, exercises []model.Exercise) error
}

func u32(v uint32) *uint32 { return &v }

// defaultWorkoutTypes returns the built-in catalog entries.
func defaultWorkoutTypes() []model.WorkoutType {
	return []model.WorkoutType{
		{Name: "Running", Description: "Cardiovascular exercise", DefaultDuration: u32(30), DefaultCalories: u32(300)},
		{Name: "Cycling", Description: "Bike riding workout", DefaultDuration: u32(45), DefaultCalories: u32(400)},
		{Name: "Swimming", Description: "Full body water workout", DefaultDuration: u32(30), DefaultCalories: u32(350)},
		{Name: "Weight Training", Description: "Strength building exercises", DefaultDuration: u32(60), DefaultCalories: u32(250)},
		{Name: "Yoga", Description: "Flexibility and mindfulness", DefaultDuration: u32(45), DefaultCalories: u32(150)},
		{Name: "HIIT", Description: "High intensity interval training", DefaultDuration: u32(30), DefaultCalories: u32(400)},
		{Name: "Walking", Description: "Low impact cardio", DefaultDuration: u32(30), DefaultCalories: u32(150)},
		{Name: "Pilates", Description: "Core strengthening", DefaultDuration: u32(45), DefaultCalories: u32(200)},
	}
}

// SeedWorkoutTypes inserts the default workout types when the table
// is empty.
func SeedWorkoutTypes(ctx context.Context, store workoutTypeStore) error {
	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count workout types: %w", err)
	}
	if n > 0 {
		return nil
	}
	types := defaultWorkoutTypes()
	if err := store.InsertBatch(ctx, types); err != nil {
		return fmt.Errorf("insert workout types: %w", err)
	}
	log.Infof("seeded %d default workout types", len(types))
	return nil
}

// Expected header columns of the exercise import file.
var exerciseColumns = []string{
	"Exercise", "Category", "Primary Muscle Groups", "Equipment",
	"Difficulty", "Workout Goal", "Location",
}

// ParseExercisesCSV reads the exercise catalog from CSV. The first
// record must be the header; columns may appear in any order and
// extra columns are ignored.
func ParseExercisesCSV(r io.Reader) ([]model.Exercise, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range exerciseColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var exercises []model.Exercise
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		field := func(col string) string { return strings.TrimSpace(record[idx[col]]) }
		name := field("Exercise")
		if name == "" {
			continue
		}
		exercises = append(exercises, model.Exercise{
			Name:         name,
			Category:     field("Category"),
			MuscleGroups: field("Primary Muscle Groups"),
			Equipment:    field("Equipment"),
			Difficulty:   field("Difficulty"),
			Goal:         field("Workout Goal"),
			Location:     field("Location"),
		})
	}
	return exercises, nil
}

// SeedExercises bulk-loads the exercise catalog from the CSV at path
// when the table is empty. A missing file is logged and skipped: the
// catalog import is a convenience, not a startup requirement.
func SeedExercises(ctx context.Context, store exerciseStore, path string) error {
	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count exercises: %w", err)
	}
	if n > 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("exercise catalog file %s not found; skipping import", path)
			return nil
		}
		return fmt.Errorf("open exercise catalog: %w", err)
	}
	defer f.Close()

	exercises, err := ParseExercisesCSV(f)
	if err != nil {
		return fmt.Errorf("parse exercise catalog: %w", err)
	}
	if len(exercises) == 0 {
		log.Warnf("exercise catalog file %s contains no rows", path)
		return nil
	}
	if err := store.InsertBatch(ctx, exercises); err != nil {
		return fmt.Errorf("insert exercises: %w", err)
	}
	log.Infof("loaded %d exercises from %s", len(exercises), path)
	return nil
}
