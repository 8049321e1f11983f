package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fitness-tracker/internal/model"
)

type fakeTypeStore struct {
	count    int64
	inserted []model.WorkoutType
}

func (f *fakeTypeStore) Count(context.Context) (int64, error) { return f.count, nil }
func (f *fakeTypeStore) InsertBatch(_ context.Context, types []model.WorkoutType) error {
	f.inserted = append(f.inserted, types...)
	return nil
}

type fakeExerciseStore struct {
	count    int64
	inserted []model.Exercise
}

func (f *fakeExerciseStore) Count(context.Context) (int64, error) { return f.count, nil }
func (f *fakeExerciseStore) InsertBatch(_ context.Context, exercises []model.Exercise) error {
	f.inserted = append(f.inserted, exercises...)
	return nil
}

func TestSeedWorkoutTypesWhenEmpty(t *testing.T) {
	store := &fakeTypeStore{}
	require.NoError(t, SeedWorkoutTypes(context.Background(), store))
	require.Len(t, store.inserted, 8)
	assert.Equal(t, "Running", store.inserted[0].Name)
	require.NotNil(t, store.inserted[0].DefaultDuration)
	assert.Equal(t, uint32(30), *store.inserted[0].DefaultDuration)
	require.NotNil(t, store.inserted[0].DefaultCalories)
	assert.Equal(t, uint32(300), *store.inserted[0].DefaultCalories)
}

func TestSeedWorkoutTypesSkipsNonEmptyCatalog(t *testing.T) {
	// No re-seed once any row exists, even after partial deletion.
	store := &fakeTypeStore{count: 3}
	require.NoError(t, SeedWorkoutTypes(context.Background(), store))
	assert.Empty(t, store.inserted)
}

const sampleCSV = `Exercise,Category,Primary Muscle Groups,Equipment,Difficulty,Workout Goal,Location
Running,Cardio,Legs,None,Beginner,Endurance,Outdoor
Bench Press,Strength,Chest,Barbell,Intermediate,Muscle Gain,Gym
,Strength,Chest,Barbell,Intermediate,Muscle Gain,Gym
`

func TestParseExercisesCSV(t *testing.T) {
	exercises, err := ParseExercisesCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, exercises, 2, "rows without a name are skipped")

	assert.Equal(t, model.Exercise{
		Name:         "Running",
		Category:     "Cardio",
		MuscleGroups: "Legs",
		Equipment:    "None",
		Difficulty:   "Beginner",
		Goal:         "Endurance",
		Location:     "Outdoor",
	}, exercises[0])
	assert.Equal(t, "Bench Press", exercises[1].Name)
}

func TestParseExercisesCSVReordersColumns(t *testing.T) {
	csv := "Category,Exercise,Location,Primary Muscle Groups,Equipment,Difficulty,Workout Goal\n" +
		"Cardio,Jump Rope,Home,Calves,Rope,Beginner,Endurance\n"
	exercises, err := ParseExercisesCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "Jump Rope", exercises[0].Name)
	assert.Equal(t, "Home", exercises[0].Location)
}

func TestParseExercisesCSVMissingColumn(t *testing.T) {
	_, err := ParseExercisesCSV(strings.NewReader("Exercise,Category\nRunning,Cardio\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Primary Muscle Groups")
}

func TestSeedExercisesSkipsNonEmptyCatalog(t *testing.T) {
	store := &fakeExerciseStore{count: 10}
	require.NoError(t, SeedExercises(context.Background(), store, "does-not-matter.csv"))
	assert.Empty(t, store.inserted)
}

func TestSeedExercisesMissingFileIsNoop(t *testing.T) {
	store := &fakeExerciseStore{}
	require.NoError(t, SeedExercises(context.Background(), store, "/nonexistent/exercises.csv"))
	assert.Empty(t, store.inserted)
}
