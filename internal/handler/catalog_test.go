package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/repository"
)

type fakeExercises struct {
	exercises  []model.Exercise
	lastFilter repository.ExerciseFilter
}

func (f *fakeExercises) List(_ context.Context, filter repository.ExerciseFilter) ([]model.Exercise, error) {
	f.lastFilter = filter
	return f.exercises, nil
}

func (f *fakeExercises) Facets(context.Context) ([]string, []string, []string, error) {
	return []string{"Cardio", "Strength"}, []string{"Beginner"}, []string{"None"}, nil
}

type fakeTypes struct{ types []model.WorkoutType }

func (f *fakeTypes) List(context.Context) ([]model.WorkoutType, error) { return f.types, nil }

func TestListExercisesForwardsFilters(t *testing.T) {
	store := &fakeExercises{exercises: []model.Exercise{{ID: 1, Name: "Running"}}}
	h := NewCatalogHandler(store, &fakeTypes{})

	c, rec := testCtx(t, http.MethodGet, "/v1/exercises?category=Cardio&difficulty=Beginner&search=run", "", 1)
	require.NoError(t, h.ListExercises(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, repository.ExerciseFilter{
		Category:   "Cardio",
		Difficulty: "Beginner",
		Search:     "run",
	}, store.lastFilter)

	var got struct {
		Exercises []model.Exercise `json:"exercises"`
		Count     int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, "Running", got.Exercises[0].Name)
}

func TestExerciseFacets(t *testing.T) {
	h := NewCatalogHandler(&fakeExercises{}, &fakeTypes{})

	c, rec := testCtx(t, http.MethodGet, "/v1/exercises/facets", "", 1)
	require.NoError(t, h.ExerciseFacets(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Categories   []string `json:"categories"`
		Difficulties []string `json:"difficulties"`
		Equipment    []string `json:"equipment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"Cardio", "Strength"}, got.Categories)
	assert.Equal(t, []string{"Beginner"}, got.Difficulties)
	assert.Equal(t, []string{"None"}, got.Equipment)
}

func TestListWorkoutTypes(t *testing.T) {
	d := uint32(30)
	cal := uint32(300)
	h := NewCatalogHandler(&fakeExercises{}, &fakeTypes{types: []model.WorkoutType{
		{ID: 1, Name: "Running", DefaultDuration: &d, DefaultCalories: &cal},
	}})

	c, rec := testCtx(t, http.MethodGet, "/v1/workout-types", "", 1)
	require.NoError(t, h.ListWorkoutTypes(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Running"`)
	assert.Contains(t, rec.Body.String(), `"default_duration":30`)
}
