package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/repository"
)

// exerciseStore is the slice of the exercise repository the handler
// needs.
type exerciseStore interface {
	List(ctx context.Context, f repository.ExerciseFilter) ([]model.Exercise, error)
	Facets(ctx context.Context) (categories, difficulties, equipment []string, err error)
}

// workoutTypeLister lists the seeded workout type catalog.
type workoutTypeLister interface {
	List(ctx context.Context) ([]model.WorkoutType, error)
}

// CatalogHandler serves the read-only reference data: the exercise
// library and the workout type catalog. Responses are identical for
// every user, which is what makes these routes cacheable.
type CatalogHandler struct {
	Exercises exerciseStore
	Types     workoutTypeLister
}

func NewCatalogHandler(e exerciseStore, t workoutTypeLister) *CatalogHandler {
	if e == nil || t == nil {
		panic("nil store passed to NewCatalogHandler")
	}
	return &CatalogHandler{Exercises: e, Types: t}
}

// ListExercises returns the exercise library, narrowed by the
// optional category, difficulty, equipment and search query params.
func (h *CatalogHandler) ListExercises(c echo.Context) error {
	f := repository.ExerciseFilter{
		Category:   c.QueryParam("category"),
		Difficulty: c.QueryParam("difficulty"),
		Equipment:  c.QueryParam("equipment"),
		Search:     c.QueryParam("search"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	exercises, err := h.Exercises.List(ctx, f)
	if err != nil {
		return fail(c, err, "list exercises failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"exercises": exercises, "count": len(exercises)})
}

// ExerciseFacets returns the distinct filter values so clients can
// build their dropdowns without hardcoding the catalog contents.
func (h *CatalogHandler) ExerciseFacets(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	categories, difficulties, equipment, err := h.Exercises.Facets(ctx)
	if err != nil {
		return fail(c, err, "load facets failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"categories":   categories,
		"difficulties": difficulties,
		"equipment":    equipment,
	})
}

// ListWorkoutTypes returns the seeded workout type catalog.
func (h *CatalogHandler) ListWorkoutTypes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	types, err := h.Types.List(ctx)
	if err != nil {
		return fail(c, err, "list workout types failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"workout_types": types})
}
