package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/repository"
)

// customWorkoutStore is the slice of the custom workout repository
// the handler needs; tests substitute an in-memory fake.
type customWorkoutStore interface {
	Create(ctx context.Context, userID uint64, name, description string, entries []repository.NewEntry) (uint64, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.CustomWorkout, error)
	GetForUser(ctx context.Context, id, userID uint64) (model.CustomWorkout, []model.CustomWorkoutExercise, error)
	Delete(ctx context.Context, id, userID uint64) error
}

// CustomWorkoutHandler serves the user-authored workout endpoints.
type CustomWorkoutHandler struct {
	Store customWorkoutStore
}

func NewCustomWorkoutHandler(s customWorkoutStore) *CustomWorkoutHandler {
	if s == nil {
		panic("nil store passed to NewCustomWorkoutHandler")
	}
	return &CustomWorkoutHandler{Store: s}
}

type customEntryReq struct {
	ExerciseID uint64  `json:"exercise_id"`
	Sets       *uint32 `json:"sets"`
	Reps       *uint32 `json:"reps"`
	Duration   *uint32 `json:"duration"`
	Notes      string  `json:"notes"`
}

type customWorkoutReq struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Exercises   []customEntryReq `json:"exercises"`
}

type customEntryResp struct {
	ID         uint64  `json:"id"`
	ExerciseID uint64  `json:"exercise_id"`
	Sets       *uint32 `json:"sets"`
	Reps       *uint32 `json:"reps"`
	Duration   *uint32 `json:"duration"`
	Position   uint32  `json:"position"`
	Notes      string  `json:"notes"`
}

type customWorkoutResp struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	Exercises   []customEntryResp `json:"exercises,omitempty"`
}

// Create builds a custom workout from an ordered list of exercise
// references. The submitted order is the stored order.
func (h *CustomWorkoutHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req customWorkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if len(req.Exercises) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one exercise is required"})
	}
	entries := make([]repository.NewEntry, 0, len(req.Exercises))
	for _, e := range req.Exercises {
		if e.ExerciseID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "exercise_id is required for every entry"})
		}
		entries = append(entries, repository.NewEntry{
			ExerciseID: e.ExerciseID,
			Sets:       e.Sets,
			Reps:       e.Reps,
			Duration:   e.Duration,
			Notes:      e.Notes,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Store.Create(ctx, uid, req.Name, req.Description, entries)
	if err != nil {
		return fail(c, err, "create custom workout failed")
	}

	cw, stored, err := h.Store.GetForUser(ctx, id, uid)
	if err != nil {
		return fail(c, err, "load custom workout failed")
	}
	return c.JSON(http.StatusCreated, toCustomWorkoutResp(cw, stored))
}

// List returns the caller's custom workouts, newest first, without
// their entries.
func (h *CustomWorkoutHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	workouts, err := h.Store.ListByUser(ctx, uid)
	if err != nil {
		return fail(c, err, "list custom workouts failed")
	}
	out := make([]customWorkoutResp, 0, len(workouts))
	for _, cw := range workouts {
		out = append(out, toCustomWorkoutResp(cw, nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"custom_workouts": out})
}

// Get returns one custom workout with its entries in stored order.
func (h *CustomWorkoutHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cw, entries, err := h.Store.GetForUser(ctx, id, uid)
	if err != nil {
		return fail(c, err, "load custom workout failed")
	}
	return c.JSON(http.StatusOK, toCustomWorkoutResp(cw, entries))
}

// Delete removes a custom workout and its entries. Plan entries
// referencing it disappear with it; materialized history stays.
func (h *CustomWorkoutHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.Delete(ctx, id, uid); err != nil {
		return fail(c, err, "delete custom workout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func toCustomWorkoutResp(cw model.CustomWorkout, entries []model.CustomWorkoutExercise) customWorkoutResp {
	resp := customWorkoutResp{
		ID:          cw.ID,
		Name:        cw.Name,
		Description: cw.Description,
		CreatedAt:   cw.CreatedAt,
	}
	for _, e := range entries {
		resp.Exercises = append(resp.Exercises, customEntryResp{
			ID:         e.ID,
			ExerciseID: e.ExerciseID,
			Sets:       e.Sets,
			Reps:       e.Reps,
			Duration:   e.Duration,
			Position:   e.Position,
			Notes:      e.Notes,
		})
	}
	return resp
}
