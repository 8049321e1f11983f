package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/model"
)

// workoutStore is the slice of the workout repository the handler
// needs; tests substitute an in-memory fake.
type workoutStore interface {
	Create(ctx context.Context, w *model.Workout) error
	GetForUser(ctx context.Context, id, userID uint64) (model.Workout, error)
	Update(ctx context.Context, w *model.Workout) error
	Delete(ctx context.Context, id, userID uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Workout, error)
}

// schedulePlanner lists planned workouts for the dashboard.
type schedulePlanner interface {
	ListBetween(ctx context.Context, userID uint64, from, to time.Time) ([]model.ScheduledWorkout, error)
}

// WorkoutHandler serves the workout history endpoints plus the
// aggregated stats and dashboard views.
type WorkoutHandler struct {
	Workouts workoutStore
	Planner  schedulePlanner
}

func NewWorkoutHandler(w workoutStore, p schedulePlanner) *WorkoutHandler {
	if w == nil || p == nil {
		panic("nil dependency passed to NewWorkoutHandler")
	}
	return &WorkoutHandler{Workouts: w, Planner: p}
}

type workoutReq struct {
	Exercise string `json:"exercise"`
	Duration uint32 `json:"duration"`
	Calories uint32 `json:"calories"`
	Notes    string `json:"notes"`
	Date     string `json:"date"` // YYYY-MM-DD, defaults to today
}

type workoutResp struct {
	ID        uint64    `json:"id"`
	Exercise  string    `json:"exercise"`
	Duration  uint32    `json:"duration"`
	Calories  uint32    `json:"calories"`
	Notes     string    `json:"notes"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

func toWorkoutResp(w model.Workout) workoutResp {
	return workoutResp{
		ID:        w.ID,
		Exercise:  w.Exercise,
		Duration:  w.Duration,
		Calories:  w.Calories,
		Notes:     w.Notes,
		Date:      w.Date.Format(dateLayout),
		CreatedAt: w.CreatedAt,
	}
}

// parseWorkoutReq validates the body shared by create and update.
func parseWorkoutReq(c echo.Context) (workoutReq, time.Time, bool) {
	var req workoutReq
	if err := c.Bind(&req); err != nil {
		return req, time.Time{}, false
	}
	req.Exercise = strings.TrimSpace(req.Exercise)
	if req.Exercise == "" || req.Duration == 0 || req.Calories == 0 {
		return req, time.Time{}, false
	}
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return req, time.Time{}, false
		}
		date = d
	}
	return req, date, true
}

// Create logs a workout into the history.
func (h *WorkoutHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	req, date, ok := parseWorkoutReq(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exercise, positive duration/calories and a valid date are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	w := model.Workout{
		UserID:   uid,
		Exercise: req.Exercise,
		Duration: req.Duration,
		Calories: req.Calories,
		Notes:    req.Notes,
		Date:     date,
	}
	if err := h.Workouts.Create(ctx, &w); err != nil {
		return fail(c, err, "create workout failed")
	}
	return c.JSON(http.StatusCreated, toWorkoutResp(w))
}

// List returns the user's full history, newest first.
func (h *WorkoutHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	workouts, err := h.Workouts.ListByUser(ctx, uid)
	if err != nil {
		return fail(c, err, "list workouts failed")
	}
	out := make([]workoutResp, 0, len(workouts))
	for _, w := range workouts {
		out = append(out, toWorkoutResp(w))
	}
	return c.JSON(http.StatusOK, echo.Map{"workouts": out})
}

// Get returns one history entry owned by the caller.
func (h *WorkoutHandler) Get(c echo.Context) error {
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

	w, err := h.Workouts.GetForUser(ctx, id, uid)
	if err != nil {
		return fail(c, err, "load workout failed")
	}
	return c.JSON(http.StatusOK, toWorkoutResp(w))
}

// Update rewrites a history entry owned by the caller.
func (h *WorkoutHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	req, date, ok := parseWorkoutReq(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exercise, positive duration/calories and a valid date are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	w := model.Workout{
		ID:       id,
		UserID:   uid,
		Exercise: req.Exercise,
		Duration: req.Duration,
		Calories: req.Calories,
		Notes:    req.Notes,
		Date:     date,
	}
	if err := h.Workouts.Update(ctx, &w); err != nil {
		return fail(c, err, "update workout failed")
	}
	return c.JSON(http.StatusOK, toWorkoutResp(w))
}

// Delete removes a history entry owned by the caller.
func (h *WorkoutHandler) Delete(c echo.Context) error {
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

	if err := h.Workouts.Delete(ctx, id, uid); err != nil {
		return fail(c, err, "delete workout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

type statsResp struct {
	TotalWorkouts int     `json:"total_workouts"`
	TotalDuration uint64  `json:"total_duration"`
	TotalCalories uint64  `json:"total_calories"`
	AvgDuration   float64 `json:"avg_duration"`
}

// sumStats aggregates history entries in application code.
func sumStats(workouts []model.Workout) statsResp {
	var s statsResp
	s.TotalWorkouts = len(workouts)
	for _, w := range workouts {
		s.TotalDuration += uint64(w.Duration)
		s.TotalCalories += uint64(w.Calories)
	}
	if s.TotalWorkouts > 0 {
		s.AvgDuration = float64(s.TotalDuration) / float64(s.TotalWorkouts)
	}
	return s
}

// Stats returns lifetime totals over the caller's history.
func (h *WorkoutHandler) Stats(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	workouts, err := h.Workouts.ListByUser(ctx, uid)
	if err != nil {
		return fail(c, err, "load stats failed")
	}
	return c.JSON(http.StatusOK, sumStats(workouts))
}

// recentLimit caps the history slice shown on the dashboard.
const recentLimit = 5

// Dashboard combines lifetime stats, the most recent history entries
// and the coming week's plan into one view.
func (h *WorkoutHandler) Dashboard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	workouts, err := h.Workouts.ListByUser(ctx, uid)
	if err != nil {
		return fail(c, err, "load dashboard failed")
	}
	recent := workouts
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	recentOut := make([]workoutResp, 0, len(recent))
	for _, w := range recent {
		recentOut = append(recentOut, toWorkoutResp(w))
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	planned, err := h.Planner.ListBetween(ctx, uid, today, today.AddDate(0, 0, 6))
	if err != nil {
		return fail(c, err, "load dashboard failed")
	}
	plannedOut := make([]scheduledResp, 0, len(planned))
	for _, sw := range planned {
		plannedOut = append(plannedOut, toScheduledResp(sw))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats":    sumStats(workouts),
		"recent":   recentOut,
		"upcoming": plannedOut,
	})
}
