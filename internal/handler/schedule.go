package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/queue"
	"github.com/iliyamo/fitness-tracker/internal/schedule"
)

// scheduleEngine is what the handler needs from the schedule engine;
// tests substitute a fake.
type scheduleEngine interface {
	Schedule(ctx context.Context, userID uint64, req schedule.Request) (model.ScheduledWorkout, error)
	Complete(ctx context.Context, userID, id uint64) (model.ScheduledWorkout, *model.Workout, error)
	Uncomplete(ctx context.Context, userID, id uint64) (model.ScheduledWorkout, error)
	Delete(ctx context.Context, userID, id uint64) error
	ListBetween(ctx context.Context, userID uint64, from, to time.Time) ([]model.ScheduledWorkout, error)
}

// ScheduleHandler serves the weekly plan endpoints. Publish, when
// set, is called best-effort after a completion materializes a new
// history entry; publish failures never fail the request.
type ScheduleHandler struct {
	Engine  scheduleEngine
	Publish func(ctx context.Context, ev queue.WorkoutCompletedEvent) error
}

func NewScheduleHandler(e scheduleEngine, publish func(ctx context.Context, ev queue.WorkoutCompletedEvent) error) *ScheduleHandler {
	if e == nil {
		panic("nil engine passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Engine: e, Publish: publish}
}

type scheduleReq struct {
	WorkoutTypeID   *uint64 `json:"workout_type_id"`
	CustomWorkoutID *uint64 `json:"custom_workout_id"`
	ScheduledDate   string  `json:"scheduled_date"` // YYYY-MM-DD
	Notes           string  `json:"notes"`
}

type scheduledResp struct {
	ID              uint64    `json:"id"`
	WorkoutTypeID   *uint64   `json:"workout_type_id"`
	CustomWorkoutID *uint64   `json:"custom_workout_id"`
	ScheduledDate   string    `json:"scheduled_date"`
	Notes           string    `json:"notes"`
	Completed       bool      `json:"completed"`
	WorkoutID       *uint64   `json:"workout_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func toScheduledResp(sw model.ScheduledWorkout) scheduledResp {
	return scheduledResp{
		ID:              sw.ID,
		WorkoutTypeID:   sw.WorkoutTypeID,
		CustomWorkoutID: sw.CustomWorkoutID,
		ScheduledDate:   sw.ScheduledDate.Format(dateLayout),
		Notes:           sw.Notes,
		Completed:       sw.Completed,
		WorkoutID:       sw.WorkoutID,
		CreatedAt:       sw.CreatedAt,
	}
}

// Create plans a workout for a date.
func (h *ScheduleHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := time.Parse(dateLayout, req.ScheduledDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sw, err := h.Engine.Schedule(ctx, uid, schedule.Request{
		WorkoutTypeID:   req.WorkoutTypeID,
		CustomWorkoutID: req.CustomWorkoutID,
		ScheduledDate:   date,
		Notes:           req.Notes,
	})
	if err != nil {
		return fail(c, err, "schedule workout failed")
	}
	return c.JSON(http.StatusCreated, toScheduledResp(sw))
}

type weekDay struct {
	Date    string          `json:"date"`
	Entries []scheduledResp `json:"entries"`
}

// Week returns the Monday-based week containing today shifted by the
// integer ?week= offset, with one bucket per day.
func (h *ScheduleHandler) Week(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	offset := 0
	if s := c.QueryParam("week"); s != "" {
		offset, err = strconv.Atoi(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "week must be an integer"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	start := schedule.WeekStart(time.Now().UTC(), offset)
	end := start.AddDate(0, 0, 6)
	entries, err := h.Engine.ListBetween(ctx, uid, start, end)
	if err != nil {
		return fail(c, err, "load week failed")
	}

	days := make([]weekDay, 7)
	for i := range days {
		days[i] = weekDay{Date: start.AddDate(0, 0, i).Format(dateLayout), Entries: []scheduledResp{}}
	}
	for _, sw := range entries {
		i := int(sw.ScheduledDate.Sub(start).Hours() / 24)
		if i < 0 || i > 6 {
			continue
		}
		days[i].Entries = append(days[i].Entries, toScheduledResp(sw))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"week_start": start.Format(dateLayout),
		"week_end":   end.Format(dateLayout),
		"days":       days,
	})
}

// Complete marks a planned workout done and materializes its history
// entry. Completing an already completed entry changes nothing.
func (h *ScheduleHandler) Complete(c echo.Context) error {
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

	sw, created, err := h.Engine.Complete(ctx, uid, id)
	if err != nil {
		return fail(c, err, "complete workout failed")
	}

	if created != nil && h.Publish != nil {
		ev := queue.WorkoutCompletedEvent{
			ScheduleID:  sw.ID,
			WorkoutID:   created.ID,
			UserID:      uid,
			Activity:    created.Exercise,
			Duration:    created.Duration,
			Calories:    created.Calories,
			Date:        created.Date.Format(dateLayout),
			CompletedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Warnf("publish workout.completed failed: %v", err)
		}
	}

	resp := echo.Map{"scheduled": toScheduledResp(sw)}
	if created != nil {
		resp["workout"] = toWorkoutResp(*created)
	}
	return c.JSON(http.StatusOK, resp)
}

// Uncomplete reverts a completion: the history entry goes away and
// the plan entry returns to pending. Reverting a pending entry
// changes nothing.
func (h *ScheduleHandler) Uncomplete(c echo.Context) error {
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

	sw, err := h.Engine.Uncomplete(ctx, uid, id)
	if err != nil {
		return fail(c, err, "uncomplete workout failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"scheduled": toScheduledResp(sw)})
}

// Delete removes a plan entry; history materialized from it stays.
func (h *ScheduleHandler) Delete(c echo.Context) error {
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

	if err := h.Engine.Delete(ctx, uid, id); err != nil {
		return fail(c, err, "delete scheduled workout failed")
	}
	return c.NoContent(http.StatusNoContent)
}
