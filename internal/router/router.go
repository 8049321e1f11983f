// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/handler"
	"github.com/iliyamo/fitness-tracker/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth           *handler.AuthHandler
	Workouts       *handler.WorkoutHandler
	Schedule       *handler.ScheduleHandler
	CustomWorkouts *handler.CustomWorkoutHandler
	Catalog        *handler.CatalogHandler
}

// RegisterRoutes mounts every route of the API on e.
//
// Unauthenticated operations live under /v1/auth plus the health
// check; everything else requires a Bearer token. The catalog GETs
// additionally sit behind the Redis response cache since their
// payload is identical for every user, and the whole protected group
// is rate limited per user and route. rdb may be nil, in which case
// caching and rate limiting quietly turn into no-ops.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	auth.POST("/workouts", h.Workouts.Create)
	auth.GET("/workouts", h.Workouts.List)
	auth.GET("/workouts/:id", h.Workouts.Get)
	auth.PUT("/workouts/:id", h.Workouts.Update)
	auth.DELETE("/workouts/:id", h.Workouts.Delete)
	auth.GET("/stats", h.Workouts.Stats)
	auth.GET("/dashboard", h.Workouts.Dashboard)

	auth.POST("/schedule", h.Schedule.Create)
	auth.GET("/schedule", h.Schedule.Week)
	auth.DELETE("/schedule/:id", h.Schedule.Delete)
	auth.POST("/schedule/:id/complete", h.Schedule.Complete)
	auth.POST("/schedule/:id/uncomplete", h.Schedule.Uncomplete)

	auth.POST("/custom-workouts", h.CustomWorkouts.Create)
	auth.GET("/custom-workouts", h.CustomWorkouts.List)
	auth.GET("/custom-workouts/:id", h.CustomWorkouts.Get)
	auth.DELETE("/custom-workouts/:id", h.CustomWorkouts.Delete)

	// Reference data: same payload for every user, cacheable.
	cached := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	cached.GET("/exercises", h.Catalog.ListExercises)
	cached.GET("/exercises/facets", h.Catalog.ExerciseFacets)
	cached.GET("/workout-types", h.Catalog.ListWorkoutTypes)
}
