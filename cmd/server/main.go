package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-tracker/internal/catalog"
	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/database"
	"github.com/iliyamo/fitness-tracker/internal/handler"
	"github.com/iliyamo/fitness-tracker/internal/queue"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	"github.com/iliyamo/fitness-tracker/internal/router"
	"github.com/iliyamo/fitness-tracker/internal/schedule"
	queuepublisher "github.com/iliyamo/fitness-tracker/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Debugf(".env not loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate schema: %v", err)
	}

	// Reference data loads once into an empty database.
	typeRepo := repository.NewWorkoutTypeRepo(db)
	exerciseRepo := repository.NewExerciseRepo(db)
	if err := catalog.SeedWorkoutTypes(ctx, typeRepo); err != nil {
		log.Fatalf("seed workout types: %v", err)
	}
	if cfg.ExerciseCSVPath != "" {
		if err := catalog.SeedExercises(ctx, exerciseRepo, cfg.ExerciseCSVPath); err != nil {
			log.Fatalf("seed exercises: %v", err)
		}
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	workoutRepo := repository.NewWorkoutRepo(db)
	customRepo := repository.NewCustomWorkoutRepo(db)
	engine := schedule.NewEngine(repository.NewScheduleStore(db))

	// Redis is optional: without it caching and rate limiting are no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled")
	}

	// Completion events are consumed into logs/completions.log.
	go func() {
		if err := queue.StartCompletionConsumer(); err != nil {
			log.Warnf("completion consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Handlers{
		Auth:           handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Workouts:       handler.NewWorkoutHandler(workoutRepo, engine),
		Schedule:       handler.NewScheduleHandler(engine, queuepublisher.PublishWorkoutCompleted),
		CustomWorkouts: handler.NewCustomWorkoutHandler(customRepo),
		Catalog:        handler.NewCatalogHandler(exerciseRepo, typeRepo),
	}, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
