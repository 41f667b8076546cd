package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/tourism-forecast/internal/api/http"
	"github.com/i474232898/tourism-forecast/internal/config"
	"github.com/i474232898/tourism-forecast/internal/metrics"
	"github.com/i474232898/tourism-forecast/internal/scheduler"
	"github.com/i474232898/tourism-forecast/internal/store"
	"github.com/i474232898/tourism-forecast/internal/tourism"
	"github.com/i474232898/tourism-forecast/internal/tourism/sources"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Dataset source for retraining; URL wins over a local path.
	var source tourism.Source
	switch {
	case cfg.DatasetURL != "":
		source = sources.NewHTTPSource(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.DatasetURL)
	case cfg.DatasetPath != "":
		source = sources.NewFileSource(cfg.DatasetPath)
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxRuns, cfg.StoreMaxAge)
	m := metrics.New()

	// Core service orchestrating reshaping, analysis and forecasting.
	service := tourism.NewService(memStore, source, tourism.Options{
		Layout:    tourism.DefaultLayout(),
		Order:     cfg.Order,
		ModelPath: cfg.ModelPath,
		ADFMaxLag: cfg.ADFMaxLag,
		Metrics:   m,
	})
	if err := service.LoadModel(); err != nil {
		if errors.Is(err, tourism.ErrModelNotFound) {
			log.Printf("INFO: no trained model at %s; predictions need an upload until the first retrain", cfg.ModelPath)
		} else {
			log.Printf("ERROR: failed to load model: %v", err)
		}
	}

	// Scheduler that periodically refits the model from the dataset source.
	var sched *scheduler.Scheduler
	if source != nil {
		sched = scheduler.New(cfg.RetrainInterval, service)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "tourism-forecast",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             cfg.UploadLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "tourism-forecast",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
