package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"teises_draugas_go/config"
	"teises_draugas_go/db"
	"teises_draugas_go/handlers"
	"teises_draugas_go/middleware"
	"teises_draugas_go/models"
	"teises_draugas_go/services"
	"teises_draugas_go/services/ai"
	"teises_draugas_go/services/integrations"
	"teises_draugas_go/services/jobs"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	model, err := ai.NewModel(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}
	log.Printf("[AI] Using model %s", model.Name())

	if err := services.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	svc := services.NewServices(cfg, db.DB, services.Dependencies{
		Model:    model,
		Storage:  services.NewStorage(cfg),
		Letters:  integrations.NewLetterDeliverer(cfg),
		Filings:  integrations.NewFilingSubmitter(cfg),
		Renderer: &services.ChromeRenderer{ChromePath: cfg.ChromePath},
	})
	log.Printf("[DELIVERY] Integration mode: %s", cfg.IntegrationMode)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit("12M"))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	aiLimiter := middleware.NewAIRateLimiter(cfg.AIRequestsPerMinute)
	handlers.RegisterRoutes(e, handlers.New(svc), aiLimiter)

	scheduler, err := jobs.StartScheduler(db.DB, cfg, svc.Notifications)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Drop idle rate-limit buckets
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			aiLimiter.Cleanup(time.Hour)
			middleware.LoginRateLimiter.Cleanup(time.Hour)
		}
	}()

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}
