package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rentora/rentora-api/docs" // Swagger docs
	"github.com/rentora/rentora-api/internal/config"
	"github.com/rentora/rentora-api/internal/database"
	"github.com/rentora/rentora-api/internal/handlers"
	"github.com/rentora/rentora-api/internal/jobs"
	"github.com/rentora/rentora-api/internal/middleware"
	"github.com/rentora/rentora-api/internal/repository"
	"github.com/rentora/rentora-api/internal/services"
	"github.com/rentora/rentora-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Rentora API
// @version 1.0
// @description REST API for the Rentora property rental backend

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database and run migrations
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(db, repos, worker)

	// Schedule recurring sweeps
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Sweep endpoints for the external scheduler (shared-secret auth)
		cron := v1.Group("/cron")
		cron.Use(middleware.CronAuth(cfg.CronSecret))
		{
			cron.POST("/cancel-unpaid", h.Cron.CancelUnpaid)
			cron.POST("/expire", h.Cron.Expire)
			cron.POST("/renewals", h.Cron.Renewals)
			cron.POST("/reminders", h.Cron.Reminders)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Leases
			leases := protected.Group("/leases")
			{
				leases.GET("", h.Lease.Index)
				leases.POST("", h.Lease.Create)
				leases.GET("/availability", h.Lease.CheckAvailability)
				leases.GET("/:lease_id", h.Lease.Show)
				leases.PUT("/:lease_id", h.Lease.Update)
				leases.DELETE("/:lease_id", h.Lease.Delete)
				leases.POST("/:lease_id/pay", h.Lease.MarkPaid)
				leases.PATCH("/:lease_id/status", h.Lease.UpdateStatus)
				leases.PATCH("/:lease_id/deposit", h.Lease.UpdateDeposit)
				leases.GET("/:lease_id/activity", h.Lease.Activity)
			}

			// Renewals (operator-facing)
			renewals := protected.Group("/renewals")
			{
				renewals.GET("/eligible", h.Renewal.Eligible)
				renewals.POST("/process", middleware.RequireAdmin(), h.Renewal.Process)
			}

			// Activity feed
			protected.GET("/activity", h.Activity.Index)

			// Background worker stats (admin only)
			protected.GET("/jobs/stats", middleware.RequireAdmin(), h.Job.Stats)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	if cfg.SweepIntervalMinutes <= 0 {
		logger.Info("Internal sweep scheduler disabled, sweeps run via cron endpoints only")
		return
	}
	interval := time.Duration(cfg.SweepIntervalMinutes) * time.Minute

	worker.ScheduleEveryImmediate(interval, "expire-leases", func(ctx context.Context) error {
		result, err := svcs.Sweep.ExpireLeases(ctx, nil, time.Now())
		if err != nil {
			return err
		}
		logger.Info("[Job] Expire sweep finished", "run_id", result.RunID, "processed", result.Processed, "failed", result.Failed)
		return nil
	})

	worker.ScheduleEveryImmediate(interval, "cancel-unpaid-drafts", func(ctx context.Context) error {
		result, err := svcs.Sweep.CancelUnpaidDrafts(ctx, nil, time.Now())
		if err != nil {
			return err
		}
		logger.Info("[Job] Cancel-unpaid sweep finished", "run_id", result.RunID, "processed", result.Processed, "failed", result.Failed)
		return nil
	})

	worker.ScheduleEveryImmediate(interval, "process-renewals", func(ctx context.Context) error {
		result, err := svcs.Sweep.ProcessRenewals(ctx, nil, time.Now())
		if err != nil {
			return err
		}
		logger.Info("[Job] Renewal sweep finished", "run_id", result.RunID, "processed", result.Processed, "failed", result.Failed)
		return nil
	})

	// Reminders run daily regardless of the sweep interval
	worker.ScheduleEvery(24*time.Hour, "dispatch-reminders", func(ctx context.Context) error {
		result, err := svcs.Sweep.DispatchReminders(ctx, nil, time.Now())
		if err != nil {
			return err
		}
		logger.Info("[Job] Reminder sweep finished", "run_id", result.RunID, "processed", result.Processed, "failed", result.Failed)
		return nil
	})

	logger.Info("Scheduled recurring sweeps", "interval_minutes", cfg.SweepIntervalMinutes)
}
