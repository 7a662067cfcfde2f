package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/catalog"
	"github.com/stemsi/transfer-backend/internal/config"
	"github.com/stemsi/transfer-backend/internal/database"
	"github.com/stemsi/transfer-backend/internal/handler"
	"github.com/stemsi/transfer-backend/internal/llm"
	"github.com/stemsi/transfer-backend/internal/logger"
	"github.com/stemsi/transfer-backend/internal/middleware"
	"github.com/stemsi/transfer-backend/internal/repository"
	"github.com/stemsi/transfer-backend/internal/router"
	"github.com/stemsi/transfer-backend/internal/service"
	"github.com/stemsi/transfer-backend/internal/validator"
	"github.com/stemsi/transfer-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Transfer Verifier")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Requirement Catalog ──────────────────────────────────────
	cat, err := catalog.LoadDir(ctx, cfg.CatalogDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.CatalogDir).Msg("Failed to load requirement catalog")
	}
	log.Info().
		Str("version", cat.Version()).
		Int("campuses", len(cat.Campuses())).
		Msg("Requirement catalog loaded")

	// ─── Migrate Schema ────────────────────────────────────────────────
	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsDir, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate schema")
		}
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	transcriptRepo := repository.NewTranscriptRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	reportCache := repository.NewReportCache(rdb, cfg.ReportCacheTTL)
	reevaluationQueue := repository.NewReevaluationQueue(rdb)

	// ─── Initialize Advisor Model ──────────────────────────────────────
	// The advisor endpoint answers 503 when no API key is configured.
	var generator service.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		defer gemini.Close()
		generator = gemini
		log.Info().Str("model", cfg.GeminiModel).Msg("Advisor summaries enabled")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	studentService := service.NewStudentService(studentRepo, cat, reevaluationQueue, log)
	transcriptService := service.NewTranscriptService(studentRepo, transcriptRepo, reevaluationQueue, log)
	eligibilityService := service.NewEligibilityService(studentRepo, transcriptRepo, reportRepo, reportCache, cat, log)
	receiptService := service.NewReceiptService(studentRepo, eligibilityService, reportRepo, cfg.ReceiptSecret, cfg.ReceiptTTL)
	advisorService := service.NewAdvisorService(studentRepo, eligibilityService, generator, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Student:     handler.NewStudentHandler(studentService, log),
		Transcript:  handler.NewTranscriptHandler(transcriptService, cfg.MaxImportBytes(), log),
		Eligibility: handler.NewEligibilityHandler(eligibilityService, receiptService, advisorService, log),
		Catalog:     handler.NewCatalogHandler(cat, log),
		WS:          handler.NewWSHandler(studentService, eligibilityService, reportCache, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(map[string]handler.HealthCheck{
			"postgres": pool.Ping,
			"redis":    database.RedisPing(rdb),
		}, reevaluationQueue, cat.Version(), log),
	}

	limiters := &router.Limiters{
		Verify:  middleware.NewRateLimiter(cfg.VerifyRatePerMinute, time.Minute),
		Advisor: middleware.NewRateLimiter(cfg.VerifyRatePerMinute, time.Minute),
	}
	defer limiters.Verify.Stop()
	defer limiters.Advisor.Stop()

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	reevaluationWorker := worker.NewReevaluationWorker(reevaluationQueue, eligibilityService, cfg.ReevaluateBatchSize, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		reevaluationWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, limiters, cat.Version, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the last batch.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
