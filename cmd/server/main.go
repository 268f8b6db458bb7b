package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/medguard/procedure-audit/internal/adapter/ai"
	"github.com/medguard/procedure-audit/internal/adapter/artifact"
	"github.com/medguard/procedure-audit/internal/adapter/store"
	"github.com/medguard/procedure-audit/internal/handler"
	"github.com/medguard/procedure-audit/internal/metrics"
	"github.com/medguard/procedure-audit/internal/service"
	"github.com/medguard/procedure-audit/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("starting MedGuard audit service",
		"port", cfg.Port,
		"model", cfg.GeminiModel,
		"upload_dir", cfg.UploadDir,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	if err := pgStore.Migrate(); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// ── Adapters ─────────────────────────────────────────────────────────
	storage, err := artifact.NewStorage(cfg.UploadDir)
	if err != nil {
		slog.Error("failed to prepare upload directory", "error", err)
		os.Exit(1)
	}
	decoder := artifact.NewDecoder()

	gemini := ai.NewGeminiProvider(ai.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	// Configure-before-generate is a startup-time contract: an unconfigured
	// reasoning client is fatal here, never a per-request error.
	if err := gemini.Configure(context.Background()); err != nil {
		slog.Error("failed to configure reasoning model", "error", err)
		os.Exit(1)
	}

	// ── Services ─────────────────────────────────────────────────────────
	auditService := service.NewAuditService(storage, decoder, gemini)
	reportService := service.NewReportService(pgStore)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:     cfg.AppName,
		ReadTimeout: 30 * time.Second,
		// Evaluations block on the remote model call.
		WriteTimeout: 120 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	app.Use(metrics.Middleware())

	// ── Routes ───────────────────────────────────────────────────────────
	app.Get("/metrics", metrics.Handler())

	uploadHandler := handler.NewUploadHandler(storage)
	uploadHandler.Register(app)

	auditHandler := handler.NewAuditHandler(auditService, reportService, pgStore)
	auditHandler.Register(app)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
