package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sortd/internal/config"
	domainServices "sortd/internal/domain/services"
	"sortd/internal/engine"
	"sortd/internal/handler"
	"sortd/internal/match"
	"sortd/internal/middleware"
	"sortd/internal/repository/postgres"
	"sortd/internal/repository/postgres/migrations"
	"sortd/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Run schema migrations before anything touches the tables
	if err := migrations.Up(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if version, dirty, err := migrations.Version(cfg.DatabaseURL); err == nil {
		logger.Info("schema ready", "version", version, "dirty", dirty)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	ruleRepo := postgres.NewRuleRepository(repoConfig)
	logRepo := postgres.NewLogRepository(repoConfig)
	settingsRepo := postgres.NewSettingsRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	clock := domainServices.RealClock{}
	ids := domainServices.UUIDGenerator{}

	// The in-process engine adapter covers restores and previews; the
	// watcher/executor runs as its own process against the same API.
	localEngine := engine.NewLocalEngine(logger)
	evaluator := &match.Evaluator{
		Shell:   engine.ShellProbe{Logger: logger},
		Pattern: match.RegexpMatcher,
	}

	// Create services
	folderService := service.NewFolderService(folderRepo, ids, logger)
	ruleService := service.NewRuleService(ruleRepo, folderRepo, txManager, ids, logger)
	ledgerService := service.NewLedgerService(logRepo, txManager, localEngine, clock, ids, logger)
	analyticsService := service.NewAnalyticsService(logRepo, clock)
	engineService := service.NewEngineService(localEngine, ruleRepo, folderRepo, evaluator, logger)
	settingsService, err := service.NewSettingsService(settingsRepo, logger)
	if err != nil {
		log.Fatalf("Failed to create settings service: %v", err)
	}

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	ruleHandler := handler.NewRuleHandler(ruleService, logger)
	logHandler := handler.NewLogHandler(ledgerService, analyticsService, logger)
	engineHandler := handler.NewEngineHandler(engineService, logger)
	settingsHandler := handler.NewSettingsHandler(settingsService, logger)
	streamHandler := handler.NewStreamHandler(logger)
	healthHandler := handler.NewHealthHandler(pool)

	// New log entries are pushed to connected websocket clients
	ledgerService.Subscribe(streamHandler)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Folder routes
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/folders", folderHandler.AddFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("POST /api/folders/{id}/toggle", folderHandler.ToggleFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.RemoveFolder)

	// Folder-scoped rule routes
	mux.HandleFunc("GET /api/folders/{id}/rules", ruleHandler.ListRules)
	mux.HandleFunc("PUT /api/folders/{id}/rules/order", ruleHandler.ReorderRules)
	mux.HandleFunc("GET /api/folders/{id}/rules/export", ruleHandler.ExportRules)
	mux.HandleFunc("POST /api/folders/{id}/rules/import", ruleHandler.ImportRules)

	// Rule routes
	mux.HandleFunc("POST /api/rules", ruleHandler.CreateRule)
	mux.HandleFunc("GET /api/rules/{id}", ruleHandler.GetRule)
	mux.HandleFunc("PATCH /api/rules/{id}", ruleHandler.UpdateRule)
	mux.HandleFunc("DELETE /api/rules/{id}", ruleHandler.DeleteRule)
	mux.HandleFunc("POST /api/rules/{id}/toggle", ruleHandler.ToggleRule)
	mux.HandleFunc("POST /api/rules/{id}/duplicate", ruleHandler.DuplicateRule)
	mux.HandleFunc("GET /api/rules/{id}/describe", ruleHandler.DescribeRule)
	mux.HandleFunc("GET /api/rules/{id}/preview", engineHandler.PreviewRule)
	mux.HandleFunc("GET /api/rules/{id}/preview/file", engineHandler.PreviewFile)

	// Log and undo routes
	mux.HandleFunc("GET /api/logs", logHandler.ListLog)
	mux.HandleFunc("POST /api/logs", logHandler.AppendLog)
	mux.HandleFunc("DELETE /api/logs", logHandler.ClearLog)
	mux.HandleFunc("GET /api/logs/stats", logHandler.GetReport)
	mux.HandleFunc("GET /api/logs/stream", streamHandler.Stream)
	mux.HandleFunc("GET /api/undo", logHandler.ListUndo)
	mux.HandleFunc("POST /api/undo/{id}", logHandler.ExecuteUndo)

	// Engine routes
	mux.HandleFunc("GET /api/engine/status", engineHandler.GetStatus)
	mux.HandleFunc("PUT /api/engine/paused", engineHandler.SetPaused)
	mux.HandleFunc("POST /api/engine/toggle", engineHandler.TogglePaused)

	// Settings routes
	mux.HandleFunc("GET /api/settings", settingsHandler.GetSettings)
	mux.HandleFunc("PATCH /api/settings", settingsHandler.UpdateSettings)

	// Build middleware chain (applied in reverse order, they wrap each other)
	var root http.Handler = mux
	root = middleware.RequestLog(logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // disabled for the long-lived websocket feed
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
		close(done)
	}()

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
	<-done
}
