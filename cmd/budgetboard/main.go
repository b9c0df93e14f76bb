package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetboard/internal/amqp"
	"budgetboard/internal/config"
	gexport "budgetboard/internal/export/google"
	apphttp "budgetboard/internal/http"
	applog "budgetboard/internal/log"
	"budgetboard/internal/services"
	"budgetboard/internal/state"
	"budgetboard/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting budgetboard")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	session := state.New()

	var repo *storage.SQLiteRepository
	if cfg.DataBackend == "sqlite" {
		var err error
		repo, err = storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository",
				applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("SQLite backend initialized", "path", cfg.SQLiteDBPath)
	} else {
		logger.Info("Memory backend initialized; transactions live for this session only")
	}

	// AMQP publishing needs the SQLite row ids, so it is only wired together
	// with the sqlite backend.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" && repo != nil {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else if cfg.AMQPURL != "" {
		logger.Warn("AMQP_URL set but DATA_BACKEND is not sqlite; sync publishing disabled")
	}

	// With a spreadsheet configured, the catalog kept there wins over the
	// built-in default.
	if cfg.GoogleSpreadsheetID != "" {
		if sheetClient, err := gexport.NewFromEnv(context.Background()); err != nil {
			logger.Warn("Google Sheets client unavailable, keeping default catalog", applog.FieldError, err)
		} else if entries, err := sheetClient.ListCatalog(context.Background()); err != nil {
			logger.Warn("Failed to read catalog from sheet, keeping default catalog", applog.FieldError, err)
		} else if len(entries) > 0 {
			if err := session.ReplaceCatalog(entries); err != nil {
				logger.Warn("Sheet catalog rejected, keeping default catalog", applog.FieldError, err)
			} else {
				logger.Info("Catalog loaded from sheet", "entries", len(entries))
			}
		}
	}

	svc := services.NewBudgetService(session, repo, amqpClient, cfg.TrendCategories)
	defer svc.Close()

	if err := svc.Reload(context.Background()); err != nil {
		logger.Error("Failed to reload session from storage", applog.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc)

	// Server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting budgetboard server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
