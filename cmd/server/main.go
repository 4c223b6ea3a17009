package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourorg/sdtm-studio/internal/aiassist"
	"github.com/yourorg/sdtm-studio/internal/config"
	"github.com/yourorg/sdtm-studio/internal/httpapi"
	"github.com/yourorg/sdtm-studio/internal/jobstore"
	"github.com/yourorg/sdtm-studio/internal/mapping"
	"github.com/yourorg/sdtm-studio/internal/standards"
)

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	cfg := config.LoadConfig()
	if err := config.ValidateConfig(cfg); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	slog.Info("starting server", "host", cfg.Host, "port", cfg.Port, "ai_enabled", cfg.AIEnabled)

	domains, err := standards.LoadSDTMIG()
	if err != nil {
		slog.Error("load SDTM IG catalog", "err", err)
		os.Exit(1)
	}
	ctReg, err := standards.LoadCT()
	if err != nil {
		slog.Error("load controlled terminology", "err", err)
		os.Exit(1)
	}
	mapRepo, err := mapping.NewRepository(cfg.MappingRepoDir, func() string { return time.Now().UTC().Format(time.RFC3339) })
	if err != nil {
		slog.Error("open mapping repository", "err", err)
		os.Exit(1)
	}

	store, err := jobstore.Open(cfg.JobStoreDBPath)
	if err != nil {
		slog.Error("open job store", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	var ai *aiassist.Client
	if cfg.AIEnabled {
		ai, err = aiassist.NewClient(aiassist.Config{
			Enabled:        true,
			APIKey:         cfg.OpenAIAPIKey,
			Model:          cfg.OpenAIModel,
			RequestTimeout: cfg.AIRequestTimeout,
			MaxSampleRows:  cfg.AIMaxSampleRows,
		})
		if err != nil {
			slog.Warn("AI-assist client unavailable, continuing without it", "err", err)
			ai = nil
		}
	}

	srv := httpapi.NewServer(httpapi.Config{
		OutputDir:              cfg.OutputDir,
		RequireExplicitMapping: cfg.RequireExplicitMapping,
		MinConfidence:          cfg.MinConfidence,
		PreferredCT:            cfg.PreferredCT,
		ExportRateLimit:        cfg.ExportRateLimit,
		RateLimitWindow:        cfg.RateLimitWindow,
	}, domains, ctReg, mapRepo, store, ai)

	router := httpapi.NewRouter(srv)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   0, // export streams SSE for the duration of the job
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "err", err)
		os.Exit(1)
	}
	slog.Info("server shutdown complete")
}
