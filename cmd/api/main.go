// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/internal/config"
	"github.com/contentflow-ai/platform/internal/flows"
	"github.com/contentflow-ai/platform/internal/handler"
	"github.com/contentflow-ai/platform/internal/llm"
	"github.com/contentflow-ai/platform/internal/middleware"
	"github.com/contentflow-ai/platform/internal/service"
	"github.com/contentflow-ai/platform/internal/store"
	"github.com/contentflow-ai/platform/pkg/logger"
	"github.com/contentflow-ai/platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "contentflow-ai", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open the analytics store; closed explicitly during shutdown.
	analyticsStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open analytics store", zap.Error(err))
		os.Exit(1)
	}

	// Initialize generation clients
	textClient, err := newTextClient(cfg)
	if err != nil {
		log.Error("failed to create generation client", zap.Error(err))
		os.Exit(1)
	}

	var imageClient llm.ImageClient
	if cfg.OpenAIAPIKey != "" {
		oc, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create image client, image generation disabled", zap.Error(err))
		} else {
			imageClient = oc
		}
	}

	flowClient := flows.NewClient(textClient, imageClient, flows.Config{
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
	}, log)

	// Initialize services
	orchestrator := service.NewOrchestrator(flowClient, log)
	results := service.NewResultCache()
	relay := service.NewRelay(cfg.WebhookURL, log)
	imageHost, err := service.NewImageHost(service.ImageHostConfig{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryFolder,
	}, log)
	if err != nil {
		log.Error("failed to create image host", zap.Error(err))
		os.Exit(1)
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(analyticsStore)
	generateHandler := handler.NewGenerateHandler(orchestrator, results, log)
	resultsHandler := handler.NewResultsHandler(results)
	flowsHandler := handler.NewFlowsHandler(flowClient, log)
	imagesHandler := handler.NewImagesHandler(flowClient, imageHost, log)
	relayHandler := handler.NewRelayHandler(relay, log)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsStore, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handler.SessionHeader},
		ExposedHeaders:   []string{"X-Correlation-ID", handler.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Inbound analytics webhook (called by the external scheduler, no auth)
	r.Route("/api/analytics", func(r chi.Router) {
		r.Post("/", analyticsHandler.Receive)
		r.Get("/", analyticsHandler.List)
	})

	// Operator API
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTSecret != "" {
			r.Use(middleware.Auth(cfg.JWTSecret))
		}
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/generate", generateHandler.Generate)
		r.Get("/results/{id}/download", resultsHandler.Download)

		r.Post("/hashtags", flowsHandler.SuggestHashtags)
		r.Post("/image-ideas", flowsHandler.GenerateImageIdea)

		r.Route("/images", func(r chi.Router) {
			r.Post("/generate", imagesHandler.Generate)
			r.Post("/upload", imagesHandler.Upload)
		})

		r.Post("/relay", relayHandler.Send)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	if err := analyticsStore.Close(); err != nil {
		log.Error("failed to close analytics store", zap.Error(err))
	}

	log.Info("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Store, error) {
	switch cfg.AnalyticsBackend {
	case "nats":
		return store.OpenNATSStore(ctx, store.NATSConfig{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
	default:
		return store.OpenFileStore(cfg.AnalyticsFile, log)
	}
}

func newTextClient(cfg *config.Config) (llm.Client, error) {
	switch llm.Provider(cfg.TextProvider) {
	case llm.ProviderAnthropic:
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	default:
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	}
}
