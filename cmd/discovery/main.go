package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/catalog/jsonfile"
	"github.com/shoplens/discovery/internal/catalog/memory"
	"github.com/shoplens/discovery/internal/config"
	"github.com/shoplens/discovery/internal/db"
	dbRedis "github.com/shoplens/discovery/internal/db/redis"
	"github.com/shoplens/discovery/internal/domain"
	logpkg "github.com/shoplens/discovery/internal/logger"
	"github.com/shoplens/discovery/internal/metrics"
	"github.com/shoplens/discovery/internal/repository/embcache"
	chiTransport "github.com/shoplens/discovery/internal/transport/chi"
	openaiTransport "github.com/shoplens/discovery/internal/transport/openai"
	chatuc "github.com/shoplens/discovery/internal/usecase/chat"
	dispatchuc "github.com/shoplens/discovery/internal/usecase/dispatch"
	healthuc "github.com/shoplens/discovery/internal/usecase/health"
	retrievaluc "github.com/shoplens/discovery/internal/usecase/retrieval"
	routeruc "github.com/shoplens/discovery/internal/usecase/router"
	vocabuc "github.com/shoplens/discovery/internal/usecase/vocab"
	"github.com/shoplens/discovery/internal/version"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting discovery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
	)

	metrics.RegisterCoreMetrics()

	ctx := context.Background()

	// Cache store is optional; without it embeddings are fetched fresh.
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Database.Addrs))
	} else {
		logger.Info("Cache store not configured, embedding cache disabled")
	}

	embedder := buildEmbedder(cfg, store, logger)
	if embedder == nil {
		logger.Warn("Embedding provider not configured, similarity search disabled")
	}

	source := jsonfile.New(cfg.Catalog.Path)
	index := memory.New(source, embedder, logger)
	if err := index.Load(ctx); err != nil {
		// Missing corpus is fatal; a failed embedding pass is not, the
		// index has already degraded to lexical-only in that case.
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded",
		zap.Int("products", index.Count()),
		zap.Bool("similarity_ready", index.Ready()),
	)

	vocabSvc := vocabuc.New(index)
	retrievalSvc := retrievaluc.New(index, index, vocabSvc, cfg.Catalog.OverfetchFactor, logger)

	var classifier routeruc.Classifier
	if cfg.Router.APIKey != "" {
		classifier = openaiTransport.NewRouterClient(&openaiTransport.RouterConfig{
			APIKey:  cfg.Router.APIKey,
			BaseURL: cfg.Router.BaseURL,
			Model:   cfg.Router.Model,
			Logger:  logger,
		})
		logger.Info("LLM intent router enabled", zap.String("model", cfg.Router.Model))
	} else {
		logger.Info("LLM intent router not configured, rule cascade only")
	}
	routerSvc := routeruc.New(classifier, time.Duration(cfg.Router.TimeoutSec)*time.Second, logger)

	var describer dispatchuc.ImageDescriber
	if cfg.Vision.APIKey != "" {
		describer = openaiTransport.NewVisionClient(&openaiTransport.VisionConfig{
			APIKey:  cfg.Vision.APIKey,
			BaseURL: cfg.Vision.BaseURL,
			Model:   cfg.Vision.Model,
			Logger:  logger,
		})
		logger.Info("Image describer enabled", zap.String("model", cfg.Vision.Model))
	}

	dispatcher := dispatchuc.New(
		routerSvc,
		retrievalSvc,
		chatuc.New(),
		describer,
		cfg.Catalog.TopK,
		time.Duration(cfg.Vision.TimeoutSec)*time.Second,
		logger,
	)

	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(index, pinger, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(dispatcher, healthSvc, index, vocabSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached.
// Returns nil when no provider is configured.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	if cfg.Embedding.APIKey == "" {
		return nil
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}

	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cached", store != nil),
	)
	return embedder
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

// newEmbeddingHealthChecker returns nil (not a typed-nil wrapper) for a nil
// embedder so the health service skips the check entirely.
func newEmbeddingHealthChecker(embedder domain.Embedder) healthuc.EmbeddingChecker {
	if embedder == nil {
		return nil
	}
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
