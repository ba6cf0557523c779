package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/speccade/speccade/cache"
	"github.com/speccade/speccade/generate"
	"github.com/speccade/speccade/internal/config"
	"github.com/speccade/speccade/metrics"
	"github.com/speccade/speccade/pkg/logger"
	"github.com/speccade/speccade/reportexport"
	"github.com/speccade/speccade/spec"
)

// Worker wraps a generate.Pipeline behind an HTTP API, for a queue
// consumer or load balancer to dispatch one-spec-at-a-time generation
// requests to without each caller needing the pipeline in-process.
type Worker struct {
	pipeline *generate.Pipeline
	logger   zerolog.Logger
}

// GenerateRequest is the wire shape of a single pipeline run request.
type GenerateRequest struct {
	Spec spec.Spec `json:"spec" binding:"required"`
}

// GenerateResponse mirrors generate.Result, plus a top-level error
// string for requests that failed before a manifest could be built.
type GenerateResponse struct {
	Success  bool            `json:"success"`
	Manifest interface{}     `json:"manifest,omitempty"`
	Wrote    []string        `json:"wrote,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig(logger.Config{Level: cfg.LogLevel, Format: "json", Output: "stdout"})

	profile, ok := spec.BudgetProfileByName(cfg.BudgetProfile)
	if !ok {
		log.Fatal().Msg("unknown budget profile in SPECCADE_BUDGET_PROFILE")
	}

	registry := prometheus.NewRegistry()
	pipeline := generate.NewPipeline(profile, cfg.BackendVersion, getEnv("SPECCADE_TARGET_TRIPLE", "unknown"), cfg.OutputDir)
	pipeline.Log = log
	if cfg.MetricsEnabled {
		pipeline.Metrics = metrics.NewPrometheus(registry)
	}
	if store, err := openCacheStore(cfg); err != nil {
		log.Warn().Err(err).Msg("cache backend unavailable, running without cache")
	} else {
		pipeline.Cache = store
	}

	worker := &Worker{pipeline: pipeline, logger: log}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "speccade-worker",
			"timestamp": time.Now().UTC(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.POST("/generate", worker.generate)
	router.POST("/generate/report.xlsx", worker.generateReport("xlsx"))
	router.POST("/generate/report.pdf", worker.generateReport("pdf"))

	port := getEnv("PORT", "8082")
	log.Info().Str("port", port).Msg("starting speccade-worker")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// requestIDMiddleware stamps every request with a fresh run id, both
// on the response header and on the per-request logger context key
// pkg/logger.WithContext reads back out, so the worker's own log lines
// for a request carry the id sent in its X-Request-Id header.
// generate.Pipeline.Run does not read it and logs under a run_id of
// its own.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := uuid.New().String()
		c.Writer.Header().Set("X-Request-Id", runID)
		c.Request = c.Request.WithContext(contextWithRunID(c.Request.Context(), runID))
		c.Next()
	}
}

func (w *Worker) generate(c *gin.Context) {
	reqLog := logger.WithContext(w.logger, c.Request.Context())

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenerateResponse{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	res, err := w.pipeline.Run(c.Request.Context(), req.Spec)
	if err != nil {
		reqLog.Error().Err(err).Str("asset_id", req.Spec.AssetID).Msg("pipeline run failed")
		c.JSON(http.StatusInternalServerError, GenerateResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Success:  res.Manifest.OK,
		Manifest: res.Manifest,
		Wrote:    res.Wrote,
	})
}

// generateReport runs the pipeline and streams back an export of the
// resulting manifest instead of the JSON manifest itself -- useful for
// a caller that wants a document to forward directly to a human.
func (w *Worker) generateReport(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		res, err := w.pipeline.Run(c.Request.Context(), req.Spec)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var data []byte
		var contentType string
		switch format {
		case "xlsx":
			data, err = reportexport.XLSX(res.Manifest)
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "pdf":
			data, err = reportexport.PDF(res.Manifest)
			contentType = "application/pdf"
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Data(http.StatusOK, contentType, data)
	}
}

// openCacheStore builds a cache.Store from cfg, if a backend was
// configured. A bare "" backend (the default) disables caching rather
// than erroring, since caching is an optimization the worker can run
// without.
func openCacheStore(cfg *config.Config) (*cache.Store, error) {
	if cfg.CacheBackend == "" {
		return nil, nil
	}

	providerCfg := cache.Config{
		Backend:   cfg.CacheBackend,
		Region:    cfg.S3Region,
		Bucket:    firstNonEmpty(cfg.S3Bucket, cfg.GCSBucket, cfg.AzureBucket),
		AccessKey: cfg.AzureAcct,
		SecretKey: firstNonEmpty(cfg.AzureKey, cfg.RedisPassword),
		Endpoint:  firstNonEmpty(cfg.S3Endpoint, cfg.RedisAddr),
		BaseDir:   cfg.CacheLocalDir,
	}
	provider, err := cache.NewProvider(providerCfg)
	if err != nil {
		return nil, fmt.Errorf("building cache provider: %w", err)
	}

	index, err := cache.OpenIndex(cfg.CacheIndexPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache index: %w", err)
	}

	return cache.NewStore(provider, index), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func contextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, logger.RunIDKey, runID)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
