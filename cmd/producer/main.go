package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/catalog"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/config"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/generator"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/runner"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/kafka"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/pkg/logger"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "ecommerce-producer")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting producer service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load configuration; missing broker credentials are fatal
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Load and normalize the product catalog
	records, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load catalog")
	}

	logger.Logger.Info().
		Int("records", len(records)).
		Str("path", cfg.CatalogPath).
		Msg("Catalog loaded")

	// Build the event synthesizer
	gen, err := generator.New(records, generator.DefaultTables())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to build generator")
	}

	// Connect the broker client and delivery pipeline
	client, err := kafka.NewClient(cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka producer")
	}

	publisher := kafka.NewPublisher(client, cfg.Kafka.Topic, kafka.WithRetryWait(cfg.RetryWait))
	defer publisher.Close()

	run, err := runner.New(gen, publisher,
		runner.WithInterval(cfg.EventInterval),
		runner.WithJitter(cfg.EventJitter),
		runner.WithDrainTimeout(cfg.DrainTimeout),
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to build runner")
	}

	// Serve metrics and health alongside the generator loop
	startHTTPServer(cfg.HTTPPort)

	// Run until interrupted, then drain
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Logger.Info().Msg("Shutdown signal received")
		cancel()
	}()

	if err := run.Run(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Generator stopped with error")
	}
}

func startHTTPServer(port string) {
	router := mux.NewRouter()

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	handler := otelhttp.NewHandler(c.Handler(router), "http.server")

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	go func() {
		if err := http.ListenAndServe(":"+port, handler); err != nil {
			logger.Logger.Error().Err(err).Msg("HTTP server stopped")
		}
	}()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
