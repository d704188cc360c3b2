package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"suitability-mcp/internal/app"
	"suitability-mcp/internal/config"
	"suitability-mcp/internal/logging"
	"suitability-mcp/internal/mcpserver"
	"suitability-mcp/internal/version"
)

const serverName = "suitability-mcp"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		// fallback logger
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}
	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		zap.NewExample().Fatal("failed to init logger", zap.Error(err))
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	if cfg.MetricsEnabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	a, err := app.New(ctx, cfg, logger, reg)
	if err != nil {
		logger.Fatal("failed to initialise metric source",
			logging.FieldDSN("dsn", cfg.MetricsDSN),
			zap.Error(err))
	}
	defer a.Close()

	srv := mcpserver.New(&mcp.Implementation{Name: serverName, Version: version.Info().Version}, a.Deps)

	switch cfg.Transport {
	case config.TransportStdio:
		runStdio(ctx, srv, logger)
	case config.TransportSSE:
		runSSE(ctx, srv, cfg, logger, reg)
	case config.TransportStreamable:
		runStreamable(ctx, srv, cfg, logger, reg)
	default:
		logger.Fatal("unknown transport", zap.String("transport", string(cfg.Transport)))
	}
}

func runStdio(ctx context.Context, srv *mcpserver.Server, logger *zap.Logger) {
	transport := &mcp.StdioTransport{}
	logger.Info("starting suitability-mcp server (stdio)", zap.String("name", serverName), zap.String("version", version.Info().Version))
	if err := srv.Run(ctx, transport); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func runSSE(ctx context.Context, srv *mcpserver.Server, cfg config.Config, logger *zap.Logger, reg *prometheus.Registry) {
	endpoint := cfg.HTTPPath
	mux := newMux(cfg, reg)

	// GET opens a session; its messages are POSTed to the per-session endpoint.
	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sessionID := uuid.NewString()
		sessionEndpoint := fmt.Sprintf("%s/session/%s", endpoint, sessionID)
		transport := &mcp.SSEServerTransport{
			Endpoint: sessionEndpoint,
			Response: w,
		}
		mux.Handle(sessionEndpoint, transport)

		sessionLogger := logging.WithRequest(logger, "", sessionID)
		sessionLogger.Info("new SSE session")
		if err := srv.Run(r.Context(), transport); err != nil {
			sessionLogger.Error("SSE session error", zap.Error(err))
		}
	})

	serveHTTP(ctx, "SSE", mux, cfg, logger)
}

func runStreamable(ctx context.Context, srv *mcpserver.Server, cfg config.Config, logger *zap.Logger, reg *prometheus.Registry) {
	mux := newMux(cfg, reg)
	mux.Handle(cfg.HTTPPath, srv.StreamableHandler())
	serveHTTP(ctx, "Streamable HTTP", mux, cfg, logger)
}

func newMux(cfg config.Config, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	return mux
}

func serveHTTP(ctx context.Context, mode string, handler http.Handler, cfg config.Config, logger *zap.Logger) {
	addr := fmt.Sprintf("%s:%d", cfg.HTTPAddr, cfg.HTTPPort)
	logger.Info("starting suitability-mcp server ("+mode+")",
		zap.String("name", serverName),
		zap.String("version", version.Info().Version),
		zap.String("addr", addr),
		zap.String("endpoint", cfg.HTTPPath),
	)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("HTTP server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
