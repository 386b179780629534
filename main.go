// Package main implements a status dashboard for services watched by an
// Upptime-style monitoring generator. It periodically reads the artifacts the
// generator publishes (history snapshots, uptime summaries and response time
// graphs) and serves them as a web page that updates itself over WebSockets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"statusboard/internal/board"
	"statusboard/internal/config"
	"statusboard/internal/metrics"
	"statusboard/internal/upptime"
)

// shutdownTimeout bounds how long in-flight requests may take on exit.
const shutdownTimeout = 5 * time.Second

// newLogger returns a production logger, or a development logger with debug
// output when debug is set.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig reads the configuration file and applies command-line overrides.
//
// Parameters:
//   - path: Path to the YAML configuration file
//   - listen: Listen address overriding the file, if not empty
//   - source: Artifact location overriding the file, if not empty
//
// Returns:
//   - *config.Config: Validated and normalized configuration
//   - error: Any error reading or validating the configuration
func loadConfig(path, listen, source string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if source != "" {
		cfg.Source = source
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

// run wires the dashboard together and serves it until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	src, err := upptime.NewSource(cfg.Source, nil)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	links := board.Links{Repository: cfg.Repository, Location: loc}
	loader := upptime.NewLoader(src, logger.Named("upptime"))

	var refresher *board.Refresher
	hub := NewHub(func() board.View {
		return board.NewView(refresher.Current(), links)
	}, logger.Named("ws"), m)

	refresher, err = board.NewRefresher(loader, board.Config{
		Services: cfg.UpptimeServices(),
		Interval: cfg.Interval,
		Logger:   logger.Named("board"),
		Metrics:  m,
		OnUpdate: func(b board.Board) {
			hub.Broadcast(board.NewView(b, links))
		},
	})
	if err != nil {
		return err
	}

	srv, err := NewServer(cfg.Title, links, refresher, loader, hub, reg, logger.Named("http"))
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go refresher.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	logger.Info("server running",
		zap.String("addr", cfg.Listen),
		zap.String("source", cfg.Source),
		zap.Int("services", len(cfg.Services)),
		zap.Duration("interval", cfg.Interval))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// websocket connections are hijacked and not tracked by Shutdown
	hub.CloseAll()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// main is the entry point of the application.
// It parses command-line flags, loads the configuration and serves the
// dashboard until interrupted.
//
// Command-line flags:
//
//	-config: Path to the YAML configuration file
//	-listen: Listen address, overrides the configuration file
//	-source: Artifact base URL or directory, overrides the configuration file
//	-debug: Enable development logging
func main() {
	configPath := flag.String("config", "statusboard.yaml", "Path to the YAML configuration file")
	listen := flag.String("listen", "", "Listen address (overrides config)")
	source := flag.String("source", "", "Artifact base URL or directory (overrides config)")
	debug := flag.Bool("debug", false, "Enable development logging")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig(*configPath, *listen, *source)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
