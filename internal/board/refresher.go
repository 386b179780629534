package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"statusboard/internal/metrics"
	"statusboard/internal/upptime"
)

// Loader loads the current state of one service.
type Loader interface {
	Load(ctx context.Context, svc upptime.Service) (upptime.Result, error)
}

// Config is what a Refresher needs; nothing is read from package state.
type Config struct {
	Services []upptime.Service
	Interval time.Duration
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	// OnUpdate, if set, is called with every new board.
	OnUpdate func(Board)
}

// Refresher reloads every service on a fixed interval and keeps the most
// recent Board.
type Refresher struct {
	loader Loader
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current Board
}

// NewRefresher validates cfg and returns a Refresher whose board shows every
// service as unknown until the first refresh.
func NewRefresher(loader Loader, cfg Config) (*Refresher, error) {
	if loader == nil {
		return nil, errors.New("board: loader required")
	}
	if len(cfg.Services) == 0 {
		return nil, errors.New("board: at least one service required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("board: interval must be > 0")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	initial := make([]upptime.Result, 0, len(cfg.Services))
	for _, svc := range cfg.Services {
		initial = append(initial, upptime.Unknown(svc))
	}

	return &Refresher{
		loader:  loader,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		current: Build(initial, time.Time{}),
	}, nil
}

// Current returns the most recent board.
func (r *Refresher) Current() Board {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Services returns the configured services in display order.
func (r *Refresher) Services() []upptime.Service {
	return r.cfg.Services
}

// RefreshOnce loads every service one after the other and publishes the
// resulting board. A service whose history cannot be read is shown as
// unknown. If ctx ends mid-cycle the previous board is kept.
func (r *Refresher) RefreshOnce(ctx context.Context) Board {
	results := make([]upptime.Result, 0, len(r.cfg.Services))
	for _, svc := range r.cfg.Services {
		res, err := r.loader.Load(ctx, svc)
		if err != nil {
			if ctx.Err() != nil {
				return r.Current()
			}
			r.logger.Warn("service unavailable",
				zap.String("slug", svc.Slug),
				zap.Error(err))
			r.cfg.Metrics.FetchFailed(svc.Slug, "history")
			res = upptime.Unknown(svc)
		}
		for _, artifact := range res.Failed {
			r.cfg.Metrics.FetchFailed(svc.Slug, artifact)
		}
		r.cfg.Metrics.ObserveService(svc.Slug, res.Status, res.ResponseTime)
		results = append(results, res)
	}

	b := Build(results, r.now())

	r.mu.Lock()
	r.current = b
	r.mu.Unlock()

	r.cfg.Metrics.Refreshed()
	r.logger.Debug("dashboard refreshed",
		zap.Int("services", len(results)),
		zap.String("overall", b.Overall.Title))

	if r.cfg.OnUpdate != nil {
		r.cfg.OnUpdate(b)
	}
	return b
}

// Run refreshes immediately and then once per interval until ctx is done.
// Cycles never overlap: a slow cycle delays the next tick.
func (r *Refresher) Run(ctx context.Context) {
	r.RefreshOnce(ctx)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RefreshOnce(ctx)
		}
	}
}
