package upptime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"statusboard/internal/snapshot"
)

// Status values written by the generator. Anything else is shown verbatim.
const (
	StatusUp      = "up"
	StatusDown    = "down"
	StatusUnknown = "unknown"
)

// maxArtifactSize caps how much of a single artifact is read.
const maxArtifactSize = 1 << 20

// Service is one monitored site as configured for the dashboard.
type Service struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Slug string `json:"slug"`
}

// Result is the last known state of a service, assembled from its history
// snapshot and summary files. Pointer fields are nil when unknown.
type Result struct {
	Service

	Status       string   `json:"status"`
	Code         any      `json:"code"`
	ResponseTime *float64 `json:"responseTime"`
	LastUpdated  string   `json:"lastUpdated"`

	Uptime24h       *float64 `json:"uptime24h"`
	Uptime7d        *float64 `json:"uptime7d"`
	Uptime30d       *float64 `json:"uptime30d"`
	ResponseTime24h string   `json:"rt24h"`

	// Failed lists the artifacts that could not be read on this load.
	Failed []string `json:"-"`
}

// Unknown is the result shown when a service's history cannot be read.
func Unknown(svc Service) Result {
	return Result{Service: svc, Status: StatusUnknown}
}

// Loader assembles Results from a Source.
type Loader struct {
	src    Source
	logger *zap.Logger
}

// NewLoader returns a Loader reading from src. A nil logger discards logs.
func NewLoader(src Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, logger: logger}
}

// Load reads the history snapshot of svc and then each summary file, one
// after the other. It fails only when the snapshot itself cannot be read;
// unreadable summaries leave their fields unset and are listed in
// Result.Failed.
func (l *Loader) Load(ctx context.Context, svc Service) (Result, error) {
	text, err := l.readText(ctx, HistoryPath(svc.Slug))
	if err != nil {
		return Result{}, fmt.Errorf("load history for %s: %w", svc.Slug, err)
	}
	doc := snapshot.Decode(text)

	res := Result{Service: svc, Status: StatusUnknown}
	if s, ok := doc.Text("status"); ok && s != "" {
		res.Status = strings.ToLower(s)
	}
	if v, ok := doc["code"]; ok {
		res.Code = v
	}
	if n, ok := doc.Number("responseTime"); ok {
		res.ResponseTime = &n
	}
	if s, ok := doc.Text("lastUpdated"); ok {
		res.LastUpdated = s
	}

	uptime := func(kind SummaryKind) *float64 {
		sum, ok := l.summary(ctx, svc.Slug, kind, &res)
		if !ok {
			return nil
		}
		v, ok := ParsePercent(sum.Message)
		if !ok {
			return nil
		}
		return &v
	}
	res.Uptime24h = uptime(UptimeDay)
	res.Uptime7d = uptime(UptimeWeek)
	res.Uptime30d = uptime(UptimeMonth)
	if sum, ok := l.summary(ctx, svc.Slug, ResponseTimeDay, &res); ok {
		res.ResponseTime24h = sum.Message
	}

	return res, nil
}

func (l *Loader) summary(ctx context.Context, slug string, kind SummaryKind, res *Result) (Summary, bool) {
	name := SummaryPath(slug, kind)
	var sum Summary
	if err := l.decodeJSON(ctx, name, &sum); err != nil {
		l.logger.Debug("summary unavailable",
			zap.String("slug", slug),
			zap.String("artifact", name),
			zap.Error(err))
		res.Failed = append(res.Failed, string(kind))
		return Summary{}, false
	}
	return sum, true
}

func (l *Loader) readText(ctx context.Context, name string) (string, error) {
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, maxArtifactSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(b), nil
}

func (l *Loader) decodeJSON(ctx context.Context, name string, v any) error {
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := json.NewDecoder(io.LimitReader(rc, maxArtifactSize)).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// OpenGraph opens the weekly response time graph of slug.
func (l *Loader) OpenGraph(ctx context.Context, slug string) (io.ReadCloser, error) {
	return l.src.Open(ctx, GraphPath(slug))
}
