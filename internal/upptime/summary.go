package upptime

import (
	"path"
	"regexp"
	"strconv"
)

// Summary is a shields.io endpoint payload as written to api/<slug>/*.json.
type Summary struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

// SummaryKind names one of the summary files published per service.
type SummaryKind string

const (
	UptimeDay       SummaryKind = "uptime-day"
	UptimeWeek      SummaryKind = "uptime-week"
	UptimeMonth     SummaryKind = "uptime-month"
	ResponseTimeDay SummaryKind = "response-time-day"
)

// HistoryPath is the snapshot document for slug.
func HistoryPath(slug string) string {
	return path.Join("history", slug+".yml")
}

// SummaryPath is the summary payload of the given kind for slug.
func SummaryPath(slug string, kind SummaryKind) string {
	return path.Join("api", slug, string(kind)+".json")
}

// GraphPath is the weekly response time graph for slug.
func GraphPath(slug string) string {
	return path.Join("graphs", slug, "response-time-week.png")
}

var percent = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// ParsePercent extracts the first percentage from a summary message such as
// "99.95%". The second result is false when the message holds none.
func ParsePercent(msg string) (float64, bool) {
	m := percent.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
