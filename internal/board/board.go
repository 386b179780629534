// Package board turns loaded service results into what the dashboard shows:
// badges, the overall banner and preformatted values.
package board

import (
	"fmt"
	"strings"
	"time"

	"statusboard/internal/snapshot"
	"statusboard/internal/upptime"
)

// Placeholder is shown for any value that is unknown.
const Placeholder = "—"

// BadgeInfo is the label and CSS class of a status badge.
type BadgeInfo struct {
	Text  string `json:"text"`
	Class string `json:"class"`
}

// Badge maps a service status to its badge. Matching is case-insensitive;
// statuses other than up and down are shown upper-cased as a warning.
func Badge(status string) BadgeInfo {
	switch strings.ToLower(status) {
	case upptime.StatusUp:
		return BadgeInfo{Text: "Operational", Class: "badge badge--ok"}
	case upptime.StatusDown:
		return BadgeInfo{Text: "Outage", Class: "badge badge--bad"}
	}
	if status == "" {
		status = upptime.StatusUnknown
	}
	return BadgeInfo{Text: strings.ToUpper(status), Class: "badge badge--warn"}
}

// Banner is the aggregate headline above the service grid.
type Banner struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	DotClass string `json:"dotClass"`
}

// Overall returns the banner for the dashboard; any service down turns it
// into a partial outage.
func Overall(anyDown bool) Banner {
	if anyDown {
		return Banner{
			Title:    "Partial outage",
			Subtitle: "Some services are currently impacted.",
			DotClass: "dot dot--bad",
		}
	}
	return Banner{
		Title:    "All systems operational",
		Subtitle: "We’re not aware of any issues affecting our systems.",
		DotClass: "dot dot--ok",
	}
}

// Board is one complete refresh of every configured service.
type Board struct {
	Services []upptime.Result
	Overall  Banner
	// LastUpdated is the newest lastUpdated among services; zero if none
	// could be parsed.
	LastUpdated time.Time
	RefreshedAt time.Time
}

// Build aggregates results, in configuration order, into a Board.
func Build(results []upptime.Result, now time.Time) Board {
	var anyDown bool
	var newest time.Time
	for _, r := range results {
		if strings.ToLower(r.Status) == upptime.StatusDown {
			anyDown = true
		}
		if t, ok := ParseTime(r.LastUpdated); ok && t.After(newest) {
			newest = t
		}
	}
	return Board{
		Services:    results,
		Overall:     Overall(anyDown),
		LastUpdated: newest,
		RefreshedAt: now,
	}
}

// Find returns the result for slug.
func (b Board) Find(slug string) (upptime.Result, bool) {
	for _, r := range b.Services {
		if r.Slug == slug {
			return r, true
		}
	}
	return upptime.Result{}, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses the ISO-8601-like timestamps the generator writes.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PrettyDate formats a timestamp as a medium date with a short time in loc.
// Unparseable input is returned as is.
func PrettyDate(s string, loc *time.Location) string {
	if s == "" {
		return Placeholder
	}
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	return FormatTime(t, loc)
}

// FormatTime formats t like PrettyDate; the zero time is unknown.
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return Placeholder
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("Jan 2, 2006, 3:04 PM")
}

// ResponseTime formats a response time in milliseconds.
func ResponseTime(ms *float64) string {
	if ms == nil {
		return Placeholder
	}
	return snapshot.FormatNumber(*ms) + "ms"
}

// Code formats an HTTP status code that may have been decoded as a number
// or a string. Zero and empty codes are unknown.
func Code(code any) string {
	switch v := code.(type) {
	case float64:
		if v == 0 {
			return Placeholder
		}
		return snapshot.FormatNumber(v)
	case string:
		if v == "" {
			return Placeholder
		}
		return v
	case nil:
		return Placeholder
	default:
		return fmt.Sprint(v)
	}
}

// Percent formats an uptime percentage with two decimals.
func Percent(p *float64) string {
	if p == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f%%", *p)
}
