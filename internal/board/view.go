package board

import (
	"net/url"
	"strings"
	"time"

	"statusboard/internal/upptime"
)

// View is the dashboard as rendered: every value preformatted. The HTML
// templates and websocket pushes share it.
type View struct {
	Overall     Banner        `json:"overall"`
	LastUpdated string        `json:"lastUpdated"`
	RefreshedAt time.Time     `json:"refreshedAt"`
	Services    []ServiceView `json:"services"`
}

// ServiceView is one service card plus the extra values of its details page.
type ServiceView struct {
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	Host            string    `json:"host"`
	Slug            string    `json:"slug"`
	Status          string    `json:"status"`
	Badge           BadgeInfo `json:"badge"`
	ResponseTime    string    `json:"responseTime"`
	Code            string    `json:"code"`
	LastUpdated     string    `json:"lastUpdated"`
	Uptime24h       string    `json:"uptime24h"`
	Uptime7d        string    `json:"uptime7d"`
	Uptime30d       string    `json:"uptime30d"`
	ResponseTime24h string    `json:"rt24h"`
	GraphURL        string    `json:"graphUrl"`
	DetailsURL      string    `json:"detailsUrl"`
	HistoryURL      string    `json:"historyUrl,omitempty"`
	IncidentsURL    string    `json:"incidentsUrl,omitempty"`
}

// Links configures where the details page points for more information. An
// empty Repository hides the links.
type Links struct {
	// Repository is the web URL of the generator's repository, e.g.
	// https://github.com/owner/upptime.
	Repository string
	Location   *time.Location
}

// NewView formats b for display.
func NewView(b Board, links Links) View {
	v := View{
		Overall:     b.Overall,
		LastUpdated: FormatTime(b.LastUpdated, links.Location),
		RefreshedAt: b.RefreshedAt,
		Services:    make([]ServiceView, 0, len(b.Services)),
	}
	for _, r := range b.Services {
		v.Services = append(v.Services, NewServiceView(r, links))
	}
	return v
}

// NewServiceView formats a single result.
func NewServiceView(r upptime.Result, links Links) ServiceView {
	slug := url.PathEscape(r.Slug)
	sv := ServiceView{
		Name:            r.Name,
		URL:             r.URL,
		Host:            strings.TrimPrefix(strings.TrimPrefix(r.URL, "https://"), "http://"),
		Slug:            r.Slug,
		Status:          r.Status,
		Badge:           Badge(r.Status),
		ResponseTime:    ResponseTime(r.ResponseTime),
		Code:            Code(r.Code),
		LastUpdated:     PrettyDate(r.LastUpdated, links.Location),
		Uptime24h:       Percent(r.Uptime24h),
		Uptime7d:        Percent(r.Uptime7d),
		Uptime30d:       Percent(r.Uptime30d),
		ResponseTime24h: r.ResponseTime24h,
		GraphURL:        "/graphs/" + slug + "/response-time-week.png",
		DetailsURL:      "/services/" + slug,
	}
	if sv.ResponseTime24h == "" {
		sv.ResponseTime24h = Placeholder
	}
	if repo := strings.TrimSuffix(links.Repository, "/"); repo != "" {
		sv.HistoryURL = repo + "/commits/HEAD/history/" + slug + ".yml"
		sv.IncidentsURL = repo + "/issues"
	}
	return sv
}
