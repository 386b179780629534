// Package main contains the web interface components for the status dashboard.
// It serves the HTML, CSS, and JavaScript for the dashboard and details pages.
package main

import (
	"embed"
	"html/template"
)

// templateFS holds the page templates, embedded at compile time.
//
// dashboard.html shows the overall banner and one card per service:
// - Green badge: the service reported "up"
// - Red badge: the service reported "down"
// - Yellow badge: any other or unknown status
// It keeps itself current through the /ws websocket.
//
// details.html shows a single service with its uptime figures and weekly
// response time graph.
//
//go:embed dashboard.html details.html
var templateFS embed.FS

// parseTemplates parses the embedded page templates.
//
// Returns:
//   - *template.Template: A set holding "dashboard.html" and "details.html"
//   - error: Any error from parsing the embedded files
func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "dashboard.html", "details.html")
}
