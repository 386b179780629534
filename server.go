package main

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"statusboard/internal/board"
	"statusboard/internal/upptime"
)

// GraphOpener opens the weekly response time graph of a service.
type GraphOpener interface {
	OpenGraph(ctx context.Context, slug string) (io.ReadCloser, error)
}

// BoardSource returns the most recent board.
type BoardSource interface {
	Current() board.Board
}

// Server serves the dashboard pages, the JSON view, websocket updates and
// proxied graphs.
type Server struct {
	title    string
	links    board.Links
	boards   BoardSource
	graphs   GraphOpener
	hub      *Hub
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	tmpl     *template.Template
}

// pageData is what the HTML templates render.
type pageData struct {
	Title   string
	View    board.View
	Service board.ServiceView
}

// NewServer parses the embedded templates and returns a Server.
func NewServer(title string, links board.Links, boards BoardSource, graphs GraphOpener, hub *Hub, gatherer prometheus.Gatherer, logger *zap.Logger) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		title:    title,
		links:    links,
		boards:   boards,
		graphs:   graphs,
		hub:      hub,
		gatherer: gatherer,
		logger:   logger,
		tmpl:     tmpl,
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleDashboard)
	r.Get("/services/{slug}", s.handleDetails)
	r.Get("/graphs/{slug}/response-time-week.png", s.handleGraph)
	r.Get("/api/status", s.handleStatus)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.hub != nil {
		r.Handle("/ws", websocket.Handler(s.hub.ServeWS))
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) view() board.View {
	return board.NewView(s.boards.Current(), s.links)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, "dashboard.html", pageData{Title: s.title, View: s.view()})
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	res, ok := s.boards.Current().Find(chi.URLParam(r, "slug"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, "details.html", pageData{
		Title:   s.title,
		View:    s.view(),
		Service: board.NewServiceView(res, s.links),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if _, ok := s.boards.Current().Find(slug); !ok {
		http.NotFound(w, r)
		return
	}

	rc, err := s.graphs.OpenGraph(r.Context(), slug)
	if err != nil {
		if upptime.IsNotFound(err) {
			http.NotFound(w, r)
			return
		}
		s.logger.Warn("graph unavailable", zap.String("slug", slug), zap.Error(err))
		http.Error(w, "graph unavailable", http.StatusBadGateway)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Debug("graph copy interrupted", zap.String("slug", slug), zap.Error(err))
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s.view()); err != nil {
		s.logger.Error("encode status", zap.Error(err))
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
