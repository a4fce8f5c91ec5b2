package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/config"
	"github.com/justestif/go-spotify-listening-stats/internal/dashboard"
	"github.com/justestif/go-spotify-listening-stats/internal/stats"
)

// Handlers contains HTTP handlers for the dashboard.
type Handlers struct {
	cfg       *config.Config
	templates *Templates
	log       *logrus.Entry
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config, templates *Templates, log *logrus.Entry) *Handlers {
	return &Handlers{
		cfg:       cfg,
		templates: templates,
		log:       log,
	}
}

// snapshot re-reads both datasets and aggregates them.
func (h *Handlers) snapshot(r *http.Request) (*dashboard.Data, *stats.Snapshot, error) {
	log := h.log.WithField("request_id", middleware.GetReqID(r.Context()))

	data, err := dashboard.Load(h.cfg, log)
	if err != nil {
		return nil, nil, err
	}

	snap := stats.Build(data.Recent, data.Top, stats.Options{
		MoodClusters: h.cfg.Dashboard.MoodClusters,
		Log:          log,
	})
	return data, snap, nil
}

// Dashboard renders the dashboard page (GET /).
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, snap, err := h.snapshot(r)
	if err != nil {
		h.log.WithError(err).Error("Failed to load datasets")
		http.Error(w, "Failed to load data", http.StatusInternalServerError)
		return
	}

	page := DashboardPageData{
		PageData: PageData{
			Title:       "Spotify Listening Stats",
			CurrentPath: r.URL.Path,
		},
		Stats:      snap,
		RecentFile: data.RecentFile,
		TopFile:    data.TopFile,
	}
	if !data.RecentFile.Exists && !data.TopFile.Exists {
		page.Flash = &FlashMessage{
			Type:    "warning",
			Message: "No data files found. Run spotify-stats-fetch first.",
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "dashboard", page); err != nil {
		h.log.WithError(err).Error("Failed to render dashboard")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// Reload handles the refresh button (POST /reload).
// Every page load already reads fresh data, so it only redirects.
func (h *Handlers) Reload(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Stats returns the chart series as JSON (GET /api/stats).
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	_, snap, err := h.snapshot(r)
	if err != nil {
		h.log.WithError(err).Error("Failed to load datasets")
		http.Error(w, "Failed to load data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		h.log.WithError(err).Warn("Failed to write stats response")
	}
}

// Healthz reports liveness (GET /healthz).
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
