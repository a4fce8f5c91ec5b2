// Package pipeline runs one complete fetch: both extractors and both dataset writes.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/config"
	"github.com/justestif/go-spotify-listening-stats/internal/dataset"
	"github.com/justestif/go-spotify-listening-stats/internal/extract"
	"github.com/justestif/go-spotify-listening-stats/internal/logging"
)

// Service fetches listening data and persists it as CSV files.
type Service struct {
	src extract.Source
	cfg *config.Config
	log *logrus.Entry
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the base logger; each run adds its run_id.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for FinishedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a pipeline service.
func New(src extract.Source, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		src: src,
		cfg: cfg,
		log: logging.Zone("pipeline"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result contains the outcome of one run.
type Result struct {
	RunID      string
	RecentPath string
	TopPath    string
	Recent     []extract.PlayEvent
	Skipped    []extract.Skipped
	Top        []extract.TopTrack
	FinishedAt time.Time
}

// Run fetches recent plays and top tracks and replaces both dataset files.
// A failed list request or write aborts the run; per-item failures do not.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := s.log.WithField("run_id", runID)
	ex := extract.New(s.src, extract.WithLogger(log))

	result := &Result{
		RunID:      runID,
		RecentPath: s.cfg.RecentPath(),
		TopPath:    s.cfg.TopPath(),
	}

	log.WithField("limit", s.cfg.Limit).Info("Fetching recent plays")
	recent, err := ex.FetchRecent(ctx, s.cfg.Limit)
	if err != nil {
		return nil, err
	}
	if err := dataset.Write(result.RecentPath, recent.Events); err != nil {
		return nil, fmt.Errorf("writing recent plays: %w", err)
	}
	result.Recent = recent.Events
	result.Skipped = recent.Skipped
	log.WithFields(logrus.Fields{
		"records": len(recent.Events),
		"skipped": len(recent.Skipped),
		"path":    result.RecentPath,
	}).Info("Saved recent plays")

	log.WithField("time_range", s.cfg.TimeRange).Info("Fetching top tracks")
	top, err := ex.FetchTop(ctx, s.cfg.Limit, s.cfg.TimeRange)
	if err != nil {
		return nil, err
	}
	if err := dataset.Write(result.TopPath, top); err != nil {
		return nil, fmt.Errorf("writing top tracks: %w", err)
	}
	result.Top = top
	log.WithFields(logrus.Fields{
		"records": len(top),
		"path":    result.TopPath,
	}).Info("Saved top tracks")

	result.FinishedAt = s.now()
	return result, nil
}
