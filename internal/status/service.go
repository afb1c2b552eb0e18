// Package status orchestrates the fetch-and-classify cycle and owns the
// process-wide report cache.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/schoolcancelled/school-status-etl/internal/domain"
	"github.com/schoolcancelled/school-status-etl/internal/observability"
)

// PageFetcher retrieves the district status page as raw HTML.
type PageFetcher interface {
	FetchPage(ctx context.Context) (string, error)
}

// AlertPublisher relays a newly classified alert to downstream delivery
// workers. Implementations receive the full report; the composed Message
// field is the plain string delivery providers consume.
type AlertPublisher interface {
	Publish(ctx context.Context, report domain.StatusReport) error
}

// Options configures a Service.
type Options struct {
	CacheTTL       time.Duration
	AlertMinLength int
	ExcerptMax     int
	Source         string

	// Publisher is optional; nil disables alert relaying.
	Publisher AlertPublisher

	// Clock is optional; nil uses the real clock.
	Clock clockwork.Clock
}

// Service serves the current school status, refreshing from the upstream
// page when the cached report ages out. Refreshes are serialized behind a
// singleflight group so concurrent callers that all observe an expired cache
// share one upstream fetch instead of issuing duplicates.
type Service struct {
	fetcher   PageFetcher
	publisher AlertPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	ttl            time.Duration
	alertMinLength int
	excerptMax     int
	source         string

	group singleflight.Group
	ready atomic.Bool

	mu         sync.RWMutex
	cached     *domain.StatusReport
	cachedAt   time.Time
	lastStatus domain.StatusLabel
}

// New creates a Service around the given fetcher.
func New(fetcher PageFetcher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	clk := opts.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Service{
		fetcher:        fetcher,
		publisher:      opts.Publisher,
		clock:          clk,
		logger:         logger,
		metrics:        metrics,
		ttl:            opts.CacheTTL,
		alertMinLength: opts.AlertMinLength,
		excerptMax:     opts.ExcerptMax,
		source:         opts.Source,
	}
}

// Status returns the current report. A cached report younger than the TTL is
// served without a network call. On refresh failure the last good report is
// served marked stale; the error is surfaced only when no good report exists.
func (s *Service) Status(ctx context.Context) (domain.StatusReport, error) {
	if report, ok := s.fromCache(); ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return report, nil
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := s.group.Do("status", func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		if stale, ok := s.staleCopy(); ok {
			s.metrics.StaleServed.Inc()
			s.logger.Warn("refresh failed, serving stale report", "error", err)
			return stale, nil
		}
		return domain.StatusReport{}, err
	}
	return v.(domain.StatusReport), nil
}

// CheckReadiness reports whether the service has produced at least one report.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return fmt.Errorf("no status report produced yet")
	}
	return nil
}

// refresh performs one fetch-and-classify cycle and replaces the cached
// report atomically. Failures leave the cache untouched.
func (s *Service) refresh(ctx context.Context) (domain.StatusReport, error) {
	start := s.clock.Now()

	html, err := s.fetcher.FetchPage(ctx)
	if err != nil {
		s.metrics.FetchesTotal.WithLabelValues("error").Inc()
		return domain.StatusReport{}, fmt.Errorf("fetch status page: %w", err)
	}
	s.metrics.FetchesTotal.WithLabelValues("success").Inc()

	now := s.clock.Now()
	text := domain.Normalize(html)
	classification := domain.ClassifyWithThreshold(text, s.alertMinLength)
	target, hasTarget := domain.ExtractTargetDate(text, now)

	report := domain.ComposeReport(classification, target, hasTarget, now, text, s.excerptMax)
	report.Source = s.source
	report.ProcessingTime = fmt.Sprintf("%dms", s.clock.Since(start).Milliseconds())

	s.metrics.PipelineDuration.Observe(s.clock.Since(start).Seconds())

	s.store(report)
	s.ready.Store(true)

	s.logger.Info("status refreshed",
		"status", report.Status,
		"is_open", report.IsOpen,
		"target_date", report.TargetDate,
		"confidence", report.Confidence,
	)
	return report, nil
}

// store replaces the cached report and relays the alert when the status
// transitioned to a new alert state.
func (s *Service) store(report domain.StatusReport) {
	s.mu.Lock()
	previous := s.lastStatus
	copied := report
	s.cached = &copied
	s.cachedAt = s.clock.Now()
	s.lastStatus = report.Status
	s.mu.Unlock()

	if s.publisher == nil || report.IsOpen || report.Status == previous {
		return
	}
	// Publish outside the lock; a slow broker must not block readers.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, report); err != nil {
		s.metrics.AlertPublishErrors.Inc()
		s.logger.Error("alert publish failed", "error", err, "status", report.Status)
		return
	}
	s.metrics.AlertsPublished.Inc()
	s.logger.Info("alert published", "status", report.Status)
}

func (s *Service) fromCache() (domain.StatusReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached == nil || s.clock.Since(s.cachedAt) >= s.ttl {
		return domain.StatusReport{}, false
	}
	report := *s.cached
	report.Cached = true
	return report, true
}

func (s *Service) staleCopy() (domain.StatusReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached == nil {
		return domain.StatusReport{}, false
	}
	report := *s.cached
	report.Stale = true
	return report, true
}
