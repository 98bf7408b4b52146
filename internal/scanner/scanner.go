// Package scanner periodically compares stored reminders against the local
// calendar date and emits an event for every reminder due today. It only
// reads the store. Reminders whose date passes while the process is down are
// never reported.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/antoniostano/reminders/internal/observability"
	"github.com/antoniostano/reminders/internal/reminders"
)

const (
	DefaultInterval    = time.Hour
	DefaultLockTimeout = 5 * time.Second
)

type Config struct {
	Interval    time.Duration
	LockTimeout time.Duration
}

type Scanner struct {
	cfg      Config
	store    *reminders.Guarded
	notifier Notifier
	metrics  *observability.Metrics
	logger   *slog.Logger
	now      func() time.Time

	// scanMu keeps scheduled and manual scans from overlapping and guards
	// the per-day record of already notified reminders.
	scanMu      sync.Mutex
	notifiedDay string
	notified    map[string]struct{}

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	initial sync.WaitGroup
}

func New(cfg Config, store *reminders.Guarded, notifier Notifier, metrics *observability.Metrics, logger *slog.Logger) *Scanner {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = DefaultLockTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &Scanner{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.With("component", "scanner"),
		now:      time.Now,
		notified: make(map[string]struct{}),
	}
}

// SetClock overrides the source of "today".
func (s *Scanner) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Start scans once immediately and then every cfg.Interval until ctx is
// cancelled or Stop is called.
func (s *Scanner) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return errors.New("scanner already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New(
		cron.WithLocation(time.Local),
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.Recover(cronLogger{s.logger}), cron.SkipIfStillRunning(cronLogger{s.logger})),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.cfg.Interval), func() { s.runScheduled(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule scan: %w", err)
	}

	s.cron = c
	s.cancel = cancel

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.runScheduled(runCtx)
	}()
	c.Start()
	s.logger.Info("scanner started", "interval", s.cfg.Interval.String())
	return nil
}

// Stop halts the schedule and waits for a running scan to finish.
func (s *Scanner) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c != nil {
		<-c.Stop().Done()
	}
	s.initial.Wait()
	s.logger.Info("scanner stopped")
}

func (s *Scanner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

func (s *Scanner) runScheduled(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	events, err := s.ScanOnce(ctx)
	switch {
	case errors.Is(err, reminders.ErrStoreBusy):
		s.logger.Warn("store busy, skipping this scan", "error", err)
	case err != nil:
		s.logger.Error("scan failed", "error", err)
	default:
		s.logger.Debug("scan complete", "due", len(events))
	}
}

// ScanOnce loads the store with a bounded wait, notifies every reminder due
// today that has not been notified yet today, and returns the emitted events.
func (s *Scanner) ScanOnce(ctx context.Context) ([]DueEvent, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	started := time.Now()
	scanID := uuid.NewString()

	loadCtx, cancel := context.WithTimeout(ctx, s.cfg.LockTimeout)
	all, err := s.store.LoadAll(loadCtx)
	cancel()
	if err != nil {
		outcome := "failed"
		if errors.Is(err, reminders.ErrStoreBusy) {
			outcome = "skipped"
		}
		if s.metrics != nil {
			s.metrics.ObserveScan(outcome, 0, time.Since(started))
		}
		return nil, err
	}

	now := s.now()
	today := reminders.Day(now)
	if today != s.notifiedDay {
		s.notifiedDay = today
		s.notified = make(map[string]struct{})
	}

	events := make([]DueEvent, 0)
	for i, r := range all {
		if !r.DueOn(today) {
			continue
		}
		// The store is append-only, so the position identifies a record.
		key := fmt.Sprintf("%d|%s|%s", i, r.Category, r.Description)
		if _, seen := s.notified[key]; seen {
			continue
		}
		s.notified[key] = struct{}{}

		ev := DueEvent{
			ID:          uuid.NewString(),
			ScanID:      scanID,
			Category:    r.Category,
			Description: r.Description,
			Date:        r.Date,
			At:          now,
		}
		if err := s.notifier.Notify(ctx, ev); err != nil {
			s.logger.Error("notify failed", "event_id", ev.ID, "error", err)
			if s.metrics != nil {
				s.metrics.NotifyErrors.Inc()
			}
		}
		events = append(events, ev)
	}

	if s.metrics != nil {
		s.metrics.ObserveScan("ok", len(events), time.Since(started))
		s.metrics.StoredReminder.Set(float64(len(all)))
	}
	s.logger.Info("scan finished", "scan_id", scanID, "today", today, "stored", len(all), "due", len(events))
	return events, nil
}

// cronLogger adapts slog to cron's logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
