// Package intake turns user text into stored reminders and lists them.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/antoniostano/reminders/internal/extract"
	"github.com/antoniostano/reminders/internal/observability"
	"github.com/antoniostano/reminders/internal/reminders"
)

// ErrNoDateDetected carries the user-facing message returned by AddReminder
// when the text has no recognizable date.
var ErrNoDateDetected = errors.New("Could not detect a date in your input.")

type Extractor interface {
	Extract(text string) (extract.Draft, error)
}

type Service struct {
	extractor Extractor
	store     *reminders.Guarded
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func New(extractor Extractor, store *reminders.Guarded, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extractor,
		store:     store,
		metrics:   metrics,
		logger:    logger.With("component", "intake"),
	}
}

// AddReminder extracts a reminder from text and appends it to the store in a
// single critical section. Text without a date yields ErrNoDateDetected and
// leaves the store untouched.
func (s *Service) AddReminder(ctx context.Context, text string) (reminders.Reminder, error) {
	draft, err := s.extractor.Extract(text)
	if err != nil {
		if errors.Is(err, extract.ErrNoDateFound) {
			if s.metrics != nil {
				s.metrics.ObserveIntake("no_date")
			}
			s.logger.Info("rejected reminder without date", "text_len", len(text))
			return reminders.Reminder{}, ErrNoDateDetected
		}
		return reminders.Reminder{}, fmt.Errorf("extract reminder: %w", err)
	}

	rem := draft.Reminder()
	err = s.store.Update(ctx, func(current []reminders.Reminder) ([]reminders.Reminder, error) {
		return append(current, rem), nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveIntake("store_failed")
			s.metrics.ObserveStoreError("save")
		}
		s.logger.Error("failed to persist reminder", "error", err)
		return reminders.Reminder{}, err
	}

	if s.metrics != nil {
		s.metrics.ObserveIntake("added")
	}
	s.logger.Info("reminder added", "type", rem.Category, "date", rem.Date)
	return rem, nil
}

// ListReminders returns the full store contents in creation order.
func (s *Service) ListReminders(ctx context.Context) ([]reminders.Reminder, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveStoreError("load")
		}
		s.logger.Error("failed to load reminders", "error", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.StoredReminder.Set(float64(len(all)))
	}
	return all, nil
}

// DueOn lists reminders whose date equals day, using the scanner's rule.
func (s *Service) DueOn(ctx context.Context, day string) ([]reminders.Reminder, error) {
	all, err := s.ListReminders(ctx)
	if err != nil {
		return nil, err
	}
	return reminders.FilterDue(all, day), nil
}

func ConfirmationMessage(r reminders.Reminder) string {
	return fmt.Sprintf("Added reminder [%s]: %s on %s", r.Category, r.Description, r.Date)
}
