package scanner

import (
	"context"
	"log/slog"
	"time"

	"github.com/antoniostano/reminders/internal/reminders"
)

// DueEvent is emitted once per matching reminder per scan.
type DueEvent struct {
	ID          string             `json:"id"`
	ScanID      string             `json:"scan_id"`
	Category    reminders.Category `json:"type"`
	Description string             `json:"description"`
	Date        string             `json:"date"`
	At          time.Time          `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, ev DueEvent) error
}

type NotifierFunc func(ctx context.Context, ev DueEvent) error

func (f NotifierFunc) Notify(ctx context.Context, ev DueEvent) error { return f(ctx, ev) }

// LogNotifier stands in for a real delivery channel by logging each event.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, ev DueEvent) error {
	n.logger.InfoContext(ctx, "Reminder Today! ["+string(ev.Category)+"] - "+ev.Description,
		"event_id", ev.ID,
		"scan_id", ev.ScanID,
		"type", ev.Category,
		"date", ev.Date,
	)
	return nil
}
