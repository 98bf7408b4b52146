package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	ModeAuto     = "auto"
	ModeFile     = "file"
	ModeMemory   = "memory"
	ModePostgres = "postgres"
)

type Options struct {
	Mode        string
	FilePath    string
	DatabaseURL string
	Logger      *slog.Logger
}

// ResolveMode maps "auto" to postgres when a database URL is configured and
// to the JSON file otherwise.
func ResolveMode(mode, databaseURL string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" || mode == ModeAuto {
		if strings.TrimSpace(databaseURL) != "" {
			return ModePostgres
		}
		return ModeFile
	}
	return mode
}

// NewStore creates the backend selected by opts and reports the resolved mode.
func NewStore(ctx context.Context, opts Options) (Store, string, error) {
	mode := ResolveMode(opts.Mode, opts.DatabaseURL)
	switch mode {
	case ModeFile:
		st, err := NewFileStore(opts.FilePath, opts.Logger)
		if err != nil {
			return nil, "", err
		}
		return st, mode, nil
	case ModeMemory:
		return NewInMemoryStore(), mode, nil
	case ModePostgres:
		if strings.TrimSpace(opts.DatabaseURL) == "" {
			return nil, "", fmt.Errorf("reminder store mode %q requires DATABASE_URL", mode)
		}
		st, err := NewPostgresStore(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, "", err
		}
		return st, mode, nil
	default:
		return nil, "", fmt.Errorf("unknown reminder store mode %q (expected auto|file|memory|postgres)", opts.Mode)
	}
}
