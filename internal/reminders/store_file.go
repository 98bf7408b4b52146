package reminders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore keeps the collection as one pretty-printed JSON array. Saves go
// through a temp file in the same directory followed by a rename, so the
// target path always holds either the previous or the new complete array.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("reminder file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger.With("store", "file", "path", path)}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) LoadAll(ctx context.Context) ([]Reminder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("reminder file unreadable, treating as empty", "error", err)
		}
		return []Reminder{}, nil
	}
	all, err := decodeReminders(data)
	if err != nil {
		s.logger.Warn("reminder file corrupt, treating as empty", "error", err)
		return []Reminder{}, nil
	}

	out, dropped := keepValid(all)
	for _, d := range dropped {
		s.logger.Warn("dropping malformed reminder record, original kept on next save", "index", d.index, "error", d.err)
	}
	return out, nil
}

// legacyCategories maps category names written by older versions of the
// service onto the current set.
var legacyCategories = map[Category]Category{
	"doctor": CategoryMedical,
}

type droppedRecord struct {
	index int
	err   error
}

// keepValid normalizes legacy categories and splits off records that still
// fail validation.
func keepValid(all []Reminder) ([]Reminder, []droppedRecord) {
	out := make([]Reminder, 0, len(all))
	var dropped []droppedRecord
	for i, r := range all {
		if !r.Category.Valid() {
			if mapped, ok := legacyCategories[r.Category]; ok {
				r.Category = mapped
			}
		}
		if err := Validate(r); err != nil {
			dropped = append(dropped, droppedRecord{index: i, err: err})
			continue
		}
		out = append(out, r)
	}
	return out, dropped
}

func (s *FileStore) SaveAll(ctx context.Context, reminders []Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateAll(reminders); err != nil {
		return err
	}
	if reminders == nil {
		reminders = []Reminder{}
	}
	data, err := json.MarshalIndent(reminders, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}
	data = append(data, '\n')

	s.preserveCorrupt()
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write reminder file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// preserveCorrupt copies the current file aside before it gets replaced when
// LoadAll could not return all of it: the file fails to decode, or some
// records were dropped. A save never discards data LoadAll skipped.
func (s *FileStore) preserveCorrupt() {
	data, err := os.ReadFile(s.path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return
	}
	if all, err := decodeReminders(data); err == nil {
		if _, dropped := keepValid(all); len(dropped) == 0 {
			return
		}
	}
	backup := s.path + ".corrupt"
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		s.logger.Error("failed to preserve corrupt reminder file", "backup", backup, "error", err)
		return
	}
	s.logger.Warn("preserved corrupt reminder file before overwrite", "backup", backup)
}

func decodeReminders(data []byte) ([]Reminder, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Reminder{}, nil
	}
	var all []Reminder
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = []Reminder{}
	}
	return all, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
