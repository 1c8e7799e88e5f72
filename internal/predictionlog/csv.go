package predictionlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/table"
)

// DefaultCSVPath is used when no path is configured.
const DefaultCSVPath = "prediction_log.csv"

// CSVStore appends entries to a flat file. The header is written once, when
// the file is created or empty.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore returns a store backed by path.
func NewCSVStore(path string) *CSVStore {
	if path == "" {
		path = DefaultCSVPath
	}
	return &CSVStore{path: path}
}

// Path returns the backing file.
func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) Append(_ context.Context, entries []models.PredictionLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create prediction log dir: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open prediction log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat prediction log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("failed to write prediction log header: %w", err)
		}
	}
	for _, e := range entries {
		if err := w.Write(record(e)); err != nil {
			return fmt.Errorf("failed to write prediction log entry: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush prediction log: %w", err)
	}
	return f.Sync()
}

// Load returns the entries for season, week and prop. A missing file is an
// empty log.
func (s *CSVStore) Load(_ context.Context, season, week int, prop models.Prop) ([]models.PredictionLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open prediction log: %w", err)
	}
	defer f.Close()

	t, err := table.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read prediction log: %w", err)
	}
	if t.IsEmpty() && len(t.Columns) == 0 {
		return nil, nil
	}
	return fromTable(t, season, week, prop)
}

func (s *CSVStore) Close() error {
	return nil
}
