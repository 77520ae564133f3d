package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/contentflow-ai/platform/internal/model"
	"github.com/contentflow-ai/platform/pkg/logger"
	"github.com/contentflow-ai/platform/pkg/metrics"
)

// FileStore persists analytics records in a single JSON file. A mutex
// serializes the read-modify-append cycle so concurrent inbound webhook calls
// cannot lose updates.
type FileStore struct {
	path   string
	logger *logger.Logger

	mu      sync.Mutex
	records []model.AnalyticsRecord
}

// OpenFileStore opens the store, loading any existing records. A missing file
// starts an empty collection.
func OpenFileStore(path string, log *logger.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		logger: log,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read analytics file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("failed to parse analytics file: %w", err)
		}
	}

	return s, nil
}

// Append persists one payload, rewriting the file under the lock.
func (s *FileStore) Append(ctx context.Context, payload json.RawMessage) (*model.AnalyticsRecord, error) {
	record := model.AnalyticsRecord{
		ReceivedAt: time.Now().UTC(),
		Payload:    payload,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	if err := s.persistLocked(); err != nil {
		// Roll back the in-memory append so a retry stays consistent with
		// the file contents.
		s.records = s.records[:len(s.records)-1]
		metrics.AnalyticsEventsTotal.WithLabelValues("append", "file", "error").Inc()
		return nil, err
	}

	metrics.AnalyticsEventsTotal.WithLabelValues("append", "file", "success").Inc()
	return &record, nil
}

// All returns every stored record in insertion order.
func (s *FileStore) All(ctx context.Context) ([]model.AnalyticsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AnalyticsRecord, len(s.records))
	copy(out, s.records)
	metrics.AnalyticsEventsTotal.WithLabelValues("read", "file", "success").Inc()
	return out, nil
}

// Ping verifies the store directory is writable.
func (s *FileStore) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Close flushes the current state to disk.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *FileStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analytics records: %w", err)
	}

	// Write-then-rename keeps the file parseable if the process dies
	// mid-write.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace analytics file: %w", err)
	}
	return nil
}
