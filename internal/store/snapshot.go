package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// snapshot is the on-disk JSON shape: two top-level arrays.
type snapshot struct {
	Actions []ActionRecord `json:"actions"`
	Metrics []MetricRecord `json:"metrics"`
}

// SnapshotStore keeps both histories in memory and rewrites a single JSON
// snapshot file after every mutation.
//
// Every append is serialized by one mutex: concurrent callers from
// independent polling loops would otherwise interleave list-append and
// full-file rewrite and lose updates. Writes go to a temp file first and
// are renamed into place, so a crash mid-write cannot corrupt the
// previous successfully-saved snapshot.
//
// Persistence failures are logged and swallowed: the in-memory histories
// stay authoritative for the rest of the process lifetime.
type SnapshotStore struct {
	path    string
	mu      sync.Mutex
	actions []ActionRecord
	metrics []MetricRecord
	logger  *zap.Logger
}

// NewSnapshotStore creates a snapshot store backed by the given file.
// Call Load to restore any previously saved histories.
func NewSnapshotStore(path string, logger *zap.Logger) *SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{path: path, logger: logger}
}

// AppendAction appends a user action and persists the full history.
func (s *SnapshotStore) AppendAction(action ActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actions = append(s.actions, action)
	s.persistLocked()
	return nil
}

// AppendMetric appends a metric snapshot and persists the full history.
func (s *SnapshotStore) AppendMetric(metric MetricRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics = append(s.metrics, metric)
	s.persistLocked()
	return nil
}

// Actions returns a copy of the action history in insertion order.
func (s *SnapshotStore) Actions() []ActionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ActionRecord, len(s.actions))
	copy(out, s.actions)
	return out
}

// Metrics returns a copy of the metric history in insertion order.
func (s *SnapshotStore) Metrics() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]MetricRecord, len(s.metrics))
	copy(out, s.metrics)
	return out
}

// Counts returns (action count, metric count).
func (s *SnapshotStore) Counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actions), len(s.metrics)
}

// Load reads the snapshot file if present and reconstructs both
// histories. On any parse failure the histories reset to empty: a
// malformed snapshot is data loss, not a caller error, and is logged
// loudly so operators notice.
func (s *SnapshotStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.logger.Warn("failed to read snapshot", zap.String("path", s.path), zap.Error(err))
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Error("malformed snapshot, resetting to empty histories",
			zap.String("path", s.path), zap.Error(err))
		s.actions = nil
		s.metrics = nil
		return nil
	}

	s.actions = snap.Actions
	s.metrics = snap.Metrics
	return nil
}

// Save writes both histories to the snapshot file.
func (s *SnapshotStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked()
}

// Trim drops the oldest records so each history holds at most max records.
func (s *SnapshotStore) Trim(max int) {
	if max <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := false
	if len(s.actions) > max {
		s.actions = append([]ActionRecord(nil), s.actions[len(s.actions)-max:]...)
		trimmed = true
	}
	if len(s.metrics) > max {
		s.metrics = append([]MetricRecord(nil), s.metrics[len(s.metrics)-max:]...)
		trimmed = true
	}
	if trimmed {
		s.persistLocked()
	}
}

// Close flushes the current histories to disk.
func (s *SnapshotStore) Close() error {
	return s.Save()
}

// persistLocked writes the snapshot, logging and swallowing any failure.
func (s *SnapshotStore) persistLocked() {
	if err := s.writeLocked(); err != nil {
		s.logger.Warn("failed to persist snapshot, in-memory history remains authoritative",
			zap.String("path", s.path), zap.Error(err))
	}
}

// writeLocked serializes both histories via a temp file and rename.
func (s *SnapshotStore) writeLocked() error {
	snap := snapshot{Actions: s.actions, Metrics: s.metrics}
	if snap.Actions == nil {
		snap.Actions = []ActionRecord{}
	}
	if snap.Metrics == nil {
		snap.Metrics = []MetricRecord{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
