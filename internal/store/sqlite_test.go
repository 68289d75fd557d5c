package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s := NewSQLiteStore(filepath.Join(dir, "activity.db"), filepath.Join(dir, "ml_data.json"), nil)
	if err := s.Load(); err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_AppendAndRead(t *testing.T) {
	s := newTestSQLiteStore(t)
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	for _, a := range testActions(5, base) {
		if err := s.AppendAction(a); err != nil {
			t.Fatalf("failed to append action: %v", err)
		}
	}
	for _, m := range testMetrics(3, base) {
		if err := s.AppendMetric(m); err != nil {
			t.Fatalf("failed to append metric: %v", err)
		}
	}

	actionCount, metricCount := s.Counts()
	if actionCount != 5 || metricCount != 3 {
		t.Fatalf("expected counts 5/3, got %d/%d", actionCount, metricCount)
	}

	actions := s.Actions()
	want := testActions(5, base)
	for i, a := range actions {
		if !a.Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("action %d: timestamp %v != %v", i, a.Timestamp, want[i].Timestamp)
		}
		if a.ActionType != want[i].ActionType || a.Success != want[i].Success {
			t.Errorf("action %d: fields differ", i)
		}
		if a.Duration != want[i].Duration {
			t.Errorf("action %d: duration %v != %v", i, a.Duration, want[i].Duration)
		}
	}

	metrics := s.Metrics()
	for i := 1; i < len(metrics); i++ {
		if !metrics[i].Timestamp.After(metrics[i-1].Timestamp) {
			t.Fatalf("metric order broken at index %d", i)
		}
	}
}

func TestSQLiteStore_SaveExportsSnapshot(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "ml_data.json")

	s := NewSQLiteStore(filepath.Join(dir, "activity.db"), snapshotPath, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer s.Close()

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	for _, a := range testActions(3, base) {
		s.AppendAction(a)
	}
	for _, m := range testMetrics(2, base) {
		s.AppendMetric(m)
	}

	if err := s.Save(); err != nil {
		t.Fatalf("failed to export snapshot: %v", err)
	}

	// The exported snapshot must be readable by the snapshot backend.
	snap := NewSnapshotStore(snapshotPath, nil)
	if err := snap.Load(); err != nil {
		t.Fatalf("failed to load exported snapshot: %v", err)
	}
	actions, metrics := snap.Counts()
	if actions != 3 || metrics != 2 {
		t.Errorf("expected exported snapshot with 3/2 records, got %d/%d", actions, metrics)
	}
}

func TestSQLiteStore_Trim(t *testing.T) {
	s := newTestSQLiteStore(t)
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	for _, a := range testActions(10, base) {
		s.AppendAction(a)
	}
	for _, m := range testMetrics(10, base) {
		s.AppendMetric(m)
	}

	s.Trim(4)

	actionCount, metricCount := s.Counts()
	if actionCount != 4 || metricCount != 4 {
		t.Fatalf("expected 4/4 records after trim, got %d/%d", actionCount, metricCount)
	}

	// The newest rows survive.
	actions := s.Actions()
	if actions[0].Duration != 1.5+6 {
		t.Errorf("expected trim to keep the newest records, got first duration %v", actions[0].Duration)
	}
}

func TestSQLiteStore_EmptyHistories(t *testing.T) {
	s := newTestSQLiteStore(t)

	if got := s.Actions(); len(got) != 0 {
		t.Errorf("expected no actions, got %d", len(got))
	}
	if got := s.Metrics(); len(got) != 0 {
		t.Errorf("expected no metrics, got %d", len(got))
	}
}
