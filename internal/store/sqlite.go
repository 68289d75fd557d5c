package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store as an append log: every append is a
// single-row insert instead of a full-file rewrite, which keeps the cost
// per record O(1) as histories grow. Save exports the standard JSON
// snapshot on demand, so the snapshot format stays the interchange
// format between backends.
//
// If the database cannot be opened the store is disabled and operations
// become no-ops (graceful degradation), matching the rest of the
// engine's never-fatal persistence policy.
type SQLiteStore struct {
	db           *sql.DB
	dbPath       string
	snapshotPath string
	enabled      bool
	mu           sync.Mutex
	initOnce     sync.Once
	logger       *zap.Logger
}

// NewSQLiteStore creates a SQLite-backed store. The database lives at
// dbPath; Save exports the JSON snapshot to snapshotPath.
func NewSQLiteStore(dbPath, snapshotPath string, logger *zap.Logger) *SQLiteStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteStore{
		dbPath:       dbPath,
		snapshotPath: snapshotPath,
		enabled:      true,
		logger:       logger,
	}
}

// Load opens the database and runs migrations. If initialization fails,
// the store is disabled and subsequent operations become no-ops.
func (s *SQLiteStore) Load() error {
	var initErr error
	s.initOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			s.logger.Warn("activity database unavailable", zap.Error(initErr))
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			s.logger.Warn("activity database unavailable", zap.Error(initErr))
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			s.logger.Warn("activity database unavailable", zap.Error(initErr))
			return
		}
	})
	return initErr
}

// runMigrations creates the history tables.
func (s *SQLiteStore) runMigrations() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS user_actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			action_type TEXT NOT NULL,
			application TEXT NOT NULL,
			duration REAL NOT NULL,
			system_load REAL NOT NULL,
			memory_usage REAL NOT NULL,
			cpu_usage REAL NOT NULL,
			time_of_day INTEGER NOT NULL,
			day_of_week INTEGER NOT NULL,
			success INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create user_actions table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS system_metrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			cpu_usage REAL NOT NULL,
			memory_usage REAL NOT NULL,
			disk_usage REAL NOT NULL,
			network_usage REAL NOT NULL,
			active_processes INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create system_metrics table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_actions_type
		ON user_actions(action_type)
	`); err != nil {
		return fmt.Errorf("failed to create user_actions index: %w", err)
	}

	return nil
}

// AppendAction inserts one action row.
func (s *SQLiteStore) AppendAction(action ActionRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	success := 0
	if action.Success {
		success = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO user_actions
			(timestamp, action_type, application, duration, system_load,
			 memory_usage, cpu_usage, time_of_day, day_of_week, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		action.Timestamp.Format(time.RFC3339Nano),
		action.ActionType,
		action.Application,
		action.Duration,
		action.SystemLoad,
		action.MemoryUsage,
		action.CPUUsage,
		action.TimeOfDay,
		action.DayOfWeek,
		success,
	)
	if err != nil {
		s.logger.Warn("failed to record action", zap.Error(err))
	}
	return nil
}

// AppendMetric inserts one metric row.
func (s *SQLiteStore) AppendMetric(metric MetricRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO system_metrics
			(timestamp, cpu_usage, memory_usage, disk_usage, network_usage, active_processes)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		metric.Timestamp.Format(time.RFC3339Nano),
		metric.CPUUsage,
		metric.MemoryUsage,
		metric.DiskUsage,
		metric.NetworkUsage,
		metric.ActiveProcesses,
	)
	if err != nil {
		s.logger.Warn("failed to record metric", zap.Error(err))
	}
	return nil
}

// Actions returns the action history in insertion order.
func (s *SQLiteStore) Actions() []ActionRecord {
	if !s.enabled || s.db == nil {
		return []ActionRecord{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT timestamp, action_type, application, duration, system_load,
		       memory_usage, cpu_usage, time_of_day, day_of_week, success
		FROM user_actions
		ORDER BY id ASC
	`)
	if err != nil {
		s.logger.Warn("failed to query actions", zap.Error(err))
		return []ActionRecord{}
	}
	defer rows.Close()

	actions := []ActionRecord{}
	for rows.Next() {
		var a ActionRecord
		var ts string
		var success int

		if err := rows.Scan(&ts, &a.ActionType, &a.Application, &a.Duration,
			&a.SystemLoad, &a.MemoryUsage, &a.CPUUsage, &a.TimeOfDay,
			&a.DayOfWeek, &success); err != nil {
			s.logger.Warn("failed to scan action row", zap.Error(err))
			continue
		}

		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			s.logger.Warn("skipping action with malformed timestamp", zap.String("timestamp", ts))
			continue
		}

		a.Timestamp = parsed
		a.Success = success == 1
		actions = append(actions, a)
	}
	return actions
}

// Metrics returns the metric history in insertion order.
func (s *SQLiteStore) Metrics() []MetricRecord {
	if !s.enabled || s.db == nil {
		return []MetricRecord{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT timestamp, cpu_usage, memory_usage, disk_usage, network_usage, active_processes
		FROM system_metrics
		ORDER BY id ASC
	`)
	if err != nil {
		s.logger.Warn("failed to query metrics", zap.Error(err))
		return []MetricRecord{}
	}
	defer rows.Close()

	metrics := []MetricRecord{}
	for rows.Next() {
		var m MetricRecord
		var ts string

		if err := rows.Scan(&ts, &m.CPUUsage, &m.MemoryUsage, &m.DiskUsage,
			&m.NetworkUsage, &m.ActiveProcesses); err != nil {
			s.logger.Warn("failed to scan metric row", zap.Error(err))
			continue
		}

		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			s.logger.Warn("skipping metric with malformed timestamp", zap.String("timestamp", ts))
			continue
		}

		m.Timestamp = parsed
		metrics = append(metrics, m)
	}
	return metrics
}

// Counts returns (action count, metric count).
func (s *SQLiteStore) Counts() (int, int) {
	if !s.enabled || s.db == nil {
		return 0, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var actions, metrics int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM user_actions").Scan(&actions); err != nil {
		s.logger.Warn("failed to count actions", zap.Error(err))
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM system_metrics").Scan(&metrics); err != nil {
		s.logger.Warn("failed to count metrics", zap.Error(err))
	}
	return actions, metrics
}

// Save exports both histories to the JSON snapshot file. This is the
// compaction path for the append log: the snapshot stays readable by the
// snapshot backend and by external tooling.
func (s *SQLiteStore) Save() error {
	snap := snapshot{Actions: s.Actions(), Metrics: s.Metrics()}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.snapshotPath)
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

	if err := os.Rename(tmpName, s.snapshotPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Trim drops the oldest rows so each history holds at most max records.
func (s *SQLiteStore) Trim(max int) {
	if max <= 0 || !s.enabled || s.db == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"user_actions", "system_metrics"} {
		query := fmt.Sprintf(`
			DELETE FROM %s WHERE id NOT IN (
				SELECT id FROM %s ORDER BY id DESC LIMIT ?
			)
		`, table, table)
		if _, err := s.db.Exec(query, max); err != nil {
			s.logger.Warn("failed to trim history", zap.String("table", table), zap.Error(err))
		}
	}
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	return nil
}
