package collector

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Monitor records system metrics on a fixed interval in the background.
//
// Appends from the monitor goroutine interleave with direct recorder
// calls from other goroutines; the store serializes them, so no appends
// are lost, but no cross-goroutine ordering is guaranteed.
type Monitor struct {
	recorder *Recorder
	interval time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// NewMonitor creates a metric polling monitor.
func NewMonitor(r *Recorder, interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		recorder: r,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the polling goroutine. Starting an already running
// monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	m.wg.Add(1)
	go m.run()
	m.logger.Info("metric monitor started", zap.Duration("interval", m.interval))
}

// Stop halts the polling goroutine and waits for it to exit.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()
	})
}

func (m *Monitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// One immediate sample so a short-lived monitor still records.
	m.recorder.RecordSystemMetrics()

	for {
		select {
		case <-ticker.C:
			m.recorder.RecordSystemMetrics()
		case <-m.stopChan:
			return
		}
	}
}
