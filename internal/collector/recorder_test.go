package collector

import (
	"errors"
	"testing"
	"time"

	"github.com/ndkhanh/autopredict/internal/store"
	"github.com/ndkhanh/autopredict/internal/sysmon"
)

// memStore is an in-memory Store for recorder tests.
type memStore struct {
	actions  []store.ActionRecord
	metrics  []store.MetricRecord
	trimArgs []int
}

func (m *memStore) AppendAction(a store.ActionRecord) error {
	m.actions = append(m.actions, a)
	return nil
}

func (m *memStore) AppendMetric(metric store.MetricRecord) error {
	m.metrics = append(m.metrics, metric)
	return nil
}

func (m *memStore) Actions() []store.ActionRecord { return m.actions }
func (m *memStore) Metrics() []store.MetricRecord { return m.metrics }
func (m *memStore) Counts() (int, int)            { return len(m.actions), len(m.metrics) }
func (m *memStore) Load() error                   { return nil }
func (m *memStore) Save() error                   { return nil }
func (m *memStore) Close() error                  { return nil }

func (m *memStore) Trim(max int) {
	m.trimArgs = append(m.trimArgs, max)
	if max <= 0 {
		return
	}
	if len(m.actions) > max {
		m.actions = m.actions[len(m.actions)-max:]
	}
	if len(m.metrics) > max {
		m.metrics = m.metrics[len(m.metrics)-max:]
	}
}

// failingSampler errors on every reading.
type failingSampler struct{}

func (failingSampler) CPUPercent() (float64, error)    { return 0, errors.New("no cpu") }
func (failingSampler) MemoryPercent() (float64, error) { return 0, errors.New("no memory") }
func (failingSampler) DiskPercent() (float64, error)   { return 0, errors.New("no disk") }
func (failingSampler) NetworkBytes() (float64, error)  { return 0, errors.New("no network") }
func (failingSampler) ProcessCount() (int, error)      { return 0, errors.New("no processes") }

func TestRecorder_RecordAction(t *testing.T) {
	ms := &memStore{}
	sampler := &sysmon.StaticSampler{CPU: 42.5, Memory: 61.5}
	r := NewRecorder(ms, sampler, 0, nil)

	before := time.Now()
	r.RecordAction("app_launch", "chrome", 2.5, true)

	if len(ms.actions) != 1 {
		t.Fatalf("expected 1 recorded action, got %d", len(ms.actions))
	}
	a := ms.actions[0]
	if a.ActionType != "app_launch" || a.Application != "chrome" {
		t.Errorf("unexpected identity fields: %+v", a)
	}
	if a.Duration != 2.5 || !a.Success {
		t.Errorf("unexpected duration/success: %+v", a)
	}
	if a.SystemLoad != 42.5 || a.CPUUsage != 42.5 || a.MemoryUsage != 61.5 {
		t.Errorf("sampled values not recorded: %+v", a)
	}
	if a.Timestamp.Before(before) {
		t.Errorf("timestamp not stamped at record time")
	}
	if a.TimeOfDay != a.Timestamp.Hour() {
		t.Errorf("time_of_day %d does not match timestamp hour %d", a.TimeOfDay, a.Timestamp.Hour())
	}
	if a.DayOfWeek != store.Weekday(a.Timestamp) {
		t.Errorf("day_of_week %d does not match timestamp", a.DayOfWeek)
	}
}

func TestRecorder_RecordActionBoundary(t *testing.T) {
	ms := &memStore{}
	r := NewRecorder(ms, &sysmon.StaticSampler{}, 0, nil)

	r.RecordAction("click", "notepad", 0, false)

	a := ms.actions[0]
	if a.Duration != 0 || a.Success {
		t.Errorf("expected zero duration and failed action, got %+v", a)
	}
}

func TestRecorder_SamplerFailureDegradesToZero(t *testing.T) {
	ms := &memStore{}
	r := NewRecorder(ms, failingSampler{}, 0, nil)

	r.RecordAction("click", "chrome", 1, true)
	r.RecordSystemMetrics()

	if len(ms.actions) != 1 || len(ms.metrics) != 1 {
		t.Fatalf("expected records despite sampler failures, got %d/%d", len(ms.actions), len(ms.metrics))
	}
	a := ms.actions[0]
	if a.SystemLoad != 0 || a.MemoryUsage != 0 || a.CPUUsage != 0 {
		t.Errorf("expected zero samples on failure, got %+v", a)
	}
	m := ms.metrics[0]
	if m.CPUUsage != 0 || m.DiskUsage != 0 || m.ActiveProcesses != 0 {
		t.Errorf("expected zero metric samples on failure, got %+v", m)
	}
}

func TestRecorder_RecordSystemMetrics(t *testing.T) {
	ms := &memStore{}
	sampler := &sysmon.StaticSampler{CPU: 30, Memory: 55, Disk: 73, Network: 1e9, Processes: 212}
	r := NewRecorder(ms, sampler, 0, nil)

	r.RecordSystemMetrics()

	if len(ms.metrics) != 1 {
		t.Fatalf("expected 1 recorded metric, got %d", len(ms.metrics))
	}
	m := ms.metrics[0]
	if m.CPUUsage != 30 || m.MemoryUsage != 55 || m.DiskUsage != 73 {
		t.Errorf("sampled percentages not recorded: %+v", m)
	}
	if m.NetworkUsage != 1e9 || m.ActiveProcesses != 212 {
		t.Errorf("network/process samples not recorded: %+v", m)
	}
}

func TestRecorder_RetentionTrims(t *testing.T) {
	ms := &memStore{}
	r := NewRecorder(ms, &sysmon.StaticSampler{}, 3, nil)

	for i := 0; i < 5; i++ {
		r.RecordAction("click", "chrome", 1, true)
	}

	if len(ms.actions) != 3 {
		t.Errorf("expected retention to bound history at 3, got %d", len(ms.actions))
	}
	if len(ms.trimArgs) != 5 {
		t.Errorf("expected trim after every append, got %d calls", len(ms.trimArgs))
	}
}

func TestMonitor_StartStop(t *testing.T) {
	ms := &memStore{}
	r := NewRecorder(ms, &sysmon.StaticSampler{CPU: 10}, 0, nil)
	m := NewMonitor(r, 10*time.Millisecond, nil)

	m.Start()
	m.Start() // second start is a no-op

	time.Sleep(50 * time.Millisecond)
	m.Stop()
	m.Stop() // second stop is a no-op

	_, metricCount := ms.Counts()
	if metricCount < 1 {
		t.Fatalf("expected at least the immediate sample, got %d", metricCount)
	}

	// No further samples arrive after Stop returns.
	after := metricCount
	time.Sleep(30 * time.Millisecond)
	if _, got := ms.Counts(); got != after {
		t.Errorf("monitor kept recording after stop: %d -> %d", after, got)
	}
}
