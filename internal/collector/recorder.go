/*
Package collector records user actions and system metrics into the
activity store.

The Recorder performs the sample-stamp-derive-append sequence for a
single record; the Monitor runs a background loop that records system
metrics at a fixed interval.
*/
package collector

import (
	"time"

	"go.uber.org/zap"

	"github.com/ndkhanh/autopredict/internal/store"
	"github.com/ndkhanh/autopredict/internal/sysmon"
)

// Recorder appends observed activity to the store, sampling the OS at
// record time. Recording never fails the caller: sampling errors degrade
// to zero values and persistence errors are handled inside the store.
type Recorder struct {
	store     store.Store
	sampler   sysmon.Sampler
	logger    *zap.Logger
	retention int
}

// NewRecorder creates a recorder. retention > 0 bounds each history to
// that many records, trimming the oldest after every append.
func NewRecorder(s store.Store, sampler sysmon.Sampler, retention int, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		store:     s,
		sampler:   sampler,
		logger:    logger,
		retention: retention,
	}
}

// RecordAction records one user interaction. CPU and memory are sampled
// live; time-of-day and day-of-week are derived from the timestamp.
func (r *Recorder) RecordAction(actionType, application string, duration float64, success bool) {
	now := time.Now()

	cpu, err := r.sampler.CPUPercent()
	if err != nil {
		r.logger.Warn("cpu sample failed, recording zero", zap.Error(err))
		cpu = 0
	}
	memory, err := r.sampler.MemoryPercent()
	if err != nil {
		r.logger.Warn("memory sample failed, recording zero", zap.Error(err))
		memory = 0
	}

	action := store.NewActionRecord(now, actionType, application, duration, cpu, memory, success)
	if err := r.store.AppendAction(action); err != nil {
		r.logger.Warn("failed to append action", zap.Error(err))
	}
	r.store.Trim(r.retention)
}

// RecordSystemMetrics samples and records one system-health snapshot.
func (r *Recorder) RecordSystemMetrics() {
	now := time.Now()

	cpu, err := r.sampler.CPUPercent()
	if err != nil {
		r.logger.Warn("cpu sample failed, recording zero", zap.Error(err))
		cpu = 0
	}
	memory, err := r.sampler.MemoryPercent()
	if err != nil {
		r.logger.Warn("memory sample failed, recording zero", zap.Error(err))
		memory = 0
	}
	diskPct, err := r.sampler.DiskPercent()
	if err != nil {
		r.logger.Warn("disk sample failed, recording zero", zap.Error(err))
		diskPct = 0
	}
	network, err := r.sampler.NetworkBytes()
	if err != nil {
		r.logger.Warn("network sample failed, recording zero", zap.Error(err))
		network = 0
	}
	processes, err := r.sampler.ProcessCount()
	if err != nil {
		r.logger.Warn("process count failed, recording zero", zap.Error(err))
		processes = 0
	}

	metric := store.MetricRecord{
		CPUUsage:        cpu,
		MemoryUsage:     memory,
		DiskUsage:       diskPct,
		NetworkUsage:    network,
		ActiveProcesses: processes,
		Timestamp:       now,
	}
	if err := r.store.AppendMetric(metric); err != nil {
		r.logger.Warn("failed to append metric", zap.Error(err))
	}
	r.store.Trim(r.retention)
}
