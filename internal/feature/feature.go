/*
Package feature turns raw activity records into fixed-width numeric
feature vectors and labels.

All transforms are pure and stateless. An empty history yields empty
matrices; callers must treat that as "not enough data", never as a valid
zero-sample fit.
*/
package feature

import (
	"time"

	"github.com/ndkhanh/autopredict/internal/store"
)

// Width is the number of features in every vector produced here.
const Width = 6

// ActionVector maps one action to its behavior-model feature vector:
// [time_of_day, day_of_week, system_load, memory_usage, cpu_usage, duration].
func ActionVector(a store.ActionRecord) []float64 {
	return []float64{
		float64(a.TimeOfDay),
		float64(a.DayOfWeek),
		a.SystemLoad,
		a.MemoryUsage,
		a.CPUUsage,
		a.Duration,
	}
}

// ActionMatrix maps an action history to training features and natural
// labels (the action type of each record).
func ActionMatrix(actions []store.ActionRecord) ([][]float64, []string) {
	if len(actions) == 0 {
		return [][]float64{}, []string{}
	}

	features := make([][]float64, 0, len(actions))
	labels := make([]string, 0, len(actions))
	for _, a := range actions {
		features = append(features, ActionVector(a))
		labels = append(labels, a.ActionType)
	}
	return features, labels
}

// Synthetic activity-bucket labels. This is the documented alternative to
// the natural action-type labels, never merged with them.
const (
	BucketHigh   = "high_activity"
	BucketMedium = "medium_activity"
	BucketLow    = "low_activity"
)

// SyntheticLabel buckets an action into high/medium/low activity by an
// intensity score over its load and duration fields.
func SyntheticLabel(a store.ActionRecord) string {
	score := a.SystemLoad/10 + a.MemoryUsage/10 + a.Duration
	switch {
	case score > 20:
		return BucketHigh
	case score > 10:
		return BucketMedium
	default:
		return BucketLow
	}
}

// SyntheticActionMatrix maps an action history to training features and
// synthetic activity-bucket labels.
func SyntheticActionMatrix(actions []store.ActionRecord) ([][]float64, []string) {
	if len(actions) == 0 {
		return [][]float64{}, []string{}
	}

	features := make([][]float64, 0, len(actions))
	labels := make([]string, 0, len(actions))
	for _, a := range actions {
		features = append(features, ActionVector(a))
		labels = append(labels, SyntheticLabel(a))
	}
	return features, labels
}

// MetricVector maps one metric snapshot to the load-model feature vector:
// [cpu_usage, memory_usage, disk_usage, active_processes, hour, weekday].
func MetricVector(m store.MetricRecord) []float64 {
	return []float64{
		m.CPUUsage,
		m.MemoryUsage,
		m.DiskUsage,
		float64(m.ActiveProcesses),
		float64(m.Timestamp.Hour()),
		float64(store.Weekday(m.Timestamp)),
	}
}

// MetricMatrix builds the one-step-ahead training set: row i is the
// feature vector of metric i, target i is the cpu_usage of metric i+1.
// The last metric is consumed only as a target, so n metrics yield n-1
// rows. History order must be insertion order for the pairing to mean
// "predict the next sample".
func MetricMatrix(metrics []store.MetricRecord) ([][]float64, []float64) {
	if len(metrics) < 2 {
		return [][]float64{}, []float64{}
	}

	features := make([][]float64, 0, len(metrics)-1)
	targets := make([]float64, 0, len(metrics)-1)
	for i := 0; i < len(metrics)-1; i++ {
		features = append(features, MetricVector(metrics[i]))
		targets = append(targets, metrics[i+1].CPUUsage)
	}
	return features, targets
}

// PredictionVector builds a single behavior feature vector from live
// values, mirroring ActionVector's layout.
func PredictionVector(hour, dayOfWeek int, cpu, memory, duration float64) []float64 {
	return []float64{
		float64(hour),
		float64(dayOfWeek),
		cpu,
		memory,
		cpu,
		duration,
	}
}

// LoadPredictionVector builds a single load feature vector from live or
// caller-supplied values, mirroring MetricVector's layout.
func LoadPredictionVector(cpu, memory, diskPct float64, processes int, t time.Time) []float64 {
	return []float64{
		cpu,
		memory,
		diskPct,
		float64(processes),
		float64(t.Hour()),
		float64(store.Weekday(t)),
	}
}
