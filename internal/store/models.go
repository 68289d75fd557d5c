/*
Package store implements the activity history for the predictive engine.

The store owns two append-only histories: user actions and system metric
snapshots. Two backends are provided: a JSON snapshot store that rewrites
one file per append, and a SQLite-backed append log that turns every
append into a single-row insert and only materializes the snapshot file
on demand.
*/
package store

import "time"

// ActionRecord represents a single observed user interaction.
type ActionRecord struct {
	// Timestamp is when the action was recorded.
	Timestamp time.Time `json:"timestamp"`

	// ActionType is the interaction tag (e.g. "app_launch").
	ActionType string `json:"action_type"`

	// Application is the application the action targeted.
	Application string `json:"application"`

	// Duration is the action duration in seconds (non-negative).
	Duration float64 `json:"duration"`

	// SystemLoad is the CPU percentage sampled at record time (0-100).
	SystemLoad float64 `json:"system_load"`

	// MemoryUsage is the memory percentage at record time (0-100).
	MemoryUsage float64 `json:"memory_usage"`

	// CPUUsage is the CPU percentage at record time (0-100).
	CPUUsage float64 `json:"cpu_usage"`

	// TimeOfDay is the hour derived from Timestamp (0-23).
	TimeOfDay int `json:"time_of_day"`

	// DayOfWeek is the weekday derived from Timestamp (0=Monday .. 6=Sunday).
	DayOfWeek int `json:"day_of_week"`

	// Success indicates whether the action completed successfully.
	Success bool `json:"success"`
}

// MetricRecord represents one system-health snapshot.
type MetricRecord struct {
	// CPUUsage is the CPU percentage (0-100).
	CPUUsage float64 `json:"cpu_usage"`

	// MemoryUsage is the memory percentage (0-100).
	MemoryUsage float64 `json:"memory_usage"`

	// DiskUsage is used/total*100 for the data volume (0-100).
	DiskUsage float64 `json:"disk_usage"`

	// NetworkUsage is the cumulative bytes sent+received counter.
	NetworkUsage float64 `json:"network_usage"`

	// ActiveProcesses is the live process count.
	ActiveProcesses int `json:"active_processes"`

	// Timestamp is when the snapshot was taken.
	Timestamp time.Time `json:"timestamp"`
}

// Weekday converts a time.Time weekday to the stored 0=Monday..6=Sunday
// convention used by both histories and the feature builders.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// NewActionRecord builds a well-formed action record, deriving TimeOfDay
// and DayOfWeek from the timestamp. The derived fields are never supplied
// independently and never recomputed later.
func NewActionRecord(now time.Time, actionType, application string, duration, cpu, memory float64, success bool) ActionRecord {
	return ActionRecord{
		Timestamp:   now,
		ActionType:  actionType,
		Application: application,
		Duration:    duration,
		SystemLoad:  cpu,
		MemoryUsage: memory,
		CPUUsage:    cpu,
		TimeOfDay:   now.Hour(),
		DayOfWeek:   Weekday(now),
		Success:     success,
	}
}
