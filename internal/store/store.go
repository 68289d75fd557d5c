package store

// Store defines the interface for activity history persistence.
//
// Histories are append-only and insertion-ordered. Order is significant:
// the load model pairs metric i with metric i+1 to build its next-sample
// training target, so implementations must return records exactly in the
// order they were appended.
type Store interface {
	// AppendAction appends a user action and persists it.
	AppendAction(action ActionRecord) error

	// AppendMetric appends a system metric snapshot and persists it.
	AppendMetric(metric MetricRecord) error

	// Actions returns a copy of the action history in insertion order.
	Actions() []ActionRecord

	// Metrics returns a copy of the metric history in insertion order.
	Metrics() []MetricRecord

	// Counts returns (action count, metric count).
	Counts() (int, int)

	// Load restores both histories from disk. A missing file is not an
	// error. A malformed file resets to empty histories rather than
	// failing (fail-safe, not fail-fast).
	Load() error

	// Save writes both histories to the JSON snapshot file.
	Save() error

	// Trim drops the oldest records so that each history holds at most
	// max records. max <= 0 disables trimming.
	Trim(max int)

	// Close releases any resources held by the store.
	Close() error
}
