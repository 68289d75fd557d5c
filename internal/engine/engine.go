/*
Package engine composes the activity store, collector, models and
recommendation analysis into a single process-wide handle.

The engine is constructed explicitly and passed by reference; there is
no package-level singleton, so tests and embedders can run independent
instances side by side. No error is fatal: the worst case for any
operation is "feature unavailable", never a crash.
*/
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/ndkhanh/autopredict/internal/collector"
	"github.com/ndkhanh/autopredict/internal/config"
	"github.com/ndkhanh/autopredict/internal/feature"
	"github.com/ndkhanh/autopredict/internal/predictor"
	"github.com/ndkhanh/autopredict/internal/recommend"
	"github.com/ndkhanh/autopredict/internal/store"
	"github.com/ndkhanh/autopredict/internal/sysmon"
)

// Engine is the single entry point used by callers.
type Engine struct {
	cfg      *config.Config
	store    store.Store
	recorder *collector.Recorder
	monitor  *collector.Monitor
	behavior *predictor.Behavior
	load     *predictor.Load
	logger   *zap.Logger
}

// Statistics is the reporting view over the engine's state.
type Statistics struct {
	ActionCount       int        `json:"action_count"`
	MetricCount       int        `json:"metric_count"`
	BehaviorTrained   bool       `json:"behavior_trained"`
	LoadTrained       bool       `json:"load_trained"`
	BehaviorAccuracy  *float64   `json:"behavior_accuracy,omitempty"`
	LoadMSE           *float64   `json:"load_mse,omitempty"`
	BehaviorTrainedAt *time.Time `json:"behavior_trained_at,omitempty"`
	LoadTrainedAt     *time.Time `json:"load_trained_at,omitempty"`
}

// New wires an engine from its parts. The store should already be
// loaded; pass nil for sampler to sample the live host.
func New(cfg *config.Config, s store.Store, sampler sysmon.Sampler, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sampler == nil {
		sampler = sysmon.NewSystemSampler()
	}

	recorder := collector.NewRecorder(s, sampler, cfg.Data.MaxRecords, logger)

	return &Engine{
		cfg:      cfg,
		store:    s,
		recorder: recorder,
		monitor:  collector.NewMonitor(recorder, cfg.Monitor.Interval, logger),
		behavior: predictor.NewBehavior(s, sampler, cfg.BehaviorBundlePath(), cfg.Models.Seed, logger),
		load:     predictor.NewLoad(s, sampler, cfg.LoadBundlePath(), cfg.Models.Seed, logger),
		logger:   logger,
	}
}

// Open builds the configured store, loads its history and wires an
// engine around it, sampling the live host.
func Open(cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	return OpenWith(cfg, nil, logger)
}

// OpenWith is Open with an explicit sampler. A nil sampler samples the
// live host.
func OpenWith(cfg *config.Config, sampler sysmon.Sampler, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var s store.Store
	if cfg.Data.Backend == config.BackendSQLite {
		s = store.NewSQLiteStore(cfg.DatabasePath(), cfg.SnapshotPath(), logger)
	} else {
		s = store.NewSnapshotStore(cfg.SnapshotPath(), logger)
	}
	if err := s.Load(); err != nil {
		return nil, err
	}

	return New(cfg, s, sampler, logger), nil
}

// RecordAction records one user interaction. Never fails the caller.
func (e *Engine) RecordAction(actionType, application string, duration float64, success bool) {
	e.recorder.RecordAction(actionType, application, duration, success)
}

// RecordSystemMetrics records one system-health snapshot.
func (e *Engine) RecordSystemMetrics() {
	e.recorder.RecordSystemMetrics()
}

// Monitor returns the background metric monitor.
func (e *Engine) Monitor() *collector.Monitor {
	return e.monitor
}

// TrainBehaviorModel trains the behavior classifier. Blocking;
// minSamples <= 0 uses the configured threshold.
func (e *Engine) TrainBehaviorModel(minSamples int) (*predictor.BehaviorReport, error) {
	if minSamples <= 0 {
		minSamples = e.cfg.Models.BehaviorMinSamples
	}
	return e.behavior.Train(minSamples)
}

// PredictBehavior predicts the most likely next action for a context.
func (e *Engine) PredictBehavior(ctx feature.Context) (*predictor.BehaviorPrediction, error) {
	return e.behavior.Predict(ctx)
}

// TrainLoadModel trains the load regressor. Blocking; minSamples <= 0
// uses the configured threshold.
func (e *Engine) TrainLoadModel(minSamples int) (*predictor.LoadReport, error) {
	if minSamples <= 0 {
		minSamples = e.cfg.Models.LoadMinSamples
	}
	return e.load.Train(minSamples)
}

// PredictLoad forecasts the next CPU load sample. A nil context samples
// the OS live.
func (e *Engine) PredictLoad(ctx *predictor.MetricContext) (*predictor.LoadPrediction, error) {
	return e.load.Predict(ctx)
}

// Recommendations mines the action history for automation suggestions.
func (e *Engine) Recommendations() []recommend.Recommendation {
	return recommend.Recommendations(e.store.Actions())
}

// Patterns aggregates the action history into activity histograms.
func (e *Engine) Patterns() recommend.Patterns {
	return recommend.AnalyzePatterns(e.store.Actions())
}

// DetectAnomalies flags recent actions the behavior model finds
// improbable. threshold <= 0 uses the configured default.
func (e *Engine) DetectAnomalies(threshold float64) []predictor.Anomaly {
	if threshold <= 0 {
		threshold = e.cfg.Models.AnomalyThreshold
	}
	return e.behavior.DetectAnomalies(threshold)
}

// SetBehaviorLabelMode switches the behavior model between natural
// action-type labels and synthetic activity buckets.
func (e *Engine) SetBehaviorLabelMode(mode predictor.LabelMode) {
	e.behavior.SetLabelMode(mode)
}

// Statistics reports history sizes and model state.
func (e *Engine) Statistics() Statistics {
	actionCount, metricCount := e.store.Counts()
	stats := Statistics{
		ActionCount: actionCount,
		MetricCount: metricCount,
	}

	if trained, accuracy, trainedAt := e.behavior.Status(); trained {
		stats.BehaviorTrained = true
		stats.BehaviorAccuracy = &accuracy
		stats.BehaviorTrainedAt = &trainedAt
	}
	if trained, mse, trainedAt := e.load.Status(); trained {
		stats.LoadTrained = true
		stats.LoadMSE = &mse
		stats.LoadTrainedAt = &trainedAt
	}
	return stats
}

// Save flushes the store to the snapshot file.
func (e *Engine) Save() error {
	return e.store.Save()
}

// Close stops the monitor and closes the store.
func (e *Engine) Close() error {
	e.monitor.Stop()
	return e.store.Close()
}
