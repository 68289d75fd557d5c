package predictor

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndkhanh/autopredict/internal/feature"
	"github.com/ndkhanh/autopredict/internal/ml"
	"github.com/ndkhanh/autopredict/internal/store"
	"github.com/ndkhanh/autopredict/internal/sysmon"
)

// DefaultLoadMinSamples is the default training threshold for the load
// regressor. It is deliberately higher than the behavior threshold: the
// one-step-ahead target needs a longer consistent sampling run.
const DefaultLoadMinSamples = 100

// LoadReport is the result of a successful load training run.
type LoadReport struct {
	RunID       string  `json:"run_id"`
	TrainMSE    float64 `json:"train_mse"`
	TestMSE     float64 `json:"test_mse"`
	SamplesUsed int     `json:"samples_used"`
}

// LoadPrediction is the result of a load prediction.
type LoadPrediction struct {
	PredictedCPULoad float64   `json:"predicted_cpu_load"`
	CurrentCPULoad   float64   `json:"current_cpu_load"`
	Timestamp        time.Time `json:"timestamp"`
}

// MetricContext supplies a system snapshot for load prediction in place
// of live sampling.
type MetricContext struct {
	CPUUsage        float64 `json:"cpu_usage"`
	MemoryUsage     float64 `json:"memory_usage"`
	DiskUsage       float64 `json:"disk_usage"`
	ActiveProcesses int     `json:"active_processes"`
}

// loadBundle is the persisted unit for the load model kind.
type loadBundle struct {
	Model     *ml.GradientBoosting `json:"model"`
	Scaler    *ml.StandardScaler   `json:"scaler"`
	IsTrained bool                 `json:"is_trained"`
	TrainedAt time.Time            `json:"trained_at"`
	TestMSE   float64              `json:"test_mse"`
}

// Load is the regressor predicting the next CPU load sample. It is a
// strict one-step-ahead predictor over the recorded sampling cadence:
// prediction quality is only meaningful when metrics are sampled at a
// roughly consistent interval.
type Load struct {
	store      store.Store
	sampler    sysmon.Sampler
	logger     *zap.Logger
	bundlePath string
	seed       int64

	mu        sync.Mutex
	model     *ml.GradientBoosting
	scaler    *ml.StandardScaler
	trained   bool
	trainedAt time.Time
	testMSE   float64
}

// NewLoad creates an untrained load model persisting its bundle at
// bundlePath.
func NewLoad(s store.Store, sampler sysmon.Sampler, bundlePath string, seed int64, logger *zap.Logger) *Load {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Load{
		store:      s,
		sampler:    sampler,
		logger:     logger,
		bundlePath: bundlePath,
		seed:       seed,
	}
}

// Train fits the regressor on the recorded metric history. The guard is
// on metric count; n metrics yield n-1 training rows. Blocks for the
// duration of the fit. minSamples <= 0 uses the default threshold.
func (l *Load) Train(minSamples int) (*LoadReport, error) {
	if minSamples <= 0 {
		minSamples = DefaultLoadMinSamples
	}

	metrics := l.store.Metrics()
	if len(metrics) < minSamples {
		return nil, &InsufficientDataError{Kind: "load", Need: minSamples, Have: len(metrics)}
	}

	features, targets := feature.MetricMatrix(metrics)
	if len(features) == 0 {
		return nil, &InsufficientDataError{Kind: "load", Need: minSamples, Have: 0}
	}

	trainIdx, testIdx := ml.SplitIndices(len(features), testFraction, l.seed)
	xTrain := ml.Gather(features, trainIdx)
	xTest := ml.Gather(features, testIdx)
	yTrain := ml.GatherFloats(targets, trainIdx)
	yTest := ml.GatherFloats(targets, testIdx)

	scaler := &ml.StandardScaler{}
	if err := scaler.Fit(xTrain); err != nil {
		return nil, err
	}
	xTrain = scaler.Transform(xTrain)
	xTest = scaler.Transform(xTest)

	model := ml.NewGradientBoosting(l.seed)
	if err := model.Fit(xTrain, yTrain); err != nil {
		return nil, err
	}

	report := &LoadReport{
		RunID:       uuid.NewString(),
		TrainMSE:    ml.MSE(yTrain, model.PredictAll(xTrain)),
		TestMSE:     ml.MSE(yTest, model.PredictAll(xTest)),
		SamplesUsed: len(features),
	}

	l.mu.Lock()
	l.model = model
	l.scaler = scaler
	l.trained = true
	l.trainedAt = time.Now()
	l.testMSE = report.TestMSE
	l.persistLocked()
	l.mu.Unlock()

	return report, nil
}

// Predict forecasts the next CPU load sample. A nil context samples the
// OS live.
func (l *Load) Predict(ctx *MetricContext) (*LoadPrediction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.trained {
		l.reloadLocked()
	}
	if !l.trained {
		return nil, &NotTrainedError{Kind: "load"}
	}

	var snapshot MetricContext
	if ctx != nil {
		snapshot = *ctx
	} else {
		snapshot = l.sampleContext()
	}

	now := time.Now()
	vec := l.scaler.TransformVector(feature.LoadPredictionVector(
		snapshot.CPUUsage,
		snapshot.MemoryUsage,
		snapshot.DiskUsage,
		snapshot.ActiveProcesses,
		now,
	))

	return &LoadPrediction{
		PredictedCPULoad: l.model.Predict(vec),
		CurrentCPULoad:   snapshot.CPUUsage,
		Timestamp:        now,
	}, nil
}

// sampleContext reads a live snapshot, degrading to zeros on sampling
// failures.
func (l *Load) sampleContext() MetricContext {
	var snapshot MetricContext
	var err error

	if snapshot.CPUUsage, err = l.sampler.CPUPercent(); err != nil {
		l.logger.Warn("cpu sample failed, predicting with zero", zap.Error(err))
	}
	if snapshot.MemoryUsage, err = l.sampler.MemoryPercent(); err != nil {
		l.logger.Warn("memory sample failed, predicting with zero", zap.Error(err))
	}
	if snapshot.DiskUsage, err = l.sampler.DiskPercent(); err != nil {
		l.logger.Warn("disk sample failed, predicting with zero", zap.Error(err))
	}
	if snapshot.ActiveProcesses, err = l.sampler.ProcessCount(); err != nil {
		l.logger.Warn("process count failed, predicting with zero", zap.Error(err))
	}
	return snapshot
}

// Trained reports whether a fitted model is available in memory.
func (l *Load) Trained() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trained
}

// Status returns the trained flag, last test MSE and trained-at time
// for statistics reporting.
func (l *Load) Status() (trained bool, testMSE float64, trainedAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trained, l.testMSE, l.trainedAt
}

func (l *Load) persistLocked() {
	bundle := loadBundle{
		Model:     l.model,
		Scaler:    l.scaler,
		IsTrained: l.trained,
		TrainedAt: l.trainedAt,
		TestMSE:   l.testMSE,
	}
	if err := writeBundle(l.bundlePath, &bundle); err != nil {
		l.logger.Warn("failed to persist load bundle", zap.Error(err))
	}
}

func (l *Load) reloadLocked() {
	var bundle loadBundle
	if err := readBundle(l.bundlePath, &bundle); err != nil {
		return
	}
	if !bundle.IsTrained || bundle.Model == nil || bundle.Scaler == nil {
		l.logger.Warn("ignoring incomplete load bundle", zap.String("path", l.bundlePath))
		return
	}

	l.model = bundle.Model
	l.scaler = bundle.Scaler
	l.trained = true
	l.trainedAt = bundle.TrainedAt
	l.testMSE = bundle.TestMSE
}
