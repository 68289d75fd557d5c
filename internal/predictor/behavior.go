package predictor

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndkhanh/autopredict/internal/feature"
	"github.com/ndkhanh/autopredict/internal/ml"
	"github.com/ndkhanh/autopredict/internal/store"
	"github.com/ndkhanh/autopredict/internal/sysmon"
)

// DefaultBehaviorMinSamples is the default training threshold for the
// behavior classifier.
const DefaultBehaviorMinSamples = 50

// testFraction is the held-out share of the train/test split.
const testFraction = 0.2

// LabelMode selects how behavior training labels are built.
type LabelMode int

const (
	// LabelActionType trains on natural action-type labels. This is the
	// authoritative mode.
	LabelActionType LabelMode = iota

	// LabelSynthetic trains on high/medium/low activity buckets derived
	// from each record's intensity. Documented alternative, opt-in only.
	LabelSynthetic
)

// BehaviorReport is the result of a successful behavior training run.
type BehaviorReport struct {
	RunID         string  `json:"run_id"`
	TrainAccuracy float64 `json:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy"`
	SamplesUsed   int     `json:"samples_used"`
}

// BehaviorPrediction is the result of a behavior prediction.
type BehaviorPrediction struct {
	Predicted     string             `json:"predicted_behavior"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"all_probabilities"`
	Timestamp     time.Time          `json:"timestamp"`
}

// Anomaly flags a recorded action the trained model finds improbable.
type Anomaly struct {
	Timestamp   time.Time `json:"timestamp"`
	ActionType  string    `json:"action_type"`
	Application string    `json:"application"`
	Score       float64   `json:"anomaly_score"`
	Reason      string    `json:"reason"`
}

// behaviorBundle is the persisted unit for the behavior model kind.
type behaviorBundle struct {
	Model        *ml.RandomForest   `json:"model"`
	Scaler       *ml.StandardScaler `json:"scaler"`
	Encoder      *ml.LabelEncoder   `json:"label_encoder"`
	IsTrained    bool               `json:"is_trained"`
	TrainedAt    time.Time          `json:"trained_at"`
	TestAccuracy float64            `json:"test_accuracy"`
}

// Behavior is the classifier mapping activity features to a discrete
// action label with confidence. The label set is closed: labels unseen
// at training time can never be predicted.
type Behavior struct {
	store      store.Store
	sampler    sysmon.Sampler
	logger     *zap.Logger
	bundlePath string
	seed       int64
	labelMode  LabelMode

	mu           sync.Mutex
	model        *ml.RandomForest
	scaler       *ml.StandardScaler
	encoder      *ml.LabelEncoder
	trained      bool
	trainedAt    time.Time
	testAccuracy float64
}

// NewBehavior creates an untrained behavior model persisting its bundle
// at bundlePath.
func NewBehavior(s store.Store, sampler sysmon.Sampler, bundlePath string, seed int64, logger *zap.Logger) *Behavior {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Behavior{
		store:      s,
		sampler:    sampler,
		logger:     logger,
		bundlePath: bundlePath,
		seed:       seed,
	}
}

// SetLabelMode switches between natural and synthetic labels. Takes
// effect on the next Train call.
func (b *Behavior) SetLabelMode(mode LabelMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.labelMode = mode
}

// Train fits the classifier on the recorded action history. It blocks
// for the duration of the fit, proportional to history size.
// minSamples <= 0 uses the default threshold.
func (b *Behavior) Train(minSamples int) (*BehaviorReport, error) {
	if minSamples <= 0 {
		minSamples = DefaultBehaviorMinSamples
	}

	actions := b.store.Actions()
	if len(actions) < minSamples {
		return nil, &InsufficientDataError{Kind: "behavior", Need: minSamples, Have: len(actions)}
	}

	b.mu.Lock()
	mode := b.labelMode
	b.mu.Unlock()

	var features [][]float64
	var labels []string
	if mode == LabelSynthetic {
		features, labels = feature.SyntheticActionMatrix(actions)
	} else {
		features, labels = feature.ActionMatrix(actions)
	}
	if len(features) == 0 {
		return nil, &InsufficientDataError{Kind: "behavior", Need: minSamples, Have: 0}
	}

	encoder := &ml.LabelEncoder{}
	encoder.Fit(labels)
	encoded, err := encoder.EncodeAll(labels)
	if err != nil {
		return nil, err
	}

	trainIdx, testIdx := ml.SplitIndices(len(features), testFraction, b.seed)
	xTrain := ml.Gather(features, trainIdx)
	xTest := ml.Gather(features, testIdx)
	yTrain := ml.GatherInts(encoded, trainIdx)
	yTest := ml.GatherInts(encoded, testIdx)

	// Scaler parameters come from the training split only and are reused
	// unchanged at prediction time.
	scaler := &ml.StandardScaler{}
	if err := scaler.Fit(xTrain); err != nil {
		return nil, err
	}
	xTrain = scaler.Transform(xTrain)
	xTest = scaler.Transform(xTest)

	model := ml.NewRandomForest(b.seed)
	if err := model.Fit(xTrain, yTrain, encoder.NumClasses()); err != nil {
		return nil, err
	}

	report := &BehaviorReport{
		RunID:         uuid.NewString(),
		TrainAccuracy: ml.Accuracy(yTrain, model.PredictAll(xTrain)),
		TestAccuracy:  ml.Accuracy(yTest, model.PredictAll(xTest)),
		SamplesUsed:   len(features),
	}

	b.mu.Lock()
	b.model = model
	b.scaler = scaler
	b.encoder = encoder
	b.trained = true
	b.trainedAt = time.Now()
	b.testAccuracy = report.TestAccuracy
	b.persistLocked()
	b.mu.Unlock()

	return report, nil
}

// Predict classifies the most likely next action for the given context.
// The live CPU and memory readings fill the system features; hour,
// weekday and duration come from the context.
func (b *Behavior) Predict(ctx feature.Context) (*BehaviorPrediction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.trained {
		b.reloadLocked()
	}
	if !b.trained {
		return nil, &NotTrainedError{Kind: "behavior"}
	}

	cpu, err := b.sampler.CPUPercent()
	if err != nil {
		b.logger.Warn("cpu sample failed, predicting with zero", zap.Error(err))
		cpu = 0
	}
	memory, err := b.sampler.MemoryPercent()
	if err != nil {
		b.logger.Warn("memory sample failed, predicting with zero", zap.Error(err))
		memory = 0
	}

	vec := b.scaler.TransformVector(
		feature.PredictionVector(ctx.Hour, ctx.DayOfWeek, cpu, memory, ctx.Duration))
	proba := b.model.PredictProba(vec)

	best := 0
	for j, p := range proba {
		if p > proba[best] {
			best = j
		}
	}
	predicted, err := b.encoder.Decode(best)
	if err != nil {
		return nil, err
	}

	probabilities := make(map[string]float64, len(proba))
	for j, p := range proba {
		label, err := b.encoder.Decode(j)
		if err != nil {
			return nil, err
		}
		probabilities[label] = p
	}

	return &BehaviorPrediction{
		Predicted:     predicted,
		Confidence:    proba[best],
		Probabilities: probabilities,
		Timestamp:     time.Now(),
	}, nil
}

// anomalyWindow bounds the anomaly scan to the most recent actions.
const anomalyWindow = 100

// DetectAnomalies scans the most recent actions and flags those the
// trained model assigns a maximum class probability below threshold.
// Results are sorted by anomaly score descending. Without a trained
// model the scan is empty, never an error.
func (b *Behavior) DetectAnomalies(threshold float64) []Anomaly {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.trained {
		b.reloadLocked()
	}
	if !b.trained {
		return []Anomaly{}
	}

	actions := b.store.Actions()
	if len(actions) > anomalyWindow {
		actions = actions[len(actions)-anomalyWindow:]
	}

	anomalies := []Anomaly{}
	for _, a := range actions {
		vec := b.scaler.TransformVector(feature.ActionVector(a))
		proba := b.model.PredictProba(vec)

		maxP := 0.0
		for _, p := range proba {
			if p > maxP {
				maxP = p
			}
		}
		if maxP < threshold {
			anomalies = append(anomalies, Anomaly{
				Timestamp:   a.Timestamp,
				ActionType:  a.ActionType,
				Application: a.Application,
				Score:       1 - maxP,
				Reason:      "unusual behavior pattern",
			})
		}
	}

	sort.Slice(anomalies, func(i, j int) bool {
		return anomalies[i].Score > anomalies[j].Score
	})
	return anomalies
}

// Trained reports whether a fitted model is available in memory.
func (b *Behavior) Trained() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trained
}

// Status returns the trained flag, last test accuracy and trained-at
// time for statistics reporting.
func (b *Behavior) Status() (trained bool, testAccuracy float64, trainedAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trained, b.testAccuracy, b.trainedAt
}

// persistLocked writes the fitted bundle, logging and swallowing any
// failure: in-memory state stays authoritative.
func (b *Behavior) persistLocked() {
	bundle := behaviorBundle{
		Model:        b.model,
		Scaler:       b.scaler,
		Encoder:      b.encoder,
		IsTrained:    b.trained,
		TrainedAt:    b.trainedAt,
		TestAccuracy: b.testAccuracy,
	}
	if err := writeBundle(b.bundlePath, &bundle); err != nil {
		b.logger.Warn("failed to persist behavior bundle", zap.Error(err))
	}
}

// reloadLocked attempts to restore the last persisted bundle. The bundle
// is used all-or-nothing: a partial or untrained bundle leaves the model
// untrained.
func (b *Behavior) reloadLocked() {
	var bundle behaviorBundle
	if err := readBundle(b.bundlePath, &bundle); err != nil {
		return
	}
	if !bundle.IsTrained || bundle.Model == nil || bundle.Scaler == nil || bundle.Encoder == nil {
		b.logger.Warn("ignoring incomplete behavior bundle", zap.String("path", b.bundlePath))
		return
	}

	b.model = bundle.Model
	b.scaler = bundle.Scaler
	b.encoder = bundle.Encoder
	b.trained = true
	b.trainedAt = bundle.TrainedAt
	b.testAccuracy = bundle.TestAccuracy
}
