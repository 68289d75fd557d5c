package predictor

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/ndkhanh/autopredict/internal/feature"
	"github.com/ndkhanh/autopredict/internal/store"
	"github.com/ndkhanh/autopredict/internal/sysmon"
)

// fakeStore is an in-memory Store for predictor tests.
type fakeStore struct {
	actions []store.ActionRecord
	metrics []store.MetricRecord
}

func (f *fakeStore) AppendAction(a store.ActionRecord) error {
	f.actions = append(f.actions, a)
	return nil
}

func (f *fakeStore) AppendMetric(m store.MetricRecord) error {
	f.metrics = append(f.metrics, m)
	return nil
}

func (f *fakeStore) Actions() []store.ActionRecord { return f.actions }
func (f *fakeStore) Metrics() []store.MetricRecord { return f.metrics }
func (f *fakeStore) Counts() (int, int)            { return len(f.actions), len(f.metrics) }
func (f *fakeStore) Load() error                   { return nil }
func (f *fakeStore) Save() error                   { return nil }
func (f *fakeStore) Trim(max int)                  {}
func (f *fakeStore) Close() error                  { return nil }

// patternedActions builds a history where the action type follows the
// hour of day, so the classifier has a real signal to learn.
func patternedActions(n int) []store.ActionRecord {
	types := []struct {
		actionType  string
		application string
		hour        int
		duration    float64
	}{
		{"app_launch", "chrome", 9, 2},
		{"click", "editor", 14, 1},
		{"file_open", "explorer", 20, 3},
	}

	actions := make([]store.ActionRecord, 0, n)
	for i := 0; i < n; i++ {
		p := types[i%len(types)]
		ts := time.Date(2025, 6, 2+i/len(types), p.hour, i%60, 0, 0, time.UTC)
		actions = append(actions, store.ActionRecord{
			Timestamp:   ts,
			ActionType:  p.actionType,
			Application: p.application,
			Duration:    p.duration,
			SystemLoad:  20 + float64(i%10),
			MemoryUsage: 50 + float64(i%5),
			CPUUsage:    20 + float64(i%10),
			TimeOfDay:   p.hour,
			DayOfWeek:   store.Weekday(ts),
			Success:     true,
		})
	}
	return actions
}

func newTestBehavior(t *testing.T, actions []store.ActionRecord) (*Behavior, *fakeStore) {
	t.Helper()
	fs := &fakeStore{actions: actions}
	path := filepath.Join(t.TempDir(), "user_behavior_model.json")
	return NewBehavior(fs, &sysmon.StaticSampler{CPU: 25, Memory: 52}, path, 42, nil), fs
}

func TestBehavior_TrainBelowThreshold(t *testing.T) {
	b, _ := newTestBehavior(t, patternedActions(49))

	_, err := b.Train(50)
	if err == nil {
		t.Fatal("expected training to fail below the sample threshold")
	}
	if !IsInsufficientData(err) {
		t.Fatalf("expected InsufficientDataError, got %T: %v", err, err)
	}
	if b.Trained() {
		t.Error("model must stay untrained after a refused training run")
	}

	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("error does not unwrap to InsufficientDataError: %v", err)
	}
	if ide.Need != 50 || ide.Have != 49 {
		t.Errorf("expected need=50 have=49, got need=%d have=%d", ide.Need, ide.Have)
	}
}

func TestBehavior_TrainAtThreshold(t *testing.T) {
	b, _ := newTestBehavior(t, patternedActions(50))

	report, err := b.Train(50)
	if err != nil {
		t.Fatalf("expected training to succeed at the threshold: %v", err)
	}
	if !b.Trained() {
		t.Fatal("model should report trained")
	}

	if report.SamplesUsed != 50 {
		t.Errorf("expected 50 samples used, got %d", report.SamplesUsed)
	}
	if report.TrainAccuracy < 0 || report.TrainAccuracy > 1 {
		t.Errorf("train accuracy out of range: %v", report.TrainAccuracy)
	}
	if report.TestAccuracy < 0 || report.TestAccuracy > 1 {
		t.Errorf("test accuracy out of range: %v", report.TestAccuracy)
	}
	if report.RunID == "" {
		t.Error("expected a non-empty run id")
	}

	// The hour-of-day pattern is easy; training accuracy should be high.
	if report.TrainAccuracy < 0.9 {
		t.Errorf("expected high training accuracy on patterned data, got %v", report.TrainAccuracy)
	}
}

func TestBehavior_PredictUntrained(t *testing.T) {
	b, _ := newTestBehavior(t, patternedActions(10))

	_, err := b.Predict(feature.DefaultContext())
	if err == nil {
		t.Fatal("expected prediction to fail without a trained model")
	}
	if !IsNotTrained(err) {
		t.Fatalf("expected NotTrainedError, got %T: %v", err, err)
	}
}

func TestBehavior_Predict(t *testing.T) {
	b, _ := newTestBehavior(t, patternedActions(60))

	if _, err := b.Train(50); err != nil {
		t.Fatalf("failed to train: %v", err)
	}

	ctx := feature.DefaultContext()
	ctx.Hour = 9
	ctx.DayOfWeek = 0
	ctx.Duration = 2

	pred, err := b.Predict(ctx)
	if err != nil {
		t.Fatalf("failed to predict: %v", err)
	}

	known := map[string]bool{"app_launch": true, "click": true, "file_open": true}
	if !known[pred.Predicted] {
		t.Errorf("predicted label %q outside the training label set", pred.Predicted)
	}
	if pred.Confidence <= 0 || pred.Confidence > 1 {
		t.Errorf("confidence out of range: %v", pred.Confidence)
	}

	var sum float64
	for label, p := range pred.Probabilities {
		if !known[label] {
			t.Errorf("probability for unknown label %q", label)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}
	if pred.Probabilities[pred.Predicted] != pred.Confidence {
		t.Error("confidence must equal the probability of the predicted label")
	}
}

func TestBehavior_TrainDeterministic(t *testing.T) {
	actions := patternedActions(60)
	b1, _ := newTestBehavior(t, actions)
	b2, _ := newTestBehavior(t, actions)

	r1, err := b1.Train(50)
	if err != nil {
		t.Fatalf("failed to train: %v", err)
	}
	r2, err := b2.Train(50)
	if err != nil {
		t.Fatalf("failed to train: %v", err)
	}

	if r1.TrainAccuracy != r2.TrainAccuracy || r1.TestAccuracy != r2.TestAccuracy {
		t.Errorf("identical history and seed produced different metrics: %+v vs %+v", r1, r2)
	}
	if r1.RunID == r2.RunID {
		t.Error("run ids must be unique per training run")
	}
}

func TestBehavior_BundleReload(t *testing.T) {
	fs := &fakeStore{actions: patternedActions(60)}
	path := filepath.Join(t.TempDir(), "user_behavior_model.json")
	sampler := &sysmon.StaticSampler{CPU: 25, Memory: 52}

	b1 := NewBehavior(fs, sampler, path, 42, nil)
	if _, err := b1.Train(50); err != nil {
		t.Fatalf("failed to train: %v", err)
	}
	want, err := b1.Predict(feature.Context{Hour: 9, Duration: 2})
	if err != nil {
		t.Fatalf("failed to predict: %v", err)
	}

	// A fresh instance restores the persisted bundle on first use.
	b2 := NewBehavior(fs, sampler, path, 42, nil)
	got, err := b2.Predict(feature.Context{Hour: 9, Duration: 2})
	if err != nil {
		t.Fatalf("failed to predict after reload: %v", err)
	}
	if !b2.Trained() {
		t.Error("reloaded model should report trained")
	}
	if got.Predicted != want.Predicted {
		t.Errorf("prediction changed after reload: %q != %q", got.Predicted, want.Predicted)
	}
	if math.Abs(got.Confidence-want.Confidence) > 1e-9 {
		t.Errorf("confidence changed after reload: %v != %v", got.Confidence, want.Confidence)
	}
}

func TestBehavior_SyntheticLabelMode(t *testing.T) {
	b, _ := newTestBehavior(t, patternedActions(60))
	b.SetLabelMode(LabelSynthetic)

	if _, err := b.Train(50); err != nil {
		t.Fatalf("failed to train with synthetic labels: %v", err)
	}

	pred, err := b.Predict(feature.DefaultContext())
	if err != nil {
		t.Fatalf("failed to predict: %v", err)
	}

	buckets := map[string]bool{
		feature.BucketHigh:   true,
		feature.BucketMedium: true,
		feature.BucketLow:    true,
	}
	if !buckets[pred.Predicted] {
		t.Errorf("synthetic mode predicted %q, want an activity bucket", pred.Predicted)
	}
}

func TestBehavior_DetectAnomalies(t *testing.T) {
	b, _ := newTestBehavior(t, patternedActions(60))

	// Untrained model scans to empty, never errors.
	if got := b.DetectAnomalies(0.5); len(got) != 0 {
		t.Fatalf("expected empty scan before training, got %d", len(got))
	}

	if _, err := b.Train(50); err != nil {
		t.Fatalf("failed to train: %v", err)
	}

	anomalies := b.DetectAnomalies(1.0)
	for i, a := range anomalies {
		if a.Score < 0 || a.Score > 1 {
			t.Errorf("anomaly %d score out of range: %v", i, a.Score)
		}
		if i > 0 && anomalies[i-1].Score < a.Score {
			t.Errorf("anomalies not sorted by score descending at %d", i)
		}
		if a.Reason == "" {
			t.Errorf("anomaly %d has no reason", i)
		}
	}

	// A strict threshold of 0 flags nothing.
	if got := b.DetectAnomalies(0); len(got) != 0 {
		t.Errorf("expected no anomalies at threshold 0, got %d", len(got))
	}
}
