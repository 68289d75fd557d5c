package ml

import (
	"fmt"
	"sort"
)

// LabelEncoder maps categorical string labels to dense integer codes and
// back. The label set is closed: labels unseen at fit time cannot be
// encoded, and model output always decodes to a known label.
type LabelEncoder struct {
	Classes []string `json:"classes"`

	index map[string]int
}

// Fit learns the label set. Classes are sorted so the encoding is
// independent of input order.
func (e *LabelEncoder) Fit(labels []string) {
	seen := make(map[string]struct{}, len(labels))
	e.Classes = e.Classes[:0]
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			e.Classes = append(e.Classes, l)
		}
	}
	sort.Strings(e.Classes)
	e.buildIndex()
}

// Encode returns the code for a known label.
func (e *LabelEncoder) Encode(label string) (int, error) {
	e.ensureIndex()
	code, ok := e.index[label]
	if !ok {
		return 0, fmt.Errorf("unknown label %q", label)
	}
	return code, nil
}

// EncodeAll encodes a label slice fitted by this encoder.
func (e *LabelEncoder) EncodeAll(labels []string) ([]int, error) {
	codes := make([]int, len(labels))
	for i, l := range labels {
		code, err := e.Encode(l)
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}

// Decode returns the label for a code.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("label code %d out of range", code)
	}
	return e.Classes[code], nil
}

// NumClasses returns the size of the label set.
func (e *LabelEncoder) NumClasses() int {
	return len(e.Classes)
}

// buildIndex rebuilds the label lookup map from Classes.
func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.index[c] = i
	}
}

// ensureIndex restores the lookup map after a JSON reload, where only
// Classes survives serialization.
func (e *LabelEncoder) ensureIndex() {
	if e.index == nil && len(e.Classes) > 0 {
		e.buildIndex()
	}
}
