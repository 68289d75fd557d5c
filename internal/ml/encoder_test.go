package ml

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestLabelEncoder_FitEncodeDecode(t *testing.T) {
	var e LabelEncoder
	e.Fit([]string{"click", "app_launch", "click", "file_open"})

	if e.NumClasses() != 3 {
		t.Fatalf("expected 3 classes, got %d", e.NumClasses())
	}

	// Classes are sorted, so codes are stable regardless of input order.
	code, err := e.Encode("app_launch")
	if err != nil || code != 0 {
		t.Errorf("expected app_launch to encode to 0, got %d (%v)", code, err)
	}

	label, err := e.Decode(1)
	if err != nil || label != "click" {
		t.Errorf("expected code 1 to decode to click, got %q (%v)", label, err)
	}
}

func TestLabelEncoder_UnknownLabel(t *testing.T) {
	var e LabelEncoder
	e.Fit([]string{"a", "b"})

	if _, err := e.Encode("c"); err == nil {
		t.Error("expected error for unknown label")
	}
	if _, err := e.Decode(5); err == nil {
		t.Error("expected error for out-of-range code")
	}
}

func TestLabelEncoder_EncodeAll(t *testing.T) {
	var e LabelEncoder
	e.Fit([]string{"x", "y", "z"})

	codes, err := e.EncodeAll([]string{"z", "x", "y"})
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	want := []int{2, 0, 1}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("code %d: got %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestLabelEncoder_JSONReload(t *testing.T) {
	var e LabelEncoder
	e.Fit([]string{"open", "close"})

	data, err := json.Marshal(&e)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	// Only Classes survives serialization; the lookup map must rebuild.
	var restored LabelEncoder
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	code, err := restored.Encode("open")
	if err != nil {
		t.Fatalf("failed to encode after reload: %v", err)
	}
	wantCode, _ := e.Encode("open")
	if code != wantCode {
		t.Errorf("code changed after reload: %d != %d", code, wantCode)
	}
}
