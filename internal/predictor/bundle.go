package predictor

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// writeBundle persists a fitted-model bundle atomically: estimator,
// scaler, encoder and trained flag are one unit, written via temp file
// and rename so a crash mid-write leaves the previous bundle intact.
func writeBundle(path string, bundle any) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create bundle directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".bundle-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp bundle: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close bundle: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace bundle: %w", err)
	}
	return nil
}

// readBundle loads a bundle into dst. A missing file returns
// os.ErrNotExist; the caller decides whether that matters.
func readBundle(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode bundle: %w", err)
	}
	return nil
}
