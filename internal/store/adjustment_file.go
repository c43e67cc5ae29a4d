// Package store persists the adjustment history as a whole-collection JSON
// snapshot on disk. There is no incremental persistence: every save rewrites
// the full file. The ledger keeps the authoritative copy in memory; the file
// only needs to survive process restarts.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"javopos/internal/model"
)

// AdjustmentStore is the durable-store contract consumed by the ledger.
type AdjustmentStore interface {
	Load() ([]*model.AdjustmentRecord, error)
	Save(records []*model.AdjustmentRecord) error
}

// AdjustmentFile is the flat-file implementation.
type AdjustmentFile struct {
	path string
}

func NewAdjustmentFile(path string) *AdjustmentFile {
	return &AdjustmentFile{path: path}
}

// Load reads the full history from disk. A missing file is not an error —
// it returns an empty history (first run, or acceptable data loss after a
// wipe; the ledger restarts its ID counter in that case).
func (f *AdjustmentFile) Load() ([]*model.AdjustmentRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", f.path, err)
	}

	var records []*model.AdjustmentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", f.path, err)
	}
	return records, nil
}

// Save writes the full history atomically: marshal to a temp file in the same
// directory, then rename over the target. A crash mid-write never leaves a
// truncated file behind.
func (f *AdjustmentFile) Save(records []*model.AdjustmentRecord) error {
	if records == nil {
		records = []*model.AdjustmentRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("store: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".adjustments-*.json")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: rename %s: %w", f.path, err)
	}
	return nil
}
