package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"javopos/internal/model"
)

// Read-only query surface. Every method clones under the lock so callers can
// never observe a record mid-mutation.

// List returns the full history, newest first.
func (l *Ledger) List(ctx context.Context) []*model.AdjustmentRecord {
	l.mu.Lock()
	out := l.snapshotLocked()
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// Get returns one record by ID.
func (l *Ledger) Get(ctx context.Context, recordID int64) (*model.AdjustmentRecord, error) {
	l.mu.Lock()
	rec := l.findLocked(recordID)
	if rec == nil {
		l.mu.Unlock()
		return nil, notFound(recordID)
	}
	out := rec.Clone()
	l.mu.Unlock()
	return out, nil
}

// ListPendingTemporal returns temporal records that are scheduled or active
// and not reverted, ordered by start time ascending.
func (l *Ledger) ListPendingTemporal(ctx context.Context) []*model.AdjustmentRecord {
	l.mu.Lock()
	var out []*model.AdjustmentRecord
	for _, r := range l.records {
		if !r.IsTemporary || r.Reverted {
			continue
		}
		if r.Status != model.StatusScheduled && r.Status != model.StatusActive {
			continue
		}
		out = append(out, r.Clone())
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// ListTemporalByStatus returns temporal records in the given status, ordered
// by start time descending.
func (l *Ledger) ListTemporalByStatus(ctx context.Context, status model.TemporalStatus) ([]*model.AdjustmentRecord, error) {
	switch status {
	case model.StatusScheduled, model.StatusActive, model.StatusFinished:
	default:
		return nil, fmt.Errorf("unknown temporal status %q", status)
	}

	l.mu.Lock()
	var out []*model.AdjustmentRecord
	for _, r := range l.records {
		if r.IsTemporary && r.Status == status {
			out = append(out, r.Clone())
		}
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

// DueForActivation returns the IDs of scheduled records whose window has
// opened at the given instant. Used by the temporal scheduler.
func (l *Ledger) DueForActivation(now time.Time) []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var ids []int64
	for _, r := range l.records {
		if r.IsTemporary && !r.Reverted && r.Status == model.StatusScheduled && !r.StartTime.After(now) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// DueForFinalization returns the IDs of active records whose window has
// closed at the given instant.
func (l *Ledger) DueForFinalization(now time.Time) []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var ids []int64
	for _, r := range l.records {
		if r.IsTemporary && !r.Reverted && r.Status == model.StatusActive && !r.EndTime.After(now) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
