package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"javopos/internal/model"

	"github.com/google/uuid"
)

// Sentinel errors. Callers match with errors.Is; the handler layer maps them
// to HTTP statuses.
var (
	ErrRecordNotFound    = errors.New("adjustment record not found")
	ErrNotTemporal       = errors.New("adjustment is not temporal")
	ErrAlreadyReverted   = errors.New("adjustment already reverted")
	ErrNoProducts        = errors.New("no products given")
	ErrInvalidPercentage = errors.New("percentage must be greater than zero")
	ErrInvalidWindow     = errors.New("start time must be before end time")
)

func notFound(id int64) error {
	return fmt.Errorf("%w: %d", ErrRecordNotFound, id)
}

func notTemporal(id int64) error {
	return fmt.Errorf("%w: record %d", ErrNotTemporal, id)
}

func alreadyReverted(id int64) error {
	return fmt.Errorf("%w: record %d", ErrAlreadyReverted, id)
}

// StatusError is an invalid-operation failure: the record is not in the
// status the requested transition demands.
type StatusError struct {
	RecordID int64
	Op       string // "activate" | "finalize"
	Want     model.TemporalStatus
	Got      model.TemporalStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot %s adjustment %d: status is %q, want %q",
		e.Op, e.RecordID, e.Got, e.Want)
}

// ProductConflict names one product shared with overlapping temporal windows
// and the record IDs it collides with.
type ProductConflict struct {
	ProductID   uuid.UUID
	ProductName string
	RecordIDs   []int64
}

// ConflictError aborts ScheduleTemporalAdjustment before any work happens.
// It enumerates every conflicting product so the caller can resolve all
// collisions at once instead of one per attempt.
type ConflictError struct {
	Conflicts []ProductConflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids := make([]string, len(c.RecordIDs))
		for i, id := range c.RecordIDs {
			ids[i] = fmt.Sprint(id)
		}
		parts = append(parts, fmt.Sprintf("product %s (records %s)", c.ProductID, strings.Join(ids, ", ")))
	}
	return "temporal window overlaps existing adjustments: " + strings.Join(parts, "; ")
}

// sortConflicts gives the error a deterministic order for tests and logs.
func sortConflicts(conflicts []ProductConflict) {
	for i := range conflicts {
		sort.Slice(conflicts[i].RecordIDs, func(a, b int) bool {
			return conflicts[i].RecordIDs[a] < conflicts[i].RecordIDs[b]
		})
	}
	sort.Slice(conflicts, func(a, b int) bool {
		return conflicts[a].ProductID.String() < conflicts[b].ProductID.String()
	})
}
