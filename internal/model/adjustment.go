package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TemporalStatus is the lifecycle state of a temporal (time-windowed)
// adjustment: Scheduled → Active → Finished. There is no transition out of
// Finished. Permanent adjustments carry no status.
type TemporalStatus string

const (
	StatusScheduled TemporalStatus = "scheduled"
	StatusActive    TemporalStatus = "active"
	StatusFinished  TemporalStatus = "finished"
)

// AdjustmentRecord is one historical price-adjustment operation. Records are
// append-only: once created they are mutated only by temporal status
// transitions and by reversal, and are never deleted.
//
// Records live in the ledger's in-memory history and are persisted as a
// whole-collection JSON snapshot (see internal/store), not in Postgres —
// hence json tags instead of gorm tags.
type AdjustmentRecord struct {
	ID          int64           `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
	Percentage  decimal.Decimal `json:"percentage"`
	IsIncrease  bool            `json:"is_increase"`
	Description string          `json:"description"`
	Reason      string          `json:"reason,omitempty"`

	// Temporal-only fields; zero-valued on permanent adjustments.
	IsTemporary  bool           `json:"is_temporary"`
	StartTime    time.Time      `json:"start_time,omitzero"`
	EndTime      time.Time      `json:"end_time,omitzero"`
	TemporalKind string         `json:"temporal_kind,omitempty"`
	Status       TemporalStatus `json:"status,omitempty"`

	// Reversal is set-once: a record cannot be un-reverted.
	Reverted   bool       `json:"reverted"`
	RevertedAt *time.Time `json:"reverted_at,omitempty"`
	RevertedBy string     `json:"reverted_by,omitempty"`

	Details []AdjustmentDetail `json:"details"`
}

// AdjustmentDetail is one affected product within a record: the full
// before/after snapshot of its three price fields. For temporal adjustments
// the "after" values equal the "before" values until activation.
type AdjustmentDetail struct {
	ID              int64           `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"` // name at adjustment time
	CostBefore      decimal.Decimal `json:"cost_before"`
	CostAfter       decimal.Decimal `json:"cost_after"`
	CashPriceBefore decimal.Decimal `json:"cash_price_before"`
	CashPriceAfter  decimal.Decimal `json:"cash_price_after"`
	ListPriceBefore decimal.Decimal `json:"list_price_before"`
	ListPriceAfter  decimal.Decimal `json:"list_price_after"`
}

// Factor returns the multiplicative price factor 1 ± percentage/100.
func (r *AdjustmentRecord) Factor() decimal.Decimal {
	pct := r.Percentage.Div(decimal.NewFromInt(100))
	if r.IsIncrease {
		return decimal.NewFromInt(1).Add(pct)
	}
	return decimal.NewFromInt(1).Sub(pct)
}

// Overlaps reports whether the record's temporal window intersects [start, end].
// Windows are inclusive on both ends: touching boundaries count as overlap.
func (r *AdjustmentRecord) Overlaps(start, end time.Time) bool {
	return !start.After(r.EndTime) && !end.Before(r.StartTime)
}

// Clone returns a deep copy safe to hand out to readers while the original
// keeps being mutated under the ledger lock.
func (r *AdjustmentRecord) Clone() *AdjustmentRecord {
	cp := *r
	if r.RevertedAt != nil {
		at := *r.RevertedAt
		cp.RevertedAt = &at
	}
	cp.Details = make([]AdjustmentDetail, len(r.Details))
	copy(cp.Details, r.Details)
	return &cp
}
