package ledger

import (
	"context"
	"fmt"
	"time"

	"javopos/internal/model"
)

// Audit actions emitted by the ledger.
const (
	ActionApplied   = "applied"
	ActionScheduled = "scheduled"
	ActionActivated = "activated"
	ActionFinished  = "finished"
	ActionReverted  = "reverted"
)

// EntityPriceAdjustment is the entity type stamped on every ledger event.
const EntityPriceAdjustment = "price_adjustment"

// AuditEvent is the fire-and-forget notification emitted after a state
// transition has committed. Delivery is best-effort: a publish failure is
// logged and never fails the operation that produced it.
type AuditEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	User       string    `json:"user"`
	EntityType string    `json:"entity_type"`
	Action     string    `json:"action"`
	PrimaryKey string    `json:"primary_key"`
	Detail     string    `json:"detail"`
}

// Publisher delivers audit events to whatever sink is wired in
// (in production: the redis job queue consumed by the worker pool).
type Publisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

func recordKey(id int64) string { return fmt.Sprint(id) }

func describeRecord(r *model.AdjustmentRecord) string {
	dir := "decrease"
	if r.IsIncrease {
		dir = "increase"
	}
	if r.IsTemporary {
		return fmt.Sprintf("%s %s%% on %d product(s), window %s – %s",
			dir, r.Percentage, len(r.Details),
			r.StartTime.Format("2006-01-02 15:04"), r.EndTime.Format("2006-01-02 15:04"))
	}
	return fmt.Sprintf("%s %s%% on %d product(s)", dir, r.Percentage, len(r.Details))
}

func describeWindow(recordID int64, products int) string {
	return fmt.Sprintf("record %d, %d product(s) updated", recordID, products)
}
