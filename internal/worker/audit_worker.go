package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"javopos/internal/ledger"
	"javopos/internal/model"
	"javopos/internal/repository"
)

// AuditWorker persists audit events dequeued from jobs:audit.
// One event becomes one immutable audit_entries row.
type AuditWorker struct {
	repo repository.AuditRepository
}

func NewAuditWorker(repo repository.AuditRepository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

func (w *AuditWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var ev ledger.AuditEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("audit worker: decode event: %w", err)
	}

	entry := &model.AuditEntry{
		Timestamp:   ev.Timestamp,
		PerformedBy: ev.User,
		EntityType:  ev.EntityType,
		Action:      ev.Action,
		PrimaryKey:  ev.PrimaryKey,
		Detail:      ev.Detail,
	}
	if err := w.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("audit worker: persist entry: %w", err)
	}
	return nil
}
