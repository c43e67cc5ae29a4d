// Package ledger owns the historical record of price adjustments — permanent
// and temporal — and applies or reverts price mutations through the product
// repository. History is append-only and kept in memory; every mutation is
// followed by a whole-collection snapshot write to the durable store.
//
// Locking discipline: the single mutex guards only the in-memory list and the
// ID counters. It is never held across a product-repository call or a durable
// write; those operate on snapshots taken while holding the lock. Guard
// check-then-set sequences (reverted flag, status transitions) execute inside
// one critical section so two racing callers cannot both pass the same guard.
package ledger

import (
	"context"
	"sync"
	"time"

	"javopos/internal/model"
	"javopos/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProductStore is the slice of the product repository the ledger needs.
type ProductStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
}

// Config holds all ledger dependencies.
type Config struct {
	Products ProductStore
	Store    store.AdjustmentStore
	// Publisher receives fire-and-forget audit events; may be nil.
	Publisher Publisher
	// OnPersistFailure is invoked after a swallowed durable-write error,
	// in addition to logging. May be nil. Tests assert on it.
	OnPersistFailure func(error)
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Ledger is the price-adjustment state machine. Safe for concurrent use.
type Ledger struct {
	mu           sync.Mutex
	records      []*model.AdjustmentRecord
	nextRecordID int64
	nextDetailID int64

	products  ProductStore
	store     store.AdjustmentStore
	publisher Publisher
	onPersist func(error)
	now       func() time.Time
}

// New builds a ledger, loading existing history from the durable store.
// A load failure falls back to an empty history with the ID counter reset
// to 1 — accepted data-loss behavior, logged loudly.
func New(cfg Config) *Ledger {
	l := &Ledger{
		products:  cfg.Products,
		store:     cfg.Store,
		publisher: cfg.Publisher,
		onPersist: cfg.OnPersistFailure,
		now:       cfg.Clock,
	}
	if l.now == nil {
		l.now = time.Now
	}

	records, err := cfg.Store.Load()
	if err != nil {
		log.Error().Err(err).Msg("ledger: failed to load history, starting empty")
		records = nil
	}
	l.records = records
	l.nextRecordID = 1
	l.nextDetailID = 1
	for _, r := range records {
		if r.ID >= l.nextRecordID {
			l.nextRecordID = r.ID + 1
		}
		for _, d := range r.Details {
			if d.ID >= l.nextDetailID {
				l.nextDetailID = d.ID + 1
			}
		}
	}

	log.Info().Int("records", len(l.records)).Msg("ledger: history loaded")
	return l
}

// ─── Requests ────────────────────────────────────────────────────────────────

// ApplyRequest creates a permanent adjustment applied immediately.
type ApplyRequest struct {
	ProductIDs  []uuid.UUID
	Percentage  decimal.Decimal
	IsIncrease  bool
	Description string
	Reason      string
	User        string
}

// ScheduleRequest creates a temporal adjustment with an activation window.
type ScheduleRequest struct {
	ProductIDs  []uuid.UUID
	Percentage  decimal.Decimal
	IsIncrease  bool
	StartTime   time.Time
	EndTime     time.Time
	Kind        string
	Description string
	Reason      string
	User        string
}

// ─── ApplyAdjustment ─────────────────────────────────────────────────────────

// ApplyAdjustment multiplies the three price fields of every resolvable
// product by 1 ± percentage/100, persists the new prices, and appends one
// immutable record with per-product before/after snapshots. Unknown product
// IDs are skipped with a warning. Returns the new record's ID.
func (l *Ledger) ApplyAdjustment(ctx context.Context, req ApplyRequest) (int64, error) {
	if len(req.ProductIDs) == 0 {
		return 0, ErrNoProducts
	}
	if !req.Percentage.IsPositive() {
		return 0, ErrInvalidPercentage
	}

	f := factor(req.Percentage, req.IsIncrease)
	details := l.mutateProducts(ctx, req.ProductIDs, f)

	rec := &model.AdjustmentRecord{
		CreatedAt:   l.now(),
		CreatedBy:   req.User,
		Percentage:  req.Percentage,
		IsIncrease:  req.IsIncrease,
		Description: req.Description,
		Reason:      req.Reason,
		Details:     details,
	}

	l.mu.Lock()
	l.appendLocked(rec)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persist(snapshot)
	l.publish(ctx, AuditEvent{
		Timestamp:  rec.CreatedAt,
		User:       req.User,
		EntityType: EntityPriceAdjustment,
		Action:     ActionApplied,
		PrimaryKey: recordKey(rec.ID),
		Detail:     describeRecord(rec),
	})
	return rec.ID, nil
}

// mutateProducts applies the factor to each resolvable product, persists the
// new prices, and returns one detail row per affected product. Per-product
// failures degrade to skip-and-warn; there is no rollback of already-applied
// products.
func (l *Ledger) mutateProducts(ctx context.Context, ids []uuid.UUID, f decimal.Decimal) []model.AdjustmentDetail {
	details := make([]model.AdjustmentDetail, 0, len(ids))
	for _, id := range ids {
		p, err := l.products.FindByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("product_id", id.String()).Msg("ledger: product not found, skipping")
			continue
		}

		d := model.AdjustmentDetail{
			ProductID:       p.ID,
			ProductName:     p.Name,
			CostBefore:      p.CostPrice,
			CashPriceBefore: p.CashPrice,
			ListPriceBefore: p.ListPrice,
		}
		d.CostAfter = p.CostPrice.Mul(f).Round(2)
		d.CashPriceAfter = p.CashPrice.Mul(f).Round(2)
		d.ListPriceAfter = p.ListPrice.Mul(f).Round(2)

		p.CostPrice = d.CostAfter
		p.CashPrice = d.CashPriceAfter
		p.ListPrice = d.ListPriceAfter
		if err := l.products.Update(ctx, p); err != nil {
			log.Warn().Err(err).Str("product_id", id.String()).Msg("ledger: price update failed, skipping")
			continue
		}
		details = append(details, d)
	}
	return details
}

// ─── ScheduleTemporalAdjustment ──────────────────────────────────────────────

// ScheduleTemporalAdjustment creates a temporal record in Scheduled status.
// Times are truncated to minute precision before anything else. The whole
// operation fails with a ConflictError when any requested product already
// belongs to a scheduled or active window that overlaps the requested one —
// no partial application. If the (truncated) start time has already elapsed,
// activation happens synchronously as part of this call.
func (l *Ledger) ScheduleTemporalAdjustment(ctx context.Context, req ScheduleRequest) (int64, error) {
	if len(req.ProductIDs) == 0 {
		return 0, ErrNoProducts
	}
	if !req.Percentage.IsPositive() {
		return 0, ErrInvalidPercentage
	}

	start := req.StartTime.Truncate(time.Minute)
	end := req.EndTime.Truncate(time.Minute)
	if !start.Before(end) {
		return 0, ErrInvalidWindow
	}

	// Detail rows snapshot current prices; "after" stays equal to "before"
	// until activation. No price mutation here.
	details := make([]model.AdjustmentDetail, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		p, err := l.products.FindByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("product_id", id.String()).Msg("ledger: product not found, skipping")
			continue
		}
		details = append(details, model.AdjustmentDetail{
			ProductID:       p.ID,
			ProductName:     p.Name,
			CostBefore:      p.CostPrice,
			CostAfter:       p.CostPrice,
			CashPriceBefore: p.CashPrice,
			CashPriceAfter:  p.CashPrice,
			ListPriceBefore: p.ListPrice,
			ListPriceAfter:  p.ListPrice,
		})
	}

	rec := &model.AdjustmentRecord{
		CreatedAt:    l.now(),
		CreatedBy:    req.User,
		Percentage:   req.Percentage,
		IsIncrease:   req.IsIncrease,
		Description:  req.Description,
		Reason:       req.Reason,
		IsTemporary:  true,
		StartTime:    start,
		EndTime:      end,
		TemporalKind: req.Kind,
		Status:       model.StatusScheduled,
		Details:      details,
	}

	// Conflict check and append share one critical section: a concurrent
	// scheduler cannot slip a colliding record in between.
	l.mu.Lock()
	if conflicts := l.findConflictsLocked(req.ProductIDs, start, end); len(conflicts) > 0 {
		l.mu.Unlock()
		return 0, &ConflictError{Conflicts: conflicts}
	}
	l.appendLocked(rec)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persist(snapshot)
	l.publish(ctx, AuditEvent{
		Timestamp:  rec.CreatedAt,
		User:       req.User,
		EntityType: EntityPriceAdjustment,
		Action:     ActionScheduled,
		PrimaryKey: recordKey(rec.ID),
		Detail:     describeRecord(rec),
	})

	if !start.After(l.now()) {
		if err := l.ActivateTemporal(ctx, rec.ID); err != nil {
			log.Error().Err(err).Int64("record_id", rec.ID).Msg("ledger: immediate activation failed")
		}
	}
	return rec.ID, nil
}

// findConflictsLocked collects every product in ids that also appears in a
// live (scheduled or active, not reverted) temporal record whose window
// intersects [start, end]. Caller holds l.mu.
func (l *Ledger) findConflictsLocked(ids []uuid.UUID, start, end time.Time) []ProductConflict {
	requested := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	byProduct := make(map[uuid.UUID]*ProductConflict)
	for _, r := range l.records {
		if !r.IsTemporary || r.Reverted {
			continue
		}
		if r.Status != model.StatusScheduled && r.Status != model.StatusActive {
			continue
		}
		if !r.Overlaps(start, end) {
			continue
		}
		for _, d := range r.Details {
			if !requested[d.ProductID] {
				continue
			}
			c, ok := byProduct[d.ProductID]
			if !ok {
				c = &ProductConflict{ProductID: d.ProductID, ProductName: d.ProductName}
				byProduct[d.ProductID] = c
			}
			c.RecordIDs = append(c.RecordIDs, r.ID)
		}
	}

	conflicts := make([]ProductConflict, 0, len(byProduct))
	for _, c := range byProduct {
		conflicts = append(conflicts, *c)
	}
	sortConflicts(conflicts)
	return conflicts
}

// ─── ActivateTemporal ────────────────────────────────────────────────────────

// ActivateTemporal transitions a Scheduled record to Active and applies its
// factor to the current prices of each detail's product, refreshing the
// "after" snapshots. The status claim happens inside the guard's critical
// section, before any repository I/O.
func (l *Ledger) ActivateTemporal(ctx context.Context, recordID int64) error {
	l.mu.Lock()
	rec := l.findLocked(recordID)
	if rec == nil {
		l.mu.Unlock()
		return notFound(recordID)
	}
	if !rec.IsTemporary {
		l.mu.Unlock()
		return notTemporal(recordID)
	}
	if rec.Reverted {
		l.mu.Unlock()
		return alreadyReverted(recordID)
	}
	if rec.Status != model.StatusScheduled {
		got := rec.Status
		l.mu.Unlock()
		return &StatusError{RecordID: recordID, Op: "activate", Want: model.StatusScheduled, Got: got}
	}
	rec.Status = model.StatusActive

	f := rec.Factor()
	targets := make([]uuid.UUID, len(rec.Details))
	for i, d := range rec.Details {
		targets[i] = d.ProductID
	}
	user := rec.CreatedBy
	l.mu.Unlock()

	// Recompute from current product state; a product that disappeared since
	// scheduling is skipped with a warning and processing continues.
	type applied struct {
		idx              int
		cost, cash, list decimal.Decimal
	}
	var done []applied
	for i, id := range targets {
		p, err := l.products.FindByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("product_id", id.String()).Int64("record_id", recordID).
				Msg("ledger: product lookup failed during activation, skipping")
			continue
		}
		a := applied{
			idx:  i,
			cost: p.CostPrice.Mul(f).Round(2),
			cash: p.CashPrice.Mul(f).Round(2),
			list: p.ListPrice.Mul(f).Round(2),
		}
		p.CostPrice = a.cost
		p.CashPrice = a.cash
		p.ListPrice = a.list
		if err := l.products.Update(ctx, p); err != nil {
			log.Warn().Err(err).Str("product_id", id.String()).Int64("record_id", recordID).
				Msg("ledger: price update failed during activation, skipping")
			continue
		}
		done = append(done, a)
	}

	l.mu.Lock()
	for _, a := range done {
		rec.Details[a.idx].CostAfter = a.cost
		rec.Details[a.idx].CashPriceAfter = a.cash
		rec.Details[a.idx].ListPriceAfter = a.list
	}
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persist(snapshot)
	l.publish(ctx, AuditEvent{
		Timestamp:  l.now(),
		User:       user,
		EntityType: EntityPriceAdjustment,
		Action:     ActionActivated,
		PrimaryKey: recordKey(recordID),
		Detail:     describeWindow(recordID, len(done)),
	})
	return nil
}

// ─── FinalizeTemporal / RevertAdjustment ─────────────────────────────────────

// FinalizeTemporal ends an Active temporal record through the same revert
// path as manual reversal: prices return to the detail's "before" snapshot,
// the record becomes reverted and its status Finished.
func (l *Ledger) FinalizeTemporal(ctx context.Context, recordID int64, user string) error {
	l.mu.Lock()
	rec := l.findLocked(recordID)
	if rec == nil {
		l.mu.Unlock()
		return notFound(recordID)
	}
	if !rec.IsTemporary {
		l.mu.Unlock()
		return notTemporal(recordID)
	}
	if rec.Reverted {
		l.mu.Unlock()
		return alreadyReverted(recordID)
	}
	if rec.Status != model.StatusActive {
		got := rec.Status
		l.mu.Unlock()
		return &StatusError{RecordID: recordID, Op: "finalize", Want: model.StatusActive, Got: got}
	}
	restores := l.revertLocked(rec, user)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.restorePrices(ctx, recordID, restores)
	l.persist(snapshot)
	l.publish(ctx, AuditEvent{
		Timestamp:  l.now(),
		User:       user,
		EntityType: EntityPriceAdjustment,
		Action:     ActionFinished,
		PrimaryKey: recordKey(recordID),
		Detail:     describeWindow(recordID, len(restores)),
	})
	return nil
}

// RevertAdjustment restores every affected product's three price fields to
// their pre-adjustment snapshot and marks the record reverted. Reversal is
// unconditional beyond "not already reverted" and is irreversible.
func (l *Ledger) RevertAdjustment(ctx context.Context, recordID int64, user string) error {
	l.mu.Lock()
	rec := l.findLocked(recordID)
	if rec == nil {
		l.mu.Unlock()
		return notFound(recordID)
	}
	if rec.Reverted {
		l.mu.Unlock()
		return alreadyReverted(recordID)
	}
	restores := l.revertLocked(rec, user)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.restorePrices(ctx, recordID, restores)
	l.persist(snapshot)
	l.publish(ctx, AuditEvent{
		Timestamp:  l.now(),
		User:       user,
		EntityType: EntityPriceAdjustment,
		Action:     ActionReverted,
		PrimaryKey: recordKey(recordID),
		Detail:     describeRecord(rec),
	})
	return nil
}

// restoreTarget carries one product's "before" prices out of the lock.
type restoreTarget struct {
	productID        uuid.UUID
	cost, cash, list decimal.Decimal
}

// revertLocked claims the terminal state — reverted flag, timestamps, and for
// temporal records Finished status — and returns the price restores to apply.
// Claiming before the repository I/O is what makes the guard atomic: a racing
// finalize/revert on the same record fails ErrAlreadyReverted instead of
// double-restoring. Caller holds l.mu.
func (l *Ledger) revertLocked(rec *model.AdjustmentRecord, user string) []restoreTarget {
	now := l.now()
	rec.Reverted = true
	rec.RevertedAt = &now
	rec.RevertedBy = user
	if rec.IsTemporary {
		rec.Status = model.StatusFinished
	}

	restores := make([]restoreTarget, len(rec.Details))
	for i, d := range rec.Details {
		restores[i] = restoreTarget{
			productID: d.ProductID,
			cost:      d.CostBefore,
			cash:      d.CashPriceBefore,
			list:      d.ListPriceBefore,
		}
	}
	return restores
}

func (l *Ledger) restorePrices(ctx context.Context, recordID int64, restores []restoreTarget) {
	for _, r := range restores {
		p, err := l.products.FindByID(ctx, r.productID)
		if err != nil {
			log.Warn().Err(err).Str("product_id", r.productID.String()).Int64("record_id", recordID).
				Msg("ledger: product lookup failed during revert, skipping")
			continue
		}
		p.CostPrice = r.cost
		p.CashPrice = r.cash
		p.ListPrice = r.list
		if err := l.products.Update(ctx, p); err != nil {
			log.Warn().Err(err).Str("product_id", r.productID.String()).Int64("record_id", recordID).
				Msg("ledger: price restore failed, skipping")
		}
	}
}

// ─── Internals ───────────────────────────────────────────────────────────────

// appendLocked assigns record and detail IDs from the shared counters and
// appends to history. IDs are monotonic and never reused. Caller holds l.mu.
func (l *Ledger) appendLocked(rec *model.AdjustmentRecord) {
	rec.ID = l.nextRecordID
	l.nextRecordID++
	for i := range rec.Details {
		rec.Details[i].ID = l.nextDetailID
		l.nextDetailID++
	}
	l.records = append(l.records, rec)
}

func (l *Ledger) findLocked(id int64) *model.AdjustmentRecord {
	for _, r := range l.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// snapshotLocked deep-copies the full history for use outside the lock.
func (l *Ledger) snapshotLocked() []*model.AdjustmentRecord {
	cp := make([]*model.AdjustmentRecord, len(l.records))
	for i, r := range l.records {
		cp[i] = r.Clone()
	}
	return cp
}

// persist writes the snapshot to the durable store. Failures are logged and
// swallowed: in-memory state stays authoritative and the durable copy catches
// up on the next successful save.
func (l *Ledger) persist(snapshot []*model.AdjustmentRecord) {
	if err := l.store.Save(snapshot); err != nil {
		log.Error().Err(err).Msg("ledger: durable write failed, in-memory state ahead of disk")
		if l.onPersist != nil {
			l.onPersist(err)
		}
	}
}

func (l *Ledger) publish(ctx context.Context, ev AuditEvent) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("action", ev.Action).Msg("ledger: audit publish failed")
	}
}

func factor(pct decimal.Decimal, increase bool) decimal.Decimal {
	p := pct.Div(decimal.NewFromInt(100))
	if increase {
		return decimal.NewFromInt(1).Add(p)
	}
	return decimal.NewFromInt(1).Sub(p)
}
