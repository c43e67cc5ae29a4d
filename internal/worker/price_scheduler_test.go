package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"javopos/internal/ledger"
	"javopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type memProducts struct {
	products map[uuid.UUID]model.Product
}

func (s *memProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	cp := p
	return &cp, nil
}

func (s *memProducts) Update(_ context.Context, p *model.Product) error {
	s.products[p.ID] = *p
	return nil
}

var _ ledger.ProductStore = (*memProducts)(nil)

type memStore struct{}

func (memStore) Load() ([]*model.AdjustmentRecord, error) { return nil, nil }
func (memStore) Save([]*model.AdjustmentRecord) error     { return nil }

// buildLedgerWithWindow returns a ledger whose clock sits far enough in the
// past that the scheduled window is already due against the real wall clock.
func buildLedgerWithWindow(t *testing.T) (*ledger.Ledger, *memProducts, int64) {
	t.Helper()
	base := time.Now().Add(-48 * time.Hour)

	id := uuid.New()
	products := &memProducts{products: map[uuid.UUID]model.Product{
		id: {
			ID:        id,
			Name:      "TV",
			CostPrice: decimal.NewFromInt(1000),
			CashPrice: decimal.NewFromInt(1200),
			ListPrice: decimal.NewFromInt(1400),
		},
	}}

	l := ledger.New(ledger.Config{
		Products: products,
		Store:    memStore{},
		Clock:    func() time.Time { return base },
	})

	// Window opened 47h ago and closed 23h ago relative to the wall clock.
	recID, err := l.ScheduleTemporalAdjustment(context.Background(), ledger.ScheduleRequest{
		ProductIDs: []uuid.UUID{id},
		Percentage: decimal.NewFromInt(50),
		IsIncrease: false,
		StartTime:  base.Add(time.Hour),
		EndTime:    base.Add(25 * time.Hour),
		Kind:       "promotion",
		User:       "admin",
	})
	require.NoError(t, err)
	return l, products, recID
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestProcessDue_ActivatesThenFinalizes(t *testing.T) {
	l, products, recID := buildLedgerWithWindow(t)
	ctx := context.Background()

	// First pass: the scheduled window is due → activated.
	processDue(ctx, l)
	rec, err := l.Get(ctx, recID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, rec.Status)

	for _, p := range products.products {
		assert.Equal(t, "500", p.CostPrice.String())
	}

	// Second pass: the window has also closed → finalized, prices restored.
	processDue(ctx, l)
	rec, err = l.Get(ctx, recID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinished, rec.Status)
	assert.True(t, rec.Reverted)
	assert.Equal(t, SchedulerUser, rec.RevertedBy)

	for _, p := range products.products {
		assert.Equal(t, "1000", p.CostPrice.String())
	}
}

func TestProcessDue_EmptyLedgerIsNoop(t *testing.T) {
	l := ledger.New(ledger.Config{Products: &memProducts{}, Store: memStore{}})
	processDue(context.Background(), l) // must not panic or block
	assert.Empty(t, l.List(context.Background()))
}

func TestProcessDue_RevertedRecordIsSkipped(t *testing.T) {
	l, _, recID := buildLedgerWithWindow(t)
	ctx := context.Background()

	// Manually reverted before the scheduler ever ran: nothing left to do.
	require.NoError(t, l.ActivateTemporal(ctx, recID))
	require.NoError(t, l.RevertAdjustment(ctx, recID, "supervisor"))

	processDue(ctx, l)

	rec, err := l.Get(ctx, recID)
	require.NoError(t, err)
	assert.Equal(t, "supervisor", rec.RevertedBy)
}

func TestStartPriceScheduler_StopsOnContextCancel(t *testing.T) {
	l := ledger.New(ledger.Config{Products: &memProducts{}, Store: memStore{}})

	ctx, cancel := context.WithCancel(context.Background())
	StartPriceScheduler(ctx, SchedulerConfig{Ledger: l, Interval: 10 * time.Millisecond})

	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond) // goroutine exits without panic
}
