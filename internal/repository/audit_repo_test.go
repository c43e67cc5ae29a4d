package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"javopos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAuditEntries(t *testing.T, repo AuditRepository, n int) {
	t.Helper()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Create(context.Background(), &model.AuditEntry{
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
			PerformedBy: "admin",
			EntityType:  "price_adjustment",
			Action:      "applied",
			PrimaryKey:  fmt.Sprint(i + 1),
		}))
	}
}

func TestAuditRepo_ListNewestFirst(t *testing.T) {
	repo := NewAuditRepository(newTestDB(t))
	seedAuditEntries(t, repo, 3)

	rows, total, err := repo.List(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 3)
	assert.Equal(t, "3", rows[0].PrimaryKey)
	assert.Equal(t, "1", rows[2].PrimaryKey)
}

func TestAuditRepo_Pagination(t *testing.T) {
	repo := NewAuditRepository(newTestDB(t))
	seedAuditEntries(t, repo, 5)

	rows, total, err := repo.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, rows, 2)
	// newest first: page 1 = entries 5,4 → page 2 = entries 3,2
	assert.Equal(t, "3", rows[0].PrimaryKey)
	assert.Equal(t, "2", rows[1].PrimaryKey)
}

func TestAuditRepo_LimitClamped(t *testing.T) {
	repo := NewAuditRepository(newTestDB(t))
	seedAuditEntries(t, repo, 2)

	// Out-of-range page and limit fall back to defaults
	rows, total, err := repo.List(context.Background(), 0, 9999)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)
}
