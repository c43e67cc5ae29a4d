package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"javopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []*model.AdjustmentRecord {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return []*model.AdjustmentRecord{
		{
			ID:         1,
			CreatedAt:  now,
			CreatedBy:  "admin",
			Percentage: decimal.NewFromInt(10),
			IsIncrease: true,
			Details: []model.AdjustmentDetail{
				{
					ID:              1,
					ProductID:       uuid.New(),
					ProductName:     "Fridge",
					CostBefore:      decimal.NewFromInt(100),
					CostAfter:       decimal.NewFromInt(110),
					CashPriceBefore: decimal.NewFromInt(120),
					CashPriceAfter:  decimal.NewFromInt(132),
					ListPriceBefore: decimal.NewFromInt(150),
					ListPriceAfter:  decimal.NewFromInt(165),
				},
			},
		},
		{
			ID:           2,
			CreatedAt:    now,
			CreatedBy:    "admin",
			Percentage:   decimal.NewFromInt(20),
			IsTemporary:  true,
			StartTime:    now.Add(time.Hour),
			EndTime:      now.Add(24 * time.Hour),
			TemporalKind: "promotion",
			Status:       model.StatusScheduled,
		},
	}
}

func TestAdjustmentFile_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adjustments.json")
	f := NewAdjustmentFile(path)

	want := sampleRecords()
	require.NoError(t, f.Save(want))

	got, err := f.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "admin", got[0].CreatedBy)
	assert.True(t, got[0].Percentage.Equal(decimal.NewFromInt(10)))
	require.Len(t, got[0].Details, 1)
	assert.True(t, got[0].Details[0].CostAfter.Equal(decimal.NewFromInt(110)))

	assert.True(t, got[1].IsTemporary)
	assert.Equal(t, model.StatusScheduled, got[1].Status)
	assert.True(t, got[1].StartTime.Equal(want[1].StartTime))
}

func TestAdjustmentFile_MissingFileIsEmptyHistory(t *testing.T) {
	f := NewAdjustmentFile(filepath.Join(t.TempDir(), "nope", "adjustments.json"))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAdjustmentFile_CorruptFileFailsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adjustments.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewAdjustmentFile(path).Load()
	assert.Error(t, err)
}

func TestAdjustmentFile_SaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adjustments.json")
	f := NewAdjustmentFile(path)

	require.NoError(t, f.Save(sampleRecords()))
	require.NoError(t, f.Save(sampleRecords()[:1]))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAdjustmentFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "adjustments.json")
	f := NewAdjustmentFile(path)

	require.NoError(t, f.Save(nil))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}
