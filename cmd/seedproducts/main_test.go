package main

import (
	"context"
	"testing"

	"javopos/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Product{}))
	return db
}

func TestSeed_InsertsCatalogWithIDs(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, seed(context.Background(), db))

	var products []model.Product
	require.NoError(t, db.Order("code ASC").Find(&products).Error)
	require.Len(t, products, len(demoProducts))

	// The table has no uuid default, so a row only gets an id if the
	// insert supplies one.
	for _, p := range products {
		assert.NotEqual(t, uuid.Nil, p.ID, "product %s seeded without id", p.Code)
		assert.True(t, p.Active)
	}
}

func TestSeed_RerunKeepsIDsAndRefreshesPrices(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, seed(ctx, db))

	var before model.Product
	require.NoError(t, db.Where("code = ?", "TV-003").First(&before).Error)

	require.NoError(t, db.Model(&model.Product{}).
		Where("code = ?", "TV-003").
		Updates(map[string]any{"cash_price": "1.00", "active": false}).Error)

	require.NoError(t, seed(ctx, db))

	var count int64
	require.NoError(t, db.Model(&model.Product{}).Count(&count).Error)
	assert.EqualValues(t, len(demoProducts), count)

	var after model.Product
	require.NoError(t, db.Where("code = ?", "TV-003").First(&after).Error)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "830000", after.CashPrice.String())
	assert.True(t, after.Active)
}
