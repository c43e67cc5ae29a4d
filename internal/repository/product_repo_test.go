package repository

import (
	"context"
	"fmt"
	"testing"

	"javopos/internal/dto"
	"javopos/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory sqlite database. The pure-Go driver
// keeps repository tests runnable without cgo or a postgres container.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.AuditEntry{}))
	return db
}

func createProduct(t *testing.T, repo ProductRepository, code, name, category string) *model.Product {
	t.Helper()
	p := &model.Product{
		Code:      code,
		Name:      name,
		Category:  category,
		CostPrice: decimal.NewFromInt(100),
		CashPrice: decimal.NewFromInt(120),
		ListPrice: decimal.NewFromInt(150),
		Active:    true,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestProductRepo_CreateAndFind(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	p := createProduct(t, repo, "TV-001", "Samsung TV 55", "electronics")

	got, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "TV-001", got.Code)
	assert.True(t, got.CostPrice.Equal(decimal.NewFromInt(100)))

	got, err = repo.FindByCode(context.Background(), "TV-001")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProductRepo_FindByCodeIgnoresInactive(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	p := createProduct(t, repo, "TV-001", "Samsung TV 55", "electronics")

	require.NoError(t, repo.SoftDelete(context.Background(), p.ID))

	_, err := repo.FindByCode(context.Background(), "TV-001")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Still reachable by ID — soft delete only flips the flag
	got, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestProductRepo_UpdatePersistsPrices(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	p := createProduct(t, repo, "TV-001", "Samsung TV 55", "electronics")

	p.CashPrice = decimal.RequireFromString("132.50")
	require.NoError(t, repo.Update(context.Background(), p))

	got, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.CashPrice.Equal(decimal.RequireFromString("132.50")))
}

func TestProductRepo_ListFilters(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	createProduct(t, repo, "TV-001", "Samsung TV 55", "electronics")
	createProduct(t, repo, "NB-002", "Lenovo Notebook", "electronics")
	fridge := createProduct(t, repo, "HEL-003", "Whirlpool Fridge", "appliances")
	require.NoError(t, repo.SoftDelete(context.Background(), fridge.ID))

	ctx := context.Background()

	// Default: active only
	rows, total, err := repo.List(ctx, dto.ProductFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	// Inactive only
	rows, total, err = repo.List(ctx, dto.ProductFilter{Active: "false", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "HEL-003", rows[0].Code)

	// Everything
	_, total, err = repo.List(ctx, dto.ProductFilter{Active: "all", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	// Name substring
	rows, _, err = repo.List(ctx, dto.ProductFilter{Name: "Notebook", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "NB-002", rows[0].Code)

	// Category
	_, total, err = repo.List(ctx, dto.ProductFilter{Category: "electronics", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestProductRepo_ListPagination(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	for i := 0; i < 5; i++ {
		createProduct(t, repo, fmt.Sprintf("P-%03d", i), fmt.Sprintf("Product %d", i), "misc")
	}

	rows, total, err := repo.List(context.Background(), dto.ProductFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, rows, 2)
	// name ASC ordering → page 2 holds products 2 and 3
	assert.Equal(t, "Product 2", rows[0].Name)
	assert.Equal(t, "Product 3", rows[1].Name)
}

func TestProductRepo_DuplicateCodeRejected(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	createProduct(t, repo, "TV-001", "Samsung TV 55", "electronics")

	err := repo.Create(context.Background(), &model.Product{
		Code:      "TV-001",
		Name:      "Another TV",
		Category:  "electronics",
		CostPrice: decimal.NewFromInt(1),
		CashPrice: decimal.NewFromInt(1),
		ListPrice: decimal.NewFromInt(1),
		Active:    true,
	})
	assert.Error(t, err)
}
