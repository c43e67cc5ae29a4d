package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the catalog entity whose prices the adjustment ledger mutates.
// It carries three independent price fields: replacement cost, cash price
// (contado) and list price (financed).
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code        string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    string          `gorm:"not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CashPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ListPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns the ID app-side so the model works against both
// postgres and the sqlite driver used in tests.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
