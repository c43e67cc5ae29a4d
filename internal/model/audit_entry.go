package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEntry records one state change observed through the audit sink.
// Entries are immutable — never updated or deleted.
type AuditEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Timestamp   time.Time `gorm:"not null;index"`
	PerformedBy string    `gorm:"not null"`
	EntityType  string    `gorm:"not null;index"`
	Action      string    `gorm:"not null"` // applied | scheduled | activated | finished | reverted
	PrimaryKey  string    `gorm:"not null;index"`
	Detail      string
	CreatedAt   time.Time
}

// TableName overrides GORM's default pluralization (audit_entrys → audit_entries).
func (AuditEntry) TableName() string { return "audit_entries" }

func (e *AuditEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
