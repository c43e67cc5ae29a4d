package repository

import (
	"context"

	"javopos/internal/model"

	"gorm.io/gorm"
)

// AuditRepository persists audit entries written by the worker pool.
type AuditRepository interface {
	Create(ctx context.Context, e *model.AuditEntry) error
	List(ctx context.Context, page, limit int) ([]model.AuditEntry, int64, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, e *model.AuditEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// List returns paginated audit entries, newest first (append-only table).
func (r *auditRepo) List(ctx context.Context, page, limit int) ([]model.AuditEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.AuditEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.AuditEntry
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
