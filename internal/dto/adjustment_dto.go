package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ApplyAdjustmentRequest applies a permanent percentage adjustment immediately.
type ApplyAdjustmentRequest struct {
	ProductIDs  []string        `json:"product_ids" validate:"required,min=1,dive,uuid"`
	Percentage  decimal.Decimal `json:"percentage"  validate:"required"`
	IsIncrease  bool            `json:"is_increase"`
	Description string          `json:"description" validate:"required,max=300"`
	Reason      string          `json:"reason"      validate:"max=300"`
	User        string          `json:"user"        validate:"required,max=120"`
}

// ScheduleAdjustmentRequest schedules a time-windowed adjustment.
// Times are RFC 3339; the server truncates them to minute precision.
type ScheduleAdjustmentRequest struct {
	ProductIDs  []string        `json:"product_ids" validate:"required,min=1,dive,uuid"`
	Percentage  decimal.Decimal `json:"percentage"  validate:"required"`
	IsIncrease  bool            `json:"is_increase"`
	StartTime   string          `json:"start_time"  validate:"required"`
	EndTime     string          `json:"end_time"    validate:"required"`
	Kind        string          `json:"kind"        validate:"required,max=60"` // e.g. "sale", "promotion", "clearance"
	Description string          `json:"description" validate:"required,max=300"`
	Reason      string          `json:"reason"      validate:"max=300"`
	User        string          `json:"user"        validate:"required,max=120"`
}

type RevertAdjustmentRequest struct {
	User string `json:"user" validate:"required,max=120"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AdjustmentDetailItem struct {
	ID              int64           `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	CostBefore      decimal.Decimal `json:"cost_before"`
	CostAfter       decimal.Decimal `json:"cost_after"`
	CashPriceBefore decimal.Decimal `json:"cash_price_before"`
	CashPriceAfter  decimal.Decimal `json:"cash_price_after"`
	ListPriceBefore decimal.Decimal `json:"list_price_before"`
	ListPriceAfter  decimal.Decimal `json:"list_price_after"`
}

type AdjustmentResponse struct {
	ID           int64                  `json:"id"`
	CreatedAt    string                 `json:"created_at"`
	CreatedBy    string                 `json:"created_by"`
	Percentage   decimal.Decimal        `json:"percentage"`
	IsIncrease   bool                   `json:"is_increase"`
	Description  string                 `json:"description"`
	Reason       string                 `json:"reason,omitempty"`
	IsTemporary  bool                   `json:"is_temporary"`
	StartTime    *string                `json:"start_time,omitempty"`
	EndTime      *string                `json:"end_time,omitempty"`
	TemporalKind string                 `json:"temporal_kind,omitempty"`
	Status       string                 `json:"status,omitempty"`
	Reverted     bool                   `json:"reverted"`
	RevertedAt   *string                `json:"reverted_at,omitempty"`
	RevertedBy   string                 `json:"reverted_by,omitempty"`
	Details      []AdjustmentDetailItem `json:"details"`
}

type AdjustmentListResponse struct {
	Data  []AdjustmentResponse `json:"data"`
	Total int                  `json:"total"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}
