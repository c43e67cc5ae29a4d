package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Code        string          `json:"code"        validate:"required,min=2,max=32"`
	Name        string          `json:"name"        validate:"required,min=2,max=120"`
	Description *string         `json:"description"`
	Category    string          `json:"category"    validate:"required"`
	CostPrice   decimal.Decimal `json:"cost_price"  validate:"required"`
	CashPrice   decimal.Decimal `json:"cash_price"  validate:"required"`
	ListPrice   decimal.Decimal `json:"list_price"  validate:"required"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=2,max=120"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	CashPrice   *decimal.Decimal `json:"cash_price"`
	ListPrice   *decimal.Decimal `json:"list_price"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Code     string `form:"code"`
	Name     string `form:"name"`
	Category string `form:"category"`
	Active   string `form:"active"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	CashPrice   decimal.Decimal `json:"cash_price"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Active      bool            `json:"active"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
