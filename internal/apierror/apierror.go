// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// ConflictDetail is one product involved in a temporal-window collision,
// listing the record IDs whose windows it overlaps.
type ConflictDetail struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	RecordIDs   []int64 `json:"record_ids"`
}

// ConflictError is returned when a requested temporal adjustment overlaps
// existing scheduled or active windows on shared products.
type ConflictError struct {
	Detail    string           `json:"detail"`
	Conflicts []ConflictDetail `json:"conflicts"`
}

func NewConflict(msg string, conflicts []ConflictDetail) *ConflictError {
	return &ConflictError{Detail: msg, Conflicts: conflicts}
}
