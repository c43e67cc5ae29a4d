package dto

// AuditEntryItem is one row in the audit log list.
type AuditEntryItem struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	PerformedBy string `json:"performed_by"`
	EntityType  string `json:"entity_type"`
	Action      string `json:"action"`
	PrimaryKey  string `json:"primary_key"`
	Detail      string `json:"detail,omitempty"`
}

// AuditListResponse is returned by GET /v1/audit.
type AuditListResponse struct {
	Data  []AuditEntryItem `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
