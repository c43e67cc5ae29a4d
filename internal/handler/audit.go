package handler

import (
	"net/http"
	"strconv"
	"time"

	"javopos/internal/apierror"
	"javopos/internal/dto"
	"javopos/internal/repository"

	"github.com/gin-gonic/gin"
)

// AuditHandler serves the immutable audit log written by the worker pool.
type AuditHandler struct {
	repo repository.AuditRepository
}

func NewAuditHandler(repo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List godoc
// @Summary      Audit log
// @Description  Returns the immutable audit trail of ledger state changes, newest first.
// @Tags         audit
// @Param        page  query int false "Page (default 1)"
// @Param        limit query int false "Rows per page (default 50, max 200)"
// @Success      200 {object} dto.AuditListResponse
// @Router       /v1/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, total, err := h.repo.List(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to fetch audit log"))
		return
	}

	data := make([]dto.AuditEntryItem, 0, len(rows))
	for _, r := range rows {
		data = append(data, dto.AuditEntryItem{
			ID:          r.ID.String(),
			Timestamp:   r.Timestamp.Format(time.RFC3339),
			PerformedBy: r.PerformedBy,
			EntityType:  r.EntityType,
			Action:      r.Action,
			PrimaryKey:  r.PrimaryKey,
			Detail:      r.Detail,
		})
	}

	c.JSON(http.StatusOK, dto.AuditListResponse{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
