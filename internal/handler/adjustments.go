package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"javopos/internal/apierror"
	"javopos/internal/dto"
	"javopos/internal/infra"
	"javopos/internal/ledger"
	"javopos/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdjustmentsHandler exposes the price-adjustment ledger over HTTP.
type AdjustmentsHandler struct {
	ledger     *ledger.Ledger
	pdfStorage string
}

func NewAdjustmentsHandler(l *ledger.Ledger, pdfStoragePath string) *AdjustmentsHandler {
	return &AdjustmentsHandler{ledger: l, pdfStorage: pdfStoragePath}
}

// Apply godoc
// @Summary      Apply a permanent price adjustment
// @Description  Multiplies cost, cash and list price of every given product by 1 ± percentage/100 and records the before/after snapshot.
// @Tags         adjustments
// @Param        request body dto.ApplyAdjustmentRequest true "Adjustment"
// @Success      201 {object} dto.CreatedResponse
// @Failure      400 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/adjustments [post]
func (h *AdjustmentsHandler) Apply(c *gin.Context) {
	var req dto.ApplyAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ids, ok := parseProductIDs(c, req.ProductIDs)
	if !ok {
		return
	}

	id, err := h.ledger.ApplyAdjustment(c.Request.Context(), ledger.ApplyRequest{
		ProductIDs:  ids,
		Percentage:  req.Percentage,
		IsIncrease:  req.IsIncrease,
		Description: req.Description,
		Reason:      req.Reason,
		User:        req.User,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// Schedule godoc
// @Summary      Schedule a temporal price adjustment
// @Description  Creates a time-windowed adjustment in scheduled status. Fails with 409 when the window overlaps an existing scheduled/active adjustment on a shared product.
// @Tags         adjustments
// @Param        request body dto.ScheduleAdjustmentRequest true "Temporal adjustment"
// @Success      201 {object} dto.CreatedResponse
// @Failure      409 {object} apierror.ConflictError
// @Router       /v1/adjustments/temporal [post]
func (h *AdjustmentsHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ids, ok := parseProductIDs(c, req.ProductIDs)
	if !ok {
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid start_time: must be RFC 3339"))
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid end_time: must be RFC 3339"))
		return
	}

	id, err := h.ledger.ScheduleTemporalAdjustment(c.Request.Context(), ledger.ScheduleRequest{
		ProductIDs:  ids,
		Percentage:  req.Percentage,
		IsIncrease:  req.IsIncrease,
		StartTime:   start,
		EndTime:     end,
		Kind:        req.Kind,
		Description: req.Description,
		Reason:      req.Reason,
		User:        req.User,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (h *AdjustmentsHandler) Revert(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	var req dto.RevertAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.ledger.RevertAdjustment(c.Request.Context(), id, req.User); err != nil {
		writeLedgerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdjustmentsHandler) List(c *gin.Context) {
	records := h.ledger.List(c.Request.Context())
	c.JSON(http.StatusOK, toListResponse(records))
}

func (h *AdjustmentsHandler) Get(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	rec, err := h.ledger.Get(c.Request.Context(), id)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, recordToDTO(rec))
}

// ListPending returns scheduled/active temporal adjustments, earliest first.
func (h *AdjustmentsHandler) ListPending(c *gin.Context) {
	records := h.ledger.ListPendingTemporal(c.Request.Context())
	c.JSON(http.StatusOK, toListResponse(records))
}

// ListTemporal filters temporal adjustments by ?status=, latest start first.
func (h *AdjustmentsHandler) ListTemporal(c *gin.Context) {
	status := model.TemporalStatus(c.Query("status"))
	records, err := h.ledger.ListTemporalByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, toListResponse(records))
}

// DownloadReport renders the adjustment as a PDF and streams it back.
func (h *AdjustmentsHandler) DownloadReport(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	rec, err := h.ledger.Get(c.Request.Context(), id)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	path, err := infra.GenerateAdjustmentPDF(rec, h.pdfStorage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to generate report"))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// ─── Error mapping ───────────────────────────────────────────────────────────

// writeLedgerError maps the ledger's error taxonomy onto HTTP statuses:
// not-found → 404, invalid argument → 422, wrong state / window conflict →
// 409. Anything unexpected degrades to a safe 500.
func writeLedgerError(c *gin.Context, err error) {
	var conflict *ledger.ConflictError
	var status *ledger.StatusError

	switch {
	case errors.As(err, &conflict):
		details := make([]apierror.ConflictDetail, 0, len(conflict.Conflicts))
		for _, pc := range conflict.Conflicts {
			details = append(details, apierror.ConflictDetail{
				ProductID:   pc.ProductID.String(),
				ProductName: pc.ProductName,
				RecordIDs:   pc.RecordIDs,
			})
		}
		c.JSON(http.StatusConflict, apierror.NewConflict(err.Error(), details))
	case errors.As(err, &status), errors.Is(err, ledger.ErrAlreadyReverted), errors.Is(err, ledger.ErrNotTemporal):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, ledger.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, ledger.ErrNoProducts), errors.Is(err, ledger.ErrInvalidPercentage), errors.Is(err, ledger.ErrInvalidWindow):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}

// ─── Parsing / mapping helpers ───────────────────────────────────────────────

func parseRecordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid adjustment ID"))
		return 0, false
	}
	return id, true
}

func parseProductIDs(c *gin.Context, raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid product ID: "+s))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func toListResponse(records []*model.AdjustmentRecord) dto.AdjustmentListResponse {
	data := make([]dto.AdjustmentResponse, 0, len(records))
	for _, r := range records {
		data = append(data, recordToDTO(r))
	}
	return dto.AdjustmentListResponse{Data: data, Total: len(data)}
}

func recordToDTO(r *model.AdjustmentRecord) dto.AdjustmentResponse {
	resp := dto.AdjustmentResponse{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		CreatedBy:   r.CreatedBy,
		Percentage:  r.Percentage,
		IsIncrease:  r.IsIncrease,
		Description: r.Description,
		Reason:      r.Reason,
		IsTemporary: r.IsTemporary,
		Reverted:    r.Reverted,
		RevertedBy:  r.RevertedBy,
	}
	if r.IsTemporary {
		start := r.StartTime.Format(time.RFC3339)
		end := r.EndTime.Format(time.RFC3339)
		resp.StartTime = &start
		resp.EndTime = &end
		resp.TemporalKind = r.TemporalKind
		resp.Status = string(r.Status)
	}
	if r.RevertedAt != nil {
		at := r.RevertedAt.Format(time.RFC3339)
		resp.RevertedAt = &at
	}

	resp.Details = make([]dto.AdjustmentDetailItem, 0, len(r.Details))
	for _, d := range r.Details {
		resp.Details = append(resp.Details, dto.AdjustmentDetailItem{
			ID:              d.ID,
			ProductID:       d.ProductID.String(),
			ProductName:     d.ProductName,
			CostBefore:      d.CostBefore,
			CostAfter:       d.CostAfter,
			CashPriceBefore: d.CashPriceBefore,
			CashPriceAfter:  d.CashPriceAfter,
			ListPriceBefore: d.ListPriceBefore,
			ListPriceAfter:  d.ListPriceAfter,
		})
	}
	return resp
}
