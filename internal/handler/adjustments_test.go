package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"javopos/internal/ledger"
	"javopos/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubProducts struct {
	products map[uuid.UUID]model.Product
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	cp := p
	return &cp, nil
}

func (s *stubProducts) Update(_ context.Context, p *model.Product) error {
	s.products[p.ID] = *p
	return nil
}

type nullStore struct{}

func (nullStore) Load() ([]*model.AdjustmentRecord, error) { return nil, nil }
func (nullStore) Save([]*model.AdjustmentRecord) error     { return nil }

func setupRouter(t *testing.T) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	id := uuid.New()
	products := &stubProducts{products: map[uuid.UUID]model.Product{
		id: {
			ID:        id,
			Name:      "Samsung TV 55",
			CostPrice: decimal.NewFromInt(100),
			CashPrice: decimal.NewFromInt(120),
			ListPrice: decimal.NewFromInt(150),
		},
	}}
	led := ledger.New(ledger.Config{Products: products, Store: nullStore{}})

	h := NewAdjustmentsHandler(led, t.TempDir())
	r := gin.New()
	adj := r.Group("/v1/adjustments")
	{
		adj.POST("", h.Apply)
		adj.POST("/temporal", h.Schedule)
		adj.POST("/:id/revert", h.Revert)
		adj.GET("", h.List)
		adj.GET("/temporal", h.ListTemporal)
		adj.GET("/temporal/pending", h.ListPending)
		adj.GET("/:id", h.Get)
	}
	return r, id
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func applyBody(productID uuid.UUID) map[string]any {
	return map[string]any{
		"product_ids": []string{productID.String()},
		"percentage":  10,
		"is_increase": true,
		"description": "list price correction",
		"user":        "admin",
	}
}

func scheduleBody(productID uuid.UUID, start, end time.Time) map[string]any {
	return map[string]any{
		"product_ids": []string{productID.String()},
		"percentage":  20,
		"is_increase": false,
		"start_time":  start.Format(time.RFC3339),
		"end_time":    end.Format(time.RFC3339),
		"kind":        "promotion",
		"description": "weekend sale",
		"user":        "admin",
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestApply_Created(t *testing.T) {
	r, productID := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/adjustments", applyBody(productID))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
}

func TestApply_ValidationErrors(t *testing.T) {
	r, productID := setupRouter(t)

	// Missing user
	body := applyBody(productID)
	delete(body, "user")
	w := doJSON(r, http.MethodPost, "/v1/adjustments", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Malformed product UUID
	body = applyBody(productID)
	body["product_ids"] = []string{"not-a-uuid"}
	w = doJSON(r, http.MethodPost, "/v1/adjustments", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Negative percentage passes binding but the ledger rejects it
	body = applyBody(productID)
	body["percentage"] = -10
	w = doJSON(r, http.MethodPost, "/v1/adjustments", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSchedule_ConflictReturns409WithDetails(t *testing.T) {
	r, productID := setupRouter(t)
	start := time.Now().Add(time.Hour)
	end := time.Now().Add(48 * time.Hour)

	w := doJSON(r, http.MethodPost, "/v1/adjustments/temporal", scheduleBody(productID, start, end))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/v1/adjustments/temporal", scheduleBody(productID, start.Add(time.Hour), end.Add(time.Hour)))
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Detail    string `json:"detail"`
		Conflicts []struct {
			ProductID string  `json:"product_id"`
			RecordIDs []int64 `json:"record_ids"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, productID.String(), resp.Conflicts[0].ProductID)
	assert.Equal(t, []int64{1}, resp.Conflicts[0].RecordIDs)
}

func TestSchedule_BadTimestamps(t *testing.T) {
	r, productID := setupRouter(t)

	body := scheduleBody(productID, time.Now(), time.Now().Add(time.Hour))
	body["start_time"] = "tomorrow"
	w := doJSON(r, http.MethodPost, "/v1/adjustments/temporal", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// start == end after minute truncation
	now := time.Now().Truncate(time.Minute)
	body = scheduleBody(productID, now.Add(time.Hour), now.Add(time.Hour))
	w = doJSON(r, http.MethodPost, "/v1/adjustments/temporal", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRevert_ThenSecondRevertConflicts(t *testing.T) {
	r, productID := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/adjustments", applyBody(productID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/v1/adjustments/1/revert", map[string]any{"user": "supervisor"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodPost, "/v1/adjustments/1/revert", map[string]any{"user": "supervisor"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGet_NotFoundAndBadID(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/v1/adjustments/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/adjustments/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestList_ReturnsHistoryNewestFirst(t *testing.T) {
	r, productID := setupRouter(t)

	for i := 0; i < 3; i++ {
		w := doJSON(r, http.MethodPost, "/v1/adjustments", applyBody(productID))
		require.Equal(t, http.StatusCreated, w.Code, fmt.Sprintf("apply %d", i))
	}

	w := doJSON(r, http.MethodGet, "/v1/adjustments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, int64(3), resp.Data[0].ID)
}

func TestListTemporal_StatusFilter(t *testing.T) {
	r, productID := setupRouter(t)
	start := time.Now().Add(time.Hour)
	end := time.Now().Add(2 * time.Hour)

	w := doJSON(r, http.MethodPost, "/v1/adjustments/temporal", scheduleBody(productID, start, end))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/adjustments/temporal?status=scheduled", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)

	w = doJSON(r, http.MethodGet, "/v1/adjustments/temporal?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/adjustments/temporal/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}
