package handler

import (
	"net/http"

	"javopos/internal/apierror"
	"javopos/internal/dto"
	"javopos/internal/model"
	"javopos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductsHandler serves the catalog CRUD the adjustment ledger operates on.
type ProductsHandler struct{ repo repository.ProductRepository }

func NewProductsHandler(repo repository.ProductRepository) *ProductsHandler {
	return &ProductsHandler{repo: repo}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := &model.Product{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		CostPrice:   req.CostPrice,
		CashPrice:   req.CashPrice,
		ListPrice:   req.ListPrice,
		Active:      true,
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, productToDTO(p))
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	products, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list products"))
		return
	}

	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, productToDTO(&products[i]))
	}
	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	})
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid product ID"))
		return
	}
	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}
	c.JSON(http.StatusOK, productToDTO(p))
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid product ID"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.CashPrice != nil {
		p.CashPrice = *req.CashPrice
	}
	if req.ListPrice != nil {
		p.ListPrice = *req.ListPrice
	}

	if err := h.repo.Update(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, productToDTO(p))
}

func (h *ProductsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid product ID"))
		return
	}
	if err := h.repo.SoftDelete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func productToDTO(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID.String(),
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		CostPrice:   p.CostPrice,
		CashPrice:   p.CashPrice,
		ListPrice:   p.ListPrice,
		Active:      p.Active,
	}
}
