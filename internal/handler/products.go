package handler

import (
	"net/http"

	"bclick/internal/dto"
	"bclick/internal/middleware"
	"bclick/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateProductRequest true "Product"
// @Success      201  {object} dto.ProductResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Catalog
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        supplierId query string false "Supplier"
// @Param        categoryId query string false "Category"
// @Param        status     query string false "Status"
// @Param        name       query string false "Name contains"
// @Param        page       query int    false "Page"
// @Param        limit      query int    false "Page size"
// @Success      200  {object} dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LookupBarcode godoc
// @Summary      Product by bar code
// @Description  Redis-cached lookup; hidden and draft products are not returned.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        barcode path     string true "Bar code"
// @Success      200     {object} dto.BarcodeLookupResponse
// @Failure      404     {object} apierror.APIError
// @Router       /api/products/barcode/{barcode} [get]
func (h *ProductsHandler) LookupBarcode(c *gin.Context) {
	resp, err := h.svc.LookupBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustStock godoc
// @Summary      Adjust stock
// @Description  Applies a signed delta; the result can never drop below zero.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                 true "Product"
// @Param        body body     dto.AdjustStockRequest true "Delta"
// @Success      200  {object} dto.ProductResponse
// @Failure      409  {object} apierror.StockError
// @Router       /api/products/{id}/stock [patch]
func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) StockMovements(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var filter dto.HistoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.StockMovements(c.Request.Context(), middleware.GetActor(c), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PriceHistory godoc
// @Summary      Price history of a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     string true  "Product"
// @Param        page  query    int    false "Page"
// @Param        limit query    int    false "Page size"
// @Success      200   {object} dto.PriceHistoryListResponse
// @Router       /api/products/{id}/price-history [get]
func (h *ProductsHandler) PriceHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var filter dto.HistoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.PriceHistory(c.Request.Context(), middleware.GetActor(c), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
