package handler

import (
	"fmt"
	"net/http"

	"bclick/internal/dto"
	"bclick/internal/middleware"
	"bclick/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// ValidateStock godoc
// @Summary      Check stock for a list of lines
// @Description  Read-only. Quantities of repeated products are summed.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ValidateStockRequest true "Lines"
// @Success      200  {object} dto.ValidateStockResponse
// @Router       /api/orders/validate-stock [post]
func (h *OrdersHandler) ValidateStock(c *gin.Context) {
	var req dto.ValidateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ValidateStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create an order from explicit lines
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateOrderRequest true "Order"
// @Success      201  {object} dto.OrderResponse
// @Failure      409  {object} apierror.PriceChangedError
// @Router       /api/orders/create [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateOrder(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Transition or edit an order
// @Description  Status moves follow pending→processing→approved, with rejected reachable from both open states (note required).
// @Description  Quantity edits are only accepted while pending.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.UpdateOrderRequest true "Change"
// @Success      200  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/orders/update [put]
func (h *OrdersHandler) Update(c *gin.Context) {
	var req dto.UpdateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateOrder(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Delete(c *gin.Context) {
	var req dto.DeleteOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.DeleteOrder(c.Request.Context(), middleware.GetActor(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List godoc
// @Summary      Orders of the caller
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status     query    string false "Status"
// @Param        supplierId query    string false "Supplier"
// @Param        page       query    int    false "Page"
// @Param        limit      query    int    false "Page size"
// @Success      200        {object} dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
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

func (h *OrdersHandler) Get(c *gin.Context) {
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

// DownloadPDF godoc
// @Summary      Order summary PDF
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path     string true "Order"
// @Success      200  {file}   binary
// @Failure      404  {object} apierror.APIError
// @Router       /api/orders/{id}/pdf [get]
func (h *OrdersHandler) DownloadPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	data, order, err := h.svc.PDF(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="order-%d.pdf"`, order.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}
