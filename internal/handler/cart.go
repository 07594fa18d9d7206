package handler

import (
	"net/http"

	"bclick/internal/apierror"
	"bclick/internal/dto"
	"bclick/internal/middleware"
	"bclick/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	carts  service.CartService
	orders service.OrderService
}

func NewCartHandler(carts service.CartService, orders service.OrderService) *CartHandler {
	return &CartHandler{carts: carts, orders: orders}
}

// Get godoc
// @Summary      Client carts
// @Description  Lists every cart of the client, or the single cart for supplierId.
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        supplierId query    string false "Supplier"
// @Success      200        {object} dto.CartResponse
// @Failure      404        {object} apierror.APIError
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	actor := middleware.GetActor(c)
	raw := c.Query("supplierId")
	if raw == "" {
		resp, err := h.carts.List(c.Request.Context(), actor)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	supplierID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode(string(service.KindInvalidInput), "invalid supplierId"))
		return
	}
	resp, err := h.carts.Get(c.Request.Context(), actor, supplierID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary      Add to cart
// @Description  Adds quantity to the line; the resulting quantity may not exceed live stock.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CartItemRequest true "Line"
// @Success      200  {object} dto.CartMutationResponse
// @Failure      409  {object} apierror.StockError
// @Router       /api/cart [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.CartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.carts.AddItem(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetQuantity godoc
// @Summary      Set line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CartItemRequest true "Line"
// @Success      200  {object} dto.CartMutationResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.StockError
// @Router       /api/cart [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req dto.CartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.carts.SetQuantity(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem answers 204 when the last line went and the cart was deleted.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req dto.CartRemoveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.carts.RemoveItem(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Clear(c *gin.Context) {
	var req dto.CartRefRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.carts.Clear(c.Request.Context(), middleware.GetActor(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Submit godoc
// @Summary      Submit cart
// @Description  Turns the cart into a pending order. Stock is re-validated and decremented atomically; the cart is removed.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CartRefRequest true "Cart"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.StockError
// @Router       /api/cart/submit [post]
func (h *CartHandler) Submit(c *gin.Context) {
	var req dto.CartRefRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.orders.SubmitCart(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
