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

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
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
// @Summary      Categories
// @Description  Suppliers see their own categories (hidden included) unless supplierId names another supplier.
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        supplierId query string false "Supplier"
// @Success      200  {array} dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoriesHandler) List(c *gin.Context) {
	var supplierID *uuid.UUID
	if raw := c.Query("supplierId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.WithCode(string(service.KindInvalidInput), "invalid supplierId"))
			return
		}
		supplierID = &id
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.GetActor(c), supplierID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
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

func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
