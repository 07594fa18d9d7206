package handler

import (
	"net/http"

	"bclick/internal/apierror"
	"bclick/internal/dto"
	"bclick/internal/middleware"
	"bclick/internal/service"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct{ svc service.UserService }

func NewUsersHandler(svc service.UserService) *UsersHandler { return &UsersHandler{svc: svc} }

// Sync godoc
// @Summary      Sync the identity provider account
// @Description  Creates or refreshes the internal user for the token subject. Needs a valid token only.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.SyncUserRequest true "Profile"
// @Success      200  {object} dto.UserResponse
// @Failure      403  {object} apierror.APIError
// @Router       /api/users/sync [post]
func (h *UsersHandler) Sync(c *gin.Context) {
	var req dto.SyncUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.WithCode("unauthenticated", "authentication required"))
		return
	}
	if req.Email == "" {
		req.Email = claims.Email
	}
	resp, err := h.svc.Sync(c.Request.Context(), claims.Subject, claims.Role, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.UserResponse
// @Router       /api/users/me [get]
func (h *UsersHandler) Me(c *gin.Context) {
	resp, err := h.svc.Me(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
