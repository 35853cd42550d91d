package handlers

import (
	"net/http"

	"fixly/middleware"
	"fixly/models"
	"fixly/services/provider"
	"fixly/utils"

	"github.com/gin-gonic/gin"
)

// ProviderHandler exposes provider accounts over HTTP.
type ProviderHandler struct {
	Service provider.ProviderService
}

func NewProviderHandler(svc provider.ProviderService) *ProviderHandler {
	return &ProviderHandler{Service: svc}
}

// Register handles POST /api/providers/register.
func (h *ProviderHandler) Register(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	created, token, err := h.Service.Register(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"provider": created, "token": token})
}

// Login handles POST /api/providers/login.
func (h *ProviderHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	p, token, err := h.Service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider": p, "token": token})
}

// GetProvider handles GET /api/providers/:id. The provider itself and admins
// get the full record, everyone else the public view.
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	id := c.Param("id")

	fullAccess := false
	if actor, ok := middleware.GetActor(c); ok {
		fullAccess = actor.IsAdmin() || (actor.Kind == models.ActorProvider && actor.ID == id)
	}

	p, err := h.Service.GetProviderByID(c.Request.Context(), id, fullAccess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProvider handles PATCH /api/providers/:id.
func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "not authenticated")
		return
	}

	var req models.ProviderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	p, err := h.Service.UpdateProvider(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProvider handles DELETE /api/providers/:id.
func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "not authenticated")
		return
	}

	if err := h.Service.DeleteProvider(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "provider deleted"})
}
