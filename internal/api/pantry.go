package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/internal/middleware"
	"github.com/pantrypilot/backend/internal/service"
	"github.com/pantrypilot/backend/internal/types"
)

// PantryHandler handles pantry stock requests
type PantryHandler struct {
	store  service.IStoreService
	logger *zap.Logger
}

// NewPantryHandler creates a new PantryHandler instance
func NewPantryHandler(store service.IStoreService, logger *zap.Logger) *PantryHandler {
	return &PantryHandler{store: store, logger: logger}
}

// RegisterRoutes registers the pantry routes
func (h *PantryHandler) RegisterRoutes(router *gin.RouterGroup) {
	pantry := router.Group("/pantry")
	{
		pantry.GET("", h.GetPantry)
		pantry.POST("/toggle", h.Toggle)
	}
}

// GetPantry returns the catalog merged with the caller's stock state.
func (h *PantryHandler) GetPantry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.EnsureProfile(ctx, user.AccessToken, user.ID); err != nil {
		respondError(c, err)
		return
	}
	items, err := h.store.GetPantry(ctx, user.AccessToken, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.PantryResponse{Items: items})
}

// Toggle upserts the caller's stock state for one ingredient and returns the
// refreshed pantry. The stored quantity survives toggles that do not supply one.
func (h *PantryHandler) Toggle(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.PantryToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.IngredientID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient_id is required"})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.EnsureProfile(ctx, user.AccessToken, user.ID); err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.UpsertPantryItem(ctx, user.AccessToken, user.ID, req.IngredientID, req.Status, req.Quantity, req.QuantityProvided); err != nil {
		respondError(c, err)
		return
	}
	items, err := h.store.GetPantry(ctx, user.AccessToken, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.PantryResponse{Items: items})
}
