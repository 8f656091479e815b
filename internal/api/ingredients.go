package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/internal/middleware"
	"github.com/pantrypilot/backend/internal/service"
	"github.com/pantrypilot/backend/internal/types"
)

// IngredientHandler handles ingredient catalog requests
type IngredientHandler struct {
	store  service.IStoreService
	logger *zap.Logger
}

// NewIngredientHandler creates a new IngredientHandler instance
func NewIngredientHandler(store service.IStoreService, logger *zap.Logger) *IngredientHandler {
	return &IngredientHandler{store: store, logger: logger}
}

// RegisterRoutes registers the ingredient routes
func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.List)
		ingredients.POST("", h.Create)
	}
}

// List returns catalog ingredients, optionally filtered by name substring.
func (h *IngredientHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	search := c.Query("search")
	if len(search) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search must be at most 100 characters"})
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.store.EnsureProfile(ctx, user.AccessToken, user.ID); err != nil {
		respondError(c, err)
		return
	}
	items, err := h.store.ListIngredients(ctx, user.AccessToken, search, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.IngredientListResponse{Items: items})
}

// Create inserts a global catalog ingredient. A duplicate name is a conflict,
// not a generic fault.
func (h *IngredientHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.IngredientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, category, and default_unit are required"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.DefaultUnit) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, category, and default_unit are required"})
		return
	}
	if !types.ValidIngredientCategory(strings.TrimSpace(req.Category)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ingredient category"})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.EnsureProfile(ctx, user.AccessToken, user.ID); err != nil {
		respondError(c, err)
		return
	}
	ingredient, err := h.store.CreateIngredient(ctx, user.AccessToken, req.Name, req.Category, req.DefaultUnit)
	if err != nil {
		if service.IsConflict(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "ingredient already exists"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ingredient)
}
