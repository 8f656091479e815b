package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/internal/middleware"
	"github.com/pantrypilot/backend/internal/service"
	"github.com/pantrypilot/backend/internal/types"
)

// HistoryHandler handles cooking history requests
type HistoryHandler struct {
	store  service.IStoreService
	logger *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler instance
func NewHistoryHandler(store service.IStoreService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{store: store, logger: logger}
}

// RegisterRoutes registers the history routes
func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	history := router.Group("/history")
	{
		history.POST("/cooked", h.CreateCooked)
		history.GET("", h.List)
		history.GET("/:session_id", h.Detail)
	}
}

// CreateCooked records a cooking session for the caller.
func (h *HistoryHandler) CreateCooked(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.CookSessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dish_name is required"})
		return
	}
	if strings.TrimSpace(req.DishName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dish_name is required"})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.EnsureProfile(ctx, user.AccessToken, user.ID); err != nil {
		respondError(c, err)
		return
	}
	session, err := h.store.CreateCookingSession(ctx, user.AccessToken, user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// List returns the caller's sessions, newest first.
func (h *HistoryHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
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
	items, err := h.store.ListCookingSessions(ctx, user.AccessToken, user.ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.HistoryListResponse{Items: items})
}

// Detail returns one session with its followups. A session id that does not
// belong to the caller is indistinguishable from an absent one.
func (h *HistoryHandler) Detail(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id must be a valid uuid"})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.EnsureProfile(ctx, user.AccessToken, user.ID); err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.store.GetCookingSessionDetail(ctx, user.AccessToken, user.ID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
