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

// ChatHandler handles the LLM-backed endpoints
type ChatHandler struct {
	store  service.IStoreService
	llm    service.ILLMService
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(store service.IStoreService, llm service.ILLMService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{store: store, llm: llm, logger: logger}
}

// RegisterRoutes registers the chat routes
func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/chat")
	{
		chat.POST("/message", h.Message)
		chat.POST("/recipe", h.Recipe)
	}
}

// Message turns a text or audio query into dish suggestions grounded in the
// caller's pantry.
func (h *ChatHandler) Message(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Provider != "" && req.Provider != "groq" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider"})
		return
	}

	userText := ""
	if req.Text != nil {
		userText = strings.TrimSpace(*req.Text)
	}
	hasAudio := req.AudioBase64 != nil && *req.AudioBase64 != ""
	if userText == "" && !hasAudio {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide either text or audio_base64"})
		return
	}

	ctx := c.Request.Context()
	apiKey := customAPIKey(c)

	if err := h.store.EnsureProfile(ctx, user.AccessToken, user.ID); err != nil {
		respondError(c, err)
		return
	}
	pantry, err := h.store.GetPantry(ctx, user.AccessToken, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	if userText == "" {
		userText, err = h.llm.Transcribe(ctx, *req.AudioBase64, apiKey)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	cards, err := h.llm.GenerateDishCards(ctx, userText, pantry, apiKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cards)
}

// Recipe returns a structured recipe for a dish, or answers a follow-up
// question about it. A follow-up asked in the context of a recorded session is
// appended to that session's history.
func (h *ChatHandler) Recipe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.RecipeAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dish_name is required"})
		return
	}

	ctx := c.Request.Context()
	apiKey := customAPIKey(c)

	if err := h.store.EnsureProfile(ctx, user.AccessToken, user.ID); err != nil {
		respondError(c, err)
		return
	}
	pantry, err := h.store.GetPantry(ctx, user.AccessToken, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	question := ""
	if req.Question != nil {
		question = strings.TrimSpace(*req.Question)
	}

	if question == "" {
		recipe, err := h.llm.GenerateRecipeDetail(ctx, req.DishName, pantry, apiKey)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, types.RecipeAssistantResponse{Recipe: recipe})
		return
	}

	answer, err := h.llm.GenerateAssistantAnswer(ctx, req.DishName, question, pantry, apiKey)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.SessionID != nil {
		// Confirm the session exists and belongs to the caller before appending.
		if _, err := h.store.GetCookingSessionDetail(ctx, user.AccessToken, user.ID, *req.SessionID); err != nil {
			respondError(c, err)
			return
		}
		if err := h.store.CreateFollowup(ctx, user.AccessToken, user.ID, *req.SessionID, question, answer); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, types.RecipeAssistantResponse{Answer: &answer})
}
