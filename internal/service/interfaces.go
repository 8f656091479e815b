package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pantrypilot/backend/internal/types"
)

// IAuthService defines the interface for auth platform operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (*types.AuthTokenResponse, error)
	VerifyToken(ctx context.Context, token string) (*types.AuthUser, error)
}

// IStoreService defines the interface for row-store operations
type IStoreService interface {
	EnsureProfile(ctx context.Context, accessToken string, userID uuid.UUID) error
	GetPantry(ctx context.Context, accessToken string, userID uuid.UUID) ([]types.PantryItem, error)
	UpsertPantryItem(ctx context.Context, accessToken string, userID uuid.UUID, ingredientID int, isInStock bool, quantity *string, quantityProvided bool) error
	ListIngredients(ctx context.Context, accessToken, search string, limit int) ([]types.IngredientSummary, error)
	CreateIngredient(ctx context.Context, accessToken, name, category, defaultUnit string) (*types.IngredientSummary, error)
	CreateCookingSession(ctx context.Context, accessToken string, userID uuid.UUID, req types.CookSessionCreateRequest) (*types.CookSession, error)
	ListCookingSessions(ctx context.Context, accessToken string, userID uuid.UUID, limit int) ([]types.CookSession, error)
	GetCookingSessionDetail(ctx context.Context, accessToken string, userID, sessionID uuid.UUID) (*types.HistoryDetailResponse, error)
	CreateFollowup(ctx context.Context, accessToken string, userID, sessionID uuid.UUID, question, answer string) error
}

// ILLMService defines the interface for LLM platform operations
type ILLMService interface {
	GenerateDishCards(ctx context.Context, userQuery string, pantry []types.PantryItem, apiKeyOverride string) (*types.ChatResponse, error)
	GenerateRecipeDetail(ctx context.Context, dishName string, pantry []types.PantryItem, apiKeyOverride string) (*types.RecipeDetail, error)
	GenerateAssistantAnswer(ctx context.Context, dishName, question string, pantry []types.PantryItem, apiKeyOverride string) (string, error)
	Transcribe(ctx context.Context, audioBase64, apiKeyOverride string) (string, error)
}
