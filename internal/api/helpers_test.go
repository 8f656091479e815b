package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/internal/middleware"
	"github.com/pantrypilot/backend/internal/types"
)

var testUserID = uuid.MustParse("a4f9d9f2-6c1e-4f0a-9f58-2b42f2a6d901")

func init() {
	gin.SetMode(gin.TestMode)
}

// stubVerifier authenticates any request carrying "Bearer good-token".
type stubVerifier struct{}

func (s *stubVerifier) VerifyToken(_ context.Context, token string) (*types.AuthUser, error) {
	if token != "good-token" {
		return nil, errUnauthorizedToken
	}
	return &types.AuthUser{ID: testUserID, Email: "cook@example.com", AccessToken: token}, nil
}

var errUnauthorizedToken = &verifyError{}

type verifyError struct{}

func (e *verifyError) Error() string { return "invalid or expired access token" }

// mockStore implements service.IStoreService with per-test function fields.
// Unset fields behave as a healthy store holding no rows.
type mockStore struct {
	ensureProfileErr error
	lastAccessToken  string

	getPantry        func(userID uuid.UUID) ([]types.PantryItem, error)
	upsertPantry     func(ingredientID int, isInStock bool, quantity *string, quantityProvided bool) error
	listIngredients  func(search string, limit int) ([]types.IngredientSummary, error)
	createIngredient func(name, category, defaultUnit string) (*types.IngredientSummary, error)
	createSession    func(req types.CookSessionCreateRequest) (*types.CookSession, error)
	listSessions     func(limit int) ([]types.CookSession, error)
	sessionDetail    func(sessionID uuid.UUID) (*types.HistoryDetailResponse, error)
	createFollowup   func(sessionID uuid.UUID, question, answer string) error
}

func (m *mockStore) EnsureProfile(_ context.Context, accessToken string, _ uuid.UUID) error {
	m.lastAccessToken = accessToken
	return m.ensureProfileErr
}

func (m *mockStore) GetPantry(_ context.Context, _ string, userID uuid.UUID) ([]types.PantryItem, error) {
	if m.getPantry == nil {
		return []types.PantryItem{}, nil
	}
	return m.getPantry(userID)
}

func (m *mockStore) UpsertPantryItem(_ context.Context, _ string, _ uuid.UUID, ingredientID int, isInStock bool, quantity *string, quantityProvided bool) error {
	if m.upsertPantry == nil {
		return nil
	}
	return m.upsertPantry(ingredientID, isInStock, quantity, quantityProvided)
}

func (m *mockStore) ListIngredients(_ context.Context, _ string, search string, limit int) ([]types.IngredientSummary, error) {
	if m.listIngredients == nil {
		return []types.IngredientSummary{}, nil
	}
	return m.listIngredients(search, limit)
}

func (m *mockStore) CreateIngredient(_ context.Context, _ string, name, category, defaultUnit string) (*types.IngredientSummary, error) {
	if m.createIngredient == nil {
		return &types.IngredientSummary{ID: 1, Name: name, Category: category, DefaultUnit: defaultUnit}, nil
	}
	return m.createIngredient(name, category, defaultUnit)
}

func (m *mockStore) CreateCookingSession(_ context.Context, _ string, _ uuid.UUID, req types.CookSessionCreateRequest) (*types.CookSession, error) {
	if m.createSession == nil {
		return &types.CookSession{ID: uuid.New(), DishName: req.DishName}, nil
	}
	return m.createSession(req)
}

func (m *mockStore) ListCookingSessions(_ context.Context, _ string, _ uuid.UUID, limit int) ([]types.CookSession, error) {
	if m.listSessions == nil {
		return []types.CookSession{}, nil
	}
	return m.listSessions(limit)
}

func (m *mockStore) GetCookingSessionDetail(_ context.Context, _ string, _ uuid.UUID, sessionID uuid.UUID) (*types.HistoryDetailResponse, error) {
	if m.sessionDetail == nil {
		return &types.HistoryDetailResponse{Session: types.CookSession{ID: sessionID}, Followups: []types.FollowupMessage{}}, nil
	}
	return m.sessionDetail(sessionID)
}

func (m *mockStore) CreateFollowup(_ context.Context, _ string, _ uuid.UUID, sessionID uuid.UUID, question, answer string) error {
	if m.createFollowup == nil {
		return nil
	}
	return m.createFollowup(sessionID, question, answer)
}

// mockLLM implements service.ILLMService with per-test function fields.
type mockLLM struct {
	dishCards       func(userQuery string, pantry []types.PantryItem, apiKeyOverride string) (*types.ChatResponse, error)
	recipeDetail    func(dishName string, apiKeyOverride string) (*types.RecipeDetail, error)
	assistantAnswer func(dishName, question string) (string, error)
	transcribe      func(audioBase64 string) (string, error)
}

func (m *mockLLM) GenerateDishCards(_ context.Context, userQuery string, pantry []types.PantryItem, apiKeyOverride string) (*types.ChatResponse, error) {
	if m.dishCards == nil {
		return &types.ChatResponse{Dishes: []types.Dish{}}, nil
	}
	return m.dishCards(userQuery, pantry, apiKeyOverride)
}

func (m *mockLLM) GenerateRecipeDetail(_ context.Context, dishName string, _ []types.PantryItem, apiKeyOverride string) (*types.RecipeDetail, error) {
	if m.recipeDetail == nil {
		return &types.RecipeDetail{Title: dishName, Difficulty: "Easy"}, nil
	}
	return m.recipeDetail(dishName, apiKeyOverride)
}

func (m *mockLLM) GenerateAssistantAnswer(_ context.Context, dishName, question string, _ []types.PantryItem, _ string) (string, error) {
	if m.assistantAnswer == nil {
		return "answer", nil
	}
	return m.assistantAnswer(dishName, question)
}

func (m *mockLLM) Transcribe(_ context.Context, audioBase64, _ string) (string, error) {
	if m.transcribe == nil {
		return "transcribed", nil
	}
	return m.transcribe(audioBase64)
}

// mockAuth implements service.IAuthService for the login handler.
type mockAuth struct {
	login func(email, password string) (*types.AuthTokenResponse, error)
}

func (m *mockAuth) Login(_ context.Context, email, password string) (*types.AuthTokenResponse, error) {
	return m.login(email, password)
}

func (m *mockAuth) VerifyToken(_ context.Context, _ string) (*types.AuthUser, error) {
	return nil, errUnauthorizedToken
}

// newProtectedRouter builds an engine with the auth middleware in front of the
// routes registered by register.
func newProtectedRouter(register func(rg *gin.RouterGroup)) *gin.Engine {
	engine := gin.New()
	protected := engine.Group("")
	protected.Use(middleware.AuthMiddleware(&stubVerifier{}))
	register(protected)
	return engine
}

func performRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer good-token")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func performRaw(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer good-token")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func testLogger() *zap.Logger { return zap.NewNop() }
