package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/config"
	"github.com/pantrypilot/backend/internal/types"
)

// StoreService talks to the hosted row-store platform (PostgREST-style API).
// The caller's access token is forwarded on every request so the platform's
// row-level security scopes all reads and writes to the authenticated user.
// There are no retries, transactions or batching; every method is one or two
// synchronous round trips.
type StoreService struct {
	cfg    *config.Config
	client *http.Client
	logger *zap.Logger
}

// NewStoreService creates a new StoreService instance
func NewStoreService(cfg *config.Config, logger *zap.Logger) *StoreService {
	return &StoreService{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

func (s *StoreService) restURL(table string, query url.Values) (string, error) {
	if s.cfg.SupabaseURL == "" || s.cfg.DBAPIKey() == "" {
		return "", fmt.Errorf("%w: supabase database configuration is incomplete", ErrConfig)
	}
	u := s.cfg.SupabaseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

// do performs one request against the row store. A non-2xx response is decoded
// into a StoreError so callers classify failures by SQLSTATE code and status,
// never by matching message text.
func (s *StoreService) do(ctx context.Context, method, table string, query url.Values, prefer, accessToken string, body, out interface{}) error {
	u, err := s.restURL(table, query)
	if err != nil {
		return err
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", table, err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", table, err)
	}
	req.Header.Set("apikey", s.cfg.DBAPIKey())
	token := accessToken
	if token == "" {
		token = s.cfg.DBAPIKey()
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("row store request to %s failed: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		storeErr := &StoreError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(storeErr)
		if storeErr.Message == "" {
			storeErr.Message = http.StatusText(resp.StatusCode)
		}
		s.logger.Warn("row store request rejected",
			zap.String("table", table),
			zap.Int("status", storeErr.Status),
			zap.String("code", storeErr.Code))
		return storeErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", table, err)
		}
	}
	return nil
}

// EnsureProfile upserts the caller's profiles row. Every persisted entity
// references it, so this runs before any pantry, ingredient or history write.
func (s *StoreService) EnsureProfile(ctx context.Context, accessToken string, userID uuid.UUID) error {
	query := url.Values{"on_conflict": {"id"}}
	payload := map[string]string{"id": userID.String()}
	return s.do(ctx, http.MethodPost, "profiles", query, "resolution=merge-duplicates", accessToken, payload, nil)
}

type ingredientRow struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	DefaultUnit string `json:"default_unit"`
}

type pantryRow struct {
	IngredientID int     `json:"ingredient_id"`
	IsInStock    bool    `json:"is_in_stock"`
	Quantity     *string `json:"quantity"`
}

// GetPantry returns the full ingredient catalog merged with the caller's stock
// state. Ingredients without a pantry row are reported as out of stock.
func (s *StoreService) GetPantry(ctx context.Context, accessToken string, userID uuid.UUID) ([]types.PantryItem, error) {
	var ingredients []ingredientRow
	query := url.Values{
		"select": {"id,name,category,default_unit"},
		"order":  {"name"},
	}
	if err := s.do(ctx, http.MethodGet, "ingredients", query, "", accessToken, nil, &ingredients); err != nil {
		return nil, err
	}

	var pantry []pantryRow
	query = url.Values{
		"select":  {"ingredient_id,is_in_stock,quantity"},
		"user_id": {"eq." + userID.String()},
	}
	if err := s.do(ctx, http.MethodGet, "pantry_items", query, "", accessToken, nil, &pantry); err != nil {
		return nil, err
	}

	byIngredient := make(map[int]pantryRow, len(pantry))
	for _, row := range pantry {
		byIngredient[row.IngredientID] = row
	}

	items := make([]types.PantryItem, 0, len(ingredients))
	for _, ing := range ingredients {
		item := types.PantryItem{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Category:     ing.Category,
			DefaultUnit:  ing.DefaultUnit,
		}
		if row, ok := byIngredient[ing.ID]; ok {
			item.IsInStock = row.IsInStock
			item.Quantity = row.Quantity
		}
		items = append(items, item)
	}
	return items, nil
}

// UpsertPantryItem writes the caller's stock state for one ingredient. When the
// caller did not supply a quantity the previously stored value is preserved;
// an explicit quantity, including null or empty string, overwrites it.
func (s *StoreService) UpsertPantryItem(ctx context.Context, accessToken string, userID uuid.UUID, ingredientID int, isInStock bool, quantity *string, quantityProvided bool) error {
	resolved := quantity
	if !quantityProvided {
		var existing []pantryRow
		query := url.Values{
			"select":        {"ingredient_id,is_in_stock,quantity"},
			"user_id":       {"eq." + userID.String()},
			"ingredient_id": {"eq." + strconv.Itoa(ingredientID)},
			"limit":         {"1"},
		}
		if err := s.do(ctx, http.MethodGet, "pantry_items", query, "", accessToken, nil, &existing); err != nil {
			return err
		}
		if len(existing) > 0 {
			resolved = existing[0].Quantity
		}
	}

	query := url.Values{"on_conflict": {"user_id,ingredient_id"}}
	payload := map[string]interface{}{
		"user_id":       userID.String(),
		"ingredient_id": ingredientID,
		"is_in_stock":   isInStock,
		"quantity":      resolved,
	}
	return s.do(ctx, http.MethodPost, "pantry_items", query, "resolution=merge-duplicates", accessToken, payload, nil)
}

// ListIngredients returns catalog ingredients ordered by name, optionally
// filtered by a case-insensitive name substring.
func (s *StoreService) ListIngredients(ctx context.Context, accessToken, search string, limit int) ([]types.IngredientSummary, error) {
	query := url.Values{
		"select": {"id,name,category,default_unit"},
		"order":  {"name"},
		"limit":  {strconv.Itoa(limit)},
	}
	if search != "" {
		query.Set("name", "ilike.*"+search+"*")
	}

	var rows []ingredientRow
	if err := s.do(ctx, http.MethodGet, "ingredients", query, "", accessToken, nil, &rows); err != nil {
		return nil, err
	}

	items := make([]types.IngredientSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, types.IngredientSummary{
			ID:          row.ID,
			Name:        row.Name,
			Category:    row.Category,
			DefaultUnit: row.DefaultUnit,
		})
	}
	return items, nil
}

// CreateIngredient inserts a global catalog ingredient. A name collision
// surfaces as a conflict via the StoreError SQLSTATE code.
func (s *StoreService) CreateIngredient(ctx context.Context, accessToken, name, category, defaultUnit string) (*types.IngredientSummary, error) {
	payload := map[string]string{
		"name":         strings.TrimSpace(name),
		"category":     strings.TrimSpace(category),
		"default_unit": strings.TrimSpace(defaultUnit),
	}

	var rows []ingredientRow
	if err := s.do(ctx, http.MethodPost, "ingredients", nil, "return=representation", accessToken, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ingredient could not be created")
	}
	return &types.IngredientSummary{
		ID:          rows[0].ID,
		Name:        rows[0].Name,
		Category:    rows[0].Category,
		DefaultUnit: rows[0].DefaultUnit,
	}, nil
}

const sessionColumns = "id,dish_name,source_query,people_count,extra_budget_inr,max_time_minutes,recipe_snapshot,dish_card_snapshot,cooked_at"

type sessionRow struct {
	ID               uuid.UUID              `json:"id"`
	DishName         string                 `json:"dish_name"`
	SourceQuery      *string                `json:"source_query"`
	PeopleCount      *int                   `json:"people_count"`
	ExtraBudgetINR   *string                `json:"extra_budget_inr"`
	MaxTimeMinutes   *int                   `json:"max_time_minutes"`
	RecipeSnapshot   map[string]interface{} `json:"recipe_snapshot"`
	DishCardSnapshot map[string]interface{} `json:"dish_card_snapshot"`
	CookedAt         interface{}            `json:"cooked_at"`
}

type followupRow struct {
	ID        uuid.UUID   `json:"id"`
	Question  string      `json:"question"`
	Answer    string      `json:"answer"`
	CreatedAt interface{} `json:"created_at"`
}

func sessionRowToResponse(row sessionRow) (types.CookSession, error) {
	cookedAt, err := ParseTimestamp(row.CookedAt)
	if err != nil {
		return types.CookSession{}, err
	}
	ist := ISTProjection(cookedAt)
	return types.CookSession{
		ID:               row.ID,
		DishName:         row.DishName,
		SourceQuery:      row.SourceQuery,
		PeopleCount:      row.PeopleCount,
		ExtraBudgetINR:   row.ExtraBudgetINR,
		MaxTimeMinutes:   row.MaxTimeMinutes,
		RecipeSnapshot:   row.RecipeSnapshot,
		DishCardSnapshot: row.DishCardSnapshot,
		CookedAt:         cookedAt,
		CookedAtIST:      ist.Full,
		CookedDayIST:     ist.Day,
		CookedDateIST:    ist.Date,
		CookedTimeIST:    ist.Clock,
	}, nil
}

func followupRowToResponse(row followupRow) (types.FollowupMessage, error) {
	createdAt, err := ParseTimestamp(row.CreatedAt)
	if err != nil {
		return types.FollowupMessage{}, err
	}
	return types.FollowupMessage{
		ID:           row.ID,
		Question:     row.Question,
		Answer:       row.Answer,
		CreatedAt:    createdAt,
		CreatedAtIST: ISTProjection(createdAt).Full,
	}, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// CreateCookingSession records one cooked dish. Sessions are immutable once
// created; the response carries the derived IST projections.
func (s *StoreService) CreateCookingSession(ctx context.Context, accessToken string, userID uuid.UUID, req types.CookSessionCreateRequest) (*types.CookSession, error) {
	payload := map[string]interface{}{
		"user_id":            userID.String(),
		"dish_name":          strings.TrimSpace(req.DishName),
		"source_query":       trimmedOrNil(req.SourceQuery),
		"people_count":       req.PeopleCount,
		"extra_budget_inr":   trimmedOrNil(req.ExtraBudgetINR),
		"max_time_minutes":   req.MaxTimeMinutes,
		"recipe_snapshot":    req.RecipeSnapshot,
		"dish_card_snapshot": req.DishCardSnapshot,
	}

	var rows []sessionRow
	if err := s.do(ctx, http.MethodPost, "cooking_sessions", nil, "return=representation", accessToken, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cooking session could not be created")
	}
	session, err := sessionRowToResponse(rows[0])
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListCookingSessions returns the caller's sessions, newest first.
func (s *StoreService) ListCookingSessions(ctx context.Context, accessToken string, userID uuid.UUID, limit int) ([]types.CookSession, error) {
	query := url.Values{
		"select":  {sessionColumns},
		"user_id": {"eq." + userID.String()},
		"order":   {"cooked_at.desc"},
		"limit":   {strconv.Itoa(limit)},
	}

	var rows []sessionRow
	if err := s.do(ctx, http.MethodGet, "cooking_sessions", query, "", accessToken, nil, &rows); err != nil {
		return nil, err
	}

	items := make([]types.CookSession, 0, len(rows))
	for _, row := range rows {
		session, err := sessionRowToResponse(row)
		if err != nil {
			return nil, err
		}
		items = append(items, session)
	}
	return items, nil
}

// GetCookingSessionDetail returns one of the caller's sessions with its
// followups in creation order. A session that is absent or owned by a
// different user is a not-found condition.
func (s *StoreService) GetCookingSessionDetail(ctx context.Context, accessToken string, userID, sessionID uuid.UUID) (*types.HistoryDetailResponse, error) {
	query := url.Values{
		"select":  {sessionColumns},
		"user_id": {"eq." + userID.String()},
		"id":      {"eq." + sessionID.String()},
		"limit":   {"1"},
	}

	var rows []sessionRow
	if err := s.do(ctx, http.MethodGet, "cooking_sessions", query, "", accessToken, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cooking session %s: %w", sessionID, ErrNotFound)
	}
	session, err := sessionRowToResponse(rows[0])
	if err != nil {
		return nil, err
	}

	query = url.Values{
		"select":     {"id,question,answer,created_at"},
		"user_id":    {"eq." + userID.String()},
		"session_id": {"eq." + sessionID.String()},
		"order":      {"created_at.asc"},
	}
	var followupRows []followupRow
	if err := s.do(ctx, http.MethodGet, "cooking_followups", query, "", accessToken, nil, &followupRows); err != nil {
		return nil, err
	}

	followups := make([]types.FollowupMessage, 0, len(followupRows))
	for _, row := range followupRows {
		followup, err := followupRowToResponse(row)
		if err != nil {
			return nil, err
		}
		followups = append(followups, followup)
	}

	return &types.HistoryDetailResponse{Session: session, Followups: followups}, nil
}

// CreateFollowup appends a question/answer pair to an existing session.
func (s *StoreService) CreateFollowup(ctx context.Context, accessToken string, userID, sessionID uuid.UUID, question, answer string) error {
	payload := map[string]string{
		"user_id":    userID.String(),
		"session_id": sessionID.String(),
		"question":   strings.TrimSpace(question),
		"answer":     strings.TrimSpace(answer),
	}
	return s.do(ctx, http.MethodPost, "cooking_followups", nil, "", accessToken, payload, nil)
}
