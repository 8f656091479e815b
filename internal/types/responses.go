package types

import (
	"time"

	"github.com/google/uuid"
)

// PantryItem represents a catalog ingredient merged with the caller's stock state
type PantryItem struct {
	IngredientID int     `json:"ingredient_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	DefaultUnit  string  `json:"default_unit"`
	IsInStock    bool    `json:"is_in_stock"`
	Quantity     *string `json:"quantity"`
}

// PantryResponse is the response body for pantry reads
type PantryResponse struct {
	Items []PantryItem `json:"items"`
}

// IngredientSummary represents a global catalog ingredient
type IngredientSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	DefaultUnit string `json:"default_unit"`
}

// IngredientListResponse is the response body for ingredient listings
type IngredientListResponse struct {
	Items []IngredientSummary `json:"items"`
}

// MissingItem is an ingredient the caller would have to buy for a suggested dish
type MissingItem struct {
	Name    string `json:"name" validate:"required"`
	CostEst string `json:"cost_est"`
}

// Dish is a transient, LLM-generated suggestion card
type Dish struct {
	Name         string        `json:"name" validate:"required"`
	MatchScore   int           `json:"match_score" validate:"gte=0,lte=100"`
	MissingItems []MissingItem `json:"missing_items" validate:"dive"`
	CookingTime  string        `json:"cooking_time"`
}

// ChatResponse is the response body for dish suggestions
type ChatResponse struct {
	Thought string `json:"thought"`
	Dishes  []Dish `json:"dishes" validate:"dive"`
}

// RecipeIngredient is one line of a structured recipe
type RecipeIngredient struct {
	Name     string  `json:"name" validate:"required"`
	Quantity string  `json:"quantity"`
	Notes    *string `json:"notes,omitempty"`
}

// RecipeStep is one instruction of a structured recipe
type RecipeStep struct {
	StepNumber   int    `json:"step_number"`
	Instruction  string `json:"instruction" validate:"required"`
	TimerSeconds *int   `json:"timer_seconds,omitempty"`
}

// RecipeDetail is a full structured recipe as shown to the user
type RecipeDetail struct {
	Title              string             `json:"title" validate:"required"`
	Description        string             `json:"description"`
	PrepTimeMinutes    int                `json:"prep_time_minutes"`
	CookTimeMinutes    int                `json:"cook_time_minutes"`
	Servings           int                `json:"servings"`
	Difficulty         string             `json:"difficulty" validate:"oneof=Easy Medium Hard"`
	CaloriesPerServing *int               `json:"calories_per_serving"`
	Ingredients        []RecipeIngredient `json:"ingredients" validate:"dive"`
	Steps              []RecipeStep       `json:"steps" validate:"dive"`
	ChefTips           []string           `json:"chef_tips"`
}

// RecipeAssistantResponse carries either a structured recipe or a free-form answer
type RecipeAssistantResponse struct {
	Answer *string       `json:"answer,omitempty"`
	Recipe *RecipeDetail `json:"recipe,omitempty"`
}

// CookSession is a persisted cooking session with derived IST projections.
// CookedAt is the stored UTC instant; the IST strings are display-only.
type CookSession struct {
	ID               uuid.UUID              `json:"id"`
	DishName         string                 `json:"dish_name"`
	SourceQuery      *string                `json:"source_query"`
	PeopleCount      *int                   `json:"people_count"`
	ExtraBudgetINR   *string                `json:"extra_budget_inr"`
	MaxTimeMinutes   *int                   `json:"max_time_minutes"`
	RecipeSnapshot   map[string]interface{} `json:"recipe_snapshot"`
	DishCardSnapshot map[string]interface{} `json:"dish_card_snapshot"`
	CookedAt         time.Time              `json:"cooked_at"`
	CookedAtIST      string                 `json:"cooked_at_ist"`
	CookedDayIST     string                 `json:"cooked_day_ist"`
	CookedDateIST    string                 `json:"cooked_date_ist"`
	CookedTimeIST    string                 `json:"cooked_time_ist"`
}

// HistoryListResponse is the response body for history listings
type HistoryListResponse struct {
	Items []CookSession `json:"items"`
}

// FollowupMessage is a question/answer pair attached to a cooking session
type FollowupMessage struct {
	ID           uuid.UUID `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedAtIST string    `json:"created_at_ist"`
}

// HistoryDetailResponse is one session together with its followups
type HistoryDetailResponse struct {
	Session   CookSession       `json:"session"`
	Followups []FollowupMessage `json:"followups"`
}

// AuthTokenResponse is the token bundle returned by a password-grant login
type AuthTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
