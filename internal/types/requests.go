package types

import (
	"encoding/json"

	"github.com/google/uuid"
)

// IngredientCategories is the closed set of catalog categories.
var IngredientCategories = []string{
	"Vegetables",
	"Fruits",
	"Grains & Cereals",
	"Dairy",
	"Proteins",
	"Spices & Seasonings",
	"Oils",
	"Sauces",
	"Others",
}

// ValidIngredientCategory reports whether category is one of the known catalog categories.
func ValidIngredientCategory(category string) bool {
	for _, c := range IngredientCategories {
		if c == category {
			return true
		}
	}
	return false
}

// LoginRequest is the request body for password-grant login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PantryToggleRequest is the request body for toggling a pantry entry.
// QuantityProvided records whether the quantity key was present at all, so a
// toggle without quantity preserves the stored value while an explicit null
// or empty string overwrites it.
type PantryToggleRequest struct {
	IngredientID     int     `json:"ingredient_id"`
	Status           bool    `json:"status"`
	Quantity         *string `json:"quantity"`
	QuantityProvided bool    `json:"-"`
}

func (r *PantryToggleRequest) UnmarshalJSON(data []byte) error {
	type alias PantryToggleRequest
	var body alias
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, provided := keys["quantity"]

	*r = PantryToggleRequest(body)
	r.QuantityProvided = provided
	return nil
}

// IngredientCreateRequest is the request body for creating a catalog ingredient
type IngredientCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	DefaultUnit string `json:"default_unit" binding:"required"`
}

// ChatMessageRequest is the request body for dish suggestions
type ChatMessageRequest struct {
	Text           *string `json:"text"`
	AudioBase64    *string `json:"audio_base64"`
	ExtraBudgetINR *string `json:"extra_budget_inr"`
	PeopleCount    *int    `json:"people_count" binding:"omitempty,gte=1"`
	MaxTimeMinutes *int    `json:"max_time_minutes" binding:"omitempty,gte=1,lte=300"`
	Provider       string  `json:"provider"`
}

// RecipeAssistantRequest is the request body for the recipe assistant
type RecipeAssistantRequest struct {
	DishName  string     `json:"dish_name" binding:"required"`
	Question  *string    `json:"question"`
	SessionID *uuid.UUID `json:"session_id"`
}

// CookSessionCreateRequest is the request body for recording a cooking session
type CookSessionCreateRequest struct {
	DishName         string                 `json:"dish_name" binding:"required"`
	SourceQuery      *string                `json:"source_query"`
	PeopleCount      *int                   `json:"people_count" binding:"omitempty,gte=1"`
	ExtraBudgetINR   *string                `json:"extra_budget_inr"`
	MaxTimeMinutes   *int                   `json:"max_time_minutes" binding:"omitempty,gte=1,lte=300"`
	RecipeSnapshot   map[string]interface{} `json:"recipe_snapshot"`
	DishCardSnapshot map[string]interface{} `json:"dish_card_snapshot"`
}
