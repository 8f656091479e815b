package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrypilot/backend/internal/service"
	"github.com/pantrypilot/backend/internal/types"
)

func ingredientRouter(store *mockStore) *gin.Engine {
	return newProtectedRouter(func(rg *gin.RouterGroup) {
		NewIngredientHandler(store, testLogger()).RegisterRoutes(rg)
	})
}

func TestIngredientHandler_List(t *testing.T) {
	t.Run("passes the search filter and default limit through", func(t *testing.T) {
		var gotSearch string
		var gotLimit int
		store := &mockStore{
			listIngredients: func(search string, limit int) ([]types.IngredientSummary, error) {
				gotSearch = search
				gotLimit = limit
				return []types.IngredientSummary{{ID: 3, Name: "Tomato", Category: "Vegetables", DefaultUnit: "kg"}}, nil
			},
		}

		w := performRequest(t, ingredientRouter(store), http.MethodGet, "/ingredients?search=tom", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tom", gotSearch)
		assert.Equal(t, 50, gotLimit)

		var resp types.IngredientListResponse
		decodeBody(t, w, &resp)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Tomato", resp.Items[0].Name)
	})

	t.Run("honors an explicit limit", func(t *testing.T) {
		var gotLimit int
		store := &mockStore{
			listIngredients: func(_ string, limit int) ([]types.IngredientSummary, error) {
				gotLimit = limit
				return []types.IngredientSummary{}, nil
			},
		}

		w := performRequest(t, ingredientRouter(store), http.MethodGet, "/ingredients?limit=5", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, gotLimit)
	})

	t.Run("rejects an out-of-range limit", func(t *testing.T) {
		for _, limit := range []string{"0", "201", "-1", "abc"} {
			w := performRequest(t, ingredientRouter(&mockStore{}), http.MethodGet, "/ingredients?limit="+limit, nil, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
		}
	})

	t.Run("rejects an oversized search string", func(t *testing.T) {
		long := make([]byte, 101)
		for i := range long {
			long[i] = 'a'
		}
		w := performRequest(t, ingredientRouter(&mockStore{}), http.MethodGet, "/ingredients?search="+string(long), nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIngredientHandler_Create(t *testing.T) {
	valid := map[string]string{"name": "Paneer", "category": "Dairy", "default_unit": "g"}

	t.Run("creates a catalog ingredient", func(t *testing.T) {
		store := &mockStore{
			createIngredient: func(name, category, defaultUnit string) (*types.IngredientSummary, error) {
				assert.Equal(t, "Paneer", name)
				assert.Equal(t, "Dairy", category)
				assert.Equal(t, "g", defaultUnit)
				return &types.IngredientSummary{ID: 42, Name: name, Category: category, DefaultUnit: defaultUnit}, nil
			},
		}

		w := performRequest(t, ingredientRouter(store), http.MethodPost, "/ingredients", valid, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.IngredientSummary
		decodeBody(t, w, &resp)
		assert.Equal(t, 42, resp.ID)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		store := &mockStore{
			createIngredient: func(string, string, string) (*types.IngredientSummary, error) {
				return nil, &service.StoreError{Status: http.StatusConflict, Code: "23505", Message: "duplicate key value"}
			},
		}

		w := performRequest(t, ingredientRouter(store), http.MethodPost, "/ingredients", valid, nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		var resp map[string]string
		decodeBody(t, w, &resp)
		assert.Equal(t, "ingredient already exists", resp["error"])
	})

	t.Run("unknown category is a bad request", func(t *testing.T) {
		body := map[string]string{"name": "Paneer", "category": "Snacks", "default_unit": "g"}
		w := performRequest(t, ingredientRouter(&mockStore{}), http.MethodPost, "/ingredients", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blank fields are a bad request", func(t *testing.T) {
		body := map[string]string{"name": "  ", "category": "Dairy", "default_unit": "g"}
		w := performRequest(t, ingredientRouter(&mockStore{}), http.MethodPost, "/ingredients", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields are a bad request", func(t *testing.T) {
		w := performRequest(t, ingredientRouter(&mockStore{}), http.MethodPost, "/ingredients",
			map[string]string{"name": "Paneer"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
