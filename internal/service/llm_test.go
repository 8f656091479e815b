package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/config"
	"github.com/pantrypilot/backend/internal/types"
)

// completionServer returns a Groq-shaped chat completion whose content is raw.
func completionServer(t *testing.T, raw string, capture *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": raw}},
			},
		})
	}))
}

func newTestLLM(t *testing.T, srv *httptest.Server) *LLMService {
	t.Helper()
	t.Cleanup(srv.Close)
	return NewLLMService(&config.Config{GroqAPIKey: "configured-key", GroqAPIURL: srv.URL}, zap.NewNop())
}

func stringPtr(s string) *string { return &s }

func TestLLMService_GenerateDishCards(t *testing.T) {
	t.Run("coerces numeric fields and validates", func(t *testing.T) {
		var captured map[string]interface{}
		srv := completionServer(t, `{
			"thought": "pantry has rice",
			"dishes": [{
				"name": "Fried Rice",
				"match_score": 85,
				"cooking_time": 25,
				"missing_items": [{"name": "spring onion", "cost_est": 15}]
			}]
		}`, &captured)
		llm := newTestLLM(t, srv)

		pantry := []types.PantryItem{
			{Name: "Rice", IsInStock: true, Quantity: stringPtr("2 kg")},
			{Name: "Milk", IsInStock: false},
		}
		resp, err := llm.GenerateDishCards(context.Background(), "something quick", pantry, "")
		require.NoError(t, err)

		require.Len(t, resp.Dishes, 1)
		assert.Equal(t, "25", resp.Dishes[0].CookingTime)
		assert.Equal(t, "15", resp.Dishes[0].MissingItems[0].CostEst)

		// Only in-stock items are offered to the model.
		messages := captured["messages"].([]interface{})
		userMsg := messages[1].(map[string]interface{})["content"].(string)
		assert.Contains(t, userMsg, "Rice (2 kg)")
		assert.NotContains(t, userMsg, "Milk")
		assert.Equal(t, "json_object", captured["response_format"].(map[string]interface{})["type"])
	})

	t.Run("out-of-range match score fails validation", func(t *testing.T) {
		srv := completionServer(t, `{"thought": "x", "dishes": [{"name": "Dish", "match_score": 150, "missing_items": [], "cooking_time": "5"}]}`, nil)
		llm := newTestLLM(t, srv)

		_, err := llm.GenerateDishCards(context.Background(), "q", nil, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed validation")
	})

	t.Run("missing api key is a configuration fault", func(t *testing.T) {
		llm := NewLLMService(&config.Config{GroqAPIURL: "http://unused"}, zap.NewNop())
		_, err := llm.GenerateDishCards(context.Background(), "q", nil, "")
		assert.True(t, errors.Is(err, ErrConfig))
	})

	t.Run("header key override is forwarded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer override-key", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": `{"thought": "t", "dishes": []}`}},
				},
			})
		}))
		llm := newTestLLM(t, srv)

		_, err := llm.GenerateDishCards(context.Background(), "q", nil, "override-key")
		require.NoError(t, err)
	})

	t.Run("unreachable api is service unavailable", func(t *testing.T) {
		srv := httptest.NewServer(nil)
		srv.Close()
		llm := NewLLMService(&config.Config{GroqAPIKey: "k", GroqAPIURL: srv.URL}, zap.NewNop())

		_, err := llm.GenerateDishCards(context.Background(), "q", nil, "")
		assert.True(t, errors.Is(err, ErrUnavailable))
	})
}

func TestLLMService_GenerateRecipeDetail(t *testing.T) {
	t.Run("normalizes drifted model output into the strict schema", func(t *testing.T) {
		srv := completionServer(t, `{
			"title": "Dal Tadka",
			"description": "Comfort food",
			"prep_time_minutes": "10",
			"cook_time_minutes": 25,
			"servings": "4",
			"difficulty": "MEDIUM",
			"calories_per_serving": "abc",
			"ingredients": [{"name": "toor dal", "quantity": 1.5}],
			"steps": [
				{"instruction": "Rinse the dal"},
				{"instruction": "Pressure cook", "timer_seconds": "600"}
			]
		}`, nil)
		llm := newTestLLM(t, srv)

		recipe, err := llm.GenerateRecipeDetail(context.Background(), "Dal Tadka", nil, "")
		require.NoError(t, err)

		assert.Equal(t, 10, recipe.PrepTimeMinutes)
		assert.Equal(t, 25, recipe.CookTimeMinutes)
		assert.Equal(t, 4, recipe.Servings)
		assert.Equal(t, "Medium", recipe.Difficulty)
		assert.Nil(t, recipe.CaloriesPerServing)
		assert.Equal(t, "1.5", recipe.Ingredients[0].Quantity)
		require.Len(t, recipe.Steps, 2)
		assert.Equal(t, 1, recipe.Steps[0].StepNumber)
		assert.Equal(t, 2, recipe.Steps[1].StepNumber)
		require.NotNil(t, recipe.Steps[1].TimerSeconds)
		assert.Equal(t, 600, *recipe.Steps[1].TimerSeconds)
		assert.NotNil(t, recipe.ChefTips)
	})

	t.Run("malformed json surfaces as a generic failure", func(t *testing.T) {
		srv := completionServer(t, `not json at all`, nil)
		llm := newTestLLM(t, srv)

		_, err := llm.GenerateRecipeDetail(context.Background(), "Dal", nil, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed json")
	})
}

func TestLLMService_GenerateAssistantAnswer(t *testing.T) {
	srv := completionServer(t, "  Use a heavy pan.\n", nil)
	llm := newTestLLM(t, srv)

	answer, err := llm.GenerateAssistantAnswer(context.Background(), "Dosa", "Which pan?", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "Use a heavy pan.", answer)
}

func TestLLMService_Transcribe(t *testing.T) {
	t.Run("uploads decoded audio and returns text", func(t *testing.T) {
		audio := []byte("RIFF-fake-wav")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/audio/transcriptions", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "whisper-large-v3", r.FormValue("model"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "audio.wav", header.Filename)

			json.NewEncoder(w).Encode(map[string]string{"text": "make me dinner"})
		}))
		llm := newTestLLM(t, srv)

		text, err := llm.Transcribe(context.Background(), base64.StdEncoding.EncodeToString(audio), "")
		require.NoError(t, err)
		assert.Equal(t, "make me dinner", text)
	})

	t.Run("invalid base64 is a caller fault", func(t *testing.T) {
		srv := completionServer(t, "", nil)
		llm := newTestLLM(t, srv)

		_, err := llm.Transcribe(context.Background(), "!!! not base64 !!!", "")
		assert.True(t, errors.Is(err, ErrBadInput))
	})
}
