package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/config"
	"github.com/pantrypilot/backend/internal/types"
)

const (
	chatModel          = "openai/gpt-oss-120b"
	transcriptionModel = "whisper-large-v3"
)

// LLMService handles interactions with the Groq inference API. All calls are
// single synchronous round trips; a failed call fails the inbound request.
type LLMService struct {
	apiKey   string
	apiURL   string
	client   *http.Client
	validate *validator.Validate
	logger   *zap.Logger
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg *config.Config, logger *zap.Logger) *LLMService {
	return &LLMService{
		apiKey:   cfg.GroqAPIKey,
		apiURL:   strings.TrimRight(cfg.GroqAPIURL, "/"),
		client:   &http.Client{Timeout: 60 * time.Second},
		validate: validator.New(),
		logger:   logger,
	}
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

// resolveAPIKey prefers a per-request override from the X-Custom-Api-Key
// header over the configured key.
func (s *LLMService) resolveAPIKey(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if s.apiKey != "" {
		return s.apiKey, nil
	}
	return "", fmt.Errorf("%w: no groq api key provided", ErrConfig)
}

// completion performs one chat completion round trip and returns the raw content.
func (s *LLMService) completion(ctx context.Context, apiKey string, messages []Message, jsonMode bool) (string, error) {
	reqBody := completionRequest{
		Model:       chatModel,
		Messages:    messages,
		Temperature: 0.2,
	}
	if jsonMode {
		reqBody.ResponseFormat = map[string]string{"type": "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq api unavailable: %w", ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: groq rejected the api key", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("groq completion failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", fmt.Errorf("groq api request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from groq api")
	}
	return result.Choices[0].Message.Content, nil
}

// pantryLines renders the in-stock pantry for prompting.
func pantryLines(pantry []types.PantryItem) []string {
	lines := make([]string, 0, len(pantry))
	for _, item := range pantry {
		if !item.IsInStock {
			continue
		}
		quantity := "unspecified quantity"
		if item.Quantity != nil && *item.Quantity != "" {
			quantity = *item.Quantity
		}
		lines = append(lines, fmt.Sprintf("%s (%s)", item.Name, quantity))
	}
	return lines
}

// GenerateDishCards asks the model for dish suggestions in JSON mode, then
// normalizes and strictly validates the payload.
func (s *LLMService) GenerateDishCards(ctx context.Context, userQuery string, pantry []types.PantryItem, apiKeyOverride string) (*types.ChatResponse, error) {
	apiKey, err := s.resolveAPIKey(apiKeyOverride)
	if err != nil {
		return nil, err
	}

	systemPrompt := "Role: You are PantryPilot, a smart cooking assistant. " +
		"Return strict JSON only. Keys: thought (string), dishes (array). " +
		"Each dish needs name, match_score (0-100), missing_items (name,cost_est), " +
		"and cooking_time. Use INR currency when estimating costs."
	userPrompt := fmt.Sprintf("User Inventory: [%s]\nUser Query: %s\nSuggest 2 to 5 dishes based strictly on inventory + query.",
		strings.Join(pantryLines(pantry), ", "), userQuery)

	content, err := s.completion(ctx, apiKey, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, true)
	if err != nil {
		return nil, err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("model returned malformed json: %w", err)
	}
	payload = NormalizeDishPayload(payload)

	var response types.ChatResponse
	if err := s.decodeStrict(payload, &response); err != nil {
		return nil, fmt.Errorf("model response failed validation: %w", err)
	}
	return &response, nil
}

// GenerateRecipeDetail asks the model for one structured recipe in JSON mode,
// then normalizes and strictly validates the payload.
func (s *LLMService) GenerateRecipeDetail(ctx context.Context, dishName string, pantry []types.PantryItem, apiKeyOverride string) (*types.RecipeDetail, error) {
	apiKey, err := s.resolveAPIKey(apiKeyOverride)
	if err != nil {
		return nil, err
	}

	systemPrompt := "You are PantryPilot's recipe assistant. Return strict JSON only with keys: " +
		"title (string), description (string), prep_time_minutes (int), cook_time_minutes (int), " +
		"servings (int), difficulty (Easy/Medium/Hard), calories_per_serving (int or null), " +
		"ingredients (array of {name, quantity, notes}), " +
		"steps (array of {step_number, instruction, timer_seconds}), chef_tips (array of strings). " +
		"Prefer the user's pantry; keep instructions practical."
	userPrompt := fmt.Sprintf("Pantry in-stock items: [%s]\nDish: %s\nProvide the complete recipe.",
		strings.Join(pantryLines(pantry), ", "), dishName)

	content, err := s.completion(ctx, apiKey, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, true)
	if err != nil {
		return nil, err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("model returned malformed json: %w", err)
	}
	payload = NormalizeRecipePayload(payload)

	var recipe types.RecipeDetail
	if err := s.decodeStrict(payload, &recipe); err != nil {
		return nil, fmt.Errorf("model response failed validation: %w", err)
	}
	return &recipe, nil
}

// GenerateAssistantAnswer asks the model a free-form cooking question about a dish.
func (s *LLMService) GenerateAssistantAnswer(ctx context.Context, dishName, question string, pantry []types.PantryItem, apiKeyOverride string) (string, error) {
	apiKey, err := s.resolveAPIKey(apiKeyOverride)
	if err != nil {
		return "", err
	}

	var task string
	if q := strings.TrimSpace(question); q != "" {
		task = fmt.Sprintf("Dish: %s\nUser follow-up question: %s\nAnswer specifically for this dish in concise steps and practical guidance.", dishName, q)
	} else {
		task = fmt.Sprintf("Dish: %s\nProvide a complete practical recipe including ingredients, steps, time, tips, and substitutions based on user's pantry.", dishName)
	}

	content, err := s.completion(ctx, apiKey, []Message{
		{Role: "system", Content: "You are PantryPilot's recipe assistant. Give clear, usable cooking guidance. Keep tone concise and practical."},
		{Role: "user", Content: fmt.Sprintf("Pantry in-stock items: [%s]\n\n%s", strings.Join(pantryLines(pantry), ", "), task)},
	}, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// Transcribe converts base64-encoded audio to text via the transcription endpoint.
func (s *LLMService) Transcribe(ctx context.Context, audioBase64, apiKeyOverride string) (string, error) {
	apiKey, err := s.resolveAPIKey(apiKeyOverride)
	if err != nil {
		return "", err
	}

	audio, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return "", fmt.Errorf("%w: audio_base64 is not valid base64", ErrBadInput)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if err := writer.WriteField("model", transcriptionModel); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq api unavailable: %w", ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: groq rejected the api key", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Warn("groq transcription failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", fmt.Errorf("groq transcription failed with status %d", resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return result.Text, nil
}

// decodeStrict round-trips a normalized payload through the strict response
// type and its validation tags. This is the single point where malformed model
// output surfaces as an error.
func (s *LLMService) decodeStrict(payload map[string]interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return s.validate.Struct(out)
}
