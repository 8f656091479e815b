package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/config"
	"github.com/pantrypilot/backend/internal/types"
)

// AuthService talks to the hosted auth platform (GoTrue-style API). Tokens are
// issued and revoked by the platform; this service only exchanges passwords for
// tokens and verifies bearer tokens on inbound requests.
type AuthService struct {
	cfg    *config.Config
	client *http.Client
	logger *zap.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Login exchanges an email/password pair for a token bundle via the password grant.
func (s *AuthService) Login(ctx context.Context, email, password string) (*types.AuthTokenResponse, error) {
	if s.cfg.SupabaseURL == "" || s.cfg.AuthAPIKey() == "" {
		return nil, fmt.Errorf("%w: supabase auth configuration is incomplete", ErrConfig)
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	url := s.cfg.SupabaseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("apikey", s.cfg.AuthAPIKey())
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase auth service unavailable: %w", ErrUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := "invalid email or password"
		var errBody struct {
			Msg              string `json:"msg"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(data, &errBody) == nil {
			if errBody.Msg != "" {
				detail = errBody.Msg
			} else if errBody.ErrorDescription != "" {
				detail = errBody.ErrorDescription
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	}

	var token types.AuthTokenResponse
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if token.TokenType == "" {
		token.TokenType = "bearer"
	}
	if token.ExpiresIn == 0 {
		token.ExpiresIn = 3600
	}
	return &token, nil
}

// VerifyToken resolves a bearer token to the authenticated user. With a
// configured JWT secret the token is validated locally; otherwise the auth
// platform's user endpoint is consulted.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*types.AuthUser, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing access token", ErrUnauthorized)
	}

	if s.cfg.SupabaseJWTSecret != "" {
		return s.verifyLocal(token)
	}
	return s.verifyRemote(ctx, token)
}

func (s *AuthService) verifyLocal(token string) (*types.AuthUser, error) {
	claims := &types.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SupabaseJWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid or expired access token", ErrUnauthorized)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token payload missing user id", ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: token subject is not a user id", ErrUnauthorized)
	}

	return &types.AuthUser{ID: userID, Email: claims.Email, AccessToken: token}, nil
}

func (s *AuthService) verifyRemote(ctx context.Context, token string) (*types.AuthUser, error) {
	if s.cfg.SupabaseURL == "" || s.cfg.AuthAPIKey() == "" {
		return nil, fmt.Errorf("%w: supabase auth configuration is incomplete", ErrConfig)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.SupabaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", s.cfg.AuthAPIKey())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase auth service unavailable: %w", ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: invalid or expired access token", ErrUnauthorized)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	if payload.ID == "" {
		return nil, fmt.Errorf("%w: token payload missing user id", ErrUnauthorized)
	}
	userID, err := uuid.Parse(payload.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: token payload has malformed user id", ErrUnauthorized)
	}

	return &types.AuthUser{ID: userID, Email: payload.Email, AccessToken: token}, nil
}
