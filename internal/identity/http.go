package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"carrental/internal/models"
)

// HTTPVerifier resolves tokens by calling the provider's userinfo endpoint,
// matching the original delegation model: every request costs one upstream
// round-trip unless wrapped in a CachedVerifier.
type HTTPVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPVerifier(baseURL, apiKey string) (*HTTPVerifier, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("identity base url is empty")
	}
	return &HTTPVerifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type userinfoResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	} `json:"user_metadata"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		req.Header.Set("apikey", v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var body userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}
	if body.ID == "" {
		return nil, ErrInvalidToken
	}

	return &models.Identity{
		ID:    body.ID,
		Email: body.Email,
		Name:  body.UserMetadata.FullName,
		Role:  body.UserMetadata.Role,
	}, nil
}
