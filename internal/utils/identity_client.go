package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
)

// IdentityProviderHTTPClient mirrors resolved balances to the external
// identity provider over its REST API.
type IdentityProviderHTTPClient struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewIdentityProviderHTTPClient creates a client for the identity provider.
func NewIdentityProviderHTTPClient(baseURL, authToken string) *IdentityProviderHTTPClient {
	return &IdentityProviderHTTPClient{
		baseURL:   baseURL,
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ portssvc.IdentityProviderClient = (*IdentityProviderHTTPClient)(nil)

type updateBalancePayload struct {
	RingBalance int64 `json:"ring_balance"`
}

// UpdateBalance pushes one user's balance. The call blocks until the
// provider responds; pacing is the caller's responsibility.
func (c *IdentityProviderHTTPClient) UpdateBalance(ctx context.Context, userID string, balance int64) error {
	if c.baseURL == "" {
		return fmt.Errorf("identity provider URL is not configured")
	}

	body, err := json.Marshal(updateBalancePayload{RingBalance: balance})
	if err != nil {
		return fmt.Errorf("failed to encode balance payload for user %s: %w", userID, err)
	}

	url := fmt.Sprintf("%s/users/%s/attributes", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build identity provider request for user %s: %w", userID, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider call failed for user %s: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("identity provider returned status %d for user %s", resp.StatusCode, userID)
	}
	return nil
}
