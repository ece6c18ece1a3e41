package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tokoline/tokochat/internal/auth"
	"github.com/tokoline/tokochat/internal/chat"
)

// ErrUnauthorized indicates the credential was rejected by the user API.
var ErrUnauthorized = errors.New("users: unauthorized")

// Client talks to the storefront user/membership API. Every call requires
// an auth context; there is no anonymous access and no local fallback.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a user API client, or nil when no base URL is
// configured.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type profilePayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tier   string `json:"tier"`
	Points int    `json:"points"`
	Active bool   `json:"active"`
}

// Status fetches the membership profile for a user.
func (c *Client) Status(ctx context.Context, userID string, ac *auth.Context) (chat.UserProfile, error) {
	if ac == nil || ac.Token == "" {
		return chat.UserProfile{}, ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/"+userID+"/status", nil)
	if err != nil {
		return chat.UserProfile{}, fmt.Errorf("users: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+ac.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chat.UserProfile{}, fmt.Errorf("users: status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return chat.UserProfile{}, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return chat.UserProfile{}, fmt.Errorf("users: status returned %d", resp.StatusCode)
	}

	var decoded profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return chat.UserProfile{}, fmt.Errorf("users: failed to decode status response: %w", err)
	}

	return chat.UserProfile{
		ID:     decoded.ID,
		Name:   decoded.Name,
		Tier:   decoded.Tier,
		Points: decoded.Points,
		Active: decoded.Active,
	}, nil
}
