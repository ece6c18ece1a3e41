package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tokoline/tokochat/internal/auth"
	"github.com/tokoline/tokochat/internal/chat"
)

// Client talks to the storefront order API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an order API client, or nil when no base URL is
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

type orderPayload struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Courier        string `json:"courier"`
	TrackingNumber string `json:"tracking_number"`
	EstimatedDays  int    `json:"estimated_days"`
	TotalIDR       int64  `json:"total_idr"`
}

// Lookup fetches one order. A missing order returns (nil, nil).
func (c *Client) Lookup(ctx context.Context, orderID string, ac *auth.Context) (*chat.Order, error) {
	if c == nil {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("orders: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if ac != nil && ac.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ac.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("orders: lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("orders: lookup returned status %d", resp.StatusCode)
	}

	var decoded orderPayload
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("orders: failed to decode lookup response: %w", err)
	}

	return &chat.Order{
		ID:             decoded.ID,
		Status:         decoded.Status,
		Courier:        decoded.Courier,
		TrackingNumber: decoded.TrackingNumber,
		EstimatedDays:  decoded.EstimatedDays,
		TotalIDR:       decoded.TotalIDR,
	}, nil
}
