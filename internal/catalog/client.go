package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tokoline/tokochat/internal/auth"
	"github.com/tokoline/tokochat/internal/chat"
)

// Client talks to the storefront product API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a product API client. Returns nil when no base URL is
// configured so callers can treat the external catalog as absent.
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

type productPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	PriceIDR int64  `json:"price_idr"`
	Stock    int    `json:"stock"`
}

type searchResponse struct {
	Products []productPayload `json:"products"`
}

// Search queries the product API.
func (c *Client) Search(ctx context.Context, query string, filters chat.SearchFilters, page, limit int, ac *auth.Context) ([]chat.Product, error) {
	if c == nil {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	if filters.Category != "" {
		params.Set("category", filters.Category)
	}
	if filters.Color != "" {
		params.Set("color", filters.Color)
	}
	if filters.Size != "" {
		params.Set("size", filters.Size)
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if ac != nil && ac.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ac.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: search returned status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("catalog: failed to decode search response: %w", err)
	}

	products := make([]chat.Product, 0, len(decoded.Products))
	for _, p := range decoded.Products {
		products = append(products, chat.Product{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Color:    p.Color,
			Size:     p.Size,
			PriceIDR: p.PriceIDR,
			InStock:  p.Stock > 0,
		})
	}
	return products, nil
}
