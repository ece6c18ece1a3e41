package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokoline/tokochat/internal/auth"
	"github.com/tokoline/tokochat/internal/chat"
)

func TestNewClient_EmptyBaseURL(t *testing.T) {
	assert.Nil(t, NewClient("", time.Second))
	assert.Nil(t, NewClient("   ", time.Second))
}

func TestClient_Search(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		gotQuery = map[string]string{
			"q":        r.URL.Query().Get("q"),
			"category": r.URL.Query().Get("category"),
			"color":    r.URL.Query().Get("color"),
			"size":     r.URL.Query().Get("size"),
			"limit":    r.URL.Query().Get("limit"),
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{
				{"id": "P001", "name": "Gamis Zahra Premium", "category": "gamis", "price_idr": 289000, "stock": 3},
				{"id": "P004", "name": "Gamis Khadijah Motif", "category": "gamis", "price_idr": 298000, "stock": 0},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	products, err := client.Search(context.Background(), "gamis",
		chat.SearchFilters{Category: "gamis", Color: "hitam", Size: "m"},
		1, 10,
		&auth.Context{UserID: "882", Token: "tok-123"},
	)
	require.NoError(t, err)

	assert.Equal(t, "gamis", gotQuery["q"])
	assert.Equal(t, "gamis", gotQuery["category"])
	assert.Equal(t, "hitam", gotQuery["color"])
	assert.Equal(t, "m", gotQuery["size"])
	assert.Equal(t, "10", gotQuery["limit"])
	assert.Equal(t, "Bearer tok-123", gotAuth)

	require.Len(t, products, 2)
	assert.True(t, products[0].InStock, "positive stock maps to in stock")
	assert.False(t, products[1].InStock, "zero stock maps to out of stock")
	assert.Equal(t, int64(289000), products[0].PriceIDR)
}

func TestClient_Search_NoAuthHeaderWithoutContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"products": []map[string]any{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	products, err := client.Search(context.Background(), "gamis", chat.SearchFilters{}, 1, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClient_Search_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Search(context.Background(), "gamis", chat.SearchFilters{}, 1, 10, nil)
	assert.ErrorContains(t, err, "status 500")
}

func TestClient_Search_NilClient(t *testing.T) {
	var client *Client
	products, err := client.Search(context.Background(), "gamis", chat.SearchFilters{}, 1, 10, nil)
	assert.NoError(t, err)
	assert.Nil(t, products)
}
