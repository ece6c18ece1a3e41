package orders

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
)

func TestNewClient_EmptyBaseURL(t *testing.T) {
	assert.Nil(t, NewClient("", time.Second))
}

func TestClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/4521", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":              "4521",
			"status":          "dikirim",
			"courier":         "JNE",
			"tracking_number": "JNE0012345678",
			"estimated_days":  2,
			"total_idr":       354000,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	order, err := client.Lookup(context.Background(), "4521", &auth.Context{Token: "tok-123"})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "4521", order.ID)
	assert.Equal(t, "dikirim", order.Status)
	assert.Equal(t, "JNE0012345678", order.TrackingNumber)
	assert.Equal(t, int64(354000), order.TotalIDR)
}

func TestClient_Lookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	order, err := client.Lookup(context.Background(), "99999", nil)
	require.NoError(t, err, "missing order is not an error")
	assert.Nil(t, order)
}

func TestClient_Lookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Lookup(context.Background(), "4521", nil)
	assert.ErrorContains(t, err, "status 502")
}

func TestClient_Lookup_NilClient(t *testing.T) {
	var client *Client
	order, err := client.Lookup(context.Background(), "4521", nil)
	assert.NoError(t, err)
	assert.Nil(t, order)
}
