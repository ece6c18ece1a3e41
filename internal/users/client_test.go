package users

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

func TestClient_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/882/status", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "882",
			"name":   "Aisyah",
			"tier":   "Gold",
			"points": 1250,
			"active": true,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	profile, err := client.Status(context.Background(), "882", &auth.Context{UserID: "882", Token: "tok-123"})
	require.NoError(t, err)

	assert.Equal(t, "Aisyah", profile.Name)
	assert.Equal(t, "Gold", profile.Tier)
	assert.Equal(t, 1250, profile.Points)
	assert.True(t, profile.Active)
}

func TestClient_Status_RequiresToken(t *testing.T) {
	client := NewClient("http://users.internal", time.Second)

	_, err := client.Status(context.Background(), "882", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.Status(context.Background(), "882", &auth.Context{UserID: "882"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_Status_RejectedCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Status(context.Background(), "882", &auth.Context{Token: "expired"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_Status_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Status(context.Background(), "882", &auth.Context{Token: "tok"})
	assert.ErrorContains(t, err, "500")
}
