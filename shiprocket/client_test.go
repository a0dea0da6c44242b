package shiprocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "api@example.com", "password", "Primary", 18928400)
}

func TestTokenCached(t *testing.T) {
	logins := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		logins++
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	token, err := client.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	_, err = client.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, logins)
}

func TestInvalidateForcesRelogin(t *testing.T) {
	logins := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins++
		json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	_, err := client.Token(ctx)
	require.NoError(t, err)
	client.Invalidate()
	_, err = client.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, logins)
}

func TestLoginBlockedAccountHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Account blocked due to too many failed attempts"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Token(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	assert.Contains(t, authErr.Message, "temporarily blocked")
	assert.Contains(t, authErr.Message, "Wait 15-30 minutes")
}

func TestLoginForbiddenHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "Forbidden"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Token(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusForbidden, authErr.StatusCode)
	assert.Contains(t, authErr.Message, "API permissions")
}

func TestLoginNetworkErrorIsNotAuthError(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close() // connection refused

	client := newTestClient(server.URL)
	_, err := client.Token(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))
}

func TestCancelOrders(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
		case "/orders/cancel":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			json.NewEncoder(w).Encode(map[string]any{"message": "cancelled"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.CancelOrders(context.Background(), []string{"5551234"})
	require.NoError(t, err)
	assert.Equal(t, []any{"5551234"}, captured["ids"])
}
