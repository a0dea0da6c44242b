package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{"id": "order_test_1"})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "rzp_test_key", "rzp_test_secret")
	orderID, err := client.CreateOrder(context.Background(), 499.50)
	require.NoError(t, err)
	assert.Equal(t, "order_test_1", orderID)

	// Amount goes over the wire in paise with auto-capture on.
	assert.Equal(t, float64(49950), captured["amount"])
	assert.Equal(t, "INR", captured["currency"])
	assert.Equal(t, float64(1), captured["payment_capture"])
}

func TestCreateOrderRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "bad", "creds")
	_, err := client.CreateOrder(context.Background(), 100)
	assert.Error(t, err)
}
