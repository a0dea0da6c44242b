package shiprocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshan-ds-tech/shreshta-backend-final/models"
)

func TestMapTrackingStatus(t *testing.T) {
	tests := []struct {
		currentStatus string
		statusCode    string
		want          models.OrderStatus
		matched       bool
	}{
		{"ORDER_PLACED", "", models.OrderStatusPending, true},
		{"", "PICKED_UP", models.OrderStatusProcessing, true},
		{"Shipment picked_up by courier", "", models.OrderStatusProcessing, true},
		{"IN_TRANSIT", "", models.OrderStatusShipped, true},
		{"OUT_FOR_DELIVERY", "", models.OrderStatusShipped, true},
		{"Delivered", "", models.OrderStatusDelivered, true},
		{"", "DELIVERED", models.OrderStatusDelivered, true},
		{"CANCELED", "", models.OrderStatusCancelled, true},
		{"CANCELLED", "", models.OrderStatusCancelled, true},
		{"Manifested", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		got, matched := MapTrackingStatus(tt.currentStatus, tt.statusCode)
		assert.Equal(t, tt.matched, matched, "status %q / code %q", tt.currentStatus, tt.statusCode)
		assert.Equal(t, tt.want, got, "status %q / code %q", tt.currentStatus, tt.statusCode)
	}
}

func TestTrack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
		case "/courier/track/awb/AWB777":
			json.NewEncoder(w).Encode(map[string]any{
				"tracking_data": map[string]any{
					"current_status": "In Transit",
					"status_code":    "IN_TRANSIT",
					"etd":            "2026-09-05",
					"track_url":      "https://track.example/AWB777",
					"shipment_track_activities": []any{
						map[string]any{"activity": "Bag scanned at hub"},
					},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	data, err := client.Track(context.Background(), "AWB777")
	require.NoError(t, err)

	assert.Equal(t, "AWB777", data.AWBCode)
	assert.Equal(t, "In Transit", data.CurrentStatus)
	assert.Equal(t, "IN_TRANSIT", data.StatusCode)
	assert.Equal(t, "2026-09-05", data.ETD)
	assert.Equal(t, "https://track.example/AWB777", data.TrackURL)
	assert.Len(t, data.Activities, 1)
}

func TestTrackNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Track(context.Background(), "NOPE")
	assert.Error(t, err)
}
