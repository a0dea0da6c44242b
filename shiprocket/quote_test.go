package shiprocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceabilityServer(t *testing.T, couriers []map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
		case "/courier/serviceability/":
			assert.Equal(t, "560001", r.URL.Query().Get("pickup_postcode"))
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"available_courier_companies": couriers},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestGetQuotePicksCheapest(t *testing.T) {
	server := serviceabilityServer(t, []map[string]any{
		{"courier_name": "Bluedart", "courier_company_id": 12, "rate": 92.5, "etd": "2026-09-04", "estimated_delivery_days": "3"},
		{"courier_name": "Delhivery", "courier_company_id": 44, "rate": 55, "etd": "2026-09-06", "estimated_delivery_days": "5", "cod": 1},
	})
	defer server.Close()

	client := newTestClient(server.URL)
	quote, err := client.GetQuote(context.Background(), 1.5, "560001", "110001", false)
	require.NoError(t, err)
	require.NotNil(t, quote)

	assert.Equal(t, "Delhivery", quote.CourierName)
	assert.Equal(t, "44", quote.CourierCompanyID)
	assert.Equal(t, 55.0, quote.Rate)
	assert.Equal(t, "5", quote.EstimatedDays)
	assert.Equal(t, "2026-09-06", quote.ExpectedDeliveryDate)
	assert.True(t, quote.CODAvailable)
}

func TestGetQuoteUnservedPincode(t *testing.T) {
	server := serviceabilityServer(t, []map[string]any{})
	defer server.Close()

	client := newTestClient(server.URL)
	quote, err := client.GetQuote(context.Background(), 0.5, "560001", "999999", false)
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestGetQuoteIgnoresCouriersWithoutRate(t *testing.T) {
	server := serviceabilityServer(t, []map[string]any{
		{"courier_name": "NoRate", "courier_company_id": 9},
		{"courier_name": "BadRate", "courier_company_id": 10, "rate": "n/a"},
		{"courier_name": "Delhivery", "courier_company_id": 44, "rate": 60},
	})
	defer server.Close()

	client := newTestClient(server.URL)
	quote, err := client.GetQuote(context.Background(), 1, "560001", "110001", false)
	require.NoError(t, err)
	require.NotNil(t, quote)

	// A missing or unreadable rate must not win the cheapest-rate pick.
	assert.Equal(t, "Delhivery", quote.CourierName)
	assert.Equal(t, 60.0, quote.Rate)
}

func TestGetQuoteDefaultsCourierName(t *testing.T) {
	server := serviceabilityServer(t, []map[string]any{
		{"courier_id": 7, "rate": 80},
	})
	defer server.Close()

	client := newTestClient(server.URL)
	quote, err := client.GetQuote(context.Background(), 0.5, "560001", "110001", false)
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "Standard", quote.CourierName)
	assert.Equal(t, "7", quote.CourierCompanyID)
}
