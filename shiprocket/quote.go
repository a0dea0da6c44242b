package shiprocket

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

// Quote is the selected courier option for a delivery pincode.
type Quote struct {
	CourierName          string  `json:"courier_name"`
	CourierCompanyID     string  `json:"courier_company_id"`
	Rate                 float64 `json:"rate"`
	EstimatedDays        string  `json:"estimated_days"`
	ExpectedDeliveryDate string  `json:"expected_delivery_date"`
	CODAvailable         bool    `json:"cod_available"`
	RealtimeTracking     bool    `json:"tracking"`
	FreightCharge        float64 `json:"freight_charge"`
}

// GetQuote asks the serviceability endpoint which couriers cover the lane and
// picks the cheapest by rate. A nil quote with nil error means no courier
// serves the pincode.
func (c *Client) GetQuote(ctx context.Context, weightKg float64, pickupPincode, deliveryPincode string, cod bool) (*Quote, error) {
	params := url.Values{}
	params.Set("pickup_postcode", pickupPincode)
	params.Set("delivery_postcode", deliveryPincode)
	params.Set("weight", strconv.FormatFloat(weightKg, 'f', -1, 64))
	if cod {
		params.Set("cod", "1")
	} else {
		params.Set("cod", "0")
	}

	status, raw, err := c.getJSON(ctx, "courier/serviceability/", params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("shiprocket serviceability: %s", errorMessage(raw, status))
	}

	var doc struct {
		Data struct {
			AvailableCourierCompanies []map[string]any `json:"available_courier_companies"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("shiprocket serviceability: decode: %w", err)
	}

	couriers := doc.Data.AvailableCourierCompanies
	if len(couriers) == 0 {
		return nil, nil
	}

	best := couriers[0]
	for _, courier := range couriers[1:] {
		if courierRate(courier) < courierRate(best) {
			best = courier
		}
	}

	quote := &Quote{
		CourierName:          asString(best["courier_name"]),
		CourierCompanyID:     asString(best["courier_company_id"]),
		Rate:                 asFloat(best["rate"]),
		EstimatedDays:        asString(best["estimated_delivery_days"]),
		ExpectedDeliveryDate: asString(best["etd"]),
		CODAvailable:         asBool(best["cod"]),
		RealtimeTracking:     asBool(best["realtime_tracking"]),
		FreightCharge:        asFloat(best["freight_charge"]),
	}
	if quote.CourierName == "" {
		quote.CourierName = "Standard"
	}
	if quote.CourierCompanyID == "" {
		quote.CourierCompanyID = asString(best["courier_id"])
	}
	if quote.EstimatedDays == "" {
		quote.EstimatedDays = quote.ExpectedDeliveryDate
	}
	return quote, nil
}

// courierRate reads a courier entry's rate for the cheapest-of comparison.
// Entries without a usable rate compare as infinitely expensive instead of
// free.
func courierRate(courier map[string]any) float64 {
	switch value := courier["rate"].(type) {
	case float64:
		return value
	case string:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return math.Inf(1)
}

func asFloat(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case float64:
		return value != 0
	default:
		return false
	}
}
