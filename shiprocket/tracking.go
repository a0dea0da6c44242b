package shiprocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/roshan-ds-tech/shreshta-backend-final/models"
)

// TrackingData is the courier-reported state of a shipment.
type TrackingData struct {
	AWBCode       string `json:"awb_code"`
	CurrentStatus string `json:"current_status"`
	StatusCode    string `json:"status_code"`
	Status        string `json:"status"`
	ETD           string `json:"estimated_delivery_date"`
	TrackURL      string `json:"tracking_url"`
	ShipmentTrack []any  `json:"shipment_track"`
	Activities    []any  `json:"shipment_track_activities"`
}

// Track fetches live tracking for an AWB.
func (c *Client) Track(ctx context.Context, awb string) (*TrackingData, error) {
	status, raw, err := c.getJSON(ctx, "courier/track/awb/"+awb, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("shiprocket tracking: status %d: %s", status, truncate(raw, 200))
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("shiprocket tracking: decode: %w", err)
	}
	inner, _ := doc["tracking_data"].(map[string]any)

	data := &TrackingData{
		AWBCode:       awb,
		CurrentStatus: asString(inner["current_status"]),
		StatusCode:    asString(inner["status_code"]),
		Status:        asString(inner["status"]),
		ETD:           asString(inner["etd"]),
	}
	if u := asString(inner["track_url"]); u != "" {
		data.TrackURL = u
	}
	if track, ok := inner["shipment_track"].([]any); ok {
		data.ShipmentTrack = track
	}
	if activities, ok := inner["shipment_track_activities"].([]any); ok {
		data.Activities = activities
	}
	return data, nil
}

// statusKeywords maps courier status tokens to local order statuses. Matching
// is case-insensitive containment against the free-text current status and
// the status code, first entry wins. The tokens are chosen so none is a
// substring of another; a status that matches nothing leaves the order alone.
// Cancelled maps to the cancelled status but never advances an order, since
// cancellation only happens through the cancel flow.
var statusKeywords = []struct {
	keyword string
	status  models.OrderStatus
}{
	{"ORDER_PLACED", models.OrderStatusPending},
	{"PICKED_UP", models.OrderStatusProcessing},
	{"OUT_FOR_DELIVERY", models.OrderStatusShipped},
	{"IN_TRANSIT", models.OrderStatusShipped},
	{"DELIVERED", models.OrderStatusDelivered},
	{"CANCELED", models.OrderStatusCancelled},
	{"CANCELLED", models.OrderStatusCancelled},
}

// MapTrackingStatus resolves a courier status report to a local order status.
// The boolean is false when nothing in the table matched.
func MapTrackingStatus(currentStatus, statusCode string) (models.OrderStatus, bool) {
	haystackA := strings.ToUpper(currentStatus)
	haystackB := strings.ToUpper(statusCode)
	for _, entry := range statusKeywords {
		if strings.Contains(haystackA, entry.keyword) || strings.Contains(haystackB, entry.keyword) {
			return entry.status, true
		}
	}
	return "", false
}
