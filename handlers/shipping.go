package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roshan-ds-tech/shreshta-backend-final/shiprocket"
)

// ShippingQuote returns the cheapest serviceable courier for a lane.
func ShippingQuote(c echo.Context) error {
	var req struct {
		Weight          float64 `json:"weight"`
		PickupPincode   string  `json:"pickup_pincode"`
		DeliveryPincode string  `json:"delivery_pincode"`
		COD             bool    `json:"cod"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if req.DeliveryPincode == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Delivery pincode is required"})
	}
	if req.Weight <= 0 {
		req.Weight = 0.5
	}
	if req.PickupPincode == "" {
		req.PickupPincode = pickupPincode
	}

	quote, err := Shiprocket.GetQuote(c.Request().Context(), req.Weight, req.PickupPincode, req.DeliveryPincode, req.COD)
	if err != nil {
		var authErr *shiprocket.AuthError
		if errors.As(err, &authErr) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error":   "Failed to authenticate with Shiprocket",
				"details": authErr.Message,
			})
		}
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}

	if quote == nil {
		return c.JSON(http.StatusOK, map[string]any{
			"success": false,
			"message": "No courier service available for this pincode",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":                true,
		"courier_name":           quote.CourierName,
		"courier_company_id":     quote.CourierCompanyID,
		"rate":                   quote.Rate,
		"estimated_days":         quote.EstimatedDays,
		"expected_delivery_date": quote.ExpectedDeliveryDate,
		"cod_available":          quote.CODAvailable,
		"tracking":               quote.RealtimeTracking,
		"freight_charge":         quote.FreightCharge,
	})
}
