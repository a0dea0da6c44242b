package shiprocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/roshan-ds-tech/shreshta-backend-final/pricing"
)

// defaultHSN is the tariff code for jaggery, the store's staple.
const defaultHSN = "0409"

// Parcel dimensions in cm. Shiprocket enforces length >= 10, breadth >= 10,
// height >= 1; 12 x 10 x 10 fits every pack size we ship.
const (
	parcelLength  = 12
	parcelBreadth = 10
	parcelHeight  = 10
)

type BookingItem struct {
	ProductID    string
	Name         string
	Quantity     int
	SellingPrice float64
	PriceDisplay string
}

type BookingAddress struct {
	Name    string
	Phone   string
	Line1   string
	City    string
	State   string
	Pincode string
}

type BookingRequest struct {
	// OrderID is the Razorpay order id, reused as the Shiprocket channel
	// order reference.
	OrderID        string
	Email          string
	Address        BookingAddress
	Items          []BookingItem
	Subtotal       float64
	ShippingCharge float64
	// CourierCompanyID is the courier chosen during the rate quote, passed
	// as a hint to AWB assignment when present.
	CourierCompanyID string
}

// BookingResult carries whatever the booking pipeline managed to achieve.
// Empty fields mean the corresponding step failed or was skipped; the sale
// is persisted either way.
type BookingResult struct {
	ShiprocketOrderID string
	ShipmentID        string
	AWBCode           string
	CourierName       string
	TrackingURL       string
	PickupScheduled   bool
	PickupStatus      string
	PickupData        string
}

// BookShipment drives the Shiprocket booking pipeline: create order, assign
// courier, fetch the AWB, fetch a tracking URL, schedule pickup. Each step
// runs only if the previous one produced what it needs, and any failure
// degrades the result instead of propagating. It never returns an error:
// a cleared payment must always end in a persisted order, shipped or not.
func (c *Client) BookShipment(ctx context.Context, req BookingRequest) BookingResult {
	var result BookingResult

	logger := log.WithField("razorpay_order_id", req.OrderID)

	if _, err := c.Token(ctx); err != nil {
		logger.WithError(err).Warn("shiprocket booking skipped: auth failed")
		return result
	}

	srOrderID, shipmentID, ok := c.createOrder(ctx, req, logger)
	if !ok {
		return result
	}
	result.ShiprocketOrderID = srOrderID
	result.ShipmentID = shipmentID

	if shipmentID == "" {
		logger.Warn("shiprocket order created without shipment id, skipping courier assignment")
		return result
	}

	awb, courier := c.assignCourier(ctx, shipmentID, req.CourierCompanyID, logger)

	// Some couriers assign the AWB asynchronously; the order document is
	// the fallback source.
	if awb == "" {
		awb = c.awbFromOrder(ctx, srOrderID, logger)
	}
	result.AWBCode = awb
	result.CourierName = courier

	if awb == "" {
		logger.Warn("no AWB assigned, leaving shipment for later reconciliation")
		return result
	}

	result.TrackingURL = c.trackingURL(ctx, awb, logger)

	scheduled, status, data := c.SchedulePickup(ctx, shipmentID, awb)
	result.PickupScheduled = scheduled
	result.PickupStatus = status
	result.PickupData = data

	return result
}

// createOrder submits the adhoc order and returns the provider order and
// shipment ids.
func (c *Client) createOrder(ctx context.Context, req BookingRequest, logger *log.Entry) (string, string, bool) {
	items := make([]pricing.CartItem, 0, len(req.Items))
	orderItems := make([]map[string]any, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, pricing.CartItem{Quantity: item.Quantity, PriceDisplay: item.PriceDisplay})
		orderItems = append(orderItems, map[string]any{
			"name":          item.Name,
			"sku":           "PROD" + item.ProductID,
			"units":         item.Quantity,
			"selling_price": item.SellingPrice,
			"discount":      0,
			"tax":           0,
			"hsn":           defaultHSN,
		})
	}

	email := req.Email
	if email == "" {
		email = req.Address.Phone + "@temp.com"
	}

	payload := map[string]any{
		"order_id":              req.OrderID,
		"order_date":            time.Now().Format("2006-01-02"),
		"pickup_location":       c.pickupLocation,
		"billing_customer_name": req.Address.Name,
		"billing_last_name":     "",
		"billing_address":       req.Address.Line1,
		"billing_address_2":     "",
		"billing_city":          req.Address.City,
		"billing_pincode":       req.Address.Pincode,
		"billing_state":         req.Address.State,
		"billing_country":       "India",
		"billing_email":         email,
		"billing_phone":         req.Address.Phone,
		"shipping_is_billing":   true,
		"order_items":           orderItems,
		"payment_method":        "Prepaid",
		"sub_total":             req.Subtotal,
		"length":                parcelLength,
		"breadth":               parcelBreadth,
		"height":                parcelHeight,
		"weight":                pricing.TotalWeightKg(items),
	}
	if req.ShippingCharge > 0 {
		payload["shipping_charges"] = req.ShippingCharge
	}

	status, raw, err := c.postJSON(ctx, "orders/create/adhoc", payload)
	if err != nil {
		logger.WithError(err).Warn("shiprocket order creation failed")
		return "", "", false
	}
	if status != http.StatusOK {
		logger.WithFields(log.Fields{"status": status, "body": truncate(raw, 200)}).Warn("shiprocket order creation rejected")
		return "", "", false
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.WithError(err).Warn("shiprocket order creation: unreadable response")
		return "", "", false
	}

	srOrderID := asString(doc["order_id"])
	shipmentID := asString(doc["shipment_id"])
	logger.WithFields(log.Fields{"shiprocket_order_id": srOrderID, "shipment_id": shipmentID}).Info("shiprocket order created")
	return srOrderID, shipmentID, true
}

// assignCourier requests AWB assignment, hinting the quoted courier when one
// was selected at checkout, and probes the response shapes for the AWB and
// courier name.
func (c *Client) assignCourier(ctx context.Context, shipmentID, courierCompanyID string, logger *log.Entry) (string, string) {
	payload := map[string]any{"shipment_id": numericIfPossible(shipmentID)}
	if courierCompanyID != "" {
		payload["courier_company_id"] = numericIfPossible(courierCompanyID)
	}

	status, raw, err := c.postJSON(ctx, "courier/assign/awb", payload)
	if err != nil {
		logger.WithError(err).Warn("courier assignment failed")
		return "", ""
	}
	if status != http.StatusOK {
		logger.WithFields(log.Fields{"status": status, "body": truncate(raw, 200)}).Warn("courier assignment rejected")
		return "", ""
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.WithError(err).Warn("courier assignment: unreadable response")
		return "", ""
	}

	awb := extractField(doc, "awb_code")
	courier := extractField(doc, "courier_name")
	logger.WithFields(log.Fields{"awb": awb, "courier": courier}).Info("courier assignment response")
	return awb, courier
}

// awbFromOrder backfills the AWB from the order document's first shipment.
func (c *Client) awbFromOrder(ctx context.Context, srOrderID string, logger *log.Entry) string {
	doc, err := c.ShowOrder(ctx, srOrderID)
	if err != nil {
		logger.WithError(err).Warn("AWB backfill from order details failed")
		return ""
	}
	awb := AWBFromOrderDoc(doc)
	if awb != "" {
		logger.WithField("awb", awb).Info("AWB recovered from order details")
	}
	return awb
}

// trackingURL fetches the courier's public tracking link. Best effort.
func (c *Client) trackingURL(ctx context.Context, awb string, logger *log.Entry) string {
	status, raw, err := c.getJSON(ctx, "courier/track/awb/"+awb, nil)
	if err != nil || status != http.StatusOK {
		logger.Warn("tracking URL fetch failed")
		return ""
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	if u := asString(doc["tracking_url"]); u != "" {
		return u
	}
	return asString(doc["track_url"])
}

// SchedulePickup asks the courier to collect the package. The documented
// payload takes an array of shipment ids; some accounts only accept the
// older awb + pickup_address_id form, so a non-200 gets exactly one retry
// with that shape. The raw provider response is returned opaque for audit.
func (c *Client) SchedulePickup(ctx context.Context, shipmentID, awb string) (bool, string, string) {
	logger := log.WithFields(log.Fields{"shipment_id": shipmentID, "awb": awb})

	payload := map[string]any{"shipment_id": []any{numericIfPossible(shipmentID)}}
	status, raw, err := c.postJSON(ctx, "courier/generate/pickup", payload)

	if err == nil && status != http.StatusOK {
		logger.WithField("status", status).Warn("pickup scheduling rejected, retrying with awb payload")
		alt := map[string]any{"awb": awb, "pickup_address_id": c.pickupAddressID}
		status, raw, err = c.postJSON(ctx, "courier/generate/pickup", alt)
	}
	if err != nil {
		logger.WithError(err).Warn("pickup scheduling failed")
		return false, "Failed (network)", ""
	}
	if status != http.StatusOK {
		logger.WithFields(log.Fields{"status": status, "body": truncate(raw, 200)}).Warn("pickup scheduling failed")
		return false, "Failed (" + strconv.Itoa(status) + ")", ""
	}

	var doc map[string]any
	pickupStatus := "scheduled"
	if err := json.Unmarshal(raw, &doc); err == nil {
		if s := asString(doc["status"]); s != "" {
			pickupStatus = s
		}
	}
	logger.Info("pickup scheduled")
	return true, pickupStatus, string(raw)
}

// numericIfPossible sends ids as numbers when they look numeric; several
// Shiprocket endpoints reject string ids.
func numericIfPossible(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
