package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roshan-ds-tech/shreshta-backend-final/config"
	"github.com/roshan-ds-tech/shreshta-backend-final/database"
	"github.com/roshan-ds-tech/shreshta-backend-final/metrics"
	"github.com/roshan-ds-tech/shreshta-backend-final/models"
	"github.com/roshan-ds-tech/shreshta-backend-final/razorpay"
	"github.com/roshan-ds-tech/shreshta-backend-final/shiprocket"
)

// CreateRazorpayOrder opens a payment order with auto-capture and hands the
// frontend the order id and public key it needs for the checkout widget.
func CreateRazorpayOrder(c echo.Context) error {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Amount must be greater than 0"})
	}

	orderID, err := Razorpay.CreateOrder(c.Request().Context(), req.Amount)
	if err != nil {
		log.WithError(err).Error("razorpay order creation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create Razorpay order"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"order_id": orderID,
		"amount":   req.Amount,
		"key":      Razorpay.KeyID(),
	})
}

type cartItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	PriceDisplay string  `json:"priceDisplay"`
}

type verifyAndSaveRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	Username          string `json:"username"`
	OrderDetails      struct {
		CartItems       []cartItem `json:"cart_items"`
		Subtotal        float64    `json:"subtotal"`
		ShippingCharge  float64    `json:"shipping_charge"`
		Discount        float64    `json:"discount"`
		Total           float64    `json:"total"`
		ShippingDetails struct {
			CourierName          string `json:"courier_name"`
			CourierCompanyID     string `json:"courier_company_id"`
			ExpectedDeliveryDate string `json:"expected_delivery_date"`
			EstimatedDays        string `json:"estimated_days"`
		} `json:"shipping_details"`
		DeliveryAddress struct {
			Recipient string `json:"recipient"`
			Phone     string `json:"phone"`
			Line1     string `json:"line1"`
			City      string `json:"city"`
			State     string `json:"state"`
			Pincode   string `json:"pincode"`
		} `json:"delivery_address"`
		CouponCode string `json:"coupon_code"`
	} `json:"order_details"`
}

// VerifyPaymentAndSaveOrder is the checkout completion path. The signature
// check gates everything: a bad signature aborts with nothing persisted. Once
// payment is verified, shipment booking is attempted but the order is saved
// whatever the booking achieved; missing shipping fields are reconciled later.
func VerifyPaymentAndSaveOrder(c echo.Context) error {
	var req verifyAndSaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	lookupCtx, cancelLookup := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelLookup()

	var user models.User
	err := database.DB.Collection("users").FindOne(lookupCtx, bson.M{"username": req.Username}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	secret := config.GetEnv("RAZORPAY_KEY_SECRET", "")
	if !razorpay.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, secret) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Payment signature verification failed"})
	}

	details := req.OrderDetails
	if !totalsConsistent(details.Subtotal, details.ShippingCharge, details.Discount, details.Total) {
		log.WithFields(log.Fields{
			"subtotal":        details.Subtotal,
			"shipping_charge": details.ShippingCharge,
			"discount":        details.Discount,
			"total":           details.Total,
		}).Warn("order totals do not add up")
	}
	orderNumber := fmt.Sprintf("ORD%d%s", time.Now().Unix(), user.ID.Hex()[18:])

	// Payment is verified; everything from here on is best effort except
	// the persistence of the order itself.
	booking := Shiprocket.BookShipment(c.Request().Context(), bookingRequestFrom(&req, user.Email))

	items := make([]models.OrderItem, 0, len(details.CartItems))
	for _, item := range details.CartItems {
		productID, _ := primitive.ObjectIDFromHex(item.ID)
		items = append(items, models.OrderItem{
			ProductID:    productID,
			ProductName:  item.Name,
			ProductImage: item.Image,
			Quantity:     item.Quantity,
			Price:        item.Price,
			TotalPrice:   item.Price * float64(item.Quantity),
		})
	}

	order := models.Order{
		ID:                    primitive.NewObjectID(),
		UserID:                user.ID,
		Username:              user.Username,
		OrderNumber:           orderNumber,
		RazorpayOrderID:       req.RazorpayOrderID,
		RazorpayPaymentID:     req.RazorpayPaymentID,
		RazorpaySignature:     req.RazorpaySignature,
		ShiprocketOrderID:     booking.ShiprocketOrderID,
		ShipmentID:            booking.ShipmentID,
		AWBCode:               booking.AWBCode,
		CourierCompany:        booking.CourierName,
		TrackingURL:           booking.TrackingURL,
		PickupScheduled:       booking.PickupScheduled,
		PickupStatus:          booking.PickupStatus,
		PickupData:            booking.PickupData,
		Subtotal:              details.Subtotal,
		ShippingCharge:        details.ShippingCharge,
		Discount:              details.Discount,
		Total:                 details.Total,
		ShippingCourier:       details.ShippingDetails.CourierName,
		EstimatedDeliveryDate: details.ShippingDetails.ExpectedDeliveryDate,
		EstimatedDeliveryDays: details.ShippingDetails.EstimatedDays,
		DeliveryAddress: models.DeliveryAddress{
			Name:    details.DeliveryAddress.Recipient,
			Phone:   details.DeliveryAddress.Phone,
			Line1:   details.DeliveryAddress.Line1,
			City:    details.DeliveryAddress.City,
			State:   details.DeliveryAddress.State,
			Pincode: details.DeliveryAddress.Pincode,
		},
		Status:     models.OrderStatusPaid,
		CouponCode: details.CouponCode,
		Items:      items,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	// The booking pipeline above can run well past any deadline taken before
	// it started; the insert gets its own fresh timeout so a slow provider
	// cannot expire the persistence of a verified payment.
	saveCtx, cancelSave := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSave()

	if _, err := database.DB.Collection("orders").InsertOne(saveCtx, order); err != nil {
		log.WithError(err).WithField("order_number", orderNumber).Error("order persistence failed after verified payment")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save order"})
	}
	metrics.OrdersCreated.Inc()

	return c.JSON(http.StatusCreated, map[string]any{
		"success":             true,
		"message":             "Order saved successfully",
		"order_number":        orderNumber,
		"order_id":            order.ID,
		"shiprocket_order_id": booking.ShiprocketOrderID,
		"shipment_id":         booking.ShipmentID,
		"awb_code":            booking.AWBCode,
		"courier_company":     booking.CourierName,
		"tracking_url":        booking.TrackingURL,
	})
}

func bookingRequestFrom(req *verifyAndSaveRequest, email string) shiprocket.BookingRequest {
	details := req.OrderDetails
	items := make([]shiprocket.BookingItem, 0, len(details.CartItems))
	for _, item := range details.CartItems {
		items = append(items, shiprocket.BookingItem{
			ProductID:    item.ID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			SellingPrice: item.Price,
			PriceDisplay: item.PriceDisplay,
		})
	}
	return shiprocket.BookingRequest{
		OrderID: req.RazorpayOrderID,
		Email:   email,
		Address: shiprocket.BookingAddress{
			Name:    details.DeliveryAddress.Recipient,
			Phone:   details.DeliveryAddress.Phone,
			Line1:   details.DeliveryAddress.Line1,
			City:    details.DeliveryAddress.City,
			State:   details.DeliveryAddress.State,
			Pincode: details.DeliveryAddress.Pincode,
		},
		Items:            items,
		Subtotal:         details.Subtotal,
		ShippingCharge:   details.ShippingCharge,
		CourierCompanyID: details.ShippingDetails.CourierCompanyID,
	}
}

// totalsConsistent checks total = subtotal + shipping - discount up to a
// paisa of rounding slack. Amounts come from the client, so a mismatch is
// logged rather than rejected.
func totalsConsistent(subtotal, shippingCharge, discount, total float64) bool {
	return math.Abs(total-(subtotal+shippingCharge-discount)) <= 0.01
}
