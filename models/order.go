package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// statusRank is the total order used for forward-only updates driven by
// courier tracking. Cancelled is intentionally absent: it is never reached
// through tracking, only through the cancellation flow.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusPaid:       1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// AdvanceIfForward returns the proposed status when it is strictly ahead of
// current in the fulfillment order, otherwise current. Unknown statuses never
// advance anything.
func AdvanceIfForward(current, proposed OrderStatus) (OrderStatus, bool) {
	cur, ok := statusRank[current]
	if !ok {
		cur = 0
	}
	next, ok := statusRank[proposed]
	if !ok {
		return current, false
	}
	if next > cur {
		return proposed, true
	}
	return current, false
}

// CanCancel reports whether an order in the given status may still be
// cancelled. Shipped and delivered orders need administrative handling.
func CanCancel(status OrderStatus) bool {
	switch status {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return true
}

type OrderItem struct {
	ProductID    primitive.ObjectID `bson:"productId" json:"product_id"`
	ProductName  string             `bson:"productName" json:"product_name"`
	ProductImage string             `bson:"productImage,omitempty" json:"product_image,omitempty"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	Price        float64            `bson:"price" json:"price"`
	TotalPrice   float64            `bson:"totalPrice" json:"total_price"`
}

type DeliveryAddress struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Line1   string `bson:"line1" json:"address"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Username    string             `bson:"username" json:"username"`
	OrderNumber string             `bson:"orderNumber" json:"order_number"`

	// Payment details, immutable once written
	RazorpayOrderID   string `bson:"razorpayOrderId" json:"razorpay_order_id"`
	RazorpayPaymentID string `bson:"razorpayPaymentId,omitempty" json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `bson:"razorpaySignature,omitempty" json:"-"`

	// Shiprocket details, filled in as booking and reconciliation progress
	ShiprocketOrderID string `bson:"shiprocketOrderId,omitempty" json:"shiprocket_order_id,omitempty"`
	ShipmentID        string `bson:"shipmentId,omitempty" json:"shipment_id,omitempty"`
	AWBCode           string `bson:"awbCode,omitempty" json:"awb_code,omitempty"`
	CourierCompany    string `bson:"courierCompany,omitempty" json:"courier_company,omitempty"`
	TrackingURL       string `bson:"trackingUrl,omitempty" json:"tracking_url,omitempty"`

	// Pickup scheduling
	PickupScheduled bool   `bson:"pickupScheduled" json:"pickup_scheduled"`
	PickupStatus    string `bson:"pickupStatus,omitempty" json:"pickup_status,omitempty"`
	PickupData      string `bson:"pickupData,omitempty" json:"-"`

	// Amounts
	Subtotal       float64 `bson:"subtotal" json:"subtotal"`
	ShippingCharge float64 `bson:"shippingCharge" json:"shipping_charge"`
	Discount       float64 `bson:"discount" json:"discount"`
	Total          float64 `bson:"total" json:"total"`

	// Quote selected at checkout
	ShippingCourier       string `bson:"shippingCourier,omitempty" json:"shipping_courier,omitempty"`
	EstimatedDeliveryDate string `bson:"estimatedDeliveryDate,omitempty" json:"estimated_delivery_date,omitempty"`
	EstimatedDeliveryDays string `bson:"estimatedDeliveryDays,omitempty" json:"estimated_delivery_days,omitempty"`

	DeliveryAddress DeliveryAddress `bson:"deliveryAddress" json:"delivery_address"`

	Status     OrderStatus `bson:"status" json:"status"`
	CouponCode string      `bson:"couponCode,omitempty" json:"coupon_code,omitempty"`

	Items []OrderItem `bson:"items" json:"items"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}
