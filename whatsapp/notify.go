package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/roshan-ds-tech/shreshta-backend-final/models"
)

// Notifier sends admin alerts through the WhatsApp Business API. When the API
// is not configured it degrades to logging a wa.me deep link the admin can
// click manually. Notification failures are never fatal to the caller's flow.
type Notifier struct {
	AdminNumber   string // national number, prefixed with 91 on send
	PhoneNumberID string
	AccessToken   string
	APIVersion    string
	httpClient    *http.Client
}

func NewNotifier(adminNumber, phoneNumberID, accessToken, apiVersion string) *Notifier {
	if apiVersion == "" {
		apiVersion = "v18.0"
	}
	return &Notifier{
		AdminNumber:   adminNumber,
		PhoneNumberID: phoneNumberID,
		AccessToken:   accessToken,
		APIVersion:    apiVersion,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (n *Notifier) configured() bool {
	return n.PhoneNumberID != "" && n.AccessToken != ""
}

// NotifyCancellation alerts the admin that an order was cancelled, with full
// order context. The returned error is for the caller's log only.
func (n *Notifier) NotifyCancellation(ctx context.Context, order *models.Order, userEmail string) error {
	message := cancellationMessage(order, userEmail)

	if !n.configured() {
		deepLink := fmt.Sprintf("https://wa.me/91%s?text=%s", n.AdminNumber, url.QueryEscape(message))
		log.WithFields(log.Fields{
			"order_number": order.OrderNumber,
			"whatsapp_url": deepLink,
		}).Warn("whatsapp API not configured, manual send link generated")
		return nil
	}

	endpoint := fmt.Sprintf("https://graph.facebook.com/%s/%s/messages", n.APIVersion, n.PhoneNumberID)
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                "91" + n.AdminNumber,
		"type":              "text",
		"text":              map[string]string{"body": message},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+n.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp send: status %d", resp.StatusCode)
	}

	log.WithField("order_number", order.OrderNumber).Info("whatsapp cancellation alert sent")
	return nil
}

func cancellationMessage(order *models.Order, userEmail string) string {
	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, "  • %s (Qty: %d) - ₹%.2f\n", item.ProductName, item.Quantity, item.Price)
	}
	itemsText := strings.TrimRight(items.String(), "\n")
	if itemsText == "" {
		itemsText = "  No items found"
	}

	return fmt.Sprintf(`🚫 *ORDER CANCELLATION ALERT*

*Order Information:*
Order Number: %s

*Customer Details:*
Name: %s
Phone: %s
Email: %s
Username: %s

*Order Items:*
%s

*Order Summary:*
Subtotal: ₹%.2f
Shipping Charge: ₹%.2f
Discount: ₹%.2f
*Total: ₹%.2f*

*Delivery Address:*
%s
%s, %s - %s

*Payment & Shipping Info:*
Payment ID: %s
Shiprocket Order ID: %s
AWB Code: %s
Courier: %s
Status: %s
Coupon Code: %s

*Cancellation Time:*
%s
`,
		order.OrderNumber,
		order.DeliveryAddress.Name,
		order.DeliveryAddress.Phone,
		orDefault(userEmail, "N/A"),
		order.Username,
		itemsText,
		order.Subtotal,
		order.ShippingCharge,
		order.Discount,
		order.Total,
		order.DeliveryAddress.Line1,
		order.DeliveryAddress.City, order.DeliveryAddress.State, order.DeliveryAddress.Pincode,
		orDefault(order.RazorpayPaymentID, "N/A"),
		orDefault(order.ShiprocketOrderID, "N/A"),
		orDefault(order.AWBCode, "N/A"),
		orDefault(order.CourierCompany, "N/A"),
		string(order.Status),
		orDefault(order.CouponCode, "None"),
		time.Now().Format("2006-01-02 15:04:05"),
	)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
