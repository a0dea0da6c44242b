package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Client talks to the Razorpay Orders API using key id/secret basic auth.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a mock server.
func NewClientWithBaseURL(baseURL, keyID, keySecret string) *Client {
	c := NewClient(keyID, keySecret)
	c.baseURL = baseURL
	return c
}

// KeyID exposes the public key the frontend needs to open the checkout widget.
func (c *Client) KeyID() string {
	return c.keyID
}

type orderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PaymentCapture int    `json:"payment_capture"`
}

type orderResponse struct {
	ID string `json:"id"`
}

// CreateOrder creates a Razorpay order for the given rupee amount with
// auto-capture enabled and returns the provider order id. Razorpay wants the
// amount in paise.
func (c *Client) CreateOrder(ctx context.Context, amountRupees float64) (string, error) {
	body, err := json.Marshal(orderRequest{
		Amount:         int64(amountRupees * 100),
		Currency:       "INR",
		PaymentCapture: 1,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("razorpay order create: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("razorpay order create: status %d", resp.StatusCode)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("razorpay order create: decode: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("razorpay order create: empty order id in response")
	}
	return order.ID, nil
}
