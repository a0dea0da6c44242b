package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/roshan-ds-tech/shreshta-backend-final/metrics"
)

const tokenTTL = 24 * time.Hour

// AuthError is a login rejection from Shiprocket, classified by status code.
// Transport failures are returned as plain wrapped errors, not AuthError.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("shiprocket auth failed (status %d): %s", e.StatusCode, e.Message)
}

// Client is the Shiprocket API client. It owns the bearer token cache; the
// token is refreshed on demand behind a mutex so concurrent requests cannot
// race duplicate logins into the provider's rate limiter.
type Client struct {
	baseURL         string
	email           string
	password        string
	pickupLocation  string
	pickupAddressID int
	httpClient      *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(baseURL, email, password, pickupLocation string, pickupAddressID int) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		email:           email,
		password:        password,
		pickupLocation:  pickupLocation,
		pickupAddressID: pickupAddressID,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Token returns a cached bearer token, logging in when the cache is empty or
// expired. No retries here; callers decide whether the overall operation is
// worth retrying.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	token, err := c.login(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.tokenExpiry = time.Now().Add(tokenTTL)
	return token, nil
}

// Invalidate drops the cached token so the next call performs a fresh login.
// Used after credential rotation.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.tokenExpiry = time.Time{}
}

func (c *Client) login(ctx context.Context) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ShiprocketRequests.WithLabelValues("auth/login", "error").Inc()
		return "", fmt.Errorf("shiprocket login: network error: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusOK {
		var data struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(raw, &data); err != nil || data.Token == "" {
			metrics.ShiprocketRequests.WithLabelValues("auth/login", "error").Inc()
			return "", fmt.Errorf("shiprocket login: no token in response")
		}
		metrics.ShiprocketRequests.WithLabelValues("auth/login", "ok").Inc()
		return data.Token, nil
	}

	metrics.ShiprocketRequests.WithLabelValues("auth/login", "error").Inc()
	msg := errorMessage(raw, resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "blocked") || strings.Contains(lower, "too many") {
			msg = fmt.Sprintf("account temporarily blocked: %s. Wait 15-30 minutes or contact Shiprocket support.", msg)
		}
	case http.StatusForbidden:
		msg = fmt.Sprintf("%s. Usually the account lacks API permissions, the IP is not whitelisted, API access is not enabled, or the credentials are wrong.", msg)
	}

	return "", &AuthError{StatusCode: resp.StatusCode, Message: msg}
}

// errorMessage digs a human readable message out of an error body, falling
// back to a truncated raw dump.
func errorMessage(raw []byte, status int) string {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err == nil {
		if msg, ok := data["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := data["error"].(string); ok && msg != "" {
			return msg
		}
	}
	body := string(raw)
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("status %d: %s", status, body)
}

// postJSON posts an authenticated JSON payload and returns status + raw body.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}

	token, err := c.Token(ctx)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ShiprocketRequests.WithLabelValues(endpoint, "error").Inc()
		return 0, nil, fmt.Errorf("shiprocket %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ShiprocketRequests.WithLabelValues(endpoint, "error").Inc()
		return resp.StatusCode, nil, err
	}

	outcome := "ok"
	if resp.StatusCode != http.StatusOK {
		outcome = "error"
	}
	metrics.ShiprocketRequests.WithLabelValues(endpoint, outcome).Inc()
	return resp.StatusCode, raw, nil
}

// getJSON issues an authenticated GET and returns status + raw body.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values) (int, []byte, error) {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, err
	}

	token, err := c.Token(ctx)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ShiprocketRequests.WithLabelValues(endpoint, "error").Inc()
		return 0, nil, fmt.Errorf("shiprocket %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ShiprocketRequests.WithLabelValues(endpoint, "error").Inc()
		return resp.StatusCode, nil, err
	}

	outcome := "ok"
	if resp.StatusCode != http.StatusOK {
		outcome = "error"
	}
	metrics.ShiprocketRequests.WithLabelValues(endpoint, outcome).Inc()
	return resp.StatusCode, raw, nil
}

// ShowOrder fetches a Shiprocket order as a loosely typed document. The
// response nesting is not contractually stable, so callers probe it with the
// extraction helpers instead of a fixed schema.
func (c *Client) ShowOrder(ctx context.Context, srOrderID string) (map[string]any, error) {
	status, raw, err := c.getJSON(ctx, "orders/show/"+srOrderID, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("shiprocket orders/show: status %d", status)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("shiprocket orders/show: decode: %w", err)
	}
	return doc, nil
}

// CancelOrders cancels Shiprocket orders by provider order id. The endpoint
// takes an array of ids even for a single cancellation.
func (c *Client) CancelOrders(ctx context.Context, srOrderIDs []string) error {
	ids := make([]any, 0, len(srOrderIDs))
	for _, id := range srOrderIDs {
		ids = append(ids, id)
	}
	status, raw, err := c.postJSON(ctx, "orders/cancel", map[string]any{"ids": ids})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("shiprocket orders/cancel: status %d: %s", status, truncate(raw, 200))
	}
	log.WithField("ids", srOrderIDs).Info("shiprocket order cancelled")
	return nil
}

func truncate(raw []byte, n int) string {
	s := string(raw)
	if len(s) > n {
		return s[:n]
	}
	return s
}
