package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/hallbooking/config"
)

// Order is the gateway order created for an online booking.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to a Razorpay compatible orders API.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

func NewClient(cfg config.PaymentConfig, timeout time.Duration) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(cfg config.PaymentConfig, httpClient *http.Client) *Client {
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      httpClient,
	}
}

func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder registers an order for amountMinor (paise, cents).
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (Order, error) {
	body, err := json.Marshal(map[string]any{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return Order{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Order{}, fmt.Errorf("unexpected status code while creating order: %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Order{}, fmt.Errorf("decode order: %w", err)
	}
	if order.ID == "" {
		return Order{}, fmt.Errorf("create order: empty order id")
	}
	return order, nil
}

// Verify checks the checkout signature, hex(HMAC-SHA256(secret, order|payment)).
func (c *Client) Verify(_ context.Context, orderID, paymentID, signature string) (bool, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return false, nil
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false, nil
	}
	return hmac.Equal(got, Sign(c.keySecret, orderID, paymentID)), nil
}

func Sign(secret, orderID, paymentID string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return mac.Sum(nil)
}

func Receipt(bookingID int64) string {
	return fmt.Sprintf("booking_%d", bookingID)
}
