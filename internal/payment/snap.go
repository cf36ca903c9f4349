package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// SnapClient talks to the Midtrans Snap API. Calls go through a circuit
// breaker so a flapping gateway fails fast instead of holding checkout
// transactions open.
type SnapClient struct {
	BaseURL   string
	ServerKey string
	HTTP      *http.Client

	cb *gobreaker.CircuitBreaker[string]
}

func NewSnapClient(baseURL, serverKey string) *SnapClient {
	return &SnapClient{
		BaseURL:   baseURL,
		ServerKey: serverKey,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
		cb: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    "midtrans-snap",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
}

type snapRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails Customer  `json:"customer_details"`
	Callbacks       Callbacks `json:"callbacks"`
}

type snapResponse struct {
	Token         string   `json:"token"`
	ErrorMessages []string `json:"error_messages"`
}

func (c *SnapClient) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	return c.cb.Execute(func() (string, error) {
		return c.createSession(ctx, req)
	})
}

func (c *SnapClient) createSession(ctx context.Context, req SessionRequest) (string, error) {
	var body snapRequest
	body.TransactionDetails.OrderID = req.OrderID
	body.TransactionDetails.GrossAmount = req.GrossAmount
	body.CustomerDetails = req.Customer
	body.Callbacks = req.Callbacks

	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/snap/v1/transactions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.ServerKey, "")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("snap request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out snapResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("snap response: %w", err)
	}
	if resp.StatusCode >= 300 || out.Token == "" {
		if len(out.ErrorMessages) > 0 {
			return "", fmt.Errorf("snap: %s", out.ErrorMessages[0])
		}
		return "", fmt.Errorf("snap: unexpected status %d", resp.StatusCode)
	}
	return out.Token, nil
}
