package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notary records immutable purchase receipts on an external ledger. The call
// may be slow or fail; callers bound it with a context deadline and route
// failures to the retry queue.
type Notary interface {
	RecordReceipt(ctx context.Context, pesananID, userID, amount int64) (txRef string, err error)
}

// Client is the HTTP implementation against the ledger relay service.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

type receiptRequest struct {
	OrderID int64 `json:"order_id"`
	UserID  int64 `json:"user_id"`
	Amount  int64 `json:"amount"`
}

type receiptResponse struct {
	TxHash  string `json:"tx_hash"`
	Message string `json:"message"`
}

func (c *Client) RecordReceipt(ctx context.Context, pesananID, userID, amount int64) (string, error) {
	b, err := json.Marshal(receiptRequest{OrderID: pesananID, UserID: userID, Amount: amount})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/receipts", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("ledger request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out receiptResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("ledger response: %w", err)
	}
	if resp.StatusCode >= 300 || out.TxHash == "" {
		if out.Message != "" {
			return "", fmt.Errorf("ledger: %s", out.Message)
		}
		return "", fmt.Errorf("ledger: unexpected status %d", resp.StatusCode)
	}
	return out.TxHash, nil
}
