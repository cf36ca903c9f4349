package orders

import (
	"encoding/json"
	"time"
)

const (
	EventReceiptRequested = "ReceiptRequested"
	EventOrderPaid        = "OrderPaid"
	EventOrderCancelled   = "OrderCancelled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya pesanan_id
	Payload       json.RawMessage `json:"payload"`
}

// ReceiptRequestedPayload asks the worker to notarize a paid order on the
// external ledger.
type ReceiptRequestedPayload struct {
	PesananID  int64 `json:"pesanan_id"`
	UserID     int64 `json:"user_id"`
	TotalHarga int64 `json:"total_harga"`
}

type OrderPaidPayload struct {
	PesananID     int64  `json:"pesanan_id"`
	PaymentMethod string `json:"payment_method"`
	TotalHarga    int64  `json:"total_harga"`
}

type OrderCancelledPayload struct {
	PesananID int64  `json:"pesanan_id"`
	Reason    string `json:"reason"`
}
