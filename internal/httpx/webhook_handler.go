package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/orders"
	"github.com/bookport/bookport/internal/payment"
)

// Reconciler applies a verified gateway notification to the order ledger.
type Reconciler interface {
	Handle(ctx context.Context, n payment.Notification) error
}

type WebhookHandler struct {
	Reconciler Reconciler
	Log        *zap.Logger
}

// notify acknowledges with 200 even when processing fails, so the gateway
// does not retry-storm. Signature mismatch is the single non-success
// response: the notification must not count as delivered.
func (h *WebhookHandler) notify(w http.ResponseWriter, r *http.Request) {
	var n payment.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		h.Log.Warn("webhook decode failed", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{"status": "error processed"})
		return
	}

	if err := h.Reconciler.Handle(r.Context(), n); err != nil {
		if errors.Is(err, orders.ErrSignatureMismatch) {
			h.Log.Error("webhook signature mismatch", zap.String("order_id", n.OrderID))
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "invalid signature"})
			return
		}
		h.Log.Error("webhook processing failed",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus),
			zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{"status": "error processed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
