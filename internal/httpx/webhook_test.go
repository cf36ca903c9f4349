package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/orders"
	"github.com/bookport/bookport/internal/payment"
)

type stubReconciler struct {
	err  error
	seen *payment.Notification
}

func (s *stubReconciler) Handle(_ context.Context, n payment.Notification) error {
	s.seen = &n
	return s.err
}

func postNotification(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/midtrans-notification", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.notify(rec, req)
	return rec
}

const sampleNotification = `{
	"order_id": "BOOKPORT-1-1700000000000",
	"status_code": "200",
	"gross_amount": "110000.00",
	"transaction_status": "settlement",
	"payment_type": "gopay",
	"signature_key": "abc"
}`

func TestWebhookOK(t *testing.T) {
	stub := &stubReconciler{}
	h := &WebhookHandler{Reconciler: stub, Log: zap.NewNop()}

	rec := postNotification(t, h, sampleNotification)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OK")
	require.NotNil(t, stub.seen)
	assert.Equal(t, "BOOKPORT-1-1700000000000", stub.seen.OrderID)
	assert.Equal(t, "settlement", stub.seen.TransactionStatus)
}

func TestWebhookSignatureMismatch(t *testing.T) {
	stub := &stubReconciler{err: orders.ErrSignatureMismatch}
	h := &WebhookHandler{Reconciler: stub, Log: zap.NewNop()}

	rec := postNotification(t, h, sampleNotification)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookInternalErrorStillAcks(t *testing.T) {
	stub := &stubReconciler{err: errors.New("db down")}
	h := &WebhookHandler{Reconciler: stub, Log: zap.NewNop()}

	rec := postNotification(t, h, sampleNotification)

	// gagal proses tetap 200 supaya gateway tidak retry-storm
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "error processed")
}

func TestWebhookBadJSON(t *testing.T) {
	stub := &stubReconciler{}
	h := &WebhookHandler{Reconciler: stub, Log: zap.NewNop()}

	rec := postNotification(t, h, "{not json")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, stub.seen)
}
