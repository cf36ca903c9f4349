package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/payment"
)

type stubLookup struct {
	order      Order
	err        error
	newSession string
}

func (s *stubLookup) GetOwnedBySession(_ context.Context, _ string, _ int64) (Order, error) {
	return s.order, s.err
}

func (s *stubLookup) SetSession(_ context.Context, _ int64, sessionID string) error {
	s.newSession = sessionID
	return nil
}

type stubGateway struct {
	token string
	err   error
	req   payment.SessionRequest
}

func (g *stubGateway) CreateSession(_ context.Context, req payment.SessionRequest) (string, error) {
	g.req = req
	return g.token, g.err
}

func retryService(lookup *stubLookup, gw *stubGateway) *CheckoutService {
	return &CheckoutService{
		Orders:      lookup,
		Gateway:     gw,
		FrontendURL: "http://localhost:3000",
		Log:         zap.NewNop(),
	}
}

func TestRetryPaymentRejectsPaidOrder(t *testing.T) {
	lookup := &stubLookup{order: Order{ID: 7, StatusPembayaran: PaymentPaid}}
	svc := retryService(lookup, &stubGateway{})

	_, err := svc.RetryPayment(context.Background(), CheckoutUser{ID: 1}, "BOOKPORT-1-1")

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, lookup.newSession, "session must not be replaced")
}

func TestRetryPaymentRejectsFailedOrder(t *testing.T) {
	lookup := &stubLookup{order: Order{ID: 7, StatusPembayaran: PaymentFailed}}
	svc := retryService(lookup, &stubGateway{})

	_, err := svc.RetryPayment(context.Background(), CheckoutUser{ID: 1}, "BOOKPORT-1-1")

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRetryPaymentNotFound(t *testing.T) {
	lookup := &stubLookup{err: ErrOrderNotFound}
	svc := retryService(lookup, &stubGateway{})

	_, err := svc.RetryPayment(context.Background(), CheckoutUser{ID: 1}, "BOOKPORT-1-1")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRetryPaymentIssuesFreshSession(t *testing.T) {
	lookup := &stubLookup{order: Order{
		ID:               7,
		OrderNumber:      "BP-00007",
		TotalHarga:       110000,
		StatusPembayaran: PaymentPending,
	}}
	gw := &stubGateway{token: "snap-token-2"}
	svc := retryService(lookup, gw)

	res, err := svc.RetryPayment(context.Background(),
		CheckoutUser{ID: 1, Nama: "Budi", Email: "budi@example.com"}, "BOOKPORT-1-1")
	require.NoError(t, err)

	assert.Equal(t, "snap-token-2", res.SnapToken)
	assert.Equal(t, "BP-00007", res.OrderNumber)
	assert.Equal(t, int64(7), res.PesananID)
	assert.True(t, strings.HasPrefix(res.OrderID, "BOOKPORT-7-RETRY-"), res.OrderID)
	assert.Equal(t, res.OrderID, lookup.newSession)
	assert.Equal(t, int64(110000), gw.req.GrossAmount)
	assert.Equal(t, "Budi", gw.req.Customer.FirstName)
}
