package orders

import "strings"

// PaymentStatus is the money-collection lifecycle of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// FulfillmentStatus is the delivery lifecycle of an order. The underscore
// form is what gets persisted; Display formats for the boundary.
type FulfillmentStatus string

const (
	StatusWaitingPayment FulfillmentStatus = "waiting_payment"
	StatusProcessing     FulfillmentStatus = "processing"
	StatusShipped        FulfillmentStatus = "shipped"
	StatusCompleted      FulfillmentStatus = "completed"
	StatusCancelled      FulfillmentStatus = "cancelled"
)

var validNext = map[FulfillmentStatus]map[FulfillmentStatus]bool{
	StatusWaitingPayment: {StatusCancelled: true},
	StatusProcessing:     {StatusShipped: true, StatusCancelled: true},
	StatusShipped:        {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted:      {},
	StatusCancelled:      {},
}

func CanTransition(from, to FulfillmentStatus) bool {
	return validNext[from][to]
}

func (s FulfillmentStatus) Display() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// ParseFulfillment accepts both the stored underscore form and the
// space form used by the admin UI.
func ParseFulfillment(raw string) (FulfillmentStatus, bool) {
	s := FulfillmentStatus(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_"))
	switch s {
	case StatusWaitingPayment, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return s, true
	}
	return "", false
}
