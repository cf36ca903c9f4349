package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to FulfillmentStatus
		ok       bool
	}{
		{StatusWaitingPayment, StatusCancelled, true},
		{StatusWaitingPayment, StatusProcessing, false}, // only payment moves it forward
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusCompleted, false},
		{StatusShipped, StatusCompleted, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusProcessing, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusCancelled, StatusCompleted, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestDisplayUsesSpaces(t *testing.T) {
	assert.Equal(t, "waiting payment", StatusWaitingPayment.Display())
	assert.Equal(t, "processing", StatusProcessing.Display())
}

func TestParseFulfillment(t *testing.T) {
	s, ok := ParseFulfillment("waiting payment")
	require.True(t, ok)
	assert.Equal(t, StatusWaitingPayment, s)

	s, ok = ParseFulfillment("waiting_payment")
	require.True(t, ok)
	assert.Equal(t, StatusWaitingPayment, s)

	s, ok = ParseFulfillment("  shipped ")
	require.True(t, ok)
	assert.Equal(t, StatusShipped, s)

	_, ok = ParseFulfillment("paid")
	assert.False(t, ok)

	_, ok = ParseFulfillment("")
	assert.False(t, ok)
}
