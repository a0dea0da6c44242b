package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceIfForward(t *testing.T) {
	next, changed := AdvanceIfForward(OrderStatusPaid, OrderStatusShipped)
	assert.True(t, changed)
	assert.Equal(t, OrderStatusShipped, next)

	// Courier reports never move an order backwards.
	next, changed = AdvanceIfForward(OrderStatusShipped, OrderStatusProcessing)
	assert.False(t, changed)
	assert.Equal(t, OrderStatusShipped, next)

	next, changed = AdvanceIfForward(OrderStatusDelivered, OrderStatusDelivered)
	assert.False(t, changed)
	assert.Equal(t, OrderStatusDelivered, next)
}

func TestAdvanceIfForwardUnknownStatuses(t *testing.T) {
	// Cancelled is outside the fulfillment order, tracking cannot set it.
	next, changed := AdvanceIfForward(OrderStatusPaid, OrderStatusCancelled)
	assert.False(t, changed)
	assert.Equal(t, OrderStatusPaid, next)

	next, changed = AdvanceIfForward(OrderStatus("garbage"), OrderStatusShipped)
	assert.True(t, changed)
	assert.Equal(t, OrderStatusShipped, next)
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(OrderStatusPending))
	assert.True(t, CanCancel(OrderStatusPaid))
	assert.True(t, CanCancel(OrderStatusProcessing))

	assert.False(t, CanCancel(OrderStatusShipped))
	assert.False(t, CanCancel(OrderStatusDelivered))
	assert.False(t, CanCancel(OrderStatusCancelled))
}
