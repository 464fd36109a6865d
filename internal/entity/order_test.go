package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderItem_SnapshotsProduct(t *testing.T) {
	p := &Product{ID: "p1", Name: "Hammer", SKU: "HAM-1", Price: 12.50}
	item := NewOrderItem(p, 3)

	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "Hammer", item.ProductName)
	assert.Equal(t, "HAM-1", item.ProductSKU)
	assert.InDelta(t, 12.50, item.Price, 1e-9)
	assert.InDelta(t, 37.50, item.Subtotal, 1e-9)

	// Mutating the product afterwards leaves the snapshot untouched.
	p.Price = 99
	p.Name = "renamed"
	assert.InDelta(t, 12.50, item.Price, 1e-9)
	assert.Equal(t, "Hammer", item.ProductName)
}

func TestRecalculateTotals(t *testing.T) {
	o := &Order{
		Items: []OrderItem{
			{Subtotal: 10.00},
			{Subtotal: 15.50},
		},
		ShippingCost: 9.99,
		TaxAmount:    2.04,
	}
	o.RecalculateTotals()
	assert.InDelta(t, 25.50, o.TotalAmount, 1e-9)
	assert.InDelta(t, 25.50+9.99+2.04, o.FinalAmount, 1e-9)

	o.Items = nil
	o.ShippingCost = 0
	o.TaxAmount = 0
	o.RecalculateTotals()
	assert.Zero(t, o.TotalAmount)
	assert.Zero(t, o.FinalAmount)
}

func TestCanBeCancelled(t *testing.T) {
	cancellable := map[Status]bool{
		StatusPending:        true,
		StatusConfirmed:      true,
		StatusProcessing:     true,
		StatusShipped:        false,
		StatusOutForDelivery: true,
		StatusDelivered:      false,
		StatusCancelled:      false,
		StatusReturned:       true,
		StatusRefunded:       true,
	}
	for status, want := range cancellable {
		o := &Order{Status: status}
		assert.Equal(t, want, o.CanBeCancelled(), "status %s", status)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseStatus("shipped")
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("PAYPAL")
	require.NoError(t, err)
	assert.Equal(t, PaymentPayPal, m)

	_, err = ParsePaymentMethod("IOU")
	assert.Error(t, err)
}

func TestOwnedBy(t *testing.T) {
	o := &Order{Username: "alice"}
	assert.True(t, o.OwnedBy("alice"))
	assert.False(t, o.OwnedBy("bob"))
	assert.False(t, o.OwnedBy(""))
}

func TestTrackingViewOmitsPrivateFields(t *testing.T) {
	o := &Order{
		Username:       "alice",
		OrderNumber:    "ORD-ABC",
		TrackingNumber: "TRK-XYZ",
		Status:         StatusShipped,
		Items:          []OrderItem{{ProductID: "p1"}},
	}
	v := o.TrackingView()
	assert.Equal(t, "ORD-ABC", v.OrderNumber)
	assert.Equal(t, "TRK-XYZ", v.TrackingNumber)
	assert.Equal(t, StatusShipped, v.Status)
}
