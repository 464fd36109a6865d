package domain

import "time"

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusProcessing     Status = "PROCESSING"
	StatusShipped        Status = "SHIPPED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
	StatusReturned       Status = "RETURNED"
	StatusRefunded       Status = "REFUNDED"
)

var validStatuses = map[Status]struct{}{
	StatusPending: {}, StatusConfirmed: {}, StatusProcessing: {},
	StatusShipped: {}, StatusOutForDelivery: {}, StatusDelivered: {},
	StatusCancelled: {}, StatusReturned: {}, StatusRefunded: {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := validStatuses[st]; !ok {
		return "", invalid("status", "unknown value "+s)
	}
	return st, nil
}

// OrderItem is a snapshot of the product at order-creation time.
// Later catalog changes never alter it.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	ProductSKU  string  `json:"productSku"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

func NewOrderItem(p *Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		ProductSKU:  p.SKU,
		Price:       p.Price,
		Quantity:    quantity,
		Subtotal:    p.Price * float64(quantity),
	}
}

type ShippingAddress struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Company      string `json:"company,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

type Order struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Items    []OrderItem `json:"items"`
	Status   Status      `json:"status"`

	TotalAmount  float64 `json:"totalAmount"`
	ShippingCost float64 `json:"shippingCost"`
	TaxAmount    float64 `json:"taxAmount"`
	FinalAmount  float64 `json:"finalAmount"`

	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentInfo     PaymentInfo     `json:"paymentInfo"`

	OrderNumber    string `json:"orderNumber"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Notes          string `json:"notes,omitempty"`

	OrderDate             time.Time  `json:"orderDate"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate,omitempty"`
	DeliveredDate         *time.Time `json:"deliveredDate,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// RecalculateTotals recomputes totalAmount from the item subtotals and
// finalAmount from its three components. Call after any change to
// items, shipping cost, or tax.
func (o *Order) RecalculateTotals() {
	var total float64
	for _, it := range o.Items {
		total += it.Subtotal
	}
	o.TotalAmount = total
	o.FinalAmount = o.TotalAmount + o.ShippingCost + o.TaxAmount
}

// OwnedBy reports whether the given user placed the order.
func (o *Order) OwnedBy(username string) bool {
	return o.Username == username
}

// CanBeCancelled applies the owner-facing cancellation guard. Direct
// admin status updates intentionally bypass it.
func (o *Order) CanBeCancelled() bool {
	switch o.Status {
	case StatusDelivered, StatusCancelled, StatusShipped:
		return false
	}
	return true
}

// TrackingView is the reduced projection exposed to unauthenticated
// tracking lookups: no items, no payment info, no user identity.
type TrackingView struct {
	OrderNumber           string     `json:"orderNumber"`
	Status                Status     `json:"status"`
	TrackingNumber        string     `json:"trackingNumber"`
	OrderDate             time.Time  `json:"orderDate"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate,omitempty"`
	DeliveredDate         *time.Time `json:"deliveredDate,omitempty"`
}

func (o *Order) TrackingView() TrackingView {
	return TrackingView{
		OrderNumber:           o.OrderNumber,
		Status:                o.Status,
		TrackingNumber:        o.TrackingNumber,
		OrderDate:             o.OrderDate,
		EstimatedDeliveryDate: o.EstimatedDeliveryDate,
		DeliveredDate:         o.DeliveredDate,
	}
}
