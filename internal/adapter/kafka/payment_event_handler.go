package kafka

import (
	"context"
	"errors"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

// PaymentEventHandler applies payment outcomes from the payment
// processor to the stored order.
type PaymentEventHandler struct {
	Orders *usecase.Orders
}

func NewPaymentEventHandler(orders *usecase.Orders) *PaymentEventHandler {
	return &PaymentEventHandler{Orders: orders}
}

func (h *PaymentEventHandler) Handle(ctx context.Context, ev usecase.PaymentEventMsg) error {
	err := h.Orders.ApplyPaymentEvent(ctx, ev)
	// An unknown order is not retryable; drop the event.
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil
	}
	return err
}
