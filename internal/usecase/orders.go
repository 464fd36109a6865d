package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
)

const (
	freeShippingThreshold = 50.00
	flatShippingCost      = 9.99
	taxRate               = 0.08
	deliveryLeadDays      = 7
)

// Caller identifies the authenticated principal for authorization
// checks at order entry points.
type Caller struct {
	Username string
	Admin    bool
}

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderInput struct {
	Username        string
	Items           []CartItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	Notes           string
}

// Orders implements order placement, the status state machine, and the
// owner/admin authorization gate.
type Orders struct {
	orders OrderStore
	users  UserStore
	ledger *InventoryLedger
	events EventPublisher
	log    *slog.Logger
}

func NewOrders(orders OrderStore, users UserStore, ledger *InventoryLedger, events EventPublisher, log *slog.Logger) *Orders {
	return &Orders{orders: orders, users: users, ledger: ledger, events: events, log: log}
}

// CreateOrder builds an order from the cart, pricing each line against
// the catalog and reserving stock per line. Reservation is
// all-or-nothing: a failed line restores every line reserved earlier
// in the same attempt.
func (s *Orders) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, in.Username)
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if _, err := domain.ParsePaymentMethod(string(in.PaymentMethod)); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	reserved := make([]CartItem, 0, len(in.Items))
	for _, ci := range in.Items {
		item, err := s.reserveLine(ctx, ci)
		if err != nil {
			s.releaseReserved(ctx, reserved)
			return nil, err
		}
		items = append(items, item)
		reserved = append(reserved, ci)
	}

	now := time.Now()
	eta := now.AddDate(0, 0, deliveryLeadDays)
	order := &domain.Order{
		ID:                    uuid.NewString(),
		Username:              user.Username,
		Items:                 items,
		Status:                domain.StatusPending,
		ShippingAddress:       in.ShippingAddress,
		OrderNumber:           newOrderNumber(),
		Notes:                 in.Notes,
		OrderDate:             now,
		EstimatedDeliveryDate: &eta,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	order.RecalculateTotals()
	order.ShippingCost = shippingCostFor(order.TotalAmount)
	order.TaxAmount = order.TotalAmount * taxRate
	order.RecalculateTotals()
	order.PaymentInfo = domain.NewPaymentInfo(in.PaymentMethod, order.FinalAmount)

	if err := s.orders.Insert(ctx, order); err != nil {
		s.releaseReserved(ctx, reserved)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := s.events.PublishOrderCreated(ctx, OrderCreatedMsg{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Username:    order.Username,
		FinalAmount: order.FinalAmount,
		Status:      string(order.Status),
	}); err != nil {
		s.log.Warn("publish order.created failed", "order_id", order.ID, "err", err)
	}

	s.log.Info("order created",
		"order_id", order.ID, "order_number", order.OrderNumber,
		"user", order.Username, "final_amount", order.FinalAmount)
	return order, nil
}

func (s *Orders) reserveLine(ctx context.Context, ci CartItem) (domain.OrderItem, error) {
	p, err := s.ledger.products.FindByID(ctx, ci.ProductID)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		return domain.OrderItem{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, ci.ProductID)
	}
	price, err := s.ledger.Reserve(ctx, ci.ProductID, ci.Quantity)
	if err != nil {
		return domain.OrderItem{}, err
	}
	// Snapshot with the price the reservation saw.
	p.Price = price
	return domain.NewOrderItem(p, ci.Quantity), nil
}

func (s *Orders) releaseReserved(ctx context.Context, reserved []CartItem) {
	for _, r := range reserved {
		if err := s.ledger.Restore(ctx, r.ProductID, r.Quantity); err != nil {
			s.log.Error("restore after failed reservation", "product_id", r.ProductID, "err", err)
		}
	}
}

func shippingCostFor(totalAmount float64) float64 {
	if totalAmount > freeShippingThreshold {
		return 0
	}
	return flatShippingCost
}

// GetOrderByID returns the order when the caller is its owner or an
// admin; otherwise domain.ErrAccessDenied.
func (s *Orders) GetOrderByID(ctx context.Context, orderID string, caller Caller) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeView(order, caller); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Orders) GetOrderByOrderNumber(ctx context.Context, orderNumber string, caller Caller) (*domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderNumber)
	}
	if err := authorizeView(order, caller); err != nil {
		return nil, err
	}
	return order, nil
}

// TrackOrder is a public lookup: it returns the reduced projection
// only, so unauthenticated callers never see items, payment info, or
// the owner's identity.
func (s *Orders) TrackOrder(ctx context.Context, trackingNumber string) (domain.TrackingView, error) {
	order, err := s.orders.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return domain.TrackingView{}, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return domain.TrackingView{}, fmt.Errorf("%w: tracking %s", domain.ErrOrderNotFound, trackingNumber)
	}
	return order.TrackingView(), nil
}

// CancelOrder is the owner-facing cancellation. It enforces both the
// view authorization and the cancellation guard; delivered, already
// cancelled, or shipped orders cannot be cancelled here.
func (s *Orders) CancelOrder(ctx context.Context, orderID string, caller Caller) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeView(order, caller); err != nil {
		return nil, err
	}
	if !order.CanBeCancelled() {
		return nil, fmt.Errorf("%w: cannot cancel order in status %s", domain.ErrIllegalTransition, order.Status)
	}
	return s.transition(ctx, order, domain.StatusCancelled)
}

// UpdateOrderStatus is the admin path. It performs no legality check:
// any status may be set from any status. The asymmetry with
// CancelOrder is intentional.
func (s *Orders) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.Status) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, newStatus)
}

// transition applies the status side effects and persists the order.
func (s *Orders) transition(ctx context.Context, order *domain.Order, newStatus domain.Status) (*domain.Order, error) {
	switch newStatus {
	case domain.StatusShipped:
		if order.TrackingNumber == "" {
			order.TrackingNumber = newTrackingNumber()
		}
	case domain.StatusDelivered:
		now := time.Now()
		order.DeliveredDate = &now
	case domain.StatusCancelled, domain.StatusReturned:
		s.restoreStock(ctx, order)
	case domain.StatusRefunded:
		// Payment-level concern; no stock side effect.
	}

	order.Status = newStatus
	order.UpdatedAt = time.Now()
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := s.events.PublishStatusChanged(ctx, OrderStatusChangedMsg{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
	}); err != nil {
		s.log.Warn("publish order.status_changed failed", "order_id", order.ID, "err", err)
	}

	s.log.Info("order status changed", "order_id", order.ID, "status", order.Status)
	return order, nil
}

func (s *Orders) restoreStock(ctx context.Context, order *domain.Order) {
	for _, item := range order.Items {
		if err := s.ledger.Restore(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.Error("restore stock", "order_id", order.ID, "product_id", item.ProductID, "err", err)
		}
	}
}

// AddTrackingNumber sets an explicit tracking number (admin).
func (s *Orders) AddTrackingNumber(ctx context.Context, orderID, trackingNumber string) (*domain.Order, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, &domain.ValidationError{Field: "trackingNumber", Reason: "is required"}
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.TrackingNumber = trackingNumber
	order.UpdatedAt = time.Now()
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	return order, nil
}

// ApplyPaymentEvent records an external payment outcome on the order.
func (s *Orders) ApplyPaymentEvent(ctx context.Context, ev PaymentEventMsg) error {
	order, err := s.loadOrder(ctx, ev.OrderID)
	if err != nil {
		return err
	}
	now := time.Now()
	switch ev.Status {
	case "COMPLETED":
		order.PaymentInfo.Status = domain.PaymentStatusCompleted
		order.PaymentInfo.PaymentDate = &now
	case "FAILED":
		order.PaymentInfo.Status = domain.PaymentStatusFailed
		order.PaymentInfo.FailureReason = ev.FailureReason
	default:
		return &domain.ValidationError{Field: "status", Reason: "unknown payment status " + ev.Status}
	}
	order.PaymentInfo.TransactionID = ev.TransactionID
	order.UpdatedAt = now
	return s.orders.Update(ctx, order)
}

func (s *Orders) GetUserOrders(ctx context.Context, username string, page Page) ([]domain.Order, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	return s.orders.FindByUser(ctx, username, page)
}

func (s *Orders) GetAllOrders(ctx context.Context, page Page) ([]domain.Order, error) {
	return s.orders.FindAll(ctx, page)
}

func (s *Orders) GetOrdersByStatus(ctx context.Context, status domain.Status, page Page) ([]domain.Order, error) {
	return s.orders.FindByStatus(ctx, status, page)
}

func (s *Orders) GetRecentOrders(ctx context.Context, days int) ([]domain.Order, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.orders.FindSince(ctx, since)
}

func (s *Orders) OrderCount(ctx context.Context) (int64, error) {
	return s.orders.Count(ctx)
}

func (s *Orders) UserOrderCount(ctx context.Context, username string) (int64, error) {
	return s.orders.CountByUser(ctx, username)
}

func (s *Orders) loadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	return order, nil
}

func authorizeView(order *domain.Order, caller Caller) error {
	if caller.Admin || order.OwnedBy(caller.Username) {
		return nil
	}
	return domain.ErrAccessDenied
}

func newOrderNumber() string {
	return "ORD-" + shortToken(16)
}

func newTrackingNumber() string {
	return "TRK-" + shortToken(12)
}

// shortToken derives an uppercase token from a fresh UUID; long enough
// to stay collision-free across concurrent creations.
func shortToken(n int) string {
	t := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(t) {
		n = len(t)
	}
	return t[:n]
}
