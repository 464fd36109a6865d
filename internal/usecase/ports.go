package usecase

import (
	"context"
	"time"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
)

// Page is a LIMIT/OFFSET window. Number is zero-based.
type Page struct {
	Number int
	Size   int
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return p.Number * p.Size }

// Stores return (nil, nil) when the entity is absent; use cases map
// absence to the typed not-found errors.

type ProductStore interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByNameLike(ctx context.Context, name string) ([]domain.Product, error)
	FindByDescriptionLike(ctx context.Context, text string) ([]domain.Product, error)
	FindByPriceBetween(ctx context.Context, min, max float64) ([]domain.Product, error)
	FindByQuantityAtMost(ctx context.Context, threshold int) ([]domain.Product, error)
	FindInStock(ctx context.Context) ([]domain.Product, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Product, error)
	FindByBrand(ctx context.Context, brand string) ([]domain.Product, error)
	FindByNameIgnoreCase(ctx context.Context, name string) (*domain.Product, error)
	ExistsByNameIgnoreCase(ctx context.Context, name string) (bool, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Insert(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error

	// DecrementStock applies a conditional decrement: it succeeds only
	// when the stored quantity is at least qty, as one atomic step.
	// Returns false when stock was insufficient.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
	// IncrementStock restores quantity unconditionally. Restoring a
	// product that no longer exists is a no-op.
	IncrementStock(ctx context.Context, id string, qty int) error
}

type OrderStore interface {
	Insert(ctx context.Context, o *domain.Order) error
	Update(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Order, error)
	FindByUser(ctx context.Context, username string, page Page) ([]domain.Order, error)
	FindAll(ctx context.Context, page Page) ([]domain.Order, error)
	FindByStatus(ctx context.Context, status domain.Status, page Page) ([]domain.Order, error)
	FindSince(ctx context.Context, since time.Time) ([]domain.Order, error)
	Count(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context, username string) (int64, error)
}

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, u *domain.User) error
}

type AuditStore interface {
	Insert(ctx context.Context, q *domain.QueryLog) error
	FindAll(ctx context.Context) ([]domain.QueryLog, error)
	FindByClientIP(ctx context.Context, clientIP string) ([]domain.QueryLog, error)
	FindByMethod(ctx context.Context, method string) ([]domain.QueryLog, error)
	FindByStatus(ctx context.Context, status int) ([]domain.QueryLog, error)
	FindFailed(ctx context.Context) ([]domain.QueryLog, error)
	FindSlow(ctx context.Context, thresholdMs int64) ([]domain.QueryLog, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]domain.QueryLog, error)
	SearchURI(ctx context.Context, pattern string) ([]domain.QueryLog, error)
	DeleteAll(ctx context.Context) error
	Stats(ctx context.Context) (AuditStats, error)
}

type AuditStats struct {
	TotalRequests  int64   `json:"totalRequests"`
	FailedRequests int64   `json:"failedRequests"`
	AvgDurationMs  float64 `json:"avgDurationMs"`
	MaxDurationMs  int64   `json:"maxDurationMs"`
}

// ProductCache is a best-effort read cache; misses and failures fall
// through to the store.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool)
	Set(ctx context.Context, p *domain.Product)
	GetAll(ctx context.Context) ([]domain.Product, bool)
	SetAll(ctx context.Context, products []domain.Product)
	Evict(ctx context.Context, id string)
	EvictAll(ctx context.Context)
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, msg OrderCreatedMsg) error
	PublishStatusChanged(ctx context.Context, msg OrderStatusChangedMsg) error
}
