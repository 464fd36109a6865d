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

// Products is the catalog service: CRUD, search, and inventory-level
// updates, with a read-through cache in front of the store.
type Products struct {
	store ProductStore
	cache ProductCache
	log   *slog.Logger
}

func NewProducts(store ProductStore, cache ProductCache, log *slog.Logger) *Products {
	return &Products{store: store, cache: cache, log: log}
}

func (s *Products) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if cached, ok := s.cache.GetAll(ctx); ok {
		return cached, nil
	}
	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetAll(ctx, products)
	return products, nil
}

func (s *Products) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	s.cache.Set(ctx, p)
	return p, nil
}

func (s *Products) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, p.Name, p.SKU); err != nil {
		return nil, err
	}

	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	s.cache.EvictAll(ctx)
	s.log.Info("product created", "product_id", p.ID, "sku", p.SKU)
	return p, nil
}

// CreateBulkProducts inserts several products; duplicates within the
// batch or against the catalog reject the whole request.
func (s *Products) CreateBulkProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	if len(products) == 0 {
		return nil, &domain.ValidationError{Field: "products", Reason: "must not be empty"}
	}

	seenNames := make(map[string]struct{}, len(products))
	seenSKUs := make(map[string]struct{}, len(products))
	for i := range products {
		p := &products[i]
		if err := p.Validate(); err != nil {
			return nil, err
		}
		name := strings.ToLower(p.Name)
		if _, dup := seenNames[name]; dup {
			return nil, fmt.Errorf("%w: product name %q repeated in request", domain.ErrDuplicate, p.Name)
		}
		if _, dup := seenSKUs[p.SKU]; dup {
			return nil, fmt.Errorf("%w: sku %q repeated in request", domain.ErrDuplicate, p.SKU)
		}
		seenNames[name] = struct{}{}
		seenSKUs[p.SKU] = struct{}{}
		if err := s.checkUnique(ctx, p.Name, p.SKU); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	for i := range products {
		p := &products[i]
		p.ID = uuid.NewString()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := s.store.Insert(ctx, p); err != nil {
			return nil, fmt.Errorf("insert product: %w", err)
		}
	}
	s.cache.EvictAll(ctx)
	s.log.Info("bulk products created", "count", len(products))
	return products, nil
}

func (s *Products) UpdateProduct(ctx context.Context, id string, in *domain.Product) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.requireProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// Name conflict only counts against other products.
	sameName, err := s.store.FindByNameIgnoreCase(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if sameName != nil && sameName.ID != id {
		return nil, fmt.Errorf("%w: product name %q", domain.ErrDuplicate, in.Name)
	}
	if in.SKU != existing.SKU {
		taken, err := s.store.ExistsBySKU(ctx, in.SKU)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: sku %q", domain.ErrDuplicate, in.SKU)
		}
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.Price = in.Price
	existing.Quantity = in.Quantity
	existing.SKU = in.SKU
	existing.Category = in.Category
	existing.Brand = in.Brand
	existing.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.cache.Set(ctx, existing)
	s.cache.EvictAll(ctx)
	s.log.Info("product updated", "product_id", id)
	return existing, nil
}

func (s *Products) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.requireProduct(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.cache.Evict(ctx, id)
	s.cache.EvictAll(ctx)
	s.log.Info("product deleted", "product_id", id)
	return nil
}

// UpdateQuantity sets the absolute stock level (admin inventory fix-up,
// not an order-path reservation).
func (s *Products) UpdateQuantity(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	p, err := s.requireProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Quantity = quantity
	p.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.cache.Set(ctx, p)
	s.cache.EvictAll(ctx)
	return p, nil
}

func (s *Products) UpdatePrice(ctx context.Context, id string, price float64) (*domain.Product, error) {
	if price <= 0 || price > domain.MaxProductPrice {
		return nil, &domain.ValidationError{Field: "price", Reason: "out of range"}
	}
	p, err := s.requireProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.cache.Set(ctx, p)
	s.cache.EvictAll(ctx)
	return p, nil
}

func (s *Products) SearchByName(ctx context.Context, name string) ([]domain.Product, error) {
	return s.store.FindByNameLike(ctx, name)
}

func (s *Products) SearchByDescription(ctx context.Context, text string) ([]domain.Product, error) {
	return s.store.FindByDescriptionLike(ctx, text)
}

func (s *Products) GetByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error) {
	if min < 0 || max < 0 || min > max {
		return nil, &domain.ValidationError{Field: "priceRange", Reason: "invalid bounds"}
	}
	return s.store.FindByPriceBetween(ctx, min, max)
}

func (s *Products) GetLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	return s.store.FindByQuantityAtMost(ctx, threshold)
}

func (s *Products) GetInStock(ctx context.Context) ([]domain.Product, error) {
	return s.store.FindInStock(ctx)
}

func (s *Products) GetByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.store.FindByCategory(ctx, category)
}

func (s *Products) GetByBrand(ctx context.Context, brand string) ([]domain.Product, error) {
	return s.store.FindByBrand(ctx, brand)
}

func (s *Products) requireProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return p, nil
}

func (s *Products) checkUnique(ctx context.Context, name, sku string) error {
	nameTaken, err := s.store.ExistsByNameIgnoreCase(ctx, name)
	if err != nil {
		return err
	}
	if nameTaken {
		return fmt.Errorf("%w: product name %q", domain.ErrDuplicate, name)
	}
	skuTaken, err := s.store.ExistsBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if skuTaken {
		return fmt.Errorf("%w: sku %q", domain.ErrDuplicate, sku)
	}
	return nil
}
