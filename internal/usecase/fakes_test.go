package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
)

// In-memory stores used across the service tests. They honor the store
// contracts: (nil, nil) on absence and an atomic conditional decrement.

type memProductStore struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func newMemProductStore() *memProductStore {
	return &memProductStore{products: make(map[string]domain.Product)}
}

func (s *memProductStore) add(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *memProductStore) get(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *memProductStore) FindByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (s *memProductStore) FindAll(_ context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *memProductStore) filter(keep func(domain.Product) bool) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *memProductStore) FindByNameLike(_ context.Context, name string) ([]domain.Product, error) {
	needle := strings.ToLower(name)
	return s.filter(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

func (s *memProductStore) FindByDescriptionLike(_ context.Context, text string) ([]domain.Product, error) {
	needle := strings.ToLower(text)
	return s.filter(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Description), needle)
	}), nil
}

func (s *memProductStore) FindByPriceBetween(_ context.Context, min, max float64) ([]domain.Product, error) {
	return s.filter(func(p domain.Product) bool { return p.Price >= min && p.Price <= max }), nil
}

func (s *memProductStore) FindByQuantityAtMost(_ context.Context, threshold int) ([]domain.Product, error) {
	return s.filter(func(p domain.Product) bool { return p.Quantity <= threshold }), nil
}

func (s *memProductStore) FindInStock(_ context.Context) ([]domain.Product, error) {
	return s.filter(func(p domain.Product) bool { return p.Quantity > 0 }), nil
}

func (s *memProductStore) FindByCategory(_ context.Context, category string) ([]domain.Product, error) {
	return s.filter(func(p domain.Product) bool { return p.Category == category }), nil
}

func (s *memProductStore) FindByBrand(_ context.Context, brand string) ([]domain.Product, error) {
	return s.filter(func(p domain.Product) bool { return p.Brand == brand }), nil
}

func (s *memProductStore) FindByNameIgnoreCase(_ context.Context, name string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if strings.EqualFold(p.Name, name) {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memProductStore) ExistsByNameIgnoreCase(ctx context.Context, name string) (bool, error) {
	p, err := s.FindByNameIgnoreCase(ctx, name)
	return p != nil, err
}

func (s *memProductStore) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (s *memProductStore) Insert(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = *p
	return nil
}

func (s *memProductStore) Update(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = *p
	return nil
}

func (s *memProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	return nil
}

func (s *memProductStore) DecrementStock(_ context.Context, id string, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	s.products[id] = p
	return true, nil
}

func (s *memProductStore) IncrementStock(_ context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.Quantity += qty
		s.products[id] = p
	}
	return nil
}

type memOrderStore struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[string]domain.Order)}
}

func (s *memOrderStore) Insert(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = *o
	return nil
}

func (s *memOrderStore) Update(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = *o
	return nil
}

func (s *memOrderStore) FindByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		cp := o
		return &cp, nil
	}
	return nil, nil
}

func (s *memOrderStore) findOne(match func(domain.Order) bool) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if match(o) {
			cp := o
			return &cp
		}
	}
	return nil
}

func (s *memOrderStore) FindByOrderNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	return s.findOne(func(o domain.Order) bool { return o.OrderNumber == orderNumber }), nil
}

func (s *memOrderStore) FindByTrackingNumber(_ context.Context, trackingNumber string) (*domain.Order, error) {
	return s.findOne(func(o domain.Order) bool {
		return o.TrackingNumber != "" && o.TrackingNumber == trackingNumber
	}), nil
}

func (s *memOrderStore) findAll(match func(domain.Order) bool) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if match(o) {
			out = append(out, o)
		}
	}
	return out
}

func (s *memOrderStore) FindByUser(_ context.Context, username string, _ Page) ([]domain.Order, error) {
	return s.findAll(func(o domain.Order) bool { return o.Username == username }), nil
}

func (s *memOrderStore) FindAll(_ context.Context, _ Page) ([]domain.Order, error) {
	return s.findAll(func(domain.Order) bool { return true }), nil
}

func (s *memOrderStore) FindByStatus(_ context.Context, status domain.Status, _ Page) ([]domain.Order, error) {
	return s.findAll(func(o domain.Order) bool { return o.Status == status }), nil
}

func (s *memOrderStore) FindSince(_ context.Context, since time.Time) ([]domain.Order, error) {
	return s.findAll(func(o domain.Order) bool { return o.OrderDate.After(since) }), nil
}

func (s *memOrderStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.orders)), nil
}

func (s *memOrderStore) CountByUser(ctx context.Context, username string) (int64, error) {
	orders, _ := s.FindByUser(ctx, username, Page{})
	return int64(len(orders)), nil
}

type memUserStore struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]domain.User)}
}

func (s *memUserStore) addUser(username string, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = domain.User{ID: "u-" + username, Username: username, Role: role}
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (s *memUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := s.FindByUsername(ctx, username)
	return u != nil, err
}

func (s *memUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) Insert(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = *u
	return nil
}

// nopCache never hits; tests that exercise caching use recordingCache.
type nopCache struct{}

func (nopCache) Get(context.Context, string) (*domain.Product, bool) { return nil, false }
func (nopCache) Set(context.Context, *domain.Product)                {}
func (nopCache) GetAll(context.Context) ([]domain.Product, bool)     { return nil, false }
func (nopCache) SetAll(context.Context, []domain.Product)            {}
func (nopCache) Evict(context.Context, string)                       {}
func (nopCache) EvictAll(context.Context)                            {}

type recordingCache struct {
	mu      sync.Mutex
	byID    map[string]domain.Product
	all     []domain.Product
	hasAll  bool
	evicted int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{byID: make(map[string]domain.Product)}
}

func (c *recordingCache) Get(_ context.Context, id string) (*domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.byID[id]; ok {
		cp := p
		return &cp, true
	}
	return nil, false
}

func (c *recordingCache) Set(_ context.Context, p *domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[p.ID] = *p
}

func (c *recordingCache) GetAll(_ context.Context) ([]domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasAll {
		return nil, false
	}
	return append([]domain.Product(nil), c.all...), true
}

func (c *recordingCache) SetAll(_ context.Context, products []domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = append([]domain.Product(nil), products...)
	c.hasAll = true
}

func (c *recordingCache) Evict(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byID, id)
	c.evicted++
}

func (c *recordingCache) EvictAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = nil
	c.hasAll = false
	c.evicted++
}

type memPublisher struct {
	mu      sync.Mutex
	created []OrderCreatedMsg
	changed []OrderStatusChangedMsg
}

func (p *memPublisher) PublishOrderCreated(_ context.Context, msg OrderCreatedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, msg)
	return nil
}

func (p *memPublisher) PublishStatusChanged(_ context.Context, msg OrderStatusChangedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, msg)
	return nil
}
