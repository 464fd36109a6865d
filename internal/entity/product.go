package domain

import (
	"regexp"
	"strings"
	"time"
)

const MaxProductPrice = 999999.99

var skuPattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	SKU         string    `json:"sku"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "is required")
	}
	if p.Price <= 0 {
		return invalid("price", "must be greater than 0")
	}
	if p.Price > MaxProductPrice {
		return invalid("price", "exceeds maximum")
	}
	if p.Quantity < 0 {
		return invalid("quantity", "cannot be negative")
	}
	if p.SKU == "" {
		return invalid("sku", "is required")
	}
	if !skuPattern.MatchString(p.SKU) {
		return invalid("sku", "must match [A-Z0-9-]+")
	}
	return nil
}

func (p *Product) InStock(quantity int) bool {
	return p.Quantity >= quantity
}
