package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

const productColumns = `id, name, description, price, quantity, sku, category, brand, created_at, updated_at`

type MySQLProductRepo struct{ db *sql.DB }

func NewMySQLProductRepo(db *sql.DB) *MySQLProductRepo { return &MySQLProductRepo{db: db} }

var _ usecase.ProductStore = (*MySQLProductRepo)(nil)

func (r *MySQLProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (r *MySQLProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name`)
}

func (r *MySQLProductRepo) FindByNameLike(ctx context.Context, name string) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE LOWER(name) LIKE ? ORDER BY name`,
		"%"+strings.ToLower(name)+"%")
}

func (r *MySQLProductRepo) FindByDescriptionLike(ctx context.Context, text string) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE LOWER(description) LIKE ? ORDER BY name`,
		"%"+strings.ToLower(text)+"%")
}

func (r *MySQLProductRepo) FindByPriceBetween(ctx context.Context, min, max float64) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE price BETWEEN ? AND ? ORDER BY price`,
		min, max)
}

func (r *MySQLProductRepo) FindByQuantityAtMost(ctx context.Context, threshold int) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE quantity <= ? ORDER BY quantity`,
		threshold)
}

func (r *MySQLProductRepo) FindInStock(ctx context.Context) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE quantity > 0 ORDER BY name`)
}

func (r *MySQLProductRepo) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = ? ORDER BY name`, category)
}

func (r *MySQLProductRepo) FindByBrand(ctx context.Context, brand string) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE brand = ? ORDER BY name`, brand)
}

func (r *MySQLProductRepo) FindByNameIgnoreCase(ctx context.Context, name string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE LOWER(name) = ?`, strings.ToLower(name))
	return scanProduct(row)
}

func (r *MySQLProductRepo) ExistsByNameIgnoreCase(ctx context.Context, name string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM products WHERE LOWER(name) = ?`, strings.ToLower(name)).Scan(&n)
	return n > 0, err
}

func (r *MySQLProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM products WHERE sku = ?`, sku).Scan(&n)
	return n > 0, err
}

func (r *MySQLProductRepo) Insert(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO products (id, name, description, price, quantity, sku, category, brand, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Description, p.Price, p.Quantity, p.SKU, p.Category, p.Brand,
		p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *MySQLProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products
SET name = ?, description = ?, price = ?, quantity = ?, sku = ?, category = ?, brand = ?, updated_at = ?
WHERE id = ?`,
		p.Name, p.Description, p.Price, p.Quantity, p.SKU, p.Category, p.Brand, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, p.ID)
	}
	return nil
}

func (r *MySQLProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return nil
}

// DecrementStock is the one place a reservation touches quantity: a
// conditional UPDATE, so two concurrent reservations cannot both pass
// the stock check.
func (r *MySQLProductRepo) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE products
SET quantity = quantity - ?, updated_at = NOW()
WHERE id = ? AND quantity >= ?`,
		qty, id, qty)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MySQLProductRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	// Zero rows means the product is gone; restoring is then a no-op.
	_, err := r.db.ExecContext(ctx, `
UPDATE products
SET quantity = quantity + ?, updated_at = NOW()
WHERE id = ?`,
		qty, id)
	return err
}

func (r *MySQLProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity,
			&p.SKU, &p.Category, &p.Brand, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row *sql.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.SKU, &p.Category, &p.Brand, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
