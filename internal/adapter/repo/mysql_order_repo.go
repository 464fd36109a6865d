package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

const orderColumns = `id, username, order_number, tracking_number, status,
total_amount, shipping_cost, tax_amount, final_amount,
items_json, shipping_json, payment_json, notes,
order_date, estimated_delivery_date, delivered_date, created_at, updated_at`

// MySQLOrderRepo persists orders in one row each; items, shipping
// address, and payment info live in JSON columns since they have no
// lifecycle outside their order.
type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

var _ usecase.OrderStore = (*MySQLOrderRepo)(nil)

func (r *MySQLOrderRepo) Insert(ctx context.Context, o *domain.Order) error {
	items, shipping, payment, err := marshalOrderParts(o)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO orders (`+orderColumns+`)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.Username, o.OrderNumber, nullStr(o.TrackingNumber), string(o.Status),
		o.TotalAmount, o.ShippingCost, o.TaxAmount, o.FinalAmount,
		items, shipping, payment, o.Notes,
		o.OrderDate, o.EstimatedDeliveryDate, o.DeliveredDate, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *MySQLOrderRepo) Update(ctx context.Context, o *domain.Order) error {
	items, shipping, payment, err := marshalOrderParts(o)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE orders
SET status = ?, tracking_number = ?,
    total_amount = ?, shipping_cost = ?, tax_amount = ?, final_amount = ?,
    items_json = ?, shipping_json = ?, payment_json = ?, notes = ?,
    estimated_delivery_date = ?, delivered_date = ?, updated_at = ?
WHERE id = ?`,
		string(o.Status), nullStr(o.TrackingNumber),
		o.TotalAmount, o.ShippingCost, o.TaxAmount, o.FinalAmount,
		items, shipping, payment, o.Notes,
		o.EstimatedDeliveryDate, o.DeliveredDate, o.UpdatedAt,
		o.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, o.ID)
	}
	return nil
}

func (r *MySQLOrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
}

func (r *MySQLOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = ?`, orderNumber)
}

func (r *MySQLOrderRepo) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE tracking_number = ?`, trackingNumber)
}

func (r *MySQLOrderRepo) FindByUser(ctx context.Context, username string, page usecase.Page) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
SELECT `+orderColumns+` FROM orders
WHERE username = ? ORDER BY order_date DESC LIMIT ? OFFSET ?`,
		username, page.Limit(), page.Offset())
}

func (r *MySQLOrderRepo) FindAll(ctx context.Context, page usecase.Page) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
SELECT `+orderColumns+` FROM orders
ORDER BY order_date DESC LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
}

func (r *MySQLOrderRepo) FindByStatus(ctx context.Context, status domain.Status, page usecase.Page) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
SELECT `+orderColumns+` FROM orders
WHERE status = ? ORDER BY order_date DESC LIMIT ? OFFSET ?`,
		string(status), page.Limit(), page.Offset())
}

func (r *MySQLOrderRepo) FindSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
SELECT `+orderColumns+` FROM orders
WHERE order_date >= ? ORDER BY order_date DESC`,
		since)
}

func (r *MySQLOrderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM orders`).Scan(&n)
	return n, err
}

func (r *MySQLOrderRepo) CountByUser(ctx context.Context, username string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM orders WHERE username = ?`, username).Scan(&n)
	return n, err
}

func (r *MySQLOrderRepo) findOne(ctx context.Context, query string, arg any) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *MySQLOrderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o        domain.Order
		status   string
		tracking sql.NullString
		items    []byte
		shipping []byte
		payment  []byte
		eta      sql.NullTime
		deliv    sql.NullTime
	)
	if err := row.Scan(&o.ID, &o.Username, &o.OrderNumber, &tracking, &status,
		&o.TotalAmount, &o.ShippingCost, &o.TaxAmount, &o.FinalAmount,
		&items, &shipping, &payment, &o.Notes,
		&o.OrderDate, &eta, &deliv, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = domain.Status(status)
	o.TrackingNumber = tracking.String
	if eta.Valid {
		o.EstimatedDeliveryDate = &eta.Time
	}
	if deliv.Valid {
		o.DeliveredDate = &deliv.Time
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(shipping, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	if err := json.Unmarshal(payment, &o.PaymentInfo); err != nil {
		return nil, fmt.Errorf("decode payment info: %w", err)
	}
	return &o, nil
}

func marshalOrderParts(o *domain.Order) (items, shipping, payment []byte, err error) {
	if items, err = json.Marshal(o.Items); err != nil {
		return nil, nil, nil, fmt.Errorf("encode items: %w", err)
	}
	if shipping, err = json.Marshal(o.ShippingAddress); err != nil {
		return nil, nil, nil, fmt.Errorf("encode shipping address: %w", err)
	}
	if payment, err = json.Marshal(o.PaymentInfo); err != nil {
		return nil, nil, nil, fmt.Errorf("encode payment info: %w", err)
	}
	return items, shipping, payment, nil
}

// nullStr maps "" to NULL so the unique index on tracking_number
// ignores orders that have not shipped.
func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
