package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/habbo-store/internal/domain"
)

// CreateOrder runs the checkout write phase as one transaction: insert the
// order, insert its items with the captured unit prices, and decrement the
// stock of every referenced product. Any failure rolls the whole phase
// back — no order, item, or stock change persists.
//
// The stock decrement is guarded (`AND stock >= ?`), so even if two
// checkouts for the last unit slip past the service's validation reads,
// only one of them commits; the other gets InsufficientStockError.
func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin order tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	const insertOrder = `
		INSERT INTO orders (id, user_name, user_email, total, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, insertOrder,
		o.ID,
		nullableString(o.UserName),
		nullableString(o.UserEmail),
		o.Total,
		string(o.Status),
		formatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert order %q: %w", o.ID, err)
	}

	const insertItem = `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES (?, ?, ?, ?, ?)`

	const decrement = `
		UPDATE products
		SET    stock = stock - ?
		WHERE  id = ? AND stock >= ?`

	for _, item := range o.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			item.ID, o.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("sqlite: insert order item for product %q: %w", item.ProductID, err)
		}

		res, err := tx.ExecContext(ctx, decrement, item.Quantity, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("sqlite: decrement stock for product %q: %w", item.ProductID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: decrement stock for product %q: %w", item.ProductID, err)
		}
		if n == 0 {
			return s.stockFailure(ctx, tx, item)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit order %q: %w", o.ID, err)
	}
	return nil
}

// stockFailure turns a rejected decrement into a descriptive error: either
// the product vanished or its stock is short. The surrounding transaction
// is rolled back by the deferred Rollback.
func (s *Store) stockFailure(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error {
	var name string
	var stock int
	err := tx.QueryRowContext(ctx,
		"SELECT name, stock FROM products WHERE id = ?", item.ProductID).Scan(&name, &stock)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s: %w", item.ProductID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("sqlite: inspect stock for product %q: %w", item.ProductID, err)
	}

	return &domain.InsufficientStockError{
		ProductID: item.ProductID,
		Name:      name,
		Stock:     stock,
		Requested: item.Quantity,
	}
}

// GetOrder returns an order with its items and their products nested, for
// the post-checkout confirmation display.
func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
		SELECT id, COALESCE(user_name,''), COALESCE(user_email,''), total, status, created_at
		FROM   orders
		WHERE  id = ?`

	row := s.db.QueryRowContext(ctx, q, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %q: %w", id, err)
	}

	if o.Items, err = s.orderItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders returns one page of orders, newest first, each with nested
// items and products.
func (s *Store) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int, error) {
	where := ""
	var args []any
	if f.Status != "" {
		where = " WHERE status = ?"
		args = append(args, string(f.Status))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count orders: %w", err)
	}

	q := `SELECT id, COALESCE(user_name,''), COALESCE(user_email,''), total, status, created_at
		FROM orders` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterate orders: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = s.orderItems(ctx, orders[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

// orderItems loads the lines of one order together with their products.
// The join keeps the product even after a price change; only a hard delete
// would lose it, and RESTRICT prevents that.
func (s *Store) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       ` + prefixedProductColumns + `
		FROM   order_items oi
		JOIN   products p ON p.id = oi.product_id
		WHERE  oi.order_id = ?
		ORDER  BY oi.id`

	rows, err := s.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load items for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var p domain.Product
		var featured int
		var createdAt string

		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Image,
			&p.Stock, &p.Category, &featured, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan order item: %w", err)
		}

		p.Featured = featured != 0
		if p.CreatedAt, err = parseRFC3339(createdAt); err != nil {
			return nil, err
		}
		item.Product = &p
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate order items: %w", err)
	}
	return items, nil
}

const prefixedProductColumns = "p.id, p.name, COALESCE(p.description,''), p.price, p.image, p.stock, COALESCE(p.category,''), p.featured, p.created_at"

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var status string
	var createdAt string

	err := row.Scan(&o.ID, &o.UserName, &o.UserEmail, &o.Total, &status, &createdAt)
	if err != nil {
		return nil, err
	}

	o.Status = domain.OrderStatus(status)
	o.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
