package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jcmexdev/habbo-store/internal/domain"
)

const productColumns = "id, name, COALESCE(description,''), price, image, stock, COALESCE(category,''), featured, created_at"

// CreateProduct inserts a new catalogue row. The caller assigns the ID and
// the creation timestamp.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	const q = `
		INSERT INTO products
			(id, name, description, price, image, stock, category, featured, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q,
		p.ID,
		p.Name,
		nullableString(p.Description),
		p.Price,
		p.Image,
		p.Stock,
		nullableString(p.Category),
		boolToInt(p.Featured),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create product %q: %w", p.ID, err)
	}
	return nil
}

// GetProduct returns a single product by ID.
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get product %q: %w", id, err)
	}
	return p, nil
}

// GetProductsByID returns the products matching the given IDs. Missing IDs
// are simply absent from the result; the caller decides whether that is an
// error.
func (s *Store) GetProductsByID(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: get products by id: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ListProducts returns one page of the catalogue plus the total row count
// for the filter, newest first.
//
// The search filter is a literal, case-insensitive substring match over
// name and description. It deliberately avoids LIKE: LIKE treats % and _
// as wildcards and only folds ASCII case. Both sides are folded through
// the registered ufold() function instead, so "SOFÁ" finds "Sofá Habbo
// Clássico" and "100%" matches only rows that contain "100%".
func (s *Store) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	where, args := productWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count products: %w", err)
	}

	q := "SELECT " + productColumns + " FROM products" + where +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdateProduct overwrites every mutable field of the row. The partial
// merge with the stored values happens in the catalog service, which reads
// the product first.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	const q = `
		UPDATE products
		SET    name = ?, description = ?, price = ?, image = ?,
		       stock = ?, category = ?, featured = ?
		WHERE  id = ?`

	res, err := s.db.ExecContext(ctx, q,
		p.Name,
		nullableString(p.Description),
		p.Price,
		p.Image,
		p.Stock,
		nullableString(p.Category),
		boolToInt(p.Featured),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update product %q: %w", p.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("product %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteProduct hard-deletes a catalogue row. Products referenced by order
// history are protected by the RESTRICT constraint and reported as
// domain.ErrProductReferenced.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return fmt.Errorf("product %s: %w", id, domain.ErrProductReferenced)
		}
		return fmt.Errorf("sqlite: delete product %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func productWhere(f domain.ProductFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Featured != nil {
		conds = append(conds, "featured = ?")
		args = append(args, boolToInt(*f.Featured))
	}
	if f.Search != "" {
		conds = append(conds, "(instr(ufold(name), ?) > 0 OR instr(ufold(COALESCE(description,'')), ?) > 0)")
		needle := strings.ToLower(f.Search)
		args = append(args, needle, needle)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var featured int
	var createdAt string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Image,
		&p.Stock,
		&p.Category,
		&featured,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.Featured = featured != 0
	p.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate products: %w", err)
	}
	return products, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
