// Package store provides the SQLite-backed persistence layer for the
// storefront: the product catalogue and the order history.
//
// WAL mode is enabled on Open so that catalogue reads never block the
// order-creation transaction and vice versa.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	// The pure-Go SQLite driver.
	// We use modernc.org/sqlite instead of mattn/go-sqlite3 to avoid CGO
	// requirements, making it easier to build and run in Docker (Alpine).
	sqlite "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    -- UUID assigned by the catalog service.
    id          TEXT    PRIMARY KEY,

    name        TEXT    NOT NULL,
    description TEXT,

    -- Whole credits. Display conversion to BRL happens client-side.
    price       INTEGER NOT NULL,

    image       TEXT    NOT NULL,

    -- The CHECK is the last line of defence: the order transaction already
    -- refuses to decrement below zero.
    stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),

    category    TEXT,
    featured    INTEGER NOT NULL DEFAULT 0,

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    created_at  TEXT    NOT NULL
);

-- Index for the default listing order and for category filtering.
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);

CREATE TABLE IF NOT EXISTS orders (
    id          TEXT    PRIMARY KEY,

    -- Optional purchaser identity; the storefront has no accounts.
    user_name   TEXT,
    user_email  TEXT,

    -- Authoritative charged amount in credits. Not derivable from the
    -- items: checkout may apply a payment-method discount.
    total       INTEGER NOT NULL,

    status      TEXT    NOT NULL DEFAULT 'PENDING',
    created_at  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items (
    id          TEXT    PRIMARY KEY,
    order_id    TEXT    NOT NULL REFERENCES orders(id) ON DELETE CASCADE,

    -- RESTRICT keeps historical order lines resolvable: a product with
    -- order history cannot be hard-deleted.
    product_id  TEXT    NOT NULL REFERENCES products(id) ON DELETE RESTRICT,

    quantity    INTEGER NOT NULL CHECK (quantity > 0),

    -- Unit price captured at purchase time, decoupled from products.price.
    price       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// Store wraps the SQLite handle. One Store serves both the product and
// order repositories so the order transaction can touch both tables.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. WAL mode is enabled for better concurrent read/write
// performance.
//
//	st, err := store.Open("./data/store.db")
func Open(path string) (*Store, error) {
	registerFold()

	// The pure-Go driver uses _pragma query parameters to configure connection state.
	// WAL enables concurrent readers. foreign_keys=on enforces the RESTRICT above.
	// busy_timeout waits for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection. This is also
	// what serialises concurrent checkouts: two orders racing for the last
	// unit of stock are executed one after the other.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// Reset deletes all rows from every table. Used by the seed binary before
// loading the sample catalogue.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"order_items", "orders", "products"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite: reset %s: %w", table, err)
		}
	}
	return nil
}

// applySchema runs the DDL statements once. Idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

var foldOnce sync.Once

// registerFold registers the ufold() SQL function used by the catalogue
// search. SQLite's built-in lower() and LIKE only fold ASCII; ufold applies
// full Unicode case folding so "SOFÁ" matches "sofá". Registration is
// driver-global, hence the Once.
func registerFold() {
	foldOnce.Do(func() {
		sqlite.MustRegisterDeterministicScalarFunction("ufold", 1,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				if s, ok := args[0].(string); ok {
					return strings.ToLower(s), nil
				}
				return args[0], nil
			})
	})
}

// nullableString returns nil for empty strings so SQLite stores NULL instead
// of an empty TEXT.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
