// Package domain holds the storefront entities and the error taxonomy
// shared by the services, the store, and the HTTP layer.
package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped with entity context, e.g.
// fmt.Errorf("product %s: %w", id, domain.ErrNotFound).
var ErrNotFound = errors.New("not found")

// ErrWrongSecret is returned by the admin gate on a bad password.
// It never carries the submitted value.
var ErrWrongSecret = errors.New("wrong admin password")

// ErrProductReferenced blocks deleting a product that appears in order
// history. Hard-deleting it would orphan the captured order lines.
var ErrProductReferenced = errors.New("product is referenced by existing orders")

// ValidationError reports missing or invalid input. It is user-correctable;
// the HTTP layer maps it to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError is returned when a requested quantity exceeds the
// current stock of a product. Stock is only authoritative at order time,
// so this is an expected, retryable outcome of checkout.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Stock     int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.Name, e.Stock, e.Requested)
}
