// Package orders implements order placement: validate the proposed order
// against the live catalogue, then hand the write phase to the store as a
// single atomic transaction.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/habbo-store/internal/domain"
)

// Repository is the port the service needs from the store. CreateOrder
// must be all-or-nothing: order, items, and stock decrements commit
// together or not at all.
type Repository interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int, error)
}

// ProductReader resolves the products referenced by a proposed order.
type ProductReader interface {
	GetProductsByID(ctx context.Context, ids []string) ([]domain.Product, error)
}

// ListingInvalidator drops cached catalogue listings. Checkout needs it
// because a committed order decrements stock, which the cached pages show.
type ListingInvalidator interface {
	InvalidateListings(ctx context.Context)
}

// Line is one proposed order line. Price is the unit price the client saw;
// it is captured as-is so the order preserves historical pricing.
type Line struct {
	ProductID string
	Quantity  int
	Price     int
}

// CreateOrder is the checkout request.
type CreateOrder struct {
	UserName  string
	UserEmail string
	Items     []Line
	Total     int
}

// Page is one page of the order history with nested items and products.
type Page struct {
	Orders     []domain.Order    `json:"orders"`
	Pagination domain.Pagination `json:"pagination"`
}

// Service is the checkout application service. listings may be nil when no
// listing cache is configured.
type Service struct {
	repo     Repository
	products ProductReader
	listings ListingInvalidator
	tracer   trace.Tracer
}

func NewService(repo Repository, products ProductReader, listings ListingInvalidator) *Service {
	return &Service{
		repo:     repo,
		products: products,
		listings: listings,
		tracer:   otel.Tracer("orders"),
	}
}

// Create validates the proposed order and, only if every check passes,
// runs the atomic write phase. Validation failures leave zero side
// effects. The returned order is re-read post-commit so it carries its
// items and their products for the confirmation display.
func (s *Service) Create(ctx context.Context, in CreateOrder) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orders.create")
	defer span.End()

	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "order must contain at least one item")
	}
	if in.Total <= 0 {
		return nil, domain.Invalid("total", "must be greater than zero")
	}
	for _, line := range in.Items {
		if line.ProductID == "" {
			return nil, domain.Invalid("items", "productId is required on every item")
		}
		if line.Quantity <= 0 {
			return nil, domain.Invalid("items", "quantity must be greater than zero")
		}
	}

	byID, err := s.resolveProducts(ctx, in.Items)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// Stock pre-check. The guarded decrement inside the transaction is the
	// authoritative gate; this read rejects obvious shortfalls before any
	// write begins.
	for _, line := range in.Items {
		p := byID[line.ProductID]
		if p.Stock < line.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Stock:     p.Stock,
				Requested: line.Quantity,
			}
		}
	}

	order := &domain.Order{
		ID:        uuid.New().String(),
		UserName:  in.UserName,
		UserEmail: in.UserEmail,
		Total:     in.Total,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	for _, line := range in.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	span.SetAttributes(
		attribute.String("order_id", order.ID),
		attribute.Int("total", order.Total),
		attribute.Int("lines", len(order.Items)),
	)

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// The commit changed stock; cached listing pages are now wrong.
	if s.listings != nil {
		s.listings.InvalidateListings(ctx)
	}

	slog.InfoContext(ctx, "order created", "order_id", order.ID, "total", order.Total)
	return s.repo.GetOrder(ctx, order.ID)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// List returns one page of the order history, newest first.
func (s *Service) List(ctx context.Context, f domain.OrderFilter) (*Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	orders, total, err := s.repo.ListOrders(ctx, f)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	return &Page{
		Orders:     orders,
		Pagination: domain.NewPagination(f.Page, f.Limit, total),
	}, nil
}

// resolveProducts loads every referenced product and fails with an error
// naming the missing IDs if any reference is dangling.
func (s *Service) resolveProducts(ctx context.Context, items []Line) (map[string]domain.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, line := range items {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.products.GetProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("products %s: %w", strings.Join(missing, ", "), domain.ErrNotFound)
	}
	return byID, nil
}
