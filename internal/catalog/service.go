// Package catalog implements the product catalogue: filtered, paginated
// listing plus single-item CRUD for the admin panel.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/habbo-store/internal/domain"
	"github.com/jcmexdev/habbo-store/internal/pkg/cache"
)

const (
	defaultLimit = 12
	listCacheTTL = 30 * time.Second
	listCacheOp  = "products:list"
)

// Repository is the port (interface) the service needs from the store.
type Repository interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// Page is one page of the catalogue together with its pagination metadata.
type Page struct {
	Products   []domain.Product  `json:"products"`
	Pagination domain.Pagination `json:"pagination"`
}

// CreateProduct carries the fields for a new catalogue item.
type CreateProduct struct {
	Name        string
	Description string
	Price       int
	Image       string
	Stock       int
	Category    string
	Featured    bool
}

// UpdateProduct is a partial update: nil fields keep their stored value.
type UpdateProduct struct {
	Name        *string
	Description *string
	Price       *int
	Image       *string
	Stock       *int
	Category    *string
	Featured    *bool
}

// Service is the catalogue application service.
// cache may be nil — listings are then always served from the store.
type Service struct {
	repo   Repository
	cache  cache.Cache
	tracer trace.Tracer
}

func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{
		repo:   repo,
		cache:  c,
		tracer: otel.Tracer("catalog"),
	}
}

// List returns one page of products matching the filter, newest first.
// Results are cached briefly per filter tuple; a cache fault falls back to
// the store and is only logged.
func (s *Service) List(ctx context.Context, f domain.ProductFilter) (*Page, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.list")
	defer span.End()

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	span.SetAttributes(
		attribute.Int("page", f.Page),
		attribute.String("search", f.Search),
	)

	cacheKey := s.listCacheKey(f)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey); err != nil {
			slog.WarnContext(ctx, "catalog cache read failed", "error", err)
		} else if raw != "" {
			var page Page
			if err := json.Unmarshal([]byte(raw), &page); err == nil {
				return &page, nil
			}
		}
	}

	products, total, err := s.repo.ListProducts(ctx, f)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	page := &Page{
		Products:   products,
		Pagination: domain.NewPagination(f.Page, f.Limit, total),
	}

	if s.cache != nil {
		if raw, err := json.Marshal(page); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, listCacheTTL); err != nil {
				slog.WarnContext(ctx, "catalog cache write failed", "error", err)
			}
		}
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// Create validates the required fields, fills the defaults, and inserts
// the product.
func (s *Service) Create(ctx context.Context, in CreateProduct) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.create")
	defer span.End()

	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("name", "required")
	}
	if in.Price <= 0 {
		return nil, domain.Invalid("price", "must be a positive integer")
	}
	if strings.TrimSpace(in.Image) == "" {
		return nil, domain.Invalid("image", "required")
	}
	if in.Stock < 0 {
		return nil, domain.Invalid("stock", "must not be negative")
	}

	p := &domain.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Stock:       in.Stock,
		Category:    in.Category,
		Featured:    in.Featured,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.InvalidateListings(ctx)
	slog.InfoContext(ctx, "product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

// Update merges the submitted fields over the stored product. Omitted
// fields keep their current value, never a default.
func (s *Service) Update(ctx context.Context, id string, in UpdateProduct) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.update")
	defer span.End()

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.Invalid("name", "must not be empty")
		}
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, domain.Invalid("price", "must be a positive integer")
		}
		p.Price = *in.Price
	}
	if in.Image != nil {
		if strings.TrimSpace(*in.Image) == "" {
			return nil, domain.Invalid("image", "must not be empty")
		}
		p.Image = *in.Image
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.Invalid("stock", "must not be negative")
		}
		p.Stock = *in.Stock
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.InvalidateListings(ctx)
	slog.InfoContext(ctx, "product updated", "product_id", p.ID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.delete")
	defer span.End()

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	s.InvalidateListings(ctx)
	slog.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *Service) listCacheKey(f domain.ProductFilter) string {
	featured := ""
	if f.Featured != nil {
		featured = fmt.Sprintf("%t", *f.Featured)
	}
	key := fmt.Sprintf("p=%d&l=%d&c=%s&f=%s&s=%s", f.Page, f.Limit, f.Category, featured, f.Search)
	if s.cache == nil {
		return key
	}
	return s.cache.GenerateKey(listCacheOp, key)
}

// InvalidateListings drops every cached listing page. Catalogue writes call
// it internally; checkout calls it too, because a committed order decrements
// stock and cached pages would otherwise keep showing the old counts.
func (s *Service) InvalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, listCacheOp); err != nil {
		slog.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}
