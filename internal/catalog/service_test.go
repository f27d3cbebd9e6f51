package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/habbo-store/internal/domain"
	"github.com/jcmexdev/habbo-store/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, nil)
}

func create(t *testing.T, s *Service, in CreateProduct) *domain.Product {
	t.Helper()

	if in.Image == "" {
		in.Image = "https://cdn.example/icon.png"
	}
	p, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	s := newTestService(t)

	p := create(t, s, CreateProduct{Name: "Sofá Habbo Clássico", Price: 50, Stock: 15})

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.Featured)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    CreateProduct
		field string
	}{
		{"missing name", CreateProduct{Price: 50, Image: "i", Stock: 1}, "name"},
		{"zero price", CreateProduct{Name: "x", Image: "i", Stock: 1}, "price"},
		{"negative price", CreateProduct{Name: "x", Price: -5, Image: "i", Stock: 1}, "price"},
		{"missing image", CreateProduct{Name: "x", Price: 50, Stock: 1}, "image"},
		{"negative stock", CreateProduct{Name: "x", Price: 50, Image: "i", Stock: -1}, "stock"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(ctx, tc.in)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestCreateAllowsZeroStock(t *testing.T) {
	s := newTestService(t)

	p := create(t, s, CreateProduct{Name: "Esgotado", Price: 10, Stock: 0})

	assert.Equal(t, 0, p.Stock)
}

func TestUpdateMergesPartialFields(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p := create(t, s, CreateProduct{
		Name:        "Estante de Livros",
		Description: "Organize seus livros com estilo.",
		Price:       60,
		Stock:       5,
		Category:    "Móveis",
		Featured:    true,
	})

	newPrice := 55
	updated, err := s.Update(ctx, p.ID, UpdateProduct{Price: &newPrice})

	require.NoError(t, err)
	assert.Equal(t, 55, updated.Price)
	// Everything omitted keeps its stored value.
	assert.Equal(t, "Estante de Livros", updated.Name)
	assert.Equal(t, "Organize seus livros com estilo.", updated.Description)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, "Móveis", updated.Category)
	assert.True(t, updated.Featured)
}

func TestUpdateCanClearOptionalFields(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p := create(t, s, CreateProduct{Name: "Quadro", Price: 30, Stock: 10, Category: "Decoração"})

	empty := ""
	updated, err := s.Update(ctx, p.ID, UpdateProduct{Category: &empty})

	require.NoError(t, err)
	assert.Empty(t, updated.Category)
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p := create(t, s, CreateProduct{Name: "Tapete", Price: 45, Stock: 8})

	zero := 0
	_, err := s.Update(ctx, p.ID, UpdateProduct{Price: &zero})
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// The stored product is untouched.
	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, got.Price)
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestService(t)

	name := "x"
	_, err := s.Update(context.Background(), "missing", UpdateProduct{Name: &name})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPaginationMetadata(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		create(t, s, CreateProduct{Name: "Luminária de Pé", Price: 35, Stock: 15})
	}

	page, err := s.List(ctx, domain.ProductFilter{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, domain.Pagination{
		Page:       2,
		Limit:      2,
		Total:      5,
		TotalPages: 3,
		HasNext:    true,
		HasPrev:    true,
	}, page.Pagination)
}

func TestListEmptyPage(t *testing.T) {
	s := newTestService(t)

	page, err := s.List(context.Background(), domain.ProductFilter{Page: 1, Limit: 12})

	require.NoError(t, err)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
	assert.False(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrev)
}

func TestListDefaultsPageAndLimit(t *testing.T) {
	s := newTestService(t)

	page, err := s.List(context.Background(), domain.ProductFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, defaultLimit, page.Pagination.Limit)
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	create(t, s, CreateProduct{Name: "Sofá Habbo Clássico", Price: 50, Stock: 15})
	create(t, s, CreateProduct{Name: "Televisão HD", Price: 120, Stock: 6})

	page, err := s.List(ctx, domain.ProductFilter{Search: "sofá", Page: 1, Limit: 10})

	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Sofá Habbo Clássico", page.Products[0].Name)
	assert.Equal(t, 1, page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestDeleteThenGetNotFound(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p := create(t, s, CreateProduct{Name: "Planta", Price: 20, Stock: 20})

	require.NoError(t, s.Delete(ctx, p.ID))

	_, err := s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
