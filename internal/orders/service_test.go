package orders

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/habbo-store/internal/domain"
	"github.com/jcmexdev/habbo-store/internal/store"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateOrder(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockRepo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockRepo) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

type mockProducts struct {
	mock.Mock
}

func (m *mockProducts) GetProductsByID(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

// spyInvalidator counts listing-cache invalidations.
type spyInvalidator struct {
	calls int
}

func (s *spyInvalidator) InvalidateListings(context.Context) { s.calls++ }

func TestCreateValidationShortCircuits(t *testing.T) {
	cases := []struct {
		name string
		in   CreateOrder
	}{
		{"empty items", CreateOrder{Total: 100}},
		{"zero total", CreateOrder{Items: []Line{{ProductID: "p", Quantity: 1, Price: 50}}}},
		{"missing product id", CreateOrder{Items: []Line{{Quantity: 1, Price: 50}}, Total: 50}},
		{"zero quantity", CreateOrder{Items: []Line{{ProductID: "p", Price: 50}}, Total: 50}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockRepo)
			products := new(mockProducts)
			s := NewService(repo, products, nil)

			_, err := s.Create(context.Background(), tc.in)

			var validationErr *domain.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			// Neither the catalogue nor the store was touched.
			products.AssertNotCalled(t, "GetProductsByID", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateRejectsDanglingProduct(t *testing.T) {
	repo := new(mockRepo)
	products := new(mockProducts)
	s := NewService(repo, products, nil)

	products.On("GetProductsByID", mock.Anything, []string{"ghost"}).
		Return([]domain.Product{}, nil)

	_, err := s.Create(context.Background(), CreateOrder{
		Items: []Line{{ProductID: "ghost", Quantity: 1, Price: 50}},
		Total: 50,
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "ghost")
	repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCreateRejectsObviousShortfall(t *testing.T) {
	repo := new(mockRepo)
	products := new(mockProducts)
	s := NewService(repo, products, nil)

	products.On("GetProductsByID", mock.Anything, []string{"p1"}).
		Return([]domain.Product{{ID: "p1", Name: "Cama King Size", Price: 80, Stock: 2}}, nil)

	_, err := s.Create(context.Background(), CreateOrder{
		Items: []Line{{ProductID: "p1", Quantity: 5, Price: 80}},
		Total: 400,
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Cama King Size", stockErr.Name)
	assert.Equal(t, 2, stockErr.Stock)
	assert.Equal(t, 5, stockErr.Requested)
	repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCreateHappyPath(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	sofa := domain.Product{
		ID:    uuid.New().String(),
		Name:  "Sofá Habbo Clássico",
		Price: 50,
		Image: "https://cdn.example/sofa.png",
		Stock: 15,
	}
	require.NoError(t, st.CreateProduct(ctx, &sofa))

	listings := &spyInvalidator{}
	s := NewService(st, st, listings)

	order, err := s.Create(ctx, CreateOrder{
		UserName:  "Bobba",
		UserEmail: "bobba@example.com",
		Items:     []Line{{ProductID: sofa.ID, Quantity: 2, Price: 50}},
		Total:     100,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, 100, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "Sofá Habbo Clássico", order.Items[0].Product.Name)

	got, err := st.GetProduct(ctx, sofa.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, got.Stock)

	// The stock change must push cached listing pages out.
	assert.Equal(t, 1, listings.calls)
}

func TestCreateFailureLeavesListingCacheAlone(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	short := domain.Product{
		ID:    uuid.New().String(),
		Name:  "Poltrona Relax",
		Price: 40,
		Image: "https://cdn.example/poltrona.png",
		Stock: 1,
	}
	require.NoError(t, st.CreateProduct(ctx, &short))

	listings := &spyInvalidator{}
	s := NewService(st, st, listings)

	_, err = s.Create(ctx, CreateOrder{
		Items: []Line{{ProductID: short.ID, Quantity: 3, Price: 40}},
		Total: 120,
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Zero(t, listings.calls)
}

func TestListDefaultsAndEmptyPage(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, new(mockProducts), nil)

	repo.On("ListOrders", mock.Anything, domain.OrderFilter{Page: 1, Limit: 10}).
		Return(nil, 0, nil)

	page, err := s.List(context.Background(), domain.OrderFilter{})

	require.NoError(t, err)
	assert.NotNil(t, page.Orders)
	assert.Empty(t, page.Orders)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
	repo.AssertExpectations(t)
}
