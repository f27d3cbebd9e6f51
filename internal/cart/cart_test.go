package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/habbo-store/internal/domain"
)

func product(id string, price int) domain.Product {
	return domain.Product{ID: id, Name: "item " + id, Price: price, Image: "img", Stock: 99}
}

// checkInvariants asserts that total and count are the exact linear sums
// over the items.
func checkInvariants(t *testing.T, s State) {
	t.Helper()

	total, count := 0, 0
	for _, line := range s.Items {
		total += line.Product.Price * line.Quantity
		count += line.Quantity
	}
	assert.Equal(t, total, s.Total)
	assert.Equal(t, count, s.Count)
}

func TestAddItemMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	store.AddItem(ctx, product("a", 50), 1)
	store.AddItem(ctx, product("a", 50), 2)

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Quantity)
	assert.Equal(t, 150, state.Total)
	assert.Equal(t, 3, state.Count)
}

func TestInvariantsHoldAcrossMutations(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	store.AddItem(ctx, product("a", 50), 2)
	checkInvariants(t, store.State())

	store.AddItem(ctx, product("b", 35), 1)
	checkInvariants(t, store.State())

	store.UpdateQuantity(ctx, "a", 5)
	checkInvariants(t, store.State())

	store.RemoveItem(ctx, "b")
	checkInvariants(t, store.State())

	store.AddItem(ctx, product("c", 120), 4)
	checkInvariants(t, store.State())

	store.Clear(ctx)
	state := store.State()
	checkInvariants(t, state)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.Total)
	assert.Zero(t, state.Count)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()

	viaUpdate := New(nil)
	viaUpdate.AddItem(ctx, product("a", 50), 2)
	viaUpdate.AddItem(ctx, product("b", 35), 1)
	viaUpdate.UpdateQuantity(ctx, "a", 0)

	viaRemove := New(nil)
	viaRemove.AddItem(ctx, product("a", 50), 2)
	viaRemove.AddItem(ctx, product("b", 35), 1)
	viaRemove.RemoveItem(ctx, "a")

	// Line IDs are random, so compare everything but them.
	u, r := viaUpdate.State(), viaRemove.State()
	require.Len(t, u.Items, 1)
	require.Len(t, r.Items, 1)
	assert.Equal(t, r.Items[0].ProductID, u.Items[0].ProductID)
	assert.Equal(t, r.Total, u.Total)
	assert.Equal(t, r.Count, u.Count)
}

func TestAddItemDefaultsToOne(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	store.AddItem(ctx, product("a", 50), 0)

	assert.Equal(t, 1, store.State().Count)
}

func TestPersistRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := NewFileStorage(filepath.Join(t.TempDir(), "cart.json"))

	first := New(storage)
	first.AddItem(ctx, product("a", 50), 2)
	first.AddItem(ctx, product("b", 35), 1)
	want := first.State()

	second := New(storage)
	second.Restore(ctx)

	assert.Equal(t, want, second.State())
}

func TestRestoreMissingSlotFallsBackSilently(t *testing.T) {
	storage := NewFileStorage(filepath.Join(t.TempDir(), "cart.json"))

	store := New(storage)
	store.Restore(context.Background())

	state := store.State()
	assert.Empty(t, state.Items)
	assert.Zero(t, state.Total)
	assert.Zero(t, state.Count)
}

func TestRestoreMalformedSnapshotFallsBackSilently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := New(NewFileStorage(path))
	store.Restore(context.Background())

	state := store.State()
	assert.Empty(t, state.Items)
	assert.Zero(t, state.Total)
	assert.Zero(t, state.Count)
}

func TestRestoreRecomputesTotals(t *testing.T) {
	// A tampered snapshot with drifted totals is corrected on restore:
	// total and count are always derived from the items.
	ctx := context.Background()
	storage := NewFileStorage(filepath.Join(t.TempDir(), "cart.json"))

	require.NoError(t, storage.Save(ctx, State{
		Items: []Line{{ID: "x", ProductID: "a", Quantity: 2, Product: product("a", 50)}},
		Total: 9999,
		Count: 42,
	}))

	store := New(storage)
	store.Restore(ctx)

	state := store.State()
	assert.Equal(t, 100, state.Total)
	assert.Equal(t, 2, state.Count)
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	var got []State
	cancel := store.Subscribe(func(s State) { got = append(got, s) })

	store.AddItem(ctx, product("a", 50), 1)
	store.UpdateQuantity(ctx, "a", 3)

	require.Len(t, got, 2)
	assert.Equal(t, 50, got[0].Total)
	assert.Equal(t, 150, got[1].Total)

	cancel()
	store.Clear(ctx)
	assert.Len(t, got, 2)
}
