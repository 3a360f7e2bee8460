package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	uc       *CartUseCase
	carts    *MockCartRepo
	products *MockProductRepo
	cache    *MockCacheRepo
	outbox   *MockOutboxRepo
	tx       *MockTxManager
}

func newCartFixture(products ...*domain.Product) *cartFixture {
	f := &cartFixture{
		carts:    NewMockCartRepo(),
		products: NewMockProductRepo(products...),
		cache:    &MockCacheRepo{},
		outbox:   &MockOutboxRepo{},
		tx:       &MockTxManager{},
	}
	f.uc = NewCartUC(f.carts, f.products, f.cache, f.outbox, jsonEncoder{}, f.tx, testLogger())
	f.uc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC) }
	return f
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestCartUseCase_SaveCart(t *testing.T) {
	f := newCartFixture(catalogFixture()...)

	view, err := f.uc.SaveCart(context.Background(), &SaveCartReq{
		UserID: 7,
		Items:  []CartItemReq{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Cart 2025-03-14 09:26", view.Cart.Name)
	assert.Equal(t, int64(7), view.Cart.UserID)
	assert.Len(t, view.Cart.Items, 2)
	assertDecimal(t, "4.40", view.Totals["A"])
	assertDecimal(t, "5.48", view.Totals["B"])
	assert.Equal(t, "A", view.BestMarket)
	assertDecimal(t, "4.40", view.BestTotal)

	assert.Equal(t, map[int64]int64{1: 6, 2: 10}, map[int64]int64{1: f.products.Products[1].Popularity, 2: f.products.Products[2].Popularity})
	assert.Equal(t, []OutboxEventType{CartSaved}, f.outbox.Types())
}

func TestCartUseCase_SaveCart_SnapshotsPrices(t *testing.T) {
	f := newCartFixture(catalogFixture()...)
	ctx := context.Background()

	view, err := f.uc.SaveCart(ctx, &SaveCartReq{UserID: 1, Items: []CartItemReq{{ProductID: 3, Quantity: 1}}})
	require.NoError(t, err)

	f.products.Products[3].Prices["A"] = decimal.RequireFromString("100")

	got, err := f.uc.GetCart(ctx, 1, view.Cart.ID)
	require.NoError(t, err)
	assertDecimal(t, "0.80", got.Totals["A"])
}

func TestCartUseCase_SaveCart_MergesDuplicates(t *testing.T) {
	f := newCartFixture(catalogFixture()...)

	view, err := f.uc.SaveCart(context.Background(), &SaveCartReq{
		UserID: 1,
		Items:  []CartItemReq{{ProductID: 3, Quantity: 1}, {ProductID: 1, Quantity: 1}, {ProductID: 3, Quantity: 2}},
	})
	require.NoError(t, err)

	require.Len(t, view.Cart.Items, 2)
	assert.Equal(t, int64(3), view.Cart.Items[0].ProductID)
	assert.Equal(t, 3, view.Cart.Items[0].Quantity)
	assert.Equal(t, int64(2), f.products.Products[3].Popularity)
}

func TestCartUseCase_SaveCart_Errors(t *testing.T) {
	tests := []struct {
		name  string
		items []CartItemReq
		want  error
	}{
		{"empty", nil, e.ErrEmptyCart},
		{"zero quantity", []CartItemReq{{ProductID: 1, Quantity: 0}}, e.ErrInvalidQuantity},
		{"negative quantity", []CartItemReq{{ProductID: 1, Quantity: -3}}, e.ErrInvalidQuantity},
		{"bad product id", []CartItemReq{{ProductID: 0, Quantity: 1}}, e.ErrInvalidProductID},
		{"unknown product", []CartItemReq{{ProductID: 1, Quantity: 1}, {ProductID: 99, Quantity: 1}}, e.ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture(catalogFixture()...)

			_, err := f.uc.SaveCart(context.Background(), &SaveCartReq{UserID: 1, Items: tt.items})
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.carts.Carts)
			assert.Empty(t, f.outbox.Events)
		})
	}
}

func TestCartUseCase_SaveCart_EventFailureIsNotFatal(t *testing.T) {
	f := newCartFixture(catalogFixture()...)
	f.outbox.Err = errors.New("outbox unavailable")

	view, err := f.uc.SaveCart(context.Background(), &SaveCartReq{UserID: 1, Items: []CartItemReq{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)
	assert.Contains(t, f.carts.Carts, view.Cart.ID)
}

func TestCartUseCase_UpdateCart_KeepsExistingSnapshots(t *testing.T) {
	f := newCartFixture(catalogFixture()...)
	ctx := context.Background()

	saved, err := f.uc.SaveCart(ctx, &SaveCartReq{UserID: 1, Name: "Weekly", Items: []CartItemReq{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)

	f.products.Products[1].Prices = prices("A", "9.99", "B", "9.99")
	f.products.Products[2].Prices = prices("A", "1.00")

	updated, err := f.uc.UpdateCart(ctx, &UpdateCartReq{
		UserID: 1,
		CartID: saved.Cart.ID,
		Items:  []CartItemReq{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Weekly", updated.Cart.Name)
	assert.Equal(t, saved.Cart.CreatedAt, updated.Cart.CreatedAt)
	require.Len(t, updated.Cart.Items, 2)
	assertDecimal(t, "1.20", updated.Cart.Items[0].Prices["A"])
	assert.Equal(t, 3, updated.Cart.Items[0].Quantity)
	assertDecimal(t, "1.00", updated.Cart.Items[1].Prices["A"])
	assertDecimal(t, "4.60", updated.Totals["A"])

	assert.Equal(t, int64(6), f.products.Products[1].Popularity)
	assert.Equal(t, int64(10), f.products.Products[2].Popularity)
	assert.Equal(t, []OutboxEventType{CartSaved, CartUpdated}, f.outbox.Types())
}

func TestCartUseCase_UpdateCart_Rename(t *testing.T) {
	f := newCartFixture(catalogFixture()...)
	ctx := context.Background()

	saved, err := f.uc.SaveCart(ctx, &SaveCartReq{UserID: 1, Items: []CartItemReq{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)

	updated, err := f.uc.UpdateCart(ctx, &UpdateCartReq{UserID: 1, CartID: saved.Cart.ID, Name: "Party", Items: []CartItemReq{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, "Party", updated.Cart.Name)
}

func TestCartUseCase_OtherUsersCartIsNotFound(t *testing.T) {
	f := newCartFixture(catalogFixture()...)
	ctx := context.Background()

	saved, err := f.uc.SaveCart(ctx, &SaveCartReq{UserID: 1, Items: []CartItemReq{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.uc.GetCart(ctx, 2, saved.Cart.ID)
	assert.ErrorIs(t, err, e.ErrCartNotFound)

	_, err = f.uc.UpdateCart(ctx, &UpdateCartReq{UserID: 2, CartID: saved.Cart.ID, Items: []CartItemReq{{ProductID: 1, Quantity: 1}}})
	assert.ErrorIs(t, err, e.ErrCartNotFound)

	assert.ErrorIs(t, f.uc.DeleteCart(ctx, 2, saved.Cart.ID), e.ErrCartNotFound)
}

func TestCartUseCase_ListAndDelete(t *testing.T) {
	f := newCartFixture(catalogFixture()...)
	ctx := context.Background()

	first, err := f.uc.SaveCart(ctx, &SaveCartReq{UserID: 1, Items: []CartItemReq{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)
	_, err = f.uc.SaveCart(ctx, &SaveCartReq{UserID: 1, Items: []CartItemReq{{ProductID: 2, Quantity: 1}}})
	require.NoError(t, err)
	_, err = f.uc.SaveCart(ctx, &SaveCartReq{UserID: 2, Items: []CartItemReq{{ProductID: 3, Quantity: 1}}})
	require.NoError(t, err)

	views, err := f.uc.ListCarts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	require.NoError(t, f.uc.DeleteCart(ctx, 1, first.Cart.ID))

	views, err = f.uc.ListCarts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, CartDeleted, f.outbox.Types()[len(f.outbox.Events)-1])
	assert.Equal(t, int64(5), f.products.Products[1].Popularity)
	assert.Equal(t, int64(10), f.products.Products[2].Popularity)
}

func TestCartUseCase_UpdateCart_RemovedProductLosesPopularity(t *testing.T) {
	f := newCartFixture(catalogFixture()...)
	ctx := context.Background()

	saved, err := f.uc.SaveCart(ctx, &SaveCartReq{UserID: 1, Items: []CartItemReq{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, int64(6), f.products.Products[1].Popularity)
	assert.Equal(t, int64(10), f.products.Products[2].Popularity)

	_, err = f.uc.UpdateCart(ctx, &UpdateCartReq{
		UserID: 1,
		CartID: saved.Cart.ID,
		Items:  []CartItemReq{{ProductID: 1, Quantity: 4}, {ProductID: 3, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), f.products.Products[1].Popularity)
	assert.Equal(t, int64(9), f.products.Products[2].Popularity)
	assert.Equal(t, int64(2), f.products.Products[3].Popularity)

	require.NoError(t, f.uc.DeleteCart(ctx, 1, saved.Cart.ID))

	assert.Equal(t, int64(5), f.products.Products[1].Popularity)
	assert.Equal(t, int64(9), f.products.Products[2].Popularity)
	assert.Equal(t, int64(1), f.products.Products[3].Popularity)
}

func TestCartUseCase_PopularityChangeInvalidatesCatalog(t *testing.T) {
	f := newCartFixture(catalogFixture()...)
	ctx := context.Background()
	f.cache.Cached = true

	saved, err := f.uc.SaveCart(ctx, &SaveCartReq{UserID: 1, Items: []CartItemReq{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Invalidated)
	assert.False(t, f.cache.Cached)

	// состав не изменился, популярность и кэш не трогаются
	f.cache.Cached = true
	_, err = f.uc.UpdateCart(ctx, &UpdateCartReq{UserID: 1, CartID: saved.Cart.ID, Items: []CartItemReq{{ProductID: 1, Quantity: 2}}})
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Invalidated)
	assert.True(t, f.cache.Cached)

	require.NoError(t, f.uc.DeleteCart(ctx, 1, saved.Cart.ID))
	assert.Equal(t, 2, f.cache.Invalidated)

	_, err = f.uc.ComputeTotals(ctx, []CartItemReq{{ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, f.cache.Invalidated)
}

func TestCartUseCase_FailedPopularityKeepsCache(t *testing.T) {
	f := newCartFixture(catalogFixture()...)
	f.cache.Cached = true
	f.outbox.Err = errors.New("outbox unavailable")

	_, err := f.uc.SaveCart(context.Background(), &SaveCartReq{UserID: 1, Items: []CartItemReq{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)
	assert.Zero(t, f.cache.Invalidated)
}

func TestPopularityDeltas(t *testing.T) {
	item := func(id int64) domain.CartItem { return domain.CartItem{ProductID: id, Quantity: 1} }

	tests := []struct {
		name          string
		before, after []domain.CartItem
		want          map[int64]int64
	}{
		{"new cart", nil, []domain.CartItem{item(1), item(2)}, map[int64]int64{1: 1, 2: 1}},
		{"same products", []domain.CartItem{item(1)}, []domain.CartItem{item(1)}, map[int64]int64{}},
		{"swap", []domain.CartItem{item(1), item(2)}, []domain.CartItem{item(2), item(3)}, map[int64]int64{1: -1, 3: 1}},
		{"deleted cart", []domain.CartItem{item(1), item(2)}, nil, map[int64]int64{1: -1, 2: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, popularityDeltas(tt.before, tt.after))
		})
	}
}

func TestCartUseCase_ComputeTotals(t *testing.T) {
	f := newCartFixture(catalogFixture()...)

	view, err := f.uc.ComputeTotals(context.Background(), []CartItemReq{{ProductID: 1, Quantity: 3}, {ProductID: 3, Quantity: 2}})
	require.NoError(t, err)

	assertDecimal(t, "5.20", view.Totals["A"])
	assertDecimal(t, "2.97", view.Totals["B"])
	// кефира нет в B
	assert.Equal(t, "A", view.BestMarket)
	assertDecimal(t, "5.20", view.BestTotal)
	assert.Empty(t, f.carts.Carts)
	assert.Zero(t, f.tx.Calls)
}
