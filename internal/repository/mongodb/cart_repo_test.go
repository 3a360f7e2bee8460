package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupCartRepo(t *testing.T) *CartRepo {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}

	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	repo := NewCartRepo(client.Database("testdb"), "carts", converter.CartConverter{})
	require.NoError(t, repo.CreateIndexes(ctx))

	return repo
}

func newCart(userID int64, name string, at time.Time) *domain.Cart {
	items := []domain.CartItem{{
		ProductID: 1,
		Name:      "Milk",
		Unit:      domain.DefaultUnit,
		Quantity:  2,
		Prices:    domain.PriceMap{"A": decimal.RequireFromString("1.20"), "B": decimal.RequireFromString("0.99")},
	}}
	return domain.NewCart(userID, name, items, at)
}

func TestCartRepo_CreateAndGet(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newCart(1, "Weekly", time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly", got.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "1.20", got.Items[0].Prices["A"].String())
	assert.True(t, decimal.RequireFromString("4.38").Equal(got.Totals()["A"].Add(got.Totals()["B"])))
}

func TestCartRepo_OwnerIsolation(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newCart(1, "Mine", time.Now()))
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, 2, created.ID)
	assert.ErrorIs(t, err, e.ErrCartNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, 2, created.ID), e.ErrCartNotFound)

	_, err = repo.GetByID(ctx, 1, "bad-id")
	assert.ErrorIs(t, err, e.ErrInvalidCartID)
}

func TestCartRepo_ListByUserNewestFirst(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	_, err := repo.Create(ctx, newCart(1, "old", base))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCart(1, "new", base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCart(2, "other", base))
	require.NoError(t, err)

	carts, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, carts, 2)
	assert.Equal(t, "new", carts[0].Name)
	assert.Equal(t, "old", carts[1].Name)
}

func TestCartRepo_ReplaceAndDelete(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newCart(1, "Weekly", time.Now()))
	require.NoError(t, err)

	created.Name = "Renamed"
	created.Items[0].Quantity = 5
	created.UpdatedAt = time.Now()
	replaced, err := repo.Replace(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", replaced.Name)
	assert.Equal(t, 5, replaced.Items[0].Quantity)
	assert.Equal(t, created.CreatedAt, replaced.CreatedAt)

	require.NoError(t, repo.Delete(ctx, 1, created.ID))
	_, err = repo.GetByID(ctx, 1, created.ID)
	assert.ErrorIs(t, err, e.ErrCartNotFound)
}
