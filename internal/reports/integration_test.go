//go:build integration
// +build integration

package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ariefcatur/go-laptop-shop/internal/auth"
	"github.com/ariefcatur/go-laptop-shop/internal/catalog"
	"github.com/ariefcatur/go-laptop-shop/internal/orders"
	"github.com/ariefcatur/go-laptop-shop/internal/reports"
)

// setupMongo starts a throwaway MongoDB container and returns a database
// handle scoped to the test.
func setupMongo(t *testing.T) (*mongo.Database, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	cleanup := func() {
		_ = client.Disconnect(ctx)
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
	return client.Database("laptopshop_test"), cleanup
}

func TestRevenueCountsOnlyPaidAndShippedOrders(t *testing.T) {
	db, cleanup := setupMongo(t)
	defer cleanup()
	ctx := context.Background()

	cat := catalog.NewStore(db)
	st := orders.NewMongoStore(db)
	svc := &orders.Service{Catalog: cat, Store: st, Name: "test", Strict: true}

	apex := &catalog.Product{Brand: "apex", Model: "apex-x", PriceCents: 1000, Stock: 10}
	bolt := &catalog.Product{Brand: "bolt", Model: "bolt-y", PriceCents: 250, Stock: 5}
	require.NoError(t, cat.Create(ctx, apex))
	require.NoError(t, cat.Create(ctx, bolt))

	alice := auth.Principal{UserID: "alice", Role: auth.RoleUser}
	admin := auth.Principal{UserID: "root", Role: auth.RoleAdmin}

	paid, err := svc.Create(ctx, alice, []orders.ItemInput{{ProductID: apex.ID, Qty: 2}})
	require.NoError(t, err)
	shipped, err := svc.Create(ctx, alice, []orders.ItemInput{{ProductID: bolt.ID, Qty: 3}})
	require.NoError(t, err)
	// Stays created: must not count toward revenue.
	_, err = svc.Create(ctx, alice, []orders.ItemInput{{ProductID: apex.ID, Qty: 1}})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, admin, paid.ID, orders.StatusPaid)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, admin, shipped.ID, orders.StatusPaid)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, admin, shipped.ID, orders.StatusShipped)
	require.NoError(t, err)

	agg := reports.NewAggregator(db)
	rows, err := agg.RevenueByBrand(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted by revenue descending: apex 2000 over bolt 750.
	assert.Equal(t, "apex", rows[0].Brand)
	assert.Equal(t, int64(2000), rows[0].Revenue)
	assert.Equal(t, 2, rows[0].SoldQty)
	assert.Equal(t, 1, rows[0].OrdersCount)

	assert.Equal(t, "bolt", rows[1].Brand)
	assert.Equal(t, int64(750), rows[1].Revenue)
	assert.Equal(t, 3, rows[1].SoldQty)
	assert.Equal(t, 1, rows[1].OrdersCount)
}

func TestInventorySumsLiveStockPerBrand(t *testing.T) {
	db, cleanup := setupMongo(t)
	defer cleanup()
	ctx := context.Background()

	cat := catalog.NewStore(db)
	st := orders.NewMongoStore(db)
	svc := &orders.Service{Catalog: cat, Store: st, Name: "test", Strict: true}

	apex := &catalog.Product{Brand: "apex", Model: "apex-x", PriceCents: 1000, Stock: 10}
	apex2 := &catalog.Product{Brand: "apex", Model: "apex-y", PriceCents: 2000, Stock: 4}
	bolt := &catalog.Product{Brand: "bolt", Model: "bolt-y", PriceCents: 250, Stock: 5}
	require.NoError(t, cat.Create(ctx, apex))
	require.NoError(t, cat.Create(ctx, apex2))
	require.NoError(t, cat.Create(ctx, bolt))

	alice := auth.Principal{UserID: "alice", Role: auth.RoleUser}
	_, err := svc.Create(ctx, alice, []orders.ItemInput{{ProductID: apex.ID, Qty: 3}})
	require.NoError(t, err)

	agg := reports.NewAggregator(db)
	rows, err := agg.InventoryByBrand(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted by average price descending: apex 1500 over bolt 250.
	assert.Equal(t, "apex", rows[0].Brand)
	assert.InDelta(t, 1500, rows[0].AvgPrice, 0.01)
	assert.Equal(t, 11, rows[0].TotalStock) // 10-3 reserved + 4
	assert.Equal(t, 2, rows[0].ModelsCount)

	assert.Equal(t, "bolt", rows[1].Brand)
	assert.Equal(t, 5, rows[1].TotalStock)
	assert.Equal(t, 1, rows[1].ModelsCount)
}
