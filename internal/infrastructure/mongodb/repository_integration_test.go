package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scos-platform/order-service/internal/domain"
	"github.com/scos-platform/order-service/pkg/logging"
	scosmongodb "github.com/scos-platform/order-service/pkg/mongodb"
	scostesting "github.com/scos-platform/order-service/pkg/testing"
)

// setupTestDatabase starts a MongoDB container and wires the same client
// chain the service uses: instrumented client behind a circuit breaker.
// The raw database handle is returned for seeding.
func setupTestDatabase(t *testing.T) (*scosmongodb.CircuitBreakerClient, *mongo.Database) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := scostesting.CreateTestContext(2 * time.Minute)
	t.Cleanup(cancel)

	container, err := scostesting.NewMongoDBContainer(ctx)
	require.NoError(t, err)

	client, err := scosmongodb.NewClient(ctx, &scosmongodb.Config{
		URI:            container.URI,
		Database:       "test_scos_orders",
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := scostesting.CreateTestContext(30 * time.Second)
		defer cleanupCancel()
		if err := client.Close(cleanupCtx); err != nil {
			t.Logf("Failed to disconnect MongoDB client: %v", err)
		}
		if err := container.Close(cleanupCtx); err != nil {
			t.Logf("Failed to close MongoDB container: %v", err)
		}
	})

	logger := logging.New(logging.DefaultConfig("order-service-test"))
	instrumented := scosmongodb.NewInstrumentedClient(client, nil, logger)
	return scosmongodb.NewCircuitBreakerClient(instrumented, logger), client.Database()
}

func TestWarehouseRepositoryIntegration(t *testing.T) {
	protected, db := setupTestDatabase(t)
	ctx, cancel := scostesting.CreateTestContext(time.Minute)
	defer cancel()

	require.NoError(t, SeedWarehouses(ctx, db))
	repo := NewWarehouseRepository(protected)

	t.Run("FindAll returns warehouses ordered by name", func(t *testing.T) {
		warehouses, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, warehouses, 6)

		names := make([]string, len(warehouses))
		for i, warehouse := range warehouses {
			names[i] = warehouse.Name
		}
		assert.Equal(t, []string{"Hong Kong", "Los Angeles", "New York", "Paris", "São Paulo", "Warsaw"}, names)
	})

	t.Run("Seeding twice does not duplicate", func(t *testing.T) {
		require.NoError(t, SeedWarehouses(ctx, db))
		warehouses, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, warehouses, 6)
	})

	t.Run("FindByID and FindByName resolve the same warehouse", func(t *testing.T) {
		byName, err := repo.FindByName(ctx, "Paris")
		require.NoError(t, err)
		assert.Equal(t, 694, byName.Stock)

		byID, err := repo.FindByID(ctx, byName.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, byName.Name, byID.Name)
	})

	t.Run("Unknown warehouse is not found", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "Atlantis")
		assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)

		_, err = repo.FindByID(ctx, "not-a-hex-id")
		assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)
	})
}

func TestOrderRepositoryIntegration(t *testing.T) {
	protected, db := setupTestDatabase(t)
	ctx, cancel := scostesting.CreateTestContext(time.Minute)
	defer cancel()

	require.NoError(t, SeedWarehouses(ctx, db))
	warehouseRepo := NewWarehouseRepository(protected)
	orderRepo := NewOrderRepository(protected)

	quoteFor := func(t *testing.T, warehouseName string, units int) domain.OrderQuote {
		t.Helper()
		warehouse, err := warehouseRepo.FindByName(ctx, warehouseName)
		require.NoError(t, err)

		return domain.OrderQuote{
			Quantity:        units,
			Destination:     domain.MustNewCoordinate(warehouse.Latitude, warehouse.Longitude),
			TotalPrice:      float64(units) * domain.ProductPrice,
			DiscountedPrice: float64(units) * domain.ProductPrice,
			IsValid:         true,
			FulfillmentPlan: []domain.FulfillmentSegment{
				{
					WarehouseID:   warehouse.ID.Hex(),
					WarehouseName: warehouse.Name,
					Units:         units,
					Cost:          1.5,
					Distance:      10,
				},
			},
		}
	}

	t.Run("CreateOrder persists and decrements stock", func(t *testing.T) {
		order := domain.NewOrderFromQuote(quoteFor(t, "New York", 10), domain.NewOrderNumber())
		require.NoError(t, orderRepo.CreateOrder(ctx, order))

		warehouse, err := warehouseRepo.FindByName(ctx, "New York")
		require.NoError(t, err)
		assert.Equal(t, 568, warehouse.Stock)

		found, err := orderRepo.FindByOrderNumber(ctx, order.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, found.Status)
		assert.Equal(t, 10, found.QuantityOrdered)
		require.Len(t, found.Fulfillments, 1)
		assert.Equal(t, "New York", found.Fulfillments[0].WarehouseName)
	})

	t.Run("Stale warehouse ID falls back to name", func(t *testing.T) {
		quote := quoteFor(t, "Warsaw", 5)
		quote.FulfillmentPlan[0].WarehouseID = "64b000000000000000000000"

		order := domain.NewOrderFromQuote(quote, domain.NewOrderNumber())
		require.NoError(t, orderRepo.CreateOrder(ctx, order))

		warehouse, err := warehouseRepo.FindByName(ctx, "Warsaw")
		require.NoError(t, err)
		assert.Equal(t, 240, warehouse.Stock)
	})

	t.Run("Commit aborts when stock changed since quoting", func(t *testing.T) {
		order := domain.NewOrderFromQuote(quoteFor(t, "São Paulo", 1000), domain.NewOrderNumber())

		err := orderRepo.CreateOrder(ctx, order)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "São Paulo")

		// Nothing persisted, stock untouched
		_, err = orderRepo.FindByOrderNumber(ctx, order.OrderNumber)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)

		warehouse, err := warehouseRepo.FindByName(ctx, "São Paulo")
		require.NoError(t, err)
		assert.Equal(t, 265, warehouse.Stock)
	})

	t.Run("Unknown warehouse aborts the commit", func(t *testing.T) {
		quote := quoteFor(t, "Paris", 5)
		quote.FulfillmentPlan[0].WarehouseID = "64b000000000000000000001"
		quote.FulfillmentPlan[0].WarehouseName = "Atlantis"

		order := domain.NewOrderFromQuote(quote, domain.NewOrderNumber())
		err := orderRepo.CreateOrder(ctx, order)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)
		assert.Contains(t, err.Error(), "Atlantis")
	})

	t.Run("Unknown order number is not found", func(t *testing.T) {
		_, err := orderRepo.FindByOrderNumber(ctx, "ORD-MISSINGX")
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}
