package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scos-platform/order-service/internal/domain"
	"github.com/scos-platform/order-service/pkg/events"
	"github.com/scos-platform/order-service/pkg/kafka"
	"github.com/scos-platform/order-service/pkg/logging"
	"github.com/scos-platform/order-service/pkg/metrics"
	"github.com/scos-platform/order-service/pkg/middleware"
)

// fakeWarehouseRepo serves warehouses from memory, ordered by insertion
// (fixtures are inserted in name order, matching the snapshot contract)
type fakeWarehouseRepo struct {
	mu         sync.Mutex
	warehouses []*domain.Warehouse
}

func (r *fakeWarehouseRepo) FindAll(_ context.Context) ([]*domain.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]*domain.Warehouse, len(r.warehouses))
	for i, warehouse := range r.warehouses {
		copied := *warehouse
		snapshot[i] = &copied
	}
	return snapshot, nil
}

func (r *fakeWarehouseRepo) FindByID(_ context.Context, id string) (*domain.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, warehouse := range r.warehouses {
		if warehouse.ID.Hex() == id {
			copied := *warehouse
			return &copied, nil
		}
	}
	return nil, domain.ErrWarehouseNotFound
}

func (r *fakeWarehouseRepo) FindByName(_ context.Context, name string) (*domain.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, warehouse := range r.warehouses {
		if warehouse.Name == name {
			copied := *warehouse
			return &copied, nil
		}
	}
	return nil, domain.ErrWarehouseNotFound
}

func (r *fakeWarehouseRepo) stockOf(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, warehouse := range r.warehouses {
		if warehouse.Name == name {
			return warehouse.Stock
		}
	}
	return -1
}

// fakeOrderRepo mirrors the transactional commit contract: it re-checks
// stock per segment and decrements atomically under one lock
type fakeOrderRepo struct {
	warehouses *fakeWarehouseRepo
	mu         sync.Mutex
	orders     map[string]*domain.Order
}

func newFakeOrderRepo(warehouses *fakeWarehouseRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		warehouses: warehouses,
		orders:     make(map[string]*domain.Order),
	}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses.mu.Lock()
	defer r.warehouses.mu.Unlock()

	for _, segment := range order.Fulfillments {
		var target *domain.Warehouse
		for _, warehouse := range r.warehouses.warehouses {
			if warehouse.ID.Hex() == segment.WarehouseID {
				target = warehouse
				break
			}
		}
		if target == nil {
			for _, warehouse := range r.warehouses.warehouses {
				if warehouse.Name == segment.WarehouseName {
					target = warehouse
					break
				}
			}
		}
		if target == nil {
			return domain.WarehouseNotFoundError(segment.WarehouseName)
		}
		if target.Stock < segment.Units {
			return domain.InsufficientStockError(target.Name)
		}
	}

	for _, segment := range order.Fulfillments {
		for _, warehouse := range r.warehouses.warehouses {
			if warehouse.ID.Hex() == segment.WarehouseID || warehouse.Name == segment.WarehouseName {
				warehouse.Stock -= segment.Units
				break
			}
		}
	}

	r.orders[order.OrderNumber] = order
	return nil
}

func (r *fakeOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderNumber]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// publishedEvent pairs an envelope with the topic it was sent to
type publishedEvent struct {
	topic string
	event *events.Envelope
}

// fakePublisher records published envelopes per topic
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, event *events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, event: event})
	return nil
}

func (p *fakePublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type serviceFixture struct {
	service    *OrderApplicationService
	warehouses *fakeWarehouseRepo
	orders     *fakeOrderRepo
	publisher  *fakePublisher
}

// newServiceFixture wires the service over three warehouses near New York,
// Los Angeles and Paris holding 300, 400 and 200 units
func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	warehouses := &fakeWarehouseRepo{warehouses: []*domain.Warehouse{
		{ID: primitive.NewObjectID(), Name: "Los Angeles", Latitude: 34.0522, Longitude: -118.2437, Stock: 400},
		{ID: primitive.NewObjectID(), Name: "New York", Latitude: 40.6, Longitude: -74.1, Stock: 300},
		{ID: primitive.NewObjectID(), Name: "Paris", Latitude: 48.8566, Longitude: 2.3522, Stock: 200},
	}}
	orders := newFakeOrderRepo(warehouses)
	publisher := &fakePublisher{}

	logger := logging.New(logging.DefaultConfig("order-service-test"))
	businessMetrics := middleware.NewBusinessMetrics(metrics.New(metrics.DefaultConfig("order-service-test")))

	service := NewOrderApplicationService(
		warehouses,
		orders,
		publisher,
		events.NewFactory("order-service-test"),
		logger,
		businessMetrics,
	)

	return &serviceFixture{
		service:    service,
		warehouses: warehouses,
		orders:     orders,
		publisher:  publisher,
	}
}

func TestVerifyOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid order near a warehouse gets the first discount tier", func(t *testing.T) {
		f := newServiceFixture(t)

		quote, err := f.service.VerifyOrder(ctx, VerifyOrderCommand{
			Quantity: 25, Latitude: 40.7128, Longitude: -74.006,
		})
		require.NoError(t, err)

		assert.True(t, quote.IsValid)
		assert.Empty(t, quote.InvalidReason)
		assert.Equal(t, 3750.0, quote.TotalPrice)
		assert.Equal(t, 5.0, quote.DiscountPercentage)
		assert.InDelta(t, 3562.5, quote.DiscountedPrice, 1e-9)
		assert.NotEmpty(t, quote.FulfillmentPlan)
		assert.Equal(t, "New York", quote.FulfillmentPlan[0].WarehouseName)
	})

	t.Run("Non-positive quantity short-circuits", func(t *testing.T) {
		f := newServiceFixture(t)

		for _, quantity := range []int{0, -1, -100} {
			quote, err := f.service.VerifyOrder(ctx, VerifyOrderCommand{
				Quantity: quantity, Latitude: 40.7128, Longitude: -74.006,
			})
			require.NoError(t, err)

			assert.False(t, quote.IsValid)
			assert.Equal(t, domain.ReasonInvalidQuantity, quote.InvalidReason)
			assert.Zero(t, quote.TotalPrice)
			assert.Zero(t, quote.DiscountedPrice)
			assert.Zero(t, quote.ShippingCost)
			assert.Nil(t, quote.FulfillmentPlan)
		}
	})

	t.Run("Order beyond total stock is rejected with the stock reason", func(t *testing.T) {
		f := newServiceFixture(t)

		quote, err := f.service.VerifyOrder(ctx, VerifyOrderCommand{
			Quantity: 950, Latitude: 40.7128, Longitude: -74.006,
		})
		require.NoError(t, err)

		assert.False(t, quote.IsValid)
		assert.Equal(t, domain.ReasonInsufficientStock, quote.InvalidReason)
		assert.Nil(t, quote.FulfillmentPlan, "invalid quotes omit the plan")
	})

	t.Run("Stock reason wins when shipping would also exceed the cap", func(t *testing.T) {
		f := newServiceFixture(t)

		// Antipodal destination and an over-stock quantity fail both rules
		quote, err := f.service.VerifyOrder(ctx, VerifyOrderCommand{
			Quantity: 950, Latitude: -40.7128, Longitude: 105.994,
		})
		require.NoError(t, err)

		assert.False(t, quote.IsValid)
		assert.Equal(t, domain.ReasonInsufficientStock, quote.InvalidReason)
	})

	t.Run("Remote single unit exceeds the shipping cap", func(t *testing.T) {
		f := newServiceFixture(t)

		// One unit ships from ~19000 km away: cost ~70, cap is 15% of 150
		quote, err := f.service.VerifyOrder(ctx, VerifyOrderCommand{
			Quantity: 1, Latitude: -40.7128, Longitude: 105.994,
		})
		require.NoError(t, err)

		assert.False(t, quote.IsValid)
		assert.Contains(t, quote.InvalidReason, "Shipping cost exceeds")
		assert.Contains(t, quote.InvalidReason, "% of the order value")
		assert.Nil(t, quote.FulfillmentPlan)
	})

	t.Run("Out-of-range coordinates are a validation error", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.VerifyOrder(ctx, VerifyOrderCommand{
			Quantity: 10, Latitude: 95, Longitude: 0,
		})
		assert.Error(t, err)
	})

	t.Run("Repeated verification yields identical quotes", func(t *testing.T) {
		f := newServiceFixture(t)

		cmd := VerifyOrderCommand{Quantity: 120, Latitude: 40.7128, Longitude: -74.006}

		first, err := f.service.VerifyOrder(ctx, cmd)
		require.NoError(t, err)
		second, err := f.service.VerifyOrder(ctx, cmd)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("Verification does not touch stock", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.VerifyOrder(ctx, VerifyOrderCommand{
			Quantity: 500, Latitude: 40.7128, Longitude: -74.006,
		})
		require.NoError(t, err)

		assert.Equal(t, 300, f.warehouses.stockOf("New York"))
		assert.Equal(t, 400, f.warehouses.stockOf("Los Angeles"))
	})
}

func TestSubmitOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid submission commits stock and returns an order number", func(t *testing.T) {
		f := newServiceFixture(t)

		submission, err := f.service.SubmitOrder(ctx, SubmitOrderCommand{
			Quantity: 10, Latitude: 40.7128, Longitude: -74.006,
		})
		require.NoError(t, err)

		assert.True(t, submission.IsValid)
		assert.NotEmpty(t, submission.OrderNumber)
		assert.Equal(t, 290, f.warehouses.stockOf("New York"))

		stored, err := f.orders.FindByOrderNumber(ctx, submission.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, stored.Status)
		assert.Equal(t, 10, stored.QuantityOrdered)
	})

	t.Run("Invalid submission returns an empty order number and leaves storage untouched", func(t *testing.T) {
		f := newServiceFixture(t)

		submission, err := f.service.SubmitOrder(ctx, SubmitOrderCommand{
			Quantity: 950, Latitude: 40.7128, Longitude: -74.006,
		})
		require.NoError(t, err)

		assert.False(t, submission.IsValid)
		assert.Empty(t, submission.OrderNumber)
		assert.Equal(t, domain.ReasonInsufficientStock, submission.InvalidReason)
		assert.Equal(t, 300, f.warehouses.stockOf("New York"))
		assert.Empty(t, f.orders.orders)
	})

	t.Run("Confirmed submission publishes order and inventory events", func(t *testing.T) {
		f := newServiceFixture(t)

		submission, err := f.service.SubmitOrder(ctx, SubmitOrderCommand{
			Quantity: 10, Latitude: 40.7128, Longitude: -74.006,
		})
		require.NoError(t, err)

		published := f.publisher.published()
		require.Len(t, published, 2)

		assert.Equal(t, kafka.Topics.OrdersEvents, published[0].topic)
		assert.Equal(t, events.OrderConfirmed, published[0].event.Type)
		assert.Equal(t, submission.OrderNumber, published[0].event.Subject)

		assert.Equal(t, kafka.Topics.InventoryEvents, published[1].topic)
		assert.Equal(t, events.InventoryAllocated, published[1].event.Type)
		allocated, ok := published[1].event.Data.(events.InventoryAllocatedData)
		require.True(t, ok)
		assert.Equal(t, submission.OrderNumber, allocated.OrderNumber)
		units := 0
		for _, allocation := range allocated.Allocations {
			units += allocation.Units
		}
		assert.Equal(t, 10, units)
	})

	t.Run("Rejected submission publishes an order rejected event", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.SubmitOrder(ctx, SubmitOrderCommand{
			Quantity: 950, Latitude: 40.7128, Longitude: -74.006,
		})
		require.NoError(t, err)

		published := f.publisher.published()
		require.Len(t, published, 1)
		assert.Equal(t, kafka.Topics.OrdersEvents, published[0].topic)
		assert.Equal(t, events.OrderRejected, published[0].event.Type)
	})

	t.Run("Concurrent submissions cannot oversubscribe a warehouse", func(t *testing.T) {
		f := newServiceFixture(t)

		// Paris holds 200 units; two orders of 150 each can't both land there.
		// With the fixture topology all 950 total units mean both may still
		// succeed by spilling to other warehouses, so drain the others first.
		f.warehouses.warehouses[0].Stock = 0 // Los Angeles
		f.warehouses.warehouses[1].Stock = 0 // New York

		var wg sync.WaitGroup
		results := make([]OrderSubmissionDTO, 2)
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = f.service.SubmitOrder(ctx, SubmitOrderCommand{
					Quantity: 150, Latitude: 48.85, Longitude: 2.35,
				})
			}(i)
		}
		wg.Wait()

		confirmed := 0
		for i := range results {
			if errs[i] == nil && results[i].OrderNumber != "" {
				confirmed++
			}
		}
		assert.LessOrEqual(t, confirmed, 1)
		assert.GreaterOrEqual(t, f.warehouses.stockOf("Paris"), 0)
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns a committed order", func(t *testing.T) {
		f := newServiceFixture(t)

		submission, err := f.service.SubmitOrder(ctx, SubmitOrderCommand{
			Quantity: 10, Latitude: 40.7128, Longitude: -74.006,
		})
		require.NoError(t, err)

		order, err := f.service.GetOrder(ctx, submission.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, submission.OrderNumber, order.OrderNumber)
		assert.Equal(t, string(domain.StatusConfirmed), order.Status)
	})

	t.Run("Unknown order number is not found", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.GetOrder(ctx, "ORD-DOESNOTX")
		assert.Error(t, err)
	})
}
