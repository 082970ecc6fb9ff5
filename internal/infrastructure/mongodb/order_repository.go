package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scos-platform/order-service/internal/domain"
	scosmongodb "github.com/scos-platform/order-service/pkg/mongodb"
)

// OrderRepository implements domain.OrderRepository using MongoDB. Reads,
// writes and the commit transaction all go through the circuit breaker
// protected client.
type OrderRepository struct {
	client     *scosmongodb.CircuitBreakerClient
	collection *scosmongodb.CircuitBreakerCollection
	warehouses *scosmongodb.CircuitBreakerCollection
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(client *scosmongodb.CircuitBreakerClient) *OrderRepository {
	collection := client.Collection("orders")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}
	_, _ = collection.Underlying().Indexes().CreateMany(ctx, indexes)

	return &OrderRepository{
		client:     client,
		collection: collection,
		warehouses: client.Collection("warehouses"),
	}
}

// CreateOrder persists the order and decrements warehouse stock for every
// fulfillment segment inside one transaction. Each decrement is conditional
// on the warehouse still holding at least the segment's units, so a
// concurrent submission that drained a warehouse aborts the whole commit
// instead of driving stock negative.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return r.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		for i := range order.Fulfillments {
			segment := &order.Fulfillments[i]

			warehouse, err := r.resolveWarehouse(sessCtx, segment)
			if err != nil {
				return err
			}
			if warehouse.Stock < segment.Units {
				return domain.InsufficientStockError(warehouse.Name)
			}
			// A rename or re-seed may have changed the ID since quoting
			segment.WarehouseID = warehouse.ID.Hex()
		}

		order.UpdatedAt = time.Now().UTC()
		if _, err := r.collection.InsertOne(sessCtx, order); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for _, segment := range order.Fulfillments {
			objectID, err := primitive.ObjectIDFromHex(segment.WarehouseID)
			if err != nil {
				return domain.WarehouseNotFoundError(segment.WarehouseName)
			}

			result, err := r.warehouses.UpdateOne(sessCtx,
				bson.M{"_id": objectID, "stock": bson.M{"$gte": segment.Units}},
				bson.M{
					"$inc": bson.M{"stock": -segment.Units},
					"$set": bson.M{"updatedAt": time.Now().UTC()},
				},
			)
			if err != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", segment.WarehouseName, err)
			}
			if result.MatchedCount == 0 {
				return domain.InsufficientStockError(segment.WarehouseName)
			}
		}

		return nil
	})
}

// resolveWarehouse finds a segment's warehouse by ID, falling back to the
// name when the quoted ID is stale
func (r *OrderRepository) resolveWarehouse(ctx context.Context, segment *domain.FulfillmentSegment) (*domain.Warehouse, error) {
	if objectID, err := primitive.ObjectIDFromHex(segment.WarehouseID); err == nil {
		var warehouse domain.Warehouse
		err := r.warehouses.FindOne(ctx, bson.M{"_id": objectID}).Decode(&warehouse)
		if err == nil {
			return &warehouse, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, fmt.Errorf("failed to resolve warehouse %s: %w", segment.WarehouseID, err)
		}
	}

	var warehouse domain.Warehouse
	err := r.warehouses.FindOne(ctx, bson.M{"name": segment.WarehouseName}).Decode(&warehouse)
	if err == mongo.ErrNoDocuments {
		return nil, domain.WarehouseNotFoundError(segment.WarehouseName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve warehouse %s: %w", segment.WarehouseName, err)
	}
	return &warehouse, nil
}

// FindByOrderNumber retrieves an order by its order number
func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", orderNumber, err)
	}
	return &order, nil
}
