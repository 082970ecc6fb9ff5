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

// WarehouseRepository implements domain.WarehouseRepository using MongoDB.
// All reads go through the circuit breaker protected collection.
type WarehouseRepository struct {
	collection *scosmongodb.CircuitBreakerCollection
}

// NewWarehouseRepository creates a new WarehouseRepository
func NewWarehouseRepository(client *scosmongodb.CircuitBreakerClient) *WarehouseRepository {
	collection := client.Collection("warehouses")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Underlying().Indexes().CreateMany(ctx, indexes)

	return &WarehouseRepository{collection: collection}
}

// FindAll returns every warehouse ordered by name
func (r *WarehouseRepository) FindAll(ctx context.Context) ([]*domain.Warehouse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}
	defer cursor.Close(ctx)

	var warehouses []*domain.Warehouse
	if err := cursor.All(ctx, &warehouses); err != nil {
		return nil, fmt.Errorf("failed to decode warehouses: %w", err)
	}
	return warehouses, nil
}

// FindByID retrieves a warehouse by its hex ID
func (r *WarehouseRepository) FindByID(ctx context.Context, id string) (*domain.Warehouse, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.WarehouseNotFoundError(id)
	}

	var warehouse domain.Warehouse
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&warehouse)
	if err == mongo.ErrNoDocuments {
		return nil, domain.WarehouseNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find warehouse %s: %w", id, err)
	}
	return &warehouse, nil
}

// FindByName retrieves a warehouse by its unique name
func (r *WarehouseRepository) FindByName(ctx context.Context, name string) (*domain.Warehouse, error) {
	var warehouse domain.Warehouse
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&warehouse)
	if err == mongo.ErrNoDocuments {
		return nil, domain.WarehouseNotFoundError(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find warehouse %s: %w", name, err)
	}
	return &warehouse, nil
}
