package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scos-platform/order-service/internal/domain"
)

// seedWarehouses is the default warehouse network, one per major airport hub
var seedWarehouses = []domain.Warehouse{
	{Name: "Los Angeles", Latitude: 33.9425, Longitude: -118.408056, Stock: 355},
	{Name: "New York", Latitude: 40.639722, Longitude: -73.778889, Stock: 578},
	{Name: "São Paulo", Latitude: -23.435556, Longitude: -46.473056, Stock: 265},
	{Name: "Paris", Latitude: 49.009722, Longitude: 2.547778, Stock: 694},
	{Name: "Warsaw", Latitude: 52.165833, Longitude: 20.967222, Stock: 245},
	{Name: "Hong Kong", Latitude: 22.308889, Longitude: 113.914444, Stock: 419},
}

// SeedWarehouses inserts the default warehouse network if the collection is
// empty. Existing data is never touched, so restarts don't reset stock.
func SeedWarehouses(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("warehouses")

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count warehouses: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	documents := make([]interface{}, len(seedWarehouses))
	for i, warehouse := range seedWarehouses {
		warehouse.CreatedAt = now
		warehouse.UpdatedAt = now
		documents[i] = warehouse
	}

	if _, err := collection.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("failed to seed warehouses: %w", err)
	}
	return nil
}
