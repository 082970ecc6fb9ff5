package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scos-platform/order-service/pkg/logging"
	"github.com/scos-platform/order-service/pkg/metrics"
)

// InstrumentedClient wraps a MongoDB Client so every collection operation is
// recorded in the MongoDB operation metrics and the query log.
type InstrumentedClient struct {
	client  *Client
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewInstrumentedClient creates a new instrumented MongoDB client
func NewInstrumentedClient(client *Client, m *metrics.Metrics, logger *logging.Logger) *InstrumentedClient {
	return &InstrumentedClient{
		client:  client,
		metrics: m,
		logger:  logger,
	}
}

// Collection returns an instrumented collection
func (c *InstrumentedClient) Collection(name string) *InstrumentedCollection {
	return &InstrumentedCollection{
		collection: c.client.Collection(name),
		name:       name,
		metrics:    c.metrics,
		logger:     c.logger,
	}
}

// Database returns the underlying database handle
func (c *InstrumentedClient) Database() *mongo.Database {
	return c.client.Database()
}

// Client returns the underlying MongoDB client
func (c *InstrumentedClient) Client() *mongo.Client {
	return c.client.Client()
}

// Close disconnects the client
func (c *InstrumentedClient) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}

// HealthCheck performs a health check on the MongoDB connection
func (c *InstrumentedClient) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}

// WithTransaction executes a function within a multi-document transaction
func (c *InstrumentedClient) WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	return c.client.WithTransaction(ctx, fn)
}

// InstrumentedCollection wraps a MongoDB collection with metrics and query logging
type InstrumentedCollection struct {
	collection *mongo.Collection
	name       string
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

func (c *InstrumentedCollection) record(ctx context.Context, operation string, success bool, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordMongoDBOperation(c.name, operation, success, duration)
	}
	if c.logger != nil {
		c.logger.DatabaseQuery(ctx, c.name, operation, duration, success)
	}
}

// InsertOne inserts a single document with instrumentation
func (c *InstrumentedCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	start := time.Now()
	result, err := c.collection.InsertOne(ctx, document, opts...)
	c.record(ctx, "insertOne", err == nil, time.Since(start))
	return result, err
}

// InsertMany inserts multiple documents with instrumentation
func (c *InstrumentedCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	start := time.Now()
	result, err := c.collection.InsertMany(ctx, documents, opts...)
	c.record(ctx, "insertMany", err == nil, time.Since(start))
	return result, err
}

// FindOne finds a single document with instrumentation. A missing document
// counts as a successful query.
func (c *InstrumentedCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	start := time.Now()
	result := c.collection.FindOne(ctx, filter, opts...)
	err := result.Err()
	success := err == nil || err == mongo.ErrNoDocuments
	c.record(ctx, "findOne", success, time.Since(start))
	return result
}

// Find finds multiple documents with instrumentation
func (c *InstrumentedCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	start := time.Now()
	cursor, err := c.collection.Find(ctx, filter, opts...)
	c.record(ctx, "find", err == nil, time.Since(start))
	return cursor, err
}

// UpdateOne updates a single document with instrumentation
func (c *InstrumentedCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	start := time.Now()
	result, err := c.collection.UpdateOne(ctx, filter, update, opts...)
	c.record(ctx, "updateOne", err == nil, time.Since(start))
	return result, err
}

// CountDocuments counts documents with instrumentation
func (c *InstrumentedCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	start := time.Now()
	count, err := c.collection.CountDocuments(ctx, filter, opts...)
	c.record(ctx, "countDocuments", err == nil, time.Since(start))
	return count, err
}

// Underlying returns the underlying mongo.Collection
func (c *InstrumentedCollection) Underlying() *mongo.Collection {
	return c.collection
}
