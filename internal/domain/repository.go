package domain

import (
	"context"
	"errors"
	"fmt"
)

// Repository errors
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// WarehouseNotFoundError names the warehouse a commit could not resolve
func WarehouseNotFoundError(warehouse string) error {
	return fmt.Errorf("%w: %s", ErrWarehouseNotFound, warehouse)
}

// InsufficientStockError names the warehouse that could not cover its segment
func InsufficientStockError(warehouse string) error {
	return fmt.Errorf("%w in warehouse %s", ErrInsufficientStock, warehouse)
}

// WarehouseRepository provides the warehouse snapshot used for allocation
type WarehouseRepository interface {
	// FindAll returns every warehouse ordered by name
	FindAll(ctx context.Context) ([]*Warehouse, error)

	// FindByID retrieves a warehouse by its hex ID
	FindByID(ctx context.Context, id string) (*Warehouse, error)

	// FindByName retrieves a warehouse by its unique name
	FindByName(ctx context.Context, name string) (*Warehouse, error)
}

// OrderRepository persists confirmed orders
type OrderRepository interface {
	// CreateOrder persists the order and decrements warehouse stock for each
	// fulfillment segment as a single atomic unit. It fails with a
	// WarehouseNotFound or InsufficientStock error, naming the offending
	// warehouse, when the plan no longer matches current stock.
	CreateOrder(ctx context.Context, order *Order) error

	// FindByOrderNumber retrieves an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
}
