package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testWarehouse(name string, latitude, longitude float64, stock int) *Warehouse {
	return &Warehouse{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		Stock:     stock,
	}
}

// TestDetermineOptimalFulfillment tests the nearest-first greedy allocation
func TestDetermineOptimalFulfillment(t *testing.T) {
	// Destination near New York; Los Angeles and Paris are progressively farther
	destination := MustNewCoordinate(40.7128, -74.006)

	newYork := testWarehouse("New York", 40.6, -74.1, 300)
	losAngeles := testWarehouse("Los Angeles", 34.0522, -118.2437, 400)
	paris := testWarehouse("Paris", 48.8566, 2.3522, 200)
	warehouses := []*Warehouse{losAngeles, newYork, paris}

	t.Run("Single warehouse covers the whole order", func(t *testing.T) {
		result, err := DetermineOptimalFulfillment(25, destination, warehouses)
		require.NoError(t, err)

		assert.True(t, result.SufficientStock)
		require.Len(t, result.Plan, 1)
		assert.Equal(t, "New York", result.Plan[0].WarehouseName)
		assert.Equal(t, 25, result.Plan[0].Units)
		assert.Equal(t, 25, result.AllocatedUnits())
	})

	t.Run("Order spills to farther warehouses nearest first", func(t *testing.T) {
		result, err := DetermineOptimalFulfillment(500, destination, warehouses)
		require.NoError(t, err)

		assert.True(t, result.SufficientStock)
		require.Len(t, result.Plan, 2)
		assert.Equal(t, "New York", result.Plan[0].WarehouseName)
		assert.Equal(t, 300, result.Plan[0].Units)
		assert.Equal(t, "Los Angeles", result.Plan[1].WarehouseName)
		assert.Equal(t, 200, result.Plan[1].Units)
	})

	t.Run("Insufficient stock returns the partial plan", func(t *testing.T) {
		result, err := DetermineOptimalFulfillment(950, destination, warehouses)
		require.NoError(t, err)

		assert.False(t, result.SufficientStock)
		require.Len(t, result.Plan, 3)
		assert.Equal(t, 900, result.AllocatedUnits())
	})

	t.Run("Empty warehouses cannot cover a positive order", func(t *testing.T) {
		result, err := DetermineOptimalFulfillment(1, destination, nil)
		require.NoError(t, err)

		assert.False(t, result.SufficientStock)
		assert.Empty(t, result.Plan)
		assert.Zero(t, result.TotalShippingCost)
	})

	t.Run("Zero quantity is vacuously fulfillable", func(t *testing.T) {
		result, err := DetermineOptimalFulfillment(0, destination, warehouses)
		require.NoError(t, err)

		assert.True(t, result.SufficientStock)
		assert.Empty(t, result.Plan)
	})

	t.Run("Negative quantity is a contract violation", func(t *testing.T) {
		_, err := DetermineOptimalFulfillment(-1, destination, warehouses)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Zero-stock warehouses contribute no segment", func(t *testing.T) {
		empty := testWarehouse("Empty", 40.61, -74.11, 0)
		result, err := DetermineOptimalFulfillment(10, destination, []*Warehouse{empty, newYork})
		require.NoError(t, err)

		assert.True(t, result.SufficientStock)
		require.Len(t, result.Plan, 1)
		assert.Equal(t, "New York", result.Plan[0].WarehouseName)
	})

	t.Run("Total cost is the sum of segment costs", func(t *testing.T) {
		result, err := DetermineOptimalFulfillment(500, destination, warehouses)
		require.NoError(t, err)

		sum := 0.0
		for _, segment := range result.Plan {
			sum += segment.Cost
		}
		assert.InDelta(t, sum, result.TotalShippingCost, 1e-9)
	})

	t.Run("Equal-distance warehouses keep input order", func(t *testing.T) {
		twinA := testWarehouse("Alpha", 40.6, -74.1, 10)
		twinB := testWarehouse("Beta", 40.6, -74.1, 10)

		result, err := DetermineOptimalFulfillment(15, destination, []*Warehouse{twinA, twinB})
		require.NoError(t, err)

		require.Len(t, result.Plan, 2)
		assert.Equal(t, "Alpha", result.Plan[0].WarehouseName)
		assert.Equal(t, "Beta", result.Plan[1].WarehouseName)
	})
}
