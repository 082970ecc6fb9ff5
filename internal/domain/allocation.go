package domain

import (
	"sort"
)

// FulfillmentSegment is a draw of units from a single warehouse
type FulfillmentSegment struct {
	WarehouseID   string  `bson:"warehouseId" json:"warehouseId"`
	WarehouseName string  `bson:"warehouseName" json:"warehouseName"`
	Units         int     `bson:"units" json:"units"`
	Cost          float64 `bson:"cost" json:"cost"`
	Distance      float64 `bson:"distance" json:"distance"`
}

// FulfillmentResult is the outcome of allocating an order across warehouses.
// When stock is insufficient the partial plan built from available stock is
// still returned so callers can inspect the shortfall.
type FulfillmentResult struct {
	Plan              []FulfillmentSegment
	TotalShippingCost float64
	SufficientStock   bool
}

// AllocatedUnits returns the total units covered by the plan
func (r FulfillmentResult) AllocatedUnits() int {
	total := 0
	for _, segment := range r.Plan {
		total += segment.Units
	}
	return total
}

type warehouseAtDistance struct {
	warehouse *Warehouse
	distance  float64
}

// DetermineOptimalFulfillment allocates quantity units across warehouses
// nearest-first. Greedy allocation is cost-optimal here because warehouses
// are fully substitutable and segment cost is linear in distance times
// weight: moving any unit from a farther warehouse to a nearer one with
// spare stock can only lower the total. Equal-distance warehouses keep
// their input order, which the snapshot provider fixes by name.
func DetermineOptimalFulfillment(quantity int, destination Coordinate, warehouses []*Warehouse) (FulfillmentResult, error) {
	if quantity < 0 {
		return FulfillmentResult{}, ErrInvalidQuantity
	}
	if quantity == 0 || len(warehouses) == 0 {
		return FulfillmentResult{
			Plan:            []FulfillmentSegment{},
			SufficientStock: quantity == 0,
		}, nil
	}

	candidates := make([]warehouseAtDistance, len(warehouses))
	for i, warehouse := range warehouses {
		candidates[i] = warehouseAtDistance{
			warehouse: warehouse,
			distance:  destination.DistanceKm(warehouse.Location()),
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	plan := make([]FulfillmentSegment, 0, len(candidates))
	remaining := quantity
	totalCost := 0.0

	for _, candidate := range candidates {
		if remaining <= 0 {
			break
		}

		units := candidate.warehouse.Stock
		if units > remaining {
			units = remaining
		}
		if units <= 0 {
			continue
		}

		cost, err := SegmentShippingCost(candidate.distance, float64(units)*ProductWeightKg)
		if err != nil {
			return FulfillmentResult{}, err
		}

		plan = append(plan, FulfillmentSegment{
			WarehouseID:   candidate.warehouse.ID.Hex(),
			WarehouseName: candidate.warehouse.Name,
			Units:         units,
			Cost:          cost,
			Distance:      candidate.distance,
		})
		totalCost += cost
		remaining -= units
	}

	return FulfillmentResult{
		Plan:              plan,
		TotalShippingCost: totalCost,
		SufficientStock:   remaining == 0,
	}, nil
}
