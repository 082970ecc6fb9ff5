package events

// OrderConfirmedData is the payload of a scos.order.confirmed event
type OrderConfirmedData struct {
	OrderNumber     string               `json:"orderNumber"`
	Quantity        int                  `json:"quantity"`
	TotalPrice      float64              `json:"totalPrice"`
	DiscountApplied float64              `json:"discountApplied"`
	ShippingCost    float64              `json:"shippingCost"`
	Allocations     []AllocationData     `json:"allocations"`
	Destination     OrderDestinationData `json:"destination"`
}

// AllocationData describes units drawn from a single warehouse
type AllocationData struct {
	Warehouse  string  `json:"warehouse"`
	Units      int     `json:"units"`
	DistanceKm float64 `json:"distanceKm"`
}

// OrderDestinationData is the shipping destination of a confirmed order
type OrderDestinationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// InventoryAllocatedData is the payload of a scos.inventory.allocated event,
// emitted once per committed order so inventory consumers can mirror the
// stock decrements.
type InventoryAllocatedData struct {
	OrderNumber string           `json:"orderNumber"`
	Quantity    int              `json:"quantity"`
	Allocations []AllocationData `json:"allocations"`
}

// OrderRejectedData is the payload of a scos.order.rejected event
type OrderRejectedData struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}
