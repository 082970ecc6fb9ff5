package application

import "time"

// FulfillmentSegmentDTO represents one warehouse draw in responses
type FulfillmentSegmentDTO struct {
	WarehouseID   string  `json:"warehouseId"`
	WarehouseName string  `json:"warehouseName"`
	Units         int     `json:"units"`
	Cost          float64 `json:"cost"`
	Distance      float64 `json:"distance"`
}

// OrderQuoteDTO represents a verification result in responses.
// FulfillmentPlan is present only for valid quotes.
type OrderQuoteDTO struct {
	TotalPrice         float64                 `json:"totalPrice"`
	DiscountPercentage float64                 `json:"discountPercentage"`
	DiscountedPrice    float64                 `json:"discountedPrice"`
	ShippingCost       float64                 `json:"shippingCost"`
	IsValid            bool                    `json:"isValid"`
	FulfillmentPlan    []FulfillmentSegmentDTO `json:"fulfillmentPlan,omitempty"`
	InvalidReason      string                  `json:"invalidReason,omitempty"`
}

// OrderSubmissionDTO is a quote plus its order number. OrderNumber is
// empty when the submission was rejected.
type OrderSubmissionDTO struct {
	OrderQuoteDTO
	OrderNumber string `json:"orderNumber"`
}

// OrderDTO represents a persisted order in responses
type OrderDTO struct {
	OrderNumber        string                  `json:"orderNumber"`
	QuantityOrdered    int                     `json:"quantityOrdered"`
	CustomerLatitude   float64                 `json:"customerLatitude"`
	CustomerLongitude  float64                 `json:"customerLongitude"`
	BasePrice          float64                 `json:"basePrice"`
	DiscountPercentage float64                 `json:"discountPercentage"`
	PriceAfterDiscount float64                 `json:"priceAfterDiscount"`
	TotalShippingCost  float64                 `json:"totalShippingCost"`
	Status             string                  `json:"status"`
	Fulfillments       []FulfillmentSegmentDTO `json:"fulfillments"`
	CreatedAt          time.Time               `json:"createdAt"`
}

// WarehouseDTO represents a warehouse with current stock in responses
type WarehouseDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Stock     int     `json:"stock"`
}
