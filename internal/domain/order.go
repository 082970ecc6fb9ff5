package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rejection reasons. These are stable strings that callers and tests match
// on; changing them is a breaking API change.
const (
	ReasonInvalidQuantity   = "Quantity must be greater than 0"
	ReasonInsufficientStock = "Insufficient stock across all warehouses"
)

// ReasonShippingCapExceeded returns the rejection reason for quotes whose
// shipping cost is over the allowed share of the order value.
func ReasonShippingCapExceeded() string {
	return fmt.Sprintf("Shipping cost exceeds %g%% of the order value", MaxShippingCostPercentage)
}

// Status represents order lifecycle status
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	default:
		return false
	}
}

// OrderQuote is the result of verifying an order. Ephemeral; it is never
// persisted unless submission succeeds.
type OrderQuote struct {
	Quantity           int
	Destination        Coordinate
	TotalPrice         float64 // base price before discount
	DiscountPercentage float64
	DiscountedPrice    float64
	ShippingCost       float64
	IsValid            bool
	InvalidReason      string

	// FulfillmentPlan is populated only when IsValid is true
	FulfillmentPlan []FulfillmentSegment
}

// OrderSubmission is a quote plus the committed order number. OrderNumber
// is empty when the quote was invalid and nothing was persisted.
type OrderSubmission struct {
	OrderQuote
	OrderNumber string
}

// Order is the persisted record of a confirmed submission
type Order struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrderNumber        string               `bson:"orderNumber" json:"orderNumber"`
	CustomerLatitude   float64              `bson:"customerLatitude" json:"customerLatitude"`
	CustomerLongitude  float64              `bson:"customerLongitude" json:"customerLongitude"`
	QuantityOrdered    int                  `bson:"quantityOrdered" json:"quantityOrdered"`
	BasePrice          float64              `bson:"basePrice" json:"basePrice"`
	DiscountPercentage float64              `bson:"discountPercentage" json:"discountPercentage"`
	PriceAfterDiscount float64              `bson:"priceAfterDiscount" json:"priceAfterDiscount"`
	TotalShippingCost  float64              `bson:"totalShippingCost" json:"totalShippingCost"`
	Status             Status               `bson:"status" json:"status"`
	Fulfillments       []FulfillmentSegment `bson:"fulfillments" json:"fulfillments"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// NewOrderFromQuote builds the persistent record for a valid quote
func NewOrderFromQuote(quote OrderQuote, orderNumber string) *Order {
	now := time.Now().UTC()
	return &Order{
		OrderNumber:        orderNumber,
		CustomerLatitude:   quote.Destination.Latitude(),
		CustomerLongitude:  quote.Destination.Longitude(),
		QuantityOrdered:    quote.Quantity,
		BasePrice:          quote.TotalPrice,
		DiscountPercentage: quote.DiscountPercentage,
		PriceAfterDiscount: quote.DiscountedPrice,
		TotalShippingCost:  quote.ShippingCost,
		Status:             StatusConfirmed,
		Fulfillments:       quote.FulfillmentPlan,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// NewOrderNumber generates a unique order number
func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
