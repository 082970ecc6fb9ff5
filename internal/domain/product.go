package domain

// The service sells a single product, the SCOS Station P1 Pro.
const (
	ProductName     = "SCOS Station P1 Pro"
	ProductPrice    = 150.0 // per unit, USD
	ProductWeightKg = 0.365 // per unit
)

// Shipping pricing parameters
const (
	// ShippingRatePerKgKm is the shipping cost per kilogram per kilometre
	ShippingRatePerKgKm = 0.01

	// MaxShippingCostPercentage caps shipping at this share of the
	// discounted order value; orders above the cap are invalid.
	MaxShippingCostPercentage = 15.0
)

// DiscountTier maps a minimum order quantity to a discount rate
type DiscountTier struct {
	MinQuantity int
	Rate        float64 // percentage, e.g. 20 for 20%
}

// DiscountTiers holds the volume discount schedule, highest tier first.
// The first tier whose MinQuantity the order reaches wins.
var DiscountTiers = []DiscountTier{
	{MinQuantity: 250, Rate: 20},
	{MinQuantity: 100, Rate: 15},
	{MinQuantity: 50, Rate: 10},
	{MinQuantity: 25, Rate: 5},
	{MinQuantity: 0, Rate: 0},
}
