package domain

import (
	"errors"
)

// Pricing errors
var (
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrNegativeInput   = errors.New("distance and weight must not be negative")
)

// DiscountRateFor returns the volume discount percentage for a quantity
func DiscountRateFor(quantity int) float64 {
	for _, tier := range DiscountTiers {
		if quantity >= tier.MinQuantity {
			return tier.Rate
		}
	}
	return 0
}

// Pricing is the discounted price for a quantity of units.
// Prices stay in natural floating-point precision; nothing downstream may
// assume integral cents.
type Pricing struct {
	Quantity           int
	BasePrice          float64
	DiscountPercentage float64
	DiscountedPrice    float64
}

// PriceOrder computes the discounted total for a quantity of units
func PriceOrder(quantity int) (Pricing, error) {
	if quantity <= 0 {
		return Pricing{}, ErrInvalidQuantity
	}

	pct := DiscountRateFor(quantity)
	basePrice := float64(quantity) * ProductPrice

	return Pricing{
		Quantity:           quantity,
		BasePrice:          basePrice,
		DiscountPercentage: pct,
		DiscountedPrice:    basePrice * (1 - pct/100),
	}, nil
}

// SegmentShippingCost prices moving weightKg of goods over distanceKm
func SegmentShippingCost(distanceKm, weightKg float64) (float64, error) {
	if distanceKm < 0 || weightKg < 0 {
		return 0, ErrNegativeInput
	}
	return distanceKm * weightKg * ShippingRatePerKgKm, nil
}

// MaxAllowedShippingCost returns the shipping budget for a discounted order value
func MaxAllowedShippingCost(discountedPrice float64) float64 {
	return discountedPrice * MaxShippingCostPercentage / 100
}
