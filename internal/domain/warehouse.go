package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Warehouse holds the current stock at a geographic location
type Warehouse struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Latitude  float64            `bson:"latitude" json:"latitude"`
	Longitude float64            `bson:"longitude" json:"longitude"`
	Stock     int                `bson:"stock" json:"stock"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Location returns the warehouse position as a Coordinate value object
func (w *Warehouse) Location() Coordinate {
	return MustNewCoordinate(w.Latitude, w.Longitude)
}

// HasStock reports whether the warehouse can supply at least units
func (w *Warehouse) HasStock(units int) bool {
	return w.Stock >= units
}
