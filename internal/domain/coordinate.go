package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is returned when a latitude/longitude pair is out of range
var ErrInvalidCoordinate = errors.New("invalid coordinate value")

// earthRadiusKm is the mean radius of the Earth used for great-circle distances
const earthRadiusKm = 6371.0

// Coordinate represents an immutable geographic point value object
type Coordinate struct {
	latitude  float64
	longitude float64
}

// NewCoordinate creates a Coordinate value object with range validation
func NewCoordinate(latitude, longitude float64) (Coordinate, error) {
	if latitude < -90 || latitude > 90 {
		return Coordinate{}, fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidCoordinate)
	}
	if longitude < -180 || longitude > 180 {
		return Coordinate{}, fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidCoordinate)
	}
	return Coordinate{latitude: latitude, longitude: longitude}, nil
}

// MustNewCoordinate creates a Coordinate or panics if invalid (use for constants only)
func MustNewCoordinate(latitude, longitude float64) Coordinate {
	coordinate, err := NewCoordinate(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return coordinate
}

// Latitude returns the latitude in degrees
func (c Coordinate) Latitude() float64 {
	return c.latitude
}

// Longitude returns the longitude in degrees
func (c Coordinate) Longitude() float64 {
	return c.longitude
}

// Equals checks if two coordinates are equal
func (c Coordinate) Equals(other Coordinate) bool {
	return c.latitude == other.latitude && c.longitude == other.longitude
}

// String returns the string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%g, %g)", c.latitude, c.longitude)
}

// DistanceKm calculates the great-circle distance to another coordinate
// using the haversine formula.
func (c Coordinate) DistanceKm(other Coordinate) float64 {
	lat1 := degreesToRadians(c.latitude)
	lat2 := degreesToRadians(other.latitude)
	dLat := degreesToRadians(other.latitude - c.latitude)
	dLon := degreesToRadians(other.longitude - c.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	d := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * d
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
