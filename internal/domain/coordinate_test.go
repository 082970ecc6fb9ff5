package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewCoordinate tests coordinate range validation
func TestNewCoordinate(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
		expectErr bool
	}{
		{name: "Valid coordinate", latitude: 40.7128, longitude: -74.006},
		{name: "Latitude at north pole", latitude: 90, longitude: 0},
		{name: "Longitude at antimeridian", latitude: 0, longitude: -180},
		{name: "Latitude above range", latitude: 90.1, longitude: 0, expectErr: true},
		{name: "Latitude below range", latitude: -91, longitude: 0, expectErr: true},
		{name: "Longitude above range", latitude: 0, longitude: 180.5, expectErr: true},
		{name: "Longitude below range", latitude: 0, longitude: -181, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coordinate, err := NewCoordinate(tt.latitude, tt.longitude)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidCoordinate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.latitude, coordinate.Latitude())
			assert.Equal(t, tt.longitude, coordinate.Longitude())
		})
	}
}

// TestCoordinateDistanceKm tests the haversine great-circle distance
func TestCoordinateDistanceKm(t *testing.T) {
	losAngeles := MustNewCoordinate(34.0522, -118.2437)
	newYork := MustNewCoordinate(40.7128, -74.006)
	paris := MustNewCoordinate(48.8566, 2.3522)

	t.Run("Distance to self is zero", func(t *testing.T) {
		assert.Zero(t, losAngeles.DistanceKm(losAngeles))
	})

	t.Run("Distance is symmetric", func(t *testing.T) {
		assert.InDelta(t, losAngeles.DistanceKm(newYork), newYork.DistanceKm(losAngeles), 1e-9)
	})

	t.Run("Los Angeles to New York", func(t *testing.T) {
		// Great-circle distance is roughly 3936 km
		assert.InDelta(t, 3936, losAngeles.DistanceKm(newYork), 20)
	})

	t.Run("New York to Paris", func(t *testing.T) {
		// Roughly 5837 km
		assert.InDelta(t, 5837, newYork.DistanceKm(paris), 20)
	})

	t.Run("Antipodal points approach half the circumference", func(t *testing.T) {
		point := MustNewCoordinate(0, 0)
		antipode := MustNewCoordinate(0, 180)
		assert.InDelta(t, 20015, point.DistanceKm(antipode), 10)
	})
}
