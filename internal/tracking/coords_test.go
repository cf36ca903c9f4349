package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCityCoordinates(t *testing.T) {
	assert.Equal(t, Coordinate{-6.2088, 106.8456}, CityCoordinates("Jakarta"))
	assert.Equal(t, Coordinate{-7.2575, 112.7521}, CityCoordinates("surabaya"))

	// substring match handles verbose address forms
	assert.Equal(t, Coordinate{-6.9175, 107.6191}, CityCoordinates("Kota Bandung"))
	assert.Equal(t, Coordinate{-7.7955, 110.3695}, CityCoordinates("YOGYAKARTA, DIY"))
}

func TestCityCoordinatesFallback(t *testing.T) {
	assert.Equal(t, defaultCoordinate, CityCoordinates("Atlantis"))
	assert.Equal(t, defaultCoordinate, CityCoordinates(""))
}

func TestDriverPosition(t *testing.T) {
	dest := Coordinate{-6.2088, 106.8456}
	pos := DriverPosition(dest)

	assert.InDelta(t, dest.Lat-0.05, pos.Lat, 1e-9)
	assert.InDelta(t, dest.Lng-0.05, pos.Lng, 1e-9)
	assert.Equal(t, "Driver BookPort", pos.Name)
	assert.Equal(t, "Motor", pos.Vehicle)
	assert.False(t, pos.Timestamp.IsZero())
}
