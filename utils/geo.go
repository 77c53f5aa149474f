package utils

import (
	"fmt"
)

// Coordinate represents a geographic coordinate with latitude and longitude
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ValidCoordinates reports whether both values are present and inside the
// latitude [-90, 90] and longitude [-180, 180] ranges.
func ValidCoordinates(lat, lng *float64) bool {
	if lat == nil || lng == nil {
		return false
	}
	return validateCoordinate(Coordinate{Lat: *lat, Lng: *lng}) == nil
}

// validateCoordinate validates a single coordinate
func validateCoordinate(coord Coordinate) error {
	// Latitude must be between -90 and 90
	if coord.Lat < -90 || coord.Lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", coord.Lat)
	}

	// Longitude must be between -180 and 180
	if coord.Lng < -180 || coord.Lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", coord.Lng)
	}

	return nil
}

// Centroid calculates the mean point of a set of coordinates, used to
// center the work-order map.
func Centroid(coordinates []Coordinate) Coordinate {
	if len(coordinates) == 0 {
		return Coordinate{}
	}

	var sumLat, sumLng float64
	for _, coord := range coordinates {
		sumLat += coord.Lat
		sumLng += coord.Lng
	}

	return Coordinate{
		Lat: sumLat / float64(len(coordinates)),
		Lng: sumLng / float64(len(coordinates)),
	}
}
