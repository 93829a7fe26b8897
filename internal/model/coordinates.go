package model

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinates is returned when a pair can not be interpreted as a
// latitude/longitude, even after swapping.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// NormalizeCoordinates validates lat/lon ranges. Users often enter the pair
// in the wrong order, so an out of range pair that is valid once swapped is
// swapped and reported through the second return value.
func NormalizeCoordinates(lat, lon float64) (LocationQuery, bool, error) {
	if validLatitude(lat) && validLongitude(lon) {
		return LocationQuery{Latitude: lat, Longitude: lon}, false, nil
	}

	if validLatitude(lon) && validLongitude(lat) {
		return LocationQuery{Latitude: lon, Longitude: lat}, true, nil
	}

	return LocationQuery{}, false, fmt.Errorf("%w: lat=%v, lon=%v", ErrInvalidCoordinates, lat, lon)
}

// Normalize returns q with coordinates validated and, when needed, swapped.
func (q LocationQuery) Normalize() (LocationQuery, bool, error) {
	norm, swapped, err := NormalizeCoordinates(q.Latitude, q.Longitude)
	if err != nil {
		return LocationQuery{}, false, err
	}

	norm.Year = q.Year
	return norm, swapped, nil
}

func validLatitude(v float64) bool {
	return v >= -90 && v <= 90
}

func validLongitude(v float64) bool {
	return v >= -180 && v <= 180
}
