// Package geo holds the location primitives shared by the trip model,
// the map adapters and the analysis sources.
package geo

import (
	"fmt"
	"math"
)

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String formats the location as "lng,lat", the order map APIs expect.
func (l Location) String() string {
	return fmt.Sprintf("%f,%f", l.Lng, l.Lat)
}

// CommuteMode is how a traveller gets from one stop to the next.
type CommuteMode string

const (
	CommuteTaxi    CommuteMode = "taxi"
	CommuteTransit CommuteMode = "transit"
)

// ValidCommuteMode returns true if m is a known commute mode.
func ValidCommuteMode(m string) bool {
	switch CommuteMode(m) {
	case CommuteTaxi, CommuteTransit:
		return true
	}
	return false
}

// Commute summarizes travel from one node to its positional successor.
type Commute struct {
	DistanceText string      `json:"distance_text"`
	DurationText string      `json:"duration_text"`
	Mode         CommuteMode `json:"mode"`
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two locations.
func DistanceKm(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// FormatDistance renders kilometres as "5.2 km".
func FormatDistance(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}

// FormatDuration renders minutes as "20 min".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%d min", minutes)
}
