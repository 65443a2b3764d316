// Package maps looks up places, administrative areas, addresses and
// driving routes. AMap is used when a key is configured; otherwise, and
// whenever AMap fails, a deterministic mock answers instead.
package maps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/evcraddock/litetravel/internal/geo"
)

// Place is a point-of-interest search hit.
type Place struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Location geo.Location `json:"location"`
	Address  string       `json:"address,omitempty"`
}

// Bounds restricts a search to a circle around Center. Radius is in metres.
type Bounds struct {
	Center geo.Location `json:"center"`
	Radius float64      `json:"radius"`
}

// Contains returns true if loc lies within the bounds.
func (b Bounds) Contains(loc geo.Location) bool {
	return geo.DistanceKm(b.Center, loc)*1000 <= b.Radius
}

// Area is an administrative region (country, province, city or district).
type Area struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Level    string       `json:"level"`
	Adcode   string       `json:"adcode"`
	Location geo.Location `json:"location"`
	FullName string       `json:"full_name,omitempty"`
}

// Address is a human-readable name for a coordinate.
type Address struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Route is a driving path between two points.
type Route struct {
	Path         []geo.Location `json:"path"`
	DistanceText string         `json:"distance_text"`
	DurationText string         `json:"duration_text"`
}

// Commute converts the route into the trip model's commute summary.
func (r Route) Commute(mode geo.CommuteMode) *geo.Commute {
	return &geo.Commute{DistanceText: r.DistanceText, DurationText: r.DurationText, Mode: mode}
}

// Provider is implemented by every map backend.
type Provider interface {
	Search(ctx context.Context, keyword, city string, bounds *Bounds) ([]Place, error)
	SearchCity(ctx context.Context, keyword string) ([]Area, error)
	ReverseGeocode(ctx context.Context, lng, lat float64) (*Address, error)
	Route(ctx context.Context, start, end geo.Location) (*Route, error)
}

// New returns the provider for the given AMap key: the mock when key is
// empty, otherwise an AMap client that falls back to the mock per call.
// Only AMap answers are cached.
func New(key string) Provider {
	mock := NewMock()
	if key == "" {
		return mock
	}
	return withFallback(NewClient(key), mock)
}

func withFallback(primary, fallback Provider) Provider {
	return NewFallback(NewCached(primary, defaultCacheSize, defaultCacheTTL), fallback)
}

// ParseLocation parses "lng,lat".
func ParseLocation(s string) (geo.Location, error) {
	lngStr, latStr, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Location{}, fmt.Errorf("location %q is not lng,lat", s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return geo.Location{}, fmt.Errorf("parsing longitude %q: %w", lngStr, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geo.Location{}, fmt.Errorf("parsing latitude %q: %w", latStr, err)
	}
	return geo.Location{Lat: lat, Lng: lng}, nil
}
