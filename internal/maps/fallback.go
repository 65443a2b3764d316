package maps

import (
	"context"
	"log/slog"

	"github.com/evcraddock/litetravel/internal/geo"
)

// Fallback answers from primary and switches to secondary for any call
// that fails. Failures are logged, never returned, unless both fail.
type Fallback struct {
	primary   Provider
	secondary Provider
}

// NewFallback creates a fallback provider.
func NewFallback(primary, secondary Provider) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

// Search implements Provider.
func (f *Fallback) Search(ctx context.Context, keyword, city string, bounds *Bounds) ([]Place, error) {
	places, err := f.primary.Search(ctx, keyword, city, bounds)
	if err == nil {
		return places, nil
	}
	slog.Warn("map search failed, using fallback", "keyword", keyword, "city", city, "error", err)
	return f.secondary.Search(ctx, keyword, city, bounds)
}

// SearchCity implements Provider.
func (f *Fallback) SearchCity(ctx context.Context, keyword string) ([]Area, error) {
	areas, err := f.primary.SearchCity(ctx, keyword)
	if err == nil {
		return areas, nil
	}
	slog.Warn("city search failed, using fallback", "keyword", keyword, "error", err)
	return f.secondary.SearchCity(ctx, keyword)
}

// ReverseGeocode implements Provider.
func (f *Fallback) ReverseGeocode(ctx context.Context, lng, lat float64) (*Address, error) {
	addr, err := f.primary.ReverseGeocode(ctx, lng, lat)
	if err == nil {
		return addr, nil
	}
	slog.Warn("reverse geocode failed, using fallback", "lng", lng, "lat", lat, "error", err)
	return f.secondary.ReverseGeocode(ctx, lng, lat)
}

// Route implements Provider.
func (f *Fallback) Route(ctx context.Context, start, end geo.Location) (*Route, error) {
	r, err := f.primary.Route(ctx, start, end)
	if err == nil {
		return r, nil
	}
	slog.Warn("route failed, using fallback", "from", start.String(), "to", end.String(), "error", err)
	return f.secondary.Route(ctx, start, end)
}
