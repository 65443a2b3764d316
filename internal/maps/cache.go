package maps

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/evcraddock/litetravel/internal/geo"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 10 * time.Minute
)

// Cached memoizes lookups of an underlying provider. Routes are not cached.
type Cached struct {
	next   Provider
	places *expirable.LRU[string, []Place]
	areas  *expirable.LRU[string, []Area]
	addrs  *expirable.LRU[string, Address]
}

// NewCached wraps next with LRU caches of the given size and TTL.
func NewCached(next Provider, size int, ttl time.Duration) *Cached {
	return &Cached{
		next:   next,
		places: expirable.NewLRU[string, []Place](size, nil, ttl),
		areas:  expirable.NewLRU[string, []Area](size, nil, ttl),
		addrs:  expirable.NewLRU[string, Address](size, nil, ttl),
	}
}

// Search implements Provider.
func (c *Cached) Search(ctx context.Context, keyword, city string, bounds *Bounds) ([]Place, error) {
	key := keyword + "|" + city
	if bounds != nil {
		key += fmt.Sprintf("|%s|%.0f", bounds.Center, bounds.Radius)
	}
	if v, ok := c.places.Get(key); ok {
		return append([]Place(nil), v...), nil
	}
	v, err := c.next.Search(ctx, keyword, city, bounds)
	if err != nil {
		return nil, err
	}
	c.places.Add(key, v)
	return append([]Place(nil), v...), nil
}

// SearchCity implements Provider.
func (c *Cached) SearchCity(ctx context.Context, keyword string) ([]Area, error) {
	if v, ok := c.areas.Get(keyword); ok {
		return append([]Area(nil), v...), nil
	}
	v, err := c.next.SearchCity(ctx, keyword)
	if err != nil {
		return nil, err
	}
	c.areas.Add(keyword, v)
	return append([]Area(nil), v...), nil
}

// ReverseGeocode implements Provider.
func (c *Cached) ReverseGeocode(ctx context.Context, lng, lat float64) (*Address, error) {
	key := geo.Location{Lat: lat, Lng: lng}.String()
	if v, ok := c.addrs.Get(key); ok {
		return &v, nil
	}
	v, err := c.next.ReverseGeocode(ctx, lng, lat)
	if err != nil {
		return nil, err
	}
	c.addrs.Add(key, *v)
	out := *v
	return &out, nil
}

// Route implements Provider.
func (c *Cached) Route(ctx context.Context, start, end geo.Location) (*Route, error) {
	return c.next.Route(ctx, start, end)
}
