package maps

import (
	"context"
	"math"
	"strings"

	"github.com/evcraddock/litetravel/internal/geo"
)

// DefaultCenter is the mock provider's home city centre (Changsha).
var DefaultCenter = geo.Location{Lat: 28.228209, Lng: 112.938814}

// Mock is a deterministic provider used when no AMap key is configured
// and as the fallback when AMap fails.
type Mock struct{}

// NewMock creates a mock provider.
func NewMock() *Mock {
	return &Mock{}
}

var mockPlaces = []struct {
	id, name, address string
	dLng, dLat        float64
}{
	{"mock-1", "岳麓山风景区", "岳麓区登高路58号", -0.01, -0.03},
	{"mock-2", "橘子洲头", "岳麓区橘子洲景区", 0.0, -0.02},
	{"mock-3", "太平街历史文化街区", "天心区太平街", 0.01, 0.0},
	{"mock-4", "坡子街美食街", "天心区坡子街", 0.02, 0.01},
	{"mock-5", "IFS 国金中心", "芙蓉区黄兴中路188号", 0.015, -0.005},
}

// Search returns five places around the bounds centre, or Changsha.
// Names are prefixed with the keyword so results vary per query.
func (m *Mock) Search(_ context.Context, keyword, city string, bounds *Bounds) ([]Place, error) {
	key := strings.TrimSpace(keyword)
	if key == "" {
		key = city
	}
	if key == "" {
		key = "长沙"
	}
	base := DefaultCenter
	if bounds != nil {
		base = bounds.Center
	}

	places := make([]Place, 0, len(mockPlaces))
	for _, p := range mockPlaces {
		places = append(places, Place{
			ID:       p.id,
			Name:     key + "·" + p.name,
			Location: geo.Location{Lat: base.Lat + p.dLat, Lng: base.Lng + p.dLng},
			Address:  p.address,
		})
	}
	return places, nil
}

var mockCities = []Area{
	{ID: "430100", Name: "长沙市", Level: "city", Adcode: "430100", Location: geo.Location{Lat: 28.228209, Lng: 112.938814}, FullName: "湖南省长沙市"},
	{ID: "110000", Name: "北京市", Level: "city", Adcode: "110000", Location: geo.Location{Lat: 39.9042, Lng: 116.4074}, FullName: "北京市"},
	{ID: "310000", Name: "上海市", Level: "city", Adcode: "310000", Location: geo.Location{Lat: 31.2304, Lng: 121.4737}, FullName: "上海市"},
	{ID: "440100", Name: "广州市", Level: "city", Adcode: "440100", Location: geo.Location{Lat: 23.1291, Lng: 113.2644}, FullName: "广东省广州市"},
	{ID: "440300", Name: "深圳市", Level: "city", Adcode: "440300", Location: geo.Location{Lat: 22.5431, Lng: 114.0579}, FullName: "广东省深圳市"},
	{ID: "330100", Name: "杭州市", Level: "city", Adcode: "330100", Location: geo.Location{Lat: 30.2741, Lng: 120.1551}, FullName: "浙江省杭州市"},
	{ID: "320100", Name: "南京市", Level: "city", Adcode: "320100", Location: geo.Location{Lat: 32.0603, Lng: 118.7969}, FullName: "江苏省南京市"},
	{ID: "510100", Name: "成都市", Level: "city", Adcode: "510100", Location: geo.Location{Lat: 30.6624, Lng: 104.0633}, FullName: "四川省成都市"},
}

// SearchCity matches keyword against a fixed list of major cities. An
// empty keyword returns the first five.
func (m *Mock) SearchCity(_ context.Context, keyword string) ([]Area, error) {
	key := strings.TrimSpace(keyword)
	if key == "" {
		return append([]Area(nil), mockCities[:5]...), nil
	}
	lower := strings.ToLower(key)

	var out []Area
	for _, c := range mockCities {
		if strings.Contains(c.Name, key) || strings.Contains(c.FullName, key) || strings.Contains(strings.ToLower(c.Name), lower) {
			out = append(out, c)
		}
	}
	return out, nil
}

var mockAddresses = []Address{
	{Name: "万达广场", Address: "岳麓区银盆南路"},
	{Name: "IFS 国金中心", Address: "芙蓉区黄兴中路188号"},
	{Name: "岳麓山风景区", Address: "岳麓区登高路58号"},
	{Name: "橘子洲头", Address: "岳麓区橘子洲景区"},
	{Name: "坡子街美食街", Address: "天心区坡子街"},
}

// ReverseGeocode picks one of a few canned addresses from the coordinate,
// so the same point always gets the same answer.
func (m *Mock) ReverseGeocode(_ context.Context, lng, lat float64) (*Address, error) {
	i := int(math.Abs(math.Round(lng*lat*1000))) % len(mockAddresses)
	a := mockAddresses[i]
	return &a, nil
}

// Route returns a three-point path bowed slightly north, with distance
// scaled from the coordinate delta.
func (m *Mock) Route(_ context.Context, start, end geo.Location) (*Route, error) {
	mid := geo.Location{
		Lat: (start.Lat+end.Lat)/2 + 0.005,
		Lng: (start.Lng + end.Lng) / 2,
	}
	km := math.Hypot(start.Lat-end.Lat, start.Lng-end.Lng) * 100
	minutes := max(5, int(math.Round(km*3)))

	return &Route{
		Path:         []geo.Location{start, mid, end},
		DistanceText: geo.FormatDistance(km),
		DurationText: geo.FormatDuration(minutes),
	}, nil
}
