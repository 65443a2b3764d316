package maps

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/evcraddock/litetravel/internal/geo"
)

const (
	defaultBaseURL = "https://restapi.amap.com/v3"
	defaultKeyword = "景点"
)

var levelOrder = map[string]int{
	"country":  0,
	"province": 1,
	"city":     2,
	"district": 3,
}

// Client talks to the AMap web service API.
type Client struct {
	httpClient *http.Client
	key        string

	// Overridable for testing.
	baseURL string
}

// NewClient creates an AMap client with the given web service key.
func NewClient(key string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		key:        key,
		baseURL:    defaultBaseURL,
	}
}

// flexString decodes AMap fields that are a string when set and an empty
// array when not.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = ""
	return nil
}

type envelope struct {
	Status string `json:"status"`
	Info   string `json:"info"`
}

func (e envelope) check() error {
	if e.Status != "1" {
		return fmt.Errorf("amap error: %s", e.Info)
	}
	return nil
}

type placeResponse struct {
	envelope
	Pois []struct {
		ID       flexString `json:"id"`
		Name     flexString `json:"name"`
		Location flexString `json:"location"`
		Address  flexString `json:"address"`
	} `json:"pois"`
}

// Search finds points of interest matching keyword.
func (c *Client) Search(ctx context.Context, keyword, city string, bounds *Bounds) ([]Place, error) {
	if strings.TrimSpace(keyword) == "" {
		keyword = defaultKeyword
	}
	params := url.Values{
		"keywords": {keyword},
		"city":     {city},
		"offset":   {"5"},
		"page":     {"1"},
		"output":   {"json"},
	}
	if bounds != nil {
		params.Set("location", bounds.Center.String())
		params.Set("radius", strconv.Itoa(int(bounds.Radius)))
	}

	var resp placeResponse
	if err := c.get(ctx, "/place/text", params, &resp); err != nil {
		return nil, fmt.Errorf("place search: %w", err)
	}

	places := make([]Place, 0, len(resp.Pois))
	for i, p := range resp.Pois {
		loc, err := ParseLocation(string(p.Location))
		if err != nil {
			continue
		}
		id := string(p.ID)
		if id == "" {
			id = fmt.Sprintf("amap-%d", i)
		}
		place := Place{ID: id, Name: string(p.Name), Location: loc, Address: string(p.Address)}
		if bounds != nil && !bounds.Contains(place.Location) {
			continue
		}
		places = append(places, place)
	}
	return places, nil
}

type district struct {
	Adcode    flexString `json:"adcode"`
	Name      string     `json:"name"`
	Center    flexString `json:"center"`
	Level     string     `json:"level"`
	Districts []district `json:"districts"`
}

type districtResponse struct {
	envelope
	Districts []district `json:"districts"`
}

// SearchCity finds administrative areas at district level or above,
// ordered country, province, city, district and then by name.
func (c *Client) SearchCity(ctx context.Context, keyword string) ([]Area, error) {
	params := url.Values{
		"keywords":    {strings.TrimSpace(keyword)},
		"subdistrict": {"0"},
		"extensions":  {"base"},
		"output":      {"json"},
	}

	var resp districtResponse
	if err := c.get(ctx, "/config/district", params, &resp); err != nil {
		return nil, fmt.Errorf("district search: %w", err)
	}

	var areas []Area
	var walk func(ds []district)
	walk = func(ds []district) {
		for _, d := range ds {
			if _, ok := levelOrder[d.Level]; ok {
				if loc, err := ParseLocation(string(d.Center)); err == nil {
					id := string(d.Adcode)
					if id == "" {
						id = fmt.Sprintf("city-%d", len(areas))
					}
					areas = append(areas, Area{
						ID:       id,
						Name:     d.Name,
						Level:    d.Level,
						Adcode:   string(d.Adcode),
						Location: loc,
						FullName: d.Name,
					})
				}
			}
			walk(d.Districts)
		}
	}
	walk(resp.Districts)

	SortAreas(areas)
	return areas, nil
}

// SortAreas orders areas by administrative level, then name.
func SortAreas(areas []Area) {
	slices.SortStableFunc(areas, func(a, b Area) int {
		if c := cmp.Compare(levelRank(a.Level), levelRank(b.Level)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

func levelRank(level string) int {
	if r, ok := levelOrder[level]; ok {
		return r
	}
	return math.MaxInt
}

type regeoResponse struct {
	envelope
	Regeocode *struct {
		FormattedAddress flexString `json:"formatted_address"`
		AddressComponent struct {
			Province flexString `json:"province"`
			City     flexString `json:"city"`
			Building struct {
				Name flexString `json:"name"`
			} `json:"building"`
		} `json:"addressComponent"`
		Pois []struct {
			Name    flexString `json:"name"`
			Address flexString `json:"address"`
		} `json:"pois"`
		Aois []struct {
			Name flexString `json:"name"`
		} `json:"aois"`
	} `json:"regeocode"`
}

// ReverseGeocode names the place at a coordinate. The name comes from the
// nearest POI, then the AOI, then the building, then the formatted address.
func (c *Client) ReverseGeocode(ctx context.Context, lng, lat float64) (*Address, error) {
	params := url.Values{
		"location":   {geo.Location{Lat: lat, Lng: lng}.String()},
		"extensions": {"all"},
		"radius":     {"1000"},
		"batch":      {"false"},
		"roadlevel":  {"0"},
	}

	var resp regeoResponse
	if err := c.get(ctx, "/geocode/regeo", params, &resp); err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}
	if resp.Regeocode == nil {
		return nil, fmt.Errorf("reverse geocode: empty response")
	}

	rg := resp.Regeocode
	full := string(rg.FormattedAddress)
	short := trimRegion(full, string(rg.AddressComponent.Province), string(rg.AddressComponent.City))

	switch {
	case len(rg.Pois) > 0 && rg.Pois[0].Name != "":
		addr := string(rg.Pois[0].Address)
		if addr == "" {
			addr = short
		}
		return &Address{Name: string(rg.Pois[0].Name), Address: addr}, nil
	case len(rg.Aois) > 0 && rg.Aois[0].Name != "":
		return &Address{Name: string(rg.Aois[0].Name), Address: short}, nil
	case rg.AddressComponent.Building.Name != "":
		return &Address{Name: string(rg.AddressComponent.Building.Name), Address: short}, nil
	case full != "":
		name := short
		if name == "" {
			name = coordinateName(lng, lat)
		}
		return &Address{Name: name, Address: full}, nil
	}
	return &Address{Name: coordinateName(lng, lat)}, nil
}

// trimRegion drops the leading province and city from a formatted address.
func trimRegion(address, province, city string) string {
	out := address
	if province != "" {
		out = strings.TrimSpace(strings.TrimPrefix(out, province))
	}
	if city != "" {
		if strings.HasPrefix(out, city) {
			out = strings.TrimSpace(strings.TrimPrefix(out, city))
		} else if strings.Contains(out, city+"市") {
			out = strings.TrimSpace(strings.Replace(out, city+"市", "", 1))
		}
	}
	return out
}

func coordinateName(lng, lat float64) string {
	return fmt.Sprintf("位置 (%.5f, %.5f)", lng, lat)
}

type drivingResponse struct {
	envelope
	Route struct {
		Paths []struct {
			Distance flexString `json:"distance"`
			Duration flexString `json:"duration"`
			Steps    []struct {
				Polyline flexString `json:"polyline"`
			} `json:"steps"`
		} `json:"paths"`
	} `json:"route"`
}

// Route plans a driving route from start to end.
func (c *Client) Route(ctx context.Context, start, end geo.Location) (*Route, error) {
	params := url.Values{
		"origin":      {start.String()},
		"destination": {end.String()},
		"extensions":  {"base"},
		"strategy":    {"0"},
	}

	var resp drivingResponse
	if err := c.get(ctx, "/direction/driving", params, &resp); err != nil {
		return nil, fmt.Errorf("driving route: %w", err)
	}
	if len(resp.Route.Paths) == 0 {
		return nil, fmt.Errorf("driving route: no paths")
	}

	p := resp.Route.Paths[0]
	var path []geo.Location
	for _, step := range p.Steps {
		for _, pair := range strings.Split(string(step.Polyline), ";") {
			if loc, err := ParseLocation(pair); err == nil {
				path = append(path, loc)
			}
		}
	}
	if len(path) == 0 {
		path = []geo.Location{start, end}
	}

	meters, _ := strconv.ParseFloat(string(p.Distance), 64)
	seconds, _ := strconv.ParseFloat(string(p.Duration), 64)

	return &Route{
		Path:         path,
		DistanceText: geo.FormatDistance(meters / 1000),
		DurationText: geo.FormatDuration(max(int(math.Round(seconds/60)), 1)),
	}, nil
}

// get performs a GET against the AMap API and decodes the JSON response.
// A non-"1" status in the body is reported as an error.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{ check() error }) (err error) {
	params.Set("key", c.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return out.check()
}
