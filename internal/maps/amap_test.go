package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/litetravel/internal/geo"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key")
	SetTestURL(c, srv.URL)
	return c
}

func TestSearch(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/text", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "橘子洲", q.Get("keywords"))
		assert.Equal(t, "长沙", q.Get("city"))
		assert.Equal(t, "5", q.Get("offset"))
		_, _ = w.Write([]byte(`{"status":"1","info":"OK","pois":[
			{"id":"B1","name":"橘子洲","location":"112.967,28.203","address":"岳麓区"},
			{"id":"B2","name":"No address","location":"112.95,28.19","address":[]},
			{"id":"B3","name":"Bad location","location":[]}
		]}`))
	})

	places, err := c.Search(context.Background(), "橘子洲", "长沙", nil)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, Place{ID: "B1", Name: "橘子洲", Location: geo.Location{Lat: 28.203, Lng: 112.967}, Address: "岳麓区"}, places[0])
	assert.Equal(t, "", places[1].Address)
}

func TestSearchDefaultKeywordAndBounds(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "景点", q.Get("keywords"))
		assert.Equal(t, "112.938814,28.228209", q.Get("location"))
		assert.Equal(t, "2000", q.Get("radius"))
		_, _ = w.Write([]byte(`{"status":"1","pois":[
			{"id":"near","name":"near","location":"112.940,28.229"},
			{"id":"far","name":"far","location":"113.5,28.9"}
		]}`))
	})

	places, err := c.Search(context.Background(), "", "", &Bounds{Center: DefaultCenter, Radius: 2000})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "near", places[0].ID)
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"api status", http.StatusOK, `{"status":"0","info":"INVALID_USER_KEY"}`},
		{"invalid json", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Search(context.Background(), "x", "", nil)
			assert.Error(t, err)
		})
	}
}

func TestSearchCitySortsAndFilters(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/config/district", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("subdistrict"))
		_, _ = w.Write([]byte(`{"status":"1","districts":[
			{"adcode":"430104","name":"岳麓区","center":"112.93,28.23","level":"district","districts":[]},
			{"adcode":"430100","name":"长沙市","center":"112.938814,28.228209","level":"city","districts":[
				{"adcode":"430100001","name":"某街道","center":"112.9,28.2","level":"street"}
			]},
			{"adcode":"430000","name":"湖南省","center":"112.98,28.19","level":"province"},
			{"adcode":"","name":"No center","center":[],"level":"city"}
		]}`))
	})

	areas, err := c.SearchCity(context.Background(), " 长沙 ")
	require.NoError(t, err)
	require.Len(t, areas, 3)
	assert.Equal(t, []string{"province", "city", "district"}, []string{areas[0].Level, areas[1].Level, areas[2].Level})
	assert.Equal(t, "430100", areas[1].ID)
}

func TestReverseGeocodeFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Address
	}{
		{
			name: "poi with address",
			body: `{"status":"1","regeocode":{"formatted_address":"湖南省长沙市岳麓区登高路","addressComponent":{"province":"湖南省","city":"长沙市"},"pois":[{"name":"岳麓山","address":"登高路58号"}],"aois":[]}}`,
			want: Address{Name: "岳麓山", Address: "登高路58号"},
		},
		{
			name: "poi without address uses trimmed formatted address",
			body: `{"status":"1","regeocode":{"formatted_address":"湖南省长沙市岳麓区登高路","addressComponent":{"province":"湖南省","city":"长沙市"},"pois":[{"name":"岳麓山","address":[]}]}}`,
			want: Address{Name: "岳麓山", Address: "岳麓区登高路"},
		},
		{
			name: "aoi",
			body: `{"status":"1","regeocode":{"formatted_address":"湖南省长沙市天心区坡子街","addressComponent":{"province":"湖南省","city":"长沙市"},"pois":[],"aois":[{"name":"坡子街"}]}}`,
			want: Address{Name: "坡子街", Address: "天心区坡子街"},
		},
		{
			name: "building",
			body: `{"status":"1","regeocode":{"formatted_address":"北京市朝阳区某路","addressComponent":{"province":"北京市","city":[],"building":{"name":"国贸大厦"}}}}`,
			want: Address{Name: "国贸大厦", Address: "朝阳区某路"},
		},
		{
			name: "formatted address only",
			body: `{"status":"1","regeocode":{"formatted_address":"湖南省长沙市芙蓉区","addressComponent":{"province":"湖南省","city":"长沙市","building":{"name":[]}}}}`,
			want: Address{Name: "芙蓉区", Address: "湖南省长沙市芙蓉区"},
		},
		{
			name: "nothing",
			body: `{"status":"1","regeocode":{"formatted_address":[],"addressComponent":{}}}`,
			want: Address{Name: "位置 (112.00000, 28.00000)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/geocode/regeo", r.URL.Path)
				assert.Equal(t, "112.000000,28.000000", r.URL.Query().Get("location"))
				_, _ = w.Write([]byte(tt.body))
			})
			got, err := c.ReverseGeocode(context.Background(), 112, 28)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestTrimRegion(t *testing.T) {
	assert.Equal(t, "岳麓区", trimRegion("湖南省长沙市岳麓区", "湖南省", "长沙市"))
	assert.Equal(t, "湘江新区岳麓区", trimRegion("湖南省湘江新区长沙市岳麓区", "湖南省", "长沙"))
	assert.Equal(t, "朝阳区", trimRegion("北京市朝阳区", "北京市", ""))
}

func TestRoute(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/direction/driving", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"1","route":{"paths":[{"distance":"5234","duration":"1190","steps":[
			{"polyline":"112.945,28.182;112.95,28.19"},
			{"polyline":"112.96,28.195;112.973,28.194"}
		]}]}}`))
	})

	r, err := c.Route(context.Background(), geo.Location{Lat: 28.182, Lng: 112.945}, geo.Location{Lat: 28.194, Lng: 112.973})
	require.NoError(t, err)
	assert.Len(t, r.Path, 4)
	assert.Equal(t, "5.2 km", r.DistanceText)
	assert.Equal(t, "20 min", r.DurationText)
}

func TestRouteEmptyPolylineUsesEndpoints(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"1","route":{"paths":[{"distance":"10","duration":"5","steps":[]}]}}`))
	})

	start := geo.Location{Lat: 1, Lng: 2}
	end := geo.Location{Lat: 3, Lng: 4}
	r, err := c.Route(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, []geo.Location{start, end}, r.Path)
	assert.Equal(t, "1 min", r.DurationText)
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("112.5, 28.25")
	require.NoError(t, err)
	assert.Equal(t, geo.Location{Lat: 28.25, Lng: 112.5}, loc)

	for _, bad := range []string{"", "112.5", "a,b", "1,b"} {
		_, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}
}
