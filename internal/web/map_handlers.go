package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/evcraddock/litetravel/internal/maps"
)

const defaultSearchRadius = 5000

// handleMap routes the /api/map/* lookups.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()

	switch strings.TrimPrefix(r.URL.Path, "/api/map/") {
	case "search":
		s.apiMapSearch(w, r, q)
	case "cities":
		areas, err := s.maps.SearchCity(r.Context(), q.Get("keyword"))
		if err != nil {
			mapError(w, "city search", err)
			return
		}
		apiJSON(w, areas, http.StatusOK)
	case "regeo":
		lng, err1 := strconv.ParseFloat(q.Get("lng"), 64)
		lat, err2 := strconv.ParseFloat(q.Get("lat"), 64)
		if err1 != nil || err2 != nil {
			apiError(w, "lng and lat are required numbers", http.StatusBadRequest)
			return
		}
		addr, err := s.maps.ReverseGeocode(r.Context(), lng, lat)
		if err != nil {
			mapError(w, "reverse geocode", err)
			return
		}
		apiJSON(w, addr, http.StatusOK)
	case "route":
		from, err := maps.ParseLocation(q.Get("from"))
		if err != nil {
			apiError(w, "from: "+err.Error(), http.StatusBadRequest)
			return
		}
		to, err := maps.ParseLocation(q.Get("to"))
		if err != nil {
			apiError(w, "to: "+err.Error(), http.StatusBadRequest)
			return
		}
		route, err := s.maps.Route(r.Context(), from, to)
		if err != nil {
			mapError(w, "route", err)
			return
		}
		apiJSON(w, route, http.StatusOK)
	default:
		apiError(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) apiMapSearch(w http.ResponseWriter, r *http.Request, q url.Values) {
	bounds, err := parseBounds(q)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	places, err := s.maps.Search(r.Context(), q.Get("keyword"), q.Get("city"), bounds)
	if err != nil {
		mapError(w, "place search", err)
		return
	}
	apiJSON(w, places, http.StatusOK)
}

// parseBounds reads optional lat, lng and radius parameters. Bounds are
// only applied when both lat and lng are present.
func parseBounds(q url.Values) (*maps.Bounds, error) {
	if q.Get("lat") == "" || q.Get("lng") == "" {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return nil, fmt.Errorf("lat %q is not a number", q.Get("lat"))
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return nil, fmt.Errorf("lng %q is not a number", q.Get("lng"))
	}
	b := &maps.Bounds{Radius: defaultSearchRadius}
	b.Center.Lat, b.Center.Lng = lat, lng
	if v := q.Get("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			return nil, fmt.Errorf("radius %q is not a positive number", v)
		}
		b.Radius = radius
	}
	return b, nil
}

func mapError(w http.ResponseWriter, op string, err error) {
	slog.Error("map lookup failed", "op", op, "error", err)
	apiError(w, op+" failed", http.StatusBadGateway)
}
