// Package client provides an HTTP client for the LiteTravel REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/evcraddock/litetravel/internal/analyze"
	"github.com/evcraddock/litetravel/internal/auth"
	"github.com/evcraddock/litetravel/internal/config"
	"github.com/evcraddock/litetravel/internal/favorite"
	"github.com/evcraddock/litetravel/internal/geo"
	"github.com/evcraddock/litetravel/internal/maps"
	"github.com/evcraddock/litetravel/internal/plan"
	"github.com/evcraddock/litetravel/internal/trip"
)

const defaultTimeout = 30 * time.Second

// Sequencer slots used by the client's own calls.
const (
	SlotSearch  = "search"
	SlotAnalyze = "analyze"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status behind err, or 0 if err did not come
// from a server response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client is an HTTP client for the LiteTravel API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	seq        *Sequencer

	cfgMu sync.Mutex
	cfg   *config.PublicConfig
}

// New creates a new API client. token may be empty for public routes.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		seq:        NewSequencer(),
	}
}

// Sequencer returns the client's request sequencer.
func (c *Client) Sequencer() *Sequencer {
	return c.seq
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        *auth.User `json:"user"`
}

// Health reports the server's health status.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// Config returns the server's public configuration. The first successful
// answer is kept for the life of the client.
func (c *Client) Config(ctx context.Context) (*config.PublicConfig, error) {
	c.cfgMu.Lock()
	defer c.cfgMu.Unlock()
	if c.cfg != nil {
		return c.cfg, nil
	}

	var cfg config.PublicConfig
	if err := c.get(ctx, "/api/config", &cfg); err != nil {
		return nil, err
	}
	c.cfg = &cfg
	return c.cfg, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) (*TokenResponse, error) {
	var resp TokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.send(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var resp TokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.send(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the client's token.
func (c *Client) Logout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Me returns the logged-in user.
func (c *Client) Me(ctx context.Context) (*auth.User, error) {
	var u auth.User
	if err := c.get(ctx, "/api/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListPlans returns the user's saved plans.
func (c *Client) ListPlans(ctx context.Context) ([]plan.Summary, error) {
	var plans []plan.Summary
	if err := c.get(ctx, "/api/plans", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetPlan returns one plan with its content.
func (c *Client) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	var p plan.Plan
	if err := c.get(ctx, "/api/plans/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlan uploads a new plan.
func (c *Client) CreatePlan(ctx context.Context, in plan.Input) (*plan.Plan, error) {
	var p plan.Plan
	if err := c.send(ctx, http.MethodPost, "/api/plans", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePlan applies a partial update.
func (c *Client) UpdatePlan(ctx context.Context, id string, u plan.Update) (*plan.Plan, error) {
	var p plan.Plan
	if err := c.send(ctx, http.MethodPut, "/api/plans/"+url.PathEscape(id), u, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePlan removes a plan.
func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/plans/"+url.PathEscape(id), nil, nil)
}

// ListFavorites returns the user's favorites, optionally of one type.
func (c *Client) ListFavorites(ctx context.Context, typ trip.NodeType) ([]*favorite.Favorite, error) {
	path := "/api/favorites"
	if typ != "" {
		path += "?type=" + url.QueryEscape(string(typ))
	}
	var favs []*favorite.Favorite
	if err := c.get(ctx, path, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

// GroupedFavorites returns the user's favorites split by type.
func (c *Client) GroupedFavorites(ctx context.Context) (*favorite.Grouped, error) {
	var g favorite.Grouped
	if err := c.get(ctx, "/api/favorites/grouped", &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// AddFavorite saves a place.
func (c *Client) AddFavorite(ctx context.Context, in favorite.Input) (*favorite.Favorite, error) {
	var f favorite.Favorite
	if err := c.send(ctx, http.MethodPost, "/api/favorites", in, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFavorite removes a saved place.
func (c *Client) DeleteFavorite(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/favorites/"+url.PathEscape(id), nil, nil)
}

// TextRequest is the body of POST /api/analyze/text.
type TextRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags,omitempty"`
	Location    string   `json:"location,omitempty"`
	City        string   `json:"city,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
}

// TextResponse is the reply to POST /api/analyze/text.
type TextResponse struct {
	Success bool            `json:"success"`
	Data    *analyze.Result `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// SearchRequest is the body of POST /api/analyze/search.
type SearchRequest struct {
	Keyword  string `json:"keyword"`
	City     string `json:"city,omitempty"`
	Source   string `json:"source,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Template string `json:"template,omitempty"`
}

// SearchResponse is the reply to POST /api/analyze/search.
type SearchResponse struct {
	Success bool           `json:"success"`
	Data    *analyze.Batch `json:"data"`
}

// TemplatesResponse lists the analysis templates.
type TemplatesResponse struct {
	Templates    []string          `json:"templates"`
	Descriptions map[string]string `json:"descriptions"`
}

// AnalyzeText analyzes a single piece of text.
func (c *Client) AnalyzeText(ctx context.Context, req TextRequest) (*TextResponse, error) {
	var resp TextResponse
	if err := c.send(ctx, http.MethodPost, "/api/analyze/text", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzeSearch fetches and analyzes notes for a keyword. If another
// AnalyzeSearch is issued before this one returns, this one fails with
// ErrSuperseded.
func (c *Client) AnalyzeSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	token := c.seq.Next(SlotAnalyze)
	var resp SearchResponse
	if err := c.send(ctx, http.MethodPost, "/api/analyze/search", req, &resp); err != nil {
		return nil, err
	}
	if !c.seq.Current(SlotAnalyze, token) {
		return nil, ErrSuperseded
	}
	return &resp, nil
}

// AnalyzeTemplates lists the analysis templates.
func (c *Client) AnalyzeTemplates(ctx context.Context) (*TemplatesResponse, error) {
	var resp TemplatesResponse
	if err := c.get(ctx, "/api/analyze/templates", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzeStatus reports the server's analysis provider.
func (c *Client) AnalyzeStatus(ctx context.Context) (*analyze.Status, error) {
	var s analyze.Status
	if err := c.get(ctx, "/api/analyze/status", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SearchPlaces looks up points of interest. bounds may be nil. A newer
// SearchPlaces call makes this one fail with ErrSuperseded.
func (c *Client) SearchPlaces(ctx context.Context, keyword, city string, bounds *maps.Bounds) ([]maps.Place, error) {
	token := c.seq.Next(SlotSearch)

	q := url.Values{}
	q.Set("keyword", keyword)
	if city != "" {
		q.Set("city", city)
	}
	if bounds != nil {
		q.Set("lat", formatFloat(bounds.Center.Lat))
		q.Set("lng", formatFloat(bounds.Center.Lng))
		q.Set("radius", formatFloat(bounds.Radius))
	}

	var places []maps.Place
	if err := c.get(ctx, "/api/map/search?"+q.Encode(), &places); err != nil {
		return nil, err
	}
	if !c.seq.Current(SlotSearch, token) {
		return nil, ErrSuperseded
	}
	return places, nil
}

// SearchCities looks up administrative areas by name.
func (c *Client) SearchCities(ctx context.Context, keyword string) ([]maps.Area, error) {
	var areas []maps.Area
	if err := c.get(ctx, "/api/map/cities?keyword="+url.QueryEscape(keyword), &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// ReverseGeocode names a coordinate.
func (c *Client) ReverseGeocode(ctx context.Context, lng, lat float64) (*maps.Address, error) {
	q := url.Values{"lng": {formatFloat(lng)}, "lat": {formatFloat(lat)}}
	var addr maps.Address
	if err := c.get(ctx, "/api/map/regeo?"+q.Encode(), &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

// Route returns the driving route between two points.
func (c *Client) Route(ctx context.Context, from, to geo.Location) (*maps.Route, error) {
	q := url.Values{"from": {lngLat(from)}, "to": {lngLat(to)}}
	var r maps.Route
	if err := c.get(ctx, "/api/map/route?"+q.Encode(), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func lngLat(l geo.Location) string {
	return formatFloat(l.Lng) + "," + formatFloat(l.Lat)
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.send(ctx, http.MethodGet, path, nil, result)
}

// send performs a request with an optional JSON body and decodes the response.
func (c *Client) send(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, result)
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := "server error: " + http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
