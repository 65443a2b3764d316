package web

import (
	"net/http"
	"strings"
	"testing"

	"github.com/evcraddock/litetravel/internal/analyze"
)

func TestAnalyzeText(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "POST", "/api/analyze/text", "", map[string]any{
		"title":   "橘子洲头太美了",
		"content": "强烈推荐傍晚去橘子洲，风景很美，人均50元，建议提前预约。",
		"tags":    []string{"长沙旅游"},
		"city":    "长沙",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp analyzeTextResponse
	decodeBody(t, w, &resp)
	if !resp.Success || resp.Data == nil {
		t.Fatalf("response = %+v", resp)
	}
	if !strings.HasPrefix(resp.Data.NoteID, "api_") {
		t.Errorf("note id = %q", resp.Data.NoteID)
	}
	if resp.Data.Sentiment != analyze.SentimentPositive {
		t.Errorf("sentiment = %q", resp.Data.Sentiment)
	}
	if resp.Data.ModelUsed != "mock-analyzer" {
		t.Errorf("model = %q", resp.Data.ModelUsed)
	}
}

func TestAnalyzeTextValidation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"content": "x"}},
		{"title too long", map[string]any{"title": strings.Repeat("长", 201), "content": "x"}},
		{"content too long", map[string]any{"title": "t", "content": strings.Repeat("a", 5001)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apiRequest(t, srv, "POST", "/api/analyze/text", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}

	w := apiRequest(t, srv, "POST", "/api/analyze/text", "", map[string]any{"title": "🎉🎉", "content": ""})
	if w.Code != http.StatusOK {
		t.Fatalf("emoji-only status = %d", w.Code)
	}
	var resp analyzeTextResponse
	decodeBody(t, w, &resp)
	if resp.Success || resp.Error == "" {
		t.Errorf("emoji-only note should fail analysis, got %+v", resp)
	}
}

func TestAnalyzeSearch(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "POST", "/api/analyze/search", "", map[string]any{
		"keyword": "湘菜", "limit": 2,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp analyzeSearchResponse
	decodeBody(t, w, &resp)
	if !resp.Success || resp.Data == nil || resp.Data.TotalCount == 0 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Data.TotalCount > 2 {
		t.Errorf("total = %d, want at most 2", resp.Data.TotalCount)
	}

	w = apiRequest(t, srv, "POST", "/api/analyze/search", "", map[string]any{
		"keyword": "岳麓山", "source": "AMAP", "city": "长沙", "limit": 3, "template": analyze.TemplateTravel,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("amap status = %d: %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &resp)
	if resp.Data.TotalCount != 3 || resp.Data.SuccessCount != 3 {
		t.Errorf("amap batch = %d/%d", resp.Data.SuccessCount, resp.Data.TotalCount)
	}
	for _, r := range resp.Data.Results {
		if r.Source != analyze.SourceAmap {
			t.Errorf("result source = %q", r.Source)
		}
	}
}

func TestAnalyzeSearchValidation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing keyword", map[string]any{"keyword": "  "}},
		{"limit too high", map[string]any{"keyword": "长沙", "limit": 21}},
		{"negative limit", map[string]any{"keyword": "长沙", "limit": -1}},
		{"unknown source", map[string]any{"keyword": "长沙", "source": "weibo"}},
		{"unknown template", map[string]any{"keyword": "长沙", "template": "nightlife"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apiRequest(t, srv, "POST", "/api/analyze/search", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestAnalyzeTemplatesAndStatus(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "GET", "/api/analyze/templates", "", nil)
	var templates struct {
		Templates    []string          `json:"templates"`
		Descriptions map[string]string `json:"descriptions"`
	}
	decodeBody(t, w, &templates)
	if len(templates.Templates) != 3 {
		t.Fatalf("templates = %v", templates.Templates)
	}
	for _, name := range templates.Templates {
		if templates.Descriptions[name] == "" {
			t.Errorf("template %s has no description", name)
		}
	}

	w = apiRequest(t, srv, "GET", "/api/analyze/status", "", nil)
	var status analyze.Status
	decodeBody(t, w, &status)
	if status.Provider != analyze.ProviderMock || status.APIKeyConfigured {
		t.Errorf("status = %+v", status)
	}
	if len(status.RegisteredSources) != 2 || status.Concurrency != 2 {
		t.Errorf("status = %+v", status)
	}
}
