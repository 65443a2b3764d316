package cli

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/evcraddock/litetravel/internal/analyze"
	"github.com/evcraddock/litetravel/internal/config"
	"github.com/evcraddock/litetravel/internal/db"
	"github.com/evcraddock/litetravel/internal/favorite"
	"github.com/evcraddock/litetravel/internal/geo"
	"github.com/evcraddock/litetravel/internal/maps"
	"github.com/evcraddock/litetravel/internal/plan"
	"github.com/evcraddock/litetravel/internal/web"
)

// startServer runs an API server backed by a temp database and the mock
// map and analysis providers, and points the CLI at it.
func startServer(t *testing.T) {
	t.Helper()
	setupHome(t)

	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	mp := maps.NewMock()
	pipeline := analyze.NewPipeline(analyze.NewMockProvider(), 2)
	pipeline.Register(analyze.MockSource{})
	pipeline.Register(analyze.NewMapSource(mp))

	cfg := config.Config{
		AppName:            "LiteTravel",
		AppVersion:         "test",
		JWTSecret:          []byte("test-secret"),
		TokenTTL:           time.Hour,
		RateLimitPerMinute: 6000,
	}
	srv := httptest.NewServer(web.NewServer(d, cfg, mp, pipeline))
	t.Cleanup(srv.Close)
	t.Setenv("LT_SERVER_URL", srv.URL)
}

func register(t *testing.T, email string) {
	t.Helper()
	mustRun(t, "register", "--email", email, "--password", "secret-pw")
}

func TestRegisterStatusLogout(t *testing.T) {
	startServer(t)

	out := mustRun(t, "register", "--email", "Ann@Example.com", "--password", "secret-pw")
	if !strings.Contains(out, "Account created") || !strings.Contains(out, "ann@example.com") {
		t.Errorf("register output = %q", out)
	}
	cfg, err := loadConfig()
	if err != nil || !cfg.Session.loggedIn() || cfg.Session.Email != "ann@example.com" {
		t.Fatalf("config after register = %+v, %v", cfg, err)
	}

	if out := mustRun(t, "status"); !strings.Contains(out, "authenticated as ann@example.com") {
		t.Errorf("status = %q", out)
	}

	if _, err := executeCommand("register", "--email", "ann@example.com", "--password", "secret-pw"); err == nil {
		t.Error("expected error registering a taken email")
	}

	mustRun(t, "logout")
	if cfg, _ := loadConfig(); cfg.Session != (Session{}) {
		t.Errorf("config after logout = %+v", cfg)
	}
	if out := mustRun(t, "status"); !strings.Contains(out, "not logged in") {
		t.Errorf("status after logout = %q", out)
	}

	if _, err := executeCommand("login", "--email", "ann@example.com", "--password", "wrong-pw"); err == nil {
		t.Error("expected error for wrong password")
	}
	if out := mustRun(t, "login", "--email", "ann@example.com", "--password", "secret-pw"); !strings.Contains(out, "Logged in as ann@example.com") {
		t.Errorf("login output = %q", out)
	}
}

func TestLoginPromptsForMissingValues(t *testing.T) {
	startServer(t)
	register(t, "bo@example.com")
	mustRun(t, "logout")

	root := NewRootCmd()
	var out strings.Builder
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader("bo@example.com\nsecret-pw\n"))
	root.SetArgs([]string{"login"})
	if err := root.Execute(); err != nil {
		t.Fatalf("login: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Email: ") || !strings.Contains(out.String(), "Logged in as bo@example.com") {
		t.Errorf("output = %q", out.String())
	}
}

func TestStatusUnreachable(t *testing.T) {
	setupHome(t)
	t.Setenv("LT_SERVER_URL", "http://127.0.0.1:1")

	out := mustRun(t, "status")
	if !strings.Contains(out, "cannot reach server") {
		t.Errorf("status = %q", out)
	}
}

func listPlans(t *testing.T) []plan.Summary {
	t.Helper()
	stdout, _, err := executeCommandSplit("plan", "list", "--format", "json")
	if err != nil {
		t.Fatalf("plan list: %v", err)
	}
	var plans []plan.Summary
	if err := json.Unmarshal([]byte(stdout), &plans); err != nil {
		t.Fatalf("decoding plans: %v\n%s", err, stdout)
	}
	return plans
}

func TestCloudPlanFlow(t *testing.T) {
	startServer(t)
	register(t, "ann@example.com")

	mustRun(t, "trip", "new", "--city", "长沙", "--start", "2026-05-01", "--days", "2")
	mustRun(t, "node", "add", "1", "spot", "岳麓山", "--at", "112.945,28.182")
	if out := mustRun(t, "plan", "push", "--description", "五一"); !strings.Contains(out, `"长沙 2026-05-01"`) {
		t.Errorf("push output = %q", out)
	}

	plans := listPlans(t)
	if len(plans) != 1 {
		t.Fatalf("plans = %+v", plans)
	}
	id := plans[0].ID
	if plans[0].City != "长沙" || plans[0].DaysCount != 2 {
		t.Errorf("summary = %+v", plans[0])
	}

	if out := mustRun(t, "plan", "show", id); !strings.Contains(out, "五一") || !strings.Contains(out, "岳麓山") {
		t.Errorf("show output = %q", out)
	}

	mustRun(t, "trip", "new", "--city", "杭州", "--days", "1")
	mustRun(t, "plan", "pull", id)
	ws := showWorkspace(t)
	if ws.Meta.City != "长沙" || len(ws.Days) != 2 || len(ws.Days[0].Nodes) != 1 {
		t.Errorf("pulled trip = %+v", ws.State)
	}

	mustRun(t, "plan", "push", "--id", id, "--title", "长沙五一")
	if plans := listPlans(t); len(plans) != 1 || plans[0].Title != "长沙五一" {
		t.Errorf("plans after update = %+v", plans)
	}

	mustRun(t, "plan", "rm", id)
	if out := mustRun(t, "plan", "list"); !strings.Contains(out, "No plans found") {
		t.Errorf("list after rm = %q", out)
	}
	if _, err := executeCommand("plan", "show", id); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("show deleted plan: err = %v", err)
	}
}

func TestCloudFavorites(t *testing.T) {
	startServer(t)
	register(t, "ann@example.com")

	if out := mustRun(t, "fav", "add", "spot", "岳麓山", "--at", "112.945,28.182"); !strings.Contains(out, "Saved 岳麓山") {
		t.Errorf("add output = %q", out)
	}
	if _, err := executeCommand("fav", "add", "spot", "岳麓山", "--at", "112.945,28.182"); err == nil {
		t.Error("expected error adding a duplicate favorite")
	}
	mustRun(t, "fav", "add", "dining", "火宫殿", "--address", "坡子街127号")

	stdout, _, err := executeCommandSplit("fav", "list", "--type", "dining", "--format", "json")
	if err != nil {
		t.Fatalf("fav list: %v", err)
	}
	var favs []favorite.Favorite
	if err := json.Unmarshal([]byte(stdout), &favs); err != nil {
		t.Fatalf("decoding favorites: %v\n%s", err, stdout)
	}
	if len(favs) != 1 || favs[0].Name != "火宫殿" {
		t.Fatalf("dining favorites = %+v", favs)
	}
	want := geo.Location{Lat: 28.228209, Lng: 112.938814}
	if favs[0].Location != want {
		t.Errorf("location = %v, want demo centre %v", favs[0].Location, want)
	}

	mustRun(t, "fav", "rm", favs[0].ID)
	out := mustRun(t, "fav", "list")
	if !strings.Contains(out, "岳麓山") || strings.Contains(out, "火宫殿") {
		t.Errorf("list after rm = %q", out)
	}
	if n := len(showWorkspace(t).Favorites); n != 0 {
		t.Errorf("workspace favorites = %d, want 0", n)
	}
}

func TestSearchAndCities(t *testing.T) {
	startServer(t)

	if out := mustRun(t, "search", "茶颜", "--city", "长沙"); !strings.Contains(out, "茶颜·") {
		t.Errorf("search output = %q", out)
	}

	stdout, _, err := executeCommandSplit("search", "咖啡", "--near", "113.0,28.2", "--radius", "2000", "--format", "json")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var places []maps.Place
	if err := json.Unmarshal([]byte(stdout), &places); err != nil {
		t.Fatalf("decoding places: %v\n%s", err, stdout)
	}
	if len(places) == 0 {
		t.Fatal("expected places")
	}

	if _, err := executeCommand("search", "x", "--radius", "0"); err == nil {
		t.Error("expected error for zero radius")
	}

	if out := mustRun(t, "cities", "长沙"); !strings.Contains(out, "湖南省长沙市") {
		t.Errorf("cities output = %q", out)
	}
	if out := mustRun(t, "cities", "不存在"); !strings.Contains(out, "No cities found") {
		t.Errorf("cities output = %q", out)
	}
}

func TestAnalyzeCommands(t *testing.T) {
	startServer(t)

	out := mustRun(t, "analyze", "无匹配关键词", "--limit", "2")
	if !strings.Contains(out, "Analyzed 2 notes") {
		t.Errorf("analyze output = %q", out)
	}

	if _, err := executeCommand("analyze", "长沙", "--limit", "0"); err == nil {
		t.Error("expected error for zero limit")
	}
	if _, err := executeCommand("analyze", "长沙", "--template", "nope"); err == nil {
		t.Error("expected error for unknown template")
	}

	out = mustRun(t, "analyze", "text", "橘子洲", "周末去橘子洲看烟花，人很多但值得。", "--tags", "旅游, 打卡")
	if !strings.Contains(out, "Sentiment:") {
		t.Errorf("analyze text output = %q", out)
	}

	if out := mustRun(t, "analyze", "templates"); !strings.Contains(out, analyze.TemplateTravel) {
		t.Errorf("templates output = %q", out)
	}
	if out := mustRun(t, "analyze", "status"); !strings.Contains(out, "Provider:") || !strings.Contains(out, "mock") {
		t.Errorf("status output = %q", out)
	}
}

func TestTripRoute(t *testing.T) {
	startServer(t)

	if out := mustRun(t, "trip", "route", "1", "--mode", "transit"); !strings.Contains(out, "Routed 1 legs") {
		t.Errorf("route output = %q", out)
	}
	d := showWorkspace(t).Days[0]
	c := d.Nodes[0].ToNextCommute
	if c == nil || c.Mode != geo.CommuteTransit || c.DistanceText == "" {
		t.Errorf("commute = %+v", c)
	}

	_, stderr, err := executeCommandSplit("trip", "route", "2")
	if err != nil {
		t.Fatalf("route day 2: %v", err)
	}
	if !strings.Contains(stderr, "notice") {
		t.Errorf("stderr = %q, want notice for single-stop day", stderr)
	}

	if _, err := executeCommand("trip", "route", "1", "--mode", "walk"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
