package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evcraddock/litetravel/internal/localplan"
	"github.com/evcraddock/litetravel/internal/trip"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LT_TOKEN", "")
	t.Setenv("LT_SERVER_URL", "")
	t.Setenv("LT_CONFIG", "")
	return home
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCommand(args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func showWorkspace(t *testing.T) localplan.Workspace {
	t.Helper()
	stdout, _, err := executeCommandSplit("trip", "show", "--format", "json")
	if err != nil {
		t.Fatalf("trip show: %v", err)
	}
	var ws localplan.Workspace
	if err := json.Unmarshal([]byte(stdout), &ws); err != nil {
		t.Fatalf("decoding workspace: %v\n%s", err, stdout)
	}
	return ws
}

func nodeIDs(d trip.DayPlan) []string {
	ids := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func TestTripShowCreatesDemo(t *testing.T) {
	home := setupHome(t)

	out := mustRun(t, "trip", "show")
	if !strings.Contains(out, "长沙") || !strings.Contains(out, "岳麓山") {
		t.Errorf("expected demo trip, got:\n%s", out)
	}
	if !strings.Contains(out, "* Day 1") {
		t.Errorf("expected day 1 marked active, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".config", "lt", "trip.json")); err != nil {
		t.Errorf("workspace not written: %v", err)
	}
}

func TestTripShowSelectsDay(t *testing.T) {
	setupHome(t)

	mustRun(t, "trip", "show", "--day", "2")
	if ws := showWorkspace(t); ws.ActiveDay != 2 {
		t.Errorf("activeDay = %d, want 2", ws.ActiveDay)
	}

	if _, err := executeCommand("trip", "show", "--day", "7"); err == nil {
		t.Error("expected error selecting a missing day")
	}
}

func TestNodeAddDefaultsToCenter(t *testing.T) {
	setupHome(t)

	mustRun(t, "node", "add", "1", "spot", "省博物馆", "--time", "14:00", "--cost", "30")

	ws := showWorkspace(t)
	day := ws.Days[0]
	if len(day.Nodes) != 3 {
		t.Fatalf("day 1 has %d stops, want 3", len(day.Nodes))
	}
	added := day.Nodes[2]
	if added.Name != "省博物馆" || added.Type != trip.NodeSpot || added.Time != "14:00" {
		t.Errorf("added = %+v", added)
	}
	if added.Cost == nil || *added.Cost != 30 {
		t.Errorf("cost = %v, want 30", added.Cost)
	}
	if ws.Meta.Center == nil || added.Location != *ws.Meta.Center {
		t.Errorf("location = %v, want trip centre %v", added.Location, ws.Meta.Center)
	}
	if !strings.HasPrefix(added.ID, "spot-") {
		t.Errorf("id = %q, want spot- prefix", added.ID)
	}
}

func TestNodeAddValidation(t *testing.T) {
	setupHome(t)

	cases := [][]string{
		{"node", "add", "0", "spot", "x"},
		{"node", "add", "1", "museum", "x"},
		{"node", "add", "1", "spot", "x", "--time", "9am"},
		{"node", "add", "1", "spot", "x", "--at", "not-a-point"},
		{"node", "add", "1", "spot", "x", "--cost", "-1"},
	}
	for _, args := range cases {
		if _, err := executeCommand(args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestNodeAddMissingDayIsNotice(t *testing.T) {
	setupHome(t)

	stdout, stderr, err := executeCommandSplit("node", "add", "9", "spot", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "day not found") {
		t.Errorf("stderr = %q, want day not found notice", stderr)
	}
}

func TestNodeMoveReorderRemove(t *testing.T) {
	setupHome(t)

	mustRun(t, "node", "mv", "spot-yuelu", "2")
	ws := showWorkspace(t)
	if got := nodeIDs(ws.Days[0]); len(got) != 1 || got[0] != "dining-pozi" {
		t.Errorf("day 1 = %v", got)
	}
	if got := nodeIDs(ws.Days[1]); len(got) != 2 || got[1] != "spot-yuelu" {
		t.Errorf("day 2 = %v", got)
	}

	mustRun(t, "node", "reorder", "2", "1", "0")
	ws = showWorkspace(t)
	if got := nodeIDs(ws.Days[1]); got[0] != "spot-yuelu" {
		t.Errorf("day 2 after reorder = %v", got)
	}

	mustRun(t, "node", "rm", "spot-orange")
	ws = showWorkspace(t)
	if got := nodeIDs(ws.Days[1]); len(got) != 1 || got[0] != "spot-yuelu" {
		t.Errorf("day 2 after rm = %v", got)
	}

	_, stderr, err := executeCommandSplit("node", "rm", "spot-orange")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "node not found") {
		t.Errorf("stderr = %q, want node not found notice", stderr)
	}
}

func TestNodeUpdate(t *testing.T) {
	setupHome(t)

	if _, err := executeCommand("node", "update", "spot-yuelu"); err == nil {
		t.Error("expected error for empty update")
	}

	mustRun(t, "node", "update", "spot-yuelu", "--name", "岳麓书院", "--notes", "早去")
	n := showWorkspace(t).Days[0].Nodes[0]
	if n.Name != "岳麓书院" || n.Notes != "早去" {
		t.Errorf("node = %+v", n)
	}
	if n.Time != "09:00" {
		t.Errorf("time = %q, want untouched 09:00", n.Time)
	}
}

func TestNodeUpdateClearsCommuteAndCost(t *testing.T) {
	setupHome(t)

	mustRun(t, "node", "update", "spot-yuelu", "--cost", "40")
	if n := showWorkspace(t).Days[0].Nodes[0]; n.Cost == nil || n.ToNextCommute == nil {
		t.Fatalf("node = %+v, want cost and commute set", n)
	}

	if _, err := executeCommand("node", "update", "spot-yuelu", "--cost", "1", "--clear-cost"); err == nil {
		t.Error("expected error for --cost with --clear-cost")
	}

	mustRun(t, "node", "update", "spot-yuelu", "--clear-cost", "--clear-commute")
	n := showWorkspace(t).Days[0].Nodes[0]
	if n.Cost != nil {
		t.Errorf("cost = %v, want nil", *n.Cost)
	}
	if n.ToNextCommute != nil {
		t.Errorf("commute = %+v, want nil", *n.ToNextCommute)
	}
	if n.Time != "09:00" {
		t.Errorf("time = %q, want untouched 09:00", n.Time)
	}
}

func TestNodeReorderSamePositionIsNotice(t *testing.T) {
	setupHome(t)

	stdout, stderr, err := executeCommandSplit("node", "reorder", "1", "0", "0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "already in place") {
		t.Errorf("stderr = %q, want already in place notice", stderr)
	}
}

func TestDayCommands(t *testing.T) {
	setupHome(t)

	mustRun(t, "day", "add")
	ws := showWorkspace(t)
	if len(ws.Days) != 3 || ws.Days[2].DayIndex != 3 {
		t.Fatalf("days = %+v", ws.Days)
	}

	mustRun(t, "day", "date", "3", "2026-05-03")
	if d := showWorkspace(t).Days[2].Date; d != "2026-05-03" {
		t.Errorf("date = %q", d)
	}
	if _, err := executeCommand("day", "date", "3", "May 3"); err == nil {
		t.Error("expected error for malformed date")
	}

	mustRun(t, "day", "rm", "1")
	ws = showWorkspace(t)
	if len(ws.Days) != 2 || ws.Days[0].DayIndex != 1 || ws.Days[0].Nodes[0].ID != "spot-orange" {
		t.Errorf("days after rm = %+v", ws.Days)
	}
}

func TestDayRemoveLastDayIsNotice(t *testing.T) {
	setupHome(t)

	mustRun(t, "trip", "new", "--city", "杭州", "--days", "1")
	_, stderr, err := executeCommandSplit("day", "rm", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "cannot remove the last day") {
		t.Errorf("stderr = %q", stderr)
	}
	if n := len(showWorkspace(t).Days); n != 1 {
		t.Errorf("days = %d, want 1", n)
	}
}

func TestTripNewAndMeta(t *testing.T) {
	setupHome(t)

	mustRun(t, "trip", "new", "--city", "杭州", "--start", "2026-05-01", "--days", "3")
	ws := showWorkspace(t)
	if ws.Meta.City != "杭州" || len(ws.Days) != 3 {
		t.Fatalf("trip = %+v", ws.Meta)
	}
	if ws.Meta.Dates != [2]string{"2026-05-01", "2026-05-03"} {
		t.Errorf("dates = %v", ws.Meta.Dates)
	}
	if ws.Days[1].Date != "2026-05-02" {
		t.Errorf("day 2 date = %q", ws.Days[1].Date)
	}
	if ws.ActiveDay != 1 {
		t.Errorf("activeDay = %d, want 1", ws.ActiveDay)
	}

	mustRun(t, "trip", "meta", "--end", "2026-05-04", "--center", "120.15,30.27")
	ws = showWorkspace(t)
	if ws.Meta.Dates != [2]string{"2026-05-01", "2026-05-04"} {
		t.Errorf("dates after meta = %v", ws.Meta.Dates)
	}
	if ws.Meta.Center == nil || ws.Meta.Center.Lng != 120.15 || ws.Meta.Center.Lat != 30.27 {
		t.Errorf("center = %v", ws.Meta.Center)
	}

	if _, err := executeCommand("trip", "meta"); err == nil {
		t.Error("expected error for empty meta change")
	}
	if _, err := executeCommand("trip", "new", "--days", "0"); err == nil {
		t.Error("expected error for zero days")
	}
}

func TestTripConfirmCityAndHighlight(t *testing.T) {
	setupHome(t)

	mustRun(t, "trip", "confirm-city", "上海")
	mustRun(t, "trip", "highlight", "121.47,31.23", "外滩")
	ws := showWorkspace(t)
	if ws.ConfirmedCity != "上海" {
		t.Errorf("confirmedCity = %q", ws.ConfirmedCity)
	}
	if ws.HighlightedLocation == nil || ws.HighlightedLocation.Name != "外滩" {
		t.Errorf("highlight = %+v", ws.HighlightedLocation)
	}

	mustRun(t, "trip", "highlight", "--clear")
	if h := showWorkspace(t).HighlightedLocation; h != nil {
		t.Errorf("highlight after clear = %+v", h)
	}
	if _, err := executeCommand("trip", "highlight"); err == nil {
		t.Error("expected error without location")
	}
}

func TestLocalPlanSaveAndLoad(t *testing.T) {
	home := setupHome(t)

	mustRun(t, "trip", "new", "--city", "杭州", "--start", "2026-05-01", "--days", "2")
	mustRun(t, "node", "add", "2", "hotel", "西湖国宾馆", "--at", "120.14,30.24")
	mustRun(t, "plan", "save")

	entries, err := os.ReadDir(filepath.Join(home, ".config", "lt", "plans"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("plans dir: %v, %d entries", err, len(entries))
	}

	mustRun(t, "trip", "reset")
	if c := showWorkspace(t).Meta.City; c != "长沙" {
		t.Fatalf("city after reset = %q", c)
	}

	out := mustRun(t, "plan", "local")
	if !strings.Contains(out, "杭州") {
		t.Errorf("plan local = %q", out)
	}

	mustRun(t, "plan", "load", "杭州")
	ws := showWorkspace(t)
	if ws.Meta.City != "杭州" || len(ws.Days) != 2 || len(ws.Days[1].Nodes) != 1 {
		t.Errorf("loaded trip = %+v", ws.State)
	}

	if _, err := executeCommand("plan", "load", "北京"); err == nil {
		t.Error("expected error loading a missing plan")
	}

	mustRun(t, "plan", "local", "--delete", "杭州")
	if out := mustRun(t, "plan", "local"); !strings.Contains(out, "No local plans") {
		t.Errorf("plan local after delete = %q", out)
	}
}

func TestPlanSaveWithoutCity(t *testing.T) {
	setupHome(t)

	mustRun(t, "trip", "new", "--days", "1")
	if _, err := executeCommand("plan", "save"); err == nil || !strings.Contains(err.Error(), "no city") {
		t.Errorf("err = %v, want no city", err)
	}
}

func TestLocalFavorites(t *testing.T) {
	setupHome(t)

	mustRun(t, "fav", "add", "dining", "火宫殿", "--address", "坡子街127号")
	mustRun(t, "fav", "add", "spot", "天心阁", "--at", "112.98,28.19", "--local")

	stdout, _, err := executeCommandSplit("fav", "list", "--format", "json")
	if err != nil {
		t.Fatalf("fav list: %v", err)
	}
	var items []trip.FavoriteItem
	if err := json.Unmarshal([]byte(stdout), &items); err != nil {
		t.Fatalf("decoding favorites: %v\n%s", err, stdout)
	}
	if len(items) != 2 {
		t.Fatalf("favorites = %+v", items)
	}

	out := mustRun(t, "fav", "list", "--type", "spot")
	if !strings.Contains(out, "天心阁") || strings.Contains(out, "火宫殿") {
		t.Errorf("filtered list = %q", out)
	}

	var dining trip.FavoriteItem
	for _, it := range items {
		if it.Type == trip.NodeDining {
			dining = it
		}
	}
	if dining.Address != "坡子街127号" {
		t.Errorf("address = %q", dining.Address)
	}
	mustRun(t, "fav", "rm", dining.ID)
	if n := len(showWorkspace(t).Favorites); n != 1 {
		t.Errorf("favorites after rm = %d, want 1", n)
	}

	if _, err := executeCommand("fav", "add", "museum", "x"); err == nil {
		t.Error("expected error for invalid type")
	}
}
