// Package localplan keeps trips on the local disk: saved plans keyed by
// city, and the CLI's working trip.
package localplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/evcraddock/litetravel/internal/trip"
)

// KeyPrefix prefixes every saved plan key.
const KeyPrefix = "litetravel:plan:"

var (
	ErrNotFound  = errors.New("no saved plan for city")
	ErrEmptyCity = errors.New("plan has no city")
)

// Key returns the storage key for a city's plan.
func Key(city string) string {
	return KeyPrefix + city
}

// Store saves plans as JSON files, one per city, under a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on
// the first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns ~/.config/lt/plans.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lt", "plans"), nil
}

func (s *Store) path(city string) string {
	return filepath.Join(s.dir, url.PathEscape(Key(city))+".json")
}

// Save writes the plan under its meta city, replacing any earlier save.
func (s *Store) Save(c trip.Content) error {
	city := strings.TrimSpace(c.Meta.City)
	if city == "" {
		return ErrEmptyCity
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating plan directory: %w", err)
	}
	return writeJSON(s.path(city), c)
}

// Load reads and normalizes the plan saved for city.
func (s *Store) Load(city string) (trip.Content, error) {
	data, err := os.ReadFile(s.path(strings.TrimSpace(city)))
	if errors.Is(err, os.ErrNotExist) {
		return trip.Content{}, fmt.Errorf("%w: %s", ErrNotFound, city)
	}
	if err != nil {
		return trip.Content{}, fmt.Errorf("reading plan: %w", err)
	}
	var c trip.Content
	if err := json.Unmarshal(data, &c); err != nil {
		return trip.Content{}, fmt.Errorf("parsing plan for %s: %w", city, err)
	}
	return trip.Normalize(c), nil
}

// List returns the cities with a saved plan, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading plan directory: %w", err)
	}

	cities := []string{}
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok {
			continue
		}
		key, err := url.PathUnescape(name)
		if err != nil {
			continue
		}
		if city, ok := strings.CutPrefix(key, KeyPrefix); ok {
			cities = append(cities, city)
		}
	}
	sort.Strings(cities)
	return cities, nil
}

// Delete removes the plan saved for city.
func (s *Store) Delete(city string) error {
	err := os.Remove(s.path(strings.TrimSpace(city)))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, city)
	}
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

// Workspace is the CLI's working trip: the full store state plus the
// selected day.
type Workspace struct {
	trip.State
	ActiveDay int `json:"activeDay"`
}

// DefaultWorkspacePath returns ~/.config/lt/trip.json.
func DefaultWorkspacePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lt", "trip.json"), nil
}

// LoadWorkspace reads the working trip from path. A missing file yields
// the demo trip.
func LoadWorkspace(path string, now time.Time) (Workspace, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		st := trip.NewStore(trip.DemoContent(now)).State()
		return Workspace{State: st, ActiveDay: 1}, nil
	}
	if err != nil {
		return Workspace{}, fmt.Errorf("reading workspace: %w", err)
	}
	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return Workspace{}, fmt.Errorf("parsing workspace: %w", err)
	}
	return ws, nil
}

// SaveWorkspace writes the working trip to path.
func SaveWorkspace(path string, ws Workspace) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating workspace directory: %w", err)
	}
	return writeJSON(path, ws)
}

// writeJSON replaces path atomically via a temporary file.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
