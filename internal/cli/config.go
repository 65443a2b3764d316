package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerURL = "http://localhost:8080"

	envServerURL  = "LT_SERVER_URL"
	envToken      = "LT_TOKEN"
	envConfigFile = "LT_CONFIG"
)

var errConfigSyntax = errors.New("malformed config")

// CLIConfig is the YAML file that remembers the server and login between runs.
type CLIConfig struct {
	ServerURL string  `yaml:"server_url,omitempty"`
	Session   Session `yaml:"session,omitempty"`
}

// Session is the account lt login stored.
type Session struct {
	AccessToken string `yaml:"access_token,omitempty"`
	Email       string `yaml:"email,omitempty"`
}

func (s Session) loggedIn() bool { return s.AccessToken != "" }

// configPath returns $LT_CONFIG, or ~/.config/lt/config.yaml.
func configPath() (string, error) {
	if p := os.Getenv(envConfigFile); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lt", "config.yaml"), nil
}

// loadConfig reads the config file. A missing file is an empty config.
func loadConfig() (CLIConfig, error) {
	var cfg CLIConfig
	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("%w %s: %v", errConfigSyntax, path, err)
	}
	return cfg, nil
}

// saveConfig atomically replaces the config file with mode 0600.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// updateConfig loads the config, applies edit and saves it. A malformed
// file is replaced rather than blocking login and logout.
func updateConfig(edit func(*CLIConfig)) error {
	cfg, err := loadConfig()
	if err != nil && !errors.Is(err, errConfigSyntax) {
		return err
	}
	edit(&cfg)
	return saveConfig(cfg)
}

// setting returns the env var when set, otherwise the value pick reads
// from the config file.
func setting(env string, pick func(CLIConfig) string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err != nil {
		return ""
	}
	return pick(cfg)
}

func getServerURL() string {
	if v := setting(envServerURL, func(c CLIConfig) string { return c.ServerURL }); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultServerURL
}

func getToken() string {
	return setting(envToken, func(c CLIConfig) string { return c.Session.AccessToken })
}
