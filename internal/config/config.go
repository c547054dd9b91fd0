// Package config handles the XDG configuration directory, file paths and
// the optional settings file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// AppName is the application directory name.
	AppName = "tasker"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yml"

	// DefaultAPIURL is the base URL of the task backend.
	DefaultAPIURL = "https://demo2.z-bit.ee"
)

// SyncPolicy selects how task edits reconcile local state with the backend.
type SyncPolicy string

const (
	// PolicyOptimistic applies edits locally before the request completes.
	PolicyOptimistic SyncPolicy = "optimistic"

	// PolicyConfirmed applies edits only after the backend accepts them.
	PolicyConfirmed SyncPolicy = "confirmed"
)

// Settings are read from config.yml and the environment.
// Environment variables override the file.
type Settings struct {
	APIURL string `yaml:"api_url" env:"TASKER_API_URL" env-default:"https://demo2.z-bit.ee"`

	// Timeout bounds each backend request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" env:"TASKER_TIMEOUT" env-default:"0s"`

	SyncPolicy SyncPolicy `yaml:"sync_policy" env:"TASKER_SYNC_POLICY" env-default:"optimistic"`

	// Username and Password prefill the login form.
	Username string `yaml:"username" env:"TASKER_USERNAME"`
	Password string `yaml:"-" env:"TASKER_PASSWORD"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings
}

// New creates a new Config with the default or specified config directory
// and loads its settings.
// If configDir is empty, uses XDG_CONFIG_HOME/tasker or $HOME/.config/tasker.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadSettings() error {
	var s Settings
	path := c.SettingsPath()
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &s); err != nil {
			return fmt.Errorf("read %s: %w", SettingsFile, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&s); err != nil {
			return fmt.Errorf("read env: %w", err)
		}
	} else {
		return fmt.Errorf("stat %s: %w", SettingsFile, err)
	}

	s.APIURL = strings.TrimRight(strings.TrimSpace(s.APIURL), "/")
	u, err := url.Parse(s.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url: %q", s.APIURL)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", s.Timeout)
	}
	switch s.SyncPolicy {
	case PolicyOptimistic, PolicyConfirmed:
	default:
		return fmt.Errorf("invalid sync_policy: %q (want optimistic or confirmed)", s.SyncPolicy)
	}

	c.Settings = s
	return nil
}

// SettingsPath returns the path to the optional settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
