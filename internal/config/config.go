// Package config provides configuration file support for the escl tool.
package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultProfile is the profile used when none is named.
const DefaultProfile = "default"

// Config is the escl tool configuration.
type Config struct {
	Scanner  ScannerConfig      `yaml:"scanner"`
	Logging  LoggingConfig      `yaml:"logging"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// ScannerConfig selects and addresses the scanner.
type ScannerConfig struct {
	URL       string `yaml:"url"`
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Scanner: ScannerConfig{Timeout: "100s", UserAgent: "escl"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Profiles: map[string]Profile{
			DefaultProfile: {
				Source:     "platen",
				Resolution: 300,
				ColorMode:  "color",
				Format:     "image/jpeg",
				Intent:     "Document",
			},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/escl/config.yaml or its
// equivalent on the current platform.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "escl", "config.yaml")
}

// Load reads the configuration at path over the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write config")
}

// Timeout parses Scanner.Timeout. An empty value is zero.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Scanner.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Scanner.Timeout)
	if err != nil {
		return 0, errors.Wrap(err, "scanner.timeout")
	}
	return d, nil
}

// Profile returns the named profile. An empty name selects DefaultProfile.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, errors.Errorf("unknown profile %q (have %s)", name, strings.Join(c.ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames returns the sorted profile names.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler returns a slog handler writing to w at the configured level.
func (l LoggingConfig) Handler(w io.Writer) (slog.Handler, error) {
	var level slog.Level
	if l.Level != "" {
		if err := level.UnmarshalText([]byte(l.Level)); err != nil {
			return nil, errors.Wrap(err, "logging.level")
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(l.Format) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	}
	return nil, errors.Errorf("logging.format: unknown format %q", l.Format)
}
