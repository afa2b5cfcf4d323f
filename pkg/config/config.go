// Package config loads orbit's TOML configuration.
//
// Values are resolved in three layers: built-in defaults ([Default]), an
// optional config file ([Load]) whose content may reference environment
// variables as $VAR or ${VAR}, and finally the NASA_API_KEY and
// ORBIT_SOLAR_SYSTEM_TOKEN environment variables, which win over both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/orbit/pkg/buildinfo"
	"github.com/matzehuels/orbit/pkg/errors"
)

// Environment variables that override file values.
const (
	EnvAPIKey           = "NASA_API_KEY"
	EnvSolarSystemToken = "ORBIT_SOLAR_SYSTEM_TOKEN"
)

// DemoKey is NASA's shared, heavily rate-limited key.
const DemoKey = "DEMO_KEY"

// Categories are the valid keys of the [ttl] table.
var Categories = []string{"apod", "mars", "neo", "donki", "epic", "catalog"}

var validate = validator.New()

// Duration is a time.Duration written as a string ("90s", "24h") in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all orbit configuration.
type Config struct {
	APIKey    string              `toml:"api_key" validate:"required"`
	HTTP      HTTPConfig          `toml:"http"`
	Retry     RetryConfig         `toml:"retry"`
	Cache     CacheConfig         `toml:"cache"`
	Endpoints EndpointsConfig     `toml:"endpoints"`
	TTL       map[string]Duration `toml:"ttl" validate:"dive,keys,oneof=apod mars neo donki epic catalog,endkeys,gte=0"`
	Server    ServerConfig        `toml:"server"`
}

// HTTPConfig controls the outbound HTTP client.
type HTTPConfig struct {
	Timeout   Duration `toml:"timeout" validate:"gt=0"`
	UserAgent string   `toml:"user_agent"`
}

// RetryConfig controls the attempt budget of every fetch.
type RetryConfig struct {
	MaxAttempts int      `toml:"max_attempts" validate:"min=1,max=10"`
	BaseDelay   Duration `toml:"base_delay" validate:"gt=0"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	DefaultTTL Duration `toml:"default_ttl" validate:"gt=0"`
}

// EndpointsConfig holds upstream base URLs.
type EndpointsConfig struct {
	NASA             string `toml:"nasa" validate:"required,url"`
	EPICArchive      string `toml:"epic_archive" validate:"required,url"`
	OpenData         string `toml:"open_data" validate:"required,url"`
	SolarSystem      string `toml:"solar_system" validate:"required,url"`
	SolarSystemToken string `toml:"solar_system_token"`
}

// ServerConfig controls `orbit serve`.
type ServerConfig struct {
	Listen string `toml:"listen" validate:"required,hostname_port"`
}

// Default returns a Config with the public endpoints and NASA's demo key.
func Default() *Config {
	return &Config{
		APIKey: DemoKey,
		HTTP: HTTPConfig{
			Timeout:   Duration(10 * time.Second),
			UserAgent: buildinfo.UserAgent(),
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   Duration(time.Second),
		},
		Cache: CacheConfig{
			DefaultTTL: Duration(time.Hour),
		},
		Endpoints: EndpointsConfig{
			NASA:        "https://api.nasa.gov",
			EPICArchive: "https://epic.gsfc.nasa.gov/archive",
			OpenData:    "https://data.nasa.gov/resource",
			SolarSystem: "https://api.le-systeme-solaire.net/rest",
		},
		TTL: map[string]Duration{},
		Server: ServerConfig{
			Listen: ":8080",
		},
	}
}

// Load reads a TOML config file on top of the defaults, expanding
// environment variables in its content, then applies env overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(os.ExpandEnv(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML content on top of the defaults and applies env overrides.
// Unknown keys are rejected so typos do not pass silently.
func Parse(content string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(content, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadDefault loads the file at [Path] if it exists and falls back to the
// defaults otherwise. Env overrides apply in both cases.
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return Load(path)
		}
	}
	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// Path returns the default config file location:
// $XDG_CONFIG_HOME/orbit/config.toml, or ~/.config/orbit/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "orbit", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return filepath.Join(home, ".config", "orbit", "config.toml"), nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvSolarSystemToken); v != "" {
		c.Endpoints.SolarSystemToken = v
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	return nil
}

// TTLOverrides returns the [ttl] table as time.Durations, skipping zero
// entries, which keep the built-in TTL.
func (c *Config) TTLOverrides() map[string]time.Duration {
	out := make(map[string]time.Duration, len(c.TTL))
	for k, v := range c.TTL {
		if v > 0 {
			out[k] = v.Std()
		}
	}
	return out
}

// UsesDemoKey reports whether requests will go out with NASA's shared key.
func (c *Config) UsesDemoKey() bool {
	return c.APIKey == DemoKey
}

// Redacted returns a copy safe to print, with secrets masked.
func (c *Config) Redacted() *Config {
	out := *c
	out.TTL = make(map[string]Duration, len(c.TTL))
	for k, v := range c.TTL {
		out.TTL[k] = v
	}
	out.APIKey = mask(c.APIKey)
	out.Endpoints.SolarSystemToken = mask(c.Endpoints.SolarSystemToken)
	return &out
}

// Encode writes c as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", err
	}
	return b.String(), nil
}

func mask(s string) string {
	if s == "" || s == DemoKey {
		return s
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", 8)
}
