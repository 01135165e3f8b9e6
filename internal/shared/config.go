package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Environment EnvironmentConfig       `toml:"environment"`
	Routes      map[string]RoutesConfig `toml:"routes"`
	HTTP        HTTPConfig              `toml:"http"`
	Database    DatabaseConfig          `toml:"database"`
	Server      ServerConfig            `toml:"server"`
	Log         LogConfig               `toml:"log"`
}

// EnvironmentConfig selects which [RoutesConfig] entry is active.
type EnvironmentConfig struct {
	Name string `toml:"name"`
}

// RoutesConfig contains the base URLs of the lyrics API and the identity provider for one environment.
type RoutesConfig struct {
	APIURL string `toml:"api_url"`
	SSOURL string `toml:"sso_url"`
}

// HTTPConfig contains outgoing request settings.
type HTTPConfig struct {
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
	Burst          int     `toml:"burst"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path            string `toml:"path"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// ServerConfig contains the local SSO callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes the config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the active environment has usable endpoints.
func (c *Config) Validate() error {
	name := c.Environment.Name
	if name != EnvDevelopment && name != EnvProduction {
		return fmt.Errorf("%w: unknown environment %q", ErrInvalidConfig, name)
	}

	routes, ok := c.Routes[name]
	if !ok {
		return fmt.Errorf("%w: no routes for environment %q", ErrMissingConfig, name)
	}

	for key, raw := range map[string]string{"api_url": routes.APIURL, "sso_url": routes.SSOURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: routes.%s.%s must be an absolute URL", ErrInvalidConfig, name, key)
		}
	}

	return nil
}

// ActiveRoutes returns the endpoints of the configured environment.
func (c *Config) ActiveRoutes() RoutesConfig {
	return c.Routes[c.Environment.Name]
}

// Timeout returns the configured client timeout, zero meaning none.
func (c *Config) Timeout() time.Duration {
	if c.HTTP.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long cached catalog payloads stay fresh.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Database.CacheTTLMinutes) * time.Minute
}

// ServerAddr returns the listen address of the callback server.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CallbackURL builds the service URL the identity provider redirects back to after sign in.
func (c *Config) CallbackURL(state string) string {
	u := url.URL{Scheme: "http", Host: c.ServerAddr(), Path: "/callback"}
	if state != "" {
		u.RawQuery = url.Values{"state": {state}}.Encode()
	}
	return u.String()
}
