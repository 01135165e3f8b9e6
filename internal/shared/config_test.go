package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Environment.Name != EnvDevelopment {
			t.Errorf("expected environment development, got %s", config.Environment.Name)
		}
		if config.Database.Path != "./hymn.db" {
			t.Errorf("expected database path ./hymn.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if got := config.ActiveRoutes().APIURL; got != "http://localhost:4000" {
			t.Errorf("expected development api_url http://localhost:4000, got %s", got)
		}
		if config.Timeout() != 0 {
			t.Errorf("expected no client timeout by default, got %v", config.Timeout())
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[environment]
name = "production"

[routes.production]
api_url = "https://api.hymns.test"
sso_url = "https://sso.hymns.test"

[http]
timeout_seconds = 15

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		routes := config.ActiveRoutes()
		if routes.SSOURL != "https://sso.hymns.test" {
			t.Errorf("expected production sso_url, got %s", routes.SSOURL)
		}
		if config.Timeout() != 15*time.Second {
			t.Errorf("expected 15s timeout, got %v", config.Timeout())
		}
		if config.ServerAddr() != "0.0.0.0:8080" {
			t.Errorf("expected server addr 0.0.0.0:8080, got %s", config.ServerAddr())
		}
		if config.Log.Level != "info" {
			t.Errorf("expected unset values to keep defaults, got log level %q", config.Log.Level)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(*Config)
			want   error
		}{
			{"unknown environment", func(c *Config) { c.Environment.Name = "staging" }, ErrInvalidConfig},
			{"missing routes", func(c *Config) { delete(c.Routes, EnvDevelopment) }, ErrMissingConfig},
			{"relative api url", func(c *Config) {
				c.Routes[EnvDevelopment] = RoutesConfig{APIURL: "/api", SSOURL: "http://sso"}
			}, ErrInvalidConfig},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				config := DefaultConfig()
				tc.mutate(config)
				if err := config.Validate(); !errors.Is(err, tc.want) {
					t.Errorf("Validate() = %v, want %v", err, tc.want)
				}
			})
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Environment.Name = EnvProduction

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Environment.Name != EnvProduction {
			t.Errorf("expected saved environment production, got %s", loaded.Environment.Name)
		}
	})

	t.Run("CallbackURL", func(t *testing.T) {
		config := DefaultConfig()
		got := config.CallbackURL("abc")
		if got != "http://127.0.0.1:3000/callback?state=abc" {
			t.Errorf("unexpected callback URL %s", got)
		}
		if strings.Contains(config.CallbackURL(""), "state=") {
			t.Error("expected no state parameter when state is empty")
		}
	})
}
