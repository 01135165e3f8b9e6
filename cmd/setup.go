package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/desertthunder/hymn/internal/repositories"
	"github.com/desertthunder/hymn/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path unless a file already exists.
//
// With --env the environment of the (new or existing) file is switched and the file rewritten.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	created := false
	if _, err := os.Stat(path); err != nil {
		if err := shared.CreateConfigFile(path); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", path)
		created = true
	}

	env := cmd.String("env")
	if env == "" {
		if created {
			return r.writePlain("✓ Config file created: %s\n", path)
		}
		return r.writePlain("Config file already exists: %s\n", path)
	}

	cfg, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}

	cfg.Environment.Name = env
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := shared.SaveConfig(path, cfg); err != nil {
		return err
	}

	r.logger.Info("environment selected", "env", env, "path", path)
	return r.writePlain("✓ Environment set to %s in %s\n", env, path)
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", cfg.Database.Path)

	if _, err := r.database(); err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", cfg.Database.Path)
	return r.writePlain("✓ Database ready: %s\n", cfg.Database.Path)
}

// SetupSession stores identity provider cookies copied from a signed in browser, then verifies them.
func (r *Runner) SetupSession(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var (
		curl *shared.CurlSession
		err  error
	)
	if curlFile != "" {
		if curl, err = shared.ParseCurlFile(curlFile); err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		if curl, err = shared.ParseCurlCommand(curlCmd); err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	cookies := curl.Cookies()
	if len(cookies) == 0 {
		return fmt.Errorf("%w: the cURL command carries no cookies", shared.ErrInvalidInput)
	}

	ssoURL, err := r.identityProviderURL()
	if err != nil {
		return err
	}
	if !sameHost(curl.URL, ssoURL.Hostname()) {
		r.logger.Warn("cURL command targets a different host than the identity provider", "curl", curl.URL, "sso", ssoURL.Host)
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	if err := repositories.NewCookieRepository(db).Import(ctx, ssoURL, cookies); err != nil {
		return err
	}
	r.logger.Info("stored identity provider cookies", "count", len(cookies))

	if err := r.connect(ctx); err != nil {
		return err
	}

	user := r.provider.State().User
	if user == nil {
		r.writePlain("Cookies stored, but the identity provider did not recognize the session.\n")
		return r.writePlain("Run 'hymn login' to sign in through the browser.\n")
	}

	return r.writePlain("✓ Session imported for %s\n", user.FullName())
}

func sameHost(rawURL, host string) bool {
	if rawURL == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), host)
}
