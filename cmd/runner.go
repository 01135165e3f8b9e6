package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymn/internal/auth"
	"github.com/desertthunder/hymn/internal/presenter"
	"github.com/desertthunder/hymn/internal/repositories"
	"github.com/desertthunder/hymn/internal/services"
	"github.com/desertthunder/hymn/internal/session"
	"github.com/desertthunder/hymn/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The network stack is built lazily by [Runner.connect] so that setup and cache commands work offline.
type Runner struct {
	configPath  string
	config      *shared.Config
	logger      *log.Logger
	output      io.Writer
	input       io.Reader
	transport   http.RoundTripper
	db          *sql.DB
	ownsDB      bool
	presenter   presenter.Port
	openBrowser func(string) error

	connected     bool
	forgetCookies bool
	ssoURL        *url.URL
	client        *services.Client
	routes        services.RouteTable
	gateway       *auth.Gateway
	catalog       *services.Catalog
	provider      *session.Provider
	cookies       *repositories.CookieRepository
	cache         *repositories.CatalogRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	ConfigPath  string
	Config      *shared.Config
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader
	Transport   http.RoundTripper
	DB          *sql.DB
	Presenter   presenter.Port
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		configPath:  opts.ConfigPath,
		config:      opts.Config,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
		transport:   opts.Transport,
		db:          opts.DB,
		presenter:   opts.Presenter,
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{setupCommand(r)}
	commands = append(commands, authCommands(r)...)
	commands = append(commands, catalogCommands(r)...)
	commands = append(commands, exportCommands(r)...)

	for _, fn := range [](func(*Runner) *cli.Command){favoritesCommand, adminCommand, cacheCommand} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before reads the global flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" && r.configPath == "" {
		r.configPath = path
	}
	if path := cmd.String("log-file"); path != "" {
		logger, err := shared.NewFileLogger(path)
		if err != nil {
			return ctx, err
		}
		r.logger = logger
	}
	if level := cmd.String("log-level"); level != "" {
		shared.SetLogLevel(r.logger, shared.ParseLevel(level))
	}
	return ctx, nil
}

// After persists the identity provider cookies and releases the database.
func (r *Runner) After(ctx context.Context, _ *cli.Command) error {
	return r.Close(ctx)
}

// loadConfig returns the injected configuration, the file at configPath, or the defaults.
func (r *Runner) loadConfig() (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	cfg := shared.DefaultConfig()
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			loaded, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Log.Level != "" {
		shared.SetLogLevel(r.logger, shared.ParseLevel(cfg.Log.Level))
	}

	r.config = cfg
	return cfg, nil
}

// database opens and migrates the configured database once.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		if err := shared.RunMigrations(r.db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return r.db, nil
	}

	cfg, err := r.loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := shared.OpenDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	r.db = db
	r.ownsDB = true
	return db, nil
}

func (r *Runner) identityProviderURL() (*url.URL, error) {
	if r.ssoURL != nil {
		return r.ssoURL, nil
	}

	cfg, err := r.loadConfig()
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(cfg.ActiveRoutes().SSOURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: sso_url %q", shared.ErrInvalidConfig, cfg.ActiveRoutes().SSOURL)
	}

	r.ssoURL = u
	return u, nil
}

// connect builds the client, session and catalog stack, then silently restores the previous session.
func (r *Runner) connect(ctx context.Context) error {
	if r.connected {
		return nil
	}

	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	ssoURL, err := r.identityProviderURL()
	if err != nil {
		return err
	}

	endpoints := cfg.ActiveRoutes()
	r.routes = services.NewRouteTable(endpoints.APIURL, endpoints.SSOURL)

	opts := []services.ClientOption{
		services.WithTimeout(cfg.Timeout()),
		services.WithRateLimit(cfg.HTTP.RateLimit, cfg.HTTP.Burst),
		services.WithClientLogger(shared.WithLogger(r.logger, "component", "client")),
	}
	if r.transport != nil {
		opts = append(opts, services.WithTransport(r.transport))
	}

	client, err := services.NewClient(opts...)
	if err != nil {
		return err
	}

	r.cookies = repositories.NewCookieRepository(db)
	r.cache = repositories.NewCatalogRepository(db)

	if n, err := r.cookies.Restore(ctx, ssoURL, client.Jar()); err != nil {
		r.logger.Warn("failed to restore identity provider cookies", "error", err)
	} else {
		r.logger.Debug("restored identity provider cookies", "count", n)
	}

	r.gateway = auth.NewGateway(client, r.routes, auth.NewStore(),
		auth.WithGatewayLogger(shared.WithLogger(r.logger, "component", "sso")),
		auth.WithServiceURL(cfg.CallbackURL("")),
	)
	r.catalog = services.NewCatalog(client, r.gateway, r.routes,
		services.WithCache(r.cache, cfg.CacheTTL()),
		services.WithLogger(shared.WithLogger(r.logger, "component", "catalog")),
	)
	r.provider = session.NewProvider(r.gateway, r.catalog.Songs, shared.WithLogger(r.logger, "component", "session"))
	auth.NewInterceptor(r.provider, r.routes, shared.WithLogger(r.logger, "component", "interceptor")).Attach(client)

	r.client = client
	r.connected = true

	if user := r.provider.ReauthorizeUser(ctx); user != nil {
		r.logger.Debug("session restored", "user", user.FullName(), "favorites", r.provider.State().Favorites.Len())
	}

	return nil
}

// requireUser connects and returns the signed in user.
func (r *Runner) requireUser(ctx context.Context) (*session.State, error) {
	if err := r.connect(ctx); err != nil {
		return nil, err
	}

	state := r.provider.State()
	if state.User == nil {
		return nil, fmt.Errorf("%w: run 'hymn login' first", shared.ErrNotAuthenticated)
	}
	return &state, nil
}

// Close persists the identity provider cookies and closes the database if the runner opened it.
func (r *Runner) Close(ctx context.Context) error {
	var errs []error

	if r.connected {
		if r.forgetCookies {
			if err := r.cookies.Clear(ctx, r.ssoURL); err != nil {
				errs = append(errs, err)
			}
		} else if err := r.cookies.Snapshot(ctx, r.ssoURL, r.client.Jar()); err != nil {
			errs = append(errs, err)
		}
		r.connected = false
	}

	if r.ownsDB && r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
		r.db = nil
		r.ownsDB = false
	}

	return errors.Join(errs...)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (r *Runner) writeTable(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return r.writePlain("%s\n", t.String())
}
