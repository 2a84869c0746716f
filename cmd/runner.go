package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/metrics"
	"github.com/desertthunder/moviex/internal/operations"
	"github.com/desertthunder/moviex/internal/query"
	"github.com/desertthunder/moviex/internal/services"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/tasks"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	// Catalog replaces the HTTP client built from the config. Used by tests.
	Catalog    services.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, moviesCommand, draftsCommand, viewsCommand, opsCommand,
		importCommand, exportCommand, watchCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while a full screen program runs.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if c, ok := r.catalog.(*services.CatalogClient); ok {
		c.WithLogger(shared.WithLogger(l, "component", "client"))
	}
}

// configure is the root Before hook. It loads the config file and applies flag and environment overrides.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.config = config
			r.logger.Debug("loaded config", "path", path)
		} else if cmd.IsSet("config") {
			r.logger.Warn("config file not found, using defaults", "path", path, "error", shared.ErrMissingConfig)
		}
	}

	if cmd.IsSet("base-url") {
		r.config.Backend.BaseURL = cmd.String("base-url")
	}
	if cmd.IsSet("token") {
		r.config.Backend.Token = cmd.String("token")
	}
	if cmd.IsSet("database") {
		r.config.Database.Path = cmd.String("database")
	}
	return ctx, r.config.Validate()
}

// client returns the backend client, building it from the config on first use.
func (r *Runner) client(ctx context.Context) services.Catalog {
	if r.catalog != nil {
		return r.catalog
	}

	hc := r.httpClient
	if hc == nil {
		hc = r.newHTTPClient(ctx, r.config.Backend.RequestTimeout())
	}
	r.catalog = services.NewCatalogClient(r.config.Backend.BaseURL, hc).
		WithLogger(shared.WithLogger(r.logger, "component", "client"))
	return r.catalog
}

// newHTTPClient builds an instrumented client carrying the configured token.
// A zero timeout is required for the change feed.
func (r *Runner) newHTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	hc := services.NewHTTPClient(ctx, r.config.Backend.Token, timeout)
	hc.Transport = metrics.InstrumentTransport(hc.Transport)
	return hc
}

func (r *Runner) gateway(ctx context.Context) *operations.Gateway {
	return operations.New(r.client(ctx), shared.WithLogger(r.logger, "component", "operations"))
}

func (r *Runner) engine(ctx context.Context) *tasks.Engine {
	return tasks.NewEngine(r.client(ctx), shared.WithLogger(r.logger, "component", "export"))
}

// openStore opens the local SQLite store with migrations applied.
func (r *Runner) openStore() (*sql.DB, error) {
	db, err := shared.OpenStore(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store %s: %w", r.config.Database.Path, err)
	}
	return db, nil
}

// defaultView is the initial view state from the [catalog] config section.
func (r *Runner) defaultView() query.ViewState {
	v := query.DefaultViewState()
	c := r.config.Catalog
	if c.PageSize > 0 {
		v.Pagination.PageSize = c.PageSize
	}
	if query.IsSortField(c.SortField) {
		v.Sort.Field = c.SortField
	}
	if d := query.Direction(c.SortDirection); d.Valid() {
		v.Sort.Direction = d
	}
	return v
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
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
	r.writePlain("%v\n", headerStyle.Render(title))
	r.writePlain("═══════════════════════════════════════\n")
}
