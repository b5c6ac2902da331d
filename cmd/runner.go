package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/repositories"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The session store and API client are opened on first use, so commands that need neither
// (setup config, mock-api) work without a database.
type Runner struct {
	config     *shared.Config
	configPath string
	session    repositories.SessionStore
	client     *services.Client
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Session    repositories.SessionStore
	Client     *services.Client
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		session:    opts.Session,
		client:     opts.Client,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, registerCommand, logoutCommand, profileCommand,
		moviesCommand, favoritesCommand, apiCommand, mockAPICommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the session store, if one was opened.
func (r *Runner) Close() error {
	if r.session == nil {
		return nil
	}
	err := r.session.Close()
	r.session = nil
	return err
}

// sessionStore opens the configured session store on first use.
func (r *Runner) sessionStore(ctx context.Context) (repositories.SessionStore, error) {
	if r.session != nil {
		return r.session, nil
	}

	store, err := repositories.NewSessionStore(ctx, r.config.Session, r.logger)
	if err != nil {
		return nil, err
	}
	r.session = store
	return store, nil
}

// apiClient builds the myFlix client on first use.
func (r *Runner) apiClient(ctx context.Context) (*services.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	session, err := r.sessionStore(ctx)
	if err != nil {
		return nil, err
	}

	r.client = services.NewClient(services.ClientOpts{
		BaseURL:           r.config.API.BaseURL,
		Session:           session,
		Timeout:           time.Duration(r.config.API.TimeoutSeconds) * time.Second,
		RequestsPerSecond: r.config.API.RequestsPerSecond,
		Logger:            r.logger,
	})
	return r.client, nil
}

// catalog builds a [controllers.CatalogController] that prints dialogs and notices.
func (r *Runner) catalog(ctx context.Context) (*controllers.CatalogController, error) {
	client, err := r.apiClient(ctx)
	if err != nil {
		return nil, err
	}

	host := newCLIHost(r.output)
	return controllers.NewCatalogController(controllers.CatalogOpts{
		Gateway:  client,
		Dialogs:  host,
		Notifier: host,
		Logger:   r.logger,
	}), nil
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
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
