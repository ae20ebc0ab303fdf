package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/repositories"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/shared"
	"github.com/desertthunder/mvx/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.Catalog
	auth       services.Auth
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     tasks.Engine
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Catalog
	Auth       services.Auth
	API        *services.APIService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
}

// bearerCatalog is the token-bearing side of the catalog client. The HTTP
// implementation satisfies it; test doubles need not.
type bearerCatalog interface {
	SetToken(ctx context.Context, token *oauth2.Token)
	ClearToken()
	Authenticated() bool
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

	engine := tasks.NewCatalogEngine(opts.Catalog, opts.API)

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		auth:       opts.Auth,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
		db:         opts.DB,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, studiosCommand, genresCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, used by the TUI to redirect logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// database opens (and migrates) the local database on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

func (r *Runner) sessions() (*repositories.SessionRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewSessionRepository(db), nil
}

func (r *Runner) refdata() (*repositories.RefDataRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewRefDataRepository(db), nil
}

// installToken attaches the bearer token to both API clients.
func (r *Runner) installToken(ctx context.Context, accessToken string) {
	if r.api != nil {
		r.api.SetToken(accessToken)
	}
	if bc, ok := r.catalog.(bearerCatalog); ok {
		bc.SetToken(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	}
}

// saveSession replaces any stored session with one for the given auth
// response and installs its token. A single session is active at a time.
func (r *Runner) saveSession(ctx context.Context, auth *models.AuthResponse) error {
	repo, err := r.sessions()
	if err != nil {
		return err
	}

	if err := repo.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear previous sessions: %w", err)
	}

	session := models.NewSession(0, auth.User, auth.AccessToken, auth.RefreshToken)
	if err := repo.Create(session); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	r.installToken(ctx, auth.AccessToken)
	return nil
}

// clearSession drops the stored session and both clients' tokens. Used on
// logout and whenever the API rejects the token.
func (r *Runner) clearSession() {
	if repo, err := r.sessions(); err == nil {
		if err := repo.DeleteAll(); err != nil {
			r.logger.Warn("failed to clear stored session", "error", err)
		}
	}

	if r.api != nil {
		r.api.SetToken("")
	}
	if bc, ok := r.catalog.(bearerCatalog); ok {
		bc.ClearToken()
	}
}

// restoreSession installs the stored session's token when one exists and has
// not expired. Best effort: a missing or unreadable database is not an error.
func (r *Runner) restoreSession(ctx context.Context) *models.Session {
	if r.db == nil {
		// Don't create the database as a side effect of every command.
		if _, err := os.Stat(r.config.Database.Path); err != nil {
			return nil
		}
	}

	repo, err := r.sessions()
	if err != nil {
		r.logger.Debug("session restore skipped", "error", err)
		return nil
	}

	session, err := repo.Current()
	if err != nil || session == nil {
		return nil
	}

	if session.Expired() {
		r.logger.Debug("stored session expired", "user", session.UserEmail())
		return nil
	}

	r.installToken(ctx, session.AccessToken())
	return session
}

func (r *Runner) authenticated() bool {
	if bc, ok := r.catalog.(bearerCatalog); ok {
		return bc.Authenticated()
	}
	return false
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
