package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/gamelists/internal/repositories"
	"github.com/desertthunder/gamelists/internal/services"
	"github.com/desertthunder/gamelists/internal/shared"
	"github.com/desertthunder/gamelists/internal/tasks"
	"github.com/desertthunder/gamelists/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	palette *ui.Palette

	mu       sync.Mutex
	db       *sql.DB
	ownsDB   bool
	migrated bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	DB      *sql.DB // Opened from Config on first use when nil
	Logger  *log.Logger
	Output  io.Writer
	Palette *ui.Palette
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
	if opts.Palette == nil {
		opts.Palette = ui.DefaultPalette
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		palette: opts.Palette,
		db:      opts.DB,
	}
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "gamelists",
		Usage:    "Curate ordered lists of games",
		Version:  "0.1.0",
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, seedCommand, serveCommand, gamesCommand, listsCommand, exportCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// database opens the configured database on first use and brings its schema up to date.
func (r *Runner) database(ctx context.Context) (*sql.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		db, err := shared.OpenConfigured(r.config.Database)
		if err != nil {
			return nil, err
		}
		r.db = db
		r.ownsDB = true
		r.logger.Debug("database opened", "path", r.config.Database.Path)
	}

	if !r.migrated {
		if err := shared.RunMigrationsContext(ctx, r.db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		r.migrated = true
	}
	return r.db, nil
}

// Close releases the database when the runner opened it.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.migrated = false
	return err
}

// services builds the game and list services over the runner's database.
func (r *Runner) services(ctx context.Context) (*services.GameService, *services.GameListService, error) {
	db, err := r.database(ctx)
	if err != nil {
		return nil, nil, err
	}

	games := repositories.NewGameRepository(db)
	lists := repositories.NewGameListRepository(db)
	order := repositories.NewBelongingRepository(db)
	return services.NewGameService(games), services.NewGameListService(lists, games, order), nil
}

// engine builds a [tasks.ListEngine] over the runner's database.
func (r *Runner) engine(ctx context.Context) (*tasks.ListEngine, error) {
	db, err := r.database(ctx)
	if err != nil {
		return nil, err
	}

	games := repositories.NewGameRepository(db)
	lists := repositories.NewGameListRepository(db)
	svc := services.NewGameListService(lists, games, repositories.NewBelongingRepository(db))
	return tasks.NewListEngine(games, lists, svc), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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
	r.writePlain("%s\n", r.palette.Title(title))
}
