package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/gamelists/internal/shared"
	"github.com/desertthunder/gamelists/internal/tasks"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	if err := config.Validate(); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenConfigured(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrationsContext(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	versions, err := shared.AppliedVersions(db)
	if err != nil {
		return err
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("%s\n", r.palette.Status(true, fmt.Sprintf("database ready at %s (%d migrations applied)", config.Database.Path, len(versions))))
	return nil
}

// Seed loads a catalog into the database.
//
// Seeding is idempotent: games and lists are upserted and existing memberships keep their positions.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	var (
		catalog *tasks.Catalog
		err     error
	)
	if path := cmd.String("file"); path != "" {
		catalog, err = tasks.LoadCatalog(path)
	} else {
		catalog, err = tasks.DefaultCatalog()
	}
	if err != nil {
		return err
	}

	engine, err := r.engine(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("seeding catalog", "games", len(catalog.Games), "lists", len(catalog.Lists))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.SeedGames:
				r.writePlain("🎮 %s\n", update.Message)
			case tasks.SeedLists:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Seed(ctx, progressCh, catalog)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Seed Complete!")
	r.writePlain("Games: %d\n", result.Games)
	r.writePlain("Lists: %d\n", result.Lists)
	r.writePlain("Memberships: %d\n", result.Memberships)
	return nil
}
