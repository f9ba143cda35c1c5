// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func listIDFlag(required bool) cli.Flag {
	return &cli.Int64Flag{
		Name:     "id",
		Usage:    "List ID",
		Required: required,
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// seedCommand loads a catalog of games and lists.
func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load games and lists from a TOML catalog (defaults to the built-in demo catalog)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Path to a catalog file",
			},
		},
		Action: r.Seed,
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override server.host",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override server.port",
			},
		},
		Action: r.Serve,
	}
}

// gamesCommand handles game queries.
func gamesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "games",
		Usage: "Browse games",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every game",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.GamesList,
			},
			{
				Name:  "show",
				Usage: "Show a game",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Game ID",
						Required: true,
					},
					jsonFlag(),
				},
				Action: r.GamesShow,
			},
		},
	}
}

// listsCommand handles list queries and reordering.
func listsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lists",
		Usage: "Browse and reorder game lists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every game list",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ListsList,
			},
			{
				Name:   "show",
				Usage:  "Show a list and its games in order",
				Flags:  []cli.Flag{listIDFlag(true), jsonFlag()},
				Action: r.ListsShow,
			},
			{
				Name:  "move",
				Usage: "Move the game at one index of a list to another index",
				Flags: []cli.Flag{
					listIDFlag(true),
					&cli.IntFlag{
						Name:     "from",
						Usage:    "Current zero-based index of the game",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "to",
						Usage:    "Zero-based index to move the game to",
						Required: true,
					},
				},
				Action: r.ListsMove,
			},
			{
				Name:   "check",
				Usage:  "Check that list positions are dense and unique",
				Flags:  []cli.Flag{listIDFlag(false)},
				Action: r.ListsCheck,
			},
			{
				Name:   "repair",
				Usage:  "Pack a list's positions back into 0..n-1 keeping its order",
				Flags:  []cli.Flag{listIDFlag(true)},
				Action: r.ListsRepair,
			},
		},
	}
}

// exportCommand writes lists to files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export lists to files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: json, csv, markdown, txt",
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: gamelists_export_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers (max 10)",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Lists loaded per second",
				Value: 5,
			},
			&cli.Int64SliceFlag{
				Name:  "id",
				Usage: "List ID to export, repeatable (default: every list)",
			},
		},
		Action: r.Export,
	}
}
