package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// GamesList prints every game.
func (r *Runner) GamesList(ctx context.Context, cmd *cli.Command) error {
	games, _, err := r.services(ctx)
	if err != nil {
		return err
	}

	summaries, err := games.FindAll(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summaries, true)
	}

	r.writePlainHeader(fmt.Sprintf("Games (%d)", len(summaries)))
	r.writePlain("%s\n", r.palette.Games(summaries))
	return nil
}

// GamesShow prints one game in full.
func (r *Runner) GamesShow(ctx context.Context, cmd *cli.Command) error {
	games, _, err := r.services(ctx)
	if err != nil {
		return err
	}

	game, err := games.FindByID(ctx, cmd.Int64("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(game, true)
	}

	r.writePlain("%s", r.palette.Game(game))
	return nil
}
