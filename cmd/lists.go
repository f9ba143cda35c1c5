package main

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/gamelists/internal/shared"
)

// ListsList prints every list.
func (r *Runner) ListsList(ctx context.Context, cmd *cli.Command) error {
	_, lists, err := r.services(ctx)
	if err != nil {
		return err
	}

	all, err := lists.FindAll(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(all, true)
	}

	r.writePlainHeader(fmt.Sprintf("Lists (%d)", len(all)))
	r.writePlain("%s\n", r.palette.Lists(all))
	return nil
}

// ListsShow prints a list with its games in display order.
func (r *Runner) ListsShow(ctx context.Context, cmd *cli.Command) error {
	_, lists, err := r.services(ctx)
	if err != nil {
		return err
	}

	export, err := lists.Export(ctx, cmd.Int64("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d games)", export.List.Name, len(export.Games)))
	r.writePlain("%s\n", r.palette.Games(export.Games))
	return nil
}

// ListsMove moves the game at --from to --to and prints the resulting order.
func (r *Runner) ListsMove(ctx context.Context, cmd *cli.Command) error {
	_, lists, err := r.services(ctx)
	if err != nil {
		return err
	}

	listID := cmd.Int64("id")
	from, to := cmd.Int("from"), cmd.Int("to")

	r.logger.Info("moving game", "list", listID, "from", from, "to", to)
	if err := lists.Move(ctx, listID, from, to); err != nil {
		return err
	}

	games, err := lists.FindByList(ctx, listID)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", r.palette.Status(true, fmt.Sprintf("moved index %d to %d in list %d", from, to, listID)))
	r.writePlain("%s\n", r.palette.Games(games))
	return nil
}

// ListsCheck verifies list positions, for one list with --id or for every list.
// Any defect is reported and makes the command fail.
func (r *Runner) ListsCheck(ctx context.Context, cmd *cli.Command) error {
	_, lists, err := r.services(ctx)
	if err != nil {
		return err
	}

	defects := map[int64]error{}
	if cmd.IsSet("id") {
		listID := cmd.Int64("id")
		if err := lists.Check(ctx, listID); err != nil {
			if !shared.IsIntegrityError(err) {
				return err
			}
			defects[listID] = err
		}
	} else {
		if defects, err = lists.CheckAll(ctx); err != nil {
			return err
		}
	}

	if len(defects) == 0 {
		r.writePlain("%s\n", r.palette.Status(true, "all list positions are consistent"))
		return nil
	}

	for _, id := range slices.Sorted(maps.Keys(defects)) {
		r.writePlain("%s\n", r.palette.Status(false, fmt.Sprintf("list %d: %v", id, defects[id])))
	}
	r.writePlain("%s\n", r.palette.Help("run 'gamelists lists repair --id N' to fix a list"))
	return fmt.Errorf("%d list(s) failed the check", len(defects))
}

// ListsRepair packs a list's positions back into 0..n-1.
func (r *Runner) ListsRepair(ctx context.Context, cmd *cli.Command) error {
	_, lists, err := r.services(ctx)
	if err != nil {
		return err
	}

	listID := cmd.Int64("id")
	n, err := lists.Repair(ctx, listID)
	if err != nil {
		return err
	}

	r.logger.Info("repaired list", "list", listID, "rewritten", n)
	r.writePlain("%s\n", r.palette.Status(true, fmt.Sprintf("list %d repaired (%d positions rewritten)", listID, n)))
	return nil
}
