package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/wishlist"
	"github.com/urfave/cli/v3"
)

// loadWishlist refreshes the store and fails when it ends up in the error state.
func (r *Runner) loadWishlist(ctx context.Context, force bool) (wishlist.Snapshot, error) {
	if err := r.requireAuth(); err != nil {
		return wishlist.Snapshot{}, err
	}
	if err := r.wishlist.Refresh(ctx, force); err != nil {
		return wishlist.Snapshot{}, fmt.Errorf("%s: %w", wishlist.LoadErrorMessage, err)
	}
	snap := r.wishlist.Snapshot()
	if snap.State == wishlist.Error {
		return wishlist.Snapshot{}, errors.New(snap.Err)
	}
	return snap, nil
}

// WishlistList prints the saved properties.
func (r *Runner) WishlistList(ctx context.Context, cmd *cli.Command) error {
	snap, err := r.loadWishlist(ctx, cmd.Bool("force"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	if len(snap.Items) == 0 {
		return r.writePlain("Your wishlist is empty.\n")
	}
	list := make([]models.Accommodation, 0, len(snap.Items))
	for _, item := range snap.Items {
		list = append(list, item.Accommodation)
	}
	r.writeProperties(list)
	return nil
}

// WishlistAdd saves a property and waits for the reconciling refresh.
func (r *Runner) WishlistAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	err = r.wishlist.Add(ctx, id)
	r.wishlist.Wait()
	return err
}

// WishlistRemove deletes a saved property after confirmation.
func (r *Runner) WishlistRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if _, err := r.loadWishlist(ctx, false); err != nil {
		return err
	}
	if !r.wishlist.Contains(id) {
		return r.writePlain("Property #%d is not in your wishlist.\n", id)
	}

	ok, err := r.confirm(cmd.Bool("yes"), "Remove property #%d from your wishlist?", id)
	if err != nil || !ok {
		return err
	}

	return r.wishlist.Remove(ctx, id)
}

// WishlistContains reports whether a property is saved.
func (r *Runner) WishlistContains(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if _, err := r.loadWishlist(ctx, false); err != nil {
		return err
	}

	if r.wishlist.Contains(id) {
		return r.writePlain("♥ Property #%d is in your wishlist\n", id)
	}
	return r.writePlain("Property #%d is not in your wishlist\n", id)
}

// WishlistExport refetches every saved property and exports them.
func (r *Runner) WishlistExport(ctx context.Context, cmd *cli.Command) error {
	snap, err := r.loadWishlist(ctx, true)
	if err != nil {
		return err
	}
	if len(snap.Items) == 0 {
		return r.writePlain("Your wishlist is empty; nothing to export.\n")
	}

	ids := make([]int64, 0, len(snap.Items))
	for _, item := range snap.Items {
		ids = append(ids, item.AccommodationID())
	}
	return r.runExport(ctx, cmd, ids, "Wishlist")
}

func wishlistCommand(r *Runner) *cli.Command {
	idArgument := []cli.Argument{&cli.StringArg{Name: "id"}}

	return &cli.Command{
		Name:    "wishlist",
		Aliases: []string{"wl"},
		Usage:   "Manage saved properties",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved properties",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "Bypass the cache"},
				}, jsonFlags()...),
				Action: r.WishlistList,
			},
			{
				Name:      "add",
				Usage:     "Save a property",
				Arguments: idArgument,
				Action:    r.WishlistAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a saved property",
				Arguments: idArgument,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
				},
				Action: r.WishlistRemove,
			},
			{
				Name:      "contains",
				Usage:     "Check whether a property is saved",
				Arguments: idArgument,
				Action:    r.WishlistContains,
			},
			{
				Name:   "export",
				Usage:  "Export saved properties",
				Flags:  exportFlags(),
				Action: r.WishlistExport,
			},
		},
	}
}
