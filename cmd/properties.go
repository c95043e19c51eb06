package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/staybook/internal/formatter"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/services"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/desertthunder/staybook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PropertiesList lists all, available, or available-between-dates properties.
func (r *Runner) PropertiesList(ctx context.Context, cmd *cli.Command) error {
	checkIn, err := dateFlag(cmd, "check-in")
	if err != nil {
		return err
	}
	checkOut, err := dateFlag(cmd, "check-out")
	if err != nil {
		return err
	}
	types := upper(cmd.StringSlice("type"))

	var list []models.Accommodation
	switch {
	case !checkIn.IsZero() || !checkOut.IsZero():
		if checkIn.IsZero() || checkOut.IsZero() {
			return fmt.Errorf("%w: --check-in and --check-out go together", shared.ErrMissingArgument)
		}
		list, err = r.client.AvailableByDateAndType(ctx, checkIn.Format(time.DateOnly), checkOut.Format(time.DateOnly), types)
	case cmd.Bool("available"):
		list, err = r.client.AvailableProperties(ctx)
	default:
		list, err = r.client.AllProperties(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list properties: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, cmd.Bool("pretty"))
	}

	r.loadWishlistQuietly(ctx)
	r.writeProperties(list)
	return nil
}

// PropertiesGet shows one property with its review summary.
//
// With --toggle-wishlist the property is added to or removed from the wishlist without a prompt.
func (r *Runner) PropertiesGet(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	property, err := r.client.Property(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch property %d: %w", id, err)
	}

	if cmd.Bool("toggle-wishlist") {
		if err := r.toggleWishlist(ctx, id); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(property, cmd.Bool("pretty"))
	}

	r.loadWishlistQuietly(ctx)
	r.writePlainHeader(property.Name)
	r.writePlain("ID: %d\n", property.AccommodationID)
	r.writePlain("Type: %s\n", property.Type)
	r.writePlain("Location: %s\n", property.Location)
	r.writePlain("Price: %s\n", formatter.FormatNightly(property.PricePerNight))
	if property.AverageRating > 0 {
		r.writePlain("Rating: %.1f\n", property.AverageRating)
	}
	if amenities := property.AmenityList(); len(amenities) > 0 {
		r.writePlain("Amenities: %s\n", strings.Join(amenities, ", "))
	}
	if !property.Availability {
		r.writePlain("Availability: ✗ not available\n")
	}
	if r.wishlist.Contains(id) {
		r.writePlain("Wishlist: ♥ saved\n")
	}
	if property.Description != "" {
		r.writePlainln("%s", property.Description)
	}

	summary, err := r.client.ReviewSummary(ctx, id)
	if err != nil {
		r.logger.Warn("failed to load review summary", "accommodation_id", id, "error", err)
		return nil
	}
	r.writeReviewSummary(summary)
	return nil
}

// toggleWishlist flips id's wishlist membership and waits for the store to settle.
func (r *Runner) toggleWishlist(ctx context.Context, id int64) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.wishlist.Refresh(ctx, false); err != nil {
		return fmt.Errorf("failed to load wishlist: %w", err)
	}

	var err error
	if r.wishlist.Contains(id) {
		err = r.wishlist.Remove(ctx, id)
	} else {
		err = r.wishlist.Add(ctx, id)
	}
	r.wishlist.Wait()
	return err
}

// loadWishlistQuietly refreshes the wishlist for ♥ markers; anonymous users and failures
// simply get no markers.
func (r *Runner) loadWishlistQuietly(ctx context.Context) {
	if !r.session.IsAuthenticated() {
		return
	}
	if err := r.wishlist.Refresh(ctx, false); err != nil {
		r.logger.Debug("wishlist unavailable for listing", "error", err)
	}
}

// PropertiesTypes lists the property types the API knows about.
func (r *Runner) PropertiesTypes(ctx context.Context, cmd *cli.Command) error {
	types, err := r.client.PropertyTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch property types: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(types, false)
	}
	for _, t := range types {
		r.writePlain("%s\n", t)
	}
	return nil
}

// PropertiesSearch searches by location and optional dates and types.
func (r *Runner) PropertiesSearch(ctx context.Context, cmd *cli.Command) error {
	checkIn, err := dateFlag(cmd, "check-in")
	if err != nil {
		return err
	}
	checkOut, err := dateFlag(cmd, "check-out")
	if err != nil {
		return err
	}

	params := services.SearchParams{
		Location: strings.TrimSpace(cmd.StringArg("location")),
		Types:    upper(cmd.StringSlice("type")),
	}
	if params.Location == "" {
		return fmt.Errorf("%w: location", shared.ErrMissingArgument)
	}
	if !checkIn.IsZero() {
		params.CheckIn = checkIn.Format(time.DateOnly)
	}
	if !checkOut.IsZero() {
		params.CheckOut = checkOut.Format(time.DateOnly)
	}

	r.logger.Info("searching properties", "location", params.Location)

	list, err := r.client.Search(ctx, params)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, cmd.Bool("pretty"))
	}

	r.loadWishlistQuietly(ctx)
	r.writeProperties(list)
	return nil
}

// PropertiesAdd lists a new property for the logged-in owner.
func (r *Runner) PropertiesAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if !r.session.IsOwner() && !r.session.IsAdmin() {
		return fmt.Errorf("%w: only owners can list properties", shared.ErrAuthRequired)
	}

	p := models.NewProperty{
		Name:          strings.TrimSpace(cmd.String("name")),
		Description:   strings.TrimSpace(cmd.String("description")),
		Type:          strings.ToUpper(cmd.String("type")),
		PricePerNight: cmd.Float("price"),
		Location:      strings.TrimSpace(cmd.String("location")),
		Latitude:      cmd.Float("lat"),
		Longitude:     cmd.Float("lon"),
		Amenities:     cmd.StringSlice("amenity"),
		PhotoPath:     cmd.String("photo"),
	}
	if err := shared.Validate(p); err != nil {
		return err
	}

	created, err := r.client.AddProperty(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to add property: %w", err)
	}

	if created == nil {
		return r.writePlain("✓ Property submitted\n")
	}
	r.logger.Info("added property", "accommodation_id", created.AccommodationID)
	return r.writePlain("✓ Listed %s (#%d)\n", created.Name, created.AccommodationID)
}

// PropertiesDelete removes a property after confirmation.
func (r *Runner) PropertiesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.requireAuth(); err != nil {
		return err
	}

	ok, err := r.confirm(cmd.Bool("yes"), "Delete property #%d? This cannot be undone.", id)
	if err != nil || !ok {
		return err
	}

	if err := r.client.DeleteProperty(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property %d: %w", id, err)
	}

	r.logger.Info("deleted property", "accommodation_id", id)
	return r.writePlain("✓ Deleted property #%d\n", id)
}

// PropertiesMap prints, and optionally opens, a map link for the property.
func (r *Runner) PropertiesMap(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	property, err := r.client.Property(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch property %d: %w", id, err)
	}
	if !property.HasCoordinates() {
		return fmt.Errorf("%w: property %d has no coordinates", shared.ErrNotFound, id)
	}

	link := shared.MapURL(property.Latitude, property.Longitude, int(cmd.Int("zoom")))
	r.writePlain("%s\n", link)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(link); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return nil
}

// PropertiesCached lists properties cached by earlier fetches, for offline browsing.
func (r *Runner) PropertiesCached(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: property cache needs the client database (staybook setup database)", shared.ErrStorage)
	}

	criteria := map[string]any{}
	if loc := cmd.String("location"); loc != "" {
		criteria["location"] = loc
	}
	if kind := cmd.String("type"); kind != "" {
		criteria["type"] = strings.ToUpper(kind)
	}
	if cmd.IsSet("max-price") {
		criteria["max_price"] = cmd.Float("max-price")
	}

	list, err := r.cache.Cached(criteria)
	if err != nil {
		return fmt.Errorf("failed to read cached properties: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, cmd.Bool("pretty"))
	}
	r.writeProperties(list)
	return nil
}

// PropertiesExport fetches properties by id and writes them in the requested format.
func (r *Runner) PropertiesExport(ctx context.Context, cmd *cli.Command) error {
	ids, err := idArgs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one property id", shared.ErrMissingArgument)
	}
	return r.runExport(ctx, cmd, ids, "Properties")
}

// runExport drives [tasks.Engine.Export] and prints its progress.
func (r *Runner) runExport(ctx context.Context, cmd *cli.Command, ids []int64, title string) error {
	opts := tasks.ExportOpts{
		BulkFetchOpts: tasks.BulkFetchOpts{
			NumWorkers: r.config.Export.Workers,
			RateLimit:  r.config.Export.RateLimit,
		},
		Title:     title,
		Format:    cmd.String("format"),
		OutputDir: cmd.String("output"),
		Name:      cmd.String("name"),
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = int(cmd.Int("workers"))
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchProperties:
				if update.Step == 0 {
					r.writePlain("📥 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			default:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Export(ctx, progressCh, ids, opts)
	close(progressCh)
	<-done

	if err != nil {
		if errors.Is(err, shared.ErrInvalidArgument) {
			return fmt.Errorf("%w (use csv, markdown, txt or json)", err)
		}
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Exported: %d/%d\n", result.Fetch.Succeeded, result.Fetch.Total)
	for _, f := range result.Files {
		r.writePlain("  %s\n", f)
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}

func upper(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, markdown, txt or json", Value: "json"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory (default: staybook_export_<epoch>)"},
		&cli.StringFlag{Name: "name", Usage: "Base file name", Value: "properties"},
		&cli.IntFlag{Name: "workers", Usage: "Concurrent fetches (max 10)"},
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
	}
}

func propertiesCommand(r *Runner) *cli.Command {
	idArgument := []cli.Argument{&cli.StringArg{Name: "id"}}
	dateFlags := []cli.Flag{
		&cli.StringFlag{Name: "check-in", Usage: "Check-in date (yyyy-mm-dd)"},
		&cli.StringFlag{Name: "check-out", Usage: "Check-out date (yyyy-mm-dd)"},
		&cli.StringSliceFlag{Name: "type", Aliases: []string{"t"}, Usage: "Property type filter (repeatable)"},
	}

	return &cli.Command{
		Name:    "properties",
		Aliases: []string{"props", "p"},
		Usage:   "Browse and manage properties",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List properties",
				Flags: append(append([]cli.Flag{
					&cli.BoolFlag{Name: "available", Aliases: []string{"a"}, Usage: "Only available properties"},
				}, dateFlags...), jsonFlags()...),
				Action: r.PropertiesList,
			},
			{
				Name:      "get",
				Usage:     "Show a property",
				Arguments: idArgument,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "toggle-wishlist", Aliases: []string{"w"}, Usage: "Add to or remove from the wishlist"},
				}, jsonFlags()...),
				Action: r.PropertiesGet,
			},
			{
				Name:   "types",
				Usage:  "List property types",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.PropertiesTypes,
			},
			{
				Name:      "search",
				Usage:     "Search available properties by location",
				Arguments: []cli.Argument{&cli.StringArg{Name: "location"}},
				Flags:     append(append([]cli.Flag{}, dateFlags...), jsonFlags()...),
				Action:    r.PropertiesSearch,
			},
			{
				Name:  "add",
				Usage: "List a new property (owners only)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Property name", Required: true},
					&cli.StringFlag{Name: "description", Usage: "Description", Required: true},
					&cli.StringFlag{Name: "type", Usage: "Property type", Value: models.PropertyTypeHotel},
					&cli.FloatFlag{Name: "price", Usage: "Price per night", Required: true},
					&cli.StringFlag{Name: "location", Usage: "City", Required: true},
					&cli.FloatFlag{Name: "lat", Usage: "Latitude"},
					&cli.FloatFlag{Name: "lon", Usage: "Longitude"},
					&cli.StringSliceFlag{Name: "amenity", Usage: "Amenity (repeatable)"},
					&cli.StringFlag{Name: "photo", Usage: "Path to a photo to upload"},
				},
				Action: r.PropertiesAdd,
			},
			{
				Name:      "delete",
				Usage:     "Delete a property",
				Arguments: idArgument,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
				},
				Action: r.PropertiesDelete,
			},
			{
				Name:      "map",
				Usage:     "Print a map link for a property",
				Arguments: idArgument,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "zoom", Usage: "Map zoom level", Value: 15},
					&cli.BoolFlag{Name: "open", Usage: "Open the link in a browser"},
				},
				Action: r.PropertiesMap,
			},
			{
				Name:  "cached",
				Usage: "List properties cached by earlier fetches",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "location", Usage: "Exact location"},
					&cli.StringFlag{Name: "type", Usage: "Property type"},
					&cli.FloatFlag{Name: "max-price", Usage: "Maximum nightly price"},
				}, jsonFlags()...),
				Action: r.PropertiesCached,
			},
			{
				Name:      "export",
				Usage:     "Fetch properties by id and export them",
				ArgsUsage: "<id> [id...]",
				Flags:     exportFlags(),
				Action:    r.PropertiesExport,
			},
		},
	}
}
